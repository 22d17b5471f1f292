package factory

import (
	"math/big"

	"github.com/kreana/goapi/domain"
)

// CreatorToken is a bonding curve priced token of a creator
type CreatorToken struct {
	Id             uint64
	CreatorAddress domain.Address
	Name           string
	Symbol         string
	Description    string
	Verified       bool
	Outstanding    uint64
	// MaxSupply is the peak outstanding ever reached
	MaxSupply uint64
	LastPrice *big.Int
	// Reserve backs the sells of this token, it always equals the sell liability of the outstanding units
	Reserve *big.Int
	// SellMargin is the profit margin sells are priced with. It is taken from the params
	// whenever the outstanding supply is zero, so a margin change never outgrows the reserve.
	SellMargin uint64
}

type CreateCreatorTokenParams struct {
	Creator     domain.Address
	Name        string
	Symbol      string
	Description string
}

// CreatorTokenPatch holds the fields a creator may change, nil fields are kept
type CreatorTokenPatch struct {
	CreatorAddress *domain.Address
	Name           *string
	Symbol         *string
	Description    *string
}

func (p CreatorTokenPatch) IsEmpty() bool {
	return p.CreatorAddress == nil && p.Name == nil && p.Symbol == nil && p.Description == nil
}

// Quote prices amount units of a creator token at its current outstanding
type Quote struct {
	TokenId       uint64
	Amount        uint64
	BuyProceeds   *big.Int
	FeeProceeds   *big.Int
	TotalProceeds *big.Int
	// SellProceeds is nil when amount exceeds outstanding
	SellProceeds *big.Int
}
