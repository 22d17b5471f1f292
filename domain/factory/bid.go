package factory

import (
	"math/big"

	"github.com/kreana/goapi/domain"
)

// Bid is a collection wide offer to buy Quantity NFTs at WeiPriceEach
type Bid struct {
	Bidder       domain.Address
	NftAddress   domain.Address
	WeiPriceEach *big.Int
	Quantity     uint64
	// TokenId is 0 until the bid is hit, then the last filled token
	TokenId domain.TokenId
	// Escrow is the value still held for this bid
	Escrow *big.Int
}

// BidKey identifies the single active bid of a bidder on a collection
type BidKey struct {
	Bidder     domain.Address
	NftAddress domain.Address
}

func (b *Bid) Key() BidKey {
	return BidKey{Bidder: b.Bidder, NftAddress: b.NftAddress}
}
