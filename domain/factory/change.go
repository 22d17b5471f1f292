package factory

import (
	"math/big"

	"github.com/kreana/goapi/domain"
)

// Balance is the native balance of an account in wei
type Balance struct {
	Address domain.Address
	Amount  *big.Int
}

// BidChange sets the bid under Key, a nil Bid removes it
type BidChange struct {
	Key BidKey
	Bid *Bid
}

// NftChange sets the token under Key, a nil Nft removes it
type NftChange struct {
	Key NftKey
	Nft *Nft
}

// ChangeSet is everything a committed transaction wrote. Holdings with a zero
// amount and revoked approvals are deleted from the store.
type ChangeSet struct {
	Receipt       *Receipt
	Meta          *Meta
	CreatorTokens []CreatorToken
	Holdings      []Holding
	Operators     []OperatorApproval
	Bids          []BidChange
	Balances      []Balance
	Collections   []Collection
	Nfts          []NftChange
	NftOperators  []NftOperatorApproval
}

// Snapshot is the whole persisted ledger state
type Snapshot struct {
	Meta          Meta
	CreatorTokens []CreatorToken
	Holdings      []Holding
	Operators     []OperatorApproval
	Bids          []Bid
	Balances      []Balance
	Collections   []Collection
	Nfts          []Nft
	NftOperators  []NftOperatorApproval
}
