package factory

import (
	"github.com/kreana/goapi/domain"
)

// Collection is an ERC-721 collection hosted by the ledger
type Collection struct {
	Address domain.Address
	Name    string
	Symbol  string
	// Admin may mint into the collection
	Admin domain.Address
}

type NftKey struct {
	Collection domain.Address
	TokenId    domain.TokenId
}

type Nft struct {
	Collection domain.Address
	TokenId    domain.TokenId
	Owner      domain.Address
	// Approved may transfer this token once, cleared on transfer
	Approved domain.Address
}

func (n *Nft) Key() NftKey {
	return NftKey{Collection: n.Collection, TokenId: n.TokenId}
}

// NftOperatorApproval lets Operator transfer every token of Owner in Collection
type NftOperatorApproval struct {
	Collection domain.Address
	Owner      domain.Address
	Operator   domain.Address
	Approved   bool
}
