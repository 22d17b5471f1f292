package factory

import (
	"github.com/kreana/goapi/domain"
)

// Holding is the balance of one creator token held by one account
type Holding struct {
	TokenId uint64
	Owner   domain.Address
	Amount  uint64
}

// OperatorApproval lets Operator move all holdings of Owner
type OperatorApproval struct {
	Owner    domain.Address
	Operator domain.Address
	Approved bool
}
