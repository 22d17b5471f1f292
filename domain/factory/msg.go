package factory

import (
	"math/big"

	"github.com/kreana/goapi/domain"
)

// Msg is the sender and attached value of a ledger transaction
type Msg struct {
	Sender domain.Address
	Value  *big.Int
}

// NewMsg builds a msg without value
func NewMsg(sender domain.Address) Msg {
	return Msg{Sender: sender, Value: new(big.Int)}
}

// WithValue returns a copy of msg carrying value wei
func (m Msg) WithValue(value *big.Int) Msg {
	m.Value = value
	return m
}
