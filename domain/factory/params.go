package factory

import (
	"math/big"

	"github.com/kreana/goapi/domain"
)

// Params of the curve and fees, fees and margin are in basis points
type Params struct {
	PlatformFee    uint64
	MaxPlatformFee uint64
	ProfitMargin   uint64
	BasePrice      *big.Int
	Slope          *big.Int
}

func DefaultParams() Params {
	return Params{
		PlatformFee:    100,
		MaxPlatformFee: 1000,
		ProfitMargin:   2000,
		BasePrice:      big.NewInt(1e12),
		Slope:          big.NewInt(1e9),
	}
}

// Treasury holds the factory's accounting
type Treasury struct {
	TotalPlatformFees *big.Int
	PlatformFeesOwed  *big.Int
	EscrowTotal       *big.Int
	ReserveTotal      *big.Int
	// TotalValueLocked is the native balance of the factory
	TotalValueLocked *big.Int
	// Surplus is the part of the balance no one has a claim on
	Surplus *big.Int
}

// Meta is the singleton ledger state
type Meta struct {
	Owner             domain.Address
	Params            Params
	BlockNumber       uint64
	CreatorTokenCount uint64
	TotalPlatformFees *big.Int
	PlatformFeesOwed  *big.Int
	EscrowTotal       *big.Int
	ReserveTotal      *big.Int
}

// Genesis is applied when the ledger starts from an empty store
type Genesis struct {
	Owner       domain.Address
	Params      Params
	Allocations map[domain.Address]*big.Int
}
