package usecase

import (
	"math/big"

	"github.com/kreana/goapi/domain/factory"
)

// creatorShare is the profit margin of the units minted above the prior max supply
func creatorShare(p factory.Params, tok *factory.CreatorToken, amount uint64) *big.Int {
	newOutstanding := tok.Outstanding + amount
	if newOutstanding <= tok.MaxSupply {
		return new(big.Int)
	}
	from := tok.Outstanding
	if tok.MaxSupply > from {
		from = tok.MaxSupply
	}
	return factory.Bps(p.CurveSum(from, newOutstanding-from), p.ProfitMargin)
}

// sellParams prices the sells of tok at the margin its reserve was funded with
func sellParams(p factory.Params, tok *factory.CreatorToken) factory.Params {
	p.ProfitMargin = tok.SellMargin
	return p
}

func perUnit(total *big.Int, amount uint64) *big.Int {
	return new(big.Int).Quo(total, new(big.Int).SetUint64(amount))
}
