package factory

import (
	"math/big"

	"github.com/kreana/goapi/domain"
)

// CurveSum is the price of n units minted while the supply goes from s to s+n,
// the unit minted at supply k costs BasePrice + Slope*k
func (p Params) CurveSum(s, n uint64) *big.Int {
	if n == 0 {
		return new(big.Int)
	}
	bn := new(big.Int).SetUint64(n)
	res := new(big.Int).Mul(bn, p.BasePrice)

	// slope * n*(2s+n-1)/2, the product is always even
	tri := new(big.Int).SetUint64(s)
	tri.Lsh(tri, 1)
	tri.Add(tri, bn)
	tri.Sub(tri, domain.Big1)
	tri.Mul(tri, bn)
	tri.Rsh(tri, 1)
	tri.Mul(tri, p.Slope)
	return res.Add(res, tri)
}

// Bps returns points/10000 of v rounded down
func Bps(v *big.Int, points uint64) *big.Int {
	res := new(big.Int).Mul(v, new(big.Int).SetUint64(points))
	return res.Quo(res, domain.BigBasis)
}

func (p Params) FeeProceeds(net *big.Int) *big.Int {
	return Bps(net, p.PlatformFee)
}

// SellLiability is what selling back all outstanding units refunds at the profit margin
func (p Params) SellLiability(outstanding uint64) *big.Int {
	return Bps(p.CurveSum(0, outstanding), domain.BasisPoints-p.ProfitMargin)
}

// SellProceeds refunds amount units at the curve below outstanding minus the profit margin.
// amount must not exceed outstanding.
func (p Params) SellProceeds(outstanding, amount uint64) *big.Int {
	return new(big.Int).Sub(p.SellLiability(outstanding), p.SellLiability(outstanding-amount))
}
