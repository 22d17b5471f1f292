package factory

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCurveSum(t *testing.T) {
	p := DefaultParams()
	tests := []struct {
		s, n uint64
		exp  string
	}{
		{0, 0, "0"},
		{0, 1, "1000000000000"},
		{0, 10, "10045000000000"},
		{10, 5, "5060000000000"},
		{0, 5000, "17497500000000000"},
	}
	for _, tt := range tests {
		require.Equal(t, tt.exp, p.CurveSum(tt.s, tt.n).String(), "s=%d n=%d", tt.s, tt.n)
	}

	// buying in two steps costs the same as one
	whole := p.CurveSum(3, 9)
	split := new(big.Int).Add(p.CurveSum(3, 4), p.CurveSum(7, 5))
	require.Zero(t, whole.Cmp(split))
}

func TestProceeds(t *testing.T) {
	p := DefaultParams()
	require.Equal(t, "100450000000", p.FeeProceeds(p.CurveSum(0, 10)).String())
	// 80% of the units bought from 0 to 5000
	require.Equal(t, "13998000000000000", p.SellProceeds(5000, 5000).String())
	require.Equal(t, "0", Bps(big.NewInt(9999), 1).String())

	// selling in steps refunds exactly the liability of the whole supply
	p.Slope = big.NewInt(7)
	p.BasePrice = big.NewInt(3)
	p.ProfitMargin = 3333
	partial := new(big.Int)
	outstanding := uint64(20)
	for _, n := range []uint64{1, 7, 3, 9} {
		partial.Add(partial, p.SellProceeds(outstanding, n))
		outstanding -= n
	}
	require.Zero(t, partial.Cmp(p.SellLiability(20)))
}
