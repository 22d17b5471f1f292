package cmd

import (
	"fmt"
	"math/big"

	"github.com/spf13/cobra"

	"github.com/kreana/goapi/domain"
	"github.com/kreana/goapi/domain/factory"
)

func newQuoteCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "quote --amount <n>",
		Short: "Price a creator token buy and sell offline",
		Args:  cobra.NoArgs,
		RunE:  quote,
	}
	d := factory.DefaultParams()
	c.Flags().String("base", d.BasePrice.String(), "base price in wei")
	c.Flags().String("slope", d.Slope.String(), "price increase per unit in wei")
	c.Flags().Uint64("outstanding", 0, "units outstanding before the trade")
	c.Flags().Uint64("amount", 1, "units to trade")
	c.Flags().Uint64("fee", d.PlatformFee, "platform fee in basis points")
	c.Flags().Uint64("margin", d.ProfitMargin, "profit margin in basis points")
	return c
}

func quote(c *cobra.Command, args []string) error {
	flags := c.Flags()
	base, _ := flags.GetString("base")
	slope, _ := flags.GetString("slope")
	outstanding, _ := flags.GetUint64("outstanding")
	amount, _ := flags.GetUint64("amount")
	fee, _ := flags.GetUint64("fee")
	margin, _ := flags.GetUint64("margin")

	if amount == 0 {
		return domain.ErrInvalidAmount
	}
	if fee > domain.BasisPoints || margin > domain.BasisPoints {
		return domain.ErrBadParamInput
	}
	p := factory.Params{PlatformFee: fee, ProfitMargin: margin}
	var err error
	if p.BasePrice, err = domain.ParseWei(base); err != nil {
		return err
	}
	if p.Slope, err = domain.ParseWei(slope); err != nil {
		return err
	}

	out := c.OutOrStdout()
	net := p.CurveSum(outstanding, amount)
	feeProceeds := p.FeeProceeds(net)
	total := new(big.Int).Add(net, feeProceeds)
	fmt.Fprintf(out, "buy %d at outstanding %d\n", amount, outstanding)
	fmt.Fprintf(out, "  net:   %s wei (%s ETH)\n", net, domain.WeiToEther(net))
	fmt.Fprintf(out, "  fee:   %s wei (%s ETH)\n", feeProceeds, domain.WeiToEther(feeProceeds))
	fmt.Fprintf(out, "  total: %s wei (%s ETH)\n", total, domain.WeiToEther(total))
	if amount <= outstanding {
		refund := p.SellProceeds(outstanding, amount)
		fmt.Fprintf(out, "sell %d at outstanding %d\n", amount, outstanding)
		fmt.Fprintf(out, "  refund: %s wei (%s ETH)\n", refund, domain.WeiToEther(refund))
	}
	return nil
}
