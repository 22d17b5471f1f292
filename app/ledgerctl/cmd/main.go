package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// newRootCmd builds the command tree, every call gets its own flag sets
func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "ledgerctl",
		Short:        "Kreana ledger tooling",
		SilenceUsage: true,
	}
	root.AddCommand(newKeygenCmd(), newSignCmd(), newQuoteCmd())
	return root
}

func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
