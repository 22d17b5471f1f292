package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kreana/goapi/base/ethereum"
)

func newKeygenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "keygen",
		Short: "Generate a secp256k1 key and print it with its address",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			key, pub, err := ethereum.GenerateKey()
			if err != nil {
				return err
			}
			fmt.Fprintf(c.OutOrStdout(), "key:     %s\naddress: %s\n", ethereum.EncodeKey(key), ethereum.AddressOf(pub))
			return nil
		},
	}
}
