package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/xerrors"

	"github.com/kreana/goapi/base/ethereum"
)

const defaultTemplate = "Welcome to Kreana!\n\nSign this message to log in.\n\nNonce: %s"

func newSignCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "sign --key <hex key> --nonce <nonce>",
		Short: "Sign the login message of a nonce from POST /auth/nonce",
		Args:  cobra.NoArgs,
		RunE:  sign,
	}
	c.Flags().String("key", "", "hex encoded private key")
	c.Flags().String("nonce", "", "nonce returned by the api")
	c.Flags().String("template", defaultTemplate, "signing message template, %s is the nonce")
	_ = c.MarkFlagRequired("key")
	_ = c.MarkFlagRequired("nonce")
	return c
}

func sign(c *cobra.Command, args []string) error {
	flags := c.Flags()
	keyHex, _ := flags.GetString("key")
	nonce, _ := flags.GetString("nonce")
	template, _ := flags.GetString("template")

	key, err := ethereum.DecodeKey(keyHex)
	if err != nil {
		return xerrors.Errorf("invalid key: %w", err)
	}
	sig, err := ethereum.SignMsg([]byte(fmt.Sprintf(template, nonce)), key)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.OutOrStdout(), "address:   %s\nsignature: %s\n", ethereum.AddressOf(&key.PublicKey), sig)
	return nil
}
