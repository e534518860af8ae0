package main

import (
	"fmt"

	"github.com/astego/cryptostego/models"
	"github.com/spf13/cobra"
)

func newCiphersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ciphers",
		Short: "list the supported AEAD ciphers and their key/nonce sizes",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Printf("%-20s %10s %10s\n", "CIPHER", "KEY BYTES", "NONCE BYTES")
			for _, c := range models.SupportedCiphers {
				fmt.Printf("%-20s %10d %10d\n", c.ID, c.KeyBytes, c.NonceBytes)
			}
			return nil
		},
	}
}
