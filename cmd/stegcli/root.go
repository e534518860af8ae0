package main

import (
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "stegcli",
		Short:         "conceal and recover authenticated payloads inside raster, JPEG, and WAV covers",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	root.AddCommand(
		newEmbedCmd(),
		newExtractCmd(),
		newScoreCmd(),
		newInfoCmd(),
		newCiphersCmd(),
		newWizardCmd(),
	)
	return root
}
