package main

import (
	"fmt"

	"github.com/astego/cryptostego/core"
	"github.com/spf13/cobra"
)

func newScoreCmd() *cobra.Command {
	var cover string
	cmd := &cobra.Command{
		Use:   "score",
		Short: "report a raster cover's steganographic suitability",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cover == "" {
				return fmt.Errorf("--cover is required")
			}
			result, err := core.Score(cover)
			if err != nil {
				return reportError(err)
			}
			fmt.Printf("score:      %d/100 (%s)\n", result.Score, result.Label)
			fmt.Printf("entropy:    %.4f\n", result.Entropy)
			fmt.Printf("texture:    %.4f\n", result.Texture)
			fmt.Printf("resolution: %.4f\n", result.Resolution)
			return nil
		},
	}
	cmd.Flags().StringVar(&cover, "cover", "", "path to the raster cover file (required)")
	return cmd
}
