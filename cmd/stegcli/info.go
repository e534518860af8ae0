package main

import (
	"fmt"
	"os"

	"github.com/astego/cryptostego/core"
	"github.com/astego/cryptostego/models"
	"github.com/astego/cryptostego/sidecar"
	"github.com/spf13/cobra"
)

// newInfoCmd is a read-only dump of a sidecar's fields plus best-effort
// cover metadata, grounded on andresmejia3-Hide's Verify operation shape:
// load, parse header, report, touch nothing.
func newInfoCmd() *cobra.Command {
	var (
		keyPath   string
		coverPath string
		mode      string
	)
	cmd := &cobra.Command{
		Use:   "info",
		Short: "inspect a sidecar key file and/or report cover capacity",
		RunE: func(cmd *cobra.Command, args []string) error {
			if keyPath == "" && coverPath == "" {
				return fmt.Errorf("at least one of --key or --cover is required")
			}
			if keyPath != "" {
				if err := printSidecarInfo(keyPath); err != nil {
					return reportError(err)
				}
			}
			if coverPath != "" {
				if err := printCoverInfo(coverPath, models.StegMode(mode)); err != nil {
					return reportError(err)
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&keyPath, "key", "", "path to a sidecar key file")
	cmd.Flags().StringVar(&coverPath, "cover", "", "path to a cover file")
	cmd.Flags().StringVar(&mode, "mode", string(models.ModeAdaptive), "position mode used for the --cover capacity estimate")
	return cmd
}

func printSidecarInfo(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return models.NewError(models.KindMalformedSidecar, "failed to read sidecar file "+path, err)
	}
	sc, err := sidecar.Decode(raw)
	if err != nil {
		return err
	}
	fmt.Println("-- sidecar --")
	fmt.Printf("cipher:   %s\n", sc.Cipher)
	fmt.Printf("deniable: %t\n", sc.Deniable)
	if !sc.Deniable {
		fmt.Printf("steg_mode: %s\n", sc.StegMode)
	} else {
		fmt.Printf("partition_half: %d\n", sc.PartitionHalf)
	}
	if sc.InfoType != "" {
		fmt.Printf("info_type: %s\n", sc.InfoType)
	}
	fmt.Printf("ecc:      %t\n", sc.ECC)
	return nil
}

func printCoverInfo(path string, mode models.StegMode) error {
	capBytes, err := core.Capacity(path, mode)
	if err != nil {
		return err
	}
	fmt.Println("-- cover --")
	fmt.Printf("path:     %s\n", path)
	fmt.Printf("capacity: %d bytes (mode=%s)\n", capBytes, mode)
	return nil
}
