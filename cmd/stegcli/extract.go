package main

import (
	"fmt"
	"os"

	"github.com/astego/cryptostego/core"
	"github.com/astego/cryptostego/models"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

type extractFlags struct {
	stego      string
	key        string
	out        string
	passphrase string
	force      bool
	deniable   bool
}

func newExtractCmd() *cobra.Command {
	f := &extractFlags{}
	cmd := &cobra.Command{
		Use:   "extract",
		Short: "recover a payload previously embedded with stegcli embed",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExtract(f)
		},
	}

	fl := cmd.Flags()
	fl.StringVar(&f.stego, "stego", "", "path to the stego file (required)")
	fl.StringVar(&f.key, "key", "", "path to the sidecar key file (required)")
	fl.StringVar(&f.out, "out", "", "path to write the recovered payload (required)")
	fl.StringVar(&f.passphrase, "passphrase", "", "passphrase (insecure: visible in shell history; omit to be prompted)")
	fl.BoolVar(&f.force, "force", false, "overwrite an existing --out file")
	fl.BoolVar(&f.deniable, "deniable", false, "treat --key as one half of a deniable split")

	return cmd
}

func runExtract(f *extractFlags) error {
	if f.stego == "" || f.key == "" || f.out == "" {
		return fmt.Errorf("--stego, --key, and --out are required")
	}
	if err := checkOutputAllowed(f.out, f.force); err != nil {
		return reportError(err)
	}

	passphrase := f.passphrase
	if passphrase == "" {
		p, err := promptPassphrase("payload passphrase: ")
		if err != nil {
			return err
		}
		passphrase = p
	} else {
		warnInsecurePassphraseFlag()
	}

	var (
		payload []byte
		err     error
	)
	if f.deniable {
		payload, err = core.ExtractDeniableFile(f.stego, f.key, passphrase)
	} else {
		payload, err = core.ExtractFile(f.stego, f.key, passphrase)
	}
	if err != nil {
		return reportError(err)
	}

	if err := os.WriteFile(f.out, payload, 0o600); err != nil {
		return reportError(models.NewError(models.KindMalformedCover, "failed to write output file "+f.out, err))
	}
	log.Info().Str("out", f.out).Int("bytes", len(payload)).Msg("extract complete")
	return nil
}
