package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/astego/cryptostego/core"
	"github.com/astego/cryptostego/models"
	"github.com/rs/zerolog/log"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

type embedFlags struct {
	cover         string
	secret        string
	out           string
	key           string
	cipher        string
	mode          string
	passphrase    string
	force         bool
	noScore       bool
	ecc           bool
	infoType      string
	deniable      bool
	decoySecret   string
	decoyKey      string
	decoyCipher   string
	decoyPassword string
}

func newEmbedCmd() *cobra.Command {
	f := &embedFlags{}
	cmd := &cobra.Command{
		Use:   "embed",
		Short: "conceal a payload inside a cover file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEmbed(f)
		},
	}

	fl := cmd.Flags()
	fl.StringVar(&f.cover, "cover", "", "path to the cover file (required)")
	fl.StringVar(&f.secret, "secret", "", "path to the payload to conceal (required)")
	fl.StringVar(&f.out, "out", "", "path to write the stego file (required)")
	fl.StringVar(&f.key, "key", "", "path to write the sidecar key file (required)")
	fl.StringVar(&f.cipher, "cipher", string(models.CipherChaCha20Poly1305), "AEAD cipher: Ascon-128, ChaCha20-Poly1305, AES-256-GCM")
	fl.StringVar(&f.mode, "mode", string(models.ModeAdaptive), "position mode: adaptive, sequential (ignored for JPEG covers)")
	fl.StringVar(&f.passphrase, "passphrase", "", "passphrase (insecure: visible in shell history; omit to be prompted)")
	fl.BoolVar(&f.force, "force", false, "overwrite existing output/key files")
	fl.BoolVar(&f.noScore, "no-score", false, "skip the cover quality warning before embedding")
	fl.BoolVar(&f.ecc, "ecc", false, "wrap the framed payload in a Reed-Solomon integrity shard")
	fl.StringVar(&f.infoType, "info-type", "", "free-form label recorded in the sidecar's info_type field")
	fl.BoolVar(&f.deniable, "deniable", false, "embed two independent payloads under the plausible-deniability split")
	fl.StringVar(&f.decoySecret, "decoy-secret", "", "path to the decoy payload (required with --deniable)")
	fl.StringVar(&f.decoyKey, "decoy-key", "", "path to write the decoy sidecar key file (required with --deniable)")
	fl.StringVar(&f.decoyCipher, "decoy-cipher", string(models.CipherAES256GCM), "AEAD cipher for the decoy payload")
	fl.StringVar(&f.decoyPassword, "decoy-passphrase", "", "passphrase for the decoy payload (required with --deniable)")

	return cmd
}

func runEmbed(f *embedFlags) error {
	if f.cover == "" || f.secret == "" || f.out == "" || f.key == "" {
		return fmt.Errorf("--cover, --secret, --out, and --key are required")
	}
	if err := checkOutputAllowed(f.out, f.force); err != nil {
		return reportError(err)
	}
	if err := checkOutputAllowed(f.key, f.force); err != nil {
		return reportError(err)
	}

	if !f.noScore {
		warnIfPoorCover(f.cover)
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

	secret, err := os.ReadFile(f.secret)
	if err != nil {
		return reportError(models.NewError(models.KindMalformedCover, "failed to read secret file "+f.secret, err))
	}

	if f.deniable {
		return runEmbedDeniable(f, secret)
	}

	bar := progressbar.DefaultBytes(int64(len(secret)), "embedding")
	defer bar.Close()

	opts := models.EmbedOptions{
		CipherID:   models.CipherID(f.cipher),
		Mode:       models.StegMode(strings.ToLower(f.mode)),
		Passphrase: passphrase,
		InfoType:   f.infoType,
		ECC:        f.ecc,
	}
	if err := core.EmbedFile(f.cover, secret, f.out, f.key, opts); err != nil {
		return reportError(err)
	}
	_ = bar.Add(len(secret))
	log.Info().Str("out", f.out).Str("key", f.key).Msg("embed complete")
	return nil
}

func runEmbedDeniable(f *embedFlags, realSecret []byte) error {
	if f.decoySecret == "" || f.decoyKey == "" || f.decoyPassword == "" {
		return fmt.Errorf("--deniable requires --decoy-secret, --decoy-key, and --decoy-passphrase")
	}
	if err := checkOutputAllowed(f.decoyKey, f.force); err != nil {
		return reportError(err)
	}
	decoySecret, err := os.ReadFile(f.decoySecret)
	if err != nil {
		return reportError(models.NewError(models.KindMalformedCover, "failed to read decoy secret file "+f.decoySecret, err))
	}

	opts := models.DeniableEmbedOptions{
		RealCipherID:  models.CipherID(f.cipher),
		DecoyCipherID: models.CipherID(f.decoyCipher),
		RealPassword:  f.passphrase,
		DecoyPassword: f.decoyPassword,
	}
	if opts.RealPassword == "" {
		p, err := promptPassphrase("real payload passphrase: ")
		if err != nil {
			return err
		}
		opts.RealPassword = p
	}

	result, err := core.EmbedDeniableFile(f.cover, realSecret, decoySecret, f.out, f.key, f.decoyKey, opts)
	if err != nil {
		return reportError(err)
	}
	log.Info().
		Str("out", result.OutputPath).
		Str("real_key", result.RealSidecarPath).
		Str("decoy_key", result.DecoySidecarPath).
		Msg("deniable embed complete")
	return nil
}

// warnIfPoorCover runs score() ahead of embedding and logs a warning for a
// cover the heuristic flags as likely to leak an embed under statistical
// analysis. It never blocks the embed; --no-score only silences the check.
func warnIfPoorCover(coverPath string) {
	result, err := core.Score(coverPath)
	if err != nil {
		// Score is only defined for raster covers; WAV/JPEG covers skip silently.
		return
	}
	if result.Label == models.LabelPoor || result.Label == models.LabelFair {
		log.Warn().Int("score", result.Score).Str("label", string(result.Label)).Msg("cover quality is low; embedded data may be statistically detectable")
	}
}
