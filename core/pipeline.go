package core

import (
	"os"

	"github.com/astego/cryptostego/models"
	"github.com/astego/cryptostego/sidecar"
)

// EmbedResult is what a full embed pipeline call reports back to its
// caller (CLI or HTTP handler) once the stego file and sidecar both exist.
type EmbedResult struct {
	OutputPath  string
	SidecarPath string
}

// EmbedFile is the full single-payload pipeline spec.md §2's data-flow
// diagram describes end to end: compress+encrypt (C5), frame (C2), embed
// (C3/C4), then write a sidecar (C7) carrying everything Extract needs
// except the passphrase. It is the composition the CLI's `embed` command
// and the HTTP `/embed` handler both call.
func EmbedFile(coverPath string, payload []byte, outputPath, sidecarPath string, opts models.EmbedOptions) error {
	if !opts.Mode.IsValid() {
		opts.Mode = models.ModeAdaptive
	}

	env, dk, err := Encrypt(payload, opts.Passphrase, opts.CipherID)
	if err != nil {
		return err
	}
	defer dk.Zero()

	if err := Embed(coverPath, env.Ciphertext, outputPath, dk, opts.Mode, opts.ECC); err != nil {
		return err
	}

	sc := sidecar.Sidecar{
		Cipher:   env.CipherID,
		StegMode: opts.Mode,
		Deniable: false,
		Nonce:    env.Nonce,
		Salt:     env.Salt,
		InfoType: opts.InfoType,
		ECC:      opts.ECC,
	}
	return os.WriteFile(sidecarPath, sidecar.Encode(sc), 0o600)
}

// ExtractFile inverts EmbedFile: parse the sidecar, re-derive the key,
// pull the framed ciphertext back out of the cover, then authenticate and
// decrypt it.
func ExtractFile(stegoPath, sidecarPath, passphrase string) ([]byte, error) {
	raw, err := os.ReadFile(sidecarPath)
	if err != nil {
		return nil, models.NewError(models.KindMalformedSidecar, "failed to read sidecar file "+sidecarPath, err)
	}
	sc, err := sidecar.Decode(raw)
	if err != nil {
		return nil, err
	}
	if sc.Deniable {
		return nil, models.NewError(models.KindModeMismatch, "sidecar is deniable; use ExtractDeniableFile", nil)
	}

	dk, err := DeriveKey(passphrase, sc.Salt, sc.Cipher)
	if err != nil {
		return nil, err
	}
	defer dk.Zero()

	ciphertext, err := Extract(stegoPath, dk, sc.StegMode, sc.ECC)
	if err != nil {
		return nil, normalizeExtractionError(err)
	}

	env := models.Envelope{CipherID: sc.Cipher, Ciphertext: ciphertext, Nonce: sc.Nonce, Salt: sc.Salt}
	return Decrypt(env, passphrase)
}

// normalizeExtractionError folds the framing-layer errors a wrong derived
// key produces (a bogus length header decodes into ShortRead,
// OversizeHeader, or CoverTooSmall about as often as it decodes into
// something AEAD then rejects) into AuthFail. Spec.md §7's error policy
// requires cryptographic failure to surface exactly as AuthFail with no
// distinguishing between wrong key and tampered stego; letting a framing
// error leak past this point would make that distinction visible again.
func normalizeExtractionError(err error) error {
	switch models.KindOf(err) {
	case models.KindShortRead, models.KindOversizeHeader, models.KindCoverTooSmall:
		return models.NewError(models.KindAuthFail, "authentication failed", err)
	default:
		return err
	}
}

// DeniableResult is what EmbedDeniableFile reports: two sidecar paths, one
// per payload, both structurally identical and both referencing the same
// stego output (spec.md §4.6: "both sidecars record the same
// partition_seed and their own partition_half").
type DeniableResult struct {
	OutputPath       string
	RealSidecarPath  string
	DecoySidecarPath string
}

// EmbedDeniableFile runs the C6 dual-payload pipeline: encrypt both
// payloads independently (they may use different ciphers and passphrases),
// partition the cover's adaptive slot sequence, embed each half, and write
// one sidecar per payload.
func EmbedDeniableFile(coverPath string, realPayload, decoyPayload []byte, outputPath, realSidecarPath, decoySidecarPath string, opts models.DeniableEmbedOptions) (DeniableResult, error) {
	realEnv, realKey, err := Encrypt(realPayload, opts.RealPassword, opts.RealCipherID)
	if err != nil {
		return DeniableResult{}, err
	}
	defer realKey.Zero()

	decoyEnv, decoyKey, err := Encrypt(decoyPayload, opts.DecoyPassword, opts.DecoyCipherID)
	if err != nil {
		return DeniableResult{}, err
	}
	defer decoyKey.Zero()

	partitionSeed, realHalf, err := EmbedDeniable(coverPath, realEnv.Ciphertext, decoyEnv.Ciphertext, outputPath, realKey, decoyKey)
	if err != nil {
		return DeniableResult{}, err
	}
	decoyHalf := 1 - realHalf

	realSidecar := sidecar.Sidecar{
		Cipher:        realEnv.CipherID,
		Deniable:      true,
		Nonce:         realEnv.Nonce,
		Salt:          realEnv.Salt,
		PartitionSeed: partitionSeed[:],
		PartitionHalf: realHalf,
	}
	decoySidecar := sidecar.Sidecar{
		Cipher:        decoyEnv.CipherID,
		Deniable:      true,
		Nonce:         decoyEnv.Nonce,
		Salt:          decoyEnv.Salt,
		PartitionSeed: partitionSeed[:],
		PartitionHalf: decoyHalf,
	}

	if err := os.WriteFile(realSidecarPath, sidecar.Encode(realSidecar), 0o600); err != nil {
		return DeniableResult{}, models.NewError(models.KindMalformedSidecar, "failed to write real sidecar", err)
	}
	if err := os.WriteFile(decoySidecarPath, sidecar.Encode(decoySidecar), 0o600); err != nil {
		return DeniableResult{}, models.NewError(models.KindMalformedSidecar, "failed to write decoy sidecar", err)
	}

	return DeniableResult{OutputPath: outputPath, RealSidecarPath: realSidecarPath, DecoySidecarPath: decoySidecarPath}, nil
}

// ExtractDeniableFile reads one side (real or decoy, the caller doesn't
// name which) of a deniable stego using its own sidecar and passphrase.
// Presented with only one sidecar and passphrase, there is nothing in this
// call's behavior to distinguish "the real payload" from "the decoy" —
// that asymmetry exists only in the mind of whoever chose which sidecar to
// reveal under coercion.
func ExtractDeniableFile(stegoPath, sidecarPath, passphrase string) ([]byte, error) {
	raw, err := os.ReadFile(sidecarPath)
	if err != nil {
		return nil, models.NewError(models.KindMalformedSidecar, "failed to read sidecar file "+sidecarPath, err)
	}
	sc, err := sidecar.Decode(raw)
	if err != nil {
		return nil, err
	}
	if !sc.Deniable {
		return nil, models.NewError(models.KindModeMismatch, "sidecar is not deniable; use ExtractFile", nil)
	}

	dk, err := DeriveKey(passphrase, sc.Salt, sc.Cipher)
	if err != nil {
		return nil, err
	}
	defer dk.Zero()

	var seed [32]byte
	copy(seed[:], sc.PartitionSeed)

	ciphertext, err := ExtractDeniable(stegoPath, dk, seed, sc.PartitionHalf)
	if err != nil {
		return nil, normalizeExtractionError(err)
	}

	env := models.Envelope{CipherID: sc.Cipher, Ciphertext: ciphertext, Nonce: sc.Nonce, Salt: sc.Salt}
	return Decrypt(env, passphrase)
}
