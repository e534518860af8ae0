package core

import (
	"crypto/rand"
	"io"

	"github.com/astego/cryptostego/bitstream"
	"github.com/astego/cryptostego/cryptoenv"
	"github.com/astego/cryptostego/deniable"
	"github.com/astego/cryptostego/ecc"
	"github.com/astego/cryptostego/models"
	"github.com/astego/cryptostego/position"
	"github.com/astego/cryptostego/score"
	"github.com/astego/cryptostego/stegio"
)

// Encrypt runs the C5 pipeline over plaintext: compress, derive a fresh key
// and salt from passphrase, AEAD-encrypt under cipherID. Spec §6 op 1.
// The returned Envelope's Ciphertext field is the only piece that is ever
// embedded in a cover; Nonce, Salt, and CipherID travel in the sidecar.
func Encrypt(plaintext []byte, passphrase string, cipherID models.CipherID) (models.Envelope, models.DerivedKey, error) {
	dk, salt, err := cryptoenv.DeriveKey(passphrase, nil)
	if err != nil {
		return models.Envelope{}, models.DerivedKey{}, err
	}
	env, err := cryptoenv.Encrypt(cipherID, dk, plaintext)
	if err != nil {
		dk.Zero()
		return models.Envelope{}, models.DerivedKey{}, err
	}
	env.Salt = salt
	return env, dk, nil
}

// Decrypt re-derives the key from passphrase and env.Salt and authenticates
// plus decrypts env.Ciphertext. Spec §6 op 2: fails AuthFail, never returns
// partial plaintext.
func Decrypt(env models.Envelope, passphrase string) ([]byte, error) {
	dk, _, err := cryptoenv.DeriveKey(passphrase, env.Salt)
	if err != nil {
		return nil, err
	}
	defer dk.Zero()
	return cryptoenv.Decrypt(env, dk)
}

// DeriveKey runs the Argon2id KDF over passphrase and salt. Spec §6 op 3.
// cipherID is validated but does not change the KDF output; it is only
// truncated to the cipher's key length at encrypt/decrypt time.
func DeriveKey(passphrase string, salt []byte, cipherID models.CipherID) (models.DerivedKey, error) {
	if _, ok := models.LookupCipher(cipherID); !ok {
		return models.DerivedKey{}, models.NewError(models.KindUnsupportedFormat, "unknown cipher id "+string(cipherID), nil)
	}
	dk, _, err := cryptoenv.DeriveKey(passphrase, salt)
	return dk, err
}

// Embed writes ciphertext (already AEAD-sealed by Encrypt) into the cover
// at coverPath and saves the result to outputPath, using key as the C3
// permutation seed for raster adaptive mode. Spec §6 op 4. useECC wraps the
// framed ciphertext in a Reed-Solomon integrity shard before it reaches the
// position engine, the SPEC_FULL supplement recorded alongside the
// sidecar's optional "ecc" field.
func Embed(coverPath string, ciphertext []byte, outputPath string, key models.DerivedKey, mode models.StegMode, useECC bool) error {
	lc, err := loadCover(coverPath)
	if err != nil {
		return err
	}

	innerFramed, err := bitstream.Frame(ciphertext)
	if err != nil {
		return err
	}
	onCover := innerFramed
	if useECC {
		wrapped, werr := ecc.Wrap(innerFramed)
		if werr != nil {
			return werr
		}
		onCover, err = bitstream.Frame(wrapped)
		if err != nil {
			return err
		}
	}
	bits := bitstream.BytesToBits(onCover)

	if err := embedBits(lc, bits, mode, key.Bytes); err != nil {
		return err
	}
	return lc.save(outputPath)
}

// Extract reads back the ciphertext Embed wrote, using the same key and
// mode. Spec §6 op 5. Callers still need the sidecar's nonce/salt/cipher_id
// to turn the returned bytes into plaintext via Decrypt.
func Extract(stegoPath string, key models.DerivedKey, mode models.StegMode, useECC bool) ([]byte, error) {
	lc, err := loadCover(stegoPath)
	if err != nil {
		return nil, err
	}

	onCover, err := extractFramedBytes(func(n int) ([]byte, error) {
		return extractBits(lc, n, mode, key.Bytes)
	})
	if err != nil {
		return nil, err
	}

	innerFramed := onCover
	if useECC {
		wrapped, err := bitstream.UnframeBytes(onCover)
		if err != nil {
			return nil, err
		}
		innerFramed, err = ecc.Unwrap(wrapped)
		if err != nil {
			return nil, err
		}
		return bitstream.UnframeBytes(innerFramed)
	}
	return bitstream.UnframeBytes(innerFramed)
}

// EmbedDeniable partitions the full raster-adaptive slot sequence into two
// disjoint halves under a fresh partition_seed (C6), then embeds
// realCiphertext and decoyCiphertext independently, each half further
// reordered by its own derived key so that holding one payload's key never
// reveals the other half's bit order. Spec §6 op 6. Deniable mode applies
// only to raster+adaptive covers (spec.md §4.6).
func EmbedDeniable(coverPath string, realCiphertext, decoyCiphertext []byte, outputPath string, realKey, decoyKey models.DerivedKey) (partitionSeed [32]byte, realHalf int, err error) {
	lc, err := loadCover(coverPath)
	if err != nil {
		return partitionSeed, 0, err
	}
	if lc.format != models.FormatRasterPNG {
		return partitionSeed, 0, models.NewError(models.KindModeMismatch, "deniable mode requires a raster cover", nil)
	}

	if _, err := io.ReadFull(rand.Reader, partitionSeed[:]); err != nil {
		return partitionSeed, 0, err
	}
	var halfByte [1]byte
	if _, err := io.ReadFull(rand.Reader, halfByte[:]); err != nil {
		return partitionSeed, 0, err
	}
	realHalf = int(halfByte[0] & 1)
	decoyHalfIdx := 1 - realHalf

	eligible := position.RasterAdaptiveSlots(lc.raster)
	halves := deniable.Partition(partitionSeed, eligible)

	realSlots := position.Permute(realKey.Bytes, halves.Half(realHalf))
	decoySlots := position.Permute(decoyKey.Bytes, halves.Half(decoyHalfIdx))

	realFramed, err := bitstream.Frame(realCiphertext)
	if err != nil {
		return partitionSeed, 0, err
	}
	decoyFramed, err := bitstream.Frame(decoyCiphertext)
	if err != nil {
		return partitionSeed, 0, err
	}

	realBits := bitstream.BytesToBits(realFramed)
	decoyBits := bitstream.BytesToBits(decoyFramed)

	if err := position.CheckCapacity(len(realSlots), len(realBits)); err != nil {
		return partitionSeed, 0, err
	}
	if err := position.CheckCapacity(len(decoySlots), len(decoyBits)); err != nil {
		return partitionSeed, 0, err
	}

	if err := stegio.EmbedRaster(lc.raster, realSlots, realBits); err != nil {
		return partitionSeed, 0, err
	}
	if err := stegio.EmbedRaster(lc.raster, decoySlots, decoyBits); err != nil {
		return partitionSeed, 0, err
	}

	if err := lc.save(outputPath); err != nil {
		return partitionSeed, 0, err
	}
	return partitionSeed, realHalf, nil
}

// ExtractDeniable recomputes the partition from the stego cover and
// partitionSeed, selects partitionHalf, reorders it under key, and reads
// the framed ciphertext back out. Spec §6 op 7. It is the holder's choice
// of partitionHalf and key that determines whether the real or decoy
// payload comes back — nothing else distinguishes them.
func ExtractDeniable(stegoPath string, key models.DerivedKey, partitionSeed [32]byte, partitionHalf int) ([]byte, error) {
	lc, err := loadCover(stegoPath)
	if err != nil {
		return nil, err
	}
	if lc.format != models.FormatRasterPNG {
		return nil, models.NewError(models.KindModeMismatch, "deniable mode requires a raster cover", nil)
	}
	if partitionHalf != 0 && partitionHalf != 1 {
		return nil, models.NewError(models.KindModeMismatch, "partition_half must be 0 or 1", nil)
	}

	eligible := position.RasterAdaptiveSlots(lc.raster)
	halves := deniable.Partition(partitionSeed, eligible)
	slots := position.Permute(key.Bytes, halves.Half(partitionHalf))

	framed, err := extractFramedBytes(func(n int) ([]byte, error) {
		return stegio.ExtractRaster(lc.raster, slots, n)
	})
	if err != nil {
		return nil, err
	}
	return bitstream.UnframeBytes(framed)
}

// Score computes the C8 cover quality heuristic. Spec §6 op 8. Only raster
// covers are scored; the heuristic is meaningless over DCT coefficients or
// PCM samples.
func Score(coverPath string) (models.ScoreResult, error) {
	lc, err := loadCover(coverPath)
	if err != nil {
		return models.ScoreResult{}, err
	}
	if lc.format != models.FormatRasterPNG {
		return models.ScoreResult{}, models.NewError(models.KindUnsupportedFormat, "score is only defined for raster covers", nil)
	}
	return score.Score(lc.raster), nil
}

// Capacity reports the largest ciphertext, in bytes, that embed can place
// in cover under mode: the eligible slot count minus the framing header,
// floored to a whole byte. Spec §6 op 9.
func Capacity(coverPath string, mode models.StegMode) (int, error) {
	lc, err := loadCover(coverPath)
	if err != nil {
		return 0, err
	}
	slotCount, err := lc.capacitySlotCount(mode)
	if err != nil {
		return 0, err
	}
	usableBits := slotCount - bitstream.HeaderLen*8
	if usableBits < 0 {
		return 0, nil
	}
	return usableBits / 8, nil
}

// embedBits writes bits into lc using the slot sequence appropriate to its
// format, enforcing CheckCapacity before any mutation so a short cover
// fails cleanly instead of partially writing.
func embedBits(lc *loadedCover, bits []byte, mode models.StegMode, seed [32]byte) error {
	if lc.format == models.FormatJPEG {
		slots, err := lc.jpegSlots()
		if err != nil {
			return err
		}
		if err := position.CheckCapacity(len(slots), len(bits)); err != nil {
			return err
		}
		return stegio.EmbedJPEG(lc.jpeg, slots, bits)
	}

	slots, err := lc.byteSlots(mode, seed)
	if err != nil {
		return err
	}
	if err := position.CheckCapacity(len(slots), len(bits)); err != nil {
		return err
	}
	switch lc.format {
	case models.FormatRasterPNG:
		return stegio.EmbedRaster(lc.raster, slots, bits)
	case models.FormatWAV:
		return stegio.EmbedWAV(lc.wav, slots, bits)
	default:
		return models.NewError(models.KindUnsupportedFormat, "unknown cover format", nil)
	}
}

// extractBits reads the first n bits from lc's slot sequence.
func extractBits(lc *loadedCover, n int, mode models.StegMode, seed [32]byte) ([]byte, error) {
	if lc.format == models.FormatJPEG {
		slots, err := lc.jpegSlots()
		if err != nil {
			return nil, err
		}
		return stegio.ExtractJPEG(lc.jpeg, slots, n)
	}

	slots, err := lc.byteSlots(mode, seed)
	if err != nil {
		return nil, err
	}
	switch lc.format {
	case models.FormatRasterPNG:
		return stegio.ExtractRaster(lc.raster, slots, n)
	case models.FormatWAV:
		return stegio.ExtractWAV(lc.wav, slots, n)
	default:
		return nil, models.NewError(models.KindUnsupportedFormat, "unknown cover format", nil)
	}
}

// extractFramedBytes reads a C2 frame off a slot sequence it does not know
// the length of ahead of time: it reads the fixed-size header first to
// learn the declared payload length, then reads exactly that many more
// bits. extract is called twice (once for the header, once for the whole
// frame) since both reads are pure and idempotent over an unmutated cover.
func extractFramedBytes(extract func(n int) ([]byte, error)) ([]byte, error) {
	headerBits, err := extract(bitstream.HeaderLen * 8)
	if err != nil {
		return nil, err
	}
	headerBytes := bitstream.BitsToBytes(headerBits)
	length, err := bitstream.DecodeHeader(headerBytes)
	if err != nil {
		return nil, err
	}

	totalBits := bitstream.HeaderLen*8 + length*8
	allBits, err := extract(totalBits)
	if err != nil {
		return nil, err
	}
	return bitstream.BitsToBytes(allBits), nil
}
