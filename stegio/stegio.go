// Package stegio implements the embedder/extractor (C4): writing a bit
// stream into the LSBs of the slots C3 selects, and reading it back. The
// write/read rule is the teacher's embedBitsIntoSamples/extractBitsFromSamples
// shape generalized from a fixed PCM sample stride to the C3 slot
// abstraction, combined with andresmejia3-Hide's bit-twiddling discipline
// of never aliasing a decoder's buffer: every Embed* call mutates the
// cover's own owned byte slice in place and never hands back a reference
// the caller didn't already own.
package stegio

import (
	"github.com/astego/cryptostego/codec/jpegcodec"
	"github.com/astego/cryptostego/codec/raster"
	"github.com/astego/cryptostego/codec/wavcodec"
	"github.com/astego/cryptostego/models"
	"github.com/astego/cryptostego/position"
)

// setBit applies the spec's LSB write rule, byte <- (byte & ~1) | bit, to a
// single byte.
func setBit(b byte, bit byte) byte {
	return (b &^ 1) | (bit & 1)
}

// getBit reads the LSB of a single byte.
func getBit(b byte) byte {
	return b & 1
}

// EmbedBytes writes each byte-addressed slot of a raster or WAV cover with
// one bit of bits, in slot order. It fails with CoverTooSmall if slots is
// shorter than the bit stream.
func EmbedBytes(buf []byte, slots []int, bits []byte) error {
	if len(slots) < len(bits) {
		return models.NewError(models.KindCoverTooSmall, "not enough slots for payload bits", nil)
	}
	for i, bit := range bits {
		idx := slots[i]
		buf[idx] = setBit(buf[idx], bit)
	}
	return nil
}

// ExtractBytes reads one bit from each of the first n slots of buf, in slot
// order.
func ExtractBytes(buf []byte, slots []int, n int) ([]byte, error) {
	if len(slots) < n {
		return nil, models.NewError(models.KindCoverTooSmall, "not enough slots to extract requested bits", nil)
	}
	bits := make([]byte, n)
	for i := 0; i < n; i++ {
		bits[i] = getBit(buf[slots[i]])
	}
	return bits, nil
}

// EmbedRaster embeds bits into cover's pixel buffer at slots.
func EmbedRaster(cover *raster.Cover, slots []int, bits []byte) error {
	return EmbedBytes(cover.Pix, slots, bits)
}

// ExtractRaster reads n bits from cover's pixel buffer at slots.
func ExtractRaster(cover *raster.Cover, slots []int, n int) ([]byte, error) {
	return ExtractBytes(cover.Pix, slots, n)
}

// EmbedWAV embeds bits into cover's sample region at slots.
func EmbedWAV(cover *wavcodec.Cover, slots []int, bits []byte) error {
	return EmbedBytes(cover.Samples, slots, bits)
}

// ExtractWAV reads n bits from cover's sample region at slots.
func ExtractWAV(cover *wavcodec.Cover, slots []int, n int) ([]byte, error) {
	return ExtractBytes(cover.Samples, slots, n)
}

// EmbedJPEG writes one bit into the LSB of each addressed AC coefficient,
// applying the spec's two's-complement LSB rule directly to the signed
// int32 coefficient value.
func EmbedJPEG(cover *jpegcodec.Cover, slots []position.JPEGSlot, bits []byte) error {
	if len(slots) < len(bits) {
		return models.NewError(models.KindCoverTooSmall, "not enough usable coefficients for payload bits", nil)
	}
	for i, bit := range bits {
		s := slots[i]
		block := &cover.Components[s.Component].Blocks[s.Block]
		v := block[s.Coeff]
		block[s.Coeff] = setBitInt32(v, bit)
	}
	return nil
}

// ExtractJPEG reads n bits from the addressed AC coefficients.
func ExtractJPEG(cover *jpegcodec.Cover, slots []position.JPEGSlot, n int) ([]byte, error) {
	if len(slots) < n {
		return nil, models.NewError(models.KindCoverTooSmall, "not enough usable coefficients to extract requested bits", nil)
	}
	bits := make([]byte, n)
	for i := 0; i < n; i++ {
		s := slots[i]
		v := cover.Components[s.Component].Blocks[s.Block][s.Coeff]
		bits[i] = byte(v & 1)
	}
	return bits, nil
}

// setBitInt32 applies byte <- (byte & ~1) | bit to a signed coefficient in
// two's complement, e.g. setBitInt32(-2, 1) == -1 — which is exactly why
// the position engine excludes -2 from the usable set (spec.md §4.3).
func setBitInt32(v int32, bit byte) int32 {
	return (v &^ 1) | int32(bit&1)
}
