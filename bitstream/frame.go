// Package bitstream implements the length-prefixed framing (spec §4.2) used
// to carry an AEAD envelope inside the bit sequence the position engine
// exposes. It standardizes the teacher's ad hoc per-field length handling
// into one framing primitive the rest of the pipeline shares.
package bitstream

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/astego/cryptostego/models"
)

// HeaderLen is the size in bytes of the framing length prefix.
const HeaderLen = 4

// MaxFrameLen bounds the declared payload length a frame may claim. It exists
// to reject corrupted or hostile covers before allocating a buffer sized off
// an attacker-controlled 32-bit field.
const MaxFrameLen = 256 << 20 // 256 MiB

// Frame prepends a 4-byte big-endian length prefix to payload and returns the
// framed bytes. It fails with OversizeHeader if payload exceeds MaxFrameLen.
func Frame(payload []byte) ([]byte, error) {
	if len(payload) > MaxFrameLen {
		return nil, models.NewError(models.KindOversizeHeader, "payload exceeds maximum frame length", nil)
	}
	out := make([]byte, HeaderLen+len(payload))
	binary.BigEndian.PutUint32(out[:HeaderLen], uint32(len(payload)))
	copy(out[HeaderLen:], payload)
	return out, nil
}

// Unframe reads a 4-byte big-endian length prefix from r followed by that
// many payload bytes. It fails with ShortRead if r is exhausted before the
// declared length is satisfied, and OversizeHeader if the declared length
// exceeds MaxFrameLen (a strong signal the cover was extracted under the
// wrong key or the wrong mode).
func Unframe(r io.Reader) ([]byte, error) {
	var hdr [HeaderLen]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return nil, models.NewError(models.KindShortRead, "truncated frame header", err)
	}
	n := binary.BigEndian.Uint32(hdr[:])
	if n > MaxFrameLen {
		return nil, models.NewError(models.KindOversizeHeader, "declared frame length exceeds maximum", nil)
	}
	payload := make([]byte, n)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, models.NewError(models.KindShortRead, "truncated frame payload", err)
	}
	return payload, nil
}

// UnframeBytes is a convenience wrapper around Unframe for callers that
// already hold the full bit-derived byte slice in memory.
func UnframeBytes(b []byte) ([]byte, error) {
	return Unframe(bytes.NewReader(b))
}

// DecodeHeader parses a HeaderLen-byte length prefix read off a slot
// sequence before the rest of the frame is known, so a caller extracting
// bits one slot at a time can size its second read instead of over-reading
// the whole cover. It applies the same bounds Unframe does.
func DecodeHeader(header []byte) (int, error) {
	if len(header) < HeaderLen {
		return 0, models.NewError(models.KindShortRead, "truncated frame header", nil)
	}
	n := binary.BigEndian.Uint32(header[:HeaderLen])
	if n > MaxFrameLen {
		return 0, models.NewError(models.KindOversizeHeader, "declared frame length exceeds maximum", nil)
	}
	return int(n), nil
}
