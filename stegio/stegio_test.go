package stegio

import (
	"testing"

	"github.com/astego/cryptostego/codec/jpegcodec"
	"github.com/astego/cryptostego/models"
	"github.com/astego/cryptostego/position"
)

func TestEmbedExtractBytesRoundTrip(t *testing.T) {
	buf := make([]byte, 16)
	slots := []int{0, 2, 4, 6, 8, 10, 12, 14}
	bits := []byte{1, 0, 1, 1, 0, 0, 1, 0}

	if err := EmbedBytes(buf, slots, bits); err != nil {
		t.Fatalf("EmbedBytes: %v", err)
	}
	got, err := ExtractBytes(buf, slots, len(bits))
	if err != nil {
		t.Fatalf("ExtractBytes: %v", err)
	}
	for i := range bits {
		if got[i] != bits[i] {
			t.Fatalf("bit %d = %d, want %d", i, got[i], bits[i])
		}
	}
}

func TestEmbedBytesPreservesHighBits(t *testing.T) {
	buf := []byte{0xFE, 0xFE}
	if err := EmbedBytes(buf, []int{0, 1}, []byte{1, 1}); err != nil {
		t.Fatal(err)
	}
	if buf[0] != 0xFF || buf[1] != 0xFF {
		t.Fatalf("buf = %v, want [0xFF 0xFF]", buf)
	}
}

func TestEmbedBytesCoverTooSmall(t *testing.T) {
	buf := make([]byte, 2)
	err := EmbedBytes(buf, []int{0}, []byte{1, 0})
	if models.KindOf(err) != models.KindCoverTooSmall {
		t.Fatalf("expected CoverTooSmall, got %v", err)
	}
}

func TestJPEGEmbedExtractRoundTrip(t *testing.T) {
	var block [64]int32
	block[1] = 5
	block[2] = -8
	block[3] = 4
	cover := &jpegcodec.Cover{Components: []jpegcodec.Component{{Blocks: [][64]int32{block}}}}
	slots := []position.JPEGSlot{{Component: 0, Block: 0, Coeff: 1}, {Component: 0, Block: 0, Coeff: 2}, {Component: 0, Block: 0, Coeff: 3}}
	bits := []byte{0, 1, 1}

	if err := EmbedJPEG(cover, slots, bits); err != nil {
		t.Fatalf("EmbedJPEG: %v", err)
	}
	got, err := ExtractJPEG(cover, slots, len(bits))
	if err != nil {
		t.Fatalf("ExtractJPEG: %v", err)
	}
	for i := range bits {
		if got[i] != bits[i] {
			t.Fatalf("bit %d = %d, want %d", i, got[i], bits[i])
		}
	}
}

func TestSetBitInt32NegativeTwoEdgeCase(t *testing.T) {
	if got := setBitInt32(-2, 1); got != -1 {
		t.Fatalf("setBitInt32(-2, 1) = %d, want -1 (the documented two's-complement edge case)", got)
	}
}
