package raster

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"
)

func encodeTestPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{
				R: byte((x * 37) % 256),
				G: byte((y * 53) % 256),
				B: byte((x + y) % 256),
				A: 0xFF,
			})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode fixture: %v", err)
	}
	return buf.Bytes()
}

func TestLoadSaveRoundTrip(t *testing.T) {
	src := encodeTestPNG(t, 16, 12)
	cover, err := Load(bytes.NewReader(src))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cover.Width != 16 || cover.Height != 12 {
		t.Fatalf("dims = %dx%d, want 16x12", cover.Width, cover.Height)
	}
	if len(cover.Pix) != 16*12*3 {
		t.Fatalf("Pix length = %d, want %d", len(cover.Pix), 16*12*3)
	}

	out, err := cover.Bytes()
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	reloaded, err := Load(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("reload after save: %v", err)
	}
	if !bytes.Equal(reloaded.Pix, cover.Pix) {
		t.Fatalf("pixel data changed across save/reload")
	}
}

func TestLoadRejectsNonPNG(t *testing.T) {
	// Load only registers the PNG decoder, so any other image format must
	// fail to decode (and would be rejected as UnsupportedFormat even if a
	// decoder were registered for it).
	gif := []byte{
		'G', 'I', 'F', '8', '9', 'a',
		1, 0, 1, 0, 0x80, 0, 0,
		0, 0, 0, 0xFF, 0xFF, 0xFF,
		0x21, 0xF9, 0x04, 0, 0, 0, 0, 0,
		0x2C, 0, 0, 0, 0, 1, 0, 1, 0, 0,
		0x02, 0x02, 0x44, 0x01, 0, 0x3B,
	}
	_, err := Load(bytes.NewReader(gif))
	if err == nil {
		t.Fatal("expected error loading a GIF as raster cover")
	}
}

func TestLSBMutationSurvivesRoundTrip(t *testing.T) {
	src := encodeTestPNG(t, 8, 8)
	cover, err := Load(bytes.NewReader(src))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	for i := range cover.Pix {
		cover.Pix[i] = (cover.Pix[i] &^ 1) | byte(i%2)
	}
	want := make([]byte, len(cover.Pix))
	copy(want, cover.Pix)

	out, err := cover.Bytes()
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	reloaded, err := Load(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if !bytes.Equal(reloaded.Pix, want) {
		t.Fatalf("LSB-mutated pixels did not survive PNG round trip")
	}
}

func TestLoadIgnoresAlphaInsteadOfPremultiplying(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	img.SetNRGBA(0, 0, color.NRGBA{R: 200, G: 100, B: 50, A: 0x80})
	img.SetNRGBA(1, 0, color.NRGBA{R: 10, G: 20, B: 30, A: 0})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode fixture: %v", err)
	}

	cover, err := Load(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := []byte{200, 100, 50, 10, 20, 30}
	if !bytes.Equal(cover.Pix, want) {
		t.Fatalf("Pix = %v, want %v (RGB must survive untouched regardless of alpha)", cover.Pix, want)
	}
}

func TestCapacityMatchesChannelCount(t *testing.T) {
	src := encodeTestPNG(t, 10, 5)
	cover, err := Load(bytes.NewReader(src))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got, want := cover.Capacity(), 10*5*3; got != want {
		t.Fatalf("Capacity() = %d, want %d", got, want)
	}
}
