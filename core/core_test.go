package core

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/astego/cryptostego/models"
)

func writeNoisyPNG(t *testing.T, path string, w, h int) {
	t.Helper()
	state := uint32(987654321)
	next := func() byte {
		state = state*1664525 + 1013904223
		return byte(state >> 24)
	}
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: next(), G: next(), B: next(), A: 0xFF})
		}
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
}

func writePCMWAV(t *testing.T, path string, numSamples, channels, sampleRate, bitDepth int) {
	t.Helper()
	state := uint32(42)
	samples := make([]byte, numSamples)
	for i := range samples {
		state = state*1664525 + 1013904223
		samples[i] = byte(state >> 24)
	}

	var buf bytes.Buffer
	buf.WriteString("RIFF")
	writeU32(&buf, uint32(36+len(samples)))
	buf.WriteString("WAVE")
	buf.WriteString("fmt ")
	writeU32(&buf, 16)
	writeU16(&buf, 1)
	writeU16(&buf, uint16(channels))
	writeU32(&buf, uint32(sampleRate))
	byteRate := sampleRate * channels * bitDepth / 8
	writeU32(&buf, uint32(byteRate))
	blockAlign := channels * bitDepth / 8
	writeU16(&buf, uint16(blockAlign))
	writeU16(&buf, uint16(bitDepth))
	buf.WriteString("data")
	writeU32(&buf, uint32(len(samples)))
	buf.Write(samples)

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("write wav: %v", err)
	}
}

func writeU32(buf *bytes.Buffer, v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	buf.Write(b[:])
}

func writeU16(buf *bytes.Buffer, v uint16) {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	buf.Write(b[:])
}

func TestEmbedExtractFileRasterAdaptiveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	cover := filepath.Join(dir, "cover.png")
	stego := filepath.Join(dir, "stego.png")
	sc := filepath.Join(dir, "stego.key")
	writeNoisyPNG(t, cover, 48, 48)

	payload := []byte("the crow flies at midnight")
	opts := models.EmbedOptions{CipherID: models.CipherChaCha20Poly1305, Mode: models.ModeAdaptive, Passphrase: "correct horse battery staple"}
	if err := EmbedFile(cover, payload, stego, sc, opts); err != nil {
		t.Fatalf("EmbedFile: %v", err)
	}

	got, err := ExtractFile(stego, sc, opts.Passphrase)
	if err != nil {
		t.Fatalf("ExtractFile: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Fatalf("round trip mismatch: got %q want %q", got, payload)
	}
}

func TestEmbedExtractFileRasterSequentialAllCiphers(t *testing.T) {
	for _, spec := range models.SupportedCiphers {
		spec := spec
		t.Run(string(spec.ID), func(t *testing.T) {
			dir := t.TempDir()
			cover := filepath.Join(dir, "cover.png")
			stego := filepath.Join(dir, "stego.png")
			sc := filepath.Join(dir, "stego.key")
			writeNoisyPNG(t, cover, 32, 32)

			payload := []byte("sequential mode payload")
			opts := models.EmbedOptions{CipherID: spec.ID, Mode: models.ModeSequential, Passphrase: "hunter2"}
			if err := EmbedFile(cover, payload, stego, sc, opts); err != nil {
				t.Fatalf("EmbedFile: %v", err)
			}
			got, err := ExtractFile(stego, sc, opts.Passphrase)
			if err != nil {
				t.Fatalf("ExtractFile: %v", err)
			}
			if !bytes.Equal(got, payload) {
				t.Fatalf("round trip mismatch for %s", spec.ID)
			}
		})
	}
}

func TestEmbedExtractFileWAV(t *testing.T) {
	dir := t.TempDir()
	cover := filepath.Join(dir, "cover.wav")
	stego := filepath.Join(dir, "stego.wav")
	sc := filepath.Join(dir, "stego.key")
	writePCMWAV(t, cover, 4000, 1, 44100, 16)

	payload := []byte("audio hidden message")
	opts := models.EmbedOptions{CipherID: models.CipherAscon128, Passphrase: "seahorse"}
	if err := EmbedFile(cover, payload, stego, sc, opts); err != nil {
		t.Fatalf("EmbedFile: %v", err)
	}
	got, err := ExtractFile(stego, sc, opts.Passphrase)
	if err != nil {
		t.Fatalf("ExtractFile: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Fatalf("round trip mismatch: got %q want %q", got, payload)
	}
}

func TestEmbedExtractFileWithECC(t *testing.T) {
	dir := t.TempDir()
	cover := filepath.Join(dir, "cover.png")
	stego := filepath.Join(dir, "stego.png")
	sc := filepath.Join(dir, "stego.key")
	writeNoisyPNG(t, cover, 64, 64)

	payload := []byte("ecc-wrapped payload, integrity shard enabled")
	opts := models.EmbedOptions{CipherID: models.CipherAES256GCM, Mode: models.ModeAdaptive, Passphrase: "argon fuel", ECC: true}
	if err := EmbedFile(cover, payload, stego, sc, opts); err != nil {
		t.Fatalf("EmbedFile: %v", err)
	}
	got, err := ExtractFile(stego, sc, opts.Passphrase)
	if err != nil {
		t.Fatalf("ExtractFile: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Fatalf("round trip mismatch: got %q want %q", got, payload)
	}
}

func TestExtractFileWrongPassphraseFailsAuth(t *testing.T) {
	dir := t.TempDir()
	cover := filepath.Join(dir, "cover.png")
	stego := filepath.Join(dir, "stego.png")
	sc := filepath.Join(dir, "stego.key")
	writeNoisyPNG(t, cover, 32, 32)

	opts := models.EmbedOptions{CipherID: models.CipherChaCha20Poly1305, Mode: models.ModeAdaptive, Passphrase: "right passphrase"}
	if err := EmbedFile(cover, []byte("secret"), stego, sc, opts); err != nil {
		t.Fatalf("EmbedFile: %v", err)
	}

	_, err := ExtractFile(stego, sc, "wrong passphrase")
	if models.KindOf(err) != models.KindAuthFail {
		t.Fatalf("expected AuthFail, got %v", err)
	}
}

func TestEmbedFileCoverTooSmallFails(t *testing.T) {
	dir := t.TempDir()
	cover := filepath.Join(dir, "cover.png")
	stego := filepath.Join(dir, "stego.png")
	sc := filepath.Join(dir, "stego.key")
	writeNoisyPNG(t, cover, 4, 4)

	opts := models.EmbedOptions{CipherID: models.CipherAES256GCM, Mode: models.ModeAdaptive, Passphrase: "x"}
	err := EmbedFile(cover, bytes.Repeat([]byte{0xAB}, 4096), stego, sc, opts)
	if models.KindOf(err) != models.KindCoverTooSmall {
		t.Fatalf("expected CoverTooSmall, got %v", err)
	}
}

func TestEmbedDeniableFileRoundTrip(t *testing.T) {
	dir := t.TempDir()
	cover := filepath.Join(dir, "cover.png")
	stego := filepath.Join(dir, "stego.png")
	realSC := filepath.Join(dir, "real.key")
	decoySC := filepath.Join(dir, "decoy.key")
	writeNoisyPNG(t, cover, 64, 64)

	real := []byte("the real secret plan")
	decoy := []byte("innocuous grocery list")
	opts := models.DeniableEmbedOptions{
		RealCipherID:  models.CipherChaCha20Poly1305,
		DecoyCipherID: models.CipherAES256GCM,
		RealPassword:  "real-passphrase",
		DecoyPassword: "decoy-passphrase",
	}
	result, err := EmbedDeniableFile(cover, real, decoy, stego, realSC, decoySC, opts)
	if err != nil {
		t.Fatalf("EmbedDeniableFile: %v", err)
	}

	gotReal, err := ExtractDeniableFile(result.OutputPath, result.RealSidecarPath, opts.RealPassword)
	if err != nil {
		t.Fatalf("ExtractDeniableFile real: %v", err)
	}
	if !bytes.Equal(gotReal, real) {
		t.Fatalf("real payload mismatch: got %q want %q", gotReal, real)
	}

	gotDecoy, err := ExtractDeniableFile(result.OutputPath, result.DecoySidecarPath, opts.DecoyPassword)
	if err != nil {
		t.Fatalf("ExtractDeniableFile decoy: %v", err)
	}
	if !bytes.Equal(gotDecoy, decoy) {
		t.Fatalf("decoy payload mismatch: got %q want %q", gotDecoy, decoy)
	}

	if _, err := ExtractDeniableFile(result.OutputPath, result.RealSidecarPath, opts.DecoyPassword); models.KindOf(err) != models.KindAuthFail {
		t.Fatalf("decoy passphrase against real sidecar should fail auth, got %v", err)
	}
}

func TestScoreAndCapacity(t *testing.T) {
	dir := t.TempDir()
	cover := filepath.Join(dir, "cover.png")
	writeNoisyPNG(t, cover, 64, 64)

	result, err := Score(cover)
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	if result.Score < 0 || result.Score > 100 {
		t.Fatalf("score out of bounds: %d", result.Score)
	}

	capAdaptive, err := Capacity(cover, models.ModeAdaptive)
	if err != nil {
		t.Fatalf("Capacity adaptive: %v", err)
	}
	capSequential, err := Capacity(cover, models.ModeSequential)
	if err != nil {
		t.Fatalf("Capacity sequential: %v", err)
	}
	wantSequential := 64*64*3/8 - 4 // HeaderLen bytes
	if capSequential != wantSequential {
		t.Fatalf("sequential capacity = %d, want %d", capSequential, wantSequential)
	}
	if capAdaptive > capSequential {
		t.Fatalf("adaptive capacity (%d) should never exceed sequential capacity (%d)", capAdaptive, capSequential)
	}
}

func TestDetectFormatRejectsUnknownExtension(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cover.bmp")
	if err := os.WriteFile(path, []byte("not a real bmp"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := Score(path)
	if models.KindOf(err) != models.KindUnsupportedFormat {
		t.Fatalf("expected UnsupportedFormat, got %v", err)
	}
}
