// Package core is the façade of spec §6: it wires C1 (codec), C2 (framing),
// C3 (position), C4 (embed/extract), C5 (AEAD envelope), C6 (deniable
// split), and C8 (scoring) into the nine external operations the CLI and
// HTTP surfaces call. The end-to-end composition lives here and only here:
// stegio and position import the codecs they operate on, but no package
// outside core chains the stages into a pipeline.
package core

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"

	"github.com/astego/cryptostego/codec/jpegcodec"
	"github.com/astego/cryptostego/codec/raster"
	"github.com/astego/cryptostego/codec/wavcodec"
	"github.com/astego/cryptostego/models"
	"github.com/astego/cryptostego/position"
)

// detectFormat maps a cover path's extension to a CoverFormat, the same
// dispatch point the teacher's handler layer used to pick an encoder.
func detectFormat(path string) (models.CoverFormat, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return models.FormatRasterPNG, nil
	case ".jpg", ".jpeg":
		return models.FormatJPEG, nil
	case ".wav":
		return models.FormatWAV, nil
	default:
		return "", models.NewError(models.KindUnsupportedFormat, "unrecognized cover extension "+filepath.Ext(path), nil)
	}
}

// loadedCover is the in-memory union of the three C1 codec outputs, tagged
// by which one is populated. It gives the rest of core a single type to
// pass around instead of switching on format at every call site.
type loadedCover struct {
	format models.CoverFormat
	raster *raster.Cover
	wav    *wavcodec.Cover
	jpeg   *jpegcodec.Cover
}

func loadCover(path string) (*loadedCover, error) {
	format, err := detectFormat(path)
	if err != nil {
		return nil, err
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, models.NewError(models.KindMalformedCover, "failed to read cover file "+path, err)
	}

	lc := &loadedCover{format: format}
	switch format {
	case models.FormatRasterPNG:
		lc.raster, err = raster.Load(bytes.NewReader(raw))
	case models.FormatWAV:
		lc.wav, err = wavcodec.Load(raw)
	case models.FormatJPEG:
		lc.jpeg, err = jpegcodec.Load(raw)
	}
	if err != nil {
		return nil, err
	}
	return lc, nil
}

// bytes re-encodes the cover, including whatever slots embedBits mutated.
func (lc *loadedCover) bytes() ([]byte, error) {
	switch lc.format {
	case models.FormatRasterPNG:
		return lc.raster.Bytes()
	case models.FormatWAV:
		return lc.wav.Bytes(), nil
	case models.FormatJPEG:
		return lc.jpeg.Bytes()
	default:
		return nil, models.NewError(models.KindUnsupportedFormat, "unknown cover format", nil)
	}
}

func (lc *loadedCover) save(path string) error {
	out, err := lc.bytes()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return models.NewError(models.KindMalformedCover, "failed to write output file "+path, err)
	}
	return nil
}

// byteSlots resolves the mode-dependent slot sequence for raster and WAV
// covers, where a slot addresses a single byte. JPEG covers use
// jpegSlots instead, since their slots address coefficients inside
// [64]int32 blocks rather than a flat byte buffer.
func (lc *loadedCover) byteSlots(mode models.StegMode, seed [32]byte) ([]int, error) {
	switch lc.format {
	case models.FormatRasterPNG:
		if !mode.IsValid() {
			mode = models.ModeAdaptive
		}
		if mode == models.ModeSequential {
			return position.RasterSequential(lc.raster), nil
		}
		return position.RasterAdaptive(lc.raster, seed), nil
	case models.FormatWAV:
		return position.WAVSequential(lc.wav), nil
	default:
		return nil, models.NewError(models.KindModeMismatch, "cover format does not use byte-addressed slots", nil)
	}
}

func (lc *loadedCover) jpegSlots() ([]position.JPEGSlot, error) {
	if lc.format != models.FormatJPEG {
		return nil, models.NewError(models.KindModeMismatch, "cover format does not use JPEG coefficient slots", nil)
	}
	return position.JPEGSlots(lc.jpeg), nil
}

// capacitySlotCount reports how many eligible slots cover has under mode,
// independent of any key (adaptive eligibility does not depend on the
// permutation seed, only on the variance mask).
func (lc *loadedCover) capacitySlotCount(mode models.StegMode) (int, error) {
	if lc.format == models.FormatJPEG {
		slots, err := lc.jpegSlots()
		if err != nil {
			return 0, err
		}
		return len(slots), nil
	}
	var zero [32]byte
	slots, err := lc.byteSlots(mode, zero)
	if err != nil {
		return 0, err
	}
	return len(slots), nil
}
