// Package score implements the cover quality heuristic (C8): a pure
// function over a raster cover, the same shape as the teacher's
// CalculatePSNR — no I/O, no mutation, just arithmetic over an in-memory
// buffer the caller already owns.
package score

import (
	"math"

	"github.com/astego/cryptostego/codec/raster"
	"github.com/astego/cryptostego/models"
)

const (
	weightEntropy    = 0.40
	weightTexture    = 0.40
	weightResolution = 0.20

	referenceWidth  = 1920
	referenceHeight = 1080

	varianceThreshold = 10.0
)

// Score computes the 0-100 quality score and label of spec.md §4.8 for
// cover.
func Score(cover *raster.Cover) models.ScoreResult {
	entropy := normalizedEntropy(cover.Pix)
	texture := textureFraction(cover)
	resolution := math.Min(1.0, float64(cover.Width*cover.Height)/float64(referenceWidth*referenceHeight))

	weighted := entropy*weightEntropy + texture*weightTexture + resolution*weightResolution
	value := int(math.Round(weighted * 100))
	if value > 100 {
		value = 100
	}
	if value < 0 {
		value = 0
	}

	return models.ScoreResult{
		Score:      value,
		Label:      label(value),
		Entropy:    entropy,
		Texture:    texture,
		Resolution: resolution,
	}
}

func label(score int) models.ScoreLabel {
	switch {
	case score >= 75:
		return models.LabelExcellent
	case score >= 55:
		return models.LabelGood
	case score >= 35:
		return models.LabelFair
	default:
		return models.LabelPoor
	}
}

// normalizedEntropy computes the Shannon entropy of the 8-bit sample
// histogram across every channel byte of pix, scaled to [0,1] by the
// maximum possible entropy (8 bits).
func normalizedEntropy(pix []byte) float64 {
	if len(pix) == 0 {
		return 0
	}
	var hist [256]int
	for _, b := range pix {
		hist[b]++
	}
	total := float64(len(pix))
	var h float64
	for _, count := range hist {
		if count == 0 {
			continue
		}
		p := float64(count) / total
		h -= p * math.Log2(p)
	}
	return h / 8.0
}

// textureFraction reports the fraction of pixels whose channel-averaged 3x3
// neighbourhood variance meets varianceThreshold. It uses the same window and
// threshold as C3's adaptive mode, but over the raw channel values rather
// than C3's LSB-cleared ones.
func textureFraction(cover *raster.Cover) float64 {
	w, h := cover.Width, cover.Height
	if w == 0 || h == 0 {
		return 0
	}
	eligible := 0
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var total float64
			for c := 0; c < 3; c++ {
				total += neighborhoodVariance(cover, x, y, c)
			}
			if total/3.0 >= varianceThreshold {
				eligible++
			}
		}
	}
	return float64(eligible) / float64(w*h)
}

func neighborhoodVariance(cover *raster.Cover, x, y, channel int) float64 {
	w, h := cover.Width, cover.Height
	var values [9]float64
	n := 0
	for dy := -1; dy <= 1; dy++ {
		ny := clamp(y+dy, 0, h-1)
		for dx := -1; dx <= 1; dx++ {
			nx := clamp(x+dx, 0, w-1)
			values[n] = float64(cover.Pix[(ny*w+nx)*3+channel])
			n++
		}
	}
	var sum float64
	for i := 0; i < n; i++ {
		sum += values[i]
	}
	mean := sum / float64(n)
	var sq float64
	for i := 0; i < n; i++ {
		d := values[i] - mean
		sq += d * d
	}
	return sq / float64(n)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
