// Package position implements the keyed, cover-adaptive slot allocator
// (C3): the part of the pipeline responsible for deciding, deterministically
// and identically on both the embed and extract side, which bytes or
// coefficients of a cover carry payload bits.
package position

import (
	"github.com/astego/cryptostego/codec/jpegcodec"
	"github.com/astego/cryptostego/codec/raster"
	"github.com/astego/cryptostego/codec/wavcodec"
	"github.com/astego/cryptostego/models"
)

// varianceThreshold is the fixed eligibility cutoff v of spec.md §4.3,
// expressed over 8-bit samples with their LSB cleared (see quantizedValue).
const varianceThreshold = 10.0

// quantizedValue discards the LSB of a channel sample before it enters the
// variance computation. Embedding only ever changes a sample's LSB, so a
// mask built from quantized values is bit-for-bit identical whether it is
// computed from the pristine cover (embed side) or from the stego file
// (extract side) — the stronger of the two robustness strategies spec.md
// §4.3 point 2 allows, chosen over a provably-safe-in-practice threshold
// margin because it holds for every cover, not just well-behaved ones.
func quantizedValue(b byte) float64 {
	return float64(b &^ 1)
}

// RasterSequential returns every pixel-channel index of cover in row-major
// pixel order, channel order R,G,B. It is unkeyed and intended for
// debugging only (spec.md §4.3).
func RasterSequential(cover *raster.Cover) []int {
	slots := make([]int, cover.Capacity())
	for i := range slots {
		slots[i] = i
	}
	return slots
}

// RasterAdaptive returns the keyed slot sequence for adaptive mode: the
// pixel-channel indices whose pixel clears the 3x3 variance threshold,
// enumerated in row-major/channel order and then permuted by seed (the
// steg key, spec.md §4.5).
func RasterAdaptive(cover *raster.Cover, seed [32]byte) []int {
	return Permute(seed, RasterAdaptiveSlots(cover))
}

// RasterAdaptiveSlots returns the eligible pixel-channel indices of cover in
// row-major/channel order, unpermuted. Deniable mode (C6) partitions this
// list directly with its own partition_seed instead of the steg-key
// permutation above, so the enumeration step is exported on its own.
func RasterAdaptiveSlots(cover *raster.Cover) []int {
	mask := varianceMask(cover)
	eligible := make([]int, 0, cover.Capacity())
	for y := 0; y < cover.Height; y++ {
		for x := 0; x < cover.Width; x++ {
			if !mask[y*cover.Width+x] {
				continue
			}
			base := (y*cover.Width + x) * 3
			eligible = append(eligible, base, base+1, base+2)
		}
	}
	return eligible
}

// varianceMask computes M[y,x] for every pixel of cover: true iff the
// channel-averaged 3x3 neighbourhood variance of the quantized pixel values
// meets varianceThreshold.
func varianceMask(cover *raster.Cover) []bool {
	w, h := cover.Width, cover.Height
	mask := make([]bool, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var total float64
			for c := 0; c < 3; c++ {
				total += channelVariance(cover, x, y, c)
			}
			mask[y*w+x] = total/3.0 >= varianceThreshold
		}
	}
	return mask
}

func channelVariance(cover *raster.Cover, x, y, channel int) float64 {
	w, h := cover.Width, cover.Height
	var values [9]float64
	n := 0
	for dy := -1; dy <= 1; dy++ {
		ny := clamp(y+dy, 0, h-1)
		for dx := -1; dx <= 1; dx++ {
			nx := clamp(x+dx, 0, w-1)
			idx := (ny*w+nx)*3 + channel
			values[n] = quantizedValue(cover.Pix[idx])
			n++
		}
	}
	var sum float64
	for i := 0; i < n; i++ {
		sum += values[i]
	}
	mean := sum / float64(n)
	var sqDiff float64
	for i := 0; i < n; i++ {
		d := values[i] - mean
		sqDiff += d * d
	}
	return sqDiff / float64(n)
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

// WAVSequential returns every sample-byte index of cover in row-major
// order. WAV mode is always sequential and unkeyed (spec.md §4.3).
func WAVSequential(cover *wavcodec.Cover) []int {
	slots := make([]int, cover.Capacity())
	for i := range slots {
		slots[i] = i
	}
	return slots
}

// JPEGSlot addresses one AC coefficient: the component it belongs to, the
// block within that component (row-major), and the coefficient index
// within the block's natural-order [64]int32 array (1..63; index 0 is DC
// and is never addressed).
type JPEGSlot struct {
	Component int
	Block     int
	Coeff     int
}

// excludedCoefficient reports whether v is outside the usable range
// spec.md §4.3 defines for JPEG DCT mode: values in {-2,-1,0,1} are never
// selected, -2 specifically because flipping its LSB in two's complement
// ((-2 &^ 1) | 1 == -1) would move it into the excluded set and break
// position equivalence between embed and extract.
func excludedCoefficient(v int32) bool {
	return v >= -2 && v <= 1
}

// JPEGSlots enumerates usable AC coefficients across every component of
// cover, row-major over each component's block grid and, within a block,
// row-major over its 8x8 natural-order coefficient array. No permutation is
// applied (spec.md §4.3).
func JPEGSlots(cover *jpegcodec.Cover) []JPEGSlot {
	var slots []JPEGSlot
	for ci, comp := range cover.Components {
		for b, block := range comp.Blocks {
			for k := 1; k < 64; k++ {
				if excludedCoefficient(block[k]) {
					continue
				}
				slots = append(slots, JPEGSlot{Component: ci, Block: b, Coeff: k})
			}
		}
	}
	return slots
}

// CheckCapacity fails with CoverTooSmall if the number of available slots
// cannot carry needed bits.
func CheckCapacity(available, needed int) error {
	if available < needed {
		return models.NewError(models.KindCoverTooSmall, "cover does not have enough eligible slots for this payload", nil)
	}
	return nil
}
