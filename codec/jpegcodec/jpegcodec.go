// Package jpegcodec implements the JPEG coefficient-domain cover codec
// (C1). Go's standard image/jpeg decodes straight to pixels and never
// exposes the quantized DCT coefficients the position engine needs to
// address, so this package parses and re-emits a baseline (SOF0) JPEG
// bitstream from scratch.
//
// The marker walk is grounded on
// other_examples/ca6315c1_thvl3-DeSteGo__detect-stego-jpeg_dct_parser.go.go,
// whose own decodeDCTCoefficients is an unimplemented stub; this package
// supplies the missing Huffman entropy decoder and encoder. Because
// embedding mutates already-quantized coefficients and the quantization and
// Huffman tables are always written back unchanged, no floating-point DCT,
// IDCT, or requantization math is needed anywhere in this package.
package jpegcodec

import (
	"github.com/astego/cryptostego/models"
)

// Component is one color component (Y, Cb, or Cr) of a JPEG frame: its
// quantized coefficient blocks in natural (row-major) order, and the
// quantization table applied to them.
type Component struct {
	ID              uint8
	BlocksPerLine   int
	BlocksPerColumn int
	Blocks          [][64]int32
	QuantTable      [64]uint16

	HSampling, VSampling uint8
	quantTableID         uint8
	dcTableID, acTableID uint8
}

// Cover is a parsed baseline JPEG: its frame geometry, every component's
// coefficient blocks, and enough of the original header state (quant
// tables, Huffman tables, restart interval, scan component order) to
// re-emit a byte-identical-modulo-coefficients file from Bytes.
type Cover struct {
	Width, Height int
	Components    []Component

	quantTables     [4][64]uint16
	dcTables        [4]*huffTable
	acTables        [4]*huffTable
	restartInterval int
	maxH, maxV      uint8
	mcusPerLine     int
	mcusPerColumn   int
	scanOrder       []scanComponentRef

	rawHeader []byte // everything up to (not including) the entropy-coded scan data
}

// Load parses raw as a baseline JPEG and decodes every component's
// quantized DCT coefficients.
func Load(raw []byte) (*Cover, error) {
	c := &Cover{}
	scanStart, scanComps, err := c.parseHeader(raw)
	if err != nil {
		return nil, err
	}
	c.scanOrder = scanComps
	for i, ref := range scanComps {
		for ci := range c.Components {
			if c.Components[ci].ID == ref.componentID {
				c.Components[ci].dcTableID = ref.dcTableID
				c.Components[ci].acTableID = ref.acTableID
			}
		}
		_ = i
	}
	c.rawHeader = append([]byte(nil), raw[:scanStart]...)

	if err := c.decodeScan(raw[scanStart:]); err != nil {
		return nil, err
	}
	if err := c.componentSizeCheck(); err != nil {
		return nil, err
	}
	return c, nil
}

// Capacity reports the number of AC coefficient slots (63 per block, DC
// excluded) across every block of every component; filtering out the
// coefficient values the position engine reserves happens one layer up.
func (c *Cover) Capacity() int {
	n := 0
	for _, comp := range c.Components {
		n += len(comp.Blocks) * 63
	}
	return n
}

// Bytes re-emits the JPEG file: the original header bytes verbatim,
// followed by a freshly Huffman-encoded scan built from (possibly mutated)
// coefficient blocks using the same quantization and Huffman tables the
// file was parsed with.
func (c *Cover) Bytes() ([]byte, error) {
	scan, err := c.encodeScan()
	if err != nil {
		return nil, err
	}
	out := make([]byte, 0, len(c.rawHeader)+len(scan)+2)
	out = append(out, c.rawHeader...)
	out = append(out, scan...)
	out = append(out, 0xFF, markerEOI)
	return out, nil
}

// componentSizeCheck reports whether the frame's own declared blocksPerLine
// math was internally consistent, a sanity check Load runs before handing a
// Cover to callers.
func (c *Cover) componentSizeCheck() error {
	for _, comp := range c.Components {
		if len(comp.Blocks) != comp.BlocksPerLine*comp.BlocksPerColumn {
			return models.NewError(models.KindMalformedCover, "component block count mismatch", nil)
		}
	}
	return nil
}
