package jpegcodec

import (
	"encoding/binary"

	"github.com/astego/cryptostego/models"
)

const (
	markerSOI  = 0xD8
	markerEOI  = 0xD9
	markerSOF0 = 0xC0
	markerDHT  = 0xC4
	markerDQT  = 0xDB
	markerDRI  = 0xDD
	markerSOS  = 0xDA
	markerRST0 = 0xD0
	markerRST7 = 0xD7
)

func isSOFMarker(m byte) bool {
	// SOF1..SOF3, SOF5..SOF7, SOF9..SOF11, SOF13..SOF15 are other (non-baseline)
	// frame encodings this codec does not support; only SOF0 is accepted.
	return m >= 0xC0 && m <= 0xCF && m != markerDHT && m != 0xC8 && m != 0xCC
}

type scanComponentRef struct {
	componentID uint8
	dcTableID   uint8
	acTableID   uint8
}

// parseHeader walks every marker segment preceding the entropy-coded scan
// data and populates c's quantization/Huffman tables and component
// geometry, mirroring the marker walk in
// other_examples/ca6315c1_thvl3-DeSteGo__detect-stego-jpeg_dct_parser.go.go
// but completing the DHT/SOS handling that reference file stubs out.
func (c *Cover) parseHeader(data []byte) (scanStart int, scanComps []scanComponentRef, err error) {
	pos := 0
	if len(data) < 2 || data[0] != 0xFF || data[1] != markerSOI {
		return 0, nil, models.NewError(models.KindMalformedCover, "missing JPEG SOI marker", nil)
	}
	pos = 2

	for pos < len(data) {
		if data[pos] != 0xFF {
			return 0, nil, models.NewError(models.KindMalformedCover, "expected marker byte", nil)
		}
		marker := data[pos+1]
		pos += 2
		if marker == markerEOI {
			break
		}
		if marker >= markerRST0 && marker <= markerRST7 {
			continue
		}

		if pos+2 > len(data) {
			return 0, nil, models.NewError(models.KindMalformedCover, "truncated marker segment", nil)
		}
		segLen := int(binary.BigEndian.Uint16(data[pos : pos+2]))
		if segLen < 2 || pos+segLen > len(data) {
			return 0, nil, models.NewError(models.KindMalformedCover, "invalid marker segment length", nil)
		}
		seg := data[pos+2 : pos+segLen]

		switch {
		case marker == markerDQT:
			if err := c.parseDQT(seg); err != nil {
				return 0, nil, err
			}
		case marker == markerDHT:
			if err := c.parseDHT(seg); err != nil {
				return 0, nil, err
			}
		case marker == markerDRI:
			if len(seg) < 2 {
				return 0, nil, models.NewError(models.KindMalformedCover, "truncated DRI segment", nil)
			}
			c.restartInterval = int(binary.BigEndian.Uint16(seg[0:2]))
		case isSOFMarker(marker):
			if marker != markerSOF0 {
				return 0, nil, models.NewError(models.KindUnsupportedFormat, "only baseline (SOF0) JPEG is supported", nil)
			}
			if err := c.parseSOF0(seg); err != nil {
				return 0, nil, err
			}
		case marker == markerSOS:
			comps, hdrLen, err := parseSOS(seg)
			if err != nil {
				return 0, nil, err
			}
			return pos + 2 + hdrLen, comps, nil
		}

		pos += segLen
	}
	return 0, nil, models.NewError(models.KindMalformedCover, "JPEG file has no scan data", nil)
}

func (c *Cover) parseDQT(seg []byte) error {
	pos := 0
	for pos < len(seg) {
		precisionAndID := seg[pos]
		precision := precisionAndID >> 4
		id := precisionAndID & 0x0F
		pos++
		if id > 3 {
			return models.NewError(models.KindMalformedCover, "invalid DQT table id", nil)
		}
		var table [64]uint16
		for i := 0; i < 64; i++ {
			if precision == 0 {
				if pos >= len(seg) {
					return models.NewError(models.KindMalformedCover, "truncated DQT segment", nil)
				}
				table[zigzagOrder[i]] = uint16(seg[pos])
				pos++
			} else {
				if pos+1 >= len(seg) {
					return models.NewError(models.KindMalformedCover, "truncated DQT segment", nil)
				}
				table[zigzagOrder[i]] = binary.BigEndian.Uint16(seg[pos : pos+2])
				pos += 2
			}
		}
		c.quantTables[id] = table
	}
	return nil
}

func (c *Cover) parseDHT(seg []byte) error {
	pos := 0
	for pos < len(seg) {
		classAndID := seg[pos]
		class := classAndID >> 4
		id := classAndID & 0x0F
		pos++
		if id > 3 || pos+16 > len(seg) {
			return models.NewError(models.KindMalformedCover, "invalid DHT segment", nil)
		}
		var counts [16]byte
		total := 0
		for i := 0; i < 16; i++ {
			counts[i] = seg[pos+i]
			total += int(counts[i])
		}
		pos += 16
		if pos+total > len(seg) {
			return models.NewError(models.KindMalformedCover, "truncated DHT values", nil)
		}
		values := append([]byte(nil), seg[pos:pos+total]...)
		pos += total

		table := newHuffTable(counts, values)
		if class == 0 {
			c.dcTables[id] = table
		} else {
			c.acTables[id] = table
		}
	}
	return nil
}

func (c *Cover) parseSOF0(seg []byte) error {
	if len(seg) < 6 {
		return models.NewError(models.KindMalformedCover, "truncated SOF0 segment", nil)
	}
	precision := seg[0]
	if precision != 8 {
		return models.NewError(models.KindUnsupportedFormat, "only 8-bit JPEG precision is supported", nil)
	}
	c.Height = int(binary.BigEndian.Uint16(seg[1:3]))
	c.Width = int(binary.BigEndian.Uint16(seg[3:5]))
	numComponents := int(seg[5])
	if len(seg) < 6+numComponents*3 {
		return models.NewError(models.KindMalformedCover, "truncated SOF0 component list", nil)
	}
	c.Components = make([]Component, numComponents)
	maxH, maxV := uint8(1), uint8(1)
	for i := 0; i < numComponents; i++ {
		b := seg[6+i*3:]
		c.Components[i].ID = b[0]
		c.Components[i].HSampling = b[1] >> 4
		c.Components[i].VSampling = b[1] & 0x0F
		c.Components[i].quantTableID = b[2]
		if c.Components[i].HSampling > maxH {
			maxH = c.Components[i].HSampling
		}
		if c.Components[i].VSampling > maxV {
			maxV = c.Components[i].VSampling
		}
	}
	c.maxH, c.maxV = maxH, maxV

	mcuW, mcuH := int(maxH)*8, int(maxV)*8
	mcusPerLine := (c.Width + mcuW - 1) / mcuW
	mcusPerCol := (c.Height + mcuH - 1) / mcuH
	c.mcusPerLine, c.mcusPerColumn = mcusPerLine, mcusPerCol
	for i := range c.Components {
		comp := &c.Components[i]
		comp.BlocksPerLine = mcusPerLine * int(comp.HSampling)
		comp.BlocksPerColumn = mcusPerCol * int(comp.VSampling)
		comp.Blocks = make([][64]int32, comp.BlocksPerLine*comp.BlocksPerColumn)
		comp.QuantTable = c.quantTables[comp.quantTableID]
	}
	return nil
}

func parseSOS(seg []byte) ([]scanComponentRef, int, error) {
	if len(seg) < 1 {
		return nil, 0, models.NewError(models.KindMalformedCover, "truncated SOS segment", nil)
	}
	n := int(seg[0])
	if len(seg) < 1+n*2+3 {
		return nil, 0, models.NewError(models.KindMalformedCover, "truncated SOS component list", nil)
	}
	comps := make([]scanComponentRef, n)
	for i := 0; i < n; i++ {
		b := seg[1+i*2:]
		comps[i] = scanComponentRef{
			componentID: b[0],
			dcTableID:   b[1] >> 4,
			acTableID:   b[1] & 0x0F,
		}
	}
	return comps, len(seg), nil
}
