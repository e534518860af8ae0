package jpegcodec

import "github.com/astego/cryptostego/models"

// decodeScan Huffman-decodes every MCU of the (single, baseline, possibly
// interleaved) scan, filling in each component's Blocks in natural order.
func (c *Cover) decodeScan(data []byte) error {
	br := newBitReader(data)
	dcPred := make([]int, len(c.Components))
	restartCount := 0

	for my := 0; my < c.mcusPerColumn; my++ {
		for mx := 0; mx < c.mcusPerLine; mx++ {
			for ci := range c.Components {
				comp := &c.Components[ci]
				dcTable := c.dcTables[comp.dcTableID]
				acTable := c.acTables[comp.acTableID]
				if dcTable == nil || acTable == nil {
					return models.NewError(models.KindMalformedCover, "scan references undefined huffman table", nil)
				}
				for v := 0; v < int(comp.VSampling); v++ {
					for h := 0; h < int(comp.HSampling); h++ {
						blockCol := mx*int(comp.HSampling) + h
						blockRow := my*int(comp.VSampling) + v
						blockIdx := blockRow*comp.BlocksPerLine + blockCol
						block, err := decodeBlock(br, dcTable, acTable, &dcPred[ci])
						if err != nil {
							return err
						}
						comp.Blocks[blockIdx] = block
					}
				}
			}

			if c.restartInterval > 0 {
				restartCount++
				isLastMCU := my == c.mcusPerColumn-1 && mx == c.mcusPerLine-1
				if restartCount == c.restartInterval && !isLastMCU {
					restartCount = 0
					br.resetForRestart()
					if m, ok := br.atMarker(); ok && m >= markerRST0 && m <= markerRST7 {
						br.skipMarker()
					}
					for i := range dcPred {
						dcPred[i] = 0
					}
				}
			}
		}
	}
	return nil
}

// decodeBlock Huffman-decodes one 8x8 block in zigzag scan order and
// converts it to natural order, applying DC differential prediction.
func decodeBlock(br *bitReader, dcTable, acTable *huffTable, dcPred *int) ([64]int32, error) {
	var zz [64]int32

	sizeSym, err := dcTable.decode(br)
	if err != nil {
		return zz, err
	}
	diff := 0
	if sizeSym > 0 {
		raw, err := receive(br, int(sizeSym))
		if err != nil {
			return zz, err
		}
		diff = extend(raw, int(sizeSym))
	}
	*dcPred += diff
	zz[0] = int32(*dcPred)

	k := 1
	for k < 64 {
		rs, err := acTable.decode(br)
		if err != nil {
			return zz, err
		}
		run := int(rs >> 4)
		size := rs & 0x0F
		if size == 0 {
			if run == 15 {
				k += 16 // ZRL: 16 zero coefficients
				continue
			}
			break // EOB: remaining coefficients are zero
		}
		k += run
		if k >= 64 {
			return zz, models.NewError(models.KindMalformedCover, "huffman run exceeds block size", nil)
		}
		raw, err := receive(br, int(size))
		if err != nil {
			return zz, err
		}
		zz[k] = int32(extend(raw, int(size)))
		k++
	}

	var natural [64]int32
	for z := 0; z < 64; z++ {
		natural[zigzagOrder[z]] = zz[z]
	}
	return natural, nil
}

// encodeScan rebuilds the entropy-coded segment from the current
// coefficient blocks using the same Huffman and quantization tables the
// file was decoded with.
func (c *Cover) encodeScan() ([]byte, error) {
	bw := newBitWriter()
	dcPred := make([]int, len(c.Components))
	dcEnc := make([]map[byte]huffCode, len(c.Components))
	acEnc := make([]map[byte]huffCode, len(c.Components))
	for ci, comp := range c.Components {
		dcTable := c.dcTables[comp.dcTableID]
		acTable := c.acTables[comp.acTableID]
		if dcTable == nil || acTable == nil {
			return nil, models.NewError(models.KindMalformedCover, "component references undefined huffman table", nil)
		}
		dcEnc[ci] = dcTable.encodeTable()
		acEnc[ci] = acTable.encodeTable()
	}

	restartCount := 0
	restartNum := 0
	for my := 0; my < c.mcusPerColumn; my++ {
		for mx := 0; mx < c.mcusPerLine; mx++ {
			for ci := range c.Components {
				comp := &c.Components[ci]
				for v := 0; v < int(comp.VSampling); v++ {
					for h := 0; h < int(comp.HSampling); h++ {
						blockCol := mx*int(comp.HSampling) + h
						blockRow := my*int(comp.VSampling) + v
						blockIdx := blockRow*comp.BlocksPerLine + blockCol
						encodeBlock(bw, comp.Blocks[blockIdx], dcEnc[ci], acEnc[ci], &dcPred[ci])
					}
				}
			}

			if c.restartInterval > 0 {
				restartCount++
				isLastMCU := my == c.mcusPerColumn-1 && mx == c.mcusPerLine-1
				if restartCount == c.restartInterval && !isLastMCU {
					restartCount = 0
					bw.alignRestart(restartNum)
					restartNum++
					for i := range dcPred {
						dcPred[i] = 0
					}
				}
			}
		}
	}
	return bw.finish(), nil
}

func encodeBlock(bw *bitWriter, block [64]int32, dcEnc, acEnc map[byte]huffCode, dcPred *int) {
	var zz [64]int32
	for z := 0; z < 64; z++ {
		zz[z] = block[zigzagOrder[z]]
	}

	diff := int(zz[0]) - *dcPred
	*dcPred = int(zz[0])
	size := magCategory(diff)
	code := dcEnc[size]
	bw.writeBits(int(code.code), int(code.size))
	if size > 0 {
		bw.writeBits(encodeMagnitude(diff, size), int(size))
	}

	run := 0
	for k := 1; k < 64; k++ {
		v := int(zz[k])
		if v == 0 {
			run++
			continue
		}
		for run > 15 {
			code := acEnc[0xF0] // ZRL
			bw.writeBits(int(code.code), int(code.size))
			run -= 16
		}
		sz := magCategory(v)
		rs := byte(run<<4) | sz
		code := acEnc[rs]
		bw.writeBits(int(code.code), int(code.size))
		bw.writeBits(encodeMagnitude(v, sz), int(sz))
		run = 0
	}
	if run > 0 {
		code := acEnc[0x00] // EOB
		bw.writeBits(int(code.code), int(code.size))
	}
}
