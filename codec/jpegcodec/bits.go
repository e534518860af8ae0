package jpegcodec

import "github.com/astego/cryptostego/models"

// bitReader walks the byte-stuffed entropy-coded segment of a scan,
// transparently dropping the 0x00 byte JPEG stuffs after every literal
// 0xFF and stopping at the first real marker it encounters.
type bitReader struct {
	data    []byte
	pos     int
	bitBuf  uint32
	bitCnt  int
	marker  byte // the marker byte that stopped the stream, 0 if none yet
	stopped bool
}

func newBitReader(data []byte) *bitReader {
	return &bitReader{data: data}
}

// readBit returns the next single bit of the entropy stream.
func (br *bitReader) readBit() (byte, error) {
	if br.bitCnt == 0 {
		if err := br.fill(); err != nil {
			return 0, err
		}
	}
	br.bitCnt--
	return byte((br.bitBuf >> uint(br.bitCnt)) & 1), nil
}

func (br *bitReader) fill() error {
	if br.stopped || br.pos >= len(br.data) {
		return models.NewError(models.KindShortRead, "entropy stream exhausted", nil)
	}
	b := br.data[br.pos]
	br.pos++
	if b == 0xFF {
		if br.pos < len(br.data) {
			next := br.data[br.pos]
			if next == 0x00 {
				br.pos++
			} else {
				br.stopped = true
				br.marker = next
				br.pos++
				return models.NewError(models.KindShortRead, "entropy stream ended at marker", nil)
			}
		}
	}
	br.bitBuf = uint32(b)
	br.bitCnt = 8
	return nil
}

// resetForRestart discards any partially consumed byte, as required right
// after an RSTn marker (ITU-T T.81 §F.1.2.4): bit alignment restarts at the
// next byte of the stream.
func (br *bitReader) resetForRestart() {
	br.bitBuf = 0
	br.bitCnt = 0
	br.stopped = false
	br.marker = 0
}

// atMarker reports whether the next two bytes at pos are a marker (0xFF
// followed by a non-zero, non-stuffing byte), without consuming input.
func (br *bitReader) atMarker() (m byte, ok bool) {
	if br.bitCnt != 0 {
		return 0, false
	}
	if br.pos+1 < len(br.data) && br.data[br.pos] == 0xFF && br.data[br.pos+1] != 0x00 {
		return br.data[br.pos+1], true
	}
	return 0, false
}

// skipMarker consumes a two-byte marker sequence already confirmed by
// atMarker.
func (br *bitReader) skipMarker() {
	br.pos += 2
}

// bitWriter accumulates bits MSB-first and byte-stuffs 0xFF bytes as they
// are flushed, the inverse of bitReader.
type bitWriter struct {
	out    []byte
	bitBuf uint32
	bitCnt int
}

func newBitWriter() *bitWriter {
	return &bitWriter{}
}

func (bw *bitWriter) writeBits(v int, n int) {
	for i := n - 1; i >= 0; i-- {
		bit := (v >> uint(i)) & 1
		bw.bitBuf = (bw.bitBuf << 1) | uint32(bit)
		bw.bitCnt++
		if bw.bitCnt == 8 {
			bw.flushByte()
		}
	}
}

func (bw *bitWriter) flushByte() {
	b := byte(bw.bitBuf & 0xFF)
	bw.out = append(bw.out, b)
	if b == 0xFF {
		bw.out = append(bw.out, 0x00)
	}
	bw.bitBuf = 0
	bw.bitCnt = 0
}

// alignRestart pads the current byte with 1-bits and flushes it, the
// encoder's counterpart to resetForRestart, then appends an RSTn marker.
func (bw *bitWriter) alignRestart(n int) {
	for bw.bitCnt != 0 {
		bw.writeBits(1, 1)
	}
	bw.out = append(bw.out, 0xFF, byte(0xD0+n%8))
}

// finish pads any partial final byte with 1-bits and returns the
// accumulated, stuffed byte stream.
func (bw *bitWriter) finish() []byte {
	for bw.bitCnt != 0 {
		bw.writeBits(1, 1)
	}
	return bw.out
}
