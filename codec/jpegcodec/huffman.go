package jpegcodec

import "github.com/astego/cryptostego/models"

// huffTable is a JPEG Huffman table built from the 16 BITS counts and the
// HUFFVAL value list a DHT segment carries (ITU-T T.81 Annex C).
type huffTable struct {
	counts  [16]byte
	values  []byte
	minCode [17]int
	maxCode [17]int
	valPtr  [17]int
}

func newHuffTable(counts [16]byte, values []byte) *huffTable {
	t := &huffTable{counts: counts, values: values}
	code := 0
	k := 0
	for l := 1; l <= 16; l++ {
		n := int(counts[l-1])
		if n == 0 {
			t.minCode[l] = -1
			t.maxCode[l] = -1
		} else {
			t.valPtr[l] = k
			t.minCode[l] = code
			code += n
			k += n
			t.maxCode[l] = code - 1
		}
		code <<= 1
	}
	return t
}

type huffCode struct {
	code uint16
	size byte
}

// encodeTable maps a Huffman symbol to the bit pattern used to emit it,
// derived from the same counts/values a decode table is built from
// (Annex C.2's generate_size_table/generate_code_table procedure).
func (t *huffTable) encodeTable() map[byte]huffCode {
	sizes := make([]byte, 0, len(t.values))
	for l := 1; l <= 16; l++ {
		for i := 0; i < int(t.counts[l-1]); i++ {
			sizes = append(sizes, byte(l))
		}
	}
	codes := make([]uint16, len(sizes))
	code := uint16(0)
	i := 0
	for i < len(sizes) {
		size := sizes[i]
		for i < len(sizes) && sizes[i] == size {
			codes[i] = code
			code++
			i++
		}
		code <<= 1
	}
	out := make(map[byte]huffCode, len(t.values))
	for idx, v := range t.values {
		out[v] = huffCode{code: codes[idx], size: sizes[idx]}
	}
	return out
}

// decode reads one Huffman symbol from br using the canonical bit-by-bit
// comparison against minCode/maxCode (ITU-T T.81 Annex F, Figure F.16).
func (t *huffTable) decode(br *bitReader) (byte, error) {
	code := 0
	for l := 1; l <= 16; l++ {
		bit, err := br.readBit()
		if err != nil {
			return 0, err
		}
		code = (code << 1) | int(bit)
		if t.maxCode[l] != -1 && code <= t.maxCode[l] && code >= t.minCode[l] {
			idx := t.valPtr[l] + (code - t.minCode[l])
			if idx < 0 || idx >= len(t.values) {
				return 0, models.NewError(models.KindMalformedCover, "huffman index out of range", nil)
			}
			return t.values[idx], nil
		}
	}
	return 0, models.NewError(models.KindMalformedCover, "invalid huffman code in entropy stream", nil)
}

// receive reads n raw bits MSB-first and returns them as an unsigned value,
// the RECEIVE procedure of Annex F.2.2.1.
func receive(br *bitReader, n int) (int, error) {
	v := 0
	for i := 0; i < n; i++ {
		bit, err := br.readBit()
		if err != nil {
			return 0, err
		}
		v = (v << 1) | int(bit)
	}
	return v, nil
}

// extend maps the unsigned n-bit value read by receive back onto its signed
// range, the EXTEND procedure of Annex F.2.2.1: values whose top bit is 0
// are negative, offset by -(2^n - 1).
func extend(v, n int) int {
	if n == 0 {
		return 0
	}
	vt := 1 << (n - 1)
	if v < vt {
		return v - (1 << n) + 1
	}
	return v
}

// magCategory returns the JPEG magnitude category (SSSS) for coefficient v:
// the number of bits needed to represent |v|.
func magCategory(v int) byte {
	if v < 0 {
		v = -v
	}
	n := byte(0)
	for v > 0 {
		n++
		v >>= 1
	}
	return n
}

// encodeMagnitude returns the n-bit payload written after a magnitude
// category symbol, the inverse of extend/receive.
func encodeMagnitude(v int, n byte) int {
	if v < 0 {
		return v + (1 << n) - 1
	}
	return v
}
