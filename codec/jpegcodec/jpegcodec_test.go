package jpegcodec

import (
	"bytes"
	"encoding/binary"
	"testing"
)

// buildMinimalJPEG assembles a single-component (grayscale), single-MCU,
// non-restart baseline JPEG using tiny 4-symbol Huffman tables, entirely by
// hand. It exists only to exercise the full marker-parse -> decode -> encode
// path without depending on a real-world JPEG fixture file.
func buildMinimalJPEG(t *testing.T, dcDiff, ac1, ac8 int32) []byte {
	t.Helper()
	var buf bytes.Buffer
	buf.Write([]byte{0xFF, markerSOI})

	// DQT: table 0, 8-bit precision, all ones.
	var dqt bytes.Buffer
	dqt.WriteByte(0x00) // precision 0, id 0
	for i := 0; i < 64; i++ {
		dqt.WriteByte(1)
	}
	writeSegment(&buf, 0xDB, dqt.Bytes())

	// SOF0: 8-bit, 8x8, 1 component, sampling 1x1, quant table 0.
	var sof bytes.Buffer
	sof.WriteByte(8)
	writeU16(&sof, 8)
	writeU16(&sof, 8)
	sof.WriteByte(1)
	sof.WriteByte(1)    // component ID
	sof.WriteByte(0x11) // H=1, V=1
	sof.WriteByte(0)    // quant table id
	writeSegment(&buf, markerSOF0, sof.Bytes())

	// DHT: DC table id 0 and AC table id 0, both 4 symbols at length 2.
	writeSegment(&buf, markerDHT, buildDHTSegment(0, []byte{0, 1, 2, 3}))
	writeSegment(&buf, markerDHT, buildDHTSegment(0x10, []byte{0x00, 0x01, 0x02, 0x11}))

	// SOS: 1 component, DC table 0, AC table 0.
	var sos bytes.Buffer
	sos.WriteByte(1)
	sos.WriteByte(1) // component selector
	sos.WriteByte(0x00)
	sos.WriteByte(0) // Ss
	sos.WriteByte(63) // Se
	sos.WriteByte(0) // Ah/Al
	writeSegment(&buf, markerSOS, sos.Bytes())

	dcTable := buildTestHuffTable([]byte{0, 1, 2, 3})
	acTable := buildTestHuffTable([]byte{0x00, 0x01, 0x02, 0x11})
	var block [64]int32
	block[0] = dcDiff
	block[1] = ac1
	block[8] = ac8
	bw := newBitWriter()
	pred := 0
	encodeBlock(bw, block, dcTable.encodeTable(), acTable.encodeTable(), &pred)
	buf.Write(bw.finish())

	buf.Write([]byte{0xFF, markerEOI})
	return buf.Bytes()
}

func buildDHTSegment(classAndIDBase byte, values []byte) []byte {
	var seg bytes.Buffer
	seg.WriteByte(classAndIDBase)
	var counts [16]byte
	counts[1] = byte(len(values))
	seg.Write(counts[:])
	seg.Write(values)
	return seg.Bytes()
}

func writeSegment(buf *bytes.Buffer, marker byte, payload []byte) {
	buf.WriteByte(0xFF)
	buf.WriteByte(marker)
	writeU16(buf, uint16(len(payload)+2))
	buf.Write(payload)
}

func writeU16(buf *bytes.Buffer, v uint16) {
	var b [2]byte
	binary.BigEndian.PutUint16(b[:], v)
	buf.Write(b[:])
}

func TestLoadDecodesCoefficients(t *testing.T) {
	raw := buildMinimalJPEG(t, 5, 3, 1)
	cover, err := Load(raw)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(cover.Components) != 1 {
		t.Fatalf("components = %d, want 1", len(cover.Components))
	}
	comp := cover.Components[0]
	if len(comp.Blocks) != 1 {
		t.Fatalf("blocks = %d, want 1", len(comp.Blocks))
	}
	block := comp.Blocks[0]
	if block[0] != 5 || block[1] != 3 || block[8] != 1 {
		t.Fatalf("decoded block = %v, want DC=5 nat[1]=3 nat[8]=1", block)
	}
}

func TestSaveLoadRoundTripAfterMutation(t *testing.T) {
	raw := buildMinimalJPEG(t, 5, 3, 1)
	cover, err := Load(raw)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	cover.Components[0].Blocks[0][1] = (cover.Components[0].Blocks[0][1] &^ 1) | 0 // 3 -> 2

	out, err := cover.Bytes()
	if err != nil {
		t.Fatalf("Bytes: %v", err)
	}
	reloaded, err := Load(out)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if got := reloaded.Components[0].Blocks[0][1]; got != 2 {
		t.Fatalf("mutated coefficient = %d, want 2", got)
	}
	if got := reloaded.Components[0].Blocks[0][8]; got != 1 {
		t.Fatalf("untouched coefficient changed: got %d, want 1", got)
	}
}

func TestCapacityCountsACSlots(t *testing.T) {
	raw := buildMinimalJPEG(t, 5, 3, 1)
	cover, err := Load(raw)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got, want := cover.Capacity(), 63; got != want {
		t.Fatalf("Capacity() = %d, want %d", got, want)
	}
}
