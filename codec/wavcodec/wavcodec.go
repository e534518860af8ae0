// Package wavcodec implements the PCM WAV cover codec (C1). The data chunk
// is addressed byte-by-byte regardless of bit depth (spec §4.1's Open
// Question 2 is resolved this way: a slot index always names one byte of
// the sample region, so a 16-bit sample contributes two independently
// addressable slots, its low byte and its high byte; the position engine
// lists every byte in order and gives neither one preference).
//
// Chunk walking is grounded on the teacher's parseWAVHeader, generalized
// from a single data-chunk lookup into a full preserve-everything split so
// chunks the teacher ignored (LIST, fact, cue) survive round trip
// byte-for-byte. github.com/go-audio/wav is used alongside it purely to
// validate the file is PCM and to recover its declared sample format,
// since the library decodes straight to int samples and cannot be trusted
// to round-trip the raw bytes this codec mutates in place.
package wavcodec

import (
	"bytes"
	"encoding/binary"

	"github.com/go-audio/wav"

	"github.com/astego/cryptostego/models"
)

// Cover is a PCM WAV cover: everything up to the data chunk's payload is
// kept verbatim in Header (including the "data" chunk ID and size field),
// and Samples is the mutable copy of the data chunk payload.
type Cover struct {
	Header      []byte
	Samples     []byte
	SampleWidth int // bytes per sample (BitDepth / 8)
	NumChannels int
	SampleRate  int
	trailer     []byte // bytes after the data chunk payload, e.g. padding or a trailing "fact"/"LIST" chunk
}

// Load parses raw as a RIFF/WAVE PCM file and validates it with
// github.com/go-audio/wav before splitting it into Header/Samples.
func Load(raw []byte) (*Cover, error) {
	dec := wav.NewDecoder(bytes.NewReader(raw))
	dec.ReadInfo()
	if err := dec.Err(); err != nil {
		return nil, models.NewError(models.KindMalformedCover, "failed to parse WAV header", err)
	}
	if !dec.IsValidFile() {
		return nil, models.NewError(models.KindMalformedCover, "not a valid WAV file", nil)
	}
	if dec.WavAudioFormat != 1 && dec.WavAudioFormat != 0xFFFE {
		return nil, models.NewError(models.KindUnsupportedFormat, "only uncompressed PCM WAV is supported", nil)
	}

	dataOffset, dataSize, err := findDataChunk(raw)
	if err != nil {
		return nil, err
	}
	if dataOffset+int(dataSize) > len(raw) {
		return nil, models.NewError(models.KindMalformedCover, "WAV data chunk exceeds file length", nil)
	}

	c := &Cover{
		SampleWidth: int(dec.BitDepth) / 8,
		NumChannels: int(dec.NumChans),
		SampleRate:  int(dec.SampleRate),
	}
	if c.SampleWidth == 0 {
		return nil, models.NewError(models.KindMalformedCover, "WAV declares zero bit depth", nil)
	}

	c.Header = append([]byte(nil), raw[:dataOffset]...)
	c.Samples = append([]byte(nil), raw[dataOffset:dataOffset+int(dataSize)]...)
	c.trailer = append([]byte(nil), raw[dataOffset+int(dataSize):]...)
	return c, nil
}

// findDataChunk walks RIFF chunks from the top of the file and returns the
// byte offset and declared size of the "data" chunk's payload.
func findDataChunk(raw []byte) (offset int, size uint32, err error) {
	if len(raw) < 12 || string(raw[0:4]) != "RIFF" || string(raw[8:12]) != "WAVE" {
		return 0, 0, models.NewError(models.KindMalformedCover, "missing RIFF/WAVE header", nil)
	}
	pos := 12
	for pos+8 <= len(raw) {
		id := string(raw[pos : pos+4])
		chunkSize := binary.LittleEndian.Uint32(raw[pos+4 : pos+8])
		if id == "data" {
			return pos + 8, chunkSize, nil
		}
		next := pos + 8 + int(chunkSize)
		if chunkSize%2 == 1 {
			next++
		}
		if next <= pos {
			return 0, 0, models.NewError(models.KindMalformedCover, "RIFF chunk walk did not advance", nil)
		}
		pos = next
	}
	return 0, 0, models.NewError(models.KindMalformedCover, "WAV file has no data chunk", nil)
}

// Capacity is the number of addressable LSB slots: one per byte of the
// sample region.
func (c *Cover) Capacity() int { return len(c.Samples) }

// Bytes reassembles Header, the (possibly mutated) Samples, and the
// original trailer into a complete WAV file.
func (c *Cover) Bytes() []byte {
	out := make([]byte, 0, len(c.Header)+len(c.Samples)+len(c.trailer))
	out = append(out, c.Header...)
	out = append(out, c.Samples...)
	out = append(out, c.trailer...)
	return out
}
