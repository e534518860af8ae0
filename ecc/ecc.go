// Package ecc implements the optional Reed-Solomon integrity shard that
// wraps the framed ciphertext before it reaches the position engine, the
// "ecc: true" sidecar field SPEC_FULL.md adds on top of spec.md §9's open
// question about transport-level corruption handling.
//
// It is a direct generalization of andresmejia3-Hide's
// addReedSolomon/removeReedSolomon pair: same 4 data/2 parity shard split,
// same length-prefix-then-split layout, lifted out of that package's
// chunked-stream loop into a single whole-buffer wrap/unwrap pair since
// this pipeline frames one ciphertext per call rather than a stream of
// fixed-size chunks.
package ecc

import (
	"encoding/binary"

	"github.com/klauspost/reedsolomon"

	"github.com/astego/cryptostego/models"
)

const (
	dataShards   = 4
	parityShards = 2
	lengthBytes  = 8
)

// Wrap pads data with an 8-byte length prefix, splits it into dataShards
// equal shards, computes parityShards parity shards, and concatenates all
// of them. The result is larger than data by roughly parityShards/dataShards
// plus shard-alignment padding.
func Wrap(data []byte) ([]byte, error) {
	enc, err := reedsolomon.New(dataShards, parityShards)
	if err != nil {
		return nil, err
	}

	header := make([]byte, lengthBytes)
	binary.BigEndian.PutUint64(header, uint64(len(data)))
	payload := append(header, data...)

	shards, err := enc.Split(payload)
	if err != nil {
		return nil, models.NewError(models.KindMalformedCover, "reed-solomon split failed", err)
	}
	if err := enc.Encode(shards); err != nil {
		return nil, models.NewError(models.KindMalformedCover, "reed-solomon encode failed", err)
	}

	var out []byte
	for _, shard := range shards {
		out = append(out, shard...)
	}
	return out, nil
}

// Unwrap reverses Wrap: it splits raw into the same six shards, verifies
// and reconstructs them if up to parityShards are missing or corrupted,
// then trims the result back to its original, length-prefixed size.
func Unwrap(raw []byte) ([]byte, error) {
	enc, err := reedsolomon.New(dataShards, parityShards)
	if err != nil {
		return nil, err
	}

	shards, err := enc.Split(raw)
	if err != nil {
		return nil, models.NewError(models.KindMalformedCover, "reed-solomon split failed", err)
	}
	if ok, _ := enc.Verify(shards); !ok {
		if err := enc.Reconstruct(shards); err != nil {
			return nil, models.NewError(models.KindMalformedCover, "reed-solomon shards unrecoverable", err)
		}
	}

	var joined []byte
	for i := 0; i < dataShards; i++ {
		joined = append(joined, shards[i]...)
	}
	if len(joined) < lengthBytes {
		return nil, models.NewError(models.KindMalformedCover, "recovered ecc payload too short", nil)
	}
	length := binary.BigEndian.Uint64(joined[:lengthBytes])
	if length > uint64(len(joined)-lengthBytes) {
		return nil, models.NewError(models.KindMalformedCover, "recovered ecc payload length mismatch", nil)
	}
	return joined[lengthBytes : lengthBytes+length], nil
}
