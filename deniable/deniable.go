// Package deniable implements the dual-payload splitter (C6). It is kept
// separate from position deliberately: spec.md §4.6 requires the partition
// order to be keyed by its own independent partition_seed, never the steg
// key, and the two keyed-shuffle call sites must not be able to share state
// by accident. The shuffle primitive below is therefore a standalone
// implementation rather than an import of the position package's.
package deniable

import (
	"encoding/binary"

	"golang.org/x/crypto/chacha20"
)

type chachaRand struct {
	cipher *chacha20.Cipher
}

func newChachaRand(seed [32]byte) *chachaRand {
	c, err := chacha20.NewUnauthenticatedCipher(seed[:], make([]byte, chacha20.NonceSize))
	if err != nil {
		panic(err)
	}
	return &chachaRand{cipher: c}
}

func (r *chachaRand) uint32() uint32 {
	var buf [4]byte
	r.cipher.XORKeyStream(buf[:], buf[:])
	return binary.BigEndian.Uint32(buf[:])
}

func (r *chachaRand) intn(n int) int {
	if n <= 0 {
		panic("deniable: intn requires n > 0")
	}
	nu := uint64(n)
	limit := (uint64(1) << 32) / nu * nu
	for {
		v := uint64(r.uint32())
		if v < limit {
			return int(v % nu)
		}
	}
}

func fisherYates(seed [32]byte, n int) []int {
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	if n < 2 {
		return idx
	}
	r := newChachaRand(seed)
	for i := n - 1; i > 0; i-- {
		j := r.intn(i + 1)
		idx[i], idx[j] = idx[j], idx[i]
	}
	return idx
}

// Halves is the result of Partition: two disjoint, union-complete slices of
// the full slot sequence.
type Halves struct {
	H0 []int
	H1 []int
}

// Partition permutes slots with a ChaCha20-keyed Fisher-Yates shuffle under
// partitionSeed and splits the permuted sequence down the middle (spec.md
// §4.6). When len(slots) is odd, H0 receives the extra element.
func Partition(partitionSeed [32]byte, slots []int) Halves {
	order := fisherYates(partitionSeed, len(slots))
	permuted := make([]int, len(slots))
	for i, j := range order {
		permuted[i] = slots[j]
	}
	mid := (len(permuted) + 1) / 2
	h0 := append([]int(nil), permuted[:mid]...)
	h1 := append([]int(nil), permuted[mid:]...)
	return Halves{H0: h0, H1: h1}
}

// Half returns the slot slice corresponding to which ∈ {0,1}, the
// partition_half a sidecar records.
func (h Halves) Half(which int) []int {
	if which == 0 {
		return h.H0
	}
	return h.H1
}
