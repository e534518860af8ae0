package position

import (
	"encoding/binary"

	"golang.org/x/crypto/chacha20"
)

// chachaRand is a uniform-[0,n) sampler backed by a ChaCha20 keystream. It
// exists because a math/rand-seeded shuffle (the pattern the Hide reference
// package's getSeed helper uses) ties slot-order secrecy to a
// non-cryptographic PRNG; spec.md §4.3/§9 calls that out as insufficient.
type chachaRand struct {
	cipher *chacha20.Cipher
}

func newChachaRand(seed [32]byte) *chachaRand {
	// Nonce is fixed at zero: the seed itself (a steg key; the partition
	// seed has its own sampler in deniable) is never reused across
	// unrelated purposes, so a
	// constant nonce does not create a keystream-reuse hazard.
	c, err := chacha20.NewUnauthenticatedCipher(seed[:], make([]byte, chacha20.NonceSize))
	if err != nil {
		// Only possible if the key length is wrong, which cannot happen
		// for a fixed 32-byte seed.
		panic(err)
	}
	return &chachaRand{cipher: c}
}

func (r *chachaRand) uint32() uint32 {
	var buf [4]byte
	r.cipher.XORKeyStream(buf[:], buf[:])
	return binary.BigEndian.Uint32(buf[:])
}

// intn returns a uniform random int in [0,n) via rejection sampling against
// the largest multiple of n that fits in 32 bits, so the result carries no
// modulo bias.
func (r *chachaRand) intn(n int) int {
	if n <= 0 {
		panic("position: intn requires n > 0")
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

// fisherYates returns a permutation of 0..n-1 driven by seed: idx[i] is the
// index of the item that lands in output position i.
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

// Permute reorders slots according to a ChaCha20-keyed Fisher-Yates shuffle
// of seed, producing the same output for both embed and extract whenever
// seed and slots are identical (spec.md §4.3 point 4: "the stream position
// is reset at the start of the permutation").
func Permute(seed [32]byte, slots []int) []int {
	order := fisherYates(seed, len(slots))
	out := make([]int, len(slots))
	for i, j := range order {
		out[i] = slots[j]
	}
	return out
}
