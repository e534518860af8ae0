package cryptoenv

import "encoding/binary"

// asconState is the 320-bit permutation state of Ascon-128: five 64-bit
// words. There is no ecosystem Go package for Ascon in the examined corpus
// (the NIST Lightweight Cryptography winner is new enough that the pack's
// golang.org/x/crypto vendor tree does not carry it yet), so this is the
// one AEAD primitive in C5 implemented from scratch rather than wired to a
// library, following the public Ascon v1.2 specification's basic AEAD mode.
type asconState [5]uint64

const (
	asconIV      = uint64(0x80400c0600000000)
	asconRounds  = 12
	asconRoundsB = 6
)

var roundConstants = [12]uint64{
	0xf0, 0xe1, 0xd2, 0xc3, 0xb4, 0xa5,
	0x96, 0x87, 0x78, 0x69, 0x5a, 0x4b,
}

func rotr(x uint64, n uint) uint64 {
	return (x >> n) | (x << (64 - n))
}

// permute applies the last `rounds` constants of the 12-round schedule,
// implementing the substitution layer (a bitsliced 5-bit S-box) and linear
// diffusion layer of the Ascon permutation.
func (s *asconState) permute(rounds int) {
	start := asconRounds - rounds
	for r := start; r < asconRounds; r++ {
		s[2] ^= roundConstants[r]

		s[0] ^= s[4]
		s[4] ^= s[3]
		s[2] ^= s[1]

		t0 := (^s[0]) & s[1]
		t1 := (^s[1]) & s[2]
		t2 := (^s[2]) & s[3]
		t3 := (^s[3]) & s[4]
		t4 := (^s[4]) & s[0]

		s[0] ^= t1
		s[1] ^= t2
		s[2] ^= t3
		s[3] ^= t4
		s[4] ^= t0

		s[1] ^= s[0]
		s[0] ^= s[4]
		s[3] ^= s[2]
		s[2] = ^s[2]

		s[0] ^= rotr(s[0], 19) ^ rotr(s[0], 28)
		s[1] ^= rotr(s[1], 61) ^ rotr(s[1], 39)
		s[2] ^= rotr(s[2], 1) ^ rotr(s[2], 6)
		s[3] ^= rotr(s[3], 10) ^ rotr(s[3], 17)
		s[4] ^= rotr(s[4], 7) ^ rotr(s[4], 41)
	}
}

func beU64(b []byte) uint64 { return binary.BigEndian.Uint64(b) }

func beBytes(v uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, v)
	return b
}

// asconInit sets up the initial state from the 16-byte key and 16-byte
// nonce, per Ascon-128's initialization phase.
func asconInit(key, nonce []byte) asconState {
	k0, k1 := beU64(key[0:8]), beU64(key[8:16])
	var s asconState
	s[0] = asconIV
	s[1] = k0
	s[2] = k1
	s[3] = beU64(nonce[0:8])
	s[4] = beU64(nonce[8:16])
	s.permute(asconRounds)
	s[3] ^= k0
	s[4] ^= k1
	return s
}

// pad10 pads data with a single 0x80 byte followed by zero bytes out to the
// next multiple of 8 (the rate), per Ascon's padding rule. Empty input still
// yields one padded block.
func pad10(data []byte) []byte {
	padLen := 8 - (len(data) % 8)
	out := make([]byte, len(data)+padLen)
	copy(out, data)
	out[len(data)] = 0x80
	return out
}

func (s *asconState) absorbAD(ad []byte) {
	if len(ad) > 0 {
		padded := pad10(ad)
		for i := 0; i < len(padded); i += 8 {
			block := beU64(padded[i : i+8])
			s[0] ^= block
			s.permute(asconRoundsB)
		}
	}
	s[4] ^= 1
}

// asconEncrypt produces ciphertext of len(plaintext) bytes plus the 16-byte
// authentication tag, via the plaintext-absorption-and-squeeze loop
// followed by finalization.
func asconEncrypt(key, nonce, plaintext, ad []byte) []byte {
	s := asconInit(key, nonce)
	s.absorbAD(ad)

	padded := pad10(plaintext)
	ct := make([]byte, 0, len(padded))
	for i := 0; i < len(padded); i += 8 {
		block := beU64(padded[i : i+8])
		s[0] ^= block
		ct = append(ct, beBytes(s[0])...)
		if i+8 < len(padded) {
			s.permute(asconRoundsB)
		}
	}
	ct = ct[:len(plaintext)]

	k0, k1 := beU64(key[0:8]), beU64(key[8:16])
	s[1] ^= k0
	s[2] ^= k1
	s.permute(asconRounds)
	tag := append(beBytes(s[3]^k0), beBytes(s[4]^k1)...)

	return append(ct, tag...)
}

// asconDecrypt verifies the trailing 16-byte tag of in (ciphertext||tag)
// against ad and, if it matches, returns the recovered plaintext.
func asconDecrypt(key, nonce, in, ad []byte) ([]byte, bool) {
	if len(in) < 16 {
		return nil, false
	}
	ct := in[:len(in)-16]
	wantTag := in[len(in)-16:]

	s := asconInit(key, nonce)
	s.absorbAD(ad)

	// pad10 always appends at least one padding byte on the encrypt side, so
	// the final block of the padded plaintext sequence is never a ciphertext
	// block we actually transmit: every full 8-byte group of ct is an
	// ordinary (non-final) block, and the true final block is the r-byte
	// remainder (r may be 0 when len(ct) is an exact multiple of 8, in which
	// case the final block is pure padding).
	pt := make([]byte, len(ct))
	nFull := len(ct) / 8
	for i := 0; i < nFull; i++ {
		c := beU64(ct[i*8 : i*8+8])
		p := s[0] ^ c
		copy(pt[i*8:i*8+8], beBytes(p))
		s[0] = c
		s.permute(asconRoundsB)
	}
	r := len(ct) - nFull*8
	tailC := ct[nFull*8:]
	s0Bytes := beBytes(s[0])
	newS0 := make([]byte, 8)
	for i := 0; i < r; i++ {
		pt[nFull*8+i] = tailC[i] ^ s0Bytes[i]
		newS0[i] = tailC[i]
	}
	newS0[r] = s0Bytes[r] ^ 0x80
	for i := r + 1; i < 8; i++ {
		newS0[i] = s0Bytes[i]
	}
	s[0] = beU64(newS0)

	k0, k1 := beU64(key[0:8]), beU64(key[8:16])
	s[1] ^= k0
	s[2] ^= k1
	s.permute(asconRounds)
	gotTag := append(beBytes(s[3]^k0), beBytes(s[4]^k1)...)

	if !constantTimeEqual(gotTag, wantTag) {
		return nil, false
	}
	return pt, true
}

func constantTimeEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	var diff byte
	for i := range a {
		diff |= a[i] ^ b[i]
	}
	return diff == 0
}
