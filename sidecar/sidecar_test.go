package sidecar

import (
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/astego/cryptostego/models"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	s := Sidecar{
		Cipher:   models.CipherChaCha20Poly1305,
		StegMode: models.ModeAdaptive,
		Deniable: false,
		Nonce:    []byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12},
		Salt:     []byte{9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9},
		InfoType: "txt",
	}
	encoded := Encode(s)
	got, err := Decode(encoded)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if diff := cmp.Diff(s, got); diff != "" {
		t.Fatalf("decoded sidecar mismatch (-want +got):\n%s", diff)
	}
}

func TestEncodeIsDeterministic(t *testing.T) {
	s := Sidecar{
		Cipher: models.CipherAES256GCM,
		Nonce:  []byte{1, 2, 3},
		Salt:   []byte{4, 5, 6},
	}
	a := Encode(s)
	b := Encode(s)
	if !bytes.Equal(a, b) {
		t.Fatal("Encode produced different output for the same Sidecar value")
	}
}

func TestDeniableRoundTrip(t *testing.T) {
	s := Sidecar{
		Cipher:        models.CipherAscon128,
		Deniable:      true,
		Nonce:         []byte{1},
		Salt:          []byte{2},
		PartitionSeed: bytes.Repeat([]byte{0x07}, 32),
		PartitionHalf: 1,
	}
	got, err := Decode(Encode(s))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !got.Deniable || got.PartitionHalf != 1 || !bytes.Equal(got.PartitionSeed, s.PartitionSeed) {
		t.Fatalf("deniable fields lost in round trip: %+v", got)
	}
}

func TestDecodeRejectsMissingCipher(t *testing.T) {
	_, err := Decode([]byte("nonce: AAAA\nsalt: AAAA\ndeniable: false\n"))
	if models.KindOf(err) != models.KindMalformedSidecar {
		t.Fatalf("expected MalformedSidecar, got %v", err)
	}
}

func TestDecodeRejectsDeniableWithoutPartitionFields(t *testing.T) {
	_, err := Decode([]byte("cipher: AES-256-GCM\nnonce: AAAA\nsalt: AAAA\ndeniable: true\n"))
	if models.KindOf(err) != models.KindMalformedSidecar {
		t.Fatalf("expected MalformedSidecar, got %v", err)
	}
}

func TestDecodeIgnoresUnknownFields(t *testing.T) {
	raw := []byte("cipher: AES-256-GCM\nnonce: AAAA\nsalt: AAAA\ndeniable: false\nfuture_field: whatever\n")
	s, err := Decode(raw)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if s.Cipher != models.CipherAES256GCM {
		t.Fatalf("Cipher = %q, want AES-256-GCM", s.Cipher)
	}
}

func TestDecodeRejectsUnrecognizedCipher(t *testing.T) {
	raw := []byte("cipher: ROT13\nnonce: AAAA\nsalt: AAAA\ndeniable: false\n")
	_, err := Decode(raw)
	if models.KindOf(err) != models.KindMalformedSidecar {
		t.Fatalf("expected MalformedSidecar, got %v", err)
	}
}
