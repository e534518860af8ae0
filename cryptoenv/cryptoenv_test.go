package cryptoenv

import (
	"bytes"
	"testing"

	"github.com/astego/cryptostego/models"
)

func TestAsconRoundTrip(t *testing.T) {
	cases := [][]byte{
		{},
		[]byte("a"),
		[]byte("hello world"),
		bytes.Repeat([]byte{0x42}, 8),
		bytes.Repeat([]byte{0x42}, 9),
		bytes.Repeat([]byte{0x42}, 1000),
	}
	key := bytes.Repeat([]byte{0x01}, 16)
	nonce := bytes.Repeat([]byte{0x02}, 16)
	ad := []byte("associated")

	for _, pt := range cases {
		ct := asconEncrypt(key, nonce, pt, ad)
		if len(ct) != len(pt)+16 {
			t.Fatalf("ciphertext length = %d, want %d", len(ct), len(pt)+16)
		}
		got, ok := asconDecrypt(key, nonce, ct, ad)
		if !ok {
			t.Fatalf("decrypt failed for plaintext len %d", len(pt))
		}
		if !bytes.Equal(got, pt) {
			t.Fatalf("round trip mismatch for len %d: got %v want %v", len(pt), got, pt)
		}
	}
}

func TestAsconRejectsTamperedCiphertext(t *testing.T) {
	key := bytes.Repeat([]byte{0x03}, 16)
	nonce := bytes.Repeat([]byte{0x04}, 16)
	ct := asconEncrypt(key, nonce, []byte("authenticate me"), nil)
	ct[0] ^= 0x01
	if _, ok := asconDecrypt(key, nonce, ct, nil); ok {
		t.Fatal("expected tampered ciphertext to fail authentication")
	}
}

func TestAsconRejectsWrongKey(t *testing.T) {
	key := bytes.Repeat([]byte{0x05}, 16)
	wrongKey := bytes.Repeat([]byte{0x06}, 16)
	nonce := bytes.Repeat([]byte{0x07}, 16)
	ct := asconEncrypt(key, nonce, []byte("secret"), nil)
	if _, ok := asconDecrypt(wrongKey, nonce, ct, nil); ok {
		t.Fatal("expected wrong key to fail authentication")
	}
}

func TestDeriveKeyDeterministic(t *testing.T) {
	salt := bytes.Repeat([]byte{0x09}, 16)
	a, _, err := DeriveKey("correct horse battery staple", salt)
	if err != nil {
		t.Fatalf("DeriveKey: %v", err)
	}
	b, _, err := DeriveKey("correct horse battery staple", salt)
	if err != nil {
		t.Fatalf("DeriveKey: %v", err)
	}
	if a.Bytes != b.Bytes {
		t.Fatal("same passphrase and salt produced different derived keys")
	}

	c, _, err := DeriveKey("wrong passphrase", salt)
	if err != nil {
		t.Fatalf("DeriveKey: %v", err)
	}
	if a.Bytes == c.Bytes {
		t.Fatal("different passphrases produced the same derived key")
	}
}

func TestEncryptDecryptRoundTripAllCiphers(t *testing.T) {
	for _, id := range []models.CipherID{models.CipherAscon128, models.CipherChaCha20Poly1305, models.CipherAES256GCM} {
		dk, salt, err := DeriveKey("correct horse battery staple", nil)
		if err != nil {
			t.Fatalf("DeriveKey: %v", err)
		}
		plaintext := []byte("hello world")
		env, err := Encrypt(id, dk, plaintext)
		if err != nil {
			t.Fatalf("Encrypt(%s): %v", id, err)
		}
		env.Salt = salt

		got, err := Decrypt(env, dk)
		if err != nil {
			t.Fatalf("Decrypt(%s): %v", id, err)
		}
		if !bytes.Equal(got, plaintext) {
			t.Fatalf("Decrypt(%s) = %q, want %q", id, got, plaintext)
		}
	}
}

func TestDecryptWrongPassphraseFailsAuth(t *testing.T) {
	dk, salt, err := DeriveKey("correct horse battery staple", nil)
	if err != nil {
		t.Fatalf("DeriveKey: %v", err)
	}
	env, err := Encrypt(models.CipherChaCha20Poly1305, dk, []byte("hello world"))
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}

	wrongDK, _, err := DeriveKey("wrong", salt)
	if err != nil {
		t.Fatalf("DeriveKey: %v", err)
	}
	_, err = Decrypt(env, wrongDK)
	if models.KindOf(err) != models.KindAuthFail {
		t.Fatalf("expected AuthFail, got %v", err)
	}
}

func TestCompressDecompressRoundTrip(t *testing.T) {
	data := bytes.Repeat([]byte("repeat me please "), 200)
	compressed, err := compress(data)
	if err != nil {
		t.Fatalf("compress: %v", err)
	}
	if len(compressed) >= len(data) {
		t.Fatalf("expected compressed size to shrink repetitive data: got %d from %d", len(compressed), len(data))
	}
	out, err := decompress(compressed)
	if err != nil {
		t.Fatalf("decompress: %v", err)
	}
	if !bytes.Equal(out, data) {
		t.Fatal("decompress(compress(x)) != x")
	}
}
