// Package cryptoenv implements the AEAD envelope (C5): Argon2id key
// derivation, Zstandard compression, and the three selectable ciphers of
// spec.md §4.5. Parameter choices and the compress-then-encrypt ordering are
// grounded on the klauspost/compress/zstd manifests present across the
// pack and golang.org/x/crypto's argon2/chacha20poly1305 packages, which the
// teacher's own go.mod already pulls in transitively.
package cryptoenv

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"io"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/chacha20poly1305"

	"github.com/klauspost/compress/zstd"

	"github.com/astego/cryptostego/models"
)

const saltLen = 16

// DeriveKey runs Argon2id over passphrase with a fresh random salt (or a
// caller-supplied one, for extract/decrypt where the salt travels in the
// sidecar) and the fixed parameters of spec.md §4.5.
func DeriveKey(passphrase string, salt []byte) (models.DerivedKey, []byte, error) {
	if salt == nil {
		salt = make([]byte, saltLen)
		if _, err := io.ReadFull(rand.Reader, salt); err != nil {
			return models.DerivedKey{}, nil, err
		}
	}
	p := models.DefaultKDFParams
	out := argon2.IDKey([]byte(passphrase), salt, p.Time, p.MemKiB, p.Threads, p.KeyLen)
	var dk models.DerivedKey
	copy(dk.Bytes[:], out)
	return dk, salt, nil
}

// compress runs the plaintext through zstd before encryption, per spec.md
// §3's "ciphertext is compressed-then-encrypted plaintext".
func compress(plaintext []byte) ([]byte, error) {
	enc, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, err
	}
	defer enc.Close()
	return enc.EncodeAll(plaintext, nil), nil
}

func decompress(compressed []byte) ([]byte, error) {
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, err
	}
	defer dec.Close()
	return dec.DecodeAll(compressed, nil)
}

// Encrypt compresses plaintext, encrypts it under the cipher named by
// cipherID with key material from dk, and returns the Envelope ready for
// framing.
func Encrypt(cipherID models.CipherID, dk models.DerivedKey, plaintext []byte) (models.Envelope, error) {
	spec, ok := models.LookupCipher(cipherID)
	if !ok {
		return models.Envelope{}, models.NewError(models.KindUnsupportedFormat, "unknown cipher id "+string(cipherID), nil)
	}

	compressed, err := compress(plaintext)
	if err != nil {
		return models.Envelope{}, err
	}

	key := dk.Bytes[:spec.KeyBytes]
	nonce := make([]byte, spec.NonceBytes)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return models.Envelope{}, err
	}

	var ct []byte
	switch cipherID {
	case models.CipherAscon128:
		ct = asconEncrypt(key, nonce, compressed, nil)
	case models.CipherChaCha20Poly1305:
		aead, err := chacha20poly1305.New(key)
		if err != nil {
			return models.Envelope{}, err
		}
		ct = aead.Seal(nil, nonce, compressed, nil)
	case models.CipherAES256GCM:
		aead, err := newAESGCM(key)
		if err != nil {
			return models.Envelope{}, err
		}
		ct = aead.Seal(nil, nonce, compressed, nil)
	default:
		return models.Envelope{}, models.NewError(models.KindUnsupportedFormat, "unimplemented cipher "+string(cipherID), nil)
	}

	return models.Envelope{CipherID: cipherID, Ciphertext: ct, Nonce: nonce}, nil
}

// Decrypt authenticates and decrypts env.Ciphertext under the already
// derived key dk, then decompresses it. Authentication
// failure and compression-format corruption are both reported as AuthFail:
// spec.md §7 treats a corrupted cipher field as an acceptable AuthFail
// surface since no separate sidecar MAC is maintained (see DESIGN.md).
func Decrypt(env models.Envelope, dk models.DerivedKey) ([]byte, error) {
	spec, ok := models.LookupCipher(env.CipherID)
	if !ok {
		return nil, models.NewError(models.KindUnsupportedFormat, "unknown cipher id "+string(env.CipherID), nil)
	}
	key := dk.Bytes[:spec.KeyBytes]

	var compressed []byte
	var err error
	switch env.CipherID {
	case models.CipherAscon128:
		pt, ok := asconDecrypt(key, env.Nonce, env.Ciphertext, nil)
		if !ok {
			return nil, models.NewError(models.KindAuthFail, "authentication failed", nil)
		}
		compressed = pt
	case models.CipherChaCha20Poly1305:
		aead, aerr := chacha20poly1305.New(key)
		if aerr != nil {
			return nil, aerr
		}
		compressed, err = aead.Open(nil, env.Nonce, env.Ciphertext, nil)
	case models.CipherAES256GCM:
		aead, aerr := newAESGCM(key)
		if aerr != nil {
			return nil, aerr
		}
		compressed, err = aead.Open(nil, env.Nonce, env.Ciphertext, nil)
	default:
		return nil, models.NewError(models.KindUnsupportedFormat, "unimplemented cipher "+string(env.CipherID), nil)
	}
	if err != nil {
		return nil, models.NewError(models.KindAuthFail, "authentication failed", err)
	}

	plaintext, err := decompress(compressed)
	if err != nil {
		return nil, models.NewError(models.KindAuthFail, "payload decompression failed", err)
	}
	return plaintext, nil
}

func newAESGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}
