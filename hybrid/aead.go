package hybrid

import (
	"crypto/aes"
	"crypto/cipher"
	"fmt"
)

const (
	CEKLength = 16
	IVLength  = 12
	TagLength = 16
)

// Seal performs AES-128-GCM encryption of plaintext under key with nonce iv
// and empty additional authenticated data, returning ciphertext and tag
// separately (Go's cipher.AEAD appends the tag; the TXE envelope carries
// them as distinct fields).
func Seal(key, iv, plaintext []byte) (ciphertext, tag []byte, err error) {
	gcm, err := newGCM(key)
	if err != nil {
		return nil, nil, err
	}
	if len(iv) != IVLength {
		return nil, nil, fmt.Errorf("hybrid: gcm nonce must be %d bytes, got %d", IVLength, len(iv))
	}
	sealed := gcm.Seal(nil, iv, plaintext, nil)
	ctLen := len(sealed) - TagLength
	return sealed[:ctLen], sealed[ctLen:], nil
}

// Open performs AES-128-GCM decryption and authentication. It returns
// ErrAuthTagInvalid, distinct from a wrong-key failure in the caller's key
// lookup loop, so callers can tell "not a recipient" apart from tampering.
func Open(key, iv, ciphertext, tag []byte) ([]byte, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}
	if len(iv) != IVLength {
		return nil, fmt.Errorf("hybrid: gcm nonce must be %d bytes, got %d", IVLength, len(iv))
	}
	sealed := append(append([]byte(nil), ciphertext...), tag...)
	pt, err := gcm.Open(nil, iv, sealed, nil)
	if err != nil {
		return nil, ErrAuthTagInvalid
	}
	return pt, nil
}

func newGCM(key []byte) (cipher.AEAD, error) {
	if len(key) != CEKLength {
		return nil, fmt.Errorf("hybrid: AES-128-GCM key must be %d bytes, got %d", CEKLength, len(key))
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("hybrid: aes cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("hybrid: gcm mode: %w", err)
	}
	return gcm, nil
}
