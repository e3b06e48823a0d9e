// Package hybrid implements the per-recipient ECDH-ES+A128KW key wrapping and
// the shared AES-128-GCM content encryption that together form the TXE
// hybrid multi-recipient encryption scheme.
package hybrid

import (
	"crypto/ecdh"
	"crypto/rand"
	"fmt"
)

const X25519KeyLength = 32

// GenerateKeypair samples a fresh X25519 keypair from a CSPRNG.
func GenerateKeypair() (priv *ecdh.PrivateKey, pub *ecdh.PublicKey, err error) {
	priv, err = ecdh.X25519().GenerateKey(rand.Reader)
	if err != nil {
		return nil, nil, fmt.Errorf("hybrid: generate x25519 key: %w: %w", ErrRngFailure, err)
	}
	return priv, priv.PublicKey(), nil
}

// PrivateKeyFromBytes parses a 32-byte X25519 scalar into a private key.
func PrivateKeyFromBytes(b []byte) (*ecdh.PrivateKey, error) {
	if len(b) != X25519KeyLength {
		return nil, fmt.Errorf("hybrid: x25519 private key must be %d bytes, got %d", X25519KeyLength, len(b))
	}
	return ecdh.X25519().NewPrivateKey(b)
}

// PublicKeyFromBytes parses a 32-byte X25519 point into a public key.
func PublicKeyFromBytes(b []byte) (*ecdh.PublicKey, error) {
	if len(b) != X25519KeyLength {
		return nil, fmt.Errorf("hybrid: x25519 public key must be %d bytes, got %d", X25519KeyLength, len(b))
	}
	return ecdh.X25519().NewPublicKey(b)
}

// SharedSecret computes the X25519 Diffie-Hellman shared secret Z = priv * pub.
func SharedSecret(priv *ecdh.PrivateKey, pub *ecdh.PublicKey) ([]byte, error) {
	z, err := priv.ECDH(pub)
	if err != nil {
		return nil, fmt.Errorf("hybrid: x25519 ecdh: %w", err)
	}
	return z, nil
}
