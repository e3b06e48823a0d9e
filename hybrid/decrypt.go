package hybrid

import (
	"fmt"

	"github.com/txe-proto/txe/envelope"
)

// Decrypt takes a decoded envelope and a recipient's X25519 private key,
// tries each recipient entry in order, stopping at
// the first key-wrap that unwraps cleanly, then authenticates and decrypts
// the shared ciphertext.
func Decrypt(env *envelope.Envelope, sk []byte) ([]byte, error) {
	priv, err := PrivateKeyFromBytes(sk)
	if err != nil {
		return nil, err
	}

	var cek []byte
	for _, r := range env.Recipients {
		epk, err := PublicKeyFromBytes(r.EphemeralPublicKey[:])
		if err != nil {
			continue
		}
		z, err := SharedSecret(priv, epk)
		if err != nil {
			continue
		}
		kw := ConcatKDF(z, concatKDFAlgID, nil, nil, CEKLength*8)
		unwrapped, err := KeyUnwrap(kw, r.EncryptedKey[:])
		if err != nil {
			continue
		}
		cek = unwrapped
		break
	}
	if cek == nil {
		return nil, ErrNotARecipient
	}

	pt, err := Open(cek, env.IV[:], env.Ciphertext, env.Tag[:])
	if err != nil {
		return nil, fmt.Errorf("hybrid: %w", err)
	}
	return pt, nil
}
