package hybrid

import (
	"crypto/rand"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/txe-proto/txe/envelope"
)

// concatKDFAlgID is the "alg" value used as the AlgorithmID input to
// Concat-KDF for ECDH-ES+A128KW, per RFC 7518 §4.6.
const concatKDFAlgID = "ECDH-ES+A128KW"

// parallelThreshold is the recipient count above which per-recipient wrap
// work is dispatched to a bounded worker pool instead of run inline.
const parallelThreshold = 4

// PrivateRecipient is the private witness half for one recipient: their
// static public key and the sender's fresh ephemeral private key.
type PrivateRecipient struct {
	PublicKey           [X25519KeyLength]byte
	EphemeralPrivateKey [X25519KeyLength]byte
}

// PrivateWitness is everything an honest encryptor knows that a verifier
// does not: the plaintext payload, the CEK, and each recipient's ephemeral
// secret.
type PrivateWitness struct {
	Transaction []byte
	CEK         [CEKLength]byte
	Recipients  []PrivateRecipient
}

// EncryptResult bundles the public envelope with the private witness
// produced alongside it.
type EncryptResult struct {
	Envelope *envelope.Envelope
	Private  PrivateWitness
}

// Encrypt AES-128-GCM-encrypts transaction under a fresh
// CEK, then wraps the CEK once per recipient with a fresh ephemeral X25519
// keypair, ECDH-ES+A128KW. recipients must be non-empty X25519 static public
// keys, 32 bytes each, one fresh envelope per call.
func Encrypt(transaction []byte, recipients [][]byte) (*EncryptResult, error) {
	if len(recipients) == 0 {
		return nil, ErrNoRecipients
	}

	cek := make([]byte, CEKLength)
	if _, err := rand.Read(cek); err != nil {
		return nil, fmt.Errorf("hybrid: cek rng: %w: %w", ErrRngFailure, err)
	}
	iv := make([]byte, IVLength)
	if _, err := rand.Read(iv); err != nil {
		return nil, fmt.Errorf("hybrid: iv rng: %w: %w", ErrRngFailure, err)
	}
	ciphertext, tag, err := Seal(cek, iv, transaction)
	if err != nil {
		return nil, err
	}

	wrapped := make([]envelope.Recipient, len(recipients))
	private := make([]PrivateRecipient, len(recipients))

	wrapOne := func(i int) error {
		pub, err := PublicKeyFromBytes(recipients[i])
		if err != nil {
			return fmt.Errorf("hybrid: recipient %d: %w", i, err)
		}
		eskPriv, eskPub, err := GenerateKeypair()
		if err != nil {
			return fmt.Errorf("hybrid: recipient %d: %w", i, err)
		}
		z, err := SharedSecret(eskPriv, pub)
		if err != nil {
			return fmt.Errorf("hybrid: recipient %d: %w", i, err)
		}
		kw := ConcatKDF(z, concatKDFAlgID, nil, nil, CEKLength*8)
		encKey, err := KeyWrap(kw, cek)
		if err != nil {
			return fmt.Errorf("hybrid: recipient %d: %w", i, err)
		}

		var r envelope.Recipient
		copy(r.EncryptedKey[:], encKey)
		copy(r.EphemeralPublicKey[:], eskPub.Bytes())
		wrapped[i] = r

		var pr PrivateRecipient
		copy(pr.PublicKey[:], recipients[i])
		copy(pr.EphemeralPrivateKey[:], eskPriv.Bytes())
		private[i] = pr
		return nil
	}

	if len(recipients) > parallelThreshold {
		var g errgroup.Group
		g.SetLimit(runtime.GOMAXPROCS(0))
		for i := range recipients {
			i := i
			g.Go(func() error { return wrapOne(i) })
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	} else {
		for i := range recipients {
			if err := wrapOne(i); err != nil {
				return nil, err
			}
		}
	}

	env := &envelope.Envelope{
		Ciphertext: ciphertext,
		Recipients: wrapped,
	}
	copy(env.IV[:], iv)
	copy(env.Tag[:], tag)

	result := &EncryptResult{
		Envelope: env,
		Private: PrivateWitness{
			Transaction: transaction,
			Recipients:  private,
		},
	}
	copy(result.Private.CEK[:], cek)
	return result, nil
}
