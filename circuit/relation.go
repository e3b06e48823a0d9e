// Package circuit defines the zero-knowledge relation linking an encrypted
// TXE envelope to its public structHash/nonce commitment: the circuit proves
// that a prover holds a plaintext SafeTx payload and a set of per-recipient
// key-wrapping secrets consistent with a publicly known ciphertext, tag, and
// wrapped-key set, without revealing the plaintext or any recipient secret.
package circuit

import (
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/std/math/emulated"
)

// PublicRecipient is one recipient's public-facing witness half: the
// recipient-specific wrapped CEK and the sender's ephemeral public key,
// matching envelope.Recipient byte-for-byte.
type PublicRecipient struct {
	EncryptedKey       [24]frontend.Variable
	EphemeralPublicKey [32]frontend.Variable
}

// PrivateRecipientWitness mirrors hybrid.PrivateRecipient inside the
// circuit: the recipient's static public key and the sender's ephemeral
// private scalar for that recipient.
type PrivateRecipientWitness struct {
	PublicKey           [32]frontend.Variable
	EphemeralPrivateKey [32]frontend.Variable
}

// Relation is the gnark circuit for the verifier relation. Transaction
// and Ciphertext are sized to the concrete payload the circuit is compiled
// for; Recipients is sized to the concrete recipient count. A distinct
// Relation (and so a distinct proving/verifying keypair) is built per
// (transactionLen, recipientCount) shape, the usual gnark pattern for
// variable-size data.
type Relation struct {
	// Public inputs.
	StructHash [32]frontend.Variable `gnark:",public"`
	Nonce      [32]frontend.Variable `gnark:",public"`
	Ciphertext []frontend.Variable   `gnark:",public"`
	IV         [12]frontend.Variable `gnark:",public"`
	Tag        [16]frontend.Variable `gnark:",public"`
	Recipients []PublicRecipient     `gnark:",public"`

	// Private witness.
	Transaction       []frontend.Variable
	CEK               [16]frontend.Variable
	PrivateRecipients []PrivateRecipientWitness
}

// NewRelation allocates a Relation shaped for a transactionLen-byte
// plaintext/ciphertext and recipientCount recipients, with every slice
// field pre-sized so gnark's circuit compiler sees a fixed topology.
func NewRelation(transactionLen, recipientCount int) *Relation {
	r := &Relation{
		Ciphertext:        make([]frontend.Variable, transactionLen),
		Transaction:       make([]frontend.Variable, transactionLen),
		Recipients:        make([]PublicRecipient, recipientCount),
		PrivateRecipients: make([]PrivateRecipientWitness, recipientCount),
	}
	return r
}

// safeTxTypeHashWord is the 32-byte EIP-712 type hash for SafeTx, identical
// to safetx.safeTxTypeHash.
var safeTxTypeHashWord = [32]frontend.Variable{
	0xbb, 0x83, 0x10, 0xd4, 0x86, 0x36, 0x8d, 0xb6,
	0xbd, 0x6f, 0x84, 0x94, 0x02, 0xfd, 0xd7, 0x3a,
	0xd5, 0x3d, 0x31, 0x6b, 0x5a, 0x4b, 0x26, 0x44,
	0xad, 0x6e, 0xfe, 0x0f, 0x94, 0x12, 0x86, 0xd8,
}

// curve25519BasepointWord is the X25519 base point u=9, little-endian.
var curve25519BasepointWord = [32]frontend.Variable{
	9, 0, 0, 0, 0, 0, 0, 0,
	0, 0, 0, 0, 0, 0, 0, 0,
	0, 0, 0, 0, 0, 0, 0, 0,
	0, 0, 0, 0, 0, 0, 0, 0,
}

// Define wires the constraint groups that make up the relation: payload
// commitment, AEAD consistency, and per-recipient key-wrap consistency. The
// shape checks fall out of the fixed slice/array sizing set up in
// NewRelation.
func (r *Relation) Define(api frontend.API) error {
	if err := r.definePayloadCommitment(api); err != nil {
		return err
	}
	if err := r.defineAEADConsistency(api); err != nil {
		return err
	}
	if err := r.defineKeyWrapConsistency(api); err != nil {
		return err
	}
	return nil
}

// definePayloadCommitment implements constraint group 1: the RLP-encoded
// private.Transaction decodes to the nine SafeTx fields whose EIP-712
// struct hash, combined with the externally carried public.Nonce, equals
// public.StructHash.
func (r *Relation) definePayloadCommitment(api frontend.API) error {
	d, err := decodeTransaction(api, r.Transaction)
	if err != nil {
		return err
	}

	var preimage []frontend.Variable
	preimage = append(preimage, safeTxTypeHashWord[:]...)
	preimage = append(preimage, d.toWord[:]...)
	preimage = append(preimage, d.valueWord[:]...)
	preimage = append(preimage, d.dataHash[:]...)
	preimage = append(preimage, d.operationWord[:]...)
	preimage = append(preimage, d.safeTxGasWord[:]...)
	preimage = append(preimage, d.baseGasWord[:]...)
	preimage = append(preimage, d.gasPriceWord[:]...)
	preimage = append(preimage, d.gasTokenWord[:]...)
	preimage = append(preimage, d.refundReceiverWord[:]...)
	preimage = append(preimage, r.Nonce[:]...)

	got, err := keccak256(api, preimage)
	if err != nil {
		return err
	}
	assertBytesEqual(api, got[:], r.StructHash[:])
	return nil
}

// defineAEADConsistency implements constraint group 2: AES-128-GCM sealing
// private.Transaction under private.CEK and public.IV, with empty
// additional authenticated data, reproduces public.Ciphertext and
// public.Tag.
func (r *Relation) defineAEADConsistency(api frontend.API) error {
	ciphertext, tag := aes128GCMEncrypt(api, r.CEK, r.IV, r.Transaction)
	assertBytesEqual(api, ciphertext, r.Ciphertext)
	assertBytesEqual(api, tag[:], r.Tag[:])
	return nil
}

// defineKeyWrapConsistency implements constraint group 3: for every
// recipient, the sender's ephemeral private scalar derives the published
// ephemeral public key via X25519(priv, 9), derives a shared secret with
// the recipient's static public key via X25519(priv, recipientPub), and
// the Concat-KDF-derived key-wrapping key wraps private.CEK into the
// published wrapped key, per ECDH-ES+A128KW.
func (r *Relation) defineKeyWrapConsistency(api frontend.API) error {
	field, err := emulated.NewField[Curve25519Fp](api)
	if err != nil {
		return err
	}
	basepoint := bytesToFieldElementLE(api, field, curve25519BasepointWord)

	for i := range r.PrivateRecipients {
		priv := r.PrivateRecipients[i]
		pub := r.Recipients[i]

		ephemeralPubEl := x25519ScalarMul(api, field, priv.EphemeralPrivateKey, basepoint)
		ephemeralPubBytes := fieldElementToBytesLE(api, field, ephemeralPubEl)
		assertBytesEqual(api, ephemeralPubBytes[:], pub.EphemeralPublicKey[:])

		recipientPubEl := bytesToFieldElementLE(api, field, priv.PublicKey)
		sharedEl := x25519ScalarMul(api, field, priv.EphemeralPrivateKey, recipientPubEl)
		sharedBytes := fieldElementToBytesLE(api, field, sharedEl)

		kek := concatKDF128(api, sharedBytes)
		wrapped := aesKeyWrap16(api, kek, r.CEK)
		assertBytesEqual(api, wrapped[:], pub.EncryptedKey[:])
	}
	return nil
}
