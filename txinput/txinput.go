// Package txinput assembles the public/private circuit input pair from a
// TXE blob and its published commitment, and serializes each half into the
// RLP hex syntax the prover/verifier binary consumes.
package txinput

import (
	"errors"
	"fmt"

	"github.com/holiman/uint256"

	"github.com/txe-proto/txe/envelope"
	"github.com/txe-proto/txe/hybrid"
	"github.com/txe-proto/txe/pkg/hexutil"
	"github.com/txe-proto/txe/pkg/rlp"
)

// PublicRecipient mirrors one envelope recipient in the public input.
type PublicRecipient struct {
	EncryptedKey       [envelope.EncryptedKeyLength]byte
	EphemeralPublicKey [envelope.EphemeralKeyLength]byte
}

// Public is the circuit's public input half.
type Public struct {
	StructHash [32]byte
	Nonce      *uint256.Int
	Ciphertext []byte
	IV         [envelope.IVLength]byte
	Tag        [envelope.TagLength]byte
	Recipients []PublicRecipient
}

// Private is the circuit's private witness half. When produced by Extract
// it is zero-filled with the correct shapes; when produced alongside
// Encrypt it carries real values.
type Private struct {
	Transaction []byte
	CEK         [hybrid.CEKLength]byte
	Recipients  []hybrid.PrivateRecipient
}

// Input is the full public/private pair passed to the prover or verifier.
type Input struct {
	Public  Public
	Private Private
}

// ErrShapeMismatch is returned when a witness's shapes do not match the
// public input it is being attached to.
var ErrShapeMismatch = errors.New("txinput: witness shape mismatch")

// ErrInvalidStructHash is returned when a structHash field decoded from hex
// is not exactly 32 bytes.
var ErrInvalidStructHash = errors.New("txinput: invalid structHash")

// ErrInvalidNonce is returned when Extract is called without a nonce, or a
// nonce field decoded from hex exceeds 256 bits.
var ErrInvalidNonce = errors.New("txinput: invalid nonce")

// Extract requires a non-nil nonce (structHash is 32 bytes by its type),
// decodes blob, and returns an Input whose private half is zero-filled
// placeholders sized to match what a real witness would carry. Real values
// come from the witness Encrypt produces (see Input.WithWitness).
func Extract(structHash [32]byte, nonce *uint256.Int, blob []byte) (*Input, error) {
	if nonce == nil {
		return nil, fmt.Errorf("txinput: %w: nonce is required", ErrInvalidNonce)
	}
	env, err := envelope.Decode(blob)
	if err != nil {
		return nil, fmt.Errorf("txinput: %w", err)
	}

	pub := Public{
		StructHash: structHash,
		Nonce:      nonce,
		Ciphertext: env.Ciphertext,
		IV:         env.IV,
		Tag:        env.Tag,
	}
	for _, r := range env.Recipients {
		pub.Recipients = append(pub.Recipients, PublicRecipient{
			EncryptedKey:       r.EncryptedKey,
			EphemeralPublicKey: r.EphemeralPublicKey,
		})
	}

	priv := Private{
		Transaction: make([]byte, len(env.Ciphertext)),
		Recipients:  make([]hybrid.PrivateRecipient, len(env.Recipients)),
	}

	return &Input{Public: pub, Private: priv}, nil
}

// WithWitness returns a copy of in with the private half replaced by a real
// witness produced during Encrypt, after checking the shapes agree.
func (in *Input) WithWitness(w hybrid.PrivateWitness) (*Input, error) {
	if len(w.Transaction) != len(in.Public.Ciphertext) {
		return nil, fmt.Errorf("txinput: %w: transaction length %d != ciphertext length %d", ErrShapeMismatch, len(w.Transaction), len(in.Public.Ciphertext))
	}
	if len(w.Recipients) != len(in.Public.Recipients) {
		return nil, fmt.Errorf("txinput: %w: recipient count %d != %d", ErrShapeMismatch, len(w.Recipients), len(in.Public.Recipients))
	}
	out := *in
	out.Private = Private{
		Transaction: w.Transaction,
		CEK:         w.CEK,
		Recipients:  w.Recipients,
	}
	return &out, nil
}

// Argify RLP-encodes each half of in as a single list and returns both as
// 0x-prefixed hex.
func Argify(in *Input) (publicHex, privateHex string, err error) {
	recipientItems := make([]rlp.Item, len(in.Public.Recipients))
	for i, r := range in.Public.Recipients {
		recipientItems[i] = rlp.List(
			rlp.Bytes(r.EncryptedKey[:]),
			rlp.Bytes(r.EphemeralPublicKey[:]),
		)
	}
	nonce := in.Public.Nonce
	if nonce == nil {
		nonce = new(uint256.Int)
	}
	publicItem := rlp.List(
		rlp.Bytes(in.Public.StructHash[:]),
		rlp.BigUint(nonce.ToBig()),
		rlp.Bytes(in.Public.Ciphertext),
		rlp.Bytes(in.Public.IV[:]),
		rlp.Bytes(in.Public.Tag[:]),
		rlp.List(recipientItems...),
	)

	privRecipientItems := make([]rlp.Item, len(in.Private.Recipients))
	for i, r := range in.Private.Recipients {
		privRecipientItems[i] = rlp.List(
			rlp.Bytes(r.PublicKey[:]),
			rlp.Bytes(r.EphemeralPrivateKey[:]),
		)
	}
	privateItem := rlp.List(
		rlp.Bytes(in.Private.Transaction),
		rlp.Bytes(in.Private.CEK[:]),
		rlp.List(privRecipientItems...),
	)

	return hexutil.Encode(rlp.Encode(publicItem)), hexutil.Encode(rlp.Encode(privateItem)), nil
}

// ParsePublicHex decodes the hex produced by Argify's first return value
// back into a Public half. It is the inverse used by verifiers and by
// golden-vector tests that carry forward known-good hex strings.
func ParsePublicHex(s string) (*Public, error) {
	raw, err := hexutil.Decode(s)
	if err != nil {
		return nil, fmt.Errorf("txinput: %w", err)
	}
	v, err := rlp.DecodeBytes(raw)
	if err != nil {
		return nil, fmt.Errorf("txinput: %w", err)
	}
	if !v.IsList() || len(v.Item) != 6 {
		return nil, fmt.Errorf("txinput: public input must be a 6-field list, got %d fields", len(v.Item))
	}

	var pub Public
	if len(v.Item[0].Str) != 32 {
		return nil, fmt.Errorf("txinput: %w: structHash must be 32 bytes, got %d", ErrInvalidStructHash, len(v.Item[0].Str))
	}
	copy(pub.StructHash[:], v.Item[0].Str)
	if len(v.Item[1].Str) > 32 {
		return nil, fmt.Errorf("txinput: %w: nonce exceeds 256 bits, got %d bytes", ErrInvalidNonce, len(v.Item[1].Str))
	}
	pub.Nonce = new(uint256.Int).SetBytes(v.Item[1].Str)
	pub.Ciphertext = v.Item[2].Str
	if len(v.Item[3].Str) != envelope.IVLength {
		return nil, fmt.Errorf("txinput: iv must be %d bytes, got %d", envelope.IVLength, len(v.Item[3].Str))
	}
	copy(pub.IV[:], v.Item[3].Str)
	if len(v.Item[4].Str) != envelope.TagLength {
		return nil, fmt.Errorf("txinput: tag must be %d bytes, got %d", envelope.TagLength, len(v.Item[4].Str))
	}
	copy(pub.Tag[:], v.Item[4].Str)

	recipientsList := v.Item[5]
	if !recipientsList.IsList() {
		return nil, fmt.Errorf("txinput: recipients must be a list")
	}
	for i, rv := range recipientsList.Item {
		if !rv.IsList() || len(rv.Item) != 2 {
			return nil, fmt.Errorf("txinput: recipient %d: malformed", i)
		}
		var r PublicRecipient
		if len(rv.Item[0].Str) != envelope.EncryptedKeyLength {
			return nil, fmt.Errorf("txinput: recipient %d: encrypted_key wrong length", i)
		}
		copy(r.EncryptedKey[:], rv.Item[0].Str)
		if len(rv.Item[1].Str) != envelope.EphemeralKeyLength {
			return nil, fmt.Errorf("txinput: recipient %d: ephemeral_public_key wrong length", i)
		}
		copy(r.EphemeralPublicKey[:], rv.Item[1].Str)
		pub.Recipients = append(pub.Recipients, r)
	}
	return &pub, nil
}

// ParsePrivateHex decodes the hex produced by Argify's second return value
// back into a Private half.
func ParsePrivateHex(s string) (*Private, error) {
	raw, err := hexutil.Decode(s)
	if err != nil {
		return nil, fmt.Errorf("txinput: %w", err)
	}
	v, err := rlp.DecodeBytes(raw)
	if err != nil {
		return nil, fmt.Errorf("txinput: %w", err)
	}
	if !v.IsList() || len(v.Item) != 3 {
		return nil, fmt.Errorf("txinput: private input must be a 3-field list, got %d fields", len(v.Item))
	}

	var priv Private
	priv.Transaction = v.Item[0].Str
	if len(v.Item[1].Str) != hybrid.CEKLength {
		return nil, fmt.Errorf("txinput: cek must be %d bytes, got %d", hybrid.CEKLength, len(v.Item[1].Str))
	}
	copy(priv.CEK[:], v.Item[1].Str)

	recipientsList := v.Item[2]
	if !recipientsList.IsList() {
		return nil, fmt.Errorf("txinput: recipients must be a list")
	}
	for i, rv := range recipientsList.Item {
		if !rv.IsList() || len(rv.Item) != 2 {
			return nil, fmt.Errorf("txinput: recipient %d: malformed", i)
		}
		var r hybrid.PrivateRecipient
		if len(rv.Item[0].Str) != hybrid.X25519KeyLength {
			return nil, fmt.Errorf("txinput: recipient %d: public_key wrong length", i)
		}
		copy(r.PublicKey[:], rv.Item[0].Str)
		if len(rv.Item[1].Str) != hybrid.X25519KeyLength {
			return nil, fmt.Errorf("txinput: recipient %d: ephemeral_private_key wrong length", i)
		}
		copy(r.EphemeralPrivateKey[:], rv.Item[1].Str)
		priv.Recipients = append(priv.Recipients, r)
	}
	return &priv, nil
}
