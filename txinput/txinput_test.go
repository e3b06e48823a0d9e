package txinput

import (
	"bytes"
	"errors"
	"testing"

	"github.com/holiman/uint256"

	"github.com/txe-proto/txe/hybrid"
	"github.com/txe-proto/txe/pkg/hexutil"
	"github.com/txe-proto/txe/pkg/rlp"
)

func buildEnvelopeAndWitness(t *testing.T) (blob []byte, witness hybrid.PrivateWitness) {
	t.Helper()
	_, pub1, err := hybrid.GenerateKeypair()
	if err != nil {
		t.Fatalf("GenerateKeypair: %v", err)
	}
	_, pub2, err := hybrid.GenerateKeypair()
	if err != nil {
		t.Fatalf("GenerateKeypair: %v", err)
	}
	res, err := hybrid.Encrypt([]byte("transaction payload bytes"), [][]byte{pub1.Bytes(), pub2.Bytes()})
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}
	encoded, err := res.Envelope.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	return encoded, res.Private
}

func TestExtractProducesZeroFilledPrivate(t *testing.T) {
	blob, _ := buildEnvelopeAndWitness(t)
	var structHash [32]byte
	structHash[0] = 0xaa
	in, err := Extract(structHash, uint256.NewInt(42), blob)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if in.Public.StructHash != structHash {
		t.Fatal("structHash not carried through")
	}
	if in.Public.Nonce.Uint64() != 42 {
		t.Fatalf("nonce = %v", in.Public.Nonce)
	}
	if len(in.Public.Recipients) != 2 {
		t.Fatalf("recipients = %d", len(in.Public.Recipients))
	}
	if len(in.Private.Transaction) != len(in.Public.Ciphertext) {
		t.Fatal("private transaction placeholder has wrong length")
	}
	for _, b := range in.Private.Transaction {
		if b != 0 {
			t.Fatal("placeholder transaction should be zero-filled")
		}
	}
	if len(in.Private.Recipients) != 2 {
		t.Fatalf("private recipients = %d", len(in.Private.Recipients))
	}
}

func TestExtractRejectsNilNonce(t *testing.T) {
	blob, _ := buildEnvelopeAndWitness(t)
	_, err := Extract([32]byte{}, nil, blob)
	if !errors.Is(err, ErrInvalidNonce) {
		t.Fatalf("Extract with nil nonce error = %v, want ErrInvalidNonce", err)
	}
}

func TestWithWitnessAttachesRealValues(t *testing.T) {
	blob, witness := buildEnvelopeAndWitness(t)
	in, err := Extract([32]byte{}, uint256.NewInt(1), blob)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	filled, err := in.WithWitness(witness)
	if err != nil {
		t.Fatalf("WithWitness: %v", err)
	}
	if !bytes.Equal(filled.Private.Transaction, witness.Transaction) {
		t.Fatal("transaction not attached")
	}
	if filled.Private.CEK != witness.CEK {
		t.Fatal("cek not attached")
	}
}

func TestWithWitnessRejectsShapeMismatch(t *testing.T) {
	blob, witness := buildEnvelopeAndWitness(t)
	in, err := Extract([32]byte{}, uint256.NewInt(1), blob)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	witness.Recipients = witness.Recipients[:1]
	if _, err := in.WithWitness(witness); err == nil {
		t.Fatal("expected shape mismatch error")
	}
}

func TestArgifyParseRoundTrip(t *testing.T) {
	blob, witness := buildEnvelopeAndWitness(t)
	var structHash [32]byte
	structHash[31] = 0x07
	in, err := Extract(structHash, uint256.NewInt(99), blob)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	in, err = in.WithWitness(witness)
	if err != nil {
		t.Fatalf("WithWitness: %v", err)
	}

	publicHex, privateHex, err := Argify(in)
	if err != nil {
		t.Fatalf("Argify: %v", err)
	}

	pub, err := ParsePublicHex(publicHex)
	if err != nil {
		t.Fatalf("ParsePublicHex: %v", err)
	}
	if pub.StructHash != structHash || pub.Nonce.Uint64() != 99 {
		t.Fatalf("public mismatch: %+v", pub)
	}
	if !bytes.Equal(pub.Ciphertext, in.Public.Ciphertext) {
		t.Fatal("ciphertext mismatch")
	}
	if len(pub.Recipients) != len(in.Public.Recipients) {
		t.Fatalf("recipient count mismatch: %d vs %d", len(pub.Recipients), len(in.Public.Recipients))
	}

	priv, err := ParsePrivateHex(privateHex)
	if err != nil {
		t.Fatalf("ParsePrivateHex: %v", err)
	}
	if !bytes.Equal(priv.Transaction, witness.Transaction) {
		t.Fatal("private transaction mismatch")
	}
	if priv.CEK != witness.CEK {
		t.Fatal("cek mismatch")
	}
	if len(priv.Recipients) != len(witness.Recipients) {
		t.Fatalf("private recipient count mismatch")
	}
}

func TestParsePublicHexRejectsWrongFieldCount(t *testing.T) {
	if _, err := ParsePublicHex("0xc0"); err == nil {
		t.Fatal("expected error for empty list")
	}
}

func TestParsePublicHexRejectsShortStructHash(t *testing.T) {
	shortStructHash := make([]byte, 31)
	mangled := hexutil.Encode(rlp.Encode(rlp.List(
		rlp.Bytes(shortStructHash),
		rlp.Uint(1),
		rlp.Bytes(nil),
		rlp.Bytes(make([]byte, 12)),
		rlp.Bytes(make([]byte, 16)),
		rlp.List(),
	)))

	if _, err := ParsePublicHex(mangled); !errors.Is(err, ErrInvalidStructHash) {
		t.Fatalf("ParsePublicHex error = %v, want ErrInvalidStructHash", err)
	}
}
