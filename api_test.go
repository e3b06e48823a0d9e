package txe

import (
	"bytes"
	"errors"
	"testing"

	"github.com/holiman/uint256"

	"github.com/txe-proto/txe/hybrid"
	"github.com/txe-proto/txe/pkg/hexutil"
	"github.com/txe-proto/txe/safetx"
)

func addr(b byte) hexutil.Address {
	var a hexutil.Address
	for i := range a {
		a[i] = b
	}
	return a
}

// scenario1 is a transaction with distinct repeated-byte to/gasToken/
// refundReceiver addresses, a short data field, and a delegatecall
// operation — enough variety to catch a field transposed during encoding.
func scenario1() *safetx.Transaction {
	return &safetx.Transaction{
		To:             addr(0xa1),
		Value:          uint256.NewInt(2),
		Data:           []byte{0x03, 0x04, 0x05, 0x06},
		Operation:      safetx.Delegatecall,
		SafeTxGas:      uint256.NewInt(7),
		BaseGas:        uint256.NewInt(8),
		GasPrice:       uint256.NewInt(9),
		GasToken:       addr(0xa2),
		RefundReceiver: addr(0xa3),
	}
}

func TestScenario1EncryptDecryptRoundTrip(t *testing.T) {
	tx := scenario1()
	plaintext := tx.Encode()

	var privKeys, pubKeys [][]byte
	for i := 0; i < 3; i++ {
		priv, pub, err := hybrid.GenerateKeypair()
		if err != nil {
			t.Fatalf("GenerateKeypair: %v", err)
		}
		privKeys = append(privKeys, priv.Bytes())
		pubKeys = append(pubKeys, pub.Bytes())
	}

	blob, private, err := Encrypt(plaintext, pubKeys)
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}
	if len(private.Recipients) != 3 {
		t.Fatalf("expected 3 private recipients, got %d", len(private.Recipients))
	}

	for i, sk := range privKeys {
		got, err := Decrypt(blob, sk)
		if err != nil {
			t.Fatalf("Decrypt recipient %d: %v", i, err)
		}
		if !bytes.Equal(got, plaintext) {
			t.Fatalf("recipient %d: round-tripped plaintext mismatch", i)
		}
		decoded, err := safetx.Decode(got)
		if err != nil {
			t.Fatalf("recipient %d: safetx.Decode: %v", i, err)
		}
		if decoded.Operation != safetx.Delegatecall || decoded.Value.Uint64() != 2 {
			t.Fatalf("recipient %d: decoded transaction fields mismatch", i)
		}
	}

	structHash := tx.StructHash(uint256.NewInt(1337))
	in, err := Extract(structHash, uint256.NewInt(1337), blob)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if len(in.Public.Recipients) != 3 {
		t.Fatalf("expected 3 public recipients, got %d", len(in.Public.Recipients))
	}
	in, err = in.WithWitness(private)
	if err != nil {
		t.Fatalf("WithWitness: %v", err)
	}
	if !bytes.Equal(in.Private.Transaction, plaintext) {
		t.Fatalf("witness transaction does not match the original plaintext")
	}

	publicHex, privateHex, err := Argify(in)
	if err != nil {
		t.Fatalf("Argify: %v", err)
	}
	if publicHex == "" || privateHex == "" {
		t.Fatal("expected non-empty hex arguments")
	}
}

func TestScenario2AllZeroTransactionViaJWE(t *testing.T) {
	tx := &safetx.Transaction{
		To:             addr(0x00),
		Value:          uint256.NewInt(0),
		Data:           nil,
		Operation:      safetx.Call,
		SafeTxGas:      uint256.NewInt(0),
		BaseGas:        uint256.NewInt(0),
		GasPrice:       uint256.NewInt(0),
		GasToken:       addr(0x00),
		RefundReceiver: addr(0x00),
	}
	plaintext := tx.Encode()

	priv, pub, err := hybrid.GenerateKeypair()
	if err != nil {
		t.Fatalf("GenerateKeypair: %v", err)
	}
	blob, _, err := Encrypt(plaintext, [][]byte{pub.Bytes()})
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}

	got, err := Decrypt(blob, priv.Bytes())
	if err != nil {
		t.Fatalf("Decrypt: %v", err)
	}
	if !bytes.Equal(got, plaintext) {
		t.Fatal("all-zero transaction did not round-trip")
	}

	if !IsTXE(blob) {
		t.Fatal("expected IsTXE to accept a well-formed blob")
	}

	msg, err := ToJWE(blob)
	if err != nil {
		t.Fatalf("ToJWE: %v", err)
	}
	if len(msg.Recipients) != 1 {
		t.Fatalf("expected 1 JWE recipient, got %d", len(msg.Recipients))
	}
}

func TestScenario5WrongKeyIsNotARecipient(t *testing.T) {
	tx := scenario1()
	plaintext := tx.Encode()

	_, pub1, err := hybrid.GenerateKeypair()
	if err != nil {
		t.Fatalf("GenerateKeypair: %v", err)
	}
	outsiderPriv, _, err := hybrid.GenerateKeypair()
	if err != nil {
		t.Fatalf("GenerateKeypair: %v", err)
	}

	blob, _, err := Encrypt(plaintext, [][]byte{pub1.Bytes()})
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}

	_, err = Decrypt(blob, outsiderPriv.Bytes())
	if err == nil {
		t.Fatal("expected decryption with a non-recipient key to fail")
	}
	var txeErr *Error
	if !errors.As(err, &txeErr) || txeErr.Kind != KindNotARecipient {
		t.Fatalf("expected KindNotARecipient, got %v", err)
	}
}

func TestScenario6TrailingAndTruncatedBytes(t *testing.T) {
	tx := scenario1()
	plaintext := tx.Encode()

	priv, pub, err := hybrid.GenerateKeypair()
	if err != nil {
		t.Fatalf("GenerateKeypair: %v", err)
	}
	blob, _, err := Encrypt(plaintext, [][]byte{pub.Bytes()})
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}

	withTrailingByte := append(append([]byte{}, blob...), 0x00)
	if _, err := Decrypt(withTrailingByte, priv.Bytes()); err == nil {
		t.Fatal("expected trailing-byte blob to fail decoding")
	} else {
		var txeErr *Error
		if !errors.As(err, &txeErr) || txeErr.Kind != KindTrailingBytes {
			t.Fatalf("expected KindTrailingBytes, got %v", err)
		}
	}

	truncated := blob[:len(blob)-1]
	if _, err := Decrypt(truncated, priv.Bytes()); err == nil {
		t.Fatal("expected truncated blob to fail decoding")
	} else {
		var txeErr *Error
		if !errors.As(err, &txeErr) || txeErr.Kind != KindTruncated {
			t.Fatalf("expected KindTruncated, got %v", err)
		}
	}
}
