package safetx

import (
	"bytes"
	"testing"

	"github.com/holiman/uint256"
	"github.com/txe-proto/txe/pkg/hexutil"
)

func scenario1() *Transaction {
	to, _ := hexutil.HexToAddress("0xa1a1a1a1a1a1a1a1a1a1a1a1a1a1a1a1a1a1a1a1")
	gasToken, _ := hexutil.HexToAddress("0xa2a2a2a2a2a2a2a2a2a2a2a2a2a2a2a2a2a2a2a2")
	refund, _ := hexutil.HexToAddress("0xa3a3a3a3a3a3a3a3a3a3a3a3a3a3a3a3a3a3a3a3")
	return &Transaction{
		To:             to,
		Value:          uint256.NewInt(2),
		Data:           []byte{0x03, 0x04, 0x05, 0x06},
		Operation:      Delegatecall,
		SafeTxGas:      uint256.NewInt(7),
		BaseGas:        uint256.NewInt(8),
		GasPrice:       uint256.NewInt(9),
		GasToken:       gasToken,
		RefundReceiver: refund,
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	tx := scenario1()
	enc := tx.Encode()
	got, err := Decode(enc)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got.To != tx.To || got.GasToken != tx.GasToken || got.RefundReceiver != tx.RefundReceiver {
		t.Fatalf("address mismatch: %+v", got)
	}
	if got.Value.Cmp(tx.Value) != 0 || got.SafeTxGas.Cmp(tx.SafeTxGas) != 0 {
		t.Fatalf("integer mismatch: %+v", got)
	}
	if !bytes.Equal(got.Data, tx.Data) {
		t.Fatalf("data mismatch: %x vs %x", got.Data, tx.Data)
	}
	if got.Operation != Delegatecall {
		t.Fatalf("operation mismatch: %v", got.Operation)
	}
}

func TestEncodeDecodeAllZero(t *testing.T) {
	tx := &Transaction{
		Value:     uint256.NewInt(0),
		SafeTxGas: uint256.NewInt(0),
		BaseGas:   uint256.NewInt(0),
		GasPrice:  uint256.NewInt(0),
	}
	enc := tx.Encode()
	got, err := Decode(enc)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !got.To.IsZero() || got.Operation != Call || len(got.Data) != 0 {
		t.Fatalf("unexpected zero-tx decode: %+v", got)
	}
}

func TestDecodeRejectsBadOperation(t *testing.T) {
	tx := scenario1()
	enc := tx.Encode()
	enc2 := make([]byte, len(enc))
	copy(enc2, enc)
	// corrupt the operation field's single byte (0x01) to 0x02; the
	// encoded byte sits wherever RLP placed the fourth list element.
	for i, b := range enc2 {
		if b == 0x01 {
			enc2[i] = 0x02
			break
		}
	}
	if _, err := Decode(enc2); err == nil {
		t.Fatal("expected decode failure on invalid operation byte")
	}
}

func TestStructHashChangesWithNonce(t *testing.T) {
	tx := scenario1()
	h1 := tx.StructHash(uint256.NewInt(1337))
	h2 := tx.StructHash(uint256.NewInt(1338))
	if h1 == h2 {
		t.Fatal("struct hash must depend on nonce")
	}
}

func TestStructHashDeterministic(t *testing.T) {
	tx := scenario1()
	h1 := tx.StructHash(uint256.NewInt(1337))
	h2 := tx.StructHash(uint256.NewInt(1337))
	if h1 != h2 {
		t.Fatal("struct hash must be deterministic")
	}
}
