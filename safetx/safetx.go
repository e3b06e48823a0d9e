// Package safetx encodes and decodes the nine-field Safe multisig transaction
// payload over RLP and computes its EIP-712 struct hash.
package safetx

import (
	"fmt"
	"math/big"

	"golang.org/x/crypto/sha3"

	"github.com/holiman/uint256"
	"github.com/txe-proto/txe/pkg/hexutil"
	"github.com/txe-proto/txe/pkg/rlp"
)

// Operation selects how the Safe executes the call.
type Operation uint8

const (
	Call         Operation = 0
	Delegatecall Operation = 1
)

// safeTxTypeHash is the Gnosis Safe EIP-712 type hash for SafeTx:
// keccak256("SafeTx(address to,uint256 value,bytes data,uint8 operation,uint256 safeTxGas,uint256 baseGas,uint256 gasPrice,address gasToken,address refundReceiver,uint256 nonce)")
var safeTxTypeHash = [32]byte{
	0xbb, 0x83, 0x10, 0xd4, 0x86, 0x36, 0x8d, 0xb6,
	0xbd, 0x6f, 0x84, 0x94, 0x02, 0xfd, 0xd7, 0x3a,
	0xd5, 0x3d, 0x31, 0x6b, 0x5a, 0x4b, 0x26, 0x44,
	0xad, 0x6e, 0xfe, 0x0f, 0x94, 0x12, 0x86, 0xd8,
}

// Transaction is the nine-field Safe payload. Nonce is carried separately
// from the encrypted payload and only participates in the struct hash.
type Transaction struct {
	To             hexutil.Address
	Value          *uint256.Int
	Data           []byte
	Operation      Operation
	SafeTxGas      *uint256.Int
	BaseGas        *uint256.Int
	GasPrice       *uint256.Int
	GasToken       hexutil.Address
	RefundReceiver hexutil.Address
}

// Encode RLP-encodes the nine payload fields in fixed order. Nonce is not
// part of this encoding.
func (t *Transaction) Encode() []byte {
	return rlp.Encode(rlp.List(
		rlp.Bytes(t.To.Bytes()),
		rlp.BigUint(u256ToBig(t.Value)),
		rlp.Bytes(t.Data),
		rlp.Uint(uint64(t.Operation)),
		rlp.BigUint(u256ToBig(t.SafeTxGas)),
		rlp.BigUint(u256ToBig(t.BaseGas)),
		rlp.BigUint(u256ToBig(t.GasPrice)),
		rlp.Bytes(t.GasToken.Bytes()),
		rlp.Bytes(t.RefundReceiver.Bytes()),
	))
}

// Decode parses the nine-field RLP list produced by Encode.
func Decode(b []byte) (*Transaction, error) {
	v, err := rlp.DecodeBytes(b)
	if err != nil {
		return nil, err
	}
	if !v.IsList() || len(v.Item) != 9 {
		return nil, fmt.Errorf("safetx: %w: expected 9-field list, got %d fields", rlp.ErrFieldTypeMismatch, len(v.Item))
	}
	t := &Transaction{}
	fields := v.Item

	to, err := decodeAddress(fields[0])
	if err != nil {
		return nil, fmt.Errorf("safetx: to: %w", err)
	}
	t.To = to

	if t.Value, err = decodeUint256(fields[1]); err != nil {
		return nil, fmt.Errorf("safetx: value: %w", err)
	}

	if fields[2].IsList() {
		return nil, fmt.Errorf("safetx: data: %w", rlp.ErrFieldTypeMismatch)
	}
	t.Data = append([]byte(nil), fields[2].Str...)

	op, err := decodeOperation(fields[3])
	if err != nil {
		return nil, err
	}
	t.Operation = op

	if t.SafeTxGas, err = decodeUint256(fields[4]); err != nil {
		return nil, fmt.Errorf("safetx: safeTxGas: %w", err)
	}
	if t.BaseGas, err = decodeUint256(fields[5]); err != nil {
		return nil, fmt.Errorf("safetx: baseGas: %w", err)
	}
	if t.GasPrice, err = decodeUint256(fields[6]); err != nil {
		return nil, fmt.Errorf("safetx: gasPrice: %w", err)
	}

	gasToken, err := decodeAddress(fields[7])
	if err != nil {
		return nil, fmt.Errorf("safetx: gasToken: %w", err)
	}
	t.GasToken = gasToken

	refundReceiver, err := decodeAddress(fields[8])
	if err != nil {
		return nil, fmt.Errorf("safetx: refundReceiver: %w", err)
	}
	t.RefundReceiver = refundReceiver

	return t, nil
}

// StructHash computes the EIP-712 hashStruct of SafeTx over the transaction
// fields plus the externally-carried nonce.
func (t *Transaction) StructHash(nonce *uint256.Int) [32]byte {
	h := sha3.NewLegacyKeccak256()
	h.Write(safeTxTypeHash[:])
	h.Write(addressToWord(t.To))
	h.Write(u256ToWord(t.Value))
	dataHash := sha3.NewLegacyKeccak256()
	dataHash.Write(t.Data)
	h.Write(dataHash.Sum(nil))
	h.Write(operationToWord(t.Operation))
	h.Write(u256ToWord(t.SafeTxGas))
	h.Write(u256ToWord(t.BaseGas))
	h.Write(u256ToWord(t.GasPrice))
	h.Write(addressToWord(t.GasToken))
	h.Write(addressToWord(t.RefundReceiver))
	h.Write(u256ToWord(nonce))
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}

func addressToWord(a hexutil.Address) []byte {
	var word [32]byte
	copy(word[12:], a.Bytes())
	return word[:]
}

func operationToWord(op Operation) []byte {
	var word [32]byte
	if op == Delegatecall {
		word[31] = 1
	}
	return word[:]
}

func u256ToWord(v *uint256.Int) []byte {
	var word [32]byte
	if v != nil {
		b := v.Bytes32()
		copy(word[:], b[:])
	}
	return word[:]
}

func u256ToBig(v *uint256.Int) *big.Int {
	if v == nil {
		return new(big.Int)
	}
	return v.ToBig()
}

func decodeAddress(v rlp.Value) (hexutil.Address, error) {
	if v.IsList() {
		return hexutil.Address{}, rlp.ErrFieldTypeMismatch
	}
	if len(v.Str) != hexutil.AddressLength {
		return hexutil.Address{}, fmt.Errorf("%w: expected %d-byte address, got %d", rlp.ErrFieldTypeMismatch, hexutil.AddressLength, len(v.Str))
	}
	return hexutil.BytesToAddress(v.Str), nil
}

func decodeUint256(v rlp.Value) (*uint256.Int, error) {
	if v.IsList() {
		return nil, rlp.ErrFieldTypeMismatch
	}
	if len(v.Str) > 0 && v.Str[0] == 0 {
		return nil, rlp.ErrCanonInt
	}
	if len(v.Str) > 32 {
		return nil, fmt.Errorf("%w: integer exceeds 256 bits", rlp.ErrFieldTypeMismatch)
	}
	return new(uint256.Int).SetBytes(v.Str), nil
}

func decodeOperation(v rlp.Value) (Operation, error) {
	if v.IsList() {
		return 0, rlp.ErrFieldTypeMismatch
	}
	switch {
	case len(v.Str) == 0:
		return Call, nil
	case len(v.Str) == 1 && v.Str[0] == 0x01:
		return Delegatecall, nil
	default:
		return 0, fmt.Errorf("%w: operation must be 0x or 0x01", rlp.ErrFieldTypeMismatch)
	}
}
