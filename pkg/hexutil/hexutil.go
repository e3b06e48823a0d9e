// Package hexutil parses and renders 0x-prefixed hex and carries the
// fixed-length byte types (Address, Hash) used throughout the codec layers.
package hexutil

import (
	"encoding/hex"
	"errors"
	"fmt"
)

// ErrOddLength is returned by Decode when the input has an odd number of
// hex digits, matching the ground-truth decoder's refusal to guess a
// leading nibble.
var ErrOddLength = errors.New("hexutil: odd-length hex string")

// ErrInvalidHex is returned by Decode when the input contains a non-hex
// digit.
var ErrInvalidHex = errors.New("hexutil: invalid hex string")

// ErrInvalidAddress is returned by HexToAddress when the decoded value is
// not exactly AddressLength bytes.
var ErrInvalidAddress = errors.New("hexutil: invalid address")

const (
	AddressLength = 20
	HashLength    = 32
)

// Address is a 20-byte account address.
type Address [AddressLength]byte

// Hash is a 32-byte digest.
type Hash [HashLength]byte

// BytesToAddress left-pads or truncates b to AddressLength bytes.
func BytesToAddress(b []byte) Address {
	var a Address
	a.SetBytes(b)
	return a
}

// HexToAddress decodes a 0x-prefixed hex string into an Address. The
// decoded value must be exactly AddressLength bytes.
func HexToAddress(s string) (Address, error) {
	b, err := Decode(s)
	if err != nil {
		return Address{}, err
	}
	if len(b) != AddressLength {
		return Address{}, fmt.Errorf("%w: expected %d bytes, got %d", ErrInvalidAddress, AddressLength, len(b))
	}
	return BytesToAddress(b), nil
}

// SetBytes sets the address from b, left-padding if b is shorter than 20
// bytes and keeping only the trailing 20 bytes if b is longer.
func (a *Address) SetBytes(b []byte) {
	if len(b) > AddressLength {
		b = b[len(b)-AddressLength:]
	}
	copy(a[AddressLength-len(b):], b)
}

// Bytes returns the address bytes.
func (a Address) Bytes() []byte { return a[:] }

// Hex renders the address as a 0x-prefixed lowercase hex string.
func (a Address) Hex() string { return Encode(a[:]) }

// String implements fmt.Stringer.
func (a Address) String() string { return a.Hex() }

// IsZero reports whether all bytes of the address are zero.
func (a Address) IsZero() bool { return a == Address{} }

// BytesToHash left-pads or truncates b to HashLength bytes.
func BytesToHash(b []byte) Hash {
	var h Hash
	h.SetBytes(b)
	return h
}

// HexToHash decodes a 0x-prefixed hex string into a Hash.
func HexToHash(s string) (Hash, error) {
	b, err := Decode(s)
	if err != nil {
		return Hash{}, err
	}
	return BytesToHash(b), nil
}

// SetBytes sets the hash from b, left-padding or truncating to 32 bytes.
func (h *Hash) SetBytes(b []byte) {
	if len(b) > HashLength {
		b = b[len(b)-HashLength:]
	}
	copy(h[HashLength-len(b):], b)
}

// Bytes returns the hash bytes.
func (h Hash) Bytes() []byte { return h[:] }

// Hex renders the hash as a 0x-prefixed lowercase hex string.
func (h Hash) Hex() string { return Encode(h[:]) }

// String implements fmt.Stringer.
func (h Hash) String() string { return h.Hex() }

// IsZero reports whether all bytes of the hash are zero.
func (h Hash) IsZero() bool { return h == Hash{} }

// Encode renders b as a 0x-prefixed lowercase hex string.
func Encode(b []byte) string {
	return "0x" + hex.EncodeToString(b)
}

// Decode parses a 0x-prefixed (or bare) hex string into bytes. An odd-length
// input is rejected rather than guessed at: a hex string is always a
// sequence of whole bytes.
func Decode(s string) ([]byte, error) {
	s = trim0x(s)
	if len(s)%2 == 1 {
		return nil, ErrOddLength
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidHex, err)
	}
	return b, nil
}

// MustDecodeFixed decodes s and requires the result to be exactly n bytes.
func MustDecodeFixed(s string, n int) ([]byte, error) {
	b, err := Decode(s)
	if err != nil {
		return nil, err
	}
	if len(b) != n {
		return nil, fmt.Errorf("hexutil: expected %d bytes, got %d", n, len(b))
	}
	return b, nil
}

func has0xPrefix(s string) bool {
	return len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X')
}

func trim0x(s string) string {
	if has0xPrefix(s) {
		return s[2:]
	}
	return s
}
