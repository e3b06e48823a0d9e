// Package rlp implements canonical Ethereum Recursive Length Prefix encoding:
// a tree whose leaves are non-negative integers or byte strings and whose
// interior nodes are ordered lists, with minimal-length integer encoding and
// strict canonical-size rejection on decode.
package rlp

import "math/big"

// Item is a node in an RLP tree: either a byte string or an ordered list of items.
type Item interface {
	encode() []byte
}

type stringItem []byte

func (s stringItem) encode() []byte { return encodeString([]byte(s)) }

type listItem []Item

func (l listItem) encode() []byte {
	var payload []byte
	for _, it := range l {
		payload = append(payload, it.encode()...)
	}
	return wrapList(payload)
}

// Bytes wraps a byte string as a leaf item.
func Bytes(b []byte) Item { return stringItem(b) }

// Uint wraps a non-negative integer as a leaf item, using the minimal
// big-endian byte string (zero encodes as the empty string).
func Uint(u uint64) Item { return stringItem(minimalUint(u)) }

// BigUint wraps a non-negative big.Int as a leaf item.
func BigUint(i *big.Int) Item {
	if i == nil || i.Sign() == 0 {
		return stringItem(nil)
	}
	return stringItem(i.Bytes())
}

// List wraps an ordered sequence of items as an interior node.
func List(items ...Item) Item { return listItem(items) }

// Encode returns the canonical RLP encoding of item.
func Encode(item Item) []byte { return item.encode() }

// EncodeBytes is a convenience wrapper equivalent to Encode(Bytes(b)).
func EncodeBytes(b []byte) []byte { return encodeString(b) }

// EncodeList is a convenience wrapper equivalent to Encode(List(items...)).
func EncodeList(items ...Item) []byte { return listItem(items).encode() }

func minimalUint(u uint64) []byte {
	if u == 0 {
		return nil
	}
	var b [8]byte
	n := 0
	for i := 7; i >= 0; i-- {
		b[i] = byte(u)
		u >>= 8
	}
	for n < 8 && b[n] == 0 {
		n++
	}
	return b[n:]
}

func encodeString(data []byte) []byte {
	n := len(data)
	if n == 1 && data[0] < 0x80 {
		return []byte{data[0]}
	}
	if n <= 55 {
		buf := make([]byte, 1+n)
		buf[0] = 0x80 + byte(n)
		copy(buf[1:], data)
		return buf
	}
	lenBytes := bigEndianMinimal(uint64(n))
	buf := make([]byte, 1+len(lenBytes)+n)
	buf[0] = 0xb7 + byte(len(lenBytes))
	copy(buf[1:], lenBytes)
	copy(buf[1+len(lenBytes):], data)
	return buf
}

func wrapList(payload []byte) []byte {
	n := len(payload)
	if n <= 55 {
		buf := make([]byte, 1+n)
		buf[0] = 0xc0 + byte(n)
		copy(buf[1:], payload)
		return buf
	}
	lenBytes := bigEndianMinimal(uint64(n))
	buf := make([]byte, 1+len(lenBytes)+n)
	buf[0] = 0xf7 + byte(len(lenBytes))
	copy(buf[1:], lenBytes)
	copy(buf[1+len(lenBytes):], payload)
	return buf
}

func bigEndianMinimal(u uint64) []byte {
	var b [8]byte
	n := 0
	for i := 7; i >= 0; i-- {
		b[i] = byte(u)
		u >>= 8
	}
	for n < 7 && b[n] == 0 {
		n++
	}
	return b[n:]
}
