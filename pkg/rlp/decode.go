package rlp

import "math/big"

// Kind classifies the next item in a Stream.
type Kind int

const (
	KindString Kind = iota
	KindList
)

// Value is a fully decoded RLP tree node: either a byte string or an
// ordered sequence of child values.
type Value struct {
	isList bool
	Str    []byte
	Item   []Value
}

// IsList reports whether v is a list node.
func (v Value) IsList() bool { return v.isList }

// Stream provides cursor-based, low-allocation access to an RLP-encoded byte
// slice. Bytes/List/Uint64/BigInt read the next item; List/ListEnd bracket a
// nested scope the way a recursive-descent parser would.
type Stream struct {
	data  []byte
	pos   int
	stack []listFrame
}

type listFrame struct {
	end int
}

// NewStream wraps b for streaming decode.
func NewStream(b []byte) *Stream { return &Stream{data: b} }

// DecodeBytes decodes the single top-level item in b into a generic Value
// tree and rejects any trailing bytes.
func DecodeBytes(b []byte) (Value, error) {
	if len(b) == 0 {
		return Value{}, ErrEmptyInput
	}
	s := NewStream(b)
	v, err := s.readValue()
	if err != nil {
		return Value{}, err
	}
	if s.pos != len(s.data) {
		return Value{}, ErrTrailingBytes
	}
	return v, nil
}

func (s *Stream) readValue() (Value, error) {
	kind, payload, _, err := s.readItem()
	if err != nil {
		return Value{}, err
	}
	if kind == listKind {
		sub := NewStream(payload)
		var items []Value
		for sub.pos < len(sub.data) {
			item, err := sub.readValue()
			if err != nil {
				return Value{}, err
			}
			items = append(items, item)
		}
		return Value{isList: true, Item: items}, nil
	}
	return Value{Str: payload}, nil
}

// internal kind tags distinct from the exported Kind to keep readItem() simple.
type itemKind int

const (
	byteKind itemKind = iota
	stringKind
	listKind
)

// Kind reports the type and declared content length of the next item without consuming it.
func (s *Stream) Kind() (Kind, uint64, error) {
	k, payload, _, err := s.peekItem()
	if err != nil {
		return 0, 0, err
	}
	if k == listKind {
		return KindList, uint64(len(payload)), nil
	}
	return KindString, uint64(len(payload)), nil
}

func (s *Stream) peekItem() (itemKind, []byte, int, error) {
	saved := s.pos
	k, p, t, err := s.readItem()
	s.pos = saved
	return k, p, t, err
}

func (s *Stream) limit() int {
	if len(s.stack) > 0 {
		return s.stack[len(s.stack)-1].end
	}
	return len(s.data)
}

// readItem reads one complete RLP item (prefix + payload), returning the
// payload slice and the item kind.
func (s *Stream) readItem() (kind itemKind, payload []byte, totalConsumed int, err error) {
	lim := s.limit()
	if s.pos >= lim {
		return 0, nil, 0, ErrEmptyInput
	}
	prefix := s.data[s.pos]

	switch {
	case prefix <= 0x7f:
		payload = s.data[s.pos : s.pos+1]
		s.pos++
		return byteKind, payload, 1, nil

	case prefix <= 0xb7:
		size := int(prefix - 0x80)
		start := s.pos + 1
		end := start + size
		if end > lim {
			return 0, nil, 0, ErrBadLengthPrefix
		}
		if size == 1 && s.data[start] < 0x80 {
			return 0, nil, 0, ErrCanonSize
		}
		payload = s.data[start:end]
		s.pos = end
		return stringKind, payload, 1 + size, nil

	case prefix <= 0xbf:
		lenOfLen := int(prefix - 0xb7)
		if s.pos+1+lenOfLen > lim {
			return 0, nil, 0, ErrBadLengthPrefix
		}
		sizeBytes := s.data[s.pos+1 : s.pos+1+lenOfLen]
		if len(sizeBytes) > 0 && sizeBytes[0] == 0 {
			return 0, nil, 0, ErrBadLengthPrefix
		}
		size := int(readBigEndian(sizeBytes))
		if size <= 55 {
			return 0, nil, 0, ErrNonCanonicalSize
		}
		start := s.pos + 1 + lenOfLen
		end := start + size
		if end > lim {
			return 0, nil, 0, ErrBadLengthPrefix
		}
		payload = s.data[start:end]
		s.pos = end
		return stringKind, payload, 1 + lenOfLen + size, nil

	case prefix <= 0xf7:
		size := int(prefix - 0xc0)
		start := s.pos + 1
		end := start + size
		if end > lim {
			return 0, nil, 0, ErrBadLengthPrefix
		}
		payload = s.data[start:end]
		s.pos = end
		return listKind, payload, 1 + size, nil

	default:
		lenOfLen := int(prefix - 0xf7)
		if s.pos+1+lenOfLen > lim {
			return 0, nil, 0, ErrBadLengthPrefix
		}
		sizeBytes := s.data[s.pos+1 : s.pos+1+lenOfLen]
		if len(sizeBytes) > 0 && sizeBytes[0] == 0 {
			return 0, nil, 0, ErrBadLengthPrefix
		}
		size := int(readBigEndian(sizeBytes))
		if size <= 55 {
			return 0, nil, 0, ErrNonCanonicalSize
		}
		start := s.pos + 1 + lenOfLen
		end := start + size
		if end > lim {
			return 0, nil, 0, ErrBadLengthPrefix
		}
		payload = s.data[start:end]
		s.pos = end
		return listKind, payload, 1 + lenOfLen + size, nil
	}
}

// Bytes reads the next item, which must be a string, and returns its payload.
func (s *Stream) Bytes() ([]byte, error) {
	kind, payload, _, err := s.readItem()
	if err != nil {
		return nil, err
	}
	if kind == listKind {
		return nil, ErrExpectedString
	}
	return payload, nil
}

// List enters a nested list scope and returns the byte length of its payload.
// Pair every successful List() call with ListEnd().
func (s *Stream) List() (uint64, error) {
	kind, payload, _, err := s.readItem()
	if err != nil {
		return 0, err
	}
	if kind != listKind {
		return 0, ErrExpectedList
	}
	// payload is a sub-slice of s.data; re-anchor the stack frame relative
	// to the absolute position so ListEnd can check completion.
	start := s.pos - len(payload)
	s.stack = append(s.stack, listFrame{end: s.pos})
	s.pos = start
	return uint64(len(payload)), nil
}

// ListEnd closes the current list scope, failing if items remain unread.
func (s *Stream) ListEnd() error {
	if len(s.stack) == 0 {
		return ErrExpectedList
	}
	top := s.stack[len(s.stack)-1]
	if s.pos != top.end {
		return ErrEOL
	}
	s.stack = s.stack[:len(s.stack)-1]
	return nil
}

// Uint64 reads the next item as a minimal big-endian unsigned integer.
func (s *Stream) Uint64() (uint64, error) {
	b, err := s.Bytes()
	if err != nil {
		return 0, err
	}
	if len(b) == 0 {
		return 0, nil
	}
	if len(b) > 8 {
		return 0, ErrUint64Range
	}
	if b[0] == 0 {
		return 0, ErrCanonInt
	}
	var v uint64
	for _, x := range b {
		v = (v << 8) | uint64(x)
	}
	return v, nil
}

// BigInt reads the next item as a minimal big-endian unsigned integer of
// arbitrary size.
func (s *Stream) BigInt() (*big.Int, error) {
	b, err := s.Bytes()
	if err != nil {
		return nil, err
	}
	if len(b) > 0 && b[0] == 0 {
		return nil, ErrCanonInt
	}
	return new(big.Int).SetBytes(b), nil
}

// Remaining reports whether unread bytes remain in the current scope.
func (s *Stream) Remaining() bool { return s.pos < s.limit() }

func readBigEndian(b []byte) uint64 {
	var v uint64
	for _, x := range b {
		v = (v << 8) | uint64(x)
	}
	return v
}
