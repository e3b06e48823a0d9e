package rlp

import "errors"

var (
	// ErrEmptyInput is returned when decoding is attempted on a zero-length buffer.
	ErrEmptyInput = errors.New("rlp: empty input")

	// ErrExpectedString is returned when a list is encountered where a string was expected.
	ErrExpectedString = errors.New("rlp: expected string")

	// ErrExpectedList is returned when a string is encountered where a list was expected.
	ErrExpectedList = errors.New("rlp: expected list")

	// ErrBadLengthPrefix is returned when a length prefix declares a size that
	// overruns the input (in the short or long form), or when a long-form
	// prefix's length bytes overrun the input or start with a zero byte.
	ErrBadLengthPrefix = errors.New("rlp: bad length prefix")

	// ErrCanonSize is returned when a single byte below 0x80 was wrapped in a
	// one-byte string encoding instead of being emitted directly.
	ErrCanonSize = errors.New("rlp: non-canonical size, byte below 0x80 encoded as string")

	// ErrNonCanonicalSize is returned when a long-form length prefix encodes a
	// size that would have fit in the short form.
	ErrNonCanonicalSize = errors.New("rlp: non-canonical size, long form used for short length")

	// ErrTrailingBytes is returned when extra bytes remain after the single
	// top-level item a caller asked to decode.
	ErrTrailingBytes = errors.New("rlp: trailing bytes after value")

	// ErrEOL is returned when a list is closed before all bytes of its
	// payload have been consumed, or closed too early.
	ErrEOL = errors.New("rlp: end of list")

	// ErrFieldTypeMismatch is returned when a decoded item does not match the
	// shape (string vs list, or fixed length) the caller expected.
	ErrFieldTypeMismatch = errors.New("rlp: field type mismatch")

	// ErrUint64Range is returned when a decoded unsigned integer does not fit in 64 bits.
	ErrUint64Range = errors.New("rlp: uint64 overflow")

	// ErrCanonInt is returned when an integer is encoded with a non-canonical
	// (non-minimal, leading-zero) byte string.
	ErrCanonInt = errors.New("rlp: non-canonical integer encoding")
)
