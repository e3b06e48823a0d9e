package txe

import (
	"errors"
	"fmt"

	"github.com/txe-proto/txe/envelope"
	"github.com/txe-proto/txe/hybrid"
	"github.com/txe-proto/txe/pkg/hexutil"
	"github.com/txe-proto/txe/pkg/rlp"
	"github.com/txe-proto/txe/txinput"
)

// Kind discriminates the failure categories callers need to branch on —
// input shape, codec, crypto, and circuit — with errors.Is/errors.As rather
// than string matching.
type Kind int

const (
	KindUnknown Kind = iota

	// Input shape.
	KindInvalidStructHash
	KindInvalidNonce
	KindInvalidAddress
	KindInvalidHex
	KindNoRecipients
	KindTooManyRecipients

	// Codec.
	KindEmptyInput
	KindTrailingBytes
	KindBadLengthPrefix
	KindFieldTypeMismatch
	KindTruncated
	KindLengthOverflow

	// Crypto.
	KindAuthTagInvalid
	KindNotARecipient
	KindKeyUnwrapFailed
	KindRngFailure

	// Circuit.
	KindShapeMismatch
)

func (k Kind) String() string {
	switch k {
	case KindInvalidStructHash:
		return "InvalidStructHash"
	case KindInvalidNonce:
		return "InvalidNonce"
	case KindInvalidAddress:
		return "InvalidAddress"
	case KindInvalidHex:
		return "InvalidHex"
	case KindNoRecipients:
		return "NoRecipients"
	case KindTooManyRecipients:
		return "TooManyRecipients"
	case KindEmptyInput:
		return "EmptyInput"
	case KindTrailingBytes:
		return "TrailingBytes"
	case KindBadLengthPrefix:
		return "BadLengthPrefix"
	case KindFieldTypeMismatch:
		return "FieldTypeMismatch"
	case KindTruncated:
		return "Truncated"
	case KindLengthOverflow:
		return "LengthOverflow"
	case KindAuthTagInvalid:
		return "AuthTagInvalid"
	case KindNotARecipient:
		return "NotARecipient"
	case KindKeyUnwrapFailed:
		return "KeyUnwrapFailed"
	case KindRngFailure:
		return "RngFailure"
	case KindShapeMismatch:
		return "ShapeMismatch"
	default:
		return "Unknown"
	}
}

// Error wraps an underlying error with its discriminated Kind.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("txe: %s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func wrapErr(kind Kind, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Err: err}
}

// classify maps an error returned by one of the component packages to its
// discriminated Kind, falling back to KindUnknown for anything not covered
// by the list above.
func classify(err error) Kind {
	switch {
	case err == nil:
		return KindUnknown
	case errors.Is(err, rlp.ErrEmptyInput):
		return KindEmptyInput
	case errors.Is(err, envelope.ErrNoRecipients):
		return KindNoRecipients
	case errors.Is(err, envelope.ErrTooManyRecipients):
		return KindTooManyRecipients
	case errors.Is(err, envelope.ErrTruncated):
		return KindTruncated
	case errors.Is(err, envelope.ErrLengthOverflow):
		return KindLengthOverflow
	case errors.Is(err, envelope.ErrTrailingBytes), errors.Is(err, rlp.ErrTrailingBytes):
		return KindTrailingBytes
	case errors.Is(err, rlp.ErrFieldTypeMismatch):
		return KindFieldTypeMismatch
	case errors.Is(err, rlp.ErrBadLengthPrefix), errors.Is(err, rlp.ErrNonCanonicalSize),
		errors.Is(err, rlp.ErrCanonSize), errors.Is(err, rlp.ErrCanonInt):
		return KindBadLengthPrefix
	case errors.Is(err, hybrid.ErrAuthTagInvalid):
		return KindAuthTagInvalid
	case errors.Is(err, hybrid.ErrNotARecipient):
		return KindNotARecipient
	case errors.Is(err, hybrid.ErrIntegrityCheckFailed):
		return KindKeyUnwrapFailed
	case errors.Is(err, hybrid.ErrNoRecipients):
		return KindNoRecipients
	case errors.Is(err, hybrid.ErrRngFailure):
		return KindRngFailure
	case errors.Is(err, txinput.ErrInvalidStructHash):
		return KindInvalidStructHash
	case errors.Is(err, txinput.ErrInvalidNonce):
		return KindInvalidNonce
	case errors.Is(err, txinput.ErrShapeMismatch):
		return KindShapeMismatch
	case errors.Is(err, hexutil.ErrInvalidAddress):
		return KindInvalidAddress
	case errors.Is(err, hexutil.ErrOddLength), errors.Is(err, hexutil.ErrInvalidHex):
		return KindInvalidHex
	default:
		return KindUnknown
	}
}
