// Package envelope packs and unpacks the TXE binary layout: a length-prefixed
// ciphertext, a 12-byte IV, a 16-byte GCM tag, and an ordered sequence of
// per-recipient wrapped keys and ephemeral public keys.
package envelope

import (
	"encoding/binary"
	"errors"
	"fmt"
)

const (
	IVLength            = 12
	TagLength           = 16
	EncryptedKeyLength  = 24
	EphemeralKeyLength  = 32
	recipientSize       = EncryptedKeyLength + EphemeralKeyLength
	MaxCiphertextLength = 1<<16 - 1
	MaxRecipients       = 256
)

var (
	ErrTruncated         = errors.New("envelope: truncated input")
	ErrLengthOverflow    = errors.New("envelope: length exceeds declared bound")
	ErrTrailingBytes     = errors.New("envelope: trailing bytes after recipient list")
	ErrNoRecipients      = errors.New("envelope: no recipients")
	ErrTooManyRecipients = errors.New("envelope: too many recipients")
)

// Recipient is one entry of the envelope's recipient list.
type Recipient struct {
	EncryptedKey        [EncryptedKeyLength]byte
	EphemeralPublicKey   [EphemeralKeyLength]byte
}

// Envelope is the decoded TXE structure.
type Envelope struct {
	Ciphertext []byte
	IV         [IVLength]byte
	Tag        [TagLength]byte
	Recipients []Recipient
}

// Encode serializes e per the TXE binary layout: a big-endian uint16
// ciphertext length, the ciphertext, the 12-byte IV, the 16-byte tag, a
// uint8 holding (recipient count - 1), then the concatenated recipients.
func (e *Envelope) Encode() ([]byte, error) {
	if len(e.Ciphertext) > MaxCiphertextLength {
		return nil, fmt.Errorf("envelope: %w: ciphertext length %d", ErrLengthOverflow, len(e.Ciphertext))
	}
	if len(e.Recipients) == 0 {
		return nil, ErrNoRecipients
	}
	if len(e.Recipients) > MaxRecipients {
		return nil, fmt.Errorf("envelope: %w: %d recipients", ErrTooManyRecipients, len(e.Recipients))
	}

	out := make([]byte, 2+len(e.Ciphertext)+IVLength+TagLength+1+recipientSize*len(e.Recipients))
	binary.BigEndian.PutUint16(out[0:2], uint16(len(e.Ciphertext)))
	off := 2
	copy(out[off:], e.Ciphertext)
	off += len(e.Ciphertext)
	copy(out[off:], e.IV[:])
	off += IVLength
	copy(out[off:], e.Tag[:])
	off += TagLength
	out[off] = byte(len(e.Recipients) - 1)
	off++
	for _, r := range e.Recipients {
		copy(out[off:], r.EncryptedKey[:])
		off += EncryptedKeyLength
		copy(out[off:], r.EphemeralPublicKey[:])
		off += EphemeralKeyLength
	}
	return out, nil
}

// Decode parses b per the TXE binary layout and rejects any trailing bytes.
func Decode(b []byte) (*Envelope, error) {
	if len(b) < 2 {
		return nil, ErrTruncated
	}
	ciphertextLen := int(binary.BigEndian.Uint16(b[0:2]))
	off := 2
	if off+ciphertextLen > len(b) {
		return nil, ErrTruncated
	}
	ciphertext := b[off : off+ciphertextLen]
	off += ciphertextLen

	if off+IVLength+TagLength+1 > len(b) {
		return nil, ErrTruncated
	}
	var iv [IVLength]byte
	copy(iv[:], b[off:off+IVLength])
	off += IVLength
	var tag [TagLength]byte
	copy(tag[:], b[off:off+TagLength])
	off += TagLength

	count := int(b[off]) + 1
	off++
	if count > MaxRecipients {
		return nil, fmt.Errorf("envelope: %w: %d recipients", ErrTooManyRecipients, count)
	}

	want := off + recipientSize*count
	if want > len(b) {
		return nil, ErrTruncated
	}
	if want != len(b) {
		return nil, ErrTrailingBytes
	}

	recipients := make([]Recipient, count)
	for i := 0; i < count; i++ {
		var r Recipient
		copy(r.EncryptedKey[:], b[off:off+EncryptedKeyLength])
		off += EncryptedKeyLength
		copy(r.EphemeralPublicKey[:], b[off:off+EphemeralKeyLength])
		off += EphemeralKeyLength
		recipients[i] = r
	}

	return &Envelope{
		Ciphertext: append([]byte(nil), ciphertext...),
		IV:         iv,
		Tag:        tag,
		Recipients: recipients,
	}, nil
}
