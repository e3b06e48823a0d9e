// Package jwe converts a decoded TXE envelope to and from a JSON Web
// Encryption General Serialization object, restricted to the fields this
// system actually populates.
package jwe

import (
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/txe-proto/txe/envelope"
)

// protectedHeaderB64 is the base64url (unpadded) encoding of the literal
// JSON {"enc":"A128GCM"}, fixed for every TXE-derived JWE.
const protectedHeaderB64 = "eyJlbmMiOiJBMTI4R0NNIn0"

// EPK is the ephemeral public key carried in a recipient header.
type EPK struct {
	Kty string `json:"kty"`
	Crv string `json:"crv"`
	X   string `json:"x"`
}

// RecipientHeader is the per-recipient unprotected header.
type RecipientHeader struct {
	Alg string `json:"alg"`
	EPK EPK    `json:"epk"`
}

// Recipient is one entry of the JWE General Serialization recipients array.
type Recipient struct {
	Header       RecipientHeader `json:"header"`
	EncryptedKey string          `json:"encrypted_key"`
}

// Message is the restricted JWE General Serialization object this system
// produces and consumes: a protected header, shared iv/ciphertext/tag, and
// one recipient entry per TXE recipient.
type Message struct {
	Protected  string      `json:"protected"`
	IV         string      `json:"iv"`
	Ciphertext string      `json:"ciphertext"`
	Tag        string      `json:"tag"`
	Recipients []Recipient `json:"recipients"`
}

func b64(b []byte) string {
	return base64.RawURLEncoding.EncodeToString(b)
}

func unb64(s string) ([]byte, error) {
	b, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("jwe: invalid base64url: %w", err)
	}
	return b, nil
}

// FromEnvelope produces a JWE General Serialization Message equivalent to env.
func FromEnvelope(env *envelope.Envelope) *Message {
	m := &Message{
		Protected:  protectedHeaderB64,
		IV:         b64(env.IV[:]),
		Ciphertext: b64(env.Ciphertext),
		Tag:        b64(env.Tag[:]),
	}
	for _, r := range env.Recipients {
		m.Recipients = append(m.Recipients, Recipient{
			EncryptedKey: b64(r.EncryptedKey[:]),
			Header: RecipientHeader{
				Alg: "ECDH-ES+A128KW",
				EPK: EPK{
					Kty: "OKP",
					Crv: "X25519",
					X:   b64(r.EphemeralPublicKey[:]),
				},
			},
		})
	}
	return m
}

// ToEnvelope reverses FromEnvelope, decoding the base64url fields and
// re-validating their fixed lengths.
func ToEnvelope(m *Message) (*envelope.Envelope, error) {
	iv, err := unb64(m.IV)
	if err != nil {
		return nil, err
	}
	if len(iv) != envelope.IVLength {
		return nil, fmt.Errorf("jwe: iv must be %d bytes, got %d", envelope.IVLength, len(iv))
	}
	tag, err := unb64(m.Tag)
	if err != nil {
		return nil, err
	}
	if len(tag) != envelope.TagLength {
		return nil, fmt.Errorf("jwe: tag must be %d bytes, got %d", envelope.TagLength, len(tag))
	}
	ciphertext, err := unb64(m.Ciphertext)
	if err != nil {
		return nil, err
	}

	if len(m.Recipients) == 0 {
		return nil, envelope.ErrNoRecipients
	}
	recipients := make([]envelope.Recipient, len(m.Recipients))
	for i, rj := range m.Recipients {
		encKey, err := unb64(rj.EncryptedKey)
		if err != nil {
			return nil, fmt.Errorf("jwe: recipient %d: %w", i, err)
		}
		if len(encKey) != envelope.EncryptedKeyLength {
			return nil, fmt.Errorf("jwe: recipient %d: encrypted_key must be %d bytes, got %d", i, envelope.EncryptedKeyLength, len(encKey))
		}
		epk, err := unb64(rj.Header.EPK.X)
		if err != nil {
			return nil, fmt.Errorf("jwe: recipient %d: %w", i, err)
		}
		if len(epk) != envelope.EphemeralKeyLength {
			return nil, fmt.Errorf("jwe: recipient %d: epk.x must be %d bytes, got %d", i, envelope.EphemeralKeyLength, len(epk))
		}
		var r envelope.Recipient
		copy(r.EncryptedKey[:], encKey)
		copy(r.EphemeralPublicKey[:], epk)
		recipients[i] = r
	}

	env := &envelope.Envelope{Ciphertext: ciphertext, Recipients: recipients}
	copy(env.IV[:], iv)
	copy(env.Tag[:], tag)
	return env, nil
}

// Marshal and Unmarshal are plain functions rather than MarshalJSON/
// UnmarshalJSON methods so the conversion surface stays limited to
// FromEnvelope/ToEnvelope; callers needing raw JSON for a standard JWE
// library go through these.
func Marshal(m *Message) ([]byte, error) { return json.Marshal(m) }

func Unmarshal(b []byte) (*Message, error) {
	var m Message
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("jwe: %w", err)
	}
	return &m, nil
}
