package hybrid

import "errors"

var (
	// ErrAuthTagInvalid is returned when GCM authentication fails for the
	// recovered content encryption key: the ciphertext or tag was tampered.
	ErrAuthTagInvalid = errors.New("hybrid: AEAD authentication failed")

	// ErrIntegrityCheckFailed is returned by KeyUnwrap when the recovered
	// integrity value does not match the RFC 3394 default IV, i.e. the key
	// wrapping key was wrong.
	ErrIntegrityCheckFailed = errors.New("hybrid: key unwrap integrity check failed")

	// ErrNotARecipient is returned by Decrypt when no recipient entry
	// unwraps successfully under the caller's private key. This is not a
	// security failure by itself: it means the key does not belong to this
	// envelope.
	ErrNotARecipient = errors.New("hybrid: private key is not a recipient of this envelope")

	// ErrNoRecipients is returned by Encrypt when called with an empty
	// recipient list.
	ErrNoRecipients = errors.New("hybrid: no recipients")

	// ErrRngFailure is returned when the system CSPRNG fails to fill a key,
	// nonce, or IV buffer.
	ErrRngFailure = errors.New("hybrid: rng failure")
)
