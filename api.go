// Package txe implements Safe Transaction Encryption: a binary envelope
// that distributes a multisig Safe transaction to a set of recipients under
// a shared AES-128-GCM ciphertext with one ECDH-ES+A128KW wrapped key per
// recipient, plus the machinery to build and check a zero-knowledge relation
// tying an envelope to a public structHash/nonce commitment without
// revealing the transaction or any recipient's key material.
package txe

import (
	"github.com/holiman/uint256"

	"github.com/txe-proto/txe/envelope"
	"github.com/txe-proto/txe/hybrid"
	"github.com/txe-proto/txe/jwe"
	"github.com/txe-proto/txe/txinput"
)

// Encrypt seals transaction under a fresh CEK and wraps that CEK once per
// recipient, returning the encoded TXE blob and the private witness an
// honest encryptor can later feed into the circuit as a prover.
func Encrypt(transaction []byte, recipients [][]byte) (blob []byte, private hybrid.PrivateWitness, err error) {
	res, err := hybrid.Encrypt(transaction, recipients)
	if err != nil {
		return nil, hybrid.PrivateWitness{}, wrapErr(classify(err), err)
	}
	blob, err = res.Envelope.Encode()
	if err != nil {
		return nil, hybrid.PrivateWitness{}, wrapErr(classify(err), err)
	}
	return blob, res.Private, nil
}

// Decrypt decodes blob and tries privateKey against each recipient entry,
// returning the recovered transaction plaintext.
func Decrypt(blob []byte, privateKey []byte) ([]byte, error) {
	env, err := envelope.Decode(blob)
	if err != nil {
		return nil, wrapErr(classify(err), err)
	}
	pt, err := hybrid.Decrypt(env, privateKey)
	if err != nil {
		return nil, wrapErr(classify(err), err)
	}
	return pt, nil
}

// Extract decodes blob and builds a circuit witness shell with the public
// fields populated from the envelope and the private fields zero-filled,
// ready for WithWitness with the private witness that Encrypt returned.
func Extract(structHash [32]byte, nonce *uint256.Int, blob []byte) (*txinput.Input, error) {
	in, err := txinput.Extract(structHash, nonce, blob)
	if err != nil {
		return nil, wrapErr(classify(err), err)
	}
	return in, nil
}

// Argify encodes the prover/verifier arguments for in: two hex strings,
// each an RLP serialization of one witness half.
func Argify(in *txinput.Input) (publicHex, privateHex string, err error) {
	publicHex, privateHex, err = txinput.Argify(in)
	if err != nil {
		return "", "", wrapErr(classify(err), err)
	}
	return publicHex, privateHex, nil
}

// ToJWE decodes a TXE blob and re-expresses it as a JSON Web Encryption
// General Serialization message.
func ToJWE(blob []byte) (*jwe.Message, error) {
	env, err := envelope.Decode(blob)
	if err != nil {
		return nil, wrapErr(classify(err), err)
	}
	return jwe.FromEnvelope(env), nil
}

// IsTXE reports whether b decodes as a well-formed TXE blob. It is a cheap
// structural check, not an authentication check: a blob can be well-formed
// and still fail to decrypt under any given key.
func IsTXE(b []byte) bool {
	_, err := envelope.Decode(b)
	return err == nil
}
