package hybrid

import (
	"bytes"
	"testing"
)

func newRecipient(t *testing.T) (priv []byte, pub []byte) {
	t.Helper()
	sk, pk, err := GenerateKeypair()
	if err != nil {
		t.Fatalf("GenerateKeypair: %v", err)
	}
	return sk.Bytes(), pk.Bytes()
}

func TestKeyWrapUnwrapRoundTrip(t *testing.T) {
	kek := bytes.Repeat([]byte{0x42}, 16)
	cek := bytes.Repeat([]byte{0x07}, 16)
	wrapped, err := KeyWrap(kek, cek)
	if err != nil {
		t.Fatalf("KeyWrap: %v", err)
	}
	if len(wrapped) != 24 {
		t.Fatalf("wrapped length = %d, want 24", len(wrapped))
	}
	unwrapped, err := KeyUnwrap(kek, wrapped)
	if err != nil {
		t.Fatalf("KeyUnwrap: %v", err)
	}
	if !bytes.Equal(unwrapped, cek) {
		t.Fatalf("got %x, want %x", unwrapped, cek)
	}
}

func TestKeyUnwrapRejectsWrongKEK(t *testing.T) {
	kek := bytes.Repeat([]byte{0x42}, 16)
	wrongKek := bytes.Repeat([]byte{0x43}, 16)
	cek := bytes.Repeat([]byte{0x07}, 16)
	wrapped, _ := KeyWrap(kek, cek)
	if _, err := KeyUnwrap(wrongKek, wrapped); err != ErrIntegrityCheckFailed {
		t.Fatalf("got %v, want ErrIntegrityCheckFailed", err)
	}
}

func TestConcatKDFDeterministic(t *testing.T) {
	z := bytes.Repeat([]byte{0x01}, 32)
	k1 := ConcatKDF(z, "ECDH-ES+A128KW", nil, nil, 128)
	k2 := ConcatKDF(z, "ECDH-ES+A128KW", nil, nil, 128)
	if !bytes.Equal(k1, k2) {
		t.Fatal("ConcatKDF must be deterministic")
	}
	if len(k1) != 16 {
		t.Fatalf("len = %d, want 16", len(k1))
	}
}

func TestConcatKDFDiffersByAlgID(t *testing.T) {
	z := bytes.Repeat([]byte{0x01}, 32)
	k1 := ConcatKDF(z, "ECDH-ES+A128KW", nil, nil, 128)
	k2 := ConcatKDF(z, "OTHER", nil, nil, 128)
	if bytes.Equal(k1, k2) {
		t.Fatal("ConcatKDF should depend on AlgorithmID")
	}
}

func TestEncryptDecryptRoundTripMultipleRecipients(t *testing.T) {
	const n = 3
	privs := make([][]byte, n)
	pubs := make([][]byte, n)
	for i := 0; i < n; i++ {
		privs[i], pubs[i] = newRecipient(t)
	}
	payload := []byte("safetx payload bytes")
	res, err := Encrypt(payload, pubs)
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}
	for i := 0; i < n; i++ {
		got, err := Decrypt(res.Envelope, privs[i])
		if err != nil {
			t.Fatalf("Decrypt recipient %d: %v", i, err)
		}
		if !bytes.Equal(got, payload) {
			t.Fatalf("recipient %d: got %q, want %q", i, got, payload)
		}
	}
}

func TestEncryptManyRecipientsUsesParallelPath(t *testing.T) {
	const n = parallelThreshold + 2
	privs := make([][]byte, n)
	pubs := make([][]byte, n)
	for i := 0; i < n; i++ {
		privs[i], pubs[i] = newRecipient(t)
	}
	res, err := Encrypt([]byte("x"), pubs)
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}
	if len(res.Envelope.Recipients) != n {
		t.Fatalf("recipient count = %d", len(res.Envelope.Recipients))
	}
	for i := 0; i < n; i++ {
		if _, err := Decrypt(res.Envelope, privs[i]); err != nil {
			t.Fatalf("recipient %d: %v", i, err)
		}
	}
}

func TestDecryptWrongKeyFailsNotARecipient(t *testing.T) {
	_, pub := newRecipient(t)
	strangerPriv, _ := newRecipient(t)
	res, err := Encrypt([]byte("secret"), [][]byte{pub})
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}
	if _, err := Decrypt(res.Envelope, strangerPriv); err != ErrNotARecipient {
		t.Fatalf("got %v, want ErrNotARecipient", err)
	}
}

func TestTamperedIVFailsAuth(t *testing.T) {
	priv, pub := newRecipient(t)
	res, err := Encrypt([]byte("secret"), [][]byte{pub})
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}
	res.Envelope.IV[0] ^= 0xff
	if _, err := Decrypt(res.Envelope, priv); err == nil {
		t.Fatal("expected decrypt failure after IV tamper")
	}
}

func TestTamperedTagFailsAuth(t *testing.T) {
	priv, pub := newRecipient(t)
	res, err := Encrypt([]byte("secret"), [][]byte{pub})
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}
	res.Envelope.Tag[0] ^= 0xff
	if _, err := Decrypt(res.Envelope, priv); err == nil {
		t.Fatal("expected decrypt failure after tag tamper")
	}
}

func TestEncryptNoRecipients(t *testing.T) {
	if _, err := Encrypt([]byte("x"), nil); err != ErrNoRecipients {
		t.Fatalf("got %v, want ErrNoRecipients", err)
	}
}

func TestSealOpenRoundTrip(t *testing.T) {
	key := bytes.Repeat([]byte{0x09}, CEKLength)
	iv := bytes.Repeat([]byte{0x01}, IVLength)
	pt := []byte("hello safe tx")
	ct, tag, err := Seal(key, iv, pt)
	if err != nil {
		t.Fatalf("Seal: %v", err)
	}
	if len(ct) != len(pt) {
		t.Fatalf("ciphertext length %d != plaintext length %d", len(ct), len(pt))
	}
	if len(tag) != TagLength {
		t.Fatalf("tag length %d != %d", len(tag), TagLength)
	}
	got, err := Open(key, iv, ct, tag)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if !bytes.Equal(got, pt) {
		t.Fatalf("got %q, want %q", got, pt)
	}
}

func TestX25519KeypairRoundTrip(t *testing.T) {
	privA, pubA, err := GenerateKeypair()
	if err != nil {
		t.Fatalf("GenerateKeypair: %v", err)
	}
	privB, pubB, err := GenerateKeypair()
	if err != nil {
		t.Fatalf("GenerateKeypair: %v", err)
	}
	zA, err := SharedSecret(privA, pubB)
	if err != nil {
		t.Fatalf("SharedSecret A: %v", err)
	}
	zB, err := SharedSecret(privB, pubA)
	if err != nil {
		t.Fatalf("SharedSecret B: %v", err)
	}
	if !bytes.Equal(zA, zB) {
		t.Fatal("ECDH shared secrets must match")
	}
}
