package hybrid

import (
	"crypto/aes"
	"encoding/binary"
	"fmt"
)

// defaultIV is the standard RFC 3394 initial value.
var defaultIV = [8]byte{0xa6, 0xa6, 0xa6, 0xa6, 0xa6, 0xa6, 0xa6, 0xa6}

// KeyWrap wraps plaintext (a multiple of 8 bytes, at least 16) under kek
// using AES Key Wrap (RFC 3394), producing len(plaintext)+8 bytes.
func KeyWrap(kek, plaintext []byte) ([]byte, error) {
	if len(plaintext)%8 != 0 || len(plaintext) < 16 {
		return nil, fmt.Errorf("hybrid: key wrap input must be a multiple of 8 bytes, at least 16, got %d", len(plaintext))
	}
	block, err := aes.NewCipher(kek)
	if err != nil {
		return nil, fmt.Errorf("hybrid: key wrap cipher: %w", err)
	}

	n := len(plaintext) / 8
	r := make([][8]byte, n+1)
	for i := 0; i < n; i++ {
		copy(r[i+1][:], plaintext[i*8:(i+1)*8])
	}
	a := defaultIV

	var buf [16]byte
	for j := 0; j <= 5; j++ {
		for i := 1; i <= n; i++ {
			copy(buf[0:8], a[:])
			copy(buf[8:16], r[i][:])
			block.Encrypt(buf[:], buf[:])
			var a64 [8]byte
			copy(a64[:], buf[0:8])
			t := uint64(n*j + i)
			a = xorCounter(a64, t)
			copy(r[i][:], buf[8:16])
		}
	}

	out := make([]byte, (n+1)*8)
	copy(out[0:8], a[:])
	for i := 1; i <= n; i++ {
		copy(out[i*8:(i+1)*8], r[i][:])
	}
	return out, nil
}

// KeyUnwrap reverses KeyWrap, returning ErrIntegrityCheckFailed if the
// recovered integrity value does not match the RFC 3394 default IV.
func KeyUnwrap(kek, ciphertext []byte) ([]byte, error) {
	if len(ciphertext)%8 != 0 || len(ciphertext) < 24 {
		return nil, fmt.Errorf("hybrid: key unwrap input must be a multiple of 8 bytes, at least 24, got %d", len(ciphertext))
	}
	block, err := aes.NewCipher(kek)
	if err != nil {
		return nil, fmt.Errorf("hybrid: key unwrap cipher: %w", err)
	}

	n := len(ciphertext)/8 - 1
	var a [8]byte
	copy(a[:], ciphertext[0:8])
	r := make([][8]byte, n+1)
	for i := 0; i < n; i++ {
		copy(r[i+1][:], ciphertext[(i+1)*8:(i+2)*8])
	}

	var buf [16]byte
	for j := 5; j >= 0; j-- {
		for i := n; i >= 1; i-- {
			t := uint64(n*j + i)
			aXor := xorCounter(a, t)
			copy(buf[0:8], aXor[:])
			copy(buf[8:16], r[i][:])
			block.Decrypt(buf[:], buf[:])
			copy(a[:], buf[0:8])
			copy(r[i][:], buf[8:16])
		}
	}

	if a != defaultIV {
		return nil, ErrIntegrityCheckFailed
	}

	out := make([]byte, n*8)
	for i := 1; i <= n; i++ {
		copy(out[(i-1)*8:i*8], r[i][:])
	}
	return out, nil
}

func xorCounter(a [8]byte, t uint64) [8]byte {
	var tb [8]byte
	binary.BigEndian.PutUint64(tb[:], t)
	var out [8]byte
	for i := range out {
		out[i] = a[i] ^ tb[i]
	}
	return out
}
