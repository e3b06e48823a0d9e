package circuit

import "github.com/consensys/gnark/frontend"

// defaultIVBytes is RFC 3394's default integrity check register, matching
// hybrid.defaultIV.
var defaultIVBytes = [8]frontend.Variable{0xa6, 0xa6, 0xa6, 0xa6, 0xa6, 0xa6, 0xa6, 0xa6}

// aesKeyWrap16 wraps a 16-byte content-encryption key under a 16-byte KEK
// per RFC 3394, producing 24 bytes of wrapped key. n=2 semiblocks, so every
// round counter t=n*j+i (at most 12) stays below 256 and only the
// register's last byte is ever touched by the XOR step.
func aesKeyWrap16(api frontend.API, kek [16]frontend.Variable, plaintext [16]frontend.Variable) [24]frontend.Variable {
	rk := aes128KeySchedule(api, kek)

	a := defaultIVBytes
	var r [2][8]frontend.Variable
	copy(r[0][:], plaintext[0:8])
	copy(r[1][:], plaintext[8:16])

	for j := 0; j < 6; j++ {
		for i := 1; i <= 2; i++ {
			var block [16]frontend.Variable
			copy(block[0:8], a[:])
			copy(block[8:16], r[i-1][:])
			enc := aes128EncryptBlock(api, rk, block)

			t := frontend.Variable(2*j + i)
			var newA [8]frontend.Variable
			copy(newA[:], enc[0:8])
			newA[7] = xorBytes(api, newA[7], t)
			a = newA
			copy(r[i-1][:], enc[8:16])
		}
	}

	var out [24]frontend.Variable
	copy(out[0:8], a[:])
	copy(out[8:16], r[0][:])
	copy(out[16:24], r[1][:])
	return out
}
