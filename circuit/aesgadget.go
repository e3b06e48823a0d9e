package circuit

import "github.com/consensys/gnark/frontend"

// rcon is the AES-128 key-schedule round constant sequence.
var rcon = [10]frontend.Variable{0x01, 0x02, 0x04, 0x08, 0x10, 0x20, 0x40, 0x80, 0x1b, 0x36}

// aes128KeySchedule expands a 16-byte key into 11 round keys of 16 bytes
// each, following FIPS-197's key expansion for Nk=4, Nr=10.
func aes128KeySchedule(api frontend.API, key [16]frontend.Variable) [11][16]frontend.Variable {
	var words [44][4]frontend.Variable
	for i := 0; i < 4; i++ {
		copy(words[i][:], key[4*i:4*i+4])
	}
	for i := 4; i < 44; i++ {
		temp := words[i-1]
		if i%4 == 0 {
			temp = [4]frontend.Variable{temp[1], temp[2], temp[3], temp[0]}
			for j := range temp {
				temp[j] = subByte(api, temp[j])
			}
			temp[0] = xorBytes(api, temp[0], rcon[i/4-1])
		}
		for j := 0; j < 4; j++ {
			words[i][j] = xorBytes(api, words[i-4][j], temp[j])
		}
	}
	var rk [11][16]frontend.Variable
	for r := 0; r < 11; r++ {
		for w := 0; w < 4; w++ {
			copy(rk[r][4*w:4*w+4], words[4*r+w][:])
		}
	}
	return rk
}

func addRoundKey(api frontend.API, state [16]frontend.Variable, rk [16]frontend.Variable) [16]frontend.Variable {
	var out [16]frontend.Variable
	for i := range out {
		out[i] = xorBytes(api, state[i], rk[i])
	}
	return out
}

func subBytesState(api frontend.API, state [16]frontend.Variable) [16]frontend.Variable {
	var out [16]frontend.Variable
	for i := range out {
		out[i] = subByte(api, state[i])
	}
	return out
}

// shiftRows permutes the AES state (column-major, state[col*4+row]).
func shiftRows(state [16]frontend.Variable) [16]frontend.Variable {
	var out [16]frontend.Variable
	for col := 0; col < 4; col++ {
		for row := 0; row < 4; row++ {
			out[col*4+row] = state[((col+row)%4)*4+row]
		}
	}
	return out
}

func mixColumns(api frontend.API, state [16]frontend.Variable) [16]frontend.Variable {
	var out [16]frontend.Variable
	for c := 0; c < 4; c++ {
		a0, a1, a2, a3 := state[c*4], state[c*4+1], state[c*4+2], state[c*4+3]
		out[c*4] = xorBytes(api, xorBytes(api, gfMul(api, a0, 2), gfMul(api, a1, 3)), xorBytes(api, a2, a3))
		out[c*4+1] = xorBytes(api, xorBytes(api, a0, gfMul(api, a1, 2)), xorBytes(api, gfMul(api, a2, 3), a3))
		out[c*4+2] = xorBytes(api, xorBytes(api, a0, a1), xorBytes(api, gfMul(api, a2, 2), gfMul(api, a3, 3)))
		out[c*4+3] = xorBytes(api, xorBytes(api, gfMul(api, a0, 3), a1), xorBytes(api, a2, gfMul(api, a3, 2)))
	}
	return out
}

// aes128EncryptBlock encrypts one 16-byte block under the expanded key
// schedule, implementing FIPS-197's Cipher() for Nr=10.
func aes128EncryptBlock(api frontend.API, rk [11][16]frontend.Variable, block [16]frontend.Variable) [16]frontend.Variable {
	state := addRoundKey(api, block, rk[0])
	for round := 1; round <= 9; round++ {
		state = subBytesState(api, state)
		state = shiftRows(state)
		state = mixColumns(api, state)
		state = addRoundKey(api, state, rk[round])
	}
	state = subBytesState(api, state)
	state = shiftRows(state)
	state = addRoundKey(api, state, rk[10])
	return state
}

// incrementCounter32 adds 1 to the last 4 bytes of a 16-byte GCM counter
// block, treated as a big-endian uint32 (no carry beyond 32 bits is needed:
// envelope ciphertexts are bounded to 2^16 bytes, far under 2^32 blocks).
func incrementCounter32(api frontend.API, block [16]frontend.Variable) [16]frontend.Variable {
	out := block
	var word frontend.Variable = 0
	for i := 0; i < 4; i++ {
		word = api.Add(api.Mul(word, 256), block[12+i])
	}
	word = api.Add(word, 1)
	bits := api.ToBinary(word, 32)
	for i := 0; i < 4; i++ {
		out[12+i] = api.FromBinary(bits[(3-i)*8 : (4-i)*8]...)
	}
	return out
}

// aes128GCMEncrypt implements AES-128-GCM with empty AAD: CTR-mode
// encryption of plaintext under key/iv, plus the GHASH-based authentication
// tag over the ciphertext. plaintext length is fixed at circuit-build time
// (it is the transaction buffer, the same length as the ciphertext).
func aes128GCMEncrypt(api frontend.API, key [16]frontend.Variable, iv [12]frontend.Variable, plaintext []frontend.Variable) (ciphertext []frontend.Variable, tag [16]frontend.Variable) {
	rk := aes128KeySchedule(api, key)

	zero := zeroBlock()
	h := aes128EncryptBlock(api, rk, zero)

	var j0 [16]frontend.Variable
	copy(j0[:12], iv[:])
	j0[12], j0[13], j0[14] = 0, 0, 0
	j0[15] = 1

	ciphertext = make([]frontend.Variable, len(plaintext))
	counter := j0
	for off := 0; off < len(plaintext); off += 16 {
		counter = incrementCounter32(api, counter)
		ks := aes128EncryptBlock(api, rk, counter)
		end := off + 16
		if end > len(plaintext) {
			end = len(plaintext)
		}
		for i := off; i < end; i++ {
			ciphertext[i] = xorBytes(api, plaintext[i], ks[i-off])
		}
	}

	y := zeroBlock()
	for off := 0; off < len(ciphertext); off += 16 {
		block := zeroBlock()
		end := off + 16
		for i := off; i < end && i < len(ciphertext); i++ {
			block[i-off] = ciphertext[i]
		}
		y = ghashBlock(api, h, y, block)
	}
	lenBlock := zeroBlock()
	bitLen := uint64(len(ciphertext)) * 8
	for i := 0; i < 8; i++ {
		lenBlock[8+i] = frontend.Variable((bitLen >> (8 * (7 - i))) & 0xff)
	}
	y = ghashBlock(api, h, y, lenBlock)

	encJ0 := aes128EncryptBlock(api, rk, j0)
	for i := 0; i < 16; i++ {
		tag[i] = xorBytes(api, y[i], encJ0[i])
	}
	return ciphertext, tag
}
