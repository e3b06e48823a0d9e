package circuit

import "github.com/consensys/gnark/frontend"

// ghashBlock folds one 16-byte block into the running GHASH state y under
// hash subkey h: y = (y XOR block) * h, multiplication in GF(2^128) with
// the GCM reduction polynomial x^128+x^7+x^2+x+1, per NIST SP 800-38D.
func ghashBlock(api frontend.API, h, y, block [16]frontend.Variable) [16]frontend.Variable {
	var x [16]frontend.Variable
	for i := range x {
		x[i] = xorBytes(api, y[i], block[i])
	}
	return gf128Mul(api, x, h)
}

// gf128Mul multiplies two 128-bit values (as 16 big-endian bytes) in the
// GCM field, processing bits MSB-first as NIST SP 800-38D's algorithm 1.
func gf128Mul(api frontend.API, x, y [16]frontend.Variable) [16]frontend.Variable {
	xBits := make([]frontend.Variable, 128)
	for i := 0; i < 16; i++ {
		b := api.ToBinary(x[i], 8)
		for j := 0; j < 8; j++ {
			xBits[i*8+(7-j)] = b[j]
		}
	}

	z := zeroBlock()
	v := y
	for i := 0; i < 128; i++ {
		masked := selectBlock(api, xBits[i], v, zeroBlock())
		z = xorBlocks(api, z, masked)
		if i != 127 {
			v = gf128ShiftReduce(api, v)
		}
	}
	return z
}

func zeroBlock() [16]frontend.Variable {
	var z [16]frontend.Variable
	for i := range z {
		z[i] = 0
	}
	return z
}

func selectBlock(api frontend.API, sel frontend.Variable, a, b [16]frontend.Variable) [16]frontend.Variable {
	var out [16]frontend.Variable
	for i := range out {
		out[i] = api.Select(sel, a[i], b[i])
	}
	return out
}

func xorBlocks(api frontend.API, a, b [16]frontend.Variable) [16]frontend.Variable {
	var out [16]frontend.Variable
	for i := range out {
		out[i] = xorBytes(api, a[i], b[i])
	}
	return out
}

// gf128ShiftReduce implements the "rightshift and conditionally XOR R" step
// of SP 800-38D's multiplication algorithm, operating on the big-endian
// 128-bit value packed as 16 bytes.
func gf128ShiftReduce(api frontend.API, v [16]frontend.Variable) [16]frontend.Variable {
	bits := make([]frontend.Variable, 128)
	for i := 0; i < 16; i++ {
		b := api.ToBinary(v[i], 8)
		for j := 0; j < 8; j++ {
			bits[i*8+(7-j)] = b[j]
		}
	}
	lsb := bits[127]

	shifted := make([]frontend.Variable, 128)
	shifted[0] = 0
	for i := 1; i < 128; i++ {
		shifted[i] = bits[i-1]
	}

	// R = 11100001 || 0^120 (the GCM reduction constant), applied to the
	// top byte only when the shifted-out bit was 1.
	var out [16]frontend.Variable
	for i := 0; i < 16; i++ {
		byteBits := make([]frontend.Variable, 8)
		for j := 0; j < 8; j++ {
			byteBits[j] = shifted[i*8+j]
		}
		msbFirst := make([]frontend.Variable, 8)
		for j := 0; j < 8; j++ {
			msbFirst[7-j] = byteBits[j]
		}
		raw := api.FromBinary(msbFirst...)
		if i == 0 {
			reduced := xorBytes(api, raw, 0xe1)
			out[i] = api.Select(lsb, reduced, raw)
		} else {
			out[i] = raw
		}
	}
	return out
}
