package circuit

import (
	"math/big"

	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/std/math/emulated"
)

// Curve25519Fp is the base field of Curve25519, p = 2^255 - 19, expressed
// as emulated.FieldParams so X25519 scalar multiplication can run inside a
// circuit whose native scalar field is unrelated to Curve25519's.
type Curve25519Fp struct{}

func (Curve25519Fp) NbLimbs() uint     { return 4 }
func (Curve25519Fp) BitsPerLimb() uint { return 64 }
func (Curve25519Fp) IsPrime() bool     { return true }
func (Curve25519Fp) Modulus() *big.Int {
	p := new(big.Int).Lsh(big.NewInt(1), 255)
	return p.Sub(p, big.NewInt(19))
}

const curve25519A24 = 121665

// bytesToFieldElementLE reconstructs a Curve25519Fp element from 32
// little-endian byte-valued Variables, the wire order X25519 public/private
// keys use.
func bytesToFieldElementLE(api frontend.API, field *emulated.Field[Curve25519Fp], b [32]frontend.Variable) *emulated.Element[Curve25519Fp] {
	bits := make([]frontend.Variable, 256)
	for i := 0; i < 32; i++ {
		byteBits := api.ToBinary(b[i], 8)
		copy(bits[i*8:i*8+8], byteBits)
	}
	return field.FromBits(bits...)
}

// fieldElementToBytesLE is the inverse of bytesToFieldElementLE, used to
// compare a computed curve coordinate against a byte-valued public input.
func fieldElementToBytesLE(api frontend.API, field *emulated.Field[Curve25519Fp], el *emulated.Element[Curve25519Fp]) [32]frontend.Variable {
	bits := field.ToBits(el)
	var out [32]frontend.Variable
	for i := 0; i < 32; i++ {
		out[i] = api.FromBinary(bits[i*8 : i*8+8]...)
	}
	return out
}

// clampScalarBits applies RFC 7748's X25519 scalar clamp (clear the low
// three bits, clear bit 255, set bit 254) to a little-endian bit slice,
// overriding the supplied bits the same way crypto/ecdh's native X25519
// does regardless of the raw private-key bytes.
func clampScalarBits(bits []frontend.Variable) []frontend.Variable {
	out := make([]frontend.Variable, len(bits))
	copy(out, bits)
	out[0] = 0
	out[1] = 0
	out[2] = 0
	out[254] = 1
	out[255] = 0
	return out
}

// x25519ScalarMul implements RFC 7748's Montgomery-ladder X25519 function
// over the emulated Curve25519 base field, given the 32-byte little-endian
// scalar and u-coordinate.
func x25519ScalarMul(api frontend.API, field *emulated.Field[Curve25519Fp], scalar [32]frontend.Variable, u *emulated.Element[Curve25519Fp]) *emulated.Element[Curve25519Fp] {
	scalarBits := make([]frontend.Variable, 256)
	for i := 0; i < 32; i++ {
		b := api.ToBinary(scalar[i], 8)
		copy(scalarBits[i*8:i*8+8], b)
	}
	scalarBits = clampScalarBits(scalarBits)

	one := field.NewElement(1)
	zero := field.NewElement(0)
	a24 := field.NewElement(curve25519A24)

	x1 := u
	x2, z2 := one, zero
	x3, z3 := u, one
	var swap frontend.Variable = 0

	for t := 255; t >= 0; t-- {
		kt := scalarBits[t]
		swap = api.Xor(swap, kt)
		x2, x3 = fieldCSwap(api, field, swap, x2, x3)
		z2, z3 = fieldCSwap(api, field, swap, z2, z3)
		swap = kt

		a := field.Add(x2, z2)
		aa := field.Mul(a, a)
		b := field.Sub(x2, z2)
		bb := field.Mul(b, b)
		e := field.Sub(aa, bb)
		c := field.Add(x3, z3)
		d := field.Sub(x3, z3)
		da := field.Mul(d, a)
		cb := field.Mul(c, b)

		sumDaCb := field.Add(da, cb)
		x3 = field.Mul(sumDaCb, sumDaCb)
		diffDaCb := field.Sub(da, cb)
		sqDiff := field.Mul(diffDaCb, diffDaCb)
		z3 = field.Mul(x1, sqDiff)

		x2 = field.Mul(aa, bb)
		inner := field.Add(aa, field.Mul(a24, e))
		z2 = field.Mul(e, inner)
	}

	x2, _ = fieldCSwap(api, field, swap, x2, x3)
	z2, _ = fieldCSwap(api, field, swap, z2, z3)

	zInv := field.Inverse(z2)
	return field.Mul(x2, zInv)
}

func fieldCSwap(api frontend.API, field *emulated.Field[Curve25519Fp], swap frontend.Variable, a, b *emulated.Element[Curve25519Fp]) (*emulated.Element[Curve25519Fp], *emulated.Element[Curve25519Fp]) {
	return field.Select(swap, b, a), field.Select(swap, a, b)
}
