package circuit

import (
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/std/hash/sha2"
	"github.com/consensys/gnark/std/math/uints"
)

// concatKDFOtherInfoBytes is the fixed OtherInfo = AlgorithmID("ECDH-ES+A128KW")
// || PartyUInfo(empty) || PartyVInfo(empty) || SuppPubInfo(128, big-endian
// uint32), each length-prefixed with a big-endian uint32, matching
// hybrid.concatKDFOtherInfo for this system's fixed algorithm and key
// length. Computed once at circuit-build time since every recipient uses
// the same algorithm ID and key length.
var concatKDFOtherInfoBytes = buildConcatKDFOtherInfo()

func buildConcatKDFOtherInfo() []frontend.Variable {
	algID := []byte("ECDH-ES+A128KW")
	var buf []byte
	appendLenPrefixed := func(b, data []byte) []byte {
		n := len(data)
		b = append(b, byte(n>>24), byte(n>>16), byte(n>>8), byte(n))
		return append(b, data...)
	}
	buf = appendLenPrefixed(buf, algID)
	buf = appendLenPrefixed(buf, nil)
	buf = appendLenPrefixed(buf, nil)
	buf = append(buf, 0, 0, 0, 128)

	out := make([]frontend.Variable, len(buf))
	for i, b := range buf {
		out[i] = frontend.Variable(b)
	}
	return out
}

// concatKDF128 derives the 16-byte ECDH-ES+A128KW key-wrapping key from the
// 32-byte shared secret z, per RFC 7518 §4.6: SHA-256(counter=1 || z ||
// OtherInfo), truncated to 128 bits. One round suffices since SHA-256's
// 256-bit output already covers the requested 128 bits.
func concatKDF128(api frontend.API, z [32]frontend.Variable) [16]frontend.Variable {
	uapi, err := uints.New[uints.U32](api)
	if err != nil {
		panic(err)
	}
	h, err := sha2.New(api)
	if err != nil {
		panic(err)
	}

	counter := []frontend.Variable{0, 0, 0, 1}
	var in []frontend.Variable
	in = append(in, counter...)
	in = append(in, z[:]...)
	in = append(in, concatKDFOtherInfoBytes...)

	u8s := make([]uints.U8, len(in))
	for i, v := range in {
		u8s[i] = uapi.ByteValueOf(v)
	}
	h.Write(u8s)
	sum := h.Sum()

	var out [16]frontend.Variable
	for i := 0; i < 16; i++ {
		out[i] = sum[i].Val
	}
	return out
}
