package circuit

import (
	"github.com/consensys/gnark/frontend"
	keccak "github.com/consensys/gnark/std/hash/sha3"
	"github.com/consensys/gnark/std/math/uints"
)

// keccak256 hashes a slice of byte-valued Variables and returns the 32-byte
// digest as Variables, each constrained to [0,255].
func keccak256(api frontend.API, data []frontend.Variable) ([32]frontend.Variable, error) {
	var out [32]frontend.Variable
	uapi, err := uints.New[uints.U32](api)
	if err != nil {
		return out, err
	}
	h, err := keccak.NewLegacyKeccak256(api)
	if err != nil {
		return out, err
	}
	in := make([]uints.U8, len(data))
	for i, v := range data {
		in[i] = uapi.ByteValueOf(v)
	}
	h.Write(in)
	sum := h.Sum()
	for i := 0; i < 32; i++ {
		out[i] = sum[i].Val
	}
	return out, nil
}

// assertBytesEqual asserts two equal-length byte-valued Variable slices match.
func assertBytesEqual(api frontend.API, a, b []frontend.Variable) {
	if len(a) != len(b) {
		panic("circuit: assertBytesEqual length mismatch")
	}
	for i := range a {
		api.AssertIsEqual(a[i], b[i])
	}
}
