package hybrid

import (
	"crypto/sha256"
	"encoding/binary"
)

// ConcatKDF implements the Concatenation Key Derivation Function of NIST
// SP 800-56A as profiled by RFC 7518 §4.6 for ECDH-ES: repeated SHA-256 over
// a round counter, the shared secret Z, and OtherInfo = AlgorithmID ||
// PartyUInfo || PartyVInfo || SuppPubInfo, each length-prefixed with a
// big-endian uint32, truncated to keyDataLenBits.
func ConcatKDF(z []byte, algID string, apu, apv []byte, keyDataLenBits int) []byte {
	otherInfo := concatKDFOtherInfo(algID, apu, apv, keyDataLenBits)
	keyLenBytes := (keyDataLenBits + 7) / 8

	out := make([]byte, 0, keyLenBytes)
	for counter := uint32(1); len(out) < keyLenBytes; counter++ {
		h := sha256.New()
		var counterBytes [4]byte
		binary.BigEndian.PutUint32(counterBytes[:], counter)
		h.Write(counterBytes[:])
		h.Write(z)
		h.Write(otherInfo)
		out = append(out, h.Sum(nil)...)
	}
	return out[:keyLenBytes]
}

func concatKDFOtherInfo(algID string, apu, apv []byte, keyDataLenBits int) []byte {
	var buf []byte
	buf = appendLenPrefixed(buf, []byte(algID))
	buf = appendLenPrefixed(buf, apu)
	buf = appendLenPrefixed(buf, apv)
	var suppPub [4]byte
	binary.BigEndian.PutUint32(suppPub[:], uint32(keyDataLenBits))
	buf = append(buf, suppPub[:]...)
	return buf
}

func appendLenPrefixed(buf, data []byte) []byte {
	var lenBytes [4]byte
	binary.BigEndian.PutUint32(lenBytes[:], uint32(len(data)))
	buf = append(buf, lenBytes[:]...)
	buf = append(buf, data...)
	return buf
}
