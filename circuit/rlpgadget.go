package circuit

import (
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/std/math/cmp"
)

// maxDataLen bounds the in-circuit RLP parser to the short-string form of
// the SafeTx data field (length prefix 0x80+L, no multi-byte length byte).
// The nine-field payload always carries three 20-byte addresses, so its
// outer RLP wrapping always takes the two-byte long-form list header
// (0xf8, totalLen); that header is asserted rather than branched on.
const maxDataLen = 55

// readByteAt returns buf[offset] through a one-hot selection network, since
// offset is only known at proving time.
func readByteAt(api frontend.API, buf []frontend.Variable, offset frontend.Variable) frontend.Variable {
	var out frontend.Variable = 0
	for i, b := range buf {
		eq := api.IsZero(api.Sub(offset, i))
		out = api.Select(eq, b, out)
	}
	return out
}

// extractWindow returns length bytes of buf starting at a dynamic offset.
func extractWindow(api frontend.API, buf []frontend.Variable, offset frontend.Variable, length int) []frontend.Variable {
	out := make([]frontend.Variable, length)
	for i := 0; i < length; i++ {
		out[i] = readByteAt(api, buf, api.Add(offset, i))
	}
	return out
}

// rightAlignWord packs a big-endian minimal byte sequence, content[0] most
// significant, into a 32-byte EIP-712 word with the value right-aligned,
// mirroring safetx.u256ToWord / safetx.operationToWord.
func rightAlignWord(api frontend.API, content []frontend.Variable, contentLen frontend.Variable) [32]frontend.Variable {
	var word [32]frontend.Variable
	for pos := 0; pos < 32; pos++ {
		var val frontend.Variable = 0
		for l := 0; l <= len(content); l++ {
			start := 32 - l
			if pos < start || pos-start >= len(content) {
				continue
			}
			idx := pos - start
			isLen := api.IsZero(api.Sub(contentLen, l))
			val = api.Select(isLen, content[idx], val)
		}
		word[pos] = val
	}
	return word
}

// readShortStringItem decodes one RLP string item bounded to maxLen bytes
// of content, at a dynamic offset into buf, mirroring pkg/rlp/encode.go's
// encodeString in reverse: a single byte below 0x80 is the item itself;
// otherwise the byte is a 0x80+length prefix followed by that many content
// bytes. Returns the content left-packed into a maxLen buffer, its dynamic
// length, and the item's total on-wire length (prefix plus content) so the
// caller can advance past it.
func readShortStringItem(api frontend.API, buf []frontend.Variable, offset frontend.Variable, maxLen int) (content []frontend.Variable, contentLen frontend.Variable, itemLen frontend.Variable) {
	prefixByte := readByteAt(api, buf, offset)
	isRaw := cmp.IsLess(api, prefixByte, 128)
	lenIfPrefixed := api.Sub(prefixByte, 128)

	window := extractWindow(api, buf, api.Add(offset, 1), maxLen)
	content = make([]frontend.Variable, maxLen)
	for i := 0; i < maxLen; i++ {
		if i == 0 {
			content[i] = api.Select(isRaw, prefixByte, window[i])
		} else {
			content[i] = api.Select(isRaw, frontend.Variable(0), window[i])
		}
	}

	contentLen = api.Select(isRaw, frontend.Variable(1), lenIfPrefixed)
	itemLen = api.Select(isRaw, frontend.Variable(1), api.Add(lenIfPrefixed, 1))
	return content, contentLen, itemLen
}

// readAddressItem decodes one RLP string item known to be exactly the
// 20-byte address form (fixed prefix 0x94, no dynamic length arithmetic).
func readAddressItem(api frontend.API, buf []frontend.Variable, offset frontend.Variable) (addr [20]frontend.Variable, itemLen frontend.Variable) {
	prefixByte := readByteAt(api, buf, offset)
	api.AssertIsEqual(prefixByte, 0x94)
	window := extractWindow(api, buf, api.Add(offset, 1), 20)
	copy(addr[:], window)
	return addr, frontend.Variable(21)
}

// keccak256Dynamic hashes the first contentLen bytes of content (content
// padded to maxLen) by computing the digest for every possible length and
// selecting the one matching contentLen. Keccak's sponge has no native
// variable-length absorption, so this bounded enumerate-and-select is the
// straightforward way to hash a length bounded, but not length fixed,
// buffer inside the circuit.
func keccak256Dynamic(api frontend.API, content []frontend.Variable, contentLen frontend.Variable, maxLen int) ([32]frontend.Variable, error) {
	candidates := make([][32]frontend.Variable, maxLen+1)
	for l := 0; l <= maxLen; l++ {
		h, err := keccak256(api, content[:l])
		if err != nil {
			return [32]frontend.Variable{}, err
		}
		candidates[l] = h
	}
	var out [32]frontend.Variable
	for i := 0; i < 32; i++ {
		var v frontend.Variable = 0
		for l := 0; l <= maxLen; l++ {
			eq := api.IsZero(api.Sub(contentLen, l))
			v = api.Select(eq, candidates[l][i], v)
		}
		out[i] = v
	}
	return out, nil
}

// decodedTransaction holds the nine SafeTx fields recovered from the RLP
// bytes of the private transaction witness.
type decodedTransaction struct {
	toWord             [32]frontend.Variable
	valueWord          [32]frontend.Variable
	dataHash           [32]frontend.Variable
	operationWord      [32]frontend.Variable
	safeTxGasWord      [32]frontend.Variable
	baseGasWord        [32]frontend.Variable
	gasPriceWord       [32]frontend.Variable
	gasTokenWord       [32]frontend.Variable
	refundReceiverWord [32]frontend.Variable
}

// decodeTransaction parses buf as the nine-field RLP list safetx.Encode
// produces (to, value, data, operation, safeTxGas, baseGas, gasPrice,
// gasToken, refundReceiver) and returns the EIP-712 words/hash each field
// contributes to the struct hash.
func decodeTransaction(api frontend.API, buf []frontend.Variable) (decodedTransaction, error) {
	api.AssertIsEqual(readByteAt(api, buf, 0), 0xf8)
	offset := frontend.Variable(2)

	var d decodedTransaction

	toAddr, n := readAddressItem(api, buf, offset)
	d.toWord = addressWord(toAddr)
	offset = api.Add(offset, n)

	valueContent, valueLen, n2 := readShortStringItem(api, buf, offset, 32)
	d.valueWord = rightAlignWord(api, valueContent, valueLen)
	offset = api.Add(offset, n2)

	dataContent, dataLen, n3 := readShortStringItem(api, buf, offset, maxDataLen)
	dataHash, err := keccak256Dynamic(api, dataContent, dataLen, maxDataLen)
	if err != nil {
		return decodedTransaction{}, err
	}
	d.dataHash = dataHash
	offset = api.Add(offset, n3)

	opContent, opLen, n4 := readShortStringItem(api, buf, offset, 1)
	opValid := api.Or(
		api.IsZero(opLen),
		api.And(api.IsZero(api.Sub(opLen, 1)), api.IsZero(api.Sub(opContent[0], 1))),
	)
	api.AssertIsEqual(opValid, 1)
	d.operationWord = rightAlignWord(api, opContent, opLen)
	offset = api.Add(offset, n4)

	safeTxGasContent, safeTxGasLen, n5 := readShortStringItem(api, buf, offset, 32)
	d.safeTxGasWord = rightAlignWord(api, safeTxGasContent, safeTxGasLen)
	offset = api.Add(offset, n5)

	baseGasContent, baseGasLen, n6 := readShortStringItem(api, buf, offset, 32)
	d.baseGasWord = rightAlignWord(api, baseGasContent, baseGasLen)
	offset = api.Add(offset, n6)

	gasPriceContent, gasPriceLen, n7 := readShortStringItem(api, buf, offset, 32)
	d.gasPriceWord = rightAlignWord(api, gasPriceContent, gasPriceLen)
	offset = api.Add(offset, n7)

	gasTokenAddr, n8 := readAddressItem(api, buf, offset)
	d.gasTokenWord = addressWord(gasTokenAddr)
	offset = api.Add(offset, n8)

	refundAddr, n9 := readAddressItem(api, buf, offset)
	d.refundReceiverWord = addressWord(refundAddr)
	offset = api.Add(offset, n9)

	return d, nil
}

// addressWord left-pads a 20-byte address into a 32-byte EIP-712 word,
// mirroring safetx.addressToWord.
func addressWord(addr [20]frontend.Variable) [32]frontend.Variable {
	var word [32]frontend.Variable
	for i := 0; i < 12; i++ {
		word[i] = 0
	}
	copy(word[12:], addr[:])
	return word
}
