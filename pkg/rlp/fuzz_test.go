package rlp

import "testing"

func FuzzDecode(f *testing.F) {
	f.Add([]byte{0x80})
	f.Add([]byte{0xc0})
	f.Add([]byte{0x83, 'd', 'o', 'g'})
	f.Add([]byte{0x81, 0x00})
	f.Add([]byte{0xb8, 0x00})
	f.Add([]byte{0xf7})
	f.Add([]byte{})

	f.Fuzz(func(t *testing.T, data []byte) {
		v, err := DecodeBytes(data)
		if err != nil {
			return
		}
		// A successful decode must be re-derivable: walking the tree and
		// re-encoding leaves must not panic, regardless of how deeply nested
		// the fuzz input is.
		var walk func(Value) Item
		walk = func(val Value) Item {
			if !val.IsList() {
				return Bytes(val.Str)
			}
			items := make([]Item, 0, len(val.Item))
			for _, c := range val.Item {
				items = append(items, walk(c))
			}
			return List(items...)
		}
		_ = Encode(walk(v))
	})
}
