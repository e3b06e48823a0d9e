package hexutil

import (
	"errors"
	"testing"
)

func TestAddressRoundTrip(t *testing.T) {
	want := "0xa1a1a1a1a1a1a1a1a1a1a1a1a1a1a1a1a1a1a1a1"
	addr, err := HexToAddress(want)
	if err != nil {
		t.Fatalf("HexToAddress: %v", err)
	}
	if got := addr.Hex(); got != want {
		t.Fatalf("Hex() = %s, want %s", got, want)
	}
}

func TestSetBytesPads(t *testing.T) {
	a := BytesToAddress([]byte{0x01, 0x02})
	want := Address{18: 0x01, 19: 0x02}
	if a != want {
		t.Fatalf("BytesToAddress short = %x, want %x", a, want)
	}
}

func TestSetBytesTruncates(t *testing.T) {
	long := make([]byte, 25)
	for i := range long {
		long[i] = byte(i)
	}
	a := BytesToAddress(long)
	if len(a) != AddressLength {
		t.Fatalf("len = %d", len(a))
	}
	if a[0] != long[5] {
		t.Fatalf("expected truncation from the left, got %x", a)
	}
}

func TestDecodeOddLengthRejected(t *testing.T) {
	_, err := Decode("0xabc")
	if !errors.Is(err, ErrOddLength) {
		t.Fatalf("Decode(\"0xabc\") error = %v, want ErrOddLength", err)
	}
}

func TestMustDecodeFixedRejectsWrongLength(t *testing.T) {
	if _, err := MustDecodeFixed("0x1234", 20); err == nil {
		t.Fatal("expected error for short input")
	}
}

func TestHexToAddressRejectsWrongLength(t *testing.T) {
	_, err := HexToAddress("0x1234")
	if !errors.Is(err, ErrInvalidAddress) {
		t.Fatalf("HexToAddress(\"0x1234\") error = %v, want ErrInvalidAddress", err)
	}
}

func TestIsZero(t *testing.T) {
	var h Hash
	if !h.IsZero() {
		t.Fatal("zero-value hash should report IsZero")
	}
	h[0] = 1
	if h.IsZero() {
		t.Fatal("non-zero hash reported IsZero")
	}
}
