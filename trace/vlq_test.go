package trace

import (
	"errors"
	"testing"
)

func TestVLQIntRoundTrip(t *testing.T) {
	values := []int32{
		0, 1, -1, 31, -32, -33, 95, 96,
		127, -127, 128, 255, -255,
		1000, -1000, 65535, -65535,
		3<<12 - 1, 3 << 12, 3<<19 - 1, 3 << 19,
		3<<26 - 1, 3 << 26, 1<<31 - 1, -(1 << 31),
	}

	for _, want := range values {
		encoded := appendVLQInt(nil, want)
		got, rest, err := vlqInt(encoded)
		if err != nil {
			t.Errorf("decoding %d (% x) failed: %v", want, encoded, err)
			continue
		}
		if got != want {
			t.Errorf("round trip of %d produced %d (encoded % x)", want, got, encoded)
		}
		if len(rest) != 0 {
			t.Errorf("decoding %d left %d bytes unconsumed", want, len(rest))
		}
	}
}

func TestVLQUintRoundTrip(t *testing.T) {
	values := []uint32{0, 1, 95, 96, 127, 128, 255, 1000, 65535, 1 << 20, 1<<32 - 1}

	for _, want := range values {
		encoded := appendVLQUint(nil, want)
		got, rest, err := vlqUint(encoded)
		if err != nil {
			t.Errorf("decoding %d (% x) failed: %v", want, encoded, err)
			continue
		}
		if got != want {
			t.Errorf("round trip of %d produced %d (encoded % x)", want, got, encoded)
		}
		if len(rest) != 0 {
			t.Errorf("decoding %d left %d bytes unconsumed", want, len(rest))
		}
	}
}

func TestVLQSmallValuesStaySingleByte(t *testing.T) {
	for v := int32(-32); v < 96; v++ {
		if n := len(appendVLQInt(nil, v)); n != 1 {
			t.Errorf("%d encoded to %d bytes, want 1", v, n)
		}
	}
	if n := len(appendVLQInt(nil, 96)); n != 2 {
		t.Errorf("96 encoded to %d bytes, want 2", n)
	}
	if n := len(appendVLQInt(nil, -33)); n != 2 {
		t.Errorf("-33 encoded to %d bytes, want 2", n)
	}
}

func TestVLQStringRoundTrip(t *testing.T) {
	values := []string{"", "a", "tickhook", "worker/core-1"}

	for _, want := range values {
		encoded := appendVLQString(nil, want)
		got, rest, err := vlqString(encoded)
		if err != nil {
			t.Errorf("decoding %q failed: %v", want, err)
			continue
		}
		if got != want {
			t.Errorf("round trip of %q produced %q", want, got)
		}
		if len(rest) != 0 {
			t.Errorf("decoding %q left %d bytes unconsumed", want, len(rest))
		}
	}
}

func TestVLQTruncated(t *testing.T) {
	cases := [][]byte{
		nil,
		{0x80},
		{0xff, 0x80},
	}
	for _, data := range cases {
		if _, _, err := vlqInt(data); !errors.Is(err, errShortVLQ) {
			t.Errorf("vlqInt(% x) error = %v, want errShortVLQ", data, err)
		}
	}

	// Length prefix promising more bytes than remain.
	short := appendVLQUint(nil, 10)
	short = append(short, 'a', 'b')
	if _, _, err := vlqString(short); !errors.Is(err, errShortVLQ) {
		t.Errorf("vlqString(% x) error = %v, want errShortVLQ", short, err)
	}
}
