package trace

import "errors"

var errShortVLQ = errors.New("trace: truncated VLQ field")

// The variable-length quantity format packs 7 bits per byte with the
// high bit marking continuation, most significant group first. Signed
// values ride the same format through sign extension of the first
// group, the convention firmware serial links use.

func appendVLQInt(dst []byte, v int32) []byte {
	if !(-(1<<26) <= v && v < 3<<26) {
		dst = append(dst, byte(v>>28)&0x7f|0x80)
	}
	if !(-(1<<19) <= v && v < 3<<19) {
		dst = append(dst, byte(v>>21)&0x7f|0x80)
	}
	if !(-(1<<12) <= v && v < 3<<12) {
		dst = append(dst, byte(v>>14)&0x7f|0x80)
	}
	if !(-(1<<5) <= v && v < 3<<5) {
		dst = append(dst, byte(v>>7)&0x7f|0x80)
	}
	return append(dst, byte(v)&0x7f)
}

func appendVLQUint(dst []byte, v uint32) []byte {
	return appendVLQInt(dst, int32(v))
}

func appendVLQString(dst []byte, s string) []byte {
	dst = appendVLQUint(dst, uint32(len(s)))
	return append(dst, s...)
}

func vlqInt(data []byte) (int32, []byte, error) {
	if len(data) == 0 {
		return 0, data, errShortVLQ
	}
	c := uint32(data[0])
	data = data[1:]

	v := c & 0x7f
	// Both sign bits set in the first group means a negative value.
	if c&0x60 == 0x60 {
		v |= ^uint32(0x1f)
	}
	for c&0x80 != 0 {
		if len(data) == 0 {
			return 0, data, errShortVLQ
		}
		c = uint32(data[0])
		data = data[1:]
		v = v<<7 | c&0x7f
	}
	return int32(v), data, nil
}

func vlqUint(data []byte) (uint32, []byte, error) {
	v, rest, err := vlqInt(data)
	return uint32(v), rest, err
}

func vlqString(data []byte) (string, []byte, error) {
	n, rest, err := vlqUint(data)
	if err != nil {
		return "", data, err
	}
	if uint64(n) > uint64(len(rest)) {
		return "", data, errShortVLQ
	}
	return string(rest[:n]), rest[n:], nil
}
