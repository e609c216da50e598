// Package conv holds allocation-light numeric formatting for display lines.
// No fmt/strconv dependency so MCU builds stay small.
package conv

// AppendInt appends the base-10 representation of n to buf.
func AppendInt(buf []byte, n int64) []byte {
	if n < 0 {
		buf = append(buf, '-')
		n = -n
	}
	return appendUint(buf, uint64(n))
}

func appendUint(buf []byte, u uint64) []byte {
	if u == 0 {
		return append(buf, '0')
	}
	var tmp [20]byte
	i := len(tmp)
	for u > 0 {
		i--
		tmp[i] = byte('0' + u%10)
		u /= 10
	}
	return append(buf, tmp[i:]...)
}

// AppendDeci appends a fixed-point value expressed in tenths, e.g.
// 253 -> "25.3", -7 -> "-0.7".
func AppendDeci(buf []byte, deci int64) []byte {
	if deci < 0 {
		buf = append(buf, '-')
		deci = -deci
	}
	buf = appendUint(buf, uint64(deci/10))
	buf = append(buf, '.')
	return append(buf, byte('0'+deci%10))
}

// Deci rounds a float to tenths. NaN handling is the caller's concern.
func Deci(v float32) int64 {
	if v < 0 {
		return -int64(-v*10 + 0.5)
	}
	return int64(v*10 + 0.5)
}
