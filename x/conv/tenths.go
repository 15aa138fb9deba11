package conv

// Tenths writes a signed fixed-point value in tenths as "<int>.<frac>" with
// exactly one fractional digit, e.g. 215 -> "21.5", -5 -> "-0.5".
// buf should be length >= 12. Returns the used slice.
// No allocations; no fmt/strconv dependency.
func Tenths(buf []byte, t int32) []byte {
	if len(buf) < 4 {
		return buf[:0]
	}
	neg := t < 0
	var u uint64
	if neg {
		u = uint64(-int64(t))
	} else {
		u = uint64(t)
	}
	frac := byte('0' + u%10)
	whole := u / 10

	i := 0
	if neg {
		buf[i] = '-'
		i++
	}
	w := Utoa(buf[i:len(buf)-2], whole)
	// Utoa writes right-aligned; shift into place.
	copy(buf[i:], w)
	i += len(w)
	buf[i] = '.'
	buf[i+1] = frac
	return buf[:i+2]
}
