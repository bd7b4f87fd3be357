package core

// utoa converts an unsigned integer to its base-10 string without using
// the fmt package. Zero renders as "0"; there are no leading zeros.
func utoa(n uint32) string {
	var buf [10]byte // Maximum digits for 32-bit uint
	pos := len(buf)

	if n == 0 {
		pos--
		buf[pos] = '0'
		return string(buf[pos:])
	}

	// Build string from right to left
	for n > 0 {
		pos--
		buf[pos] = byte('0' + n%10)
		n /= 10
	}

	return string(buf[pos:])
}
