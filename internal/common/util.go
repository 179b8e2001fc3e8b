package common

// WipeByteArray zeroes b in place. Used for password buffers read from the
// terminal once they are no longer needed.
func WipeByteArray(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
