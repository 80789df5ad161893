package common

// WipeByteArray overwrites b with zeros. Safe to call with nil.
func WipeByteArray(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
