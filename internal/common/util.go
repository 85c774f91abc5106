// Package common contains small helpers shared across divelog components.
package common

// WipeByteArray zeroes the buffer in place. Use it to scrub passphrases
// and other secrets once they are no longer needed.
func WipeByteArray(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
