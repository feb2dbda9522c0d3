// Package keygen generates cryptographically secure opaque identifiers for
// hosted zones and change records. Keys consist of uppercase letters and
// digits, mirroring the identifier style of the emulated protocol.
package keygen

import (
	"crypto/rand"
)

const (
	// KeyLen is the length of a generated zone or change key.
	KeyLen = 14
)

// keyChars is the set of characters allowed in a generated key.
var keyChars = []byte("ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789")

// New returns a new random key of the standard length.
func New() string {
	return NewLen(KeyLen)
}

// NewLen returns a new random key of the provided length.
func NewLen(length int) string {
	if length <= 0 {
		return ""
	}

	clen := len(keyChars)
	// Reject bytes above maxRb to avoid modulo bias.
	maxRb := 255 - (256 % clen)

	out := make([]byte, length)
	buf := make([]byte, length*2)

	var i int

	for {
		if _, err := rand.Read(buf); err != nil {
			panic("keygen: error reading random bytes: " + err.Error())
		}

		for _, rb := range buf {
			if int(rb) > maxRb {
				continue
			}

			out[i] = keyChars[int(rb)%clen]
			i++

			if i == length {
				return string(out)
			}
		}
	}
}
