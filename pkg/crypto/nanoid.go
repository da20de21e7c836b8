package crypto

import (
	"crypto/rand"
	"math"
)

// Nanoid generation for user and session ids. URL-safe alphabet, fixed
// size; 22 * 6 = 132 bits of entropy (a uuid carries 128).
const (
	idAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789_-"
	idSize     = 22
)

// idMask covers the 64-character alphabet exactly, so no random byte is
// ever rejected in the sampling loop below.
const idMask = len(idAlphabet) - 1

// NewID generates a random URL-safe identifier.
func NewID() (string, error) {
	step := int(math.Ceil(1.6 * float64(idMask*idSize) / float64(len(idAlphabet))))

	id := make([]byte, idSize)
	buffer := make([]byte, step)

	for position := 0; position < idSize; {
		if _, err := rand.Read(buffer); err != nil {
			return "", err
		}

		// Map random bytes to alphabet characters
		for i := 0; i < step && position < idSize; i++ {
			index := buffer[i] & byte(idMask)
			id[position] = idAlphabet[index]
			position++
		}
	}

	return string(id), nil
}
