// Package urlgen generates the random codes that identify short links.
package urlgen

import (
	"crypto/rand"
	"math/big"
	"strings"
)

// charset defines the character set used for generating short codes.
const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// shortURILength is the length of a generated short code.
const shortURILength = 6

// Generate creates a new short code.
func Generate() (string, error) {
	var sb strings.Builder
	sb.Grow(shortURILength)

	charsetLength := big.NewInt(int64(len(charset)))

	for i := 0; i < shortURILength; i++ {
		randomIndex, err := rand.Int(rand.Reader, charsetLength)
		if err != nil {
			return "", err
		}
		sb.WriteByte(charset[randomIndex.Int64()])
	}
	return sb.String(), nil
}

// GenerateUnique draws codes until taken reports a free one, giving up after
// attempts tries with ErrExhausted.
func GenerateUnique(attempts int, taken func(code string) bool) (string, error) {
	for i := 0; i < attempts; i++ {
		code, err := Generate()
		if err != nil {
			return "", err
		}
		if !taken(code) {
			return code, nil
		}
	}
	return "", ErrExhausted
}
