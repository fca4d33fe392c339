package random

import (
	"crypto/rand"
	"encoding/hex"
)

// Random provides random value generation that can be mocked for testing
type Random interface {
	// Token returns a hex-encoded random string built from n bytes of entropy
	Token(n int) string
}

// CryptoRandom implements Random using crypto/rand
type CryptoRandom struct{}

// New creates a new CryptoRandom
func New() *CryptoRandom {
	return &CryptoRandom{}
}

// Token returns a hex-encoded random string built from n bytes of entropy
func (r *CryptoRandom) Token(n int) string {
	if n <= 0 {
		return ""
	}
	b := make([]byte, n)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}
