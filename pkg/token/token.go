package token

import (
	"crypto/rand"
	"encoding/hex"
)

// AccessTokenBytes is the entropy of a ticket access token. The token is
// the only credential a purchaser holds, so 32 bytes (256 bits) keeps
// guessing and enumeration infeasible.
const AccessTokenBytes = 32

// New returns a hex-encoded token of n random bytes from crypto/rand.
func New(n int) (string, error) {
	byt := make([]byte, n)
	if _, err := rand.Read(byt); err != nil {
		return "", err
	}
	return hex.EncodeToString(byt), nil
}

// NewAccessToken returns a ticket access token.
func NewAccessToken() (string, error) {
	return New(AccessTokenBytes)
}
