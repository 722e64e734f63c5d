package token_test

import (
	"encoding/hex"
	"testing"

	"event-reservations/pkg/token"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAccessToken(t *testing.T) {
	tok, err := token.NewAccessToken()
	require.NoError(t, err)

	assert.Len(t, tok, token.AccessTokenBytes*2)
	_, err = hex.DecodeString(tok)
	assert.NoError(t, err, "token should be hex")
}

func TestNewAccessToken_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		tok, err := token.NewAccessToken()
		require.NoError(t, err)
		assert.False(t, seen[tok], "duplicate token generated")
		seen[tok] = true
	}
}
