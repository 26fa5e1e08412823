package passwords

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerify_RoundTrip(t *testing.T) {
	hash, err := Hash("correct horse battery staple")
	require.NoError(t, err)

	assert.NoError(t, Verify("correct horse battery staple", hash))
	assert.ErrorIs(t, Verify("correct horse battery stapler", hash), ErrMismatch)
}

func TestHash_FormatAndUniqueness(t *testing.T) {
	h1, err := Hash("pw")
	require.NoError(t, err)
	h2, err := Hash("pw")
	require.NoError(t, err)

	assert.Len(t, strings.Split(h1, "$"), 3)
	assert.Contains(t, h1, "$100000$")
	assert.NotEqual(t, h1, h2, "salts must differ between hashes")
}

func TestVerify_MalformedHashes(t *testing.T) {
	tests := []struct {
		name   string
		stored string
	}{
		{"empty", ""},
		{"missing parts", "onlysalt"},
		{"two parts", "c2FsdA==$100000"},
		{"bad salt encoding", "!!$100000$aGFzaA=="},
		{"bad iteration count", "c2FsdA==$many$aGFzaA=="},
		{"negative iterations", "c2FsdA==$-1$aGFzaA=="},
		{"bad key encoding", "c2FsdA==$100000$!!"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, Verify("pw", tt.stored), ErrMalformedHash)
		})
	}
}
