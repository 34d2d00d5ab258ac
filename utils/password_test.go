package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPasswordRoundTrip(t *testing.T) {
	hash, err := HashPassword("secret1")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(hash, "$argon2id$"))
	assert.NotContains(t, hash, "secret1")

	assert.True(t, CheckPasswordHash("secret1", hash))
	assert.False(t, CheckPasswordHash("secret2", hash))
	assert.False(t, CheckPasswordHash("", hash))
}

func TestHashPasswordSaltsDiffer(t *testing.T) {
	h1, err := HashPassword("secret1")
	require.NoError(t, err)
	h2, err := HashPassword("secret1")
	require.NoError(t, err)
	assert.NotEqual(t, h1, h2)
	assert.True(t, CheckPasswordHash("secret1", h1))
	assert.True(t, CheckPasswordHash("secret1", h2))
}

func TestCheckPasswordHashMalformed(t *testing.T) {
	for _, bad := range []string{"", "plaintext", "$argon2id$v=19$broken", "$bcrypt$whatever$x$y$z"} {
		assert.False(t, CheckPasswordHash("secret1", bad), "input %q", bad)
	}
}
