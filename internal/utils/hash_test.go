package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword_Format(t *testing.T) {
	hash, err := HashPassword("SecurePass123")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(hash, "$argon2id$"))
	assert.Len(t, strings.Split(hash, "$"), 6)
}

func TestHashPassword_UniqueSalts(t *testing.T) {
	first, err := HashPassword("SecurePass123")
	require.NoError(t, err)
	second, err := HashPassword("SecurePass123")
	require.NoError(t, err)
	assert.NotEqual(t, first, second, "same password must hash differently per salt")
}

func TestVerifyPassword(t *testing.T) {
	hash, err := HashPassword("SecurePass123")
	require.NoError(t, err)

	ok, err := VerifyPassword("SecurePass123", hash)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = VerifyPassword("WrongPassword", hash)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestVerifyPassword_MalformedHash(t *testing.T) {
	_, err := VerifyPassword("whatever", "not-an-encoded-hash")
	assert.ErrorIs(t, err, ErrInvalidHash)
}
