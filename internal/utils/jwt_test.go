package utils

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rblog/rblog/internal/models"
)

const (
	testSecret      = "test-secret-key-for-jwt-testing"
	testWrongSecret = "wrong-secret-key-for-jwt-testing"
)

func sessionUser(perms models.Permission) *models.User {
	return &models.User{
		ID:       uuid.New(),
		Username: "testuser",
		Email:    "test@example.com",
		Role:     &models.Role{Name: models.RoleNameUser, Permissions: perms},
	}
}

func TestGenerateSessionToken_RoundTrip(t *testing.T) {
	user := sessionUser(models.UserPermissions)

	signed, err := GenerateSessionToken(user, testSecret, 1*time.Hour)
	require.NoError(t, err)
	assert.NotEmpty(t, signed)

	claims, err := ValidateSessionToken(signed, testSecret)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, user.Username, claims.Username)
	assert.Equal(t, models.UserPermissions, claims.Permissions)
}

func TestGenerateSessionToken_NoRoleLoaded(t *testing.T) {
	user := &models.User{ID: uuid.New(), Username: "norole", Email: "n@example.com"}

	signed, err := GenerateSessionToken(user, testSecret, 1*time.Hour)
	require.NoError(t, err)

	claims, err := ValidateSessionToken(signed, testSecret)
	require.NoError(t, err)
	assert.Equal(t, models.Permission(0), claims.Permissions)
}

func TestValidateSessionToken_WrongSecret(t *testing.T) {
	signed, err := GenerateSessionToken(sessionUser(models.UserPermissions), testSecret, 1*time.Hour)
	require.NoError(t, err)

	_, err = ValidateSessionToken(signed, testWrongSecret)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateSessionToken_Expired(t *testing.T) {
	signed, err := GenerateSessionToken(sessionUser(models.UserPermissions), testSecret, -1*time.Hour)
	require.NoError(t, err)

	_, err = ValidateSessionToken(signed, testSecret)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestValidateSessionToken_Garbage(t *testing.T) {
	_, err := ValidateSessionToken("not.a.token", testSecret)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateSessionToken_Tampered(t *testing.T) {
	signed, err := GenerateSessionToken(sessionUser(models.UserPermissions), testSecret, 1*time.Hour)
	require.NoError(t, err)

	_, err = ValidateSessionToken(signed+"x", testSecret)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
