package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/rblog/rblog/internal/models"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token expired")
)

// Claims carries the session identity plus the role's permission bitmask,
// so capability checks on most requests skip a role lookup.
type Claims struct {
	UserID      uuid.UUID         `json:"user_id"`
	Email       string            `json:"email"`
	Username    string            `json:"username"`
	Permissions models.Permission `json:"permissions"`
	jwt.RegisteredClaims
}

func GenerateSessionToken(user *models.User, secretKey string, expiresIn time.Duration) (string, error) {
	now := time.Now()

	var perms models.Permission
	if user.Role != nil {
		perms = user.Role.Permissions
	}

	claims := &Claims{
		UserID:      user.ID,
		Email:       user.Email,
		Username:    user.Username,
		Permissions: perms,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(expiresIn)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	return token.SignedString([]byte(secretKey))
}

func ValidateSessionToken(tokenString, secretKey string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(
		tokenString,
		&Claims{},
		func(token *jwt.Token) (interface{}, error) {
			// Verify signing method
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, ErrInvalidToken
			}
			return []byte(secretKey), nil
		},
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
