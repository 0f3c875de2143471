// Package token signs and verifies the short-lived, purpose-tagged claims
// used by the confirmation, password-reset and email-change flows. Tokens are
// stateless: nothing is stored server-side and there is no revocation, so a
// superseded token stays valid until its natural expiry.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type Purpose string

const (
	PurposeConfirm     Purpose = "confirm"
	PurposeReset       Purpose = "reset"
	PurposeChangeEmail Purpose = "change_email"
)

var (
	ErrInvalidToken    = errors.New("invalid token")
	ErrExpiredToken    = errors.New("token expired")
	ErrPurposeMismatch = errors.New("token purpose mismatch")
	ErrSubjectMismatch = errors.New("token subject mismatch")
)

// Claims is the decoded payload of a verified token.
type Claims struct {
	Purpose   Purpose           `json:"purpose"`
	SubjectID uuid.UUID         `json:"subject_id"`
	Payload   map[string]string `json:"payload,omitempty"`
	jwt.RegisteredClaims
}

// Codec issues and verifies HS256-signed claims with a shared secret.
type Codec struct {
	secret []byte
}

func NewCodec(secret string) *Codec {
	return &Codec{secret: []byte(secret)}
}

// Issue produces an opaque signed string binding purpose and subject, with
// an optional payload and an embedded expiry.
func (c *Codec) Issue(purpose Purpose, subjectID uuid.UUID, payload map[string]string, ttl time.Duration) (string, error) {
	now := time.Now()

	claims := &Claims{
		Purpose:   purpose,
		SubjectID: subjectID,
		Payload:   payload,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
}

// Verify checks signature, expiry and purpose. Callers treat every failure
// as one "invalid or expired" condition toward the end user; the distinct
// errors exist for logging and tests.
func (c *Codec) Verify(purpose Purpose, tokenString string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(
		tokenString,
		&Claims{},
		func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, ErrInvalidToken
			}
			return c.secret, nil
		},
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Purpose != purpose {
		return nil, ErrPurposeMismatch
	}

	return claims, nil
}

// VerifyFor additionally pins the claim to an expected subject, for flows
// where the acting user is already known (confirm, change email).
func (c *Codec) VerifyFor(purpose Purpose, subjectID uuid.UUID, tokenString string) (*Claims, error) {
	claims, err := c.Verify(purpose, tokenString)
	if err != nil {
		return nil, err
	}
	if claims.SubjectID != subjectID {
		return nil, ErrSubjectMismatch
	}
	return claims, nil
}
