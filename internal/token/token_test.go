package token

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-for-token-testing"

func TestIssueVerify_RoundTrip(t *testing.T) {
	codec := NewCodec(testSecret)
	subject := uuid.New()

	signed, err := codec.Issue(PurposeConfirm, subject, nil, 1*time.Hour)
	require.NoError(t, err)
	assert.NotEmpty(t, signed)

	claims, err := codec.Verify(PurposeConfirm, signed)
	require.NoError(t, err)
	assert.Equal(t, subject, claims.SubjectID)
	assert.Equal(t, PurposeConfirm, claims.Purpose)
}

func TestIssueVerify_PayloadRoundTrip(t *testing.T) {
	codec := NewCodec(testSecret)
	subject := uuid.New()

	signed, err := codec.Issue(PurposeChangeEmail, subject,
		map[string]string{"new_email": "new@example.com"}, 30*time.Minute)
	require.NoError(t, err)

	claims, err := codec.Verify(PurposeChangeEmail, signed)
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", claims.Payload["new_email"])
}

func TestVerify_Expired(t *testing.T) {
	codec := NewCodec(testSecret)

	signed, err := codec.Issue(PurposeReset, uuid.New(), nil, -1*time.Minute)
	require.NoError(t, err)

	_, err = codec.Verify(PurposeReset, signed)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestVerify_TamperedToken(t *testing.T) {
	codec := NewCodec(testSecret)

	signed, err := codec.Issue(PurposeConfirm, uuid.New(), nil, 1*time.Hour)
	require.NoError(t, err)

	// Flip a character in the signature segment
	tampered := signed[:len(signed)-2] + "xx"
	_, err = codec.Verify(PurposeConfirm, tampered)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerify_WrongSecret(t *testing.T) {
	codec := NewCodec(testSecret)
	other := NewCodec("a-different-secret")

	signed, err := codec.Issue(PurposeConfirm, uuid.New(), nil, 1*time.Hour)
	require.NoError(t, err)

	_, err = other.Verify(PurposeConfirm, signed)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerify_PurposeMismatch(t *testing.T) {
	codec := NewCodec(testSecret)

	signed, err := codec.Issue(PurposeConfirm, uuid.New(), nil, 1*time.Hour)
	require.NoError(t, err)

	// A confirmation token must not pass as a reset token
	_, err = codec.Verify(PurposeReset, signed)
	assert.ErrorIs(t, err, ErrPurposeMismatch)
}

func TestVerifyFor_SubjectMismatch(t *testing.T) {
	codec := NewCodec(testSecret)

	signed, err := codec.Issue(PurposeConfirm, uuid.New(), nil, 1*time.Hour)
	require.NoError(t, err)

	_, err = codec.VerifyFor(PurposeConfirm, uuid.New(), signed)
	assert.ErrorIs(t, err, ErrSubjectMismatch)
}

func TestVerify_Garbage(t *testing.T) {
	codec := NewCodec(testSecret)

	for _, input := range []string{"", "not-a-token", strings.Repeat("a", 64)} {
		_, err := codec.Verify(PurposeConfirm, input)
		assert.ErrorIs(t, err, ErrInvalidToken, "input %q", input)
	}
}

// Two tokens for the same purpose and subject are both honored until their
// natural expiry. There is no revocation.
func TestIssue_NoRevocation(t *testing.T) {
	codec := NewCodec(testSecret)
	subject := uuid.New()

	first, err := codec.Issue(PurposeConfirm, subject, nil, 1*time.Hour)
	require.NoError(t, err)
	second, err := codec.Issue(PurposeConfirm, subject, nil, 1*time.Hour)
	require.NoError(t, err)

	_, err = codec.VerifyFor(PurposeConfirm, subject, first)
	assert.NoError(t, err)
	_, err = codec.VerifyFor(PurposeConfirm, subject, second)
	assert.NoError(t, err)
}
