package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestIssueAndParse verifies the identity claims survive a round trip.
func TestIssueAndParse(t *testing.T) {
	m := NewTokenManager("secret", time.Hour)

	tok, err := m.Issue("7c9e6679-7425-40de-944b-e07fc1f90ae7", "siti", "student")
	require.NoError(t, err)

	claims, err := m.Parse(tok)
	require.NoError(t, err)
	assert.Equal(t, "7c9e6679-7425-40de-944b-e07fc1f90ae7", claims.Subject)
	assert.Equal(t, "siti", claims.Username)
	assert.Equal(t, "student", claims.Role)
}

// TestParseRejectsExpiredAndForeignTokens verifies expiry and signature checks.
func TestParseRejectsExpiredAndForeignTokens(t *testing.T) {
	m := NewTokenManager("secret", time.Hour)
	tok, err := m.Issue("u1", "siti", "student")
	require.NoError(t, err)

	m.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = m.Parse(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)

	other := NewTokenManager("another-secret", time.Hour)
	_, err = other.Parse(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = m.Parse("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
