package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	provider := NewTokenProvider("test-secret", time.Hour)

	token, err := provider.CreateAccessToken(42)
	require.NoError(t, err)

	memberID, err := provider.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), memberID)
}

func TestValidateExpiredToken(t *testing.T) {
	provider := NewTokenProvider("test-secret", -time.Minute)

	token, err := provider.CreateAccessToken(42)
	require.NoError(t, err)

	_, err = provider.Validate(token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateWrongSecret(t *testing.T) {
	provider := NewTokenProvider("test-secret", time.Hour)
	other := NewTokenProvider("other-secret", time.Hour)

	token, err := provider.CreateAccessToken(42)
	require.NoError(t, err)

	_, err = other.Validate(token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateGarbage(t *testing.T) {
	provider := NewTokenProvider("test-secret", time.Hour)

	_, err := provider.Validate("not-a-token")
	require.ErrorIs(t, err, ErrInvalidToken)
}
