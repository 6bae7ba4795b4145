package security_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"movieclub/internal/security"
)

func TestTokenRoundTrip(t *testing.T) {
	svc := security.NewTokenService("secret", time.Hour)

	token, err := svc.CreateForUser("alice")
	require.NoError(t, err)

	subject, err := svc.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "alice", subject)
}

func TestTokenRejectsWrongSecret(t *testing.T) {
	token, err := security.NewTokenService("secret", time.Hour).CreateForUser("alice")
	require.NoError(t, err)

	_, err = security.NewTokenService("other", time.Hour).Parse(token)
	assert.Error(t, err)
}

func TestTokenRejectsExpired(t *testing.T) {
	token, err := security.NewTokenService("secret", -time.Minute).CreateForUser("alice")
	require.NoError(t, err)

	_, err = security.NewTokenService("secret", time.Hour).Parse(token)
	assert.Error(t, err)
}
