package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTokenService(t *testing.T) *TokenService {
	t.Helper()
	ts, err := NewTokenService("test-secret-at-least-16-chars!!")
	require.NoError(t, err)
	return ts
}

func TestNewTokenService_ShortSecret(t *testing.T) {
	_, err := NewTokenService("short")
	assert.Error(t, err, "secrets shorter than 16 chars must be rejected")
}

func TestGenerate(t *testing.T) {
	ts := newTestTokenService(t)

	token, err := ts.Generate("user-123")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	// header.payload.signature
	assert.Len(t, strings.Split(token, "."), 3, "token should have the three JWT segments")
}

func TestValidate_RoundTrip(t *testing.T) {
	ts := newTestTokenService(t)

	token, err := ts.Generate("user-abc-123")
	require.NoError(t, err)

	got, err := ts.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "user-abc-123", got)
}

func TestValidate_ExpiredToken(t *testing.T) {
	ts := newTestTokenService(t)

	token, err := ts.GenerateWithDuration("user-123", -1*time.Second)
	require.NoError(t, err)

	_, err = ts.Validate(token)
	assert.ErrorContains(t, err, "expired")
}

func TestValidate_TamperedToken(t *testing.T) {
	ts := newTestTokenService(t)

	token, err := ts.Generate("user-123")
	require.NoError(t, err)

	tampered := token[:len(token)-3] + "xxx"
	_, err = ts.Validate(tampered)
	assert.Error(t, err)
}

func TestValidate_WrongSecret(t *testing.T) {
	ts1, err := NewTokenService("correct-secret-32-chars-long!!!!")
	require.NoError(t, err)
	ts2, err := NewTokenService("wrong-secret-32-chars-long!!!!!!")
	require.NoError(t, err)

	token, err := ts1.Generate("user-123")
	require.NoError(t, err)

	_, err = ts2.Validate(token)
	assert.Error(t, err, "token signed with a different secret must not validate")
}

func TestValidate_Garbage(t *testing.T) {
	ts := newTestTokenService(t)

	for _, input := range []string{"", "not.a.jwt.token", "xxx"} {
		_, err := ts.Validate(input)
		assert.Error(t, err, "input %q should not validate", input)
	}
}
