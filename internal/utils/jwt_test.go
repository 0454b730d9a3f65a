package utils

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTRoundTrip(t *testing.T) {
	svc := NewJWTService("test-secret")
	userID := uuid.New()

	token, err := svc.GenerateToken(userID, "alice@utexas.edu")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	extracted, err := svc.ExtractUserID(token)
	require.NoError(t, err)
	assert.Equal(t, userID.String(), extracted)
}

func TestJWTRejectsWrongSecret(t *testing.T) {
	token, err := NewJWTService("secret-a").GenerateToken(uuid.New(), "alice@utexas.edu")
	require.NoError(t, err)

	_, err = NewJWTService("secret-b").ExtractUserID(token)
	assert.Error(t, err)
}
