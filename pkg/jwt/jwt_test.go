package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_RoundTrip(t *testing.T) {
	m := NewManager("secret", time.Hour)

	token, err := m.GenerateAccessToken("u-1", "ops@example.com", RoleAdmin)
	require.NoError(t, err)

	claims, err := m.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.UserID)
	assert.Equal(t, "ops@example.com", claims.Email)
	assert.Equal(t, RoleAdmin, claims.Role)
}

func TestManager_RejectsForeignSignature(t *testing.T) {
	token, err := NewManager("one", time.Hour).GenerateAccessToken("u-1", "", "")
	require.NoError(t, err)

	_, err = NewManager("two", time.Hour).ValidateAccessToken(token)
	assert.Error(t, err)
}

func TestManager_RejectsExpired(t *testing.T) {
	m := &Manager{secret: []byte("secret"), ttl: -time.Minute}
	token, err := m.GenerateAccessToken("u-1", "", "")
	require.NoError(t, err)

	_, err = m.ValidateAccessToken(token)
	assert.Error(t, err)
}
