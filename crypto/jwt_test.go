package crypto

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTManager_GenerateAndVerify(t *testing.T) {
	t.Parallel()
	m := NewJWTManager("test-secret", time.Hour)

	token, err := m.Generate(Session{Id: "player-1", Name: "naruto"}, time.Now())
	require.NoError(t, err)
	require.NotEmpty(t, token)

	session, err := m.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "player-1", session.Id)
	assert.Equal(t, "naruto", session.Name)
}

func TestJWTManager_ExpiredToken(t *testing.T) {
	t.Parallel()
	m := NewJWTManager("test-secret", time.Minute)

	token, err := m.Generate(Session{Id: "player-1", Name: "naruto"}, time.Now().Add(-time.Hour))
	require.NoError(t, err)

	_, err = m.Verify(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestJWTManager_WrongKey(t *testing.T) {
	t.Parallel()
	m1 := NewJWTManager("key-one", time.Hour)
	m2 := NewJWTManager("key-two", time.Hour)

	token, err := m1.Generate(Session{Id: "player-1", Name: "naruto"}, time.Now())
	require.NoError(t, err)

	_, err = m2.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidTokenSignature)
}

func TestJWTManager_MalformedToken(t *testing.T) {
	t.Parallel()
	m := NewJWTManager("test-secret", time.Hour)

	_, err := m.Verify("this is not a token")
	assert.ErrorIs(t, err, ErrCorruptedToken)
}
