package tasks_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	tasks "github.com/goliatone/go-tasks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTClaimsAccessors(t *testing.T) {
	issued := time.Now().Truncate(time.Second)
	expires := issued.Add(time.Hour)

	claims := &tasks.JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "42",
			IssuedAt:  jwt.NewNumericDate(issued),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
		UID: 42,
	}

	assert.Equal(t, "42", claims.Subject())
	assert.Equal(t, int64(42), claims.UserID())
	assert.True(t, claims.IssuedAt().Equal(issued))
	assert.True(t, claims.Expires().Equal(expires))
}

func TestJWTClaimsZeroTimes(t *testing.T) {
	claims := &tasks.JWTClaims{UID: 1}

	assert.True(t, claims.IssuedAt().IsZero())
	assert.True(t, claims.Expires().IsZero())
}

func TestSessionFromToken(t *testing.T) {
	provider := new(MockIdentityProvider)
	auther := tasks.NewAuthenticator(provider, newTestConfig())

	identity := &MockIdentity{}
	identity.On("ID").Return(int64(42))

	token, err := auther.TokenService().Generate(identity)
	require.NoError(t, err)

	session, err := auther.SessionFromToken(token)
	require.NoError(t, err)

	assert.Equal(t, int64(42), session.GetUserID())
	assert.Equal(t, "test-issuer", session.GetIssuer())
	assert.Equal(t, []string{"test-audience"}, session.GetAudience())
	require.NotNil(t, session.GetIssuedAt())
	require.NotNil(t, session.GetExpiration())
	assert.True(t, session.GetExpiration().After(*session.GetIssuedAt()))
}
