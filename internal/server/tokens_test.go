package server

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jonathan/career-hub/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTokenService(secret string) *SessionTokenService {
	return NewSessionTokenService(&config.SessionTokenConfig{Secret: secret, ExpirationHours: 2})
}

func TestSessionTokenService_RoundTrip(t *testing.T) {
	svc := newTokenService("secret")
	sessionID := uuid.New()

	token, expiresAt, err := svc.GenerateToken(sessionID)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(2*time.Hour), expiresAt, time.Minute)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, sessionID, claims.GetSessionID())
	assert.Equal(t, sessionID.String(), claims.Subject)
	assert.Equal(t, tokenIssuer, claims.Issuer)

	getter, err := svc.AsTokenValidator().ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, sessionID, getter.GetSessionID())
}

func TestSessionTokenService_WrongSecret(t *testing.T) {
	token, _, err := newTokenService("one").GenerateToken(uuid.New())
	require.NoError(t, err)

	_, err = newTokenService("two").ValidateToken(token)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid token signature")
}

func TestSessionTokenService_Expired(t *testing.T) {
	svc := newTokenService("secret")
	issued := time.Now().Add(-3 * time.Hour)
	svc.now = func() time.Time { return issued }
	token, _, err := svc.GenerateToken(uuid.New())
	require.NoError(t, err)

	svc.now = time.Now
	_, err = svc.ValidateToken(token)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "token expired")
}

func TestSessionTokenService_Malformed(t *testing.T) {
	svc := newTokenService("secret")

	_, err := svc.ValidateToken("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "token string is empty")

	_, err = svc.ValidateToken("not.a.jwt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "malformed token")
}

func TestSessionTokenService_RejectsOtherIssuer(t *testing.T) {
	claims := &Claims{
		SessionID: uuid.New(),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "someone-else",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = newTokenService("secret").ValidateToken(token)
	require.Error(t, err)
}

func TestSessionTokenService_RejectsNoneAlgorithm(t *testing.T) {
	claims := &Claims{
		SessionID:        uuid.New(),
		RegisteredClaims: jwt.RegisteredClaims{Issuer: tokenIssuer},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = newTokenService("secret").ValidateToken(token)
	require.Error(t, err)
}
