package server

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/everwrite/essay-coach/internal/config"
)

func newTestJWTService() *JWTService {
	return NewJWTService(&config.JWTConfig{
		Secret:          "unit-test-secret",
		ExpirationHours: 1,
	})
}

func TestGenerateAndValidateToken(t *testing.T) {
	svc := newTestJWTService()
	userID := uuid.New()

	token, err := svc.GenerateToken(userID)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.GetUserID())
}

func TestValidateTokenEmpty(t *testing.T) {
	svc := newTestJWTService()

	_, err := svc.ValidateToken("")
	assert.Error(t, err)
}

func TestValidateTokenWrongSecret(t *testing.T) {
	other := NewJWTService(&config.JWTConfig{Secret: "different-secret", ExpirationHours: 1})
	token, err := other.GenerateToken(uuid.New())
	require.NoError(t, err)

	svc := newTestJWTService()
	_, err = svc.ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateTokenExpired(t *testing.T) {
	now := time.Now().Add(-2 * time.Hour)
	claims := &Claims{
		UserID: uuid.New(),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte("unit-test-secret"))
	require.NoError(t, err)

	svc := newTestJWTService()
	_, err = svc.ValidateToken(signed)
	assert.Error(t, err)
}

func TestValidateTokenMalformed(t *testing.T) {
	svc := newTestJWTService()
	_, err := svc.ValidateToken("not.a.token")
	assert.Error(t, err)
}
