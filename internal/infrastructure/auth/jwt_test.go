package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/retailops/backend/internal/infrastructure/config"
)

func newTestService() *JWTService {
	return NewJWTService(config.JWTConfig{
		Secret:                "test-secret-key-for-jwt-signing-32ch",
		AccessTokenExpiration: 15 * time.Minute,
		Issuer:                "retailops-backend-test",
	})
}

func TestJWTService_GenerateAccessToken(t *testing.T) {
	svc := newTestService()

	token, err := svc.GenerateAccessToken(GenerateTokenInput{
		StoreID:  uuid.New(),
		UserID:   uuid.New(),
		Username: "clerk",
	})

	require.NoError(t, err)
	assert.NotEmpty(t, token.Token)
	assert.Equal(t, "Bearer", token.TokenType)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), token.ExpiresAt, 5*time.Second)
}

func TestJWTService_ValidateAccessToken(t *testing.T) {
	svc := newTestService()
	storeID := uuid.New()
	userID := uuid.New()

	token, err := svc.GenerateAccessToken(GenerateTokenInput{
		StoreID:  storeID,
		UserID:   userID,
		Username: "clerk",
	})
	require.NoError(t, err)

	claims, err := svc.ValidateAccessToken(token.Token)
	require.NoError(t, err)

	assert.Equal(t, storeID.String(), claims.StoreID)
	assert.Equal(t, userID.String(), claims.UserID)
	assert.Equal(t, "clerk", claims.Username)
	assert.Equal(t, "retailops-backend-test", claims.Issuer)
}

func TestJWTService_ValidateAccessToken_Invalid(t *testing.T) {
	svc := newTestService()

	t.Run("garbage token", func(t *testing.T) {
		_, err := svc.ValidateAccessToken("not-a-token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := NewJWTService(config.JWTConfig{
			Secret:                "another-secret-entirely-32-characters",
			AccessTokenExpiration: 15 * time.Minute,
			Issuer:                "retailops-backend-test",
		})
		token, err := other.GenerateAccessToken(GenerateTokenInput{
			StoreID:  uuid.New(),
			UserID:   uuid.New(),
			Username: "clerk",
		})
		require.NoError(t, err)

		_, err = svc.ValidateAccessToken(token.Token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired token", func(t *testing.T) {
		expired := NewJWTService(config.JWTConfig{
			Secret:                "test-secret-key-for-jwt-signing-32ch",
			AccessTokenExpiration: -1 * time.Minute,
			Issuer:                "retailops-backend-test",
		})
		token, err := expired.GenerateAccessToken(GenerateTokenInput{
			StoreID:  uuid.New(),
			UserID:   uuid.New(),
			Username: "clerk",
		})
		require.NoError(t, err)

		_, err = svc.ValidateAccessToken(token.Token)
		assert.ErrorIs(t, err, ErrExpiredToken)
	})

	t.Run("missing store ID", func(t *testing.T) {
		claims := &Claims{
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
				IssuedAt:  jwt.NewNumericDate(time.Now()),
			},
			UserID: uuid.New().String(),
		}
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
		signed, err := token.SignedString([]byte("test-secret-key-for-jwt-signing-32ch"))
		require.NoError(t, err)

		_, err = svc.ValidateAccessToken(signed)
		assert.ErrorIs(t, err, ErrMissingStoreID)
	})

	t.Run("missing user ID", func(t *testing.T) {
		claims := &Claims{
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
				IssuedAt:  jwt.NewNumericDate(time.Now()),
			},
			StoreID: uuid.New().String(),
		}
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
		signed, err := token.SignedString([]byte("test-secret-key-for-jwt-signing-32ch"))
		require.NoError(t, err)

		_, err = svc.ValidateAccessToken(signed)
		assert.ErrorIs(t, err, ErrMissingUserID)
	})
}
