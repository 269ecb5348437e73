package auth

import (
	"testing"
	"time"

	"gatehouse/config"
	"gatehouse/internal/domain/entity"
	"gatehouse/internal/domain/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestConfig() *config.Config {
	cfg := &config.Config{
		SecretKey: "test_secret_key_very_long_for_testing",
	}

	return cfg
}

func TestJWTService_IssueAndVerify(t *testing.T) {
	tokenService, err := NewJWTService(newTestConfig())
	require.NoError(t, err)
	require.NotNil(t, tokenService)

	userID := uuid.New()

	tokenString, err := tokenService.Issue(userID, entity.RoleAdmin)
	assert.NoError(t, err)
	assert.NotEmpty(t, tokenString)

	claims, err := tokenService.Verify(tokenString)
	assert.NoError(t, err)
	require.NotNil(t, claims)
	assert.Equal(t, userID.String(), claims.Subject)
	assert.Equal(t, entity.RoleAdmin.String(), claims.Role)

	parsedID, err := claims.UserID()
	assert.NoError(t, err)
	assert.Equal(t, userID, parsedID)
}

func TestJWTService_InvalidToken(t *testing.T) {
	tokenService, err := NewJWTService(newTestConfig())
	require.NoError(t, err)

	claims, err := tokenService.Verify("clearly-not-a-jwt-token-format")
	assert.Nil(t, claims)
	assert.ErrorIs(t, err, service.ErrInvalidToken)
}

func TestJWTService_TamperedToken(t *testing.T) {
	tokenService, err := NewJWTService(newTestConfig())
	require.NoError(t, err)

	tokenString, err := tokenService.Issue(uuid.New(), entity.RoleUser)
	require.NoError(t, err)

	// Flipping a byte of a valid token must break verification. The final
	// character is skipped because its low bits fall into base64 padding.
	for _, idx := range []int{0, len(tokenString) / 2, len(tokenString) - 2} {
		tampered := []byte(tokenString)
		tampered[idx] ^= 0x01

		claims, err := tokenService.Verify(string(tampered))
		assert.Nil(t, claims, "byte %d", idx)
		assert.ErrorIs(t, err, service.ErrInvalidToken, "byte %d", idx)
	}
}

func TestJWTService_WrongSecret(t *testing.T) {
	issuer, err := NewJWTService(newTestConfig())
	require.NoError(t, err)

	verifier, err := NewJWTService(&config.Config{SecretKey: "a_different_secret_entirely"})
	require.NoError(t, err)

	tokenString, err := issuer.Issue(uuid.New(), entity.RoleUser)
	require.NoError(t, err)

	claims, err := verifier.Verify(tokenString)
	assert.Nil(t, claims)
	assert.ErrorIs(t, err, service.ErrInvalidToken)
}

func TestJWTService_ExpiredToken(t *testing.T) {
	issuedAt := time.Date(2026, 1, 2, 12, 0, 0, 0, time.UTC)

	svc := &jwtService{
		secret: "test_secret_key_very_long_for_testing",
		ttl:    24 * time.Hour,
		now:    func() time.Time { return issuedAt },
	}

	tokenString, err := svc.Issue(uuid.New(), entity.RoleUser)
	require.NoError(t, err)

	// Still valid just before the deadline.
	svc.now = func() time.Time { return issuedAt.Add(24*time.Hour - time.Minute) }
	_, err = svc.Verify(tokenString)
	assert.NoError(t, err)

	// Invalid just past it, with the same error as any other failure.
	svc.now = func() time.Time { return issuedAt.Add(24*time.Hour + time.Second) }
	claims, err := svc.Verify(tokenString)
	assert.Nil(t, claims)
	assert.ErrorIs(t, err, service.ErrInvalidToken)
}

func TestJWTService_EmptySecret(t *testing.T) {
	tokenService, err := NewJWTService(&config.Config{})
	assert.Error(t, err)
	assert.Nil(t, tokenService)
	assert.Contains(t, err.Error(), "jwt secret must be provided")
}
