package auth

import (
	"testing"
	"time"

	"storefront/config"
	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestJWTService(t *testing.T, ttl time.Duration) *jwtService {
	t.Helper()

	cfg := &config.Config{}
	cfg.SecretKey.Access = "test_access_secret_key_very_long_for_testing"
	cfg.Auth.TokenTTL = ttl
	cfg.Env.ServiceName = "storefront-test"

	svc, err := NewJWTService(cfg)
	require.NoError(t, err)

	return svc.(*jwtService)
}

func TestJWTService_GenerateAndValidate(t *testing.T) {
	svc := newTestJWTService(t, time.Hour)
	identity := entity.Identity{AccountID: 42, Email: "ana@example.com", Role: entity.RoleAdmin}

	token, expiresAt, err := svc.GenerateToken(identity)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, identity, claims.Identity())
	assert.Equal(t, "42", claims.Subject)
	assert.Equal(t, "storefront-test", claims.Issuer)
}

func TestJWTService_DefaultTTLIsSevenDays(t *testing.T) {
	svc := newTestJWTService(t, 0)
	assert.Equal(t, 7*24*time.Hour, svc.TokenTTL())
}

func TestJWTService_ExpiredToken(t *testing.T) {
	svc := newTestJWTService(t, time.Hour)

	token, _, err := svc.GenerateToken(entity.Identity{AccountID: 1, Email: "a@b.co", Role: entity.RoleUser})
	require.NoError(t, err)

	svc.now = func() time.Time { return time.Now().Add(time.Hour + time.Minute) }

	claims, err := svc.ValidateToken(token)
	assert.Nil(t, claims)
	assert.True(t, errors.Is(err, domainerrors.ErrExpiredToken))
}

func TestJWTService_InvalidSignature(t *testing.T) {
	svc := newTestJWTService(t, time.Hour)
	other := newTestJWTService(t, time.Hour)
	other.secret = []byte("another-secret")

	token, _, err := other.GenerateToken(entity.Identity{AccountID: 1, Email: "a@b.co", Role: entity.RoleUser})
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.True(t, errors.Is(err, domainerrors.ErrInvalidToken))
}

func TestJWTService_RejectsGarbageAndOtherAlgorithms(t *testing.T) {
	svc := newTestJWTService(t, time.Hour)

	_, err := svc.ValidateToken("clearly-not-a-jwt-token-format")
	assert.True(t, errors.Is(err, domainerrors.ErrInvalidToken))

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"id":  1,
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = svc.ValidateToken(unsigned)
	assert.True(t, errors.Is(err, domainerrors.ErrInvalidToken))
}

func TestJWTService_RequiresSecret(t *testing.T) {
	_, err := NewJWTService(&config.Config{})
	assert.Error(t, err)
}
