package impl

import (
	"context"
	"testing"
	"time"

	"storefront/config"
	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/service"
	"storefront/internal/infra/auth"
	"storefront/internal/infra/persistence/postgres"
	"storefront/internal/usecase"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sqliteTestSecret = "sqlite-test-secret"

func newSQLiteAuthService(t *testing.T) usecase.AuthUsecase {
	t.Helper()

	db, err := postgres.OpenSQLite(":memory:", nil)
	require.NoError(t, err)
	require.NoError(t, postgres.Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	cfg := &config.Config{}
	cfg.Env.ServiceName = "storefront"
	cfg.SecretKey.Access = sqliteTestSecret
	cfg.Auth.BcryptCost = 4
	cfg.Auth.TokenTTL = time.Hour

	tokens, err := auth.NewJWTService(cfg)
	require.NoError(t, err)

	return NewAuthService(AuthServiceParams{
		AccountRepo:  postgres.NewAccountRepository(db),
		Hasher:       auth.NewBcryptHasher(cfg),
		TokenService: tokens,
		Logger:       newDiscardLogger(),
	})
}

func TestAuthService_RegisterThenLogin(t *testing.T) {
	srv := newSQLiteAuthService(t)
	ctx := context.Background()

	registered, err := srv.Register(ctx, usecase.RegisterInput{
		Name:     "Ana Pérez",
		Email:    "ana@example.com",
		Password: "secreta1",
	})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleUser, registered.Account.Role)

	loggedIn, err := srv.Login(ctx, usecase.LoginInput{Email: "ana@example.com", Password: "secreta1"})
	require.NoError(t, err)
	assert.Equal(t, registered.Account.ID, loggedIn.Account.ID)

	claims := &service.Claims{}
	_, err = jwt.ParseWithClaims(loggedIn.Token, claims, func(*jwt.Token) (any, error) {
		return []byte(sqliteTestSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", claims.Email)
	assert.Equal(t, "user", claims.Role)
	assert.Equal(t, registered.Account.ID, claims.AccountID)

	identity, err := srv.Verify(ctx, loggedIn.Token)
	require.NoError(t, err)
	assert.Equal(t, claims.Identity(), identity)

	_, err = srv.Login(ctx, usecase.LoginInput{Email: "ana@example.com", Password: "otra-clave"})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)

	_, err = srv.Register(ctx, usecase.RegisterInput{Name: "Ana", Email: "ana@example.com", Password: ""})
	assert.ErrorIs(t, err, domainerrors.ErrAccountAlreadyExists)
}
