// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"log/slog"
	"strings"
	"unicode/utf8"

	deliverycontext "storefront/internal/delivery/context"
	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/repository"
	"storefront/internal/domain/service"
	"storefront/internal/usecase"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// authService implements the AuthUsecase interface.
type authService struct {
	accountRepo  repository.AccountRepository
	hasher       service.PasswordHasher
	tokenService service.TokenService
	logger       *slog.Logger
}

// AuthServiceParams holds dependencies for AuthService, injected by Fx.
type AuthServiceParams struct {
	fx.In

	AccountRepo  repository.AccountRepository
	Hasher       service.PasswordHasher
	TokenService service.TokenService
	Logger       *slog.Logger
}

// NewAuthService is the constructor for authService.
func NewAuthService(params AuthServiceParams) usecase.AuthUsecase {
	return &authService{
		accountRepo:  params.AccountRepo,
		hasher:       params.Hasher,
		tokenService: params.TokenService,
		logger:       params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *authService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Login exchanges credentials for a token. Unknown email, a missing hash
// and a wrong password all yield the same ErrInvalidCredentials.
func (srv *authService) Login(ctx context.Context, input usecase.LoginInput) (*usecase.AuthOutput, error) {
	email := strings.TrimSpace(input.Email)

	account, err := srv.accountRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			srv.log(ctx).Debug("Login for unknown email")

			return nil, domainerrors.ErrInvalidCredentials
		}

		return nil, errors.Wrap(err, "failed to find account for login")
	}

	if !account.CanAuthenticate() || !srv.hasher.Check(input.Password, *account.PasswordHash) {
		srv.log(ctx).Debug("Login rejected", slog.Int64("accountID", account.ID))

		return nil, domainerrors.ErrInvalidCredentials
	}

	output, err := srv.issue(account)
	if err != nil {
		return nil, err
	}

	srv.log(ctx).Info("Account logged in", slog.Int64("accountID", account.ID), slog.String("role", account.Role.String()))

	return output, nil
}

// Register creates a role=user account. The email conflict is checked
// before the password rule so a taken email is always a conflict.
func (srv *authService) Register(ctx context.Context, input usecase.RegisterInput) (*usecase.AuthOutput, error) {
	name := strings.TrimSpace(input.Name)
	email := strings.TrimSpace(input.Email)

	taken, err := srv.accountRepo.EmailTaken(ctx, email, 0)
	if err != nil {
		return nil, errors.Wrap(err, "failed to check email availability")
	}
	if taken {
		return nil, domainerrors.ErrAccountAlreadyExists
	}

	if utf8.RuneCountInString(input.Password) < entity.MinPasswordLength {
		return nil, domainerrors.NewValidationError(domainerrors.FieldError{
			Field:   "password",
			Message: "La contraseña debe tener al menos 6 caracteres",
		})
	}

	hash, err := srv.hasher.Hash(input.Password)
	if err != nil {
		return nil, domainerrors.ErrPasswordHashFailed.WrapMessage(err.Error())
	}

	account := &entity.Account{
		Name:         name,
		Email:        email,
		PasswordHash: &hash,
		Role:         entity.RoleUser,
	}

	if err := srv.accountRepo.Create(ctx, account); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, domainerrors.ErrAccountAlreadyExists
		}

		return nil, errors.Wrap(err, "failed to create account")
	}

	output, err := srv.issue(account)
	if err != nil {
		return nil, err
	}

	srv.log(ctx).Info("Account registered", slog.Int64("accountID", account.ID))

	return output, nil
}

// Verify validates a raw bearer token.
func (srv *authService) Verify(_ context.Context, token string) (entity.Identity, error) {
	if strings.TrimSpace(token) == "" {
		return entity.Identity{}, domainerrors.ErrMissingToken
	}

	claims, err := srv.tokenService.ValidateToken(token)
	if err != nil {
		return entity.Identity{}, err
	}

	return claims.Identity(), nil
}

func (srv *authService) issue(account *entity.Account) (*usecase.AuthOutput, error) {
	token, expiresAt, err := srv.tokenService.GenerateToken(account.Identity())
	if err != nil {
		return nil, domainerrors.ErrTokenIssueFailed.WrapMessage(err.Error())
	}

	return &usecase.AuthOutput{
		Token:     token,
		ExpiresAt: expiresAt,
		Account:   account,
	}, nil
}
