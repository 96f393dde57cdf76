package impl

import (
	"context"
	"log/slog"
	"strings"

	deliverycontext "storefront/internal/delivery/context"
	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/repository"
	"storefront/internal/domain/service"
	"storefront/internal/usecase"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// accountService implements the AccountUsecase interface.
type accountService struct {
	txManager   repository.TransactionManager
	accountRepo repository.AccountRepository
	hasher      service.PasswordHasher
	logger      *slog.Logger
}

// AccountServiceParams holds dependencies for AccountService, injected by Fx.
type AccountServiceParams struct {
	fx.In

	TxManager   repository.TransactionManager
	AccountRepo repository.AccountRepository
	Hasher      service.PasswordHasher
	Logger      *slog.Logger
}

// NewAccountService is the constructor for accountService.
func NewAccountService(params AccountServiceParams) usecase.AccountUsecase {
	return &accountService{
		txManager:   params.TxManager,
		accountRepo: params.AccountRepo,
		hasher:      params.Hasher,
		logger:      params.Logger,
	}
}

func (srv *accountService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// List returns every account.
func (srv *accountService) List(ctx context.Context) ([]*entity.Account, error) {
	accounts, err := srv.accountRepo.List(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list accounts")
	}

	return accounts, nil
}

// Get returns one account.
func (srv *accountService) Get(ctx context.Context, id int64) (*entity.Account, error) {
	account, err := srv.accountRepo.FindByID(ctx, id)
	if err != nil {
		return nil, mapAccountError(err, "failed to get account")
	}

	return account, nil
}

// Create inserts an account with a hashed password.
func (srv *accountService) Create(ctx context.Context, input usecase.CreateAccountInput) (*entity.Account, error) {
	role := input.Role
	if role == "" {
		role = entity.RoleUser
	}
	if !role.IsValid() {
		return nil, invalidRoleError()
	}

	account := &entity.Account{
		Name:  strings.TrimSpace(input.Name),
		Email: strings.TrimSpace(input.Email),
		Role:  role,
	}

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		accountRepo := repoFactory.NewAccountRepository()

		taken, err := accountRepo.EmailTaken(ctx, account.Email, 0)
		if err != nil {
			return errors.Wrap(err, "failed to check email availability")
		}
		if taken {
			return domainerrors.ErrAccountAlreadyExists
		}

		hash, err := srv.hasher.Hash(input.Password)
		if err != nil {
			return domainerrors.ErrPasswordHashFailed.WrapMessage(err.Error())
		}
		account.PasswordHash = &hash

		return accountRepo.Create(ctx, account)
	})
	if err != nil {
		return nil, mapAccountError(err, "failed to create account")
	}

	srv.log(ctx).Info("Account created", slog.Int64("accountID", account.ID), slog.String("role", role.String()))

	return account, nil
}

// Update replaces name, email and role of an existing account.
func (srv *accountService) Update(ctx context.Context, id int64, input usecase.UpdateAccountInput) (*entity.Account, error) {
	if !input.Role.IsValid() {
		return nil, invalidRoleError()
	}

	var updated *entity.Account

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		accountRepo := repoFactory.NewAccountRepository()

		account, err := accountRepo.FindByID(ctx, id)
		if err != nil {
			return err
		}

		email := strings.TrimSpace(input.Email)
		taken, err := accountRepo.EmailTaken(ctx, email, id)
		if err != nil {
			return errors.Wrap(err, "failed to check email availability")
		}
		if taken {
			return domainerrors.ErrAccountAlreadyExists
		}

		account.Name = strings.TrimSpace(input.Name)
		account.Email = email
		account.Role = input.Role

		if err := accountRepo.Update(ctx, account); err != nil {
			return err
		}
		updated = account

		return nil
	})
	if err != nil {
		return nil, mapAccountError(err, "failed to update account")
	}

	srv.log(ctx).Info("Account updated", slog.Int64("accountID", id))

	return updated, nil
}

// Delete removes an account. An actor can never delete the account bound
// to their own token.
func (srv *accountService) Delete(ctx context.Context, actor entity.Identity, id int64) (*entity.Account, error) {
	if actor.AccountID == id {
		return nil, domainerrors.ErrSelfDeletion
	}

	var deleted *entity.Account

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		accountRepo := repoFactory.NewAccountRepository()

		account, err := accountRepo.FindByID(ctx, id)
		if err != nil {
			return err
		}

		if err := accountRepo.Delete(ctx, id); err != nil {
			return err
		}
		deleted = account

		return nil
	})
	if err != nil {
		return nil, mapAccountError(err, "failed to delete account")
	}

	srv.log(ctx).Info("Account deleted", slog.Int64("accountID", id), slog.Int64("actorID", actor.AccountID))

	return deleted, nil
}

func invalidRoleError() error {
	return domainerrors.NewValidationError(domainerrors.FieldError{
		Field:   "rol",
		Message: "El rol debe ser admin o user",
	})
}

// mapAccountError converts repository sentinels into AppErrors.
func mapAccountError(err error, message string) error {
	switch {
	case errors.Is(err, repository.ErrAccountNotFound):
		return domainerrors.ErrAccountNotFound
	case errors.Is(err, repository.ErrDuplicateEmail):
		return domainerrors.ErrAccountAlreadyExists
	default:
		return errors.Wrap(err, message)
	}
}
