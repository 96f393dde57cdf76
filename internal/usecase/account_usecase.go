package usecase

import (
	"context"

	"storefront/internal/domain/entity"
)

// CreateAccountInput is the admin-initiated account creation payload.
type CreateAccountInput struct {
	Name     string
	Email    string
	Password string
	Role     entity.Role
}

// UpdateAccountInput replaces name, email and role. Passwords are not changed here.
type UpdateAccountInput struct {
	Name  string
	Email string
	Role  entity.Role
}

// AccountUsecase defines account management operations.
type AccountUsecase interface {
	List(ctx context.Context) ([]*entity.Account, error)
	Get(ctx context.Context, id int64) (*entity.Account, error)
	Create(ctx context.Context, input CreateAccountInput) (*entity.Account, error)
	Update(ctx context.Context, id int64, input UpdateAccountInput) (*entity.Account, error)

	// Delete removes the account id on behalf of actor. Actors cannot delete themselves.
	Delete(ctx context.Context, actor entity.Identity, id int64) (*entity.Account, error)
}
