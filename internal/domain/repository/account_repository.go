// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"
	"errors"

	"storefront/internal/domain/entity"
)

var (
	// ErrAccountNotFound is returned when no account matches the lookup.
	ErrAccountNotFound = errors.New("account not found")
	// ErrDuplicateEmail is returned when a write violates the unique email constraint.
	ErrDuplicateEmail = errors.New("account email already exists")
)

// AccountRepository defines the persistence operations for accounts.
type AccountRepository interface {
	// FindByID retrieves a single account by its ID.
	FindByID(ctx context.Context, id int64) (*entity.Account, error)

	// FindByEmail retrieves a single account by exact email.
	FindByEmail(ctx context.Context, email string) (*entity.Account, error)

	// List returns every account ordered by id ascending.
	List(ctx context.Context) ([]*entity.Account, error)

	// EmailTaken reports whether another account (id != excludeID) already uses email.
	// Pass excludeID = 0 to check against every account.
	EmailTaken(ctx context.Context, email string, excludeID int64) (bool, error)

	// CountByRole returns how many accounts hold the given role.
	CountByRole(ctx context.Context, role entity.Role) (int64, error)

	// Create persists a new account and fills in its generated ID.
	Create(ctx context.Context, account *entity.Account) error

	// Update overwrites name, email and role of an existing account.
	Update(ctx context.Context, account *entity.Account) error

	// Delete hard-deletes the account with the given ID.
	Delete(ctx context.Context, id int64) error
}
