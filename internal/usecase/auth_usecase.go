// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"
	"time"

	"storefront/internal/domain/entity"
)

// --- Input DTOs ---

// LoginInput defines the data required for an account to log in.
type LoginInput struct {
	Email    string
	Password string
}

// RegisterInput defines the data required to self-register.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// --- Output DTOs ---

// AuthOutput is returned by login and registration.
type AuthOutput struct {
	Token     string
	ExpiresAt time.Time
	Account   *entity.Account
}

// AuthUsecase covers the credential and token chain.
type AuthUsecase interface {
	// Login exchanges credentials for a session token.
	Login(ctx context.Context, input LoginInput) (*AuthOutput, error)

	// Register creates a role=user account and logs it in.
	Register(ctx context.Context, input RegisterInput) (*AuthOutput, error)

	// Verify validates a raw token and returns the embedded identity without
	// consulting the store.
	Verify(ctx context.Context, token string) (entity.Identity, error)
}
