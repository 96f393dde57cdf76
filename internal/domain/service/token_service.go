package service

import (
	"time"

	"storefront/internal/domain/entity"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the payload of a session token. Field names match the
// payload the storefront frontend already decodes.
type Claims struct {
	AccountID int64  `json:"id"`
	Email     string `json:"correo"`
	Role      string `json:"rol"`
	jwt.RegisteredClaims
}

// Identity converts the claims into the domain identity.
func (c *Claims) Identity() entity.Identity {
	return entity.Identity{
		AccountID: c.AccountID,
		Email:     c.Email,
		Role:      entity.Role(c.Role),
	}
}

// TokenService issues and verifies stateless session tokens.
type TokenService interface {
	// GenerateToken signs a token for identity and returns it with its expiry.
	GenerateToken(identity entity.Identity) (token string, expiresAt time.Time, err error)

	// ValidateToken verifies signature and expiry. It returns
	// domain ErrExpiredToken or ErrInvalidToken on failure.
	ValidateToken(tokenString string) (*Claims, error)

	// TokenTTL returns the configured token lifetime.
	TokenTTL() time.Duration
}
