package middleware

import (
	"context"
	"strings"

	deliverycontext "storefront/internal/delivery/context"
	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/pkg/access"

	"github.com/labstack/echo/v4"
)

const bearerScheme = "Bearer "

// TokenVerifier turns a raw bearer token into the caller identity.
// usecase.AuthUsecase satisfies it.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (entity.Identity, error)
}

// AuthMiddleware verifies bearer tokens and enforces route capabilities.
type AuthMiddleware struct {
	verifier TokenVerifier
}

// NewAuthMiddleware is the constructor for AuthMiddleware.
func NewAuthMiddleware(verifier TokenVerifier) *AuthMiddleware {
	return &AuthMiddleware{verifier: verifier}
}

// Authenticate validates the Authorization header and stores the caller
// identity on the echo and request contexts. It never consults the store.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token, err := BearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
		if err != nil {
			return err
		}

		identity, err := m.verifier.Verify(c.Request().Context(), token)
		if err != nil {
			return err
		}

		deliverycontext.SetIdentity(c, identity)

		return next(c)
	}
}

// RequireCapability rejects callers whose identity does not satisfy capability.
// It must run after Authenticate for non-public capabilities.
func (m *AuthMiddleware) RequireCapability(capability access.Capability) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			identity, authenticated := deliverycontext.GetIdentity(c)
			if capability.Allowed(identity.Role.String(), authenticated) {
				return next(c)
			}
			if !authenticated {
				return domainerrors.ErrMissingToken
			}

			return domainerrors.ErrForbidden
		}
	}
}

// BearerToken extracts the token from an Authorization header value.
func BearerToken(header string) (string, error) {
	if strings.TrimSpace(header) == "" {
		return "", domainerrors.ErrMissingToken
	}

	if !strings.HasPrefix(header, bearerScheme) {
		return "", domainerrors.ErrMalformedToken
	}

	token := strings.TrimSpace(strings.TrimPrefix(header, bearerScheme))
	if token == "" {
		return "", domainerrors.ErrMissingToken
	}

	return token, nil
}
