package middleware

import (
	"context"
	"strings"

	"bookshelf/internal/apperr"
	"bookshelf/internal/model"

	"github.com/labstack/echo/v4"
)

const ContextUserKey = "user"

// Authenticator resolves a bearer token to the acting user.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*model.User, error)
}

func bearerToken(c echo.Context) (string, error) {
	authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
	if authHeader == "" {
		return "", apperr.Unauthenticated("missing token")
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", apperr.Unauthenticated("invalid authorization header format")
	}
	return strings.TrimSpace(parts[1]), nil
}

// RequireAuth rejects requests without a valid bearer token and stores the
// resolved *model.User under ContextUserKey.
func RequireAuth(a Authenticator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, err := bearerToken(c)
			if err != nil {
				return err
			}
			user, err := a.Authenticate(c.Request().Context(), token)
			if err != nil {
				return err
			}
			c.Set(ContextUserKey, user)
			return next(c)
		}
	}
}

// CurrentUser returns the user stored by RequireAuth.
func CurrentUser(c echo.Context) (*model.User, bool) {
	u, ok := c.Get(ContextUserKey).(*model.User)
	return u, ok && u != nil
}

// ActorID returns the current user's id, or 0 for anonymous requests.
func ActorID(c echo.Context) int {
	if u, ok := CurrentUser(c); ok {
		return u.ID
	}
	return 0
}
