package middleware

import (
	"strings"

	"tracker/internal/domain/entity"
	domainerrors "tracker/internal/domain/errors"
	"tracker/internal/usecase"

	"github.com/labstack/echo/v4"
)

// Credential carriers. Browser clients use cookies; API clients may send the
// access token as a bearer header and the session handle in its own header.
const (
	AccessTokenCookie  = "token"
	SessionCookie      = "session"
	SessionTokenHeader = "X-Session-Token"

	// ContextUserKey is where the middleware stores the resolved user.
	ContextUserKey = "user"
)

// AuthMiddleware authenticates requests by resolving the access token and
// session handle pair into a user.
type AuthMiddleware struct {
	authUsecase usecase.AuthUsecase
}

// NewAuthMiddleware is the constructor for AuthMiddleware.
func NewAuthMiddleware(authUsecase usecase.AuthUsecase) *AuthMiddleware {
	return &AuthMiddleware{authUsecase: authUsecase}
}

// Authenticate resolves the request's credentials into a user and stores it on
// the echo context. Both the access token and the session handle must check
// out, including the password epoch embedded in the token.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		user, err := m.authUsecase.ResolveIdentity(
			c.Request().Context(),
			AccessToken(c),
			SessionHandle(c),
		)
		if err != nil {
			return err
		}

		c.Set(ContextUserKey, user)

		return next(c)
	}
}

// RequireRole refuses requests whose resolved user lacks the given role.
// It must run after Authenticate.
func (m *AuthMiddleware) RequireRole(role entity.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user := CurrentUser(c)
			if user == nil {
				return domainerrors.ErrMissingCredential
			}
			if user.Role != role {
				return domainerrors.ErrInsufficientRole
			}

			return next(c)
		}
	}
}

// CurrentUser returns the user the Authenticate middleware resolved, or nil.
func CurrentUser(c echo.Context) *entity.User {
	user, _ := c.Get(ContextUserKey).(*entity.User)

	return user
}

// AccessToken extracts the access token from the token cookie, falling back
// to a bearer Authorization header.
func AccessToken(c echo.Context) string {
	if cookie, err := c.Cookie(AccessTokenCookie); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	authHeader := c.Request().Header.Get("Authorization")
	if token := strings.TrimPrefix(authHeader, "Bearer "); token != authHeader {
		return token
	}

	return ""
}

// SessionHandle extracts the session handle from the session cookie, falling
// back to the session token header.
func SessionHandle(c echo.Context) string {
	if cookie, err := c.Cookie(SessionCookie); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	return c.Request().Header.Get(SessionTokenHeader)
}
