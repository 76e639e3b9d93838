package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"tracker/internal/domain/entity"
	domainerrors "tracker/internal/domain/errors"
	"tracker/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubAuthUsecase records the credentials ResolveIdentity was called with.
type stubAuthUsecase struct {
	usecase.AuthUsecase

	gotAccessToken   string
	gotSessionHandle string
	user             *entity.User
	err              error
}

func (s *stubAuthUsecase) ResolveIdentity(_ context.Context, accessToken, sessionHandle string) (*entity.User, error) {
	s.gotAccessToken = accessToken
	s.gotSessionHandle = sessionHandle
	if s.err != nil {
		return nil, s.err
	}

	return s.user, nil
}

func newAuthTestContext(req *http.Request) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	rec := httptest.NewRecorder()

	return e.NewContext(req, rec), rec
}

func TestAuthMiddleware_Authenticate_Cookies(t *testing.T) {
	stub := &stubAuthUsecase{user: &entity.User{ID: 7, Role: entity.RoleMember}}
	m := NewAuthMiddleware(stub)

	req := httptest.NewRequest(http.MethodGet, "/user/info", nil)
	req.AddCookie(&http.Cookie{Name: AccessTokenCookie, Value: "access-from-cookie"})
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "handle-from-cookie"})
	c, _ := newAuthTestContext(req)

	var resolved *entity.User
	next := func(c echo.Context) error {
		resolved = CurrentUser(c)

		return nil
	}

	require.NoError(t, m.Authenticate(next)(c))
	assert.Equal(t, "access-from-cookie", stub.gotAccessToken)
	assert.Equal(t, "handle-from-cookie", stub.gotSessionHandle)
	require.NotNil(t, resolved)
	assert.Equal(t, int64(7), resolved.ID)
}

func TestAuthMiddleware_Authenticate_HeaderFallback(t *testing.T) {
	stub := &stubAuthUsecase{user: &entity.User{ID: 7}}
	m := NewAuthMiddleware(stub)

	req := httptest.NewRequest(http.MethodGet, "/user/info", nil)
	req.Header.Set("Authorization", "Bearer access-from-header")
	req.Header.Set(SessionTokenHeader, "handle-from-header")
	c, _ := newAuthTestContext(req)

	require.NoError(t, m.Authenticate(func(echo.Context) error { return nil })(c))
	assert.Equal(t, "access-from-header", stub.gotAccessToken)
	assert.Equal(t, "handle-from-header", stub.gotSessionHandle)
}

func TestAuthMiddleware_Authenticate_CookieWinsOverHeader(t *testing.T) {
	stub := &stubAuthUsecase{user: &entity.User{ID: 7}}
	m := NewAuthMiddleware(stub)

	req := httptest.NewRequest(http.MethodGet, "/user/info", nil)
	req.AddCookie(&http.Cookie{Name: AccessTokenCookie, Value: "cookie-token"})
	req.Header.Set("Authorization", "Bearer header-token")
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "cookie-handle"})
	c, _ := newAuthTestContext(req)

	require.NoError(t, m.Authenticate(func(echo.Context) error { return nil })(c))
	assert.Equal(t, "cookie-token", stub.gotAccessToken)
	assert.Equal(t, "cookie-handle", stub.gotSessionHandle)
}

func TestAuthMiddleware_Authenticate_ErrorPropagates(t *testing.T) {
	stub := &stubAuthUsecase{err: domainerrors.ErrMissingCredential}
	m := NewAuthMiddleware(stub)

	req := httptest.NewRequest(http.MethodGet, "/user/info", nil)
	c, _ := newAuthTestContext(req)

	err := m.Authenticate(func(echo.Context) error {
		t.Fatal("next handler must not run")

		return nil
	})(c)

	assert.ErrorIs(t, err, domainerrors.ErrMissingCredential)
}

func TestAuthMiddleware_RequireRole(t *testing.T) {
	m := NewAuthMiddleware(&stubAuthUsecase{})
	next := func(echo.Context) error { return nil }

	t.Run("matching role passes", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/user/list", nil)
		c, _ := newAuthTestContext(req)
		c.Set(ContextUserKey, &entity.User{ID: 1, Role: entity.RoleAdmin})

		assert.NoError(t, m.RequireRole(entity.RoleAdmin)(next)(c))
	})

	t.Run("wrong role refused", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/user/list", nil)
		c, _ := newAuthTestContext(req)
		c.Set(ContextUserKey, &entity.User{ID: 5, Role: entity.RoleMember})

		err := m.RequireRole(entity.RoleAdmin)(next)(c)
		assert.ErrorIs(t, err, domainerrors.ErrInsufficientRole)
	})

	t.Run("no resolved user refused", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/user/list", nil)
		c, _ := newAuthTestContext(req)

		err := m.RequireRole(entity.RoleAdmin)(next)(c)
		assert.ErrorIs(t, err, domainerrors.ErrMissingCredential)
	})
}
