package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"tracker/internal/delivery/http/middleware"
	"tracker/internal/domain/entity"
	"tracker/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubAuthUsecase returns canned credentials and records inputs.
type stubAuthUsecase struct {
	usecase.AuthUsecase

	signUpInput   usecase.SignUpInput
	logoutHandle  string
	output        *usecase.CredentialsOutput
	signUpErr     error
	refreshHandle string
}

func (s *stubAuthUsecase) SignUp(_ context.Context, input usecase.SignUpInput) (*usecase.CredentialsOutput, error) {
	s.signUpInput = input
	if s.signUpErr != nil {
		return nil, s.signUpErr
	}

	return s.output, nil
}

func (s *stubAuthUsecase) Refresh(_ context.Context, sessionHandle string) (*usecase.CredentialsOutput, error) {
	s.refreshHandle = sessionHandle

	return s.output, nil
}

func (s *stubAuthUsecase) Logout(_ context.Context, sessionHandle string) error {
	s.logoutHandle = sessionHandle

	return nil
}

func testCredentials() *usecase.CredentialsOutput {
	return &usecase.CredentialsOutput{
		User:           &entity.User{ID: 7, Login: "ada", FullName: "Ada Lovelace", Role: entity.RoleGuest},
		AccessToken:    "issued-access-token",
		SessionHandle:  "issued-session-handle",
		SessionTTL:     time.Hour,
		AccessTokenTTL: 15 * time.Minute,
	}
}

func TestAuthHandler_SignUp_SetsCookies(t *testing.T) {
	stub := &stubAuthUsecase{output: testCredentials()}
	h := NewAuthHandler(stub)

	body := `{"full_name":"Ada Lovelace","login":"ada","password":"secret12","password_repeat":"secret12"}`
	req := httptest.NewRequest(http.MethodPost, "/auth/signup", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(req, rec)

	require.NoError(t, h.SignUp(c))
	assert.Equal(t, http.StatusCreated, rec.Code)

	cookies := rec.Result().Cookies()
	byName := make(map[string]*http.Cookie, len(cookies))
	for _, cookie := range cookies {
		byName[cookie.Name] = cookie
	}

	require.Contains(t, byName, middleware.AccessTokenCookie)
	require.Contains(t, byName, middleware.SessionCookie)
	assert.Equal(t, "issued-access-token", byName[middleware.AccessTokenCookie].Value)
	assert.Equal(t, "issued-session-handle", byName[middleware.SessionCookie].Value)
	assert.True(t, byName[middleware.AccessTokenCookie].HttpOnly)

	// The password never appears in the response body.
	assert.NotContains(t, rec.Body.String(), "secret12")
	assert.Contains(t, rec.Body.String(), `"login":"ada"`)
}

func TestAuthHandler_SignUp_ReferralCookieIsForwarded(t *testing.T) {
	stub := &stubAuthUsecase{output: testCredentials()}
	h := NewAuthHandler(stub)

	body := `{"full_name":"Ada Lovelace","login":"ada","password":"secret12","password_repeat":"secret12"}`
	req := httptest.NewRequest(http.MethodPost, "/auth/signup", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.AddCookie(&http.Cookie{Name: referralCookie, Value: "ref-token-from-cookie"})
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(req, rec)

	require.NoError(t, h.SignUp(c))
	assert.Equal(t, "ref-token-from-cookie", stub.signUpInput.ReferralToken)
}

func TestAuthHandler_Refresh_UsesSessionCookie(t *testing.T) {
	stub := &stubAuthUsecase{output: testCredentials()}
	h := NewAuthHandler(stub)

	req := httptest.NewRequest(http.MethodPost, "/auth/refresh", nil)
	req.AddCookie(&http.Cookie{Name: middleware.SessionCookie, Value: "old-handle"})
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(req, rec)

	require.NoError(t, h.Refresh(c))
	assert.Equal(t, "old-handle", stub.refreshHandle)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthHandler_Logout_ClearsCookies(t *testing.T) {
	stub := &stubAuthUsecase{}
	h := NewAuthHandler(stub)

	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	req.AddCookie(&http.Cookie{Name: middleware.SessionCookie, Value: "live-handle"})
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(req, rec)

	require.NoError(t, h.Logout(c))
	assert.Equal(t, "live-handle", stub.logoutHandle)

	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == middleware.AccessTokenCookie || cookie.Name == middleware.SessionCookie {
			assert.Empty(t, cookie.Value)
			assert.Negative(t, cookie.MaxAge)
		}
	}
}
