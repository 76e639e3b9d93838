// Package handler contains the HTTP handlers for the application.
package handler

import (
	"net/http"
	"time"

	"tracker/internal/delivery/http/middleware"
	"tracker/internal/delivery/http/response"
	"tracker/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// referralCookie carries the encrypted referrer id a shared signup link sets.
const referralCookie = "referral"

// AuthHandler holds dependencies for authentication handlers.
type AuthHandler struct {
	authUsecase usecase.AuthUsecase
}

// NewAuthHandler is the constructor for AuthHandler, injected by Fx.
func NewAuthHandler(authUsecase usecase.AuthUsecase) *AuthHandler {
	return &AuthHandler{authUsecase: authUsecase}
}

type signUpRequest struct {
	FullName       string `json:"full_name"`
	Login          string `json:"login"`
	Password       string `json:"password"`
	PasswordRepeat string `json:"password_repeat"`
	ReferralToken  string `json:"referral_token"`
}

// SignUp handles the user registration request.
func (h *AuthHandler) SignUp(c echo.Context) error {
	var req signUpRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid signup input")
	}

	// A referral link sets a cookie; an explicit body field wins over it.
	referralToken := req.ReferralToken
	if referralToken == "" {
		if cookie, err := c.Cookie(referralCookie); err == nil {
			referralToken = cookie.Value
		}
	}

	output, err := h.authUsecase.SignUp(c.Request().Context(), usecase.SignUpInput{
		FullName:       req.FullName,
		Login:          req.Login,
		Password:       req.Password,
		PasswordRepeat: req.PasswordRepeat,
		ReferralToken:  referralToken,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	setCredentialCookies(c, output)

	return response.Success(c, http.StatusCreated, credentialsBody(output), "User registered successfully")
}

type signInRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

// SignIn handles the login request.
func (h *AuthHandler) SignIn(c echo.Context) error {
	var req signInRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid signin input")
	}

	output, err := h.authUsecase.SignIn(c.Request().Context(), usecase.SignInInput{
		Login:    req.Login,
		Password: req.Password,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	setCredentialCookies(c, output)

	return response.Success(c, http.StatusOK, credentialsBody(output), "Login successful")
}

// Refresh rotates the presented session handle and reissues both credentials.
func (h *AuthHandler) Refresh(c echo.Context) error {
	output, err := h.authUsecase.Refresh(c.Request().Context(), middleware.SessionHandle(c))
	if err != nil {
		return errors.WithStack(err)
	}

	setCredentialCookies(c, output)

	return response.Success(c, http.StatusOK, credentialsBody(output), "Session refreshed successfully")
}

// Logout revokes the presented session and clears the credential cookies.
func (h *AuthHandler) Logout(c echo.Context) error {
	if err := h.authUsecase.Logout(c.Request().Context(), middleware.SessionHandle(c)); err != nil {
		return errors.WithStack(err)
	}

	clearCredentialCookies(c)

	return response.Success(c, http.StatusOK, map[string]string{"message": "Successfully logged out"}, "Logout successful")
}

// credentialsBody assembles the response payload for endpoints that issue
// credentials. Tokens are included for non-browser clients; browsers rely on
// the cookies.
func credentialsBody(output *usecase.CredentialsOutput) map[string]any {
	return map[string]any{
		"user":           toUserView(output.User),
		"access_token":   output.AccessToken,
		"session_handle": output.SessionHandle,
		"expires_in":     int(output.AccessTokenTTL.Seconds()),
	}
}

func setCredentialCookies(c echo.Context, output *usecase.CredentialsOutput) {
	c.SetCookie(&http.Cookie{
		Name:     middleware.AccessTokenCookie,
		Value:    output.AccessToken,
		Path:     "/",
		MaxAge:   int(output.SessionTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	c.SetCookie(&http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    output.SessionHandle,
		Path:     "/",
		MaxAge:   int(output.SessionTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearCredentialCookies(c echo.Context) {
	expired := time.Unix(0, 0)
	c.SetCookie(&http.Cookie{
		Name:     middleware.AccessTokenCookie,
		Value:    "",
		Path:     "/",
		Expires:  expired,
		MaxAge:   -1,
		HttpOnly: true,
	})
	c.SetCookie(&http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Path:     "/",
		Expires:  expired,
		MaxAge:   -1,
		HttpOnly: true,
	})
}
