package handler

import (
	"net/http"

	"tracker/internal/delivery/http/middleware"
	"tracker/internal/delivery/http/response"
	domainerrors "tracker/internal/domain/errors"
	"tracker/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// SessionHandler holds dependencies for session management handlers.
type SessionHandler struct {
	sessionUsecase usecase.SessionUsecase
}

// NewSessionHandler is the constructor for SessionHandler, injected by Fx.
func NewSessionHandler(sessionUsecase usecase.SessionUsecase) *SessionHandler {
	return &SessionHandler{sessionUsecase: sessionUsecase}
}

// List returns the current user's sessions with their liveness state.
func (h *SessionHandler) List(c echo.Context) error {
	user := middleware.CurrentUser(c)
	if user == nil {
		return domainerrors.ErrMissingCredential
	}

	sessions, err := h.sessionUsecase.List(c.Request().Context(), user.ID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, sessions, "Sessions retrieved successfully")
}

// Revoke terminates one session by its id.
func (h *SessionHandler) Revoke(c echo.Context) error {
	sessionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Session id must be a UUID")
	}

	if err := h.sessionUsecase.Revoke(c.Request().Context(), middleware.CurrentUser(c), sessionID); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, map[string]string{"message": "Session revoked"}, "Session revoked successfully")
}

// RevokeAll signs the user out of every device, including this one.
func (h *SessionHandler) RevokeAll(c echo.Context) error {
	user := middleware.CurrentUser(c)
	if user == nil {
		return domainerrors.ErrMissingCredential
	}

	if err := h.sessionUsecase.RevokeAll(c.Request().Context(), user.ID); err != nil {
		return errors.WithStack(err)
	}

	clearCredentialCookies(c)

	return response.Success(c, http.StatusOK, map[string]string{"message": "All sessions revoked"}, "All sessions revoked successfully")
}
