package handler

import (
	"net/http"
	"strconv"

	"tracker/internal/delivery/http/middleware"
	"tracker/internal/delivery/http/response"
	domainerrors "tracker/internal/domain/errors"
	"tracker/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// UserHandler holds dependencies for user-related handlers.
type UserHandler struct {
	userUsecase usecase.UserUsecase
	authUsecase usecase.AuthUsecase
}

// NewUserHandler is the constructor for UserHandler, injected by Fx.
func NewUserHandler(userUsecase usecase.UserUsecase, authUsecase usecase.AuthUsecase) *UserHandler {
	return &UserHandler{
		userUsecase: userUsecase,
		authUsecase: authUsecase,
	}
}

// Info returns the authenticated user's own record.
func (h *UserHandler) Info(c echo.Context) error {
	user := middleware.CurrentUser(c)
	if user == nil {
		return domainerrors.ErrMissingCredential
	}

	return response.Success(c, http.StatusOK, toUserView(user), "Profile retrieved successfully")
}

// List returns all users. Admin only, enforced by the router.
func (h *UserHandler) List(c echo.Context) error {
	users, err := h.userUsecase.List(c.Request().Context())
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toUserViews(users), "Users retrieved successfully")
}

type updateProfileRequest struct {
	FullName    *string `json:"full_name"`
	Description *string `json:"description"`
	AvatarPath  *string `json:"avatar_path"`
}

// UpdateMe lets the authenticated user edit their own profile.
func (h *UserHandler) UpdateMe(c echo.Context) error {
	user := middleware.CurrentUser(c)
	if user == nil {
		return domainerrors.ErrMissingCredential
	}

	var req updateProfileRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid profile input")
	}

	updated, err := h.userUsecase.UpdateProfile(c.Request().Context(), user.ID, usecase.UpdateProfileInput{
		FullName:    req.FullName,
		Description: req.Description,
		AvatarPath:  req.AvatarPath,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toUserView(updated), "Profile updated successfully")
}

type adminUpdateUserRequest struct {
	FullName    *string `json:"full_name"`
	Description *string `json:"description"`
	AvatarPath  *string `json:"avatar_path"`
	Role        *string `json:"role"`
}

// UpdateByID lets an admin edit any user, including the role.
func (h *UserHandler) UpdateByID(c echo.Context) error {
	actor := middleware.CurrentUser(c)
	if actor == nil {
		return domainerrors.ErrMissingCredential
	}

	targetID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "User id must be a number")
	}

	var req adminUpdateUserRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid user input")
	}

	updated, err := h.userUsecase.AdminUpdateUser(c.Request().Context(), actor, targetID, usecase.AdminUpdateUserInput{
		FullName:    req.FullName,
		Description: req.Description,
		AvatarPath:  req.AvatarPath,
		Role:        req.Role,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toUserView(updated), "User updated successfully")
}

type changePasswordRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

// ChangePassword changes the authenticated user's password. Every session is
// revoked afterwards, so the credential cookies are cleared too.
func (h *UserHandler) ChangePassword(c echo.Context) error {
	user := middleware.CurrentUser(c)
	if user == nil {
		return domainerrors.ErrMissingCredential
	}

	var req changePasswordRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid password input")
	}

	err := h.authUsecase.ChangePassword(c.Request().Context(), user.ID, usecase.ChangePasswordInput{
		OldPassword: req.OldPassword,
		NewPassword: req.NewPassword,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	clearCredentialCookies(c)

	return response.Success(c, http.StatusOK, map[string]string{"message": "Password changed, please sign in again"}, "Password changed successfully")
}

// ReferralToken returns the authenticated user's shareable referral token.
func (h *UserHandler) ReferralToken(c echo.Context) error {
	user := middleware.CurrentUser(c)
	if user == nil {
		return domainerrors.ErrMissingCredential
	}

	token, err := h.userUsecase.ReferralToken(c.Request().Context(), user.ID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, map[string]string{"referral_token": token}, "Referral token generated successfully")
}
