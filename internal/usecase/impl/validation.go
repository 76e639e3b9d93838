package impl

import (
	"strings"
	"unicode"

	domainerrors "tracker/internal/domain/errors"
	"tracker/internal/usecase"
)

const (
	maxFullNameLength = 50
	maxLoginLength    = 20
)

// validateSignUpInput checks the structural rules of a signup request.
// Password strength is checked separately by the hasher so its limits stay
// configurable.
func validateSignUpInput(input usecase.SignUpInput) error {
	if err := validateFullName(input.FullName); err != nil {
		return err
	}
	if err := validateLogin(input.Login); err != nil {
		return err
	}
	if input.Password != input.PasswordRepeat {
		return domainerrors.ErrValidationFailed.WithDetails("password and its repetition do not match")
	}
	if strings.ContainsFunc(input.Password, unicode.IsSpace) {
		return domainerrors.ErrValidationFailed.WithDetails("password must not contain whitespace")
	}

	return nil
}

func validateFullName(fullName string) error {
	trimmed := strings.TrimSpace(fullName)
	if trimmed == "" {
		return domainerrors.ErrValidationFailed.WithDetails("full name must not be empty")
	}
	if len([]rune(trimmed)) > maxFullNameLength {
		return domainerrors.ErrValidationFailed.WithDetails("full name must be at most 50 characters")
	}

	return nil
}

func validateLogin(login string) error {
	if login == "" {
		return domainerrors.ErrValidationFailed.WithDetails("login must not be empty")
	}
	if len(login) > maxLoginLength {
		return domainerrors.ErrValidationFailed.WithDetails("login must be at most 20 characters")
	}
	for _, r := range login {
		if !isLoginRune(r) {
			return domainerrors.ErrValidationFailed.WithDetails("login may contain only letters, digits, underscores, dots and hyphens")
		}
	}

	return nil
}

func isLoginRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return true
	case r == '_', r == '.', r == '-':
		return true
	default:
		return false
	}
}
