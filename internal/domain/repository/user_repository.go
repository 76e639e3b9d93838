// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"
	"errors"

	"tracker/internal/domain/entity"
)

// ErrUserNotFound is a domain-specific error returned when a user is not found.
var ErrUserNotFound = errors.New("user not found")

// UserRepository defines the standard operations for user persistence.
// The application layer depends on this interface, not the concrete implementation.
type UserRepository interface {
	// FindByID retrieves a single user by their numeric identifier.
	FindByID(ctx context.Context, id int64) (*entity.User, error)

	// FindByLogin retrieves a single user by their unique login.
	FindByLogin(ctx context.Context, login string) (*entity.User, error)

	// ExistsByLogin reports whether a user with the given login exists.
	ExistsByLogin(ctx context.Context, login string) (bool, error)

	// ExistsByFullName reports whether a user with the given full name exists.
	ExistsByFullName(ctx context.Context, fullName string) (bool, error)

	// Create persists a new user entity to the storage.
	Create(ctx context.Context, user *entity.User) error

	// Update modifies an existing user entity in the storage.
	Update(ctx context.Context, user *entity.User) error

	// List retrieves all users ordered by creation time.
	List(ctx context.Context) ([]*entity.User, error)

	// AcquireSessionMutex locks the user row for the duration of the current
	// transaction so concurrent session creation observes a consistent count.
	AcquireSessionMutex(ctx context.Context, userID int64) error

	// Users are never physically deleted; there is deliberately no Delete here.
}
