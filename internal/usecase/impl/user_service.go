package impl

import (
	"context"
	"log/slog"
	"strings"

	"tracker/config"
	deliverycontext "tracker/internal/delivery/context"
	"tracker/internal/domain/entity"
	domainerrors "tracker/internal/domain/errors"
	"tracker/internal/domain/repository"
	"tracker/internal/domain/service"
	"tracker/internal/usecase"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// userService implements the UserUsecase interface.
type userService struct {
	txManager      repository.TransactionManager
	userRepo       repository.UserRepository
	referralCipher service.ReferralCipher
	logger         *slog.Logger
}

// UserServiceParams holds dependencies for userService, injected by Fx.
type UserServiceParams struct {
	fx.In

	TxManager      repository.TransactionManager
	UserRepo       repository.UserRepository
	ReferralCipher service.ReferralCipher
	Config         *config.Config
	Logger         *slog.Logger
}

// NewUserService is the constructor for userService.
func NewUserService(params UserServiceParams) usecase.UserUsecase {
	return &userService{
		txManager:      params.TxManager,
		userRepo:       params.UserRepo,
		referralCipher: params.ReferralCipher,
		logger:         params.Logger,
	}
}

func (srv *userService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.LoggerOrDefault(ctx, srv.logger)
}

// GetByID retrieves a user's record.
func (srv *userService) GetByID(ctx context.Context, id int64) (*entity.User, error) {
	user, err := srv.userRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, domainerrors.ErrUserNotFound
		}

		return nil, errors.Wrap(err, "failed to get user")
	}

	return user, nil
}

// List retrieves all users.
func (srv *userService) List(ctx context.Context) ([]*entity.User, error) {
	users, err := srv.userRepo.List(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list users")
	}

	return users, nil
}

// UpdateProfile lets a user edit their own profile fields.
func (srv *userService) UpdateProfile(ctx context.Context, userID int64, input usecase.UpdateProfileInput) (*entity.User, error) {
	srv.log(ctx).Debug("Updating profile", slog.Int64("userID", userID))

	var updated *entity.User
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.UserRepo()

		user, err := userRepo.FindByID(ctx, userID)
		if err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				return domainerrors.ErrUserNotFound
			}

			return errors.Wrap(err, "failed to load user for profile update")
		}

		if err := applyProfileChanges(user, input.FullName, input.Description, input.AvatarPath); err != nil {
			return err
		}

		if err := userRepo.Update(ctx, user); err != nil {
			return errors.Wrap(err, "failed to persist profile update")
		}
		updated = user

		return nil
	})
	if err != nil {
		srv.log(ctx).Warn("Profile update failed", slog.Int64("userID", userID), slog.Any("error", err))

		return nil, err
	}

	return updated, nil
}

// AdminUpdateUser lets an admin edit any user, including their role. The
// changes land on the target user, never on the acting admin.
func (srv *userService) AdminUpdateUser(ctx context.Context, actor *entity.User, targetID int64, input usecase.AdminUpdateUserInput) (*entity.User, error) {
	if actor == nil || actor.Role != entity.RoleAdmin {
		return nil, domainerrors.ErrInsufficientRole
	}

	srv.log(ctx).Info("Admin updating user", slog.Int64("adminID", actor.ID), slog.Int64("targetID", targetID))

	var updated *entity.User
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.UserRepo()

		user, err := userRepo.FindByID(ctx, targetID)
		if err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				return domainerrors.ErrUserNotFound
			}

			return errors.Wrap(err, "failed to load target user")
		}

		if err := applyProfileChanges(user, input.FullName, input.Description, input.AvatarPath); err != nil {
			return err
		}

		if input.Role != nil {
			role := entity.Role(*input.Role)
			if !role.IsValid() {
				return domainerrors.ErrValidationFailed.WithDetails("role must be one of guest, member, admin")
			}
			user.Role = role
		}

		if err := userRepo.Update(ctx, user); err != nil {
			return errors.Wrap(err, "failed to persist admin user update")
		}
		updated = user

		return nil
	})
	if err != nil {
		srv.log(ctx).Warn("Admin user update failed", slog.Int64("targetID", targetID), slog.Any("error", err))

		return nil, err
	}

	return updated, nil
}

// ReferralToken returns the user's shareable referral token.
func (srv *userService) ReferralToken(ctx context.Context, userID int64) (string, error) {
	if _, err := srv.GetByID(ctx, userID); err != nil {
		return "", err
	}

	token, err := srv.referralCipher.EncryptUserID(userID)
	if err != nil {
		return "", errors.Wrap(err, "failed to build referral token")
	}

	return token, nil
}

// applyProfileChanges applies the nullable profile fields shared by the
// self-service and admin update paths.
func applyProfileChanges(user *entity.User, fullName, description, avatarPath *string) error {
	if fullName != nil {
		trimmed := strings.TrimSpace(*fullName)
		if err := validateFullName(trimmed); err != nil {
			return err
		}
		user.FullName = trimmed
	}
	if description != nil {
		user.Description = *description
	}
	if avatarPath != nil {
		user.AvatarPath = *avatarPath
	}

	return nil
}
