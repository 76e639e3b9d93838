// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"log/slog"
	"time"

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

// authService implements the AuthUsecase interface.
type authService struct {
	txManager         repository.TransactionManager
	userRepo          repository.UserRepository
	sessionRepo       repository.SessionRepository
	hasher            service.PasswordHasher
	tokenService      service.TokenService
	tokenSource       service.SessionTokenSource
	referralCipher    service.ReferralCipher
	sessionTTL        time.Duration
	maxActiveSessions int
	logger            *slog.Logger
}

// AuthServiceParams holds dependencies for authService, injected by Fx.
type AuthServiceParams struct {
	fx.In

	TxManager      repository.TransactionManager
	UserRepo       repository.UserRepository
	SessionRepo    repository.SessionRepository
	Hasher         service.PasswordHasher
	TokenService   service.TokenService
	TokenSource    service.SessionTokenSource
	ReferralCipher service.ReferralCipher
	Config         *config.Config
	Logger         *slog.Logger
}

// NewAuthService is the constructor for authService. It receives all dependencies as interfaces.
func NewAuthService(params AuthServiceParams) usecase.AuthUsecase {
	sessionTTL := 30 * 24 * time.Hour
	maxActiveSessions := 0
	if params.Config != nil && params.Config.Auth != nil {
		if params.Config.Auth.SessionTTL > 0 {
			sessionTTL = params.Config.Auth.SessionTTL
		}
		maxActiveSessions = params.Config.Auth.MaxActiveSessions
	}

	return &authService{
		txManager:         params.TxManager,
		userRepo:          params.UserRepo,
		sessionRepo:       params.SessionRepo,
		hasher:            params.Hasher,
		tokenService:      params.TokenService,
		tokenSource:       params.TokenSource,
		referralCipher:    params.ReferralCipher,
		sessionTTL:        sessionTTL,
		maxActiveSessions: maxActiveSessions,
		logger:            params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *authService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.LoggerOrDefault(ctx, srv.logger)
}

// SignUp orchestrates the complete user registration process.
func (srv *authService) SignUp(ctx context.Context, input usecase.SignUpInput) (*usecase.CredentialsOutput, error) {
	srv.log(ctx).Info("Starting signup", slog.String("login", input.Login))

	if err := validateSignUpInput(input); err != nil {
		srv.log(ctx).Warn("Signup validation failed", slog.String("login", input.Login), slog.Any("error", err))

		return nil, err
	}
	if err := srv.hasher.ValidatePasswordStrength(input.Password); err != nil {
		srv.log(ctx).Warn("Signup password rejected", slog.String("login", input.Login), slog.Any("error", err))

		return nil, err
	}

	// bcrypt is CPU-bound, so hash before entering the transaction.
	passwordHash, err := srv.hasher.Hash(ctx, input.Password)
	if err != nil {
		return nil, errors.Wrap(err, "failed to hash password during signup")
	}

	// A bad referral token silently degrades to "no referral".
	referrerID := srv.resolveReferrer(ctx, input.ReferralToken)

	handle, tokenHash, err := srv.tokenSource.NewHandle()
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate session handle")
	}

	now := time.Now()
	newUser := &entity.User{
		Login:             input.Login,
		FullName:          input.FullName,
		PasswordHash:      passwordHash,
		Role:              entity.RoleGuest,
		PasswordChangedAt: now,
	}

	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.UserRepo()

		loginTaken, err := userRepo.ExistsByLogin(ctx, input.Login)
		if err != nil {
			return errors.Wrap(err, "failed to check login availability")
		}
		if loginTaken {
			return domainerrors.ErrLoginTaken
		}

		nameTaken, err := userRepo.ExistsByFullName(ctx, input.FullName)
		if err != nil {
			return errors.Wrap(err, "failed to check full name availability")
		}
		if nameTaken {
			return domainerrors.ErrNameTaken
		}

		if err := userRepo.Create(ctx, newUser); err != nil {
			return errors.Wrap(err, "failed to create user during signup")
		}

		if referrerID != 0 {
			srv.attributeReferral(ctx, repoFactory, newUser, referrerID)
		}

		return srv.storeSession(ctx, repoFactory, newUser.ID, tokenHash)
	})
	if err != nil {
		srv.log(ctx).Warn("Signup failed", slog.String("login", input.Login), slog.Any("error", err))

		return nil, err
	}

	output, err := srv.buildCredentials(newUser, handle)
	if err != nil {
		return nil, err
	}

	srv.log(ctx).Debug("Signup completed", slog.Int64("userID", newUser.ID))

	return output, nil
}

// resolveReferrer decrypts a referral token into a referrer ID. Garbage
// tokens are logged and ignored.
func (srv *authService) resolveReferrer(ctx context.Context, token string) int64 {
	if token == "" {
		return 0
	}

	referrerID, err := srv.referralCipher.DecryptUserID(token)
	if err != nil {
		srv.log(ctx).Warn("Ignoring undecryptable referral token", slog.Any("error", err))

		return 0
	}

	return referrerID
}

// attributeReferral records the referral inside the signup transaction.
// A missing referrer is logged and skipped, never a signup failure.
func (srv *authService) attributeReferral(ctx context.Context, repoFactory repository.RepositoryFactory, newUser *entity.User, referrerID int64) {
	userRepo := repoFactory.UserRepo()
	referralRepo := repoFactory.ReferralRepo()

	if _, err := userRepo.FindByID(ctx, referrerID); err != nil {
		srv.log(ctx).Warn("Referral points to unknown user, skipping", slog.Int64("referrerID", referrerID), slog.Any("error", err))

		return
	}

	if err := referralRepo.Create(ctx, &entity.Referral{
		ReferrerID: referrerID,
		ReferredID: newUser.ID,
	}); err != nil {
		srv.log(ctx).Warn("Failed to record referral, skipping", slog.Int64("referrerID", referrerID), slog.Any("error", err))

		return
	}

	newUser.Referred = true
	if err := userRepo.Update(ctx, newUser); err != nil {
		srv.log(ctx).Warn("Failed to flag referred user", slog.Int64("userID", newUser.ID), slog.Any("error", err))
	}
}

// SignIn verifies a login/password pair and opens a new session.
func (srv *authService) SignIn(ctx context.Context, input usecase.SignInInput) (*usecase.CredentialsOutput, error) {
	srv.log(ctx).Debug("Starting signin", slog.String("login", input.Login))

	user, err := srv.userRepo.FindByLogin(ctx, input.Login)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			srv.log(ctx).Warn("Signin failed", slog.String("login", input.Login), slog.Any("error", domainerrors.ErrInvalidCredentials))

			return nil, domainerrors.ErrInvalidCredentials
		}

		return nil, errors.Wrap(err, "failed to load user for signin")
	}

	// Check password outside transaction (bcrypt is CPU-bound).
	if !srv.hasher.Check(ctx, input.Password, user.PasswordHash) {
		srv.log(ctx).Warn("Signin failed", slog.String("login", input.Login), slog.Any("error", domainerrors.ErrInvalidCredentials))

		return nil, domainerrors.ErrInvalidCredentials
	}

	handle, tokenHash, err := srv.tokenSource.NewHandle()
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate session handle")
	}

	if err := srv.persistSession(ctx, user.ID, tokenHash); err != nil {
		srv.log(ctx).Warn("Signin failed", slog.String("login", input.Login), slog.Any("error", err))

		return nil, err
	}

	srv.log(ctx).Debug("User signed in successfully", slog.Int64("userID", user.ID))

	return srv.buildCredentials(user, handle)
}

// Refresh atomically rotates a session handle. The whole swap happens in one
// transaction, so of two concurrent refreshes on the same handle exactly one
// wins; the loser observes the handle as already gone.
func (srv *authService) Refresh(ctx context.Context, sessionHandle string) (*usecase.CredentialsOutput, error) {
	srv.log(ctx).Debug("Attempting session rotation")

	if sessionHandle == "" {
		return nil, domainerrors.ErrMissingCredential
	}

	oldHash := srv.tokenSource.HashHandle(sessionHandle)

	newHandle, newHash, err := srv.tokenSource.NewHandle()
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate session handle")
	}

	var user *entity.User
	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		sessionRepo := repoFactory.SessionRepo()
		userRepo := repoFactory.UserRepo()

		session, err := sessionRepo.FindByHash(ctx, oldHash)
		if err != nil {
			if errors.Is(err, repository.ErrSessionNotFound) || errors.Is(err, repository.ErrSessionExpired) {
				return domainerrors.ErrSessionNotFound
			}

			return errors.Wrap(err, "failed to load session for rotation")
		}

		// Deleting by hash is the concurrency gate: the row can only be
		// consumed once, so the losing rotation rolls back here.
		if err := sessionRepo.DeleteByHash(ctx, oldHash); err != nil {
			if errors.Is(err, repository.ErrSessionNotFound) {
				return domainerrors.ErrSessionNotFound
			}

			return errors.Wrap(err, "failed to consume session during rotation")
		}

		user, err = userRepo.FindByID(ctx, session.UserID)
		if err != nil {
			return errors.Wrap(err, "failed to load session user during rotation")
		}

		return sessionRepo.Create(ctx, &entity.Session{
			UserID:    user.ID,
			TokenHash: newHash,
			ExpiresAt: time.Now().Add(srv.sessionTTL),
		})
	})
	if err != nil {
		srv.log(ctx).Warn("Session rotation failed", slog.Any("error", err))

		return nil, err
	}

	srv.log(ctx).Debug("Session rotated", slog.Int64("userID", user.ID))

	return srv.buildCredentials(user, newHandle)
}

// Logout revokes the presented session handle. Revoking an unknown or
// already-revoked handle is a no-op.
func (srv *authService) Logout(ctx context.Context, sessionHandle string) error {
	srv.log(ctx).Info("Attempting to log out")

	if sessionHandle == "" {
		return nil
	}

	tokenHash := srv.tokenSource.HashHandle(sessionHandle)

	// Single operation - use direct repository instance
	if err := srv.sessionRepo.DeleteByHash(ctx, tokenHash); err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			srv.log(ctx).Debug("Logout for unknown session handle")

			return nil
		}
		srv.log(ctx).Error("Failed to delete session", slog.Any("error", err))

		return errors.Wrap(err, "failed to delete session")
	}
	srv.log(ctx).Info("Successfully logged out")

	return nil
}

// ResolveIdentity authenticates a request. Verification order is fixed:
// session presence, session liveness, token presence, token signature,
// token expiry, user record, then password epoch. A request on a dead
// session is reported as such even when its token has also expired, so
// clients do not get sent to refresh a session that no longer exists.
func (srv *authService) ResolveIdentity(ctx context.Context, accessToken, sessionHandle string) (*entity.User, error) {
	if sessionHandle == "" {
		return nil, domainerrors.ErrMissingCredential
	}

	session, err := srv.sessionRepo.FindByHash(ctx, srv.tokenSource.HashHandle(sessionHandle))
	if err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) || errors.Is(err, repository.ErrSessionExpired) {
			return nil, domainerrors.ErrSessionNotFound
		}

		return nil, errors.Wrap(err, "failed to load session for identity resolution")
	}

	if accessToken == "" {
		return nil, domainerrors.ErrMissingCredential
	}

	claims, err := srv.tokenService.ValidateAccessToken(accessToken)
	if err != nil {
		if errors.Is(err, service.ErrTokenExpired) {
			return nil, domainerrors.ErrExpiredToken
		}

		return nil, domainerrors.ErrInvalidToken
	}

	// The two credentials must belong to the same account.
	if session.UserID != claims.UserID {
		srv.log(ctx).Warn("Access token and session handle disagree on user",
			slog.Int64("tokenUserID", claims.UserID),
			slog.Int64("sessionUserID", session.UserID))

		return nil, domainerrors.ErrInvalidToken
	}

	user, err := srv.userRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, domainerrors.ErrSessionUserNotFound
		}

		return nil, errors.Wrap(err, "failed to load user for identity resolution")
	}

	// Tokens minted before the last password change are rejected even
	// though their signature and expiry are fine.
	if claims.PasswordEpoch != user.PasswordEpoch() {
		return nil, domainerrors.ErrStaleToken
	}

	return user, nil
}

// ChangePassword installs a new password and revokes every session of the
// user. All outstanding access tokens go stale because the password epoch
// moves forward.
func (srv *authService) ChangePassword(ctx context.Context, userID int64, input usecase.ChangePasswordInput) error {
	srv.log(ctx).Info("Attempting password change", slog.Int64("userID", userID))

	user, err := srv.userRepo.FindByID(ctx, userID)
	if err != nil {
		return errors.Wrap(err, "failed to load user for password change")
	}

	if !srv.hasher.Check(ctx, input.OldPassword, user.PasswordHash) {
		srv.log(ctx).Warn("Password change rejected", slog.Int64("userID", userID), slog.Any("error", domainerrors.ErrInvalidCredentials))

		return domainerrors.ErrInvalidCredentials
	}

	if err := srv.hasher.ValidatePasswordStrength(input.NewPassword); err != nil {
		return err
	}

	newHash, err := srv.hasher.Hash(ctx, input.NewPassword)
	if err != nil {
		return errors.Wrap(err, "failed to hash new password")
	}

	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.UserRepo()
		sessionRepo := repoFactory.SessionRepo()

		current, err := userRepo.FindByID(ctx, userID)
		if err != nil {
			return errors.Wrap(err, "failed to reload user for password change")
		}

		current.PasswordHash = newHash
		current.PasswordChangedAt = nextPasswordEpoch(current.PasswordChangedAt)

		if err := userRepo.Update(ctx, current); err != nil {
			return errors.Wrap(err, "failed to persist new password")
		}

		if err := sessionRepo.DeleteByUserID(ctx, userID); err != nil {
			return errors.Wrap(err, "failed to revoke sessions after password change")
		}

		return nil
	})
	if err != nil {
		srv.log(ctx).Error("Password change failed", slog.Int64("userID", userID), slog.Any("error", err))

		return err
	}

	srv.log(ctx).Info("Password changed, all sessions revoked", slog.Int64("userID", userID))

	return nil
}

// nextPasswordEpoch returns the new password-change timestamp. The epoch must
// strictly advance even when the clock has not moved past the previous change
// at millisecond resolution.
func nextPasswordEpoch(prev time.Time) time.Time {
	now := time.Now()
	if now.UnixMilli() <= prev.UnixMilli() {
		return prev.Add(time.Millisecond)
	}

	return now
}

// persistSession stores a new session row, honoring the active-session limit
// when one is configured.
func (srv *authService) persistSession(ctx context.Context, userID int64, tokenHash string) error {
	if srv.maxActiveSessions > 0 {
		// When session limit is enabled, keep lock/count/insert in one short transaction.
		if err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
			return srv.storeSession(ctx, repoFactory, userID, tokenHash)
		}); err != nil {
			return err
		}

		return nil
	}

	// No session limit: direct insert avoids unnecessary transaction overhead.
	return srv.createSessionWithRepo(ctx, srv.sessionRepo, userID, tokenHash)
}

// storeSession persists the session inside an existing transaction, checking
// the session limit under a row lock on the user.
func (srv *authService) storeSession(ctx context.Context, repoFactory repository.RepositoryFactory, userID int64, tokenHash string) error {
	sessionRepo := repoFactory.SessionRepo()
	userRepo := repoFactory.UserRepo()

	if srv.maxActiveSessions > 0 {
		if err := userRepo.AcquireSessionMutex(ctx, userID); err != nil {
			return errors.Wrap(err, "failed to lock user row for session limit check")
		}

		activeSessions, err := sessionRepo.CountActiveByUserID(ctx, userID)
		if err != nil {
			return errors.Wrap(err, "failed to count active sessions")
		}
		if activeSessions >= srv.maxActiveSessions {
			return errors.Wrap(domainerrors.ErrSessionLimitExceeded, "active session limit exceeded")
		}
	}

	return srv.createSessionWithRepo(ctx, sessionRepo, userID, tokenHash)
}

func (srv *authService) createSessionWithRepo(ctx context.Context, sessionRepo repository.SessionRepository, userID int64, tokenHash string) error {
	newSession := &entity.Session{
		UserID:    userID,
		TokenHash: tokenHash,
		ExpiresAt: time.Now().Add(srv.sessionTTL),
	}

	if err := sessionRepo.Create(ctx, newSession); err != nil {
		return errors.Wrap(err, "failed to store session")
	}

	return nil
}

// buildCredentials mints the access token for a freshly opened session and
// assembles the credential pair.
func (srv *authService) buildCredentials(user *entity.User, sessionHandle string) (*usecase.CredentialsOutput, error) {
	accessToken, err := srv.tokenService.GenerateAccessToken(user.ID, user.PasswordChangedAt)
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate access token")
	}

	return &usecase.CredentialsOutput{
		User:           user,
		AccessToken:    accessToken,
		SessionHandle:  sessionHandle,
		SessionTTL:     srv.sessionTTL,
		AccessTokenTTL: srv.tokenService.AccessTokenTTL(),
	}, nil
}
