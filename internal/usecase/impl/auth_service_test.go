package impl

import (
	"context"
	"testing"
	"time"

	"tracker/internal/domain/entity"
	domainerrors "tracker/internal/domain/errors"
	"tracker/internal/domain/repository"
	"tracker/internal/domain/service"
	infraauth "tracker/internal/infra/auth"
	mockRepo "tracker/internal/mocks/repository"
	mockSvc "tracker/internal/mocks/service"
	"tracker/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// authServiceFixtures holds all test dependencies for auth service tests.
type authServiceFixtures struct {
	service      usecase.AuthUsecase
	userRepo     *mockRepo.MockUserRepository
	sessionRepo  *mockRepo.MockSessionRepository
	referralRepo *mockRepo.MockReferralRepository
	hasher       *mockSvc.MockPasswordHasher
	tokenService *mockSvc.MockTokenService
	tokenSource  *mockSvc.MockSessionTokenSource
	cipher       *mockSvc.MockReferralCipher
}

func createTestAuthService(t *testing.T, maxActiveSessions int) authServiceFixtures {
	userRepo := mockRepo.NewMockUserRepository(t)
	sessionRepo := mockRepo.NewMockSessionRepository(t)
	referralRepo := mockRepo.NewMockReferralRepository(t)
	hasher := mockSvc.NewMockPasswordHasher(t)
	tokenService := mockSvc.NewMockTokenService(t)
	tokenSource := mockSvc.NewMockSessionTokenSource(t)
	cipher := mockSvc.NewMockReferralCipher(t)

	factory := &fakeRepoFactory{
		userRepo:     userRepo,
		sessionRepo:  sessionRepo,
		referralRepo: referralRepo,
	}

	svc := NewAuthService(AuthServiceParams{
		TxManager:      &fakeTxManager{factory: factory},
		UserRepo:       userRepo,
		SessionRepo:    sessionRepo,
		Hasher:         hasher,
		TokenService:   tokenService,
		TokenSource:    tokenSource,
		ReferralCipher: cipher,
		Config:         newTestConfig(maxActiveSessions),
		Logger:         newDiscardLogger(),
	})

	return authServiceFixtures{
		service:      svc,
		userRepo:     userRepo,
		sessionRepo:  sessionRepo,
		referralRepo: referralRepo,
		hasher:       hasher,
		tokenService: tokenService,
		tokenSource:  tokenSource,
		cipher:       cipher,
	}
}

func signUpInput() usecase.SignUpInput {
	return usecase.SignUpInput{
		FullName:       "Ada Lovelace",
		Login:          "ada",
		Password:       "secret12",
		PasswordRepeat: "secret12",
	}
}

func TestAuthService_SignUp_Success(t *testing.T) {
	fx := createTestAuthService(t, 0)
	ctx := context.Background()

	fx.hasher.On("ValidatePasswordStrength", "secret12").Return(nil)
	fx.hasher.On("Hash", mock.Anything, "secret12").Return("hashed", nil)
	fx.tokenSource.On("NewHandle").Return("handle-plain", "handle-hash", nil)
	fx.userRepo.On("ExistsByLogin", mock.Anything, "ada").Return(false, nil)
	fx.userRepo.On("ExistsByFullName", mock.Anything, "Ada Lovelace").Return(false, nil)
	fx.userRepo.On("Create", mock.Anything, mock.AnythingOfType("*entity.User")).
		Run(func(args mock.Arguments) {
			args.Get(1).(*entity.User).ID = 7
		}).
		Return(nil)
	fx.sessionRepo.On("Create", mock.Anything, mock.AnythingOfType("*entity.Session")).
		Run(func(args mock.Arguments) {
			session := args.Get(1).(*entity.Session)
			assert.Equal(t, int64(7), session.UserID)
			assert.Equal(t, "handle-hash", session.TokenHash)
			assert.True(t, session.ExpiresAt.After(time.Now()))
		}).
		Return(nil)
	fx.tokenService.On("GenerateAccessToken", int64(7), mock.AnythingOfType("time.Time")).Return("access-token", nil)
	fx.tokenService.On("AccessTokenTTL").Return(15 * time.Minute)

	output, err := fx.service.SignUp(ctx, signUpInput())

	require.NoError(t, err)
	assert.Equal(t, "access-token", output.AccessToken)
	assert.Equal(t, "handle-plain", output.SessionHandle)
	assert.Equal(t, entity.RoleGuest, output.User.Role)
	assert.Equal(t, int64(7), output.User.ID)
	assert.False(t, output.User.Referred)
}

func TestAuthService_SignUp_LoginTaken(t *testing.T) {
	fx := createTestAuthService(t, 0)

	fx.hasher.On("ValidatePasswordStrength", "secret12").Return(nil)
	fx.hasher.On("Hash", mock.Anything, "secret12").Return("hashed", nil)
	fx.tokenSource.On("NewHandle").Return("handle-plain", "handle-hash", nil)
	fx.userRepo.On("ExistsByLogin", mock.Anything, "ada").Return(true, nil)

	_, err := fx.service.SignUp(context.Background(), signUpInput())

	assert.ErrorIs(t, err, domainerrors.ErrLoginTaken)
	fx.sessionRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestAuthService_SignUp_FullNameTaken(t *testing.T) {
	fx := createTestAuthService(t, 0)

	fx.hasher.On("ValidatePasswordStrength", "secret12").Return(nil)
	fx.hasher.On("Hash", mock.Anything, "secret12").Return("hashed", nil)
	fx.tokenSource.On("NewHandle").Return("handle-plain", "handle-hash", nil)
	fx.userRepo.On("ExistsByLogin", mock.Anything, "ada").Return(false, nil)
	fx.userRepo.On("ExistsByFullName", mock.Anything, "Ada Lovelace").Return(true, nil)

	_, err := fx.service.SignUp(context.Background(), signUpInput())

	assert.ErrorIs(t, err, domainerrors.ErrNameTaken)
	fx.userRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestAuthService_SignUp_PasswordMismatch(t *testing.T) {
	fx := createTestAuthService(t, 0)

	input := signUpInput()
	input.PasswordRepeat = "different"

	_, err := fx.service.SignUp(context.Background(), input)

	require.Error(t, err)
	var appErr domainerrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "VALIDATION_FAILED", appErr.ErrorCode())
}

func TestAuthService_SignUp_WithReferral(t *testing.T) {
	fx := createTestAuthService(t, 0)

	referrer := &entity.User{ID: 3, Login: "bob", Role: entity.RoleMember}

	fx.hasher.On("ValidatePasswordStrength", "secret12").Return(nil)
	fx.hasher.On("Hash", mock.Anything, "secret12").Return("hashed", nil)
	fx.cipher.On("DecryptUserID", "ref-token").Return(int64(3), nil)
	fx.tokenSource.On("NewHandle").Return("handle-plain", "handle-hash", nil)
	fx.userRepo.On("ExistsByLogin", mock.Anything, "ada").Return(false, nil)
	fx.userRepo.On("ExistsByFullName", mock.Anything, "Ada Lovelace").Return(false, nil)
	fx.userRepo.On("Create", mock.Anything, mock.AnythingOfType("*entity.User")).
		Run(func(args mock.Arguments) {
			args.Get(1).(*entity.User).ID = 7
		}).
		Return(nil)
	fx.userRepo.On("FindByID", mock.Anything, int64(3)).Return(referrer, nil)
	fx.referralRepo.On("Create", mock.Anything, mock.AnythingOfType("*entity.Referral")).
		Run(func(args mock.Arguments) {
			referral := args.Get(1).(*entity.Referral)
			assert.Equal(t, int64(3), referral.ReferrerID)
			assert.Equal(t, int64(7), referral.ReferredID)
		}).
		Return(nil)
	fx.userRepo.On("Update", mock.Anything, mock.AnythingOfType("*entity.User")).Return(nil)
	fx.sessionRepo.On("Create", mock.Anything, mock.AnythingOfType("*entity.Session")).Return(nil)
	fx.tokenService.On("GenerateAccessToken", int64(7), mock.AnythingOfType("time.Time")).Return("access-token", nil)
	fx.tokenService.On("AccessTokenTTL").Return(15 * time.Minute)

	input := signUpInput()
	input.ReferralToken = "ref-token"

	output, err := fx.service.SignUp(context.Background(), input)

	require.NoError(t, err)
	assert.True(t, output.User.Referred)
}

func TestAuthService_SignUp_BadReferralTokenIsIgnored(t *testing.T) {
	fx := createTestAuthService(t, 0)

	fx.hasher.On("ValidatePasswordStrength", "secret12").Return(nil)
	fx.hasher.On("Hash", mock.Anything, "secret12").Return("hashed", nil)
	fx.cipher.On("DecryptUserID", "garbage").Return(int64(0), service.ErrReferralTokenInvalid)
	fx.tokenSource.On("NewHandle").Return("handle-plain", "handle-hash", nil)
	fx.userRepo.On("ExistsByLogin", mock.Anything, "ada").Return(false, nil)
	fx.userRepo.On("ExistsByFullName", mock.Anything, "Ada Lovelace").Return(false, nil)
	fx.userRepo.On("Create", mock.Anything, mock.AnythingOfType("*entity.User")).
		Run(func(args mock.Arguments) {
			args.Get(1).(*entity.User).ID = 7
		}).
		Return(nil)
	fx.sessionRepo.On("Create", mock.Anything, mock.AnythingOfType("*entity.Session")).Return(nil)
	fx.tokenService.On("GenerateAccessToken", int64(7), mock.AnythingOfType("time.Time")).Return("access-token", nil)
	fx.tokenService.On("AccessTokenTTL").Return(15 * time.Minute)

	input := signUpInput()
	input.ReferralToken = "garbage"

	output, err := fx.service.SignUp(context.Background(), input)

	require.NoError(t, err)
	assert.False(t, output.User.Referred)
	fx.referralRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestAuthService_SignIn_Success(t *testing.T) {
	fx := createTestAuthService(t, 0)

	user := &entity.User{
		ID:                7,
		Login:             "ada",
		PasswordHash:      "stored-hash",
		Role:              entity.RoleMember,
		PasswordChangedAt: time.Now().Add(-time.Hour),
	}

	fx.userRepo.On("FindByLogin", mock.Anything, "ada").Return(user, nil)
	fx.hasher.On("Check", mock.Anything, "secret12", "stored-hash").Return(true)
	fx.tokenSource.On("NewHandle").Return("handle-plain", "handle-hash", nil)
	fx.sessionRepo.On("Create", mock.Anything, mock.AnythingOfType("*entity.Session")).Return(nil)
	fx.tokenService.On("GenerateAccessToken", int64(7), user.PasswordChangedAt).Return("access-token", nil)
	fx.tokenService.On("AccessTokenTTL").Return(15 * time.Minute)

	output, err := fx.service.SignIn(context.Background(), usecase.SignInInput{Login: "ada", Password: "secret12"})

	require.NoError(t, err)
	assert.Equal(t, "access-token", output.AccessToken)
	assert.Equal(t, "handle-plain", output.SessionHandle)
}

func TestAuthService_SignIn_WrongPasswordCreatesNoSession(t *testing.T) {
	fx := createTestAuthService(t, 0)

	user := &entity.User{ID: 7, Login: "ada", PasswordHash: "stored-hash"}

	fx.userRepo.On("FindByLogin", mock.Anything, "ada").Return(user, nil)
	fx.hasher.On("Check", mock.Anything, "wrong", "stored-hash").Return(false)

	_, err := fx.service.SignIn(context.Background(), usecase.SignInInput{Login: "ada", Password: "wrong"})

	assert.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)
	fx.sessionRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	fx.tokenSource.AssertNotCalled(t, "NewHandle")
}

func TestAuthService_SignIn_UnknownLogin(t *testing.T) {
	fx := createTestAuthService(t, 0)

	fx.userRepo.On("FindByLogin", mock.Anything, "ghost").Return(nil, repository.ErrUserNotFound)

	_, err := fx.service.SignIn(context.Background(), usecase.SignInInput{Login: "ghost", Password: "whatever"})

	// Unknown login and wrong password are indistinguishable to the caller.
	assert.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)
}

func TestAuthService_SignIn_SessionLimitExceeded(t *testing.T) {
	fx := createTestAuthService(t, 2)

	user := &entity.User{ID: 7, Login: "ada", PasswordHash: "stored-hash"}

	fx.userRepo.On("FindByLogin", mock.Anything, "ada").Return(user, nil)
	fx.hasher.On("Check", mock.Anything, "secret12", "stored-hash").Return(true)
	fx.tokenSource.On("NewHandle").Return("handle-plain", "handle-hash", nil)
	fx.userRepo.On("AcquireSessionMutex", mock.Anything, int64(7)).Return(nil)
	fx.sessionRepo.On("CountActiveByUserID", mock.Anything, int64(7)).Return(2, nil)

	_, err := fx.service.SignIn(context.Background(), usecase.SignInInput{Login: "ada", Password: "secret12"})

	assert.ErrorIs(t, err, domainerrors.ErrSessionLimitExceeded)
	fx.sessionRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestAuthService_Refresh_Success(t *testing.T) {
	fx := createTestAuthService(t, 0)

	user := &entity.User{ID: 7, Login: "ada", PasswordChangedAt: time.Now().Add(-time.Hour)}
	session := &entity.Session{UserID: 7, TokenHash: "old-hash", ExpiresAt: time.Now().Add(time.Hour)}

	fx.tokenSource.On("HashHandle", "old-handle").Return("old-hash")
	fx.tokenSource.On("NewHandle").Return("new-handle", "new-hash", nil)
	fx.sessionRepo.On("FindByHash", mock.Anything, "old-hash").Return(session, nil)
	fx.sessionRepo.On("DeleteByHash", mock.Anything, "old-hash").Return(nil)
	fx.userRepo.On("FindByID", mock.Anything, int64(7)).Return(user, nil)
	fx.sessionRepo.On("Create", mock.Anything, mock.AnythingOfType("*entity.Session")).
		Run(func(args mock.Arguments) {
			created := args.Get(1).(*entity.Session)
			assert.Equal(t, "new-hash", created.TokenHash)
			assert.Equal(t, int64(7), created.UserID)
		}).
		Return(nil)
	fx.tokenService.On("GenerateAccessToken", int64(7), user.PasswordChangedAt).Return("fresh-access", nil)
	fx.tokenService.On("AccessTokenTTL").Return(15 * time.Minute)

	output, err := fx.service.Refresh(context.Background(), "old-handle")

	require.NoError(t, err)
	assert.Equal(t, "fresh-access", output.AccessToken)
	assert.Equal(t, "new-handle", output.SessionHandle)
	assert.Equal(t, int64(7), output.User.ID)
}

func TestAuthService_Refresh_UnknownHandle(t *testing.T) {
	fx := createTestAuthService(t, 0)

	fx.tokenSource.On("HashHandle", "dead-handle").Return("dead-hash")
	fx.tokenSource.On("NewHandle").Return("new-handle", "new-hash", nil)
	fx.sessionRepo.On("FindByHash", mock.Anything, "dead-hash").Return(nil, repository.ErrSessionNotFound)

	_, err := fx.service.Refresh(context.Background(), "dead-handle")

	assert.ErrorIs(t, err, domainerrors.ErrSessionNotFound)
}

func TestAuthService_Refresh_LosesRace(t *testing.T) {
	fx := createTestAuthService(t, 0)

	session := &entity.Session{UserID: 7, TokenHash: "old-hash", ExpiresAt: time.Now().Add(time.Hour)}

	fx.tokenSource.On("HashHandle", "old-handle").Return("old-hash")
	fx.tokenSource.On("NewHandle").Return("new-handle", "new-hash", nil)
	fx.sessionRepo.On("FindByHash", mock.Anything, "old-hash").Return(session, nil)
	// A concurrent rotation consumed the handle between the read and the delete.
	fx.sessionRepo.On("DeleteByHash", mock.Anything, "old-hash").Return(repository.ErrSessionNotFound)

	_, err := fx.service.Refresh(context.Background(), "old-handle")

	assert.ErrorIs(t, err, domainerrors.ErrSessionNotFound)
	fx.sessionRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestAuthService_Refresh_ExpiredHandle(t *testing.T) {
	fx := createTestAuthService(t, 0)

	fx.tokenSource.On("HashHandle", "stale-handle").Return("stale-hash")
	fx.tokenSource.On("NewHandle").Return("new-handle", "new-hash", nil)
	fx.sessionRepo.On("FindByHash", mock.Anything, "stale-hash").Return(nil, repository.ErrSessionExpired)

	_, err := fx.service.Refresh(context.Background(), "stale-handle")

	assert.ErrorIs(t, err, domainerrors.ErrSessionNotFound)
}

func TestAuthService_Logout_Success(t *testing.T) {
	fx := createTestAuthService(t, 0)

	fx.tokenSource.On("HashHandle", "handle").Return("hash")
	fx.sessionRepo.On("DeleteByHash", mock.Anything, "hash").Return(nil)

	assert.NoError(t, fx.service.Logout(context.Background(), "handle"))
}

func TestAuthService_Logout_UnknownHandleIsNoop(t *testing.T) {
	fx := createTestAuthService(t, 0)

	fx.tokenSource.On("HashHandle", "gone").Return("gone-hash")
	fx.sessionRepo.On("DeleteByHash", mock.Anything, "gone-hash").Return(repository.ErrSessionNotFound)

	assert.NoError(t, fx.service.Logout(context.Background(), "gone"))
}

func TestAuthService_ResolveIdentity(t *testing.T) {
	now := time.Now()
	passwordChangedAt := now.Add(-time.Hour)
	user := &entity.User{ID: 7, Login: "ada", Role: entity.RoleMember, PasswordChangedAt: passwordChangedAt}
	liveSession := &entity.Session{UserID: 7, TokenHash: "hash", ExpiresAt: now.Add(time.Hour)}

	t.Run("missing credentials", func(t *testing.T) {
		fx := createTestAuthService(t, 0)

		_, err := fx.service.ResolveIdentity(context.Background(), "token", "")
		assert.ErrorIs(t, err, domainerrors.ErrMissingCredential)

		fx.tokenSource.On("HashHandle", "handle").Return("hash")
		fx.sessionRepo.On("FindByHash", mock.Anything, "hash").Return(liveSession, nil)

		_, err = fx.service.ResolveIdentity(context.Background(), "", "handle")
		assert.ErrorIs(t, err, domainerrors.ErrMissingCredential)
	})

	t.Run("revoked session", func(t *testing.T) {
		fx := createTestAuthService(t, 0)

		fx.tokenSource.On("HashHandle", "handle").Return("hash")
		fx.sessionRepo.On("FindByHash", mock.Anything, "hash").Return(nil, repository.ErrSessionNotFound)

		_, err := fx.service.ResolveIdentity(context.Background(), "token", "handle")
		assert.ErrorIs(t, err, domainerrors.ErrSessionNotFound)
	})

	t.Run("dead session wins over expired token", func(t *testing.T) {
		fx := createTestAuthService(t, 0)

		// Both credentials are dead; the session verdict must come first so
		// the client signs in again instead of attempting a refresh.
		fx.tokenSource.On("HashHandle", "handle").Return("hash")
		fx.sessionRepo.On("FindByHash", mock.Anything, "hash").Return(nil, repository.ErrSessionExpired)

		_, err := fx.service.ResolveIdentity(context.Background(), "long-expired-token", "handle")
		assert.ErrorIs(t, err, domainerrors.ErrSessionNotFound)
		fx.tokenService.AssertNotCalled(t, "ValidateAccessToken", mock.Anything)
	})

	t.Run("malformed token", func(t *testing.T) {
		fx := createTestAuthService(t, 0)

		fx.tokenSource.On("HashHandle", "handle").Return("hash")
		fx.sessionRepo.On("FindByHash", mock.Anything, "hash").Return(liveSession, nil)
		fx.tokenService.On("ValidateAccessToken", "bad").Return(nil, service.ErrTokenMalformed)

		_, err := fx.service.ResolveIdentity(context.Background(), "bad", "handle")
		assert.ErrorIs(t, err, domainerrors.ErrInvalidToken)
	})

	t.Run("expired token on a live session", func(t *testing.T) {
		fx := createTestAuthService(t, 0)

		fx.tokenSource.On("HashHandle", "handle").Return("hash")
		fx.sessionRepo.On("FindByHash", mock.Anything, "hash").Return(liveSession, nil)
		fx.tokenService.On("ValidateAccessToken", "old").Return(nil, service.ErrTokenExpired)

		_, err := fx.service.ResolveIdentity(context.Background(), "old", "handle")
		assert.ErrorIs(t, err, domainerrors.ErrExpiredToken)
	})

	t.Run("token and session user mismatch", func(t *testing.T) {
		fx := createTestAuthService(t, 0)

		otherSession := &entity.Session{UserID: 99, TokenHash: "hash", ExpiresAt: now.Add(time.Hour)}

		fx.tokenSource.On("HashHandle", "handle").Return("hash")
		fx.sessionRepo.On("FindByHash", mock.Anything, "hash").Return(otherSession, nil)
		fx.tokenService.On("ValidateAccessToken", "token").
			Return(&service.AccessClaims{UserID: 7, PasswordEpoch: passwordChangedAt.UnixMilli()}, nil)

		_, err := fx.service.ResolveIdentity(context.Background(), "token", "handle")
		assert.ErrorIs(t, err, domainerrors.ErrInvalidToken)
	})

	t.Run("user record gone", func(t *testing.T) {
		fx := createTestAuthService(t, 0)

		fx.tokenSource.On("HashHandle", "handle").Return("hash")
		fx.sessionRepo.On("FindByHash", mock.Anything, "hash").Return(liveSession, nil)
		fx.tokenService.On("ValidateAccessToken", "token").
			Return(&service.AccessClaims{UserID: 7, PasswordEpoch: passwordChangedAt.UnixMilli()}, nil)
		fx.userRepo.On("FindByID", mock.Anything, int64(7)).Return(nil, repository.ErrUserNotFound)

		_, err := fx.service.ResolveIdentity(context.Background(), "token", "handle")
		assert.ErrorIs(t, err, domainerrors.ErrSessionUserNotFound)
	})

	t.Run("stale password epoch", func(t *testing.T) {
		fx := createTestAuthService(t, 0)

		staleEpoch := passwordChangedAt.Add(-time.Minute).UnixMilli()

		fx.tokenSource.On("HashHandle", "handle").Return("hash")
		fx.sessionRepo.On("FindByHash", mock.Anything, "hash").Return(liveSession, nil)
		fx.tokenService.On("ValidateAccessToken", "token").
			Return(&service.AccessClaims{UserID: 7, PasswordEpoch: staleEpoch}, nil)
		fx.userRepo.On("FindByID", mock.Anything, int64(7)).Return(user, nil)

		_, err := fx.service.ResolveIdentity(context.Background(), "token", "handle")
		assert.ErrorIs(t, err, domainerrors.ErrStaleToken)
	})

	t.Run("success", func(t *testing.T) {
		fx := createTestAuthService(t, 0)

		fx.tokenSource.On("HashHandle", "handle").Return("hash")
		fx.sessionRepo.On("FindByHash", mock.Anything, "hash").Return(liveSession, nil)
		fx.tokenService.On("ValidateAccessToken", "token").
			Return(&service.AccessClaims{UserID: 7, PasswordEpoch: passwordChangedAt.UnixMilli()}, nil)
		fx.userRepo.On("FindByID", mock.Anything, int64(7)).Return(user, nil)

		resolved, err := fx.service.ResolveIdentity(context.Background(), "token", "handle")

		require.NoError(t, err)
		assert.Equal(t, int64(7), resolved.ID)
		assert.Equal(t, entity.RoleMember, resolved.Role)
	})
}

func TestAuthService_ChangePassword_Success(t *testing.T) {
	fx := createTestAuthService(t, 0)

	previousChange := time.Now().Add(-time.Hour)
	user := &entity.User{ID: 7, Login: "ada", PasswordHash: "old-hash", PasswordChangedAt: previousChange}

	fx.userRepo.On("FindByID", mock.Anything, int64(7)).Return(user, nil)
	fx.hasher.On("Check", mock.Anything, "old-pass", "old-hash").Return(true)
	fx.hasher.On("ValidatePasswordStrength", "new-pass1").Return(nil)
	fx.hasher.On("Hash", mock.Anything, "new-pass1").Return("new-hash", nil)
	fx.userRepo.On("Update", mock.Anything, mock.AnythingOfType("*entity.User")).
		Run(func(args mock.Arguments) {
			updated := args.Get(1).(*entity.User)
			assert.Equal(t, "new-hash", updated.PasswordHash)
			// Every outstanding token's epoch must now be stale.
			assert.Greater(t, updated.PasswordChangedAt.UnixMilli(), previousChange.UnixMilli())
		}).
		Return(nil)
	fx.sessionRepo.On("DeleteByUserID", mock.Anything, int64(7)).Return(nil)

	err := fx.service.ChangePassword(context.Background(), 7, usecase.ChangePasswordInput{
		OldPassword: "old-pass",
		NewPassword: "new-pass1",
	})

	require.NoError(t, err)
}

func TestAuthService_ChangePassword_WrongOldPassword(t *testing.T) {
	fx := createTestAuthService(t, 0)

	user := &entity.User{ID: 7, PasswordHash: "old-hash"}

	fx.userRepo.On("FindByID", mock.Anything, int64(7)).Return(user, nil)
	fx.hasher.On("Check", mock.Anything, "nope", "old-hash").Return(false)

	err := fx.service.ChangePassword(context.Background(), 7, usecase.ChangePasswordInput{
		OldPassword: "nope",
		NewPassword: "new-pass1",
	})

	assert.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)
	fx.sessionRepo.AssertNotCalled(t, "DeleteByUserID", mock.Anything, mock.Anything)
}

func TestNextPasswordEpoch_Monotonic(t *testing.T) {
	t.Parallel()

	past := time.Now().Add(-time.Hour)
	assert.Greater(t, nextPasswordEpoch(past).UnixMilli(), past.UnixMilli())

	// Even if the previous change is "now" or in the future, the epoch advances.
	now := time.Now()
	assert.Greater(t, nextPasswordEpoch(now).UnixMilli(), now.UnixMilli()-1)

	future := time.Now().Add(time.Minute)
	assert.Equal(t, future.Add(time.Millisecond).UnixMilli(), nextPasswordEpoch(future).UnixMilli())
}

// TestAuthService_ResolveIdentity_RealTokenRoundTrip runs identity resolution
// against the real JWT issuer and session token source, so the password epoch
// is exercised through actual token signing and JSON claim decoding rather
// than canned claims.
func TestAuthService_ResolveIdentity_RealTokenRoundTrip(t *testing.T) {
	cfg := newTestConfig(0)
	cfg.SecretKey.Access = "resolve-identity-round-trip-secret"

	tokenService, err := infraauth.NewJWTService(cfg)
	require.NoError(t, err)
	tokenSource := infraauth.NewSessionTokenSource()

	newService := func(t *testing.T) (usecase.AuthUsecase, *mockRepo.MockUserRepository, *mockRepo.MockSessionRepository) {
		userRepo := mockRepo.NewMockUserRepository(t)
		sessionRepo := mockRepo.NewMockSessionRepository(t)

		svc := NewAuthService(AuthServiceParams{
			TxManager:    &fakeTxManager{factory: &fakeRepoFactory{userRepo: userRepo, sessionRepo: sessionRepo}},
			UserRepo:     userRepo,
			SessionRepo:  sessionRepo,
			TokenService: tokenService,
			TokenSource:  tokenSource,
			Config:       cfg,
			Logger:       newDiscardLogger(),
		})

		return svc, userRepo, sessionRepo
	}

	user := &entity.User{
		ID:                7,
		Login:             "ada",
		FullName:          "Ada Lovelace",
		Role:              entity.RoleMember,
		PasswordChangedAt: time.Now().Add(-time.Hour),
	}

	handle, handleHash, err := tokenSource.NewHandle()
	require.NoError(t, err)

	accessToken, err := tokenService.GenerateAccessToken(user.ID, user.PasswordChangedAt)
	require.NoError(t, err)

	session := &entity.Session{UserID: user.ID, TokenHash: handleHash, ExpiresAt: time.Now().Add(time.Hour)}

	t.Run("token minted for the current epoch resolves", func(t *testing.T) {
		svc, userRepo, sessionRepo := newService(t)

		sessionRepo.On("FindByHash", mock.Anything, handleHash).Return(session, nil)
		userRepo.On("FindByID", mock.Anything, user.ID).Return(user, nil)

		resolved, err := svc.ResolveIdentity(context.Background(), accessToken, handle)

		require.NoError(t, err)
		assert.Equal(t, user.ID, resolved.ID)
		assert.Equal(t, entity.RoleMember, resolved.Role)
	})

	t.Run("password change invalidates the old token", func(t *testing.T) {
		svc, userRepo, sessionRepo := newService(t)

		changed := *user
		changed.PasswordChangedAt = nextPasswordEpoch(user.PasswordChangedAt)

		sessionRepo.On("FindByHash", mock.Anything, handleHash).Return(session, nil)
		userRepo.On("FindByID", mock.Anything, user.ID).Return(&changed, nil)

		_, err := svc.ResolveIdentity(context.Background(), accessToken, handle)
		assert.ErrorIs(t, err, domainerrors.ErrStaleToken)
	})

	t.Run("token signed with another secret is rejected", func(t *testing.T) {
		otherCfg := newTestConfig(0)
		otherCfg.SecretKey.Access = "a-different-signing-secret"
		otherIssuer, err := infraauth.NewJWTService(otherCfg)
		require.NoError(t, err)

		forged, err := otherIssuer.GenerateAccessToken(user.ID, user.PasswordChangedAt)
		require.NoError(t, err)

		svc, _, sessionRepo := newService(t)
		sessionRepo.On("FindByHash", mock.Anything, handleHash).Return(session, nil)

		_, err = svc.ResolveIdentity(context.Background(), forged, handle)
		assert.ErrorIs(t, err, domainerrors.ErrInvalidToken)
	})
}
