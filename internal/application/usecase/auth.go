package usecase

import (
	"context"
	"strings"

	"coursestream/internal/domain"
	"coursestream/internal/infrastructure/cache"
	"coursestream/internal/infrastructure/email"
	"coursestream/internal/infrastructure/logger"
	"coursestream/internal/infrastructure/ratelimit"
	"coursestream/internal/infrastructure/repository"
	"coursestream/internal/infrastructure/security"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

const minPasswordLength = 6

type RegisterInput struct {
	Username string
	Email    string
	Password string
	FullName string
	Phone    string
}

type Tokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type AuthUseCase struct {
	userRepo     *repository.UserRepository
	tokenCache   *cache.TokenCache
	hasher       *security.PasswordHasher
	tokenManager *security.TokenManager
	emailSender  email.Sender
	limiter      *ratelimit.AttemptLimiter
	log          *logger.Logger
}

func NewAuthUseCase(
	ur *repository.UserRepository,
	tc *cache.TokenCache,
	h *security.PasswordHasher,
	tm *security.TokenManager,
	es email.Sender,
	rl *ratelimit.AttemptLimiter,
	l *logger.Logger,
) *AuthUseCase {
	return &AuthUseCase{
		userRepo:     ur,
		tokenCache:   tc,
		hasher:       h,
		tokenManager: tm,
		emailSender:  es,
		limiter:      rl,
		log:          l,
	}
}

func checkPassword(password, confirm string) error {
	if len(password) < minPasswordLength {
		return domain.Invalid("password", "must be at least 6 characters")
	}
	if password != confirm {
		return domain.Invalid("confirm_password", "does not match")
	}
	return nil
}

// Register creates an account. The very first account becomes an administrator.
func (uc *AuthUseCase) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if err := checkPassword(in.Password, in.Password); err != nil {
		return nil, err
	}

	exists, err := uc.userRepo.Exists(ctx, in.Username, in.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrUserAlreadyExists
	}

	count, err := uc.userRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	role := domain.RoleUser
	if count == 0 {
		role = domain.RoleAdmin
	}

	hash, err := uc.hasher.Hash(in.Password)
	if err != nil {
		return nil, errors.Wrap(err, "hashing password")
	}

	user := &domain.User{
		ID:       uuid.New(),
		Username: in.Username,
		Email:    in.Email,
		Password: hash,
		FullName: strings.TrimSpace(in.FullName),
		Phone:    strings.TrimSpace(in.Phone),
		Role:     role,
		Active:   true,
	}
	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	uc.log.Info("user registered", "user", user.ID, "role", user.Role)
	return user, nil
}

// Login accepts a username or an email.
func (uc *AuthUseCase) Login(ctx context.Context, login, password string) (*domain.User, Tokens, error) {
	user, err := uc.userRepo.GetByLogin(ctx, strings.TrimSpace(login))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, Tokens{}, domain.ErrInvalidCredentials
		}
		return nil, Tokens{}, err
	}
	if err := uc.hasher.Compare(user.Password, password); err != nil {
		return nil, Tokens{}, domain.ErrInvalidCredentials
	}
	if !user.Active {
		return nil, Tokens{}, domain.ErrUserInactive
	}

	tokens, err := uc.generateAndSaveTokens(ctx, user)
	return user, tokens, err
}

func (uc *AuthUseCase) Refresh(ctx context.Context, oldRefreshToken string) (Tokens, error) {
	claims, err := uc.tokenManager.ValidateRefreshToken(oldRefreshToken)
	if err != nil {
		return Tokens{}, err
	}

	cachedID, err := uc.tokenCache.ConsumeRefresh(ctx, oldRefreshToken)
	if err != nil {
		return Tokens{}, err
	}
	if cachedID != claims.UserID.String() {
		return Tokens{}, domain.ErrInvalidToken
	}

	// the role or status may have changed since the token was issued
	user, err := uc.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		return Tokens{}, domain.ErrInvalidToken
	}
	if !user.Active {
		return Tokens{}, domain.ErrUserInactive
	}
	return uc.generateAndSaveTokens(ctx, user)
}

func (uc *AuthUseCase) Logout(ctx context.Context, refreshToken string) error {
	return uc.tokenCache.DeleteRefresh(ctx, refreshToken)
}

func (uc *AuthUseCase) generateAndSaveTokens(ctx context.Context, user *domain.User) (Tokens, error) {
	access, refresh, err := uc.tokenManager.Generate(user.ID, user.Role)
	if err != nil {
		return Tokens{}, err
	}
	if err := uc.tokenCache.SaveRefresh(ctx, user.ID.String(), refresh); err != nil {
		return Tokens{}, errors.Wrap(err, "saving refresh token")
	}
	return Tokens{AccessToken: access, RefreshToken: refresh}, nil
}

func (uc *AuthUseCase) Me(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	return uc.userRepo.GetByID(ctx, userID)
}

// ForgotPassword mails a reset link. The result never tells whether the
// address belongs to an account.
func (uc *AuthUseCase) ForgotPassword(ctx context.Context, address string) error {
	address = strings.ToLower(strings.TrimSpace(address))
	if !uc.limiter.Allow(address) {
		uc.log.Warn("password reset throttled", "email", address)
		return domain.ErrTooManyAttempts
	}

	user, err := uc.userRepo.GetByEmail(ctx, address)
	if errors.Is(err, domain.ErrUserNotFound) {
		uc.log.Debug("password reset for unknown email", "email", address)
		return nil
	}
	if err != nil {
		return err
	}
	if !user.Active {
		return nil
	}

	token := uuid.NewString()
	if err := uc.tokenCache.SaveResetToken(ctx, token, user.ID.String()); err != nil {
		return errors.Wrap(err, "saving reset token")
	}

	if err := uc.emailSender.SendPasswordReset(ctx, user.Email, user.Username, token); err != nil {
		uc.log.Error("reset email failed", err, "user", user.ID)
		return nil
	}
	uc.limiter.Reset(address)
	return nil
}

// RetryAfter reports how long password resets for address stay throttled.
func (uc *AuthUseCase) RetryAfter(address string) int {
	return int(uc.limiter.RetryAfter(address).Seconds())
}

func (uc *AuthUseCase) CheckResetToken(ctx context.Context, token string) error {
	_, err := uc.tokenCache.GetResetToken(ctx, token)
	return err
}

func (uc *AuthUseCase) ResetPassword(ctx context.Context, token, newPassword, confirm string) error {
	if err := checkPassword(newPassword, confirm); err != nil {
		return err
	}

	// taken before the update so two requests cannot both use it
	userIDStr, err := uc.tokenCache.ConsumeResetToken(ctx, token)
	if err != nil {
		return err
	}
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return domain.ErrInvalidToken
	}

	hash, err := uc.hasher.Hash(newPassword)
	if err != nil {
		return errors.Wrap(err, "hashing password")
	}
	if err := uc.userRepo.UpdatePassword(ctx, userID, hash); err != nil {
		return err
	}

	uc.log.Info("password reset", "user", userID)
	return nil
}
