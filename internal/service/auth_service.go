package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/romanbrito/onlineStorePrisma/internal/config"
	"github.com/romanbrito/onlineStorePrisma/internal/ids"
	"github.com/romanbrito/onlineStorePrisma/internal/mail"
	"github.com/romanbrito/onlineStorePrisma/internal/models"
	"github.com/romanbrito/onlineStorePrisma/internal/repository"
	"github.com/romanbrito/onlineStorePrisma/internal/security"
	"github.com/romanbrito/onlineStorePrisma/internal/session"
)

type AuthService struct {
	users  UserStore
	mailer Mailer
	cfg    *config.AppConfig
	log    zerolog.Logger
	now    func() time.Time
}

func NewAuthService(users UserStore, mailer Mailer, cfg *config.AppConfig, log zerolog.Logger) *AuthService {
	return &AuthService{
		users:  users,
		mailer: mailer,
		cfg:    cfg,
		log:    log,
		now:    time.Now,
	}
}

// AuthResult is a user together with a freshly signed session token.
type AuthResult struct {
	User  models.User
	Token string
}

type SignupInput struct {
	Email    string
	Password string
	Name     string
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// hashPassword reports passwords bcrypt cannot hash as invalid input.
func hashPassword(password string) (string, error) {
	hash, err := security.HashPassword(password)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", fmt.Errorf("%w: password must be at most 72 bytes", ErrInvalidInput)
	}
	return hash, err
}

func (s *AuthService) Signup(ctx context.Context, input SignupInput) (AuthResult, error) {
	input.Email = normalizeEmail(input.Email)
	if input.Email == "" || input.Password == "" || strings.TrimSpace(input.Name) == "" {
		return AuthResult{}, fmt.Errorf("%w: name, email and password are required", ErrInvalidInput)
	}

	passwordHash, err := hashPassword(input.Password)
	if err != nil {
		return AuthResult{}, err
	}

	user, err := s.users.Create(ctx, models.User{
		ID:           ids.New(),
		Name:         strings.TrimSpace(input.Name),
		Email:        input.Email,
		PasswordHash: passwordHash,
		Permissions:  models.Permissions{models.PermissionUser},
	})
	if err != nil {
		return AuthResult{}, err
	}

	s.log.Info().Str("user_id", user.ID).Msg("user signed up")
	return s.issue(user)
}

func (s *AuthService) Signin(ctx context.Context, email string, password string) (AuthResult, error) {
	user, err := s.users.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return AuthResult{}, ErrNoSuchUser
		}
		return AuthResult{}, err
	}

	ok, err := security.VerifyPassword(password, user.PasswordHash)
	if err != nil {
		return AuthResult{}, err
	}
	if !ok {
		return AuthResult{}, ErrInvalidPassword
	}

	return s.issue(user)
}

// RequestReset stores a new reset token for the user and mails a reset
// link. Delivery problems are logged and not reported to the caller.
func (s *AuthService) RequestReset(ctx context.Context, email string) error {
	user, err := s.users.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrNoSuchUser
		}
		return err
	}

	token, err := security.GenerateResetToken()
	if err != nil {
		return err
	}
	expiry := s.now().Add(s.cfg.Security.ResetTokenTTL)
	if err := s.users.SetResetToken(ctx, user.ID, token, expiry); err != nil {
		return fmt.Errorf("store reset token: %w", err)
	}

	msg, err := mail.PasswordReset(s.cfg.Mail.From, user.Email, s.resetURL(token))
	if err != nil {
		s.log.Error().Err(err).Str("user_id", user.ID).Msg("build reset email failed")
		return nil
	}
	if err := s.mailer.Send(ctx, msg); err != nil {
		s.log.Error().Err(err).Str("user_id", user.ID).Msg("send reset email failed")
	}
	return nil
}

type ResetPasswordInput struct {
	ResetToken      string
	Password        string
	ConfirmPassword string
}

// ResetPassword accepts a token whose stored expiry lies no more than the
// reset TTL in the past.
func (s *AuthService) ResetPassword(ctx context.Context, input ResetPasswordInput) (AuthResult, error) {
	if input.Password != input.ConfirmPassword {
		return AuthResult{}, ErrPasswordMismatch
	}
	if input.Password == "" {
		return AuthResult{}, fmt.Errorf("%w: password is required", ErrInvalidInput)
	}

	notBefore := s.now().Add(-s.cfg.Security.ResetTokenTTL)
	user, err := s.users.FindByResetToken(ctx, input.ResetToken, notBefore)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return AuthResult{}, ErrInvalidResetToken
		}
		return AuthResult{}, err
	}

	passwordHash, err := hashPassword(input.Password)
	if err != nil {
		return AuthResult{}, err
	}

	updated, err := s.users.ResetPassword(ctx, user.ID, input.ResetToken, passwordHash)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return AuthResult{}, ErrInvalidResetToken
		}
		return AuthResult{}, err
	}

	s.log.Info().Str("user_id", updated.ID).Msg("password reset")
	return s.issue(updated)
}

// CurrentUser returns nil for anonymous callers and for sessions whose user
// no longer exists.
func (s *AuthService) CurrentUser(ctx context.Context, caller session.Identity) (*models.User, error) {
	if !caller.Authenticated() {
		return nil, nil
	}
	user, err := s.users.GetByID(ctx, caller.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (s *AuthService) issue(user models.User) (AuthResult, error) {
	token, err := security.GenerateSessionToken(s.cfg.Security.AppSecret, user.ID, s.cfg.Security.SessionTTL)
	if err != nil {
		return AuthResult{}, err
	}
	return AuthResult{User: user, Token: token}, nil
}

func (s *AuthService) resetURL(token string) string {
	base := strings.TrimSuffix(s.cfg.FrontendURL, "/")
	return base + "/reset?resetToken=" + url.QueryEscape(token)
}
