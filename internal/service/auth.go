package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Trinhvhao/event-management/internal/apperrors"
	"github.com/Trinhvhao/event-management/internal/metrics"
	"github.com/Trinhvhao/event-management/internal/models"
	"github.com/Trinhvhao/event-management/internal/repository"
	"github.com/rs/zerolog"
)

const (
	msgEmailTaken          = "Email already registered"
	msgStudentIDTaken      = "Student ID already registered"
	msgInvalidCredentials  = "Invalid email or password"
	msgAccountDeactivated  = "Account is deactivated. Please contact administrator."
	msgVerifyEmailPrompt   = "Please check your email to verify your account"
	msgResetTokenExpired   = "Reset token has expired"
	msgResetTokenInvalid   = "Invalid reset token"
	msgVerifyTokenExpired  = "Verification token has expired"
	msgVerifyTokenInvalid  = "Invalid verification token"
	msgRefreshTokenInvalid = "Invalid refresh token"
)

// RegisterInput is a validated registration request.
type RegisterInput struct {
	Email        string
	Password     string
	FullName     string
	Role         models.Role
	StudentID    *string
	DepartmentID *int64
}

// RegisterResponse is returned after a successful registration.
type RegisterResponse struct {
	User    models.PublicUser `json:"user"`
	Message string            `json:"message"`
}

// LoginResponse carries the session tokens issued at login.
type LoginResponse struct {
	Token        string            `json:"token"`
	RefreshToken string            `json:"refresh_token"`
	ExpiresIn    int64             `json:"expires_in"`
	User         models.PublicUser `json:"user"`
}

// RefreshResponse carries a new access token.
type RefreshResponse struct {
	Token     string `json:"token"`
	ExpiresIn int64  `json:"expires_in"`
}

// AccountMailer delivers account emails carrying signed tokens.
type AccountMailer interface {
	SendVerification(ctx context.Context, to, name, token string, validFor time.Duration) error
	SendPasswordReset(ctx context.Context, to, name, token string, validFor time.Duration) error
}

// AuthService handles account registration and credential flows.
type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*RegisterResponse, error)
	Login(ctx context.Context, email, password string) (*LoginResponse, error)
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, newPassword string) error
	VerifyEmail(ctx context.Context, token string) error
	RefreshToken(ctx context.Context, refreshToken string) (*RefreshResponse, error)
}

// AuthOptions configures lifetimes of single-purpose tokens.
type AuthOptions struct {
	ResetTokenExpiry  time.Duration
	VerifyTokenExpiry time.Duration
}

type authService struct {
	userRepo repository.UserRepository
	tokens   TokenService
	hasher   PasswordHasher
	mailer   AccountMailer
	opts     AuthOptions
	logger   zerolog.Logger
}

// NewAuthService creates a new AuthService instance.
func NewAuthService(
	userRepo repository.UserRepository,
	tokens TokenService,
	hasher PasswordHasher,
	mailer AccountMailer,
	opts AuthOptions,
	logger zerolog.Logger,
) AuthService {
	return &authService{
		userRepo: userRepo,
		tokens:   tokens,
		hasher:   hasher,
		mailer:   mailer,
		opts:     opts,
		logger:   logger.With().Str("component", "auth").Logger(),
	}
}

func (s *authService) Register(ctx context.Context, input RegisterInput) (*RegisterResponse, error) {
	if input.StudentID != nil && strings.TrimSpace(*input.StudentID) == "" {
		input.StudentID = nil
	}

	// Pre-checks give a precise message; the unique indexes stay authoritative.
	if err := ensureAbsent(s.userRepo.FindByEmail(ctx, input.Email)); err != nil {
		return nil, conflictOr(err, msgEmailTaken)
	}
	if input.StudentID != nil {
		if err := ensureAbsent(s.userRepo.FindByStudentID(ctx, *input.StudentID)); err != nil {
			return nil, conflictOr(err, msgStudentIDTaken)
		}
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Email:         input.Email,
		PasswordHash:  hash,
		FullName:      input.FullName,
		StudentID:     input.StudentID,
		Role:          input.Role,
		IsActive:      true,
		EmailVerified: false,
		DepartmentID:  input.DepartmentID,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateEmail):
			return nil, apperrors.Conflict(msgEmailTaken)
		case errors.Is(err, repository.ErrDuplicateStudentID):
			return nil, apperrors.Conflict(msgStudentIDTaken)
		}
		return nil, err
	}

	s.sendVerification(ctx, user)

	s.logger.Info().Int64("user_id", user.ID).Str("role", string(user.Role)).Msg("user registered")
	return &RegisterResponse{User: user.Public(), Message: msgVerifyEmailPrompt}, nil
}

var errAlreadyExists = errors.New("already exists")

// ensureAbsent turns a lookup result into errAlreadyExists when a record was found.
func ensureAbsent(_ *models.User, err error) error {
	if err == nil {
		return errAlreadyExists
	}
	if errors.Is(err, repository.ErrNotFound) {
		return nil
	}
	return err
}

func conflictOr(err error, message string) error {
	if errors.Is(err, errAlreadyExists) {
		return apperrors.Conflict(message)
	}
	return err
}

func (s *authService) sendVerification(ctx context.Context, user *models.User) {
	token, err := s.tokens.Issue(identityOf(user), PurposeEmailVerification, s.opts.VerifyTokenExpiry)
	if err != nil {
		s.logger.Error().Err(err).Int64("user_id", user.ID).Msg("failed to issue verification token")
		return
	}
	if err := s.mailer.SendVerification(ctx, user.Email, user.FullName, token, s.opts.VerifyTokenExpiry); err != nil {
		s.logger.Error().Err(err).Int64("user_id", user.ID).Msg("failed to send verification email")
	}
}

func (s *authService) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			metrics.AuthAttempts.WithLabelValues("login", "invalid_credentials").Inc()
			return nil, apperrors.Unauthorized(msgInvalidCredentials)
		}
		return nil, err
	}

	if !user.IsActive {
		metrics.AuthAttempts.WithLabelValues("login", "deactivated").Inc()
		return nil, apperrors.Unauthorized(msgAccountDeactivated)
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		metrics.AuthAttempts.WithLabelValues("login", "invalid_credentials").Inc()
		return nil, apperrors.Unauthorized(msgInvalidCredentials)
	}

	identity := identityOf(user)
	accessToken, err := s.tokens.GenerateAccessToken(identity)
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.tokens.GenerateRefreshToken(identity)
	if err != nil {
		return nil, err
	}

	metrics.AuthAttempts.WithLabelValues("login", "success").Inc()
	return &LoginResponse{
		Token:        accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(s.tokens.GetAccessExpiry().Seconds()),
		User:         user.Public(),
	}, nil
}

// ForgotPassword never reports whether the email exists.
func (s *authService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			s.logger.Error().Err(err).Msg("failed to look up user for password reset")
		}
		return nil
	}

	token, err := s.tokens.Issue(identityOf(user), PurposePasswordReset, s.opts.ResetTokenExpiry)
	if err != nil {
		s.logger.Error().Err(err).Int64("user_id", user.ID).Msg("failed to issue reset token")
		return nil
	}
	if err := s.mailer.SendPasswordReset(ctx, user.Email, user.FullName, token, s.opts.ResetTokenExpiry); err != nil {
		s.logger.Error().Err(err).Int64("user_id", user.ID).Msg("failed to send password reset email")
	}
	return nil
}

func (s *authService) ResetPassword(ctx context.Context, token, newPassword string) error {
	claims, err := s.tokens.Verify(token, PurposePasswordReset)
	if err != nil {
		metrics.AuthAttempts.WithLabelValues("reset_password", "invalid_token").Inc()
		return tokenError(err, msgResetTokenExpired, msgResetTokenInvalid)
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return err
	}
	if err := s.userRepo.UpdatePassword(ctx, claims.UserID, hash); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NotFound("User")
		}
		return err
	}

	metrics.AuthAttempts.WithLabelValues("reset_password", "success").Inc()
	s.logger.Info().Int64("user_id", claims.UserID).Msg("password reset")
	return nil
}

func (s *authService) VerifyEmail(ctx context.Context, token string) error {
	claims, err := s.tokens.Verify(token, PurposeEmailVerification)
	if err != nil {
		return tokenError(err, msgVerifyTokenExpired, msgVerifyTokenInvalid)
	}

	if err := s.userRepo.MarkEmailVerified(ctx, claims.UserID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NotFound("User")
		}
		return err
	}
	s.logger.Info().Int64("user_id", claims.UserID).Msg("email verified")
	return nil
}

func (s *authService) RefreshToken(_ context.Context, refreshToken string) (*RefreshResponse, error) {
	claims, err := s.tokens.Verify(refreshToken, PurposeRefresh)
	if err != nil {
		metrics.AuthAttempts.WithLabelValues("refresh", "invalid_token").Inc()
		return nil, apperrors.Unauthorized(msgRefreshTokenInvalid)
	}

	token, err := s.tokens.GenerateAccessToken(claims.Identity)
	if err != nil {
		return nil, err
	}

	metrics.AuthAttempts.WithLabelValues("refresh", "success").Inc()
	return &RefreshResponse{
		Token:     token,
		ExpiresIn: int64(s.tokens.GetAccessExpiry().Seconds()),
	}, nil
}

func identityOf(user *models.User) Identity {
	return Identity{UserID: user.ID, Email: user.Email, Role: user.Role}
}

// tokenError maps token verification failures onto Unauthorized errors.
func tokenError(err error, expired, invalid string) error {
	if errors.Is(err, ErrTokenExpired) {
		return apperrors.Unauthorized(expired)
	}
	if errors.Is(err, ErrTokenInvalid) {
		return apperrors.Unauthorized(invalid)
	}
	return fmt.Errorf("failed to verify token: %w", err)
}
