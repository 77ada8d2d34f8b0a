package service

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/Trinhvhao/event-management/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// MinSecretLength is the minimum HS256 signing secret length in bytes.
const MinSecretLength = 32

var (
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("invalid token")
	ErrWeakSecret   = fmt.Errorf("jwt secret must be at least %d bytes", MinSecretLength)
)

// TokenPurpose restricts where a token may be presented.
type TokenPurpose string

const (
	PurposeAccess            TokenPurpose = "access"
	PurposeRefresh           TokenPurpose = "refresh"
	PurposePasswordReset     TokenPurpose = "password_reset"
	PurposeEmailVerification TokenPurpose = "email_verification"
)

// Identity is the set of user attributes carried in a token.
type Identity struct {
	UserID int64       `json:"id"`
	Email  string      `json:"email"`
	Role   models.Role `json:"role"`
}

// Claims represents JWT token claims.
type Claims struct {
	Identity
	Purpose TokenPurpose `json:"purpose"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies signed bearer tokens.
type TokenService interface {
	Issue(identity Identity, purpose TokenPurpose, ttl time.Duration) (string, error)
	GenerateAccessToken(identity Identity) (string, error)
	GenerateRefreshToken(identity Identity) (string, error)
	Verify(tokenString string, purpose TokenPurpose) (*Claims, error)
	GetAccessExpiry() time.Duration
	GetRefreshExpiry() time.Duration
}

type jwtService struct {
	secret        []byte
	accessExpiry  time.Duration
	refreshExpiry time.Duration
	now           func() time.Time
}

// NewTokenService creates a TokenService signing with secret.
func NewTokenService(secret string, accessExpiry, refreshExpiry time.Duration) (TokenService, error) {
	if len(secret) < MinSecretLength {
		return nil, ErrWeakSecret
	}
	return &jwtService{
		secret:        []byte(secret),
		accessExpiry:  accessExpiry,
		refreshExpiry: refreshExpiry,
		now:           time.Now,
	}, nil
}

func (s *jwtService) GenerateAccessToken(identity Identity) (string, error) {
	return s.Issue(identity, PurposeAccess, s.accessExpiry)
}

func (s *jwtService) GenerateRefreshToken(identity Identity) (string, error) {
	return s.Issue(identity, PurposeRefresh, s.refreshExpiry)
}

func (s *jwtService) GetAccessExpiry() time.Duration {
	return s.accessExpiry
}

func (s *jwtService) GetRefreshExpiry() time.Duration {
	return s.refreshExpiry
}

func (s *jwtService) Issue(identity Identity, purpose TokenPurpose, ttl time.Duration) (string, error) {
	now := s.now()
	claims := Claims{
		Identity: identity,
		Purpose:  purpose,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(identity.UserID, 10),
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify checks signature, expiry and purpose. It returns ErrTokenExpired for
// expired tokens and ErrTokenInvalid for every other failure.
func (s *jwtService) Verify(tokenString string, purpose TokenPurpose) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrTokenInvalid
	}
	if claims.Purpose != purpose {
		return nil, fmt.Errorf("%w: purpose %q, want %q", ErrTokenInvalid, claims.Purpose, purpose)
	}
	return claims, nil
}
