package service

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/Trinhvhao/event-management/internal/models"
	"github.com/golang-jwt/jwt/v5"
)

const (
	testSecret        = "test-secret-key-at-least-32-chars-long"
	testAccessExpiry  = 15 * time.Minute
	testRefreshExpiry = 168 * time.Hour
)

var testIdentity = Identity{UserID: 42, Email: "a@x.edu", Role: models.RoleOrganizer}

func newTestTokenService(t *testing.T) *jwtService {
	t.Helper()
	svc, err := NewTokenService(testSecret, testAccessExpiry, testRefreshExpiry)
	if err != nil {
		t.Fatalf("NewTokenService() error = %v", err)
	}
	return svc.(*jwtService)
}

// =============================================================================
// Constructor Tests
// =============================================================================

func TestNewTokenService(t *testing.T) {
	svc := newTestTokenService(t)

	if got := svc.GetAccessExpiry(); got != testAccessExpiry {
		t.Errorf("GetAccessExpiry() = %v, want %v", got, testAccessExpiry)
	}
	if got := svc.GetRefreshExpiry(); got != testRefreshExpiry {
		t.Errorf("GetRefreshExpiry() = %v, want %v", got, testRefreshExpiry)
	}
}

func TestNewTokenService_WeakSecret(t *testing.T) {
	for _, secret := range []string{"", "short"} {
		if _, err := NewTokenService(secret, testAccessExpiry, testRefreshExpiry); !errors.Is(err, ErrWeakSecret) {
			t.Errorf("NewTokenService(%q) error = %v, want ErrWeakSecret", secret, err)
		}
	}
}

// =============================================================================
// Issue / Verify Tests
// =============================================================================

func TestIssueVerify_RoundTrip(t *testing.T) {
	svc := newTestTokenService(t)

	identities := []Identity{
		testIdentity,
		{UserID: 1, Email: "student@university.edu.vn", Role: models.RoleStudent},
		{UserID: 9223372036854775807, Email: "admin@x.edu", Role: models.RoleAdmin},
	}

	for _, identity := range identities {
		token, err := svc.Issue(identity, PurposeAccess, time.Hour)
		if err != nil {
			t.Fatalf("Issue() error = %v", err)
		}

		claims, err := svc.Verify(token, PurposeAccess)
		if err != nil {
			t.Fatalf("Verify() error = %v", err)
		}
		if claims.Identity != identity {
			t.Errorf("claims = %+v, want %+v", claims.Identity, identity)
		}
		if claims.IssuedAt == nil || claims.ExpiresAt == nil {
			t.Fatal("claims should carry iat and exp")
		}
		if got := claims.ExpiresAt.Sub(claims.IssuedAt.Time); got != time.Hour {
			t.Errorf("exp - iat = %v, want 1h", got)
		}
		if claims.ID == "" {
			t.Error("claims should carry a token id")
		}
	}
}

func TestIssue_URLSafe(t *testing.T) {
	svc := newTestTokenService(t)

	token, err := svc.GenerateAccessToken(testIdentity)
	if err != nil {
		t.Fatalf("GenerateAccessToken() error = %v", err)
	}
	if strings.ContainsAny(token, "+/= ") {
		t.Errorf("token %q is not URL safe", token)
	}
	if parts := strings.Split(token, "."); len(parts) != 3 {
		t.Errorf("token has %d parts, want 3", len(parts))
	}
}

func TestIssue_UniqueTokens(t *testing.T) {
	svc := newTestTokenService(t)

	first, _ := svc.GenerateAccessToken(testIdentity)
	second, _ := svc.GenerateAccessToken(testIdentity)
	if first == second {
		t.Error("tokens issued in the same second should still differ")
	}
}

func TestVerify_Expired(t *testing.T) {
	svc := newTestTokenService(t)

	now := time.Now()
	svc.now = func() time.Time { return now }

	token, err := svc.Issue(testIdentity, PurposeAccess, time.Minute)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	if _, err := svc.Verify(token, PurposeAccess); err != nil {
		t.Fatalf("Verify() before expiry error = %v", err)
	}

	svc.now = func() time.Time { return now.Add(2 * time.Minute) }
	_, err = svc.Verify(token, PurposeAccess)
	if !errors.Is(err, ErrTokenExpired) {
		t.Errorf("Verify() after expiry error = %v, want ErrTokenExpired", err)
	}
}

func TestVerify_ZeroTTLExpires(t *testing.T) {
	svc := newTestTokenService(t)

	token, err := svc.Issue(testIdentity, PurposePasswordReset, 0)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	time.Sleep(10 * time.Millisecond)

	if _, err := svc.Verify(token, PurposePasswordReset); !errors.Is(err, ErrTokenExpired) {
		t.Errorf("Verify() error = %v, want ErrTokenExpired", err)
	}
}

func TestVerify_WrongSecret(t *testing.T) {
	svc := newTestTokenService(t)
	other, err := NewTokenService("another-secret-that-is-32-bytes-long!", testAccessExpiry, testRefreshExpiry)
	if err != nil {
		t.Fatalf("NewTokenService() error = %v", err)
	}

	token, _ := svc.GenerateAccessToken(testIdentity)

	_, err = other.Verify(token, PurposeAccess)
	if !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("Verify() error = %v, want ErrTokenInvalid", err)
	}
	if errors.Is(err, ErrTokenExpired) {
		t.Error("signature failures must not be reported as expiry")
	}
}

func TestVerify_Tampered(t *testing.T) {
	svc := newTestTokenService(t)
	token, _ := svc.GenerateAccessToken(testIdentity)

	parts := strings.Split(token, ".")
	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Identity: Identity{UserID: testIdentity.UserID, Email: testIdentity.Email, Role: models.RoleAdmin},
		Purpose:  PurposeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SigningString()
	if err != nil {
		t.Fatalf("SigningString() error = %v", err)
	}
	forgedParts := strings.Split(forged, ".")

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"garbage", "not.a.token"},
		{"swapped payload", parts[0] + "." + forgedParts[1] + "." + parts[2]},
		{"truncated signature", parts[0] + "." + parts[1] + "." + parts[2][:len(parts[2])-4]},
		{"missing signature", parts[0] + "." + parts[1] + "."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Verify(tt.token, PurposeAccess); !errors.Is(err, ErrTokenInvalid) {
				t.Errorf("Verify() error = %v, want ErrTokenInvalid", err)
			}
		})
	}
}

func TestVerify_NoneAlgorithmRejected(t *testing.T) {
	svc := newTestTokenService(t)

	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
		Identity: testIdentity,
		Purpose:  PurposeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("SignedString() error = %v", err)
	}

	if _, err := svc.Verify(token, PurposeAccess); !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("Verify() error = %v, want ErrTokenInvalid", err)
	}
}

func TestVerify_PurposeMismatch(t *testing.T) {
	svc := newTestTokenService(t)

	refresh, _ := svc.GenerateRefreshToken(testIdentity)
	reset, _ := svc.Issue(testIdentity, PurposePasswordReset, time.Hour)

	if _, err := svc.Verify(refresh, PurposeAccess); !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("refresh token accepted as access token: %v", err)
	}
	if _, err := svc.Verify(reset, PurposeAccess); !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("reset token accepted as access token: %v", err)
	}
	if _, err := svc.Verify(reset, PurposeEmailVerification); !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("reset token accepted as verification token: %v", err)
	}
	if _, err := svc.Verify(refresh, PurposeRefresh); err != nil {
		t.Errorf("refresh token rejected for refresh: %v", err)
	}
}

func TestGenerateRefreshToken_UsesRefreshExpiry(t *testing.T) {
	svc := newTestTokenService(t)

	token, _ := svc.GenerateRefreshToken(testIdentity)
	claims, err := svc.Verify(token, PurposeRefresh)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if got := claims.ExpiresAt.Sub(claims.IssuedAt.Time); got != testRefreshExpiry {
		t.Errorf("lifetime = %v, want %v", got, testRefreshExpiry)
	}
}
