package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Trinhvhao/event-management/internal/models"
	"github.com/Trinhvhao/event-management/internal/service"
	"github.com/gin-gonic/gin"
)

const testSecret = "middleware-test-secret-with-32-bytes!"

var organizer = service.Identity{UserID: 9, Email: "org@x.edu", Role: models.RoleOrganizer}

func newTokenService(t *testing.T) service.TokenService {
	t.Helper()
	tokens, err := service.NewTokenService(testSecret, time.Hour, 24*time.Hour)
	if err != nil {
		t.Fatalf("NewTokenService() error = %v", err)
	}
	return tokens
}

type errorEnvelope struct {
	Success bool `json:"success"`
	Error   struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func setupRouter(tokens service.TokenService, roles ...models.Role) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	handlers := []gin.HandlerFunc{Authenticate(tokens)}
	if len(roles) > 0 {
		handlers = append(handlers, Authorize(roles...))
	}
	handlers = append(handlers, func(c *gin.Context) {
		identity, ok := CurrentUser(c)
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.JSON(http.StatusOK, identity)
	})
	r.GET("/protected", handlers...)
	return r
}

func doRequest(r *gin.Engine, authorization string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	r.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) errorEnvelope {
	t.Helper()
	var body errorEnvelope
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	return body
}

// =============================================================================
// Authenticate Tests
// =============================================================================

func TestAuthenticate_Success(t *testing.T) {
	tokens := newTokenService(t)
	token, _ := tokens.GenerateAccessToken(organizer)

	w := doRequest(setupRouter(tokens), "Bearer "+token)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d (%s)", w.Code, http.StatusOK, w.Body.String())
	}
	var got service.Identity
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if got != organizer {
		t.Errorf("identity = %+v, want %+v", got, organizer)
	}
}

func TestAuthenticate_Failures(t *testing.T) {
	tokens := newTokenService(t)

	refresh, _ := tokens.GenerateRefreshToken(organizer)
	reset, _ := tokens.Issue(organizer, service.PurposePasswordReset, time.Hour)
	expired, _ := tokens.Issue(organizer, service.PurposeAccess, 0)
	time.Sleep(10 * time.Millisecond)

	other, _ := service.NewTokenService("another-secret-that-is-32-bytes-long", time.Hour, time.Hour)
	foreign, _ := other.GenerateAccessToken(organizer)

	tests := []struct {
		name          string
		authorization string
		wantMessage   string
	}{
		{"missing header", "", "No token provided"},
		{"wrong scheme", "Basic dXNlcjpwYXNz", "No token provided"},
		{"bearer without token", "Bearer", "No token provided"},
		{"expired", "Bearer " + expired, "Token expired"},
		{"garbage", "Bearer not.a.token", "Invalid token"},
		{"wrong secret", "Bearer " + foreign, "Invalid token"},
		{"refresh token", "Bearer " + refresh, "Invalid token"},
		{"reset token", "Bearer " + reset, "Invalid token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(setupRouter(tokens), tt.authorization)

			if w.Code != http.StatusUnauthorized {
				t.Fatalf("status = %d, want %d", w.Code, http.StatusUnauthorized)
			}
			body := decodeError(t, w)
			if body.Success {
				t.Error("expected success=false")
			}
			if body.Error.Code != "UNAUTHORIZED" {
				t.Errorf("code = %s, want UNAUTHORIZED", body.Error.Code)
			}
			if body.Error.Message != tt.wantMessage {
				t.Errorf("message = %q, want %q", body.Error.Message, tt.wantMessage)
			}
		})
	}
}

func TestExtractToken(t *testing.T) {
	tests := []struct {
		header string
		want   string
	}{
		{"Bearer abc", "abc"},
		{"bearer abc", "abc"},
		{"Bearer  abc ", "abc"},
		{"Token abc", ""},
		{"Bearer a b", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			gin.SetMode(gin.TestMode)
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
			c.Request.Header.Set("Authorization", tt.header)

			if got := extractToken(c); got != tt.want {
				t.Errorf("extractToken() = %q, want %q", got, tt.want)
			}
		})
	}
}

// =============================================================================
// Authorize Tests
// =============================================================================

func TestAuthorize(t *testing.T) {
	tokens := newTokenService(t)

	tests := []struct {
		name       string
		role       models.Role
		allowed    []models.Role
		wantStatus int
	}{
		{"organizer allowed", models.RoleOrganizer, []models.Role{models.RoleOrganizer, models.RoleAdmin}, http.StatusOK},
		{"admin allowed", models.RoleAdmin, []models.Role{models.RoleOrganizer, models.RoleAdmin}, http.StatusOK},
		{"student forbidden", models.RoleStudent, []models.Role{models.RoleOrganizer, models.RoleAdmin}, http.StatusForbidden},
		{"admin only", models.RoleOrganizer, []models.Role{models.RoleAdmin}, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			identity := organizer
			identity.Role = tt.role
			token, _ := tokens.GenerateAccessToken(identity)

			w := doRequest(setupRouter(tokens, tt.allowed...), "Bearer "+token)

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			if tt.wantStatus == http.StatusForbidden {
				body := decodeError(t, w)
				if body.Error.Message != "You do not have permission to perform this action" {
					t.Errorf("message = %q", body.Error.Message)
				}
			}
		})
	}
}

func TestAuthorize_WithoutAuthenticate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/admin", Authorize(models.RoleAdmin), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin", nil))

	if w.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusForbidden)
	}
	if body := decodeError(t, w); body.Error.Message != "User not authenticated" {
		t.Errorf("message = %q, want %q", body.Error.Message, "User not authenticated")
	}
}
