package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

func TestRequestLogger(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name        string
		requestID   string
		status      int
		wantLevel   string
		keepInbound bool
	}{
		{"generates id", "", http.StatusOK, "info", false},
		{"keeps inbound id", "abc-123", http.StatusOK, "info", true},
		{"rejects oversized id", strings.Repeat("x", 200), http.StatusOK, "info", false},
		{"client error logged as warn", "", http.StatusNotFound, "warn", false},
		{"server error logged as error", "", http.StatusInternalServerError, "error", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			r := gin.New()
			r.Use(RequestLogger(zerolog.New(&buf)))
			r.GET("/events/:id", func(c *gin.Context) {
				zerolog.Ctx(c.Request.Context()).Info().Msg("inside handler")
				c.Status(tt.status)
			})

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/events/5", nil)
			if tt.requestID != "" {
				req.Header.Set(RequestIDHeader, tt.requestID)
			}
			r.ServeHTTP(w, req)

			id := w.Header().Get(RequestIDHeader)
			if id == "" {
				t.Fatal("response should carry a request id")
			}
			if tt.keepInbound && id != tt.requestID {
				t.Errorf("request id = %q, want %q", id, tt.requestID)
			}
			if !tt.keepInbound && id == tt.requestID {
				t.Errorf("request id %q should have been replaced", id)
			}

			lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
			if len(lines) != 2 {
				t.Fatalf("got %d log lines, want 2: %s", len(lines), buf.String())
			}
			for _, line := range lines {
				if !strings.Contains(line, `"request_id":"`+id+`"`) {
					t.Errorf("log line missing request id: %s", line)
				}
			}

			var access map[string]interface{}
			if err := json.Unmarshal([]byte(lines[1]), &access); err != nil {
				t.Fatalf("failed to parse access log: %v", err)
			}
			if access["level"] != tt.wantLevel {
				t.Errorf("level = %v, want %s", access["level"], tt.wantLevel)
			}
			if access["path"] != "/events/:id" {
				t.Errorf("path = %v, want route pattern", access["path"])
			}
			if access["status"] != float64(tt.status) {
				t.Errorf("status = %v, want %d", access["status"], tt.status)
			}
		})
	}
}
