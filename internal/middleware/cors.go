// Package middleware provides HTTP middleware for the event management API.
package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// CORSConfig holds configuration for the CORS middleware.
type CORSConfig struct {
	// AllowedOrigins lists origins allowed to call the API from a browser.
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
	MaxAge         time.Duration
}

// DefaultCORSConfig returns the methods and headers used by the API.
func DefaultCORSConfig(origins []string) CORSConfig {
	return CORSConfig{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Authorization", "X-Request-ID"},
		MaxAge:         12 * time.Hour,
	}
}

// CORS returns middleware that answers preflight requests and sets
// Access-Control-* headers for allowed origins only.
func CORS(config CORSConfig) gin.HandlerFunc {
	allowedSet := make(map[string]bool, len(config.AllowedOrigins))
	for _, origin := range config.AllowedOrigins {
		allowedSet[normalizeOrigin(origin)] = true
	}
	methods := strings.Join(config.AllowedMethods, ",")
	headers := strings.Join(config.AllowedHeaders, ",")
	maxAge := strconv.Itoa(int(config.MaxAge.Seconds()))

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin == "" {
			c.Next()
			return
		}

		c.Writer.Header().Add("Vary", "Origin")
		allowed := isAllowedOrigin(origin, allowedSet)
		if allowed {
			h := c.Writer.Header()
			h.Set("Access-Control-Allow-Origin", origin)
			h.Set("Access-Control-Expose-Headers", "X-Request-ID")
		}

		if c.Request.Method != http.MethodOptions || c.GetHeader("Access-Control-Request-Method") == "" {
			c.Next()
			return
		}

		// Preflight
		if !allowed {
			c.AbortWithStatus(http.StatusForbidden)
			return
		}
		h := c.Writer.Header()
		h.Set("Access-Control-Allow-Methods", methods)
		h.Set("Access-Control-Allow-Headers", headers)
		h.Set("Access-Control-Max-Age", maxAge)
		c.AbortWithStatus(http.StatusNoContent)
	}
}

// normalizeOrigin lower-cases and removes a trailing slash.
func normalizeOrigin(origin string) string {
	return strings.TrimSuffix(strings.ToLower(strings.TrimSpace(origin)), "/")
}

// isAllowedOrigin checks if the given origin is in the allowed set.
func isAllowedOrigin(origin string, allowedSet map[string]bool) bool {
	return allowedSet[normalizeOrigin(origin)]
}
