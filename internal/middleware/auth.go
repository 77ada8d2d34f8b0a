package middleware

import (
	"errors"
	"strings"

	"github.com/Trinhvhao/event-management/internal/apperrors"
	"github.com/Trinhvhao/event-management/internal/models"
	"github.com/Trinhvhao/event-management/internal/response"
	"github.com/Trinhvhao/event-management/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

const identityKey = "auth.identity"

// Authenticate requires a valid access token in the Authorization header and
// stores its identity for CurrentUser.
func Authenticate(tokens service.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			response.Error(c, apperrors.Unauthorized("No token provided"))
			return
		}

		claims, err := tokens.Verify(token, service.PurposeAccess)
		if err != nil {
			if errors.Is(err, service.ErrTokenExpired) {
				response.Error(c, apperrors.Unauthorized("Token expired"))
				return
			}
			response.Error(c, apperrors.Unauthorized("Invalid token"))
			return
		}

		c.Set(identityKey, claims.Identity)

		ctx := c.Request.Context()
		logger := zerolog.Ctx(ctx).With().Int64("user_id", claims.UserID).Logger()
		c.Request = c.Request.WithContext(logger.WithContext(ctx))

		c.Next()
	}
}

// Authorize allows the request only when the authenticated role is one of roles.
func Authorize(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := CurrentUser(c)
		if !ok {
			response.Error(c, apperrors.Forbidden("User not authenticated"))
			return
		}

		for _, role := range roles {
			if identity.Role == role {
				c.Next()
				return
			}
		}
		response.Error(c, apperrors.Forbidden("You do not have permission to perform this action"))
	}
}

// CurrentUser returns the identity stored by Authenticate.
func CurrentUser(c *gin.Context) (service.Identity, bool) {
	value, ok := c.Get(identityKey)
	if !ok {
		return service.Identity{}, false
	}
	identity, ok := value.(service.Identity)
	return identity, ok
}

// extractToken returns the bearer token from the Authorization header.
func extractToken(c *gin.Context) string {
	parts := strings.Fields(c.GetHeader("Authorization"))
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return parts[1]
	}
	return ""
}
