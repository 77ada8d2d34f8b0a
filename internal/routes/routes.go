// Package routes defines HTTP routes for the event management service.
package routes

import (
	"net/http"

	"github.com/Trinhvhao/event-management/docs"
	"github.com/Trinhvhao/event-management/internal/config"
	"github.com/Trinhvhao/event-management/internal/handlers"
	"github.com/Trinhvhao/event-management/internal/metrics"
	"github.com/Trinhvhao/event-management/internal/middleware"
	"github.com/Trinhvhao/event-management/internal/models"
	"github.com/Trinhvhao/event-management/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// APIVersion is reported by the API index.
const APIVersion = "1.0.0"

// Handlers groups the HTTP handlers mounted by Setup.
type Handlers struct {
	Auth   *handlers.AuthHandler
	Events *handlers.EventHandler
	Health *handlers.HealthHandler
}

// Setup configures all HTTP routes for the application.
func Setup(router *gin.Engine, h Handlers, tokens service.TokenService, cfg *config.Config, logger zerolog.Logger) {
	router.Use(
		gin.Recovery(),
		middleware.RequestLogger(logger),
		metrics.Middleware(),
		middleware.CORS(middleware.DefaultCORSConfig(cfg.AllowedOrigins)),
	)

	router.GET("/health", h.Health.Check)
	router.GET("/metrics", metrics.Handler())

	if cfg.SwaggerHost != "" {
		docs.SwaggerInfo.Host = cfg.SwaggerHost
		router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := router.Group("/api")
	api.GET("", index)

	auth := api.Group("/auth")
	{
		auth.POST("/register", h.Auth.Register)
		auth.POST("/login", h.Auth.Login)
		auth.POST("/logout", h.Auth.Logout)
		auth.POST("/forgot-password", h.Auth.ForgotPassword)
		auth.POST("/reset-password", h.Auth.ResetPassword)
		auth.GET("/verify-email", h.Auth.VerifyEmail)
		auth.POST("/refresh-token", h.Auth.RefreshToken)
	}

	events := api.Group("/events")
	{
		events.GET("", h.Events.List)
		events.GET("/categories", h.Events.Categories)
		events.GET("/departments", h.Events.Departments)
		events.GET("/:id", h.Events.Get)
	}

	// Organizers manage their own events; admins manage all of them.
	managed := api.Group("/events",
		middleware.Authenticate(tokens),
		middleware.Authorize(models.RoleOrganizer, models.RoleAdmin),
	)
	{
		managed.POST("", h.Events.Create)
		managed.PUT("/:id", h.Events.Update)
		managed.DELETE("/:id", h.Events.Delete)
	}
}

func index(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"name":    "University Event Management API",
		"version": APIVersion,
		"endpoints": gin.H{
			"auth":   "/api/auth",
			"events": "/api/events",
			"health": "/health",
		},
	})
}
