// Package handlers contains HTTP request handlers for the event management API.
package handlers

import (
	"github.com/Trinhvhao/event-management/internal/apperrors"
	"github.com/Trinhvhao/event-management/internal/models"
	"github.com/Trinhvhao/event-management/internal/response"
	"github.com/Trinhvhao/event-management/internal/service"
	"github.com/Trinhvhao/event-management/internal/validation"
	"github.com/gin-gonic/gin"
)

// AuthHandler handles authentication HTTP requests.
type AuthHandler struct {
	authService service.AuthService
	validator   *validation.Validator
}

// NewAuthHandler creates a new AuthHandler instance.
func NewAuthHandler(authService service.AuthService, validator *validation.Validator) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		validator:   validator,
	}
}

// Register godoc
// @Summary Register account
// @Description Create a student, organizer or admin account and send a verification email
// @Tags auth
// @Accept json
// @Produce json
// @Param request body validation.RegisterRequest true "Registration details"
// @Success 201 {object} response.Envelope{data=service.RegisterResponse}
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /api/auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req validation.RegisterRequest
	if err := bindJSON(c, h.validator, &req); err != nil {
		response.Error(c, err)
		return
	}

	result, err := h.authService.Register(c.Request.Context(), service.RegisterInput{
		Email:        req.Email,
		Password:     req.Password,
		FullName:     req.FullName,
		Role:         models.Role(req.Role),
		StudentID:    req.StudentID,
		DepartmentID: req.DepartmentID,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result, "Registration successful. Please check your email to verify your account.")
}

// Login godoc
// @Summary User login
// @Description Authenticate user and return access and refresh tokens
// @Tags auth
// @Accept json
// @Produce json
// @Param request body validation.LoginRequest true "Login credentials"
// @Success 200 {object} response.Envelope{data=service.LoginResponse}
// @Failure 400 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /api/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req validation.LoginRequest
	if err := bindJSON(c, h.validator, &req); err != nil {
		response.Error(c, err)
		return
	}

	result, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OKMessage(c, result, "Login successful")
}

// Logout godoc
// @Summary User logout
// @Description Stateless logout; the client discards its tokens
// @Tags auth
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /api/auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	response.OKMessage(c, nil, "Logout successful")
}

// ForgotPassword godoc
// @Summary Request password reset
// @Description Email a reset link. Succeeds whether or not the email is registered
// @Tags auth
// @Accept json
// @Produce json
// @Param request body validation.ForgotPasswordRequest true "Account email"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /api/auth/forgot-password [post]
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req validation.ForgotPasswordRequest
	if err := bindJSON(c, h.validator, &req); err != nil {
		response.Error(c, err)
		return
	}

	if err := h.authService.ForgotPassword(c.Request.Context(), req.Email); err != nil {
		response.Error(c, err)
		return
	}

	response.OKMessage(c, nil, "Password reset email sent. Please check your inbox.")
}

// ResetPassword godoc
// @Summary Reset password
// @Description Set a new password using a password reset token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body validation.ResetPasswordRequest true "Reset token and new password"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /api/auth/reset-password [post]
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req validation.ResetPasswordRequest
	if err := bindJSON(c, h.validator, &req); err != nil {
		response.Error(c, err)
		return
	}

	if err := h.authService.ResetPassword(c.Request.Context(), req.Token, req.NewPassword); err != nil {
		response.Error(c, err)
		return
	}

	response.OKMessage(c, nil, "Password reset successful. You can now login with your new password.")
}

// VerifyEmail godoc
// @Summary Verify email
// @Description Mark the account named by an email verification token as verified
// @Tags auth
// @Produce json
// @Param token query string true "Email verification token"
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /api/auth/verify-email [get]
func (h *AuthHandler) VerifyEmail(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		response.Error(c, apperrors.Unauthorized("Invalid verification token"))
		return
	}

	if err := h.authService.VerifyEmail(c.Request.Context(), token); err != nil {
		response.Error(c, err)
		return
	}

	response.OKMessage(c, nil, "Email verified successfully")
}

// RefreshToken godoc
// @Summary Refresh access token
// @Description Exchange a refresh token for a new access token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body validation.RefreshTokenRequest true "Refresh token"
// @Success 200 {object} response.Envelope{data=service.RefreshResponse}
// @Failure 400 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /api/auth/refresh-token [post]
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req validation.RefreshTokenRequest
	if err := bindJSON(c, h.validator, &req); err != nil {
		response.Error(c, err)
		return
	}

	result, err := h.authService.RefreshToken(c.Request.Context(), req.RefreshToken)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OKMessage(c, result, "Token refreshed successfully")
}
