// Package response writes the JSON envelope shared by every endpoint.
package response

import (
	"math"
	"net/http"
	"time"

	"github.com/Trinhvhao/event-management/internal/apperrors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// Envelope is the body of every API response.
type Envelope struct {
	Success   bool        `json:"success"`
	Data      interface{} `json:"data,omitempty"`
	Error     *ErrorBody  `json:"error,omitempty"`
	Message   string      `json:"message,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// ErrorBody describes a failed request.
type ErrorBody struct {
	Code    apperrors.Code `json:"code"`
	Message string         `json:"message"`
	Details interface{}    `json:"details,omitempty"`
}

// Pagination describes the position of a page within a listing.
type Pagination struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PageSize   int   `json:"pageSize"`
	TotalPages int   `json:"totalPages"`
	HasMore    bool  `json:"hasMore"`
}

// Page is the data payload of a paginated response.
type Page struct {
	Items      interface{} `json:"items"`
	Pagination Pagination  `json:"pagination"`
}

// NewPagination computes page counts for total items split into pages of pageSize.
func NewPagination(total int64, page, pageSize int) Pagination {
	totalPages := 0
	if pageSize > 0 {
		totalPages = int(math.Ceil(float64(total) / float64(pageSize)))
	}
	return Pagination{
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
		HasMore:    page < totalPages,
	}
}

// OK writes a 200 response carrying data.
func OK(c *gin.Context, data interface{}) {
	write(c, http.StatusOK, data, "")
}

// OKMessage writes a 200 response carrying data and a human readable message.
func OKMessage(c *gin.Context, data interface{}, message string) {
	write(c, http.StatusOK, data, message)
}

// Created writes a 201 response carrying data.
func Created(c *gin.Context, data interface{}, message string) {
	write(c, http.StatusCreated, data, message)
}

// Paginated writes a 200 response carrying one page of items.
func Paginated(c *gin.Context, items interface{}, pagination Pagination) {
	write(c, http.StatusOK, Page{Items: items, Pagination: pagination}, "")
}

func write(c *gin.Context, status int, data interface{}, message string) {
	c.JSON(status, Envelope{
		Success:   true,
		Data:      data,
		Message:   message,
		Timestamp: time.Now().UTC(),
	})
}

// Error writes the error envelope for err and aborts the handler chain.
// Errors that are not *apperrors.Error are reported as internal errors.
func Error(c *gin.Context, err error) {
	appErr, ok := apperrors.As(err)
	if !ok {
		appErr = apperrors.Internal(err)
	}
	status := appErr.Status()

	logger := zerolog.Ctx(c.Request.Context())
	if status >= http.StatusInternalServerError {
		logger.Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
	} else {
		logger.Debug().Str("code", string(appErr.Code)).Str("message", appErr.Message).Msg("request rejected")
	}

	c.AbortWithStatusJSON(status, Envelope{
		Success: false,
		Error: &ErrorBody{
			Code:    appErr.Code,
			Message: appErr.Message,
			Details: appErr.Details,
		},
		Timestamp: time.Now().UTC(),
	})
}
