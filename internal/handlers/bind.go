package handlers

import (
	"strconv"

	"github.com/Trinhvhao/event-management/internal/apperrors"
	"github.com/Trinhvhao/event-management/internal/validation"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

// bindJSON decodes the request body into dst and validates it.
func bindJSON(c *gin.Context, v *validation.Validator, dst interface{}) error {
	if err := c.ShouldBindWith(dst, binding.JSON); err != nil {
		return apperrors.Validation("Invalid request body", []apperrors.FieldError{
			{Field: "body", Rule: "json", Message: "Request body must be valid JSON"},
		})
	}
	return v.Struct(dst)
}

// pathID parses a positive numeric path parameter.
func pathID(c *gin.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.Validation("Invalid input data", []apperrors.FieldError{
			{Field: name, Rule: "gt", Message: name + " must be a positive integer"},
		})
	}
	return id, nil
}
