// Package validation checks request payloads before they reach the services.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/Trinhvhao/event-management/internal/apperrors"
	"github.com/go-playground/validator/v10"
)

// Validator wraps go-playground/validator with the request schemas' cross-field rules.
type Validator struct {
	validate *validator.Validate
}

// New creates a Validator. Field names in reported errors use the json tag.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return field.Name
		}
		return name
	})
	v.RegisterStructValidation(createEventRules, CreateEventRequest{})
	v.RegisterStructValidation(updateEventRules, UpdateEventRequest{})
	return &Validator{validate: v}
}

// Struct validates s and returns a VALIDATION_ERROR listing every violated field.
func (v *Validator) Struct(s interface{}) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return apperrors.Validation("Invalid input data", []apperrors.FieldError{{
			Field:   "body",
			Rule:    "invalid",
			Message: err.Error(),
		}})
	}

	fields := make([]apperrors.FieldError, 0, len(validationErrors))
	for _, fe := range validationErrors {
		fields = append(fields, apperrors.FieldError{
			Field:   fe.Field(),
			Rule:    fe.Tag(),
			Message: message(fe),
		})
	}
	return apperrors.Validation("Invalid input data", fields)
}

// ParseTime parses an ISO-8601 timestamp as accepted by the request schemas.
func ParseTime(value string) (time.Time, error) {
	return time.Parse(time.RFC3339, value)
}

func createEventRules(sl validator.StructLevel) {
	req := sl.Current().Interface().(CreateEventRequest)
	checkTimeOrder(sl, req.StartTime, req.EndTime)
}

func updateEventRules(sl validator.StructLevel) {
	req := sl.Current().Interface().(UpdateEventRequest)
	if req.StartTime != nil && req.EndTime != nil {
		checkTimeOrder(sl, *req.StartTime, *req.EndTime)
	}
}

// checkTimeOrder reports end_time when both values parse and end is not after start.
// Unparseable values are already reported by the datetime tag.
func checkTimeOrder(sl validator.StructLevel, startValue, endValue string) {
	start, err := ParseTime(startValue)
	if err != nil {
		return
	}
	end, err := ParseTime(endValue)
	if err != nil {
		return
	}
	if !end.After(start) {
		sl.ReportError(endValue, "end_time", "EndTime", "after_start", "")
	}
}

func message(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return "Invalid email address"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	case "datetime":
		return "Invalid datetime format"
	case "url":
		return fmt.Sprintf("%s must be a valid URL", field)
	case "after_start":
		return "End time must be after start time"
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
