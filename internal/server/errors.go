package server

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/tariffdesk/internal/assistant/completion"
	"github.com/smallbiznis/tariffdesk/internal/assistant/stream"
	docsdomain "github.com/smallbiznis/tariffdesk/internal/docs/domain"
	proratadomain "github.com/smallbiznis/tariffdesk/internal/prorata/domain"
	"github.com/smallbiznis/tariffdesk/internal/ratelimit"
	taxdomain "github.com/smallbiznis/tariffdesk/internal/tax/domain"
)

type ValidationError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func (v ValidationErrors) Error() string {
	return "validation error"
}

type errorPayload struct {
	Type    string            `json:"type"`
	Message string            `json:"message"`
	Errors  []ValidationError `json:"errors,omitempty"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

var (
	ErrInternal           = errors.New("internal_error")
	ErrNotFound           = errors.New("not_found")
	ErrInvalidRequest     = errors.New("invalid_request")
	ErrRateLimited        = errors.New("rate_limited")
	ErrServiceUnavailable = errors.New("service_unavailable")
)

func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.Header("Content-Type", "application/json")
		c.AbortWithStatusJSON(status, errorResponse{Error: payload})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func invalidRequestError() error {
	return newValidationError("request", "invalid_request", "invalid request")
}

func newValidationError(field, code, message string) error {
	return &ValidationErrors{
		Errors: []ValidationError{
			{
				Field:   field,
				Code:    code,
				Message: message,
			},
		},
	}
}

func mapError(err error) (int, errorPayload) {
	if err == nil {
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}

	if vErr := asValidationErrors(err); vErr != nil {
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors:  vErr.Errors,
		}
	}

	if isValidationError(err) {
		code := validationErrorCode(err)
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors: []ValidationError{
				{
					Field:   validationErrorField(code),
					Code:    code,
					Message: validationErrorMessage(code),
				},
			},
		}
	}

	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound, errorPayload{
			Type:    "not_found",
			Message: "not found",
		}
	case errors.Is(err, ErrRateLimited):
		return http.StatusTooManyRequests, errorPayload{
			Type:    "rate_limited",
			Message: "too many requests",
		}
	case errors.Is(err, ErrServiceUnavailable),
		errors.Is(err, docsdomain.ErrStoreUnavailable),
		errors.Is(err, completion.ErrNotConfigured):
		return http.StatusServiceUnavailable, errorPayload{
			Type:    "service_unavailable",
			Message: "service unavailable",
		}
	default:
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}
}

func asValidationErrors(err error) *ValidationErrors {
	var vErr *ValidationErrors
	if errors.As(err, &vErr) && vErr != nil {
		return vErr
	}
	return nil
}

func isValidationError(err error) bool {
	switch {
	case errors.Is(err, ErrInvalidRequest),
		errors.Is(err, proratadomain.ErrInvalidDate),
		errors.Is(err, proratadomain.ErrInvalidAmount),
		errors.Is(err, proratadomain.ErrInvalidView),
		errors.Is(err, taxdomain.ErrInvalidAmount),
		errors.Is(err, taxdomain.ErrInvalidQuantity):
		return true
	default:
		return false
	}
}

func validationErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrInvalidRequest):
		return "invalid_request"
	case errors.Is(err, proratadomain.ErrInvalidDate):
		return "invalid_activation_date"
	case errors.Is(err, proratadomain.ErrInvalidAmount),
		errors.Is(err, taxdomain.ErrInvalidAmount):
		return "invalid_amount"
	case errors.Is(err, taxdomain.ErrInvalidQuantity):
		return "invalid_quantity"
	case errors.Is(err, proratadomain.ErrInvalidView):
		return "invalid_view"
	default:
		return err.Error()
	}
}

func validationErrorField(code string) string {
	if code == "invalid_request" {
		return "request"
	}
	if strings.HasPrefix(code, "invalid_") {
		return strings.TrimPrefix(code, "invalid_")
	}
	return ""
}

func validationErrorMessage(code string) string {
	switch code {
	case "invalid_request":
		return "invalid request"
	default:
		return "invalid value"
	}
}

// classifyErrorForLog feeds the request logger with a stable error type and
// code.
func classifyErrorForLog(err error) (string, string) {
	switch {
	case err == nil:
		return "", ""
	case asValidationErrors(err) != nil, isValidationError(err):
		return "validation", validationErrorCode(err)
	case errors.Is(err, ErrRateLimited), errors.Is(err, ratelimit.ErrEmptyKey):
		return "rate_limit", "rate_limited"
	case errors.Is(err, stream.ErrAborted), errors.Is(err, context.Canceled):
		return "canceled", "stream_aborted"
	case errors.Is(err, docsdomain.ErrStoreUnavailable), errors.Is(err, docsdomain.ErrCorruptStore):
		return "dependency", "docs_store"
	case errors.Is(err, completion.ErrNotConfigured):
		return "dependency", "completion"
	case errors.Is(err, ErrNotFound):
		return "not_found", "not_found"
	default:
		return "internal", "internal_error"
	}
}
