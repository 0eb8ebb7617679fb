package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"travel/internal/service"
)

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// clientErrors are the sentinels whose message is safe to show to callers.
var clientErrors = []error{
	service.ErrMissingFields,
	service.ErrMissingPaymentID,
	service.ErrInvalidSignature,
	service.ErrPaymentNotFound,
	service.ErrPaymentNotConfirmed,
	service.ErrBookingNotFound,
	service.ErrBookingNotConfirmed,
	service.ErrBookingNotPayable,
}

// respondError sends an error response with the appropriate HTTP status code.
// Server errors carry a generic message; the wrapped store error is never exposed.
func respondError(c *gin.Context, err error) {
	code := mapErrorToHTTPStatus(err)
	_ = c.Error(err)
	c.JSON(code, ErrorResponse{Error: publicMessage(err)})
}

// respondBadRequest sends a 400 for input that could not be decoded.
func respondBadRequest(c *gin.Context, msg, details string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: msg, Details: details})
}

// respondJSON sends a JSON response with the given status code.
func respondJSON(c *gin.Context, code int, data any) {
	c.JSON(code, data)
}

// mapErrorToHTTPStatus maps service errors to HTTP status codes.
func mapErrorToHTTPStatus(err error) int {
	switch {
	// Validation and authenticity errors - Bad Request
	case errors.Is(err, service.ErrMissingFields),
		errors.Is(err, service.ErrMissingPaymentID),
		errors.Is(err, service.ErrInvalidSignature),
		errors.Is(err, service.ErrPaymentNotConfirmed),
		errors.Is(err, service.ErrBookingNotConfirmed),
		errors.Is(err, service.ErrBookingNotPayable):
		return http.StatusBadRequest

	// Not found errors
	case errors.Is(err, service.ErrPaymentNotFound),
		errors.Is(err, service.ErrBookingNotFound):
		return http.StatusNotFound

	// Default to internal server error
	default:
		return http.StatusInternalServerError
	}
}

func publicMessage(err error) string {
	for _, target := range clientErrors {
		if errors.Is(err, target) {
			return target.Error()
		}
	}
	if errors.Is(err, service.ErrUpdateFailed) {
		return service.ErrUpdateFailed.Error()
	}
	return "internal server error"
}
