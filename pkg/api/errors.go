package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// APIError represents a structured API error response
type APIError struct {
	Code    int    `json:"code"`
	Error   string `json:"error"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// NewAPIError creates a new API error response
func NewAPIError(code int, error string, message string, details ...string) *APIError {
	apiErr := &APIError{
		Code:    code,
		Error:   error,
		Message: message,
	}
	if len(details) > 0 {
		apiErr.Details = details[0]
	}
	return apiErr
}

// SendError sends a structured error response
func SendError(c *gin.Context, apiErr *APIError) {
	c.JSON(apiErr.Code, apiErr)
}

// sendNotFound emits the standard 404 shape. Feature-gated endpoints answer
// with exactly this same shape so a gated feature's existence never leaks.
func sendNotFound(c *gin.Context, message string) {
	SendError(c, NewAPIError(http.StatusNotFound, "ResourceNotFound", message))
}

// sendNotSupported emits the stable shape for operations that are
// intentionally disabled, distinct from NotFound.
func sendNotSupported(c *gin.Context, message string) {
	SendError(c, NewAPIError(http.StatusBadRequest, "NotSupported", message))
}

// sendInvalidArgument emits the stable shape for unusable request input.
func sendInvalidArgument(c *gin.Context, message string) {
	SendError(c, NewAPIError(http.StatusBadRequest, "InvalidArgument", message))
}
