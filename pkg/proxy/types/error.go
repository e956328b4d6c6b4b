package types

import "net/http"

// ErrorResponse is the public error body returned for every failure.
// The shape is stable across all error classes so the chat client needs a
// single decoding path.
type ErrorResponse struct {
	// Error contains the error details.
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains detailed error information.
type ErrorDetail struct {
	// Code is the numeric HTTP status of the failure.
	Code int `json:"code"`

	// Message is a human-readable error message.
	Message string `json:"message"`

	// Details carries optional structured context, such as the offending
	// field name. Never contains a raw credential.
	Details map[string]any `json:"details,omitempty"`
}

// NewErrorResponse creates an error response with the given status code,
// message, and optional details.
func NewErrorResponse(code int, message string, details map[string]any) *ErrorResponse {
	return &ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
			Details: details,
		},
	}
}

// NewValidationErrorResponse creates a 400 response naming the invalid field.
func NewValidationErrorResponse(message, field string) *ErrorResponse {
	var details map[string]any
	if field != "" {
		details = map[string]any{"field": field}
	}
	return NewErrorResponse(http.StatusBadRequest, message, details)
}

// NewAuthErrorResponse creates a 401 response.
func NewAuthErrorResponse(message string) *ErrorResponse {
	return NewErrorResponse(http.StatusUnauthorized, message, nil)
}

// NewRateLimitErrorResponse creates a 429 response with the retry window.
func NewRateLimitErrorResponse(retryAfterSeconds int) *ErrorResponse {
	return NewErrorResponse(http.StatusTooManyRequests, "rate limit exceeded", map[string]any{
		"retryAfterSeconds": retryAfterSeconds,
	})
}

// NewInternalErrorResponse creates a 500 response.
func NewInternalErrorResponse(message string) *ErrorResponse {
	return NewErrorResponse(http.StatusInternalServerError, message, nil)
}

// NewUnavailableErrorResponse creates a 503 response.
func NewUnavailableErrorResponse(message string) *ErrorResponse {
	return NewErrorResponse(http.StatusServiceUnavailable, message, nil)
}
