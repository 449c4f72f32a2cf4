package twitter

import (
	"errors"
	"fmt"
	"net/http"
)

// ClientError indicates a local failure: a transport error, a malformed
// token response, or API misuse such as calling Get on an empty path.
// It never carries an HTTP status code.
type ClientError struct {
	Message       string
	ResourceURL   string
	RequestMethod string
	Err           error
}

// Error implements the error interface
func (e *ClientError) Error() string {
	if e.RequestMethod != "" && e.ResourceURL != "" {
		return fmt.Sprintf("%s (%s %s)", e.Message, e.RequestMethod, e.ResourceURL)
	}
	return e.Message
}

// Unwrap returns the underlying error, if any.
func (e *ClientError) Unwrap() error {
	return e.Err
}

// APIError indicates that the remote API rejected the request.
type APIError struct {
	Message       string
	ResourceURL   string
	RequestMethod string
	StatusCode    int
	// ErrorCode is the Twitter error code from the response body.
	// Zero when the body carried no code.
	ErrorCode int
	Headers   http.Header
}

// Error implements the error interface
func (e *APIError) Error() string {
	if e.RequestMethod != "" && e.ResourceURL != "" {
		return fmt.Sprintf("%s (%s %s)", e.Message, e.RequestMethod, e.ResourceURL)
	}
	return e.Message
}

// IsNotFound checks if the error indicates an unknown API resource
func (e *APIError) IsNotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// AuthError is an APIError raised for a 401 response or a
// "Bad Authentication data" error message.
type AuthError struct {
	APIError
}

// Unwrap exposes the embedded APIError to errors.As.
func (e *AuthError) Unwrap() error {
	return &e.APIError
}

// RateLimitError is an APIError raised when the request was throttled:
// status 429 on the REST channel, 420 on the streaming channel.
type RateLimitError struct {
	APIError
}

// Unwrap exposes the embedded APIError to errors.As.
func (e *RateLimitError) Unwrap() error {
	return &e.APIError
}

// MissingFieldError is returned by JSONObject.Get for an absent key.
type MissingFieldError struct {
	Field string
}

// Error implements the error interface
func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("JSONObject has no property named %s.", e.Field)
}

// IsAuthError checks if the error indicates an authentication failure
func IsAuthError(err error) bool {
	var authErr *AuthError
	return errors.As(err, &authErr)
}

// IsRateLimitError checks if the error indicates request throttling
func IsRateLimitError(err error) bool {
	var rateErr *RateLimitError
	return errors.As(err, &rateErr)
}
