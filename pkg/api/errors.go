package api

import "fmt"

// NetworkError means the transport failed outright and no response arrived.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string { return "network error: " + e.Err.Error() }
func (e *NetworkError) Unwrap() error { return e.Err }

// AuthError is a 401: missing, rejected, or expired credentials.
type AuthError struct {
	Status  int
	Message string
}

func (e *AuthError) Error() string { return describe("unauthorized", e.Status, e.Message) }
func (e *AuthError) StatusCode() int { return e.Status }

// AuthorizationError is a 403: the server refused an admin action. UI
// gating should prevent these, but a server rejection must still be
// tolerated.
type AuthorizationError struct {
	Status  int
	Message string
}

func (e *AuthorizationError) Error() string { return describe("forbidden", e.Status, e.Message) }
func (e *AuthorizationError) StatusCode() int { return e.Status }

// ValidationError is any other 4xx, typically a rejected payload.
type ValidationError struct {
	Status  int
	Message string
}

func (e *ValidationError) Error() string { return describe("rejected", e.Status, e.Message) }
func (e *ValidationError) StatusCode() int { return e.Status }

// ServerError is a 5xx.
type ServerError struct {
	Status  int
	Message string
}

func (e *ServerError) Error() string { return describe("server error", e.Status, e.Message) }
func (e *ServerError) StatusCode() int { return e.Status }

func describe(kind string, status int, message string) string {
	if message == "" {
		return fmt.Sprintf("%s (%d)", kind, status)
	}
	return fmt.Sprintf("%s (%d): %s", kind, status, message)
}

// errorFromStatus maps a non-2xx response onto the taxonomy once, at the
// client boundary.
func errorFromStatus(status int, message string) error {
	switch {
	case status == 401:
		return &AuthError{Status: status, Message: message}
	case status == 403:
		return &AuthorizationError{Status: status, Message: message}
	case status >= 500:
		return &ServerError{Status: status, Message: message}
	default:
		return &ValidationError{Status: status, Message: message}
	}
}
