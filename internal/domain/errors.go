package domain

import "errors"

var (
	ErrNotFound           = errors.New("resource not found")
	ErrUnauthenticated    = errors.New("unauthenticated")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAlreadyExists      = errors.New("user already exists")
	ErrInvalidInput       = errors.New("invalid input")
	ErrMissingCode        = errors.New("missing code")
	ErrMissingEmail       = errors.New("email not found in profile")
	ErrUpstream           = errors.New("upstream failure")
)

// UpstreamError wraps a failed call to an external provider, keeping the raw
// response body so handlers can surface it as debugging detail.
type UpstreamError struct {
	Kind    error  // ErrTokenExchange or ErrUserInfoFetch
	Status  int
	Details string
}

var (
	ErrTokenExchange = errors.New("token exchange failed")
	ErrUserInfoFetch = errors.New("failed to fetch user info")
)

func (e *UpstreamError) Error() string {
	return e.Kind.Error()
}

func (e *UpstreamError) Unwrap() error {
	return e.Kind
}

// ValidationError represents a field-level validation failure.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}
