package domain

import (
	"fmt"
)

// AuthErrorKind classifies authentication and authorization failures
type AuthErrorKind int

const (
	InvalidCredential AuthErrorKind = iota + 1
	UnknownSubject
	Forbidden
)

func (k AuthErrorKind) String() string {
	switch k {
	case InvalidCredential:
		return "invalid credential"
	case UnknownSubject:
		return "unknown subject"
	case Forbidden:
		return "forbidden"
	default:
		return "auth error"
	}
}

// AuthError is returned by token verification, identity resolution and the
// ownership guard. Err carries the internal cause for logs only.
type AuthError struct {
	Kind AuthErrorKind
	Err  error
}

func NewAuthError(kind AuthErrorKind, err error) *AuthError {
	return &AuthError{Kind: kind, Err: err}
}

func (e *AuthError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return e.Kind.String()
}

func (e *AuthError) Unwrap() error { return e.Err }

// Is matches any AuthError of the same kind
func (e *AuthError) Is(target error) bool {
	t, ok := target.(*AuthError)
	return ok && t.Kind == e.Kind
}

// NotFoundError is returned when a user or resource does not exist
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	if e.ID == "" {
		return e.Resource + " not found"
	}
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

func (e *NotFoundError) Is(target error) bool {
	_, ok := target.(*NotFoundError)
	return ok
}

// ConflictError is returned when a uniqueness constraint is violated
type ConflictError struct {
	Resource string
	Field    string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s with this %s already exists", e.Resource, e.Field)
}

func (e *ConflictError) Is(target error) bool {
	_, ok := target.(*ConflictError)
	return ok
}

// UpstreamError wraps a failed call to the model provider
type UpstreamError struct {
	Provider string
	Err      error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream %s: %v", e.Provider, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

func (e *UpstreamError) Is(target error) bool {
	_, ok := target.(*UpstreamError)
	return ok
}

// ValidationError is returned for malformed client input
type ValidationError struct {
	Message string
	Fields  map[string]string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Is(target error) bool {
	_, ok := target.(*ValidationError)
	return ok
}

var (
	ErrInvalidCredential = &AuthError{Kind: InvalidCredential}
	ErrUnknownSubject    = &AuthError{Kind: UnknownSubject}
	ErrForbidden         = &AuthError{Kind: Forbidden}
	ErrNotFound          = &NotFoundError{}
	ErrConflict          = &ConflictError{}
	ErrUpstream          = &UpstreamError{}
	ErrValidation        = &ValidationError{}
)
