package response

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/Rrens/fitness-coach/internal/domain"
)

// ErrorBody is the error envelope clients already parse
type ErrorBody struct {
	Detail any `json:"detail"`
}

// JSON sends a JSON response
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Warn().Err(err).Msg("failed to encode response")
	}
}

// Error sends an error response
func Error(w http.ResponseWriter, status int, detail any) {
	JSON(w, status, ErrorBody{Detail: detail})
}

// Created sends a 201 Created response with data
func Created(w http.ResponseWriter, data any) {
	JSON(w, http.StatusCreated, data)
}

// OK sends a 200 OK response with data
func OK(w http.ResponseWriter, data any) {
	JSON(w, http.StatusOK, data)
}

// BadRequest sends a 400 Bad Request response
func BadRequest(w http.ResponseWriter, detail any) {
	Error(w, http.StatusBadRequest, detail)
}

// Unauthorized sends a 401 with the bearer challenge
func Unauthorized(w http.ResponseWriter, detail any) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	Error(w, http.StatusUnauthorized, detail)
}

// Forbidden sends a 403 Forbidden response
func Forbidden(w http.ResponseWriter, detail any) {
	Error(w, http.StatusForbidden, detail)
}

// NotFound sends a 404 Not Found response
func NotFound(w http.ResponseWriter, detail any) {
	Error(w, http.StatusNotFound, detail)
}

// InternalError sends a 500 Internal Server Error response
func InternalError(w http.ResponseWriter, detail any) {
	Error(w, http.StatusInternalServerError, detail)
}

// FromError maps a service error onto its status code. Anything unrecognised
// becomes a generic 500 and the cause is only logged.
func FromError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		authErr       *domain.AuthError
		validationErr *domain.ValidationError
		conflictErr   *domain.ConflictError
		notFoundErr   *domain.NotFoundError
	)

	switch {
	case errors.As(err, &authErr):
		switch authErr.Kind {
		case domain.Forbidden:
			Forbidden(w, "Not authorized to access this resource")
		case domain.UnknownSubject:
			Unauthorized(w, "User not found")
		default:
			Unauthorized(w, "Invalid authentication credentials")
		}
	case errors.As(err, &validationErr):
		BadRequest(w, validationErr.Message)
	case errors.As(err, &conflictErr):
		BadRequest(w, capitalize(conflictErr.Error()))
	case errors.As(err, &notFoundErr):
		NotFound(w, capitalize(notFoundErr.Error()))
	default:
		log.Error().
			Err(err).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Msg("request failed")
		InternalError(w, "Internal server error")
	}
}

func capitalize(s string) string {
	if s == "" || s[0] < 'a' || s[0] > 'z' {
		return s
	}
	return string(s[0]-'a'+'A') + s[1:]
}
