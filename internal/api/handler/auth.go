package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/Rrens/fitness-coach/internal/api/response"
	"github.com/Rrens/fitness-coach/internal/domain"
	"github.com/Rrens/fitness-coach/internal/service"
)

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	authService *service.AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Register handles user registration
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var input domain.UserCreate
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	user, err := h.authService.Register(r.Context(), input)
	if err != nil {
		if errors.Is(err, domain.ErrConflict) {
			response.BadRequest(w, "Email already registered")
			return
		}
		response.FromError(w, r, err)
		return
	}

	response.OK(w, user)
}

// Login exchanges form credentials for a bearer token. The username field
// carries the email.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		response.BadRequest(w, "invalid form body")
		return
	}

	username := strings.TrimSpace(r.PostForm.Get("username"))
	password := r.PostForm.Get("password")
	if username == "" || password == "" {
		response.BadRequest(w, "username and password are required")
		return
	}

	token, err := h.authService.Login(r.Context(), username, password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredential) {
			response.Unauthorized(w, "Incorrect username or password")
			return
		}
		response.FromError(w, r, err)
		return
	}

	response.OK(w, token)
}
