package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/Rrens/fitness-coach/internal/api/middleware"
	"github.com/Rrens/fitness-coach/internal/api/response"
	"github.com/Rrens/fitness-coach/internal/domain"
	"github.com/Rrens/fitness-coach/internal/security"
	"github.com/Rrens/fitness-coach/internal/service"
)

// ChatRequest is the JSON body accepted when no message query parameter is sent
type ChatRequest struct {
	Message string `json:"message"`
}

// ChatHandler handles conversation endpoints
type ChatHandler struct {
	coach     *service.CoachService
	progress  *service.ProgressService
	validator *security.InputValidator
}

// NewChatHandler creates a new chat handler
func NewChatHandler(coach *service.CoachService, progress *service.ProgressService, validator *security.InputValidator) *ChatHandler {
	return &ChatHandler{
		coach:     coach,
		progress:  progress,
		validator: validator,
	}
}

// Chat runs one exchange with the coach
func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	userID := domain.UserID(chi.URLParam(r, middleware.OwnerParam))

	message := r.URL.Query().Get("message")
	if message == "" && r.Body != nil && r.ContentLength != 0 {
		var req ChatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
			response.BadRequest(w, "invalid request body")
			return
		}
		message = req.Message
	}

	message, err := h.validator.Message(message)
	if err != nil {
		response.FromError(w, r, err)
		return
	}

	reply, err := h.coach.Respond(r.Context(), userID, message)
	if err != nil {
		response.FromError(w, r, err)
		return
	}

	response.OK(w, map[string]string{"response": reply})
}

// History returns the most recent messages, newest first
func (h *ChatHandler) History(w http.ResponseWriter, r *http.Request) {
	userID := domain.UserID(chi.URLParam(r, middleware.OwnerParam))

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			response.BadRequest(w, "limit must be an integer")
			return
		}
		limit = n
	}

	messages, err := h.progress.ChatHistory(r.Context(), userID, limit)
	if err != nil {
		response.FromError(w, r, err)
		return
	}

	response.OK(w, messages)
}
