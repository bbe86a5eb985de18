package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Rrens/fitness-coach/internal/api/middleware"
	"github.com/Rrens/fitness-coach/internal/api/response"
	"github.com/Rrens/fitness-coach/internal/domain"
	"github.com/Rrens/fitness-coach/internal/service"
)

// progressInput accepts the date either as a full timestamp or a bare day
type progressInput struct {
	domain.DailyProgress
	Date string `json:"date"`
}

// ProgressHandler handles daily progress endpoints
type ProgressHandler struct {
	progress *service.ProgressService
}

// NewProgressHandler creates a new progress handler
func NewProgressHandler(progress *service.ProgressService) *ProgressHandler {
	return &ProgressHandler{progress: progress}
}

// Add records a progress entry for the path user
func (h *ProgressHandler) Add(w http.ResponseWriter, r *http.Request) {
	userID := domain.UserID(chi.URLParam(r, middleware.OwnerParam))

	var input progressInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	entry := input.DailyProgress
	if input.Date != "" {
		date, _, err := parseDate(input.Date)
		if err != nil {
			response.BadRequest(w, "date: "+err.Error())
			return
		}
		entry.Date = date
	}

	id, err := h.progress.AddProgress(r.Context(), userID, entry)
	if err != nil {
		response.FromError(w, r, err)
		return
	}

	response.OK(w, map[string]string{"id": id})
}

// List returns entries between start_date and end_date, inclusive
func (h *ProgressHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := domain.UserID(chi.URLParam(r, middleware.OwnerParam))
	query := r.URL.Query()

	start, _, err := requiredDate(query.Get("start_date"), "start_date")
	if err != nil {
		response.BadRequest(w, err.Error())
		return
	}
	end, dayOnly, err := requiredDate(query.Get("end_date"), "end_date")
	if err != nil {
		response.BadRequest(w, err.Error())
		return
	}
	if dayOnly {
		// A bare end day covers the whole day
		end = end.Add(24*time.Hour - time.Nanosecond)
	}

	entries, err := h.progress.ListProgress(r.Context(), userID, start, end)
	if err != nil {
		response.FromError(w, r, err)
		return
	}

	response.OK(w, entries)
}

func requiredDate(raw, name string) (time.Time, bool, error) {
	if raw == "" {
		return time.Time{}, false, fmt.Errorf("%s is required", name)
	}
	t, dayOnly, err := parseDate(raw)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("%s: %w", name, err)
	}
	return t, dayOnly, nil
}

// parseDate accepts RFC 3339, a timestamp without zone (read as UTC) or a
// bare YYYY-MM-DD, reporting whether it was the latter.
func parseDate(raw string) (time.Time, bool, error) {
	raw = strings.TrimSpace(raw)
	if t, err := time.Parse(time.DateOnly, raw); err == nil {
		return t, true, nil
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), false, nil
		}
	}
	return time.Time{}, false, fmt.Errorf("invalid date %q", raw)
}
