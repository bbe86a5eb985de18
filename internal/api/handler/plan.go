package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Rrens/fitness-coach/internal/api/middleware"
	"github.com/Rrens/fitness-coach/internal/api/response"
	"github.com/Rrens/fitness-coach/internal/domain"
	"github.com/Rrens/fitness-coach/internal/service"
)

// PlanHandler handles workout and diet plan generation
type PlanHandler struct {
	coach *service.CoachService
}

// NewPlanHandler creates a new plan handler
func NewPlanHandler(coach *service.CoachService) *PlanHandler {
	return &PlanHandler{coach: coach}
}

// Workout generates a workout plan for the path user
func (h *PlanHandler) Workout(w http.ResponseWriter, r *http.Request) {
	h.generate(w, r, h.coach.GenerateWorkoutPlan, "Failed to generate workout plan")
}

// Diet generates a diet plan for the path user
func (h *PlanHandler) Diet(w http.ResponseWriter, r *http.Request) {
	h.generate(w, r, h.coach.GenerateDietPlan, "Failed to generate diet plan")
}

func (h *PlanHandler) generate(
	w http.ResponseWriter,
	r *http.Request,
	generate func(context.Context, domain.UserID) (*domain.Plan, error),
	failure string,
) {
	userID := domain.UserID(chi.URLParam(r, middleware.OwnerParam))

	plan, err := generate(r.Context(), userID)
	if err != nil {
		if errors.Is(err, domain.ErrUpstream) {
			response.InternalError(w, failure)
			return
		}
		response.FromError(w, r, err)
		return
	}

	response.OK(w, plan)
}
