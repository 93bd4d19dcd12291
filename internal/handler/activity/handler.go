package activity

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	activityservice "github.com/yudhapratama/desaku/backend/internal/service/activity"
	"github.com/yudhapratama/desaku/backend/pkg/utils"
)

// Handler serves the public agenda and the admin agenda routes.
type Handler struct {
	activitySvc *activityservice.Service
}

// New creates the activity handler.
func New(activitySvc *activityservice.Service) *Handler {
	return &Handler{activitySvc: activitySvc}
}

// RegisterRoutes mounts the public read-only routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/activities", h.handleList)
}

// RegisterAdminRoutes mounts the agenda management routes.
func (h *Handler) RegisterAdminRoutes(r chi.Router) {
	r.Post("/activities", h.handleCreate)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	activities, err := h.activitySvc.ListUpcoming(r.Context())
	if err != nil {
		utils.RespondError(w, http.StatusServiceUnavailable, "could not load activities")
		return
	}
	utils.RespondJSON(w, http.StatusOK, activities)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Title       string    `json:"title"`
		Description string    `json:"description"`
		Location    string    `json:"location"`
		StartsAt    time.Time `json:"startsAt"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	a, err := h.activitySvc.Create(r.Context(), payload.Title, payload.Description, payload.Location, payload.StartsAt)
	if errors.Is(err, activityservice.ErrInvalidActivity) {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		utils.RespondError(w, http.StatusServiceUnavailable, "could not create activity")
		return
	}
	utils.RespondJSON(w, http.StatusCreated, a)
}
