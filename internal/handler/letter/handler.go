package letter

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/yudhapratama/desaku/backend/internal/middleware"
	"github.com/yudhapratama/desaku/backend/internal/model/letter"
	letterservice "github.com/yudhapratama/desaku/backend/internal/service/letter"
	"github.com/yudhapratama/desaku/backend/internal/store"
	"github.com/yudhapratama/desaku/backend/pkg/utils"
)

// Handler serves citizen document requests and the back-office queue.
type Handler struct {
	letterSvc *letterservice.Service
}

// New creates the letter handler.
func New(letterSvc *letterservice.Service) *Handler {
	return &Handler{letterSvc: letterSvc}
}

// RegisterProtectedRoutes mounts the citizen routes.
func (h *Handler) RegisterProtectedRoutes(r chi.Router) {
	r.Post("/letters", h.handleSubmit)
	r.Get("/letters", h.handleListMine)
}

// RegisterAdminRoutes mounts the back-office routes.
func (h *Handler) RegisterAdminRoutes(r chi.Router) {
	r.Get("/letters", h.handleListAll)
	r.Patch("/letters/{id}", h.handleUpdateStatus)
}

func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		utils.RespondError(w, http.StatusUnauthorized, "authorization required")
		return
	}

	var payload struct {
		Kind    string `json:"kind"`
		Purpose string `json:"purpose"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	request, err := h.letterSvc.Submit(r.Context(), identity.UserID, payload.Kind, payload.Purpose)
	if errors.Is(err, letterservice.ErrUnknownKind) || errors.Is(err, letterservice.ErrEmptyPurpose) {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		utils.RespondError(w, http.StatusServiceUnavailable, "could not submit request")
		return
	}
	utils.RespondJSON(w, http.StatusCreated, request)
}

func (h *Handler) handleListMine(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		utils.RespondError(w, http.StatusUnauthorized, "authorization required")
		return
	}

	requests, err := h.letterSvc.ListMine(r.Context(), identity.UserID)
	if err != nil {
		utils.RespondError(w, http.StatusServiceUnavailable, "could not load requests")
		return
	}
	utils.RespondJSON(w, http.StatusOK, requests)
}

func (h *Handler) handleListAll(w http.ResponseWriter, r *http.Request) {
	requests, err := h.letterSvc.ListAll(r.Context())
	if err != nil {
		utils.RespondError(w, http.StatusServiceUnavailable, "could not load requests")
		return
	}
	utils.RespondJSON(w, http.StatusOK, requests)
}

func (h *Handler) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var payload struct {
		Status letter.Status `json:"status"`
		Note   string        `json:"note"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	request, err := h.letterSvc.UpdateStatus(r.Context(), id, payload.Status, payload.Note)
	if errors.Is(err, letterservice.ErrInvalidStatus) {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if errors.Is(err, store.ErrNotFound) {
		utils.RespondError(w, http.StatusNotFound, "request not found")
		return
	}
	if err != nil {
		utils.RespondError(w, http.StatusServiceUnavailable, "could not update request")
		return
	}
	utils.RespondJSON(w, http.StatusOK, request)
}
