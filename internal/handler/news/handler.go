package news

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/yudhapratama/desaku/backend/internal/middleware"
	newsservice "github.com/yudhapratama/desaku/backend/internal/service/news"
	"github.com/yudhapratama/desaku/backend/internal/store"
	"github.com/yudhapratama/desaku/backend/pkg/utils"
)

// Handler serves the public news feed and the admin publishing routes.
type Handler struct {
	newsSvc *newsservice.Service
}

// New creates the news handler.
func New(newsSvc *newsservice.Service) *Handler {
	return &Handler{newsSvc: newsSvc}
}

// RegisterRoutes mounts the public read-only routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/news", h.handleList)
	r.Get("/news/{slug}", h.handleGet)
}

// RegisterAdminRoutes mounts the publishing routes.
func (h *Handler) RegisterAdminRoutes(r chi.Router) {
	r.Post("/news", h.handleCreate)
	r.Post("/news/{id}/publish", h.handlePublish)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	articles, err := h.newsSvc.ListPublished(r.Context())
	if err != nil {
		utils.RespondError(w, http.StatusServiceUnavailable, "could not load news")
		return
	}
	utils.RespondJSON(w, http.StatusOK, articles)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	article, err := h.newsSvc.GetBySlug(r.Context(), slug)
	if errors.Is(err, store.ErrNotFound) {
		utils.RespondError(w, http.StatusNotFound, "article not found")
		return
	}
	if err != nil {
		utils.RespondError(w, http.StatusServiceUnavailable, "could not load article")
		return
	}
	utils.RespondJSON(w, http.StatusOK, article)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		utils.RespondError(w, http.StatusUnauthorized, "authorization required")
		return
	}

	var payload struct {
		Title   string `json:"title"`
		Summary string `json:"summary"`
		Body    string `json:"body"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	article, err := h.newsSvc.Create(r.Context(), identity.UserID, payload.Title, payload.Summary, payload.Body)
	if errors.Is(err, newsservice.ErrInvalidArticle) {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		utils.RespondError(w, http.StatusServiceUnavailable, "could not create article")
		return
	}
	utils.RespondJSON(w, http.StatusCreated, article)
}

func (h *Handler) handlePublish(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	err := h.newsSvc.Publish(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		utils.RespondError(w, http.StatusNotFound, "article not found")
		return
	}
	if err != nil {
		utils.RespondError(w, http.StatusServiceUnavailable, "could not publish article")
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "published"})
}
