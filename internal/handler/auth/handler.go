package auth

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/yudhapratama/desaku/backend/internal/middleware"
	authservice "github.com/yudhapratama/desaku/backend/internal/service/auth"
	"github.com/yudhapratama/desaku/backend/internal/store"
	"github.com/yudhapratama/desaku/backend/pkg/utils"
)

// Handler serves account endpoints.
type Handler struct {
	authSvc *authservice.Service
}

// New creates the auth handler.
func New(authSvc *authservice.Service) *Handler {
	return &Handler{authSvc: authSvc}
}

// RegisterRoutes mounts the public account routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/auth/register", h.handleRegister)
	r.Post("/auth/login", h.handleLogin)
}

// RegisterProtectedRoutes mounts routes that need a signed-in user.
func (h *Handler) RegisterProtectedRoutes(r chi.Router) {
	r.Get("/auth/me", h.handleMe)
	r.Put("/auth/me", h.handleUpdateProfile)
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		FullName string `json:"fullName"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	u, err := h.authSvc.Register(r.Context(), payload.Email, payload.Password, payload.FullName)
	if errors.Is(err, authservice.ErrEmailTaken) {
		utils.RespondError(w, http.StatusConflict, err.Error())
		return
	}
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	utils.RespondJSON(w, http.StatusCreated, u)
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	u, token, err := h.authSvc.Login(r.Context(), payload.Email, payload.Password)
	if errors.Is(err, authservice.ErrInvalidCredentials) {
		utils.RespondError(w, http.StatusUnauthorized, err.Error())
		return
	}
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "login failed")
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"token": token,
		"user":  u,
	})
}

func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		utils.RespondError(w, http.StatusUnauthorized, "authorization required")
		return
	}

	u, err := h.authSvc.GetUser(r.Context(), identity.UserID)
	if errors.Is(err, store.ErrNotFound) {
		utils.RespondError(w, http.StatusNotFound, "account not found")
		return
	}
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "could not load account")
		return
	}

	utils.RespondJSON(w, http.StatusOK, u)
}

func (h *Handler) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		utils.RespondError(w, http.StatusUnauthorized, "authorization required")
		return
	}

	var payload struct {
		FullName string `json:"fullName"`
		Phone    string `json:"phone"`
		Address  string `json:"address"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.authSvc.UpdateProfile(r.Context(), identity.UserID, payload.FullName, payload.Phone, payload.Address); err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	u, err := h.authSvc.GetUser(r.Context(), identity.UserID)
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "could not load account")
		return
	}
	utils.RespondJSON(w, http.StatusOK, u)
}
