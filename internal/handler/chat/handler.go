package chat

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/yudhapratama/desaku/backend/internal/middleware"
	authservice "github.com/yudhapratama/desaku/backend/internal/service/auth"
	chatservice "github.com/yudhapratama/desaku/backend/internal/service/chat"
	"github.com/yudhapratama/desaku/backend/internal/service/responder"
	"github.com/yudhapratama/desaku/backend/internal/store"
	"github.com/yudhapratama/desaku/backend/pkg/utils"
)

// Config carries the session tuning shared by every widget connection.
type Config struct {
	DelayMin time.Duration
	DelayMax time.Duration
}

// Handler serves the customer-service chat widget.
type Handler struct {
	messages  store.MessageStore
	responder *responder.Responder
	authSvc   *authservice.Service
	feed      *authservice.Feed
	logger    *zap.Logger
	cfg       Config
}

// New creates the chat handler.
func New(messages store.MessageStore, rsp *responder.Responder, authSvc *authservice.Service, feed *authservice.Feed, logger *zap.Logger, cfg Config) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		messages:  messages,
		responder: rsp,
		authSvc:   authSvc,
		feed:      feed,
		logger:    logger,
		cfg:       cfg,
	}
}

// RegisterRoutes mounts the widget transport. The websocket route does its
// own token handling so guests can connect too.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/chat/ws", h.handleWebSocket)
}

// RegisterProtectedRoutes mounts the REST fallback for history.
func (h *Handler) RegisterProtectedRoutes(r chi.Router) {
	r.Get("/chat/history", h.handleHistory)
}

func (h *Handler) handleHistory(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		utils.RespondError(w, http.StatusUnauthorized, "authorization required")
		return
	}

	messages, err := h.messages.ListMessages(r.Context(), identity.UserID)
	if err != nil {
		utils.RespondError(w, http.StatusServiceUnavailable, "could not load chat history")
		return
	}
	utils.RespondJSON(w, http.StatusOK, messages)
}

// newSession builds the session controller for one widget connection.
func (h *Handler) newSession(conversationID string, authenticated bool, onEvent func(chatservice.Event)) (*chatservice.Session, error) {
	return chatservice.NewSession(chatservice.Options{
		Store:          h.messages,
		Responder:      h.responder,
		Logger:         h.logger,
		AuthFeed:       h.feed,
		ConversationID: conversationID,
		Authenticated:  authenticated,
		DelayMin:       h.cfg.DelayMin,
		DelayMax:       h.cfg.DelayMax,
		OnEvent:        onEvent,
	})
}
