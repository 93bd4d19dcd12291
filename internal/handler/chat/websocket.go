package chat

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	chatservice "github.com/yudhapratama/desaku/backend/internal/service/chat"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// inboundFrame is a widget command received over the socket.
type inboundFrame struct {
	Type  string `json:"type"`
	Text  string `json:"text,omitempty"`
	Shift bool   `json:"shift,omitempty"`
}

// handleWebSocket runs one widget connection. The browser passes its access
// token as a query parameter; a missing or invalid token downgrades to a
// guest session instead of rejecting the connection.
func (h *Handler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conversationID := ""
	authenticated := false
	if token := r.URL.Query().Get("token"); token != "" {
		if identity, err := h.authSvc.VerifyToken(token); err == nil {
			conversationID = identity.UserID
			authenticated = true
		}
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	// Events may arrive from the compose goroutine while the read loop is
	// idle, so all writes go through a single writer goroutine.
	out := make(chan chatservice.Event, 32)
	done := make(chan struct{})
	defer close(done)

	go func() {
		for {
			select {
			case ev := <-out:
				if err := conn.WriteJSON(ev); err != nil {
					return
				}
			case <-done:
				return
			}
		}
	}()

	session, err := h.newSession(conversationID, authenticated, func(ev chatservice.Event) {
		select {
		case out <- ev:
		case <-done:
		}
	})
	if err != nil {
		h.logger.Error("failed to build chat session", zap.Error(err))
		return
	}
	defer session.Close()

	session.Start(r.Context())

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			return
		}

		var frame inboundFrame
		if err := json.Unmarshal(raw, &frame); err != nil {
			continue
		}

		switch frame.Type {
		case "input":
			session.SetInput(frame.Text)
		case "submit":
			session.Submit(r.Context())
		case "enter":
			session.HandleEnter(r.Context(), frame.Shift)
		case "message":
			// set-and-submit convenience for minimal clients
			session.SetInput(frame.Text)
			session.Submit(r.Context())
		}
	}
}
