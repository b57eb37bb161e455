package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/coder/websocket"

	"github.com/arusheva/cvtailor/internal/store"
)

// WebSocketHandler carries the send_message operation over a websocket
// for interactive frontends. Each inbound frame is one user turn; each
// outbound frame is the full turn outcome.
type WebSocketHandler struct {
	svc           Service
	allowedOrigin string
	isDev         bool
}

func NewWebSocketHandler(svc Service, allowedOrigin string, isDev bool) *WebSocketHandler {
	return &WebSocketHandler{
		svc:           svc,
		allowedOrigin: allowedOrigin,
		isDev:         isDev,
	}
}

type wsInbound struct {
	UserInput string `json:"user_input"`
}

type wsError struct {
	Error string `json:"error"`
}

// ServeHTTP upgrades the connection and runs the chat loop until the
// client disconnects.
func (h *WebSocketHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("session_id")
	if sessionID == "" {
		http.Error(w, "session_id is required", http.StatusBadRequest)
		return
	}

	if !h.checkOrigin(r) {
		http.Error(w, "origin not allowed", http.StatusForbidden)
		return
	}

	if _, err := h.svc.GetState(r.Context(), sessionID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			http.Error(w, "session not found", http.StatusNotFound)
			return
		}
		http.Error(w, "failed to load session", http.StatusInternalServerError)
		return
	}

	ws, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		slog.Error("Failed to accept WebSocket", "error", err, "session_id", sessionID)
		return
	}
	defer func() {
		if closeErr := ws.Close(websocket.StatusNormalClosure, "chat ended"); closeErr != nil {
			slog.Debug("Failed to close websocket", "error", closeErr, "session_id", sessionID)
		}
	}()

	slog.Info("WebSocket chat connected", "session_id", sessionID, "ip", r.RemoteAddr)

	ctx := r.Context()
	for {
		_, data, err := ws.Read(ctx)
		if err != nil {
			status := websocket.CloseStatus(err)
			if status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway || ctx.Err() != nil {
				return
			}
			slog.Debug("WebSocket read error", "error", err, "session_id", sessionID)
			return
		}

		var inbound wsInbound
		if err := json.Unmarshal(data, &inbound); err != nil || strings.TrimSpace(inbound.UserInput) == "" {
			h.writeJSON(ctx, ws, wsError{Error: "user_input is required"})
			continue
		}

		outcome, err := h.svc.SendMessage(ctx, sessionID, inbound.UserInput)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				h.writeJSON(ctx, ws, wsError{Error: "session not found"})
				return
			}
			slog.Error("WebSocket turn failed", "session_id", sessionID, "error", err)
			h.writeJSON(ctx, ws, wsError{Error: "failed to process message"})
			continue
		}

		h.writeJSON(ctx, ws, outcome)
	}
}

func (h *WebSocketHandler) writeJSON(ctx context.Context, ws *websocket.Conn, v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		slog.Debug("Failed to encode websocket frame", "error", err)
		return
	}
	if err := ws.Write(ctx, websocket.MessageText, data); err != nil {
		slog.Debug("WebSocket write error", "error", err)
	}
}

func (h *WebSocketHandler) checkOrigin(r *http.Request) bool {
	if h.isDev {
		return true
	}
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	return h.allowedOrigin == "" || strings.HasPrefix(origin, h.allowedOrigin)
}
