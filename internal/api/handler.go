// Package api provides HTTP handlers for the cvtailor API.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/arusheva/cvtailor/internal/domain"
	"github.com/arusheva/cvtailor/internal/store"
	"github.com/arusheva/cvtailor/internal/supervisor"
)

// Service is the boundary the transport layer talks to. The supervisor
// implements it; tests use a fake.
type Service interface {
	StartSession(ctx context.Context) (string, string, error)
	SendMessage(ctx context.Context, sessionID, userText string) (*supervisor.TurnOutcome, error)
	GetState(ctx context.Context, sessionID string) (domain.StateSummary, error)
	DeleteSession(ctx context.Context, sessionID string) error
	CleanupSessions(ctx context.Context, ttl time.Duration) (int64, error)
	ActiveSessions(ctx context.Context) (int, error)
}

// Handler serves the supervisor's boundary operations over HTTP.
type Handler struct {
	svc        Service
	sessionTTL time.Duration
}

func NewHandler(svc Service, sessionTTL time.Duration) *Handler {
	return &Handler{svc: svc, sessionTTL: sessionTTL}
}

// Routes returns the supervisor API router, mounted under /api/supervisor.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/session/start", h.startSession)
	r.Post("/session/message", h.sendMessage)
	r.Get("/session/{sessionID}/state", h.getState)
	r.Delete("/session/{sessionID}", h.deleteSession)
	r.Get("/health", h.health)
	r.Post("/cleanup-sessions", h.cleanupSessions)
	return r
}

// JSON writes a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, `{"error": "failed to encode response"}`, http.StatusInternalServerError)
	}
}

// Error writes a JSON error response.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, map[string]string{"error": message})
}

type startSessionResponse struct {
	SessionID      string `json:"session_id"`
	WelcomeMessage string `json:"welcome_message"`
}

func (h *Handler) startSession(w http.ResponseWriter, r *http.Request) {
	id, welcome, err := h.svc.StartSession(r.Context())
	if err != nil {
		slog.Error("Failed to start session", "error", err)
		Error(w, http.StatusInternalServerError, "failed to create session")
		return
	}
	JSON(w, http.StatusCreated, startSessionResponse{SessionID: id, WelcomeMessage: welcome})
}

type sendMessageRequest struct {
	SessionID string `json:"session_id"`
	UserInput string `json:"user_input"`
}

func (h *Handler) sendMessage(w http.ResponseWriter, r *http.Request) {
	var req sendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.SessionID == "" {
		Error(w, http.StatusBadRequest, "session_id is required")
		return
	}
	if strings.TrimSpace(req.UserInput) == "" {
		Error(w, http.StatusBadRequest, "user_input is required")
		return
	}

	outcome, err := h.svc.SendMessage(r.Context(), req.SessionID, req.UserInput)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			Error(w, http.StatusNotFound, "session not found")
			return
		}
		slog.Error("Failed to process message", "session_id", req.SessionID, "error", err)
		Error(w, http.StatusInternalServerError, "failed to process message")
		return
	}
	JSON(w, http.StatusOK, outcome)
}

func (h *Handler) getState(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	summary, err := h.svc.GetState(r.Context(), sessionID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			Error(w, http.StatusNotFound, "session not found")
			return
		}
		slog.Error("Failed to load session state", "session_id", sessionID, "error", err)
		Error(w, http.StatusInternalServerError, "failed to load session state")
		return
	}
	JSON(w, http.StatusOK, summary)
}

func (h *Handler) deleteSession(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	if err := h.svc.DeleteSession(r.Context(), sessionID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			Error(w, http.StatusNotFound, "session not found")
			return
		}
		slog.Error("Failed to delete session", "session_id", sessionID, "error", err)
		Error(w, http.StatusInternalServerError, "failed to delete session")
		return
	}
	JSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	count, err := h.svc.ActiveSessions(r.Context())
	if err != nil {
		slog.Error("Health check failed", "error", err)
		Error(w, http.StatusServiceUnavailable, "storage unavailable")
		return
	}
	JSON(w, http.StatusOK, map[string]interface{}{
		"status":          "healthy",
		"active_sessions": count,
	})
}

func (h *Handler) cleanupSessions(w http.ResponseWriter, r *http.Request) {
	removed, err := h.svc.CleanupSessions(r.Context(), h.sessionTTL)
	if err != nil {
		slog.Error("Session cleanup failed", "error", err)
		Error(w, http.StatusInternalServerError, "cleanup failed")
		return
	}
	JSON(w, http.StatusOK, map[string]interface{}{
		"status":           "ok",
		"sessions_removed": removed,
	})
}
