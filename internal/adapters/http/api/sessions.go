// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

type sessionResponse struct {
	SessionID string `json:"sessionId"`
}

type pointerRequest struct {
	Delta float64 `json:"delta"`
}

type choiceRequest struct {
	Choice int `json:"choice"`
}

type choiceResponse struct {
	Terminal bool `json:"terminal"`
}

// SessionsHandler handles interview session requests.
type SessionsHandler struct {
	svc Service
}

// NewSessionsHandler creates a new sessions handler.
func NewSessionsHandler(svc Service) *SessionsHandler {
	return &SessionsHandler{svc: svc}
}

// HandlePostSession handles POST /sessions requests.
func (h *SessionsHandler) HandlePostSession(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	id, err := h.svc.StartSession(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, sessionResponse{SessionID: id})
}

// HandleSessionSubresource routes /sessions/{id}/node, /sessions/{id}/pointer
// and /sessions/{id}/choice.
func (h *SessionsHandler) HandleSessionSubresource(w http.ResponseWriter, r *http.Request) {
	tail, ok := pathTail(r, "/sessions/")
	if !ok {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	parts := strings.SplitN(tail, "/", 2)
	if len(parts) != 2 || parts[0] == "" {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	sessionID, resource := parts[0], parts[1]

	switch resource {
	case "node":
		h.handleGetNode(w, r, sessionID)
	case "pointer":
		h.handlePostPointer(w, r, sessionID)
	case "choice":
		h.handlePostChoice(w, r, sessionID)
	default:
		http.NotFound(w, r)
	}
}

func (h *SessionsHandler) handleGetNode(w http.ResponseWriter, r *http.Request, sessionID string) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	node, err := h.svc.SessionNode(r.Context(), sessionID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, node)
}

func (h *SessionsHandler) handlePostPointer(w http.ResponseWriter, r *http.Request, sessionID string) {
	const op = "api.post_pointer"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req pointerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%s: %w: %w", op, ErrBadRequest, err))
		return
	}
	if err := h.svc.RecordPointer(r.Context(), sessionID, req.Delta); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *SessionsHandler) handlePostChoice(w http.ResponseWriter, r *http.Request, sessionID string) {
	const op = "api.post_choice"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req choiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%s: %w: %w", op, ErrBadRequest, err))
		return
	}
	terminal, err := h.svc.Choose(r.Context(), sessionID, req.Choice)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, choiceResponse{Terminal: terminal})
}
