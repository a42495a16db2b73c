// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/okian/bureau/internal/app"
	"github.com/okian/bureau/internal/domain/model"
	"github.com/okian/bureau/internal/domain/narrative"
)

// Service bundles the orchestrator operations the handlers depend on.
// Keeping it an interface lets tests substitute a fake.
type Service interface {
	Ingest(ctx context.Context, event model.EventRecord) (app.IngestStatus, error)
	Profile(ctx context.Context, subjectID string) (model.TraitProfile, model.Verdict, error)
	Profiles(ctx context.Context) ([]app.SubjectProfile, error)

	StartSession(ctx context.Context) (string, error)
	SessionNode(ctx context.Context, sessionID string) (narrative.NodePresentation, error)
	RecordPointer(ctx context.Context, sessionID string, delta float64) error
	Choose(ctx context.Context, sessionID string, choiceIndex int) (bool, error)

	Stats(ctx context.Context) map[string]any
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler   *HealthHandler
	statsHandler    *StatsHandler
	eventsHandler   *EventsHandler
	profileHandler  *ProfileHandler
	profilesHandler *ProfilesHandler
	sessionsHandler *SessionsHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(svc Service) *Server {
	return &Server{
		healthHandler:   NewHealthHandler(),
		statsHandler:    NewStatsHandler(svc),
		eventsHandler:   NewEventsHandler(svc),
		profileHandler:  NewProfileHandler(svc),
		profilesHandler: NewProfilesHandler(svc),
		sessionsHandler: NewSessionsHandler(svc),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/events", MetricsMiddleware(s.eventsHandler.HandlePostEvent, "events"))
	mux.HandleFunc("/profile/", MetricsMiddleware(s.profileHandler.HandleGetProfile, "profile"))
	mux.HandleFunc("/profiles", MetricsMiddleware(s.profilesHandler.HandleGetProfiles, "profiles"))
	mux.HandleFunc("/sessions", MetricsMiddleware(s.sessionsHandler.HandlePostSession, "sessions"))
	mux.HandleFunc("/sessions/", MetricsMiddleware(s.sessionsHandler.HandleSessionSubresource, "sessions"))
}

type ackResponse struct {
	Status    string `json:"status"`
	Duplicate bool   `json:"duplicate"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeServiceError translates orchestrator and session errors into HTTP
// statuses.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, app.ErrSessionNotFound):
		writeError(w, http.StatusNotFound, "not_found", err)
	case errors.Is(err, narrative.ErrInvalidChoiceIndex):
		writeError(w, http.StatusBadRequest, "bad_request", err)
	case errors.Is(err, narrative.ErrSessionTerminal):
		writeError(w, http.StatusConflict, "session_terminal", err)
	case errors.Is(err, app.ErrNotStarted):
		writeError(w, http.StatusServiceUnavailable, "unavailable", err)
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err)
	}
}

// pathTail extracts the remainder of the URL path after prefix, rejecting
// empty values.
func pathTail(r *http.Request, prefix string) (string, bool) {
	tail := strings.TrimPrefix(r.URL.Path, prefix)
	if tail == "" || tail == r.URL.Path {
		return "", false
	}
	return tail, true
}
