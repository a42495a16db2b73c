// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/okian/bureau/internal/app"
	"github.com/okian/bureau/internal/domain/model"
)

// eventRequest mirrors the OpenAPI schema for POST /events.
type eventRequest struct {
	EventID         string  `json:"eventId,omitempty"`
	SubjectID       string  `json:"subjectId"`
	QuestionID      string  `json:"questionId"`
	TraitTarget     string  `json:"traitTarget"`
	ChoiceWeight    float64 `json:"choiceWeight"`
	ReactionTimeMs  int64   `json:"reactionTimeMs"`
	PointerDistance float64 `json:"pointerDistance"`
}

func (e eventRequest) validate() error {
	switch {
	case strings.TrimSpace(e.SubjectID) == "":
		return errors.New("missing subjectId")
	case strings.TrimSpace(e.QuestionID) == "":
		return errors.New("missing questionId")
	case e.ReactionTimeMs < 0:
		return errors.New("negative reactionTimeMs")
	case e.PointerDistance < 0:
		return errors.New("negative pointerDistance")
	}
	return nil
}

func (e eventRequest) toRecord() model.EventRecord {
	return model.EventRecord{
		EventID:         e.EventID,
		SubjectID:       e.SubjectID,
		QuestionID:      e.QuestionID,
		TraitTarget:     model.Trait(e.TraitTarget),
		ChoiceWeight:    e.ChoiceWeight,
		ReactionTimeMs:  e.ReactionTimeMs,
		PointerDistance: e.PointerDistance,
	}
}

// EventsHandler handles telemetry ingestion requests.
type EventsHandler struct {
	svc Service
}

// NewEventsHandler creates a new events handler.
func NewEventsHandler(svc Service) *EventsHandler {
	return &EventsHandler{svc: svc}
}

// HandlePostEvent handles POST /events requests.
func (h *EventsHandler) HandlePostEvent(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_event"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req eventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%s: %w: %w", op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%s: %w: %w", op, ErrBadRequest, err))
		return
	}

	status, err := h.svc.Ingest(r.Context(), req.toRecord())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	switch status {
	case app.IngestDuplicate:
		writeJSON(w, http.StatusOK, ackResponse{Status: "duplicate", Duplicate: true})
	case app.IngestBackpressure:
		writeError(w, http.StatusTooManyRequests, "backpressure", fmt.Errorf("%s: %w", op, ErrBackpressure))
	default:
		writeJSON(w, http.StatusAccepted, ackResponse{Status: "accepted", Duplicate: false})
	}
}
