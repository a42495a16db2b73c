// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"
	"strings"

	"github.com/okian/bureau/internal/domain/model"
)

// profileResponse is the read shape of a single subject evaluation.
type profileResponse struct {
	SubjectID string             `json:"subjectId"`
	Profile   model.TraitProfile `json:"profile"`
	Verdict   model.Verdict      `json:"verdict"`
}

// ProfileHandler handles single subject evaluation requests.
type ProfileHandler struct {
	svc Service
}

// NewProfileHandler creates a new profile handler.
func NewProfileHandler(svc Service) *ProfileHandler {
	return &ProfileHandler{svc: svc}
}

// HandleGetProfile handles GET /profile/{subject_id} requests.
func (h *ProfileHandler) HandleGetProfile(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	subjectID, ok := pathTail(r, "/profile/")
	if !ok || strings.Contains(subjectID, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	profile, verdict, err := h.svc.Profile(r.Context(), subjectID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, profileResponse{
		SubjectID: subjectID,
		Profile:   profile,
		Verdict:   verdict,
	})
}
