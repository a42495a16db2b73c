// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"

	"github.com/okian/bureau/internal/app"
)

// ProfilesHandler handles bulk evaluation requests.
type ProfilesHandler struct {
	svc Service
}

// NewProfilesHandler creates a new profiles handler.
func NewProfilesHandler(svc Service) *ProfilesHandler {
	return &ProfilesHandler{svc: svc}
}

// HandleGetProfiles handles GET /profiles requests. It evaluates every
// subject with stored events.
func (h *ProfilesHandler) HandleGetProfiles(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	profiles, err := h.svc.Profiles(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if profiles == nil {
		profiles = []app.SubjectProfile{}
	}
	writeJSON(w, http.StatusOK, profiles)
}
