package api_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	api "github.com/okian/bureau/internal/adapters/http/api"
	"github.com/okian/bureau/internal/app"
	"github.com/okian/bureau/internal/domain/model"
	"github.com/okian/bureau/internal/domain/narrative"
	. "github.com/smartystreets/goconvey/convey"
)

// fakeService is a scriptable stand-in for the orchestrator.
type fakeService struct {
	ingestStatus app.IngestStatus
	ingestErr    error
	ingested     []model.EventRecord

	profile    model.TraitProfile
	verdict    model.Verdict
	profileErr error

	profiles []app.SubjectProfile

	sessionID  string
	sessionErr error
	node       narrative.NodePresentation
	nodeErr    error
	pointerErr error
	terminal   bool
	chooseErr  error
}

func (f *fakeService) Ingest(_ context.Context, event model.EventRecord) (app.IngestStatus, error) {
	f.ingested = append(f.ingested, event)
	return f.ingestStatus, f.ingestErr
}

func (f *fakeService) Profile(_ context.Context, _ string) (model.TraitProfile, model.Verdict, error) {
	return f.profile, f.verdict, f.profileErr
}

func (f *fakeService) Profiles(_ context.Context) ([]app.SubjectProfile, error) {
	return f.profiles, nil
}

func (f *fakeService) StartSession(_ context.Context) (string, error) {
	return f.sessionID, f.sessionErr
}

func (f *fakeService) SessionNode(_ context.Context, _ string) (narrative.NodePresentation, error) {
	return f.node, f.nodeErr
}

func (f *fakeService) RecordPointer(_ context.Context, _ string, _ float64) error {
	return f.pointerErr
}

func (f *fakeService) Choose(_ context.Context, _ string, _ int) (bool, error) {
	return f.terminal, f.chooseErr
}

func (f *fakeService) Stats(_ context.Context) map[string]any {
	return map[string]any{"started": true}
}

func serve(svc api.Service, method, path, body string) *httptest.ResponseRecorder {
	mux := http.NewServeMux()
	api.NewServer(svc).Register(context.Background(), mux)
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	return w
}

func TestPostEvent(t *testing.T) {
	Convey("Given the events endpoint", t, func() {
		body := `{"subjectId":"s1","questionId":"0","traitTarget":"Agreeableness","choiceWeight":1,"reactionTimeMs":3000,"pointerDistance":80}`

		Convey("A valid event is accepted", func() {
			svc := &fakeService{ingestStatus: app.IngestAccepted}
			w := serve(svc, http.MethodPost, "/events", body)

			So(w.Code, ShouldEqual, http.StatusAccepted)
			So(w.Body.String(), ShouldContainSubstring, `"status":"accepted"`)
			So(svc.ingested, ShouldHaveLength, 1)
			So(svc.ingested[0].TraitTarget, ShouldEqual, model.TraitAgreeableness)
		})

		Convey("A duplicate gets an idempotent 200", func() {
			svc := &fakeService{ingestStatus: app.IngestDuplicate}
			w := serve(svc, http.MethodPost, "/events", body)

			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, `"duplicate":true`)
		})

		Convey("Backpressure maps to 429", func() {
			svc := &fakeService{ingestStatus: app.IngestBackpressure}
			w := serve(svc, http.MethodPost, "/events", body)

			So(w.Code, ShouldEqual, http.StatusTooManyRequests)
		})

		Convey("Malformed JSON is a 400", func() {
			w := serve(&fakeService{}, http.MethodPost, "/events", "{not json")
			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("A missing subject id is a 400", func() {
			w := serve(&fakeService{}, http.MethodPost, "/events", `{"questionId":"0"}`)
			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("Negative telemetry values are a 400", func() {
			w := serve(&fakeService{}, http.MethodPost, "/events",
				`{"subjectId":"s1","questionId":"0","reactionTimeMs":-5}`)
			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("GET is rejected", func() {
			w := serve(&fakeService{}, http.MethodGet, "/events", "")
			So(w.Code, ShouldEqual, http.StatusNotFound)
		})
	})
}

func TestGetProfile(t *testing.T) {
	Convey("Given the profile endpoint", t, func() {
		Convey("A known subject returns profile and verdict", func() {
			svc := &fakeService{
				profile: model.TraitProfile{Openness: 60, Conscientiousness: 40, Extraversion: 60, Agreeableness: 50, Neuroticism: 50},
				verdict: model.Verdict{Outcome: model.OutcomeHire},
			}
			w := serve(svc, http.MethodGet, "/profile/s1", "")

			So(w.Code, ShouldEqual, http.StatusOK)

			var resp struct {
				SubjectID string             `json:"subjectId"`
				Profile   model.TraitProfile `json:"profile"`
				Verdict   model.Verdict      `json:"verdict"`
			}
			So(json.Unmarshal(w.Body.Bytes(), &resp), ShouldBeNil)
			So(resp.SubjectID, ShouldEqual, "s1")
			So(resp.Profile.Openness, ShouldEqual, 60)
			So(resp.Verdict.Outcome, ShouldEqual, model.OutcomeHire)
		})

		Convey("An empty subject id is a 400", func() {
			w := serve(&fakeService{}, http.MethodGet, "/profile/", "")
			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("A store failure surfaces as 500, not a verdict", func() {
			svc := &fakeService{profileErr: fmt.Errorf("shard offline")}
			w := serve(svc, http.MethodGet, "/profile/s1", "")

			So(w.Code, ShouldEqual, http.StatusInternalServerError)
			So(w.Body.String(), ShouldNotContainSubstring, "REJECT")
		})
	})
}

func TestGetProfiles(t *testing.T) {
	Convey("Given the bulk profiles endpoint", t, func() {
		Convey("All subjects are evaluated", func() {
			svc := &fakeService{profiles: []app.SubjectProfile{
				{SubjectID: "a", Verdict: model.Verdict{Outcome: model.OutcomeHire}},
				{SubjectID: "b", Verdict: model.Verdict{Outcome: model.OutcomeReject, Reason: "instability"}},
			}}
			w := serve(svc, http.MethodGet, "/profiles", "")

			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, `"instability"`)
		})

		Convey("No subjects yields an empty array, not null", func() {
			w := serve(&fakeService{}, http.MethodGet, "/profiles", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(strings.TrimSpace(w.Body.String()), ShouldEqual, "[]")
		})
	})
}

func TestSessions(t *testing.T) {
	Convey("Given the sessions endpoints", t, func() {
		Convey("POST /sessions creates a session", func() {
			svc := &fakeService{sessionID: "sess-1"}
			w := serve(svc, http.MethodPost, "/sessions", "")

			So(w.Code, ShouldEqual, http.StatusCreated)
			So(w.Body.String(), ShouldContainSubstring, `"sessionId":"sess-1"`)
		})

		Convey("GET node returns the presentation", func() {
			svc := &fakeService{node: narrative.NodePresentation{
				Text:       "NEXT.",
				Expression: "NEUTRAL",
				Choices:    []string{"Yes.", "No."},
			}}
			w := serve(svc, http.MethodGet, "/sessions/sess-1/node", "")

			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, `"NEUTRAL"`)
		})

		Convey("POST pointer records a sample", func() {
			w := serve(&fakeService{}, http.MethodPost, "/sessions/sess-1/pointer", `{"delta":42.5}`)
			So(w.Code, ShouldEqual, http.StatusNoContent)
		})

		Convey("POST choice reports terminal state", func() {
			svc := &fakeService{terminal: true}
			w := serve(svc, http.MethodPost, "/sessions/sess-1/choice", `{"choice":0}`)

			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, `"terminal":true`)
		})

		Convey("An out of range choice is a 400", func() {
			svc := &fakeService{chooseErr: narrative.ErrInvalidChoiceIndex}
			w := serve(svc, http.MethodPost, "/sessions/sess-1/choice", `{"choice":7}`)
			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("Choosing on a finished session is a 409", func() {
			svc := &fakeService{chooseErr: narrative.ErrSessionTerminal}
			w := serve(svc, http.MethodPost, "/sessions/sess-1/choice", `{"choice":0}`)
			So(w.Code, ShouldEqual, http.StatusConflict)
		})

		Convey("An unknown session is a 404", func() {
			svc := &fakeService{nodeErr: app.ErrSessionNotFound}
			w := serve(svc, http.MethodGet, "/sessions/nope/node", "")
			So(w.Code, ShouldEqual, http.StatusNotFound)
		})

		Convey("An unknown subresource is a 404", func() {
			w := serve(&fakeService{}, http.MethodGet, "/sessions/sess-1/telepathy", "")
			So(w.Code, ShouldEqual, http.StatusNotFound)
		})
	})
}

func TestStats(t *testing.T) {
	Convey("Given the stats endpoint", t, func() {
		w := serve(&fakeService{}, http.MethodGet, "/stats", "")

		So(w.Code, ShouldEqual, http.StatusOK)
		So(w.Body.String(), ShouldContainSubstring, `"started":true`)
	})
}
