package app

import (
	"context"
	"fmt"
	"hash/fnv"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/okian/bureau/internal/adapters/mq/queue"
	"github.com/okian/bureau/internal/adapters/mq/worker"
	"github.com/okian/bureau/internal/adapters/repository"
	"github.com/okian/bureau/internal/domain/dedupe"
	"github.com/okian/bureau/internal/domain/inference"
	"github.com/okian/bureau/internal/domain/model"
	"github.com/okian/bureau/internal/domain/narrative"
	"github.com/okian/bureau/pkg/logger"
	"github.com/okian/bureau/pkg/metrics"
)

// IngestStatus reports what happened to an event handed to Ingest.
type IngestStatus int

const (
	// IngestAccepted means the event was queued for persistence.
	IngestAccepted IngestStatus = iota
	// IngestDuplicate means an event with the same id was already seen.
	IngestDuplicate
	// IngestBackpressure means the queue was full and the event was dropped.
	IngestBackpressure
)

const defaultStopTimeout = 10 * time.Second

// Service wires the narrative sessions, the ingestion pipeline, and the
// inference engine into one lifecycle.
type Service struct {
	mu      sync.Mutex
	started bool

	logger      logger.Logger
	workerCount int
	queueSize   int
	dedupeSize  int
	shardCount  int
	script      *narrative.Script
	scriptPath  string
	sessionOpts []narrative.Option

	graph    *narrative.Graph
	store    *repository.MemStore
	deduper  dedupe.Deduper
	queue    *queue.InMemoryQueue
	pool     *worker.Pool
	engine   *inference.Engine
	sessions map[string]*narrative.Session
}

// New builds a Service with default components. Call Start before use.
func New(opts ...Option) *Service {
	s := &Service{
		logger:      logger.Get(),
		workerCount: 2,
		queueSize:   1024,
		dedupeSize:  100_000,
		shardCount:  8,
		engine:      inference.New(),
		sessions:    make(map[string]*narrative.Session),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start builds the narrative graph and brings up the persistence pool.
// A script that fails validation is a construction error and Start fails.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	script := narrative.DefaultScript()
	if s.script != nil {
		script = *s.script
	} else if s.scriptPath != "" {
		loaded, err := narrative.LoadScript(s.scriptPath)
		if err != nil {
			return fmt.Errorf("loading script %q: %w", s.scriptPath, err)
		}
		script = loaded
	}

	graph, err := narrative.NewGraph(script)
	if err != nil {
		return fmt.Errorf("building narrative graph: %w", err)
	}
	s.graph = graph

	s.store = repository.NewMemStore(repository.WithShardCount(s.shardCount))
	s.deduper = dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(s.dedupeSize))
	s.queue = queue.NewInMemoryQueue(queue.WithCapacity(s.queueSize))
	s.pool = worker.NewPool(s.workerCount, s.queue, s.store)
	s.pool.Start(ctx)

	s.started = true
	s.logger.Info(ctx, "service started",
		logger.String("script", graph.Tag()),
		logger.Int("nodes", graph.Len()),
		logger.Int("workers", s.workerCount))
	return nil
}

// Stop drains the queue and shuts the persistence pool down.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	ctx := context.Background()
	if err := s.queue.Close(); err != nil {
		s.logger.Warn(ctx, "closing queue", logger.Error(err))
	}
	s.pool.Stop(defaultStopTimeout)
	s.started = false
	s.logger.Info(ctx, "service stopped")
}

// Graph exposes the validated narrative graph. Nil before Start.
func (s *Service) Graph() *narrative.Graph {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.graph
}

// StartSession creates a new interview session and returns its id. The
// session id doubles as the subject id on every event it emits.
func (s *Service) StartSession(_ context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return "", ErrNotStarted
	}
	id := uuid.NewString()
	s.sessions[id] = narrative.NewSession(s.graph, id, s.sessionOpts...)
	metrics.RecordSessionStarted()
	metrics.UpdateActiveSessions(len(s.sessions))
	return id, nil
}

// SessionNode returns the presentation of the session's current node.
func (s *Service) SessionNode(_ context.Context, sessionID string) (narrative.NodePresentation, error) {
	session, err := s.session(sessionID)
	if err != nil {
		return narrative.NodePresentation{}, err
	}
	return session.PresentCurrentNode()
}

// RecordPointer adds a pointer movement sample to the session's open
// decision window.
func (s *Service) RecordPointer(_ context.Context, sessionID string, delta float64) error {
	session, err := s.session(sessionID)
	if err != nil {
		return err
	}
	return session.RecordPointerSample(delta)
}

// Choose resolves a choice on the session, queues the emitted telemetry
// event, and reports whether the session has reached a terminal node.
func (s *Service) Choose(ctx context.Context, sessionID string, choiceIndex int) (bool, error) {
	session, err := s.session(sessionID)
	if err != nil {
		return false, err
	}

	event, state, err := session.SelectChoice(choiceIndex)
	if err != nil {
		return false, err
	}

	// Telemetry must not block the interview. A full queue loses the
	// event but the session advances regardless.
	if status := s.ingest(ctx, event); status == IngestBackpressure {
		s.logger.Warn(ctx, "telemetry dropped on backpressure",
			logger.String("event_id", event.EventID),
			logger.String("session_id", sessionID))
	}

	terminal := state == narrative.StateTerminal
	if terminal {
		// The walk is over; drop the session so the registry does not
		// grow without bound. Stored events outlive the session, so the
		// verdict stays available through Profile.
		s.mu.Lock()
		delete(s.sessions, sessionID)
		metrics.UpdateActiveSessions(len(s.sessions))
		s.mu.Unlock()
		metrics.RecordSessionCompleted()
	}
	return terminal, nil
}

// Ingest runs an externally submitted event through dedupe and the queue.
func (s *Service) Ingest(ctx context.Context, event model.EventRecord) (IngestStatus, error) {
	s.mu.Lock()
	started := s.started
	s.mu.Unlock()
	if !started {
		return IngestBackpressure, ErrNotStarted
	}
	return s.ingest(ctx, event), nil
}

func (s *Service) ingest(ctx context.Context, event model.EventRecord) IngestStatus {
	if event.EventID == "" {
		event.EventID = contentID(event)
	}

	if s.deduper.SeenAndRecord(ctx, event.EventID) {
		metrics.RecordEventDuplicate()
		return IngestDuplicate
	}
	if !s.queue.Enqueue(ctx, event) {
		// Roll the dedupe entry back so a retry of the same event is
		// not mistaken for a duplicate.
		s.deduper.Unrecord(ctx, event.EventID)
		return IngestBackpressure
	}
	metrics.RecordEventAccepted()
	return IngestAccepted
}

// contentID derives an idempotency key from the full record content. The
// question id alone cannot disambiguate: narratives tag every event with a
// constant question id, so two distinct events from one subject may share
// subject and question. Identical retries still collapse to the same key.
func contentID(event model.EventRecord) string {
	h := fnv.New64a()
	fmt.Fprintf(h, "%s|%s|%s|%g|%d|%g",
		event.SubjectID, event.QuestionID, event.TraitTarget,
		event.ChoiceWeight, event.ReactionTimeMs, event.PointerDistance)
	return fmt.Sprintf("%s#%016x", event.SubjectID, h.Sum64())
}

// Profile evaluates all stored events of a subject into a trait profile
// and a verdict.
func (s *Service) Profile(ctx context.Context, subjectID string) (model.TraitProfile, model.Verdict, error) {
	s.mu.Lock()
	started := s.started
	store := s.store
	s.mu.Unlock()
	if !started {
		return model.TraitProfile{}, model.Verdict{}, ErrNotStarted
	}

	events, err := store.EventsOf(ctx, subjectID)
	if err != nil {
		return model.TraitProfile{}, model.Verdict{}, fmt.Errorf("%w: subject %q: %w", repository.ErrFetchFailed, subjectID, err)
	}

	begin := time.Now()
	profile, verdict := s.engine.Infer(ctx, subjectID, events)
	metrics.RecordInferenceLatency(float64(time.Since(begin).Milliseconds()))
	metrics.RecordVerdict(string(verdict.Outcome))
	return profile, verdict, nil
}

// SubjectProfile pairs a subject with their evaluation.
type SubjectProfile struct {
	SubjectID string             `json:"subjectId"`
	Profile   model.TraitProfile `json:"profile"`
	Verdict   model.Verdict      `json:"verdict"`
}

// Profiles evaluates every known subject.
func (s *Service) Profiles(ctx context.Context) ([]SubjectProfile, error) {
	s.mu.Lock()
	started := s.started
	store := s.store
	s.mu.Unlock()
	if !started {
		return nil, ErrNotStarted
	}

	subjects := store.Subjects(ctx)
	out := make([]SubjectProfile, 0, len(subjects))
	for _, subjectID := range subjects {
		profile, verdict, err := s.Profile(ctx, subjectID)
		if err != nil {
			return nil, err
		}
		out = append(out, SubjectProfile{SubjectID: subjectID, Profile: profile, Verdict: verdict})
	}
	return out, nil
}

// Stats reports live counters for the operational endpoint.
func (s *Service) Stats(ctx context.Context) map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return map[string]any{"started": false}
	}
	return map[string]any{
		"started":        true,
		"script":         s.graph.Tag(),
		"nodes":          s.graph.Len(),
		"sessions":       len(s.sessions),
		"events_stored":  s.store.Count(ctx),
		"subjects":       len(s.store.Subjects(ctx)),
		"queue_depth":    s.queue.Len(ctx),
		"dedupe_entries": s.deduper.Size(),
	}
}

func (s *Service) session(sessionID string) (*narrative.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return nil, ErrNotStarted
	}
	session, ok := s.sessions[sessionID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}
	return session, nil
}
