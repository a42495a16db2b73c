package repository

import (
	"context"
	"hash/fnv"
	"sync"
	"sync/atomic"

	"github.com/okian/bureau/internal/domain/model"
	"github.com/okian/bureau/pkg/metrics"
)

// Sharded, in-memory Store implementation.
//
// Events are grouped per subject; shards spread subjects across independent
// locks so concurrent sessions never contend with each other. Within one
// subject, append order is preserved. The inference engine is order
// insensitive, but a stable order keeps reads reproducible.

const defaultShardCount = 8

type shard struct {
	mu     sync.RWMutex
	events map[string][]model.EventRecord
}

// MemStore implements Store with sharded in-memory maps.
type MemStore struct {
	shards []*shard
	total  atomic.Int64
}

// NewMemStore creates an empty event log.
func NewMemStore(opts ...Option) *MemStore {
	s := &MemStore{}
	cfg := memStoreConfig{shardCount: defaultShardCount}
	for _, opt := range opts {
		opt(&cfg)
	}

	s.shards = make([]*shard, cfg.shardCount)
	for i := range s.shards {
		s.shards[i] = &shard{events: make(map[string][]model.EventRecord)}
	}

	metrics.UpdateEventLogShardCount(cfg.shardCount)
	return s
}

func (s *MemStore) shardFor(subjectID string) *shard {
	h := fnv.New32a()
	_, _ = h.Write([]byte(subjectID))
	return s.shards[int(h.Sum32())%len(s.shards)]
}

// Append adds one record to the subject's history.
func (s *MemStore) Append(ctx context.Context, event model.EventRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	sh := s.shardFor(event.SubjectID)
	sh.mu.Lock()
	sh.events[event.SubjectID] = append(sh.events[event.SubjectID], event)
	sh.mu.Unlock()

	metrics.UpdateEventLogRecordsTotal(int(s.total.Add(1)))
	return nil
}

// EventsOf returns a copy of the subject's records in append order.
func (s *MemStore) EventsOf(ctx context.Context, subjectID string) ([]model.EventRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	sh := s.shardFor(subjectID)
	sh.mu.RLock()
	defer sh.mu.RUnlock()

	stored := sh.events[subjectID]
	out := make([]model.EventRecord, len(stored))
	copy(out, stored)
	return out, nil
}

// Subjects returns every subject id with at least one record.
func (s *MemStore) Subjects(_ context.Context) []string {
	var ids []string
	for _, sh := range s.shards {
		sh.mu.RLock()
		for id := range sh.events {
			ids = append(ids, id)
		}
		sh.mu.RUnlock()
	}
	return ids
}

// Count returns the total number of records across all subjects.
func (s *MemStore) Count(_ context.Context) int {
	return int(s.total.Load())
}
