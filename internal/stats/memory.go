package stats

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is a process-local Store. It has no expiry and is lost on restart
// unless seeded from the assessment table.
type MemoryStore struct {
	mu    sync.Mutex
	snap  Snapshot
	byDay map[string]int64
	now   func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{snap: emptySnapshot(), byDay: map[string]int64{}, now: time.Now}
}

func (s *MemoryStore) Record(_ context.Context, ev Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap.Total++
	s.snap.ByOutcome[ev.Outcome]++
	s.snap.ByPath[NormalizePath(ev.PathKey)]++
	s.byDay[dayBucket(ev.At)]++
	return nil
}

// Seed adds previously persisted totals.
func (s *MemoryStore) Seed(total int64, byOutcome, byPath map[string]int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap.Total += total
	for k, v := range byOutcome {
		s.snap.ByOutcome[k] += v
	}
	for k, v := range byPath {
		s.snap.ByPath[NormalizePath(k)] += v
	}
}

func (s *MemoryStore) Snapshot(_ context.Context) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := emptySnapshot()
	out.Total = s.snap.Total
	out.Today = s.byDay[dayBucket(s.now())]
	for k, v := range s.snap.ByOutcome {
		out.ByOutcome[k] = v
	}
	for k, v := range s.snap.ByPath {
		out.ByPath[k] = v
	}
	return out, nil
}
