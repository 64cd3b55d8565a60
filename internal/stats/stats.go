// Package stats keeps aggregate assessment counters. Only the outcome and the
// decision-path key are counted; no clinical values reach the store.
package stats

import (
	"context"
	"strings"
	"time"
)

// Event is one completed assessment.
type Event struct {
	Outcome string
	PathKey string
	At      time.Time
}

type Snapshot struct {
	Total     int64            `json:"total"`
	Today     int64            `json:"today"`
	ByOutcome map[string]int64 `json:"by_outcome"`
	ByPath    map[string]int64 `json:"by_path"`
}

// Store persists counters. Callers treat errors as best-effort.
type Store interface {
	Record(ctx context.Context, ev Event) error
	Snapshot(ctx context.Context) (Snapshot, error)
}

func emptySnapshot() Snapshot {
	return Snapshot{ByOutcome: map[string]int64{}, ByPath: map[string]int64{}}
}

func dayBucket(t time.Time) string {
	if t.IsZero() {
		t = time.Now()
	}
	return t.UTC().Format("20060102")
}

// NormalizePath maps an empty path key to "unresolved".
func NormalizePath(k string) string {
	k = strings.TrimSpace(k)
	if k == "" {
		return "unresolved"
	}
	return k
}
