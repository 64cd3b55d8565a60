package stats

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	now := time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	events := []Event{
		{Outcome: "Diabetic", PathKey: "1-0-0", At: now},
		{Outcome: "Diabetic", PathKey: "1-1-1", At: now},
		{Outcome: "Non-diabetic", PathKey: "0-1-0", At: now.Add(-48 * time.Hour)},
		{Outcome: "Non-diabetic", PathKey: "", At: now},
	}
	for _, ev := range events {
		if err := s.Record(ctx, ev); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}
	s.Seed(10, map[string]int64{"Diabetic": 4, "Non-diabetic": 6}, map[string]int64{"1-0-0": 10})

	snap, err := s.Snapshot(ctx)
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if snap.Total != 14 || snap.Today != 3 {
		t.Fatalf("totals: %+v", snap)
	}
	if snap.ByOutcome["Diabetic"] != 6 || snap.ByOutcome["Non-diabetic"] != 8 {
		t.Fatalf("by outcome: %v", snap.ByOutcome)
	}
	if snap.ByPath["1-0-0"] != 11 || snap.ByPath["unresolved"] != 1 {
		t.Fatalf("by path: %v", snap.ByPath)
	}

	snap.ByOutcome["Diabetic"] = 0
	again, _ := s.Snapshot(ctx)
	if again.ByOutcome["Diabetic"] != 6 {
		t.Fatalf("snapshot must be a copy")
	}
}

func TestRedisStore(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("set TEST_REDIS_ADDR to run redis stats tests")
	}
	ctx := context.Background()
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { _ = rdb.Close() })

	prefix := "test:stats:" + uuid.NewString()
	s := NewRedisStore(rdb, WithPrefix(prefix), WithTTL(time.Minute))
	t.Cleanup(func() {
		keys, _ := rdb.Keys(ctx, prefix+":*").Result()
		if len(keys) > 0 {
			_ = rdb.Del(ctx, keys...).Err()
		}
	})

	if err := s.Ping(ctx); err != nil {
		t.Fatalf("Ping: %v", err)
	}
	empty, err := s.Snapshot(ctx)
	if err != nil {
		t.Fatalf("Snapshot(empty): %v", err)
	}
	if empty.Total != 0 || empty.Today != 0 {
		t.Fatalf("Snapshot(empty): %+v", empty)
	}

	for _, ev := range []Event{
		{Outcome: "Diabetic", PathKey: "1-0-0"},
		{Outcome: "Non-diabetic", PathKey: "0-0-1"},
		{Outcome: "Diabetic", PathKey: "1-0-0"},
	} {
		if err := s.Record(ctx, ev); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}

	snap, err := s.Snapshot(ctx)
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if snap.Total != 3 || snap.Today != 3 {
		t.Fatalf("totals: %+v", snap)
	}
	if snap.ByOutcome["Diabetic"] != 2 || snap.ByPath["0-0-1"] != 1 {
		t.Fatalf("breakdown: %+v", snap)
	}
	ttl, err := rdb.TTL(ctx, prefix+":day:"+dayBucket(time.Now())).Result()
	if err != nil || ttl <= 0 {
		t.Fatalf("day bucket ttl: %v %v", ttl, err)
	}
}
