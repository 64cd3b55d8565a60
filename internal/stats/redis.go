package stats

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	fieldAll        = "all"
	fieldOutcomePfx = "outcome:"
	fieldPathPfx    = "path:"
)

// RedisStore keeps cumulative counters in <prefix>:total and per-day counters in
// <prefix>:day:YYYYMMDD, the latter expiring after ttl.
type RedisStore struct {
	rdb    *redis.Client
	prefix string
	ttl    time.Duration
	now    func() time.Time
}

type RedisOption func(*RedisStore)

func WithPrefix(prefix string) RedisOption {
	return func(s *RedisStore) {
		if p := strings.Trim(prefix, ":"); p != "" {
			s.prefix = p
		}
	}
}

func WithTTL(d time.Duration) RedisOption {
	return func(s *RedisStore) { s.ttl = d }
}

func NewRedisStore(rdb *redis.Client, opts ...RedisOption) *RedisStore {
	s := &RedisStore{
		rdb:    rdb,
		prefix: "diabetes:stats",
		ttl:    30 * 24 * time.Hour,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *RedisStore) totalKey() string { return s.prefix + ":total" }

func (s *RedisStore) dayKey(bucket string) string { return s.prefix + ":day:" + bucket }

func (s *RedisStore) Record(ctx context.Context, ev Event) error {
	if s == nil || s.rdb == nil {
		return nil
	}
	at := ev.At
	if at.IsZero() {
		at = s.now()
	}

	pipe := s.rdb.Pipeline()
	pipe.HIncrBy(ctx, s.totalKey(), fieldAll, 1)
	pipe.HIncrBy(ctx, s.totalKey(), fieldOutcomePfx+ev.Outcome, 1)
	pipe.HIncrBy(ctx, s.totalKey(), fieldPathPfx+NormalizePath(ev.PathKey), 1)

	dk := s.dayKey(dayBucket(at))
	pipe.HIncrBy(ctx, dk, fieldAll, 1)
	if s.ttl > 0 {
		pipe.Expire(ctx, dk, s.ttl)
	}

	_, err := pipe.Exec(ctx)
	return err
}

func (s *RedisStore) Snapshot(ctx context.Context) (Snapshot, error) {
	out := emptySnapshot()
	if s == nil || s.rdb == nil {
		return out, nil
	}

	pipe := s.rdb.Pipeline()
	totalCmd := pipe.HGetAll(ctx, s.totalKey())
	todayCmd := pipe.HGet(ctx, s.dayKey(dayBucket(s.now())), fieldAll)
	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return Snapshot{}, err
	}

	for field, raw := range totalCmd.Val() {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			continue
		}
		switch {
		case field == fieldAll:
			out.Total = n
		case strings.HasPrefix(field, fieldOutcomePfx):
			out.ByOutcome[strings.TrimPrefix(field, fieldOutcomePfx)] = n
		case strings.HasPrefix(field, fieldPathPfx):
			out.ByPath[strings.TrimPrefix(field, fieldPathPfx)] = n
		}
	}
	if v, err := todayCmd.Int64(); err == nil {
		out.Today = v
	}
	return out, nil
}

// Ping checks connectivity for readiness probes.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}
