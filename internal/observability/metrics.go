package observability

import (
	"context"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/yungbote/diabetes-app/internal/platform/logger"
)

// Metrics is nil-safe: every method is a no-op on a nil receiver, so callers
// need not check whether metrics are enabled.
type Metrics struct {
	apiRequests      *CounterVec
	apiLatency       *HistogramVec
	apiInflight      *Gauge
	assessments      *CounterVec
	rejected         *CounterVec
	predictorLatency *HistogramVec
	recordErrors     *CounterVec
	rateLimited      *CounterVec
	dbStats          *GaugeVec
	redisUp          *Gauge
	redisPing        *Gauge
}

func New() *Metrics {
	return &Metrics{
		apiRequests: NewCounterVec("da_api_requests_total", "Total API requests by method/route/status.", []string{"method", "route", "status"}),
		apiLatency: NewHistogramVec(
			"da_api_request_duration_seconds",
			"API request latency in seconds by method/route/status.",
			[]string{"method", "route", "status"},
			[]float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		),
		apiInflight: NewGauge("da_api_inflight_requests", "In-flight API requests."),
		assessments: NewCounterVec("da_assessments_total", "Completed assessments by outcome and decision path.", []string{"outcome", "path"}),
		rejected:    NewCounterVec("da_assessments_rejected_total", "Submissions rejected before prediction, by reason.", []string{"reason"}),
		predictorLatency: NewHistogramVec(
			"da_predictor_duration_seconds",
			"Predictor call latency by status.",
			[]string{"status"},
			[]float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		),
		recordErrors: NewCounterVec("da_record_errors_total", "Best-effort recording failures by sink.", []string{"sink"}),
		rateLimited:  NewCounterVec("da_rate_limited_total", "Requests rejected by the rate limiter, by route.", []string{"route"}),
		dbStats:      NewGaugeVec("da_db_stats", "database/sql pool statistics.", []string{"stat"}),
		redisUp:      NewGauge("da_redis_up", "1 when the statistics redis answered the last ping."),
		redisPing:    NewGauge("da_redis_ping_seconds", "Latency of the last redis ping."),
	}
}

func (m *Metrics) Handler() http.Handler {
	return http.HandlerFunc(m.WriteHTTP)
}

func (m *Metrics) WriteHTTP(w http.ResponseWriter, _ *http.Request) {
	if m == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "text/plain; version=0.0.4")
	_ = m.WritePrometheus(w)
}

func (m *Metrics) WritePrometheus(w io.Writer) error {
	if m == nil {
		return nil
	}
	writers := []interface{ WritePrometheus(io.Writer) error }{
		m.apiRequests,
		m.apiLatency,
		m.apiInflight,
		m.assessments,
		m.rejected,
		m.predictorLatency,
		m.recordErrors,
		m.rateLimited,
		m.dbStats,
		m.redisUp,
		m.redisPing,
	}
	for _, wr := range writers {
		if err := wr.WritePrometheus(w); err != nil {
			return err
		}
	}
	return nil
}

func (m *Metrics) ObserveAPI(method, route, status string, dur time.Duration) {
	if m == nil {
		return
	}
	if method == "" {
		method = "UNKNOWN"
	}
	if route == "" {
		route = "unmatched"
	}
	if status == "" {
		status = "0"
	}
	m.apiRequests.Inc(method, route, status)
	m.apiLatency.Observe(dur.Seconds(), method, route, status)
}

func (m *Metrics) APIInflightInc() {
	if m == nil {
		return
	}
	m.apiInflight.Add(1)
}

func (m *Metrics) APIInflightDec() {
	if m == nil {
		return
	}
	m.apiInflight.Add(-1)
}

func (m *Metrics) IncAssessment(outcome, path string) {
	if m == nil {
		return
	}
	m.assessments.Inc(outcome, path)
}

func (m *Metrics) IncRejected(reason string) {
	if m == nil {
		return
	}
	m.rejected.Inc(reason)
}

func (m *Metrics) ObservePredictor(err error, dur time.Duration) {
	if m == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.predictorLatency.Observe(dur.Seconds(), status)
}

func (m *Metrics) IncRecordError(sink string) {
	if m == nil {
		return
	}
	m.recordErrors.Inc(sink)
}

func (m *Metrics) IncRateLimited(route string) {
	if m == nil {
		return
	}
	m.rateLimited.Inc(route)
}

// StartDBCollector samples pool statistics every interval until ctx is done.
func (m *Metrics) StartDBCollector(ctx context.Context, log *logger.Logger, db *gorm.DB, interval time.Duration) {
	if m == nil || db == nil {
		return
	}
	if interval <= 0 {
		interval = 10 * time.Second
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				sqlDB, err := db.DB()
				if err != nil {
					if log != nil {
						log.Warn("metrics: db stats unavailable", "error", err)
					}
					continue
				}
				stats := sqlDB.Stats()
				m.dbStats.Set(float64(stats.OpenConnections), "open_connections")
				m.dbStats.Set(float64(stats.InUse), "in_use")
				m.dbStats.Set(float64(stats.Idle), "idle")
				m.dbStats.Set(float64(stats.WaitCount), "wait_count")
				m.dbStats.Set(stats.WaitDuration.Seconds(), "wait_duration_seconds")
			}
		}
	}()
}

// StartRedisCollector pings rdb every interval until ctx is done.
func (m *Metrics) StartRedisCollector(ctx context.Context, log *logger.Logger, rdb *redis.Client, interval time.Duration) {
	if m == nil || rdb == nil {
		return
	}
	if interval <= 0 {
		interval = 10 * time.Second
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				start := time.Now()
				if err := rdb.Ping(ctx).Err(); err != nil {
					m.redisUp.Set(0)
					if log != nil {
						log.Warn("metrics: redis ping failed", "error", err)
					}
					continue
				}
				m.redisUp.Set(1)
				m.redisPing.Set(time.Since(start).Seconds())
			}
		}
	}()
}

// StatusLabel renders an HTTP status for metric labels.
func StatusLabel(code int) string {
	if code <= 0 {
		return "0"
	}
	return strconv.Itoa(code)
}
