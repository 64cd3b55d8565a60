package app

import (
	"context"
	"errors"
	"fmt"
	nethttp "net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/yungbote/diabetes-app/internal/assessment"
	"github.com/yungbote/diabetes-app/internal/assets"
	"github.com/yungbote/diabetes-app/internal/config"
	"github.com/yungbote/diabetes-app/internal/data/db"
	httpx "github.com/yungbote/diabetes-app/internal/http"
	httpH "github.com/yungbote/diabetes-app/internal/http/handlers"
	"github.com/yungbote/diabetes-app/internal/observability"
	"github.com/yungbote/diabetes-app/internal/platform/logger"
	"github.com/yungbote/diabetes-app/internal/predictor"
	"github.com/yungbote/diabetes-app/internal/ratelimit"
	"github.com/yungbote/diabetes-app/internal/web"
)

const collectorInterval = 15 * time.Second

type App struct {
	Log         *logger.Logger
	Config      *config.Config
	Metrics     *observability.Metrics
	Predictor   predictor.Predictor
	Assessments *assessment.Service
	Assets      *assets.Service
	Router      *gin.Engine

	db           *db.Service
	rdb          *redis.Client
	limiter      *ratelimit.Store
	closeAssets  func() error
	otelShutdown func(context.Context) error
}

// New wires every component from cfg. On error, anything already opened is
// closed before returning.
func New(ctx context.Context, cfg *config.Config, log *logger.Logger) (a *App, err error) {
	a = &App{Log: log, Config: cfg}
	defer func() {
		if err != nil {
			a.Close()
			a = nil
		}
	}()

	a.otelShutdown = observability.InitOTel(ctx, log, observability.OtelConfig{
		ServiceName: cfg.Observability.ServiceName,
		Environment: cfg.Env,
		Version:     cfg.Version,
	})
	if cfg.Observability.MetricsEnabled {
		a.Metrics = observability.New()
	}

	if a.Predictor, err = NewPredictor(ctx, cfg.Model, log); err != nil {
		return a, err
	}

	dbSvc, repo, err := openStorage(cfg.Storage, log)
	if err != nil {
		return a, err
	}
	a.db = dbSvc

	store, rdb, err := newStatsStore(ctx, cfg.Stats, repo, log)
	if err != nil {
		return a, err
	}
	a.rdb = rdb

	a.Assessments, err = assessment.NewService(assessment.Deps{
		Predictor: a.Predictor,
		Repo:      repo,
		Stats:     store,
		Metrics:   a.Metrics,
		Log:       log,
		Engine:    cfg.Model.Engine,
	})
	if err != nil {
		return a, err
	}

	if a.Assets, a.closeAssets, err = NewAssetService(ctx, cfg.Assets, log); err != nil {
		return a, err
	}

	presenter, err := web.New(cfg.Version, httpH.AssetURL)
	if err != nil {
		return a, fmt.Errorf("parse templates: %w", err)
	}

	if cfg.RateLimit.Enabled {
		a.limiter = ratelimit.NewStore(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
	}

	if strings.EqualFold(cfg.Env, "production") || strings.EqualFold(cfg.Env, "prod") {
		gin.SetMode(gin.ReleaseMode)
	}
	a.Router = httpx.NewRouter(httpx.RouterConfig{
		Log:               log,
		Metrics:           a.Metrics,
		Presenter:         presenter,
		ServiceName:       cfg.Observability.ServiceName,
		AllowOrigins:      cfg.HTTP.AllowOrigins,
		MaxRequestBytes:   cfg.HTTP.MaxRequestBytes,
		TrustXFF:          cfg.RateLimit.TrustXFF,
		RateLimiter:       a.limiter,
		ExposeMetrics:     strings.TrimSpace(cfg.Observability.MetricsAddr) == "",
		PageHandler:       httpH.NewPageHandler(a.Assessments, presenter),
		AssessmentHandler: httpH.NewAssessmentHandler(a.Assessments),
		PathHandler:       httpH.NewPathHandler(a.Assets),
		HealthHandler:     httpH.NewHealthHandler(a.readinessChecks()),
	})
	return a, nil
}

func (a *App) readinessChecks() map[string]httpH.CheckFunc {
	checks := map[string]httpH.CheckFunc{}
	if c, ok := a.Predictor.(predictor.Checker); ok {
		checks["model"] = c.Check
	}
	if a.db != nil {
		checks["database"] = a.db.Ping
	}
	if a.rdb != nil {
		rdb := a.rdb
		checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	}
	return checks
}

// Run serves HTTP (and the metrics listener when configured) until ctx is done.
func (a *App) Run(ctx context.Context) error {
	if a == nil || a.Router == nil {
		return errors.New("app not initialized")
	}
	g, gctx := errgroup.WithContext(ctx)

	if a.limiter != nil {
		a.limiter.StartJanitor(gctx)
	}
	if a.Metrics != nil {
		if a.db != nil {
			a.Metrics.StartDBCollector(gctx, a.Log, a.db.DB(), collectorInterval)
		}
		if a.rdb != nil {
			a.Metrics.StartRedisCollector(gctx, a.Log, a.rdb, collectorInterval)
		}
	}

	srv := httpx.NewServer(a.Config.HTTP, a.Router)
	g.Go(func() error {
		a.Log.Info("http server listening", "addr", srv.Addr())
		return srv.Run(gctx)
	})

	if addr := strings.TrimSpace(a.Config.Observability.MetricsAddr); addr != "" && a.Metrics != nil {
		mux := nethttp.NewServeMux()
		mux.Handle("/metrics", a.Metrics.Handler())
		metricsCfg := a.Config.HTTP
		metricsCfg.Addr = addr
		ms := httpx.NewServer(metricsCfg, mux)
		g.Go(func() error {
			a.Log.Info("metrics server listening", "addr", addr)
			return ms.Run(gctx)
		})
	}

	return g.Wait()
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.closeAssets != nil {
		if err := a.closeAssets(); err != nil {
			a.Log.Warn("close asset source", "error", err)
		}
	}
	if a.rdb != nil {
		_ = a.rdb.Close()
	}
	if a.db != nil {
		_ = a.db.Close()
	}
	if a.otelShutdown != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		_ = a.otelShutdown(ctx)
		cancel()
	}
	a.Log.Sync()
}
