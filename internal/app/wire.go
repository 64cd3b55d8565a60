package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/yungbote/diabetes-app/internal/assets"
	"github.com/yungbote/diabetes-app/internal/config"
	"github.com/yungbote/diabetes-app/internal/data/db"
	"github.com/yungbote/diabetes-app/internal/data/repos"
	"github.com/yungbote/diabetes-app/internal/pathimage"
	"github.com/yungbote/diabetes-app/internal/platform/dbctx"
	"github.com/yungbote/diabetes-app/internal/platform/gcp"
	"github.com/yungbote/diabetes-app/internal/platform/logger"
	"github.com/yungbote/diabetes-app/internal/predictor"
	"github.com/yungbote/diabetes-app/internal/predictor/registry"
	"github.com/yungbote/diabetes-app/internal/stats"
)

// NewPredictor builds the configured engine and checks that it is usable.
func NewPredictor(ctx context.Context, cfg config.ModelConfig, log *logger.Logger) (predictor.Predictor, error) {
	p, err := registry.New(cfg)
	if err != nil {
		if errors.Is(err, predictor.ErrModelNotFound) {
			log.Error(predictor.ErrModelNotFound.Error(), "path", cfg.Path)
		}
		return nil, fmt.Errorf("init predictor: %w", err)
	}
	if c, ok := p.(predictor.Checker); ok {
		if err := c.Check(ctx); err != nil {
			// A remote model server may come up after us; readiness reports it.
			log.Warn("predictor check failed", "engine", registry.Describe(p), "error", err)
		}
	}
	log.Info("predictor ready", "engine", registry.Describe(p))
	return p, nil
}

// NewAssetService picks the primary image source (GCS bucket or local dir) and
// attaches the renderer when configured. The returned close func is never nil.
func NewAssetService(ctx context.Context, cfg config.AssetsConfig, log *logger.Logger) (*assets.Service, func() error, error) {
	closeFn := func() error { return nil }

	var primary assets.Source
	switch {
	case strings.TrimSpace(cfg.Bucket) != "":
		client, err := gcp.NewReadOnlyStorageClient(ctx, cfg.EmulatorHost)
		if err != nil {
			return nil, closeFn, fmt.Errorf("init gcs client: %w", err)
		}
		b := assets.NewBucket(client, cfg.Bucket, cfg.Prefix)
		primary = b
		closeFn = b.Close
		log.Info("path assets from gcs", "bucket", cfg.Bucket, "prefix", cfg.Prefix)
	case strings.TrimSpace(cfg.Dir) != "":
		primary = assets.NewDir(cfg.Dir)
		log.Info("path assets from dir", "dir", cfg.Dir)
	}

	var renderer assets.Renderer
	if cfg.RenderMissing {
		r, err := pathimage.New(cfg.FontPath)
		if err != nil {
			_ = closeFn()
			return nil, func() error { return nil }, fmt.Errorf("init path renderer: %w", err)
		}
		renderer = r
	}
	return assets.NewService(primary, renderer, log), closeFn, nil
}

// openStorage opens and migrates the assessment table. It returns nils when
// storage is disabled.
func openStorage(cfg config.StorageConfig, log *logger.Logger) (*db.Service, repos.AssessmentRepo, error) {
	svc, err := db.Open(cfg, log)
	if err != nil {
		return nil, nil, fmt.Errorf("init storage: %w", err)
	}
	if svc == nil {
		log.Info("assessment storage disabled")
		return nil, nil, nil
	}
	if err := db.AutoMigrateAll(svc.DB()); err != nil {
		_ = svc.Close()
		return nil, nil, fmt.Errorf("storage automigrate: %w", err)
	}
	log.Info("assessment storage ready", "driver", svc.Driver())
	return svc, repos.NewAssessmentRepo(svc.DB(), log), nil
}

// newStatsStore prefers Redis; otherwise counts live in memory, seeded from the
// assessment table so totals survive restarts.
func newStatsStore(ctx context.Context, cfg config.StatsConfig, repo repos.AssessmentRepo, log *logger.Logger) (stats.Store, *redis.Client, error) {
	if addr := strings.TrimSpace(cfg.RedisAddr); addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		store := stats.NewRedisStore(rdb, stats.WithPrefix(cfg.Prefix), stats.WithTTL(cfg.TTL.Duration))
		if err := store.Ping(ctx); err != nil {
			_ = rdb.Close()
			return nil, nil, fmt.Errorf("redis ping %s: %w", addr, err)
		}
		log.Info("stats in redis", "addr", addr, "prefix", cfg.Prefix)
		return store, rdb, nil
	}

	mem := stats.NewMemoryStore()
	if repo != nil {
		c, err := repo.Counts(dbctx.Context{Ctx: ctx})
		if err != nil {
			return nil, nil, fmt.Errorf("seed stats: %w", err)
		}
		mem.Seed(c.Total, c.ByOutcome, c.ByPath)
		log.Info("stats in memory", "seeded_total", c.Total)
	}
	return mem, nil, nil
}
