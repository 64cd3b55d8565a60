package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/diabetes-app/internal/http/handlers"
	httpMW "github.com/yungbote/diabetes-app/internal/http/middleware"
	"github.com/yungbote/diabetes-app/internal/observability"
	"github.com/yungbote/diabetes-app/internal/platform/logger"
	"github.com/yungbote/diabetes-app/internal/ratelimit"
	"github.com/yungbote/diabetes-app/internal/web"
)

type RouterConfig struct {
	Log       *logger.Logger
	Metrics   *observability.Metrics
	Presenter *web.Presenter

	ServiceName     string
	AllowOrigins    []string
	MaxRequestBytes int64
	TrustXFF        bool
	RateLimiter     *ratelimit.Store
	// ExposeMetrics mounts /metrics on the main router.
	ExposeMetrics bool

	PageHandler       *httpH.PageHandler
	AssessmentHandler *httpH.AssessmentHandler
	PathHandler       *httpH.PathHandler
	HealthHandler     *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(httpMW.Recovery(cfg.Log))
	if cfg.ServiceName != "" {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachTraceContext(cfg.TrustXFF))
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.Metrics(cfg.Metrics))
	r.Use(httpMW.CORS(cfg.AllowOrigins))
	r.Use(httpMW.MaxBodyBytes(cfg.MaxRequestBytes))

	limited := httpMW.RateLimit(cfg.RateLimiter, cfg.TrustXFF, cfg.Metrics)

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
		r.GET("/readyz", cfg.HealthHandler.Ready)
	}
	if cfg.ExposeMetrics && cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}

	// Page
	if cfg.PageHandler != nil && cfg.Presenter != nil {
		r.SetHTMLTemplate(cfg.Presenter.Template())
		r.GET("/", cfg.PageHandler.Index)
		r.POST("/", limited, cfg.PageHandler.Submit)
	}

	// Path images
	if cfg.PathHandler != nil {
		r.GET(httpH.AssetPrefix+":name", cfg.PathHandler.Asset)
	}

	api := r.Group("/api/v1")
	{
		if cfg.AssessmentHandler != nil {
			api.POST("/assessments", limited, cfg.AssessmentHandler.Create)
			api.GET("/assessments", cfg.AssessmentHandler.List)
			api.GET("/assessments/:id", cfg.AssessmentHandler.Get)
			api.GET("/stats", cfg.AssessmentHandler.Stats)
		}
		if cfg.PathHandler != nil {
			api.GET("/paths", cfg.PathHandler.List)
		}
	}

	return r
}
