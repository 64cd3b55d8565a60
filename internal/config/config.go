package config

import "time"

type Duration struct {
	Duration time.Duration
}

type HTTPConfig struct {
	Addr              string   `json:"addr" yaml:"addr"`
	ReadHeaderTimeout Duration `json:"read_header_timeout" yaml:"read_header_timeout"`
	IdleTimeout       Duration `json:"idle_timeout" yaml:"idle_timeout"`
	ShutdownTimeout   Duration `json:"shutdown_timeout" yaml:"shutdown_timeout"`
	MaxRequestBytes   int64    `json:"max_request_bytes" yaml:"max_request_bytes"`

	// AllowOrigins feeds the CORS middleware; the page itself is same-origin.
	AllowOrigins []string `json:"allow_origins,omitempty" yaml:"allow_origins,omitempty"`
}

type ModelConfig struct {
	// Engine is one of "tree", "http" or "mock".
	Engine string `json:"engine" yaml:"engine"`

	// Path is the exported decision tree artifact (for "tree").
	Path string `json:"path,omitempty" yaml:"path,omitempty"`

	// BaseURL/PredictPath address a remote model server (for "http").
	BaseURL     string   `json:"base_url,omitempty" yaml:"base_url,omitempty"`
	PredictPath string   `json:"predict_path,omitempty" yaml:"predict_path,omitempty"`
	APIKey      string   `json:"api_key,omitempty" yaml:"api_key,omitempty"`
	Timeout     Duration `json:"timeout,omitempty" yaml:"timeout,omitempty"`

	// MockLabel is the label returned by the "mock" engine.
	MockLabel int `json:"mock_label,omitempty" yaml:"mock_label,omitempty"`
}

type AssetsConfig struct {
	Dir string `json:"dir,omitempty" yaml:"dir,omitempty"`

	// Bucket switches the primary source to GCS; Prefix is prepended to asset names.
	Bucket       string `json:"bucket,omitempty" yaml:"bucket,omitempty"`
	Prefix       string `json:"prefix,omitempty" yaml:"prefix,omitempty"`
	EmulatorHost string `json:"emulator_host,omitempty" yaml:"emulator_host,omitempty"`

	// RenderMissing draws a path diagram when the primary source lacks the asset.
	RenderMissing bool   `json:"render_missing" yaml:"render_missing"`
	FontPath      string `json:"font_path,omitempty" yaml:"font_path,omitempty"`
}

type StorageConfig struct {
	// Driver is "", "sqlite" or "postgres". Empty disables persistence.
	Driver string `json:"driver,omitempty" yaml:"driver,omitempty"`
	DSN    string `json:"dsn,omitempty" yaml:"dsn,omitempty"`
}

type StatsConfig struct {
	RedisAddr     string   `json:"redis_addr,omitempty" yaml:"redis_addr,omitempty"`
	RedisPassword string   `json:"redis_password,omitempty" yaml:"redis_password,omitempty"`
	RedisDB       int      `json:"redis_db,omitempty" yaml:"redis_db,omitempty"`
	Prefix        string   `json:"prefix,omitempty" yaml:"prefix,omitempty"`
	TTL           Duration `json:"ttl,omitempty" yaml:"ttl,omitempty"`
}

type RateLimitConfig struct {
	Enabled  bool    `json:"enabled" yaml:"enabled"`
	RPS      float64 `json:"rps,omitempty" yaml:"rps,omitempty"`
	Burst    int     `json:"burst,omitempty" yaml:"burst,omitempty"`
	TrustXFF bool    `json:"trust_xff,omitempty" yaml:"trust_xff,omitempty"`
}

type ObservabilityConfig struct {
	ServiceName    string `json:"service_name,omitempty" yaml:"service_name,omitempty"`
	MetricsEnabled bool   `json:"metrics_enabled" yaml:"metrics_enabled"`
	// MetricsAddr serves /metrics on a separate listener when set.
	MetricsAddr string `json:"metrics_addr,omitempty" yaml:"metrics_addr,omitempty"`
}

type Config struct {
	Env           string              `json:"env" yaml:"env"`
	Version       string              `json:"version,omitempty" yaml:"version,omitempty"`
	HTTP          HTTPConfig          `json:"http" yaml:"http"`
	Model         ModelConfig         `json:"model" yaml:"model"`
	Assets        AssetsConfig        `json:"assets" yaml:"assets"`
	Storage       StorageConfig       `json:"storage" yaml:"storage"`
	Stats         StatsConfig         `json:"stats" yaml:"stats"`
	RateLimit     RateLimitConfig     `json:"rate_limit" yaml:"rate_limit"`
	Observability ObservabilityConfig `json:"observability" yaml:"observability"`
}
