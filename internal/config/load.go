package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/yungbote/diabetes-app/internal/platform/envutil"
)

const (
	EngineTree = "tree"
	EngineHTTP = "http"
	EngineMock = "mock"
)

func (d *Duration) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "" || s == "null" {
		d.Duration = 0
		return nil
	}
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		u, err := strconv.Unquote(s)
		if err != nil {
			return err
		}
		return d.parse(u)
	}

	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return fmt.Errorf("duration must be a JSON string like \"5s\" or an int nanoseconds: %w", err)
	}
	d.Duration = time.Duration(n)
	return nil
}

func (d *Duration) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: duration must be a scalar", n.Line)
	}
	if n.Tag == "!!int" {
		v, err := strconv.ParseInt(n.Value, 10, 64)
		if err != nil {
			return fmt.Errorf("line %d: %w", n.Line, err)
		}
		d.Duration = time.Duration(v)
		return nil
	}
	if err := d.parse(n.Value); err != nil {
		return fmt.Errorf("line %d: %w", n.Line, err)
	}
	return nil
}

func (d *Duration) parse(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		d.Duration = 0
		return nil
	}
	dd, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	d.Duration = dd
	return nil
}

func Default() *Config {
	return &Config{
		Env:     "development",
		Version: "v1.1",
		HTTP: HTTPConfig{
			Addr:              ":8080",
			ReadHeaderTimeout: Duration{Duration: 5 * time.Second},
			IdleTimeout:       Duration{Duration: 2 * time.Minute},
			ShutdownTimeout:   Duration{Duration: 15 * time.Second},
			MaxRequestBytes:   64 << 10,
			AllowOrigins: []string{
				"http://localhost:3000",
				"http://localhost:5173",
				"http://127.0.0.1:3000",
				"http://127.0.0.1:5173",
			},
		},
		Model: ModelConfig{
			Engine:      EngineTree,
			Path:        filepath.Join("models", "decision_tree.json"),
			PredictPath: "/v1/predict",
			Timeout:     Duration{Duration: 10 * time.Second},
		},
		Assets: AssetsConfig{
			Dir:           filepath.Join("assets", "paths"),
			RenderMissing: true,
		},
		Stats: StatsConfig{
			Prefix: "diabetes:stats",
			TTL:    Duration{Duration: 30 * 24 * time.Hour},
		},
		RateLimit: RateLimitConfig{
			Enabled: true,
			RPS:     5,
			Burst:   10,
		},
		Observability: ObservabilityConfig{
			ServiceName: "diabetes-app",
		},
	}
}

// Load resolves the config file (explicit path, then DA_CONFIG_PATH, then
// config/config.{yaml,yml,json} under the working directory), applies env
// overrides and validates the result. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	cfgPath := strings.TrimSpace(path)
	if cfgPath == "" {
		cfgPath = strings.TrimSpace(os.Getenv("DA_CONFIG_PATH"))
	}
	if cfgPath == "" {
		cfgPath = discover()
	}
	if cfgPath != "" {
		if err := decodeFile(cfgPath, cfg); err != nil {
			return nil, err
		}
	}

	applyEnv(cfg)

	if err := normalize(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func discover() string {
	wd, err := os.Getwd()
	if err != nil {
		return ""
	}
	for _, name := range []string{"config.yaml", "config.yml", "config.json"} {
		p := filepath.Join(wd, "config", name)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

func decodeFile(path string, cfg *Config) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(b))
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("decode config %s: %w", path, err)
		}
	default:
		dec := json.NewDecoder(bytes.NewReader(b))
		dec.DisallowUnknownFields()
		if err := dec.Decode(cfg); err != nil {
			return fmt.Errorf("decode config %s: %w", path, err)
		}
	}
	return nil
}

func applyEnv(cfg *Config) {
	cfg.Env = envutil.String("LOG_MODE", cfg.Env)
	cfg.HTTP.Addr = envutil.String("DA_HTTP_ADDR", cfg.HTTP.Addr)

	cfg.Model.Engine = envutil.String("DA_MODEL_ENGINE", cfg.Model.Engine)
	cfg.Model.Path = envutil.String("DA_MODEL_PATH", cfg.Model.Path)
	cfg.Model.BaseURL = envutil.String("DA_MODEL_URL", cfg.Model.BaseURL)
	cfg.Model.APIKey = envutil.String("DA_MODEL_API_KEY", cfg.Model.APIKey)

	cfg.Assets.Dir = envutil.String("DA_ASSETS_DIR", cfg.Assets.Dir)
	cfg.Assets.Bucket = envutil.String("DA_ASSETS_BUCKET", cfg.Assets.Bucket)
	cfg.Assets.EmulatorHost = envutil.String("STORAGE_EMULATOR_HOST", cfg.Assets.EmulatorHost)

	cfg.Storage.Driver = envutil.String("DA_DB_DRIVER", cfg.Storage.Driver)
	cfg.Storage.DSN = envutil.String("DA_DB_DSN", cfg.Storage.DSN)

	cfg.Stats.RedisAddr = envutil.String("DA_REDIS_ADDR", cfg.Stats.RedisAddr)
	cfg.Stats.RedisPassword = envutil.String("DA_REDIS_PASSWORD", cfg.Stats.RedisPassword)
	cfg.Stats.RedisDB = envutil.Int("DA_REDIS_DB", cfg.Stats.RedisDB)

	cfg.RateLimit.Enabled = envutil.Bool("DA_RATE_ENABLED", cfg.RateLimit.Enabled)
	cfg.RateLimit.RPS = envutil.Float("DA_RATE_RPS", cfg.RateLimit.RPS)
	cfg.RateLimit.Burst = envutil.Int("DA_RATE_BURST", cfg.RateLimit.Burst)
	cfg.RateLimit.TrustXFF = envutil.Bool("DA_TRUST_XFF", cfg.RateLimit.TrustXFF)

	cfg.Observability.MetricsEnabled = envutil.Bool("METRICS_ENABLED", cfg.Observability.MetricsEnabled)
	cfg.Observability.MetricsAddr = envutil.String("METRICS_ADDR", cfg.Observability.MetricsAddr)
}

func normalize(cfg *Config) error {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "development"
	}
	if strings.TrimSpace(cfg.HTTP.Addr) == "" {
		cfg.HTTP.Addr = ":8080"
	}
	if cfg.HTTP.MaxRequestBytes <= 0 {
		cfg.HTTP.MaxRequestBytes = 64 << 10
	}

	m := &cfg.Model
	m.Engine = strings.ToLower(strings.TrimSpace(m.Engine))
	switch m.Engine {
	case EngineTree:
		m.Path = strings.TrimSpace(m.Path)
		if m.Path == "" {
			return errors.New("model.path is required for the tree engine")
		}
	case EngineHTTP:
		m.BaseURL = strings.TrimRight(strings.TrimSpace(m.BaseURL), "/")
		if m.BaseURL == "" {
			return errors.New("model.base_url is required for the http engine")
		}
		m.PredictPath = strings.TrimSpace(m.PredictPath)
		if m.PredictPath == "" {
			m.PredictPath = "/v1/predict"
		}
		if !strings.HasPrefix(m.PredictPath, "/") {
			m.PredictPath = "/" + m.PredictPath
		}
		if m.Timeout.Duration <= 0 {
			m.Timeout = Duration{Duration: 10 * time.Second}
		}
	case EngineMock:
		if m.MockLabel != 0 && m.MockLabel != 1 {
			return fmt.Errorf("model.mock_label must be 0 or 1, got %d", m.MockLabel)
		}
	case "":
		return errors.New("model.engine is required")
	default:
		return fmt.Errorf("unsupported model.engine %q", m.Engine)
	}

	cfg.Assets.Prefix = strings.Trim(strings.TrimSpace(cfg.Assets.Prefix), "/")
	if strings.TrimSpace(cfg.Assets.Bucket) == "" && strings.TrimSpace(cfg.Assets.Dir) == "" {
		cfg.Assets.Dir = filepath.Join("assets", "paths")
	}

	cfg.Storage.Driver = strings.ToLower(strings.TrimSpace(cfg.Storage.Driver))
	switch cfg.Storage.Driver {
	case "", "none":
		cfg.Storage.Driver = ""
	case "sqlite":
		if strings.TrimSpace(cfg.Storage.DSN) == "" {
			cfg.Storage.DSN = "diabetes.db"
		}
	case "postgres", "postgresql":
		cfg.Storage.Driver = "postgres"
		if strings.TrimSpace(cfg.Storage.DSN) == "" {
			return errors.New("storage.dsn is required for the postgres driver")
		}
	default:
		return fmt.Errorf("unsupported storage.driver %q", cfg.Storage.Driver)
	}

	cfg.Stats.Prefix = strings.Trim(strings.TrimSpace(cfg.Stats.Prefix), ":")
	if cfg.Stats.Prefix == "" {
		cfg.Stats.Prefix = "diabetes:stats"
	}

	if cfg.RateLimit.Enabled {
		if cfg.RateLimit.RPS <= 0 {
			return errors.New("rate_limit.rps must be > 0")
		}
		if cfg.RateLimit.Burst <= 0 {
			return errors.New("rate_limit.burst must be > 0")
		}
	}

	if strings.TrimSpace(cfg.Observability.ServiceName) == "" {
		cfg.Observability.ServiceName = "diabetes-app"
	}
	return nil
}
