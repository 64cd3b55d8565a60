// Package remote forwards feature vectors to a model server speaking the
// {"instances": [...]} / {"predictions": [...]} JSON convention.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/yungbote/diabetes-app/internal/config"
	"github.com/yungbote/diabetes-app/internal/patient"
	"github.com/yungbote/diabetes-app/internal/predictor"
)

const maxErrorBody = 4 << 10

type Engine struct {
	baseURL     string
	predictPath string
	apiKey      string
	timeout     time.Duration
	httpClient  *http.Client
}

type predictRequest struct {
	Instances [][]float64 `json:"instances"`
}

type predictResponse struct {
	Predictions []json.Number `json:"predictions"`
}

func New(cfg config.ModelConfig) (*Engine, error) {
	tr := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:        100,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	}
	return NewWithHTTPClient(cfg, &http.Client{Transport: tr})
}

// NewWithHTTPClient is intended for tests.
func NewWithHTTPClient(cfg config.ModelConfig, httpClient *http.Client) (*Engine, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		return nil, fmt.Errorf("remote model: base_url required")
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	path := strings.TrimSpace(cfg.PredictPath)
	if path == "" {
		path = "/v1/predict"
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	timeout := cfg.Timeout.Duration
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Engine{
		baseURL:     base,
		predictPath: path,
		apiKey:      strings.TrimSpace(cfg.APIKey),
		timeout:     timeout,
		httpClient:  httpClient,
	}, nil
}

func (e *Engine) Predict(ctx context.Context, x patient.FeatureVector) (predictor.Label, error) {
	var out predictResponse
	if err := e.doJSON(ctx, http.MethodPost, e.predictPath, predictRequest{Instances: [][]float64{x.Slice()}}, &out); err != nil {
		return 0, err
	}
	if len(out.Predictions) != 1 {
		return 0, fmt.Errorf("model server: want 1 prediction, got %d", len(out.Predictions))
	}
	label, err := parseLabel(out.Predictions[0])
	if err != nil {
		return 0, err
	}
	return label, nil
}

// Check issues a GET against the base URL; any 2xx counts as ready.
func (e *Engine) Check(ctx context.Context) error {
	return e.doJSON(ctx, http.MethodGet, "", nil, nil)
}

func (e *Engine) Describe() string { return "http(" + e.baseURL + e.predictPath + ")" }

// Servers export labels as 1, 1.0 or "1".
func parseLabel(n json.Number) (predictor.Label, error) {
	s := strings.Trim(strings.TrimSpace(n.String()), `"`)
	if i, err := json.Number(s).Int64(); err == nil {
		return predictor.Label(i), nil
	}
	f, err := json.Number(s).Float64()
	if err != nil {
		return 0, fmt.Errorf("model server: invalid label %q", n.String())
	}
	if f != float64(int64(f)) {
		return 0, fmt.Errorf("model server: non-integer label %v", f)
	}
	return predictor.Label(int64(f)), nil
}

func (e *Engine) setHeaders(req *http.Request, hasBody bool) {
	if hasBody {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if e.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+e.apiKey)
	}
}

func (e *Engine) doJSON(ctx context.Context, method, path string, body any, out any) error {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return err
		}
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, method, e.baseURL+path, &buf)
	if err != nil {
		return err
	}
	e.setHeaders(req, body != nil)

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &HTTPError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(raw))}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxErrorBody))
		return nil
	}
	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("decode model server response: %w", err)
	}
	return nil
}
