package remote

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/yungbote/diabetes-app/internal/config"
	"github.com/yungbote/diabetes-app/internal/patient"
	"github.com/yungbote/diabetes-app/internal/predictor"
)

type roundTripperFunc func(req *http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) { return f(req) }

func reply(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

func newEngine(t *testing.T, rt roundTripperFunc) *Engine {
	t.Helper()
	e, err := NewWithHTTPClient(config.ModelConfig{
		Engine:  config.EngineHTTP,
		BaseURL: "http://model.local/",
		APIKey:  "sk-test",
		Timeout: config.Duration{Duration: time.Second},
	}, &http.Client{Transport: rt})
	if err != nil {
		t.Fatalf("NewWithHTTPClient: %v", err)
	}
	return e
}

func TestPredictSendsInstances(t *testing.T) {
	e := newEngine(t, func(req *http.Request) (*http.Response, error) {
		if req.Method != http.MethodPost {
			t.Fatalf("method: %s", req.Method)
		}
		if req.URL.String() != "http://model.local/v1/predict" {
			t.Fatalf("url: %s", req.URL.String())
		}
		if got := req.Header.Get("Authorization"); got != "Bearer sk-test" {
			t.Fatalf("authorization: %q", got)
		}
		var body struct {
			Instances [][]float64 `json:"instances"`
		}
		if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		want := []float64{55, 1, 1, 0, 1, 0}
		if len(body.Instances) != 1 || len(body.Instances[0]) != len(want) {
			t.Fatalf("instances: %#v", body.Instances)
		}
		for i := range want {
			if body.Instances[0][i] != want[i] {
				t.Fatalf("instances[0][%d]: want %v, got %v", i, want[i], body.Instances[0][i])
			}
		}
		return reply(200, `{"predictions":[1]}`), nil
	})

	got, err := e.Predict(context.Background(), patient.FeatureVector{55, 1, 1, 0, 1, 0})
	if err != nil {
		t.Fatalf("Predict: %v", err)
	}
	if got != 1 {
		t.Fatalf("label: want 1, got %d", got)
	}
}

func TestPredictLabelShapes(t *testing.T) {
	cases := []struct {
		body string
		want predictor.Label
	}{
		{`{"predictions":[0]}`, 0},
		{`{"predictions":[1.0]}`, 1},
		{`{"predictions":["1"]}`, 1},
	}
	for _, tc := range cases {
		body := tc.body
		e := newEngine(t, func(req *http.Request) (*http.Response, error) {
			return reply(200, body), nil
		})
		got, err := e.Predict(context.Background(), patient.FeatureVector{})
		if err != nil {
			t.Fatalf("%s: Predict: %v", tc.body, err)
		}
		if got != tc.want {
			t.Fatalf("%s: want %d, got %d", tc.body, tc.want, got)
		}
	}
}

func TestPredictRejectsBadReplies(t *testing.T) {
	cases := []string{
		`{"predictions":[]}`,
		`{"predictions":[1,0]}`,
		`{"predictions":[0.5]}`,
		`not json`,
	}
	for _, body := range cases {
		b := body
		e := newEngine(t, func(req *http.Request) (*http.Response, error) {
			return reply(200, b), nil
		})
		if _, err := e.Predict(context.Background(), patient.FeatureVector{}); err == nil {
			t.Fatalf("%s: expected error", b)
		}
	}
}

func TestPredictHTTPError(t *testing.T) {
	e := newEngine(t, func(req *http.Request) (*http.Response, error) {
		return reply(503, `{"error":"warming up"}`), nil
	})
	_, err := e.Predict(context.Background(), patient.FeatureVector{})
	var he *HTTPError
	if !errors.As(err, &he) {
		t.Fatalf("want *HTTPError, got %T %v", err, err)
	}
	if he.StatusCode != 503 || !strings.Contains(he.Body, "warming up") {
		t.Fatalf("unexpected error: %+v", he)
	}
}

func TestCheck(t *testing.T) {
	e := newEngine(t, func(req *http.Request) (*http.Response, error) {
		if req.Method != http.MethodGet || req.URL.String() != "http://model.local" {
			t.Fatalf("unexpected request %s %s", req.Method, req.URL.String())
		}
		return reply(200, `ok`), nil
	})
	if err := e.Check(context.Background()); err != nil {
		t.Fatalf("Check: %v", err)
	}
}

func TestNewRequiresBaseURL(t *testing.T) {
	if _, err := NewWithHTTPClient(config.ModelConfig{}, nil); err == nil {
		t.Fatalf("expected error")
	}
}
