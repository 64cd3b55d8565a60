package registry

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/yungbote/diabetes-app/internal/config"
	"github.com/yungbote/diabetes-app/internal/patient"
	"github.com/yungbote/diabetes-app/internal/predictor"
)

func TestNewSelectsEngine(t *testing.T) {
	p, err := New(config.ModelConfig{Engine: "MOCK", MockLabel: 1})
	if err != nil {
		t.Fatalf("mock: %v", err)
	}
	got, err := p.Predict(context.Background(), patient.FeatureVector{})
	if err != nil || got != 1 {
		t.Fatalf("mock predict: %d %v", got, err)
	}
	if !strings.HasPrefix(Describe(p), "mock") {
		t.Fatalf("describe: %s", Describe(p))
	}

	p, err = New(config.ModelConfig{Engine: config.EngineTree, Path: filepath.Join("..", "tree", "testdata", "model.json")})
	if err != nil {
		t.Fatalf("tree: %v", err)
	}
	if !strings.HasPrefix(Describe(p), "tree") {
		t.Fatalf("describe: %s", Describe(p))
	}

	p, err = New(config.ModelConfig{Engine: config.EngineHTTP, BaseURL: "http://model.local"})
	if err != nil {
		t.Fatalf("http: %v", err)
	}
	if _, ok := p.(predictor.Checker); !ok {
		t.Fatalf("http engine should implement Checker")
	}
}

func TestNewErrors(t *testing.T) {
	if _, err := New(config.ModelConfig{Engine: config.EngineTree, Path: filepath.Join(t.TempDir(), "missing.json")}); !errors.Is(err, predictor.ErrModelNotFound) {
		t.Fatalf("want ErrModelNotFound, got %v", err)
	}
	if _, err := New(config.ModelConfig{Engine: "onnx"}); err == nil {
		t.Fatalf("expected unsupported engine error")
	}
}
