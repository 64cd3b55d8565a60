package tree

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/yungbote/diabetes-app/internal/patient"
	"github.com/yungbote/diabetes-app/internal/predictor"
)

func TestLoadAndPredict(t *testing.T) {
	e, err := Load(filepath.Join("testdata", "model.json"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if e.Nodes() != 13 {
		t.Fatalf("nodes: want 13, got %d", e.Nodes())
	}

	cases := []struct {
		name string
		x    patient.FeatureVector
		want predictor.Label
	}{
		{"female no alopecia", patient.FeatureVector{45, 0, 0, 0, 0, 0}, 1},
		{"female alopecia", patient.FeatureVector{45, 0, 0, 0, 0, 1}, 0},
		{"male no polydipsia", patient.FeatureVector{45, 1, 0, 0, 0, 0}, 0},
		{"male polydipsia", patient.FeatureVector{45, 1, 0, 1, 0, 0}, 1},
		{"polyuria young", patient.FeatureVector{40, 1, 1, 0, 0, 0}, 1},
		{"polyuria at split", patient.FeatureVector{69, 1, 1, 0, 0, 0}, 1},
		{"polyuria old no weight loss", patient.FeatureVector{70, 1, 1, 0, 0, 0}, 0},
		{"polyuria old weight loss", patient.FeatureVector{70, 1, 1, 0, 1, 0}, 1},
	}
	for _, tc := range cases {
		got, err := e.Predict(context.Background(), tc.x)
		if err != nil {
			t.Fatalf("%s: Predict: %v", tc.name, err)
		}
		if got != tc.want {
			t.Fatalf("%s: want %d, got %d", tc.name, tc.want, got)
		}
	}
	if err := e.Check(context.Background()); err != nil {
		t.Fatalf("Check: %v", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	if !errors.Is(err, predictor.ErrModelNotFound) {
		t.Fatalf("want ErrModelNotFound, got %v", err)
	}
	if _, err := Load(""); !errors.Is(err, predictor.ErrModelNotFound) {
		t.Fatalf("empty path: want ErrModelNotFound, got %v", err)
	}
}

func TestCheckAfterRemoval(t *testing.T) {
	b, err := os.ReadFile(filepath.Join("testdata", "model.json"))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	p := filepath.Join(t.TempDir(), "model.json")
	if err := os.WriteFile(p, b, 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	e, err := Load(p)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := os.Remove(p); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if err := e.Check(context.Background()); !errors.Is(err, predictor.ErrModelNotFound) {
		t.Fatalf("want ErrModelNotFound, got %v", err)
	}
}

func TestParseRejectsBadArtifacts(t *testing.T) {
	cases := []struct {
		name string
		json string
		want string
	}{
		{"empty", `{"classes":[0,1]}`, "empty tree"},
		{"length mismatch", `{"classes":[0,1],"children_left":[-1],"children_right":[],"feature":[-2],"threshold":[-2],"value":[[1,0]]}`, "length mismatch"},
		{"no classes", `{"children_left":[-1],"children_right":[-1],"feature":[-2],"threshold":[-2],"value":[[1]]}`, "classes required"},
		{"cycle", `{"classes":[0,1],"children_left":[0,-1],"children_right":[1,-1],"feature":[0,-2],"threshold":[1,-2],"value":[[1,1],[1,0]]}`, "out of order"},
		{"feature range", `{"classes":[0,1],"children_left":[1,-1,-1],"children_right":[2,-1,-1],"feature":[9,-2,-2],"threshold":[1,-2,-2],"value":[[1,1],[1,0],[0,1]]}`, "feature index 9"},
		{"one child", `{"classes":[0,1],"children_left":[1,-1],"children_right":[-1,-1],"feature":[0,-2],"threshold":[1,-2],"value":[[1,1],[1,0]]}`, "only one child"},
		{"value width", `{"classes":[0,1],"children_left":[-1],"children_right":[-1],"feature":[-2],"threshold":[-2],"value":[[1]]}`, "value has 1 entries"},
		{"feature names", `{"feature_names":["a","b","c","d","e","f"],"classes":[0,1],"children_left":[-1],"children_right":[-1],"feature":[-2],"threshold":[-2],"value":[[1,0]]}`, "feature_names[0]"},
		{"bad json", `{`, "decode"},
	}
	for _, tc := range cases {
		_, err := Parse([]byte(tc.json))
		if err == nil {
			t.Fatalf("%s: expected error", tc.name)
		}
		if !strings.Contains(err.Error(), tc.want) {
			t.Fatalf("%s: want error containing %q, got %v", tc.name, tc.want, err)
		}
	}
}

func TestPredictSingleLeaf(t *testing.T) {
	e, err := Parse([]byte(`{"classes":[0,1],"children_left":[-1],"children_right":[-1],"feature":[-2],"threshold":[-2],"value":[[2,5]]}`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	got, err := e.Predict(context.Background(), patient.FeatureVector{})
	if err != nil {
		t.Fatalf("Predict: %v", err)
	}
	if got != 1 || got.Outcome() != predictor.OutcomeDiabetic {
		t.Fatalf("want Diabetic, got %d (%s)", got, got.Outcome())
	}
}

func TestPredictCanceledContext(t *testing.T) {
	e, err := Load(filepath.Join("testdata", "model.json"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := e.Predict(ctx, patient.FeatureVector{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("want context.Canceled, got %v", err)
	}
}
