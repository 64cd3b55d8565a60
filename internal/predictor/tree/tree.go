// Package tree evaluates a decision tree exported from scikit-learn's tree_ arrays.
package tree

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/yungbote/diabetes-app/internal/patient"
	"github.com/yungbote/diabetes-app/internal/predictor"
)

const leafChild = -1

// Artifact is the on-disk shape of an exported tree.
type Artifact struct {
	FeatureNames  []string    `json:"feature_names,omitempty"`
	Classes       []int       `json:"classes"`
	ChildrenLeft  []int       `json:"children_left"`
	ChildrenRight []int       `json:"children_right"`
	Feature       []int       `json:"feature"`
	Threshold     []float64   `json:"threshold"`
	Value         [][]float64 `json:"value"`
}

type Engine struct {
	path string
	art  Artifact
}

// Load reads and validates the artifact at path. A missing file yields
// predictor.ErrModelNotFound.
func Load(path string) (*Engine, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, predictor.ErrModelNotFound
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w (%s)", predictor.ErrModelNotFound, path)
		}
		return nil, fmt.Errorf("read model: %w", err)
	}
	e, err := Parse(b)
	if err != nil {
		return nil, fmt.Errorf("model %s: %w", path, err)
	}
	e.path = path
	return e, nil
}

// Parse builds an Engine from raw artifact JSON.
func Parse(b []byte) (*Engine, error) {
	var art Artifact
	if err := json.Unmarshal(b, &art); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	if err := art.Validate(); err != nil {
		return nil, err
	}
	return &Engine{art: art}, nil
}

// Validate checks the arrays describe a single acyclic binary tree over the
// patient feature vector.
func (a *Artifact) Validate() error {
	n := len(a.ChildrenLeft)
	if n == 0 {
		return fmt.Errorf("empty tree")
	}
	if len(a.ChildrenRight) != n || len(a.Feature) != n || len(a.Threshold) != n || len(a.Value) != n {
		return fmt.Errorf("array length mismatch: children_left=%d children_right=%d feature=%d threshold=%d value=%d",
			n, len(a.ChildrenRight), len(a.Feature), len(a.Threshold), len(a.Value))
	}
	if len(a.Classes) == 0 {
		return fmt.Errorf("classes required")
	}
	if len(a.FeatureNames) > 0 {
		if len(a.FeatureNames) != len(patient.FeatureNames) {
			return fmt.Errorf("feature_names: want %d names, got %d", len(patient.FeatureNames), len(a.FeatureNames))
		}
		for i, name := range a.FeatureNames {
			if name != patient.FeatureNames[i] {
				return fmt.Errorf("feature_names[%d]: want %q, got %q", i, patient.FeatureNames[i], name)
			}
		}
	}
	for i := 0; i < n; i++ {
		l, r := a.ChildrenLeft[i], a.ChildrenRight[i]
		if len(a.Value[i]) != len(a.Classes) {
			return fmt.Errorf("node %d: value has %d entries, want %d", i, len(a.Value[i]), len(a.Classes))
		}
		if l == leafChild && r == leafChild {
			continue
		}
		if l == leafChild || r == leafChild {
			return fmt.Errorf("node %d: only one child set", i)
		}
		// Children always come after their parent in the export, which rules out cycles.
		if l <= i || r <= i || l >= n || r >= n {
			return fmt.Errorf("node %d: child index out of order (left=%d right=%d)", i, l, r)
		}
		if f := a.Feature[i]; f < 0 || f >= len(patient.FeatureNames) {
			return fmt.Errorf("node %d: feature index %d out of range", i, f)
		}
	}
	return nil
}

func (e *Engine) Predict(ctx context.Context, x patient.FeatureVector) (predictor.Label, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	node := 0
	for {
		l := e.art.ChildrenLeft[node]
		if l == leafChild {
			break
		}
		if x[e.art.Feature[node]] <= e.art.Threshold[node] {
			node = l
		} else {
			node = e.art.ChildrenRight[node]
		}
	}
	return predictor.Label(e.art.Classes[argmax(e.art.Value[node])]), nil
}

// Check reports whether the artifact is still present on disk.
func (e *Engine) Check(_ context.Context) error {
	if e.path == "" {
		return nil
	}
	if _, err := os.Stat(e.path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return predictor.ErrModelNotFound
		}
		return err
	}
	return nil
}

func (e *Engine) Describe() string {
	return fmt.Sprintf("tree(nodes=%d path=%s)", len(e.art.ChildrenLeft), e.path)
}

// Nodes returns the node count.
func (e *Engine) Nodes() int { return len(e.art.ChildrenLeft) }

func argmax(v []float64) int {
	best := 0
	for i := 1; i < len(v); i++ {
		if v[i] > v[best] {
			best = i
		}
	}
	return best
}
