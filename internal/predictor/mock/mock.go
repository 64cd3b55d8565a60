package mock

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/yungbote/diabetes-app/internal/patient"
	"github.com/yungbote/diabetes-app/internal/predictor"
)

// Engine returns a fixed label. Err, when set, is returned instead.
type Engine struct {
	Label predictor.Label
	Err   error

	calls atomic.Int64
	last  atomic.Pointer[patient.FeatureVector]
}

func New(label int) *Engine {
	return &Engine{Label: predictor.Label(label)}
}

func (e *Engine) Predict(_ context.Context, features patient.FeatureVector) (predictor.Label, error) {
	e.calls.Add(1)
	f := features
	e.last.Store(&f)
	if e.Err != nil {
		return 0, e.Err
	}
	return e.Label, nil
}

func (e *Engine) Check(_ context.Context) error {
	return nil
}

func (e *Engine) Describe() string { return fmt.Sprintf("mock(label=%d)", e.Label) }

// Calls reports how many times Predict ran.
func (e *Engine) Calls() int64 { return e.calls.Load() }

// Last returns the most recent feature vector, if any.
func (e *Engine) Last() (patient.FeatureVector, bool) {
	p := e.last.Load()
	if p == nil {
		return patient.FeatureVector{}, false
	}
	return *p, true
}
