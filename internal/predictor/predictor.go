// Package predictor defines the classifier contract used by the assessment flow.
// Engines live in subpackages; registry picks one from configuration.
package predictor

import (
	"context"
	"errors"

	"github.com/yungbote/diabetes-app/internal/patient"
)

// ErrModelNotFound is returned at startup when the tree artifact is missing.
var ErrModelNotFound = errors.New("Model file not found. Please upload the decision tree model.")

const (
	OutcomeDiabetic    = "Diabetic"
	OutcomeNonDiabetic = "Non-diabetic"
)

// Label is the raw class emitted by a model. 1 is the positive class.
type Label int

// Outcome maps 1 to "Diabetic"; every other label is "Non-diabetic".
func (l Label) Outcome() string {
	if l == 1 {
		return OutcomeDiabetic
	}
	return OutcomeNonDiabetic
}

type Predictor interface {
	Predict(ctx context.Context, features patient.FeatureVector) (Label, error)
}

// Checker is implemented by engines that can report readiness.
type Checker interface {
	Check(ctx context.Context) error
}

// Describer is implemented by engines that can name themselves for logs.
type Describer interface {
	Describe() string
}
