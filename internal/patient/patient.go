// Package patient holds the six inputs of the assessment form, the required-fields
// gate that guards inference, and the fixed-order feature encoding the model expects.
package patient

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

type Gender string

const (
	Male   Gender = "Male"
	Female Gender = "Female"
)

type Answer string

const (
	Yes Answer = "Yes"
	No  Answer = "No"
)

const (
	MinAge = 0
	MaxAge = 100
)

// IncompleteMessage is shown when the form is submitted with empty fields.
const IncompleteMessage = "Please complete all fields in the form."

var (
	ErrIncomplete   = errors.New(IncompleteMessage)
	ErrInvalidField = errors.New("invalid field")
)

// Field names, shared by the form, the JSON API and error reporting.
const (
	FieldAge              = "age"
	FieldGender           = "gender"
	FieldPolyuria         = "polyuria"
	FieldPolydipsia       = "polydipsia"
	FieldSuddenWeightLoss = "sudden_weight_loss"
	FieldAlopecia         = "alopecia"
)

// IncompleteError lists the fields that were left empty.
type IncompleteError struct {
	Missing []string
}

func (e *IncompleteError) Error() string { return IncompleteMessage }

func (e *IncompleteError) Is(target error) bool { return target == ErrIncomplete }

// FieldError reports a value that was entered but cannot be used.
type FieldError struct {
	Field  string
	Reason string
}

func (e *FieldError) Error() string { return fmt.Sprintf("%s: %s", e.Field, e.Reason) }

func (e *FieldError) Is(target error) bool { return target == ErrInvalidField }

// Form is the raw submission. A nil field has not been entered.
type Form struct {
	Age              *int
	Gender           *Gender
	Polyuria         *Answer
	Polydipsia       *Answer
	SuddenWeightLoss *Answer
	Alopecia         *Answer
}

// Input is a form that passed Validate; every field is present.
type Input struct {
	Age              int
	Gender           Gender
	Polyuria         Answer
	Polydipsia       Answer
	SuddenWeightLoss Answer
	Alopecia         Answer
}

func ParseGender(s string) (*Gender, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return nil, nil
	case "male", "m":
		g := Male
		return &g, nil
	case "female", "f":
		g := Female
		return &g, nil
	default:
		return nil, &FieldError{Field: FieldGender, Reason: fmt.Sprintf("must be Male or Female, got %q", s)}
	}
}

func ParseAnswer(field, s string) (*Answer, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return nil, nil
	case "yes", "y":
		a := Yes
		return &a, nil
	case "no", "n":
		a := No
		return &a, nil
	default:
		return nil, &FieldError{Field: field, Reason: fmt.Sprintf("must be Yes or No, got %q", s)}
	}
}

func ParseAge(s string) (*int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil, &FieldError{Field: FieldAge, Reason: "must be a whole number"}
	}
	return &n, nil
}

// ParseValues builds a Form from string values keyed by field name, as posted by
// the HTML form or passed on the command line. Every field is parsed; when a value
// is invalid and other fields are empty, the empty fields are reported first as an
// IncompleteError. Empty fields alone are left nil for Validate.
func ParseValues(get func(field string) string) (Form, error) {
	var (
		f        Form
		missing  []string
		firstErr error
	)
	note := func(field, raw string, err error) {
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			return
		}
		if strings.TrimSpace(raw) == "" {
			missing = append(missing, field)
		}
	}

	raw := get(FieldAge)
	age, err := ParseAge(raw)
	f.Age = age
	note(FieldAge, raw, err)

	raw = get(FieldGender)
	gender, err := ParseGender(raw)
	f.Gender = gender
	note(FieldGender, raw, err)

	answers := []struct {
		field string
		dst   **Answer
	}{
		{FieldPolyuria, &f.Polyuria},
		{FieldPolydipsia, &f.Polydipsia},
		{FieldSuddenWeightLoss, &f.SuddenWeightLoss},
		{FieldAlopecia, &f.Alopecia},
	}
	for _, a := range answers {
		raw = get(a.field)
		v, err := ParseAnswer(a.field, raw)
		*a.dst = v
		note(a.field, raw, err)
	}

	if firstErr == nil {
		return f, nil
	}
	if len(missing) > 0 {
		return f, &IncompleteError{Missing: missing}
	}
	return f, firstErr
}

// Validate is the single gate in front of inference: all six fields must be
// present, and the values must be in their allowed domains.
func (f Form) Validate() (Input, error) {
	var missing []string
	if f.Age == nil {
		missing = append(missing, FieldAge)
	}
	if f.Gender == nil {
		missing = append(missing, FieldGender)
	}
	if f.Polyuria == nil {
		missing = append(missing, FieldPolyuria)
	}
	if f.Polydipsia == nil {
		missing = append(missing, FieldPolydipsia)
	}
	if f.SuddenWeightLoss == nil {
		missing = append(missing, FieldSuddenWeightLoss)
	}
	if f.Alopecia == nil {
		missing = append(missing, FieldAlopecia)
	}
	if len(missing) > 0 {
		return Input{}, &IncompleteError{Missing: missing}
	}

	if *f.Age < MinAge || *f.Age > MaxAge {
		return Input{}, &FieldError{Field: FieldAge, Reason: fmt.Sprintf("must be between %d and %d", MinAge, MaxAge)}
	}
	if g := *f.Gender; g != Male && g != Female {
		return Input{}, &FieldError{Field: FieldGender, Reason: fmt.Sprintf("must be Male or Female, got %q", g)}
	}
	for _, a := range []struct {
		field string
		val   Answer
	}{
		{FieldPolyuria, *f.Polyuria},
		{FieldPolydipsia, *f.Polydipsia},
		{FieldSuddenWeightLoss, *f.SuddenWeightLoss},
		{FieldAlopecia, *f.Alopecia},
	} {
		if a.val != Yes && a.val != No {
			return Input{}, &FieldError{Field: a.field, Reason: fmt.Sprintf("must be Yes or No, got %q", a.val)}
		}
	}

	return Input{
		Age:              *f.Age,
		Gender:           *f.Gender,
		Polyuria:         *f.Polyuria,
		Polydipsia:       *f.Polydipsia,
		SuddenWeightLoss: *f.SuddenWeightLoss,
		Alopecia:         *f.Alopecia,
	}, nil
}

// Form converts a validated input back to a form, e.g. to re-populate the page.
func (in Input) Form() Form {
	age, g := in.Age, in.Gender
	pu, pd, swl, al := in.Polyuria, in.Polydipsia, in.SuddenWeightLoss, in.Alopecia
	return Form{Age: &age, Gender: &g, Polyuria: &pu, Polydipsia: &pd, SuddenWeightLoss: &swl, Alopecia: &al}
}
