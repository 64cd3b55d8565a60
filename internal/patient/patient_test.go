package patient

import (
	"errors"
	"reflect"
	"testing"
)

func ptr[T any](v T) *T { return &v }

func completeForm() Form {
	return Form{
		Age:              ptr(54),
		Gender:           ptr(Male),
		Polyuria:         ptr(Yes),
		Polydipsia:       ptr(No),
		SuddenWeightLoss: ptr(Yes),
		Alopecia:         ptr(No),
	}
}

func TestValidateComplete(t *testing.T) {
	in, err := completeForm().Validate()
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	want := Input{Age: 54, Gender: Male, Polyuria: Yes, Polydipsia: No, SuddenWeightLoss: Yes, Alopecia: No}
	if in != want {
		t.Fatalf("got %+v want %+v", in, want)
	}
}

func TestValidateIncompleteListsEveryMissingField(t *testing.T) {
	f := completeForm()
	f.Age = nil
	f.Alopecia = nil

	_, err := f.Validate()
	if !errors.Is(err, ErrIncomplete) {
		t.Fatalf("expected ErrIncomplete, got %v", err)
	}
	if err.Error() != "Please complete all fields in the form." {
		t.Fatalf("message=%q", err.Error())
	}
	var ie *IncompleteError
	if !errors.As(err, &ie) {
		t.Fatalf("expected *IncompleteError, got %T", err)
	}
	if !reflect.DeepEqual(ie.Missing, []string{FieldAge, FieldAlopecia}) {
		t.Fatalf("missing=%v", ie.Missing)
	}
}

func TestValidateEmptyForm(t *testing.T) {
	_, err := Form{}.Validate()
	var ie *IncompleteError
	if !errors.As(err, &ie) || len(ie.Missing) != 6 {
		t.Fatalf("expected all six fields missing, got %v", err)
	}
}

func TestValidateAgeBounds(t *testing.T) {
	for _, age := range []int{-1, 101} {
		f := completeForm()
		f.Age = ptr(age)
		_, err := f.Validate()
		if !errors.Is(err, ErrInvalidField) {
			t.Fatalf("age %d: expected ErrInvalidField, got %v", age, err)
		}
	}
	for _, age := range []int{0, 100} {
		f := completeForm()
		f.Age = ptr(age)
		if _, err := f.Validate(); err != nil {
			t.Fatalf("age %d: unexpected error %v", age, err)
		}
	}
}

func TestValidateRejectsUnknownEnumValues(t *testing.T) {
	f := completeForm()
	f.Polydipsia = ptr(Answer("Sometimes"))
	_, err := f.Validate()
	var fe *FieldError
	if !errors.As(err, &fe) || fe.Field != FieldPolydipsia {
		t.Fatalf("expected polydipsia field error, got %v", err)
	}
}

func TestParseValues(t *testing.T) {
	values := map[string]string{
		FieldAge:              " 70 ",
		FieldGender:           "female",
		FieldPolyuria:         "YES",
		FieldPolydipsia:       "no",
		FieldSuddenWeightLoss: "",
		FieldAlopecia:         "y",
	}
	f, err := ParseValues(func(k string) string { return values[k] })
	if err != nil {
		t.Fatalf("ParseValues: %v", err)
	}
	if *f.Age != 70 || *f.Gender != Female || *f.Polyuria != Yes || *f.Polydipsia != No || *f.Alopecia != Yes {
		t.Fatalf("unexpected form %+v", f)
	}
	if f.SuddenWeightLoss != nil {
		t.Fatalf("empty value should stay unset")
	}
}

func completeValues() map[string]string {
	return map[string]string{
		FieldAge:              "45",
		FieldGender:           "Male",
		FieldPolyuria:         "No",
		FieldPolydipsia:       "No",
		FieldSuddenWeightLoss: "No",
		FieldAlopecia:         "No",
	}
}

func TestParseValuesErrors(t *testing.T) {
	cases := map[string]string{
		FieldAge:      "forty",
		FieldGender:   "other",
		FieldAlopecia: "maybe",
	}
	for field, bad := range cases {
		values := completeValues()
		values[field] = bad
		_, err := ParseValues(func(k string) string { return values[k] })
		var fe *FieldError
		if !errors.As(err, &fe) || fe.Field != field {
			t.Fatalf("%s: expected field error, got %v", field, err)
		}
		if !errors.Is(err, ErrInvalidField) {
			t.Fatalf("%s: expected ErrInvalidField", field)
		}
	}
}

func TestParseValuesReportsMissingBeforeInvalid(t *testing.T) {
	values := map[string]string{FieldGender: "x"}
	_, err := ParseValues(func(k string) string { return values[k] })
	var ie *IncompleteError
	if !errors.As(err, &ie) {
		t.Fatalf("expected IncompleteError, got %v", err)
	}
	want := []string{FieldAge, FieldPolyuria, FieldPolydipsia, FieldSuddenWeightLoss, FieldAlopecia}
	if !reflect.DeepEqual(ie.Missing, want) {
		t.Fatalf("missing: got %v want %v", ie.Missing, want)
	}
	if err.Error() != IncompleteMessage {
		t.Fatalf("message: %q", err.Error())
	}
}

func TestEncodeOrder(t *testing.T) {
	cases := []struct {
		in   Input
		want FeatureVector
	}{
		{
			Input{Age: 54, Gender: Male, Polyuria: Yes, Polydipsia: No, SuddenWeightLoss: Yes, Alopecia: No},
			FeatureVector{54, 1, 1, 0, 1, 0},
		},
		{
			Input{Age: 31, Gender: Female, Polyuria: No, Polydipsia: Yes, SuddenWeightLoss: No, Alopecia: Yes},
			FeatureVector{31, 0, 0, 1, 0, 1},
		},
	}
	for _, tc := range cases {
		if got := Encode(tc.in); got != tc.want {
			t.Fatalf("Encode(%+v)=%v want %v", tc.in, got, tc.want)
		}
	}
	if FeatureNames[0] != FieldAge || FeatureNames[5] != FieldAlopecia {
		t.Fatalf("feature order changed: %v", FeatureNames)
	}
}

func TestInputFormRoundTrip(t *testing.T) {
	in := Input{Age: 80, Gender: Female, Polyuria: Yes, Polydipsia: Yes, SuddenWeightLoss: No, Alopecia: No}
	got, err := in.Form().Validate()
	if err != nil || got != in {
		t.Fatalf("round trip: %+v %v", got, err)
	}
}
