package decisionpath

import (
	"testing"

	"github.com/yungbote/diabetes-app/internal/patient"
)

func TestResolve(t *testing.T) {
	cases := []struct {
		name  string
		in    patient.Input
		key   Key
		asset string
	}{
		{
			name:  "female without alopecia",
			in:    patient.Input{Age: 40, Gender: patient.Female, Polyuria: patient.No, Polydipsia: patient.Yes, SuddenWeightLoss: patient.Yes, Alopecia: patient.No},
			key:   Key{0, 0, 0},
			asset: "path_polyuria_no_gender_female_alopecia_no.png",
		},
		{
			name:  "female with alopecia",
			in:    patient.Input{Age: 40, Gender: patient.Female, Polyuria: patient.No, Polydipsia: patient.No, SuddenWeightLoss: patient.No, Alopecia: patient.Yes},
			key:   Key{0, 0, 1},
			asset: "path_polyuria_no_gender_female_alopecia_yes.png",
		},
		{
			name:  "male without polydipsia ignores alopecia",
			in:    patient.Input{Age: 40, Gender: patient.Male, Polyuria: patient.No, Polydipsia: patient.No, SuddenWeightLoss: patient.Yes, Alopecia: patient.Yes},
			key:   Key{0, 1, 0},
			asset: "path_polyuria_no_gender_male_polydipsia_no.png",
		},
		{
			name:  "male with polydipsia",
			in:    patient.Input{Age: 90, Gender: patient.Male, Polyuria: patient.No, Polydipsia: patient.Yes, SuddenWeightLoss: patient.No, Alopecia: patient.No},
			key:   Key{0, 1, 1},
			asset: "path_polyuria_no_gender_male_polydipsia_yes.png",
		},
		{
			name:  "polyuria at age 69 goes low branch",
			in:    patient.Input{Age: 69, Gender: patient.Male, Polyuria: patient.Yes, Polydipsia: patient.No, SuddenWeightLoss: patient.Yes, Alopecia: patient.No},
			key:   Key{1, 0, 0},
			asset: "path_polyuria_yes_age_less_than_69_5.png",
		},
		{
			name:  "polyuria at age 70 without weight loss",
			in:    patient.Input{Age: 70, Gender: patient.Female, Polyuria: patient.Yes, Polydipsia: patient.No, SuddenWeightLoss: patient.No, Alopecia: patient.No},
			key:   Key{1, 1, 0},
			asset: "path_polyuria_yes_age_greater_than_69_5_sudden_weight_loss_no.png",
		},
		{
			name:  "polyuria at age 70 with weight loss",
			in:    patient.Input{Age: 70, Gender: patient.Female, Polyuria: patient.Yes, Polydipsia: patient.No, SuddenWeightLoss: patient.Yes, Alopecia: patient.No},
			key:   Key{1, 1, 1},
			asset: "path_polyuria_yes_age_greater_than_69_5_sudden_weight_loss_yes.png",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			key, ok := Resolve(tc.in)
			if !ok || key != tc.key {
				t.Fatalf("Resolve=%v,%v want %v", key, ok, tc.key)
			}
			if got := AssetFor(key, ok); got != tc.asset {
				t.Fatalf("AssetFor=%q want %q", got, tc.asset)
			}
		})
	}
}

func TestResolveOutsideBranches(t *testing.T) {
	key, ok := Resolve(patient.Input{Polyuria: patient.Answer("Unknown")})
	if ok {
		t.Fatalf("expected no match, got %v", key)
	}
	if got := AssetFor(key, ok); got != DefaultAsset {
		t.Fatalf("AssetFor=%q", got)
	}
}

func TestAssetForUnknownKey(t *testing.T) {
	// (1,0,1) is not a leaf of the tree.
	if got := AssetFor(Key{1, 0, 1}, true); got != DefaultAsset {
		t.Fatalf("AssetFor=%q", got)
	}
}

func TestLeavesAndAssets(t *testing.T) {
	if n := len(Leaves()); n != 7 {
		t.Fatalf("expected 7 leaves, got %d", n)
	}
	assets := Assets()
	if len(assets) != 8 || assets[0] != DefaultAsset {
		t.Fatalf("unexpected assets %v", assets)
	}
	for _, a := range assets {
		if !KnownAsset(a) {
			t.Fatalf("%q should be known", a)
		}
	}
	if KnownAsset("../etc/passwd") {
		t.Fatal("unexpected known asset")
	}
	leaf, ok := LeafForAsset("path_polyuria_yes_age_less_than_69_5.png")
	if !ok || leaf.Key != (Key{1, 0, 0}) {
		t.Fatalf("LeafForAsset=%+v,%v", leaf, ok)
	}
	if _, ok := LeafFor(Key{0, 1, 1}); !ok {
		t.Fatal("LeafFor should find (0,1,1)")
	}
}

func TestKeyString(t *testing.T) {
	if got := (Key{1, 1, 0}).String(); got != "1-1-0" {
		t.Fatalf("String=%q", got)
	}
}
