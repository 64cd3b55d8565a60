// Package decisionpath maps a validated input onto one of the seven leaves of the
// deployed decision tree and names the image that illustrates that leaf.
//
// The branching below mirrors the structure of the trained tree by hand; it is a
// lookup, not a tree evaluator. If the model is retrained with a different shape
// this table has to be regenerated with it.
package decisionpath

import (
	"fmt"

	"github.com/yungbote/diabetes-app/internal/patient"
)

// AgeSplit is the age threshold of the tree's polyuria=Yes branch.
const AgeSplit = 69.5

// DefaultAsset is shown before a prediction and whenever no leaf matches.
const DefaultAsset = "init.png"

// Key identifies a leaf by the outcome of the three split levels, each 0 or 1.
type Key [3]uint8

func (k Key) String() string { return fmt.Sprintf("%d-%d-%d", k[0], k[1], k[2]) }

// Leaf describes one root-to-leaf path of the tree.
type Leaf struct {
	Key         Key
	Asset       string
	Description string
	Conditions  []string
}

var leaves = []Leaf{
	{Key{0, 0, 0}, "path_polyuria_no_gender_female_alopecia_no.png", "No polyuria, female, no alopecia", []string{"Polyuria = No", "Gender = Female", "Alopecia = No"}},
	{Key{0, 0, 1}, "path_polyuria_no_gender_female_alopecia_yes.png", "No polyuria, female, alopecia", []string{"Polyuria = No", "Gender = Female", "Alopecia = Yes"}},
	{Key{0, 1, 0}, "path_polyuria_no_gender_male_polydipsia_no.png", "No polyuria, male, no polydipsia", []string{"Polyuria = No", "Gender = Male", "Polydipsia = No"}},
	{Key{0, 1, 1}, "path_polyuria_no_gender_male_polydipsia_yes.png", "No polyuria, male, polydipsia", []string{"Polyuria = No", "Gender = Male", "Polydipsia = Yes"}},
	{Key{1, 0, 0}, "path_polyuria_yes_age_less_than_69_5.png", "Polyuria, age 69.5 or less", []string{"Polyuria = Yes", "Age <= 69.5"}},
	{Key{1, 1, 0}, "path_polyuria_yes_age_greater_than_69_5_sudden_weight_loss_no.png", "Polyuria, age over 69.5, no sudden weight loss", []string{"Polyuria = Yes", "Age > 69.5", "Sudden weight loss = No"}},
	{Key{1, 1, 1}, "path_polyuria_yes_age_greater_than_69_5_sudden_weight_loss_yes.png", "Polyuria, age over 69.5, sudden weight loss", []string{"Polyuria = Yes", "Age > 69.5", "Sudden weight loss = Yes"}},
}

var assetByKey = func() map[Key]string {
	m := make(map[Key]string, len(leaves))
	for _, l := range leaves {
		m[l.Key] = l.Asset
	}
	return m
}()

// Resolve walks the hard-coded branches. ok is false only if a value falls outside
// every branch, which Validate already rules out.
func Resolve(in patient.Input) (Key, bool) {
	switch in.Polyuria {
	case patient.No:
		switch in.Gender {
		case patient.Female:
			return Key{0, 0, bit(in.Alopecia == patient.Yes)}, true
		case patient.Male:
			return Key{0, 1, bit(in.Polydipsia == patient.Yes)}, true
		}
	case patient.Yes:
		if float64(in.Age) <= AgeSplit {
			return Key{1, 0, 0}, true
		}
		return Key{1, 1, bit(in.SuddenWeightLoss == patient.Yes)}, true
	}
	return Key{}, false
}

// AssetFor returns the leaf image for key, or DefaultAsset.
func AssetFor(key Key, ok bool) string {
	if !ok {
		return DefaultAsset
	}
	if a, found := assetByKey[key]; found {
		return a
	}
	return DefaultAsset
}

// Leaves returns the seven leaves in key order.
func Leaves() []Leaf {
	out := make([]Leaf, len(leaves))
	copy(out, leaves)
	return out
}

// LeafFor returns the leaf with the given key.
func LeafFor(key Key) (Leaf, bool) {
	for _, l := range leaves {
		if l.Key == key {
			return l, true
		}
	}
	return Leaf{}, false
}

// Assets lists every servable asset name: the seven leaves plus DefaultAsset.
func Assets() []string {
	out := make([]string, 0, len(leaves)+1)
	out = append(out, DefaultAsset)
	for _, l := range leaves {
		out = append(out, l.Asset)
	}
	return out
}

// KnownAsset reports whether name is one of Assets.
func KnownAsset(name string) bool {
	if name == DefaultAsset {
		return true
	}
	for _, l := range leaves {
		if l.Asset == name {
			return true
		}
	}
	return false
}

// LeafForAsset maps an asset name back to its leaf.
func LeafForAsset(name string) (Leaf, bool) {
	for _, l := range leaves {
		if l.Asset == name {
			return l, true
		}
	}
	return Leaf{}, false
}

func bit(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}
