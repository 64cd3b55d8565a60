package patient

// FeatureVector is the model input, in FeatureNames order.
type FeatureVector [6]float64

// FeatureNames is the column order the classifier was trained on.
var FeatureNames = [6]string{
	FieldAge,
	FieldGender,
	FieldPolyuria,
	FieldPolydipsia,
	FieldSuddenWeightLoss,
	FieldAlopecia,
}

func Encode(in Input) FeatureVector {
	return FeatureVector{
		float64(in.Age),
		boolFeature(in.Gender == Male),
		boolFeature(in.Polyuria == Yes),
		boolFeature(in.Polydipsia == Yes),
		boolFeature(in.SuddenWeightLoss == Yes),
		boolFeature(in.Alopecia == Yes),
	}
}

func boolFeature(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

// Slice returns the vector as a slice, for wire encodings.
func (v FeatureVector) Slice() []float64 {
	out := make([]float64, len(v))
	copy(out, v[:])
	return out
}
