//nolint:revive // types is a standard Go package name pattern
package types

import (
	"time"
)

// Feature names for the five scoring features. Each weight in a WeightVector
// is traceable to exactly one of these.
const (
	FeatureSkillOverlap      = "skill_overlap"
	FeatureSeniorityFit      = "seniority_fit"
	FeatureLocationFit       = "location_fit"
	FeatureCompensationFit   = "compensation_fit"
	FeatureHistoricalSuccess = "historical_success"
)

// FeatureNames lists the scoring features in canonical order.
var FeatureNames = []string{
	FeatureSkillOverlap,
	FeatureSeniorityFit,
	FeatureLocationFit,
	FeatureCompensationFit,
	FeatureHistoricalSuccess,
}

// FeatureVector holds one value per scoring feature, in canonical order.
type FeatureVector [5]float64

// WeightVector is a versioned set of scoring weights. Versions are immutable;
// retraining appends a new version and old versions are retained so past
// MatchResults stay reproducible.
type WeightVector struct {
	Version           int       `json:"version"`
	SkillOverlap      float64   `json:"skill_overlap"`
	SeniorityFit      float64   `json:"seniority_fit"`
	LocationFit       float64   `json:"location_fit"`
	CompensationFit   float64   `json:"compensation_fit"`
	HistoricalSuccess float64   `json:"historical_success"`
	TrainedOn         int       `json:"trained_on"`
	CreatedAt         time.Time `json:"created_at"`
}

// DefaultWeightVector returns the cold-start equal weighting, version 1.
func DefaultWeightVector() *WeightVector {
	return &WeightVector{
		Version:           1,
		SkillOverlap:      1.0,
		SeniorityFit:      1.0,
		LocationFit:       1.0,
		CompensationFit:   1.0,
		HistoricalSuccess: 1.0,
	}
}

// AsVector returns the weights in canonical feature order.
func (w *WeightVector) AsVector() FeatureVector {
	return FeatureVector{
		w.SkillOverlap,
		w.SeniorityFit,
		w.LocationFit,
		w.CompensationFit,
		w.HistoricalSuccess,
	}
}

// Sum returns the total of all weights.
func (w *WeightVector) Sum() float64 {
	v := w.AsVector()
	total := 0.0
	for _, x := range v {
		total += x
	}
	return total
}

// WithVector returns a copy of w with weights replaced from v. The copy keeps
// version and metadata zeroed so the caller assigns them explicitly.
func (w *WeightVector) WithVector(v FeatureVector) *WeightVector {
	return &WeightVector{
		SkillOverlap:      v[0],
		SeniorityFit:      v[1],
		LocationFit:       v[2],
		CompensationFit:   v[3],
		HistoricalSuccess: v[4],
	}
}
