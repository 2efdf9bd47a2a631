package performance

import (
	"math"
	"strconv"
	"strings"
)

const (
	maxRPE = 10.0

	// estimated max: reps in reserve are counted as performed reps
	repsDivisor = 30.0

	// backoff percentage polynomial over total reps (performed + in reserve)
	backoffA = 0.484472
	backoffB = -33.891
	backoffC = 1023.67

	// guards ceil() against values like 47.99999999 that should be 48
	ceilEpsilon = 1e-9
)

// RoundToStep rounds to the nearest multiple of step.
func RoundToStep(v, step float64) float64 {
	if step <= 0 {
		return v
	}
	return math.Round(v/step) * step
}

func ceilToStep(v, step float64) float64 {
	return math.Ceil(v/step-ceilEpsilon) * step
}

// NormalizeComposite collapses a weight or RPE field into one number.
// A single value is returned as is (rounded). A per-set list is averaged and rounded
// only when it has exactly expectedCount entries; otherwise ok is false and the
// caller keeps the raw text.
func NormalizeComposite(raw string, expectedCount int, kind Kind) (float64, bool) {
	v, err := ParseValue(raw)
	if err != nil {
		return 0, false
	}
	if v.IsPerSet() && v.Validate(expectedCount) != nil {
		return 0, false
	}
	return RoundToStep(v.Average(), kind.Step()), true
}

// EstimatedMax projects a one-rep max from a set of reps at weight and RPE.
func EstimatedMax(weight float64, reps int, rpe float64) float64 {
	actualReps := float64(reps) + (maxRPE - rpe)
	raw := weight * (1 + actualReps/repsDivisor)
	return ceilToStep(raw, WeightStep)
}

// EstimateFromText is EstimatedMax over raw field values.
// It reports false when any input is missing or not numeric, in which case
// nothing should be written.
func EstimateFromText(weight, reps, rpe string, sets int) (float64, bool) {
	if strings.TrimSpace(weight) == "" || strings.TrimSpace(reps) == "" || strings.TrimSpace(rpe) == "" {
		return 0, false
	}
	w, ok := NormalizeComposite(weight, sets, KindWeight)
	if !ok {
		return 0, false
	}
	r, ok := NormalizeComposite(rpe, sets, KindRPE)
	if !ok {
		return 0, false
	}
	repsCount, err := strconv.Atoi(strings.TrimSpace(reps))
	if err != nil {
		return 0, false
	}
	if w <= 0 || repsCount <= 0 {
		return 0, false
	}
	return EstimatedMax(w, repsCount, r), true
}

// BackoffPercentage is the share of the top set max to use for a backoff set
// of plannedReps at plannedRPE.
func BackoffPercentage(plannedReps int, plannedRPE float64) float64 {
	t := float64(plannedReps) + (maxRPE - plannedRPE)
	return (backoffA*t*t + backoffB*t + backoffC) * 0.001
}

// BackoffRange recommends a weight window for the next set. It is a suggestion only.
func BackoffRange(plannedReps int, plannedRPE, topSetMax float64) (low, high float64) {
	center := ceilToStep(topSetMax*BackoffPercentage(plannedReps, plannedRPE), WeightStep)
	return center - WeightStep, center + WeightStep
}
