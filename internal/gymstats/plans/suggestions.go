package plans

import (
	"github.com/2beens/gymplanner/internal/gymstats/performance"
)

// Suggestion is advisory data for one exercise row. Nothing here is written back to the plan.
type Suggestion struct {
	Ordinal        int     `json:"ordinal"`
	LastWeekWeight string  `json:"lastWeekWeight,omitempty"`
	BackoffLow     float64 `json:"backoffLow,omitempty"`
	BackoffHigh    float64 `json:"backoffHigh,omitempty"`
}

// Suggest builds weight hints for the day at weekIndex/dayIndex.
// With the LAST_WEEK policy the weight of the same exercise in the previous week is
// offered. A row that repeats the previous row's exercise gets a backoff range derived
// from the previous row's estimated max.
func Suggest(plan *Plan, weekIndex, dayIndex int) []Suggestion {
	day, err := plan.Day(weekIndex, dayIndex)
	if err != nil {
		return nil
	}

	var prevDay *Day
	if weekIndex > 0 && plan.WeightRecommendation == WeightRecommendationLastWeek {
		prevDay, _ = plan.Day(weekIndex-1, dayIndex)
	}

	var suggestions []Suggestion
	for i := range day.Exercises {
		ex := &day.Exercises[i]
		s := Suggestion{Ordinal: i + 1}
		found := false

		if prevDay != nil && i < len(prevDay.Exercises) {
			prev := &prevDay.Exercises[i]
			if sameExercise(ex, prev) && prev.Weight != "" {
				s.LastWeekWeight = prev.Weight
				found = true
			}
		}

		if i > 0 {
			top := &day.Exercises[i-1]
			if sameExercise(ex, top) && top.EstimatedMax > 0 && ex.Reps > 0 {
				if rpe, err := performance.ParseNumber(ex.TargetRPE); err == nil {
					s.BackoffLow, s.BackoffHigh = performance.BackoffRange(ex.Reps, rpe, top.EstimatedMax)
					found = true
				}
			}
		}

		if found {
			suggestions = append(suggestions, s)
		}
	}
	return suggestions
}
