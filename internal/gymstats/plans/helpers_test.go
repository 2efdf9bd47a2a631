package plans

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("ex-%d", n)
	}
}

func newTestProcessor() *DiffProcessor {
	return &DiffProcessor{newID: sequentialIDs()}
}

func newTestEditor() *Editor {
	processor := newTestProcessor()
	return &Editor{
		processor:  processor,
		propagator: NewPropagator(processor),
	}
}

// dayWith builds a day with one exercise per name, ids "id-<name>".
func dayWith(names ...string) *Day {
	day := &Day{ID: "plan.w0.d0", Exercises: []Exercise{}}
	for _, name := range names {
		day.Exercises = append(day.Exercises, Exercise{
			ID:           "id-" + strings.ToLower(name),
			Category:     "accessory",
			ExerciseName: name,
		})
	}
	return day
}

func names(day *Day) []string {
	result := make([]string, 0, len(day.Exercises))
	for _, ex := range day.Exercises {
		result = append(result, ex.ExerciseName)
	}
	return result
}

func newTestPlan(t *testing.T, weeks, frequency int, wr WeightRecommendation) *Plan {
	t.Helper()
	plan, err := NewPlan("plan-1", NewPlanParams{
		UserID:               "user-1",
		Name:                 "block",
		BlockLength:          weeks,
		Frequency:            frequency,
		WeightRecommendation: wr,
	}, time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	return plan
}
