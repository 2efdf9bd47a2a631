package plans

import (
	"strconv"

	"github.com/2beens/gymplanner/internal/gymstats/performance"
)

// EditReport describes what one edit did to a plan.
type EditReport struct {
	Day        ApplyReport
	Propagated map[int]ApplyReport
	// EstimatedMaxChanged holds ids of exercises in the edited day whose estimated max was set.
	EstimatedMaxChanged []string
}

// Changed reports whether the edit touched the edited day or any later week.
func (r EditReport) Changed() bool {
	if r.Day.Changed() {
		return true
	}
	for _, propagated := range r.Propagated {
		if propagated.Changed() {
			return true
		}
	}
	return false
}

// Editor applies an edit to a day and forward-propagates its structural part.
type Editor struct {
	processor  *DiffProcessor
	propagator *Propagator
}

func NewEditor() *Editor {
	processor := NewDiffProcessor()
	return &Editor{
		processor:  processor,
		propagator: NewPropagator(processor),
	}
}

var defaultEditor = NewEditor()

// ApplyEdit applies diff to the day at weekIndex/dayIndex of plan and propagates it
// to later weeks.
func ApplyEdit(plan *Plan, weekIndex, dayIndex int, diff Diff) (EditReport, error) {
	return defaultEditor.Apply(plan, weekIndex, dayIndex, diff)
}

func (e *Editor) Apply(plan *Plan, weekIndex, dayIndex int, diff Diff) (EditReport, error) {
	day, err := plan.Day(weekIndex, dayIndex)
	if err != nil {
		return EditReport{}, err
	}

	report := EditReport{
		Day: e.processor.Apply(day, diff),
	}
	report.Propagated = e.propagator.Propagate(plan, weekIndex, dayIndex, diff)
	report.EstimatedMaxChanged = deriveEstimatedMax(day, report.Day)

	return report, nil
}

// deriveEstimatedMax recomputes the estimated max of exercises whose weight, reps,
// sets or actual RPE changed, unless the diff set the estimated max explicitly.
// It returns the ids of exercises whose estimated max is now set from this edit.
func deriveEstimatedMax(day *Day, applied ApplyReport) []string {
	explicit := make(map[string]bool)
	var changed []string
	for _, id := range applied.AppliedTo(AttrEstimatedMax) {
		explicit[id] = true
		if ex, _ := day.ExerciseByID(id); ex != nil && ex.EstimatedMax > 0 {
			changed = append(changed, id)
		}
	}

	for _, id := range applied.AppliedTo(AttrWeight, AttrReps, AttrSets, AttrActualRPE) {
		if explicit[id] {
			continue
		}
		ex, _ := day.ExerciseByID(id)
		if ex == nil {
			continue
		}
		est, ok := performance.EstimateFromText(ex.Weight, strconv.Itoa(ex.Reps), ex.ActualRPE, ex.Sets)
		if !ok || est == ex.EstimatedMax {
			continue
		}
		ex.EstimatedMax = est
		changed = append(changed, id)
	}

	return changed
}
