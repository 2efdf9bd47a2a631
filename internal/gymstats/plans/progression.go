package plans

import (
	"math"
	"strings"

	"github.com/2beens/gymplanner/internal/gymstats/performance"

	log "github.com/sirupsen/logrus"
)

const (
	mainLiftRPECap  = 9.0
	accessoryRPECap = 10.0

	deloadMainLiftRPE  = "6"
	deloadAccessoryRPE = "7"
)

var mainLiftCategories = map[string]bool{
	"squat":    true,
	"bench":    true,
	"deadlift": true,
}

func IsMainLift(category string) bool {
	return mainLiftCategories[strings.ToLower(strings.TrimSpace(category))]
}

func rpeCap(category string) float64 {
	if IsMainLift(category) {
		return mainLiftRPECap
	}
	return accessoryRPECap
}

// FlaggedExercise is an exercise the progressor could not adjust and needs a manual look.
type FlaggedExercise struct {
	WeekIndex    int    `json:"weekIndex"`
	DayIndex     int    `json:"dayIndex"`
	Ordinal      int    `json:"ordinal"`
	ExerciseName string `json:"exerciseName"`
	Value        string `json:"value"`
}

type ProgressionReport struct {
	Adjusted int               `json:"adjusted"`
	Deloaded int               `json:"deloaded"`
	Flagged  []FlaggedExercise `json:"flagged"`
}

// Progressor ramps target RPE week over week across a plan.
type Progressor struct{}

func NewProgressor() *Progressor {
	return &Progressor{}
}

// Apply walks weeks from index 1, matching every exercise by name against the same
// ordinal of the previous week, and sets its target RPE to the previous value plus
// rpeIncrement, capped per category. Values compound since the previous week has
// already been adjusted. With withDeload the last week is a deload week instead.
// Week 0 is never touched.
func (p *Progressor) Apply(plan *Plan, rpeIncrement float64, withDeload bool) ProgressionReport {
	report := ProgressionReport{}
	lastWeek := len(plan.Weeks) - 1

	for w := 1; w <= lastWeek; w++ {
		deload := withDeload && w == lastWeek
		prevWeek := plan.Weeks[w-1]
		for d := range plan.Weeks[w].Days {
			if d >= len(prevWeek.Days) {
				continue
			}
			prevDay := prevWeek.Days[d]
			day := &plan.Weeks[w].Days[d]
			for i := range day.Exercises {
				if i >= len(prevDay.Exercises) {
					break
				}
				exercise := &day.Exercises[i]
				prev := prevDay.Exercises[i]
				if !sameExercise(exercise, &prev) {
					continue
				}

				if deload {
					exercise.Sets = max(prev.Sets-1, 0)
					if IsMainLift(exercise.Category) {
						exercise.TargetRPE = deloadMainLiftRPE
					} else {
						exercise.TargetRPE = deloadAccessoryRPE
					}
					report.Deloaded++
					continue
				}

				if strings.TrimSpace(prev.TargetRPE) == "" {
					continue
				}
				next, ok := incrementRPE(prev.TargetRPE, rpeIncrement, rpeCap(exercise.Category))
				if !ok {
					log.Debugf("progression [plan %s]: cannot parse target rpe [%s] at week %d day %d ordinal %d", plan.ID, prev.TargetRPE, w, d, i+1)
					report.Flagged = append(report.Flagged, FlaggedExercise{
						WeekIndex:    w,
						DayIndex:     d,
						Ordinal:      i + 1,
						ExerciseName: exercise.ExerciseName,
						Value:        prev.TargetRPE,
					})
					continue
				}
				exercise.TargetRPE = next
				report.Adjusted++
			}
		}
	}

	return report
}

func sameExercise(a, b *Exercise) bool {
	name := strings.TrimSpace(a.ExerciseName)
	return name != "" && strings.EqualFold(name, strings.TrimSpace(b.ExerciseName))
}

// incrementRPE handles "7.5" as well as per-set "7;7.5;8" target values.
func incrementRPE(raw string, increment, ceiling float64) (string, bool) {
	v, err := performance.ParseValue(raw)
	if err != nil {
		return "", false
	}
	values := v.Values()
	for i, x := range values {
		values[i] = math.Min(x+increment, ceiling)
	}
	if v.IsPerSet() {
		return performance.PerSet(values...).String(), true
	}
	return performance.Single(values[0]).String(), true
}
