package plans

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrPlanNotFound     = errors.New("plan not found")
	ErrDayNotFound      = errors.New("training day not found")
	ErrExerciseNotFound = errors.New("exercise not found")
	ErrStaleVersion     = errors.New("plan was modified concurrently")
	ErrInvalidPlan      = errors.New("invalid plan")
)

// WeightRecommendation controls the weight hint shown for a new set.
type WeightRecommendation string

const (
	WeightRecommendationLastWeek WeightRecommendation = "LAST_WEEK"
	WeightRecommendationOff      WeightRecommendation = "OFF"
)

func (wr WeightRecommendation) IsValid() bool {
	return wr == WeightRecommendationLastWeek || wr == WeightRecommendationOff
}

type Plan struct {
	ID                   string               `json:"id"`
	UserID               string               `json:"userId"`
	Name                 string               `json:"name"`
	Weeks                []Week               `json:"weeks"`
	WeightRecommendation WeightRecommendation `json:"weightRecommendation"`
	Frequency            int                  `json:"frequency"`
	Version              int                  `json:"version"`
	CreatedAt            time.Time            `json:"createdAt"`
	UpdatedAt            time.Time            `json:"updatedAt"`
}

type Week struct {
	Days []Day `json:"days"`
}

// Day is one training slot of a week. Exercise ordinals are 1-based and contiguous.
type Day struct {
	ID                string     `json:"id"`
	Exercises         []Exercise `json:"exercises"`
	Recording         bool       `json:"recording"`
	StartTime         *time.Time `json:"startTime,omitempty"`
	EndTime           *time.Time `json:"endTime,omitempty"`
	DurationInMinutes int        `json:"durationInMinutes"`
}

type Exercise struct {
	ID           string  `json:"id"`
	Category     string  `json:"category"`
	ExerciseName string  `json:"exerciseName"`
	Sets         int     `json:"sets"`
	Reps         int     `json:"reps"`
	Weight       string  `json:"weight"`
	TargetRPE    string  `json:"targetRPE"`
	ActualRPE    string  `json:"actualRPE"`
	EstimatedMax float64 `json:"estimatedMax"`
	Notes        string  `json:"notes"`
}

type NewPlanParams struct {
	UserID               string
	Name                 string
	BlockLength          int
	Frequency            int
	WeightRecommendation WeightRecommendation
}

// NewPlan builds an empty plan of BlockLength weeks with Frequency days each.
func NewPlan(id string, params NewPlanParams, now time.Time) (*Plan, error) {
	if params.UserID == "" {
		return nil, fmt.Errorf("%w: user id empty", ErrInvalidPlan)
	}
	if params.BlockLength < 1 || params.Frequency < 1 {
		return nil, fmt.Errorf("%w: block length and frequency must be positive", ErrInvalidPlan)
	}
	if params.WeightRecommendation == "" {
		params.WeightRecommendation = WeightRecommendationOff
	}
	if !params.WeightRecommendation.IsValid() {
		return nil, fmt.Errorf("%w: weight recommendation [%s]", ErrInvalidPlan, params.WeightRecommendation)
	}

	plan := &Plan{
		ID:                   id,
		UserID:               params.UserID,
		Name:                 params.Name,
		WeightRecommendation: params.WeightRecommendation,
		Frequency:            params.Frequency,
		Weeks:                make([]Week, params.BlockLength),
		Version:              1,
		CreatedAt:            now,
		UpdatedAt:            now,
	}
	for w := range plan.Weeks {
		plan.Weeks[w].Days = make([]Day, params.Frequency)
		for d := range plan.Weeks[w].Days {
			plan.Weeks[w].Days[d] = Day{
				ID:        NewDayID(id, w, d),
				Exercises: []Exercise{},
			}
		}
	}
	return plan, nil
}

// Day returns the training day at the given 0-based week and day index.
func (p *Plan) Day(weekIndex, dayIndex int) (*Day, error) {
	if weekIndex < 0 || weekIndex >= len(p.Weeks) {
		return nil, fmt.Errorf("%w: week %d", ErrDayNotFound, weekIndex)
	}
	days := p.Weeks[weekIndex].Days
	if dayIndex < 0 || dayIndex >= len(days) {
		return nil, fmt.Errorf("%w: week %d day %d", ErrDayNotFound, weekIndex, dayIndex)
	}
	return &days[dayIndex], nil
}

// Clone returns a deep copy of the plan.
func (p *Plan) Clone() *Plan {
	cp := *p
	cp.Weeks = make([]Week, len(p.Weeks))
	for w, week := range p.Weeks {
		cp.Weeks[w].Days = make([]Day, len(week.Days))
		for d, day := range week.Days {
			cp.Weeks[w].Days[d] = day.clone()
		}
	}
	return &cp
}

func (d Day) clone() Day {
	cp := d
	cp.Exercises = make([]Exercise, len(d.Exercises))
	copy(cp.Exercises, d.Exercises)
	if d.StartTime != nil {
		t := *d.StartTime
		cp.StartTime = &t
	}
	if d.EndTime != nil {
		t := *d.EndTime
		cp.EndTime = &t
	}
	return cp
}

// ExerciseByID returns the exercise with the given id and its 1-based ordinal.
func (d *Day) ExerciseByID(id string) (*Exercise, int) {
	for i := range d.Exercises {
		if d.Exercises[i].ID == id {
			return &d.Exercises[i], i + 1
		}
	}
	return nil, 0
}

const dayIDSeparator = "."

// NewDayID builds the stable id of a training day: <planID>.w<week>.d<day>.
func NewDayID(planID string, weekIndex, dayIndex int) string {
	return fmt.Sprintf("%s%sw%d%sd%d", planID, dayIDSeparator, weekIndex, dayIDSeparator, dayIndex)
}

// ParseDayID is the inverse of NewDayID.
func ParseDayID(dayID string) (planID string, weekIndex, dayIndex int, err error) {
	parts := strings.Split(dayID, dayIDSeparator)
	if len(parts) != 3 {
		return "", 0, 0, fmt.Errorf("%w: malformed day id [%s]", ErrDayNotFound, dayID)
	}
	if _, err := fmt.Sscanf(parts[1], "w%d", &weekIndex); err != nil {
		return "", 0, 0, fmt.Errorf("%w: malformed week in day id [%s]", ErrDayNotFound, dayID)
	}
	if _, err := fmt.Sscanf(parts[2], "d%d", &dayIndex); err != nil {
		return "", 0, 0, fmt.Errorf("%w: malformed day in day id [%s]", ErrDayNotFound, dayID)
	}
	return parts[0], weekIndex, dayIndex, nil
}
