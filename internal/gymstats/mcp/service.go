package mcp

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/2beens/gymplanner/internal/gymstats/performance"
	"github.com/2beens/gymplanner/internal/gymstats/plans"
)

var ErrNoUser = errors.New("no user bound to the mcp session")

// progressionPreviewer runs the progression on a copy of a stored plan.
type progressionPreviewer interface {
	PreviewProgression(ctx context.Context, userID, planID string, rpeIncrement float64, withDeload bool) (*plans.Plan, plans.ProgressionReport, error)
}

// plannerService is what the tool handlers need. Used by Handler for testability.
type plannerService interface {
	GetSchema(ctx context.Context) (string, error)
	EstimateMax(weight, reps, rpe string, sets int) (float64, error)
	BackoffRange(reps int, rpe, topSetMax float64) (BackoffRange, error)
	PreviewProgression(ctx context.Context, planID string, rpeIncrement float64, withDeload bool) (*ProgressionPreview, error)
}

type BackoffRange struct {
	Percentage float64 `json:"percentage"`
	Low        float64 `json:"low"`
	High       float64 `json:"high"`
}

// RampStep is the target RPE of one exercise row in one week of the preview.
type RampStep struct {
	WeekIndex    int    `json:"weekIndex"`
	DayIndex     int    `json:"dayIndex"`
	Ordinal      int    `json:"ordinal"`
	ExerciseName string `json:"exerciseName"`
	Sets         int    `json:"sets"`
	TargetRPE    string `json:"targetRpe"`
}

type ProgressionPreview struct {
	PlanID string                  `json:"planId"`
	Ramp   []RampStep              `json:"ramp"`
	Report plans.ProgressionReport `json:"report"`
}

// PlannerService holds dependencies and implements the planner tool logic.
// A service is bound to one user; plan lookups are scoped to it.
type PlannerService struct {
	schema    SchemaRepo
	previewer progressionPreviewer
	userID    string
}

func NewPlannerService(schemaRepo SchemaRepo, previewer progressionPreviewer, userID string) *PlannerService {
	return &PlannerService{
		schema:    schemaRepo,
		previewer: previewer,
		userID:    userID,
	}
}

// GetSchema returns the DB schema (table names, columns, types) of the planner tables.
func (s *PlannerService) GetSchema(ctx context.Context) (string, error) {
	if s.schema == nil {
		return "", errors.New("schema not available")
	}
	cols, err := s.schema.GetPlannerColumns(ctx)
	if err != nil {
		return "", err
	}
	return formatPlannerSchema(cols), nil
}

func formatPlannerSchema(cols []SchemaColumn) string {
	if len(cols) == 0 {
		return "# Planner DB Schema\n\nNo planner tables found in the database.\n"
	}

	byTable := make(map[string][]SchemaColumn)
	for _, c := range cols {
		byTable[c.TableName] = append(byTable[c.TableName], c)
	}

	tableOrder := make([]string, 0, len(byTable))
	for t := range byTable {
		tableOrder = append(tableOrder, t)
	}
	sort.Strings(tableOrder)

	var b strings.Builder
	b.WriteString("# Planner DB Schema\n\n")
	b.WriteString("Tables: " + strings.Join(plannerTables, ", ") + " (schema: public).\n\n")

	for _, tableName := range tableOrder {
		b.WriteString("## ")
		b.WriteString(tableName)
		b.WriteString("\n\n| Column | Type | Nullable | Default |\n|--------|------|----------|--------|\n")
		for _, c := range byTable[tableName] {
			def := "-"
			if c.ColumnDef != nil && *c.ColumnDef != "" {
				def = *c.ColumnDef
			}
			b.WriteString(fmt.Sprintf("| %s | %s | %s | %s |\n", c.ColumnName, c.DataType, c.IsNullable, def))
		}
		b.WriteString("\n")
	}

	return strings.TrimSuffix(b.String(), "\n\n") + "\n"
}

// EstimateMax accepts the same raw values a training day holds, per-set lists included.
func (s *PlannerService) EstimateMax(weight, reps, rpe string, sets int) (float64, error) {
	if sets < 1 {
		sets = 1
	}
	est, ok := performance.EstimateFromText(weight, reps, rpe, sets)
	if !ok {
		return 0, fmt.Errorf("cannot estimate max from weight [%s], reps [%s], rpe [%s]", weight, reps, rpe)
	}
	return est, nil
}

func (s *PlannerService) BackoffRange(reps int, rpe, topSetMax float64) (BackoffRange, error) {
	if reps < 1 || topSetMax <= 0 {
		return BackoffRange{}, errors.New("reps and top set max must be positive")
	}
	low, high := performance.BackoffRange(reps, rpe, topSetMax)
	return BackoffRange{
		Percentage: performance.BackoffPercentage(reps, rpe),
		Low:        low,
		High:       high,
	}, nil
}

// PreviewProgression runs the progression on a copy of the plan and flattens the result
// into the per-row target RPE ramp. Nothing is saved.
func (s *PlannerService) PreviewProgression(ctx context.Context, planID string, rpeIncrement float64, withDeload bool) (*ProgressionPreview, error) {
	if s.userID == "" {
		return nil, ErrNoUser
	}
	if rpeIncrement < 0 {
		return nil, errors.New("rpe increment must not be negative")
	}

	plan, report, err := s.previewer.PreviewProgression(ctx, s.userID, planID, rpeIncrement, withDeload)
	if err != nil {
		return nil, err
	}

	preview := &ProgressionPreview{
		PlanID: plan.ID,
		Ramp:   []RampStep{},
		Report: report,
	}
	for w, week := range plan.Weeks {
		for d, day := range week.Days {
			for i, ex := range day.Exercises {
				preview.Ramp = append(preview.Ramp, RampStep{
					WeekIndex:    w,
					DayIndex:     d,
					Ordinal:      i + 1,
					ExerciseName: ex.ExerciseName,
					Sets:         ex.Sets,
					TargetRPE:    ex.TargetRPE,
				})
			}
		}
	}
	return preview, nil
}
