package plans

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/2beens/gymplanner/internal/gymstats/records"
	"github.com/2beens/gymplanner/internal/gymstats/session"
	"github.com/2beens/gymplanner/internal/telemetry/metrics"
	"github.com/2beens/gymplanner/internal/telemetry/tracing"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

//go:generate mockgen -source=$GOFILE -destination=service_mocks_test.go -package=plans_test

type plansRepo interface {
	Create(ctx context.Context, plan *Plan) error
	Get(ctx context.Context, userID, planID string) (*Plan, error)
	Save(ctx context.Context, plan *Plan) error
}

type recordEvaluator interface {
	Evaluate(ctx context.Context, userID string, c records.Candidate) (bool, error)
}

type activityTracker interface {
	HandleActivitySignal(ctx context.Context, signal session.Signal, changedAttributes []string) (session.State, bool)
}

type eventRecorder interface {
	RecordPersonalRecord(ctx context.Context, userID, exerciseName string, estimatedMax float64, at time.Time) (int, error)
}

type EditRequest struct {
	UserID    string
	PlanID    string
	WeekIndex int
	DayIndex  int
	Diff      Diff
	// Version, when positive, must match the stored plan version.
	Version     int
	Fingerprint string
}

type EditResult struct {
	Plan        *Plan        `json:"plan"`
	Day         *Day         `json:"day"`
	Suggestions []Suggestion `json:"suggestions"`
	// NewRecords lists exercise names that got a new personal record.
	NewRecords []string          `json:"newRecords"`
	Skipped    map[string]string `json:"skipped,omitempty"`
}

type ProgressionRequest struct {
	UserID       string
	PlanID       string
	RPEIncrement float64
	WithDeload   bool
	Version      int
}

type Service struct {
	repo       plansRepo
	days       *DayStore
	editor     *Editor
	progressor *Progressor
	evaluator  recordEvaluator
	tracker    activityTracker
	events     eventRecorder
	metrics    *metrics.Manager
	now        func() time.Time
}

func NewService(
	repo plansRepo,
	evaluator recordEvaluator,
	tracker activityTracker,
	events eventRecorder,
	metricsManager *metrics.Manager,
) *Service {
	if metricsManager == nil {
		metricsManager = metrics.NewTestManager()
	}
	return &Service{
		repo:       repo,
		days:       NewDayStore(repo),
		editor:     NewEditor(),
		progressor: NewProgressor(),
		evaluator:  evaluator,
		tracker:    tracker,
		events:     events,
		metrics:    metricsManager,
		now:        time.Now,
	}
}

func (s *Service) Create(ctx context.Context, params NewPlanParams) (_ *Plan, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.plans.create")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	plan, err := NewPlan(uuid.NewString(), params, s.now().UTC())
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, plan); err != nil {
		return nil, fmt.Errorf("create plan: %w", err)
	}
	return plan, nil
}

func (s *Service) Get(ctx context.Context, userID, planID string) (*Plan, error) {
	return s.repo.Get(ctx, userID, planID)
}

func (s *Service) GetDay(ctx context.Context, userID, dayID string) (*Day, error) {
	return s.days.LoadDay(ctx, userID, dayID)
}

// Edit applies a diff to one training day, propagates its structural part to later
// weeks, tracks the live session and checks changed estimated maxes for records.
func (s *Service) Edit(ctx context.Context, req EditRequest) (_ *EditResult, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.plans.edit")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("plan-id", req.PlanID))
	span.SetAttributes(attribute.Int("week", req.WeekIndex))
	span.SetAttributes(attribute.Int("day", req.DayIndex))
	span.SetAttributes(attribute.Int("diff-size", len(req.Diff)))

	plan, err := s.repo.Get(ctx, req.UserID, req.PlanID)
	if err != nil {
		return nil, err
	}
	if req.Version > 0 && req.Version != plan.Version {
		s.metrics.CounterEditConflicts.Inc()
		return nil, fmt.Errorf("%w: have %d, stored %d", ErrStaleVersion, req.Version, plan.Version)
	}

	report, err := s.editor.Apply(plan, req.WeekIndex, req.DayIndex, req.Diff)
	if err != nil {
		return nil, err
	}
	day, err := plan.Day(req.WeekIndex, req.DayIndex)
	if err != nil {
		return nil, err
	}

	if !report.Changed() {
		log.Debugf("plans service: edit on [%s] changed nothing", day.ID)
		return s.editResult(ctx, req, plan, day, report), nil
	}

	if err := s.repo.Save(ctx, plan); err != nil {
		if errors.Is(err, ErrStaleVersion) {
			s.metrics.CounterEditConflicts.Inc()
		}
		return nil, err
	}
	s.metrics.CounterEditsApplied.Inc()

	if req.Fingerprint != "" && s.tracker != nil {
		s.trackActivity(ctx, req, plan, day, report.Day.AppliedAttributes())
	}

	return s.editResult(ctx, req, plan, day, report), nil
}

// trackActivity signals the session registry once the edit is stored. When the
// signal changes the recording fields of the day, they are saved in a second write.
func (s *Service) trackActivity(ctx context.Context, req EditRequest, plan *Plan, day *Day, applied []string) {
	signal := session.Signal{
		UserID:      req.UserID,
		DayID:       day.ID,
		Fingerprint: req.Fingerprint,
	}
	state, tracked := s.tracker.HandleActivitySignal(ctx, signal, applied)
	if !tracked {
		return
	}
	if day.Recording && day.StartTime != nil && day.StartTime.Equal(state.StartTime) {
		return
	}

	start := state.StartTime
	day.Recording = state.Recording
	day.StartTime = &start
	if state.Started {
		day.EndTime = nil
		day.DurationInMinutes = 0
	}
	if err := s.repo.Save(ctx, plan); err != nil {
		// the next activity signal stamps the day again
		log.Errorf("plans service: stamp recording on [%s]: %s", day.ID, err)
	}
}

func (s *Service) editResult(ctx context.Context, req EditRequest, plan *Plan, day *Day, report EditReport) *EditResult {
	result := &EditResult{
		Plan:        plan,
		Day:         day,
		Suggestions: Suggest(plan, req.WeekIndex, req.DayIndex),
		NewRecords:  s.evaluateRecords(ctx, req.UserID, day, report.EstimatedMaxChanged),
	}
	if len(report.Day.Skipped) > 0 {
		result.Skipped = make(map[string]string, len(report.Day.Skipped))
		for key, reason := range report.Day.Skipped {
			result.Skipped[key] = reason.Error()
		}
	}
	return result
}

// evaluateRecords never fails the edit, the plan is already saved.
func (s *Service) evaluateRecords(ctx context.Context, userID string, day *Day, exerciseIDs []string) []string {
	newRecords := []string{}
	if s.evaluator == nil {
		return newRecords
	}

	for _, id := range exerciseIDs {
		ex, _ := day.ExerciseByID(id)
		if ex == nil || ex.EstimatedMax <= 0 {
			continue
		}
		name := ex.ExerciseName
		if name == "" {
			name = ex.Category
		}

		isRecord, err := s.evaluator.Evaluate(ctx, userID, records.Candidate{
			ExerciseName: name,
			EstimatedMax: ex.EstimatedMax,
			Weight:       ex.Weight,
			Reps:         ex.Reps,
			RPE:          ex.ActualRPE,
		})
		if err != nil {
			log.Errorf("plans service: evaluate record [%s] for [%s]: %s", name, userID, err)
			continue
		}
		if !isRecord {
			continue
		}

		s.metrics.CounterPersonalRecords.Inc()
		newRecords = append(newRecords, name)
		if s.events != nil {
			if _, err := s.events.RecordPersonalRecord(ctx, userID, name, ex.EstimatedMax, s.now()); err != nil {
				log.Errorf("plans service: record personal record event [%s]: %s", name, err)
			}
		}
	}

	return newRecords
}

func (s *Service) ApplyProgression(ctx context.Context, req ProgressionRequest) (_ *Plan, _ ProgressionReport, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.plans.progression")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("plan-id", req.PlanID))
	span.SetAttributes(attribute.Float64("rpe-increment", req.RPEIncrement))
	span.SetAttributes(attribute.Bool("deload", req.WithDeload))

	plan, err := s.repo.Get(ctx, req.UserID, req.PlanID)
	if err != nil {
		return nil, ProgressionReport{}, err
	}
	if req.Version > 0 && req.Version != plan.Version {
		s.metrics.CounterEditConflicts.Inc()
		return nil, ProgressionReport{}, fmt.Errorf("%w: have %d, stored %d", ErrStaleVersion, req.Version, plan.Version)
	}

	report := s.progressor.Apply(plan, req.RPEIncrement, req.WithDeload)
	if err := s.repo.Save(ctx, plan); err != nil {
		if errors.Is(err, ErrStaleVersion) {
			s.metrics.CounterEditConflicts.Inc()
		}
		return nil, ProgressionReport{}, err
	}

	s.metrics.CounterProgressionRuns.Inc()
	log.Debugf("plans service: progression on [%s]: adjusted %d, deloaded %d, flagged %d",
		plan.ID, report.Adjusted, report.Deloaded, len(report.Flagged))
	return plan, report, nil
}

// PreviewProgression runs the progression on a copy of the stored plan. Nothing is saved.
func (s *Service) PreviewProgression(ctx context.Context, userID, planID string, rpeIncrement float64, withDeload bool) (*Plan, ProgressionReport, error) {
	plan, err := s.repo.Get(ctx, userID, planID)
	if err != nil {
		return nil, ProgressionReport{}, err
	}
	preview := plan.Clone()
	report := s.progressor.Apply(preview, rpeIncrement, withDeload)
	return preview, report, nil
}
