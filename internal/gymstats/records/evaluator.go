package records

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/2beens/gymplanner/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

//go:generate mockgen -source=$GOFILE -destination=evaluator_mocks_test.go -package=records_test

type recordsRepo interface {
	Get(ctx context.Context, userID, exerciseName string) (*BestPerformance, error)
	Save(ctx context.Context, bp *BestPerformance) error
}

// Evaluator decides whether a logged exercise beats the stored best performance.
type Evaluator struct {
	repo recordsRepo
	now  func() time.Time
}

func NewEvaluator(repo recordsRepo) *Evaluator {
	return &Evaluator{
		repo: repo,
		now:  time.Now,
	}
}

// Evaluate reports whether c is a new personal record for userID. With no stored
// record any positive estimated max is a record. Otherwise it must be strictly
// greater than the stored one; the replaced record is appended to the history and
// the result is persisted. When c is not a record nothing is written.
func (e *Evaluator) Evaluate(ctx context.Context, userID string, c Candidate) (_ bool, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "records.evaluate")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("exercise", c.ExerciseName))
	span.SetAttributes(attribute.Float64("estimated-max", c.EstimatedMax))

	name := NormalizeExerciseName(c.ExerciseName)
	if name == "" || c.EstimatedMax <= 0 {
		return false, nil
	}

	newRecord := Record{
		EstimatedMax: c.EstimatedMax,
		Weight:       c.Weight,
		Reps:         c.Reps,
		RPE:          c.RPE,
		AchievedAt:   e.now(),
	}

	stored, err := e.repo.Get(ctx, userID, name)
	if err != nil && !errors.Is(err, ErrRecordNotFound) {
		return false, fmt.Errorf("get best performance [%s]: %w", name, err)
	}

	if stored == nil {
		bp := &BestPerformance{
			UserID:       userID,
			ExerciseName: name,
			Current:      newRecord,
			History:      []Record{},
			UpdatedAt:    newRecord.AchievedAt,
		}
		if err := e.repo.Save(ctx, bp); err != nil {
			return false, fmt.Errorf("save first best performance [%s]: %w", name, err)
		}
		log.Debugf("records [%s]: first record for [%s]: %.1f", userID, name, c.EstimatedMax)
		return true, nil
	}

	if c.EstimatedMax <= stored.Current.EstimatedMax {
		return false, nil
	}

	stored.History = append(stored.History, stored.Current)
	stored.Current = newRecord
	stored.UpdatedAt = newRecord.AchievedAt
	if err := e.repo.Save(ctx, stored); err != nil {
		return false, fmt.Errorf("save best performance [%s]: %w", name, err)
	}

	log.Debugf("records [%s]: new record for [%s]: %.1f", userID, name, c.EstimatedMax)
	return true, nil
}
