package plans

import (
	"context"
	"errors"
	"fmt"

	"github.com/2beens/gymplanner/internal/telemetry/tracing"
	"github.com/2beens/gymplanner/pkg"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

// Repo stores whole plan documents; weeks live in a JSONB column.
type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) Create(ctx context.Context, plan *Plan) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.plans.create")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("plan-id", plan.ID))

	_, err = r.db.Exec(ctx, `
		INSERT INTO training_plan (id, user_id, name, frequency, weight_recommendation, weeks, version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`,
		plan.ID,
		plan.UserID,
		plan.Name,
		plan.Frequency,
		plan.WeightRecommendation,
		plan.Weeks,
		plan.Version,
		plan.CreatedAt,
		plan.UpdatedAt,
	)
	if pkg.IsUniqueViolationError(err) {
		return fmt.Errorf("%w: plan [%s] already exists", ErrInvalidPlan, plan.ID)
	}
	return err
}

func (r *Repo) Get(ctx context.Context, userID, planID string) (_ *Plan, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.plans.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("plan-id", planID))

	if _, err := uuid.Parse(planID); err != nil {
		return nil, fmt.Errorf("%w: [%s]", ErrPlanNotFound, planID)
	}

	plan := &Plan{}
	err = r.db.QueryRow(ctx, `
		SELECT id, user_id, name, frequency, weight_recommendation, weeks, version, created_at, updated_at
		FROM training_plan
		WHERE id = $1 AND user_id = $2
	`, planID, userID).Scan(
		&plan.ID,
		&plan.UserID,
		&plan.Name,
		&plan.Frequency,
		&plan.WeightRecommendation,
		&plan.Weeks,
		&plan.Version,
		&plan.CreatedAt,
		&plan.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: [%s]", ErrPlanNotFound, planID)
		}
		return nil, err
	}
	return plan, nil
}

// Save writes the plan if its version still matches the stored one and bumps the
// version. A mismatch returns ErrStaleVersion.
func (r *Repo) Save(ctx context.Context, plan *Plan) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.plans.save")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("plan-id", plan.ID))
	span.SetAttributes(attribute.Int("version", plan.Version))

	err = r.db.QueryRow(ctx, `
		UPDATE training_plan
		SET name = $1, weight_recommendation = $2, weeks = $3, version = version + 1, updated_at = now()
		WHERE id = $4 AND user_id = $5 AND version = $6
		RETURNING version, updated_at
	`,
		plan.Name,
		plan.WeightRecommendation,
		plan.Weeks,
		plan.ID,
		plan.UserID,
		plan.Version,
	).Scan(&plan.Version, &plan.UpdatedAt)
	if err == nil {
		return nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return err
	}

	var exists bool
	if err := r.db.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM training_plan WHERE id = $1 AND user_id = $2)
	`, plan.ID, plan.UserID).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("%w: [%s]", ErrPlanNotFound, plan.ID)
	}
	return fmt.Errorf("%w: [%s] version %d", ErrStaleVersion, plan.ID, plan.Version)
}
