package records

import (
	"context"
	"errors"
	"fmt"

	"github.com/2beens/gymplanner/internal/telemetry/tracing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) Get(ctx context.Context, userID, exerciseName string) (_ *BestPerformance, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.records.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	bp := &BestPerformance{}
	err = r.db.QueryRow(ctx, `
		SELECT user_id, exercise_name, record, history, updated_at
		FROM best_performance
		WHERE user_id = $1 AND exercise_name = $2
	`, userID, exerciseName).
		Scan(&bp.UserID, &bp.ExerciseName, &bp.Current, &bp.History, &bp.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return bp, nil
}

func (r *Repo) List(ctx context.Context, userID string) (_ []BestPerformance, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.records.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(ctx, `
		SELECT user_id, exercise_name, record, history, updated_at
		FROM best_performance
		WHERE user_id = $1
		ORDER BY exercise_name
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bps := make([]BestPerformance, 0)
	for rows.Next() {
		var bp BestPerformance
		if err := rows.Scan(&bp.UserID, &bp.ExerciseName, &bp.Current, &bp.History, &bp.UpdatedAt); err != nil {
			return nil, err
		}
		bps = append(bps, bp)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return bps, nil
}

func (r *Repo) Save(ctx context.Context, bp *BestPerformance) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.records.save")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if bp.History == nil {
		bp.History = []Record{}
	}

	tag, err := r.db.Exec(ctx, `
		INSERT INTO best_performance (user_id, exercise_name, record, history, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id, exercise_name)
		DO UPDATE SET record = EXCLUDED.record, history = EXCLUDED.history, updated_at = EXCLUDED.updated_at
	`, bp.UserID, bp.ExerciseName, bp.Current, bp.History, bp.UpdatedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("save best performance [%s]: no rows affected", bp.ExerciseName)
	}
	return nil
}
