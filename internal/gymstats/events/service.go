package events

import (
	"context"
	"fmt"
	"time"

	"github.com/2beens/gymplanner/internal/telemetry/tracing"
)

//go:generate mockgen -source=$GOFILE -destination=service_mocks_test.go -package=events_test

type eventsRepo interface {
	Add(ctx context.Context, event Event) (*Event, error)
	List(ctx context.Context, params ListParams) ([]*Event, error)
	Count(ctx context.Context, params EventParams) (int, error)
}

type Service struct {
	repo eventsRepo
}

func NewService(repo eventsRepo) *Service {
	return &Service{
		repo: repo,
	}
}

func (s *Service) RecordTrainingStarted(ctx context.Context, userID, dayID string, start time.Time) (_ int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.gymstats.events.add.trainingstarted")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	event, err := s.repo.Add(ctx, NewTrainingStartedEvent(userID, dayID, start))
	if err != nil {
		return 0, fmt.Errorf("add training started event: %w", err)
	}
	return event.ID, nil
}

func (s *Service) RecordTrainingFinished(
	ctx context.Context,
	userID, dayID string,
	start, end time.Time,
	durationMinutes int,
) (_ int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.gymstats.events.add.trainingfinished")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	event, err := s.repo.Add(ctx, NewTrainingFinishedEvent(userID, dayID, start, end, durationMinutes))
	if err != nil {
		return 0, fmt.Errorf("add training finished event: %w", err)
	}
	return event.ID, nil
}

func (s *Service) RecordPersonalRecord(
	ctx context.Context,
	userID, exerciseName string,
	estimatedMax float64,
	at time.Time,
) (_ int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.gymstats.events.add.personalrecord")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	event, err := s.repo.Add(ctx, NewPersonalRecordEvent(userID, exerciseName, estimatedMax, at))
	if err != nil {
		return 0, fmt.Errorf("add personal record event: %w", err)
	}
	return event.ID, nil
}

func (s *Service) List(ctx context.Context, params ListParams) (_ []*Event, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.gymstats.events.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	events, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return events, nil
}

func (s *Service) Count(ctx context.Context, params EventParams) (_ int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.gymstats.events.count")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	count, err := s.repo.Count(ctx, params)
	if err != nil {
		return 0, fmt.Errorf("count events: %w", err)
	}
	return count, nil
}
