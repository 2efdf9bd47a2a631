package plans

import (
	"context"
	"errors"
	"fmt"

	"github.com/2beens/gymplanner/internal/gymstats/session"

	log "github.com/sirupsen/logrus"
)

const recordSessionMaxAttempts = 3

// DayStore lets the session registry write a finished session onto its training day.
type DayStore struct {
	repo plansRepo
}

func NewDayStore(repo plansRepo) *DayStore {
	return &DayStore{
		repo: repo,
	}
}

func (s *DayStore) LoadDay(ctx context.Context, userID, dayID string) (*Day, error) {
	planID, weekIndex, dayIndex, err := ParseDayID(dayID)
	if err != nil {
		return nil, err
	}
	plan, err := s.repo.Get(ctx, userID, planID)
	if err != nil {
		return nil, err
	}
	return plan.Day(weekIndex, dayIndex)
}

// RecordSession reloads the plan holding the day, copies the summary onto the day
// and saves it. Concurrent edits of the plan are retried.
func (s *DayStore) RecordSession(ctx context.Context, userID, dayID string, summary session.Summary) error {
	planID, weekIndex, dayIndex, err := ParseDayID(dayID)
	if err != nil {
		return err
	}

	for attempt := 1; ; attempt++ {
		plan, err := s.repo.Get(ctx, userID, planID)
		if err != nil {
			return fmt.Errorf("load plan: %w", err)
		}
		day, err := plan.Day(weekIndex, dayIndex)
		if err != nil {
			return err
		}

		start, end := summary.StartTime, summary.EndTime
		day.Recording = false
		day.StartTime = &start
		day.EndTime = &end
		day.DurationInMinutes = summary.DurationInMinutes

		err = s.repo.Save(ctx, plan)
		if err == nil {
			return nil
		}
		if !errors.Is(err, ErrStaleVersion) || attempt >= recordSessionMaxAttempts {
			return fmt.Errorf("save day [%s]: %w", dayID, err)
		}
		log.Debugf("day store: retry recording session on [%s], attempt %d", dayID, attempt)
	}
}
