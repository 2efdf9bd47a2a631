package session

import (
	"context"
	"fmt"
	"math"
	"time"
)

var activityAttributes = map[string]bool{
	"weight":    true,
	"reps":      true,
	"actualRPE": true,
}

// IsActivity reports whether a diff touching the given attributes means the user
// is performing sets right now.
func IsActivity(changedAttributes []string) bool {
	for _, attr := range changedAttributes {
		if activityAttributes[attr] {
			return true
		}
	}
	return false
}

// Signal identifies the device that just edited a training day.
type Signal struct {
	UserID      string
	DayID       string
	Fingerprint string
}

func (s Signal) key() string {
	return s.DayID + "|" + s.Fingerprint
}

// State is what the caller stamps on the day it is about to save.
type State struct {
	Recording bool
	StartTime time.Time
	// Started is true only for the signal that created the tracker.
	Started bool
}

// Summary is the measured session written back to the training day.
type Summary struct {
	StartTime         time.Time
	EndTime           time.Time
	DurationInMinutes int
}

// Duration is the session length in minutes: the time between start and end minus
// the inactivity that ended it, rounded to the nearest 5 and never negative.
func Duration(start, end time.Time, inactivity time.Duration) int {
	active := end.Sub(start) - inactivity
	if active <= 0 {
		return 0
	}
	minutes := active.Minutes()
	return int(math.Round(minutes/5) * 5)
}

// Deadline is the durable state of one running session.
type Deadline struct {
	UserID      string
	DayID       string
	Fingerprint string
	Start       time.Time
	Deadline    time.Time
}

// ID is unique per session: a new session on the same key gets a new start time.
func (d Deadline) ID() string {
	return fmt.Sprintf("%s|%s|%d", d.DayID, d.Fingerprint, d.Start.UnixMilli())
}

func (d Deadline) key() string {
	return d.DayID + "|" + d.Fingerprint
}

type DayStore interface {
	RecordSession(ctx context.Context, userID, dayID string, summary Summary) error
}

type EventRecorder interface {
	RecordTrainingStarted(ctx context.Context, userID, dayID string, start time.Time) (int, error)
	RecordTrainingFinished(ctx context.Context, userID, dayID string, start, end time.Time, durationMinutes int) (int, error)
}

type DeadlineStore interface {
	Save(ctx context.Context, d Deadline) error
	// Expired lists sessions whose deadline is not after now.
	Expired(ctx context.Context, now time.Time) ([]Deadline, error)
	// Claim removes the deadline from the schedule; only one caller gets true.
	Claim(ctx context.Context, id string) (bool, error)
	Delete(ctx context.Context, id string) error
}
