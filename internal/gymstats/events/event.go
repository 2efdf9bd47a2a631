package events

import (
	"fmt"
	"strconv"
	"time"
)

// Event (DB level type) records something that happened to a user's training:
//   - training started (day id, first activity time)
//   - training finished (day id, start, end, duration in minutes)
//   - personal record (exercise, estimated max)
type Event struct {
	ID        int               `json:"id"`
	Type      EventType         `json:"type"`
	UserID    string            `json:"userId"`
	Timestamp time.Time         `json:"timestamp"`
	Data      map[string]string `json:"data"`
}

func NewTrainingStartedEvent(userID, dayID string, start time.Time) Event {
	return Event{
		Type:      EventTypeTrainingStarted,
		UserID:    userID,
		Timestamp: start,
		Data: map[string]string{
			"dayId": dayID,
		},
	}
}

func NewTrainingFinishedEvent(userID, dayID string, start, end time.Time, durationMinutes int) Event {
	return Event{
		Type:      EventTypeTrainingFinished,
		UserID:    userID,
		Timestamp: end,
		Data: map[string]string{
			"dayId":    dayID,
			"start":    start.UTC().Format(time.RFC3339),
			"duration": fmt.Sprintf("%d", durationMinutes),
		},
	}
}

func NewPersonalRecordEvent(userID, exerciseName string, estimatedMax float64, at time.Time) Event {
	return Event{
		Type:      EventTypePersonalRecord,
		UserID:    userID,
		Timestamp: at,
		Data: map[string]string{
			"exercise":     exerciseName,
			"estimatedMax": strconv.FormatFloat(estimatedMax, 'f', -1, 64),
		},
	}
}

// EventType can be one of:
//   - training_started
//   - training_finished
//   - personal_record
type EventType string

const (
	EventTypeTrainingStarted  EventType = "training_started"
	EventTypeTrainingFinished EventType = "training_finished"
	EventTypePersonalRecord   EventType = "personal_record"
)

func (et EventType) String() string {
	return string(et)
}

func (et EventType) IsValid() bool {
	switch et {
	case EventTypeTrainingStarted,
		EventTypeTrainingFinished,
		EventTypePersonalRecord:
		return true
	default:
		return false
	}
}
