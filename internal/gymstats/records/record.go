package records

import (
	"errors"
	"strings"
	"time"
)

var ErrRecordNotFound = errors.New("best performance record not found")

// Record is one best performance snapshot.
type Record struct {
	EstimatedMax float64   `json:"estimatedMax"`
	Weight       string    `json:"weight"`
	Reps         int       `json:"reps"`
	RPE          string    `json:"rpe"`
	AchievedAt   time.Time `json:"achievedAt"`
}

// BestPerformance is the current record of a user for one exercise, plus the records
// it replaced, oldest first.
type BestPerformance struct {
	UserID       string    `json:"userId"`
	ExerciseName string    `json:"exerciseName"`
	Current      Record    `json:"current"`
	History      []Record  `json:"history"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Candidate is a just-logged exercise to check against the stored record.
type Candidate struct {
	ExerciseName string
	EstimatedMax float64
	Weight       string
	Reps         int
	RPE          string
}

// NormalizeExerciseName gives the key records are stored under.
func NormalizeExerciseName(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}
