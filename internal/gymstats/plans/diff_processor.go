package plans

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/2beens/gymplanner/internal/gymstats/performance"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// values of category that mean "no exercise in this slot"
var categoryPlaceholders = map[string]bool{
	"":       true,
	"-":      true,
	"none":   true,
	"select": true,
}

func IsCategoryPlaceholder(value string) bool {
	return categoryPlaceholders[strings.ToLower(strings.TrimSpace(value))]
}

// AppliedField is a diff entry that changed the day, with the id of the exercise it landed on.
type AppliedField struct {
	Key        FieldKey
	ExerciseID string
}

type ApplyReport struct {
	Applied []AppliedField
	// Created holds the ordinals of exercises created by the diff.
	Created []int
	// Deleted holds the pre-deletion ordinals of removed exercises, highest first.
	Deleted []int
	// Skipped maps raw field keys to the reason they were not applied.
	Skipped map[string]error
}

func (r *ApplyReport) skip(rawKey string, err error) {
	if r.Skipped == nil {
		r.Skipped = make(map[string]error)
	}
	r.Skipped[rawKey] = err
}

// AppliedTo returns the ids of exercises that received one of the given attributes.
func (r ApplyReport) AppliedTo(attrs ...Attribute) []string {
	var ids []string
	seen := make(map[string]bool)
	for _, af := range r.Applied {
		for _, a := range attrs {
			if af.Key.Attribute == a && !seen[af.ExerciseID] {
				seen[af.ExerciseID] = true
				ids = append(ids, af.ExerciseID)
			}
		}
	}
	return ids
}

// AppliedAttributes lists the distinct attributes that changed the day, sorted.
func (r ApplyReport) AppliedAttributes() []string {
	seen := make(map[Attribute]bool)
	var attrs []string
	for _, af := range r.Applied {
		if !seen[af.Key.Attribute] {
			seen[af.Key.Attribute] = true
			attrs = append(attrs, string(af.Key.Attribute))
		}
	}
	sort.Strings(attrs)
	return attrs
}

// Changed reports whether the diff modified the day at all.
func (r ApplyReport) Changed() bool {
	return len(r.Applied) > 0 || len(r.Deleted) > 0
}

// DiffProcessor applies positional field-key diffs to a training day.
type DiffProcessor struct {
	newID func() string
}

func NewDiffProcessor() *DiffProcessor {
	return &DiffProcessor{
		newID: uuid.NewString,
	}
}

type diffEntry struct {
	raw   string
	key   FieldKey
	value string
}

// Apply mutates day according to diff.
// Keys are handled in ascending ordinal order, category first within an ordinal.
// Deletions are deferred to the end and executed from the highest ordinal down,
// so every key of one diff refers to the ordinals the day had before the diff.
// Invalid keys, unknown attributes, unparsable values and attributes aimed at free
// ordinals are logged and skipped.
func (p *DiffProcessor) Apply(day *Day, diff Diff) ApplyReport {
	report := ApplyReport{}

	entries := make([]diffEntry, 0, len(diff))
	for rawKey, value := range diff {
		key, err := ParseFieldKey(rawKey)
		if err != nil {
			log.Warnf("diff processor [day %s]: skip key [%s]: %s", day.ID, rawKey, err)
			report.skip(rawKey, err)
			continue
		}
		entries = append(entries, diffEntry{raw: rawKey, key: key, value: value})
	}
	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i].key, entries[j].key
		if a.Ordinal != b.Ordinal {
			return a.Ordinal < b.Ordinal
		}
		if (a.Attribute == AttrCategory) != (b.Attribute == AttrCategory) {
			return a.Attribute == AttrCategory
		}
		return a.Attribute < b.Attribute
	})

	// requested ordinal -> slot the exercise was actually created at
	redirects := make(map[int]int)
	pendingDeletes := make(map[int]bool)

	for _, e := range entries {
		ordinal := e.key.Ordinal
		if slot, ok := redirects[ordinal]; ok {
			ordinal = slot
		}

		if e.key.Attribute == AttrCategory {
			p.applyCategory(day, e, ordinal, redirects, pendingDeletes, &report)
			continue
		}

		if ordinal > len(day.Exercises) {
			err := fmt.Errorf("%w: ordinal %d, day has %d exercises", ErrExerciseNotFound, ordinal, len(day.Exercises))
			log.Debugf("diff processor [day %s]: skip key [%s]: %s", day.ID, e.raw, err)
			report.skip(e.raw, err)
			continue
		}

		exercise := &day.Exercises[ordinal-1]
		if err := setAttribute(exercise, e.key.Attribute, e.value); err != nil {
			log.Warnf("diff processor [day %s]: skip key [%s] value [%s]: %s", day.ID, e.raw, e.value, err)
			report.skip(e.raw, err)
			continue
		}
		report.Applied = append(report.Applied, AppliedField{Key: e.key, ExerciseID: exercise.ID})
	}

	deletes := make([]int, 0, len(pendingDeletes))
	for ordinal := range pendingDeletes {
		deletes = append(deletes, ordinal)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(deletes)))
	for _, ordinal := range deletes {
		idx := ordinal - 1
		day.Exercises = append(day.Exercises[:idx], day.Exercises[idx+1:]...)
		report.Deleted = append(report.Deleted, ordinal)
	}

	return report
}

func (p *DiffProcessor) applyCategory(
	day *Day,
	e diffEntry,
	ordinal int,
	redirects map[int]int,
	pendingDeletes map[int]bool,
	report *ApplyReport,
) {
	if IsCategoryPlaceholder(e.value) {
		if ordinal > len(day.Exercises) {
			log.Tracef("diff processor [day %s]: clear category on free ordinal %d, nothing to do", day.ID, ordinal)
			return
		}
		pendingDeletes[ordinal] = true
		return
	}

	category := strings.TrimSpace(e.value)
	if ordinal <= len(day.Exercises) {
		exercise := &day.Exercises[ordinal-1]
		exercise.Category = category
		report.Applied = append(report.Applied, AppliedField{Key: e.key, ExerciseID: exercise.ID})
		return
	}

	exercise := Exercise{
		ID:       p.newID(),
		Category: category,
	}
	day.Exercises = append(day.Exercises, exercise)
	slot := len(day.Exercises)
	if slot != e.key.Ordinal {
		log.Debugf("diff processor [day %s]: exercise requested at %d created at %d", day.ID, e.key.Ordinal, slot)
		redirects[e.key.Ordinal] = slot
	}
	report.Created = append(report.Created, slot)
	report.Applied = append(report.Applied, AppliedField{Key: e.key, ExerciseID: exercise.ID})
}

func setAttribute(exercise *Exercise, attr Attribute, value string) error {
	switch attr {
	case AttrExerciseName:
		exercise.ExerciseName = strings.TrimSpace(value)
	case AttrSets:
		n, err := parseCount(value)
		if err != nil {
			return err
		}
		exercise.Sets = n
	case AttrReps:
		n, err := parseCount(value)
		if err != nil {
			return err
		}
		exercise.Reps = n
	case AttrWeight:
		exercise.Weight = strings.TrimSpace(value)
	case AttrTargetRPE:
		exercise.TargetRPE = strings.TrimSpace(value)
	case AttrActualRPE:
		exercise.ActualRPE = strings.TrimSpace(value)
	case AttrEstimatedMax:
		if strings.TrimSpace(value) == "" {
			exercise.EstimatedMax = 0
			return nil
		}
		x, err := performance.ParseNumber(value)
		if err != nil {
			return err
		}
		if x < 0 {
			return &performance.UnparsableValueError{Raw: value}
		}
		exercise.EstimatedMax = x
	case AttrNotes:
		exercise.Notes = value
	default:
		return fmt.Errorf("%w: [%s]", ErrUnknownAttribute, attr)
	}
	return nil
}

// parseCount parses sets/reps. An empty value clears the field.
func parseCount(value string) (int, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(trimmed)
	if err != nil || n < 0 {
		return 0, &performance.UnparsableValueError{Raw: value}
	}
	return n, nil
}
