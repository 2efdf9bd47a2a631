package plans

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

var (
	ErrUnknownAttribute = errors.New("unknown attribute")
	ErrInvalidFieldKey  = errors.New("invalid field key")
)

type Attribute string

const (
	AttrCategory     Attribute = "category"
	AttrExerciseName Attribute = "exerciseName"
	AttrSets         Attribute = "sets"
	AttrReps         Attribute = "reps"
	AttrWeight       Attribute = "weight"
	AttrTargetRPE    Attribute = "targetRPE"
	AttrActualRPE    Attribute = "actualRPE"
	AttrEstimatedMax Attribute = "estimatedMax"
	AttrNotes        Attribute = "notes"
)

var knownAttributes = map[Attribute]bool{
	AttrCategory:     true,
	AttrExerciseName: true,
	AttrSets:         true,
	AttrReps:         true,
	AttrWeight:       true,
	AttrTargetRPE:    true,
	AttrActualRPE:    true,
	AttrEstimatedMax: true,
	AttrNotes:        true,
}

// realized attributes record what was actually lifted; they never propagate to later weeks
var realizedAttributes = map[Attribute]bool{
	AttrWeight:       true,
	AttrActualRPE:    true,
	AttrEstimatedMax: true,
}

func (a Attribute) IsKnown() bool {
	return knownAttributes[a]
}

func (a Attribute) IsRealized() bool {
	return realizedAttributes[a]
}

const fieldKeySeparator = "."

// FieldKey addresses one attribute of the exercise at a 1-based ordinal within a day.
// Its wire form is "<ordinal>.<attribute>", e.g. "3.targetRPE".
type FieldKey struct {
	Ordinal   int
	Attribute Attribute
}

func (k FieldKey) String() string {
	return strconv.Itoa(k.Ordinal) + fieldKeySeparator + string(k.Attribute)
}

// ParseFieldKey is the inverse of FieldKey.String. A well formed key with an
// unrecognized attribute is returned together with ErrUnknownAttribute.
func ParseFieldKey(raw string) (FieldKey, error) {
	ordinalStr, attr, found := strings.Cut(raw, fieldKeySeparator)
	if !found || attr == "" {
		return FieldKey{}, fmt.Errorf("%w: [%s]", ErrInvalidFieldKey, raw)
	}
	ordinal, err := strconv.Atoi(ordinalStr)
	if err != nil || ordinal < 1 || strconv.Itoa(ordinal) != ordinalStr {
		return FieldKey{}, fmt.Errorf("%w: bad ordinal in [%s]", ErrInvalidFieldKey, raw)
	}
	key := FieldKey{Ordinal: ordinal, Attribute: Attribute(attr)}
	if !key.Attribute.IsKnown() {
		return key, fmt.Errorf("%w: [%s]", ErrUnknownAttribute, attr)
	}
	return key, nil
}

// Diff maps field keys (in wire form) to their new raw values.
type Diff map[string]string

// Attributes returns the distinct attributes the diff touches, sorted.
func (d Diff) Attributes() []string {
	seen := make(map[string]bool)
	for rawKey := range d {
		_, attr, found := strings.Cut(rawKey, fieldKeySeparator)
		if found && attr != "" {
			seen[attr] = true
		}
	}
	attrs := make([]string, 0, len(seen))
	for a := range seen {
		attrs = append(attrs, a)
	}
	sort.Strings(attrs)
	return attrs
}

// Touches reports whether any key of the diff targets one of the given attributes.
func (d Diff) Touches(attrs ...Attribute) bool {
	for _, a := range d.Attributes() {
		for _, want := range attrs {
			if Attribute(a) == want {
				return true
			}
		}
	}
	return false
}

// Structural returns a copy of the diff without the realized attributes.
func (d Diff) Structural() Diff {
	structural := make(Diff, len(d))
	for rawKey, value := range d {
		_, attr, _ := strings.Cut(rawKey, fieldKeySeparator)
		if Attribute(attr).IsRealized() {
			continue
		}
		structural[rawKey] = value
	}
	return structural
}
