package performance

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var ErrUnparsableValue = errors.New("unparsable value")

// UnparsableValueError carries the raw text that could not be turned into a number
// (or into the expected number of per-set numbers).
type UnparsableValueError struct {
	Raw      string
	Expected int
	Got      int
}

func (e *UnparsableValueError) Error() string {
	if e.Expected > 0 && e.Got > 0 {
		return fmt.Sprintf("%s: [%s] has %d values, expected %d", ErrUnparsableValue, e.Raw, e.Got, e.Expected)
	}
	return fmt.Sprintf("%s: [%s]", ErrUnparsableValue, e.Raw)
}

func (e *UnparsableValueError) Unwrap() error {
	return ErrUnparsableValue
}

// Kind selects the rounding step of a normalized composite value.
type Kind int

const (
	KindWeight Kind = iota
	KindRPE
)

const (
	WeightStep = 2.5
	RPEStep    = 0.5
)

func (k Kind) Step() float64 {
	if k == KindRPE {
		return RPEStep
	}
	return WeightStep
}

const perSetSeparator = ";"

// Value is either a single number applying to every set, or one number per set.
type Value struct {
	single float64
	perSet []float64
}

func Single(v float64) Value {
	return Value{single: v}
}

func PerSet(values ...float64) Value {
	cp := make([]float64, len(values))
	copy(cp, values)
	return Value{perSet: cp}
}

func (v Value) IsPerSet() bool {
	return v.perSet != nil
}

// Values returns the per-set numbers, or a one element slice for a single value.
func (v Value) Values() []float64 {
	if v.perSet == nil {
		return []float64{v.single}
	}
	cp := make([]float64, len(v.perSet))
	copy(cp, v.perSet)
	return cp
}

func (v Value) Average() float64 {
	if v.perSet == nil {
		return v.single
	}
	if len(v.perSet) == 0 {
		return 0
	}
	sum := 0.0
	for _, x := range v.perSet {
		sum += x
	}
	return sum / float64(len(v.perSet))
}

// Validate checks the per-set count against the number of sets.
// A single value is valid for any set count.
func (v Value) Validate(sets int) error {
	if v.perSet == nil {
		return nil
	}
	if len(v.perSet) != sets {
		return &UnparsableValueError{
			Raw:      v.String(),
			Expected: sets,
			Got:      len(v.perSet),
		}
	}
	return nil
}

func (v Value) String() string {
	if v.perSet == nil {
		return FormatNumber(v.single)
	}
	parts := make([]string, len(v.perSet))
	for i, x := range v.perSet {
		parts[i] = FormatNumber(x)
	}
	return strings.Join(parts, perSetSeparator)
}

// ParseValue accepts "100", "100,5", "100;102.5;105". Decimal commas are accepted.
func ParseValue(raw string) (Value, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Value{}, &UnparsableValueError{Raw: raw}
	}

	if !strings.Contains(trimmed, perSetSeparator) {
		x, err := ParseNumber(trimmed)
		if err != nil {
			return Value{}, err
		}
		return Single(x), nil
	}

	parts := strings.Split(trimmed, perSetSeparator)
	values := make([]float64, 0, len(parts))
	for _, p := range parts {
		x, err := ParseNumber(p)
		if err != nil {
			return Value{}, &UnparsableValueError{Raw: raw}
		}
		values = append(values, x)
	}
	return PerSet(values...), nil
}

// ParseNumber parses a single decimal number, allowing a comma as decimal separator.
func ParseNumber(raw string) (float64, error) {
	s := strings.ReplaceAll(strings.TrimSpace(raw), ",", ".")
	if s == "" {
		return 0, &UnparsableValueError{Raw: raw}
	}
	x, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, &UnparsableValueError{Raw: raw}
	}
	return x, nil
}

// FormatNumber renders a number without trailing zeros, rounded to 2 decimals.
func FormatNumber(x float64) string {
	return strconv.FormatFloat(math.Round(x*100)/100, 'f', -1, 64)
}
