package models

import (
	"strconv"
	"strings"
)

// NumericSequence is an ordered, read-only list of decoded table values.
// The zero value is an empty sequence.
type NumericSequence struct {
	values []float64
}

// NewNumericSequence copies values into a new sequence.
func NewNumericSequence(values []float64) NumericSequence {
	if len(values) == 0 {
		return NumericSequence{}
	}
	owned := make([]float64, len(values))
	copy(owned, values)
	return NumericSequence{values: owned}
}

// Len returns the number of values.
func (s NumericSequence) Len() int {
	return len(s.values)
}

// IsEmpty reports whether the sequence holds no values.
func (s NumericSequence) IsEmpty() bool {
	return len(s.values) == 0
}

// At returns the value at position i. It panics if i is out of range.
func (s NumericSequence) At(i int) float64 {
	return s.values[i]
}

// Values returns a copy of the underlying values.
func (s NumericSequence) Values() []float64 {
	out := make([]float64, len(s.values))
	copy(out, s.values)
	return out
}

// FormatValue renders v the way it is typed into the target application:
// the shortest representation that round-trips, always with a decimal point.
func FormatValue(v float64) string {
	text := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(text, ".") {
		text += ".0"
	}
	return text
}
