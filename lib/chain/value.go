package chain

import (
	"fmt"
	"strconv"
	"strings"
)

// --------------------------------------------------------------------------
// Value Type
// --------------------------------------------------------------------------

// Value is the result of a lookup: a numeric scalar, a fixed-dimension
// numeric vector, or Absent. The zero value of the type is Absent.
//
// Absent models "no value known" and is distinct from an error: it propagates
// through a chain as data until some layer can replace it. Absent is never
// stored by any link; setting it is a silent no-op.
type Value struct {
	vec []float64
}

// Absent is the explicit "no value" result.
var Absent = Value{}

// Scalar returns a one-dimensional Value holding f.
func Scalar(f float64) Value {
	return Value{vec: []float64{f}}
}

// Vector returns a Value holding the given components. A nil or empty input
// yields Absent.
func Vector(components ...float64) Value {
	if len(components) == 0 {
		return Absent
	}
	v := make([]float64, len(components))
	copy(v, components)
	return Value{vec: v}
}

// IsAbsent reports whether the value is Absent.
func (v Value) IsAbsent() bool {
	return v.vec == nil
}

// Dim returns the number of components. Absent has dimension 0.
func (v Value) Dim() int {
	return len(v.vec)
}

// Float returns the scalar component. The boolean is false if the value is
// Absent or not one-dimensional.
func (v Value) Float() (float64, bool) {
	if len(v.vec) != 1 {
		return 0, false
	}
	return v.vec[0], true
}

// Vec returns a copy of the components, or nil for Absent.
func (v Value) Vec() []float64 {
	if v.vec == nil {
		return nil
	}
	out := make([]float64, len(v.vec))
	copy(out, v.vec)
	return out
}

// Equal reports whether two values have identical dimension and components.
// Absent equals only Absent.
func (v Value) Equal(other Value) bool {
	if len(v.vec) != len(other.vec) {
		return false
	}
	for i := range v.vec {
		if v.vec[i] != other.vec[i] {
			return false
		}
	}
	return true
}

func (v Value) String() string {
	switch len(v.vec) {
	case 0:
		return "Absent"
	case 1:
		return strconv.FormatFloat(v.vec[0], 'g', -1, 64)
	default:
		parts := make([]string, len(v.vec))
		for i, f := range v.vec {
			parts[i] = strconv.FormatFloat(f, 'g', -1, 64)
		}
		return fmt.Sprintf("[%s]", strings.Join(parts, " "))
	}
}

// --------------------------------------------------------------------------
// Helpers
// --------------------------------------------------------------------------

// AbsentBatch returns a slice of n Absent values.
func AbsentBatch(n int) []Value {
	return make([]Value, n)
}
