package los

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/floats"
)

// Times selects the time(s) a forward model is evaluated at. A scalar
// selection and a one-element span are different selections: profiles are
// matched to scalar times by nearest neighbor and to spans by interpolation.
type Times struct {
	ts []float64
	scalar bool
}

// At selects a single time.
func At(t float64) Times { return Times{ []float64{t}, true } }

// Span selects a sequence of times.
func Span(ts ...float64) Times {
	return Times{ append([]float64(nil), ts...), false }
}

// Values returns the selected times. The slice must not be modified.
func (t Times) Values() []float64 { return t.ts }

// Len returns the number of selected times.
func (t Times) Len() int { return len(t.ts) }

// IsScalar returns true for selections made with At.
func (t Times) IsScalar() bool { return t.scalar }

// Min returns the earliest selected time.
func (t Times) Min() float64 { return floats.Min(t.ts) }

// Max returns the latest selected time.
func (t Times) Max() float64 { return floats.Max(t.ts) }

// Equal returns true if both selections have the same kind and are
// element-wise equal.
func (t Times) Equal(other Times) bool {
	return t.scalar == other.scalar && floats.Equal(t.ts, other.ts)
}

func (t Times) String() string {
	if t.scalar { return fmt.Sprintf("%g", t.ts[0]) }
	strs := make([]string, len(t.ts))
	for i := range t.ts { strs[i] = fmt.Sprintf("%g", t.ts[i]) }
	return "[" + strings.Join(strs, " ") + "]"
}

func (t Times) check() error {
	if len(t.ts) == 0 {
		return fmt.Errorf("No times requested.")
	}
	if floats.HasNaN(t.ts) {
		return fmt.Errorf("Requested times %s contain NaN.", t)
	}
	return nil
}
