/*package interpolate contains gridded interpolators.

Every interpolator returns NaN when asked for a value outside of its grid (or
at a NaN coordinate) instead of extrapolating. Callers that integrate over
interpolated values are expected to skip NaNs.
*/
package interpolate

type Interpolator interface {
	Eval(x float64) float64
	EvalAll(xs []float64, out ...[]float64) []float64
}

var (
	_ Interpolator = &Linear{}
)

type BiInterpolator interface {
	Eval(x, y float64) float64
	EvalAll(xs, ys []float64, out ...[]float64) []float64

	EvalAllX(x float64, ys []float64, out ...[]float64) []float64
	EvalAllY(xs []float64, y float64, out ...[]float64) []float64
}

var (
	_ BiInterpolator = &BiLinear{}
)
