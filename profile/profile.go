/*package profile contains gridded physical profiles which can be projected
onto diagnostic coordinates.

A Profile is defined either in real space, on an (R, z) grid, or in flux
space, on a rho grid or a (rho, theta) grid. It may optionally carry a time
axis. Values are stored flattened with the second spatial axis varying
fastest and time varying slowest: Values[(it*len(X) + ix)*ny + iy], where ny
is len(Y) (or 1 for profiles with a single spatial axis).
*/
package profile

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/interp"

	"github.com/phil-mansfield/synthlos/math/interpolate"
)

// Coordinates identifies the coordinate system a profile is defined in.
type Coordinates int

const (
	Unknown Coordinates = iota
	RZ
	Rho
	RhoTheta
)

func (c Coordinates) String() string {
	switch c {
	case RZ:
		return "R-z"
	case Rho:
		return "rho"
	case RhoTheta:
		return "rho-theta"
	}
	return fmt.Sprintf("Coordinates(%d)", int(c))
}

// ParseCoordinates converts a config string into Coordinates. Unrecognized
// strings map to Unknown so that the error is reported at projection time.
func ParseCoordinates(s string) Coordinates {
	switch s {
	case "R-z", "Rz", "R,z":
		return RZ
	case "rho", "rho_poloidal", "rho_toroidal":
		return Rho
	case "rho-theta", "rho,theta":
		return RhoTheta
	}
	return Unknown
}

// IsFlux returns true for coordinate systems which need flux coordinates to
// be evaluated.
func (c Coordinates) IsFlux() bool { return c == Rho || c == RhoTheta }

// Profile is a gridded profile. Profiles should be treated as immutable after
// construction.
type Profile struct {
	Name string
	Coords Coordinates
	// X is R for R-z profiles and rho otherwise. Y is z for R-z profiles,
	// theta for rho-theta profiles and nil for rho profiles.
	X, Y []float64
	// Times is nil for static profiles and strictly increasing otherwise.
	Times []float64
	Values []float64
}

// New creates a profile and checks that its grids are consistent.
func New(
	name string, coords Coordinates, xs, ys, times, vals []float64,
) (*Profile, error) {
	p := &Profile{
		Name: name, Coords: coords, X: xs, Y: ys, Times: times, Values: vals,
	}
	if err := p.check(); err != nil { return nil, err }
	return p, nil
}

// NewRZ creates a real space profile.
func NewRZ(name string, R, z, times, vals []float64) (*Profile, error) {
	return New(name, RZ, R, z, times, vals)
}

// NewRho creates a flux space profile which only depends on rho.
func NewRho(name string, rho, times, vals []float64) (*Profile, error) {
	return New(name, Rho, rho, nil, times, vals)
}

// NewRhoTheta creates a flux space profile which depends on rho and the
// poloidal angle.
func NewRhoTheta(
	name string, rho, theta, times, vals []float64,
) (*Profile, error) {
	return New(name, RhoTheta, rho, theta, times, vals)
}

func (p *Profile) check() error {
	if len(p.X) < 2 {
		return fmt.Errorf(
			"Profile '%s' needs at least 2 points on its first axis, " +
				"but has %d.", p.Name, len(p.X),
		)
	}
	if (p.Coords == RZ || p.Coords == RhoTheta) && len(p.Y) < 2 {
		return fmt.Errorf(
			"Profile '%s' needs at least 2 points on its second axis, " +
				"but has %d.", p.Name, len(p.Y),
		)
	}
	if p.Coords == Rho && len(p.Y) != 0 {
		return fmt.Errorf(
			"Profile '%s' is a rho profile, but has a second axis.", p.Name,
		)
	}
	for i := 1; i < len(p.Times); i++ {
		if !(p.Times[i] > p.Times[i-1]) {
			return fmt.Errorf(
				"Times of profile '%s' are not strictly increasing.", p.Name,
			)
		}
	}
	if n := p.NodeCount() * p.TimeCount(); len(p.Values) != n {
		return fmt.Errorf(
			"Profile '%s' has %d values, but its grid has %d points.",
			p.Name, len(p.Values), n,
		)
	}
	return nil
}

// HasTime returns true if the profile has a time axis.
func (p *Profile) HasTime() bool { return len(p.Times) > 0 }

// TimeCount returns the number of time slices. Static profiles have one.
func (p *Profile) TimeCount() int {
	if len(p.Times) == 0 { return 1 }
	return len(p.Times)
}

// NodeCount returns the number of spatial grid points.
func (p *Profile) NodeCount() int {
	if len(p.Y) == 0 { return len(p.X) }
	return len(p.X) * len(p.Y)
}

// Slice returns the spatial values at time index i. The slice aliases
// p.Values.
func (p *Profile) Slice(i int) []float64 {
	n := p.NodeCount()
	return p.Values[i*n: (i+1)*n]
}

// TimeRange returns the first and last time of the profile.
func (p *Profile) TimeRange() (tMin, tMax float64) {
	return p.Times[0], p.Times[len(p.Times) - 1]
}

// Nearest returns the index of the profile time closest to t.
func (p *Profile) Nearest(t float64) int {
	best, bestDist := 0, math.Inf(+1)
	for i, pt := range p.Times {
		if dist := math.Abs(pt - t); dist < bestDist {
			best, bestDist = i, dist
		}
	}
	return best
}

// InterpTime linearly interpolates the spatial values to time t, which must
// lie inside the profile's time range. The result is written to out if it is
// given.
func (p *Profile) InterpTime(t float64, out ...[]float64) []float64 {
	n := p.NodeCount()
	if len(out) == 0 { out = [][]float64{ make([]float64, n) } }
	if len(p.Times) == 1 {
		copy(out[0], p.Slice(0))
		return out[0]
	}

	series := make([]float64, len(p.Times))
	pl := &interp.PiecewiseLinear{}
	for node := 0; node < n; node++ {
		for it := range p.Times { series[it] = p.Values[it*n + node] }
		pl.Fit(p.Times, series)
		out[0][node] = pl.Predict(t)
	}
	return out[0]
}

// Evaluator evaluates one time slice of a profile at spatial coordinates.
// For rho profiles the second coordinate is ignored.
type Evaluator func(x, y float64) float64

// Spatial returns an Evaluator for the given spatial values, which must be
// laid out like one of the profile's time slices. Points outside the grid
// evaluate to NaN.
func (p *Profile) Spatial(vals []float64) Evaluator {
	if len(p.Y) == 0 {
		lin := interpolate.NewLinear(p.X, vals)
		return func(x, _ float64) float64 { return lin.Eval(x) }
	}
	bi := interpolate.NewBiLinear(p.X, p.Y, vals)
	return bi.Eval
}
