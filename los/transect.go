package los

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/phil-mansfield/synthlos/los/geom"
	"github.com/phil-mansfield/synthlos/profile"
)

// Transect is a diagnostic which measures a single point per channel, such as
// a Thomson scattering system. It shares the flux mapping and projection
// rules of LineOfSight.
type Transect struct {
	Name string

	box geom.Box
	x, y, z, R []float64

	flux fluxMapper
	along [][]float64
}

// NewTransect creates a Transect from the Cartesian position of every channel.
func NewTransect(x, y, z []float64, name string, box geom.Box) (*Transect, error) {
	if len(x) != len(y) || len(x) != len(z) {
		return nil, fmt.Errorf(
			"Positions of '%s' have lengths x = %d, y = %d, z = %d.",
			name, len(x), len(y), len(z),
		)
	} else if len(x) == 0 {
		return nil, fmt.Errorf("No positions given for '%s'.", name)
	}

	tr := &Transect{
		Name: name, box: box,
		x: append([]float64(nil), x...),
		y: append([]float64(nil), y...),
		z: append([]float64(nil), z...),
		R: make([]float64, len(x)),
	}
	for i := range tr.R { tr.R[i] = math.Sqrt(x[i]*x[i] + y[i]*y[i]) }

	return tr, nil
}

// Channels returns the number of measurement points.
func (tr *Transect) Channels() int { return len(tr.x) }

// Box returns the vessel boundary.
func (tr *Transect) Box() geom.Box { return tr.box }

// Positions returns the Cartesian coordinates and major radius of every
// channel. The slices must not be modified.
func (tr *Transect) Positions() (x, y, z, R []float64) {
	return tr.x, tr.y, tr.z, tr.R
}

// points treats every channel as a single valid sample.
func (tr *Transect) points() *points {
	pts := &points{
		R: make([][]float64, len(tr.R)),
		Z: make([][]float64, len(tr.R)),
		Valid: make([][]bool, len(tr.R)),
	}
	for c := range tr.R {
		pts.R[c], pts.Z[c] = tr.R[c: c+1], tr.z[c: c+1]
		pts.Valid[c] = []bool{ !math.IsNaN(tr.R[c]) && !math.IsNaN(tr.z[c]) }
	}
	return pts
}

// SetEquilibrium binds the equilibrium used for flux coordinates. An
// equilibrium can only be bound once.
func (tr *Transect) SetEquilibrium(eq Equilibrium) error {
	return tr.flux.bind(eq)
}

// ConvertToRhoTheta returns rho and theta at every channel for the requested
// times, laid out as [time][channel].
func (tr *Transect) ConvertToRhoTheta(t Times) (rho, theta [][]float64, err error) {
	fc, err := tr.flux.convert(tr.points(), t, false)
	if err != nil { return nil, nil, err }
	return flatten(fc.Rho), flatten(fc.Theta), nil
}

// MapProfileToRho evaluates p at every channel for the requested times, laid
// out as [time][channel]. It follows the same rules as
// LineOfSight.MapProfileToLOS.
func (tr *Transect) MapProfileToRho(
	p *profile.Profile, t Times, limitToSep, calcRho bool,
) ([][]float64, error) {
	vals, _, err := tr.flux.project(tr.points(), p, t, limitToSep, calcRho)
	if err != nil { return nil, err }
	tr.along = flatten(vals)
	return tr.along, nil
}

// LastMapped returns the most recently mapped profile, or nil.
func (tr *Transect) LastMapped() [][]float64 { return tr.along }

// ConvertFromRz is not supported.
func (tr *Transect) ConvertFromRz(R, z, t float64) (channel int, err error) {
	return 0, &UnsupportedConversionError{
		System: fmt.Sprintf("Transect '%s'", tr.Name),
		Conversion: "convert_from_Rz",
	}
}

// Equal returns true if both Transects have the same vessel box and
// positions.
func (tr *Transect) Equal(other *Transect) bool {
	if other == nil { return false }
	return tr.box == other.box &&
		floats.Same(tr.x, other.x) && floats.Same(tr.y, other.y) &&
		floats.Same(tr.z, other.z) && floats.Same(tr.R, other.R)
}

// flatten drops the sample axis of a [time][channel][1] grid.
func flatten(grid [][][]float64) [][]float64 {
	out := make([][]float64, len(grid))
	for it := range grid {
		out[it] = make([]float64, len(grid[it]))
		for c := range grid[it] { out[it][c] = grid[it][c][0] }
	}
	return out
}
