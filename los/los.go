/*package los computes geometric forward models for line-of-sight plasma
diagnostics.

A LineOfSight is built from the viewing origin and direction of every channel
of an instrument. On construction each ray is intersected with the vessel,
all channels are stretched to a common length, and the rays are sampled at a
fixed spacing. Profiles in real space or flux space can then be mapped onto
the samples and integrated along each ray.

A LineOfSight is mutable: SetDL resamples it in place and flux coordinate
queries overwrite its cache. It must not be shared between goroutines; give
each worker its own copy.
*/
package los

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/phil-mansfield/synthlos/logging"
	"github.com/phil-mansfield/synthlos/los/geom"
)

const (
	// DefaultDL is the default sample spacing in meters.
	DefaultDL = 0.01
	// lengthEps is the relative tolerance used when masking samples which lie
	// beyond a channel's true length.
	lengthEps = 1e-9
)

// State is the lifecycle state of a LineOfSight.
type State int

const (
	Sampled State = iota
	FluxMapped
)

func (s State) String() string {
	switch s {
	case Sampled:
		return "Sampled"
	case FluxMapped:
		return "FluxMapped"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Ray is the resolved geometry of a single channel.
type Ray struct {
	Origin, Direction r3.Vec
	// Start and End are where the ray enters the vessel and first hits a
	// wall.
	Start, End r3.Vec
	// NormalizedEnd lies along the ray at the common length of the
	// LineOfSight, which may be beyond End.
	NormalizedEnd r3.Vec
	// TrueLength is the distance from Start to End.
	TrueLength float64
}

// Position returns the point a fraction x2 of the way from Start to
// NormalizedEnd.
func (ray *Ray) Position(x2 float64) r3.Vec {
	return r3.Add(ray.Start, r3.Scale(x2, r3.Sub(ray.NormalizedEnd, ray.Start)))
}

// SampleGrid is the discretization of every channel, laid out as
// [channel][sample]. Samples beyond a channel's true length have NaN X, Y, Z,
// and R and a false Valid flag. Phi is computed for every sample.
type SampleGrid struct {
	// DL is the realized sample spacing and Length = N*DL is the common
	// length of all channels.
	DL, Length float64
	N int
	// X2 is the fractional position of each sample along the rays.
	X2 []float64
	X, Y, Z, R, Phi [][]float64
	// Dist is the distance of each sample from the start of its ray.
	Dist [][]float64
	Valid [][]bool
}

// LineOfSight is a set of lines of sight belonging to one instrument.
type LineOfSight struct {
	// Name is the name of the instrument.
	Name string
	// Passes is the number of times each ray crosses the plasma.
	Passes int

	box geom.Box
	origins, directions []r3.Vec

	rays []Ray
	grid *SampleGrid
	impact []ImpactParameter

	flux fluxMapper
	along *AlongLOS
	integral Integral
}

// New creates a LineOfSight from the origin and direction coordinates of each
// channel, resolves every ray against the vessel box and samples it with
// spacing dl.
func New(
	originX, originY, originZ []float64,
	directionX, directionY, directionZ []float64,
	name string, box geom.Box, dl float64, passes int,
) (*LineOfSight, error) {
	n := len(originX)
	if n == 0 {
		return nil, fmt.Errorf("No lines of sight given for '%s'.", name)
	}
	lens := []int{
		len(originY), len(originZ),
		len(directionX), len(directionY), len(directionZ),
	}
	for _, l := range lens {
		if l != n {
			return nil, fmt.Errorf(
				"Origin and direction arrays of '%s' have lengths %d and %v.",
				name, n, lens,
			)
		}
	}
	if passes < 1 {
		return nil, fmt.Errorf(
			"'%s' must cross the plasma at least once, but passes = %d.",
			name, passes,
		)
	}

	l := &LineOfSight{
		Name: name, Passes: passes, box: box,
		origins: make([]r3.Vec, n), directions: make([]r3.Vec, n),
	}
	for i := 0; i < n; i++ {
		l.origins[i] = r3.Vec{ X: originX[i], Y: originY[i], Z: originZ[i] }
		l.directions[i] = r3.Vec{
			X: directionX[i], Y: directionY[i], Z: directionZ[i],
		}
	}

	if err := l.SetDL(dl); err != nil { return nil, err }
	return l, nil
}

// SetDL resolves the rays against the vessel and resamples them with spacing
// dl. The realized spacing is stored in the sample grid. On failure the
// LineOfSight is left unchanged. On success any flux coordinates and mapped
// profiles are discarded and impact parameters are recomputed.
func (l *LineOfSight) SetDL(dl float64) error {
	if !(dl > 0) || math.IsInf(dl, 0) {
		return fmt.Errorf("Sample spacing must be positive, but dl = %g.", dl)
	}

	segs, err := geom.NewResolver(l.box).Resolve(l.origins, l.directions)
	if err != nil { return err }

	rays := make([]Ray, len(segs))
	lengths := make([]float64, len(segs))
	for i, seg := range segs {
		rays[i] = Ray{
			Origin: seg.Origin, Direction: seg.Direction,
			Start: seg.Start, End: seg.End, TrueLength: seg.Length,
		}
		lengths[i] = seg.Length
	}

	// Every channel is stretched along its own direction to the same length.
	n := int(math.Ceil(floats.Max(lengths) / dl))
	length := float64(n) * dl
	for i := range rays {
		ray := &rays[i]
		factor := length / ray.TrueLength
		ray.NormalizedEnd = r3.Add(
			ray.Start, r3.Scale(factor, r3.Sub(ray.End, ray.Start)),
		)
	}

	l.rays = rays
	l.grid = sample(rays, n, length)
	l.impact = impactParameters(l.grid)
	l.flux.cache = nil
	l.along, l.integral = nil, nil

	logging.Debugf(
		"Sampled %d lines of sight of '%s' with %d points, dl = %g.",
		len(rays), l.Name, n, l.grid.DL,
	)

	return nil
}

func sample(rays []Ray, n int, length float64) *SampleGrid {
	g := &SampleGrid{ DL: length / float64(n), Length: length, N: n }

	g.X2 = make([]float64, n)
	for i := range g.X2 { g.X2[i] = float64(i) / float64(n) }

	nc := len(rays)
	g.X, g.Y, g.Z = make([][]float64, nc), make([][]float64, nc), make([][]float64, nc)
	g.R, g.Phi = make([][]float64, nc), make([][]float64, nc)
	g.Dist, g.Valid = make([][]float64, nc), make([][]bool, nc)

	for c := range rays {
		ray := &rays[c]
		x, y, z := make([]float64, n), make([]float64, n), make([]float64, n)
		R, phi := make([]float64, n), make([]float64, n)
		dist, valid := make([]float64, n), make([]bool, n)

		lim := ray.TrueLength + lengthEps*length
		for i, x2 := range g.X2 {
			p := ray.Position(x2)
			dist[i] = float64(i) * g.DL
			R[i], phi[i] = geom.Cylindrical(p)

			if dist[i] <= lim {
				x[i], y[i], z[i] = p.X, p.Y, p.Z
				valid[i] = true
			} else {
				x[i], y[i], z[i], R[i] = math.NaN(), math.NaN(), math.NaN(), math.NaN()
			}
		}

		g.X[c], g.Y[c], g.Z[c] = x, y, z
		g.R[c], g.Phi[c] = R, phi
		g.Dist[c], g.Valid[c] = dist, valid
	}

	return g
}

// Channels returns the number of lines of sight.
func (l *LineOfSight) Channels() int { return len(l.rays) }

// Box returns the vessel boundary.
func (l *LineOfSight) Box() geom.Box { return l.box }

// DL returns the realized sample spacing.
func (l *LineOfSight) DL() float64 { return l.grid.DL }

// Rays returns the resolved geometry of every channel. The slice must not be
// modified.
func (l *LineOfSight) Rays() []Ray { return l.rays }

// Grid returns the sampled coordinates. The grid must not be modified; it is
// replaced, not updated, by SetDL.
func (l *LineOfSight) Grid() *SampleGrid { return l.grid }

// State returns the lifecycle state of l.
func (l *LineOfSight) State() State {
	if l.flux.cache == nil { return Sampled }
	return FluxMapped
}

// points returns the positions profiles are evaluated at.
func (l *LineOfSight) points() *points {
	return &points{ R: l.grid.R, Z: l.grid.Z, Valid: l.grid.Valid }
}

// ConvertFromRz is not supported: positions cannot be mapped back to a
// channel and a position along it.
func (l *LineOfSight) ConvertFromRz(R, z, t float64) (channel int, x2 float64, err error) {
	return 0, 0, &UnsupportedConversionError{
		System: fmt.Sprintf("LineOfSight '%s'", l.Name),
		Conversion: "convert_from_Rz",
	}
}

// Equal returns true if both LinesOfSight have the same vessel box, ray end
// points, sample spacing, sample grid, and flux coordinates. NaNs compare
// equal to each other.
func (l *LineOfSight) Equal(other *LineOfSight) bool {
	if other == nil { return false }
	if l.box != other.box || len(l.rays) != len(other.rays) {
		return false
	}
	for i := range l.rays {
		a, b := &l.rays[i], &other.rays[i]
		if a.Start != b.Start || a.End != b.End {
			return false
		}
	}

	g1, g2 := l.grid, other.grid
	if g1.DL != g2.DL || !floats.Same(g1.X2, g2.X2) {
		return false
	}
	if !sameGrid(g1.X, g2.X) || !sameGrid(g1.Y, g2.Y) ||
		!sameGrid(g1.Z, g2.Z) || !sameGrid(g1.R, g2.R) ||
		!sameGrid(g1.Phi, g2.Phi) {
		return false
	}

	return sameFlux(l.flux.cache, other.flux.cache)
}

func sameGrid(a, b [][]float64) bool {
	if len(a) != len(b) { return false }
	for i := range a {
		if !floats.Same(a[i], b[i]) { return false }
	}
	return true
}

func sameFlux(a, b *FluxCoordinates) bool {
	if a == nil || b == nil { return a == b }
	if !a.Times.Equal(b.Times) || len(a.Rho) != len(b.Rho) {
		return false
	}
	for it := range a.Rho {
		if !sameGrid(a.Rho[it], b.Rho[it]) { return false }
	}
	return true
}
