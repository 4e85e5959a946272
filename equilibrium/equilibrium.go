/*package equilibrium contains simple magnetic equilibria which map (R, z)
positions to flux coordinates.

Circular is an analytic model with concentric circular flux surfaces and is
mostly useful for testing and for machines without a reconstruction. Grid
interpolates a tabulated rho(R, z) map with one slice per reconstruction time.
*/
package equilibrium

import (
	"fmt"
	"math"

	"github.com/phil-mansfield/synthlos/math/interpolate"
)

// Circular has concentric circular flux surfaces around the magnetic axis
// (R0, Z0). rho is the distance from the axis divided by the minor radius A,
// so the separatrix lies at rho = 1.
type Circular struct {
	R0, Z0, A float64
	TMin, TMax float64
}

// NewCircular creates a Circular equilibrium valid over [tMin, tMax].
func NewCircular(R0, Z0, A, tMin, tMax float64) (*Circular, error) {
	if !(A > 0) {
		return nil, fmt.Errorf("Minor radius must be positive, but A = %g.", A)
	} else if !(tMax >= tMin) {
		return nil, fmt.Errorf(
			"Equilibrium time range [%g, %g] is empty.", tMin, tMax,
		)
	}
	return &Circular{ R0: R0, Z0: Z0, A: A, TMin: tMin, TMax: tMax }, nil
}

// FluxCoords returns rho and the poloidal angle theta, measured from the
// outboard midplane, of every point. NaN positions give NaN coordinates.
func (eq *Circular) FluxCoords(
	R, z []float64, t float64,
) (rho, theta []float64, err error) {
	if len(R) != len(z) {
		return nil, nil, fmt.Errorf(
			"%d R values given, but %d z values.", len(R), len(z),
		)
	}
	rho, theta = make([]float64, len(R)), make([]float64, len(R))
	for i := range R {
		dR, dz := R[i] - eq.R0, z[i] - eq.Z0
		rho[i] = math.Hypot(dR, dz) / eq.A
		theta[i] = math.Atan2(dz, dR)
	}
	return rho, theta, nil
}

// TimeRange returns the times the equilibrium is valid for.
func (eq *Circular) TimeRange() (tMin, tMax float64) {
	return eq.TMin, eq.TMax
}

// Grid is a tabulated equilibrium. Rho is stored on a regular (R, z) grid
// for each reconstruction time and is interpolated bilinearly in space. The
// slice closest in time to the request is used. Theta is measured around the
// magnetic axis of each slice.
type Grid struct {
	R, Z []float64
	Times []float64
	// AxisR and AxisZ are the positions of the magnetic axis at each time.
	AxisR, AxisZ []float64
	// Rho is laid out as Rho[(it*len(R) + iR)*len(Z) + iz].
	Rho []float64

	slices []*interpolate.BiLinear
}

// NewGrid creates a Grid equilibrium. Times must be strictly increasing.
func NewGrid(R, z, times, axisR, axisZ, rho []float64) (*Grid, error) {
	if len(R) < 2 || len(z) < 2 {
		return nil, fmt.Errorf(
			"Equilibrium grid needs at least 2 R and z values, but has " +
				"%d and %d.", len(R), len(z),
		)
	} else if len(times) == 0 {
		return nil, fmt.Errorf("Equilibrium grid has no times.")
	} else if len(axisR) != len(times) || len(axisZ) != len(times) {
		return nil, fmt.Errorf(
			"Equilibrium grid has %d times, but %d axis R and %d axis z " +
				"values.", len(times), len(axisR), len(axisZ),
		)
	}
	for i := 1; i < len(times); i++ {
		if !(times[i] > times[i-1]) {
			return nil, fmt.Errorf(
				"Equilibrium times are not strictly increasing.",
			)
		}
	}
	n := len(R)*len(z)
	if len(rho) != n*len(times) {
		return nil, fmt.Errorf(
			"Equilibrium grid has %d rho values, but %d points.",
			len(rho), n*len(times),
		)
	}

	eq := &Grid{
		R: R, Z: z, Times: times, AxisR: axisR, AxisZ: axisZ, Rho: rho,
		slices: make([]*interpolate.BiLinear, len(times)),
	}
	for it := range times {
		eq.slices[it] = interpolate.NewBiLinear(R, z, rho[it*n: (it+1)*n])
	}
	return eq, nil
}

// nearest returns the index of the time slice closest to t.
func (eq *Grid) nearest(t float64) int {
	best := 0
	for i := range eq.Times {
		if math.Abs(eq.Times[i] - t) < math.Abs(eq.Times[best] - t) {
			best = i
		}
	}
	return best
}

// FluxCoords returns rho and theta at every point. Points outside the grid
// have NaN coordinates.
func (eq *Grid) FluxCoords(
	R, z []float64, t float64,
) (rho, theta []float64, err error) {
	if len(R) != len(z) {
		return nil, nil, fmt.Errorf(
			"%d R values given, but %d z values.", len(R), len(z),
		)
	}

	it := eq.nearest(t)
	rho = eq.slices[it].EvalAll(R, z)
	theta = make([]float64, len(R))
	for i := range R {
		if math.IsNaN(rho[i]) {
			theta[i] = math.NaN()
			continue
		}
		theta[i] = math.Atan2(z[i] - eq.AxisZ[it], R[i] - eq.AxisR[it])
	}
	return rho, theta, nil
}

// TimeRange returns the first and last reconstruction time.
func (eq *Grid) TimeRange() (tMin, tMax float64) {
	return eq.Times[0], eq.Times[len(eq.Times) - 1]
}
