package los

import (
	"fmt"
	"math"

	"github.com/phil-mansfield/synthlos/logging"
)

// points is the set of positions a coordinate system evaluates profiles at,
// laid out as [channel][sample]. Invalid points have NaN coordinates.
type points struct {
	R, Z [][]float64
	Valid [][]bool
}

// FluxCoordinates holds rho and theta at every point of a coordinate system,
// laid out as [time][channel][sample], along with the times they were
// computed for.
type FluxCoordinates struct {
	Times Times
	Rho, Theta [][][]float64
}

// fluxMapper owns the equilibrium binding and the flux coordinate cache of a
// coordinate system.
type fluxMapper struct {
	eq Equilibrium
	cache *FluxCoordinates
}

func (fm *fluxMapper) bind(eq Equilibrium) error {
	if eq == nil {
		return fmt.Errorf("Cannot bind a nil equilibrium.")
	} else if fm.eq != nil {
		return ErrEquilibriumBound
	}
	fm.eq = eq
	fm.cache = nil
	return nil
}

func (fm *fluxMapper) equilibrium() (Equilibrium, error) {
	if fm.eq == nil { return nil, ErrNoEquilibrium }
	return fm.eq, nil
}

// checkRange returns an *EquilibriumRangeError if any of the requested times
// lie outside the equilibrium.
func (fm *fluxMapper) checkRange(t Times) error {
	eq, err := fm.equilibrium()
	if err != nil { return err }
	if err := t.check(); err != nil { return err }

	tMin, tMax := eq.TimeRange()
	if t.Min() < tMin || t.Max() > tMax {
		return &EquilibriumRangeError{ t, tMin, tMax }
	}
	return nil
}

// convert returns flux coordinates for the points at the requested times,
// reusing the cache if it was computed for the same times and force is
// false.
func (fm *fluxMapper) convert(
	pts *points, t Times, force bool,
) (*FluxCoordinates, error) {
	if err := fm.checkRange(t); err != nil { return nil, err }
	if !force && fm.cache != nil && fm.cache.Times.Equal(t) {
		return fm.cache, nil
	}

	logging.Debugf("Computing flux coordinates at t = %s.", t)

	// Only valid points are sent to the equilibrium.
	var R, z []float64
	for c := range pts.R {
		for i := range pts.R[c] {
			if pts.Valid[c][i] {
				R, z = append(R, pts.R[c][i]), append(z, pts.Z[c][i])
			}
		}
	}

	ts := t.Values()
	fc := &FluxCoordinates{
		Times: t,
		Rho: make([][][]float64, len(ts)),
		Theta: make([][][]float64, len(ts)),
	}
	for it, time := range ts {
		rho, theta, err := fm.eq.FluxCoords(R, z, time)
		if err != nil { return nil, err }
		if len(rho) != len(R) || len(theta) != len(R) {
			return nil, fmt.Errorf(
				"Equilibrium returned %d rho and %d theta values for %d points.",
				len(rho), len(theta), len(R),
			)
		}
		fc.Rho[it], fc.Theta[it] = scatter(pts, rho), scatter(pts, theta)
	}

	fm.cache = fc
	return fc, nil
}

// scatter unpacks values computed at the valid points of pts into a
// [channel][sample] grid with NaN at invalid points.
func scatter(pts *points, vals []float64) [][]float64 {
	out := make([][]float64, len(pts.R))
	j := 0
	for c := range pts.R {
		out[c] = make([]float64, len(pts.R[c]))
		for i := range out[c] {
			if pts.Valid[c][i] {
				out[c][i] = vals[j]
				j++
			} else {
				out[c][i] = math.NaN()
			}
		}
	}
	return out
}

// minRho returns the smallest rho of each channel for every cached time, or
// NaN for channels without valid points.
func minRho(fc *FluxCoordinates) [][]float64 {
	out := make([][]float64, len(fc.Rho))
	for it := range fc.Rho {
		out[it] = make([]float64, len(fc.Rho[it]))
		for c, rhos := range fc.Rho[it] {
			min := math.NaN()
			for _, rho := range rhos {
				if rho < min || (math.IsNaN(min) && !math.IsNaN(rho)) {
					min = rho
				}
			}
			out[it][c] = min
		}
	}
	return out
}
