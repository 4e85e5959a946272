package los

import (
	"fmt"
	"math"

	"github.com/phil-mansfield/synthlos/profile"
)

const (
	// Tolerances used to match a scalar time to a profile time.
	profileTimeRtol = 1e-4
	profileTimeAtol = 1e-8
)

// selectProfile returns the spatial values of p at every requested time.
// Static profiles are broadcast. Scalar times are matched to the nearest
// profile time and spans are interpolated.
func selectProfile(p *profile.Profile, t Times) ([][]float64, error) {
	ts := t.Values()
	out := make([][]float64, len(ts))
	if !p.HasTime() {
		for i := range out { out[i] = p.Slice(0) }
		return out, nil
	}

	tMin, tMax := p.TimeRange()
	if t.IsScalar() {
		i := p.Nearest(ts[0])
		if math.Abs(p.Times[i] - ts[0]) >
			profileTimeAtol + profileTimeRtol*math.Abs(ts[0]) {
			return nil, &ProfileCoverageError{ p.Name, t, tMin, tMax }
		}
		out[0] = p.Slice(i)
		return out, nil
	}

	if t.Min() < tMin || t.Max() > tMax {
		return nil, &ProfileCoverageError{ p.Name, t, tMin, tMax }
	}
	for i, time := range ts { out[i] = p.InterpTime(time) }
	return out, nil
}

// project validates p against the requested times and evaluates it at every
// point, laid out as [time][channel][sample]. Invalid points are NaN. If
// limitToSep is set, valid points outside the separatrix of a flux profile
// are zero.
func (fm *fluxMapper) project(
	pts *points, p *profile.Profile, t Times, limitToSep, calcRho bool,
) ([][][]float64, *FluxCoordinates, error) {
	if p == nil { return nil, nil, fmt.Errorf("No profile given.") }

	fc, err := fm.convert(pts, t, calcRho)
	if err != nil { return nil, nil, err }
	slices, err := selectProfile(p, t)
	if err != nil { return nil, nil, err }

	switch p.Coords {
	case profile.RZ, profile.Rho, profile.RhoTheta:
	default:
		return nil, nil, &UnsupportedCoordinateError{ p.Name, p.Coords }
	}

	out := make([][][]float64, len(slices))
	for it := range slices {
		eval := p.Spatial(slices[it])
		rho, theta := fc.Rho[it], fc.Theta[it]

		out[it] = make([][]float64, len(pts.R))
		for c := range pts.R {
			vals := make([]float64, len(pts.R[c]))
			for i := range vals {
				if !pts.Valid[c][i] {
					vals[i] = math.NaN()
					continue
				}

				switch p.Coords {
				case profile.RZ:
					vals[i] = eval(pts.R[c][i], pts.Z[c][i])
				case profile.Rho:
					vals[i] = eval(rho[c][i], 0)
				case profile.RhoTheta:
					vals[i] = eval(rho[c][i], theta[c][i])
				}

				if limitToSep && p.Coords.IsFlux() && rho[c][i] > 1 {
					vals[i] = 0
				}
			}
			out[it][c] = vals
		}
	}

	return out, fc, nil
}

// AlongLOS is a profile mapped onto the samples of a LineOfSight, laid out
// as [time][channel][sample].
type AlongLOS struct {
	Profile string
	Times Times
	Values [][][]float64
}

// Integral is the line integral of a profile. It is a *ScalarIntegral for
// instruments with a single channel and a *ChannelIntegral otherwise.
type Integral interface {
	// At returns the integral of every channel at time index i.
	At(i int) []float64
	integral()
}

// ChannelIntegral holds the line integral of every channel at every time,
// laid out as [time][channel].
type ChannelIntegral struct {
	Times Times
	Values [][]float64
}

func (ci *ChannelIntegral) At(i int) []float64 { return ci.Values[i] }
func (ci *ChannelIntegral) integral() { }

// ScalarIntegral holds the line integral of a single-channel instrument at
// every time.
type ScalarIntegral struct {
	Times Times
	Values []float64
}

func (si *ScalarIntegral) At(i int) []float64 { return si.Values[i: i+1] }
func (si *ScalarIntegral) integral() { }

// Value returns the integral at the first requested time, which is the only
// time for scalar requests.
func (si *ScalarIntegral) Value() float64 { return si.Values[0] }

// SetEquilibrium binds the equilibrium used for flux coordinates. An
// equilibrium can only be bound once.
func (l *LineOfSight) SetEquilibrium(eq Equilibrium) error {
	return l.flux.bind(eq)
}

// ConvertToRhoTheta returns rho and theta at every sample for the requested
// times, laid out as [time][channel][sample]. Results are cached and reused
// until a different time selection is requested or the rays are resampled.
func (l *LineOfSight) ConvertToRhoTheta(t Times) (rho, theta [][][]float64, err error) {
	fc, err := l.flux.convert(l.points(), t, false)
	if err != nil { return nil, nil, err }
	return fc.Rho, fc.Theta, nil
}

// FluxCoordinates returns the cached flux coordinates, or ErrNotMapped.
func (l *LineOfSight) FluxCoordinates() (*FluxCoordinates, error) {
	if l.flux.cache == nil { return nil, ErrNotMapped }
	return l.flux.cache, nil
}

// ImpactRho returns the minimum rho along every channel, laid out as
// [time][channel], for the cached flux coordinates.
func (l *LineOfSight) ImpactRho() ([][]float64, error) {
	fc, err := l.FluxCoordinates()
	if err != nil { return nil, err }
	return minRho(fc), nil
}

// MapProfileToLOS evaluates p at every sample for the requested times.
//
// The times must lie inside the equilibrium. If p has a time axis, a scalar
// time must match one of its times to within a relative tolerance of 1e-4 and
// a span must lie inside its time range. Flux coordinates are recomputed if
// calcRho is set or the cached ones were computed for other times. If
// limitToSep is set, samples of flux profiles outside the separatrix
// (rho > 1) are zero.
func (l *LineOfSight) MapProfileToLOS(
	p *profile.Profile, t Times, limitToSep, calcRho bool,
) (*AlongLOS, error) {
	vals, _, err := l.flux.project(l.points(), p, t, limitToSep, calcRho)
	if err != nil { return nil, err }
	l.along = &AlongLOS{ Profile: p.Name, Times: t, Values: vals }
	return l.along, nil
}

// IntegrateOnLOS maps p onto the lines of sight with MapProfileToLOS and
// integrates it along each of them. NaN samples are skipped. The result is
// multiplied by the number of passes.
func (l *LineOfSight) IntegrateOnLOS(
	p *profile.Profile, t Times, limitToSep, calcRho bool,
) (Integral, error) {
	along, err := l.MapProfileToLOS(p, t, limitToSep, calcRho)
	if err != nil { return nil, err }

	sums := make([][]float64, len(along.Values))
	for it := range along.Values {
		sums[it] = make([]float64, len(along.Values[it]))
		for c, vals := range along.Values[it] {
			sum := 0.0
			for _, v := range vals {
				if !math.IsNaN(v) { sum += v }
			}
			sums[it][c] = float64(l.Passes) * sum * l.grid.DL
		}
	}

	if l.Channels() == 1 {
		values := make([]float64, len(sums))
		for it := range sums { values[it] = sums[it][0] }
		l.integral = &ScalarIntegral{ Times: t, Values: values }
	} else {
		l.integral = &ChannelIntegral{ Times: t, Values: sums }
	}
	return l.integral, nil
}

// LastAlongLOS returns the most recently mapped profile, or nil.
func (l *LineOfSight) LastAlongLOS() *AlongLOS { return l.along }

// LastIntegral returns the most recently computed integral, or nil.
func (l *LineOfSight) LastIntegral() Integral { return l.integral }
