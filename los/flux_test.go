package los

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// circular has concentric circular flux surfaces of minor radius A around
// (R0, Z0) and counts how often it is queried.
type circular struct {
	R0, Z0, A float64
	TMin, TMax float64
	calls int
}

func (eq *circular) FluxCoords(R, z []float64, t float64) (rho, theta []float64, err error) {
	eq.calls++
	rho, theta = make([]float64, len(R)), make([]float64, len(R))
	for i := range R {
		dR, dz := R[i] - eq.R0, z[i] - eq.Z0
		rho[i] = math.Sqrt(dR*dR + dz*dz) / eq.A
		theta[i] = math.Atan2(dz, dR)
	}
	return rho, theta, nil
}

func (eq *circular) TimeRange() (tMin, tMax float64) { return eq.TMin, eq.TMax }

func TestTimes(t *testing.T) {
	table := []struct{
		a, b Times
		equal bool
	} {
		{At(1), At(1), true},
		{At(1), At(2), false},
		{At(1), Span(1), false},
		{Span(1, 2), Span(1, 2), true},
		{Span(1, 2), Span(1, 2, 3), false},
		{Span(1, 2), Span(2, 1), false},
	}

	for i, test := range table {
		if test.a.Equal(test.b) != test.equal {
			t.Errorf("%d) Expected %s == %s to be %v.",
				i, test.a, test.b, test.equal)
		}
	}

	ts := Span(3, 1, 2)
	assert.Equal(t, 1.0, ts.Min())
	assert.Equal(t, 3.0, ts.Max())
	assert.Equal(t, 3, ts.Len())
	assert.False(t, ts.IsScalar())
	assert.True(t, At(4).IsScalar())
	assert.Equal(t, "[3 1 2]", ts.String())
	assert.Equal(t, "4", At(4).String())
}

func TestEquilibriumBinding(t *testing.T) {
	l := pair(t, 0.25, 1)

	_, _, err := l.ConvertToRhoTheta(At(1))
	assert.ErrorIs(t, err, ErrNoEquilibrium)

	require.NoError(t, l.SetEquilibrium(&circular{ A: 2, TMax: 10 }))
	assert.ErrorIs(t, l.SetEquilibrium(&circular{ A: 1, TMax: 10 }),
		ErrEquilibriumBound)

	assert.Error(t, radial(t, 0.1).SetEquilibrium(nil))
}

func TestEquilibriumRange(t *testing.T) {
	l := pair(t, 0.25, 1)
	eq := &circular{ A: 2, TMin: 0, TMax: 10 }
	require.NoError(t, l.SetEquilibrium(eq))

	for i, ts := range []Times{ At(11), At(-1), Span(5, 10.5), Span(-1, 2) } {
		_, _, err := l.ConvertToRhoTheta(ts)
		rerr := &EquilibriumRangeError{}
		if !errors.As(err, &rerr) {
			t.Errorf("%d) Expected EquilibriumRangeError. Got %v.", i, err)
			continue
		}
		assert.Equal(t, 0.0, rerr.TMin)
		assert.Equal(t, 10.0, rerr.TMax)
	}
	assert.Equal(t, 0, eq.calls)

	_, _, err := l.ConvertToRhoTheta(Span())
	assert.Error(t, err)
	_, _, err = l.ConvertToRhoTheta(At(math.NaN()))
	assert.Error(t, err)
}

func TestConvertToRhoTheta(t *testing.T) {
	l := pair(t, 0.25, 1)
	require.NoError(t, l.SetEquilibrium(&circular{ A: 2, TMax: 10 }))

	rho, theta, err := l.ConvertToRhoTheta(Span(1, 2))
	require.NoError(t, err)
	require.Len(t, rho, 2)
	require.Len(t, rho[0], 2)

	g := l.Grid()
	for it := range rho {
		for c := range rho[it] {
			for i := range rho[it][c] {
				if !g.Valid[c][i] {
					assert.True(t, math.IsNaN(rho[it][c][i]))
					assert.True(t, math.IsNaN(theta[it][c][i]))
					continue
				}
				R, z := g.R[c][i], g.Z[c][i]
				assert.InDelta(t, math.Sqrt(R*R + z*z)/2, rho[it][c][i], 1e-12)
			}
		}
	}

	fc, err := l.FluxCoordinates()
	require.NoError(t, err)
	assert.True(t, fc.Times.Equal(Span(1, 2)))

	impact, err := l.ImpactRho()
	require.NoError(t, err)
	assert.InDelta(t, 0.0, impact[0][0], 1e-12)
	assert.InDelta(t, 0.25, impact[1][1], 1e-12)
}

func TestFluxCache(t *testing.T) {
	l := pair(t, 0.25, 1)
	eq := &circular{ A: 2, TMax: 10 }
	require.NoError(t, l.SetEquilibrium(eq))

	_, err := l.FluxCoordinates()
	assert.ErrorIs(t, err, ErrNotMapped)
	_, err = l.ImpactRho()
	assert.ErrorIs(t, err, ErrNotMapped)

	p := constantRho(t, 1)

	table := []struct{
		ts Times
		calcRho bool
		calls int
	} {
		{At(1), false, 1},
		{At(1), false, 1},
		{At(1), true, 2},
		{Span(1), false, 3},
		{Span(1, 2), false, 5},
		{Span(1, 2), false, 5},
		{At(2), false, 6},
	}

	for i, test := range table {
		_, err := l.MapProfileToLOS(p, test.ts, false, test.calcRho)
		require.NoError(t, err, "%d)", i)
		if eq.calls != test.calls {
			t.Errorf("%d) Expected %d equilibrium calls. Got %d.",
				i, test.calls, eq.calls)
		}
	}

	_, _, err = l.ConvertToRhoTheta(At(2))
	require.NoError(t, err)
	assert.Equal(t, 6, eq.calls)
}
