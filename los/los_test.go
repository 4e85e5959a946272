package los

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phil-mansfield/synthlos/los/geom"
)

var unitBox = geom.Box{ RMin: 0, RMax: 1, ZMin: -1, ZMax: 1 }

// radial is a single chord from the outer wall to the axis, with length 1.
func radial(t *testing.T, dl float64) *LineOfSight {
	l, err := New(
		[]float64{1}, []float64{0}, []float64{0},
		[]float64{-1}, []float64{0}, []float64{0},
		"radial", unitBox, dl, 1,
	)
	require.NoError(t, err)
	return l
}

// pair is a radial chord of length 1 and a vertical chord of length 2.
func pair(t *testing.T, dl float64, passes int) *LineOfSight {
	l, err := New(
		[]float64{1, 0.5}, []float64{0, 0}, []float64{0, -2},
		[]float64{-1, 0}, []float64{0, 0}, []float64{0, 1},
		"pair", unitBox, dl, passes,
	)
	require.NoError(t, err)
	return l
}

func TestNewRadial(t *testing.T) {
	l := radial(t, 0.1)
	g := l.Grid()

	assert.Equal(t, 1, l.Channels())
	assert.Equal(t, 10, g.N)
	assert.InDelta(t, 1.0, g.Length, 1e-12)
	assert.InDelta(t, 0.1, l.DL(), 1e-12)

	ray := l.Rays()[0]
	assert.InDelta(t, 1.0, ray.TrueLength, 1e-12)
	assert.InDelta(t, 1.0, ray.Start.X, 1e-12)
	assert.InDelta(t, 0.0, ray.End.X, 1e-12)

	for i := 0; i < g.N; i++ {
		x := 1 - float64(i)/10
		if !g.Valid[0][i] {
			t.Errorf("%d) Expected sample to be valid.", i)
		}
		if math.Abs(g.X[0][i] - x) > 1e-12 {
			t.Errorf("%d) Expected x = %g. Got %g.", i, x, g.X[0][i])
		}
		if math.Abs(g.Dist[0][i] - float64(i)*0.1) > 1e-12 {
			t.Errorf("%d) Expected dist = %g. Got %g.",
				i, float64(i)*0.1, g.Dist[0][i])
		}
	}
}

func TestSampleGridProperties(t *testing.T) {
	for _, dl := range []float64{0.25, 0.1, 0.03, 0.7} {
		l := pair(t, dl, 1)
		g := l.Grid()

		assert.InDelta(t, float64(g.N)*g.DL, g.Length, 1e-12)
		for c, ray := range l.Rays() {
			assert.GreaterOrEqual(t, g.Length, ray.TrueLength - 1e-12)

			assert.Equal(t, 0.0, g.Dist[c][0])
			for i := 1; i < g.N; i++ {
				if g.Dist[c][i] < g.Dist[c][i-1] {
					t.Errorf("dl = %g, channel %d) Distance decreases at %d.",
						dl, c, i)
				}
			}

			for i := 0; i < g.N; i++ {
				if !g.Valid[c][i] {
					assert.True(t, math.IsNaN(g.X[c][i]))
					assert.True(t, math.IsNaN(g.R[c][i]))
					assert.False(t, math.IsNaN(g.Phi[c][i]))
					assert.Greater(t, g.Dist[c][i], ray.TrueLength)
					continue
				}
				R := math.Sqrt(g.X[c][i]*g.X[c][i] + g.Y[c][i]*g.Y[c][i])
				assert.InDelta(t, R, g.R[c][i], 1e-12)
			}
		}
	}
}

func TestNormalizedEnd(t *testing.T) {
	l := pair(t, 0.25, 1)
	rays := l.Rays()

	assert.InDelta(t, 2.0, l.Grid().Length, 1e-12)
	// The short chord is extended through the axis to the common length.
	assert.InDelta(t, -1.0, rays[0].NormalizedEnd.X, 1e-12)
	assert.InDelta(t, 0.0, rays[0].End.X, 1e-12)
	assert.InDelta(t, 1.0, rays[1].NormalizedEnd.Z, 1e-12)

	valid := 0
	for _, ok := range l.Grid().Valid[0] {
		if ok { valid++ }
	}
	assert.Equal(t, 5, valid)
}

func TestNewErrors(t *testing.T) {
	one := []float64{1}
	_, err := New(one, one, one, one, one, []float64{1, 2}, "x", unitBox, 0.1, 1)
	assert.Error(t, err)

	_, err = New(nil, nil, nil, nil, nil, nil, "x", unitBox, 0.1, 1)
	assert.Error(t, err)

	_, err = New(
		[]float64{1}, []float64{0}, []float64{0},
		[]float64{-1}, []float64{0}, []float64{0},
		"x", unitBox, 0.1, 0,
	)
	assert.Error(t, err)

	_, err = New(
		[]float64{1}, []float64{0}, []float64{0},
		[]float64{-1}, []float64{0}, []float64{0},
		"x", unitBox, -0.1, 1,
	)
	assert.Error(t, err)

	// The second channel points away from the vessel.
	_, err = New(
		[]float64{1, 2}, []float64{0, 0}, []float64{0, 0},
		[]float64{-1, 1}, []float64{0, 0}, []float64{0, 0},
		"x", unitBox, 0.1, 1,
	)
	gerr := &GeometryError{}
	require.True(t, errors.As(err, &gerr))
	assert.Equal(t, 1, gerr.Channel)
}

func TestSetDL(t *testing.T) {
	l := pair(t, 0.25, 1)
	require.NoError(t, l.SetEquilibrium(&circular{ A: 2, TMax: 10 }))
	_, _, err := l.ConvertToRhoTheta(At(1))
	require.NoError(t, err)
	assert.Equal(t, FluxMapped, l.State())

	require.NoError(t, l.SetDL(0.1))
	assert.Equal(t, Sampled, l.State())
	assert.InDelta(t, 0.1, l.DL(), 1e-12)
	assert.Equal(t, 20, l.Grid().N)
	_, err = l.FluxCoordinates()
	assert.ErrorIs(t, err, ErrNotMapped)

	before := l.Grid()
	assert.Error(t, l.SetDL(0))
	assert.Error(t, l.SetDL(math.NaN()))
	assert.Same(t, before, l.Grid())
}

func TestImpactParameters(t *testing.T) {
	l := pair(t, 0.25, 1)
	ips := l.ImpactParameters()
	require.Len(t, ips, 2)

	// The radial chord reaches the origin at its last valid sample.
	assert.Equal(t, 4, ips[0].Index)
	assert.InDelta(t, 0.0, ips[0].Value, 1e-12)
	assert.InDelta(t, 0.0, ips[0].R, 1e-12)

	// The vertical chord passes closest to the origin at z = 0.
	assert.Equal(t, 4, ips[1].Index)
	assert.InDelta(t, 0.5, ips[1].Value, 1e-12)
	assert.InDelta(t, 0.5, ips[1].R, 1e-12)
	assert.InDelta(t, 0.0, ips[1].Z, 1e-12)
}

func TestEqual(t *testing.T) {
	l1, l2 := pair(t, 0.25, 1), pair(t, 0.25, 1)
	assert.True(t, l1.Equal(l2))
	assert.True(t, l1.Equal(l1))
	assert.False(t, l1.Equal(nil))

	l3 := pair(t, 0.1, 1)
	assert.False(t, l1.Equal(l3))
	assert.False(t, l1.Equal(radial(t, 0.25)))

	require.NoError(t, l1.SetEquilibrium(&circular{ A: 2, TMax: 10 }))
	require.NoError(t, l2.SetEquilibrium(&circular{ A: 2, TMax: 10 }))
	_, _, err := l1.ConvertToRhoTheta(At(1))
	require.NoError(t, err)
	assert.False(t, l1.Equal(l2))

	_, _, err = l2.ConvertToRhoTheta(At(1))
	require.NoError(t, err)
	assert.True(t, l1.Equal(l2))

	_, _, err = l2.ConvertToRhoTheta(Span(1))
	require.NoError(t, err)
	assert.False(t, l1.Equal(l2))
}

func TestConvertFromRz(t *testing.T) {
	l := radial(t, 0.1)
	_, _, err := l.ConvertFromRz(0.5, 0, 1)
	uerr := &UnsupportedConversionError{}
	assert.True(t, errors.As(err, &uerr))
}
