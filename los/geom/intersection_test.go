package geom

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

func vecEpsEq(v1, v2 r3.Vec, eps float64) bool {
	return math.Abs(v1.X - v2.X) <= eps &&
		math.Abs(v1.Y - v2.Y) <= eps &&
		math.Abs(v1.Z - v2.Z) <= eps
}

func TestIntersect(t *testing.T) {
	eps := 1e-9
	unit := Box{ RMin: 0, RMax: 1, ZMin: -1, ZMax: 1 }
	annulus := Box{ RMin: 0.5, RMax: 2, ZMin: -1, ZMax: 1 }

	table := []struct{
		box Box
		o, d r3.Vec
		start, end r3.Vec
		length float64
	} {
		// Radial chord ending on the axis.
		{unit, r3.Vec{X: 1, Y: 0, Z: 0}, r3.Vec{X: -1, Y: 0, Z: 0},
			r3.Vec{X: 1, Y: 0, Z: 0}, r3.Vec{X: 0, Y: 0, Z: 0}, 1},
		// Unnormalized direction from outside the vessel.
		{unit, r3.Vec{X: 3, Y: 0, Z: 0}, r3.Vec{X: -5, Y: 0, Z: 0},
			r3.Vec{X: 1, Y: 0, Z: 0}, r3.Vec{X: 0, Y: 0, Z: 0}, 1},
		// Vertical chord through the vessel.
		{unit, r3.Vec{X: 0.5, Y: 0, Z: -3}, r3.Vec{X: 0, Y: 0, Z: 2},
			r3.Vec{X: 0.5, Y: 0, Z: -1}, r3.Vec{X: 0.5, Y: 0, Z: 1}, 2},
		// Horizontal chord that misses the column.
		{annulus, r3.Vec{X: -3, Y: 1, Z: 0}, r3.Vec{X: 1, Y: 0, Z: 0},
			r3.Vec{X: -math.Sqrt(3), Y: 1, Z: 0}, r3.Vec{X: math.Sqrt(3), Y: 1, Z: 0},
			2*math.Sqrt(3)},
		// Horizontal chord stopped by the column.
		{annulus, r3.Vec{X: -3, Y: 0, Z: 0}, r3.Vec{X: 1, Y: 0, Z: 0},
			r3.Vec{X: -2, Y: 0, Z: 0}, r3.Vec{X: -0.5, Y: 0, Z: 0}, 1.5},
		// Chord leaving through the top.
		{unit, r3.Vec{X: 0.5, Y: 0, Z: 0}, r3.Vec{X: 0, Y: 0, Z: 1},
			r3.Vec{X: 0.5, Y: 0, Z: 0}, r3.Vec{X: 0.5, Y: 0, Z: 1}, 1},
		// Origin inside the column is pushed to the column's edge.
		{annulus, r3.Vec{X: 0, Y: 0, Z: 0}, r3.Vec{X: 1, Y: 0, Z: 0},
			r3.Vec{X: 0.5, Y: 0, Z: 0}, r3.Vec{X: 2, Y: 0, Z: 0}, 1.5},
	}

	for i, test := range table {
		start, end, length, err := Intersect(test.o, test.d, test.box)
		require.NoError(t, err, "%d)", i)
		if !vecEpsEq(start, test.start, eps) {
			t.Errorf("%d) Expected start = %v. Got %v.", i, test.start, start)
		}
		if !vecEpsEq(end, test.end, eps) {
			t.Errorf("%d) Expected end = %v. Got %v.", i, test.end, end)
		}
		if math.Abs(length - test.length) > eps {
			t.Errorf("%d) Expected length = %g. Got %g.", i, test.length, length)
		}
	}
}

func TestIntersectFailures(t *testing.T) {
	unit := Box{ RMin: 0, RMax: 1, ZMin: -1, ZMax: 1 }

	table := []struct{
		box Box
		o, d r3.Vec
	} {
		{unit, r3.Vec{X: 2, Y: 0, Z: 0}, r3.Vec{X: 0, Y: 0, Z: 0}},
		{unit, r3.Vec{X: 2, Y: 0, Z: 0}, r3.Vec{X: 1, Y: 0, Z: 0}},
		{unit, r3.Vec{X: 2, Y: 0, Z: 0}, r3.Vec{X: 0, Y: 1, Z: 0}},
		{unit, r3.Vec{X: 0.5, Y: 0, Z: 2}, r3.Vec{X: 1, Y: 0, Z: 0}},
		{unit, r3.Vec{X: math.NaN(), Y: 0, Z: 0}, r3.Vec{X: -1, Y: 0, Z: 0}},
		{Box{ RMin: 1, RMax: 0.5, ZMin: -1, ZMax: 1 },
			r3.Vec{X: 2, Y: 0, Z: 0}, r3.Vec{X: -1, Y: 0, Z: 0}},
	}

	for i, test := range table {
		_, _, _, err := Intersect(test.o, test.d, test.box)
		var gerr *GeometryError
		if !errors.As(err, &gerr) {
			t.Errorf("%d) Expected a GeometryError. Got %v.", i, err)
		}
	}
}

func TestResolver(t *testing.T) {
	res := NewResolver(Box{ RMin: 0, RMax: 1, ZMin: -1, ZMax: 1 })

	segs, err := res.Resolve(
		[]r3.Vec{{X: 1, Y: 0, Z: 0}, {X: 0, Y: 1, Z: 0}},
		[]r3.Vec{{X: -1, Y: 0, Z: 0}, {X: 0, Y: -1, Z: 0}},
	)
	require.NoError(t, err)
	require.Len(t, segs, 2)
	assert.InDelta(t, 1.0, segs[0].Length, 1e-12)
	assert.InDelta(t, 1.0, segs[1].Length, 1e-12)

	_, err = res.Resolve(
		[]r3.Vec{{X: 1, Y: 0, Z: 0}, {X: 5, Y: 5, Z: 5}},
		[]r3.Vec{{X: -1, Y: 0, Z: 0}, {X: 1, Y: 1, Z: 1}},
	)
	var gerr *GeometryError
	require.True(t, errors.As(err, &gerr))
	assert.Equal(t, 1, gerr.Channel)
	assert.Contains(t, gerr.Error(), "Line of sight 1")

	_, err = res.Resolve([]r3.Vec{{X: 1, Y: 0, Z: 0}}, nil)
	assert.Error(t, err)
}

func TestBox(t *testing.T) {
	box := NewBox([2]float64{0.15, 0.85}, [2]float64{-0.75, 0.75})
	assert.NoError(t, box.Check())
	assert.True(t, box.Contains(r3.Vec{X: 0, Y: 0.5, Z: 0.5}))
	assert.False(t, box.Contains(r3.Vec{X: 0.1, Y: 0, Z: 0}))
	assert.False(t, box.Contains(r3.Vec{X: 0.5, Y: 0, Z: 0.8}))

	r, z := box.Dimensions()
	assert.Equal(t, [2]float64{0.15, 0.85}, r)
	assert.Equal(t, [2]float64{-0.75, 0.75}, z)

	R, phi := Cylindrical(r3.Vec{X: 0, Y: 2, Z: 7})
	assert.InDelta(t, 2.0, R, 1e-12)
	assert.InDelta(t, math.Pi/2, phi, 1e-12)

	assert.Error(t, Box{ RMin: -1, RMax: 1, ZMin: 0, ZMax: 1 }.Check())
	assert.Error(t, Box{ RMin: 0, RMax: 1, ZMin: 1, ZMax: 1 }.Check())
}
