package io

import (
	"fmt"
	"math"
	"sort"

	"github.com/phil-mansfield/table"

	"github.com/phil-mansfield/synthlos/equilibrium"
	"github.com/phil-mansfield/synthlos/profile"
)

// Channels holds the viewing geometry of every channel of an instrument.
type Channels struct {
	OriginX, OriginY, OriginZ []float64
	DirectionX, DirectionY, DirectionZ []float64
}

// Len returns the number of channels.
func (ch *Channels) Len() int { return len(ch.OriginX) }

// ReadChannels reads a channel table with the columns origin x, y, z and
// direction x, y, z.
func ReadChannels(file string) (*Channels, error) {
	cols, err := table.ReadTable(file, []int{0, 1, 2, 3, 4, 5}, nil)
	if err != nil { return nil, err }
	if len(cols[0]) == 0 {
		return nil, fmt.Errorf("Channel file '%s' is empty.", file)
	}

	return &Channels{
		OriginX: cols[0], OriginY: cols[1], OriginZ: cols[2],
		DirectionX: cols[3], DirectionY: cols[4], DirectionZ: cols[5],
	}, nil
}

// ReadProfile reads a profile table. Rho profiles have the columns time, rho,
// value and other profiles have the columns time, x, y, value. Every point of
// the implied grid must appear exactly once. If static is set, the table must
// contain a single time and the profile has no time axis.
func ReadProfile(
	file, name string, coords profile.Coordinates, static bool,
) (*profile.Profile, error) {
	if coords == profile.Unknown {
		return nil, fmt.Errorf(
			"Cannot read profile '%s' in unknown coordinates.", name,
		)
	}

	colIdxs := []int{0, 1, 2, 3}
	if coords == profile.Rho { colIdxs = []int{0, 1, 2} }
	cols, err := table.ReadTable(file, colIdxs, nil)
	if err != nil { return nil, err }

	keys, vals := cols[:len(cols) - 1], cols[len(cols) - 1]
	axes, grid, err := gridColumns(keys, vals)
	if err != nil {
		return nil, fmt.Errorf("Profile file '%s': %s", file, err.Error())
	}

	times := axes[0]
	if static {
		if len(times) != 1 {
			return nil, fmt.Errorf(
				"Static profile file '%s' contains %d times.",
				file, len(times),
			)
		}
		times = nil
	}

	if coords == profile.Rho {
		return profile.New(name, coords, axes[1], nil, times, grid)
	}
	return profile.New(name, coords, axes[1], axes[2], times, grid)
}

// ReadEquilibriumGrid reads a tabulated equilibrium with the columns time, R,
// z, rho. The magnetic axis of each time slice is taken to be the grid point
// with the smallest rho.
func ReadEquilibriumGrid(file string) (*equilibrium.Grid, error) {
	cols, err := table.ReadTable(file, []int{0, 1, 2, 3}, nil)
	if err != nil { return nil, err }

	axes, rho, err := gridColumns(cols[:3], cols[3])
	if err != nil {
		return nil, fmt.Errorf("Equilibrium file '%s': %s", file, err.Error())
	}
	times, R, z := axes[0], axes[1], axes[2]

	n := len(R)*len(z)
	axisR, axisZ := make([]float64, len(times)), make([]float64, len(times))
	for it := range times {
		slice := rho[it*n: (it+1)*n]
		min := 0
		for i := range slice {
			if slice[i] < slice[min] { min = i }
		}
		axisR[it], axisZ[it] = R[min / len(z)], z[min % len(z)]
	}

	return equilibrium.NewGrid(R, z, times, axisR, axisZ, rho)
}

// gridColumns converts a table whose rows are (key_0, ..., key_n, value)
// into sorted axes and values laid out with the last key varying fastest.
func gridColumns(keys [][]float64, vals []float64) ([][]float64, []float64, error) {
	if len(vals) == 0 {
		return nil, nil, fmt.Errorf("table is empty.")
	}

	axes := make([][]float64, len(keys))
	for k := range keys {
		for row, x := range keys[k] {
			if math.IsNaN(x) {
				return nil, nil, fmt.Errorf(
					"row %d has a NaN coordinate.", row,
				)
			}
		}
		axes[k] = unique(keys[k])
	}

	n := 1
	for k := range axes { n *= len(axes[k]) }
	if n != len(vals) {
		return nil, nil, fmt.Errorf(
			"%d rows given, but the grid has %d points.", len(vals), n,
		)
	}

	grid := make([]float64, n)
	seen := make([]bool, n)
	for row := range vals {
		idx := 0
		for k := range axes {
			i := sort.SearchFloat64s(axes[k], keys[k][row])
			idx = idx*len(axes[k]) + i
		}
		if seen[idx] {
			return nil, nil, fmt.Errorf("row %d repeats a grid point.", row)
		}
		seen[idx], grid[idx] = true, vals[row]
	}

	return axes, grid, nil
}

// unique returns the sorted distinct values of xs.
func unique(xs []float64) []float64 {
	sorted := append([]float64(nil), xs...)
	sort.Float64s(sorted)
	out := []float64{}
	for i, x := range sorted {
		if i == 0 || x != sorted[i-1] { out = append(out, x) }
	}
	return out
}
