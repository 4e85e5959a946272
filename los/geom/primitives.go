/*package geom resolves where diagnostic lines of sight cross the vessel of a
toroidal device.

The vessel is approximated by the annulus RMin <= R <= RMax, ZMin <= z <= ZMax
in cylindrical coordinates, i.e. an axis-aligned box in the (R, z) plane swept
around the z axis. Rays are given in Cartesian (x, y, z).
*/
package geom

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Box is the (R, z) bounding box of the vessel.
type Box struct {
	RMin, RMax, ZMin, ZMax float64
}

// DefaultBox is the approximate first wall of JET, which is the default used
// by most of our diagnostics.
var DefaultBox = Box{ RMin: 1.83, RMax: 3.9, ZMin: -1.75, ZMax: 2.0 }

// NewBox creates a box from ((RMin, RMax), (ZMin, ZMax)) pairs.
func NewBox(r, z [2]float64) Box {
	return Box{ RMin: r[0], RMax: r[1], ZMin: z[0], ZMax: z[1] }
}

// Check returns an error if the box is empty or has a negative inner radius.
func (b Box) Check() error {
	if b.RMin < 0 || math.IsNaN(b.RMin) {
		return fmt.Errorf("Inner vessel radius %g is negative.", b.RMin)
	} else if !(b.RMax > b.RMin) {
		return fmt.Errorf(
			"Outer vessel radius %g is not larger than inner radius %g.",
			b.RMax, b.RMin,
		)
	} else if !(b.ZMax > b.ZMin) {
		return fmt.Errorf(
			"Vessel top %g is not above vessel bottom %g.", b.ZMax, b.ZMin,
		)
	}
	return nil
}

// Contains returns true if the point is inside the vessel.
func (b Box) Contains(p r3.Vec) bool {
	R := math.Hypot(p.X, p.Y)
	return R >= b.RMin && R <= b.RMax && p.Z >= b.ZMin && p.Z <= b.ZMax
}

// Dimensions returns the box as ((RMin, RMax), (ZMin, ZMax)).
func (b Box) Dimensions() (r, z [2]float64) {
	return [2]float64{b.RMin, b.RMax}, [2]float64{b.ZMin, b.ZMax}
}

// Cylindrical returns the major radius and toroidal angle of a point.
func Cylindrical(p r3.Vec) (R, phi float64) {
	return math.Hypot(p.X, p.Y), math.Atan2(p.Y, p.X)
}

// interval is a closed range of ray parameters. Empty intervals have
// Lo > Hi.
type interval struct {
	Lo, Hi float64
}

var (
	everywhere = interval{ math.Inf(-1), math.Inf(+1) }
	nowhere = interval{ math.Inf(+1), math.Inf(-1) }
)

func (in interval) empty() bool { return !(in.Lo <= in.Hi) }

func (in interval) intersect(other interval) interval {
	return interval{ math.Max(in.Lo, other.Lo), math.Min(in.Hi, other.Hi) }
}
