package geom

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// parallelEps is the size below which a direction component is treated as
// zero.
const parallelEps = 1e-12

// GeometryError is returned when a line of sight cannot be resolved against
// the vessel.
type GeometryError struct {
	// Channel is the index of the offending line of sight, or -1 if unknown.
	Channel int
	Reason string
}

func (err *GeometryError) Error() string {
	if err.Channel < 0 {
		return fmt.Sprintf("Line of sight geometry error: %s.", err.Reason)
	}
	return fmt.Sprintf(
		"Line of sight %d geometry error: %s.", err.Channel, err.Reason,
	)
}

// Intersect finds the segment of the ray origin + s*direction, s >= 0, which
// lies inside the vessel. The segment starts where the ray first enters the
// vessel (or at the origin, if the origin is already inside) and ends at the
// first wall crossing: the outer radius, the top or bottom, or the inner
// column.
//
// direction does not need to be normalized. length is the Euclidean distance
// between start and end.
func Intersect(
	origin, direction r3.Vec, box Box,
) (start, end r3.Vec, length float64, err error) {
	if err := box.Check(); err != nil {
		return start, end, 0, &GeometryError{ -1, err.Error() }
	}

	norm := r3.Norm(direction)
	if norm == 0 || math.IsNaN(norm) || math.IsInf(norm, 0) {
		return start, end, 0, &GeometryError{ -1, "direction is degenerate" }
	}
	u := r3.Scale(1/norm, direction)

	inside := cylinder(origin, u, box.RMax).
		intersect(slab(origin.Z, u.Z, box.ZMin, box.ZMax)).
		intersect(interval{ 0, math.Inf(+1) })
	if inside.empty() || inside.Hi == inside.Lo {
		return start, end, 0, &GeometryError{
			-1, "ray does not cross the vessel boundary",
		}
	}

	// The inner column cuts the segment short, or pushes the start forward if
	// the ray begins inside the column.
	column := cylinder(origin, u, box.RMin)
	if !column.empty() {
		if column.Lo <= inside.Lo && inside.Lo < column.Hi {
			inside.Lo = column.Hi
		} else if column.Lo > inside.Lo && column.Lo < inside.Hi {
			inside.Hi = column.Lo
		}
	}
	if !(inside.Hi > inside.Lo) {
		return start, end, 0, &GeometryError{
			-1, "ray only crosses the vessel inside the central column",
		}
	}

	start = r3.Add(origin, r3.Scale(inside.Lo, u))
	end = r3.Add(origin, r3.Scale(inside.Hi, u))
	return start, end, inside.Hi - inside.Lo, nil
}

// cylinder returns the parameter range over which the ray o + s*u lies within
// radius r of the z axis.
func cylinder(o, u r3.Vec, r float64) interval {
	a := u.X*u.X + u.Y*u.Y
	b := 2 * (o.X*u.X + o.Y*u.Y)
	c := o.X*o.X + o.Y*o.Y - r*r

	if a < parallelEps {
		if c <= 0 { return everywhere }
		return nowhere
	}

	disc := b*b - 4*a*c
	if disc < 0 { return nowhere }
	sq := math.Sqrt(disc)
	return interval{ (-b - sq) / (2*a), (-b + sq) / (2*a) }
}

// slab returns the parameter range over which z0 + s*uz lies in [zMin, zMax].
func slab(z0, uz, zMin, zMax float64) interval {
	if math.Abs(uz) < parallelEps {
		if z0 >= zMin && z0 <= zMax { return everywhere }
		return nowhere
	}
	s1, s2 := (zMin - z0) / uz, (zMax - z0) / uz
	if s1 > s2 { s1, s2 = s2, s1 }
	return interval{ s1, s2 }
}

// Segment is a resolved line of sight.
type Segment struct {
	Origin, Direction r3.Vec
	Start, End r3.Vec
	// Length is the true geometric length between Start and End.
	Length float64
}

// Resolver intersects many lines of sight with the same vessel.
//
// Resolvers should not be shared between threads.
type Resolver struct {
	Box Box
	segs []Segment
}

// NewResolver creates a Resolver for the given vessel.
func NewResolver(box Box) *Resolver {
	return &Resolver{ Box: box }
}

// Resolve intersects every (origin, direction) pair with the vessel. The
// returned slice is reused by subsequent calls. The first failing channel is
// reported as a *GeometryError carrying its index.
func (res *Resolver) Resolve(origins, directions []r3.Vec) ([]Segment, error) {
	if len(origins) != len(directions) {
		return nil, fmt.Errorf(
			"%d origins given, but %d directions.",
			len(origins), len(directions),
		)
	}

	if cap(res.segs) >= len(origins) {
		res.segs = res.segs[:len(origins)]
	} else {
		res.segs = make([]Segment, len(origins))
	}

	for i := range origins {
		start, end, length, err := Intersect(origins[i], directions[i], res.Box)
		if err != nil {
			gerr := err.(*GeometryError)
			gerr.Channel = i
			return nil, gerr
		}
		res.segs[i] = Segment{
			Origin: origins[i], Direction: directions[i],
			Start: start, End: end, Length: length,
		}
	}
	return res.segs, nil
}
