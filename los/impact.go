package los

import (
	"math"
)

// ImpactParameter is the point of closest approach of a line of sight to the
// origin of the coordinate system.
type ImpactParameter struct {
	// Index is the sample index of the closest approach, or -1 if the
	// channel has no valid samples.
	Index int
	Value float64
	X, Y, Z, R float64
}

func impactParameters(g *SampleGrid) []ImpactParameter {
	out := make([]ImpactParameter, len(g.X))
	for c := range out {
		ip := ImpactParameter{
			Index: -1, Value: math.NaN(),
			X: math.NaN(), Y: math.NaN(), Z: math.NaN(), R: math.NaN(),
		}
		for i := range g.X[c] {
			if !g.Valid[c][i] { continue }
			x, y, z := g.X[c][i], g.Y[c][i], g.Z[c][i]
			d := math.Sqrt(x*x + y*y + z*z)
			if ip.Index == -1 || d < ip.Value {
				ip.Index, ip.Value = i, d
				ip.X, ip.Y, ip.Z = x, y, z
				ip.R = math.Sqrt(x*x + y*y)
			}
		}
		out[c] = ip
	}
	return out
}

// ImpactParameters returns the closest approach of every channel. It is
// computed when the rays are sampled. The slice must not be modified.
func (l *LineOfSight) ImpactParameters() []ImpactParameter {
	return l.impact
}
