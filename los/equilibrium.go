package los

// Equilibrium maps real space to flux coordinates. It is usually backed by a
// magnetic reconstruction.
type Equilibrium interface {
	// FluxCoords returns rho and theta at every (R[i], z[i]) for time t.
	// NaN inputs must produce NaN outputs.
	FluxCoords(R, z []float64, t float64) (rho, theta []float64, err error)
	// TimeRange returns the times spanned by the reconstruction.
	TimeRange() (tMin, tMax float64)
}
