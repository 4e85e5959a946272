package los

import (
	"errors"
	"fmt"

	"github.com/phil-mansfield/synthlos/los/geom"
	"github.com/phil-mansfield/synthlos/profile"
)

// GeometryError is returned when a line of sight has a degenerate direction
// or never crosses the vessel.
type GeometryError = geom.GeometryError

var (
	// ErrNoEquilibrium is returned by every operation which needs flux
	// coordinates when no equilibrium has been bound.
	ErrNoEquilibrium = errors.New("No equilibrium bound to coordinate system.")
	// ErrEquilibriumBound is returned when binding a second equilibrium.
	ErrEquilibriumBound = errors.New(
		"An equilibrium is already bound to coordinate system.",
	)
	// ErrNotMapped is returned when flux coordinates are read before they
	// have been computed.
	ErrNotMapped = errors.New("Flux coordinates have not been computed.")
)

// EquilibriumRangeError is returned when a requested time lies outside the
// time span of the bound equilibrium.
type EquilibriumRangeError struct {
	Requested Times
	TMin, TMax float64
}

func (err *EquilibriumRangeError) Error() string {
	return fmt.Sprintf(
		"Requested time %s is not available in equilibrium, which spans " +
			"[%g, %g].", err.Requested, err.TMin, err.TMax,
	)
}

// ProfileCoverageError is returned when the time axis of a profile does not
// include the requested time.
type ProfileCoverageError struct {
	Profile string
	Requested Times
	TMin, TMax float64
}

func (err *ProfileCoverageError) Error() string {
	return fmt.Sprintf(
		"Profile '%s' spans [%g, %g] and does not include requested time %s.",
		err.Profile, err.TMin, err.TMax, err.Requested,
	)
}

// UnsupportedCoordinateError is returned when a profile is defined in a
// coordinate system that cannot be projected.
type UnsupportedCoordinateError struct {
	Profile string
	Coords profile.Coordinates
}

func (err *UnsupportedCoordinateError) Error() string {
	return fmt.Sprintf(
		"Coordinates %s of profile '%s' not recognized. Profiles must be " +
			"defined in R-z, rho, or rho-theta.", err.Coords, err.Profile,
	)
}

// UnsupportedConversionError is returned by conversions from real space back
// to channel coordinates, which are not implemented.
type UnsupportedConversionError struct {
	System, Conversion string
}

func (err *UnsupportedConversionError) Error() string {
	return fmt.Sprintf(
		"%s does not implement a '%s' conversion.", err.System, err.Conversion,
	)
}
