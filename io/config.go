package io

import (
	"fmt"
	"strings"

	"gopkg.in/gcfg.v1"

	"github.com/phil-mansfield/synthlos/logging"
	"github.com/phil-mansfield/synthlos/los/geom"
	"github.com/phil-mansfield/synthlos/profile"
)

const (
	ExampleLineOfSightFile = `[LineOfSight]

#######################
# Required Parameters #
#######################

# Table with one line of sight per row. The six columns are the x, y, and z
# coordinates of the viewing origin followed by the x, y, and z components of
# the viewing direction, all in meters. Lines starting with '#' are skipped.
ChannelFile = path/to/channels.txt

#######################
# Optional Parameters #
#######################

# Name of the instrument. Used in log messages and plot titles.
# Name = KK3

# Sample spacing along each line of sight in meters. Default is 0.01.
# DL = 0.01

# Number of times each line of sight crosses the plasma, e.g. 2 for
# interferometers with a retro-reflector. Default is 1.
# Passes = 1

# (R, z) bounding box of the vessel in meters. Defaults are the JET first wall.
# RMin = 1.83
# RMax = 3.9
# ZMin = -1.75
# ZMax = 2.0

# Output files which are useful for profiling and debugging.
# ProfileFile = prof.out
# LogFile = log.out

# One of [ Nil | Performance | Debug ]. Default is Nil.
# LogMode = Debug`

	ExampleProfileFile = `[Profile]

#######################
# Required Parameters #
#######################

# Table with one grid point per row. Columns are time, the first coordinate,
# the second coordinate (skipped for rho profiles), and the value.
File = path/to/profile.txt

# Coordinate system of the profile. Must be one of
# [ R-z | rho | rho-theta ].
Coordinates = rho

# Times the profile is evaluated at. Give one Time for a single measurement.
# Several Time lines are evaluated together and need Span = true.
Time = 50.0

#######################
# Optional Parameters #
#######################

# Treat the Time values as a span: the profile is interpolated in time instead
# of being matched to its nearest time slice.
# Span = false

# Ignore the time column of File and treat the profile as constant in time.
# Static = false

# Set the profile to zero outside the separatrix (rho > 1). Only applies to
# rho and rho-theta profiles.
# LimitToSep = false

# Name of the profile. Default is the file name.
# Name = ne`

	ExampleEquilibriumFile = `[Equilibrium]

#######################
# Required Parameters #
#######################

# Must be one of [ Circular | Grid ].
Kind = Circular

# Time range the equilibrium is valid over.
TMin = 40
TMax = 60

# Circular equilibria: magnetic axis and minor radius, in meters.
R0 = 2.96
Z0 = 0.3
A = 0.95

#######################
# Optional Parameters #
#######################

# Grid equilibria: table with the columns time, R, z, rho. The time range is
# taken from the table and TMin and TMax are ignored.
# GridFile = path/to/equilibrium.txt`
)

type LineOfSightConfig struct {
	// Required
	ChannelFile string

	// Optional
	Name string
	DL float64
	Passes int
	RMin, RMax, ZMin, ZMax float64
	LogFile, ProfileFile, LogMode string
}

func DefaultLineOfSightConfig() LineOfSightConfig {
	box := geom.DefaultBox
	return LineOfSightConfig{
		Name: "LineOfSight", DL: 0.01, Passes: 1,
		RMin: box.RMin, RMax: box.RMax, ZMin: box.ZMin, ZMax: box.ZMax,
		LogMode: "Nil",
	}
}

func (con *LineOfSightConfig) ValidChannelFile() bool {
	return con.ChannelFile != ""
}
func (con *LineOfSightConfig) ValidDL() bool {
	return con.DL > 0
}
func (con *LineOfSightConfig) ValidPasses() bool {
	return con.Passes > 0
}
func (con *LineOfSightConfig) ValidBox() bool {
	return con.Box().Check() == nil
}
func (con *LineOfSightConfig) ValidLogFile() bool {
	return con.LogFile != ""
}
func (con *LineOfSightConfig) ValidProfileFile() bool {
	return con.ProfileFile != ""
}
func (con *LineOfSightConfig) ValidLogMode() bool {
	_, err := logging.ParseFlag(con.LogMode)
	return err == nil
}

// Box returns the vessel box described by the config.
func (con *LineOfSightConfig) Box() geom.Box {
	return geom.Box{
		RMin: con.RMin, RMax: con.RMax, ZMin: con.ZMin, ZMax: con.ZMax,
	}
}

// Check returns an error describing the first invalid value.
func (con *LineOfSightConfig) Check() error {
	if !con.ValidChannelFile() {
		return fmt.Errorf("Invalid/non-existent 'ChannelFile' value.")
	} else if !con.ValidDL() {
		return fmt.Errorf("Invalid 'DL' value, %g.", con.DL)
	} else if !con.ValidPasses() {
		return fmt.Errorf("Invalid 'Passes' value, %d.", con.Passes)
	} else if !con.ValidLogMode() {
		return fmt.Errorf("Invalid 'LogMode' value, '%s'.", con.LogMode)
	} else if err := con.Box().Check(); err != nil {
		return fmt.Errorf("Invalid vessel box: %s", err.Error())
	}
	return nil
}

type ProfileConfig struct {
	// Required
	File string
	Coordinates string
	Time []float64

	// Optional
	Name string
	Span, Static, LimitToSep bool
}

func (con *ProfileConfig) ValidFile() bool {
	return con.File != ""
}
func (con *ProfileConfig) ValidCoordinates() bool {
	return profile.ParseCoordinates(con.Coordinates) != profile.Unknown
}
func (con *ProfileConfig) ValidTime() bool {
	if con.Span { return len(con.Time) > 0 }
	return len(con.Time) == 1
}

// Check returns an error describing the first invalid value.
func (con *ProfileConfig) Check() error {
	if !con.ValidFile() {
		return fmt.Errorf("Invalid/non-existent 'File' value.")
	} else if !con.ValidCoordinates() {
		return fmt.Errorf(
			"'Coordinates' must be one of [ R-z | rho | rho-theta ], but " +
				"is '%s'.", con.Coordinates,
		)
	} else if !con.ValidTime() {
		if con.Span {
			return fmt.Errorf("At least one 'Time' value is required.")
		}
		return fmt.Errorf(
			"Exactly one 'Time' value is required unless 'Span' is set, " +
				"but %d were given.", len(con.Time),
		)
	}
	return nil
}

// ProfileName returns Name if it is set and the file name otherwise.
func (con *ProfileConfig) ProfileName() string {
	if con.Name != "" { return con.Name }
	return con.File
}

type EquilibriumConfig struct {
	// Required
	Kind string
	TMin, TMax float64

	// Circular
	R0, Z0, A float64

	// Grid
	GridFile string
}

func (con *EquilibriumConfig) ValidKind() bool {
	switch strings.ToLower(con.Kind) {
	case "circular", "grid":
		return true
	}
	return false
}
func (con *EquilibriumConfig) ValidTimeRange() bool {
	return con.TMax >= con.TMin
}
func (con *EquilibriumConfig) ValidA() bool {
	return con.A > 0
}
func (con *EquilibriumConfig) ValidGridFile() bool {
	return con.GridFile != ""
}

// IsGrid returns true if the equilibrium is read from a table.
func (con *EquilibriumConfig) IsGrid() bool {
	return strings.ToLower(con.Kind) == "grid"
}

// Check returns an error describing the first invalid value.
func (con *EquilibriumConfig) Check() error {
	if !con.ValidKind() {
		return fmt.Errorf(
			"'Kind' must be one of [ Circular | Grid ], but is '%s'.",
			con.Kind,
		)
	}
	if con.IsGrid() {
		if !con.ValidGridFile() {
			return fmt.Errorf("Grid equilibria need a 'GridFile' value.")
		}
		return nil
	}

	if !con.ValidA() {
		return fmt.Errorf("Invalid 'A' value, %g.", con.A)
	} else if !con.ValidTimeRange() {
		return fmt.Errorf(
			"'TMin' = %g is larger than 'TMax' = %g.", con.TMin, con.TMax,
		)
	}
	return nil
}

// Wrapper is the layout of a synthlos config file. A file may contain any of
// the sections; which ones are required depends on the command being run.
type Wrapper struct {
	LineOfSight LineOfSightConfig
	Profile ProfileConfig
	Equilibrium EquilibriumConfig
}

func DefaultWrapper() *Wrapper {
	return &Wrapper{ LineOfSight: DefaultLineOfSightConfig() }
}

// ReadConfig reads a config file on top of the default values.
func ReadConfig(fname string) (*Wrapper, error) {
	wrap := DefaultWrapper()
	if err := gcfg.ReadFileInto(wrap, fname); err != nil {
		return nil, err
	}
	return wrap, nil
}

// ReadConfigString is ReadConfig for a config which is already in memory.
func ReadConfigString(str string) (*Wrapper, error) {
	wrap := DefaultWrapper()
	if err := gcfg.ReadStringInto(wrap, str); err != nil {
		return nil, err
	}
	return wrap, nil
}

// ExampleConfig returns the example config for a section name.
func ExampleConfig(section string) (string, error) {
	switch strings.ToLower(section) {
	case "lineofsight":
		return ExampleLineOfSightFile, nil
	case "profile":
		return ExampleProfileFile, nil
	case "equilibrium":
		return ExampleEquilibriumFile, nil
	}
	return "", fmt.Errorf(
		"No example config for '%s'. Accepted arguments are " +
			"'LineOfSight', 'Profile', and 'Equilibrium'.", section,
	)
}
