package main

import (
	"fmt"
	"log"
	"time"

	"github.com/spf13/cobra"

	"github.com/phil-mansfield/synthlos/equilibrium"
	"github.com/phil-mansfield/synthlos/io"
	"github.com/phil-mansfield/synthlos/logging"
	"github.com/phil-mansfield/synthlos/los"
	"github.com/phil-mansfield/synthlos/profile"
)

// readConfig reads a config file and checks its [LineOfSight] section.
func readConfig(fname string) (*io.Wrapper, error) {
	wrap, err := io.ReadConfig(fname)
	if err != nil { return nil, err }
	if err := wrap.LineOfSight.Check(); err != nil { return nil, err }
	return wrap, nil
}

func loadLineOfSight(con *io.LineOfSightConfig) (*los.LineOfSight, error) {
	ch, err := io.ReadChannels(con.ChannelFile)
	if err != nil { return nil, err }

	return los.New(
		ch.OriginX, ch.OriginY, ch.OriginZ,
		ch.DirectionX, ch.DirectionY, ch.DirectionZ,
		con.Name, con.Box(), con.DL, con.Passes,
	)
}

func loadEquilibrium(con *io.EquilibriumConfig) (los.Equilibrium, error) {
	if err := con.Check(); err != nil { return nil, err }
	if con.IsGrid() { return io.ReadEquilibriumGrid(con.GridFile) }
	return equilibrium.NewCircular(con.R0, con.Z0, con.A, con.TMin, con.TMax)
}

func loadProfile(con *io.ProfileConfig) (*profile.Profile, los.Times, error) {
	if err := con.Check(); err != nil { return nil, los.Times{}, err }

	p, err := io.ReadProfile(
		con.File, con.ProfileName(),
		profile.ParseCoordinates(con.Coordinates), con.Static,
	)
	if err != nil { return nil, los.Times{}, err }

	if con.Span { return p, los.Span(con.Time...), nil }
	return p, los.At(con.Time[0]), nil
}

// setup reads the config, opens the log files and builds the lines of sight.
// The FileGroup must be closed by the caller.
func setup(fname string) (*io.Wrapper, *los.LineOfSight, *FileGroup, error) {
	wrap, err := readConfig(fname)
	if err != nil { return nil, nil, nil, err }

	fg, err := setupIO(&wrap.LineOfSight)
	if err != nil { return nil, nil, nil, err }

	l, err := loadLineOfSight(&wrap.LineOfSight)
	if err != nil {
		fg.Close()
		return nil, nil, nil, err
	}

	return wrap, l, fg, nil
}

func runIntegrate(cmd *cobra.Command, args []string) error {
	t0 := time.Now()

	wrap, l, fg, err := setup(args[0])
	if err != nil { return err }
	defer fg.Close()

	eq, err := loadEquilibrium(&wrap.Equilibrium)
	if err != nil { return err }
	if err := l.SetEquilibrium(eq); err != nil { return err }

	p, ts, err := loadProfile(&wrap.Profile)
	if err != nil { return err }

	res, err := l.IntegrateOnLOS(p, ts, wrap.Profile.LimitToSep, calcRho)
	if err != nil { return err }

	logging.Perff(
		"Integrated '%s' along %d lines of sight in %s. %s",
		p.Name, l.Channels(), time.Since(t0), logging.MemString(),
	)

	return io.WriteIntegral(cmd.OutOrStdout(), res)
}

func runGeometry(cmd *cobra.Command, args []string) error {
	_, l, fg, err := setup(args[0])
	if err != nil { return err }
	defer fg.Close()

	return io.WriteGeometry(cmd.OutOrStdout(), l)
}

func runImpact(cmd *cobra.Command, args []string) error {
	wrap, l, fg, err := setup(args[0])
	if err != nil { return err }
	defer fg.Close()

	var impactRho [][]float64
	if wrap.Equilibrium.Kind != "" {
		eq, err := loadEquilibrium(&wrap.Equilibrium)
		if err != nil { return err }
		if err := l.SetEquilibrium(eq); err != nil { return err }

		tMin, _ := eq.TimeRange()
		ts := los.At(tMin)
		if len(wrap.Profile.Time) > 0 {
			ts = los.Span(wrap.Profile.Time...)
		}
		if _, _, err := l.ConvertToRhoTheta(ts); err != nil { return err }
		if impactRho, err = l.ImpactRho(); err != nil { return err }
	}

	return io.WriteImpact(cmd.OutOrStdout(), l.ImpactParameters(), impactRho)
}

func runPlot(cmd *cobra.Command, args []string) error {
	_, l, fg, err := setup(args[0])
	if err != nil { return err }
	defer fg.Close()

	plotLineOfSight(l, plotFile)
	log.Printf("Wrote figures of '%s' based on %s.", l.Name, plotFile)
	return nil
}

func runExampleConfig(cmd *cobra.Command, args []string) error {
	text, err := io.ExampleConfig(args[0])
	if err != nil { return err }
	_, err = fmt.Fprintln(cmd.OutOrStdout(), text)
	return err
}
