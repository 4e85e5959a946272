package main

import (
	"log"
	"os"
	"runtime/pprof"

	"github.com/spf13/cobra"

	"github.com/phil-mansfield/synthlos/io"
	"github.com/phil-mansfield/synthlos/logging"
)

// FileGroup contains utility files for logging and writing profiles to.
type FileGroup struct {
	log, prof *os.File
}

// Close closes the files inside FileGroup and restores the standard logger.
func (fg *FileGroup) Close() {
	if fg.log != nil {
		log.SetOutput(os.Stderr)
		err := fg.log.Close()
		if err != nil { log.Fatal(err.Error()) }
	}

	if fg.prof != nil {
		pprof.StopCPUProfile()
		err := fg.prof.Close()
		if err != nil { log.Fatal(err.Error()) }
	}
}

// setupIO sets the logging mode and opens the log and CPU profile files
// requested by the config.
func setupIO(con *io.LineOfSightConfig) (*FileGroup, error) {
	var err error
	fg := &FileGroup{}

	logging.Mode, err = logging.ParseFlag(con.LogMode)
	if err != nil { return nil, err }

	if con.ValidLogFile() {
		fg.log, err = os.Create(con.LogFile)
		if err != nil { return nil, err }
		log.SetOutput(fg.log)
	}

	if con.ValidProfileFile() {
		fg.prof, err = os.Create(con.ProfileFile)
		if err != nil {
			fg.Close()
			return nil, err
		}
		err = pprof.StartCPUProfile(fg.prof)
		if err != nil {
			fg.Close()
			return nil, err
		}
	}

	return fg, nil
}

var (
	calcRho bool
	plotFile string

	rootCmd = &cobra.Command{
		Use:   "synthlos",
		Short: "Forward models for line-of-sight plasma diagnostics",
		Long: `synthlos resolves diagnostic lines of sight against a vessel,
samples them, maps them to flux coordinates and integrates profiles along
them. Every command except example-config takes a config file with a
[LineOfSight] section; see 'synthlos example-config'.`,
		SilenceUsage: true,
	}

	integrateCmd = &cobra.Command{
		Use:   "integrate [config]",
		Short: "Integrate the [Profile] along every line of sight",
		Args:  cobra.ExactArgs(1),
		RunE:  runIntegrate,
	}

	geometryCmd = &cobra.Command{
		Use:   "geometry [config]",
		Short: "Print where every line of sight enters and leaves the vessel",
		Args:  cobra.ExactArgs(1),
		RunE:  runGeometry,
	}

	impactCmd = &cobra.Command{
		Use:   "impact [config]",
		Short: "Print the impact parameter of every line of sight",
		Long: `Print the point of closest approach of every line of sight. If the
config has [Equilibrium] and [Profile] sections, the smallest rho along each
line of sight is printed for every profile time.`,
		Args:  cobra.ExactArgs(1),
		RunE:  runImpact,
	}

	plotCmd = &cobra.Command{
		Use:   "plot [config]",
		Short: "Plot the lines of sight in the poloidal and toroidal planes",
		Args:  cobra.ExactArgs(1),
		RunE:  runPlot,
	}

	exampleCmd = &cobra.Command{
		Use:   "example-config [LineOfSight | Profile | Equilibrium]",
		Short: "Print an example config section to stdout",
		Args:  cobra.ExactArgs(1),
		RunE:  runExampleConfig,
	}
)

func init() {
	integrateCmd.Flags().BoolVar(
		&calcRho, "calc-rho", false,
		"Recompute flux coordinates even if they are cached.",
	)
	plotCmd.Flags().StringVarP(
		&plotFile, "output", "o", "los.png", "File the figure is saved to.",
	)

	rootCmd.AddCommand(integrateCmd, geometryCmd, impactCmd, plotCmd, exampleCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil { log.Fatal(err.Error()) }
}
