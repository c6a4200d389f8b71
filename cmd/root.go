// Package cmd provides the root command and CLI setup for tqec.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/QCHackers/tqec-sub002/internal/adapter"
	"github.com/QCHackers/tqec-sub002/internal/controller"
	m "github.com/QCHackers/tqec-sub002/internal/model"
)

var fsAdapter adapter.CircuitFSAdapter

// coordsPathFlag points at a YAML file mapping qubit indices to coordinates.
var coordsPathFlag string

// tuiFlag switches circuit display to the interactive pager.
var tuiFlag bool

// verboseFlag raises the log level to debug.
var verboseFlag bool

func init() {
	configureRootFlags(rootCmd)

	// Initialize shared dependencies.
	fsAdapter = adapter.NewLocalCircuitFSAdapter()
}

const recordSemanticsHelp = `Detector targets use backward record offsets:
  - rec[-1]        the most recent measurement
  - rec[-k]        the k-th most recent measurement
Offsets are relative to the point in the circuit where the
annotation appears.`

const rootLongDescription = `Tqec annotates stabilizer circuits with DETECTOR instructions by
propagating stabilizer flows from resets to the measurements that pin
their parity. Circuits are read and written in stim text format.

` + recordSemanticsHelp

const annotateLongDescription = `Infer detectors for the given circuit files and write the annotated
circuits back out.

` + recordSemanticsHelp

// rootCmd represents the base command when called without any subcommands.
var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tqec",
		Short: "Detector annotation for stabilizer circuits",
		Long:  rootLongDescription,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			configureLogger("", verboseFlag)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
}

func configureRootFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().
		StringVarP(
			&coordsPathFlag, coordsFlagName, "c",
			viper.GetString(coordsConfigKey),
			"YAML file mapping qubit indices to coordinates",
		)
	bindFlagToConfig(cmd.PersistentFlags().Lookup(coordsFlagName), coordsConfigKey)

	cmd.PersistentFlags().BoolVar(&tuiFlag, tuiFlagName, viper.GetBool(tuiConfigKey), "display circuits in an interactive pager")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(tuiFlagName), tuiConfigKey)

	cmd.PersistentFlags().BoolVarP(&verboseFlag, verboseFlagName, "v", viper.GetBool(logVerboseKey), "enable debug logging")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(verboseFlagName), logVerboseKey)
}

// bindFlagToConfig wires a Cobra flag to a Viper key so config/env values feed the flag.
func bindFlagToConfig(flag *pflag.Flag, key string) {
	if flag == nil {
		cobra.CheckErr(fmt.Errorf("flag for config key %q not found", key))
		return
	}

	cobra.CheckErr(viper.BindPFlag(key, flag))
}

// selectUI picks the interactive pager or the plain table renderer.
func selectUI(cmd *cobra.Command) controller.UI {
	simple := controller.NewSimpleUI(cmd)
	if viper.GetBool(tuiConfigKey) {
		return controller.NewTUI(cmd.OutOrStdout(), simple)
	}

	return simple
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

// loadCoords reads the coordinate overlay named by the coords flag, if any.
func loadCoords() (m.CoordsMap, error) {
	path := viper.GetString(coordsConfigKey)
	if path == "" {
		return nil, nil
	}

	coords, err := adapter.LoadCoords(fsAdapter, path)
	if err != nil {
		return nil, fmt.Errorf("failed to load coordinates: %w", err)
	}

	return coords, nil
}
