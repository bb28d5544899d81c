// Public domain.

// Package psprog is the pointspec command.
package psprog

import (
	"log/slog"

	"github.com/lmittmann/tint"
	"github.com/soniakeys/exit"
	"github.com/spf13/cobra"
)

const versionString = "pointspec version 0.3 Go source."
const copyrightString = "Public domain."

func Main() {
	defer exit.Handler()
	if err := newRootCommand().Execute(); err != nil {
		exit.Log(err)
	}
}

func newRootCommand() *cobra.Command {
	var verbose bool
	root := &cobra.Command{
		Use:   "pointspec",
		Short: "Evaluate point source spectral models",
		Long: `pointspec evaluates spectral models of gamma-ray point sources:
photon flux density, integral and energy fluxes with errors propagated
from a fit covariance, expected counts under an exposure, and pivot
energies.

Source files are YAML.  See "pointspec help show" for the format.`,
		Version:       versionString + "\n" + copyrightString,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelInfo
			if verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(
				tint.NewHandler(cmd.ErrOrStderr(), &tint.Options{
					Level:      level,
					TimeFormat: "15:04:05",
				}),
			))
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"log debug detail, such as unconverged integrals")

	root.AddCommand(newModelsCommand())
	root.AddCommand(newEvalCommand())
	root.AddCommand(newShowCommand())
	root.AddCommand(newFluxCommand())
	root.AddCommand(newCountsCommand())
	root.AddCommand(newPivotCommand())
	return root
}
