package cmd

import (
	"context"
	"fmt"

	"github.com/bnema/coremind/internal/adapters/sim"
	"github.com/bnema/coremind/internal/application"
	"github.com/spf13/cobra"
)

func newRunCmd(app *app) *cobra.Command {
	var (
		cycles int
		actors int
		seed   uint64
		noise  float64
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Drive the mind with a simulated market and actors",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cycles <= 0 {
				return fmt.Errorf("--cycles must be positive, got %d", cycles)
			}

			mind, err := app.openMind(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = mind.Close() }()

			simulation, err := sim.New(mind, sim.Config{Actors: actors, Seed: seed, Noise: noise}, app.logger)
			if err != nil {
				return err
			}

			var results []application.PulseResult
			simulate := func(ctx context.Context, progress func(string)) error {
				done := 0
				var err error
				results, err = simulation.Run(ctx, cycles, func(result application.PulseResult) {
					done++
					if progress != nil {
						progress(fmt.Sprintf("Simulating cycle %d/%d, last decision %s...", done, cycles, result.Decision))
					}
				})
				return err
			}

			if asJSON {
				err = simulate(cmd.Context(), nil)
			} else {
				err = runWithSpinner(cmd.Context(), cmd.ErrOrStderr(), fmt.Sprintf("Simulating %d cycles...", cycles), simulate)
			}
			if err != nil {
				return err
			}

			return writePulsesOutput(cmd, app, results, actors, asJSON)
		},
	}

	cmd.Flags().IntVar(&cycles, "cycles", 5, "Number of pulses to run")
	cmd.Flags().IntVar(&actors, "actors", 3, "Number of simulated actors")
	cmd.Flags().Uint64Var(&seed, "seed", 1, "Random seed for the market and actors")
	cmd.Flags().Float64Var(&noise, "noise", 0.2, "Chance an actor misreads the market")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Render JSON output")

	return cmd
}
