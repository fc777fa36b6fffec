package cmd

import (
	"fmt"

	"github.com/bnema/coremind/internal/application"
	"github.com/bnema/coremind/internal/domain"
	"github.com/spf13/cobra"
)

func newPulseCmd(app *app) *cobra.Command {
	var (
		reportsPath  string
		outcomesPath string
		asJSON       bool
	)

	cmd := &cobra.Command{
		Use:   "pulse",
		Short: "Run one coordination cycle over a report batch",
		Long:  "pulse reads actor reports and optional outcome feedback (JSON or YAML, '-' for stdin), runs one perceive, act and reflect cycle, and prints the broadcast decision.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if reportsPath == "-" && outcomesPath == "-" {
				return fmt.Errorf("only one of --reports and --outcomes can read stdin")
			}

			batch, err := app.decoder.DecodeFile(reportsPath, cmd.InOrStdin())
			if err != nil {
				return fmt.Errorf("read reports: %w", err)
			}

			var outcomes []domain.ActorReport
			if outcomesPath != "" {
				outcomes, err = app.decoder.DecodeFile(outcomesPath, cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("read outcomes: %w", err)
				}
			}

			mind, err := app.openMind(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = mind.Close() }()

			result := mind.RunPulse(cmd.Context(), batch, outcomes)
			if asJSON {
				return writeJSON(cmd, toPulseOutput(result))
			}

			return writePulsesOutput(cmd, app, []application.PulseResult{result}, len(mind.State()), false)
		},
	}

	cmd.Flags().StringVar(&reportsPath, "reports", "", "Report batch file (JSON or YAML, '-' for stdin)")
	cmd.Flags().StringVar(&outcomesPath, "outcomes", "", "Outcome feedback batch file (JSON or YAML, '-' for stdin)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Render JSON output")
	_ = cmd.MarkFlagRequired("reports")

	return cmd
}
