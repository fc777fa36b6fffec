package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return newRootCmd().ExecuteContext(ctx)
}

func newRootCmd() *cobra.Command {
	app := &app{}

	rootCmd := &cobra.Command{
		Use:           "coremind",
		Short:         "coremind: central coordination for reporting actors",
		Long:          "coremind folds actor reports into a world state, decides how to allocate resources, learns from outcome feedback, and remembers every cycle.",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Annotations[skipWiringAnnotation] == "true" {
				return nil
			}
			return app.wire(cmd.ErrOrStderr())
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			app.sync()
		},
	}

	rootCmd.PersistentFlags().StringVar(&app.configFile, "config", "", "Config file (default: ~/.coremind/config.toml)")

	rootCmd.AddCommand(
		newVersionCmd(),
		newPulseCmd(app),
		newRunCmd(app),
		newMemoryCmd(app),
	)

	return rootCmd
}
