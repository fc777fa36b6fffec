package cmd

import (
	"errors"
	"fmt"
	"sort"

	"github.com/bnema/coremind/internal/domain"
	"github.com/bnema/coremind/internal/ports"
	"github.com/spf13/cobra"
)

func newMemoryCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "memory",
		Short: "Inspect persisted world state snapshots",
	}

	cmd.AddCommand(
		newMemoryListCmd(app),
		newMemoryRecentCmd(app),
		newMemoryGetCmd(app),
	)

	return cmd
}

func withMemory(app *app, fn func(memory ports.MemoryStore) error) error {
	memory, err := app.openMemory()
	if err != nil {
		return err
	}
	defer func() { _ = memory.Close() }()

	return fn(memory)
}

func newMemoryListCmd(app *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored events oldest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withMemory(app, func(memory ports.MemoryStore) error {
				all, err := memory.LoadAll(cmd.Context())
				if err != nil {
					return err
				}

				keys := make([]domain.EventKey, 0, len(all))
				for key := range all {
					keys = append(keys, key)
				}
				sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

				if asJSON {
					return writeJSON(cmd, keys)
				}
				if len(keys) == 0 {
					_, err := fmt.Fprintln(cmd.OutOrStdout(), "no events stored")
					return err
				}

				for _, key := range keys {
					if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%s  %s\n", key, describeSnapshot(all[key])); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Render JSON output")

	return cmd
}

func describeSnapshot(payload domain.Payload) string {
	state, err := domain.WorldStateFromSnapshot(payload)
	if err != nil {
		return fmt.Sprintf("%d keys", len(payload))
	}
	return fmt.Sprintf("actors=%d reports=%d", len(state), state.ReportCount())
}

func newMemoryRecentCmd(app *app) *cobra.Command {
	var n int

	cmd := &cobra.Command{
		Use:   "recent",
		Short: "Print the most recent snapshots as JSON, oldest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !cmd.Flags().Changed("n") {
				n = app.cfg.Memory.Recent
			}

			return withMemory(app, func(memory ports.MemoryStore) error {
				recent, err := memory.Recent(cmd.Context(), n)
				if err != nil {
					return err
				}
				return writeJSON(cmd, recent)
			})
		},
	}

	cmd.Flags().IntVarP(&n, "n", "n", 10, "Number of events (default: memory.recent)")

	return cmd
}

func newMemoryGetCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Print one stored snapshot as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withMemory(app, func(memory ports.MemoryStore) error {
				payload, err := memory.Get(cmd.Context(), domain.EventKey(args[0]))
				if errors.Is(err, domain.ErrEventNotFound) {
					return fmt.Errorf("event %q: %w", args[0], err)
				}
				if err != nil {
					return err
				}
				return writeJSON(cmd, payload)
			})
		},
	}
}
