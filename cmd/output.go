package cmd

import (
	"encoding/json"
	"fmt"

	pulserender "github.com/bnema/coremind/internal/adapters/render/pulse"
	"github.com/bnema/coremind/internal/application"
	"github.com/bnema/coremind/internal/domain"
	"github.com/spf13/cobra"
)

type pulseOutput struct {
	ID              string                 `json:"id"`
	StartedAt       string                 `json:"started_at"`
	Decision        domain.Decision        `json:"decision"`
	RevisedDecision domain.Decision        `json:"revised_decision"`
	EventKey        domain.EventKey        `json:"event_key,omitempty"`
	Fallbacks       []application.Fallback `json:"fallbacks"`
}

func toPulseOutput(result application.PulseResult) pulseOutput {
	fallbacks := result.Fallbacks
	if fallbacks == nil {
		fallbacks = []application.Fallback{}
	}

	return pulseOutput{
		ID:              result.ID,
		StartedAt:       result.StartedAt.UTC().Format("2006-01-02T15:04:05.000Z07:00"),
		Decision:        result.Decision,
		RevisedDecision: result.Revised,
		EventKey:        result.EventKey,
		Fallbacks:       fallbacks,
	}
}

func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writePulsesOutput(cmd *cobra.Command, app *app, results []application.PulseResult, actors int, asJSON bool) error {
	if asJSON {
		out := make([]pulseOutput, 0, len(results))
		for _, result := range results {
			out = append(out, toPulseOutput(result))
		}
		return writeJSON(cmd, out)
	}

	rendered, err := app.pulseRenderer(results, pulserender.RenderOptions{
		Now:    app.now(),
		Actors: actors,
	})
	if err != nil {
		return fmt.Errorf("render pulses: %w", err)
	}

	_, err = fmt.Fprintln(cmd.OutOrStdout(), rendered)
	return err
}
