package sim

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/bnema/coremind/internal/adapters/analysis"
	memorytoml "github.com/bnema/coremind/internal/adapters/memory/toml"
	"github.com/bnema/coremind/internal/application"
	"github.com/bnema/coremind/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingMind struct {
	mu       sync.Mutex
	reports  [][]domain.ActorReport
	outcomes [][]domain.ActorReport
	decision domain.Decision
}

func (m *recordingMind) RunPulse(_ context.Context, reports, outcomes []domain.ActorReport) application.PulseResult {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.reports = append(m.reports, reports)
	m.outcomes = append(m.outcomes, outcomes)
	return application.PulseResult{Decision: m.decision}
}

func TestMarketIsDeterministicPerSeed(t *testing.T) {
	t.Parallel()

	a, b, c := NewMarket(7), NewMarket(7), NewMarket(8)

	var differs bool
	for range 20 {
		tickA, tickB, tickC := a.Step(), b.Step(), c.Step()
		assert.Equal(t, tickA, tickB)
		if tickA != tickC {
			differs = true
		}
		assert.Equal(t, trendForChange(tickA.Change), tickA.Trend)
		assert.GreaterOrEqual(t, tickA.Price, 1.0)
	}
	assert.True(t, differs)
}

func TestTrendForChange(t *testing.T) {
	t.Parallel()

	tests := []struct {
		change float64
		want   domain.MarketTrend
	}{
		{change: 2, want: domain.TrendBullish},
		{change: 0.5, want: domain.TrendNeutral},
		{change: 0, want: domain.TrendNeutral},
		{change: -0.5, want: domain.TrendNeutral},
		{change: -1.2, want: domain.TrendBearish},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, trendForChange(tt.change))
	}
}

func TestActorWithoutNoiseReportsMarketTrend(t *testing.T) {
	t.Parallel()

	actor := NewActor(0, 1, 0)
	tick := Tick{Cycle: 3, Price: 101.5, Change: 1.5, Trend: domain.TrendBullish}

	report := actor.Observe(tick)
	assert.Equal(t, domain.ActorID("actor-01"), report.ActorID)
	assert.Equal(t, "bullish", report.Payload["market_trend"])
	assert.Equal(t, 101.5, report.Payload["price"])

	outcome := actor.Outcome(domain.Decision{Action: domain.ActionContract, ResourceAllocation: domain.AllocationLow}, tick)
	assert.Equal(t, -1.5, outcome.Payload["profit"])
	assert.Equal(t, "contract/low", outcome.Payload["acted"])
}

func TestSimulationFeedsOutcomesOneCycleLate(t *testing.T) {
	t.Parallel()

	mind := &recordingMind{decision: domain.DefaultDecision()}
	simulation, err := New(mind, Config{Actors: 4, Seed: 42}, nil)
	require.NoError(t, err)

	var seen int
	results, err := simulation.Run(context.Background(), 3, func(application.PulseResult) { seen++ })
	require.NoError(t, err)

	assert.Len(t, results, 3)
	assert.Equal(t, 3, seen)
	require.Len(t, mind.reports, 3)
	for cycle := range 3 {
		assert.Len(t, mind.reports[cycle], 4)
	}
	assert.Empty(t, mind.outcomes[0])
	assert.Len(t, mind.outcomes[1], 4)
	assert.Len(t, mind.outcomes[2], 4)
}

func TestSimulationRejectsNoActors(t *testing.T) {
	t.Parallel()

	_, err := New(&recordingMind{}, Config{}, nil)
	assert.ErrorIs(t, err, ErrNoActors)
}

func TestSimulationStopsOnCanceledContext(t *testing.T) {
	t.Parallel()

	simulation, err := New(&recordingMind{}, Config{Actors: 2}, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results, err := simulation.Run(ctx, 5, nil)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, results)
}

func TestSimulationDrivesRealMind(t *testing.T) {
	t.Parallel()

	store, err := memorytoml.Open(filepath.Join(t.TempDir(), "memory.toml"))
	require.NoError(t, err)

	mind, err := application.NewMind(store, analysis.NewConsensus(nil))
	require.NoError(t, err)
	t.Cleanup(func() { _ = mind.Close() })

	simulation, err := New(mind, Config{Actors: 5, Seed: 3}, nil)
	require.NoError(t, err)

	results, err := simulation.Run(context.Background(), 4, nil)
	require.NoError(t, err)
	require.Len(t, results, 4)

	for _, result := range results {
		assert.True(t, result.Decision.Valid())
		assert.NotEmpty(t, result.EventKey)
		assert.False(t, result.Degraded())
	}

	all, err := store.LoadAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 4)
	assert.Len(t, mind.State().Actors(), 5)
	assert.Len(t, mind.History(), 8)
}
