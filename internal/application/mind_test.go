package application

import (
	"context"
	"errors"
	"math"
	"path/filepath"
	"testing"
	"time"

	memorytoml "github.com/bnema/coremind/internal/adapters/memory/toml"
	"github.com/bnema/coremind/internal/domain"
	"github.com/bnema/coremind/internal/ports"
	"github.com/bnema/coremind/internal/ports/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

const testKey = domain.EventKey("2026-02-14T11:00:00.000000000Z")

func newTestMind(t *testing.T, memory ports.MemoryStore, analyzer ports.TrendAnalyzer, opts ...MindOption) *Mind {
	t.Helper()

	mind, err := NewMind(memory, analyzer, opts...)
	require.NoError(t, err)
	return mind
}

func TestNewMindRejectsMissingCollaborators(t *testing.T) {
	_, err := NewMind(nil, fixedTrend(domain.TrendBullish))
	assert.ErrorIs(t, err, ErrNilMemoryStore)

	_, err = NewMind(mocks.NewMockMemoryStore(t), nil)
	assert.ErrorIs(t, err, ErrNilTrendAnalyzer)
}

func TestMindEmptyCycle(t *testing.T) {
	memory := mocks.NewMockMemoryStore(t)
	memory.EXPECT().StoreEvent(mockAnyContext(), domain.Payload{}).Return(testKey, nil).Once()

	mind := newTestMind(t, memory, payloadTrend(), WithPulseIDs(func() string { return "pulse-1" }))

	result := mind.RunPulse(context.Background(), nil, nil)

	assert.Equal(t, "pulse-1", result.ID)
	assert.Equal(t, maintainMedium, result.Decision)
	assert.Equal(t, maintainMedium, result.Revised)
	assert.Equal(t, testKey, result.EventKey)
	assert.False(t, result.Degraded())
	assert.Equal(t, PhaseIdle, mind.Phase())
	assert.Empty(t, mind.State())
	assert.Len(t, mind.History(), 2)
}

func TestMindPulseScenarios(t *testing.T) {
	tests := []struct {
		name        string
		reports     []domain.ActorReport
		outcomes    []domain.ActorReport
		wantAct     domain.Decision
		wantRevised domain.Decision
	}{
		{
			name:        "bullish reports, bearish outcomes",
			reports:     []domain.ActorReport{report("trader-1", domain.Payload{"market_trend": "bullish"})},
			outcomes:    []domain.ActorReport{report("trader-1", domain.Payload{"market_trend": "bearish"})},
			wantAct:     expandHigh,
			wantRevised: contractLow,
		},
		{
			name:        "bearish reports, no outcomes",
			reports:     []domain.ActorReport{report("miner-1", domain.Payload{"market_trend": "bearish"})},
			wantAct:     contractLow,
			wantRevised: maintainMedium,
		},
		{
			name:        "neutral reports",
			reports:     []domain.ActorReport{report("miner-1", domain.Payload{"market_trend": "neutral"})},
			outcomes:    []domain.ActorReport{report("miner-1", domain.Payload{"market_trend": "bullish"})},
			wantAct:     maintainMedium,
			wantRevised: expandHigh,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			memory := mocks.NewMockMemoryStore(t)
			memory.EXPECT().StoreEvent(mockAnyContext(), mockAnyPayload()).Return(testKey, nil).Once()
			mind := newTestMind(t, memory, payloadTrend())

			result := mind.RunPulse(context.Background(), tt.reports, tt.outcomes)

			assert.Equal(t, tt.wantAct, result.Decision)
			assert.Equal(t, tt.wantRevised, result.Revised)
			advisory, ok := mind.Advisory()
			require.True(t, ok)
			assert.Equal(t, tt.wantRevised, advisory)
			assert.Equal(t, []domain.Decision{tt.wantAct, tt.wantRevised}, mind.History())
		})
	}
}

func TestMindPersistsMergedSnapshot(t *testing.T) {
	var stored []domain.Payload
	memory := mocks.NewMockMemoryStore(t)
	memory.EXPECT().StoreEvent(mockAnyContext(), mockAnyPayload()).
		RunAndReturn(func(_ context.Context, payload domain.Payload) (domain.EventKey, error) {
			stored = append(stored, payload)
			return testKey, nil
		}).Twice()

	mind := newTestMind(t, memory, payloadTrend())

	mind.Pulse(context.Background(), []domain.ActorReport{report("a", domain.Payload{"n": 1.0})}, nil)
	mind.Pulse(context.Background(), []domain.ActorReport{
		report("a", domain.Payload{"n": 2.0}),
		report("b", domain.Payload{"n": 3.0}),
	}, nil)

	state := mind.State()
	require.Len(t, state["a"], 2)
	assert.Equal(t, domain.Payload{"n": 2.0}, state["a"][1].Payload)
	assert.Len(t, state["b"], 1)

	require.Len(t, stored, 2)
	restored, err := domain.WorldStateFromSnapshot(stored[1])
	require.NoError(t, err)
	assert.Equal(t, state, restored)
}

func TestMindDropsInvalidReports(t *testing.T) {
	memory := mocks.NewMockMemoryStore(t)
	memory.EXPECT().StoreEvent(mockAnyContext(), mockAnyPayload()).Return(testKey, nil).Once()
	mind := newTestMind(t, memory, payloadTrend())

	result := mind.RunPulse(context.Background(), []domain.ActorReport{
		report("", domain.Payload{"market_trend": "bearish"}),
		report("trader-1", domain.Payload{"market_trend": "bullish"}),
	}, nil)

	assert.Equal(t, expandHigh, result.Decision)
	assert.False(t, result.Degraded())
	assert.Equal(t, []domain.ActorID{"trader-1"}, mind.State().Actors())
}

func TestMindUnencodableReportDoesNotBlockLaterWrites(t *testing.T) {
	store, err := memorytoml.Open(filepath.Join(t.TempDir(), "memory.toml"))
	require.NoError(t, err)
	mind := newTestMind(t, store, payloadTrend())
	t.Cleanup(func() { _ = mind.Close() })

	first := mind.RunPulse(context.Background(), []domain.ActorReport{
		report("trader-1", domain.Payload{"price": math.NaN()}),
	}, nil)
	assert.NotEmpty(t, first.EventKey)
	assert.False(t, first.Degraded())

	for range 3 {
		result := mind.RunPulse(context.Background(), []domain.ActorReport{
			report("trader-2", domain.Payload{"market_trend": "bullish"}),
		}, nil)
		assert.Equal(t, expandHigh, result.Decision)
		assert.NotEmpty(t, result.EventKey)
		assert.Empty(t, result.Fallbacks)
	}

	all, err := store.LoadAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 4)
	assert.Equal(t, []domain.ActorID{"trader-2"}, mind.State().Actors())
}

func TestMindMemoryFailureSkipsWrite(t *testing.T) {
	logger, logs := newObservedLogger()
	memory := mocks.NewMockMemoryStore(t)
	memory.EXPECT().StoreEvent(mockAnyContext(), mockAnyPayload()).Return("", errors.New("disk full")).Once()
	mind := newTestMind(t, memory, payloadTrend(), WithLogger(logger))

	result := mind.RunPulse(context.Background(), []domain.ActorReport{
		report("trader-1", domain.Payload{"market_trend": "bullish"}),
	}, nil)

	assert.Equal(t, expandHigh, result.Decision)
	assert.Empty(t, result.EventKey)
	assert.Equal(t, []Fallback{FallbackSkippedMemoryWrite}, result.Fallbacks)
	assert.Equal(t, PhaseIdle, mind.Phase())

	entries := logs.FilterMessage("phase failed, continuing with fallback").All()
	require.Len(t, entries, 1)
	assert.Equal(t, string(FallbackSkippedMemoryWrite), entries[0].ContextMap()["fallback"])
}

func TestMindRecoversMemoryPanic(t *testing.T) {
	memory := mocks.NewMockMemoryStore(t)
	memory.EXPECT().StoreEvent(mockAnyContext(), mockAnyPayload()).
		RunAndReturn(func(context.Context, domain.Payload) (domain.EventKey, error) {
			panic("driver exploded")
		}).Once()
	mind := newTestMind(t, memory, payloadTrend())

	var result PulseResult
	assert.NotPanics(t, func() {
		result = mind.RunPulse(context.Background(), nil, nil)
	})
	assert.Equal(t, maintainMedium, result.Decision)
	assert.Equal(t, []Fallback{FallbackSkippedMemoryWrite}, result.Fallbacks)
}

func TestMindAnalyzerPanicFallsBackToDefault(t *testing.T) {
	memory := mocks.NewMockMemoryStore(t)
	memory.EXPECT().StoreEvent(mockAnyContext(), mockAnyPayload()).Return(testKey, nil).Once()
	mind := newTestMind(t, memory, ports.TrendAnalyzerFunc(func(context.Context, domain.WorldState) (domain.MarketTrend, error) {
		panic("boom")
	}))

	result := mind.RunPulse(context.Background(), []domain.ActorReport{
		report("trader-1", domain.Payload{"market_trend": "bullish"}),
	}, nil)

	assert.Equal(t, maintainMedium, result.Decision)
	assert.Equal(t, maintainMedium, result.Revised)
	assert.Equal(t, testKey, result.EventKey)
}

func TestMindCanceledContextStillDecides(t *testing.T) {
	memory := mocks.NewMockMemoryStore(t)
	memory.EXPECT().StoreEvent(mockAnyContext(), mockAnyPayload()).
		RunAndReturn(func(ctx context.Context, _ domain.Payload) (domain.EventKey, error) {
			return "", ctx.Err()
		}).Once()
	mind := newTestMind(t, memory, payloadTrend())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result := mind.RunPulse(ctx, []domain.ActorReport{report("a", domain.Payload{"market_trend": "bullish"})}, nil)

	assert.Equal(t, maintainMedium, result.Decision)
	assert.Equal(t, []Fallback{FallbackEmptyAggregation, FallbackSkippedMemoryWrite}, result.Fallbacks)
	assert.Empty(t, mind.State())
}

func TestMindPhaseOperations(t *testing.T) {
	memory := mocks.NewMockMemoryStore(t)
	memory.EXPECT().StoreEvent(mockAnyContext(), mockAnyPayload()).Return("", errors.New("read-only")).Once()
	mind := newTestMind(t, memory, payloadTrend())

	require.NoError(t, mind.Perceive(context.Background(), []domain.ActorReport{
		report("a", domain.Payload{"market_trend": "bearish"}),
	}))
	assert.Equal(t, contractLow, mind.Think(context.Background()))
	assert.Equal(t, contractLow, mind.Act(context.Background()))

	revised, key, err := mind.Reflect(context.Background(), []domain.ActorReport{
		report("a", domain.Payload{"market_trend": "bullish"}),
	})
	assert.Equal(t, expandHigh, revised)
	assert.Empty(t, key)

	var phaseErr *PhaseError
	require.ErrorAs(t, err, &phaseErr)
	assert.Equal(t, PhaseReflecting, phaseErr.Phase)
	assert.Equal(t, FallbackSkippedMemoryWrite, phaseErr.Fallback)
	assert.Equal(t, PhaseIdle, mind.Phase())
}

func TestMindPerceiveRejectsCanceledContext(t *testing.T) {
	mind := newTestMind(t, mocks.NewMockMemoryStore(t), payloadTrend())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := mind.Perceive(ctx, []domain.ActorReport{report("a", nil)})

	var phaseErr *PhaseError
	require.ErrorAs(t, err, &phaseErr)
	assert.Equal(t, FallbackEmptyAggregation, phaseErr.Fallback)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, mind.State())
}

func TestMindInitialize(t *testing.T) {
	saved := domain.NewWorldState()
	require.NoError(t, saved.Append(report("trader-1", domain.Payload{"market_trend": "bullish"})))

	tests := []struct {
		name    string
		restore bool
		recent  []domain.Payload
		err     error
		want    domain.WorldState
	}{
		{name: "restores latest snapshot", restore: true, recent: []domain.Payload{saved.Snapshot()}, want: saved},
		{name: "restore disabled", restore: false, recent: []domain.Payload{saved.Snapshot()}, want: domain.NewWorldState()},
		{name: "empty memory", restore: true, recent: []domain.Payload{}, want: domain.NewWorldState()},
		{name: "unreadable snapshot", restore: true, recent: []domain.Payload{{"a": "oops"}}, want: domain.NewWorldState()},
		{name: "memory unavailable", restore: true, err: errors.New("locked"), want: domain.NewWorldState()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			memory := mocks.NewMockMemoryStore(t)
			memory.EXPECT().Recent(mockAnyContext(), 1).Return(tt.recent, tt.err).Once()
			mind := newTestMind(t, memory, payloadTrend(), WithStateRestore(tt.restore))

			require.NoError(t, mind.Initialize(context.Background()))
			assert.Equal(t, tt.want, mind.State())
		})
	}
}

func TestMindUsesClockForPulseStart(t *testing.T) {
	startedAt := time.Date(2026, 2, 14, 11, 0, 0, 0, time.UTC)
	clock := mocks.NewMockClock(t)
	clock.EXPECT().Now().Return(startedAt)
	memory := mocks.NewMockMemoryStore(t)
	memory.EXPECT().StoreEvent(mockAnyContext(), mockAnyPayload()).Return(testKey, nil).Once()

	mind := newTestMind(t, memory, payloadTrend(), WithClock(clock))

	assert.Equal(t, startedAt, mind.RunPulse(context.Background(), nil, nil).StartedAt)
}

func TestMindSerializesConcurrentPulses(t *testing.T) {
	memory := mocks.NewMockMemoryStore(t)
	memory.EXPECT().StoreEvent(mockAnyContext(), mockAnyPayload()).Return(testKey, nil).Times(8)
	mind := newTestMind(t, memory, payloadTrend())

	var g errgroup.Group
	for i := range 8 {
		g.Go(func() error {
			mind.Pulse(context.Background(), []domain.ActorReport{
				report("trader", domain.Payload{"n": float64(i)}),
			}, nil)
			return nil
		})
	}
	require.NoError(t, g.Wait())

	assert.Len(t, mind.State()["trader"], 8)
	assert.Len(t, mind.History(), 16)
	assert.Equal(t, PhaseIdle, mind.Phase())
}

func TestMindCloseClosesMemory(t *testing.T) {
	memory := mocks.NewMockMemoryStore(t)
	memory.EXPECT().Close().Return(nil).Once()
	mind := newTestMind(t, memory, payloadTrend())

	assert.NoError(t, mind.Close())
}
