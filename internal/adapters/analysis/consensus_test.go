package analysis

import (
	"context"
	"testing"

	"github.com/bnema/coremind/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stateOf(t *testing.T, reports ...domain.ActorReport) domain.WorldState {
	t.Helper()

	state := domain.NewWorldState()
	for _, report := range reports {
		require.NoError(t, state.Append(report))
	}
	return state
}

func vote(actor string, trend string) domain.ActorReport {
	return domain.ActorReport{ActorID: domain.ActorID(actor), Payload: domain.Payload{"market_trend": trend}}
}

func TestConsensusAnalyze(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		reports []domain.ActorReport
		want    domain.MarketTrend
	}{
		{name: "empty state", want: domain.TrendAbsent},
		{
			name:    "no trend signals",
			reports: []domain.ActorReport{{ActorID: "a", Payload: domain.Payload{"price": 3.0}}},
			want:    domain.TrendAbsent,
		},
		{name: "single bullish", reports: []domain.ActorReport{vote("a", "bullish")}, want: domain.TrendBullish},
		{name: "single bearish", reports: []domain.ActorReport{vote("a", "bearish")}, want: domain.TrendBearish},
		{name: "neutral only", reports: []domain.ActorReport{vote("a", "neutral")}, want: domain.TrendNeutral},
		{
			name:    "bullish majority",
			reports: []domain.ActorReport{vote("a", "bullish"), vote("b", "bullish"), vote("c", "bearish")},
			want:    domain.TrendBullish,
		},
		{
			name:    "tie is neutral",
			reports: []domain.ActorReport{vote("a", "bullish"), vote("b", "bearish")},
			want:    domain.TrendNeutral,
		},
		{
			name:    "latest report per actor counts",
			reports: []domain.ActorReport{vote("a", "bullish"), vote("a", "bearish")},
			want:    domain.TrendBearish,
		},
		{
			name:    "unknown value is ignored",
			reports: []domain.ActorReport{vote("a", "sideways"), vote("b", "bearish")},
			want:    domain.TrendBearish,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := NewConsensus(nil).Analyze(context.Background(), stateOf(t, tt.reports...))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestConsensusRespectsCanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewConsensus(nil).Analyze(ctx, domain.NewWorldState())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestTrendOfLegacyFlags(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		flags map[string]any
		want  domain.MarketTrend
	}{
		{name: "bullish", flags: map[string]any{"bullish": true, "bearish": false}, want: domain.TrendBullish},
		{name: "bearish", flags: map[string]any{"bullish": false, "bearish": true}, want: domain.TrendBearish},
		{name: "both", flags: map[string]any{"bullish": true, "bearish": true}, want: domain.TrendNeutral},
		{name: "neither", flags: map[string]any{}, want: domain.TrendNeutral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := TrendOf(domain.Payload{"market_trends": tt.flags})
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}

	_, ok := TrendOf(domain.Payload{"market_trends": "bullish"})
	assert.False(t, ok)
}
