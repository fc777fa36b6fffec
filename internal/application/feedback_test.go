package application

import (
	"context"
	"testing"

	"github.com/bnema/coremind/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFeedbackProcessorDecidesOnOutcomes(t *testing.T) {
	aggregator := NewAggregator(nil)
	engine, err := NewStrategyEngine(payloadTrend(), nil)
	require.NoError(t, err)
	processor := NewFeedbackProcessor(nil)

	revised := processor.Process(context.Background(), []domain.ActorReport{
		report("trader-1", domain.Payload{"market_trend": "bearish", "pnl": -12.5}),
	}, aggregator, engine)

	assert.Equal(t, contractLow, revised)
	assert.Equal(t, []domain.Decision{contractLow}, engine.History())
}

func TestFeedbackProcessorDecidesOnEmptyOutcomes(t *testing.T) {
	aggregator := NewAggregator(nil)
	engine, err := NewStrategyEngine(payloadTrend(), nil)
	require.NoError(t, err)
	processor := NewFeedbackProcessor(nil)

	revised := processor.Process(context.Background(), nil, aggregator, engine)

	assert.Equal(t, maintainMedium, revised)
	assert.Len(t, engine.History(), 1)
}

func TestFeedbackProcessorDoesNotRewriteEarlierDecisions(t *testing.T) {
	aggregator := NewAggregator(nil)
	engine, err := NewStrategyEngine(payloadTrend(), nil)
	require.NoError(t, err)
	processor := NewFeedbackProcessor(nil)

	first := engine.Decide(context.Background(), aggregator.Aggregate([]domain.ActorReport{
		report("a", domain.Payload{"market_trend": "bullish"}),
	}))
	revised := processor.Process(context.Background(), []domain.ActorReport{
		report("a", domain.Payload{"market_trend": "bearish"}),
	}, aggregator, engine)

	assert.Equal(t, expandHigh, first)
	assert.Equal(t, contractLow, revised)
	assert.Equal(t, []domain.Decision{expandHigh, contractLow}, engine.History())
}
