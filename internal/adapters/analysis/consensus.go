// Package analysis derives market trends from the reports actors send in.
package analysis

import (
	"context"

	"github.com/bnema/coremind/internal/domain"
	"github.com/bnema/coremind/internal/ports"
	"go.uber.org/zap"
)

const (
	trendKey       = "market_trend"
	legacyTrendKey = "market_trends"
)

// Consensus lets the latest report of every actor vote for a trend. Bullish
// or bearish wins only with a strict majority over the other; a tie or a
// neutral-only vote is neutral, and no vote at all is absent.
type Consensus struct {
	logger *zap.Logger
}

var _ ports.TrendAnalyzer = (*Consensus)(nil)

func NewConsensus(logger *zap.Logger) *Consensus {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Consensus{logger: logger.Named("consensus")}
}

func (c *Consensus) Analyze(ctx context.Context, state domain.WorldState) (domain.MarketTrend, error) {
	if err := ctx.Err(); err != nil {
		return domain.TrendAbsent, err
	}

	votes := make(map[domain.MarketTrend]int, 3)
	for _, actor := range state.Actors() {
		latest, ok := state.Latest(actor)
		if !ok {
			continue
		}
		if trend, ok := TrendOf(latest.Payload); ok {
			votes[trend]++
		}
	}

	trend := tally(votes)
	c.logger.Debug("trend consensus",
		zap.Int("bullish", votes[domain.TrendBullish]),
		zap.Int("bearish", votes[domain.TrendBearish]),
		zap.Int("neutral", votes[domain.TrendNeutral]),
		zap.String("trend", trend.Label()),
	)

	return trend, nil
}

func tally(votes map[domain.MarketTrend]int) domain.MarketTrend {
	bullish, bearish := votes[domain.TrendBullish], votes[domain.TrendBearish]
	switch {
	case bullish == 0 && bearish == 0 && votes[domain.TrendNeutral] == 0:
		return domain.TrendAbsent
	case bullish > bearish:
		return domain.TrendBullish
	case bearish > bullish:
		return domain.TrendBearish
	default:
		return domain.TrendNeutral
	}
}

// TrendOf reads the trend a single payload signals. It understands the flat
// market_trend string and the older market_trends flag mapping.
func TrendOf(payload domain.Payload) (domain.MarketTrend, bool) {
	if raw, ok := payload[trendKey]; ok {
		return domain.ParseMarketTrend(raw)
	}

	flags, ok := payload.Map(legacyTrendKey)
	if !ok {
		return domain.TrendAbsent, false
	}

	bullish, _ := flags["bullish"].(bool)
	bearish, _ := flags["bearish"].(bool)
	switch {
	case bullish && !bearish:
		return domain.TrendBullish, true
	case bearish && !bullish:
		return domain.TrendBearish, true
	default:
		return domain.TrendNeutral, true
	}
}
