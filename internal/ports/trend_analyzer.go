package ports

import (
	"context"

	"github.com/bnema/coremind/internal/domain"
)

type TrendAnalyzer interface {
	Analyze(ctx context.Context, state domain.WorldState) (domain.MarketTrend, error)
}

type TrendAnalyzerFunc func(ctx context.Context, state domain.WorldState) (domain.MarketTrend, error)

func (f TrendAnalyzerFunc) Analyze(ctx context.Context, state domain.WorldState) (domain.MarketTrend, error) {
	return f(ctx, state)
}
