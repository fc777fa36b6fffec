package application

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/bnema/coremind/internal/domain"
	"github.com/bnema/coremind/internal/ports"
	"go.uber.org/zap"
)

var (
	ErrNilTrendAnalyzer = errors.New("trend analyzer is nil")
	ErrMalformedTrend   = errors.New("malformed market trend")
	ErrAnalyzerPanic    = errors.New("trend analyzer panicked")
)

// StrategyEngine maps a WorldState to a Decision and keeps every decision it
// has produced, oldest first.
type StrategyEngine struct {
	analyzer ports.TrendAnalyzer
	logger   *zap.Logger

	mu      sync.Mutex
	history []domain.Decision
}

func NewStrategyEngine(analyzer ports.TrendAnalyzer, logger *zap.Logger) (*StrategyEngine, error) {
	if analyzer == nil {
		return nil, ErrNilTrendAnalyzer
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &StrategyEngine{analyzer: analyzer, logger: logger.Named("strategy")}, nil
}

// Decide never fails: when the trend cannot be derived the default decision
// is returned. The result is appended to the history before returning.
func (e *StrategyEngine) Decide(ctx context.Context, state domain.WorldState) domain.Decision {
	decision := domain.DefaultDecision()

	trend, err := e.analyze(ctx, state)
	if err != nil {
		e.logger.Warn("market trend unavailable, using default decision", zap.Error(err))
	} else {
		decision = domain.DecisionForTrend(trend)
	}

	e.mu.Lock()
	e.history = append(e.history, decision)
	entry := len(e.history)
	e.mu.Unlock()

	e.logger.Info("strategic decision made",
		zap.String("trend", trend.Label()),
		zap.Stringer("decision", decision),
		zap.Int("history_entry", entry),
	)

	return decision
}

func (e *StrategyEngine) History() []domain.Decision {
	e.mu.Lock()
	defer e.mu.Unlock()

	history := make([]domain.Decision, len(e.history))
	copy(history, e.history)
	return history
}

func (e *StrategyEngine) analyze(ctx context.Context, state domain.WorldState) (trend domain.MarketTrend, err error) {
	defer func() {
		if r := recover(); r != nil {
			trend = domain.TrendAbsent
			err = fmt.Errorf("%w: %v", ErrAnalyzerPanic, r)
		}
	}()

	trend, err = e.analyzer.Analyze(ctx, state.Clone())
	if err != nil {
		return domain.TrendAbsent, fmt.Errorf("analyze market trend: %w", err)
	}

	switch trend {
	case domain.TrendAbsent, domain.TrendBullish, domain.TrendBearish, domain.TrendNeutral:
		return trend, nil
	default:
		return domain.TrendAbsent, fmt.Errorf("%w: %q", ErrMalformedTrend, trend)
	}
}
