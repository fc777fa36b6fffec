package application

import (
	"context"

	"github.com/bnema/coremind/internal/domain"
	"go.uber.org/zap"
)

type reportAggregator interface {
	Aggregate(reports []domain.ActorReport) domain.WorldState
}

type decider interface {
	Decide(ctx context.Context, state domain.WorldState) domain.Decision
}

// FeedbackProcessor turns post-decision outcome reports into a revised
// decision. It never touches decisions that were already recorded.
type FeedbackProcessor struct {
	logger *zap.Logger
}

func NewFeedbackProcessor(logger *zap.Logger) *FeedbackProcessor {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &FeedbackProcessor{logger: logger.Named("feedback")}
}

// Process always calls Decide, even for an empty outcome batch.
func (p *FeedbackProcessor) Process(ctx context.Context, outcomes []domain.ActorReport, aggregator reportAggregator, strategy decider) domain.Decision {
	state := aggregator.Aggregate(outcomes)
	revised := strategy.Decide(ctx, state)

	p.logger.Info("feedback processed",
		zap.Int("outcomes", len(outcomes)),
		zap.Int("actors", len(state)),
		zap.Stringer("revised_decision", revised),
	)

	return revised
}
