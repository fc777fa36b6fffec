package application

import (
	"github.com/bnema/coremind/internal/domain"
	"go.uber.org/zap"
)

// Aggregator folds report batches into a WorldState. It keeps no state
// between calls and is safe for concurrent use.
type Aggregator struct {
	logger *zap.Logger
}

func NewAggregator(logger *zap.Logger) *Aggregator {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Aggregator{logger: logger.Named("aggregator")}
}

// Aggregate appends every valid report, in input order, to a freshly built
// WorldState. Reports without an actor id are dropped with a warning.
func (a *Aggregator) Aggregate(reports []domain.ActorReport) domain.WorldState {
	state := domain.NewWorldState()

	for i, report := range reports {
		if err := state.Append(report); err != nil {
			a.logger.Warn("dropping actor report",
				zap.Int("index", i),
				zap.Int("payload_keys", len(report.Payload)),
				zap.Error(err),
			)
		}
	}

	a.logger.Debug("aggregation complete",
		zap.Int("received", len(reports)),
		zap.Int("accepted", state.ReportCount()),
		zap.Int("actors", len(state)),
	)

	return state
}
