package sim

import (
	"context"
	"errors"
	"fmt"

	"github.com/bnema/coremind/internal/application"
	"github.com/bnema/coremind/internal/domain"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var ErrNoActors = errors.New("simulation needs at least one actor")

const defaultNoise = 0.2

type pulser interface {
	RunPulse(ctx context.Context, reports, outcomes []domain.ActorReport) application.PulseResult
}

type Config struct {
	Actors int
	Seed   uint64
	Noise  float64
}

// Simulation feeds a Mind one market tick per cycle. Outcomes for the
// decision broadcast in cycle n arrive with the reports of cycle n+1.
type Simulation struct {
	mind     pulser
	market   *Market
	actors   []*Actor
	reports  *application.ReportInbox
	outcomes *application.ReportInbox
	logger   *zap.Logger

	acted *domain.Decision
}

func New(mind pulser, cfg Config, logger *zap.Logger) (*Simulation, error) {
	if cfg.Actors <= 0 {
		return nil, ErrNoActors
	}
	if cfg.Noise <= 0 {
		cfg.Noise = defaultNoise
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	actors := make([]*Actor, cfg.Actors)
	for i := range actors {
		actors[i] = NewActor(i, cfg.Seed, cfg.Noise)
	}

	return &Simulation{
		mind:     mind,
		market:   NewMarket(cfg.Seed),
		actors:   actors,
		reports:  application.NewReportInbox(),
		outcomes: application.NewReportInbox(),
		logger:   logger.Named("sim"),
	}, nil
}

// Run drives cycles pulses and calls onPulse after each one.
func (s *Simulation) Run(ctx context.Context, cycles int, onPulse func(application.PulseResult)) ([]application.PulseResult, error) {
	results := make([]application.PulseResult, 0, cycles)
	for cycle := 0; cycle < cycles; cycle++ {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		result, err := s.cycle(ctx)
		if err != nil {
			return results, fmt.Errorf("cycle %d: %w", cycle+1, err)
		}
		results = append(results, result)

		if onPulse != nil {
			onPulse(result)
		}
	}

	return results, nil
}

func (s *Simulation) cycle(ctx context.Context) (application.PulseResult, error) {
	tick := s.market.Step()
	acted := s.acted

	g, gctx := errgroup.WithContext(ctx)
	for _, actor := range s.actors {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			s.reports.Submit(actor.Observe(tick))
			if acted != nil {
				s.outcomes.Submit(actor.Outcome(*acted, tick))
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return application.PulseResult{}, err
	}

	reports, outcomes := s.reports.Drain(), s.outcomes.Drain()
	s.logger.Debug("market tick",
		zap.Int("cycle", tick.Cycle),
		zap.Float64("price", tick.Price),
		zap.String("trend", tick.Trend.Label()),
		zap.Int("reports", len(reports)),
		zap.Int("outcomes", len(outcomes)),
	)

	result := s.mind.RunPulse(ctx, reports, outcomes)
	s.acted = &result.Decision

	return result, nil
}
