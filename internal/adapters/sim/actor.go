package sim

import (
	"fmt"
	"math/rand/v2"

	"github.com/bnema/coremind/internal/domain"
)

var trends = []domain.MarketTrend{domain.TrendBullish, domain.TrendBearish, domain.TrendNeutral}

// Actor perceives the market with some noise. Each actor owns its random
// source so actors can report from separate goroutines.
type Actor struct {
	ID    domain.ActorID
	noise float64
	rng   *rand.Rand
}

func NewActor(index int, seed uint64, noise float64) *Actor {
	return &Actor{
		ID:    domain.ActorID(fmt.Sprintf("actor-%02d", index+1)),
		noise: noise,
		rng:   rand.New(rand.NewPCG(seed, uint64(index)+1)),
	}
}

func (a *Actor) Observe(tick Tick) domain.ActorReport {
	trend := tick.Trend
	if a.rng.Float64() < a.noise {
		trend = trends[a.rng.IntN(len(trends))]
	}

	return domain.ActorReport{
		ActorID: a.ID,
		Payload: domain.Payload{
			"cycle":        float64(tick.Cycle),
			"market_trend": string(trend),
			"price":        tick.Price,
		},
	}
}

// Outcome reports how the previously broadcast decision played out against
// the latest market move.
func (a *Actor) Outcome(acted domain.Decision, tick Tick) domain.ActorReport {
	exposure := 0.0
	switch acted.Action {
	case domain.ActionExpand:
		exposure = 1
	case domain.ActionContract:
		exposure = -1
	}

	return domain.ActorReport{
		ActorID: a.ID,
		Payload: domain.Payload{
			"cycle":        float64(tick.Cycle),
			"acted":        acted.String(),
			"market_trend": string(tick.Trend),
			"profit":       round2(exposure * tick.Change),
		},
	}
}
