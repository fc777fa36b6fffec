// Package sim drives a Mind with a seeded market and a crowd of simulated
// actors reporting concurrently.
package sim

import (
	"math"
	"math/rand/v2"

	"github.com/bnema/coremind/internal/domain"
)

const (
	startPrice     = 100.0
	trendThreshold = 0.5
)

type Tick struct {
	Cycle  int
	Price  float64
	Change float64
	Trend  domain.MarketTrend
}

// Market is a seeded random walk. It is not safe for concurrent use.
type Market struct {
	rng   *rand.Rand
	price float64
	cycle int
}

func NewMarket(seed uint64) *Market {
	return &Market{
		rng:   rand.New(rand.NewPCG(seed, 0)),
		price: startPrice,
	}
}

func (m *Market) Step() Tick {
	change := round2(m.rng.NormFloat64() * 1.5)
	m.price = round2(math.Max(1, m.price+change))
	m.cycle++

	return Tick{
		Cycle:  m.cycle,
		Price:  m.price,
		Change: change,
		Trend:  trendForChange(change),
	}
}

func trendForChange(change float64) domain.MarketTrend {
	switch {
	case change > trendThreshold:
		return domain.TrendBullish
	case change < -trendThreshold:
		return domain.TrendBearish
	default:
		return domain.TrendNeutral
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
