package domain

import "strings"

type MarketTrend string

const (
	TrendAbsent  MarketTrend = ""
	TrendBullish MarketTrend = "bullish"
	TrendBearish MarketTrend = "bearish"
	TrendNeutral MarketTrend = "neutral"
)

// ParseMarketTrend reports false for anything that is not one of the three
// named trends, including non-string values.
func ParseMarketTrend(raw any) (MarketTrend, bool) {
	value, ok := raw.(string)
	if !ok {
		return TrendAbsent, false
	}

	switch trend := MarketTrend(strings.ToLower(strings.TrimSpace(value))); trend {
	case TrendBullish, TrendBearish, TrendNeutral:
		return trend, true
	default:
		return TrendAbsent, false
	}
}

func (t MarketTrend) Label() string {
	if t == TrendAbsent {
		return "absent"
	}

	return string(t)
}
