package application

import (
	"context"

	"github.com/bnema/coremind/internal/domain"
	"github.com/bnema/coremind/internal/ports"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func mockAnyContext() interface{} {
	return mock.MatchedBy(func(context.Context) bool { return true })
}

func mockAnyPayload() interface{} {
	return mock.AnythingOfType("domain.Payload")
}

func newObservedLogger() (*zap.Logger, *observer.ObservedLogs) {
	core, observed := observer.New(zapcore.DebugLevel)
	return zap.New(core), observed
}

func fixedTrend(trend domain.MarketTrend) ports.TrendAnalyzer {
	return ports.TrendAnalyzerFunc(func(context.Context, domain.WorldState) (domain.MarketTrend, error) {
		return trend, nil
	})
}

// payloadTrend reads market_trend from the latest report of every actor and
// returns the first one found, in actor order.
func payloadTrend() ports.TrendAnalyzer {
	return ports.TrendAnalyzerFunc(func(_ context.Context, state domain.WorldState) (domain.MarketTrend, error) {
		for _, actor := range state.Actors() {
			latest, _ := state.Latest(actor)
			if trend, ok := domain.ParseMarketTrend(latest.Payload["market_trend"]); ok {
				return trend, nil
			}
		}
		return domain.TrendAbsent, nil
	})
}

func report(actor string, payload domain.Payload) domain.ActorReport {
	return domain.ActorReport{ActorID: domain.ActorID(actor), Payload: payload}
}

var (
	expandHigh     = domain.Decision{Action: domain.ActionExpand, ResourceAllocation: domain.AllocationHigh}
	contractLow    = domain.Decision{Action: domain.ActionContract, ResourceAllocation: domain.AllocationLow}
	maintainMedium = domain.Decision{Action: domain.ActionMaintain, ResourceAllocation: domain.AllocationMedium}
)
