package domain

import "fmt"

type Action string
type Allocation string

const (
	ActionExpand   Action = "expand"
	ActionContract Action = "contract"
	ActionMaintain Action = "maintain"

	AllocationHigh   Allocation = "high"
	AllocationMedium Allocation = "medium"
	AllocationLow    Allocation = "low"
)

type Decision struct {
	Action             Action     `json:"action"`
	ResourceAllocation Allocation `json:"resource_allocation"`
}

func DefaultDecision() Decision {
	return Decision{Action: ActionMaintain, ResourceAllocation: AllocationMedium}
}

// DecisionForTrend is total: unknown and absent trends map to the default.
func DecisionForTrend(trend MarketTrend) Decision {
	switch trend {
	case TrendBullish:
		return Decision{Action: ActionExpand, ResourceAllocation: AllocationHigh}
	case TrendBearish:
		return Decision{Action: ActionContract, ResourceAllocation: AllocationLow}
	default:
		return DefaultDecision()
	}
}

func (d Decision) Valid() bool {
	switch d {
	case DecisionForTrend(TrendBullish), DecisionForTrend(TrendBearish), DefaultDecision():
		return true
	default:
		return false
	}
}

func (d Decision) String() string {
	return fmt.Sprintf("%s/%s", d.Action, d.ResourceAllocation)
}
