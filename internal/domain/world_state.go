package domain

import (
	"fmt"
	"sort"
)

// WorldState maps each actor to the reports it submitted, oldest first.
type WorldState map[ActorID][]ActorReport

func NewWorldState() WorldState {
	return WorldState{}
}

// Append adds a report to its actor's sequence. Invalid reports are rejected.
func (w WorldState) Append(report ActorReport) error {
	if err := report.Validate(); err != nil {
		return err
	}

	normalized := report.Normalized()
	w[normalized.ActorID] = append(w[normalized.ActorID], normalized)
	return nil
}

// Merge returns a new WorldState holding w's reports followed by other's
// reports for each actor. Neither input is modified.
func (w WorldState) Merge(other WorldState) WorldState {
	merged := w.Clone()
	for _, actor := range other.Actors() {
		for _, report := range other[actor] {
			merged[actor] = append(merged[actor], report.Normalized())
		}
	}

	return merged
}

func (w WorldState) Clone() WorldState {
	cloned := make(WorldState, len(w))
	for actor, reports := range w {
		copied := make([]ActorReport, 0, len(reports))
		for _, report := range reports {
			copied = append(copied, report.Normalized())
		}
		cloned[actor] = copied
	}

	return cloned
}

func (w WorldState) Actors() []ActorID {
	actors := make([]ActorID, 0, len(w))
	for actor := range w {
		actors = append(actors, actor)
	}
	sort.Slice(actors, func(i, j int) bool { return actors[i] < actors[j] })

	return actors
}

func (w WorldState) ReportCount() int {
	total := 0
	for _, reports := range w {
		total += len(reports)
	}

	return total
}

// Latest returns the most recent report of the actor.
func (w WorldState) Latest(actor ActorID) (ActorReport, bool) {
	reports := w[actor]
	if len(reports) == 0 {
		return ActorReport{}, false
	}

	return reports[len(reports)-1], true
}

// Snapshot encodes the state in the JSON value model used by the memory store:
// {"<actor>": [{"actor_id": "<actor>", "payload": {...}}, ...]}.
func (w WorldState) Snapshot() Payload {
	snapshot := make(Payload, len(w))
	for actor, reports := range w {
		entries := make([]any, 0, len(reports))
		for _, report := range reports {
			entries = append(entries, map[string]any{
				"actor_id": string(report.ActorID),
				"payload":  map[string]any(report.Payload.Clone()),
			})
		}
		snapshot[string(actor)] = entries
	}

	return snapshot
}

func WorldStateFromSnapshot(snapshot Payload) (WorldState, error) {
	state := NewWorldState()
	for actor, raw := range snapshot {
		entries, ok := raw.([]any)
		if !ok {
			return nil, fmt.Errorf("%w: actor %q is not a list", ErrMalformedSnapshot, actor)
		}

		for i, entry := range entries {
			fields, ok := entry.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("%w: actor %q entry %d is not a mapping", ErrMalformedSnapshot, actor, i)
			}

			report := ActorReport{ActorID: ActorID(actor)}
			if payload, ok := Payload(fields).Map("payload"); ok {
				report.Payload = payload
			}
			if err := state.Append(report); err != nil {
				return nil, fmt.Errorf("%w: actor %q entry %d: %v", ErrMalformedSnapshot, actor, i, err)
			}
		}
	}

	return state, nil
}
