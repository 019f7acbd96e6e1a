package stopwatch

import "time"

// State is a copy of the stopwatch bookkeeping.
type State struct {
	ElapsedSeconds int
	Running        bool
	// Anchor is the instant at which ElapsedSeconds would have been zero for
	// the current run. Zero when stopped.
	Anchor time.Time
	// SuspendedAt is set while a host suspension is pending reconciliation.
	SuspendedAt time.Time
}

// Suspended reports whether a host suspension is pending.
func (state State) Suspended() bool {
	return !state.SuspendedAt.IsZero()
}

// EventType defines the type of stopwatch event.
type EventType string

const (
	EventStateChange  EventType = "state_change"
	EventTick         EventType = "tick"
	EventSuspended    EventType = "suspended"
	EventGapRecovered EventType = "gap_recovered"
	EventReset        EventType = "reset"
)

// Event represents a stopwatch update for observers.
type Event struct {
	Type           EventType
	Running        bool
	ElapsedSeconds int
	Gap            time.Duration
	At             time.Time
}
