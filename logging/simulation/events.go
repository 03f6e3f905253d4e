package simulation

import (
	"context"

	"crownridge/server/logging"
)

const (
	// EventDayRollover is emitted when simulated time wraps past midnight.
	EventDayRollover logging.EventType = "simulation.day_rollover"
	// EventPhaseChanged is emitted on every phase-machine transition.
	EventPhaseChanged logging.EventType = "simulation.phase_changed"
	// EventClockFrozen is emitted once when the checkout deadline stops the clock.
	EventClockFrozen logging.EventType = "simulation.clock_frozen"
)

// DayRolloverPayload describes a midnight wrap.
type DayRolloverPayload struct {
	Day int `json:"day"`
}

// PhaseChangedPayload describes a phase transition.
type PhaseChangedPayload struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// ClockFrozenPayload describes the terminal freeze.
type ClockFrozenPayload struct {
	Day int `json:"day"`
}

// DayRollover publishes a rollover event.
func DayRollover(ctx context.Context, pub logging.Publisher, tick uint64, payload DayRolloverPayload) {
	publish(ctx, pub, logging.Event{
		Type:     EventDayRollover,
		Tick:     tick,
		Actor:    logging.EntityRef{Kind: logging.EntityKindWorld},
		Severity: logging.SeverityInfo,
		Category: logging.CategorySimulation,
		Payload:  payload,
	})
}

// PhaseChanged publishes a transition event.
func PhaseChanged(ctx context.Context, pub logging.Publisher, tick uint64, payload PhaseChangedPayload) {
	publish(ctx, pub, logging.Event{
		Type:     EventPhaseChanged,
		Tick:     tick,
		Actor:    logging.EntityRef{Kind: logging.EntityKindWorld},
		Severity: logging.SeverityInfo,
		Category: logging.CategorySimulation,
		Payload:  payload,
	})
}

// ClockFrozen publishes the terminal freeze event.
func ClockFrozen(ctx context.Context, pub logging.Publisher, tick uint64, payload ClockFrozenPayload) {
	publish(ctx, pub, logging.Event{
		Type:     EventClockFrozen,
		Tick:     tick,
		Actor:    logging.EntityRef{Kind: logging.EntityKindWorld},
		Severity: logging.SeverityWarn,
		Category: logging.CategorySimulation,
		Payload:  payload,
	})
}

func publish(ctx context.Context, pub logging.Publisher, event logging.Event) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, event)
}
