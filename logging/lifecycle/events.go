package lifecycle

import (
	"context"

	"crownridge/server/logging"
)

const (
	// EventSessionJoined is emitted when a client session registers.
	EventSessionJoined logging.EventType = "lifecycle.session_joined"
	// EventSessionClosed is emitted when a client session disconnects.
	EventSessionClosed logging.EventType = "lifecycle.session_closed"
	// EventStoryFallback is emitted when the flavor-text provider degrades
	// to the canned string.
	EventStoryFallback logging.EventType = "lifecycle.story_fallback"
)

// SessionPayload identifies the session.
type SessionPayload struct {
	SessionID string `json:"sessionId"`
	Reason    string `json:"reason,omitempty"`
}

// StoryFallbackPayload explains why the provider fell back.
type StoryFallbackPayload struct {
	Reason string `json:"reason"`
}

// SessionJoined publishes a join event.
func SessionJoined(ctx context.Context, pub logging.Publisher, tick uint64, payload SessionPayload) {
	publish(ctx, pub, logging.Event{
		Type:     EventSessionJoined,
		Tick:     tick,
		Actor:    logging.EntityRef{ID: payload.SessionID, Kind: logging.EntityKindPlayer},
		Severity: logging.SeverityInfo,
		Category: logging.CategorySystem,
		Payload:  payload,
	})
}

// SessionClosed publishes a disconnect event.
func SessionClosed(ctx context.Context, pub logging.Publisher, tick uint64, payload SessionPayload) {
	publish(ctx, pub, logging.Event{
		Type:     EventSessionClosed,
		Tick:     tick,
		Actor:    logging.EntityRef{ID: payload.SessionID, Kind: logging.EntityKindPlayer},
		Severity: logging.SeverityInfo,
		Category: logging.CategorySystem,
		Payload:  payload,
	})
}

// StoryFallback publishes a degradation event.
func StoryFallback(ctx context.Context, pub logging.Publisher, tick uint64, payload StoryFallbackPayload) {
	publish(ctx, pub, logging.Event{
		Type:     EventStoryFallback,
		Tick:     tick,
		Actor:    logging.EntityRef{Kind: logging.EntityKindWorld},
		Severity: logging.SeverityWarn,
		Category: logging.CategorySystem,
		Payload:  payload,
	})
}

func publish(ctx context.Context, pub logging.Publisher, event logging.Event) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, event)
}
