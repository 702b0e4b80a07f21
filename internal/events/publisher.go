package events

import (
	"context"
	"log/slog"
)

// Event types emitted by the settlement flow
const (
	TypeResultPosted   = "result.posted"
	TypeRoundCompleted = "round.completed"
)

// Event is a notification about a domain state change
type Event struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

// Publisher delivers domain events to interested consumers. It is an
// injected dependency: components that emit events take a Publisher instead
// of reaching for a shared broadcast handle.
type Publisher interface {
	Publish(ctx context.Context, event Event)
}

// LogPublisher writes events to the structured log. It stands in for a
// realtime transport in deployments that have none.
type LogPublisher struct{}

// NewLogPublisher creates a LogPublisher
func NewLogPublisher() *LogPublisher {
	return &LogPublisher{}
}

// Publish logs the event
func (p *LogPublisher) Publish(ctx context.Context, event Event) {
	slog.InfoContext(ctx, "event published", "type", event.Type, "payload", event.Payload)
}
