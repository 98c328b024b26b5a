package infrastructure

import (
	"clanwars/domain/events"
)

// NoopEventPublisher is an event publisher that does nothing.
// Maintenance commands use it so repairs do not notify anyone.
type NoopEventPublisher struct{}

// NewNoopEventPublisher creates a new no-op event publisher
func NewNoopEventPublisher() *NoopEventPublisher {
	return &NoopEventPublisher{}
}

// Publish does nothing with the event
func (n *NoopEventPublisher) Publish(event events.Event) error {
	return nil
}
