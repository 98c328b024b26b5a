package infrastructure

import (
	"errors"

	"clanwars/domain/events"
	"clanwars/domain/interfaces"
)

// MultiEventPublisher hands every event to each of its publishers in order
type MultiEventPublisher struct {
	publishers []interfaces.EventPublisher
}

// NewMultiEventPublisher creates a publisher fanning out to publishers
func NewMultiEventPublisher(publishers ...interfaces.EventPublisher) *MultiEventPublisher {
	return &MultiEventPublisher{publishers: publishers}
}

// Publish delivers the event to every publisher and joins their errors
func (m *MultiEventPublisher) Publish(event events.Event) error {
	var errs []error
	for _, p := range m.publishers {
		if err := p.Publish(event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
