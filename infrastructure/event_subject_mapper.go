package infrastructure

import (
	"fmt"

	"clanwars/domain/events"
)

// NotificationSubject carries user notifications on the event stream
const NotificationSubject = "clanwars.notifications"

// EventSubjectMapper handles mapping between domain events and NATS subjects
type EventSubjectMapper struct{}

// NewEventSubjectMapper creates a new event subject mapper
func NewEventSubjectMapper() *EventSubjectMapper {
	return &EventSubjectMapper{}
}

// MapEventToSubject converts a domain event to its NATS subject
func (m *EventSubjectMapper) MapEventToSubject(event events.Event) string {
	switch event.Type() {
	case events.EventTypeAttackResolved:
		return "clanwars.combat.attack_resolved"
	case events.EventTypeWarDeclared:
		return "clanwars.wars.declared"
	case events.EventTypeWarSettled:
		return "clanwars.wars.settled"
	default:
		return fmt.Sprintf("clanwars.unknown.%s", event.Type())
	}
}

// MapSubjectToEventType converts a NATS subject back to an event type
func (m *EventSubjectMapper) MapSubjectToEventType(subject string) events.EventType {
	switch subject {
	case "clanwars.combat.attack_resolved":
		return events.EventTypeAttackResolved
	case "clanwars.wars.declared":
		return events.EventTypeWarDeclared
	case "clanwars.wars.settled":
		return events.EventTypeWarSettled
	default:
		return events.EventType(subject)
	}
}

// GetAllSubjects returns every subject this service publishes to
func (m *EventSubjectMapper) GetAllSubjects() []string {
	return []string{
		"clanwars.combat.attack_resolved",
		"clanwars.wars.declared",
		"clanwars.wars.settled",
		NotificationSubject,
	}
}
