package application

import (
	"context"

	"clanwars/domain/events"
	"clanwars/domain/interfaces"
)

// EventHandler processes one delivered event
type EventHandler func(ctx context.Context, event events.Event) error

// EventSubscriber registers handlers for locally dispatched events
type EventSubscriber interface {
	Subscribe(eventType events.EventType, handler EventHandler)
}

// RegisterApplicationSubscriptions wires post-commit side effects: event
// history for attacks and notifications for attacks and war lifecycle changes
func RegisterApplicationSubscriptions(subscriber EventSubscriber, uowFactory UnitOfWorkFactory, notifier interfaces.Notifier) {
	historyHandler := NewEventHistoryHandler(uowFactory)
	notificationHandler := NewNotificationHandler(notifier)

	subscriber.Subscribe(events.EventTypeAttackResolved, historyHandler.HandleAttackResolved)
	subscriber.Subscribe(events.EventTypeAttackResolved, notificationHandler.HandleAttackResolved)
	subscriber.Subscribe(events.EventTypeWarDeclared, notificationHandler.HandleWarDeclared)
	subscriber.Subscribe(events.EventTypeWarSettled, notificationHandler.HandleWarSettled)
}
