package infrastructure

import (
	"context"
	"encoding/json"
	"fmt"

	"clanwars/infrastructure/observability"

	log "github.com/sirupsen/logrus"
)

// Notification is the payload published for a user-facing message
type Notification struct {
	UserIDs []int64 `json:"user_ids"`
	Title   string  `json:"title"`
	Body    string  `json:"body"`
}

// NATSNotifier publishes notifications on the event stream for a delivery
// service to fan out
type NATSNotifier struct {
	publisher MessagePublisher
}

// NewNATSNotifier creates a new NATS notifier
func NewNATSNotifier(publisher MessagePublisher) *NATSNotifier {
	return &NATSNotifier{publisher: publisher}
}

// Notify publishes one notification addressed to userIDs
func (n *NATSNotifier) Notify(ctx context.Context, userIDs []int64, title, body string) error {
	if len(userIDs) == 0 {
		return nil
	}

	envelope, err := newEnvelope("notification", Notification{UserIDs: userIDs, Title: title, Body: body})
	if err != nil {
		return err
	}

	data, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("failed to marshal notification envelope: %w", err)
	}

	if err := n.publisher.Publish(ctx, NotificationSubject, data); err != nil {
		return fmt.Errorf("failed to publish notification: %w", err)
	}

	observability.GetMetrics().RecordNATSMessagePublished("notification")
	log.WithFields(log.Fields{
		"title":      title,
		"recipients": len(userIDs),
	}).Debug("Published notification")
	return nil
}
