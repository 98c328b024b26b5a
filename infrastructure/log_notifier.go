package infrastructure

import (
	"context"

	log "github.com/sirupsen/logrus"
)

// LogNotifier writes notifications to the log. It is used when neither NATS
// nor Discord delivery is configured.
type LogNotifier struct{}

// NewLogNotifier creates a new log notifier
func NewLogNotifier() *LogNotifier {
	return &LogNotifier{}
}

// Notify logs the notification
func (n *LogNotifier) Notify(ctx context.Context, userIDs []int64, title, body string) error {
	log.WithFields(log.Fields{
		"user_ids": userIDs,
		"title":    title,
	}).Info(body)
	return nil
}
