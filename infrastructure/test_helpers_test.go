package infrastructure

import (
	"context"
	"sync"

	"clanwars/domain/events"
)

// recordingEventPublisher captures published events
type recordingEventPublisher struct {
	mu        sync.Mutex
	published []events.Event
	err       error
}

func (p *recordingEventPublisher) Publish(event events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.published = append(p.published, event)
	return nil
}

func (p *recordingEventPublisher) received() []events.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]events.Event(nil), p.published...)
}

type publishedMessage struct {
	subject string
	data    []byte
}

// recordingMessagePublisher captures raw bus messages
type recordingMessagePublisher struct {
	messages []publishedMessage
	err      error
}

func (p *recordingMessagePublisher) Publish(ctx context.Context, subject string, data []byte) error {
	if p.err != nil {
		return p.err
	}
	p.messages = append(p.messages, publishedMessage{subject: subject, data: data})
	return nil
}
