package infrastructure

import (
	"context"
	"errors"
	"testing"

	"clanwars/domain/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransactionalPublisher_HoldsEventsUntilFlush(t *testing.T) {
	downstream := &recordingEventPublisher{}
	publisher := NewTransactionalPublisher(downstream)

	declared := events.WarDeclaredEvent{WarID: 1}
	settled := events.WarSettledEvent{WarID: 1}
	require.NoError(t, publisher.Publish(declared))
	require.NoError(t, publisher.Publish(settled))

	assert.Empty(t, downstream.received())

	require.NoError(t, publisher.Flush(context.Background()))
	assert.Equal(t, []events.Event{declared, settled}, downstream.received())

	// A second flush has nothing left to send
	require.NoError(t, publisher.Flush(context.Background()))
	assert.Len(t, downstream.received(), 2)
}

func TestTransactionalPublisher_Discard(t *testing.T) {
	downstream := &recordingEventPublisher{}
	publisher := NewTransactionalPublisher(downstream)

	require.NoError(t, publisher.Publish(events.WarDeclaredEvent{WarID: 1}))
	publisher.Discard()
	require.NoError(t, publisher.Flush(context.Background()))

	assert.Empty(t, downstream.received())
}

func TestTransactionalPublisher_FlushIgnoresPublishErrors(t *testing.T) {
	downstream := &recordingEventPublisher{err: errors.New("bus down")}
	publisher := NewTransactionalPublisher(downstream)

	require.NoError(t, publisher.Publish(events.WarDeclaredEvent{WarID: 1}))
	assert.NoError(t, publisher.Flush(context.Background()))
}

func TestMultiEventPublisher(t *testing.T) {
	first := &recordingEventPublisher{}
	failing := &recordingEventPublisher{err: errors.New("bus down")}
	last := &recordingEventPublisher{}

	err := NewMultiEventPublisher(first, failing, last).Publish(events.WarSettledEvent{WarID: 3})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "bus down")
	assert.Len(t, first.received(), 1)
	assert.Len(t, last.received(), 1)
}
