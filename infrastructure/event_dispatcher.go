package infrastructure

import (
	"context"
	"errors"
	"sync"

	"clanwars/application"
	"clanwars/domain/events"
	"clanwars/infrastructure/observability"

	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// ErrDispatchQueueFull is returned when an event is dropped because the
// dispatch queue has no room
var ErrDispatchQueueFull = errors.New("event dispatch queue is full")

// EventDispatcher delivers committed events to local handlers on a bounded
// queue drained by a fixed set of rate-limited workers. Publishing never
// blocks the caller.
type EventDispatcher struct {
	mu       sync.RWMutex
	handlers map[events.EventType][]application.EventHandler
	queue    chan events.Event
	limiter  *rate.Limiter
	workers  int
	wg       sync.WaitGroup
}

// NewEventDispatcher creates a dispatcher. A non-positive ratePerSecond
// disables rate limiting.
func NewEventDispatcher(queueSize, workers int, ratePerSecond float64) *EventDispatcher {
	limit := rate.Inf
	burst := 1
	if ratePerSecond > 0 {
		limit = rate.Limit(ratePerSecond)
		burst = max(1, int(ratePerSecond))
	}

	return &EventDispatcher{
		handlers: make(map[events.EventType][]application.EventHandler),
		queue:    make(chan events.Event, max(1, queueSize)),
		limiter:  rate.NewLimiter(limit, burst),
		workers:  max(1, workers),
	}
}

// Subscribe adds a handler for a specific event type
func (d *EventDispatcher) Subscribe(eventType events.EventType, handler application.EventHandler) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.handlers[eventType] = append(d.handlers[eventType], handler)

	log.WithFields(log.Fields{
		"eventType":    eventType,
		"handlerCount": len(d.handlers[eventType]),
	}).Debug("Subscribed handler to event type")
}

// Publish enqueues an event for asynchronous delivery
func (d *EventDispatcher) Publish(event events.Event) error {
	select {
	case d.queue <- event:
		return nil
	default:
		observability.GetMetrics().RecordEventDropped(string(event.Type()))
		return ErrDispatchQueueFull
	}
}

// Start launches the workers. Once ctx is cancelled they deliver the events
// still queued and exit; the returned function waits for them.
func (d *EventDispatcher) Start(ctx context.Context) func() {
	for i := 0; i < d.workers; i++ {
		d.wg.Add(1)
		go d.work(ctx, i)
	}

	log.WithField("workers", d.workers).Info("Event dispatcher started")
	return d.wg.Wait
}

func (d *EventDispatcher) work(ctx context.Context, worker int) {
	defer d.wg.Done()

	for {
		select {
		case <-ctx.Done():
			d.drain(context.WithoutCancel(ctx))
			log.WithField("worker", worker).Debug("Event dispatcher worker shutting down")
			return
		case event := <-d.queue:
			if err := d.limiter.Wait(ctx); err != nil {
				d.dispatch(context.WithoutCancel(ctx), event)
				continue
			}
			d.dispatch(ctx, event)
		}
	}
}

// drain delivers whatever is still queued without rate limiting
func (d *EventDispatcher) drain(ctx context.Context) {
	for {
		select {
		case event := <-d.queue:
			d.dispatch(ctx, event)
		default:
			return
		}
	}
}

// dispatch runs every handler for the event, isolating errors and panics
func (d *EventDispatcher) dispatch(ctx context.Context, event events.Event) {
	d.mu.RLock()
	handlers := make([]application.EventHandler, len(d.handlers[event.Type()]))
	copy(handlers, d.handlers[event.Type()])
	d.mu.RUnlock()

	observability.GetMetrics().RecordEventDispatched(string(event.Type()))

	for i, handler := range handlers {
		func() {
			defer func() {
				if r := recover(); r != nil {
					log.WithFields(log.Fields{
						"eventType":    event.Type(),
						"handlerIndex": i,
						"panic":        r,
					}).Error("Event handler panicked")
				}
			}()

			if err := handler(ctx, event); err != nil {
				log.WithFields(log.Fields{
					"eventType":    event.Type(),
					"handlerIndex": i,
					"error":        err,
				}).Warn("Event handler failed")
			}
		}()
	}
}
