package streaming

import (
	"context"
	"strconv"
	"sync"

	"scamshield/internal/domain/models"
	"scamshield/pkg/logger"
)

const subscriberBuffer = 100

// Sink is a remote destination for scan events
type Sink interface {
	PublishScan(ctx context.Context, event models.ScanEvent) error
}

// EventBus distributes scan events to local subscribers and, when
// configured, to a remote sink
type EventBus struct {
	sink   Sink
	logger *logger.Logger

	mu          sync.RWMutex
	subscribers map[string]*subscriber
	nextID      int
	closed      bool
}

type subscriber struct {
	ch  chan models.ScanEvent
	sub *Subscription
}

// NewEventBus creates a new event bus. sink may be nil.
func NewEventBus(sink Sink, log *logger.Logger) *EventBus {
	return &EventBus{
		sink:        sink,
		logger:      log.WithComponent("event-bus"),
		subscribers: make(map[string]*subscriber),
	}
}

// PublishScan forwards the event to the sink and broadcasts it locally.
// Only a sink failure is reported; slow local subscribers drop events.
func (eb *EventBus) PublishScan(ctx context.Context, event models.ScanEvent) error {
	var err error
	if eb.sink != nil {
		err = eb.sink.PublishScan(ctx, event)
	}

	eb.mu.RLock()
	defer eb.mu.RUnlock()

	for id, s := range eb.subscribers {
		if !s.sub.Matches(event) {
			continue
		}
		select {
		case s.ch <- event:
		default:
			eb.logger.Debug().Str("subscriber", id).Msg("subscriber channel full, dropping event")
		}
	}

	return err
}

// Subscribe registers a subscriber and returns its channel and an
// unsubscribe function. The channel is closed on unsubscribe or Close.
func (eb *EventBus) Subscribe(sub *Subscription) (<-chan models.ScanEvent, func()) {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	ch := make(chan models.ScanEvent, subscriberBuffer)
	if eb.closed {
		close(ch)
		return ch, func() {}
	}

	eb.nextID++
	id := strconv.Itoa(eb.nextID)
	eb.subscribers[id] = &subscriber{ch: ch, sub: sub}
	eb.logger.Debug().Str("subscriber_id", id).Msg("new subscriber")

	unsubscribe := func() {
		eb.mu.Lock()
		defer eb.mu.Unlock()
		if s, ok := eb.subscribers[id]; ok {
			close(s.ch)
			delete(eb.subscribers, id)
			eb.logger.Debug().Str("subscriber_id", id).Msg("subscriber removed")
		}
	}

	return ch, unsubscribe
}

// SubscriberCount returns the number of active subscribers
func (eb *EventBus) SubscriberCount() int {
	eb.mu.RLock()
	defer eb.mu.RUnlock()
	return len(eb.subscribers)
}

// Close closes every subscriber channel
func (eb *EventBus) Close() {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	eb.closed = true
	for id, s := range eb.subscribers {
		close(s.ch)
		delete(eb.subscribers, id)
	}
}
