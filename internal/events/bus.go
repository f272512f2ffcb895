package events

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/atomic"
)

// Event types published on a request's channel.
const (
	TypeBidPlaced        = "bid_placed"
	TypeStatusChanged    = "status_changed"
	TypeMessageSent      = "message_sent"
	TypeRequestCancelled = "request_cancelled"
)

const channelPrefix = "request:events:"

// Event is one entry in a request's live update stream.
type Event struct {
	Type      string          `json:"type"`
	RequestID string          `json:"request_id"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}

// Publisher fans domain events out to live subscribers. Publishing is
// best-effort: a failed publish never fails the write that triggered it.
type Publisher interface {
	Publish(ctx context.Context, requestID, eventType string, payload interface{})
}

// Bus bridges Redis pub/sub to in-process subscribers. Each subscriber
// owns a channel and an explicit unsubscribe handle; delivery to a
// subscriber stops as soon as it unsubscribes.
type Bus struct {
	redis       *redis.Client
	pubsub      *redis.PubSub
	mu          sync.RWMutex
	subscribers map[string]map[chan Event]bool // requestID -> subscriber channels
	closed      bool
	delivered   atomic.Int64
	dropped     atomic.Int64
}

func NewBus(redisClient *redis.Client) *Bus {
	b := &Bus{
		redis:       redisClient,
		subscribers: make(map[string]map[chan Event]bool),
	}
	b.pubsub = redisClient.PSubscribe(context.Background(), channelPrefix+"*")

	go b.listen()

	return b
}

func (b *Bus) Publish(ctx context.Context, requestID, eventType string, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		log.Printf("events: failed to marshal %s payload: %v", eventType, err)
		return
	}

	event := Event{
		Type:      eventType,
		RequestID: requestID,
		Data:      data,
		Timestamp: time.Now(),
	}

	msg, err := json.Marshal(event)
	if err != nil {
		log.Printf("events: failed to marshal event: %v", err)
		return
	}

	if err := b.redis.Publish(ctx, channelPrefix+requestID, msg).Err(); err != nil {
		log.Printf("events: failed to publish %s for request %s: %v", eventType, requestID, err)
	}
}

// Subscribe registers a listener for one request's events. The returned
// unsubscribe func stops delivery and releases the channel; it is safe to
// call exactly once.
func (b *Bus) Subscribe(requestID string) (<-chan Event, func()) {
	ch := make(chan Event, 16)

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		close(ch)
		return ch, func() {}
	}
	if b.subscribers[requestID] == nil {
		b.subscribers[requestID] = make(map[chan Event]bool)
	}
	b.subscribers[requestID][ch] = true
	b.mu.Unlock()

	unsubscribe := func() {
		b.mu.Lock()
		defer b.mu.Unlock()

		// Only the call that removes the channel closes it; Close may
		// already have torn it down.
		subs, ok := b.subscribers[requestID]
		if !ok {
			return
		}
		if _, ok := subs[ch]; !ok {
			return
		}
		delete(subs, ch)
		if len(subs) == 0 {
			delete(b.subscribers, requestID)
		}
		close(ch)
	}

	return ch, unsubscribe
}

// Close ends the Redis subscription and closes every subscriber channel.
// Outstanding unsubscribe handles stay safe to call.
func (b *Bus) Close() error {
	b.mu.Lock()
	b.closed = true
	for requestID, subs := range b.subscribers {
		for ch := range subs {
			close(ch)
		}
		delete(b.subscribers, requestID)
	}
	b.mu.Unlock()

	if b.pubsub != nil {
		return b.pubsub.Close()
	}
	return nil
}

// Delivered returns the number of events handed to subscribers.
func (b *Bus) Delivered() int64 {
	return b.delivered.Load()
}

// Dropped returns the number of events skipped because a subscriber was
// too slow to drain its channel.
func (b *Bus) Dropped() int64 {
	return b.dropped.Load()
}

// listen runs until Close shuts the pubsub channel.
func (b *Bus) listen() {
	for msg := range b.pubsub.Channel() {
		var event Event
		if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
			log.Printf("events: bad payload on %s: %v", msg.Channel, err)
			continue
		}

		b.dispatch(event)
	}
}

func (b *Bus) dispatch(event Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for ch := range b.subscribers[event.RequestID] {
		select {
		case ch <- event:
			b.delivered.Inc()
		default:
			// Subscriber too slow, skip
			b.dropped.Inc()
		}
	}
}
