package events

import (
	"testing"
	"time"
)

// newTestBus builds a bus with no Redis side, which is enough to
// exercise subscription bookkeeping and in-process dispatch.
func newTestBus() *Bus {
	return &Bus{subscribers: make(map[string]map[chan Event]bool)}
}

func recvEvent(t *testing.T, ch <-chan Event) (Event, bool) {
	t.Helper()
	select {
	case event, open := <-ch:
		return event, open
	case <-time.After(time.Second):
		t.Fatal("timed out waiting on subscriber channel")
		return Event{}, false
	}
}

func TestDispatchFansOutPerRequest(t *testing.T) {
	bus := newTestBus()

	chA, unsubA := bus.Subscribe("req-1")
	chB, unsubB := bus.Subscribe("req-1")
	chOther, unsubOther := bus.Subscribe("req-2")
	defer unsubA()
	defer unsubB()
	defer unsubOther()

	bus.dispatch(Event{Type: TypeBidPlaced, RequestID: "req-1"})

	for _, ch := range []<-chan Event{chA, chB} {
		event, open := recvEvent(t, ch)
		if !open {
			t.Fatal("subscriber channel closed unexpectedly")
		}
		if event.Type != TypeBidPlaced || event.RequestID != "req-1" {
			t.Errorf("got event %+v, want bid_placed for req-1", event)
		}
	}

	select {
	case event := <-chOther:
		t.Errorf("req-2 subscriber received %+v, want nothing", event)
	default:
	}

	if got := bus.Delivered(); got != 2 {
		t.Errorf("Delivered() = %d, want 2", got)
	}
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	bus := newTestBus()

	ch, unsubscribe := bus.Subscribe("req-1")
	unsubscribe()

	if _, open := recvEvent(t, ch); open {
		t.Error("channel still open after unsubscribe")
	}

	// Dispatch after unsubscribe must not panic or count a delivery.
	bus.dispatch(Event{Type: TypeStatusChanged, RequestID: "req-1"})
	if got := bus.Delivered(); got != 0 {
		t.Errorf("Delivered() = %d, want 0", got)
	}

	// A second unsubscribe is a no-op, not a double close.
	unsubscribe()
}

func TestSlowSubscriberDropsEvents(t *testing.T) {
	bus := newTestBus()

	_, unsubscribe := bus.Subscribe("req-1")
	defer unsubscribe()

	// Fill the subscriber buffer without draining it.
	for i := 0; i < 17; i++ {
		bus.dispatch(Event{Type: TypeMessageSent, RequestID: "req-1"})
	}

	if got := bus.Dropped(); got != 1 {
		t.Errorf("Dropped() = %d, want 1", got)
	}
	if got := bus.Delivered(); got != 16 {
		t.Errorf("Delivered() = %d, want 16", got)
	}
}

func TestCloseTearsDownSubscribers(t *testing.T) {
	bus := newTestBus()

	ch, unsubscribe := bus.Subscribe("req-1")

	if err := bus.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	if _, open := recvEvent(t, ch); open {
		t.Error("subscriber channel still open after Close")
	}

	// The handle a subscriber still holds stays safe.
	unsubscribe()

	// Late subscribers get an already-closed channel instead of one that
	// will never deliver.
	late, lateUnsub := bus.Subscribe("req-1")
	if _, open := recvEvent(t, late); open {
		t.Error("Subscribe() after Close returned an open channel")
	}
	lateUnsub()
}
