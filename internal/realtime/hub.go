package realtime

import (
	"fmt"
	"sync"
	"time"
)

// Event is a lifecycle change pushed to the owner's live dashboard session.
type Event struct {
	Topic      string    `json:"topic"`
	ContractID uint      `json:"contract_id"`
	EventType  string    `json:"event_type"`
	Status     string    `json:"status,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Topic returns the per-contract fan-out key.
func Topic(contractID uint) string {
	return fmt.Sprintf("contract-events-%d", contractID)
}

// Hub fans lifecycle events out to subscribed dashboard sessions. Delivery
// is at-least-once for connected subscribers and best-effort only: a slow
// or disconnected subscriber never blocks or fails the state transition.
// The Contract Store stays the source of truth; a reconnecting dashboard
// catches up from its next fetch.
type Hub struct {
	mu   sync.RWMutex
	subs map[string]map[*Subscriber]struct{}
}

// Subscriber is a single live session listening on one contract topic.
type Subscriber struct {
	topic string
	ch    chan Event
}

// C returns the subscriber's event channel.
func (s *Subscriber) C() <-chan Event {
	return s.ch
}

// NewHub creates an empty hub
func NewHub() *Hub {
	return &Hub{
		subs: make(map[string]map[*Subscriber]struct{}),
	}
}

// Subscribe registers a session on a contract topic. The returned
// subscriber must be released with Unsubscribe.
func (h *Hub) Subscribe(contractID uint) *Subscriber {
	sub := &Subscriber{
		topic: Topic(contractID),
		ch:    make(chan Event, 16),
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.subs[sub.topic] == nil {
		h.subs[sub.topic] = make(map[*Subscriber]struct{})
	}
	h.subs[sub.topic][sub] = struct{}{}
	return sub
}

// Unsubscribe removes a session and closes its channel.
func (h *Hub) Unsubscribe(sub *Subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if set, ok := h.subs[sub.topic]; ok {
		if _, ok := set[sub]; ok {
			delete(set, sub)
			close(sub.ch)
			if len(set) == 0 {
				delete(h.subs, sub.topic)
			}
		}
	}
}

// Publish fans an event out to every live subscriber of the contract.
// Non-blocking: events for subscribers with a full buffer are dropped.
func (h *Hub) Publish(contractID uint, eventType, status string) {
	event := Event{
		Topic:      Topic(contractID),
		ContractID: contractID,
		EventType:  eventType,
		Status:     status,
		OccurredAt: time.Now(),
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for sub := range h.subs[event.Topic] {
		select {
		case sub.ch <- event:
		default:
		}
	}
}

// SubscriberCount reports live sessions for a contract topic.
func (h *Hub) SubscriberCount(contractID uint) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[Topic(contractID)])
}

// Shutdown closes every subscriber channel.
func (h *Hub) Shutdown() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for topic, set := range h.subs {
		for sub := range set {
			close(sub.ch)
		}
		delete(h.subs, topic)
	}
}
