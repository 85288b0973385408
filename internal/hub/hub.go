// Package hub fans decoded events out to every connected observer.
package hub

import (
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Delivery errors returned by Observer.Deliver.
var (
	ErrObserverClosed = errors.New("observer closed")
	ErrSendTimeout    = errors.New("send timed out")
)

// Observer is one connected consumer's outbound half: a buffered message
// queue drained by a single writer, so successive deliveries to the same
// observer keep their order. Identity is never reused.
type Observer struct {
	ID   string
	send chan []byte
	done chan struct{}
	once sync.Once
}

// NewObserver creates an observer handle with the given outbound buffer.
func NewObserver(buffer int) *Observer {
	return &Observer{
		ID:   uuid.New().String(),
		send: make(chan []byte, buffer),
		done: make(chan struct{}),
	}
}

// Outbox is the channel the connection writer drains.
func (o *Observer) Outbox() <-chan []byte { return o.send }

// Done is closed when the observer is unregistered.
func (o *Observer) Done() <-chan struct{} { return o.done }

// Deliver enqueues one message, waiting at most timeout. A full queue
// past the deadline or a closed observer is a delivery failure.
func (o *Observer) Deliver(data []byte, timeout time.Duration) error {
	select {
	case <-o.done:
		return ErrObserverClosed
	default:
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case o.send <- data:
		return nil
	case <-o.done:
		return ErrObserverClosed
	case <-timer.C:
		return ErrSendTimeout
	}
}

func (o *Observer) close() {
	o.once.Do(func() { close(o.done) })
}

// Hub owns the observer set. Membership changes only through Register
// and Unregister; nothing else may mutate the set.
type Hub struct {
	mu          sync.RWMutex
	observers   map[*Observer]struct{}
	sendTimeout time.Duration
	log         zerolog.Logger
}

// DefaultSendTimeout bounds how long one publish waits on a slow
// observer before treating the send as failed.
const DefaultSendTimeout = time.Second

// New creates an empty hub.
func New(log zerolog.Logger) *Hub {
	return &Hub{
		observers:   make(map[*Observer]struct{}),
		sendTimeout: DefaultSendTimeout,
		log:         log.With().Str("component", "hub").Logger(),
	}
}

// Register adds an observer to the broadcast set.
func (h *Hub) Register(o *Observer) {
	h.mu.Lock()
	h.observers[o] = struct{}{}
	total := len(h.observers)
	h.mu.Unlock()
	h.log.Info().Str("observer", o.ID).Int("total", total).Msg("observer registered")
}

// Unregister removes an observer and marks it closed. Idempotent.
func (h *Hub) Unregister(o *Observer) {
	h.mu.Lock()
	_, present := h.observers[o]
	delete(h.observers, o)
	total := len(h.observers)
	h.mu.Unlock()
	o.close()
	if present {
		h.log.Info().Str("observer", o.ID).Int("total", total).Msg("observer unregistered")
	}
}

// Count returns the current observer count.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.observers)
}

// Publish marshals v once and delivers it to every registered observer
// concurrently, waiting for all sends to finish. A failed send drops
// only that observer; with no observers the message is discarded.
func (h *Hub) Publish(v any) {
	h.mu.RLock()
	if len(h.observers) == 0 {
		h.mu.RUnlock()
		return
	}
	targets := make([]*Observer, 0, len(h.observers))
	for o := range h.observers {
		targets = append(targets, o)
	}
	h.mu.RUnlock()

	data, err := json.Marshal(v)
	if err != nil {
		h.log.Error().Err(err).Msg("failed to marshal broadcast message")
		return
	}

	var wg sync.WaitGroup
	for _, o := range targets {
		wg.Add(1)
		go func(o *Observer) {
			defer wg.Done()
			if err := o.Deliver(data, h.sendTimeout); err != nil {
				h.log.Warn().Str("observer", o.ID).Err(err).Msg("delivery failed, dropping observer")
				h.Unregister(o)
			}
		}(o)
	}
	wg.Wait()
}
