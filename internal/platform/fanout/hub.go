// Package fanout signals per-household change notifications to listeners.
//
// Signals carry no payload: a listener reacts by re-reading the full state,
// so pending signals coalesce into one.
package fanout

import (
	"sync"
)

// Listener receives change signals for one key.
type Listener struct {
	hub    *Hub
	key    string
	signal chan struct{}
	failed chan struct{}
	once   sync.Once
	err    error
}

// C delivers one value per burst of changes.
func (l *Listener) C() <-chan struct{} {
	return l.signal
}

// Failed is closed when the hub can no longer observe changes.
func (l *Listener) Failed() <-chan struct{} {
	return l.failed
}

// Err returns the failure cause once Failed is closed.
func (l *Listener) Err() error {
	select {
	case <-l.failed:
		return l.err
	default:
		return nil
	}
}

// Close unregisters the listener.
func (l *Listener) Close() {
	l.hub.Unregister(l)
}

func (l *Listener) fail(err error) {
	l.once.Do(func() {
		l.err = err
		close(l.failed)
	})
}

// Hub maintains the set of listeners per key.
type Hub struct {
	mu        sync.RWMutex
	listeners map[string]map[*Listener]struct{}
}

// NewHub creates a new Hub.
func NewHub() *Hub {
	return &Hub{listeners: make(map[string]map[*Listener]struct{})}
}

// Register adds a listener for key.
func (h *Hub) Register(key string) *Listener {
	l := &Listener{
		hub:    h,
		key:    key,
		signal: make(chan struct{}, 1),
		failed: make(chan struct{}),
	}
	h.mu.Lock()
	set, ok := h.listeners[key]
	if !ok {
		set = make(map[*Listener]struct{})
		h.listeners[key] = set
	}
	set[l] = struct{}{}
	h.mu.Unlock()
	return l
}

// Unregister removes a listener. Calling it twice is a no-op.
func (h *Hub) Unregister(l *Listener) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.listeners[l.key]
	if !ok {
		return
	}
	delete(set, l)
	if len(set) == 0 {
		delete(h.listeners, l.key)
	}
}

// Notify signals every listener of key without blocking.
func (h *Hub) Notify(key string) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for l := range h.listeners[key] {
		select {
		case l.signal <- struct{}{}:
		default:
			// a signal is already pending
		}
	}
}

// FailAll marks every registered listener failed with err.
func (h *Hub) FailAll(err error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, set := range h.listeners {
		for l := range set {
			l.fail(err)
		}
	}
}

// ListenerCount returns the number of listeners registered for key.
func (h *Hub) ListenerCount(key string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.listeners[key])
}
