// Package registry tracks the single live delivery channel of each connected user.
package registry

import (
	"sync"

	"github.com/google/uuid"
)

// Channel is an opaque handle to one live client connection.
type Channel interface {
	ID() string
	Send(event string, payload any) error
	Close() error
}

// Registry maps a user to their current channel. The most recent Register
// wins for users with several sessions. All methods are safe for concurrent
// use and never block on I/O.
type Registry struct {
	mu       sync.RWMutex
	channels map[uuid.UUID]Channel
}

func New() *Registry {
	return &Registry{channels: make(map[uuid.UUID]Channel)}
}

// Register associates ch with userID and returns the channel it replaced, if any.
func (r *Registry) Register(userID uuid.UUID, ch Channel) (replaced Channel) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if prev, ok := r.channels[userID]; ok && prev != ch {
		replaced = prev
	}
	r.channels[userID] = ch
	return replaced
}

// Unregister removes the user's channel. Absent users are a no-op.
func (r *Registry) Unregister(userID uuid.UUID) {
	r.mu.Lock()
	delete(r.channels, userID)
	r.mu.Unlock()
}

// UnregisterIf removes the user's entry only while ch is still the current
// channel. It reports whether an entry was removed.
func (r *Registry) UnregisterIf(userID uuid.UUID, ch Channel) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if cur, ok := r.channels[userID]; ok && cur == ch {
		delete(r.channels, userID)
		return true
	}
	return false
}

func (r *Registry) Lookup(userID uuid.UUID) (Channel, bool) {
	r.mu.RLock()
	ch, ok := r.channels[userID]
	r.mu.RUnlock()
	return ch, ok
}

func (r *Registry) IsConnected(userID uuid.UUID) bool {
	_, ok := r.Lookup(userID)
	return ok
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.channels)
}

// Shutdown empties the registry and returns the channels it held so the
// caller can close them.
func (r *Registry) Shutdown() []Channel {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Channel, 0, len(r.channels))
	for _, ch := range r.channels {
		out = append(out, ch)
	}
	r.channels = make(map[uuid.UUID]Channel)
	return out
}
