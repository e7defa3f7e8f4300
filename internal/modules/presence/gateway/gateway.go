// Package gateway pushes named events to connected users.
//
// Delivery is best effort: a push to an absent user or over a broken channel
// reports false and is never retried or queued. The durable store stays the
// source of truth, and registry cleanup belongs to the connection lifecycle.
package gateway

import (
	"log"

	"anoa.com/socialhub/internal/modules/presence/registry"
	"github.com/google/uuid"
)

const (
	EventReceiveMessage      = "ReceiveMessage"
	EventReceiveNotification = "ReceiveNotification"
)

// Pusher is what the messaging and notification services depend on.
type Pusher interface {
	Push(userID uuid.UUID, event string, payload any) bool
}

type ChannelLookup interface {
	Lookup(userID uuid.UUID) (registry.Channel, bool)
}

type Gateway struct {
	channels ChannelLookup
}

func New(channels ChannelLookup) *Gateway {
	return &Gateway{channels: channels}
}

// Push reports whether the send completed without a transport error.
func (g *Gateway) Push(userID uuid.UUID, event string, payload any) (delivered bool) {
	ch, ok := g.channels.Lookup(userID)
	if !ok {
		return false
	}

	defer func() {
		if r := recover(); r != nil {
			log.Printf("[push] %s to user %s via %s panicked: %v", event, userID, ch.ID(), r)
			delivered = false
		}
	}()

	if err := ch.Send(event, payload); err != nil {
		log.Printf("[push] %s to user %s via %s failed: %v", event, userID, ch.ID(), err)
		return false
	}
	return true
}
