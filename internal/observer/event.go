// Package observer exposes the intents flowing to viewers for debugging:
// Tap sits in front of a Transport and publishes every intent, and Hub
// fans the events out to websocket clients as JSON.
package observer

import (
	"time"

	"github.com/google/uuid"
)

// Event is one intent delivered to one viewer.
type Event struct {
	Time   time.Time `json:"time"`
	Type   string    `json:"type"`
	Entity int32     `json:"entity"`
	Viewer uuid.UUID `json:"viewer"`
	Intent any       `json:"intent"`
}

// Publisher receives events. Publish must not block.
type Publisher interface {
	Publish(Event)
}
