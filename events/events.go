package events

import (
	"github.com/sirupsen/logrus"
)

const (
	OrderCreated = "orders@new"
	DayRestarted = "orders@restart_day"
)

// Message is what subscribers receive.
type Message struct {
	Event   string      `json:"event"`
	Room    string      `json:"room,omitempty"`
	Payload interface{} `json:"payload,omitempty"`
}

// Emitter delivers events fire-and-forget; there is no acknowledgment.
type Emitter interface {
	Emit(room, event string, payload interface{})
}

// Multi emits to every wrapped emitter.
type Multi []Emitter

func (m Multi) Emit(room, event string, payload interface{}) {
	for _, e := range m {
		e.Emit(room, event, payload)
	}
}

// LogEmitter only records events. Used when no transport is configured.
type LogEmitter struct {
	Log *logrus.Logger
}

func (l LogEmitter) Emit(room, event string, payload interface{}) {
	l.Log.WithFields(logrus.Fields{"room": room, "event": event}).Debug("event emitted")
}
