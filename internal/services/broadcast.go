package services

import "github.com/nneonya/Travel-app/internal/metrics"

// Broadcaster pushes an event to every socket in a room. *socketio.Server
// satisfies it.
type Broadcaster interface {
	BroadcastToRoom(namespace, room, event string, args ...interface{}) bool
}

// NopBroadcaster drops every event. Used when realtime delivery is off.
type NopBroadcaster struct{}

func (NopBroadcaster) BroadcastToRoom(string, string, string, ...interface{}) bool { return false }

const (
	EventNewMessage   = "newMessage"
	EventNotification = "notification"
)

// Emit sends payload to room on the default namespace. Delivery is best
// effort; the outcome is only counted.
func Emit(b Broadcaster, room, event string, payload interface{}) {
	if b == nil {
		return
	}
	delivered := b.BroadcastToRoom("/", room, event, payload)
	metrics.RecordBroadcast(event, delivered)
}
