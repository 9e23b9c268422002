package notify

import "fmt"

// TenantID identifies an organization. Valid ids are strictly positive;
// zero is the unset value.
type TenantID int64

// Valid reports whether the id identifies a real tenant.
func (t TenantID) Valid() bool { return t > 0 }

func (t TenantID) String() string { return fmt.Sprintf("%d", int64(t)) }

// Server-to-client event names.
const (
	EventConnected    = "connected"
	EventSubscribed   = "subscribed"
	EventUnsubscribed = "unsubscribed"
	EventError        = "error"
	EventStatusUpdate = "status_update"
)

// Client-to-server event names.
const (
	EventSubscribeOrg   = "subscribe_organization"
	EventUnsubscribeOrg = "unsubscribe_organization"
)

// Frame is the unit handed to a Session for delivery. The transport owns
// the encoding; websocket sessions serialize the whole frame as one JSON
// object, SSE sessions map Event to the event field and Data to the data
// field.
type Frame struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

// ConnectedAck is the data of the connected frame sent on attach.
type ConnectedAck struct {
	Message string `json:"message"`
}

// SubscriptionAck is the data of subscribed and unsubscribed frames.
type SubscriptionAck struct {
	Message  string   `json:"message"`
	TenantID TenantID `json:"tenant_id"`
}

// ErrorAck is the data of error frames. Errors caused by one session's
// input go only to that session.
type ErrorAck struct {
	Message string `json:"message"`
}

// Session is a connected client as seen by the notification core. Send
// must not block; transports queue the frame and report a send error when
// the session is closed or its queue is full.
type Session interface {
	ID() string
	Send(Frame) error
}
