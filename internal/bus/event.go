package bus

import "time"

// Event kinds published by the client. Subscribers filter by namespace
// prefix, e.g. "inbox." receives every inbox event.
const (
	KindSessionChanged  = "session.changed"
	KindSessionCleared  = "session.cleared"
	KindInboxUpdated    = "inbox.updated"
	KindInboxSendAck    = "inbox.send_ack"
	KindInboxSendFailed = "inbox.send_failed"
	KindInboxDegraded   = "inbox.degraded"
)

// Event represents a client-side domain event published on the bus.
type Event struct {
	Kind      string
	Timestamp time.Time
	Payload   any
}
