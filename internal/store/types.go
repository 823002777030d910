package store

// Session is the single device identity row.
type Session struct {
	UserID  int64
	IsAdmin bool
}

// Correspondent is a cached user the admin can message.
type Correspondent struct {
	ID             int64
	DisplayName    string
	Email          string
	HasUnread      bool
	LastActivityAt int64
}

// Message is a cached, server-confirmed conversation message.
type Message struct {
	ID             int64
	ConversationID int64
	ServerID       int64
	SenderID       int64
	FromAdmin      bool
	Body           string
	DeliveryState  string
	SentAt         int64
}

// OutboxEntry is the audit record for an outgoing message attempt.
type OutboxEntry struct {
	ID            int64
	ClientMsgID   string
	CounterpartID int64
	Body          string
	Status        string // sending, sent, failed
	ErrorMessage  string
	ServerMsgID   int64
}
