package gateway

import "time"

// Delivery states a confirmed message walks through, forward only.
const (
	StateSent      = "sent"
	StateDelivered = "delivered"
	StateRead      = "read"
)

// Correspondent is a user an admin can exchange messages with.
type Correspondent struct {
	ID             int64
	DisplayName    string
	Email          string
	HasUnread      bool
	LastActivityAt time.Time
}

// Message is a server-confirmed conversation message in canonical form.
type Message struct {
	ID            int64
	Text          string
	SenderID      int64
	FromAdmin     bool
	SentAt        time.Time
	DeliveryState string
}

// Conversation is a normalized message history plus its server id.
// ID is zero until the first message establishes the conversation.
type Conversation struct {
	ID       int64
	Messages []Message
}

// Account is the identity returned by a successful login.
type Account struct {
	UserID  int64
	IsAdmin bool
	Name    string
}

// Complaint is a submitted citizen complaint.
type Complaint struct {
	ID          int64
	Subject     string
	Description string
	Category    string
	Status      string
	CreatedAt   time.Time
}

// Ticket tracks the processing state of a filed request.
type Ticket struct {
	ID        int64
	Reference string
	Subject   string
	Status    string
	UpdatedAt time.Time
}

// NewsItem is a published portal article.
type NewsItem struct {
	ID          int64
	Title       string
	Body        string
	PublishedAt time.Time
}

// Statistics are the server-side rollups behind the dashboard.
type Statistics struct {
	TotalComplaints    int64
	OpenComplaints     int64
	ResolvedComplaints int64
	TotalUsers         int64
	ComplaintsByMonth  map[string]int64
}
