package gateway

import (
	"bytes"
	"strconv"
	"time"
)

// The backend serializes numbers and booleans inconsistently across
// controllers (PHP ints, numeric strings, "0"/"1" flags). flexInt and
// flexBool absorb that variance so the wire structs stay declarative.

type flexInt int64

func (f *flexInt) UnmarshalJSON(data []byte) error {
	data = bytes.Trim(data, `"`)
	if len(data) == 0 || string(data) == "null" {
		*f = 0
		return nil
	}
	n, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return err
	}
	*f = flexInt(n)
	return nil
}

type flexBool bool

func (f *flexBool) UnmarshalJSON(data []byte) error {
	switch string(bytes.Trim(data, `"`)) {
	case "1", "true":
		*f = true
	default:
		*f = false
	}
	return nil
}

// wireMessage tolerates the field spellings of both conversation endpoints.
type wireMessage struct {
	ID        flexInt  `json:"id"`
	Text      string   `json:"text"`
	MsgAlt    string   `json:"message"`
	SenderID  flexInt  `json:"sender_id"`
	SenderAlt flexInt  `json:"senderId"`
	IsAdmin   flexBool `json:"is_admin"`
	AdminAlt  flexBool `json:"isAdmin"`
	Status    string   `json:"status"`
	CreatedAt string   `json:"created_at"`
	SentAtMs  flexInt  `json:"sent_at"`
}

func (w wireMessage) normalize() Message {
	text := w.Text
	if text == "" {
		text = w.MsgAlt
	}
	sender := int64(w.SenderID)
	if sender == 0 {
		sender = int64(w.SenderAlt)
	}
	return Message{
		ID:            int64(w.ID),
		Text:          text,
		SenderID:      sender,
		FromAdmin:     bool(w.IsAdmin) || bool(w.AdminAlt),
		SentAt:        parseTimestamp(w.CreatedAt, int64(w.SentAtMs)),
		DeliveryState: normalizeState(w.Status),
	}
}

// directConversation is the GET /getConversation/{id} response shape.
type directConversation struct {
	Status         bool          `json:"status"`
	Messages       []wireMessage `json:"messages"`
	ConversationID flexInt       `json:"conversationId"`
}

func (d directConversation) normalize() (*Conversation, error) {
	return buildConversation(int64(d.ConversationID), d.Messages), nil
}

// fallbackConversation is the POST /getConversation response shape.
type fallbackConversation struct {
	Status         bool          `json:"status"`
	Data           []wireMessage `json:"data"`
	ConversationID flexInt       `json:"conversation_id"`
}

func (f fallbackConversation) normalize() (*Conversation, error) {
	return buildConversation(int64(f.ConversationID), f.Data), nil
}

func buildConversation(id int64, wire []wireMessage) *Conversation {
	conv := &Conversation{ID: id, Messages: make([]Message, 0, len(wire))}
	for _, w := range wire {
		conv.Messages = append(conv.Messages, w.normalize())
	}
	return conv
}

type wireUser struct {
	ID           flexInt  `json:"id"`
	Name         string   `json:"name"`
	Email        string   `json:"email"`
	HasUnread    flexBool `json:"has_unread"`
	LastActivity string   `json:"last_activity"`
}

func (w wireUser) normalize() Correspondent {
	return Correspondent{
		ID:             int64(w.ID),
		DisplayName:    w.Name,
		Email:          w.Email,
		HasUnread:      bool(w.HasUnread),
		LastActivityAt: parseTimestamp(w.LastActivity, 0),
	}
}

type wireComplaint struct {
	ID          flexInt `json:"id"`
	Subject     string  `json:"subject"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Status      string  `json:"status"`
	CreatedAt   string  `json:"created_at"`
}

func (w wireComplaint) normalize() Complaint {
	return Complaint{
		ID:          int64(w.ID),
		Subject:     w.Subject,
		Description: w.Description,
		Category:    w.Category,
		Status:      w.Status,
		CreatedAt:   parseTimestamp(w.CreatedAt, 0),
	}
}

type wireTicket struct {
	ID        flexInt `json:"id"`
	Reference string  `json:"reference"`
	Subject   string  `json:"subject"`
	Status    string  `json:"status"`
	UpdatedAt string  `json:"updated_at"`
}

func (w wireTicket) normalize() Ticket {
	return Ticket{
		ID:        int64(w.ID),
		Reference: w.Reference,
		Subject:   w.Subject,
		Status:    w.Status,
		UpdatedAt: parseTimestamp(w.UpdatedAt, 0),
	}
}

type wireNews struct {
	ID          flexInt `json:"id"`
	Title       string  `json:"title"`
	Body        string  `json:"body"`
	PublishedAt string  `json:"published_at"`
}

func (w wireNews) normalize() NewsItem {
	return NewsItem{
		ID:          int64(w.ID),
		Title:       w.Title,
		Body:        w.Body,
		PublishedAt: parseTimestamp(w.PublishedAt, 0),
	}
}

// parseTimestamp accepts the backend's "2006-01-02 15:04:05" form, RFC3339,
// or a unix-milliseconds integer. Unparseable input yields the zero time
// rather than an error; ordering falls back to arrival order in that case.
func parseTimestamp(s string, unixMs int64) time.Time {
	if s != "" {
		for _, layout := range []string{"2006-01-02 15:04:05", time.RFC3339, "2006-01-02"} {
			if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
				return t
			}
		}
	}
	if unixMs > 0 {
		return time.UnixMilli(unixMs)
	}
	return time.Time{}
}

func normalizeState(s string) string {
	switch s {
	case StateDelivered, StateRead:
		return s
	default:
		return StateSent
	}
}
