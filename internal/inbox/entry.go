package inbox

import (
	"strings"
	"time"

	"github.com/justify-app/justify/internal/gateway"
)

// Entry is one row of the conversation panel. A pending entry is the
// optimistic placeholder for an in-flight send; it is always replaced or
// removed when the send resolves, never left in the list.
type Entry struct {
	Pending bool
	TempID  string
	Message gateway.Message
}

// newPlaceholder builds the optimistic entry for a just-composed message.
func newPlaceholder(tempID string, senderID int64, fromAdmin bool, text string) Entry {
	return Entry{
		Pending: true,
		TempID:  tempID,
		Message: gateway.Message{
			Text:          text,
			SenderID:      senderID,
			FromAdmin:     fromAdmin,
			SentAt:        time.Now(),
			DeliveryState: gateway.StateSent,
		},
	}
}

// resolve replaces the placeholder identified by tempID with the confirmed
// server message, in place. Returns false if no such placeholder exists.
func resolve(entries []Entry, tempID string, confirmed gateway.Message) bool {
	for i := range entries {
		if entries[i].Pending && entries[i].TempID == tempID {
			entries[i] = Entry{Message: confirmed}
			return true
		}
	}
	return false
}

// remove drops the placeholder identified by tempID.
func remove(entries []Entry, tempID string) []Entry {
	for i := range entries {
		if entries[i].Pending && entries[i].TempID == tempID {
			return append(entries[:i], entries[i+1:]...)
		}
	}
	return entries
}

// matchesPlaceholder reports whether a server message is the confirmation of
// the given pending entry. The backend does not echo a client correlation id
// on every code path, so the match is by sender, trimmed text, and a sent
// timestamp within a minute of the optimistic one.
func matchesPlaceholder(p Entry, m gateway.Message) bool {
	if !p.Pending {
		return false
	}
	if p.Message.SenderID != m.SenderID {
		return false
	}
	if strings.TrimSpace(p.Message.Text) != strings.TrimSpace(m.Text) {
		return false
	}
	diff := m.SentAt.Sub(p.Message.SentAt)
	if diff < 0 {
		diff = -diff
	}
	return m.SentAt.IsZero() || diff <= time.Minute
}
