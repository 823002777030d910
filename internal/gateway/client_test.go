package gateway

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func testClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(srv.URL, 5*time.Second)
}

func TestListCorrespondents(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/UserController/getAllUsers" {
			t.Errorf("path = %q", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{
			"status": true,
			"users": [
				{"id": "3", "name": "Ana Souza", "email": "ana@example.com", "has_unread": "1", "last_activity": "2026-08-30 10:15:00"},
				{"id": 4, "name": "Bruno Lima", "email": "bruno@example.com", "has_unread": 0}
			]
		}`))
	}))

	users, err := c.ListCorrespondents(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(users) != 2 {
		t.Fatalf("got %d users, want 2", len(users))
	}
	if users[0].ID != 3 || !users[0].HasUnread {
		t.Errorf("first user = %+v, want id=3 unread", users[0])
	}
	if users[1].ID != 4 || users[1].HasUnread {
		t.Errorf("second user = %+v, want id=4 read", users[1])
	}
}

func TestGetConversationDirectShape(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/MessageController/getConversation/3" {
			t.Errorf("path = %q", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{
			"status": true,
			"conversationId": 11,
			"messages": [
				{"id": 1, "text": "hello", "sender_id": 3, "is_admin": 0, "status": "read", "created_at": "2026-08-30 10:00:00"},
				{"id": 2, "text": "hi there", "sender_id": 9, "is_admin": 1, "status": "delivered", "created_at": "2026-08-30 10:01:00"}
			]
		}`))
	}))

	conv, err := c.GetConversation(context.Background(), 3, 9, 3)
	if err != nil {
		t.Fatal(err)
	}
	if conv.ID != 11 {
		t.Errorf("conversation id = %d, want 11", conv.ID)
	}
	if len(conv.Messages) != 2 {
		t.Fatalf("got %d messages, want 2", len(conv.Messages))
	}
	if conv.Messages[1].FromAdmin != true || conv.Messages[1].DeliveryState != StateDelivered {
		t.Errorf("second message = %+v", conv.Messages[1])
	}
}

func TestGetConversationFallsBackToQueryForm(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			// Direct form unavailable on this backend build.
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte(`{
			"status": true,
			"conversation_id": "12",
			"data": [
				{"id": "5", "message": "fallback body", "senderId": "3", "isAdmin": "0", "created_at": "2026-08-30 11:00:00"}
			]
		}`))
	}))

	conv, err := c.GetConversation(context.Background(), 3, 9, 3)
	if err != nil {
		t.Fatal(err)
	}
	if conv.ID != 12 {
		t.Errorf("conversation id = %d, want 12", conv.ID)
	}
	if len(conv.Messages) != 1 {
		t.Fatalf("got %d messages, want 1", len(conv.Messages))
	}
	m := conv.Messages[0]
	if m.ID != 5 || m.Text != "fallback body" || m.SenderID != 3 || m.FromAdmin {
		t.Errorf("normalized message = %+v", m)
	}
	if m.DeliveryState != StateSent {
		t.Errorf("missing status should normalize to sent, got %q", m.DeliveryState)
	}
}

func TestGetConversationBothShapesFail(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))

	_, err := c.GetConversation(context.Background(), 3, 9, 3)
	if err == nil {
		t.Fatal("expected error when both forms fail")
	}
}

func TestSendMessage(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/MessageController/sendMessage" {
			t.Errorf("path = %q", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{
			"status": true,
			"data": {"id": 42, "text": "Hello", "sender_id": 3, "is_admin": 0, "status": "delivered", "created_at": "2026-08-30 12:00:00"}
		}`))
	}))

	msg, err := c.SendMessage(context.Background(), 3, 9, 11, "Hello")
	if err != nil {
		t.Fatal(err)
	}
	if msg.ID != 42 || msg.Text != "Hello" || msg.DeliveryState != StateDelivered {
		t.Errorf("confirmed message = %+v", msg)
	}
}

func TestSendMessageBackendRejection(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status": false}`))
	}))

	_, err := c.SendMessage(context.Background(), 3, 9, 0, "Hello")
	if !errors.Is(err, ErrBackendRejected) {
		t.Errorf("error = %v, want ErrBackendRejected", err)
	}
}

func TestUpdateMessageStatusIgnoresBody(t *testing.T) {
	var gotPath string
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		// Response body intentionally not JSON; callers do not need it.
		_, _ = w.Write([]byte("ok"))
	}))

	if err := c.UpdateMessageStatus(context.Background(), 42, StateRead); err != nil {
		t.Fatalf("UpdateMessageStatus() error = %v", err)
	}
	if gotPath != "/MessageController/updateMessageStatus" {
		t.Errorf("path = %q", gotPath)
	}
}

func TestTransportErrorOnNon2xx(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))

	if _, err := c.ListCorrespondents(context.Background()); err == nil {
		t.Error("expected transport error for 502")
	}
}

func TestLogin(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status": true, "user_id": 3, "is_admin": 1, "name": "Clara"}`))
	}))

	acct, err := c.Login(context.Background(), "clara@example.gov", "secret")
	if err != nil {
		t.Fatal(err)
	}
	if acct.UserID != 3 || !acct.IsAdmin || acct.Name != "Clara" {
		t.Errorf("account = %+v", acct)
	}
}

func TestParseTimestampVariants(t *testing.T) {
	cases := []struct {
		s      string
		unixMs int64
		zero   bool
	}{
		{"2026-08-30 10:00:00", 0, false},
		{"2026-08-30T10:00:00Z", 0, false},
		{"2026-08-30", 0, false},
		{"", 1756540800000, false},
		{"", 0, true},
		{"not-a-date", 0, true},
	}
	for _, tc := range cases {
		got := parseTimestamp(tc.s, tc.unixMs)
		if got.IsZero() != tc.zero {
			t.Errorf("parseTimestamp(%q, %d).IsZero() = %v, want %v", tc.s, tc.unixMs, got.IsZero(), tc.zero)
		}
	}
}
