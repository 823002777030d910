package inbox

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/justify-app/justify/internal/gateway"
	"github.com/justify-app/justify/internal/session"
	"github.com/justify-app/justify/internal/status"
	"github.com/justify-app/justify/internal/store"
)

// fakeAPI implements API with overridable behavior per test.
type fakeAPI struct {
	mu sync.Mutex

	listFn   func(ctx context.Context) ([]gateway.Correspondent, error)
	getFn    func(ctx context.Context, counterpartID, adminID, userID int64) (*gateway.Conversation, error)
	sendFn   func(ctx context.Context, userID, adminID, conversationID int64, text string) (*gateway.Message, error)
	statusFn func(ctx context.Context, messageID int64, state string) error

	sendCalls int
}

func (f *fakeAPI) ListCorrespondents(ctx context.Context) ([]gateway.Correspondent, error) {
	if f.listFn == nil {
		return nil, nil
	}
	return f.listFn(ctx)
}

func (f *fakeAPI) GetConversation(ctx context.Context, counterpartID, adminID, userID int64) (*gateway.Conversation, error) {
	if f.getFn == nil {
		return &gateway.Conversation{}, nil
	}
	return f.getFn(ctx, counterpartID, adminID, userID)
}

func (f *fakeAPI) SendMessage(ctx context.Context, userID, adminID, conversationID int64, text string) (*gateway.Message, error) {
	f.mu.Lock()
	f.sendCalls++
	f.mu.Unlock()
	if f.sendFn == nil {
		return &gateway.Message{ID: 1, Text: text, SenderID: userID}, nil
	}
	return f.sendFn(ctx, userID, adminID, conversationID, text)
}

func (f *fakeAPI) UpdateMessageStatus(ctx context.Context, messageID int64, state string) error {
	if f.statusFn == nil {
		return nil
	}
	return f.statusFn(ctx, messageID, state)
}

func (f *fakeAPI) sendCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sendCalls
}

func adminVM(api API) *ViewModel {
	vm := NewViewModel(api, nil, nil, nil)
	vm.SetIdentity(session.Session{UserID: 9, IsAdmin: true})
	return vm
}

func TestSendConfirmReplacesPlaceholder(t *testing.T) {
	api := &fakeAPI{
		sendFn: func(_ context.Context, userID, _, _ int64, text string) (*gateway.Message, error) {
			return &gateway.Message{ID: 42, Text: text, SenderID: userID, DeliveryState: gateway.StateDelivered, SentAt: time.Now()}, nil
		},
	}
	vm := adminVM(api)
	vm.OpenConversation(3)

	if !vm.Send(context.Background(), "Hello") {
		t.Fatal("Send returned false")
	}

	entries := vm.Entries()
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want exactly 1 (placeholder replaced, not appended)", len(entries))
	}
	e := entries[0]
	if e.Pending {
		t.Error("entry still pending after confirmation")
	}
	if e.Message.ID != 42 || e.Message.Text != "Hello" || e.Message.DeliveryState != gateway.StateDelivered {
		t.Errorf("confirmed entry = %+v", e.Message)
	}
}

func TestSendFailureRollsBack(t *testing.T) {
	api := &fakeAPI{
		sendFn: func(context.Context, int64, int64, int64, string) (*gateway.Message, error) {
			return nil, errors.New("network unreachable")
		},
	}
	vm := adminVM(api)
	vm.OpenConversation(3)

	if !vm.Send(context.Background(), "  important text  ") {
		t.Fatal("Send returned false")
	}

	if got := len(vm.Entries()); got != 0 {
		t.Errorf("got %d entries after failed send, want 0 (placeholder removed)", got)
	}
	if draft := vm.Draft(); draft != "  important text  " {
		t.Errorf("draft = %q, want the exact text that failed", draft)
	}
	if vm.LastError() == nil {
		t.Error("failed send left no error state")
	}
}

func TestSendValidationNoops(t *testing.T) {
	api := &fakeAPI{}
	vm := adminVM(api)
	vm.OpenConversation(3)

	if vm.Send(context.Background(), "   ") {
		t.Error("Send of blank text should be a no-op")
	}

	vm.CloseConversation()
	if vm.Send(context.Background(), "hello") {
		t.Error("Send without an open counterpart should be a no-op")
	}

	noSession := NewViewModel(api, nil, nil, nil)
	noSession.OpenConversation(3)
	if noSession.Send(context.Background(), "hello") {
		t.Error("Send without a session should be a no-op")
	}

	if api.sendCount() != 0 {
		t.Errorf("no-op sends reached the network %d times", api.sendCount())
	}
}

func TestSendSingleFlight(t *testing.T) {
	block := make(chan struct{})
	started := make(chan struct{})
	api := &fakeAPI{
		sendFn: func(_ context.Context, userID, _, _ int64, text string) (*gateway.Message, error) {
			close(started)
			<-block
			return &gateway.Message{ID: 7, Text: text, SenderID: userID, SentAt: time.Now()}, nil
		},
	}
	vm := adminVM(api)
	vm.OpenConversation(3)

	done := make(chan bool)
	go func() { done <- vm.Send(context.Background(), "first") }()
	<-started

	if before := len(vm.Entries()); before != 1 {
		t.Fatalf("got %d entries mid-send, want 1 placeholder", before)
	}
	if vm.Send(context.Background(), "second") {
		t.Error("second Send while first in flight should be a no-op")
	}
	if after := len(vm.Entries()); after != 1 {
		t.Errorf("second Send changed list length to %d", after)
	}

	close(block)
	<-done

	if api.sendCount() != 1 {
		t.Errorf("send calls = %d, want 1", api.sendCount())
	}
}

func TestStaleFetchDiscarded(t *testing.T) {
	releaseA := make(chan struct{})
	msgsFor := func(counterpart int64, body string) *gateway.Conversation {
		return &gateway.Conversation{ID: counterpart * 100, Messages: []gateway.Message{
			{ID: counterpart, Text: body, SenderID: counterpart, SentAt: time.Now()},
		}}
	}
	api := &fakeAPI{
		getFn: func(_ context.Context, counterpartID, _, _ int64) (*gateway.Conversation, error) {
			if counterpartID == 1 {
				<-releaseA // A's response arrives late
				return msgsFor(1, "from A"), nil
			}
			return msgsFor(2, "from B"), nil
		},
	}
	vm := adminVM(api)

	vm.OpenConversation(1)
	fetchA := make(chan error)
	go func() { fetchA <- vm.FetchConversation(context.Background()) }()

	vm.OpenConversation(2)
	if err := vm.FetchConversation(context.Background()); err != nil {
		t.Fatal(err)
	}

	close(releaseA)
	if err := <-fetchA; err != nil {
		t.Fatal(err)
	}

	entries := vm.Entries()
	if len(entries) != 1 || entries[0].Message.Text != "from B" {
		t.Errorf("displayed entries = %+v, want only B's messages", entries)
	}
}

func TestFetchFailurePreservesLastGood(t *testing.T) {
	failing := false
	api := &fakeAPI{
		getFn: func(context.Context, int64, int64, int64) (*gateway.Conversation, error) {
			if failing {
				return nil, errors.New("backend down")
			}
			return &gateway.Conversation{ID: 11, Messages: []gateway.Message{
				{ID: 1, Text: "kept", SenderID: 3, SentAt: time.Now()},
			}}, nil
		},
	}
	vm := adminVM(api)
	vm.OpenConversation(3)

	if err := vm.FetchConversation(context.Background()); err != nil {
		t.Fatal(err)
	}
	failing = true
	if err := vm.FetchConversation(context.Background()); err == nil {
		t.Fatal("expected fetch error")
	}

	if got := len(vm.Entries()); got != 1 {
		t.Errorf("entries after failed refetch = %d, want 1 (last good preserved)", got)
	}
	if vm.Panel().Current() != status.Error {
		t.Errorf("panel state = %s, want ERROR", vm.Panel().Current())
	}
}

func TestOrderingPreservedOnRefresh(t *testing.T) {
	api := &fakeAPI{
		getFn: func(context.Context, int64, int64, int64) (*gateway.Conversation, error) {
			base := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)
			return &gateway.Conversation{ID: 11, Messages: []gateway.Message{
				{ID: 1, Text: "a", SentAt: base},
				{ID: 2, Text: "b", SentAt: base.Add(time.Minute)},
				{ID: 3, Text: "c", SentAt: base.Add(time.Minute)}, // tie broken by arrival order
				{ID: 4, Text: "d", SentAt: base.Add(2 * time.Minute)},
			}}, nil
		},
	}
	vm := adminVM(api)
	vm.OpenConversation(3)
	if err := vm.FetchConversation(context.Background()); err != nil {
		t.Fatal(err)
	}

	entries := vm.Entries()
	for i := 1; i < len(entries); i++ {
		if entries[i].Message.SentAt.Before(entries[i-1].Message.SentAt) {
			t.Errorf("entry %d sent before its predecessor", i)
		}
	}
	if entries[1].Message.ID != 2 || entries[2].Message.ID != 3 {
		t.Error("tie not broken by arrival order")
	}
}

func TestDeliveryStateNeverRegresses(t *testing.T) {
	state := gateway.StateRead
	api := &fakeAPI{
		getFn: func(context.Context, int64, int64, int64) (*gateway.Conversation, error) {
			return &gateway.Conversation{ID: 11, Messages: []gateway.Message{
				{ID: 1, Text: "a", DeliveryState: state, SentAt: time.Now()},
			}}, nil
		},
	}
	vm := adminVM(api)
	vm.OpenConversation(3)
	if err := vm.FetchConversation(context.Background()); err != nil {
		t.Fatal(err)
	}

	// A later refresh reporting an older state must not win.
	state = gateway.StateSent
	if _, err := vm.Refresh(context.Background()); err != nil {
		t.Fatal(err)
	}

	if got := vm.Entries()[0].Message.DeliveryState; got != gateway.StateRead {
		t.Errorf("delivery state = %q, want read (no regression)", got)
	}
}

func TestRefreshSkippedWhileSending(t *testing.T) {
	block := make(chan struct{})
	started := make(chan struct{})
	fetches := 0
	api := &fakeAPI{
		getFn: func(context.Context, int64, int64, int64) (*gateway.Conversation, error) {
			fetches++
			return &gateway.Conversation{}, nil
		},
		sendFn: func(_ context.Context, userID, _, _ int64, text string) (*gateway.Message, error) {
			close(started)
			<-block
			return &gateway.Message{ID: 7, Text: text, SenderID: userID, SentAt: time.Now()}, nil
		},
	}
	vm := adminVM(api)
	vm.OpenConversation(3)

	done := make(chan bool)
	go func() { done <- vm.Send(context.Background(), "hi") }()
	<-started

	appended, err := vm.Refresh(context.Background())
	if err != nil || appended {
		t.Errorf("Refresh during send = (%v, %v), want skipped no-op", appended, err)
	}
	if fetches != 0 {
		t.Errorf("refresh fetched %d times during in-flight send", fetches)
	}

	close(block)
	<-done
}

func TestRefreshDoesNotDuplicateConfirmedSend(t *testing.T) {
	api := &fakeAPI{
		sendFn: func(_ context.Context, userID, _, _ int64, text string) (*gateway.Message, error) {
			return &gateway.Message{ID: 42, Text: text, SenderID: userID, DeliveryState: gateway.StateSent, SentAt: time.Now()}, nil
		},
		getFn: func(context.Context, int64, int64, int64) (*gateway.Conversation, error) {
			return &gateway.Conversation{ID: 11, Messages: []gateway.Message{
				{ID: 42, Text: "Hello", SenderID: 9, DeliveryState: gateway.StateDelivered, SentAt: time.Now()},
			}}, nil
		},
	}
	vm := adminVM(api)
	vm.OpenConversation(3)

	vm.Send(context.Background(), "Hello")
	if _, err := vm.Refresh(context.Background()); err != nil {
		t.Fatal(err)
	}

	entries := vm.Entries()
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1 (refresh reconciled, not duplicated)", len(entries))
	}
	if entries[0].Message.DeliveryState != gateway.StateDelivered {
		t.Errorf("state = %q, want delivered", entries[0].Message.DeliveryState)
	}
}

func TestCorrespondentFallbackOnError(t *testing.T) {
	api := &fakeAPI{
		listFn: func(context.Context) ([]gateway.Correspondent, error) {
			return nil, errors.New("connection refused")
		},
	}
	vm := adminVM(api)

	if err := vm.LoadCorrespondents(context.Background()); err == nil {
		t.Fatal("expected error from LoadCorrespondents")
	}

	list := vm.Correspondents()
	if len(list) != 3 {
		t.Fatalf("fallback list has %d entries, want 3", len(list))
	}
	if vm.ListError() == nil {
		t.Error("error indicator cleared; degraded mode must stay visible")
	}
}

func TestFilterCaseInsensitive(t *testing.T) {
	api := &fakeAPI{
		listFn: func(context.Context) ([]gateway.Correspondent, error) {
			return []gateway.Correspondent{
				{ID: 1, DisplayName: "Maria Silva", Email: "maria@example.com"},
				{ID: 2, DisplayName: "João Santos", Email: "joao@example.com"},
				{ID: 3, DisplayName: "Ana Pereira", Email: "ana.MARIA@example.com"},
			}, nil
		},
	}
	vm := adminVM(api)
	if err := vm.LoadCorrespondents(context.Background()); err != nil {
		t.Fatal(err)
	}

	got := vm.Filter("MARIA")
	if len(got) != 2 {
		t.Fatalf("Filter(MARIA) returned %d, want 2 (name and email matches)", len(got))
	}
	if all := vm.Filter(""); len(all) != 3 {
		t.Errorf("empty filter returned %d, want all 3", len(all))
	}
	if none := vm.Filter("zzz"); len(none) != 0 {
		t.Errorf("Filter(zzz) returned %d, want 0", len(none))
	}
}

func TestRestoreFailedDraftFromOutbox(t *testing.T) {
	db, err := store.Open(filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = db.Close() }()
	if _, err := db.Migrate(); err != nil {
		t.Fatal(err)
	}
	if err := db.RecordOutbox("tmp-1", 3, "lost message"); err != nil {
		t.Fatal(err)
	}
	if err := db.MarkOutboxFailed("tmp-1", "network unreachable"); err != nil {
		t.Fatal(err)
	}

	vm := NewViewModel(&fakeAPI{}, db, nil, nil)
	vm.SetIdentity(session.Session{UserID: 9, IsAdmin: true})
	vm.OpenConversation(3)

	vm.RestoreFailedDraft()
	if got := vm.Draft(); got != "lost message" {
		t.Errorf("restored draft = %q, want the failed outbox body", got)
	}

	// Nothing failed for this counterpart.
	vm.OpenConversation(4)
	vm.RestoreFailedDraft()
	if got := vm.Draft(); got != "" {
		t.Errorf("draft for clean counterpart = %q, want empty", got)
	}
}

func TestMarkReadFailureIsSilent(t *testing.T) {
	api := &fakeAPI{
		statusFn: func(context.Context, int64, string) error {
			return errors.New("timeout")
		},
	}
	vm := adminVM(api)
	vm.OpenConversation(3)

	// Must not panic, must not set an error state.
	vm.MarkRead(context.Background(), 42)
	if vm.LastError() != nil {
		t.Error("MarkRead failure leaked into conversation error state")
	}
}
