package session

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/justify-app/justify/internal/bus"
	"github.com/justify-app/justify/internal/store"
)

func testStore(t *testing.T, b *bus.Bus) *Store {
	t.Helper()
	db, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := db.Migrate(); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return NewStore(db, b)
}

func TestGetBeforeLogin(t *testing.T) {
	s := testStore(t, nil)

	sess, err := s.Get()
	if err != nil {
		t.Fatal(err)
	}
	if sess != nil {
		t.Errorf("Get() = %+v, want nil before login", sess)
	}
}

func TestSetGetClear(t *testing.T) {
	s := testStore(t, nil)

	if err := s.Set(Session{UserID: 12, IsAdmin: true}); err != nil {
		t.Fatal(err)
	}

	sess, err := s.Get()
	if err != nil {
		t.Fatal(err)
	}
	if sess == nil || sess.UserID != 12 || !sess.IsAdmin {
		t.Errorf("Get() = %+v, want UserID=12 IsAdmin=true", sess)
	}

	if err := s.Clear(); err != nil {
		t.Fatal(err)
	}
	sess, _ = s.Get()
	if sess != nil {
		t.Errorf("Get() after Clear = %+v, want nil", sess)
	}
}

func TestSetPublishesEvent(t *testing.T) {
	b := bus.New()
	s := testStore(t, b)

	ch, unsub := b.Subscribe("session.", 10)
	defer unsub()

	if err := s.Set(Session{UserID: 3}); err != nil {
		t.Fatal(err)
	}

	select {
	case evt := <-ch:
		if evt.Kind != bus.KindSessionChanged {
			t.Errorf("event kind = %q, want %q", evt.Kind, bus.KindSessionChanged)
		}
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for session.changed event")
	}
}
