// Package session is the single source of truth for "who is using this
// device and are they an admin". Routing consults it before rendering any
// authenticated screen.
package session

import (
	"time"

	"github.com/justify-app/justify/internal/bus"
	"github.com/justify-app/justify/internal/store"
)

// Session is the device identity record.
type Session struct {
	UserID  int64
	IsAdmin bool
}

// Store persists the session across restarts in the local cache database.
type Store struct {
	db *store.DB
	b  *bus.Bus
}

// NewStore creates a session store backed by the cache database.
func NewStore(db *store.DB, b *bus.Bus) *Store {
	return &Store{db: db, b: b}
}

// Get returns the active session, or nil if the device is logged out.
func (s *Store) Get() (*Session, error) {
	row, err := s.db.GetSession()
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, nil
	}
	return &Session{UserID: row.UserID, IsAdmin: row.IsAdmin}, nil
}

// Set replaces the active session. Exactly one session exists per device.
func (s *Store) Set(sess Session) error {
	if err := s.db.SetSession(&store.Session{UserID: sess.UserID, IsAdmin: sess.IsAdmin}); err != nil {
		return err
	}
	s.publish(bus.KindSessionChanged, sess)
	return nil
}

// Clear destroys the active session on logout.
func (s *Store) Clear() error {
	if err := s.db.ClearSession(); err != nil {
		return err
	}
	s.publish(bus.KindSessionCleared, nil)
	return nil
}

func (s *Store) publish(kind string, payload any) {
	if s.b == nil {
		return
	}
	s.b.Publish(bus.Event{Kind: kind, Timestamp: time.Now(), Payload: payload})
}
