package store

import (
	"database/sql"
	"errors"
	"time"
)

// GetSession returns the device session, or nil if none is stored.
func (db *DB) GetSession() (*Session, error) {
	var s Session
	err := db.QueryRow(`SELECT user_id, is_admin FROM session WHERE id = 1`).
		Scan(&s.UserID, &s.IsAdmin)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// SetSession stores the device session, replacing any previous one.
func (db *DB) SetSession(s *Session) error {
	now := time.Now().UnixMilli()
	_, err := db.Exec(`
		INSERT INTO session (id, user_id, is_admin, created_at)
		VALUES (1, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			user_id = excluded.user_id,
			is_admin = excluded.is_admin,
			created_at = excluded.created_at`,
		s.UserID, s.IsAdmin, now)
	return err
}

// ClearSession removes the device session.
func (db *DB) ClearSession() error {
	_, err := db.Exec(`DELETE FROM session WHERE id = 1`)
	return err
}
