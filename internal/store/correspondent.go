package store

import "time"

// ReplaceCorrespondents replaces the cached correspondent list wholesale.
// The backend list is authoritative; the cache only bridges restarts.
func (db *DB) ReplaceCorrespondents(list []Correspondent) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`DELETE FROM correspondents`); err != nil {
		return err
	}

	now := time.Now().UnixMilli()
	for _, c := range list {
		if _, err := tx.Exec(`
			INSERT INTO correspondents (id, display_name, email, has_unread, last_activity_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?)`,
			c.ID, c.DisplayName, c.Email, c.HasUnread, c.LastActivityAt, now); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// ListCorrespondents returns the cached correspondent list, most recent activity first.
func (db *DB) ListCorrespondents() ([]Correspondent, error) {
	rows, err := db.Query(`
		SELECT id, display_name, email, has_unread, last_activity_at
		FROM correspondents
		ORDER BY last_activity_at DESC, display_name ASC`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var list []Correspondent
	for rows.Next() {
		var c Correspondent
		if err := rows.Scan(&c.ID, &c.DisplayName, &c.Email, &c.HasUnread, &c.LastActivityAt); err != nil {
			return nil, err
		}
		list = append(list, c)
	}
	return list, rows.Err()
}
