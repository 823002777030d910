package store

import "time"

// RecordOutbox adds an outgoing message attempt in 'sending' state.
func (db *DB) RecordOutbox(clientMsgID string, counterpartID int64, body string) error {
	now := time.Now().UnixMilli()
	_, err := db.Exec(`
		INSERT INTO outbox (client_msg_id, counterpart_id, body, status, created_at, updated_at)
		VALUES (?, ?, ?, 'sending', ?, ?)`,
		clientMsgID, counterpartID, body, now, now)
	return err
}

// MarkOutboxSent updates an outbox entry to 'sent' with the server message ID.
func (db *DB) MarkOutboxSent(clientMsgID string, serverMsgID int64) error {
	now := time.Now().UnixMilli()
	_, err := db.Exec(`UPDATE outbox SET status = 'sent', server_msg_id = ?, updated_at = ? WHERE client_msg_id = ?`, serverMsgID, now, clientMsgID)
	return err
}

// MarkOutboxFailed updates an outbox entry to 'failed' with an error message.
func (db *DB) MarkOutboxFailed(clientMsgID, errMsg string) error {
	now := time.Now().UnixMilli()
	_, err := db.Exec(`UPDATE outbox SET status = 'failed', error_message = ?, updated_at = ? WHERE client_msg_id = ?`, errMsg, now, clientMsgID)
	return err
}

// FailedOutbox returns failed attempts, oldest first. The inbox view offers
// these back as drafts after a restart.
func (db *DB) FailedOutbox(counterpartID int64) ([]OutboxEntry, error) {
	rows, err := db.Query(`
		SELECT id, client_msg_id, counterpart_id, body, status, error_message, server_msg_id
		FROM outbox WHERE status = 'failed' AND counterpart_id = ? ORDER BY created_at ASC`, counterpartID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var entries []OutboxEntry
	for rows.Next() {
		var e OutboxEntry
		if err := rows.Scan(&e.ID, &e.ClientMsgID, &e.CounterpartID, &e.Body, &e.Status, &e.ErrorMessage, &e.ServerMsgID); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
