package store

import "time"

// UpsertMessage inserts or updates a confirmed message (idempotent on
// conversation_id + server_id).
func (db *DB) UpsertMessage(m *Message) error {
	now := time.Now().UnixMilli()
	_, err := db.Exec(`
		INSERT INTO messages (conversation_id, server_id, sender_id, from_admin, body, delivery_state, sent_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(conversation_id, server_id) DO UPDATE SET
			body = excluded.body,
			delivery_state = excluded.delivery_state`,
		m.ConversationID, m.ServerID, m.SenderID, m.FromAdmin, m.Body, m.DeliveryState, m.SentAt, now)
	return err
}

// ReplaceConversation replaces the cached messages of one conversation
// wholesale, matching the reconcile-by-replacement refresh semantics.
func (db *DB) ReplaceConversation(conversationID int64, msgs []Message) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`DELETE FROM messages WHERE conversation_id = ?`, conversationID); err != nil {
		return err
	}

	now := time.Now().UnixMilli()
	for _, m := range msgs {
		if _, err := tx.Exec(`
			INSERT INTO messages (conversation_id, server_id, sender_id, from_admin, body, delivery_state, sent_at, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(conversation_id, server_id) DO UPDATE SET
				body = excluded.body,
				delivery_state = excluded.delivery_state`,
			conversationID, m.ServerID, m.SenderID, m.FromAdmin, m.Body, m.DeliveryState, m.SentAt, now); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// ListConversation returns the cached messages of a conversation in send order.
func (db *DB) ListConversation(conversationID int64) ([]Message, error) {
	rows, err := db.Query(`
		SELECT id, conversation_id, server_id, sender_id, from_admin, body, delivery_state, sent_at
		FROM messages
		WHERE conversation_id = ?
		ORDER BY sent_at ASC, id ASC`, conversationID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var msgs []Message
	for rows.Next() {
		var m Message
		if err := rows.Scan(&m.ID, &m.ConversationID, &m.ServerID, &m.SenderID, &m.FromAdmin, &m.Body, &m.DeliveryState, &m.SentAt); err != nil {
			return nil, err
		}
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}
