package gateway

import (
	"context"
	"fmt"
)

// ListCorrespondents fetches all users the admin may message. The list is
// fetched wholesale; there is no pagination on the backend.
func (c *Client) ListCorrespondents(ctx context.Context) ([]Correspondent, error) {
	var resp struct {
		Status bool       `json:"status"`
		Users  []wireUser `json:"users"`
	}
	if err := c.getJSON(ctx, "/UserController/getAllUsers", &resp); err != nil {
		return nil, err
	}
	if !resp.Status {
		return nil, ErrBackendRejected
	}
	out := make([]Correspondent, 0, len(resp.Users))
	for _, w := range resp.Users {
		out = append(out, w.normalize())
	}
	return out, nil
}

// GetConversation requests the message history with a counterpart. The
// direct resource form is tried first; on failure the POST query form is
// used. Both shapes normalize into the same Conversation.
func (c *Client) GetConversation(ctx context.Context, counterpartID, adminID, userID int64) (*Conversation, error) {
	conv, directErr := c.getConversationDirect(ctx, counterpartID)
	if directErr == nil {
		return conv, nil
	}

	conv, fallbackErr := c.getConversationFallback(ctx, adminID, userID)
	if fallbackErr == nil {
		return conv, nil
	}
	return nil, fmt.Errorf("get conversation: direct: %v; fallback: %w", directErr, fallbackErr)
}

func (c *Client) getConversationDirect(ctx context.Context, counterpartID int64) (*Conversation, error) {
	var resp directConversation
	path := fmt.Sprintf("/MessageController/getConversation/%d", counterpartID)
	if err := c.getJSON(ctx, path, &resp); err != nil {
		return nil, err
	}
	if !resp.Status {
		return nil, ErrBackendRejected
	}
	return resp.normalize()
}

func (c *Client) getConversationFallback(ctx context.Context, adminID, userID int64) (*Conversation, error) {
	var resp fallbackConversation
	payload := map[string]int64{"adminId": adminID, "userId": userID}
	if err := c.postJSON(ctx, "/MessageController/getConversation", payload, &resp); err != nil {
		return nil, err
	}
	if !resp.Status {
		return nil, ErrBackendRejected
	}
	return resp.normalize()
}

// SendMessage transmits a composed message and returns the confirmed copy.
// ConversationID of zero means the backend should establish a conversation.
func (c *Client) SendMessage(ctx context.Context, userID, adminID, conversationID int64, text string) (*Message, error) {
	var resp struct {
		Status bool        `json:"status"`
		Data   wireMessage `json:"data"`
	}
	payload := map[string]any{
		"userId": userID,
		"text":   text,
	}
	if adminID != 0 {
		payload["adminId"] = adminID
	}
	if conversationID != 0 {
		payload["conversationId"] = conversationID
	}
	if err := c.postJSON(ctx, "/MessageController/sendMessage", payload, &resp); err != nil {
		return nil, err
	}
	if !resp.Status {
		return nil, ErrBackendRejected
	}
	msg := resp.Data.normalize()
	return &msg, nil
}

// UpdateMessageStatus reports a delivery state change. Callers treat this as
// fire-and-forget; read receipts are not safety-critical.
func (c *Client) UpdateMessageStatus(ctx context.Context, messageID int64, state string) error {
	payload := map[string]any{
		"message_id": messageID,
		"status":     state,
	}
	return c.postJSON(ctx, "/MessageController/updateMessageStatus", payload, nil)
}
