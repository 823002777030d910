// Package inbox holds the conversation view model shared by the admin and
// user messaging screens: correspondent list, active conversation, and the
// send/receive lifecycle.
package inbox

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/justify-app/justify/internal/bus"
	"github.com/justify-app/justify/internal/gateway"
	"github.com/justify-app/justify/internal/session"
	"github.com/justify-app/justify/internal/status"
	"github.com/justify-app/justify/internal/store"
	"go.uber.org/zap"
)

// API is the slice of the gateway the view model depends on.
type API interface {
	ListCorrespondents(ctx context.Context) ([]gateway.Correspondent, error)
	GetConversation(ctx context.Context, counterpartID, adminID, userID int64) (*gateway.Conversation, error)
	SendMessage(ctx context.Context, userID, adminID, conversationID int64, text string) (*gateway.Message, error)
	UpdateMessageStatus(ctx context.Context, messageID int64, state string) error
}

// ViewModel manages the correspondent list and the active conversation.
// All mutation happens through its own operations; screens read snapshots.
type ViewModel struct {
	mu sync.RWMutex

	api    API
	db     *store.DB
	b      *bus.Bus
	logger *zap.Logger
	panel  *status.Machine

	self session.Session

	correspondents []gateway.Correspondent
	listErr        error

	counterpartID  int64
	conversationID int64
	entries        []Entry
	epoch          uint64
	sending        bool
	lastErr        error
	draft          string
}

// NewViewModel creates the conversation view model. db may be nil when no
// local cache is wanted (tests).
func NewViewModel(api API, db *store.DB, b *bus.Bus, logger *zap.Logger) *ViewModel {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ViewModel{
		api:    api,
		db:     db,
		b:      b,
		logger: logger,
		panel:  status.NewMachine(b),
	}
}

// SetIdentity installs the device session the view model acts as.
func (vm *ViewModel) SetIdentity(s session.Session) {
	vm.mu.Lock()
	vm.self = s
	vm.mu.Unlock()
}

// Panel returns the conversation panel state machine.
func (vm *ViewModel) Panel() *status.Machine {
	return vm.panel
}

// LoadCorrespondents fetches all users the admin may message. On failure the
// built-in demo list is installed and the error state kept, so the degraded
// mode stays visible.
func (vm *ViewModel) LoadCorrespondents(ctx context.Context) error {
	list, err := vm.api.ListCorrespondents(ctx)

	vm.mu.Lock()
	if err != nil {
		vm.listErr = err
		vm.correspondents = append([]gateway.Correspondent(nil), fallbackCorrespondents...)
	} else {
		vm.listErr = nil
		vm.correspondents = list
	}
	vm.mu.Unlock()

	if err != nil {
		vm.logger.Warn("correspondent list fetch failed, using fallback", zap.Error(err))
		vm.publish(bus.KindInboxDegraded, err.Error())
		return err
	}

	if vm.db != nil {
		cached := make([]store.Correspondent, 0, len(list))
		for _, c := range list {
			cached = append(cached, store.Correspondent{
				ID:             c.ID,
				DisplayName:    c.DisplayName,
				Email:          c.Email,
				HasUnread:      c.HasUnread,
				LastActivityAt: c.LastActivityAt.UnixMilli(),
			})
		}
		if err := vm.db.ReplaceCorrespondents(cached); err != nil {
			vm.logger.Warn("correspondent cache write failed", zap.Error(err))
		}
	}

	vm.publish(bus.KindInboxUpdated, nil)
	return nil
}

// Correspondents returns a snapshot of the current correspondent list.
func (vm *ViewModel) Correspondents() []gateway.Correspondent {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	return append([]gateway.Correspondent(nil), vm.correspondents...)
}

// ListError returns the error from the last correspondent fetch, if any.
func (vm *ViewModel) ListError() error {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	return vm.listErr
}

// Filter returns the correspondents whose name or email contains the query,
// case-insensitively. Pure; re-evaluated on every keystroke.
func (vm *ViewModel) Filter(query string) []gateway.Correspondent {
	vm.mu.RLock()
	defer vm.mu.RUnlock()

	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return append([]gateway.Correspondent(nil), vm.correspondents...)
	}
	var out []gateway.Correspondent
	for _, c := range vm.correspondents {
		if strings.Contains(strings.ToLower(c.DisplayName), query) ||
			strings.Contains(strings.ToLower(c.Email), query) {
			out = append(out, c)
		}
	}
	return out
}

// OpenConversation switches the panel to a new counterpart: clears the
// current messages, marks the conversation id unknown, and bumps the epoch
// so any in-flight fetch for the previous counterpart is discarded.
func (vm *ViewModel) OpenConversation(counterpartID int64) {
	vm.mu.Lock()
	vm.counterpartID = counterpartID
	vm.conversationID = 0
	vm.entries = nil
	vm.lastErr = nil
	vm.epoch++
	vm.mu.Unlock()

	_ = vm.panel.Transition(status.Idle)
	_ = vm.panel.Transition(status.Loading)
}

// CloseConversation returns the panel to idle. The epoch bump invalidates
// any fetch still in flight.
func (vm *ViewModel) CloseConversation() {
	vm.mu.Lock()
	vm.counterpartID = 0
	vm.conversationID = 0
	vm.entries = nil
	vm.lastErr = nil
	vm.epoch++
	vm.mu.Unlock()

	_ = vm.panel.Transition(status.Idle)
}

// FetchConversation loads the message history for the active counterpart.
// A response that arrives after the counterpart changed is discarded.
func (vm *ViewModel) FetchConversation(ctx context.Context) error {
	vm.mu.RLock()
	ep := vm.epoch
	counterpart, adminID, userID := vm.idsLocked()
	vm.mu.RUnlock()

	if counterpart == 0 && userID == 0 {
		return nil
	}

	conv, err := vm.api.GetConversation(ctx, counterpart, adminID, userID)

	vm.mu.Lock()
	if ep != vm.epoch {
		vm.mu.Unlock()
		return nil // stale response, newer context won
	}
	if err != nil {
		// Keep any previously loaded messages; surface the error only.
		vm.lastErr = err
		vm.mu.Unlock()
		_ = vm.panel.Transition(status.Error)
		vm.logger.Warn("conversation fetch failed", zap.Int64("counterpart", counterpart), zap.Error(err))
		return err
	}
	appended := vm.applyConversationLocked(conv)
	vm.mu.Unlock()

	_ = vm.panel.Transition(status.Ready)
	vm.cacheConversation(conv)
	vm.publish(bus.KindInboxUpdated, appended)
	return nil
}

// Refresh re-fetches the open conversation on behalf of the poll loop.
// Skipped while a send is in flight so the optimistic placeholder cannot be
// overwritten by a history that does not contain it yet. Returns true when
// new messages were appended (the view autoscrolls only then, and only if
// the viewport was already at the bottom).
func (vm *ViewModel) Refresh(ctx context.Context) (bool, error) {
	vm.mu.RLock()
	if vm.counterpartID == 0 || vm.sending {
		vm.mu.RUnlock()
		return false, nil
	}
	ep := vm.epoch
	counterpart, adminID, userID := vm.idsLocked()
	vm.mu.RUnlock()

	conv, err := vm.api.GetConversation(ctx, counterpart, adminID, userID)

	vm.mu.Lock()
	if ep != vm.epoch || vm.sending {
		vm.mu.Unlock()
		return false, nil
	}
	if err != nil {
		vm.lastErr = err
		vm.mu.Unlock()
		_ = vm.panel.Transition(status.Error)
		return false, err
	}
	appended := vm.applyConversationLocked(conv)
	vm.mu.Unlock()

	_ = vm.panel.Transition(status.Ready)
	vm.cacheConversation(conv)
	if appended {
		vm.publish(bus.KindInboxUpdated, appended)
	}
	return appended, nil
}

// Send transmits the composed text with an optimistic placeholder. It is a
// no-op when the trimmed text is empty, no counterpart or session exists, or
// a send is already in flight (single-flight per conversation).
func (vm *ViewModel) Send(ctx context.Context, text string) bool {
	trimmed := strings.TrimSpace(text)

	vm.mu.Lock()
	if trimmed == "" || vm.self.UserID == 0 || (vm.counterpartID == 0 && vm.self.IsAdmin) || vm.sending {
		vm.mu.Unlock()
		return false
	}

	tempID := uuid.New().String()
	vm.sending = true
	vm.draft = ""
	vm.entries = append(vm.entries, newPlaceholder(tempID, vm.self.UserID, vm.self.IsAdmin, trimmed))
	ep := vm.epoch
	userID, adminID := vm.sendIDsLocked()
	conversationID := vm.conversationID
	vm.mu.Unlock()

	vm.publish(bus.KindInboxUpdated, true)

	if vm.db != nil {
		if err := vm.db.RecordOutbox(tempID, vm.CounterpartID(), trimmed); err != nil {
			vm.logger.Warn("outbox record failed", zap.Error(err))
		}
	}

	confirmed, err := vm.api.SendMessage(ctx, userID, adminID, conversationID, trimmed)

	vm.mu.Lock()
	vm.sending = false
	if ep != vm.epoch {
		// Conversation switched mid-send; the placeholder list is gone.
		vm.mu.Unlock()
		vm.finishOutbox(tempID, confirmed, err)
		return true
	}
	if err != nil {
		vm.entries = remove(vm.entries, tempID)
		vm.draft = text
		vm.lastErr = err
		vm.mu.Unlock()
		vm.finishOutbox(tempID, nil, err)
		vm.logger.Warn("send failed", zap.Error(err))
		vm.publish(bus.KindInboxSendFailed, err.Error())
		return true
	}
	if !resolve(vm.entries, tempID, *confirmed) {
		// Placeholder already reconciled away; make sure the confirmed
		// message is present exactly once.
		if !vm.containsLocked(confirmed.ID) {
			vm.entries = append(vm.entries, Entry{Message: *confirmed})
		}
	}
	vm.lastErr = nil
	vm.mu.Unlock()

	vm.finishOutbox(tempID, confirmed, nil)
	vm.publish(bus.KindInboxSendAck, confirmed.ID)
	return true
}

// MarkRead reports a read receipt, best effort. Failures are logged, never
// surfaced, and local state is not rolled back.
func (vm *ViewModel) MarkRead(ctx context.Context, messageID int64) {
	if err := vm.api.UpdateMessageStatus(ctx, messageID, gateway.StateRead); err != nil {
		vm.logger.Debug("mark read failed", zap.Int64("message", messageID), zap.Error(err))
	}
}

// RestoreFailedDraft loads the newest failed send for the open counterpart
// from the outbox into the draft, so it survives a restart. No-op when a
// draft already exists or there is no cache.
func (vm *ViewModel) RestoreFailedDraft() {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	if vm.db == nil || vm.draft != "" || vm.counterpartID == 0 {
		return
	}
	failed, err := vm.db.FailedOutbox(vm.counterpartID)
	if err != nil {
		vm.logger.Warn("outbox read failed", zap.Error(err))
		return
	}
	if len(failed) == 0 {
		return
	}
	vm.draft = failed[len(failed)-1].Body
}

// Entries returns a snapshot of the conversation rows in display order.
func (vm *ViewModel) Entries() []Entry {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	return append([]Entry(nil), vm.entries...)
}

// Draft returns the compose text restored by a failed send, clearing it.
func (vm *ViewModel) Draft() string {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	d := vm.draft
	vm.draft = ""
	return d
}

// LastError returns the most recent conversation error, if any.
func (vm *ViewModel) LastError() error {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	return vm.lastErr
}

// CounterpartID returns the active counterpart, zero when none is open.
func (vm *ViewModel) CounterpartID() int64 {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	return vm.counterpartID
}

// Sending reports whether a send is in flight.
func (vm *ViewModel) Sending() bool {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	return vm.sending
}

// applyConversationLocked replaces the confirmed entries wholesale while
// preserving pending placeholders, and reports whether the visible tail
// grew. Confirmed delivery states only move forward.
func (vm *ViewModel) applyConversationLocked(conv *gateway.Conversation) bool {
	if conv.ID != 0 {
		vm.conversationID = conv.ID
	}

	prevLen := len(vm.entries)
	var pending []Entry
	for _, e := range vm.entries {
		if e.Pending {
			pending = append(pending, e)
		}
	}

	next := make([]Entry, 0, len(conv.Messages)+len(pending))
	prevStates := make(map[int64]string, prevLen)
	for _, e := range vm.entries {
		if !e.Pending {
			prevStates[e.Message.ID] = e.Message.DeliveryState
		}
	}
	for _, m := range conv.Messages {
		if prev, ok := prevStates[m.ID]; ok && stateRank(m.DeliveryState) < stateRank(prev) {
			m.DeliveryState = prev
		}
		// Never show both a placeholder and its confirmation.
		for i, p := range pending {
			if matchesPlaceholder(p, m) {
				pending = append(pending[:i], pending[i+1:]...)
				break
			}
		}
		next = append(next, Entry{Message: m})
	}
	next = append(next, pending...)

	vm.entries = next
	vm.lastErr = nil
	return len(next) > prevLen
}

func (vm *ViewModel) containsLocked(serverID int64) bool {
	if serverID == 0 {
		return false
	}
	for _, e := range vm.entries {
		if !e.Pending && e.Message.ID == serverID {
			return true
		}
	}
	return false
}

// idsLocked maps the active context onto the conversation endpoints' id
// triple. Admin side: counterpart is the user. User side: the counterpart is
// the admin pool and the user's own id keys the conversation.
func (vm *ViewModel) idsLocked() (counterpart, adminID, userID int64) {
	if vm.self.IsAdmin {
		return vm.counterpartID, vm.self.UserID, vm.counterpartID
	}
	return vm.self.UserID, vm.counterpartID, vm.self.UserID
}

func (vm *ViewModel) sendIDsLocked() (userID, adminID int64) {
	if vm.self.IsAdmin {
		return vm.counterpartID, vm.self.UserID
	}
	return vm.self.UserID, vm.counterpartID
}

func (vm *ViewModel) cacheConversation(conv *gateway.Conversation) {
	if vm.db == nil || conv == nil || conv.ID == 0 {
		return
	}
	msgs := make([]store.Message, 0, len(conv.Messages))
	for _, m := range conv.Messages {
		msgs = append(msgs, store.Message{
			ConversationID: conv.ID,
			ServerID:       m.ID,
			SenderID:       m.SenderID,
			FromAdmin:      m.FromAdmin,
			Body:           m.Text,
			DeliveryState:  m.DeliveryState,
			SentAt:         m.SentAt.UnixMilli(),
		})
	}
	if err := vm.db.ReplaceConversation(conv.ID, msgs); err != nil {
		vm.logger.Warn("conversation cache write failed", zap.Error(err))
	}
}

func (vm *ViewModel) finishOutbox(tempID string, confirmed *gateway.Message, sendErr error) {
	if vm.db == nil {
		return
	}
	if sendErr != nil {
		if err := vm.db.MarkOutboxFailed(tempID, sendErr.Error()); err != nil {
			vm.logger.Warn("outbox update failed", zap.Error(err))
		}
		return
	}
	var serverID int64
	if confirmed != nil {
		serverID = confirmed.ID
	}
	if err := vm.db.MarkOutboxSent(tempID, serverID); err != nil {
		vm.logger.Warn("outbox update failed", zap.Error(err))
	}
}

func (vm *ViewModel) publish(kind string, payload any) {
	if vm.b == nil {
		return
	}
	vm.b.Publish(bus.Event{Kind: kind, Timestamp: time.Now(), Payload: payload})
}

func stateRank(s string) int {
	switch s {
	case gateway.StateRead:
		return 2
	case gateway.StateDelivered:
		return 1
	default:
		return 0
	}
}
