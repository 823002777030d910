package views

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/justify-app/justify/internal/gateway"
	"github.com/justify-app/justify/internal/inbox"
	"github.com/justify-app/justify/internal/tui/ui"
	"github.com/rivo/tview"
)

// ThreadView renders one conversation: the message history plus the
// composer line.
type ThreadView struct {
	*tview.Flex
	theme    *ui.Theme
	history  *tview.TextView
	composer *tview.InputField

	lines  int
	onSend func(text string)
}

// NewThreadView creates the conversation screen.
func NewThreadView(theme *ui.Theme) *ThreadView {
	tv := &ThreadView{
		Flex:  tview.NewFlex().SetDirection(tview.FlexRow),
		theme: theme,
	}

	tv.history = tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true).
		SetWordWrap(true)
	tv.history.SetBorder(true).SetTitle(" Conversation ")
	tv.history.SetTitleColor(theme.TitleColor)
	tv.history.SetBorderColor(theme.BorderColor)

	tv.composer = tview.NewInputField().
		SetLabel(" > ").
		SetFieldWidth(0)
	tv.composer.SetDoneFunc(func(key tcell.Key) {
		if key != tcell.KeyEnter || tv.onSend == nil {
			return
		}
		text := tv.composer.GetText()
		if strings.TrimSpace(text) == "" {
			return
		}
		tv.composer.SetText("")
		tv.onSend(text)
	})

	tv.AddItem(tv.history, 0, 1, false).
		AddItem(tv.composer, 1, 0, true)
	return tv
}

// Name implements ui.Component.
func (tv *ThreadView) Name() string { return "conversation" }

// Hints implements ui.Component.
func (tv *ThreadView) Hints() []ui.MenuHint {
	return []ui.MenuHint{
		{Key: "Enter", Description: "send"},
		{Key: "i", Description: "compose"},
		{Key: "Esc", Description: "back"},
	}
}

// SetOnSend sets the callback fired when the composer submits.
func (tv *ThreadView) SetOnSend(fn func(text string)) {
	tv.onSend = fn
}

// SetCounterpartName updates the panel title.
func (tv *ThreadView) SetCounterpartName(name string) {
	tv.history.SetTitle(fmt.Sprintf(" %s ", name))
}

// RestoreDraft puts failed-send text back into the composer, preserving it
// for editing. An empty draft is ignored.
func (tv *ThreadView) RestoreDraft(draft string) {
	if draft == "" {
		return
	}
	tv.composer.SetText(draft)
}

// Composer returns the input field for focus handling.
func (tv *ThreadView) Composer() *tview.InputField { return tv.composer }

// History returns the scrollable message area for focus handling.
func (tv *ThreadView) History() *tview.TextView { return tv.history }

// Update re-renders the message list. The view follows the tail only when
// new messages arrived and the viewport was already at the bottom, so a
// reader scrolled up into history is never yanked away.
func (tv *ThreadView) Update(entries []inbox.Entry, selfID int64, appended bool) {
	follow := appended && tv.atBottom()

	tv.history.Clear()
	lines := 0
	for _, e := range entries {
		sender := "Citizen"
		if e.Message.FromAdmin {
			sender = "City Hall"
		}
		if e.Message.SenderID == selfID {
			sender = "You"
		}

		if e.Pending {
			_, _ = fmt.Fprintf(tv.history, "[%s][::b]%s[-:-:-] [%s]%s  sending...[-]\n[%s]%s[-]\n\n",
				ui.ColorName(tv.theme.PendingColor), sender,
				ui.ColorName(tv.theme.PendingColor), formatWhen(e.Message.SentAt),
				ui.ColorName(tv.theme.PendingColor), e.Message.Text)
		} else {
			_, _ = fmt.Fprintf(tv.history, "[::b]%s[-:-:-] [::d]%s  %s[-:-:-]\n%s\n\n",
				sender, formatWhen(e.Message.SentAt), stateGlyph(e.Message.DeliveryState), e.Message.Text)
		}
		lines += strings.Count(e.Message.Text, "\n") + 3
	}
	tv.lines = lines

	if follow || tv.lines == 0 {
		tv.history.ScrollToEnd()
	}
}

// atBottom reports whether the viewport currently shows the last line.
func (tv *ThreadView) atBottom() bool {
	row, _ := tv.history.GetScrollOffset()
	_, _, _, height := tv.history.GetInnerRect()
	return row+height >= tv.lines
}

func stateGlyph(state string) string {
	switch state {
	case gateway.StateRead:
		return "✓✓ read"
	case gateway.StateDelivered:
		return "✓✓"
	default:
		return "✓"
	}
}
