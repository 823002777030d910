package views

import (
	"fmt"
	"time"

	"github.com/rivo/tview"
)

// StatusBar displays the profile, signed-in account, and conversation
// panel state.
type StatusBar struct {
	*tview.TextView
	profile string
	account string
	state   string
}

// NewStatusBar creates the status bar.
func NewStatusBar() *StatusBar {
	tv := tview.NewTextView().
		SetDynamicColors(true)
	tv.SetBackgroundColor(tview.Styles.MoreContrastBackgroundColor)

	return &StatusBar{TextView: tv}
}

// SetProfile updates the profile name display.
func (sb *StatusBar) SetProfile(name string) {
	sb.profile = name
	sb.render()
}

// SetAccount updates the signed-in account display.
func (sb *StatusBar) SetAccount(name string) {
	sb.account = name
	sb.render()
}

// SetState updates the conversation panel state display.
func (sb *StatusBar) SetState(state string) {
	sb.state = state
	sb.render()
}

func (sb *StatusBar) render() {
	sb.Clear()

	account := sb.account
	if account == "" {
		account = "signed out"
	}

	_, _ = fmt.Fprintf(sb, " [::b]%s[-:-:-] | %s | %s | %s",
		sb.profile, account, sb.state, time.Now().Format("15:04"))
}
