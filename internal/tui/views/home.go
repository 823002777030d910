package views

import (
	"github.com/justify-app/justify/internal/tui/ui"
	"github.com/rivo/tview"
)

// HomeView is the main menu shown after sign-in.
type HomeView struct {
	*tview.List
	theme *ui.Theme
}

// NewHomeView creates the home menu. Entries are installed by the shell
// depending on the account's role.
func NewHomeView(theme *ui.Theme) *HomeView {
	l := tview.NewList().ShowSecondaryText(false)
	l.SetBorder(true).SetTitle(" JustiFy ")
	l.SetTitleColor(theme.TitleColor)
	l.SetBorderColor(theme.BorderColor)

	return &HomeView{List: l, theme: theme}
}

// Name implements ui.Component.
func (hv *HomeView) Name() string { return "home" }

// Hints implements ui.Component.
func (hv *HomeView) Hints() []ui.MenuHint {
	return []ui.MenuHint{
		{Key: "Enter", Description: "open"},
		{Key: "q", Description: "quit"},
	}
}

// SetEntries replaces the menu entries.
func (hv *HomeView) SetEntries(entries []string, onSelect func(entry string)) {
	hv.Clear()
	for _, e := range entries {
		entry := e
		hv.AddItem(entry, "", 0, func() {
			onSelect(entry)
		})
	}
}
