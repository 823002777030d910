package views

import (
	"fmt"

	"github.com/justify-app/justify/internal/gateway"
	"github.com/justify-app/justify/internal/tui/ui"
	"github.com/rivo/tview"
)

// NewsView lists published portal articles with the selected one expanded.
type NewsView struct {
	*tview.Flex
	theme  *ui.Theme
	list   *tview.List
	reader *tview.TextView

	items []gateway.NewsItem
}

// NewNewsView creates the news screen.
func NewNewsView(theme *ui.Theme) *NewsView {
	nv := &NewsView{
		Flex:  tview.NewFlex().SetDirection(tview.FlexColumn),
		theme: theme,
	}

	nv.list = tview.NewList().ShowSecondaryText(true)
	nv.list.SetBorder(true).SetTitle(" News ")
	nv.list.SetTitleColor(theme.TitleColor)
	nv.list.SetBorderColor(theme.BorderColor)
	nv.list.SetChangedFunc(func(index int, _, _ string, _ rune) {
		nv.showArticle(index)
	})

	nv.reader = tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true).
		SetWordWrap(true)
	nv.reader.SetBorder(true)
	nv.reader.SetBorderColor(theme.BorderColor)

	nv.AddItem(nv.list, 0, 1, true).
		AddItem(nv.reader, 0, 2, false)
	return nv
}

// Name implements ui.Component.
func (nv *NewsView) Name() string { return "news" }

// Hints implements ui.Component.
func (nv *NewsView) Hints() []ui.MenuHint {
	return []ui.MenuHint{
		{Key: "r", Description: "reload"},
		{Key: "Esc", Description: "back"},
	}
}

// List returns the article list for focus handling.
func (nv *NewsView) List() *tview.List { return nv.list }

// Update replaces the article list, newest first as the backend returns
// them.
func (nv *NewsView) Update(items []gateway.NewsItem) {
	nv.items = items
	nv.list.Clear()
	for _, it := range items {
		nv.list.AddItem(it.Title, formatWhen(it.PublishedAt), 0, nil)
	}
	if len(items) > 0 {
		nv.showArticle(0)
	} else {
		nv.reader.Clear()
	}
}

func (nv *NewsView) showArticle(idx int) {
	if idx < 0 || idx >= len(nv.items) {
		return
	}
	it := nv.items[idx]
	nv.reader.Clear()
	nv.reader.SetTitle(fmt.Sprintf(" %s ", it.Title))
	_, _ = fmt.Fprintf(nv.reader, "[::d]%s[-:-:-]\n\n%s", formatWhen(it.PublishedAt), it.Body)
	nv.reader.ScrollToBeginning()
}
