package views

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/justify-app/justify/internal/gateway"
	"github.com/justify-app/justify/internal/tui/ui"
	"github.com/rivo/tview"
)

// CorrespondentList is the admin inbox screen: a filterable table of users
// the admin can message.
type CorrespondentList struct {
	*tview.Flex
	theme  *ui.Theme
	filter *tview.InputField
	table  *tview.Table
	banner *tview.TextView

	rows     []gateway.Correspondent
	onSelect func(id int64)
	onFilter func(query string) []gateway.Correspondent
}

// NewCorrespondentList creates the correspondent list screen.
func NewCorrespondentList(theme *ui.Theme) *CorrespondentList {
	cl := &CorrespondentList{
		Flex:  tview.NewFlex().SetDirection(tview.FlexRow),
		theme: theme,
	}

	cl.banner = tview.NewTextView().SetDynamicColors(true)
	cl.banner.SetBackgroundColor(theme.BgColor)

	cl.filter = tview.NewInputField().
		SetLabel(" / ").
		SetFieldWidth(0)
	cl.filter.SetChangedFunc(func(text string) {
		if cl.onFilter != nil {
			cl.setRows(cl.onFilter(text))
		}
	})

	cl.table = tview.NewTable().
		SetSelectable(true, false).
		SetBorders(false)
	cl.table.SetBorder(true).SetTitle(" Citizens ")
	cl.table.SetTitleColor(theme.TitleColor)
	cl.table.SetBorderColor(theme.BorderColor)
	cl.table.SetSelectedStyle(tcell.StyleDefault.
		Foreground(theme.TableCursorFg).
		Background(theme.TableCursorBg))
	cl.table.SetSelectedFunc(func(row, col int) {
		if id := cl.selectedID(); id != 0 && cl.onSelect != nil {
			cl.onSelect(id)
		}
	})

	cl.AddItem(cl.banner, 1, 0, false).
		AddItem(cl.filter, 1, 0, false).
		AddItem(cl.table, 0, 1, true)
	return cl
}

// Name implements ui.Component.
func (cl *CorrespondentList) Name() string { return "inbox" }

// Hints implements ui.Component.
func (cl *CorrespondentList) Hints() []ui.MenuHint {
	return []ui.MenuHint{
		{Key: "/", Description: "filter"},
		{Key: "Enter", Description: "open"},
		{Key: "r", Description: "reload"},
	}
}

// SetOnSelect sets the callback fired when a correspondent is opened.
func (cl *CorrespondentList) SetOnSelect(fn func(id int64)) {
	cl.onSelect = fn
}

// SetOnFilter installs the filter function re-evaluated on every keystroke.
func (cl *CorrespondentList) SetOnFilter(fn func(query string) []gateway.Correspondent) {
	cl.onFilter = fn
}

// Filter returns the filter input for focus handling.
func (cl *CorrespondentList) Filter() *tview.InputField { return cl.filter }

// Table returns the table for focus handling.
func (cl *CorrespondentList) Table() *tview.Table { return cl.table }

// Update replaces the table contents. A non-nil listErr keeps a warning
// banner visible so a fallback list is never mistaken for live data.
func (cl *CorrespondentList) Update(rows []gateway.Correspondent, listErr error) {
	cl.banner.Clear()
	if listErr != nil {
		_, _ = fmt.Fprintf(cl.banner, " [%s]offline: %s[-]",
			ui.ColorName(cl.theme.FlashErrColor), listErr.Error())
	}
	cl.setRows(rows)
}

func (cl *CorrespondentList) setRows(rows []gateway.Correspondent) {
	cl.rows = rows
	cl.table.Clear()

	header := func(col int, text string) {
		cl.table.SetCell(0, col, tview.NewTableCell(" "+text).
			SetSelectable(false).
			SetTextColor(cl.theme.TableHeaderFg))
	}
	header(0, "Name")
	header(1, "Email")
	header(2, "Last activity")

	for i, c := range rows {
		row := i + 1
		name := c.DisplayName
		if c.HasUnread {
			name = "* " + name
		}
		cl.table.SetCell(row, 0, tview.NewTableCell(" "+name).SetMaxWidth(30).SetExpansion(1))
		cl.table.SetCell(row, 1, tview.NewTableCell(" "+c.Email).SetMaxWidth(40).SetExpansion(2))
		cl.table.SetCell(row, 2, tview.NewTableCell(" "+formatWhen(c.LastActivityAt)).SetMaxWidth(12))
	}
	if len(rows) > 0 {
		cl.table.Select(1, 0)
	}
}

func (cl *CorrespondentList) selectedID() int64 {
	row, _ := cl.table.GetSelection()
	idx := row - 1 // header row
	if idx >= 0 && idx < len(cl.rows) {
		return cl.rows[idx].ID
	}
	return 0
}
