package views

import (
	"fmt"
	"strings"

	qrcode "github.com/skip2/go-qrcode"

	"github.com/justify-app/justify/internal/gateway"
	"github.com/justify-app/justify/internal/tui/ui"
	"github.com/rivo/tview"
)

// TicketsView lists the citizen's tickets; selecting one shows its detail
// pane with a QR code for the reference, scannable at a service counter.
type TicketsView struct {
	*tview.Flex
	theme  *ui.Theme
	table  *tview.Table
	detail *tview.TextView

	rows []gateway.Ticket
}

// NewTicketsView creates the tickets screen.
func NewTicketsView(theme *ui.Theme) *TicketsView {
	tv := &TicketsView{
		Flex:  tview.NewFlex().SetDirection(tview.FlexColumn),
		theme: theme,
	}

	tv.table = tview.NewTable().
		SetSelectable(true, false).
		SetBorders(false)
	tv.table.SetBorder(true).SetTitle(" My tickets ")
	tv.table.SetTitleColor(theme.TitleColor)
	tv.table.SetBorderColor(theme.BorderColor)
	tv.table.SetSelectionChangedFunc(func(row, col int) {
		tv.showDetail(row - 1)
	})

	tv.detail = tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignCenter)
	tv.detail.SetBorder(true).SetTitle(" Ticket ")
	tv.detail.SetTitleColor(theme.TitleColor)
	tv.detail.SetBorderColor(theme.BorderColor)

	tv.AddItem(tv.table, 0, 1, true).
		AddItem(tv.detail, 0, 1, false)
	return tv
}

// Name implements ui.Component.
func (tv *TicketsView) Name() string { return "tickets" }

// Hints implements ui.Component.
func (tv *TicketsView) Hints() []ui.MenuHint {
	return []ui.MenuHint{
		{Key: "r", Description: "reload"},
		{Key: "Esc", Description: "back"},
	}
}

// Table returns the ticket table for focus handling.
func (tv *TicketsView) Table() *tview.Table { return tv.table }

// Update replaces the table contents.
func (tv *TicketsView) Update(rows []gateway.Ticket) {
	tv.rows = rows
	tv.table.Clear()

	header := func(col int, text string) {
		tv.table.SetCell(0, col, tview.NewTableCell(" "+text).
			SetSelectable(false).
			SetTextColor(tv.theme.TableHeaderFg))
	}
	header(0, "Reference")
	header(1, "Subject")
	header(2, "Status")
	header(3, "Updated")

	for i, t := range rows {
		row := i + 1
		tv.table.SetCell(row, 0, tview.NewTableCell(" "+t.Reference).SetMaxWidth(16))
		tv.table.SetCell(row, 1, tview.NewTableCell(" "+t.Subject).SetMaxWidth(35).SetExpansion(2))
		tv.table.SetCell(row, 2, tview.NewTableCell(" "+t.Status).SetMaxWidth(14))
		tv.table.SetCell(row, 3, tview.NewTableCell(" "+formatWhen(t.UpdatedAt)).SetMaxWidth(12))
	}
	if len(rows) > 0 {
		tv.table.Select(1, 0)
		tv.showDetail(0)
	} else {
		tv.detail.Clear()
	}
}

func (tv *TicketsView) showDetail(idx int) {
	if idx < 0 || idx >= len(tv.rows) {
		return
	}
	t := tv.rows[idx]
	tv.detail.Clear()
	_, _ = fmt.Fprintf(tv.detail, "\n[::b]%s[-:-:-]\n%s\n\nStatus: %s\n\n%s\n[::d]Present this code at the service counter[-:-:-]",
		t.Reference, t.Subject, t.Status, renderQR(t.Reference))
}

// renderQR converts a string to a compact ASCII QR code using Unicode
// half-block characters.
func renderQR(content string) string {
	qr, err := qrcode.New(content, qrcode.Low)
	if err != nil {
		return "  (QR generation failed: " + err.Error() + ")"
	}

	bitmap := qr.Bitmap()
	rows := len(bitmap)
	cols := 0
	if rows > 0 {
		cols = len(bitmap[0])
	}

	var sb strings.Builder
	for y := 0; y < rows; y += 2 {
		for x := 0; x < cols; x++ {
			top := bitmap[y][x]
			bot := false
			if y+1 < rows {
				bot = bitmap[y+1][x]
			}
			switch {
			case top && bot:
				sb.WriteRune('█')
			case top && !bot:
				sb.WriteRune('▀')
			case !top && bot:
				sb.WriteRune('▄')
			default:
				sb.WriteRune(' ')
			}
		}
		sb.WriteRune('\n')
	}
	return sb.String()
}
