package views

import (
	"github.com/justify-app/justify/internal/gateway"
	"github.com/justify-app/justify/internal/tui/ui"
	"github.com/rivo/tview"
)

// complaintCategories mirrors the portal's fixed category list.
var complaintCategories = []string{
	"Infrastructure",
	"Sanitation",
	"Public safety",
	"Transportation",
	"Noise",
	"Other",
}

// ComplaintsView lists the citizen's complaints and hosts the submission
// form.
type ComplaintsView struct {
	*tview.Flex
	theme *ui.Theme
	table *tview.Table
	form  *tview.Form

	rows     []gateway.Complaint
	onSubmit func(subject, category, description string)
}

// NewComplaintsView creates the complaints screen.
func NewComplaintsView(theme *ui.Theme) *ComplaintsView {
	cv := &ComplaintsView{
		Flex:  tview.NewFlex().SetDirection(tview.FlexColumn),
		theme: theme,
	}

	cv.table = tview.NewTable().
		SetSelectable(true, false).
		SetBorders(false)
	cv.table.SetBorder(true).SetTitle(" My complaints ")
	cv.table.SetTitleColor(theme.TitleColor)
	cv.table.SetBorderColor(theme.BorderColor)

	cv.form = tview.NewForm()
	cv.form.AddInputField("Subject", "", 30, nil, nil)
	cv.form.AddDropDown("Category", complaintCategories, 0, nil)
	cv.form.AddTextArea("Description", "", 30, 6, 0, nil)
	cv.form.AddButton("Submit", func() {
		subject := cv.form.GetFormItemByLabel("Subject").(*tview.InputField).GetText()
		_, category := cv.form.GetFormItemByLabel("Category").(*tview.DropDown).GetCurrentOption()
		description := cv.form.GetFormItemByLabel("Description").(*tview.TextArea).GetText()
		if cv.onSubmit != nil {
			cv.onSubmit(subject, category, description)
		}
	})
	cv.form.SetBorder(true).SetTitle(" New complaint ")
	cv.form.SetTitleColor(theme.TitleColor)
	cv.form.SetBorderColor(theme.BorderColor)

	cv.AddItem(cv.table, 0, 1, true).
		AddItem(cv.form, 42, 0, false)
	return cv
}

// Name implements ui.Component.
func (cv *ComplaintsView) Name() string { return "complaints" }

// Hints implements ui.Component.
func (cv *ComplaintsView) Hints() []ui.MenuHint {
	return []ui.MenuHint{
		{Key: "n", Description: "new complaint"},
		{Key: "r", Description: "reload"},
		{Key: "Esc", Description: "back"},
	}
}

// SetOnSubmit sets the form submission callback.
func (cv *ComplaintsView) SetOnSubmit(fn func(subject, category, description string)) {
	cv.onSubmit = fn
}

// Form returns the submission form for focus handling.
func (cv *ComplaintsView) Form() *tview.Form { return cv.form }

// Table returns the complaint table for focus handling.
func (cv *ComplaintsView) Table() *tview.Table { return cv.table }

// ClearForm resets the submission form after a successful submit.
func (cv *ComplaintsView) ClearForm() {
	cv.form.GetFormItemByLabel("Subject").(*tview.InputField).SetText("")
	cv.form.GetFormItemByLabel("Category").(*tview.DropDown).SetCurrentOption(0)
	cv.form.GetFormItemByLabel("Description").(*tview.TextArea).SetText("", false)
}

// Update replaces the table contents.
func (cv *ComplaintsView) Update(rows []gateway.Complaint) {
	cv.rows = rows
	cv.table.Clear()

	header := func(col int, text string) {
		cv.table.SetCell(0, col, tview.NewTableCell(" "+text).
			SetSelectable(false).
			SetTextColor(cv.theme.TableHeaderFg))
	}
	header(0, "Subject")
	header(1, "Category")
	header(2, "Status")
	header(3, "Filed")

	for i, c := range rows {
		row := i + 1
		cv.table.SetCell(row, 0, tview.NewTableCell(" "+c.Subject).SetMaxWidth(35).SetExpansion(2))
		cv.table.SetCell(row, 1, tview.NewTableCell(" "+c.Category).SetMaxWidth(18))
		cv.table.SetCell(row, 2, tview.NewTableCell(" "+c.Status).SetMaxWidth(14))
		cv.table.SetCell(row, 3, tview.NewTableCell(" "+formatWhen(c.CreatedAt)).SetMaxWidth(12))
	}
	if len(rows) > 0 {
		cv.table.Select(1, 0)
	}
}
