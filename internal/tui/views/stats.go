package views

import (
	"fmt"
	"sort"
	"strings"

	"github.com/justify-app/justify/internal/gateway"
	"github.com/justify-app/justify/internal/tui/ui"
	"github.com/rivo/tview"
)

// StatsView renders the portal dashboard: headline counters plus a text
// bar chart of complaints per month.
type StatsView struct {
	*tview.TextView
	theme *ui.Theme
}

// NewStatsView creates the statistics screen.
func NewStatsView(theme *ui.Theme) *StatsView {
	tv := tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true)
	tv.SetBorder(true).SetTitle(" Statistics ")
	tv.SetTitleColor(theme.TitleColor)
	tv.SetBorderColor(theme.BorderColor)

	return &StatsView{TextView: tv, theme: theme}
}

// Name implements ui.Component.
func (sv *StatsView) Name() string { return "statistics" }

// Hints implements ui.Component.
func (sv *StatsView) Hints() []ui.MenuHint {
	return []ui.MenuHint{
		{Key: "r", Description: "reload"},
		{Key: "Esc", Description: "back"},
	}
}

// Update re-renders the dashboard.
func (sv *StatsView) Update(s *gateway.Statistics) {
	sv.Clear()
	if s == nil {
		return
	}

	_, _ = fmt.Fprintf(sv, "\n  [::b]Complaints[-:-:-]  total %d   open %d   resolved %d\n",
		s.TotalComplaints, s.OpenComplaints, s.ResolvedComplaints)
	_, _ = fmt.Fprintf(sv, "  [::b]Citizens[-:-:-]    registered %d\n\n", s.TotalUsers)

	if len(s.ComplaintsByMonth) == 0 {
		return
	}

	months := make([]string, 0, len(s.ComplaintsByMonth))
	var max int64
	for m, n := range s.ComplaintsByMonth {
		months = append(months, m)
		if n > max {
			max = n
		}
	}
	sort.Strings(months)

	_, _ = fmt.Fprint(sv, "  [::b]Complaints by month[-:-:-]\n\n")
	for _, m := range months {
		n := s.ComplaintsByMonth[m]
		width := 0
		if max > 0 {
			width = int(n * 40 / max)
		}
		_, _ = fmt.Fprintf(sv, "  %-8s %s %d\n", m, strings.Repeat("█", width), n)
	}
}
