package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/termotype/internal/profile"
	"github.com/verte-zerg/termotype/internal/stats"
)

const (
	sparkPoints        = 40
	defaultTableHeight = 8
)

func newHistoryTable() table.Model {
	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "When", Width: 16},
			{Title: "Mode", Width: 10},
			{Title: "WPM", Width: 7},
			{Title: "CPM", Width: 7},
			{Title: "Acc", Width: 7},
			{Title: "Time", Width: 7},
		}),
		table.WithHeight(defaultTableHeight),
	)
	t.SetStyles(historyTableStyles())
	return t
}

// syncHistoryRows lists recent sessions newest first.
func (m *Model) syncHistoryRows() {
	rows := make([]table.Row, 0, len(m.recent))
	for i := len(m.recent) - 1; i >= 0; i-- {
		rec := m.recent[i]
		label := rec.ModeKind
		if rec.ModeKind == "time" {
			label = fmt.Sprintf("%ds", rec.ModeValue)
		} else if rec.ModeKind == "words" {
			label = fmt.Sprintf("%d words", rec.ModeValue)
		}
		rows = append(rows, table.Row{
			rec.EndedAt.Local().Format("2006-01-02 15:04"),
			label,
			fmt.Sprintf("%.1f", rec.WPM),
			fmt.Sprintf("%.1f", rec.CPM),
			fmt.Sprintf("%.1f%%", rec.Accuracy),
			fmt.Sprintf("%.1fs", float64(rec.DurationMs)/1000),
		})
	}
	m.history.SetRows(rows)
}

func (m *Model) resizeHistory() {
	if m.height == 0 {
		return
	}
	m.history.SetHeight(min(max(m.height-18, 3), 12))
}

func (m *Model) viewStats() string {
	bests := lipgloss.JoinHorizontal(lipgloss.Top,
		bestCard("Best 30s", m.profile.Best30Seconds),
		bestCard("Best 30 words", m.profile.Best30Words),
	)
	if len(m.recent) == 0 {
		return lipgloss.JoinVertical(lipgloss.Left, bests, "", "No sessions recorded yet.")
	}

	summary := stats.Summarize(m.recent)
	cards := lipgloss.JoinHorizontal(lipgloss.Top,
		metricCard("Sessions", fmt.Sprintf("%d", summary.Sessions)),
		metricCard("Avg WPM", fmt.Sprintf("%.1f", summary.AvgWPM)),
		metricCard("Avg CPM", fmt.Sprintf("%.1f", summary.AvgCPM)),
		metricCard("Avg Acc", fmt.Sprintf("%.1f%%", summary.AvgAccuracy)),
	)
	series := stats.WPMSeries(m.recent)
	if len(series) > sparkPoints {
		series = series[len(series)-sparkPoints:]
	}
	trend := cardTitleStyle.Render("WPM trend ") + cardValueStyle.Render(stats.Sparkline(series))
	return lipgloss.JoinVertical(lipgloss.Left,
		bests,
		cards,
		"",
		tableMutedStyle.Render(m.history.View()),
		"",
		trend,
	)
}

func bestCard(label string, best *profile.BestScore) string {
	if best == nil {
		return metricCard(label, "-")
	}
	return metricCard(label, fmt.Sprintf("%.1f WPM · %.1f%%", best.WPM, best.Accuracy))
}
