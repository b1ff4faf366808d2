package tui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/termotype/internal/profile"
	"github.com/verte-zerg/termotype/internal/typing"
)

func (m *Model) viewTest() string {
	status := m.renderStatus()
	if m.engine.State() == typing.Finished && m.last != nil {
		return lipgloss.JoinVertical(lipgloss.Center, status, "", m.renderResult())
	}
	if len(m.engine.Words()) == 0 {
		return lipgloss.JoinVertical(lipgloss.Left, status, "", "No words available.")
	}

	width := m.contentWidth()
	lines, active := wrapStyledRunes(buildStyledRunes(m.engine), width)
	text := strings.Join(visibleLines(lines, active, maxTextLines), "\n")
	if width > 0 {
		text = lipgloss.NewStyle().Width(width).Render(text)
	}
	parts := []string{status, "", text}
	if best := m.renderBest(); best != "" {
		parts = append(parts, "", best)
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// renderStatus shows the countdown or word progress with live metrics.
func (m *Model) renderStatus() string {
	e := m.engine
	mode := e.Mode()
	var progress string
	if mode.Kind == typing.ModeTime {
		progress = fmt.Sprintf("Time %ds", int(math.Ceil(e.Remaining().Seconds())))
	} else {
		progress = fmt.Sprintf("Words %d/%d", min(e.Index(), mode.Value), mode.Value)
	}
	metrics := e.Metrics()
	segments := []string{
		mode.String(),
		progress,
		fmt.Sprintf("WPM %.1f", metrics.WPM),
		fmt.Sprintf("CPM %.1f", metrics.CPM),
		fmt.Sprintf("Acc %.1f%%", metrics.Accuracy),
	}
	return footerStyle.Render(strings.Join(segments, "  "))
}

func (m *Model) renderBest() string {
	mode := m.engine.Mode()
	if !mode.Trackable() {
		return footerStyle.Render("Best scores are kept for 30s and 30 words")
	}
	best := m.profile.Best(mode)
	if best == nil {
		return footerStyle.Render(fmt.Sprintf("No best for %s yet", mode))
	}
	return footerStyle.Render(formatBest(best))
}

func formatBest(b *profile.BestScore) string {
	return fmt.Sprintf("Best %.1f WPM · %.1f%% · %s", b.WPM, b.Accuracy, b.Timestamp.Local().Format("2006-01-02"))
}

func (m *Model) renderResult() string {
	res := m.last
	cards := lipgloss.JoinHorizontal(lipgloss.Top,
		metricCard("WPM", fmt.Sprintf("%.1f", res.Metrics.WPM)),
		metricCard("CPM", fmt.Sprintf("%.1f", res.Metrics.CPM)),
		metricCard("Accuracy", fmt.Sprintf("%.1f%%", res.Metrics.Accuracy)),
		metricCard("Time", fmt.Sprintf("%.1fs", res.Duration().Seconds())),
		metricCard("Words", fmt.Sprintf("%d", res.WordsCompleted)),
	)
	lines := []string{cards}
	if m.lastNewBest {
		lines = append(lines, "", newBestStyle.Render(fmt.Sprintf("New best for %s!", res.Mode)))
	}
	return lipgloss.JoinVertical(lipgloss.Center, lines...)
}

func metricCard(label, value string) string {
	content := fmt.Sprintf("%s\n%s", cardTitleStyle.Render(label), cardValueStyle.Render(value))
	return cardStyle.Render(content)
}
