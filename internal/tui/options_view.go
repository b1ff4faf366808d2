package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"

	"github.com/verte-zerg/termotype/internal/typing"
)

func (m *Model) viewOptions() string {
	current := m.engine.Mode()
	lines := []string{
		sectionStyle.Render("Test mode"),
		"",
		optionLine(m.keys.TimeMode, typing.DefaultTimeMode(), current),
		optionLine(m.keys.WordsMode, typing.DefaultWordsMode(), current),
	}
	if m.customMode != nil {
		lines = append(lines, optionLine(m.keys.CustomMode, *m.customMode, current))
	}
	lines = append(lines, "", footerStyle.Render(fmt.Sprintf("Word pool: %d words", len(m.pool))))
	return strings.Join(lines, "\n")
}

func optionLine(b key.Binding, mode, current typing.Mode) string {
	line := fmt.Sprintf("[%s] %s", b.Help().Key, mode)
	if mode == current {
		return selectedStyle.Render("> " + line)
	}
	return pendingStyle.Render("  " + line)
}
