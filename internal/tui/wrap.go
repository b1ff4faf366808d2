package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/termotype/internal/typing"
)

type styledRune struct {
	s       string
	width   int
	isSpace bool
	active  bool
}

// buildStyledRunes renders the engine's word sequence: finished words are
// dimmed (red when they had a mistake), the open word is coloured per
// character with the cursor underlined, and later words are pending.
func buildStyledRunes(e *typing.Engine) []styledRune {
	words := e.Words()
	index := e.Index()
	current := e.Current()

	out := make([]styledRune, 0, len(words)*6)
	for i, word := range words {
		if i > 0 {
			space := styledRune{s: pendingStyle.Render(" "), width: 1, isSpace: true}
			if i == index+1 && current != nil && current.Cursor() >= current.Len() {
				space.s = cursorStyle.Render(" ")
				space.active = true
			}
			out = append(out, space)
		}
		switch {
		case i < index:
			style := doneStyle
			if e.WordHadErrors(i) {
				style = doneErrorStyle
			}
			out = appendWord(out, []rune(word), style)
		case i == index && current != nil:
			out = appendCurrentWord(out, current)
		default:
			out = appendWord(out, []rune(word), pendingStyle)
		}
	}
	return out
}

func appendWord(out []styledRune, runes []rune, style lipgloss.Style) []styledRune {
	for _, r := range runes {
		out = append(out, styledRune{s: style.Render(string(r)), width: runewidth.RuneWidth(r)})
	}
	return out
}

func appendCurrentWord(out []styledRune, w *typing.WordState) []styledRune {
	states := w.States()
	cursor := w.Cursor()
	for j, r := range w.Runes() {
		style := currentWordStyle
		switch states[j] {
		case typing.CharCorrect:
			style = correctStyle
		case typing.CharIncorrect:
			style = incorrectStyle
		}
		if j == cursor {
			style = style.Underline(true)
		}
		out = append(out, styledRune{
			s:      style.Render(string(r)),
			width:  runewidth.RuneWidth(r),
			active: true,
		})
	}
	return out
}

func renderStyledRunes(runes []styledRune) string {
	var b strings.Builder
	for _, item := range runes {
		b.WriteString(item.s)
	}
	return b.String()
}

// wrapStyledRunes breaks runes into lines of at most width cells, preferring
// spaces as break points. It also returns the line holding the open word.
func wrapStyledRunes(runes []styledRune, width int) ([]string, int) {
	if width <= 0 {
		return []string{renderStyledRunes(runes)}, 0
	}
	var lines []string
	activeLine := -1
	flush := func(part []styledRune) {
		if activeLine < 0 && hasActive(part) {
			activeLine = len(lines)
		}
		lines = append(lines, renderStyledRunes(part))
	}

	line := make([]styledRune, 0, len(runes))
	lineWidth := 0
	lastSpaceIdx := -1
	for i := 0; i < len(runes); {
		item := runes[i]
		if lineWidth+item.width > width && len(line) > 0 {
			if lastSpaceIdx >= 0 {
				flush(line[:lastSpaceIdx])
				line = append([]styledRune{}, line[lastSpaceIdx+1:]...)
				lineWidth = lineWidthOf(line)
				lastSpaceIdx = lastSpaceIndex(line)
			} else {
				flush(line)
				line = line[:0]
				lineWidth = 0
				lastSpaceIdx = -1
			}
			continue
		}
		line = append(line, item)
		lineWidth += item.width
		if item.isSpace {
			lastSpaceIdx = len(line) - 1
		}
		i++
	}
	flush(line)
	return lines, max(activeLine, 0)
}

// visibleLines keeps at most limit lines, scrolled so the active line stays
// second from the top once typing moves past the first line.
func visibleLines(lines []string, active, limit int) []string {
	if limit <= 0 || len(lines) <= limit {
		return lines
	}
	start := max(active-1, 0)
	start = min(start, len(lines)-limit)
	return lines[start : start+limit]
}

func hasActive(line []styledRune) bool {
	for _, item := range line {
		if item.active {
			return true
		}
	}
	return false
}

func lineWidthOf(line []styledRune) int {
	total := 0
	for _, item := range line {
		total += item.width
	}
	return total
}

func lastSpaceIndex(line []styledRune) int {
	for i := len(line) - 1; i >= 0; i-- {
		if line[i].isSpace {
			return i
		}
	}
	return -1
}
