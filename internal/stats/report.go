package stats

import (
	"fmt"
	"io"
	"time"

	"github.com/samber/lo"

	"github.com/verte-zerg/termotype/internal/model"
)

// Summary aggregates a list of finished sessions.
type Summary struct {
	Sessions    int
	AvgWPM      float64
	BestWPM     float64
	AvgCPM      float64
	AvgAccuracy float64
}

// Summarize averages metrics across sessions.
func Summarize(records []model.SessionRecord) Summary {
	if len(records) == 0 {
		return Summary{}
	}
	var s Summary
	for _, r := range records {
		s.AvgWPM += r.WPM
		s.AvgCPM += r.CPM
		s.AvgAccuracy += r.Accuracy
		s.BestWPM = max(s.BestWPM, r.WPM)
	}
	count := float64(len(records))
	s.Sessions = len(records)
	s.AvgWPM /= count
	s.AvgCPM /= count
	s.AvgAccuracy /= count
	return s
}

// WPMSeries extracts the WPM of each session in order.
func WPMSeries(records []model.SessionRecord) []float64 {
	return lo.Map(records, func(r model.SessionRecord, _ int) float64 { return r.WPM })
}

// RenderSummary prints a summary block for sessions.
func RenderSummary(w io.Writer, records []model.SessionRecord) error {
	if len(records) == 0 {
		_, err := fmt.Fprintln(w, "No sessions found.")
		return err
	}
	s := Summarize(records)
	lines := []string{
		"Summary",
		fmt.Sprintf("Sessions: %d", s.Sessions),
		fmt.Sprintf("Avg WPM: %.2f", s.AvgWPM),
		fmt.Sprintf("Best WPM: %.2f", s.BestWPM),
		fmt.Sprintf("Avg CPM: %.2f", s.AvgCPM),
		fmt.Sprintf("Avg Accuracy: %.2f%%", s.AvgAccuracy),
		"",
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderHistory prints one row per session followed by a WPM sparkline of at
// most maxPoints points. Zero maxPoints means no limit.
func RenderHistory(w io.Writer, records []model.SessionRecord, window, maxPoints int) error {
	if len(records) == 0 {
		return nil
	}
	headers := []string{"Date", "Mode", "WPM", "CPM", "Accuracy", "Words", "Best"}
	rows := lo.Map(records, func(r model.SessionRecord, _ int) []string {
		best := ""
		if r.NewBest {
			best = "*"
		}
		return []string{
			r.EndedAt.Local().Format(time.DateTime),
			modeLabel(r.ModeKind, r.ModeValue),
			fmt.Sprintf("%.1f", r.WPM),
			fmt.Sprintf("%.1f", r.CPM),
			fmt.Sprintf("%.1f%%", r.Accuracy),
			fmt.Sprintf("%d", r.WordsCompleted),
			best,
		}
	})
	rightAlign := map[int]bool{2: true, 3: true, 4: true, 5: true}
	for _, line := range formatTable(headers, rows, rightAlign) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	series := MovingAverage(WPMSeries(records), window)
	if maxPoints > 0 && len(series) > maxPoints {
		series = series[len(series)-maxPoints:]
	}
	spark := Sparkline(series)
	if _, err := fmt.Fprintf(w, "\nWPM trend: %s\n", spark); err != nil {
		return err
	}
	return nil
}

// RenderBests prints the best history entry per mode.
func RenderBests(w io.Writer, bests []model.ModeBest) error {
	if len(bests) == 0 {
		_, err := fmt.Fprintln(w, "No sessions found.")
		return err
	}
	headers := []string{"Mode", "Best WPM", "Accuracy", "Sessions"}
	rows := lo.Map(bests, func(b model.ModeBest, _ int) []string {
		return []string{
			modeLabel(b.ModeKind, b.ModeValue),
			fmt.Sprintf("%.1f", b.WPM),
			fmt.Sprintf("%.1f%%", b.Accuracy),
			fmt.Sprintf("%d", b.Sessions),
		}
	})
	for _, line := range formatTable(headers, rows, map[int]bool{1: true, 2: true, 3: true}) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

func modeLabel(kind string, value int) string {
	switch kind {
	case "time":
		return fmt.Sprintf("%ds", value)
	case "words":
		return fmt.Sprintf("%d words", value)
	default:
		return kind
	}
}
