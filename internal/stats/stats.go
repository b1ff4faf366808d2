// Package stats contains statistics calculations and reporting.
package stats

import (
	"math"
	"strings"
)

const sparkChars = " .:-=+*#%@"

// charsPerWord is the conventional length of one "word" in WPM figures.
const charsPerWord = 5.0

// Metrics holds derived typing speed and accuracy.
type Metrics struct {
	WPM      float64
	CPM      float64
	Accuracy float64 // percent, 0-100
}

// WPM returns words per minute for correct characters over elapsed seconds.
func WPM(correct int, elapsedSeconds float64) float64 {
	if elapsedSeconds <= 0 {
		return 0
	}
	return (float64(correct) / charsPerWord) / (elapsedSeconds / 60)
}

// CPM returns characters per minute.
func CPM(correct int, elapsedSeconds float64) float64 {
	if elapsedSeconds <= 0 {
		return 0
	}
	return float64(correct) / (elapsedSeconds / 60)
}

// Accuracy returns the share of correct characters in percent.
// No attempts at all count as perfect accuracy.
func Accuracy(correct, total int) float64 {
	if total <= 0 {
		return 100
	}
	return 100 * float64(correct) / float64(total)
}

// Calculate derives all metrics from completed-word counters.
func Calculate(correct, incorrect int, elapsedSeconds float64) Metrics {
	return Metrics{
		WPM:      WPM(correct, elapsedSeconds),
		CPM:      CPM(correct, elapsedSeconds),
		Accuracy: Accuracy(correct, correct+incorrect),
	}
}

// SessionMetrics computes metrics for a stored session duration.
func SessionMetrics(correct, incorrect int, durationMs int64) Metrics {
	return Calculate(correct, incorrect, float64(durationMs)/1000.0)
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	if window <= 1 || len(values) == 0 {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, len(values))
	var sum float64
	for i := 0; i < len(values); i++ {
		sum += values[i]
		if i >= window {
			sum -= values[i-window]
		}
		den := float64(i + 1)
		if i >= window {
			den = float64(window)
		}
		out[i] = sum / den
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal, maxVal := values[0], values[0]
	for _, v := range values[1:] {
		minVal = math.Min(minVal, v)
		maxVal = math.Max(maxVal, v)
	}
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		idx = max(0, min(idx, len(sparkChars)-1))
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}
