package typing

import (
	"fmt"
	"strings"
)

// ModeKind selects the auto-finish condition of a test.
type ModeKind int

const (
	// ModeTime finishes after a fixed number of seconds.
	ModeTime ModeKind = iota
	// ModeWords finishes after a fixed number of words.
	ModeWords
)

// Default values for the two tracked modes.
const (
	DefaultSeconds = 30
	DefaultWords   = 30
)

// Mode is either Time(seconds) or Words(count). The zero value is Time(0),
// so always build modes with TimeMode or WordsMode.
type Mode struct {
	Kind  ModeKind
	Value int
}

// TimeMode returns a time-limited mode.
func TimeMode(seconds int) Mode {
	return Mode{Kind: ModeTime, Value: seconds}
}

// WordsMode returns a word-count mode.
func WordsMode(count int) Mode {
	return Mode{Kind: ModeWords, Value: count}
}

// DefaultTimeMode is Time(30).
func DefaultTimeMode() Mode { return TimeMode(DefaultSeconds) }

// DefaultWordsMode is Words(30).
func DefaultWordsMode() Mode { return WordsMode(DefaultWords) }

// Trackable reports whether best scores are kept for the mode.
func (m Mode) Trackable() bool {
	return m == DefaultTimeMode() || m == DefaultWordsMode()
}

// KindName returns "time" or "words".
func (m Mode) KindName() string {
	switch m.Kind {
	case ModeTime:
		return "time"
	case ModeWords:
		return "words"
	default:
		return "unknown"
	}
}

func (m Mode) String() string {
	switch m.Kind {
	case ModeTime:
		return fmt.Sprintf("%ds", m.Value)
	case ModeWords:
		return fmt.Sprintf("%d words", m.Value)
	default:
		return "unknown"
	}
}

// ParseMode builds a mode from a kind name and its value.
func ParseMode(kind string, value int) (Mode, error) {
	if value <= 0 {
		return Mode{}, fmt.Errorf("mode value must be > 0, got %d", value)
	}
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "time", "t":
		return TimeMode(value), nil
	case "words", "word", "w":
		return WordsMode(value), nil
	default:
		return Mode{}, fmt.Errorf("unknown mode %q (use time or words)", kind)
	}
}
