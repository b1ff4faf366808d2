// Package profile keeps personal-best scores for the tracked test modes.
package profile

import (
	"time"

	"github.com/verte-zerg/termotype/internal/stats"
	"github.com/verte-zerg/termotype/internal/typing"
)

// BestScore is one recorded result.
type BestScore struct {
	WPM       float64   `toml:"wpm"`
	CPM       float64   `toml:"cpm"`
	Accuracy  float64   `toml:"accuracy"`
	Timestamp time.Time `toml:"timestamp"`
}

// NewBestScore captures metrics achieved at the given time.
func NewBestScore(m stats.Metrics, at time.Time) BestScore {
	return BestScore{
		WPM:       m.WPM,
		CPM:       m.CPM,
		Accuracy:  m.Accuracy,
		Timestamp: at.UTC().Truncate(time.Second),
	}
}

// BetterThan compares by WPM only.
func (s BestScore) BetterThan(other BestScore) bool {
	return s.WPM > other.WPM
}

// Profile holds the best score of each tracked mode.
type Profile struct {
	Best30Seconds *BestScore `toml:"best_30_seconds,omitempty"`
	Best30Words   *BestScore `toml:"best_30_words,omitempty"`
}

// Best returns the stored best for mode, or nil.
func (p *Profile) Best(mode typing.Mode) *BestScore {
	if slot := p.slot(mode); slot != nil {
		return *slot
	}
	return nil
}

// UpdateScore stores score when it beats the current best for mode and
// reports whether it did. Untracked modes are always rejected.
func (p *Profile) UpdateScore(mode typing.Mode, score BestScore) bool {
	slot := p.slot(mode)
	if slot == nil {
		return false
	}
	if *slot != nil && !score.BetterThan(**slot) {
		return false
	}
	s := score
	*slot = &s
	return true
}

func (p *Profile) slot(mode typing.Mode) **BestScore {
	switch mode {
	case typing.DefaultTimeMode():
		return &p.Best30Seconds
	case typing.DefaultWordsMode():
		return &p.Best30Words
	default:
		return nil
	}
}
