// Package model defines shared data structures.
package model

import "time"

// Config defines test settings.
type Config struct {
	Mode      string
	Seconds   int
	Words     int
	WordsFile string
	CapsPct   float64
	PunctPct  float64
	PunctSet  string
	LogLevel  string
}

// HistoryFilter narrows the session history listing.
type HistoryFilter struct {
	ModeKind  string
	ModeValue int
	Since     *time.Time
	Last      int
}

// SessionRecord captures a finished typing test.
type SessionRecord struct {
	ID             int64
	StartedAt      time.Time
	EndedAt        time.Time
	ModeKind       string
	ModeValue      int
	WordsCompleted int
	Correct        int
	Incorrect      int
	TotalTyped     int
	DurationMs     int64
	WPM            float64
	CPM            float64
	Accuracy       float64
	NewBest        bool
}

// ModeBest is the highest WPM recorded in history for one mode.
type ModeBest struct {
	ModeKind  string
	ModeValue int
	WPM       float64
	Accuracy  float64
	Sessions  int
}
