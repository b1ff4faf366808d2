package typing

import (
	"time"

	"github.com/verte-zerg/termotype/internal/stats"
)

// State is the lifecycle stage of a test run.
type State int

const (
	// NotStarted waits for the first keystroke.
	NotStarted State = iota
	// InProgress accepts input and advances the clock.
	InProgress
	// Finished freezes the clock until Reset.
	Finished
)

func (s State) String() string {
	switch s {
	case NotStarted:
		return "not started"
	case InProgress:
		return "in progress"
	case Finished:
		return "finished"
	default:
		return "unknown"
	}
}

// Result is the final outcome of a finished run.
type Result struct {
	Mode           Mode
	StartedAt      time.Time
	EndedAt        time.Time
	WordsCompleted int
	Correct        int
	Incorrect      int
	TotalTyped     int
	Metrics        stats.Metrics
}

// Duration returns the frozen run length.
func (r Result) Duration() time.Duration {
	return r.EndedAt.Sub(r.StartedAt)
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// Engine runs one typing test over a fixed word sequence.
//
// Cumulative counters only include words the user has advanced past; the
// open word is visible through Current until NextWord folds it in. All
// methods must be called from a single goroutine.
type Engine struct {
	state   State
	mode    Mode
	words   []string
	index   int
	current *WordState

	startedAt time.Time
	endedAt   time.Time

	totalTyped int
	correct    int
	incorrect  int
	wordErrors []bool

	resultClaimed bool
	now           func() time.Time
}

// NewEngine builds an engine positioned on the first word.
func NewEngine(mode Mode, words []string, opts ...Option) *Engine {
	e := &Engine{
		mode:  mode,
		words: append([]string(nil), words...),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.Reset()
	return e
}

// Start moves a fresh run to InProgress and records the start time.
func (e *Engine) Start() {
	if e.state != NotStarted {
		return
	}
	e.state = InProgress
	e.startedAt = e.now()
}

// Finish freezes an in-progress run.
func (e *Engine) Finish() {
	if e.state != InProgress {
		return
	}
	e.state = Finished
	e.endedAt = e.now()
}

// Reset returns to NotStarted on the same word sequence.
func (e *Engine) Reset() {
	e.state = NotStarted
	e.index = 0
	e.current = nil
	if len(e.words) > 0 {
		e.current = NewWordState(e.words[0])
	}
	e.startedAt = time.Time{}
	e.endedAt = time.Time{}
	e.totalTyped = 0
	e.correct = 0
	e.incorrect = 0
	e.wordErrors = make([]bool, 0, len(e.words))
	e.resultClaimed = false
}

// ensureStarted starts the run on the first input. It reports whether input
// should be applied.
func (e *Engine) ensureStarted() bool {
	if e.state == NotStarted {
		e.Start()
	}
	return e.state == InProgress
}

// TypeChar applies one keystroke to the current word.
func (e *Engine) TypeChar(r rune) {
	if !e.ensureStarted() || e.current == nil {
		return
	}
	if e.current.AddChar(r) {
		e.totalTyped++
	}
}

// Backspace removes the last typed character of the current word.
func (e *Engine) Backspace() {
	if e.state != InProgress || e.current == nil {
		return
	}
	e.current.RemoveChar()
}

// NextWord folds the current word into the totals and moves on.
func (e *Engine) NextWord() {
	if e.state != InProgress {
		return
	}
	if e.current != nil {
		e.correct += e.current.CorrectCount()
		e.incorrect += e.current.IncorrectCount()
		e.wordErrors = append(e.wordErrors, e.current.HasErrors())
	}
	e.index++
	if e.index < len(e.words) {
		e.current = NewWordState(e.words[e.index])
	} else {
		e.current = nil
	}
	if e.ShouldAutoFinish() {
		e.Finish()
	}
}

// ShouldAutoFinish reports whether the mode's end condition holds.
func (e *Engine) ShouldAutoFinish() bool {
	switch e.mode.Kind {
	case ModeTime:
		return e.ElapsedSeconds() >= float64(e.mode.Value)
	case ModeWords:
		return e.index >= e.mode.Value
	default:
		return false
	}
}

// Tick finishes an in-progress run whose end condition holds. The driving
// loop calls it periodically because time expiry produces no input event.
func (e *Engine) Tick() bool {
	if e.state != InProgress || !e.ShouldAutoFinish() {
		return false
	}
	e.Finish()
	return true
}

// ElapsedSeconds is zero before the start, frozen after the finish, and
// live in between.
func (e *Engine) ElapsedSeconds() float64 {
	return e.elapsed().Seconds()
}

func (e *Engine) elapsed() time.Duration {
	switch e.state {
	case InProgress:
		return e.now().Sub(e.startedAt)
	case Finished:
		return e.endedAt.Sub(e.startedAt)
	default:
		return 0
	}
}

// Remaining returns the countdown for time mode and zero otherwise.
func (e *Engine) Remaining() time.Duration {
	if e.mode.Kind != ModeTime {
		return 0
	}
	left := time.Duration(e.mode.Value)*time.Second - e.elapsed()
	return max(left, 0)
}

// Metrics derives live figures from completed words only.
func (e *Engine) Metrics() stats.Metrics {
	return stats.Calculate(e.correct, e.incorrect, e.ElapsedSeconds())
}

// ClaimResult returns the final result once per finished run.
func (e *Engine) ClaimResult() (Result, bool) {
	if e.state != Finished || e.resultClaimed {
		return Result{}, false
	}
	e.resultClaimed = true
	return Result{
		Mode:           e.mode,
		StartedAt:      e.startedAt,
		EndedAt:        e.endedAt,
		WordsCompleted: e.index,
		Correct:        e.correct,
		Incorrect:      e.incorrect,
		TotalTyped:     e.totalTyped,
		Metrics:        e.Metrics(),
	}, true
}

// State returns the lifecycle stage.
func (e *Engine) State() State { return e.state }

// Mode returns the configured mode.
func (e *Engine) Mode() Mode { return e.mode }

// Words returns the word sequence. Callers must not modify it.
func (e *Engine) Words() []string { return e.words }

// Index returns the position of the current word.
func (e *Engine) Index() int { return e.index }

// Current returns the open word tracker, or nil once the sequence is exhausted.
func (e *Engine) Current() *WordState { return e.current }

// CorrectChars returns the cumulative correct count of completed words.
func (e *Engine) CorrectChars() int { return e.correct }

// IncorrectChars returns the cumulative incorrect count of completed words.
func (e *Engine) IncorrectChars() int { return e.incorrect }

// TotalTyped counts every consumed keystroke, backspaced or not.
func (e *Engine) TotalTyped() int { return e.totalTyped }

// WordHadErrors reports whether completed word i contained a mistake.
func (e *Engine) WordHadErrors(i int) bool {
	if i < 0 || i >= len(e.wordErrors) {
		return false
	}
	return e.wordErrors[i]
}
