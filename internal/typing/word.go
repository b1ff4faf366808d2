// Package typing implements the typing test engine.
package typing

// CharState is the typed state of a single character position.
type CharState int

const (
	// CharUntyped marks a position the cursor has not reached yet.
	CharUntyped CharState = iota
	// CharCorrect marks a position typed with the expected rune.
	CharCorrect
	// CharIncorrect marks a position typed with a different rune.
	CharIncorrect
)

func (s CharState) String() string {
	switch s {
	case CharUntyped:
		return "untyped"
	case CharCorrect:
		return "correct"
	case CharIncorrect:
		return "incorrect"
	default:
		return "unknown"
	}
}

// WordState tracks typed-versus-expected state for the characters of one word.
//
// The cursor always equals the number of typed positions: every index below
// the cursor is correct or incorrect, every index at or above it is untyped.
type WordState struct {
	target []rune
	states []CharState
	cursor int
}

// NewWordState returns a tracker with every code point of target untyped.
func NewWordState(target string) *WordState {
	runes := []rune(target)
	return &WordState{
		target: runes,
		states: make([]CharState, len(runes)),
	}
}

// AddChar compares r with the rune under the cursor and advances.
// It reports false and changes nothing once the word is fully typed.
func (w *WordState) AddChar(r rune) bool {
	if w.cursor >= len(w.target) {
		return false
	}
	if r == w.target[w.cursor] {
		w.states[w.cursor] = CharCorrect
	} else {
		w.states[w.cursor] = CharIncorrect
	}
	w.cursor++
	return true
}

// RemoveChar steps the cursor back and clears the vacated position.
func (w *WordState) RemoveChar() bool {
	if w.cursor == 0 {
		return false
	}
	w.cursor--
	w.states[w.cursor] = CharUntyped
	return true
}

// Complete reports whether every character has been typed.
func (w *WordState) Complete() bool {
	return w.cursor >= len(w.target)
}

// HasErrors reports whether any typed character is incorrect.
func (w *WordState) HasErrors() bool {
	for _, s := range w.states {
		if s == CharIncorrect {
			return true
		}
	}
	return false
}

// CorrectCount returns the number of correctly typed positions.
func (w *WordState) CorrectCount() int {
	return w.count(CharCorrect)
}

// IncorrectCount returns the number of incorrectly typed positions.
func (w *WordState) IncorrectCount() int {
	return w.count(CharIncorrect)
}

func (w *WordState) count(want CharState) int {
	n := 0
	for _, s := range w.states {
		if s == want {
			n++
		}
	}
	return n
}

// Target returns the word being typed.
func (w *WordState) Target() string {
	return string(w.target)
}

// Runes returns a copy of the target code points.
func (w *WordState) Runes() []rune {
	return append([]rune(nil), w.target...)
}

// States returns a copy of the per-character states.
func (w *WordState) States() []CharState {
	return append([]CharState(nil), w.states...)
}

// Cursor returns the index of the next position to type.
func (w *WordState) Cursor() int {
	return w.cursor
}

// Len returns the number of code points in the target.
func (w *WordState) Len() int {
	return len(w.target)
}
