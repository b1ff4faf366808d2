package typing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func typeWord(e *Engine, word string) {
	for _, r := range word {
		e.TypeChar(r)
	}
}

func TestNewEngine(t *testing.T) {
	e := NewEngine(DefaultTimeMode(), []string{"test", "words"})
	assert.Equal(t, NotStarted, e.State())
	require.NotNil(t, e.Current())
	assert.Equal(t, "test", e.Current().Target())
	assert.Equal(t, 0.0, e.ElapsedSeconds())
}

func TestNewEngineEmptyWords(t *testing.T) {
	e := NewEngine(WordsMode(3), nil)
	assert.Nil(t, e.Current())
	e.TypeChar('a')
	assert.Equal(t, InProgress, e.State())
	assert.Equal(t, 0, e.TotalTyped())
}

func TestStartFinish(t *testing.T) {
	clock := newFakeClock()
	e := NewEngine(DefaultTimeMode(), []string{"test"}, WithClock(clock.Now))

	e.Finish()
	assert.Equal(t, NotStarted, e.State())

	start := clock.now
	e.Start()
	assert.Equal(t, InProgress, e.State())

	clock.Advance(time.Second)
	e.Start()

	e.Finish()
	assert.Equal(t, Finished, e.State())
	res, ok := e.ClaimResult()
	require.True(t, ok)
	assert.Equal(t, start, res.StartedAt, "start is recorded once")
	assert.Equal(t, clock.now, res.EndedAt)

	e.Start()
	assert.Equal(t, Finished, e.State())
}

func TestWordsModeScenario(t *testing.T) {
	clock := newFakeClock()
	e := NewEngine(WordsMode(3), []string{"ala", "ma", "kota"}, WithClock(clock.Now))

	e.TypeChar('a')
	assert.Equal(t, InProgress, e.State())
	typeWord(e, "la")
	clock.Advance(2 * time.Second)
	e.NextWord()
	typeWord(e, "ma")
	clock.Advance(2 * time.Second)
	e.NextWord()
	assert.Equal(t, InProgress, e.State())
	typeWord(e, "kota")
	clock.Advance(2 * time.Second)
	e.NextWord()

	assert.Equal(t, Finished, e.State())
	assert.Equal(t, 3, e.Index())
	assert.Nil(t, e.Current())
	assert.Equal(t, 9, e.CorrectChars())
	assert.Equal(t, 0, e.IncorrectChars())
	assert.Equal(t, 9, e.TotalTyped())

	m := e.Metrics()
	assert.Equal(t, 100.0, m.Accuracy)
	assert.InDelta(t, 18.0, m.WPM, 1e-9)
	assert.InDelta(t, 90.0, m.CPM, 1e-9)
}

func TestTimeModeAutoFinishOnPoll(t *testing.T) {
	clock := newFakeClock()
	e := NewEngine(DefaultTimeMode(), []string{"ala", "ma", "kota"}, WithClock(clock.Now))

	e.Start()
	typeWord(e, "ala")
	e.NextWord()
	assert.False(t, e.ShouldAutoFinish())

	clock.Advance(31 * time.Second)
	require.True(t, e.ShouldAutoFinish())
	e.Finish()
	assert.Equal(t, Finished, e.State())
	end := clock.now
	metrics := e.Metrics()

	clock.Advance(10 * time.Second)
	assert.Equal(t, metrics, e.Metrics())
	assert.InDelta(t, 31.0, e.ElapsedSeconds(), 1e-9)
	res, ok := e.ClaimResult()
	require.True(t, ok)
	assert.Equal(t, end, res.EndedAt)
	assert.Equal(t, 31*time.Second, res.Duration())
}

func TestTick(t *testing.T) {
	clock := newFakeClock()
	e := NewEngine(TimeMode(5), []string{"a"}, WithClock(clock.Now))

	assert.False(t, e.Tick(), "not started")
	e.TypeChar('a')
	clock.Advance(4 * time.Second)
	assert.False(t, e.Tick())
	assert.Equal(t, time.Second, e.Remaining())

	clock.Advance(2 * time.Second)
	assert.True(t, e.Tick())
	assert.Equal(t, Finished, e.State())
	assert.Equal(t, time.Duration(0), e.Remaining())
	assert.False(t, e.Tick())
}

func TestTimeModeExhaustedSequenceKeepsRunning(t *testing.T) {
	clock := newFakeClock()
	e := NewEngine(DefaultTimeMode(), []string{"a"}, WithClock(clock.Now))
	e.TypeChar('a')
	e.NextWord()
	assert.Equal(t, InProgress, e.State())
	assert.Nil(t, e.Current())

	e.TypeChar('b')
	e.Backspace()
	e.NextWord()
	assert.Equal(t, 1, e.TotalTyped())
	assert.Equal(t, 1, e.CorrectChars())

	clock.Advance(30 * time.Second)
	assert.True(t, e.Tick())
}

func TestInputOutsideInProgress(t *testing.T) {
	e := NewEngine(WordsMode(1), []string{"ab", "cd"})

	e.Backspace()
	e.NextWord()
	assert.Equal(t, NotStarted, e.State())
	assert.Equal(t, 0, e.Index())

	e.TypeChar('a')
	e.NextWord()
	require.Equal(t, Finished, e.State())

	e.TypeChar('c')
	e.Backspace()
	e.NextWord()
	assert.Equal(t, Finished, e.State(), "finished runs are not restarted by typing")
	assert.Equal(t, 1, e.Index())
	assert.Equal(t, 1, e.TotalTyped())
}

func TestBackspaceKeepsTotalTyped(t *testing.T) {
	e := NewEngine(WordsMode(2), []string{"kot", "pies"})
	typeWord(e, "kx")
	e.Backspace()
	e.TypeChar('o')
	e.TypeChar('t')
	e.TypeChar('!') // dropped, word is full

	assert.Equal(t, 4, e.TotalTyped())
	assert.Equal(t, 3, e.Current().CorrectCount())
	assert.Equal(t, 0, e.CorrectChars(), "open word is not folded in yet")
}

func TestMetricsOnlyCountCompletedWords(t *testing.T) {
	clock := newFakeClock()
	e := NewEngine(WordsMode(3), []string{"ala", "ma", "kota"}, WithClock(clock.Now))
	typeWord(e, "alx")
	e.NextWord()
	typeWord(e, "ma")
	clock.Advance(60 * time.Second)

	m := e.Metrics()
	assert.InDelta(t, 66.666, m.Accuracy, 0.01)
	assert.InDelta(t, 2.0, m.CPM, 1e-9)
	assert.True(t, e.WordHadErrors(0))
	assert.False(t, e.WordHadErrors(1), "open word has no flag yet")

	e.NextWord()
	assert.False(t, e.WordHadErrors(1))
	assert.Equal(t, 4, e.CorrectChars())
	assert.Equal(t, 1, e.IncorrectChars())
}

func TestIncompleteWordCountsTypedPositionsOnly(t *testing.T) {
	e := NewEngine(WordsMode(2), []string{"kota", "ma"})
	typeWord(e, "ko")
	e.NextWord()
	assert.Equal(t, 2, e.CorrectChars())
	assert.Equal(t, 0, e.IncorrectChars())
	assert.False(t, e.WordHadErrors(0))
}

func TestReset(t *testing.T) {
	clock := newFakeClock()
	words := []string{"ala", "ma", "kota"}
	e := NewEngine(WordsMode(3), words, WithClock(clock.Now))
	typeWord(e, "alx")
	e.NextWord()
	typeWord(e, "ma")
	e.NextWord()
	typeWord(e, "kota")
	e.NextWord()
	require.Equal(t, Finished, e.State())
	_, ok := e.ClaimResult()
	require.True(t, ok)

	e.Reset()
	assert.Equal(t, NotStarted, e.State())
	assert.Equal(t, 0, e.Index())
	assert.Equal(t, 0, e.CorrectChars())
	assert.Equal(t, 0, e.IncorrectChars())
	assert.Equal(t, 0, e.TotalTyped())
	_, ok = e.ClaimResult()
	assert.False(t, ok)
	assert.False(t, e.WordHadErrors(0))
	assert.Equal(t, words, e.Words())
	require.NotNil(t, e.Current())
	assert.Equal(t, "ala", e.Current().Target())
	assert.Equal(t, 0, e.Current().Cursor())
	assert.Equal(t, 0.0, e.ElapsedSeconds())

	typeWord(e, "ala")
	e.NextWord()
	typeWord(e, "ma")
	e.NextWord()
	typeWord(e, "kota")
	e.NextWord()
	_, ok = e.ClaimResult()
	assert.True(t, ok, "reset clears the claimed flag")
}

func TestClaimResultOnce(t *testing.T) {
	clock := newFakeClock()
	e := NewEngine(WordsMode(1), []string{"ala"}, WithClock(clock.Now))

	_, ok := e.ClaimResult()
	assert.False(t, ok)

	typeWord(e, "ala")
	clock.Advance(6 * time.Second)
	e.NextWord()

	res, ok := e.ClaimResult()
	require.True(t, ok)
	assert.Equal(t, WordsMode(1), res.Mode)
	assert.Equal(t, 1, res.WordsCompleted)
	assert.Equal(t, 3, res.Correct)
	assert.Equal(t, 6*time.Second, res.Duration())
	assert.InDelta(t, 6.0, res.Metrics.WPM, 1e-9)

	_, ok = e.ClaimResult()
	assert.False(t, ok)
}

func TestEngineCopiesWords(t *testing.T) {
	words := []string{"a", "b"}
	e := NewEngine(WordsMode(2), words)
	words[0] = "z"
	assert.Equal(t, "a", e.Current().Target())
}
