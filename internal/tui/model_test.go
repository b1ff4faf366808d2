package tui

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/termotype/internal/generator"
	"github.com/verte-zerg/termotype/internal/model"
	"github.com/verte-zerg/termotype/internal/profile"
	"github.com/verte-zerg/termotype/internal/typing"
)

type fakeStore struct {
	inserted []model.SessionRecord
	history  []model.SessionRecord
	err      error
}

func (s *fakeStore) InsertSession(_ context.Context, rec model.SessionRecord) (int64, error) {
	if s.err != nil {
		return 0, s.err
	}
	s.inserted = append(s.inserted, rec)
	return int64(len(s.inserted)), nil
}

func (s *fakeStore) ListSessions(_ context.Context, _ model.HistoryFilter) ([]model.SessionRecord, error) {
	if s.err != nil {
		return nil, s.err
	}
	return append(s.history, s.inserted...), nil
}

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

type harness struct {
	m           *Model
	store       *fakeStore
	clock       *fakeClock
	profilePath string
}

func newHarness(t *testing.T, mode typing.Mode) *harness {
	t.Helper()
	h := &harness{
		store:       &fakeStore{},
		clock:       &fakeClock{now: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)},
		profilePath: filepath.Join(t.TempDir(), "profile.toml"),
	}
	custom := typing.TimeMode(45)
	h.m = NewModel(Options{
		Mode:        mode,
		CustomMode:  &custom,
		Pool:        []string{"ala"},
		Generator:   generator.NewWithSeed(1, generator.Options{}),
		ProfilePath: h.profilePath,
		Store:       h.store,
		Clock:       h.clock.Now,
	})
	return h
}

func (h *harness) send(msgs ...tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	for _, msg := range msgs {
		_, cmd = h.m.Update(msg)
	}
	return cmd
}

func (h *harness) typeText(s string) {
	for _, r := range s {
		if r == ' ' {
			h.send(tea.KeyMsg{Type: tea.KeySpace})
			continue
		}
		h.send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

func (h *harness) typeWords(n int) {
	for i := 0; i < n; i++ {
		h.typeText("ala")
		h.clock.Advance(time.Second)
		h.send(tea.KeyMsg{Type: tea.KeySpace})
	}
}

func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

func TestWordsModeFinishSavesOnce(t *testing.T) {
	h := newHarness(t, typing.DefaultWordsMode())
	h.typeWords(30)

	require.Equal(t, typing.Finished, h.m.engine.State())
	require.Len(t, h.store.inserted, 1)
	rec := h.store.inserted[0]
	assert.Equal(t, "words", rec.ModeKind)
	assert.Equal(t, 30, rec.ModeValue)
	assert.Equal(t, 30, rec.WordsCompleted)
	assert.Equal(t, 90, rec.Correct)
	assert.Equal(t, int64(30000), rec.DurationMs)
	assert.InDelta(t, 36.0, rec.WPM, 1e-9)
	assert.True(t, rec.NewBest)
	assert.True(t, h.m.lastNewBest)

	stored, err := profile.Load(h.profilePath)
	require.NoError(t, err)
	require.NotNil(t, stored.Best30Words)
	assert.InDelta(t, 36.0, stored.Best30Words.WPM, 1e-9)
	assert.Nil(t, stored.Best30Seconds)

	h.send(tickMsg(h.clock.now), tickMsg(h.clock.now))
	h.typeText("ala ")
	assert.Len(t, h.store.inserted, 1, "result is handed off once")
	assert.Len(t, h.m.recent, 1)
}

func TestTimeModeFinishesOnTick(t *testing.T) {
	h := newHarness(t, typing.DefaultTimeMode())
	h.typeText("ala ")
	require.Equal(t, typing.InProgress, h.m.engine.State())

	h.clock.Advance(29 * time.Second)
	cmd := h.send(tickMsg(h.clock.now))
	assert.NotNil(t, cmd, "tick reschedules itself")
	assert.Equal(t, typing.InProgress, h.m.engine.State())

	h.clock.Advance(2 * time.Second)
	h.send(tickMsg(h.clock.now))
	require.Equal(t, typing.Finished, h.m.engine.State())
	require.Len(t, h.store.inserted, 1)
	assert.Equal(t, "time", h.store.inserted[0].ModeKind)
	assert.Equal(t, int64(31000), h.store.inserted[0].DurationMs)
	require.NotNil(t, h.m.profile.Best30Seconds)
	assert.Contains(t, h.m.View(), "New best for 30s!")
}

func TestTimeModeIgnoresKeysAfterExpiry(t *testing.T) {
	h := newHarness(t, typing.DefaultTimeMode())
	h.typeText("a")
	h.clock.Advance(31 * time.Second)

	h.typeText("l")
	require.Equal(t, typing.Finished, h.m.engine.State(), "late key finishes the run")
	assert.Equal(t, 1, h.m.engine.Current().Cursor(), "late key is not applied")

	h.typeText("a ")
	require.Len(t, h.store.inserted, 1)
	rec := h.store.inserted[0]
	assert.Equal(t, 0, rec.Correct)
	assert.Equal(t, 0, rec.WordsCompleted)
	assert.Equal(t, 1, rec.TotalTyped)
	assert.Equal(t, int64(31000), rec.DurationMs)
}

func TestResetAllowsAnotherHandOff(t *testing.T) {
	h := newHarness(t, typing.WordsMode(2))
	h.typeWords(2)
	require.Len(t, h.store.inserted, 1)
	assert.False(t, h.store.inserted[0].NewBest, "untracked modes never set a best")

	words := h.m.engine.Words()
	h.send(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, typing.NotStarted, h.m.engine.State())
	assert.Equal(t, words, h.m.engine.Words(), "restart keeps the sequence")
	assert.Nil(t, h.m.last)

	h.typeWords(2)
	assert.Len(t, h.store.inserted, 2)
}

func TestStoreFailureIsReported(t *testing.T) {
	h := newHarness(t, typing.WordsMode(1))
	h.store.err = errors.New("disk full")
	h.typeWords(1)

	assert.Equal(t, typing.Finished, h.m.engine.State())
	assert.Contains(t, h.m.status, "disk full")
	assert.Contains(t, h.m.renderFooter(), "disk full")
}

func TestTypingShortcutsInTestTab(t *testing.T) {
	h := newHarness(t, typing.WordsMode(3))

	cmd := h.send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	assert.False(t, isQuit(cmd))
	assert.Equal(t, tabTest, h.m.activeTab)
	assert.Equal(t, typing.InProgress, h.m.engine.State())

	h.send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("2")})
	assert.Equal(t, tabTest, h.m.activeTab, "digits are input in the test tab")

	h.send(tea.KeyMsg{Type: tea.KeyBackspace}, tea.KeyMsg{Type: tea.KeyBackspace})
	assert.Equal(t, 0, h.m.engine.Current().Cursor())
}

func TestTabNavigation(t *testing.T) {
	h := newHarness(t, typing.DefaultTimeMode())

	h.send(tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, tabStats, h.m.activeTab)
	h.send(tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, tabOptions, h.m.activeTab)
	h.send(tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, tabTest, h.m.activeTab)
	h.send(tea.KeyMsg{Type: tea.KeyShiftTab})
	assert.Equal(t, tabOptions, h.m.activeTab)

	h.send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("2")})
	assert.Equal(t, tabStats, h.m.activeTab)
	h.send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("1")})
	assert.Equal(t, tabTest, h.m.activeTab)
}

func TestQuitKeys(t *testing.T) {
	h := newHarness(t, typing.DefaultTimeMode())
	assert.True(t, isQuit(h.send(tea.KeyMsg{Type: tea.KeyCtrlC})))
	assert.True(t, isQuit(h.send(tea.KeyMsg{Type: tea.KeyEsc})))

	h.send(tea.KeyMsg{Type: tea.KeyTab})
	assert.True(t, isQuit(h.send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})))
}

func TestOptionsChangeMode(t *testing.T) {
	h := newHarness(t, typing.DefaultTimeMode())
	assert.Len(t, h.m.engine.Words(), generator.TimeModePoolSize)

	h.send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("3")})
	require.Equal(t, tabTest, h.m.activeTab, "3 is input in the test tab")
	h.send(tea.KeyMsg{Type: tea.KeyShiftTab})
	require.Equal(t, tabOptions, h.m.activeTab)

	h.send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("w")})
	assert.Equal(t, typing.DefaultWordsMode(), h.m.engine.Mode())
	assert.Len(t, h.m.engine.Words(), 30)
	assert.Equal(t, typing.NotStarted, h.m.engine.State())

	h.send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("c")})
	assert.Equal(t, typing.TimeMode(45), h.m.engine.Mode())
	assert.Contains(t, h.m.View(), "[c] 45s")

	h.send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("t")})
	assert.Equal(t, typing.DefaultTimeMode(), h.m.engine.Mode())
}

func TestStatsTabShowsHistory(t *testing.T) {
	h := newHarness(t, typing.WordsMode(1))
	h.store.history = []model.SessionRecord{{
		EndedAt:   time.Date(2024, 4, 30, 9, 0, 0, 0, time.UTC),
		ModeKind:  "time",
		ModeValue: 30,
		WPM:       51.5,
		Accuracy:  98,
	}}
	h.typeWords(1)

	h.send(tea.KeyMsg{Type: tea.KeyTab})
	require.Equal(t, tabStats, h.m.activeTab)
	require.Len(t, h.m.recent, 2)
	rows := h.m.history.Rows()
	require.Len(t, rows, 2)
	assert.Equal(t, "1 words", rows[0][1], "newest first")
	assert.Equal(t, "30s", rows[1][1])
	assert.Equal(t, "51.5", rows[1][2])
	assert.Contains(t, h.m.View(), "WPM trend")
}

func TestEmptyPool(t *testing.T) {
	m := NewModel(Options{Mode: typing.WordsMode(3)})
	assert.Empty(t, m.engine.Words())
	assert.Contains(t, m.View(), "No words available.")
}
