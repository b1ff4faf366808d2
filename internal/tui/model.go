// Package tui provides the Bubble Tea typing interface.
package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"

	"github.com/verte-zerg/termotype/internal/generator"
	"github.com/verte-zerg/termotype/internal/logging"
	"github.com/verte-zerg/termotype/internal/model"
	"github.com/verte-zerg/termotype/internal/profile"
	"github.com/verte-zerg/termotype/internal/typing"
)

const (
	tickInterval = 100 * time.Millisecond
	historyLimit = 50
	maxTextLines = 4
)

type tab int

const (
	tabTest tab = iota
	tabStats
	tabOptions
)

var tabNames = []string{"Test", "Stats", "Options"}

// SessionStore persists finished tests.
type SessionStore interface {
	InsertSession(ctx context.Context, rec model.SessionRecord) (int64, error)
	ListSessions(ctx context.Context, filter model.HistoryFilter) ([]model.SessionRecord, error)
}

// Options configures a Model. Only Pool is required; the rest have defaults.
type Options struct {
	Mode        typing.Mode
	CustomMode  *typing.Mode
	Pool        []string
	Generator   *generator.Generator
	Profile     *profile.Profile
	ProfilePath string
	Store       SessionStore
	Logger      logrus.FieldLogger
	Clock       func() time.Time
}

type tickMsg time.Time

// Model implements the Bubble Tea typing UI.
type Model struct {
	engine      *typing.Engine
	gen         *generator.Generator
	pool        []string
	customMode  *typing.Mode
	profile     *profile.Profile
	profilePath string
	store       SessionStore
	log         logrus.FieldLogger
	now         func() time.Time

	keys    keyMap
	help    help.Model
	history table.Model
	recent  []model.SessionRecord

	activeTab tab
	width     int
	height    int
	status    string

	last        *typing.Result
	lastNewBest bool
}

// NewModel constructs a typing TUI model and generates the first test.
func NewModel(opts Options) *Model {
	m := &Model{
		gen:         opts.Generator,
		pool:        opts.Pool,
		customMode:  opts.CustomMode,
		profile:     opts.Profile,
		profilePath: opts.ProfilePath,
		store:       opts.Store,
		log:         opts.Logger,
		now:         opts.Clock,
		keys:        newKeyMap(),
		help:        help.New(),
		history:     newHistoryTable(),
	}
	if m.gen == nil {
		m.gen = generator.New(generator.Options{})
	}
	if m.profile == nil {
		m.profile = &profile.Profile{}
	}
	if m.log == nil {
		m.log = logging.Discard()
	}
	if m.now == nil {
		m.now = time.Now
	}
	m.keys.CustomMode.SetEnabled(m.customMode != nil)

	mode := opts.Mode
	if mode.Value <= 0 {
		mode = typing.DefaultTimeMode()
	}
	m.newTest(mode)
	m.refreshHistory()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.resizeHistory()
		return m, nil
	case tickMsg:
		if m.engine.Tick() {
			m.collectResult()
		}
		return m, tick()
	case tea.KeyMsg:
		return m.handleKey(msg)
	default:
		return m, nil
	}
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.NextTab):
		m.setTab((m.activeTab + 1) % tab(len(tabNames)))
		return m, nil
	case key.Matches(msg, m.keys.PrevTab):
		m.setTab((m.activeTab + tab(len(tabNames)) - 1) % tab(len(tabNames)))
		return m, nil
	}

	if m.activeTab == tabTest {
		m.handleTestKey(msg)
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.QuitOther):
		return m, tea.Quit
	case key.Matches(msg, m.keys.TestTab):
		m.setTab(tabTest)
	case key.Matches(msg, m.keys.StatsTab):
		m.setTab(tabStats)
	case key.Matches(msg, m.keys.OptionsTab):
		m.setTab(tabOptions)
	case m.activeTab == tabOptions:
		m.handleOptionsKey(msg)
	case m.activeTab == tabStats:
		var cmd tea.Cmd
		m.history, cmd = m.history.Update(msg)
		return m, cmd
	}
	return m, nil
}

// handleTestKey feeds input to the engine. Every printable rune is input in
// this tab, including the digits and letters used as shortcuts elsewhere.
// A run whose time ran out between ticks is finished before the key applies.
func (m *Model) handleTestKey(msg tea.KeyMsg) {
	if key.Matches(msg, m.keys.Reset) {
		m.engine.Reset()
		m.last = nil
		m.lastNewBest = false
		m.status = ""
		return
	}
	if m.engine.Tick() {
		m.collectResult()
		return
	}
	switch {
	case key.Matches(msg, m.keys.NextWord):
		m.engine.NextWord()
	case key.Matches(msg, m.keys.Backspace):
		m.engine.Backspace()
	case msg.Type == tea.KeyRunes && !msg.Alt:
		for _, r := range msg.Runes {
			if r == ' ' {
				m.engine.NextWord()
			} else {
				m.engine.TypeChar(r)
			}
			m.engine.Tick()
			if m.engine.State() == typing.Finished {
				break
			}
		}
	}
	m.collectResult()
}

func (m *Model) handleOptionsKey(msg tea.KeyMsg) {
	switch {
	case key.Matches(msg, m.keys.TimeMode):
		m.setMode(typing.DefaultTimeMode())
	case key.Matches(msg, m.keys.WordsMode):
		m.setMode(typing.DefaultWordsMode())
	case key.Matches(msg, m.keys.CustomMode):
		if m.customMode != nil {
			m.setMode(*m.customMode)
		}
	}
}

func (m *Model) setTab(t tab) {
	m.activeTab = t
	if t == tabStats {
		m.refreshHistory()
		m.history.Focus()
		return
	}
	m.history.Blur()
}

func (m *Model) setMode(mode typing.Mode) {
	m.newTest(mode)
	m.status = ""
}

// newTest generates a fresh word sequence sized for mode and replaces the engine.
func (m *Model) newTest(mode typing.Mode) {
	count := generator.TimeModePoolSize
	if mode.Kind == typing.ModeWords {
		count = mode.Value
	}
	words := m.gen.Generate(m.pool, count)
	m.engine = typing.NewEngine(mode, words, typing.WithClock(m.now))
	m.last = nil
	m.lastNewBest = false
	m.log.WithFields(logrus.Fields{"mode": mode.String(), "words": len(words)}).Debug("new test")
}

// collectResult claims a finished run once, offers it to the profile and
// appends it to history.
func (m *Model) collectResult() {
	res, ok := m.engine.ClaimResult()
	if !ok {
		return
	}
	m.last = &res
	m.lastNewBest = m.profile.UpdateScore(res.Mode, profile.NewBestScore(res.Metrics, res.EndedAt))

	logger := m.log.WithFields(logrus.Fields{
		"mode":     res.Mode.String(),
		"wpm":      fmt.Sprintf("%.1f", res.Metrics.WPM),
		"accuracy": fmt.Sprintf("%.1f", res.Metrics.Accuracy),
		"new_best": m.lastNewBest,
	})
	logger.Info("test finished")

	if m.lastNewBest && m.profilePath != "" {
		if err := profile.Save(m.profilePath, m.profile); err != nil {
			logger.WithError(err).Error("failed to save profile")
			m.status = fmt.Sprintf("failed to save profile: %v", err)
		}
	}
	if m.store == nil {
		return
	}
	rec := sessionRecord(res, m.lastNewBest)
	id, err := m.store.InsertSession(context.Background(), rec)
	if err != nil {
		logger.WithError(err).Error("failed to save session")
		m.status = fmt.Sprintf("failed to save session: %v", err)
		return
	}
	rec.ID = id
	m.recent = append(m.recent, rec)
	if len(m.recent) > historyLimit {
		m.recent = m.recent[len(m.recent)-historyLimit:]
	}
	m.syncHistoryRows()
}

func (m *Model) refreshHistory() {
	if m.store == nil {
		return
	}
	recs, err := m.store.ListSessions(context.Background(), model.HistoryFilter{Last: historyLimit})
	if err != nil {
		m.log.WithError(err).Error("failed to load sessions")
		m.status = fmt.Sprintf("failed to load sessions: %v", err)
		return
	}
	m.recent = recs
	m.syncHistoryRows()
}

func sessionRecord(res typing.Result, newBest bool) model.SessionRecord {
	return model.SessionRecord{
		StartedAt:      res.StartedAt,
		EndedAt:        res.EndedAt,
		ModeKind:       res.Mode.KindName(),
		ModeValue:      res.Mode.Value,
		WordsCompleted: res.WordsCompleted,
		Correct:        res.Correct,
		Incorrect:      res.Incorrect,
		TotalTyped:     res.TotalTyped,
		DurationMs:     res.Duration().Milliseconds(),
		WPM:            res.Metrics.WPM,
		CPM:            res.Metrics.CPM,
		Accuracy:       res.Metrics.Accuracy,
		NewBest:        newBest,
	}
}

// View implements tea.Model.
func (m *Model) View() string {
	header := m.renderTabs()
	var body string
	switch m.activeTab {
	case tabStats:
		body = m.viewStats()
	case tabOptions:
		body = m.viewOptions()
	default:
		body = m.viewTest()
	}
	footer := m.renderFooter()
	if m.width == 0 || m.height == 0 {
		return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
	}
	bodyHeight := max(m.height-lipgloss.Height(header)-lipgloss.Height(footer), 1)
	body = lipgloss.Place(m.width, bodyHeight, lipgloss.Center, lipgloss.Center, body)
	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}

func (m *Model) renderTabs() string {
	parts := make([]string, 0, len(tabNames))
	for i, name := range tabNames {
		label := fmt.Sprintf("%d %s", i+1, name)
		if tab(i) == m.activeTab {
			parts = append(parts, activeNavStyle.Render(label))
		} else {
			parts = append(parts, inactiveNavStyle.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *Model) renderFooter() string {
	line := m.help.ShortHelpView(m.keys.helpFor(m.activeTab))
	if m.status != "" {
		line += "\n" + statusStyle.Render(m.status)
	}
	return line
}

func (m *Model) contentWidth() int {
	if m.width == 0 {
		return 0
	}
	return max(int(float64(m.width)*0.70), 1)
}
