// Package main provides the CLI entrypoint for termotype.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/verte-zerg/termotype/internal/config"
	"github.com/verte-zerg/termotype/internal/generator"
	"github.com/verte-zerg/termotype/internal/logging"
	"github.com/verte-zerg/termotype/internal/model"
	"github.com/verte-zerg/termotype/internal/profile"
	"github.com/verte-zerg/termotype/internal/stats"
	"github.com/verte-zerg/termotype/internal/store"
	"github.com/verte-zerg/termotype/internal/tui"
	"github.com/verte-zerg/termotype/internal/typing"
	"github.com/verte-zerg/termotype/internal/wordlist"
)

const (
	defaultMode          = "time"
	defaultCaps          = 0.0
	defaultPunct         = 0.0
	defaultHistoryWindow = 1
	terminalWidthBackup  = 80
	sparklineMargin      = 12
)

const defaultPunctSet = ".,?!;:"

var (
	testMode      string
	testSeconds   int
	testWords     int
	testWordsFile string
	testCaps      float64
	testPunct     float64
	testPunctSet  string
	logLevel      string

	historyMode   string
	historyValue  int
	historySince  string
	historyLast   int
	historyWindow int
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "termotype",
		Short:         "Terminal typing test",
		SilenceUsage:  true,
		SilenceErrors: false,
		Args:          cobra.NoArgs,
		RunE:          runTestCmd,
	}

	rootCmd.Flags().StringVar(&testMode, "mode", defaultMode, "test mode: time or words")
	rootCmd.Flags().IntVar(&testSeconds, "time", typing.DefaultSeconds, "seconds for time mode")
	rootCmd.Flags().IntVar(&testWords, "words", typing.DefaultWords, "word count for words mode")
	rootCmd.Flags().StringVar(&testWordsFile, "words-file", "", "word list (JSON array or one word per line)")
	rootCmd.Flags().Float64Var(&testCaps, "caps", defaultCaps, "probability of capitalized first letter (0-1)")
	rootCmd.Flags().Float64Var(&testPunct, "punct", defaultPunct, "punctuation probability per word (0-1)")
	rootCmd.Flags().StringVar(&testPunctSet, "punct-set", defaultPunctSet, "punctuation set")
	rootCmd.Flags().StringVar(&logLevel, "log-level", logging.DefaultLevel, "log level (debug, info, warn, error)")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newBestCmd())
	rootCmd.AddCommand(newHistoryCmd())

	return rootCmd
}

// resolveConfig merges the config file into flags the user did not set.
func resolveConfig(cmd *cobra.Command, fileCfg config.FileConfig) model.Config {
	applyStringConfig(cmd, "mode", &testMode, fileCfg.Test.Mode)
	applyIntConfig(cmd, "time", &testSeconds, fileCfg.Test.Seconds)
	applyIntConfig(cmd, "words", &testWords, fileCfg.Test.Words)
	applyStringConfig(cmd, "words-file", &testWordsFile, fileCfg.Test.WordsFile)
	applyFloatConfig(cmd, "caps", &testCaps, fileCfg.Test.CapsPct)
	applyFloatConfig(cmd, "punct", &testPunct, fileCfg.Test.PunctPct)
	applyStringConfig(cmd, "punct-set", &testPunctSet, fileCfg.Test.PunctSet)
	applyStringConfig(cmd, "log-level", &logLevel, fileCfg.Log.Level)

	return model.Config{
		Mode:      testMode,
		Seconds:   testSeconds,
		Words:     testWords,
		WordsFile: testWordsFile,
		CapsPct:   testCaps,
		PunctPct:  testPunct,
		PunctSet:  testPunctSet,
		LogLevel:  logLevel,
	}
}

func runTestCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	cfg := resolveConfig(cmd, fileCfg)
	if err := validateConfig(cfg); err != nil {
		return err
	}
	mode, err := modeFromConfig(cfg)
	if err != nil {
		return err
	}
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("termotype needs an interactive terminal")
	}

	logger, closeLog, err := logging.New(cfg.LogLevel, config.DefaultLogPath())
	if err != nil {
		return fmt.Errorf("failed to set up logging: %w", err)
	}
	defer func() {
		if cerr := closeLog(); cerr != nil {
			logErrf("failed to close log: %v\n", cerr)
		}
	}()

	wordsPath := cfg.WordsFile
	if wordsPath == "" {
		wordsPath = config.DefaultWordsPath()
	}
	pool, err := wordlist.LoadOrFallback(wordsPath)
	if err != nil {
		entry := logger.WithError(err).WithField("path", wordsPath)
		if cfg.WordsFile != "" {
			entry.Warn("using built-in word list")
		} else {
			entry.Debug("using built-in word list")
		}
	}

	profilePath := config.DefaultProfilePath()
	prof, err := profile.Load(profilePath)
	if err != nil {
		return fmt.Errorf("failed to load profile: %w", err)
	}

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer closeStore(st, logger)

	var custom *typing.Mode
	if !mode.Trackable() {
		custom = &mode
	}
	gen := generator.New(generator.Options{
		CapsPct:  cfg.CapsPct,
		PunctPct: cfg.PunctPct,
		PunctSet: []rune(cfg.PunctSet),
	})
	logger.WithFields(logrus.Fields{"mode": mode.String(), "pool": len(pool)}).Info("starting")

	m := tui.NewModel(tui.Options{
		Mode:        mode,
		CustomMode:  custom,
		Pool:        pool,
		Generator:   gen,
		Profile:     prof,
		ProfilePath: profilePath,
		Store:       st,
		Logger:      logger,
	})
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

func modeFromConfig(cfg model.Config) (typing.Mode, error) {
	mode, err := typing.ParseMode(cfg.Mode, 1)
	if err != nil {
		return typing.Mode{}, fmt.Errorf("invalid --mode: %w", err)
	}
	mode.Value = cfg.Seconds
	if mode.Kind == typing.ModeWords {
		mode.Value = cfg.Words
	}
	return mode, nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := ensureConfigFile(path); err != nil {
		return err
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

// ensureConfigFile writes the commented template unless a config exists.
func ensureConfigFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to stat config: %w", err)
	}
	if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

func newBestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "best",
		Short: "Show best scores",
		Args:  cobra.NoArgs,
		RunE:  runBestCmd,
	}
}

func runBestCmd(cmd *cobra.Command, _ []string) error {
	prof, err := profile.Load(config.DefaultProfilePath())
	if err != nil {
		return fmt.Errorf("failed to load profile: %w", err)
	}
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()
	bests, err := st.BestByMode(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to load bests: %w", err)
	}
	return renderBest(cmd.OutOrStdout(), prof, bests)
}

func renderBest(w io.Writer, prof *profile.Profile, bests []model.ModeBest) error {
	tracked := []typing.Mode{typing.DefaultTimeMode(), typing.DefaultWordsMode()}
	if _, err := fmt.Fprintln(w, "Personal bests"); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	for _, mode := range tracked {
		line := fmt.Sprintf("  %-9s -", mode)
		if b := prof.Best(mode); b != nil {
			line = fmt.Sprintf("  %-9s %.1f WPM  %.1f CPM  %.1f%%  %s",
				mode, b.WPM, b.CPM, b.Accuracy, b.Timestamp.Local().Format(time.DateOnly))
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	if _, err := fmt.Fprintln(w, "\nHistory"); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return stats.RenderBests(w, bests)
}

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show finished tests",
		Args:  cobra.NoArgs,
		RunE:  runHistoryCmd,
	}
	cmd.Flags().StringVar(&historyMode, "mode", "", "mode filter: time or words")
	cmd.Flags().IntVar(&historyValue, "value", 0, "seconds or word count filter (with --mode)")
	cmd.Flags().StringVar(&historySince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&historyLast, "last", 0, "limit to last N sessions")
	cmd.Flags().IntVar(&historyWindow, "window", defaultHistoryWindow, "moving average window for the WPM trend")
	return cmd
}

func historyFilter() (model.HistoryFilter, error) {
	filter := model.HistoryFilter{ModeValue: historyValue, Last: historyLast}
	if historyLast < 0 {
		return filter, fmt.Errorf("--last must be >= 0")
	}
	if historyValue < 0 {
		return filter, fmt.Errorf("--value must be >= 0")
	}
	if historyWindow < 1 {
		return filter, fmt.Errorf("--window must be >= 1")
	}
	if historyMode != "" {
		mode, err := typing.ParseMode(historyMode, 1)
		if err != nil {
			return filter, fmt.Errorf("invalid --mode: %w", err)
		}
		filter.ModeKind = mode.KindName()
	}
	if historySince != "" {
		parsed, err := time.ParseInLocation(time.DateOnly, historySince, time.Local)
		if err != nil {
			return filter, fmt.Errorf("invalid --since value: %w", err)
		}
		filter.Since = &parsed
	}
	return filter, nil
}

func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	filter, err := historyFilter()
	if err != nil {
		return err
	}
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	records, err := st.ListSessions(ctx, filter)
	if err != nil {
		return fmt.Errorf("failed to load sessions: %w", err)
	}
	out := cmd.OutOrStdout()
	if err := stats.RenderSummary(out, records); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	maxPoints := max(terminalWidth()-sparklineMargin, 1)
	if err := stats.RenderHistory(out, records, historyWindow, maxPoints); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return terminalWidthBackup
	}
	return width
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyFloatConfig(cmd *cobra.Command, name string, target, value *float64) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# termotype configuration
# Uncomment a value to enable it. CLI flags override config values.

[test]
# mode = %q          # time or words
# time = %d              # Seconds for time mode
# words = %d             # Word count for words mode
# words-file = ""        # JSON array or one word per line
# caps = %.2f            # Probability of capitalized first letter (0-1)
# punct = %.2f           # Punctuation probability per word (0-1)
# punct-set = %q     # Punctuation set

[log]
# level = %q         # debug, info, warn or error
`,
		defaultMode,
		typing.DefaultSeconds,
		typing.DefaultWords,
		defaultCaps,
		defaultPunct,
		defaultPunctSet,
		logging.DefaultLevel,
	)
}

func validateConfig(cfg model.Config) error {
	if cfg.Seconds <= 0 {
		return fmt.Errorf("--time must be > 0")
	}
	if cfg.Words <= 0 {
		return fmt.Errorf("--words must be > 0")
	}
	if cfg.CapsPct < 0 || cfg.CapsPct > 1 {
		return fmt.Errorf("--caps must be between 0 and 1")
	}
	if cfg.PunctPct < 0 || cfg.PunctPct > 1 {
		return fmt.Errorf("--punct must be between 0 and 1")
	}
	if cfg.PunctPct > 0 && cfg.PunctSet == "" {
		return fmt.Errorf("--punct-set must not be empty")
	}
	return nil
}

// closeStore closes the session database, logging a failure rather than
// overriding the command's result.
func closeStore(st io.Closer, logger logrus.FieldLogger) {
	if err := st.Close(); err != nil {
		logger.WithError(err).Error("failed to close db")
	}
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
