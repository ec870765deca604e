// Package main provides the CLI entrypoint for vaani.
package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"vaani/internal/config"
	"vaani/internal/feed"
	"vaani/internal/history"
	"vaani/internal/historyui"
	"vaani/internal/model"
	"vaani/internal/notify"
	"vaani/internal/store"
	"vaani/internal/story"
	"vaani/internal/timer"
	"vaani/internal/tui"
)

const defaultDailyGoal = 6

var defaultSounds = []string{"आ", "ई", "ऊ", "ए", "ओ"}

var (
	practiceUser     string
	practiceSounds   []string
	practiceGoal     int
	practiceStoryDir string

	storyID string

	historyPlain bool
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "vaani",
		Short:         "TUI speech-therapy practice trainer",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runSoundsCmd,
	}

	rootCmd.PersistentFlags().StringVar(&practiceUser, "user", "", "user id for saved sessions")
	rootCmd.PersistentFlags().StringSliceVar(&practiceSounds, "sounds", defaultSounds, "sound symbols for drills")
	rootCmd.PersistentFlags().IntVar(&practiceGoal, "daily-goal", defaultDailyGoal, "sessions per day goal")
	rootCmd.PersistentFlags().StringVar(&practiceStoryDir, "story-dir", "", "directory with story texts")

	rootCmd.AddCommand(newAlphabetCmd())
	rootCmd.AddCommand(newStoryCmd())
	rootCmd.AddCommand(newHistoryCmd())
	rootCmd.AddCommand(newStoriesCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

func loadPracticeConfig(cmd *cobra.Command) (model.Config, error) {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return model.Config{}, fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "user", &practiceUser, fileCfg.Practice.User)
	applyIntConfig(cmd, "daily-goal", &practiceGoal, fileCfg.Practice.DailyGoal)
	applyStringConfig(cmd, "story-dir", &practiceStoryDir, fileCfg.Practice.StoryDir)
	if !cmd.Flags().Changed("sounds") && len(fileCfg.Practice.Sounds) > 0 {
		practiceSounds = fileCfg.Practice.Sounds
	}

	cfg := model.Config{
		User:      practiceUser,
		Sounds:    practiceSounds,
		DailyGoal: practiceGoal,
		StoryDir:  practiceStoryDir,
	}
	if cfg.StoryDir == "" {
		cfg.StoryDir = config.DefaultStoryDir()
	}
	if err := validateConfig(cfg); err != nil {
		return model.Config{}, err
	}
	if cfg.User == "" {
		logErrln("no user configured; sessions will not be saved (set --user or [practice] user)")
	}
	return cfg, nil
}

func validateConfig(cfg model.Config) error {
	if len(cfg.Sounds) == 0 {
		return fmt.Errorf("--sounds must not be empty")
	}
	for _, s := range cfg.Sounds {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("--sounds must not contain empty symbols")
		}
	}
	if cfg.DailyGoal < 0 {
		return fmt.Errorf("--daily-goal must be >= 0")
	}
	return nil
}

func openFeed() (*feed.Feed, func(), error) {
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open db: %w", err)
	}
	closer := func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}
	return feed.New(st, notify.Stderr{}), closer, nil
}

func runSoundsCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := loadPracticeConfig(cmd)
	if err != nil {
		return err
	}
	f, closer, err := openFeed()
	if err != nil {
		return err
	}
	defer closer()

	runner := timer.NewRunner(timer.NewMachine())
	m := tui.NewModel(tui.ModeSounds, cfg, runner, f, &notify.Buffer{})
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

func newAlphabetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "alphabet",
		Short: "Timed alphabet recitation",
		Args:  cobra.NoArgs,
		RunE:  runAlphabetCmd,
	}
}

func runAlphabetCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := loadPracticeConfig(cmd)
	if err != nil {
		return err
	}
	f, closer, err := openFeed()
	if err != nil {
		return err
	}
	defer closer()

	runner := timer.NewRunner(timer.NewMachine())
	m := tui.NewModel(tui.ModeAlphabet, cfg, runner, f, &notify.Buffer{})
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

func newStoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "story",
		Short: "Timed story reading",
		Args:  cobra.NoArgs,
		RunE:  runStoryCmd,
	}
	cmd.Flags().StringVar(&storyID, "id", "", "story id (file name without .txt)")
	return cmd
}

func runStoryCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := loadPracticeConfig(cmd)
	if err != nil {
		return err
	}
	if storyID == "" {
		return storySelectionError(cfg.StoryDir)
	}
	st, err := story.Find(cfg.StoryDir, storyID)
	if err != nil {
		return err
	}
	f, closer, err := openFeed()
	if err != nil {
		return err
	}
	defer closer()

	runner := timer.NewRunner(timer.NewMachine())
	m := tui.NewStoryModel(cfg, runner, f, &notify.Buffer{}, st)
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

func storySelectionError(dir string) error {
	lines := []string{
		"--id is required",
		fmt.Sprintf("stories are read from: %s", dir),
		"List stories: vaani stories",
	}
	return fmt.Errorf("%s", strings.Join(lines, "\n"))
}

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show practice history",
		Args:  cobra.NoArgs,
		RunE:  runHistoryCmd,
	}
	cmd.Flags().BoolVar(&historyPlain, "plain", false, "print tables instead of the TUI")
	return cmd
}

func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := loadPracticeConfig(cmd)
	if err != nil {
		return err
	}
	f, closer, err := openFeed()
	if err != nil {
		return err
	}
	defer closer()

	if historyPlain || !isatty.IsTerminal(os.Stdout.Fd()) {
		return runHistoryPlain(cmd, cfg, f)
	}

	m := historyui.NewModel(cfg, f)
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run history TUI: %w", err)
	}
	return nil
}

func runHistoryPlain(cmd *cobra.Command, cfg model.Config, f *feed.Feed) error {
	var snap model.Snapshot
	cancel := f.SubscribeRecords(cmd.Context(), cfg.User, func(s model.Snapshot) {
		snap = s
	})
	defer cancel()

	out := cmd.OutOrStdout()
	now := time.Now()
	loc := now.Location()
	width := terminalWidth()
	if err := history.RenderSummary(out, snap, now, loc, cfg.DailyGoal); err != nil {
		return fmt.Errorf("failed to render summary: %w", err)
	}
	if err := history.RenderRounds(out, snap.Sounds, loc, width); err != nil {
		return fmt.Errorf("failed to render rounds: %w", err)
	}
	if _, err := fmt.Fprintln(out, ""); err != nil {
		return err
	}
	if err := history.RenderRecords(out, snap, loc, width); err != nil {
		return fmt.Errorf("failed to render records: %w", err)
	}
	return nil
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80
	}
	return width
}

func newStoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stories",
		Short: "List installed stories",
		Args:  cobra.NoArgs,
		RunE:  runStoriesCmd,
	}
}

func runStoriesCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := loadPracticeConfig(cmd)
	if err != nil {
		return err
	}
	stories, err := story.LoadDir(cfg.StoryDir)
	if err != nil {
		if os.IsNotExist(err) {
			logErrf("No stories found. Add .txt files under: %s\n", cfg.StoryDir)
			return fmt.Errorf("story directory does not exist")
		}
		return fmt.Errorf("failed to read story directory: %w", err)
	}
	if len(stories) == 0 {
		logErrf("No stories found. Add .txt files under: %s\n", cfg.StoryDir)
		return fmt.Errorf("no stories found")
	}
	for _, st := range stories {
		line := st.ID
		if st.Title != st.ID {
			line += "  " + st.Title
		}
		if st.TargetSeconds > 0 {
			line += fmt.Sprintf("  (target %ds)", st.TargetSeconds)
		}
		if _, err := fmt.Fprintln(cmd.OutOrStdout(), line); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
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
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
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

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# vaani configuration
# Uncomment a value to enable it. CLI flags override config values.

[practice]
# user = "asha"                        # User id for saved sessions
# sounds = ["आ", "ई", "ऊ", "ए", "ओ"]   # Sound symbols for drills
# daily-goal = %d                      # Sessions per day goal
# story-dir = ""                       # Directory with story texts (default %q)
`,
		defaultDailyGoal,
		config.DefaultStoryDir(),
	)
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

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}

func logErrln(args ...any) {
	if _, err := fmt.Fprintln(os.Stderr, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
