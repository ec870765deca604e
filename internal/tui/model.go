package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"vaani/internal/feed"
	"vaani/internal/history"
	"vaani/internal/model"
	"vaani/internal/notify"
	"vaani/internal/practice"
	"vaani/internal/story"
	"vaani/internal/timefmt"
	"vaani/internal/timer"
)

// Mode selects which practice surface the model renders.
type Mode int

// Practice surfaces.
const (
	ModeSounds Mode = iota
	ModeAlphabet
	ModeStory
)

type tickMsg time.Time

var (
	titleStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	runningStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#7BC96F"))
	pausedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	mutedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cursorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	bestStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#7BC96F")).Bold(true)
	bookmarkStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	footerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	toastStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
)

// Model implements the Bubble Tea practice UI for all three practice
// kinds. Ticker goroutines owned by the Runner advance the timers;
// the UI polls the machine on a 100 ms refresh.
type Model struct {
	mode   Mode
	cfg    model.Config
	runner *timer.Runner
	feed   *feed.Feed
	toasts *notify.Buffer

	snapshot  model.Snapshot
	bookmarks model.Bookmarks

	unsubRecords   func()
	unsubBookmarks func()

	st story.Story

	cursor int
	width  int
	height int
	toast  string
}

// NewModel constructs the sound-drill or alphabet practice model.
func NewModel(mode Mode, cfg model.Config, runner *timer.Runner, f *feed.Feed, toasts *notify.Buffer) *Model {
	m := &Model{
		mode:      mode,
		cfg:       cfg,
		runner:    runner,
		feed:      f,
		toasts:    toasts,
		bookmarks: model.NewBookmarks(),
	}
	m.subscribe()
	return m
}

// NewStoryModel constructs the story-reading model for one story.
func NewStoryModel(cfg model.Config, runner *timer.Runner, f *feed.Feed, toasts *notify.Buffer, st story.Story) *Model {
	m := NewModel(ModeStory, cfg, runner, f, toasts)
	m.st = st
	return m
}

func (m *Model) subscribe() {
	ctx := context.Background()
	m.unsubRecords = m.feed.SubscribeRecords(ctx, m.cfg.User, func(s model.Snapshot) {
		m.snapshot = s
	})
	m.unsubBookmarks = m.feed.SubscribeBookmarks(ctx, m.cfg.User, func(b model.Bookmarks) {
		m.bookmarks = b
	})
}

func (m *Model) teardown() {
	m.runner.Close()
	if m.unsubRecords != nil {
		m.unsubRecords()
	}
	if m.unsubBookmarks != nil {
		m.unsubBookmarks()
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(timer.TickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return tickCmd()
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tickMsg:
		if events := m.toasts.Drain(); len(events) > 0 {
			m.toast = events[len(events)-1]
		}
		return m, tickCmd()
	case tea.KeyMsg:
		return m.handleKey(msg)
	default:
		return m, nil
	}
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		m.teardown()
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil
	case "down", "j":
		if m.cursor < m.cursorMax() {
			m.cursor++
		}
		return m, nil
	case " ":
		key := m.selectedKey()
		if m.machine().Phase(key) == timer.Running {
			m.runner.Pause(key)
		} else {
			m.runner.Start(key)
		}
		return m, nil
	case "enter":
		if c := m.runner.Stop(m.selectedKey(), true); c != nil {
			m.commit(*c)
		}
		return m, nil
	case "x":
		m.runner.Stop(m.selectedKey(), false)
		return m, nil
	case "l":
		if m.mode == ModeAlphabet {
			m.runner.Lap(m.selectedKey())
		}
		return m, nil
	case "b":
		if m.mode == ModeStory {
			m.feed.ToggleStoryBookmark(context.Background(), m.cfg.User, m.st.ID)
		}
		return m, nil
	case "m":
		if m.mode == ModeStory {
			m.feed.ToggleLineBookmark(context.Background(), m.cfg.User, m.st.ID, m.cursor)
		}
		return m, nil
	default:
		return m, nil
	}
}

func (m *Model) machine() *timer.Machine {
	return m.runner.Machine()
}

func (m *Model) cursorMax() int {
	switch m.mode {
	case ModeSounds:
		return len(m.cfg.Sounds) - 1
	case ModeStory:
		return len(m.st.Lines) - 1
	default:
		return 0
	}
}

func (m *Model) selectedKey() model.Key {
	switch m.mode {
	case ModeSounds:
		if len(m.cfg.Sounds) == 0 {
			return model.SoundKey("")
		}
		return model.SoundKey(m.cfg.Sounds[m.cursor])
	case ModeStory:
		return model.StoryKey(m.st.ID)
	default:
		return model.AlphabetKey()
	}
}

func (m *Model) commit(c timer.Commit) {
	if m.cfg.User == "" {
		m.toast = "no user configured; session not saved"
		return
	}
	target := 0
	if m.mode == ModeStory {
		target = m.st.TargetSeconds
	}
	rec, err := m.feed.Commit(context.Background(), m.cfg.User, c, target)
	if err != nil || rec == nil {
		return
	}
	switch rec.Kind {
	case model.KindSound:
		if rec.IsNewBest {
			m.toast = fmt.Sprintf("new best for %s: %s", rec.Symbol, timefmt.Format(rec.DurationTicks))
		} else {
			m.toast = fmt.Sprintf("recorded %s for %s", timefmt.Format(rec.DurationTicks), rec.Symbol)
		}
	case model.KindAlphabet:
		m.toast = fmt.Sprintf("recorded %s (%s)", timefmt.Format(rec.DurationTicks), rec.QualityLabel)
	case model.KindStory:
		if rec.Stars > 0 {
			m.toast = fmt.Sprintf("recorded %s %s", timefmt.Format(rec.DurationTicks), strings.Repeat("★", rec.Stars))
		} else {
			m.toast = fmt.Sprintf("recorded %s", timefmt.Format(rec.DurationTicks))
		}
	}
}

// View implements tea.Model.
func (m *Model) View() string {
	var body string
	switch m.mode {
	case ModeSounds:
		body = m.viewSounds()
	case ModeAlphabet:
		body = m.viewAlphabet()
	case ModeStory:
		body = m.viewStory()
	}
	sections := []string{m.viewHeader(), body, m.viewFooter()}
	return strings.Join(sections, "\n\n")
}

func (m *Model) viewHeader() string {
	switch m.mode {
	case ModeSounds:
		return titleStyle.Render("Sound Drills") + mutedStyle.Render("  hold each sound as long as you can")
	case ModeAlphabet:
		return titleStyle.Render("Alphabet Recitation")
	default:
		return titleStyle.Render("Story: "+m.st.Title) + m.viewStoryMeta()
	}
}

func (m *Model) viewStoryMeta() string {
	parts := []string{}
	if m.st.TargetSeconds > 0 {
		parts = append(parts, fmt.Sprintf("target %ds", m.st.TargetSeconds))
	}
	if m.bookmarks.HasStory(m.st.ID) {
		parts = append(parts, "bookmarked")
	}
	if len(parts) == 0 {
		return ""
	}
	return mutedStyle.Render("  " + strings.Join(parts, " · "))
}

func (m *Model) viewSounds() string {
	if len(m.cfg.Sounds) == 0 {
		return mutedStyle.Render("no sounds configured")
	}
	best := history.BestBySymbol(m.snapshot.Sounds)
	var b strings.Builder
	for i, symbol := range m.cfg.Sounds {
		key := model.SoundKey(symbol)
		marker := "  "
		if i == m.cursor {
			marker = cursorStyle.Render("> ")
		}
		line := fmt.Sprintf("%s%s  %s  %s", marker, symbol, m.phaseLabel(key), timefmt.Format(m.machine().Elapsed(key)))
		if bt, ok := best[symbol]; ok {
			line += mutedStyle.Render("  best " + timefmt.Format(bt))
		}
		b.WriteString(line)
		if i < len(m.cfg.Sounds)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func (m *Model) viewAlphabet() string {
	key := model.AlphabetKey()
	elapsed := m.machine().Elapsed(key)
	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s  %s", m.phaseLabel(key), titleStyle.Render(timefmt.Format(elapsed))))
	if elapsed > 0 {
		b.WriteString(mutedStyle.Render("  " + practice.QualityLabel(timefmt.Seconds(elapsed))))
	}
	laps := m.machine().Laps(key)
	for _, lap := range laps {
		b.WriteString(fmt.Sprintf("\n  lap %d  %s", lap.Index, timefmt.Format(lap.Ticks)))
	}
	return b.String()
}

func (m *Model) viewStory() string {
	key := model.StoryKey(m.st.ID)
	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s  %s\n\n", m.phaseLabel(key), titleStyle.Render(timefmt.Format(m.machine().Elapsed(key)))))

	contentWidth := m.width - 6
	if contentWidth < 20 {
		contentWidth = 20
	}
	for i, line := range m.st.Lines {
		marker := "  "
		if i == m.cursor {
			marker = cursorStyle.Render("> ")
		}
		mark := " "
		if m.bookmarks.HasLine(m.st.ID, i) {
			mark = bookmarkStyle.Render("●")
		}
		wrapped := wrapLine(line, contentWidth)
		for j, part := range wrapped {
			if j == 0 {
				b.WriteString(fmt.Sprintf("%s%s %s", marker, mark, part))
			} else {
				b.WriteString(fmt.Sprintf("     %s", part))
			}
			b.WriteByte('\n')
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m *Model) phaseLabel(key model.Key) string {
	switch m.machine().Phase(key) {
	case timer.Running:
		return runningStyle.Render("[running]")
	case timer.Paused:
		return pausedStyle.Render("[paused]")
	default:
		return mutedStyle.Render("[idle]")
	}
}

func (m *Model) viewFooter() string {
	all := m.snapshot.All()
	now := time.Now()
	loc := now.Location()
	segments := []string{
		fmt.Sprintf("streak %d", history.Streak(all, now, loc)),
		fmt.Sprintf("today %d%%", history.GoalProgress(all, now, loc, m.cfg.DailyGoal)),
		fmt.Sprintf("sessions %d", m.snapshot.Count()),
		m.helpLine(),
	}
	footer := footerStyle.Render(strings.Join(segments, "  ·  "))
	if m.toast != "" {
		footer += "\n" + toastStyle.Render(m.toast)
	}
	return footer
}

func (m *Model) helpLine() string {
	switch m.mode {
	case ModeAlphabet:
		return "space start/pause · l lap · enter save · x discard · q quit"
	case ModeStory:
		return "space start/pause · enter save · x discard · b/m bookmark · q quit"
	default:
		return "space start/pause · enter save · x discard · q quit"
	}
}
