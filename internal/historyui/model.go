// Package historyui provides the Bubble Tea history interface.
package historyui

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"vaani/internal/feed"
	"vaani/internal/history"
	"vaani/internal/model"
	"vaani/internal/timefmt"
)

const (
	tabOverview = iota
	tabRounds
	tabRecords
)

var (
	activeNavStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A"))
	inactiveNavStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#B0B0B0")).
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#4A4A4A"))
	footerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	toastStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
)

// Model implements the Bubble Tea history UI.
type Model struct {
	feed *feed.Feed
	cfg  model.Config
	loc  *time.Location

	snapshot model.Snapshot
	unsub    func()

	tabs      []string
	activeTab int

	viewports []viewport.Model
	records   table.Model
	recordIDs []string

	width  int
	height int
	toast  string
}

// NewModel constructs the history UI and attaches to the record feed.
func NewModel(cfg model.Config, f *feed.Feed) *Model {
	m := &Model{
		feed: f,
		cfg:  cfg,
		loc:  time.Now().Location(),
		tabs: []string{"Overview", "Rounds", "Records"},
	}
	m.viewports = make([]viewport.Model, len(m.tabs))
	for i := range m.viewports {
		m.viewports[i] = viewport.New(0, 0)
	}
	m.records = buildRecordsTable(nil, 1)
	m.unsub = f.SubscribeRecords(context.Background(), cfg.User, func(s model.Snapshot) {
		m.snapshot = s
		m.rebuild()
	})
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		m.rebuild()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.String() == "q" {
			if m.unsub != nil {
				m.unsub()
			}
			return m, tea.Quit
		}
		if m.activeTab == tabRecords {
			m.records.Focus()
		} else {
			m.records.Blur()
		}
		switch msg.String() {
		case "left", "h":
			m.moveTab(-1)
			return m, tea.ClearScreen
		case "right", "l", "tab":
			m.moveTab(1)
			return m, tea.ClearScreen
		case "d":
			if m.activeTab == tabRecords {
				m.deleteSelected()
			}
			return m, nil
		default:
			if m.activeTab == tabRecords {
				var cmd tea.Cmd
				m.records, cmd = m.records.Update(msg)
				return m, cmd
			}
			vp := m.viewports[m.activeTab]
			var cmd tea.Cmd
			vp, cmd = vp.Update(msg)
			m.viewports[m.activeTab] = vp
			return m, cmd
		}
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	header := m.renderTabs()
	var body string
	if m.activeTab == tabRecords {
		body = m.records.View()
	} else {
		body = m.viewports[m.activeTab].View()
	}
	footer := m.renderFooter()
	return strings.Join([]string{header, body, footer}, "\n")
}

func (m *Model) moveTab(delta int) {
	m.activeTab = (m.activeTab + delta + len(m.tabs)) % len(m.tabs)
}

func (m *Model) deleteSelected() {
	idx := m.records.Cursor()
	if idx < 0 || idx >= len(m.recordIDs) {
		return
	}
	id := m.recordIDs[idx]
	if err := m.feed.DeleteRecord(context.Background(), m.cfg.User, id); err != nil {
		m.toast = fmt.Sprintf("delete failed: %v", err)
		return
	}
	m.toast = "session deleted"
}

func (m *Model) updateLayout() {
	bodyHeight := m.height - lipgloss.Height(m.renderTabs()) - 1
	if bodyHeight < 1 {
		bodyHeight = 1
	}
	for i := range m.viewports {
		m.viewports[i].Width = m.width
		m.viewports[i].Height = bodyHeight
	}
	m.records.SetHeight(bodyHeight)
}

func (m *Model) rebuild() {
	now := time.Now()

	var overview bytes.Buffer
	if err := history.RenderSummary(&overview, m.snapshot, now, m.loc, m.cfg.DailyGoal); err != nil {
		// Rendering to a buffer does not fail in practice.
		_ = err
	}
	m.viewports[tabOverview].SetContent(overview.String())

	var rounds bytes.Buffer
	if err := history.RenderRounds(&rounds, m.snapshot.Sounds, m.loc, m.width); err != nil {
		_ = err
	}
	m.viewports[tabRounds].SetContent(rounds.String())

	m.rebuildRecordsTable()
}

func (m *Model) rebuildRecordsTable() {
	days := history.ByDay(m.snapshot.All(), m.loc)
	rows := make([]table.Row, 0, m.snapshot.Count())
	ids := make([]string, 0, m.snapshot.Count())
	for _, day := range days {
		for _, rec := range day.Records {
			rows = append(rows, table.Row{
				day.Day.Format("2006-01-02"),
				rec.CreatedAt.In(m.loc).Format("15:04"),
				describe(rec),
				timefmt.Format(rec.DurationTicks),
				result(rec),
			})
			ids = append(ids, rec.ID)
		}
	}
	height := m.records.Height()
	if height < 1 {
		height = 10
	}
	m.records = buildRecordsTable(rows, height)
	m.recordIDs = ids
}

func buildRecordsTable(rows []table.Row, height int) table.Model {
	columns := []table.Column{
		{Title: "Day", Width: 10},
		{Title: "Time", Width: 5},
		{Title: "Practice", Width: 18},
		{Title: "Duration", Width: 9},
		{Title: "Result", Width: 20},
	}
	return table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(height),
	)
}

func describe(r model.Record) string {
	switch r.Kind {
	case model.KindSound:
		return "Sound " + r.Symbol
	case model.KindAlphabet:
		return "Alphabet"
	case model.KindStory:
		return "Story " + r.StoryID
	}
	return string(r.Kind)
}

func result(r model.Record) string {
	switch r.Kind {
	case model.KindSound:
		if r.IsNewBest {
			return "new best"
		}
		return ""
	case model.KindAlphabet:
		return r.QualityLabel
	case model.KindStory:
		if r.Stars > 0 {
			return fmt.Sprintf("%s (%d%%)", strings.Repeat("★", r.Stars), r.CompletionPct)
		}
		return ""
	}
	return ""
}

func (m *Model) renderTabs() string {
	parts := make([]string, 0, len(m.tabs))
	for i, tab := range m.tabs {
		if i == m.activeTab {
			parts = append(parts, activeNavStyle.Render(tab))
		} else {
			parts = append(parts, inactiveNavStyle.Render(tab))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Center, parts...)
}

func (m *Model) renderFooter() string {
	help := "h/l switch tab · d delete (records) · q quit"
	if m.toast != "" {
		return toastStyle.Render(m.toast) + "  " + footerStyle.Render(help)
	}
	return footerStyle.Render(help)
}
