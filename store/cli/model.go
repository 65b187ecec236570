package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/flowgrid/flowgrid/action"
	"github.com/flowgrid/flowgrid/component"
	"github.com/flowgrid/flowgrid/faust"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))

	cursorStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("240")).
			Foreground(lipgloss.Color("15")).
			Bold(true)

	errStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))

	helpStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

type keyMap struct {
	Up, Down key.Binding
	Undo     key.Binding
	Redo     key.Binding
	Quit     key.Binding
}

var keys = keyMap{
	Up:   key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "select record")),
	Down: key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "select record")),
	Undo: key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "undo")),
	Redo: key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "redo")),
	Quit: key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

// tickMsg drives the periodic RunQueued drain that an interactive session
// needs in order to ever observe an idle-timeout gesture commit.
type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// model is the Bubble Tea model: a thin view over an action.Engine's
// History, plus whatever compile error the Faust host's current Slot is
// reporting (spec.md §4.1, §4.3).
type model struct {
	eng   *action.Engine
	arena *component.Arena
	host  *faust.Host

	width, height int
	selected      int
	view          viewport.Model
}

// New constructs the interactive model over an already-wired Engine/Arena.
// host may be nil if the session has no Faust DSP slot active.
func New(eng *action.Engine, arena *component.Arena, host *faust.Host) model {
	return model{eng: eng, arena: arena, host: host, view: viewport.New(0, 0)}
}

// Run starts the Bubble Tea program, blocking until the user quits.
func Run(eng *action.Engine, arena *component.Arena, host *faust.Host) error {
	p := tea.NewProgram(New(eng, arena, host), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func (m model) Init() tea.Cmd { return tick() }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.view.Width = msg.Width
		m.view.Height = msg.Height - 3
		return m, nil

	case tickMsg:
		m.eng.RunQueued(false, time.Time(msg))
		if m.selected > len(m.eng.History())-1 {
			m.selected = len(m.eng.History()) - 1
		}
		return m, tick()

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, keys.Up):
			if m.selected > 0 {
				m.selected--
			}
		case key.Matches(msg, keys.Down):
			if m.selected < len(m.eng.History())-1 {
				m.selected++
			}
		case key.Matches(msg, keys.Undo):
			_ = m.eng.Undo(time.Now())
			m.selected = m.eng.HistoryIndex()
		case key.Matches(msg, keys.Redo):
			_ = m.eng.Redo(time.Now())
			m.selected = m.eng.HistoryIndex()
		}
	}
	return m, nil
}

func (m model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("flowgrid"))
	b.WriteString("\n\n")

	history := m.eng.History()
	for i, rec := range history {
		line := fmt.Sprintf("%3d  %-20s  %d actions", i, rec.CommitTime.Format(time.RFC3339), len(rec.Gesture))
		if i == m.eng.HistoryIndex() {
			line = cursorStyle.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	if m.host != nil {
		if slot := m.host.Slot(); slot != nil && slot.Error != "" {
			b.WriteString("\n")
			b.WriteString(errStyle.Render(slot.Error))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("↑/↓ select  u undo  ctrl+r redo  q quit"))

	return b.String()
}
