// Package tui implements the interactive oil REPL.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/msto63/oil/foundation/oil"
	mdwast "github.com/msto63/oil/foundation/oil/ast"
	mdwparser "github.com/msto63/oil/foundation/oil/parser"
	"github.com/msto63/oil/internal/render"
)

// View represents the result views of the REPL
type View int

const (
	ViewAST View = iota
	ViewInterchange
	ViewTokens
	viewCount
)

var viewNames = [...]string{
	ViewAST:         "AST",
	ViewInterchange: "Interchange",
	ViewTokens:      "Tokens",
}

// String returns the tab label of the view
func (v View) String() string {
	if v >= 0 && v < viewCount {
		return viewNames[v]
	}
	return "unknown"
}

// Entry is one evaluated input
type Entry struct {
	Input   string
	Nodes   []mdwast.Node
	Tokens  []mdwparser.Token
	Err     error
	Elapsed time.Duration
}

// Model is the REPL model
type Model struct {
	// State
	view   View
	width  int
	height int
	ready  bool

	// Components
	textarea textarea.Model
	viewport viewport.Model

	engine  *oil.Engine
	history []Entry
	recall  int // position in history while browsing with ctrl+p / ctrl+n
	indent  int

	// Content buffer
	content string
}

// NewModel creates a REPL model parsing with engine
func NewModel(engine *oil.Engine) Model {
	ta := textarea.New()
	ta.Placeholder = "oil expression, Enter to parse"
	ta.Focus()
	ta.CharLimit = 16000
	ta.SetWidth(80)
	ta.SetHeight(3)
	ta.ShowLineNumbers = false
	ta.KeyMap.InsertNewline.SetEnabled(false)

	return Model{
		view:     ViewAST,
		textarea: ta,
		engine:   engine,
		history:  []Entry{},
		indent:   2,
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return textarea.Blink
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit

		case "tab":
			m.view = (m.view + 1) % viewCount
			m.updateContent()
			return m, nil

		case "enter":
			input := strings.TrimSpace(m.textarea.Value())
			if input == "" {
				return m, nil
			}
			m.textarea.Reset()
			return m, m.evaluate(input)

		case "ctrl+l":
			m.history = []Entry{}
			m.recall = 0
			m.updateContent()
			return m, nil

		case "ctrl+p":
			if m.recall > 0 {
				m.recall--
				m.textarea.SetValue(m.history[m.recall].Input)
			}
			return m, nil

		case "ctrl+n":
			if m.recall < len(m.history)-1 {
				m.recall++
				m.textarea.SetValue(m.history[m.recall].Input)
			} else {
				m.recall = len(m.history)
				m.textarea.Reset()
			}
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		if !m.ready {
			m.viewport = viewport.New(msg.Width, max(1, msg.Height-9))
			m.viewport.YPosition = 3
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = max(1, msg.Height-9)
		}
		m.textarea.SetWidth(max(10, msg.Width-4))
		m.updateContent()

	case resultMsg:
		m.history = append(m.history, msg.entry)
		m.recall = len(m.history)
		m.updateContent()
		return m, nil
	}

	// Update components
	m.textarea, cmd = m.textarea.Update(msg)
	cmds = append(cmds, cmd)

	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// History returns the evaluated entries, oldest first
func (m Model) History() []Entry {
	return m.history
}

// CurrentView returns the selected result view
func (m Model) CurrentView() View {
	return m.view
}

// View renders the UI
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	var s strings.Builder

	s.WriteString(m.renderHeader())
	s.WriteString("\n")
	s.WriteString(m.viewport.View())
	s.WriteString("\n")
	s.WriteString(FocusedInputStyle.Render(m.textarea.View()))
	s.WriteString("\n")
	s.WriteString(m.renderFooter())

	return s.String()
}

func (m *Model) renderHeader() string {
	var renderedTabs []string
	for v := View(0); v < viewCount; v++ {
		if v == m.view {
			renderedTabs = append(renderedTabs, ActiveTabStyle.Render(v.String()))
		} else {
			renderedTabs = append(renderedTabs, TabStyle.Render(v.String()))
		}
	}

	title := TitleStyle.Render("oil repl")
	tabLine := lipgloss.JoinHorizontal(lipgloss.Top, renderedTabs...)

	return lipgloss.JoinVertical(lipgloss.Left, title, tabLine)
}

func (m *Model) renderFooter() string {
	help := "Tab: view • Ctrl+P/N: history • Ctrl+L: clear • Ctrl+C: quit"

	info := "no input"
	if n := len(m.history); n > 0 {
		last := m.history[n-1]
		if last.Err != nil {
			info = "error"
		} else {
			stats := mdwast.Measure(last.Nodes...)
			info = fmt.Sprintf("%d statements, %d nodes, depth %d, %s",
				len(last.Nodes), stats.Nodes, stats.Depth, last.Elapsed.Round(time.Microsecond))
		}
	}

	return StatusBarStyle.Width(m.width).Render(
		lipgloss.JoinHorizontal(
			lipgloss.Top,
			help,
			strings.Repeat(" ", max(0, m.width-lipgloss.Width(help)-lipgloss.Width(info)-4)),
			info,
		),
	)
}

func (m *Model) updateContent() {
	var content strings.Builder

	for _, e := range m.history {
		content.WriteString(PromptStyle.Render("oil> "))
		content.WriteString(e.Input)
		content.WriteString("\n")
		content.WriteString(m.renderEntry(e))
		content.WriteString("\n")
	}

	m.content = content.String()
	m.viewport.SetContent(m.content)
	m.viewport.GotoBottom()
}

func (m *Model) renderEntry(e Entry) string {
	if e.Err != nil {
		return render.Diagnostic("input", e.Input, e.Err)
	}

	switch m.view {
	case ViewInterchange:
		out, err := render.Value(mdwast.EncodeAll(e.Nodes), render.FormatJSON, m.indent)
		if err != nil {
			return render.ErrorStyle.Render(err.Error()) + "\n"
		}
		return out

	case ViewTokens:
		out, _ := render.Tokens(e.Tokens, render.FormatTable, 0)
		return out
	}

	if len(e.Nodes) == 0 {
		return SubtitleStyle.Render("(empty)") + "\n"
	}
	var s strings.Builder
	for _, n := range e.Nodes {
		s.WriteString(KindStyle.Render(fmt.Sprintf("%-16s", n.Kind())))
		s.WriteString(mdwast.Print(n))
		s.WriteString("\n")
	}
	return s.String()
}

// resultMsg carries an evaluated entry back to Update
type resultMsg struct {
	entry Entry
}

// evaluate lexes and parses input off the update loop
func (m *Model) evaluate(input string) tea.Cmd {
	engine := m.engine
	return func() tea.Msg {
		start := time.Now()
		entry := Entry{Input: input}

		tokens, err := engine.Lex(input)
		if err != nil {
			entry.Err = err
		} else {
			entry.Tokens = tokens
			res := engine.ParseDetailed(input, oil.Range{})
			entry.Nodes = res.Expressions
			if res.Err != nil {
				entry.Err = res.Err
			}
		}

		entry.Elapsed = time.Since(start)
		return resultMsg{entry: entry}
	}
}

// Run starts the REPL and blocks until the user quits
func Run(engine *oil.Engine, opts ...tea.ProgramOption) error {
	p := tea.NewProgram(NewModel(engine), opts...)
	_, err := p.Run()
	return err
}
