// Package tui is the full-screen terminal frontend: a viewport over the
// narrative, a command input line whose prompt color previews whether the
// current text would be accepted, and a status bar with title, language
// and clock.
package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mkraus/polyquest/engine"
	"github.com/mkraus/polyquest/engine/save"
	"github.com/mkraus/polyquest/llm"
	"github.com/mkraus/polyquest/loader"
)

// rawLine stores an unstyled output line with its classification, so the
// narrative can be re-wrapped and re-styled on resize.
type rawLine struct {
	text     string
	kind     lineKind
	isInput  bool
	isSystem bool
}

// gameOutputMsg carries output into the Update loop.
type gameOutputMsg struct {
	input    string
	lines    []string
	isSystem bool
	quit     bool
}

// Model is the Bubble Tea model for a play session.
type Model struct {
	eng    *engine.Engine
	interp llm.Interpreter
	saves  *save.Manager

	viewport viewport.Model
	input    textinput.Model
	history  *History
	rawLines []rawLine

	width    int
	height   int
	ready    bool
	quitting bool
}

// New creates a TUI model wired to the given engine.
func New(eng *engine.Engine, interp llm.Interpreter, saves *save.Manager) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Focus()
	ti.CharLimit = 256
	ti.PromptStyle = stylePromptOK

	return Model{
		eng:     eng,
		interp:  interp,
		saves:   saves,
		input:   ti,
		history: NewHistory(100),
	}
}

// Run starts the Bubble Tea program and blocks until the session ends.
func Run(eng *engine.Engine, interp llm.Interpreter, saves *save.Manager) error {
	p := tea.NewProgram(New(eng, interp, saves), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// Init emits the opening text.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, func() tea.Msg {
		return gameOutputMsg{lines: m.eng.Opening()}
	})
}

// Update handles key presses, resizes and game output.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		vpHeight := m.height - 2 // status bar + input line
		if vpHeight < 1 {
			vpHeight = 1
		}
		if !m.ready {
			m.viewport = viewport.New(m.width, vpHeight)
			m.ready = true
		} else {
			m.viewport.Width = m.width
			m.viewport.Height = vpHeight
		}
		m.refreshViewport()

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.saves.Save(m.eng.SaveData())
			m.quitting = true
			return m, tea.Quit

		case "enter":
			return m.handleEnter()

		case "up":
			if prev, ok := m.history.Prev(); ok {
				m.input.SetValue(prev)
				m.input.CursorEnd()
			}
			return m, nil

		case "down":
			if next, ok := m.history.Next(); ok {
				m.input.SetValue(next)
				m.input.CursorEnd()
			} else {
				m.input.SetValue("")
				m.history.ResetCursor()
			}
			return m, nil

		case "pgup", "pgdown":
			var vpCmd tea.Cmd
			m.viewport, vpCmd = m.viewport.Update(msg)
			return m, vpCmd
		}

	case gameOutputMsg:
		m = m.appendOutput(msg)
		if msg.quit {
			m.quitting = true
			return m, tea.Quit
		}
	}

	var inputCmd tea.Cmd
	m.input, inputCmd = m.input.Update(msg)
	cmds = append(cmds, inputCmd)

	// Preview acceptance of the current text in the prompt color.
	if m.eng.Probe(m.input.Value()) {
		m.input.PromptStyle = stylePromptOK
	} else {
		m.input.PromptStyle = stylePromptBad
	}

	return m, tea.Batch(cmds...)
}

// handleEnter runs the submitted line through the engine, falling back to
// the interpreter asynchronously when it is rejected.
func (m Model) handleEnter() (tea.Model, tea.Cmd) {
	input := strings.TrimSpace(m.input.Value())
	m.input.SetValue("")
	if input == "" {
		return m, nil
	}
	m.history.Push(input)
	m.history.ResetCursor()

	lines, ok := m.eng.Execute(input)
	if !ok {
		return m, m.consultCmd(input)
	}
	return m.finishTurn(input, lines)
}

// finishTurn appends a turn's output and ends the program on quit or on a
// fired ending.
func (m Model) finishTurn(input string, lines []string) (tea.Model, tea.Cmd) {
	m = m.appendOutput(gameOutputMsg{input: input, lines: lines})
	if m.eng.Finished {
		m.saves.Cleanup()
		m.quitting = true
		return m, tea.Quit
	}
	if m.eng.Quit {
		m.saves.Save(m.eng.SaveData())
		m.quitting = true
		return m, tea.Quit
	}
	return m, nil
}

// consultCmd asks the interpreter about a rejected line off the Update
// loop and feeds its answer back as output.
func (m Model) consultCmd(input string) tea.Cmd {
	m.interp.SetContext(llm.Context{
		Verbs:    m.eng.Verbs(),
		Nouns:    m.eng.Nouns(),
		Scene:    m.eng.Scene(),
		Language: m.eng.Locale.Language,
	})
	if c, ok := m.interp.(interface{ SetConfig(loader.LLMConfig) }); ok {
		c.SetConfig(m.eng.Locale.LLM)
	}
	return func() tea.Msg {
		out := m.interp.Interpret(context.Background(), input)
		switch {
		case out == llm.UnknownToken:
			return gameOutputMsg{input: input, lines: []string{m.message("unknown_command")}, isSystem: true}
		case strings.HasPrefix(out, llm.SuggestPrefix):
			suggested := strings.TrimPrefix(out, llm.SuggestPrefix)
			text := strings.ReplaceAll(m.message("llm_suggest"), "{command}", suggested)
			return gameOutputMsg{input: input, lines: []string{text}, isSystem: true}
		default:
			lines, ok := m.eng.Execute(out)
			if !ok {
				return gameOutputMsg{input: input, lines: []string{m.message("unknown_command")}, isSystem: true}
			}
			return gameOutputMsg{input: input, lines: lines, quit: m.eng.Finished || m.eng.Quit}
		}
	}
}

func (m Model) message(key string) string {
	if text, ok := m.eng.Locale.Messages[key]; ok {
		return text
	}
	return key
}

// appendOutput adds a turn to the narrative and refreshes the viewport.
func (m Model) appendOutput(msg gameOutputMsg) Model {
	if msg.input != "" {
		m.rawLines = append(m.rawLines, rawLine{text: "> " + msg.input, isInput: true})
	}
	for _, line := range msg.lines {
		rl := rawLine{text: line, isSystem: msg.isSystem}
		if !msg.isSystem {
			rl.kind = classifyLine(line)
		}
		m.rawLines = append(m.rawLines, rl)
	}
	m.rawLines = append(m.rawLines, rawLine{})
	m.refreshViewport()
	return m
}

// refreshViewport re-wraps and re-styles the narrative at the current
// width.
func (m *Model) refreshViewport() {
	if !m.ready {
		return
	}
	width := m.width
	if width < 10 {
		width = 10
	}

	var styled []string
	for _, rl := range m.rawLines {
		if rl.text == "" {
			styled = append(styled, "")
			continue
		}
		wrapped := wordWrap(rl.text, width)
		switch {
		case rl.isInput:
			styled = append(styled, stylePlayerInput.Render(wrapped))
		case rl.isSystem:
			styled = append(styled, styleSystem.Render(wrapped))
		default:
			styled = append(styled, renderLine(wrapped, rl.kind))
		}
	}

	m.viewport.SetContent(strings.Join(styled, "\n"))
	m.viewport.GotoBottom()
}

// View renders viewport, status bar and input line.
func (m Model) View() string {
	if !m.ready || m.quitting {
		return ""
	}
	return m.viewport.View() + "\n" + m.statusBar() + "\n" + m.input.View()
}

// statusBar shows title, room, language and clock.
func (m Model) statusBar() string {
	w := m.eng.World
	left := w.Title
	if left == "" {
		left = "polyquest"
	}
	right := w.RoomName(w.Current) + " | " + m.eng.Locale.Language + " | " + w.FormatClock()

	gap := m.width - len(left) - len(right) - 2
	if gap < 1 {
		gap = 1
	}
	return styleStatusBar.Width(m.width).Render(" " + left + strings.Repeat(" ", gap) + right + " ")
}

// wordWrap wraps text at word boundaries to fit width.
func wordWrap(text string, width int) string {
	if width <= 0 || len(text) <= width {
		return text
	}
	var result strings.Builder
	lineLen := 0
	for i, word := range strings.Fields(text) {
		if i == 0 {
			result.WriteString(word)
			lineLen = len(word)
			continue
		}
		if lineLen+1+len(word) > width {
			result.WriteString("\n")
			result.WriteString(word)
			lineLen = len(word)
		} else {
			result.WriteString(" ")
			result.WriteString(word)
			lineLen += 1 + len(word)
		}
	}
	return result.String()
}
