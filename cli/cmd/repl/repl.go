package repl

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/confxml/lang"
	"github.com/ardnew/confxml/log"
)

const prompt = "➜ "

// Styles.
var (
	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("6")).
			Bold(true)
	inputStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	resultStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	errorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	hintStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	nameStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("5")).Bold(true)
	suggestionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	selectedStyle   = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("4"))
)

// formatCommand formats the echo of an executed line.
func formatCommand(input string) string {
	return promptStyle.Render(prompt) + inputStyle.Render(input)
}

const defaultWidth = 80

// model is the Bubble Tea model for the REPL.
type model struct {
	session    *session
	input      textinput.Model
	history    *History
	historyIdx int
	matches    fuzzy.Matches
	wordStart  int
	wordEnd    int
	sel        int    // selected candidate, -1 if none
	preTab     string // input before tab-cycling began
	width      int
	quitting   bool
}

// Run loads the source and starts an interactive session.
// History is kept in cacheDir; an empty cacheDir keeps it in memory.
func Run(
	ctx context.Context,
	load Loader,
	cacheDir string,
	logger log.Logger,
	opts ...lang.Option,
) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	logger.TraceContext(ctx, "repl start", slog.String("cache_dir", cacheDir))

	s := newSession(ctx, load, logger, opts...)
	if _, err := s.reload(); err != nil {
		return err
	}

	var path string
	if cacheDir != "" {
		path = filepath.Join(cacheDir, baseHistory)
	}

	history := NewHistory(path)
	if err := history.Load(); err != nil {
		logger.WarnContext(ctx, "could not load history",
			slog.String("path", path),
			slog.String("error", err.Error()),
		)
	}

	for _, line := range s.reports {
		fmt.Println(hintStyle.Render(line))
	}

	p := tea.NewProgram(newModel(s, history), tea.WithContext(ctx))
	_, err = p.Run()

	return err
}

func newModel(s *session, history *History) model {
	ti := textinput.New()
	ti.Prompt = promptStyle.Render(prompt)
	ti.Focus()
	ti.CharLimit = 1024
	ti.Width = defaultWidth

	return model{
		session:    s,
		input:      ti,
		history:    history,
		historyIdx: history.Len(),
		sel:        -1,
		width:      defaultWidth,
	}
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = msg.Width - lipgloss.Width(prompt) - 2

		return m, nil
	}

	var cmd tea.Cmd

	m.input, cmd = m.input.Update(msg)

	return m, cmd
}

func (m model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(m.input.View())
	b.WriteString("\n")

	switch {
	case m.historyIdx < m.history.Len():
		b.WriteString(hintStyle.Render(fmt.Sprintf("%s/%d",
			lipgloss.NewStyle().Bold(true).Render(strconv.Itoa(m.historyIdx+1)),
			m.history.Len(),
		)))

	case strings.TrimSpace(m.input.Value()) == "":
		b.WriteString(hintStyle.Render("Type an expression or :help"))

	case len(m.matches) > 0:
		b.WriteString(renderCandidateBar(m.matches, m.sel, m.width))
	}

	b.WriteString("\n")

	return b.String()
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		m.input.SetValue("")
		m.historyIdx = m.history.Len()
		m.refresh()

		return m, nil

	case tea.KeyCtrlD:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		return m, nil

	case tea.KeyEnter:
		return m.execute()

	case tea.KeyTab:
		return m.cycle(1), nil

	case tea.KeyShiftTab:
		return m.cycle(-1), nil

	case tea.KeyUp:
		return m.browse(-1), nil

	case tea.KeyDown:
		return m.browse(1), nil

	case tea.KeyEsc:
		if m.sel >= 0 {
			m.input.SetValue(m.preTab)
			m.input.CursorEnd()
			m.refresh()
		}

		return m, nil
	}

	var cmd tea.Cmd

	m.historyIdx = m.history.Len()
	m.input, cmd = m.input.Update(msg)
	m.refresh()

	return m, cmd
}

// execute runs the current input line.
func (m model) execute() (model, tea.Cmd) {
	line := m.input.Value()

	m.input.SetValue("")
	m.matches, m.sel = nil, -1

	if strings.TrimSpace(line) == "" {
		return m, nil
	}

	if err := m.history.Write(line); err != nil {
		m.session.logger.WarnContext(m.session.ctx, "could not save history",
			slog.String("error", err.Error()),
		)
	}

	m.historyIdx = m.history.Len()

	out, quit := m.session.execute(line)

	cmds := []tea.Cmd{tea.Println(formatCommand(line))}
	if out != "" {
		cmds = append(cmds, tea.Println(out))
	}

	if quit {
		m.quitting = true

		cmds = append(cmds, tea.Quit)
	}

	return m, tea.Sequence(cmds...)
}

// cycle selects the next (dir > 0) or previous candidate and writes it into
// the input. A single candidate is accepted immediately.
func (m model) cycle(dir int) model {
	if len(m.matches) == 0 {
		return m
	}

	if len(m.matches) == 1 {
		m.replaceWord(m.matches[0].Str)
		m.matches, m.sel = nil, -1

		return m
	}

	if m.sel < 0 {
		m.preTab = m.input.Value()

		if dir > 0 {
			m.sel = 0
		} else {
			m.sel = len(m.matches) - 1
		}
	} else {
		m.sel = (m.sel + dir + len(m.matches)) % len(m.matches)
	}

	m.replaceWord(m.matches[m.sel].Str)

	return m
}

// browse moves through history by dir entries.
func (m model) browse(dir int) model {
	idx := m.historyIdx + dir
	if idx < 0 || idx > m.history.Len() {
		return m
	}

	m.historyIdx = idx

	line, err := m.history.Line(idx)
	if err != nil {
		line = ""
	}

	m.input.SetValue(line)
	m.input.CursorEnd()
	m.matches, m.sel = nil, -1

	return m
}

// replaceWord replaces the word being completed and moves the cursor after
// it.
func (m *model) replaceWord(replacement string) {
	input := m.input.Value()

	m.input.SetValue(input[:m.wordStart] + replacement + input[m.wordEnd:])
	m.input.SetCursor(m.wordStart + len(replacement))
	m.wordEnd = m.wordStart + len(replacement)
}

// refresh recomputes completion candidates for the current input.
func (m *model) refresh() {
	m.sel = -1
	m.matches, m.wordStart, m.wordEnd = complete(
		m.session.doc,
		m.input.Value(),
		m.input.Position(),
	)
}
