package shell

import (
	"bytes"
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const prompt = "chronix> "

var (
	promptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#5B8DEF")).Bold(true)
	bannerStyle = lipgloss.NewStyle().Bold(true)
	hintStyle   = lipgloss.NewStyle().Faint(true)
)

// resultMsg carries the rendered output of one command.
type resultMsg struct {
	output string
	err    error
}

// Model is the interactive shell.
type Model struct {
	ctx     context.Context
	d       *Dispatcher
	input   textinput.Model
	spinner spinner.Model

	busy        bool
	syncOnStart bool
	history     []string
	// histIdx == len(history) means the prompt is not browsing history.
	histIdx int
	draft   string
}

// NewModel creates the shell; with syncOnStart it runs "sync" before the
// first prompt.
func NewModel(ctx context.Context, d *Dispatcher, syncOnStart bool) Model {
	if d.base == nil {
		d.base = lipgloss.DefaultRenderer()
	}

	ti := textinput.New()
	ti.Prompt = promptStyle.Render(prompt)
	ti.Placeholder = "help"
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = promptStyle

	return Model{
		ctx:         ctx,
		d:           d,
		input:       ti,
		spinner:     sp,
		syncOnStart: syncOnStart,
	}
}

func (m Model) Init() tea.Cmd {
	banner := tea.Println(bannerStyle.Render("chronix") + hintStyle.Render("  Type 'help' for commands, 'exit' to leave."))
	if !m.syncOnStart {
		return tea.Batch(banner, textinput.Blink)
	}
	return tea.Sequence(banner, tea.Batch(m.spinner.Tick, m.execute([]string{"sync"})))
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyCtrlD:
			return m, tea.Sequence(tea.Println(hintStyle.Render("Goodbye!")), tea.Quit)
		}
		if m.busy {
			return m, nil
		}
		switch msg.Type {
		case tea.KeyEnter:
			return m.submit()
		case tea.KeyUp:
			m.browse(-1)
			return m, nil
		case tea.KeyDown:
			m.browse(1)
			return m, nil
		}

	case resultMsg:
		m.busy = false
		var cmds []tea.Cmd
		if out := strings.TrimRight(msg.output, "\n"); out != "" {
			cmds = append(cmds, tea.Println(out))
		}
		if errors.Is(msg.err, ErrExit) {
			cmds = append(cmds, tea.Quit)
			return m, tea.Sequence(cmds...)
		}
		cmds = append(cmds, textinput.Blink)
		return m, tea.Sequence(cmds...)

	case spinner.TickMsg:
		if !m.busy {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	line := strings.TrimSpace(m.input.Value())
	m.input.Reset()
	echo := tea.Println(promptStyle.Render(prompt) + line)
	if line == "" {
		return m, echo
	}

	if n := len(m.history); n == 0 || m.history[n-1] != line {
		m.history = append(m.history, line)
	}
	m.histIdx = len(m.history)
	m.draft = ""

	args := strings.Fields(line)
	switch strings.ToLower(args[0]) {
	case "clear", "cls":
		return m, tea.ClearScreen
	case "serve":
		return m, tea.Sequence(echo, tea.Println(hintStyle.Render("serve is only available as 'chronix serve'.")))
	}

	m.busy = true
	return m, tea.Sequence(echo, tea.Batch(m.spinner.Tick, m.execute(args)))
}

func (m *Model) browse(step int) {
	if len(m.history) == 0 {
		return
	}
	if m.histIdx == len(m.history) {
		m.draft = m.input.Value()
	}

	m.histIdx += step
	switch {
	case m.histIdx < 0:
		m.histIdx = 0
	case m.histIdx >= len(m.history):
		m.histIdx = len(m.history)
		m.input.SetValue(m.draft)
		m.input.CursorEnd()
		return
	}
	m.input.SetValue(m.history[m.histIdx])
	m.input.CursorEnd()
}

func (m Model) execute(args []string) tea.Cmd {
	ctx, d := m.ctx, m.d
	return func() tea.Msg {
		var buf bytes.Buffer
		err := d.Run(ctx, &buf, args)
		return resultMsg{output: buf.String(), err: err}
	}
}

func (m Model) View() string {
	if m.busy {
		return m.spinner.View() + hintStyle.Render(" Working...")
	}
	return m.input.View()
}

// Run starts the interactive shell and blocks until the user leaves it
// or ctx is canceled.
func Run(ctx context.Context, d *Dispatcher, syncOnStart bool) error {
	p := tea.NewProgram(NewModel(ctx, d, syncOnStart), tea.WithContext(ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
