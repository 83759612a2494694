package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/lox/headsup/internal/display"
	"github.com/lox/headsup/internal/game"
)

const sidebarWidth = 26

type (
	eventMsg  struct{ event game.Event }
	logMsg    struct{ lines []string }
	promptMsg struct{ prompt *prompt }
	cancelMsg struct{}
	quitMsg   struct{}
)

// Model is the Bubble Tea model: a scrolling game log, a sidebar with the
// stacks and an input pane where prompts are answered.
type Model struct {
	format *display.Formatter
	styles *display.Styles
	logger *log.Logger

	logViewport viewport.Model
	input       textinput.Model

	gameLog     []string
	prompt      *prompt
	quitting    bool
	focusedPane int // 0 = log, 1 = input

	human, ai string
	stacks    game.Stacks
	stage     string
	round     int

	width  int
	height int
}

// NewModel creates the model.
func NewModel(format *display.Formatter, logger *log.Logger) *Model {
	vp := viewport.New(10, 5)
	vp.SetContent("")

	ti := textinput.New()
	ti.Focus()
	ti.CharLimit = 64
	ti.Width = 60
	ti.PromptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575")).Bold(true)
	ti.Prompt = "> "

	return &Model{
		format:      format,
		styles:      format.Styles(),
		logger:      logger.WithPrefix("tui"),
		logViewport: vp,
		input:       ti,
		focusedPane: 1,
		human:       "You",
		ai:          "Computer",
	}
}

// Init starts the cursor blinking.
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case quitMsg:
		m.quit()
		return m, tea.Quit

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case eventMsg:
		m.track(msg.event)
		m.appendLog(m.format.Event(msg.event)...)

	case logMsg:
		m.appendLog(msg.lines...)

	case promptMsg:
		m.setPrompt(msg.prompt)

	case cancelMsg:
		m.prompt = nil
		m.input.SetValue("")

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.quit()
			return m, tea.Quit
		case "tab":
			if m.focusedPane == 0 {
				m.focusedPane = 1
				m.input.Focus()
			} else {
				m.focusedPane = 0
				m.input.Blur()
			}
		case "enter":
			if m.focusedPane == 1 {
				m.submit()
				return m, nil
			}
		case "up", "k":
			if m.focusedPane == 0 {
				m.logViewport.ScrollUp(1)
			}
		case "down", "j":
			if m.focusedPane == 0 {
				m.logViewport.ScrollDown(1)
			}
		case "pgup":
			m.logViewport.HalfPageUp()
		case "pgdown":
			m.logViewport.HalfPageDown()
		}
	}

	var cmd tea.Cmd
	if m.focusedPane == 1 {
		m.input, cmd = m.input.Update(msg)
	} else {
		m.logViewport, cmd = m.logViewport.Update(msg)
	}
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

func (m *Model) setPrompt(p *prompt) {
	m.prompt = p
	m.input.SetValue("")
	m.input.Placeholder = p.placeholder
	if p.title != "" {
		m.appendLog(m.styles.Actions.Render(p.title))
	}
	if p.info != "" {
		m.appendLog(p.info)
	}
	if len(p.options) > 0 {
		labels := make([]string, len(p.options))
		for i, o := range p.options {
			labels[i] = fmt.Sprintf("[%d] %s", i+1, o.label)
		}
		m.appendLog(m.styles.Actions.Render(strings.Join(labels, "  ")))
	}
}

// submit answers the open prompt, or reports why the input was refused
// and keeps the prompt open.
func (m *Model) submit() {
	value := m.input.Value()
	m.input.SetValue("")
	if m.prompt == nil {
		return
	}
	ans, err := m.prompt.resolve(value)
	if err != nil {
		m.logger.Debug("Input refused", "input", value, "error", err)
		m.appendLog(m.styles.Error.Render(err.Error()))
		return
	}
	m.prompt.reply <- ans
	m.prompt = nil
}

func (m *Model) quit() {
	m.quitting = true
	if m.prompt != nil {
		m.prompt.reply <- answer{err: ErrQuit}
		m.prompt = nil
	}
}

// track keeps the sidebar in step with the game.
func (m *Model) track(e game.Event) {
	switch ev := e.(type) {
	case game.RoundStartEvent:
		m.human, m.ai = ev.Human, ev.AI
		m.round = ev.Number
		m.stacks = ev.Stacks
		m.stage = game.PreFlop.String()
	case game.StreetChangeEvent:
		m.stacks = ev.Stacks
		m.stage = ev.Stage.String()
	case game.PlayerActionEvent:
		m.stacks = ev.Stacks
	case game.RunOutEvent:
		m.stage = game.River.String()
	case game.RoundEndEvent:
		m.stacks = ev.Stacks
		m.stage = game.Showdown.String()
	case game.RoundAbortedEvent:
		m.stacks = ev.Stacks
	}
}

func (m *Model) appendLog(lines ...string) {
	m.gameLog = append(m.gameLog, lines...)
	m.logViewport.SetContent(strings.Join(m.gameLog, "\n"))
	if m.logViewport.Height > 0 && m.logViewport.Width > 0 {
		m.logViewport.GotoBottom()
	}
}

// View renders the log and sidebar above the input pane.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	action := m.renderActionPane()
	actionHeight := lipgloss.Height(action)
	actionPane := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(m.borderColor(1)).
		Width(max(m.width-2, 1)).
		Render(action)

	paneHeight := max(m.height-actionHeight-4, 1)
	sidebar := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#626262")).
		Width(sidebarWidth).
		Height(paneHeight).
		Render(m.renderSidebar())

	m.logViewport.Width = max(m.width-sidebarWidth-4, 1)
	m.logViewport.Height = paneHeight
	logPane := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(m.borderColor(0)).
		Render(m.logViewport.View())

	top := lipgloss.JoinHorizontal(lipgloss.Top, logPane, sidebar)
	return lipgloss.JoinVertical(lipgloss.Left, top, actionPane)
}

func (m *Model) borderColor(pane int) lipgloss.Color {
	if m.focusedPane == pane {
		return lipgloss.Color("#04B575")
	}
	return lipgloss.Color("#626262")
}

func (m *Model) renderSidebar() string {
	var b strings.Builder
	if m.round > 0 {
		b.WriteString(m.styles.Stage.Render(fmt.Sprintf("Round %d  %s", m.round, m.stage)))
		b.WriteString("\n\n")
	}
	b.WriteString(m.styles.Warning.Render(fmt.Sprintf("Pot: $%d", m.stacks.Pot)))
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "%s: $%d\n", m.styles.Human.Render(m.human), m.stacks.Human)
	fmt.Fprintf(&b, "%s: $%d\n", m.styles.AI.Render(m.ai), m.stacks.AI)
	return b.String()
}

func (m *Model) renderActionPane() string {
	var b strings.Builder
	if m.prompt == nil {
		b.WriteString(m.styles.HandInfo.Render("Waiting..."))
	} else {
		b.WriteString(m.styles.HandInfo.Render(m.prompt.title))
	}
	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n")
	if m.focusedPane == 0 {
		b.WriteString(m.styles.Info.Render("Log focused: ↑↓ scroll, PgUp/PgDn half page, Tab to input"))
	} else {
		b.WriteString(m.styles.Info.Render("Number or name to choose • Tab to scroll log • Ctrl+C to quit"))
	}
	return b.String()
}

// Log returns the lines written so far.
func (m *Model) Log() []string {
	out := make([]string, len(m.gameLog))
	copy(out, m.gameLog)
	return out
}
