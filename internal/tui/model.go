// Package tui is the terminal chat widget: a transcript viewport above a
// text input. Replies are fetched asynchronously so the UI stays responsive
// while the generation call is in flight.
package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"portfoliochat/internal/domain"
	"portfoliochat/internal/service"
)

// Replier is the TUI-facing subset of the chat service.
type Replier interface {
	Reply(ctx context.Context, query string) service.Answer
	Greeting() string
}

// replyMsg carries an assistant reply back into the update loop.
type replyMsg struct {
	text string
}

// Model is the Bubble Tea model for the chat widget.
type Model struct {
	svc        Replier
	botName    string
	input      textinput.Model
	viewport   viewport.Model
	transcript []domain.Turn
	waiting    bool
	ready      bool
}

// New creates the chat model with the greeting preloaded.
func New(svc Replier, botName string) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Ask something and press Enter"
	ti.Focus()
	ti.CharLimit = 0
	vp := viewport.New(0, 0)
	return Model{
		svc:        svc,
		botName:    botName,
		input:      ti,
		viewport:   vp,
		transcript: []domain.Turn{{Role: domain.RoleAssistant, Content: svc.Greeting()}},
	}
}

// Init initializes the model (text input cursor blink).
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key, window and reply events.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, th := transcriptBoxStyle.GetFrameSize()
		_, ih := inputBoxStyle.GetFrameSize()
		reserved := 1 + ih + 1 // header, input frame, status line
		vh := msg.Height - reserved - th
		if vh < 3 {
			vh = 3
		}
		m.viewport.Width = max(20, msg.Width-2)
		m.viewport.Height = vh
		m.viewport.SetContent(m.renderTranscript())
		m.viewport.GotoBottom()
		return m, nil

	case replyMsg:
		m.transcript = append(m.transcript, domain.Turn{Role: domain.RoleAssistant, Content: msg.text})
		m.waiting = false
		m.viewport.SetContent(m.renderTranscript())
		m.viewport.GotoBottom()
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD {
			return m, tea.Quit
		}
		if msg.String() == "enter" && !m.waiting {
			q := strings.TrimSpace(m.input.Value())
			if q == "" {
				break
			}
			m.transcript = append(m.transcript, domain.Turn{Role: domain.RoleUser, Content: q})
			m.input.Reset()
			m.waiting = true
			m.viewport.SetContent(m.renderTranscript())
			m.viewport.GotoBottom()
			svc := m.svc
			return m, func() tea.Msg {
				return replyMsg{text: svc.Reply(context.Background(), q).Reply}
			}
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the chat layout.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := headerStyle.Render(m.botName)
	transcript := transcriptBoxStyle.Render(m.viewport.View())
	input := inputBoxStyle.Render(m.input.View())
	status := ""
	if m.waiting {
		status = statusStyle.Render("Thinking...")
	}
	return header + "\n" + transcript + "\n" + input + "\n" + status
}

func (m Model) renderTranscript() string {
	lines := make([]string, 0, len(m.transcript))
	for _, t := range m.transcript {
		switch t.Role {
		case domain.RoleUser:
			lines = append(lines, userStyle.Render("You: ")+t.Content)
		default:
			lines = append(lines, botStyle.Render(m.botName+": ")+t.Content)
		}
	}
	return strings.Join(lines, "\n\n")
}

var (
	headerStyle        = lipgloss.NewStyle().Bold(true)
	transcriptBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	inputBoxStyle      = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	userStyle          = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	botStyle           = lipgloss.NewStyle().Foreground(lipgloss.Color("13")).Bold(true)
	statusStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
