package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"qabot/internal/domain"
)

// replyMsg carries the chat service's answer back into the update loop.
type replyMsg struct {
	question string
	reply    string
	err      error
}

// Model is the Bubble Tea model for the chat window.
type Model struct {
	ctx         context.Context
	service     domain.ChatService
	input       textinput.Model
	viewport    viewport.Model
	lines       []string
	summary     string
	status      string
	exitKeyword string
	busy        bool
	ready       bool
}

// New creates a chat model. summary is shown under the title.
func New(ctx context.Context, service domain.ChatService, summary, exitKeyword string) Model {
	if exitKeyword == "" {
		exitKeyword = "exit"
	}
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = fmt.Sprintf("Ask a question (%q to quit)", exitKeyword)
	ti.Focus()
	ti.CharLimit = 0
	vp := viewport.New(0, 0)
	return Model{
		ctx:         ctx,
		service:     service,
		input:       ti,
		viewport:    vp,
		summary:     summary,
		status:      "Ready.",
		exitKeyword: exitKeyword,
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
		_, qh := queryBoxStyle.GetFrameSize()
		reserved := 2 + 1 + qh + 1 // header + summary, status, spacer
		m.viewport.Width = max(20, msg.Width)
		m.viewport.Height = max(3, msg.Height-reserved-th)
		m.refresh()
		return m, nil
	case replyMsg:
		m.busy = false
		if msg.err != nil {
			m.lines = append(m.lines, errorStyle.Render(fmt.Sprintf("Unexpected error: %v", msg.err)))
			m.status = "Error."
		} else {
			m.lines = append(m.lines, botStyle.Render("Chatbot: ")+msg.reply)
			m.status = "Ready."
		}
		m.refresh()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD {
			return m, tea.Quit
		}
		if msg.Type == tea.KeyEnter {
			return m.submit()
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	var vcmd tea.Cmd
	m.viewport, vcmd = m.viewport.Update(msg)
	return m, tea.Batch(cmd, vcmd)
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	line := m.input.Value()
	if strings.EqualFold(line, m.exitKeyword) {
		return m, tea.Quit
	}
	if m.busy {
		return m, nil
	}
	m.input.Reset()
	if strings.TrimSpace(line) == "" {
		m.lines = append(m.lines, botStyle.Render("Chatbot: ")+"Please ask a question.")
		m.refresh()
		return m, nil
	}
	m.lines = append(m.lines, userStyle.Render("You: ")+line)
	m.busy = true
	m.status = "Thinking..."
	m.refresh()
	return m, ask(m.ctx, m.service, line)
}

// ask runs the query off the update loop.
func ask(ctx context.Context, svc domain.ChatService, question string) tea.Cmd {
	return func() (msg tea.Msg) {
		defer func() {
			if r := recover(); r != nil {
				msg = replyMsg{question: question, err: fmt.Errorf("panic: %v", r)}
			}
		}()
		reply, err := svc.Respond(ctx, question)
		return replyMsg{question: question, reply: reply, err: err}
	}
}

func (m *Model) refresh() {
	m.viewport.SetContent(m.renderTranscript())
	m.viewport.GotoBottom()
}

// View renders the title, transcript, input and status line.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := lipgloss.NewStyle().Bold(true).Render("Alzheimer's QA Chatbot")
	summary := lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Render(m.summary)
	transcript := transcriptBoxStyle.Render(m.viewport.View())
	input := queryBoxStyle.Render(m.input.View())
	status := lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Render(m.status)
	return header + "\n" + summary + "\n" + transcript + "\n" + input + "\n" + status
}

func (m Model) renderTranscript() string {
	if len(m.lines) == 0 {
		return "No questions yet."
	}
	return strings.Join(m.lines, "\n")
}

var (
	transcriptBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	queryBoxStyle      = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	userStyle          = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	botStyle           = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	errorStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)
