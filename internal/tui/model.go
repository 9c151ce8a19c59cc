// Package tui renders a chat Session in the terminal with bubbletea.
package tui

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	chatsvc "github.com/mfsandbox/camacho-chat/internal/service/chat"
)

const (
	defaultWidth = 80
	// title, status, input and help lines plus the box border
	chromeHeight = 6
)

// transcriptChangedMsg is delivered whenever the session appends a message.
type transcriptChangedMsg struct{}

// Model is the bubbletea model for the chat window.
type Model struct {
	session  *chatsvc.Session
	input    textinput.Model
	viewport viewport.Model
	keys     keyMap
	styles   styles

	changes     chan struct{}
	unsubscribe func()

	maxHeight int
	width     int
}

// New builds a Model over session. viewHeight caps the number of transcript
// rows visible at once.
func New(session *chatsvc.Session, viewHeight int) Model {
	if viewHeight < 1 {
		viewHeight = 1
	}

	ti := textinput.New()
	ti.Placeholder = "Say something to President Camacho..."
	ti.Prompt = "> "
	ti.CharLimit = 2000
	ti.Width = defaultWidth - len(ti.Prompt) - 1
	ti.Focus()

	changes := make(chan struct{}, 1)
	unsubscribe := session.Subscribe(func(chatsvc.Event) {
		select {
		case changes <- struct{}{}:
		default:
		}
	})

	m := Model{
		session:     session,
		input:       ti,
		viewport:    viewport.New(defaultWidth-2, viewHeight),
		keys:        defaultKeyMap(),
		styles:      defaultStyles(),
		changes:     changes,
		unsubscribe: unsubscribe,
		maxHeight:   viewHeight,
		width:       defaultWidth,
	}
	m.refresh()
	return m
}

// Close detaches the model from its session.
func (m Model) Close() {
	if m.unsubscribe != nil {
		m.unsubscribe()
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, waitForChange(m.changes))
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		m.refresh()
		return m, nil

	case transcriptChangedMsg:
		m.refresh()
		return m, waitForChange(m.changes)

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Send):
			m.session.SetInput(m.input.Value())
			if m.session.CommitKey(chatsvc.KeyEnter) {
				// The key is consumed here and never reaches the input widget.
				m.input.SetValue(m.session.Input())
				m.refresh()
				return m, nil
			}
		case key.Matches(msg, m.keys.Scroll):
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.session.SetInput(m.input.Value())
	return m, cmd
}

func (m *Model) resize(width, height int) {
	if width < 10 {
		width = 10
	}
	m.width = width

	rows := height - chromeHeight
	if rows > m.maxHeight {
		rows = m.maxHeight
	}
	if rows < 1 {
		rows = 1
	}

	m.viewport.Width = width - 2
	m.viewport.Height = rows
	m.input.Width = width - len(m.input.Prompt) - 1
}

// refresh redraws the transcript and scrolls to the newest entry.
func (m *Model) refresh() {
	m.viewport.SetContent(renderTranscript(m.session.Messages(), m.viewport.Width, m.styles))
	m.viewport.GotoBottom()
}

func waitForChange(changes <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		<-changes
		return transcriptChangedMsg{}
	}
}
