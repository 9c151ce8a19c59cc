package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mfsandbox/camacho-chat/internal/model/chat"
)

// View implements tea.Model.
func (m Model) View() string {
	status := ""
	if n := m.session.Pending(); n > 0 {
		status = m.styles.Status.Render("President Camacho is thinking...")
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.styles.Title.Render("President Camacho"),
		m.styles.Box.Render(m.viewport.View()),
		status,
		m.input.View(),
		m.styles.Help.Render(m.keys.helpLine()),
	)
}

func renderTranscript(messages []chat.Message, width int, st styles) string {
	if len(messages) == 0 {
		return ""
	}

	wrap := lipgloss.NewStyle()
	if width > 0 {
		wrap = wrap.Width(width)
	}

	lines := make([]string, 0, len(messages))
	for _, msg := range messages {
		label := st.BotLabel.Render(msg.Sender.Label())
		if msg.Sender == chat.SenderUser {
			label = st.UserLabel.Render(msg.Sender.Label())
		}
		lines = append(lines, wrap.Render(label+msg.Text))
	}
	return strings.Join(lines, "\n")
}
