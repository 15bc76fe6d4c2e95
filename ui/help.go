package ui

import (
	"github.com/charmbracelet/lipgloss"
)

func (a ChatView) renderHelpModal(width, height int) string {
	green := lipgloss.NewStyle().
		Bold(true).
		Foreground(successColor)

	title := green.Render("chatui - Keyboard Shortcuts")

	h := a.help
	h.ShowAll = true
	h.Width = width - 8

	tips := lipgloss.JoinVertical(
		lipgloss.Left,
		lipgloss.NewStyle().Foreground(accentColor).Render("## Tips"),
		"• Click [ Send ] in the status bar to send",
		"• Mouse wheel scrolls the conversation",
		"• Replies keep their line breaks",
	)

	content := lipgloss.JoinVertical(
		lipgloss.Left,
		title,
		"",
		h.View(a.keys),
		"",
		tips,
		"",
		DimStyle.Render(FormatFooter("Alt+H", "Close", "Esc", "Close")),
	)

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(dimColor).
		Padding(1, 2).
		Render(content)

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
}
