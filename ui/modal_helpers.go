package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// ModalType determines the title color of a modal
type ModalType int

const (
	ModalTypeInfo ModalType = iota
	ModalTypeWarning
	ModalTypeError
)

func (t ModalType) color() lipgloss.Color {
	switch t {
	case ModalTypeWarning:
		return warningColor
	case ModalTypeError:
		return dangerColor
	default:
		return accentColor
	}
}

// renderModal draws the borderless three-section modal: title, then the
// message lines under a top rule, then the footer under another rule.
// Message lines are centered; the modal is placed in the middle of the screen.
func renderModal(title string, lines []string, footer string, modalType ModalType, width, height int) string {
	modalWidth := 60
	if width < modalWidth+10 {
		modalWidth = width - 10
	}

	// runewidth so emoji titles center correctly
	pad := (modalWidth - runewidth.StringWidth(title)) / 2
	if pad < 0 {
		pad = 0
	}
	titleSection := lipgloss.NewStyle().
		Bold(true).
		Foreground(modalType.color()).
		Width(modalWidth).
		Render(strings.Repeat(" ", pad) + title)

	lineStyle := lipgloss.NewStyle().
		Width(modalWidth).
		Align(lipgloss.Center)

	body := []string{strings.Repeat(" ", modalWidth)}
	for _, line := range lines {
		body = append(body, lineStyle.Render(line))
	}
	body = append(body, strings.Repeat(" ", modalWidth))

	messageSection := lipgloss.NewStyle().
		BorderTop(true).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(dimColor).
		Render(strings.Join(body, "\n"))

	footerSection := lipgloss.NewStyle().
		Foreground(dimColor).
		Align(lipgloss.Center).
		Width(modalWidth).
		BorderTop(true).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(dimColor).
		Render(footer)

	content := strings.Join([]string{titleSection, messageSection, footerSection}, "\n")
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}
