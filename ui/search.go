package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/sahilm/fuzzy"

	"chatui/conversation"
)

const maxSearchRows = 10

// historySource adapts the history to fuzzy.Source
type historySource []conversation.Message

func (h historySource) String(i int) string {
	return h[i].Text
}

func (h historySource) Len() int {
	return len(h)
}

type searchState struct {
	active   bool
	input    textinput.Model
	matches  []fuzzy.Match
	selected int
}

func newSearchState() searchState {
	ti := textinput.New()
	ti.Prompt = "Search: "
	ti.CharLimit = 100
	return searchState{input: ti}
}

func (s *searchState) open(history []conversation.Message) {
	s.active = true
	s.input.Reset()
	s.input.Focus()
	s.refresh(history)
}

func (s *searchState) close() {
	s.active = false
	s.input.Blur()
	s.matches = nil
	s.selected = 0
}

// refresh recomputes matches. An empty query lists every message, newest first.
func (s *searchState) refresh(history []conversation.Message) {
	query := strings.TrimSpace(s.input.Value())

	if query == "" {
		s.matches = make([]fuzzy.Match, 0, len(history))
		for i := len(history) - 1; i >= 0; i-- {
			s.matches = append(s.matches, fuzzy.Match{Str: history[i].Text, Index: i})
		}
	} else {
		s.matches = fuzzy.FindFrom(query, historySource(history))
	}

	if s.selected >= len(s.matches) {
		s.selected = len(s.matches) - 1
	}
	if s.selected < 0 {
		s.selected = 0
	}
}

func (s *searchState) move(delta int) {
	if len(s.matches) == 0 {
		return
	}
	s.selected = (s.selected + delta + len(s.matches)) % len(s.matches)
}

// selectedIndex is the history index of the highlighted match
func (s searchState) selectedIndex() (int, bool) {
	if len(s.matches) == 0 {
		return 0, false
	}
	return s.matches[s.selected].Index, true
}

// firstLine is the first segment of text, flattened for a one-row preview
func firstLine(text string) string {
	return strings.TrimSpace(Segments(text)[0])
}

func renderSearch(s searchState, history []conversation.Message, width, height int) string {
	boxWidth := 70
	if width < boxWidth+4 {
		boxWidth = width - 4
	}
	if boxWidth < 20 {
		boxWidth = 20
	}

	var rows []string
	rows = append(rows, TitleStyle.Render("Search messages"), "", s.input.View(), "")

	if len(s.matches) == 0 {
		rows = append(rows, DimStyle.Render("No matches"))
	}

	// Keep the selection inside the visible window
	start := 0
	if s.selected >= maxSearchRows {
		start = s.selected - maxSearchRows + 1
	}
	end := start + maxSearchRows
	if end > len(s.matches) {
		end = len(s.matches)
	}

	for i := start; i < end; i++ {
		msg := history[s.matches[i].Index]
		prefix := "  "
		style := lipgloss.NewStyle()
		if i == s.selected {
			prefix = "> "
			style = SelectedStyle
		}

		label := "You"
		if msg.Sender == conversation.SenderBot {
			label = "Bot"
		}
		preview := runewidth.Truncate(firstLine(msg.Text), boxWidth-12, "…")
		rows = append(rows, style.Render(fmt.Sprintf("%s%-4s %s", prefix, label, preview)))
	}

	rows = append(rows, "", DimStyle.Render(FormatFooter("↑/↓", "Select", "Enter", "Jump", "Esc", "Close")))

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("8")).
		Padding(0, 1).
		Width(boxWidth).
		Render(strings.Join(rows, "\n"))

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
}
