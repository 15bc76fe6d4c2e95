package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
)

const (
	inputPlaceholder = "Type a message... (Shift+Enter for new line)"
	maxInputHeight   = 6
)

// SubmitMsg carries a draft the user sent, untrimmed
type SubmitMsg struct {
	Text string
}

// Input is the message composer: a text area that grows with its content.
// Enter sends; Shift+Enter / Alt+Enter insert a newline.
type Input struct {
	textarea textarea.Model
	keys     keyMap
}

func NewInput(keys keyMap) Input {
	ta := textarea.New()
	ta.Placeholder = inputPlaceholder
	ta.Focus()
	ta.CharLimit = 0
	ta.ShowLineNumbers = false
	ta.SetHeight(1)
	ta.SetWidth(80)

	// Enter never reaches the textarea; only the newline chords insert a line break
	ta.KeyMap.InsertNewline = keys.Newline

	ta.SetPromptFunc(2, func(lineIdx int) string {
		if lineIdx == 0 {
			return "> "
		}
		return "| "
	})

	return Input{
		textarea: ta,
		keys:     keys,
	}
}

func (i Input) Value() string {
	return i.textarea.Value()
}

// SetValue replaces the draft unconditionally
func (i *Input) SetValue(text string) {
	i.textarea.SetValue(text)
	i.fitHeight()
}

// Submit hands out the draft and clears it. A whitespace-only draft is left
// untouched and reported as not submitted.
func (i *Input) Submit() (string, bool) {
	text := i.textarea.Value()
	if strings.TrimSpace(text) == "" {
		return "", false
	}
	i.textarea.Reset()
	i.fitHeight()
	return text, true
}

func (i Input) Update(msg tea.Msg) (Input, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if key.Matches(msg, i.keys.Send) || key.Matches(msg, i.keys.SendButton) {
			// Swallowed even when empty so the textarea never sees a bare Enter
			return i, i.submitCmd()
		}
	}

	var cmd tea.Cmd
	i.textarea, cmd = i.textarea.Update(msg)
	i.fitHeight()
	return i, cmd
}

func (i *Input) submitCmd() tea.Cmd {
	text, ok := i.Submit()
	if !ok {
		return nil
	}
	return func() tea.Msg {
		return SubmitMsg{Text: text}
	}
}

// fitHeight grows the text area with its content, up to maxInputHeight rows
func (i *Input) fitHeight() {
	lines := i.textarea.LineCount()
	if lines < 1 {
		lines = 1
	}
	if lines > maxInputHeight {
		lines = maxInputHeight
	}
	if lines != i.textarea.Height() {
		i.textarea.SetHeight(lines)
	}
}

func (i *Input) SetWidth(width int) {
	i.textarea.SetWidth(width)
}

func (i Input) Height() int {
	return i.textarea.Height()
}

func (i *Input) Focus() tea.Cmd {
	return i.textarea.Focus()
}

func (i *Input) Blur() {
	i.textarea.Blur()
}

func (i Input) View() string {
	return i.textarea.View()
}
