package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"chatui/conversation"
)

// Segments splits text into the lines it is displayed as.
// "a\nb\nc" is three segments; a trailing "\n" yields a final empty segment.
func Segments(text string) []string {
	return strings.Split(text, "\n")
}

// styleFor is the only place the sender affects rendering
func styleFor(sender conversation.Sender) lipgloss.Style {
	if sender == conversation.SenderUser {
		return UserStyle
	}
	return BotStyle
}

// RenderMessage renders the body of one message: each segment in the
// sender's style, joined by a line break, with no break after the last.
// A positive width wraps long segments.
func RenderMessage(msg conversation.Message, width int) string {
	style := styleFor(msg.Sender)
	if width > 0 {
		style = style.Width(width)
	}

	segments := Segments(msg.Text)
	rendered := make([]string, len(segments))
	for i, seg := range segments {
		rendered[i] = style.Render(seg)
	}
	return strings.Join(rendered, "\n")
}

func senderLabel(sender conversation.Sender) string {
	if sender == conversation.SenderUser {
		return UserStyle.Render("You")
	}
	return BotStyle.Render("Bot")
}

// RenderHistory lays out the whole conversation for the viewport. It also
// returns the line on which each message starts, so a message can be
// scrolled into view by index.
func RenderHistory(history []conversation.Message, width int, showTimestamps bool) (string, []int) {
	var content strings.Builder
	offsets := make([]int, len(history))
	line := 0

	for i, msg := range history {
		offsets[i] = line

		header := senderLabel(msg.Sender)
		if showTimestamps {
			header = DimStyle.Render(msg.Timestamp.Format("[15:04]")) + " " + header
		}

		body := RenderMessage(msg, width)

		content.WriteString(header)
		content.WriteString("\n")
		content.WriteString(body)
		content.WriteString("\n\n")

		line += 1 + lipgloss.Height(body) + 1
	}

	return content.String(), offsets
}
