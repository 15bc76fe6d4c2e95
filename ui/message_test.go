package ui

import (
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chatui/conversation"
)

func TestSegments(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"single line", "hello", []string{"hello"}},
		{"three lines", "a\nb\nc", []string{"a", "b", "c"}},
		{"trailing newline", "a\n", []string{"a", ""}},
		{"blank middle line", "a\n\nb", []string{"a", "", "b"}},
		{"empty", "", []string{""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Segments(tt.text))
		})
	}
}

func TestRenderMessagePreservesLineBreaks(t *testing.T) {
	msg := conversation.Message{Text: "a\nb\nc", Sender: conversation.SenderBot}

	out := RenderMessage(msg, 0)

	assert.Equal(t, 2, strings.Count(out, "\n"), "three segments need exactly two breaks")
	assert.False(t, strings.HasSuffix(out, "\n"), "no break after the last segment")
	assert.Equal(t, 3, lipgloss.Height(out))
}

func TestRenderMessageSingleLine(t *testing.T) {
	msg := conversation.Message{Text: "hello", Sender: conversation.SenderUser}

	out := RenderMessage(msg, 0)

	assert.NotContains(t, out, "\n")
	assert.Contains(t, out, "hello")
}

func TestRenderMessageStylePerSender(t *testing.T) {
	user := conversation.Message{Text: "same", Sender: conversation.SenderUser}
	bot := conversation.Message{Text: "same", Sender: conversation.SenderBot}

	assert.Equal(t, UserStyle.Render("same"), RenderMessage(user, 0))
	assert.Equal(t, BotStyle.Render("same"), RenderMessage(bot, 0))

	assert.Equal(t, UserStyle.GetForeground(), styleFor(conversation.SenderUser).GetForeground())
	assert.Equal(t, BotStyle.GetForeground(), styleFor(conversation.SenderBot).GetForeground())
	assert.NotEqual(t, styleFor(conversation.SenderUser).GetForeground(), styleFor(conversation.SenderBot).GetForeground())
}

func TestRenderHistoryOffsets(t *testing.T) {
	history := []conversation.Message{
		{Text: "Hello!", Sender: conversation.SenderBot},
		{Text: "one\ntwo", Sender: conversation.SenderUser},
		{Text: "reply", Sender: conversation.SenderBot},
	}

	content, offsets := RenderHistory(history, 0, false)

	require.Len(t, offsets, 3)
	// header + body + blank line per message
	assert.Equal(t, []int{0, 3, 7}, offsets)

	lines := strings.Split(content, "\n")
	assert.Contains(t, lines[offsets[1]], "You")
	assert.Contains(t, lines[offsets[1]+1], "one")
	assert.Contains(t, lines[offsets[1]+2], "two")
	assert.Contains(t, lines[offsets[2]], "Bot")
}

func TestRenderHistoryTimestamps(t *testing.T) {
	ts := time.Date(2024, 5, 1, 9, 7, 0, 0, time.Local)
	history := []conversation.Message{{Text: "hi", Sender: conversation.SenderUser, Timestamp: ts}}

	with, _ := RenderHistory(history, 0, true)
	without, _ := RenderHistory(history, 0, false)

	assert.Contains(t, with, "[09:07]")
	assert.NotContains(t, without, "[09:07]")
}
