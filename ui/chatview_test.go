package ui

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chatui/chatclient/testutil"
	"chatui/config"
	"chatui/conversation"
)

// runCmd executes cmd and flattens batches. Commands that have not returned
// within the wait (long timers, blocked requests) are dropped.
func runCmd(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}

	ch := make(chan tea.Msg, 1)
	go func() { ch <- cmd() }()

	select {
	case msg := <-ch:
		if batch, ok := msg.(tea.BatchMsg); ok {
			var out []tea.Msg
			for _, c := range batch {
				out = append(out, runCmd(c)...)
			}
			return out
		}
		if msg == nil {
			return nil
		}
		return []tea.Msg{msg}
	case <-time.After(300 * time.Millisecond):
		return nil
	}
}

func update(t *testing.T, a ChatView, msg tea.Msg) (ChatView, []tea.Msg) {
	t.Helper()
	model, cmd := a.Update(msg)
	view, ok := model.(ChatView)
	require.True(t, ok)
	return view, runCmd(cmd)
}

// pump feeds msgs back through Update until nothing of interest is left
func pump(t *testing.T, a ChatView, msgs []tea.Msg) ChatView {
	t.Helper()
	for i := 0; i < 200 && len(msgs) > 0; i++ {
		var next []tea.Msg
		for _, msg := range msgs {
			var out []tea.Msg
			a, out = update(t, a, msg)
			next = append(next, out...)
		}
		msgs = next
	}
	return a
}

func newTestView(t *testing.T, mock *testutil.MockClient, opts ...ViewOption) ChatView {
	t.Helper()
	a := NewChatView(&config.Config{BaseURL: "http://mock.invalid"}, mock, opts...)
	a, _ = update(t, a, tea.WindowSizeMsg{Width: 80, Height: 24})
	return a
}

func typeInto(t *testing.T, a ChatView, text string) ChatView {
	t.Helper()
	a, _ = update(t, a, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
	return a
}

// sendDraft presses Enter and returns the SubmitMsg it produced
func sendDraft(t *testing.T, a ChatView) (ChatView, []tea.Msg) {
	t.Helper()
	return update(t, a, tea.KeyMsg{Type: tea.KeyEnter})
}

func findReply(msgs []tea.Msg) (replyMsg, bool) {
	for _, msg := range msgs {
		if r, ok := msg.(replyMsg); ok {
			return r, true
		}
	}
	return replyMsg{}, false
}

func TestChatViewInitialState(t *testing.T) {
	a := newTestView(t, testutil.NewMockClient("unused"))

	history := a.History()
	require.Len(t, history, 1)
	assert.Equal(t, conversation.Greeting, history[0].Text)
	assert.Equal(t, conversation.SenderBot, history[0].Sender)
	assert.False(t, a.Pending())

	view := a.View()
	assert.Contains(t, view, conversation.Greeting)
	assert.Contains(t, view, sendButtonLabel)
}

func TestChatViewSendSuccess(t *testing.T) {
	mock := testutil.NewMockClient("Line1\nLine2")
	a := newTestView(t, mock)

	a = typeInto(t, a, "Hi")
	a, msgs := sendDraft(t, a)
	require.Equal(t, []tea.Msg{SubmitMsg{Text: "Hi"}}, msgs)

	a, msgs = update(t, a, msgs[0])
	assert.True(t, a.Pending())
	history := a.History()
	require.Len(t, history, 2)
	assert.Equal(t, "Hi", history[1].Text)
	assert.Equal(t, conversation.SenderUser, history[1].Sender)
	assert.Contains(t, a.View(), waitingText)

	a = pump(t, a, msgs)

	assert.False(t, a.Pending())
	history = a.History()
	require.Len(t, history, 3)
	assert.Equal(t, "Line1\nLine2", history[2].Text)
	assert.Equal(t, conversation.SenderBot, history[2].Sender)
	assert.Equal(t, []string{"Hi"}, mock.Calls())

	view := a.View()
	assert.NotContains(t, view, waitingText)
	assert.Contains(t, view, "Line1")
	assert.Contains(t, view, "Line2")
}

func TestChatViewSendFailure(t *testing.T) {
	mock := testutil.NewFailingMockClient(errors.New("boom"))
	a := newTestView(t, mock)

	a = typeInto(t, a, "Hi")
	a, msgs := sendDraft(t, a)
	a, msgs = update(t, a, msgs[0])
	a = pump(t, a, msgs)

	history := a.History()
	require.Len(t, history, 3)
	assert.Equal(t, conversation.FailedReply, history[2].Text)
	assert.False(t, a.Pending())
}

func TestChatViewEmptyDraftIsNoop(t *testing.T) {
	mock := testutil.NewMockClient("unused")
	a := newTestView(t, mock)

	a = typeInto(t, a, "   ")
	a, msgs := sendDraft(t, a)

	assert.Empty(t, msgs)
	assert.Len(t, a.History(), 1)
	assert.Empty(t, mock.Calls())
}

func TestChatViewSubmitWhilePending(t *testing.T) {
	mock := testutil.NewMockClient("first reply")
	a := newTestView(t, mock)

	a = typeInto(t, a, "first")
	a, msgs := sendDraft(t, a)
	a, msgs = update(t, a, msgs[0])

	// Hold the reply back so the request stays pending
	reply, ok := findReply(msgs)
	require.True(t, ok)
	require.True(t, a.Pending())

	a = typeInto(t, a, "second")
	a, _ = sendDraft(t, a)

	assert.Equal(t, "second", a.input.Value(), "draft survives a refused send")
	assert.Equal(t, stillWaitingFlash, a.flash)
	assert.Len(t, a.History(), 2)

	a, _ = update(t, a, reply)
	assert.False(t, a.Pending())
	assert.Len(t, a.History(), 3)
	assert.Equal(t, []string{"first"}, mock.Calls())
}

func TestChatViewRacedSubmitRestoresDraft(t *testing.T) {
	a := newTestView(t, testutil.NewMockClient("ok"))

	a, _ = update(t, a, SubmitMsg{Text: "first"})
	require.True(t, a.Pending())

	a, _ = update(t, a, SubmitMsg{Text: "second"})

	assert.Equal(t, "second", a.input.Value())
	assert.Len(t, a.History(), 2)
}

func TestChatViewRevealScrollsToBottom(t *testing.T) {
	mock := testutil.NewMockClient("a\nb\nc\nd\ne\nf\ng\nh")
	a := newTestView(t, mock)

	for i := 0; i < 4; i++ {
		a = typeInto(t, a, "message")
		var msgs []tea.Msg
		a, msgs = sendDraft(t, a)
		a = pump(t, a, msgs)
	}

	require.Len(t, a.History(), 9)
	assert.Greater(t, a.viewport.TotalLineCount(), a.viewport.Height)
	assert.True(t, a.viewport.AtBottom())
}

func TestChatViewManualScrollStopsReveal(t *testing.T) {
	a := newTestView(t, testutil.NewMockClient("x"))
	a.viewport.SetContent(stringOfLines(100))
	gen := a.revealGen

	a, _ = update(t, a, tea.KeyMsg{Type: tea.KeyPgUp})

	assert.NotEqual(t, gen, a.revealGen)
	a, msgs := update(t, a, revealTickMsg{gen: gen})
	assert.Empty(t, msgs, "stale animation ticks are ignored")
}

func stringOfLines(n int) string {
	out := make([]byte, 0, n*2)
	for i := 0; i < n; i++ {
		out = append(out, 'x', '\n')
	}
	return string(out)
}

func TestChatViewCopyLastReply(t *testing.T) {
	var copied string
	a := newTestView(t, testutil.NewMockClient("copy me\nplease"), WithClipboard(func(s string) error {
		copied = s
		return nil
	}))

	a = typeInto(t, a, "Hi")
	a, msgs := sendDraft(t, a)
	a = pump(t, a, msgs)

	a, _ = update(t, a, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("y"), Alt: true})

	assert.Equal(t, "copy me\nplease", copied)
	assert.Equal(t, "Copied last reply", a.flash)
}

func TestChatViewCopyFailure(t *testing.T) {
	a := newTestView(t, testutil.NewMockClient("x"), WithClipboard(func(string) error {
		return errors.New("no clipboard")
	}))

	a, _ = update(t, a, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("y"), Alt: true})

	assert.Contains(t, a.flash, "no clipboard")
}

func TestChatViewSendButtonClick(t *testing.T) {
	mock := testutil.NewMockClient("clicked")
	a := newTestView(t, mock)
	a = typeInto(t, a, "via mouse")

	a, msgs := update(t, a, tea.MouseMsg{X: 2, Y: 23, Button: tea.MouseButtonLeft, Action: tea.MouseActionPress})
	a = pump(t, a, msgs)

	assert.Equal(t, []string{"via mouse"}, mock.Calls())
	assert.Empty(t, a.input.Value())
	assert.Equal(t, "clicked", a.History()[2].Text)
}

func TestChatViewClickOutsideButton(t *testing.T) {
	mock := testutil.NewMockClient("unused")
	a := newTestView(t, mock)
	a = typeInto(t, a, "draft")

	a, msgs := update(t, a, tea.MouseMsg{X: 40, Y: 23, Button: tea.MouseButtonLeft, Action: tea.MouseActionPress})

	assert.Empty(t, msgs)
	assert.Equal(t, "draft", a.input.Value())
	assert.Empty(t, mock.Calls())
}

func TestChatViewSearchJump(t *testing.T) {
	// Long replies so every offset is reachable by the viewport
	a := newTestView(t, testutil.NewMockClient("reply\n1\n2\n3\n4\n5\n6\n7\n8"))
	for _, text := range []string{"alpha", "bravo", "charlie"} {
		a = typeInto(t, a, text)
		var msgs []tea.Msg
		a, msgs = sendDraft(t, a)
		a = pump(t, a, msgs)
	}

	a, _ = update(t, a, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("f"), Alt: true})
	require.True(t, a.search.active)

	a, _ = update(t, a, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("brav")})
	idx, ok := a.search.selectedIndex()
	require.True(t, ok)
	assert.Equal(t, "bravo", a.History()[idx].Text)

	a, _ = update(t, a, tea.KeyMsg{Type: tea.KeyEnter})

	assert.False(t, a.search.active)
	assert.Equal(t, a.offsets[idx], a.viewport.YOffset)
	assert.Len(t, a.History(), 7, "Enter in search never sends")
}

func TestChatViewHelpToggle(t *testing.T) {
	a := newTestView(t, testutil.NewMockClient("x"))
	helpKey := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("h"), Alt: true}

	a, _ = update(t, a, helpKey)
	assert.True(t, a.showHelp)
	assert.Contains(t, a.View(), "Keyboard Shortcuts")

	a, _ = update(t, a, helpKey)
	assert.False(t, a.showHelp)
}

func TestChatViewPing(t *testing.T) {
	mock := testutil.NewMockClient("x")
	mock.PingFunc = func(ctx context.Context) error { return errors.New("down") }
	a := newTestView(t, mock)

	msgs := runCmd(a.pingCmd())
	a = pump(t, a, msgs)

	assert.Equal(t, reachOffline, a.reach)
}

func TestChatViewQuitAbortsInflight(t *testing.T) {
	release := make(chan struct{})
	defer close(release)
	mock := testutil.NewBlockingMockClient("never", release)
	a := newTestView(t, mock)

	a, _ = update(t, a, SubmitMsg{Text: "hi"})
	require.True(t, a.Pending())

	conv := a.conv
	_, cmd := a.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())

	// The request was dispatched before the abort
	assert.Eventually(t, func() bool {
		return len(mock.Calls()) == 1
	}, time.Second, 10*time.Millisecond)
	assert.True(t, conv.Pending(), "settling is the view's job, not the abort's")
}
