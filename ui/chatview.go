package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"chatui/config"
	"chatui/conversation"
)

const (
	appName           = "chatui"
	sendButtonLabel   = "[ Send ]"
	waitingText       = "Waiting for response..."
	stillWaitingFlash = "Still waiting for the previous reply"
	flashDuration     = 3 * time.Second
	pingTimeout       = 5 * time.Second
)

// Backend is what the chat view needs from the server connection
type Backend interface {
	conversation.Client
	Ping(ctx context.Context) error
	BaseURL() string
}

type reachability int

const (
	reachUnknown reachability = iota
	reachOnline
	reachOffline
)

type replyMsg struct {
	result conversation.Result
}

type pingResultMsg struct {
	err error
}

type flashClearMsg struct {
	gen int
}

// ChatView is the single screen of the app: the conversation, the composer
// and a status bar with the send button.
type ChatView struct {
	conv    *conversation.Conversation
	backend Backend
	anchor  *viewportAnchor

	input    Input
	viewport viewport.Model
	spinner  spinner.Model
	help     help.Model
	keys     keyMap
	search   searchState

	// Line offset of each history entry in the rendered content
	offsets []int

	width  int
	height int
	ready  bool

	showHelp       bool
	showTimestamps bool
	reach          reachability

	flash    string
	flashGen int

	revealGen int

	copyToClipboard func(string) error
}

type ViewOption func(*ChatView)

// WithClipboard replaces the system clipboard writer
func WithClipboard(write func(string) error) ViewOption {
	return func(a *ChatView) {
		a.copyToClipboard = write
	}
}

func NewChatView(cfg *config.Config, backend Backend, opts ...ViewOption) ChatView {
	keys := defaultKeyMap()
	anchor := &viewportAnchor{}

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(accentColor)

	a := ChatView{
		conv:            conversation.New(backend, conversation.WithScrollAnchor(anchor)),
		backend:         backend,
		anchor:          anchor,
		input:           NewInput(keys),
		viewport:        viewport.New(80, 20),
		spinner:         s,
		help:            help.New(),
		keys:            keys,
		search:          newSearchState(),
		showTimestamps:  cfg.ShowTimestamps,
		copyToClipboard: clipboard.WriteAll,
	}

	for _, opt := range opts {
		opt(&a)
	}

	// The greeting was appended before the first render; nothing to scroll yet
	a.anchor.take()

	return a
}

func (a ChatView) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, a.pingCmd())
}

// Abort cancels the in-flight request, if any
func (a ChatView) Abort() {
	a.conv.Abort()
}

func (a ChatView) History() []conversation.Message {
	return a.conv.History()
}

func (a ChatView) Pending() bool {
	return a.conv.Pending()
}

func (a ChatView) pingCmd() tea.Cmd {
	backend := a.backend
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
		defer cancel()
		return pingResultMsg{err: backend.Ping(ctx)}
	}
}

func runRequest(req *conversation.Request) tea.Cmd {
	return func() tea.Msg {
		return replyMsg{result: req.Run()}
	}
}

func (a *ChatView) setFlash(text string) tea.Cmd {
	a.flash = text
	a.flashGen++
	gen := a.flashGen
	return tea.Tick(flashDuration, func(time.Time) tea.Msg {
		return flashClearMsg{gen: gen}
	})
}

// layout sizes the viewport around the title, composer and status bar
func (a *ChatView) layout() {
	if a.width == 0 {
		return
	}
	wasAtBottom := a.viewport.AtBottom()

	a.input.SetWidth(a.width)
	a.help.Width = a.width

	vpHeight := a.height - 2 - a.input.Height()
	if vpHeight < 1 {
		vpHeight = 1
	}
	a.viewport.Width = a.width
	a.viewport.Height = vpHeight

	a.refreshContent()
	if wasAtBottom {
		a.viewport.GotoBottom()
	}
}

func (a *ChatView) contentWidth() int {
	w := a.width - 2
	if w < 10 {
		w = 10
	}
	return w
}

// refreshContent re-renders the history into the viewport, keeping the scroll position
func (a *ChatView) refreshContent() {
	content, offsets := RenderHistory(a.conv.History(), a.contentWidth(), a.showTimestamps)
	if a.conv.Pending() {
		content += a.spinner.View() + " " + DimStyle.Render(waitingText)
	}
	a.offsets = offsets
	a.viewport.SetContent(content)
}

// afterMutation re-renders and, if the conversation asked for it, starts the scroll to the newest message
func (a *ChatView) afterMutation() tea.Cmd {
	a.refreshContent()
	if a.anchor.take() {
		return a.startReveal()
	}
	return nil
}

func (a ChatView) View() string {
	if !a.ready {
		return "Initializing..."
	}

	if a.showHelp {
		return a.renderHelpModal(a.width, a.height)
	}
	if a.search.active {
		return renderSearch(a.search, a.conv.History(), a.width, a.height)
	}

	sections := []string{
		a.renderTitle(),
		a.viewport.View(),
		a.input.View(),
		a.renderStatusBar(),
	}
	return strings.Join(sections, "\n")
}

func (a ChatView) renderTitle() string {
	var dot string
	switch a.reach {
	case reachOnline:
		dot = lipgloss.NewStyle().Foreground(successColor).Render("●")
	case reachOffline:
		dot = ErrorStyle.Render("●")
	default:
		dot = DimStyle.Render("●")
	}

	name := TitleStyle.Render(appName)
	avail := a.width - lipgloss.Width(name) - 4
	url := ""
	if avail > 0 {
		url = runewidth.Truncate(a.backend.BaseURL(), avail, "…")
	}

	return fmt.Sprintf("%s  %s %s", name, DimStyle.Render(url), dot)
}

func (a ChatView) renderStatusBar() string {
	button := SendButtonStyle.Render(sendButtonLabel)

	var right string
	if a.flash != "" {
		right = FlashStyle.Render(a.flash)
	} else {
		right = a.help.ShortHelpView(a.keys.ShortHelp())
	}

	return lipgloss.NewStyle().MaxWidth(a.width).Render(button + "  " + right)
}

// onSendButton reports whether a mouse position falls on the send button
func (a ChatView) onSendButton(x, y int) bool {
	return y == a.height-1 && x >= 0 && x < lipgloss.Width(sendButtonLabel)
}
