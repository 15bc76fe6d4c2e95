package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

const revealInterval = 16 * time.Millisecond

type revealTickMsg struct {
	gen int
}

// viewportAnchor is the conversation's scroll anchor. Reveal only records
// the request; the view starts the scroll once it has re-rendered.
type viewportAnchor struct {
	requested bool
}

func (a *viewportAnchor) Reveal() {
	a.requested = true
}

// take reports whether a reveal was requested since the last call
func (a *viewportAnchor) take() bool {
	requested := a.requested
	a.requested = false
	return requested
}

func revealTick(gen int) tea.Cmd {
	return tea.Tick(revealInterval, func(time.Time) tea.Msg {
		return revealTickMsg{gen: gen}
	})
}

// smoothStep eases toward the target: a third of the remaining distance, at least one line
func smoothStep(remaining int) int {
	step := remaining / 3
	if step < 1 {
		step = 1
	}
	return step
}

func (a *ChatView) maxYOffset() int {
	off := a.viewport.TotalLineCount() - a.viewport.Height
	if off < 0 {
		return 0
	}
	return off
}

// startReveal begins a smooth scroll to the newest message. Any scroll
// animation already running is superseded.
func (a *ChatView) startReveal() tea.Cmd {
	a.revealGen++
	if a.viewport.AtBottom() {
		return nil
	}
	return revealTick(a.revealGen)
}

// stopReveal cancels a running scroll animation, e.g. when the user scrolls by hand
func (a *ChatView) stopReveal() {
	a.revealGen++
}

func (a *ChatView) advanceReveal(msg revealTickMsg) tea.Cmd {
	if msg.gen != a.revealGen || a.viewport.AtBottom() {
		return nil
	}

	remaining := a.maxYOffset() - a.viewport.YOffset
	a.viewport.SetYOffset(a.viewport.YOffset + smoothStep(remaining))

	if a.viewport.AtBottom() {
		return nil
	}
	return revealTick(msg.gen)
}
