package ui

import (
	"errors"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"chatui/config"
	"chatui/conversation"
)

const wheelLines = 3

func (a ChatView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.ready = true
		a.layout()
		return a, nil

	case SubmitMsg:
		return a, a.submit(msg.Text)

	case replyMsg:
		return a, a.settle(msg.result)

	case revealTickMsg:
		return a, a.advanceReveal(msg)

	case spinner.TickMsg:
		if !a.conv.Pending() {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		a.refreshContent()
		return a, cmd

	case pingResultMsg:
		if msg.err != nil {
			config.Log.Debug().Err(msg.err).Msg("backend unreachable")
			a.reach = reachOffline
		} else {
			a.reach = reachOnline
		}
		return a, nil

	case flashClearMsg:
		if msg.gen == a.flashGen {
			a.flash = ""
		}
		return a, nil

	case tea.MouseMsg:
		return a.handleMouse(msg)

	case tea.KeyMsg:
		return a.handleKey(msg)
	}

	if a.search.active {
		var cmd tea.Cmd
		a.search.input, cmd = a.search.input.Update(msg)
		return a, cmd
	}
	return a.updateInput(msg)
}

// submit hands a draft to the conversation. While a reply is pending the
// draft goes back into the composer untouched.
func (a *ChatView) submit(text string) tea.Cmd {
	req, err := a.conv.Submit(text)
	switch {
	case errors.Is(err, conversation.ErrEmpty):
		return nil
	case errors.Is(err, conversation.ErrPending):
		if a.input.Value() == "" {
			a.input.SetValue(text)
			a.layout()
		}
		return a.setFlash(stillWaitingFlash)
	case err != nil:
		config.Log.Error().Err(err).Msg("submit failed")
		return nil
	}

	a.spinner = spinner.New(spinner.WithSpinner(a.spinner.Spinner), spinner.WithStyle(a.spinner.Style))
	return tea.Batch(runRequest(req), a.spinner.Tick, a.afterMutation())
}

func (a *ChatView) settle(res conversation.Result) tea.Cmd {
	if err := a.conv.Settle(res); err != nil {
		config.Log.Debug().Err(err).Str("request_id", res.RequestID).Msg("dropped reply")
		return nil
	}
	return a.afterMutation()
}

func (a ChatView) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, a.keys.Quit) {
		a.conv.Abort()
		return a, tea.Quit
	}

	if a.showHelp {
		if key.Matches(msg, a.keys.Help) || key.Matches(msg, a.keys.CloseSearch) {
			a.showHelp = false
		}
		return a, nil
	}

	if a.search.active {
		return a.handleSearchKey(msg)
	}

	switch {
	case key.Matches(msg, a.keys.Help):
		a.showHelp = true
		return a, nil

	case key.Matches(msg, a.keys.Search):
		a.search.open(a.conv.History())
		a.input.Blur()
		return a, textinput.Blink

	case key.Matches(msg, a.keys.Copy):
		return a, a.copyLastReply()

	case key.Matches(msg, a.keys.PageUp):
		a.stopReveal()
		a.viewport.PageUp()
		return a, nil

	case key.Matches(msg, a.keys.PageDown):
		a.stopReveal()
		a.viewport.PageDown()
		return a, nil

	case key.Matches(msg, a.keys.ScrollUp):
		a.stopReveal()
		a.viewport.ScrollUp(1)
		return a, nil

	case key.Matches(msg, a.keys.ScrollDown):
		a.stopReveal()
		a.viewport.ScrollDown(1)
		return a, nil

	case key.Matches(msg, a.keys.GotoBottom):
		a.stopReveal()
		a.viewport.GotoBottom()
		return a, nil

	case key.Matches(msg, a.keys.Send), key.Matches(msg, a.keys.SendButton):
		if a.conv.Pending() {
			// The draft stays in the composer
			return a, a.setFlash(stillWaitingFlash)
		}
	}

	return a.updateInput(msg)
}

func (a ChatView) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, a.keys.CloseSearch):
		a.search.close()
		return a, a.input.Focus()

	case key.Matches(msg, a.keys.SearchUp):
		a.search.move(-1)
		return a, nil

	case key.Matches(msg, a.keys.SearchDown):
		a.search.move(1)
		return a, nil

	case key.Matches(msg, a.keys.SearchJump):
		idx, ok := a.search.selectedIndex()
		a.search.close()
		if ok && idx < len(a.offsets) {
			a.stopReveal()
			a.viewport.SetYOffset(a.offsets[idx])
		}
		return a, a.input.Focus()
	}

	var cmd tea.Cmd
	a.search.input, cmd = a.search.input.Update(msg)
	a.search.refresh(a.conv.History())
	return a, cmd
}

func (a ChatView) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if a.showHelp || a.search.active {
		return a, nil
	}

	switch {
	case msg.Button == tea.MouseButtonWheelUp:
		a.stopReveal()
		a.viewport.ScrollUp(wheelLines)
		return a, nil

	case msg.Button == tea.MouseButtonWheelDown:
		a.stopReveal()
		a.viewport.ScrollDown(wheelLines)
		return a, nil

	case msg.Button == tea.MouseButtonLeft && msg.Action == tea.MouseActionPress && a.onSendButton(msg.X, msg.Y):
		if a.conv.Pending() {
			return a, a.setFlash(stillWaitingFlash)
		}
		text, ok := a.input.Submit()
		if !ok {
			return a, nil
		}
		a.layout()
		return a, a.submit(text)
	}

	return a, nil
}

func (a *ChatView) copyLastReply() tea.Cmd {
	msg, ok := a.conv.LastFrom(conversation.SenderBot)
	if !ok {
		return a.setFlash("Nothing to copy")
	}
	if err := a.copyToClipboard(msg.Text); err != nil {
		config.Log.Error().Err(err).Msg("clipboard write failed")
		return a.setFlash("Copy failed: " + err.Error())
	}
	return a.setFlash("Copied last reply")
}

func (a ChatView) updateInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	before := a.input.Height()

	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)

	if a.input.Height() != before {
		a.layout()
	}
	return a, cmd
}
