// Package conversation owns the chat history and the request lifecycle.
//
// A Conversation is either idle or awaiting a reply:
//
//	idle --Submit(text)--> awaiting   user message appended, Request returned
//	awaiting --Settle(ok)--> idle     bot reply appended
//	awaiting --Settle(err)--> idle    FailedReply appended
//
// Submit is refused while a reply is awaited, so at most one request is ever
// outstanding. The type is not safe for concurrent use: every method must be
// called from the UI event loop. Only Request.Run may run elsewhere.
package conversation

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"chatui/config"
)

// Greeting seeds every new conversation
const Greeting = "Hello! How can I assist you today?"

// FailedReply is appended when a request settles with an error
const FailedReply = "Error: Failed to get response."

var (
	ErrEmpty   = errors.New("conversation: message is empty")
	ErrPending = errors.New("conversation: a reply is still pending")
	ErrStale   = errors.New("conversation: result does not belong to the in-flight request")
)

// Client sends one message to the chat server and returns its reply
type Client interface {
	Send(ctx context.Context, message string) (string, error)
}

// idClient is implemented by clients that can tag a call with the request id
type idClient interface {
	SendWithID(ctx context.Context, requestID, message string) (string, error)
}

// ScrollAnchor brings the newest message into view. Reveal is called after
// every history change; implementations are expected to defer the actual
// scroll until the view has re-rendered.
type ScrollAnchor interface {
	Reveal()
}

type Conversation struct {
	client   Client
	anchor   ScrollAnchor
	now      func() time.Time
	newID    func() string
	history  []Message
	pending  bool
	inflight *Request
}

type Option func(*Conversation)

func WithScrollAnchor(anchor ScrollAnchor) Option {
	return func(c *Conversation) {
		c.anchor = anchor
	}
}

func WithClock(now func() time.Time) Option {
	return func(c *Conversation) {
		c.now = now
	}
}

// New starts an idle conversation holding only the greeting
func New(client Client, opts ...Option) *Conversation {
	c := &Conversation{
		client: client,
		now:    time.Now,
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(c)
	}

	c.history = []Message{{
		Text:      Greeting,
		Sender:    SenderBot,
		Timestamp: c.now(),
	}}

	return c
}

// SetScrollAnchor attaches the anchor once the view that owns it exists
func (c *Conversation) SetScrollAnchor(anchor ScrollAnchor) {
	c.anchor = anchor
}

// History returns a copy of the messages in display order
func (c *Conversation) History() []Message {
	out := make([]Message, len(c.history))
	copy(out, c.history)
	return out
}

func (c *Conversation) Len() int {
	return len(c.history)
}

func (c *Conversation) Pending() bool {
	return c.pending
}

// Last returns the newest message
func (c *Conversation) Last() (Message, bool) {
	if len(c.history) == 0 {
		return Message{}, false
	}
	return c.history[len(c.history)-1], true
}

// LastFrom returns the newest message authored by sender
func (c *Conversation) LastFrom(sender Sender) (Message, bool) {
	for i := len(c.history) - 1; i >= 0; i-- {
		if c.history[i].Sender == sender {
			return c.history[i], true
		}
	}
	return Message{}, false
}

// Submit appends text as a user message and returns the Request that will
// fetch the reply. The request is not started; the caller runs it.
// Whitespace-only text is refused with ErrEmpty and a submit while a reply
// is pending with ErrPending. Neither changes any state.
func (c *Conversation) Submit(text string) (*Request, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmpty
	}
	if c.pending {
		config.Log.Debug().Str("request_id", c.inflight.ID()).Msg("submit refused: reply pending")
		return nil, ErrPending
	}

	req := newRequest(c.newID(), text, c.client)
	c.pending = true
	c.inflight = req

	c.append(Message{
		Text:      text,
		Sender:    SenderUser,
		Timestamp: c.now(),
	})

	config.Log.Debug().Str("request_id", req.ID()).Int("chars", len(text)).Msg("message submitted")

	return req, nil
}

// Settle records the outcome of the in-flight request and returns to idle.
// A result from any other request is refused with ErrStale.
func (c *Conversation) Settle(res Result) error {
	if !c.pending || c.inflight == nil || res.RequestID != c.inflight.ID() {
		config.Log.Warn().Str("request_id", res.RequestID).Msg("stale result ignored")
		return ErrStale
	}

	text := res.Reply
	if res.Err != nil {
		text = FailedReply
	}

	c.append(Message{
		Text:      text,
		Sender:    SenderBot,
		Timestamp: c.now(),
	})
	c.pending = false
	c.inflight = nil

	return nil
}

// Abort cancels the in-flight request, if any. Its result still has to be
// settled for the conversation to leave the pending state.
func (c *Conversation) Abort() {
	if c.inflight != nil {
		c.inflight.Cancel()
	}
}

func (c *Conversation) append(msg Message) {
	c.history = append(c.history, msg)
	if c.anchor != nil {
		c.anchor.Reveal()
	}
}
