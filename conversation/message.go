package conversation

import "time"

// Sender identifies who authored a message
type Sender string

const (
	SenderUser Sender = "user"
	SenderBot  Sender = "bot"
)

// Message is one entry of the conversation history. Values are copied out
// of the history, so a Message can never be mutated in place.
type Message struct {
	Text      string
	Sender    Sender
	Timestamp time.Time
}
