package game

import "time"

// Channel classifies who is speaking in the shop log.
type Channel uint8

const (
	ChannelSystem   Channel = iota // shop events, scores
	ChannelCustomer                // the scripted customer
	ChannelStudio                  // the player
)

// Message is one entry in the shop log.
type Message struct {
	Timestamp time.Time
	Channel   Channel
	Sender    string
	Text      string
}

// Log is the conversation history between the customer and the studio.
// It holds only state; the UI layer decides presentation.
type Log struct {
	messages    []Message
	maxMessages int

	// OnMessage fires for every appended entry.
	OnMessage func(Message)
}

// NewLog creates a log that retains the most recent entries.
func NewLog() *Log {
	return &Log{
		messages:    make([]Message, 0, 100),
		maxMessages: 100,
	}
}

// Add appends a message, evicting the oldest past the retention limit.
func (l *Log) Add(channel Channel, sender, text string) {
	msg := Message{
		Timestamp: time.Now(),
		Channel:   channel,
		Sender:    sender,
		Text:      text,
	}
	l.messages = append(l.messages, msg)
	if len(l.messages) > l.maxMessages {
		l.messages = l.messages[1:]
	}
	if l.OnMessage != nil {
		l.OnMessage(msg)
	}
}

// System appends a shop event message.
func (l *Log) System(text string) {
	l.Add(ChannelSystem, "Shop", text)
}

// Messages returns the retained history, oldest first.
func (l *Log) Messages() []Message {
	return l.messages
}

// Clear removes all messages.
func (l *Log) Clear() {
	l.messages = l.messages[:0]
}
