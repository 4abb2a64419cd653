// Package mail delivers outgoing email such as magic login links.
package mail

import (
	"context"
	"log/slog"
	"sync"
)

// Message is a plain-text email.
type Message struct {
	To      string
	Subject string
	Body    string
}

// Mailer sends messages.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// LogMailer writes messages to the log instead of sending them and keeps
// them in an outbox. Used in development and tests.
type LogMailer struct {
	logger *slog.Logger

	mu     sync.Mutex
	outbox []Message
}

// NewLogMailer creates a LogMailer. A nil logger uses slog.Default().
func NewLogMailer(logger *slog.Logger) *LogMailer {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogMailer{logger: logger}
}

// Send records msg.
func (m *LogMailer) Send(ctx context.Context, msg Message) error {
	m.mu.Lock()
	m.outbox = append(m.outbox, msg)
	m.mu.Unlock()

	m.logger.InfoContext(ctx, "Email sent",
		"to", msg.To,
		"subject", msg.Subject,
		"body", msg.Body,
	)
	return nil
}

// Outbox returns a copy of the messages sent so far.
func (m *LogMailer) Outbox() []Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Message, len(m.outbox))
	copy(out, m.outbox)
	return out
}

// Last returns the most recent message and whether there was one.
func (m *LogMailer) Last() (Message, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.outbox) == 0 {
		return Message{}, false
	}
	return m.outbox[len(m.outbox)-1], true
}
