package mailer

import (
	"fmt"
	"sync"
)

// Memory collects messages in process. Used in tests and for local runs
// without a mail server; FailFor injects per-address delivery failures.
type Memory struct {
	mu      sync.Mutex
	sent    []Message
	FailFor map[string]bool
}

func NewMemory() *Memory {
	return &Memory{FailFor: map[string]bool{}}
}

func (m *Memory) Send(msg *Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailFor[msg.To] {
		return fmt.Errorf("delivery to %s refused", msg.To)
	}
	m.sent = append(m.sent, *msg)
	return nil
}

// Sent returns a copy of everything delivered so far.
func (m *Memory) Sent() []Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Message, len(m.sent))
	copy(out, m.sent)
	return out
}

var _ Transport = (*Memory)(nil)
