package services

import (
	"sync"
	"task-lab/domain"
	"task-lab/errors"
)

type fakeConn struct {
	id       string
	mu       sync.Mutex
	received []domain.Outbound
	broken   bool
	done     chan struct{}
	once     sync.Once
}

func newFakeConn(id string) *fakeConn {
	return &fakeConn{id: id, done: make(chan struct{})}
}

func (c *fakeConn) ID() string { return c.id }

func (c *fakeConn) Send(payload domain.Outbound) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.broken {
		return errors.ErrConnectionClosed
	}
	c.received = append(c.received, payload)
	return nil
}

func (c *fakeConn) Done() <-chan struct{} { return c.done }

func (c *fakeConn) Close() {
	c.once.Do(func() {
		c.Break()
		close(c.done)
	})
}

func (c *fakeConn) Break() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.broken = true
}

func (c *fakeConn) Received() []domain.Outbound {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]domain.Outbound(nil), c.received...)
}

// chatMessages keeps the chat messages received, in order.
func (c *fakeConn) chatMessages() []domain.ChatMessage {
	var messages []domain.ChatMessage
	for _, payload := range c.Received() {
		if msg, ok := payload.(domain.ChatMessage); ok {
			messages = append(messages, msg)
		}
	}
	return messages
}
