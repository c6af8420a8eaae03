// Package notifications is the toast plumbing for the checkout form:
// the submission controller publishes user-facing events here and any
// number of observers (the polling HTTP endpoint, loggers, tests)
// receive them in publish order.
package notifications

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

type Level string

const (
	LevelError   Level = "error"
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
)

// Notification is one toast. Sticky toasts (the "processing payment"
// one) stay visible until explicitly dismissed by a terminal transition.
type Notification struct {
	ID        string    `json:"id"`
	SessionID string    `json:"session_id"`
	Level     Level     `json:"level"`
	Message   string    `json:"message"`
	Sticky    bool      `json:"sticky"`
	CreatedAt time.Time `json:"created_at"`
}

// Observer is notified of every published and dismissed toast.
type Observer interface {
	Notify(n Notification)
	Dismissed(sessionID, id string)
}

// Center fans notifications out to observers and keeps the pending set
// per session for polling clients.
type Center struct {
	mu        sync.Mutex
	pending   map[string][]Notification
	observers []Observer
}

func NewCenter() *Center {
	return &Center{pending: make(map[string][]Notification)}
}

func (c *Center) Subscribe(o Observer) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.observers = append(c.observers, o)
}

// Publish records a toast for the session and notifies observers.
// It returns the toast id so sticky toasts can be dismissed later.
func (c *Center) Publish(sessionID string, level Level, message string, sticky bool) string {
	n := Notification{
		ID:        uuid.NewString(),
		SessionID: sessionID,
		Level:     level,
		Message:   message,
		Sticky:    sticky,
		CreatedAt: time.Now(),
	}

	c.mu.Lock()
	c.pending[sessionID] = append(c.pending[sessionID], n)
	observers := make([]Observer, len(c.observers))
	copy(observers, c.observers)
	c.mu.Unlock()

	for _, o := range observers {
		o.Notify(n)
	}
	return n.ID
}

// Dismiss removes a toast from the session's pending set.
func (c *Center) Dismiss(sessionID, id string) {
	c.mu.Lock()
	kept := c.pending[sessionID][:0]
	for _, n := range c.pending[sessionID] {
		if n.ID != id {
			kept = append(kept, n)
		}
	}
	if len(kept) == 0 {
		delete(c.pending, sessionID)
	} else {
		c.pending[sessionID] = kept
	}
	observers := make([]Observer, len(c.observers))
	copy(observers, c.observers)
	c.mu.Unlock()

	for _, o := range observers {
		o.Dismissed(sessionID, id)
	}
}

// Drain returns the session's pending toasts in publish order and clears
// the non-sticky ones; sticky toasts stay pending until dismissed.
func (c *Center) Drain(sessionID string) []Notification {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := c.pending[sessionID]
	var sticky []Notification
	for _, n := range out {
		if n.Sticky {
			sticky = append(sticky, n)
		}
	}
	if len(sticky) == 0 {
		delete(c.pending, sessionID)
	} else {
		c.pending[sessionID] = sticky
	}
	return out
}

// Forget drops all pending toasts for a session. Used when sessions expire.
func (c *Center) Forget(sessionID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.pending, sessionID)
}
