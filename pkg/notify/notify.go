// Package notify carries the transient success/error notices shown after an
// action (the toast area of the pages, stderr lines in the terminal). A Queue
// collects notices during a request and is drained by the next render.
package notify

import "sync"

// Kind classifies a notification.
type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
	KindInfo    Kind = "info"
)

// Notification is a single notice with an optional second line.
type Notification struct {
	Kind        Kind   `json:"kind"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

// Notifier receives notifications from domain components.
type Notifier interface {
	Notify(Notification)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(Notification)

// Notify calls f(n).
func (f NotifierFunc) Notify(n Notification) {
	if f != nil {
		f(n)
	}
}

// Success builds a success notification.
func Success(title, description string) Notification {
	return Notification{Kind: KindSuccess, Title: title, Description: description}
}

// Error builds an error notification.
func Error(title, description string) Notification {
	return Notification{Kind: KindError, Title: title, Description: description}
}

// Discard drops every notification.
var Discard Notifier = NotifierFunc(func(Notification) {})

// Queue is a FIFO of pending notifications safe for concurrent use.
type Queue struct {
	mu    sync.Mutex
	items []Notification
}

// Notify appends n to the queue.
func (q *Queue) Notify(n Notification) {
	q.mu.Lock()
	q.items = append(q.items, n)
	q.mu.Unlock()
}

// Drain returns and clears the pending notifications in arrival order.
func (q *Queue) Drain() []Notification {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := q.items
	q.items = nil
	return out
}

// Peek returns a copy of the pending notifications without clearing them.
func (q *Queue) Peek() []Notification {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]Notification(nil), q.items...)
}

// Len returns the number of pending notifications.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}
