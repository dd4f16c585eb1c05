// Package notify carries transient user feedback ("toasts") from the builder to the page.
package notify

import "sync"

// Notification is one toast.
type Notification struct {
	Title       string
	Description string
}

// Sink accepts notifications. Callers never wait on or inspect the result.
type Sink interface {
	Notify(title, description string)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(title, description string)

func (f SinkFunc) Notify(title, description string) { f(title, description) }

// Discard drops every notification.
var Discard Sink = SinkFunc(func(string, string) {})

// Queue buffers notifications until the next page render drains them.
// The oldest entries are dropped once Limit is reached.
type Queue struct {
	mu    sync.Mutex
	items []Notification
	limit int
}

const defaultLimit = 5

func NewQueue(limit int) *Queue {
	if limit <= 0 {
		limit = defaultLimit
	}
	return &Queue{limit: limit}
}

func (q *Queue) Notify(title, description string) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.items = append(q.items, Notification{Title: title, Description: description})
	if over := len(q.items) - q.limit; over > 0 {
		q.items = append(q.items[:0:0], q.items[over:]...)
	}
}

// Drain returns the pending notifications and empties the queue.
func (q *Queue) Drain() []Notification {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := q.items
	q.items = nil
	return out
}
