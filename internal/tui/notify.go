package tui

import (
	"sync"

	"github.com/felixgeelhaar/eduplay-console/internal/ux"
)

// toast is one notification line.
type toast struct {
	text    string
	failure bool
}

// noteQueue collects controller notifications raised on command goroutines
// until the event loop drains them.
type noteQueue struct {
	mu    sync.Mutex
	notes []toast
}

func (q *noteQueue) Success(msg string) {
	q.push(toast{text: msg})
}

func (q *noteQueue) Failure(msg string, err error) {
	text := msg
	if d := ux.Describe(err); d != "" {
		text += ": " + d
	}
	q.push(toast{text: text, failure: true})
}

func (q *noteQueue) push(t toast) {
	q.mu.Lock()
	q.notes = append(q.notes, t)
	q.mu.Unlock()
}

func (q *noteQueue) drain() []toast {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := q.notes
	q.notes = nil
	return out
}
