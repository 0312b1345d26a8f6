package opc

import (
	"sync"
	"sync/atomic"
	"time"
)

// DefaultQueueSize bounds how many decoded messages may wait for the loop.
// A full queue blocks the socket readers, which pushes backpressure onto the
// sender instead of growing memory.
const DefaultQueueSize = 64

// Queue hands decoded messages from socket readers to the event loop.
type Queue struct {
	ch   chan Message
	done chan struct{}
	once sync.Once

	pushed atomic.Uint64
}

// NewQueue returns a queue holding up to size messages.
func NewQueue(size int) *Queue {
	if size <= 0 {
		size = DefaultQueueSize
	}
	return &Queue{
		ch:   make(chan Message, size),
		done: make(chan struct{}),
	}
}

// Push enqueues m, blocking while the queue is full. It returns false once
// the queue is closed.
func (q *Queue) Push(m Message) bool {
	select {
	case <-q.done:
		return false
	default:
	}
	select {
	case q.ch <- m:
		q.pushed.Add(1)
		return true
	case <-q.done:
		return false
	}
}

// Receive returns the next message, waiting at most timeout. A timeout of
// zero never blocks.
func (q *Queue) Receive(timeout time.Duration) (Message, bool) {
	if timeout <= 0 {
		select {
		case m := <-q.ch:
			return m, true
		default:
			return Message{}, false
		}
	}

	t := time.NewTimer(timeout)
	defer t.Stop()
	select {
	case m := <-q.ch:
		return m, true
	case <-t.C:
		return Message{}, false
	case <-q.done:
		return Message{}, false
	}
}

// Pushed returns the number of messages ever enqueued.
func (q *Queue) Pushed() uint64 { return q.pushed.Load() }

// Len returns the number of waiting messages.
func (q *Queue) Len() int { return len(q.ch) }

// Close wakes blocked producers. Messages already queued stay receivable.
func (q *Queue) Close() {
	q.once.Do(func() { close(q.done) })
}
