// Package frame drives the OPC receiver once per event-loop tick.
//
// The viewer usually draws slower than a source produces frames. To keep
// socket-buffered data from turning into runaway lag, each tick waits a short
// bounded time for the first message, then drains everything else already
// queued without waiting. Every message is applied in arrival order but only
// the state after the burst is rendered.
package frame

import (
	"time"

	"opcview/viewer/opc"
)

// FirstWait bounds how long a tick waits for the first message.
const FirstWait = 20 * time.Millisecond

// DefaultMaxBurst is the viewer's burst cap. It is four times the receive
// queue, so anything already queued when a tick starts drains in that tick.
const DefaultMaxBurst = opc.DefaultQueueSize * 4

// Receiver yields decoded messages. A zero timeout must not block.
type Receiver interface {
	Receive(timeout time.Duration) (opc.Message, bool)
}

// ApplyFunc applies one message to the pixel state and reports whether it
// changed what should be drawn.
type ApplyFunc func(m opc.Message) bool

// Stats counts scheduler activity.
type Stats struct {
	Ticks    uint64 // ticks run
	Bursts   uint64 // ticks that received at least one message
	Messages uint64 // messages received
	Applied  uint64 // messages that changed pixel state
	Redraws  uint64 // redraw requests issued
	Skipped  uint64 // applied frames that were never rendered
}

// Scheduler owns the drain policy.
type Scheduler struct {
	recv  Receiver
	apply ApplyFunc
	wait  time.Duration

	// MaxBurst caps how many messages one tick drains; 0 means a full drain.
	// A non-zero cap deliberately departs from the full drain: under a sender
	// that never lets the queue empty, the tick ends after MaxBurst messages
	// and the state reached so far is drawn as an intermediate frame.
	MaxBurst int

	stats Stats
}

// New returns a scheduler that waits FirstWait for the first message.
func New(recv Receiver, apply ApplyFunc) *Scheduler {
	return &Scheduler{recv: recv, apply: apply, wait: FirstWait}
}

// SetFirstWait overrides the bounded first-receive wait.
func (s *Scheduler) SetFirstWait(d time.Duration) { s.wait = d }

// Tick runs one receive burst and reports whether a redraw is needed.
func (s *Scheduler) Tick() bool {
	s.stats.Ticks++

	m, ok := s.recv.Receive(s.wait)
	if !ok {
		return false
	}
	s.stats.Bursts++

	applied := 0
	n := 0
	for {
		n++
		s.stats.Messages++
		if s.apply == nil || s.apply(m) {
			applied++
		}
		if s.MaxBurst > 0 && n >= s.MaxBurst {
			break
		}
		if m, ok = s.recv.Receive(0); !ok {
			break
		}
	}

	s.stats.Applied += uint64(applied)
	if applied == 0 {
		return false
	}
	s.stats.Redraws++
	s.stats.Skipped += uint64(applied - 1)
	return true
}

// Stats returns a copy of the counters.
func (s *Scheduler) Stats() Stats { return s.stats }
