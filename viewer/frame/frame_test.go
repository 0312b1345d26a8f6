package frame

import (
	"testing"
	"time"

	"opcview/viewer/opc"
)

type fakeReceiver struct {
	queue    []opc.Message
	timeouts []time.Duration
}

func (f *fakeReceiver) Receive(timeout time.Duration) (opc.Message, bool) {
	f.timeouts = append(f.timeouts, timeout)
	if len(f.queue) == 0 {
		return opc.Message{}, false
	}
	m := f.queue[0]
	f.queue = f.queue[1:]
	return m, true
}

func frameOf(v uint8, n int) opc.Message {
	px := make([]opc.Pixel, n)
	for i := range px {
		px[i] = opc.Pixel{R: v, G: v, B: v}
	}
	return opc.Message{Pixels: px}
}

func TestTickIdleIsNoop(t *testing.T) {
	r := &fakeReceiver{}
	calls := 0
	s := New(r, func(opc.Message) bool { calls++; return true })

	if s.Tick() {
		t.Fatal("Tick() = true with no messages")
	}
	if calls != 0 {
		t.Fatalf("apply called %d times", calls)
	}
	if len(r.timeouts) != 1 || r.timeouts[0] != FirstWait {
		t.Fatalf("timeouts = %v, want [%v]", r.timeouts, FirstWait)
	}
}

func TestTickDrainsBurstInOrder(t *testing.T) {
	buf := opc.NewBuffer(4)
	r := &fakeReceiver{queue: []opc.Message{
		frameOf(1, 4),
		frameOf(2, 2),
		frameOf(3, 1),
	}}
	var order []uint8
	s := New(r, func(m opc.Message) bool {
		order = append(order, m.Pixels[0].R)
		applied, _ := buf.Apply(m)
		return applied
	})

	if !s.Tick() {
		t.Fatal("Tick() = false, want one redraw")
	}
	if len(order) != 3 || order[0] != 1 || order[1] != 2 || order[2] != 3 {
		t.Fatalf("apply order = %v", order)
	}

	want := []uint8{3, 2, 1, 1}
	for i, w := range want {
		if got := buf.At(i).R; got != w {
			t.Fatalf("pixel %d = %d, want %d", i, got, w)
		}
	}

	// First wait bounded, every drain call non-blocking.
	if r.timeouts[0] != FirstWait {
		t.Fatalf("first timeout = %v", r.timeouts[0])
	}
	for i, d := range r.timeouts[1:] {
		if d != 0 {
			t.Fatalf("drain timeout %d = %v, want 0", i+1, d)
		}
	}

	st := s.Stats()
	if st.Redraws != 1 || st.Messages != 3 || st.Skipped != 2 || st.Bursts != 1 {
		t.Fatalf("stats = %+v", st)
	}

	if s.Tick() {
		t.Fatal("second Tick() = true with empty queue")
	}
}

func TestTickIgnoredMessagesDoNotRedraw(t *testing.T) {
	r := &fakeReceiver{queue: []opc.Message{{Command: opc.CmdSystemExclusive}}}
	buf := opc.NewBuffer(1)
	s := New(r, func(m opc.Message) bool {
		applied, _ := buf.Apply(m)
		return applied
	})
	if s.Tick() {
		t.Fatal("Tick() = true for an ignored command")
	}
	if st := s.Stats(); st.Messages != 1 || st.Redraws != 0 {
		t.Fatalf("stats = %+v", st)
	}
}

func TestTickMaxBurst(t *testing.T) {
	r := &fakeReceiver{queue: []opc.Message{frameOf(1, 1), frameOf(2, 1), frameOf(3, 1)}}
	s := New(r, func(opc.Message) bool { return true })
	s.MaxBurst = 2

	if !s.Tick() {
		t.Fatal("Tick() = false")
	}
	if len(r.queue) != 1 {
		t.Fatalf("%d messages left, want 1", len(r.queue))
	}
	if !s.Tick() {
		t.Fatal("second Tick() = false")
	}
}

func TestTickWithQueue(t *testing.T) {
	q := opc.NewQueue(8)
	for i := 1; i <= 5; i++ {
		q.Push(frameOf(uint8(i), 1))
	}
	buf := opc.NewBuffer(1)
	s := New(q, func(m opc.Message) bool {
		applied, _ := buf.Apply(m)
		return applied
	})
	if !s.Tick() {
		t.Fatal("Tick() = false")
	}
	if buf.At(0).R != 5 {
		t.Fatalf("pixel = %d, want 5", buf.At(0).R)
	}
	if q.Len() != 0 {
		t.Fatalf("queue not drained: %d left", q.Len())
	}
}

// refillingReceiver never runs dry, like a sender that outpaces the viewer.
type refillingReceiver struct{ n int }

func (r *refillingReceiver) Receive(time.Duration) (opc.Message, bool) {
	r.n++
	return frameOf(uint8(r.n), 1), true
}

func TestTickDefaultMaxBurst(t *testing.T) {
	q := opc.NewQueue(opc.DefaultQueueSize)
	for i := 0; i < opc.DefaultQueueSize; i++ {
		if !q.Push(frameOf(uint8(i), 1)) {
			t.Fatalf("Push %d failed", i)
		}
	}
	s := New(q, func(opc.Message) bool { return true })
	s.MaxBurst = DefaultMaxBurst
	if !s.Tick() {
		t.Fatal("Tick() = false")
	}
	if q.Len() != 0 {
		t.Fatalf("full queue left %d messages", q.Len())
	}
	if st := s.Stats(); st.Redraws != 1 || st.Messages != opc.DefaultQueueSize {
		t.Fatalf("stats = %+v", st)
	}

	r := &refillingReceiver{}
	s = New(r, func(opc.Message) bool { return true })
	s.MaxBurst = DefaultMaxBurst
	if !s.Tick() {
		t.Fatal("Tick() = false under a steady sender")
	}
	if r.n != DefaultMaxBurst {
		t.Fatalf("received %d messages, want the cap %d", r.n, DefaultMaxBurst)
	}
}
