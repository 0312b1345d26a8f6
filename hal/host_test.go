package hal

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"
)

func TestHeadlessStopsAfterTicks(t *testing.T) {
	h := newHost(Size{Width: 8, Height: 4}, &bytes.Buffer{})
	steps := 0
	err := runHeadless(context.Background(), h, func(HAL) (func() error, error) {
		return func() error { steps++; return nil }, nil
	}, HeadlessConfig{Hz: 1000, Ticks: 3, StepBudget: 2})
	if err != nil {
		t.Fatalf("runHeadless: %v", err)
	}
	if steps != 6 {
		t.Fatalf("steps = %d, want 6", steps)
	}
}

func TestHeadlessQuit(t *testing.T) {
	h := newHost(Size{Width: 8, Height: 4}, &bytes.Buffer{})
	err := runHeadless(context.Background(), h, func(HAL) (func() error, error) {
		return func() error { return ErrQuit }, nil
	}, HeadlessConfig{Hz: 1000})
	if err != nil {
		t.Fatalf("runHeadless() = %v, want nil on quit", err)
	}
}

func TestHeadlessStartupError(t *testing.T) {
	h := newHost(Size{Width: 8, Height: 4}, &bytes.Buffer{})
	boom := errors.New("boom")
	err := runHeadless(context.Background(), h, func(HAL) (func() error, error) {
		return nil, boom
	}, HeadlessConfig{})
	if !errors.Is(err, boom) {
		t.Fatalf("runHeadless() = %v, want %v", err, boom)
	}
}

func TestHeadlessCancel(t *testing.T) {
	h := newHost(Size{Width: 8, Height: 4}, &bytes.Buffer{})
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := runHeadless(ctx, h, func(HAL) (func() error, error) {
		return func() error { return nil }, nil
	}, HeadlessConfig{Hz: 100})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("runHeadless() = %v, want deadline exceeded", err)
	}
}

func TestFramebufferResize(t *testing.T) {
	fb := newHostFramebuffer(4, 2)
	if fb.StrideBytes() != 16 || len(fb.Buffer()) != 32 {
		t.Fatalf("stride=%d len=%d", fb.StrideBytes(), len(fb.Buffer()))
	}
	fb.requestSize(4, 2)
	if fb.applyPending() {
		t.Fatal("applyPending() = true for the same size")
	}
	fb.requestSize(10, 5)
	if !fb.applyPending() {
		t.Fatal("applyPending() = false")
	}
	if fb.Width() != 10 || fb.Height() != 5 || len(fb.Buffer()) != 200 {
		t.Fatalf("after resize: %dx%d len=%d", fb.Width(), fb.Height(), len(fb.Buffer()))
	}
}

func TestFramebufferSnapshotOnlyWhenPresented(t *testing.T) {
	fb := newHostFramebuffer(2, 1)
	dst := make([]byte, 8)
	fb.snapshot(dst) // initial frame

	if fb.snapshot(dst) {
		t.Fatal("snapshot() = true without Present")
	}
	fb.ClearRGB(1, 2, 3)
	fb.Present()
	if !fb.snapshot(dst) {
		t.Fatal("snapshot() = false after Present")
	}
	if !bytes.Equal(dst, []byte{1, 2, 3, 0xFF, 1, 2, 3, 0xFF}) {
		t.Fatalf("dst = %v", dst)
	}
}

func TestPointerTrack(t *testing.T) {
	p := newHostPointer()
	p.track(5, 5, false, false, false) // hover: nothing
	p.track(6, 5, true, false, true)
	p.track(6, 5, false, false, true) // no motion
	p.track(9, 7, false, false, true)
	p.track(9, 7, false, true, false)
	p.track(20, 20, false, false, false) // hover after release

	want := []PointerEvent{
		{Action: PointerDown, X: 6, Y: 5, Shift: true},
		{Action: PointerMove, X: 9, Y: 7, Shift: true},
		{Action: PointerUp, X: 9, Y: 7},
	}
	for i, w := range want {
		select {
		case got := <-p.Events():
			if got != w {
				t.Fatalf("event %d = %+v, want %+v", i, got, w)
			}
		default:
			t.Fatalf("missing event %d", i)
		}
	}
	select {
	case ev := <-p.Events():
		t.Fatalf("unexpected event %+v", ev)
	default:
	}
}

func TestLoggerWritesLines(t *testing.T) {
	var buf bytes.Buffer
	h := newHost(Size{Width: 1, Height: 1}, &buf)
	h.Logger().WriteLineString("a")
	h.Logger().WriteLineBytes([]byte("b"))
	if buf.String() != "a\nb\n" {
		t.Fatalf("log = %q", buf.String())
	}
}
