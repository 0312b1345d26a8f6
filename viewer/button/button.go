// Package button simulates two physical push buttons.
//
// A press raises a sentinel (by default a file that external programs poll
// for) and holds it for PressDuration. Repeated presses extend the hold, which
// mimics key auto-repeat on a held button. Releases happen on Tick, so the
// caller decides the polling cadence.
package button

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"opcview/internal/logging"
)

// PressDuration is how long a press stays live without being repeated.
const PressDuration = 250 * time.Millisecond

const (
	DefaultPathA = "/tmp/buttonA"
	DefaultPathB = "/tmp/buttonB"
)

// ID names a button.
type ID int

const (
	A ID = iota
	B
)

func (id ID) String() string {
	switch id {
	case A:
		return "A"
	case B:
		return "B"
	default:
		return fmt.Sprintf("button(%d)", int(id))
	}
}

// ForRune maps the keyboard bindings: 1, a, l press A; 0, b, r press B.
func ForRune(r rune) (ID, bool) {
	switch r {
	case '1', 'a', 'l':
		return A, true
	case '0', 'b', 'r':
		return B, true
	default:
		return 0, false
	}
}

// Sentinel is the signal a button exposes to the outside world.
type Sentinel interface {
	Name() string
	Raise() error
	Lower() error
}

// FileSentinel signals by the presence of a file.
type FileSentinel struct {
	Path string
}

func (f FileSentinel) Name() string { return f.Path }

// Raise creates (or truncates) the file.
func (f FileSentinel) Raise() error {
	fh, err := os.Create(f.Path)
	if err != nil {
		return err
	}
	return fh.Close()
}

// Lower removes the file. A missing file is not an error.
func (f FileSentinel) Lower() error {
	err := os.Remove(f.Path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

type state struct {
	s      Sentinel
	expiry time.Time // zero when released
}

// Set holds the two buttons. It is not safe for concurrent use.
type Set struct {
	log     *slog.Logger
	buttons [2]state
}

// NewSet returns a set driving sentinels a and b.
func NewSet(a, b Sentinel, log *slog.Logger) *Set {
	return &Set{
		log: logging.OrNop(log),
		buttons: [2]state{
			{s: a},
			{s: b},
		},
	}
}

// NewFileSet returns a set backed by files at pathA and pathB.
func NewFileSet(pathA, pathB string, log *slog.Logger) *Set {
	return NewSet(FileSentinel{Path: pathA}, FileSentinel{Path: pathB}, log)
}

func (s *Set) button(id ID) *state {
	if id < A || id > B {
		return nil
	}
	return &s.buttons[id]
}

// Reset lowers both sentinels and forgets any live press.
func (s *Set) Reset() {
	for i := range s.buttons {
		b := &s.buttons[i]
		b.expiry = time.Time{}
		if err := b.s.Lower(); err != nil {
			s.log.Warn("button reset failed", "button", ID(i).String(), "sentinel", b.s.Name(), "err", err)
		}
	}
}

// Press raises the sentinel for id and holds it until now+PressDuration.
// When the sentinel cannot be raised the state is left unchanged.
func (s *Set) Press(id ID, now time.Time) error {
	b := s.button(id)
	if b == nil {
		return fmt.Errorf("button: unknown %v", id)
	}
	if err := b.s.Raise(); err != nil {
		s.log.Error("button press failed", "button", id.String(), "sentinel", b.s.Name(), "err", err)
		return fmt.Errorf("button %v: %w", id, err)
	}
	if b.expiry.IsZero() {
		s.log.Info("button pressed", "button", id.String(), "sentinel", b.s.Name())
	}
	b.expiry = now.Add(PressDuration)
	return nil
}

// Tick releases every live button whose hold expired before now and returns
// how many were released.
func (s *Set) Tick(now time.Time) int {
	released := 0
	for i := range s.buttons {
		b := &s.buttons[i]
		if b.expiry.IsZero() || !b.expiry.Before(now) {
			continue
		}
		if err := b.s.Lower(); err != nil {
			s.log.Warn("button release failed", "button", ID(i).String(), "sentinel", b.s.Name(), "err", err)
		}
		s.log.Info("button released", "button", ID(i).String(), "sentinel", b.s.Name())
		b.expiry = time.Time{}
		released++
	}
	return released
}

// Live reports whether id is currently held.
func (s *Set) Live(id ID) bool {
	b := s.button(id)
	return b != nil && !b.expiry.IsZero()
}

// Expiry returns when id will be released, zero if it is not held.
func (s *Set) Expiry(id ID) time.Time {
	if b := s.button(id); b != nil {
		return b.expiry
	}
	return time.Time{}
}
