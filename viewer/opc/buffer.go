package opc

// DefaultCapacity is the number of pixels a Buffer holds by default.
const DefaultCapacity = 30000

// Idle is the value every pixel holds until the first frame arrives.
var Idle = Pixel{R: 1, G: 1, B: 1}

// Buffer holds the latest color of every pixel.
//
// It is owned by the event loop and is not safe for concurrent use.
type Buffer struct {
	px []Pixel
}

// NewBuffer returns a buffer of the given capacity filled with Idle.
func NewBuffer(capacity int) *Buffer {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	b := &Buffer{px: make([]Pixel, capacity)}
	for i := range b.px {
		b.px[i] = Idle
	}
	return b
}

// Len returns the capacity.
func (b *Buffer) Len() int { return len(b.px) }

// At returns pixel i, or Idle when i is out of range.
func (b *Buffer) At(i int) Pixel {
	if i < 0 || i >= len(b.px) {
		return Idle
	}
	return b.px[i]
}

// Apply writes a set-pixels message starting at index 0. The channel does
// not select a sub-range. Other commands are ignored. It reports whether the
// buffer was written and how many pixels did not fit.
func (b *Buffer) Apply(m Message) (applied bool, dropped int) {
	if m.Command != CmdSetPixels {
		return false, 0
	}
	n := copy(b.px, m.Pixels)
	return true, len(m.Pixels) - n
}
