package hal

import "sync"

type hostFramebuffer struct {
	mu     sync.Mutex
	width  int
	height int
	stride int
	buf    []byte

	// dirty is set by Present and cleared when the window uploads a frame.
	dirty bool

	// pending holds a resize requested by the window layout; it is applied
	// between steps.
	pending Size
}

func newHostFramebuffer(width, height int) *hostFramebuffer {
	f := &hostFramebuffer{}
	f.resize(width, height)
	return f
}

func (f *hostFramebuffer) Width() int          { return f.width }
func (f *hostFramebuffer) Height() int         { return f.height }
func (f *hostFramebuffer) Format() PixelFormat { return PixelFormatRGBA8888 }
func (f *hostFramebuffer) StrideBytes() int    { return f.stride }
func (f *hostFramebuffer) Buffer() []byte      { return f.buf }

func (f *hostFramebuffer) Present() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.dirty = true
	return nil
}

func (f *hostFramebuffer) ClearRGB(r, g, b uint8) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for i := 0; i+3 < len(f.buf); i += 4 {
		f.buf[i] = r
		f.buf[i+1] = g
		f.buf[i+2] = b
		f.buf[i+3] = 0xFF
	}
}

func (f *hostFramebuffer) resize(width, height int) {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	f.width = width
	f.height = height
	f.stride = width * 4
	if n := f.stride * height; cap(f.buf) >= n {
		f.buf = f.buf[:n]
	} else {
		f.buf = make([]byte, n)
	}
	f.dirty = true
}

// requestSize records a size to apply before the next step.
func (f *hostFramebuffer) requestSize(width, height int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pending = Size{Width: width, Height: height}
}

// applyPending resizes to the last requested size and reports whether the
// size changed.
func (f *hostFramebuffer) applyPending() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	p := f.pending
	f.pending = Size{}
	if p.Width <= 0 || p.Height <= 0 || (p.Width == f.width && p.Height == f.height) {
		return false
	}
	f.resize(p.Width, p.Height)
	return true
}

// snapshot copies the frame into dst when a new frame was presented. It
// returns false when nothing changed since the last snapshot.
func (f *hostFramebuffer) snapshot(dst []byte) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.dirty {
		return false
	}
	copy(dst, f.buf)
	f.dirty = false
	return true
}
