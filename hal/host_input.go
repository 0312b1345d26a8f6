package hal

type hostKeyboard struct {
	ch chan KeyEvent
}

func newHostKeyboard() *hostKeyboard {
	return &hostKeyboard{ch: make(chan KeyEvent, 64)}
}

func (k *hostKeyboard) Events() <-chan KeyEvent { return k.ch }

// emit drops the event when the consumer is behind.
func (k *hostKeyboard) emit(ev KeyEvent) {
	select {
	case k.ch <- ev:
	default:
	}
}

type hostPointer struct {
	ch chan PointerEvent

	down       bool
	lastX      int
	lastY      int
	havePrevXY bool
}

func newHostPointer() *hostPointer {
	return &hostPointer{ch: make(chan PointerEvent, 64)}
}

func (p *hostPointer) Events() <-chan PointerEvent { return p.ch }

func (p *hostPointer) emit(ev PointerEvent) {
	select {
	case p.ch <- ev:
	default:
	}
}

// track turns a polled button/cursor sample into events. Moves are reported
// only while the button is held.
func (p *hostPointer) track(x, y int, pressed, released, shift bool) {
	if pressed {
		p.down = true
		p.emit(PointerEvent{Action: PointerDown, X: x, Y: y, Shift: shift})
	}
	if p.down && p.havePrevXY && (x != p.lastX || y != p.lastY) && !pressed {
		p.emit(PointerEvent{Action: PointerMove, X: x, Y: y, Shift: shift})
	}
	if released {
		p.down = false
		p.emit(PointerEvent{Action: PointerUp, X: x, Y: y, Shift: shift})
	}
	p.lastX, p.lastY, p.havePrevXY = x, y, true
}
