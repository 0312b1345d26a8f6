package app

import (
	"opcview/hal"
	"opcview/viewer/button"
)

// keyRunes maps navigation keys onto the pan runes.
var keyRunes = map[hal.KeyCode]rune{
	hal.KeyUp:       'x',
	hal.KeyDown:     'X',
	hal.KeyRight:    'y',
	hal.KeyLeft:     'Y',
	hal.KeyPageUp:   'z',
	hal.KeyPageDown: 'Z',
}

func (v *Viewer) handleKeys() error {
	in := v.h.Input()
	if in == nil || in.Keyboard() == nil {
		return nil
	}
	ch := in.Keyboard().Events()
	for {
		select {
		case ev := <-ch:
			if err := v.handleKey(ev); err != nil {
				return err
			}
		default:
			return nil
		}
	}
}

func (v *Viewer) handleKey(ev hal.KeyEvent) error {
	if !ev.Press {
		return nil
	}
	r := ev.Rune
	switch ev.Code {
	case hal.KeyEscape:
		return hal.ErrQuit
	case hal.KeyUnknown:
	default:
		r = keyRunes[ev.Code]
	}

	switch {
	case r == 'q' || r == 0x1b:
		return hal.ErrQuit
	case v.nav.PanRune(r):
		v.dirty = true
	default:
		if id, ok := button.ForRune(r); ok {
			if err := v.buttons.Press(id, v.h.Time().Now()); err == nil {
				v.dirty = true
			}
		}
	}
	return nil
}

func (v *Viewer) handlePointer() {
	in := v.h.Input()
	if in == nil || in.Pointer() == nil {
		return
	}
	ch := in.Pointer().Events()
	for {
		select {
		case ev := <-ch:
			switch ev.Action {
			case hal.PointerDown:
				v.nav.PointerDown(ev.X, ev.Y, ev.Shift)
			case hal.PointerUp:
				v.nav.PointerUp()
			case hal.PointerMove:
				if v.nav.PointerMove(ev.X, ev.Y) {
					v.dirty = true
				}
			}
		default:
			return
		}
	}
}
