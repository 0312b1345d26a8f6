// Package camera implements pointer and keyboard navigation around the scene
// origin.
//
// A press starts orbiting, or dollying when Shift is held. Pointer motion is
// measured from the press position against the values snapshotted at the
// press, so a drag never accumulates rounding. Keys pan the world in whole
// units.
package camera

import (
	"fmt"

	"opcview/viewer/quarkgl"
)

const (
	InitialAngle     = 192.0 // degrees
	InitialElevation = -15.0 // degrees
	InitialDistance  = 38.0  // metres

	MinElevation = -89.0
	MaxElevation = 89.0
	MinDistance  = 1.0

	// DollyRate is metres of distance per pixel of vertical drag.
	DollyRate = 0.1

	FOVDegrees = 20.0
	Near       = 0.1
	Far        = 1000.0
)

// Mode is the navigation state.
type Mode uint8

const (
	Idle Mode = iota
	Orbiting
	Dollying
)

func (m Mode) String() string {
	switch m {
	case Idle:
		return "idle"
	case Orbiting:
		return "orbiting"
	case Dollying:
		return "dollying"
	default:
		return fmt.Sprintf("mode(%d)", uint8(m))
	}
}

// State is the camera placement.
type State struct {
	Angle     float64 // orbit angle about Z, unbounded
	Elevation float64 // [MinElevation, MaxElevation]
	Distance  float64 // >= MinDistance

	PanX, PanY, PanZ float64

	Width, Height int // viewport in pixels
}

// Aspect returns the viewport aspect ratio, 1 before the first resize.
func (s State) Aspect() float64 {
	if s.Width <= 0 || s.Height <= 0 {
		return 1
	}
	return float64(s.Width) / float64(s.Height)
}

// Initial returns the start-up placement.
func Initial() State {
	return State{
		Angle:     InitialAngle,
		Elevation: InitialElevation,
		Distance:  InitialDistance,
	}
}

// Navigator is the navigation state machine. It is not safe for concurrent
// use; drive it from the event loop.
type Navigator struct {
	state State
	mode  Mode

	startX, startY int
	startAngle     float64
	startElevation float64
	startDistance  float64
}

func New() *Navigator {
	return &Navigator{state: Initial()}
}

func (n *Navigator) State() State { return n.state }
func (n *Navigator) Mode() Mode   { return n.mode }

// PointerDown starts a drag at (x, y).
func (n *Navigator) PointerDown(x, y int, shift bool) {
	n.startX, n.startY = x, y
	if shift {
		n.mode = Dollying
		n.startDistance = n.state.Distance
		return
	}
	n.mode = Orbiting
	n.startAngle = n.state.Angle
	n.startElevation = n.state.Elevation
}

// PointerUp ends any drag.
func (n *Navigator) PointerUp() { n.mode = Idle }

// PointerMove updates the drag and reports whether the camera changed.
func (n *Navigator) PointerMove(x, y int) bool {
	dx := float64(x - n.startX)
	dy := float64(y - n.startY)
	switch n.mode {
	case Orbiting:
		angle := n.startAngle + dx
		el := clamp(n.startElevation+dy, MinElevation, MaxElevation)
		if angle == n.state.Angle && el == n.state.Elevation {
			return false
		}
		n.state.Angle, n.state.Elevation = angle, el
		return true
	case Dollying:
		d := n.startDistance + dy*DollyRate
		if d < MinDistance {
			d = MinDistance
		}
		if d == n.state.Distance {
			return false
		}
		n.state.Distance = d
		return true
	default:
		return false
	}
}

// PanRune applies a pan key: x/X, y/Y, z/Z move the world offset by +1/-1.
// It reports whether r is a pan key.
func (n *Navigator) PanRune(r rune) bool {
	switch r {
	case 'x':
		n.state.PanX++
	case 'X':
		n.state.PanX--
	case 'y':
		n.state.PanY++
	case 'Y':
		n.state.PanY--
	case 'z':
		n.state.PanZ++
	case 'Z':
		n.state.PanZ--
	default:
		return false
	}
	return true
}

// Resize records the viewport size and reports whether it changed.
func (n *Navigator) Resize(w, h int) bool {
	if w == n.state.Width && h == n.state.Height {
		return false
	}
	n.state.Width, n.state.Height = w, h
	return true
}

// Rig returns the renderer camera for the current state.
func (n *Navigator) Rig() quarkgl.OrbitRig {
	s := n.state
	return quarkgl.OrbitRig{
		Angle:     s.Angle,
		Elevation: s.Elevation,
		Distance:  s.Distance,
		Pan:       quarkgl.V3(quarkgl.Scalar(s.PanX), quarkgl.Scalar(s.PanY), quarkgl.Scalar(s.PanZ)),
		FOVYDeg:   FOVDegrees,
		Near:      Near,
		Far:       Far,
		Aspect:    s.Aspect(),
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
