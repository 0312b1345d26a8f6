// Package scene builds the list of renderable shapes from a layout document.
//
// A layout is a sequence of records. Each record binds one shape (a point or
// a line) to a pixel index:
//
//	[
//	  {"point": [0, 0, 1]},
//	  {"index": 100, "line": [[0, 0, 0], [0, 0, 2]], "color": [1, 0, 0]},
//	  {"point": [1, 0, 1]}
//	]
//
// Pixel indices are assigned by a running counter that starts at 0 and
// advances once per record that yields a shape. An "index" key resets the
// counter before its record is evaluated. In the example above the shapes are
// bound to 0, 100 and 101.
package scene

import (
	"log/slog"

	"opcview/internal/logging"

	"gopkg.in/yaml.v3"
)

// Default capacities.
const (
	DefaultMaxShapes = 30000
	DefaultMaxIndex  = 30000
)

// Vec3 is a world-space position in metres.
type Vec3 struct {
	X, Y, Z float64
}

// Color is an RGB color with unit-interval channels.
type Color struct {
	R, G, B float64
}

// White is the color used when a record has no usable color.
var White = Color{R: 1, G: 1, B: 1}

// Kind discriminates shape variants.
type Kind uint8

const (
	KindPoint Kind = iota + 1
	KindLine
)

func (k Kind) String() string {
	switch k {
	case KindPoint:
		return "point"
	case KindLine:
		return "line"
	default:
		return "unknown"
	}
}

// Shape is a point or a line bound to one pixel.
//
// A point uses A only. A line runs from A to B.
type Shape struct {
	Kind  Kind
	Index int
	Color Color
	A     Vec3
	B     Vec3
}

// Model is the ordered, immutable list of shapes.
type Model struct {
	shapes   []Shape
	span     int
	rejected int
}

// Len returns the number of shapes.
func (m *Model) Len() int {
	if m == nil {
		return 0
	}
	return len(m.shapes)
}

// At returns shape i.
func (m *Model) At(i int) Shape { return m.shapes[i] }

// Span returns one past the highest bound pixel index.
func (m *Model) Span() int {
	if m == nil {
		return 0
	}
	return m.span
}

// Rejected returns the number of well-formed records that were dropped
// because they exceeded a capacity.
func (m *Model) Rejected() int {
	if m == nil {
		return 0
	}
	return m.rejected
}

// Options bounds the model.
type Options struct {
	MaxShapes int // 0 means DefaultMaxShapes
	MaxIndex  int // exclusive upper bound on pixel indices; 0 means DefaultMaxIndex
	Logger    *slog.Logger
}

// Build walks the document records and returns the model. It fails only on a
// nil document; a document with no valid records yields an empty model.
func Build(doc *Document, opts Options) (*Model, error) {
	if doc == nil {
		return nil, ErrNilDocument
	}
	if opts.MaxShapes <= 0 {
		opts.MaxShapes = DefaultMaxShapes
	}
	if opts.MaxIndex <= 0 {
		opts.MaxIndex = DefaultMaxIndex
	}
	log := logging.OrNop(opts.Logger)

	records := doc.records()
	m := &Model{shapes: make([]Shape, 0, min(len(records), opts.MaxShapes))}

	next := 0
	for ri, rec := range records {
		rec = resolve(rec)

		if n := field(rec, "index"); n != nil {
			if v, ok := number(n); ok && v >= 0 {
				// Anything past capacity is pinned there so the int conversion
				// cannot wrap.
				next = opts.MaxIndex
				if v < float64(opts.MaxIndex) {
					next = int(v)
				}
				log.Debug("resetting index", "record", ri, "index", next)
			} else {
				log.Warn("ignoring invalid index", "record", ri, "value", n.Value)
			}
		}

		s, ok := shapeOf(rec)
		if !ok {
			continue
		}
		s.Index = next
		next++

		if len(m.shapes) >= opts.MaxShapes {
			m.rejected += countShapes(records[ri:])
			log.Warn("scene exceeds shape capacity; ignoring remaining records",
				"capacity", opts.MaxShapes, "rejected", m.rejected)
			break
		}
		if s.Index < 0 || s.Index >= opts.MaxIndex {
			m.rejected++
			log.Warn("shape index exceeds pixel capacity", "record", ri, "index", s.Index, "capacity", opts.MaxIndex)
			continue
		}

		m.shapes = append(m.shapes, s)
		if s.Index+1 > m.span {
			m.span = s.Index + 1
		}
	}
	return m, nil
}

// shapeOf extracts the shape a record declares, without its index. A well
// formed point takes precedence over a line.
func shapeOf(rec *yaml.Node) (Shape, bool) {
	var s Shape
	if x, y, z, ok := triple(field(rec, "point")); ok {
		s.Kind = KindPoint
		s.A = Vec3{x, y, z}
	} else if a, b, ok := lineOf(field(rec, "line")); ok {
		s.Kind = KindLine
		s.A = a
		s.B = b
	} else {
		return Shape{}, false
	}

	s.Color = White
	if r, g, b, ok := triple(field(rec, "color")); ok {
		s.Color = Color{R: clamp01(r), G: clamp01(g), B: clamp01(b)}
	}
	return s, true
}

func lineOf(n *yaml.Node) (Vec3, Vec3, bool) {
	n = resolve(n)
	if n == nil || n.Kind != yaml.SequenceNode || len(n.Content) < 2 {
		return Vec3{}, Vec3{}, false
	}
	x0, y0, z0, ok := triple(n.Content[0])
	if !ok {
		return Vec3{}, Vec3{}, false
	}
	x1, y1, z1, ok := triple(n.Content[1])
	if !ok {
		return Vec3{}, Vec3{}, false
	}
	return Vec3{x0, y0, z0}, Vec3{x1, y1, z1}, true
}

func countShapes(records []*yaml.Node) int {
	n := 0
	for _, rec := range records {
		if _, ok := shapeOf(resolve(rec)); ok {
			n++
		}
	}
	return n
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
