package scene

// Canvas receives colored primitives.
type Canvas interface {
	Point(p Vec3, c Color)
	Line(a, b Vec3, c Color)
}

// Colorer picks the display color of a shape.
type Colorer interface {
	ShapeColor(s *Shape) Color
}

// ColorerFunc adapts a function to Colorer.
type ColorerFunc func(s *Shape) Color

func (f ColorerFunc) ShapeColor(s *Shape) Color { return f(s) }

// DocumentColors colors every shape with its document color.
var DocumentColors Colorer = ColorerFunc(func(s *Shape) Color { return s.Color })

// Draw emits every shape in declaration order.
func (m *Model) Draw(c Canvas, colors Colorer) {
	if m == nil || c == nil {
		return
	}
	if colors == nil {
		colors = DocumentColors
	}
	for i := range m.shapes {
		s := &m.shapes[i]
		col := colors.ShapeColor(s)
		switch s.Kind {
		case KindPoint:
			c.Point(s.A, col)
		case KindLine:
			c.Line(s.A, s.B, col)
		}
	}
}
