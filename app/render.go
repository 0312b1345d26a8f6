package app

import (
	"opcview/viewer/intensity"
	"opcview/viewer/opc"
	"opcview/viewer/quarkgl"
	"opcview/viewer/scene"
)

// ShapeThickness is the diameter of drawn points and lines, in metres.
const ShapeThickness = 0.18

// axisLineWidth is the pixel width of the coordinate axes.
const axisLineWidth = 2

var (
	axisStub = quarkgl.Unit(0.3, 0.3, 0.3)
	axisX    = quarkgl.Unit(0.3, 0, 0)
	axisY    = quarkgl.Unit(0, 0.3, 0)
	axisZ    = quarkgl.Unit(0, 0, 0.3)
)

// sceneCanvas queues scene shapes as renderer primitives.
type sceneCanvas struct {
	s *quarkgl.Scene
}

func (c sceneCanvas) Point(p scene.Vec3, col scene.Color) {
	c.s.AddPoint(quarkgl.Point{
		Pos:    vec(p),
		Radius: ShapeThickness / 2,
		Color:  quarkgl.Unit(col.R, col.G, col.B),
	})
}

func (c sceneCanvas) Line(a, b scene.Vec3, col scene.Color) {
	c.s.AddSegment(quarkgl.Segment{
		A:      vec(a),
		B:      vec(b),
		Radius: ShapeThickness / 2,
		Color:  quarkgl.Unit(col.R, col.G, col.B),
	})
}

func vec(p scene.Vec3) quarkgl.Vec3 {
	return quarkgl.V3(quarkgl.Scalar(p.X), quarkgl.Scalar(p.Y), quarkgl.Scalar(p.Z))
}

// addAxes queues grey unit stubs from the origin, then dim red, green and
// blue axes from 1 to 10 along X, Y and Z.
func addAxes(s *quarkgl.Scene) {
	o := quarkgl.V3(0, 0, 0)
	x, y, z := quarkgl.V3(1, 0, 0), quarkgl.V3(0, 1, 0), quarkgl.V3(0, 0, 1)
	s.AddSegment(quarkgl.Segment{A: o, B: x, Color: axisStub})
	s.AddSegment(quarkgl.Segment{A: o, B: y, Color: axisStub})
	s.AddSegment(quarkgl.Segment{A: o, B: z, Color: axisStub})
	s.AddSegment(quarkgl.Segment{A: x, B: quarkgl.V3(10, 0, 0), Color: axisX})
	s.AddSegment(quarkgl.Segment{A: y, B: quarkgl.V3(0, 10, 0), Color: axisY})
	s.AddSegment(quarkgl.Segment{A: z, B: quarkgl.V3(0, 0, 10), Color: axisZ})
}

// pixelColors colors shapes from the live pixel buffer through the
// intensity table.
type pixelColors struct {
	pixels *opc.Buffer
	table  *intensity.Table
}

func (p pixelColors) ShapeColor(s *scene.Shape) scene.Color {
	px := p.pixels.At(s.Index)
	r, g, b := p.table.RGB(px.R, px.G, px.B)
	return scene.Color{R: r, G: g, B: b}
}

// render redraws the whole frame into the framebuffer and presents it.
func (v *Viewer) render() {
	fb := v.fb
	v.target = quarkgl.RGBATarget{
		Pix:    fb.Buffer(),
		Stride: fb.StrideBytes(),
		W:      fb.Width(),
		H:      fb.Height(),
	}

	v.nav.Rig().Apply(v.world)
	v.world.ClearPrimitives()
	addAxes(v.world)
	v.model.Draw(sceneCanvas{s: v.world}, v.colors)

	v.renderer.Render(&v.target, v.world)
	v.drawHUD()
	v.renders++

	if err := fb.Present(); err != nil {
		v.log.Warn("present failed", "err", err)
	}
}
