package quarkgl

import "testing"

func newTestTarget(w, h int) *RGBATarget {
	return &RGBATarget{Pix: make([]byte, w*h*4), Stride: w * 4, W: w, H: h}
}

func frontScene() *Scene {
	s := CreateScene(2)
	s.Camera.Position = V3(0, -10, 0)
	s.Camera.FOVYRad = Radians(20)
	return s
}

var (
	red  = RGB(0xFF, 0, 0)
	grey = RGB(0x66, 0x66, 0x66)
)

func TestRenderPointDisc(t *testing.T) {
	tgt := newTestTarget(64, 64)
	s := frontScene()
	s.AddPoint(Point{Pos: V3(0, 0, 0), Radius: 0.5, Color: red})

	r := NewRenderer(64, 64, true)
	r.Render(tgt, s)

	if got := tgt.At(32, 32); got != red {
		t.Fatalf("centre = %+v, want red", got)
	}
	if got := tgt.At(0, 0); got == red {
		t.Fatal("corner painted")
	}
}

func TestRenderPointBehindEyeSkipped(t *testing.T) {
	tgt := newTestTarget(32, 32)
	s := frontScene()
	s.AddPoint(Point{Pos: V3(0, -20, 0), Radius: 5, Color: red})

	NewRenderer(32, 32, true).Render(tgt, s)
	for y := 0; y < 32; y++ {
		for x := 0; x < 32; x++ {
			if tgt.At(x, y) == red {
				t.Fatalf("pixel (%d,%d) painted by a point behind the eye", x, y)
			}
		}
	}
}

func TestRenderSegmentClipsAtNearPlane(t *testing.T) {
	tgt := newTestTarget(64, 64)
	s := frontScene()
	s.AddSegment(Segment{A: V3(0, -20, 0), B: V3(1, 0, 0), Color: red})

	r := NewRenderer(64, 64, true)
	r.LineWidth = 2
	r.Render(tgt, s)

	painted := 0
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			if tgt.At(x, y) == red {
				painted++
			}
		}
	}
	if painted == 0 {
		t.Fatal("clipped segment drew nothing")
	}
}

func TestRenderSegmentFullyBehindEye(t *testing.T) {
	tgt := newTestTarget(16, 16)
	s := frontScene()
	s.AddSegment(Segment{A: V3(-1, -20, 0), B: V3(1, -30, 0), Radius: 1, Color: red})

	NewRenderer(16, 16, true).Render(tgt, s)
	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			if tgt.At(x, y) == red {
				t.Fatal("segment behind the eye was drawn")
			}
		}
	}
}

func TestRenderMeshBothWindings(t *testing.T) {
	verts := []Vec3{V3(-1, 0, -1), V3(1, 0, -1), V3(0, 0, 1)}
	for _, idx := range [][]uint32{{0, 1, 2}, {0, 2, 1}} {
		tgt := newTestTarget(64, 64)
		s := frontScene()
		s.AddMesh(Mesh{Vertices: verts, Indices: idx, Color: grey})
		NewRenderer(64, 64, true).Render(tgt, s)
		if got := tgt.At(32, 32); got != grey {
			t.Fatalf("indices %v: centre = %+v, want grey", idx, got)
		}
	}
}

func TestRenderDepthOrder(t *testing.T) {
	tri := func(y Scalar) Mesh {
		return Mesh{
			Vertices: []Vec3{V3(-3, y, -3), V3(3, y, -3), V3(0, y, 3)},
			Indices:  []uint32{0, 1, 2},
			Color:    grey,
		}
	}

	// Mesh behind the point: the point wins even though meshes draw first.
	tgt := newTestTarget(64, 64)
	s := frontScene()
	s.AddMesh(tri(5))
	s.AddPoint(Point{Pos: V3(0, 0, 0), Radius: 0.2, Color: red})
	NewRenderer(64, 64, true).Render(tgt, s)
	if got := tgt.At(32, 32); got != red {
		t.Fatalf("centre = %+v, want red", got)
	}

	// Mesh in front of the point hides it.
	tgt = newTestTarget(64, 64)
	s = frontScene()
	s.AddMesh(tri(-5))
	s.AddPoint(Point{Pos: V3(0, 0, 0), Radius: 0.2, Color: red})
	NewRenderer(64, 64, true).Render(tgt, s)
	if got := tgt.At(32, 32); got != grey {
		t.Fatalf("centre = %+v, want grey", got)
	}
}

func TestClearPrimitives(t *testing.T) {
	s := CreateScene(0)
	s.AddPoint(Point{})
	s.AddSegment(Segment{})
	s.ClearPrimitives()
	if p, g := s.Primitives(); p != 0 || g != 0 {
		t.Fatalf("primitives = %d, %d after clear", p, g)
	}
}

func TestRenderUsesCameraAspect(t *testing.T) {
	point := Point{Pos: V3(3, 0, 0), Radius: 0.3, Color: red}

	tgt := newTestTarget(64, 64)
	s := frontScene()
	s.AddPoint(point)
	NewRenderer(64, 64, true).Render(tgt, s)
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			if tgt.At(x, y) == red {
				t.Fatalf("pixel (%d,%d) painted at the target aspect", x, y)
			}
		}
	}

	tgt = newTestTarget(64, 64)
	s = frontScene()
	OrbitRig{Distance: 10, FOVYDeg: 20, Aspect: 4}.Apply(s)
	s.AddPoint(point)
	NewRenderer(64, 64, true).Render(tgt, s)
	if got := tgt.At(45, 32); got != red {
		t.Fatalf("(45,32) = %+v, want red with a 4:1 camera aspect", got)
	}
}
