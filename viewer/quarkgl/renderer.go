package quarkgl

import "math"

// Renderer is a fixed-pipeline software renderer.
//
// Create it once and reuse it to avoid allocations.
type Renderer struct {
	Depth      bool
	ClearColor Color

	// LineWidth is the pixel width of zero-radius segments.
	LineWidth int

	depthBuf []float32
}

// NewRenderer creates a renderer for a given maximum target size.
//
// If enableDepth is true, a depth buffer of size w*h is allocated.
func NewRenderer(w, h int, enableDepth bool) *Renderer {
	r := &Renderer{
		Depth:      enableDepth,
		ClearColor: RGB(0, 0, 0),
		LineWidth:  1,
	}
	if enableDepth && w > 0 && h > 0 {
		r.depthBuf = make([]float32, w*h)
	}
	return r
}

func (r *Renderer) EnableDepth(on bool, w, h int) {
	r.Depth = on
	if !on {
		r.depthBuf = nil
		return
	}
	if w <= 0 || h <= 0 {
		r.depthBuf = nil
		return
	}
	if cap(r.depthBuf) < w*h {
		r.depthBuf = make([]float32, w*h)
	} else {
		r.depthBuf = r.depthBuf[:w*h]
	}
}

func (r *Renderer) clearDepth() {
	for i := range r.depthBuf {
		r.depthBuf[i] = 1e9
	}
}

// frame carries per-render constants.
type frame struct {
	t     Target
	w, h  int
	mvp   Mat4
	focal float32 // projection Y scale
}

// Render renders a scene into the target: meshes first, then segments, then
// points, all depth tested.
func (r *Renderer) Render(t Target, s *Scene) {
	if r == nil || t == nil || s == nil {
		return
	}
	w, h := t.Size()
	if w <= 0 || h <= 0 {
		return
	}
	t.Clear(r.ClearColor)

	if r.Depth {
		r.EnableDepth(true, w, h)
		r.clearDepth()
	}

	aspect := s.Camera.Aspect
	if aspect <= 0 {
		aspect = Scalar(float32(w) / float32(h))
	}
	world := s.World
	if world == (Mat4{}) {
		world = Mat4Identity()
	}
	proj := s.Camera.Projection(aspect)
	f := frame{
		t:     t,
		w:     w,
		h:     h,
		mvp:   Mat4Mul(proj, Mat4Mul(s.Camera.View(), world)),
		focal: float32(proj[5]),
	}

	s.eachMesh(func(m *Mesh) {
		if m == nil || !m.Enabled {
			return
		}
		r.renderMesh(&f, m)
	})
	for i := range s.segments {
		r.renderSegment(&f, &s.segments[i])
	}
	for i := range s.points {
		r.renderPoint(&f, &s.points[i])
	}
}

func (r *Renderer) renderMesh(f *frame, m *Mesh) {
	if len(m.Vertices) == 0 || len(m.Indices) < 3 {
		return
	}
	n := uint32(len(m.Vertices))
	for i := 0; i+2 < len(m.Indices); i += 3 {
		i0, i1, i2 := m.Indices[i], m.Indices[i+1], m.Indices[i+2]
		if i0 >= n || i1 >= n || i2 >= n {
			continue
		}

		p0 := Transform(f.mvp, m.Vertices[i0])
		p1 := Transform(f.mvp, m.Vertices[i1])
		p2 := Transform(f.mvp, m.Vertices[i2])

		// Trivial clip: drop triangles that reach behind the eye.
		if p0.W <= 0 || p1.W <= 0 || p2.W <= 0 {
			continue
		}

		ndc0, ok0 := clipToNDC(p0)
		ndc1, ok1 := clipToNDC(p1)
		ndc2, ok2 := clipToNDC(p2)
		if !ok0 || !ok1 || !ok2 {
			continue
		}

		x0, y0 := ndcToScreen(ndc0, f.w, f.h)
		x1, y1 := ndcToScreen(ndc1, f.w, f.h)
		x2, y2 := ndcToScreen(ndc2, f.w, f.h)

		r.fillTriangleFlat(f.t, f.w, f.h, x0, y0, ndc0.Z, x1, y1, ndc1.Z, x2, y2, ndc2.Z, m.Color)
	}
}

func (r *Renderer) renderPoint(f *frame, p *Point) {
	c := Transform(f.mvp, p.Pos)
	if c.W <= 0 || c.Z+c.W < 0 {
		return
	}
	ndc, ok := clipToNDC(c)
	if !ok {
		return
	}
	x, y := ndcToScreenF(ndc, f.w, f.h)
	rad := r.pixelRadius(f, float32(p.Radius), float32(c.W))
	r.fillDisc(f, x, y, ndc.Z, rad, p.Color)
}

func (r *Renderer) renderSegment(f *frame, g *Segment) {
	a := Transform(f.mvp, g.A)
	b := Transform(f.mvp, g.B)

	// Near plane in clip space: z >= -w.
	da := a.Z + a.W
	db := b.Z + b.W
	if da < 0 && db < 0 {
		return
	}
	if da < 0 {
		a = lerp4(a, b, da/(da-db))
	} else if db < 0 {
		b = lerp4(b, a, db/(db-da))
	}
	if a.W <= 0 || b.W <= 0 {
		return
	}

	na, _ := clipToNDC(a)
	nb, _ := clipToNDC(b)
	ax, ay := ndcToScreenF(na, f.w, f.h)
	bx, by := ndcToScreenF(nb, f.w, f.h)

	var ra, rb float32
	if g.Radius > 0 {
		ra = r.pixelRadius(f, float32(g.Radius), float32(a.W))
		rb = r.pixelRadius(f, float32(g.Radius), float32(b.W))
	} else {
		lw := r.LineWidth
		if lw < 1 {
			lw = 1
		}
		ra = float32(lw) / 2
		rb = ra
	}

	if g.Radius <= 0 && r.LineWidth <= 1 {
		r.drawLine(f, int(ax), int(ay), na.Z, int(bx), int(by), nb.Z, g.Color)
		return
	}

	// Stamp discs along the segment, spaced at half the smaller radius.
	step := ra
	if rb < step {
		step = rb
	}
	step /= 2
	if step < 1 {
		step = 1
	}
	dx, dy := bx-ax, by-ay
	length := float32(math.Sqrt(float64(dx*dx + dy*dy)))
	n := int(length/step) + 1
	if n > 1<<16 {
		n = 1 << 16
	}
	for i := 0; i <= n; i++ {
		t := float32(i) / float32(n)
		r.fillDisc(f,
			ax+dx*t, ay+dy*t,
			na.Z+(nb.Z-na.Z)*t,
			ra+(rb-ra)*t,
			g.Color)
	}
}

func (r *Renderer) pixelRadius(f *frame, world, w float32) float32 {
	if w <= 0 {
		return 0
	}
	return world * f.focal * float32(f.h) / 2 / w
}

func lerp4(a, b Vec4, t Scalar) Vec4 {
	return Vec4{
		X: a.X + (b.X-a.X)*t,
		Y: a.Y + (b.Y-a.Y)*t,
		Z: a.Z + (b.Z-a.Z)*t,
		W: a.W + (b.W-a.W)*t,
	}
}

type ndcPoint struct {
	X, Y, Z float32
}

func clipToNDC(p Vec4) (ndcPoint, bool) {
	w := float32(p.W)
	if w == 0 {
		return ndcPoint{}, false
	}
	invW := 1.0 / w
	return ndcPoint{
		X: float32(p.X) * invW,
		Y: float32(p.Y) * invW,
		Z: float32(p.Z) * invW,
	}, true
}

func ndcToScreen(p ndcPoint, w, h int) (x, y int) {
	sx, sy := ndcToScreenF(p, w, h)
	return int(sx + 0.5), int(sy + 0.5)
}

func ndcToScreenF(p ndcPoint, w, h int) (x, y float32) {
	sx := (p.X*0.5 + 0.5) * float32(w-1)
	sy := (1 - (p.Y*0.5 + 0.5)) * float32(h-1)
	return sx, sy
}

func (r *Renderer) depthTest(w int, x, y int, z float32) bool {
	if !r.Depth || r.depthBuf == nil {
		return true
	}
	if x < 0 || y < 0 || x >= w {
		return false
	}
	idx := y*w + x
	if idx < 0 || idx >= len(r.depthBuf) {
		return false
	}
	// NDC z is typically in [-1,1]. Map to [0,1].
	d := (z*0.5 + 0.5)
	if d < 0 {
		d = 0
	}
	if d > 1 {
		d = 1
	}
	if d >= r.depthBuf[idx] {
		return false
	}
	r.depthBuf[idx] = d
	return true
}

func (r *Renderer) plot(f *frame, x, y int, z float32, c Color) {
	if x < 0 || y < 0 || x >= f.w || y >= f.h {
		return
	}
	if !r.depthTest(f.w, x, y, z) {
		return
	}
	f.t.SetPixel(x, y, c)
}

// fillDisc fills a disc of radius rad pixels centred on (cx, cy). Discs
// smaller than a pixel still cover the centre pixel.
func (r *Renderer) fillDisc(f *frame, cx, cy, z, rad float32, c Color) {
	if rad < 0.5 {
		r.plot(f, int(cx+0.5), int(cy+0.5), z, c)
		return
	}
	if rad > float32(f.w+f.h) {
		rad = float32(f.w + f.h)
	}
	minX := int(math.Floor(float64(cx - rad)))
	maxX := int(math.Ceil(float64(cx + rad)))
	minY := int(math.Floor(float64(cy - rad)))
	maxY := int(math.Ceil(float64(cy + rad)))
	if minX < 0 {
		minX = 0
	}
	if minY < 0 {
		minY = 0
	}
	if maxX >= f.w {
		maxX = f.w - 1
	}
	if maxY >= f.h {
		maxY = f.h - 1
	}
	r2 := rad * rad
	for y := minY; y <= maxY; y++ {
		dy := float32(y) - cy
		for x := minX; x <= maxX; x++ {
			dx := float32(x) - cx
			if dx*dx+dy*dy > r2 {
				continue
			}
			r.plot(f, x, y, z, c)
		}
	}
}

func (r *Renderer) drawLine(f *frame, x0, y0 int, z0 float32, x1, y1 int, z1 float32, c Color) {
	dx := absInt(x1 - x0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	dy := -absInt(y1 - y0)
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	steps := dx
	if -dy > steps {
		steps = -dy
	}
	if steps > 1<<16 {
		return
	}
	err := dx + dy
	for i := 0; ; i++ {
		z := z0
		if steps > 0 {
			z = z0 + (z1-z0)*float32(i)/float32(steps)
		}
		r.plot(f, x0, y0, z, c)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func (r *Renderer) fillTriangleFlat(t Target, w, h int, x0, y0 int, z0 float32, x1, y1 int, z1 float32, x2, y2 int, z2 float32, c Color) {
	area := edgeFn(x0, y0, x1, y1, x2, y2)
	if area == 0 {
		return
	}
	// Both windings are filled.
	if area < 0 {
		x1, y1, z1, x2, y2, z2 = x2, y2, z2, x1, y1, z1
		area = -area
	}

	minX, maxX := min3(x0, x1, x2), max3(x0, x1, x2)
	minY, maxY := min3(y0, y1, y2), max3(y0, y1, y2)
	if minX < 0 {
		minX = 0
	}
	if minY < 0 {
		minY = 0
	}
	if maxX >= w {
		maxX = w - 1
	}
	if maxY >= h {
		maxY = h - 1
	}
	if minX > maxX || minY > maxY {
		return
	}
	invArea := 1.0 / float32(area)

	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			w0 := edgeFn(x1, y1, x2, y2, x, y)
			w1 := edgeFn(x2, y2, x0, y0, x, y)
			w2 := edgeFn(x0, y0, x1, y1, x, y)
			if (w0 | w1 | w2) < 0 {
				continue
			}
			a0 := float32(w0) * invArea
			a1 := float32(w1) * invArea
			a2 := float32(w2) * invArea
			z := a0*z0 + a1*z1 + a2*z2
			if !r.depthTest(w, x, y, z) {
				continue
			}
			t.SetPixel(x, y, c)
		}
	}
}

func edgeFn(x0, y0, x1, y1, x, y int) int {
	return (x-x0)*(y1-y0) - (y-y0)*(x1-x0)
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func min3(a, b, c int) int {
	if a > b {
		a = b
	}
	if a > c {
		a = c
	}
	return a
}

func max3(a, b, c int) int {
	if a < b {
		a = b
	}
	if a < c {
		a = c
	}
	return a
}
