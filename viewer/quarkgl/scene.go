package quarkgl

// Camera describes the viewing transform.
type Camera struct {
	Position Vec3
	Target   Vec3
	Up       Vec3

	FOVYRad Scalar
	Near    Scalar
	Far     Scalar
	Aspect  Scalar // 0 follows the target size
}

// View returns the camera view matrix.
func (c Camera) View() Mat4 {
	up := c.Up
	if up == (Vec3{}) {
		up = V3(0, 0, 1)
	}
	return Mat4LookAt(c.Position, c.Target, up)
}

// Projection returns the projection matrix for a target aspect.
func (c Camera) Projection(aspect Scalar) Mat4 {
	fov := c.FOVYRad
	if fov == 0 {
		fov = Scalar(1.0)
	}
	return Mat4Perspective(fov, aspect, c.Near, c.Far)
}

// Mesh is a flat-colored triangle list.
type Mesh struct {
	Enabled bool

	Vertices []Vec3
	Indices  []uint32 // triangle list
	Color    Color
}

// Point is drawn as a screen-space disc whose size follows perspective.
type Point struct {
	Pos    Vec3
	Radius Scalar // world units
	Color  Color
}

// Segment is a line between two points. A zero radius draws a hairline of
// Renderer.LineWidth pixels.
type Segment struct {
	A, B   Vec3
	Radius Scalar // world units
	Color  Color
}

// Scene is a collection of objects to render.
//
// World transforms every primitive before the camera view is applied.
type Scene struct {
	Camera Camera
	World  Mat4

	meshes []Mesh
	alive  []bool

	points   []Point
	segments []Segment
}

// CreateScene allocates a scene with a fixed mesh capacity.
func CreateScene(maxMeshes int) *Scene {
	if maxMeshes < 0 {
		maxMeshes = 0
	}
	return &Scene{
		Camera: Camera{
			Position: V3(0, -3, 0),
			Target:   V3(0, 0, 0),
			Up:       V3(0, 0, 1),
			FOVYRad:  Scalar(1.0),
			Near:     Scalar(0.1),
			Far:      Scalar(1000),
		},
		World:  Mat4Identity(),
		meshes: make([]Mesh, maxMeshes),
		alive:  make([]bool, maxMeshes),
	}
}

// AddMesh adds a mesh to the scene and returns its id or -1 if full.
func (s *Scene) AddMesh(m Mesh) int {
	if s == nil {
		return -1
	}
	for i := range s.meshes {
		if s.alive[i] {
			continue
		}
		if m.Color == (Color{}) {
			m.Color = RGB(0xCC, 0xCC, 0xCC)
		}
		m.Enabled = true
		s.meshes[i] = m
		s.alive[i] = true
		return i
	}
	return -1
}

// RemoveMesh removes a mesh by id.
func (s *Scene) RemoveMesh(id int) {
	if s == nil || id < 0 || id >= len(s.meshes) {
		return
	}
	s.alive[id] = false
	s.meshes[id] = Mesh{}
}

// SetMeshEnabled enables/disables a mesh by id.
func (s *Scene) SetMeshEnabled(id int, enabled bool) {
	if s == nil || id < 0 || id >= len(s.meshes) || !s.alive[id] {
		return
	}
	s.meshes[id].Enabled = enabled
}

// ClearPrimitives drops all points and segments, keeping their storage.
func (s *Scene) ClearPrimitives() {
	s.points = s.points[:0]
	s.segments = s.segments[:0]
}

func (s *Scene) AddPoint(p Point)     { s.points = append(s.points, p) }
func (s *Scene) AddSegment(g Segment) { s.segments = append(s.segments, g) }

// Primitives reports the number of queued points and segments.
func (s *Scene) Primitives() (points, segments int) {
	return len(s.points), len(s.segments)
}

func (s *Scene) eachMesh(fn func(m *Mesh)) {
	for i := range s.meshes {
		if !s.alive[i] {
			continue
		}
		fn(&s.meshes[i])
	}
}
