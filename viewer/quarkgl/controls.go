package quarkgl

import "math"

// OrbitRig places a Z-up camera on a circle around the origin.
//
// The eye sits at (0, -cos(el)*d, sin(el)*d) looking at the origin. The world
// is then turned by Angle about Z and shifted by Pan, so orbiting moves the
// scene rather than the eye.
type OrbitRig struct {
	Angle     float64 // degrees about Z
	Elevation float64 // degrees above the XY plane
	Distance  float64 // metres from the origin
	Pan       Vec3    // world offset

	FOVYDeg float64
	Near    float64
	Far     float64
	Aspect  float64 // viewport width/height; 0 follows the target
}

// Apply writes the camera and world transform into s.
func (o OrbitRig) Apply(s *Scene) {
	if s == nil {
		return
	}
	el := o.Elevation * math.Pi / 180
	s.Camera.Position = V3(0, Scalar(-math.Cos(el)*o.Distance), Scalar(math.Sin(el)*o.Distance))
	s.Camera.Target = Vec3{}
	s.Camera.Up = V3(0, 0, 1)
	if o.FOVYDeg > 0 {
		s.Camera.FOVYRad = Radians(o.FOVYDeg)
	}
	if o.Near > 0 {
		s.Camera.Near = Scalar(o.Near)
	}
	if o.Far > 0 {
		s.Camera.Far = Scalar(o.Far)
	}
	s.Camera.Aspect = Scalar(o.Aspect)
	s.World = Mat4Mul(Mat4RotateZ(Radians(o.Angle)), Mat4Translate(o.Pan))
}
