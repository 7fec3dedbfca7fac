// Package camera provides the turntable camera the studio viewport uses.
package camera

import (
	gomath "math"

	"github.com/candiikay/sneakerlab/internal/engine/model"
	"github.com/candiikay/sneakerlab/pkg/math"
)

// OrbitCamera orbits around a center point. Scale-wise it is tuned for
// product shots: the subject is a shoe well under a meter across, not a
// game map.
type OrbitCamera struct {
	Center math.Vec3

	// Spherical coordinates
	Distance  float32
	RotationX float32 // Pitch (vertical angle, radians)
	RotationY float32 // Yaw (horizontal angle, radians)

	// Constraints
	MinDistance float32
	MaxDistance float32
	MinPitch    float32
	MaxPitch    float32

	// Sensitivity
	DragSensitivity float32
	ZoomSensitivity float32

	// Projection
	FOV  float32 // vertical, radians
	Near float32
	Far  float32
}

// NewOrbitCamera creates an orbit camera with shoe-scale defaults.
func NewOrbitCamera() *OrbitCamera {
	return &OrbitCamera{
		Distance:        0.8,
		RotationX:       0.35,
		RotationY:       0.6,
		MinDistance:     0.15,
		MaxDistance:     5.0,
		MinPitch:        -1.2,
		MaxPitch:        1.45,
		DragSensitivity: 0.005,
		ZoomSensitivity: 0.1,
		FOV:             float32(gomath.Pi / 4),
		Near:            0.01,
		Far:             50.0,
	}
}

// Position returns the camera position in world space.
func (c *OrbitCamera) Position() math.Vec3 {
	x := c.Distance * float32(gomath.Cos(float64(c.RotationX))*gomath.Sin(float64(c.RotationY)))
	y := c.Distance * float32(gomath.Sin(float64(c.RotationX)))
	z := c.Distance * float32(gomath.Cos(float64(c.RotationX))*gomath.Cos(float64(c.RotationY)))

	return math.Vec3{
		X: c.Center.X + x,
		Y: c.Center.Y + y,
		Z: c.Center.Z + z,
	}
}

// ViewMatrix returns the view matrix for this camera.
func (c *OrbitCamera) ViewMatrix() math.Mat4 {
	up := math.Vec3{X: 0, Y: 1, Z: 0}
	return math.LookAt(c.Position(), c.Center, up)
}

// ProjectionMatrix returns the perspective projection for a viewport
// with the given aspect ratio.
func (c *OrbitCamera) ProjectionMatrix(aspect float32) math.Mat4 {
	return math.Perspective(c.FOV, aspect, c.Near, c.Far)
}

// HandleDrag updates rotation based on mouse drag delta.
func (c *OrbitCamera) HandleDrag(deltaX, deltaY float32) {
	c.RotationY -= deltaX * c.DragSensitivity
	c.RotationX += deltaY * c.DragSensitivity

	if c.RotationX < c.MinPitch {
		c.RotationX = c.MinPitch
	}
	if c.RotationX > c.MaxPitch {
		c.RotationX = c.MaxPitch
	}
}

// HandleZoom updates distance based on scroll wheel delta.
func (c *OrbitCamera) HandleZoom(delta float32) {
	c.Distance -= delta * c.Distance * c.ZoomSensitivity
	if c.Distance < c.MinDistance {
		c.Distance = c.MinDistance
	}
	if c.Distance > c.MaxDistance {
		c.Distance = c.MaxDistance
	}
}

// FitToBounds centers the camera on a bounding box and backs off far
// enough that the whole box fits in the vertical field of view.
func (c *OrbitCamera) FitToBounds(b model.Bounds) {
	center := b.Center()
	c.Center = math.Vec3{X: center[0], Y: center[1], Z: center[2]}

	size := math.Vec3{
		X: b.Max[0] - b.Min[0],
		Y: b.Max[1] - b.Min[1],
		Z: b.Max[2] - b.Min[2],
	}
	radius := size.Length() / 2
	if radius <= 0 {
		return
	}

	c.Distance = radius / float32(gomath.Sin(float64(c.FOV/2)))
	if c.Distance < c.MinDistance {
		c.Distance = c.MinDistance
	}
	if c.Distance > c.MaxDistance {
		c.Distance = c.MaxDistance
	}

	// Keep zoom limits proportional to the subject.
	c.MinDistance = radius * 0.5
	c.MaxDistance = radius * 12
}
