package picking

import (
	"testing"

	"github.com/candiikay/sneakerlab/internal/engine/model"
	"github.com/candiikay/sneakerlab/pkg/math"
)

// quadPart builds a unit quad part in the z=depth plane with UVs
// matching the quad's local XY coordinates.
func quadPart(id string, depth float32) *model.Part {
	mesh := &model.Mesh{
		Positions: [][3]float32{
			{0, 0, depth},
			{1, 0, depth},
			{1, 1, depth},
			{0, 1, depth},
		},
		UVs: [][2]float32{
			{0, 0},
			{1, 0},
			{1, 1},
			{0, 1},
		},
		Indices: []uint32{0, 1, 2, 0, 2, 3},
		Bounds: model.Bounds{
			Min: [3]float32{0, 0, depth},
			Max: [3]float32{1, 1, depth},
		},
	}
	return model.NewPart(id, mesh, nil)
}

// downZRay returns a ray from (x, y, 10) straight toward -Z.
func downZRay(x, y float32) Ray {
	return Ray{
		Origin:    [3]float32{x, y, 10},
		Direction: [3]float32{0, 0, -1},
	}
}

func TestPick_NearestInteractive(t *testing.T) {
	scene := model.NewSceneModel(quadPart("front", 0), quadPart("back", -1))
	picker := NewPicker(scene, 512)

	hit := picker.Pick(downZRay(0.5, 0.5))
	if hit == nil {
		t.Fatal("Pick() = nil, want hit")
	}
	if hit.Part.ID() != "front" {
		t.Errorf("Pick() part = %q, want %q", hit.Part.ID(), "front")
	}
}

func TestPick_IgnoresNonInteractiveOccluder(t *testing.T) {
	// The nearer quad has no part id; picking must look straight
	// through it and land on the interactive part behind.
	scene := model.NewSceneModel(quadPart("", 0), quadPart("heel", -1))
	picker := NewPicker(scene, 512)

	hit := picker.Pick(downZRay(0.5, 0.5))
	if hit == nil {
		t.Fatal("Pick() = nil, want hit on part behind decoration")
	}
	if hit.Part.ID() != "heel" {
		t.Errorf("Pick() part = %q, want %q", hit.Part.ID(), "heel")
	}
}

func TestPick_Miss(t *testing.T) {
	scene := model.NewSceneModel(quadPart("vamp", 0))
	picker := NewPicker(scene, 512)

	if hit := picker.Pick(downZRay(5, 5)); hit != nil {
		t.Errorf("Pick() off-model = %+v, want nil", hit)
	}
}

func TestPick_UVScaledToBufferSpace(t *testing.T) {
	scene := model.NewSceneModel(quadPart("vamp", 0))
	picker := NewPicker(scene, 512)

	hit := picker.Pick(downZRay(0.25, 0.75))
	if hit == nil {
		t.Fatal("Pick() = nil, want hit")
	}

	const eps = 0.01
	wantX, wantY := float32(0.25*512), float32(0.75*512)
	if diff := hit.UV.X - wantX; diff > eps || diff < -eps {
		t.Errorf("UV.X = %v, want %v", hit.UV.X, wantX)
	}
	if diff := hit.UV.Y - wantY; diff > eps || diff < -eps {
		t.Errorf("UV.Y = %v, want %v", hit.UV.Y, wantY)
	}
}

func TestPickPart_OccludedTarget(t *testing.T) {
	scene := model.NewSceneModel(quadPart("front", 0), quadPart("back", -1))
	ray := downZRay(0.5, 0.5)

	// Default mode searches past the occluder.
	picker := NewPicker(scene, 512)
	hit := picker.PickPart(ray, "back")
	if hit == nil {
		t.Fatal("PickPart() = nil, want hit on occluded target")
	}
	if hit.Part.ID() != "back" {
		t.Errorf("PickPart() part = %q, want %q", hit.Part.ID(), "back")
	}

	// Strict mode reproduces first-hit-only behavior.
	picker.StrictOcclusion = true
	if hit := picker.PickPart(ray, "back"); hit != nil {
		t.Errorf("strict PickPart() on occluded target = %+v, want nil", hit)
	}
	if hit := picker.PickPart(ray, "front"); hit == nil {
		t.Error("strict PickPart() on front target = nil, want hit")
	}
}

func TestPickPart_UnknownPart(t *testing.T) {
	scene := model.NewSceneModel(quadPart("vamp", 0))
	picker := NewPicker(scene, 512)

	if hit := picker.PickPart(downZRay(0.5, 0.5), "tongue"); hit != nil {
		t.Errorf("PickPart(unknown) = %+v, want nil", hit)
	}
}

func TestIntersectTriangle(t *testing.T) {
	v0 := [3]float32{0, 0, 0}
	v1 := [3]float32{1, 0, 0}
	v2 := [3]float32{0, 1, 0}

	ray := Ray{Origin: [3]float32{0.25, 0.25, 5}, Direction: [3]float32{0, 0, -1}}
	dist, u, v, hit := ray.IntersectTriangle(v0, v1, v2)
	if !hit {
		t.Fatal("IntersectTriangle() missed")
	}
	if dist < 4.99 || dist > 5.01 {
		t.Errorf("t = %v, want ~5", dist)
	}
	if u < 0.24 || u > 0.26 || v < 0.24 || v > 0.26 {
		t.Errorf("barycentric = (%v, %v), want (~0.25, ~0.25)", u, v)
	}

	// Triangle behind the origin must not hit.
	behind := Ray{Origin: [3]float32{0.25, 0.25, -5}, Direction: [3]float32{0, 0, -1}}
	if _, _, _, hit := behind.IntersectTriangle(v0, v1, v2); hit {
		t.Error("IntersectTriangle() hit a triangle behind the ray origin")
	}

	// Ray parallel to the triangle plane must not hit.
	parallel := Ray{Origin: [3]float32{0, 0, 1}, Direction: [3]float32{1, 0, 0}}
	if _, _, _, hit := parallel.IntersectTriangle(v0, v1, v2); hit {
		t.Error("IntersectTriangle() hit from a parallel ray")
	}
}

func TestScreenToRay_ViewportCenter(t *testing.T) {
	const w, h = 800, 600
	view := math.LookAt(
		math.Vec3{X: 0, Y: 0, Z: 5},
		math.Vec3{X: 0, Y: 0, Z: 0},
		math.Vec3{X: 0, Y: 1, Z: 0},
	)
	proj := math.Perspective(0.785398, float32(w)/float32(h), 0.1, 100)
	invViewProj := proj.Mul(view).Inverse()

	ray := ScreenToRay(w/2, h/2, w, h, invViewProj)

	// A center ray from a camera on +Z looking at the origin points
	// straight down -Z.
	const eps = 0.01
	if ray.Direction[2] > -0.99 {
		t.Errorf("direction = %v, want ~(0,0,-1)", ray.Direction)
	}
	if ray.Direction[0] > eps || ray.Direction[0] < -eps ||
		ray.Direction[1] > eps || ray.Direction[1] < -eps {
		t.Errorf("direction = %v, want ~(0,0,-1)", ray.Direction)
	}
}
