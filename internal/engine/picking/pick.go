package picking

import (
	"github.com/candiikay/sneakerlab/internal/engine/model"
	"github.com/candiikay/sneakerlab/pkg/math"
)

// Hit is the result of resolving a ray against the model: the part that
// was struck and the surface UV at the intersection, pre-scaled to the
// paint buffer's pixel space.
type Hit struct {
	Part     *model.Part
	UV       math.Vec2 // Buffer pixel coordinates
	Distance float32
}

// Picker resolves rays against a live scene model. It holds no mutable
// state of its own; every call reads the model as it stands.
type Picker struct {
	// BufferSize is the logical paint buffer resolution UV hits are
	// scaled to.
	BufferSize int

	// StrictOcclusion makes PickPart accept only the nearest
	// interactive hit. With it off (the default), PickPart searches
	// past occluding parts for the first hit on the target, so painting
	// keeps working when another part partially covers the target.
	StrictOcclusion bool

	scene *model.SceneModel
}

// NewPicker creates a picker over the given model.
func NewPicker(scene *model.SceneModel, bufferSize int) *Picker {
	return &Picker{
		BufferSize: bufferSize,
		scene:      scene,
	}
}

// Pick returns the nearest interactive part hit by the ray, or nil.
// Non-interactive geometry never occludes: decorative meshes are
// transparent to picking.
func (p *Picker) Pick(ray Ray) *Hit {
	var best *Hit
	for _, part := range p.scene.Parts() {
		if !part.Interactive() {
			continue
		}
		hit := p.intersectPart(ray, part)
		if hit == nil {
			continue
		}
		if best == nil || hit.Distance < best.Distance {
			best = hit
		}
	}
	return best
}

// PickPart resolves a ray for draw mode, where only the targeted part
// counts. By default it searches intersections in depth order and
// accepts the nearest one belonging to the target even when another
// part sits in front; with StrictOcclusion it accepts the target only
// when it is the nearest interactive hit.
func (p *Picker) PickPart(ray Ray, partID string) *Hit {
	if p.StrictOcclusion {
		hit := p.Pick(ray)
		if hit == nil || hit.Part.ID() != partID {
			return nil
		}
		return hit
	}

	target := p.scene.Part(partID)
	if target == nil {
		return nil
	}
	return p.intersectPart(ray, target)
}

// intersectPart finds the nearest triangle hit on one part, with an
// AABB prefilter so hover misses stay cheap.
func (p *Picker) intersectPart(ray Ray, part *model.Part) *Hit {
	bounds := part.Bounds()
	if _, ok := ray.IntersectAABB(AABB{Min: bounds.Min, Max: bounds.Max}); !ok {
		return nil
	}

	mesh := part.Mesh()
	var (
		found   bool
		bestT   float32
		bestTri int
		bestU   float32
		bestV   float32
	)

	for i := 0; i+2 < len(mesh.Indices); i += 3 {
		i0, i1, i2 := mesh.Indices[i], mesh.Indices[i+1], mesh.Indices[i+2]
		t, u, v, hit := ray.IntersectTriangle(mesh.Positions[i0], mesh.Positions[i1], mesh.Positions[i2])
		if !hit {
			continue
		}
		if !found || t < bestT {
			found = true
			bestT, bestTri, bestU, bestV = t, i, u, v
		}
	}
	if !found {
		return nil
	}

	return &Hit{
		Part:     part,
		UV:       p.surfaceUV(mesh, bestTri, bestU, bestV),
		Distance: bestT,
	}
}

// surfaceUV interpolates the triangle's vertex UVs at the barycentric
// hit point and scales the result into buffer pixel space.
func (p *Picker) surfaceUV(mesh *model.Mesh, triBase int, u, v float32) math.Vec2 {
	if len(mesh.UVs) == 0 {
		return math.Vec2{}
	}
	i0, i1, i2 := mesh.Indices[triBase], mesh.Indices[triBase+1], mesh.Indices[triBase+2]
	uv0, uv1, uv2 := mesh.UVs[i0], mesh.UVs[i1], mesh.UVs[i2]

	w := 1 - u - v
	size := float32(p.BufferSize)
	return math.Vec2{
		X: (w*uv0[0] + u*uv1[0] + v*uv2[0]) * size,
		Y: (w*uv0[1] + u*uv1[1] + v*uv2[1]) * size,
	}
}
