// Package model builds the live part hierarchy of a loaded sneaker
// asset and indexes every paintable part by its stable id.
package model

import "strings"

func trimID(id string) string {
	return strings.TrimSpace(id)
}

// Mesh holds immutable triangle geometry in model space. Positions,
// normals and UVs are parallel arrays indexed by Indices.
type Mesh struct {
	Positions [][3]float32
	Normals   [][3]float32
	UVs       [][2]float32
	Indices   []uint32
	Bounds    Bounds
}

// TriangleCount returns the number of triangles in the mesh.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// Bounds holds an axis-aligned bounding box.
type Bounds struct {
	Min [3]float32
	Max [3]float32
}

// Extend grows the box to include p.
func (b *Bounds) Extend(p [3]float32) {
	for i := 0; i < 3; i++ {
		if p[i] < b.Min[i] {
			b.Min[i] = p[i]
		}
		if p[i] > b.Max[i] {
			b.Max[i] = p[i]
		}
	}
}

// Union grows the box to include another box.
func (b *Bounds) Union(other Bounds) {
	b.Extend(other.Min)
	b.Extend(other.Max)
}

// Center returns the box center point.
func (b Bounds) Center() [3]float32 {
	return [3]float32{
		(b.Min[0] + b.Max[0]) / 2,
		(b.Min[1] + b.Max[1]) / 2,
		(b.Min[2] + b.Max[2]) / 2,
	}
}

// emptyBounds returns a box that any Extend call will replace.
func emptyBounds() Bounds {
	return Bounds{
		Min: [3]float32{1e10, 1e10, 1e10},
		Max: [3]float32{-1e10, -1e10, -1e10},
	}
}

// Part is one named, independently colorable region of the model: a
// leaf in the source asset's node hierarchy. A part with an empty id is
// decorative geometry that never participates in hover, selection or
// painting.
type Part struct {
	id       string
	mesh     *Mesh
	material *Material

	// originalTexture remembers the texture slot content at load time
	// so draw-mode cancellation can restore it exactly.
	originalTexture *Texture
}

// NewPart builds a standalone part. The id is trimmed; empty and
// whitespace-only ids produce a non-interactive part. Used for
// procedural geometry and tests; asset loading goes through
// BuildLibrary.
func NewPart(id string, mesh *Mesh, material *Material) *Part {
	if material == nil {
		material = NewMaterial([3]float32{1, 1, 1})
	}
	return &Part{
		id:              trimID(id),
		mesh:            mesh,
		material:        material,
		originalTexture: material.Texture,
	}
}

// ID returns the part's stable identifier ("" for non-interactive).
func (p *Part) ID() string {
	return p.id
}

// Interactive reports whether the part can be hovered, selected or
// painted.
func (p *Part) Interactive() bool {
	return p.id != ""
}

// Mesh returns the part's geometry.
func (p *Part) Mesh() *Mesh {
	return p.mesh
}

// Material returns the part's live material.
func (p *Part) Material() *Material {
	return p.material
}

// OriginalTexture returns the texture the part carried at load time.
func (p *Part) OriginalTexture() *Texture {
	return p.originalTexture
}

// Bounds returns the part geometry's bounding box.
func (p *Part) Bounds() Bounds {
	return p.mesh.Bounds
}
