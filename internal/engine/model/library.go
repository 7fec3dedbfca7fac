package model

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"strings"

	_ "image/jpeg" // JPEG decoder for embedded textures
	_ "image/png"  // PNG decoder for embedded textures

	xdraw "golang.org/x/image/draw"

	"github.com/candiikay/sneakerlab/pkg/formats"
	"github.com/candiikay/sneakerlab/pkg/math"
)

// Library is the canonical, immutable form of a loaded asset. It stays
// pristine across sessions; every live scene works on its own
// Instantiate clone.
type Library struct {
	parts    []*Part
	bounds   Bounds
	textures map[int]*Texture // glTF texture index -> decoded texture
}

// SceneModel is one live, mutable instance of the asset: cloned
// materials, shared immutable geometry, and an O(1) part index.
type SceneModel struct {
	parts  []*Part
	index  map[string]*Part
	bounds Bounds
}

// BuildLibrary flattens a parsed glTF document into canonical parts.
// Each leaf node's primitive becomes one part, named by the node's
// authored name (trimmed; empty or whitespace-only names produce
// non-interactive parts). The loader resolves external texture files.
func BuildLibrary(doc *formats.Document, loader formats.ResourceLoader) (*Library, error) {
	lib := &Library{
		bounds:   emptyBounds(),
		textures: make(map[int]*Texture),
	}

	roots := sceneRoots(doc)
	if len(roots) == 0 {
		return nil, fmt.Errorf("asset has no scene nodes")
	}

	for _, root := range roots {
		if err := lib.walkNode(doc, loader, root, math.Identity(), make(map[int]bool)); err != nil {
			return nil, err
		}
	}

	if len(lib.parts) == 0 {
		return nil, fmt.Errorf("asset contains no usable geometry")
	}
	return lib, nil
}

func sceneRoots(doc *formats.Document) []int {
	sceneIdx := 0
	if doc.Scene != nil {
		sceneIdx = *doc.Scene
	}
	if sceneIdx < 0 || sceneIdx >= len(doc.Scenes) {
		// No scenes declared: treat every node as a root candidate.
		roots := make([]int, len(doc.Nodes))
		for i := range doc.Nodes {
			roots[i] = i
		}
		return roots
	}
	return doc.Scenes[sceneIdx].Nodes
}

func (lib *Library) walkNode(doc *formats.Document, loader formats.ResourceLoader, nodeIdx int, parent math.Mat4, visited map[int]bool) error {
	if nodeIdx < 0 || nodeIdx >= len(doc.Nodes) || visited[nodeIdx] {
		return nil
	}
	visited[nodeIdx] = true
	node := doc.Nodes[nodeIdx]

	world := parent.Mul(nodeMatrix(node))

	if node.Mesh != nil {
		if err := lib.buildParts(doc, loader, node, world); err != nil {
			return fmt.Errorf("node %q: %w", node.Name, err)
		}
	}

	for _, child := range node.Children {
		if err := lib.walkNode(doc, loader, child, world, visited); err != nil {
			return err
		}
	}
	return nil
}

// nodeMatrix composes a node's local transform. glTF nodes carry either
// an explicit matrix or a TRS triple.
func nodeMatrix(node formats.GLTFNode) math.Mat4 {
	if node.Matrix != nil {
		var m math.Mat4
		copy(m[:], node.Matrix[:])
		return m
	}

	m := math.Identity()
	if node.Scale != nil {
		m = math.Scale(node.Scale[0], node.Scale[1], node.Scale[2]).Mul(m)
	}
	if node.Rotation != nil {
		q := math.Quat{X: node.Rotation[0], Y: node.Rotation[1], Z: node.Rotation[2], W: node.Rotation[3]}
		m = q.ToMat4().Mul(m)
	}
	if node.Translation != nil {
		m = math.Translate(node.Translation[0], node.Translation[1], node.Translation[2]).Mul(m)
	}
	return m
}

func (lib *Library) buildParts(doc *formats.Document, loader formats.ResourceLoader, node formats.GLTFNode, world math.Mat4) error {
	meshIdx := *node.Mesh
	if meshIdx < 0 || meshIdx >= len(doc.Meshes) {
		return fmt.Errorf("mesh index %d out of range", meshIdx)
	}
	gm := doc.Meshes[meshIdx]

	// The node name alone decides interactivity. A blank name leaves the
	// part id empty and the geometry decorative, even when the mesh it
	// references is named.
	partID := strings.TrimSpace(node.Name)

	for primIdx, prim := range gm.Primitives {
		mesh, err := buildMesh(doc, prim, world)
		if err != nil {
			return fmt.Errorf("primitive %d: %w", primIdx, err)
		}

		id := partID
		if len(gm.Primitives) > 1 && id != "" {
			id = fmt.Sprintf("%s_%d", partID, primIdx)
		}

		mat, err := lib.buildMaterial(doc, loader, prim.Material)
		if err != nil {
			return fmt.Errorf("primitive %d material: %w", primIdx, err)
		}

		part := &Part{
			id:              id,
			mesh:            mesh,
			material:        mat,
			originalTexture: mat.Texture,
		}
		lib.parts = append(lib.parts, part)
		lib.bounds.Union(mesh.Bounds)
	}
	return nil
}

func buildMesh(doc *formats.Document, prim formats.GLTFPrimitive, world math.Mat4) (*Mesh, error) {
	// Triangles only; other primitive modes never appear in our assets.
	if prim.Mode != nil && *prim.Mode != 4 {
		return nil, fmt.Errorf("unsupported primitive mode %d", *prim.Mode)
	}

	posAcc, ok := prim.Attributes[formats.AttrPosition]
	if !ok {
		return nil, fmt.Errorf("primitive has no POSITION attribute")
	}
	positions, err := doc.ReadVec3(posAcc)
	if err != nil {
		return nil, fmt.Errorf("positions: %w", err)
	}

	mesh := &Mesh{
		Positions: make([][3]float32, len(positions)),
		Bounds:    emptyBounds(),
	}
	for i, p := range positions {
		tp := world.TransformPoint(p)
		mesh.Positions[i] = tp
		mesh.Bounds.Extend(tp)
	}

	if normAcc, ok := prim.Attributes[formats.AttrNormal]; ok {
		normals, err := doc.ReadVec3(normAcc)
		if err != nil {
			return nil, fmt.Errorf("normals: %w", err)
		}
		if len(normals) != len(positions) {
			return nil, fmt.Errorf("normal count %d does not match position count %d", len(normals), len(positions))
		}
		mesh.Normals = make([][3]float32, len(normals))
		for i, n := range normals {
			tn := world.TransformDirection(n)
			mesh.Normals[i] = normalize3(tn)
		}
	}

	if uvAcc, ok := prim.Attributes[formats.AttrTexCoord]; ok {
		uvs, err := doc.ReadVec2(uvAcc)
		if err != nil {
			return nil, fmt.Errorf("texcoords: %w", err)
		}
		if len(uvs) != len(positions) {
			return nil, fmt.Errorf("texcoord count %d does not match position count %d", len(uvs), len(positions))
		}
		mesh.UVs = uvs
	}

	if prim.Indices != nil {
		indices, err := doc.ReadIndices(*prim.Indices)
		if err != nil {
			return nil, fmt.Errorf("indices: %w", err)
		}
		for _, idx := range indices {
			if int(idx) >= len(positions) {
				return nil, fmt.Errorf("index %d out of range (%d vertices)", idx, len(positions))
			}
		}
		mesh.Indices = indices
	} else {
		// Non-indexed: synthesize sequential indices.
		mesh.Indices = make([]uint32, len(positions))
		for i := range mesh.Indices {
			mesh.Indices[i] = uint32(i)
		}
	}

	if len(mesh.Indices)%3 != 0 {
		return nil, fmt.Errorf("index count %d is not a multiple of 3", len(mesh.Indices))
	}
	return mesh, nil
}

func (lib *Library) buildMaterial(doc *formats.Document, loader formats.ResourceLoader, matIdx *int) (*Material, error) {
	mat := NewMaterial([3]float32{1, 1, 1})
	if matIdx == nil || *matIdx < 0 || *matIdx >= len(doc.Materials) {
		return mat, nil
	}
	gmat := doc.Materials[*matIdx]

	if gmat.PBR != nil {
		if gmat.PBR.BaseColorFactor != nil {
			f := *gmat.PBR.BaseColorFactor
			mat.Base = [3]float32{f[0], f[1], f[2]}
		}
		if gmat.PBR.BaseColorTexture != nil {
			tex, err := lib.loadTexture(doc, loader, gmat.PBR.BaseColorTexture.Index)
			if err != nil {
				return nil, err
			}
			mat.Texture = tex
		}
	}
	if gmat.EmissiveFactor != nil {
		mat.Emissive = *gmat.EmissiveFactor
	}

	// Construction writes do not count as interaction writes.
	mat.writes = 0
	return mat, nil
}

func (lib *Library) loadTexture(doc *formats.Document, loader formats.ResourceLoader, texIdx int) (*Texture, error) {
	if tex, ok := lib.textures[texIdx]; ok {
		return tex, nil
	}
	if texIdx < 0 || texIdx >= len(doc.Textures) {
		return nil, fmt.Errorf("texture index %d out of range", texIdx)
	}
	src := doc.Textures[texIdx].Source
	if src == nil {
		return nil, fmt.Errorf("texture %d has no image source", texIdx)
	}

	raw, err := doc.ImageData(*src, loader)
	if err != nil {
		return nil, fmt.Errorf("texture %d: %w", texIdx, err)
	}
	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("decoding texture %d: %w", texIdx, err)
	}

	rgba := normalizeTexture(img)

	name := doc.Images[*src].Name
	if name == "" {
		name = fmt.Sprintf("texture_%d", texIdx)
	}
	tex := &Texture{Name: name, Image: rgba}
	lib.textures[texIdx] = tex
	return tex, nil
}

// maxTextureDim caps decoded texture size; anything larger gets
// downscaled so one oversized asset cannot blow the GPU budget.
const maxTextureDim = 2048

// normalizeTexture converts a decoded image to RGBA at origin, scaling
// down when it exceeds maxTextureDim on either axis.
func normalizeTexture(img image.Image) *image.RGBA {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()

	if w <= maxTextureDim && h <= maxTextureDim {
		rgba := image.NewRGBA(image.Rect(0, 0, w, h))
		draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
		return rgba
	}

	scale := float64(maxTextureDim) / float64(w)
	if h > w {
		scale = float64(maxTextureDim) / float64(h)
	}
	dw := int(float64(w) * scale)
	dh := int(float64(h) * scale)
	if dw < 1 {
		dw = 1
	}
	if dh < 1 {
		dh = 1
	}

	rgba := image.NewRGBA(image.Rect(0, 0, dw, dh))
	xdraw.BiLinear.Scale(rgba, rgba.Bounds(), img, b, xdraw.Src, nil)
	return rgba
}

// Parts returns the canonical parts (read-only by convention).
func (lib *Library) Parts() []*Part {
	return lib.parts
}

// Bounds returns the whole asset's bounding box.
func (lib *Library) Bounds() Bounds {
	return lib.bounds
}

// Instantiate produces a live scene model: geometry is shared with the
// canonical library, materials are cloned so per-session color and
// paint changes never leak back into the library.
func (lib *Library) Instantiate() *SceneModel {
	m := &SceneModel{
		parts:  make([]*Part, 0, len(lib.parts)),
		index:  make(map[string]*Part, len(lib.parts)),
		bounds: lib.bounds,
	}
	for _, src := range lib.parts {
		p := &Part{
			id:              src.id,
			mesh:            src.mesh,
			material:        src.material.Clone(),
			originalTexture: src.originalTexture,
		}
		m.parts = append(m.parts, p)
		if p.Interactive() {
			if _, exists := m.index[p.id]; !exists {
				m.index[p.id] = p
			}
		}
	}
	return m
}

// NewSceneModel assembles a live model directly from parts, bypassing
// the library. The first part wins when ids collide.
func NewSceneModel(parts ...*Part) *SceneModel {
	m := &SceneModel{
		parts:  parts,
		index:  make(map[string]*Part, len(parts)),
		bounds: emptyBounds(),
	}
	for _, p := range parts {
		if p.Interactive() {
			if _, exists := m.index[p.id]; !exists {
				m.index[p.id] = p
			}
		}
		m.bounds.Union(p.mesh.Bounds)
	}
	return m
}

// Part returns the interactive part with the given id, or nil. Lookup
// is a map hit; it runs on every pointer move under hover.
func (m *SceneModel) Part(id string) *Part {
	return m.index[id]
}

// Parts returns all parts in load order.
func (m *SceneModel) Parts() []*Part {
	return m.parts
}

// PartIDs returns the ids of all interactive parts in load order.
func (m *SceneModel) PartIDs() []string {
	ids := make([]string, 0, len(m.index))
	for _, p := range m.parts {
		if p.Interactive() && m.index[p.id] == p {
			ids = append(ids, p.id)
		}
	}
	return ids
}

// Bounds returns the model's bounding box.
func (m *SceneModel) Bounds() Bounds {
	return m.bounds
}

func normalize3(v [3]float32) [3]float32 {
	vec := math.Vec3{X: v[0], Y: v[1], Z: v[2]}.Normalize()
	return [3]float32{vec.X, vec.Y, vec.Z}
}
