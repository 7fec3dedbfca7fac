// Offscreen 3D renderer for the studio viewport.
package main

import (
	"fmt"
	"image"
	"image/draw"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/candiikay/sneakerlab/internal/engine/framebuffer"
	"github.com/candiikay/sneakerlab/internal/engine/model"
	"github.com/candiikay/sneakerlab/internal/engine/shader"
	"github.com/candiikay/sneakerlab/internal/studio"
)

// Viewer renders the scene model to an offscreen framebuffer that the
// UI presents as an image. Part materials are read live every frame:
// base color, emissive emphasis and paint textures all flow through
// without any scene rebuild.
type Viewer struct {
	target *framebuffer.Target

	// Shader program
	shaderProgram uint32
	locView       int32
	locProjection int32
	locLightDir   int32
	locAmbient    int32
	locBase       int32
	locEmissive   int32
	locTexture    int32

	// One mesh upload per part; geometry is static for the scene's
	// lifetime, only materials change.
	parts []partMesh

	// Live texture uploads keyed by material texture identity.
	textures map[*model.Texture]*glTexture

	// Transparent 1x1 bound when a part has no texture, so the shader's
	// mix falls through to the base color.
	clearTexture uint32
}

type partMesh struct {
	part       *model.Part
	vao        uint32
	vbo        uint32
	ebo        uint32
	indexCount int32
}

type glTexture struct {
	id      uint32
	w, h    int32
	version uint64
}

// partVertex is the vertex format for part meshes.
type partVertex struct {
	Position [3]float32
	Normal   [3]float32
	TexCoord [2]float32
}

const vertexShaderSource = `#version 410 core
layout (location = 0) in vec3 aPosition;
layout (location = 1) in vec3 aNormal;
layout (location = 2) in vec2 aTexCoord;

uniform mat4 uView;
uniform mat4 uProjection;

out vec3 vNormal;
out vec2 vTexCoord;

void main() {
    vNormal = aNormal;
    vTexCoord = aTexCoord;
    gl_Position = uProjection * uView * vec4(aPosition, 1.0);
}
`

const fragmentShaderSource = `#version 410 core
in vec3 vNormal;
in vec2 vTexCoord;

uniform sampler2D uTexture;
uniform vec3 uLightDir;
uniform vec3 uAmbient;
uniform vec3 uBase;
uniform vec4 uEmissive; // rgb color, a intensity

out vec4 FragColor;

void main() {
    vec3 normal = normalize(vNormal);
    vec3 lightDir = normalize(uLightDir);
    float diff = max(dot(normal, lightDir), 0.0);
    vec4 tex = texture(uTexture, vTexCoord);
    vec3 albedo = mix(uBase, tex.rgb, tex.a);
    vec3 result = (uAmbient + diff * vec3(0.7)) * albedo;
    result += uEmissive.rgb * uEmissive.a;
    FragColor = vec4(result, 1.0);
}
`

// NewViewer creates a viewer with an offscreen target of the given
// pixel size and uploads the scene's geometry.
func NewViewer(scene *model.SceneModel, width, height int32) (*Viewer, error) {
	target, err := framebuffer.New(width, height)
	if err != nil {
		return nil, fmt.Errorf("render target: %w", err)
	}

	v := &Viewer{
		target:   target,
		textures: make(map[*model.Texture]*glTexture),
	}

	v.shaderProgram, err = shader.CompileProgram(vertexShaderSource, fragmentShaderSource)
	if err != nil {
		v.Destroy()
		return nil, fmt.Errorf("shader: %w", err)
	}
	v.locView = shader.Uniform(v.shaderProgram, "uView")
	v.locProjection = shader.Uniform(v.shaderProgram, "uProjection")
	v.locLightDir = shader.Uniform(v.shaderProgram, "uLightDir")
	v.locAmbient = shader.Uniform(v.shaderProgram, "uAmbient")
	v.locBase = shader.Uniform(v.shaderProgram, "uBase")
	v.locEmissive = shader.Uniform(v.shaderProgram, "uEmissive")
	v.locTexture = shader.Uniform(v.shaderProgram, "uTexture")

	v.createClearTexture()

	for _, part := range scene.Parts() {
		v.uploadPart(part)
	}
	return v, nil
}

// Size returns the offscreen target's pixel dimensions.
func (v *Viewer) Size() (w, h float32) {
	tw, th := v.target.Size()
	return float32(tw), float32(th)
}

// Snapshot reads back the last rendered frame.
func (v *Viewer) Snapshot() *image.NRGBA {
	return v.target.Snapshot()
}

func (v *Viewer) createClearTexture() {
	gl.GenTextures(1, &v.clearTexture)
	gl.BindTexture(gl.TEXTURE_2D, v.clearTexture)
	clear := []uint8{0, 0, 0, 0}
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA, 1, 1, 0, gl.RGBA, gl.UNSIGNED_BYTE, unsafe.Pointer(&clear[0]))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
}

func (v *Viewer) uploadPart(part *model.Part) {
	mesh := part.Mesh()
	if len(mesh.Positions) == 0 || len(mesh.Indices) == 0 {
		return
	}

	vertices := make([]partVertex, len(mesh.Positions))
	for i := range mesh.Positions {
		vertices[i].Position = mesh.Positions[i]
		if i < len(mesh.Normals) {
			vertices[i].Normal = mesh.Normals[i]
		} else {
			vertices[i].Normal = [3]float32{0, 1, 0}
		}
		if i < len(mesh.UVs) {
			vertices[i].TexCoord = mesh.UVs[i]
		}
	}

	pm := partMesh{part: part, indexCount: int32(len(mesh.Indices))}

	gl.GenVertexArrays(1, &pm.vao)
	gl.BindVertexArray(pm.vao)

	gl.GenBuffers(1, &pm.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, pm.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*int(unsafe.Sizeof(partVertex{})), unsafe.Pointer(&vertices[0]), gl.STATIC_DRAW)

	gl.GenBuffers(1, &pm.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, pm.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(mesh.Indices)*4, unsafe.Pointer(&mesh.Indices[0]), gl.STATIC_DRAW)

	stride := int32(unsafe.Sizeof(partVertex{}))
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, stride, 0)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(1, 3, gl.FLOAT, false, stride, 12)
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointerWithOffset(2, 2, gl.FLOAT, false, stride, 24)
	gl.EnableVertexAttribArray(2)

	gl.BindVertexArray(0)
	v.parts = append(v.parts, pm)
}

// Render draws the scene to the framebuffer and returns the color
// texture ID for the UI to display.
func (v *Viewer) Render(s *studio.Studio) uint32 {
	restore := v.target.Bind()
	defer restore()

	v.target.Clear(0.12, 0.12, 0.14, 1.0)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)

	gl.UseProgram(v.shaderProgram)

	cam := s.Camera()
	w, h := v.target.Size()
	projection := cam.ProjectionMatrix(float32(w) / float32(h))
	view := cam.ViewMatrix()

	gl.UniformMatrix4fv(v.locProjection, 1, false, projection.Ptr())
	gl.UniformMatrix4fv(v.locView, 1, false, view.Ptr())
	gl.Uniform3f(v.locLightDir, 0.4, 1.0, 0.6)
	gl.Uniform3f(v.locAmbient, 0.35, 0.35, 0.35)

	gl.ActiveTexture(gl.TEXTURE0)
	gl.Uniform1i(v.locTexture, 0)

	for _, pm := range v.parts {
		mat := pm.part.Material()
		gl.Uniform3f(v.locBase, mat.Base[0], mat.Base[1], mat.Base[2])
		gl.Uniform4f(v.locEmissive, mat.Emissive[0], mat.Emissive[1], mat.Emissive[2], mat.EmissiveIntensity)

		gl.BindTexture(gl.TEXTURE_2D, v.textureFor(mat.Texture))

		gl.BindVertexArray(pm.vao)
		gl.DrawElements(gl.TRIANGLES, pm.indexCount, gl.UNSIGNED_INT, nil)
	}

	gl.BindVertexArray(0)

	return v.target.Texture()
}

// textureFor returns the GL texture for a material texture slot,
// uploading or refreshing it when the CPU side changed.
func (v *Viewer) textureFor(tex *model.Texture) uint32 {
	if tex == nil || tex.Image == nil {
		return v.clearTexture
	}

	gt := v.textures[tex]
	pix, w, h := texturePixels(tex.Image)
	if pix == nil {
		return v.clearTexture
	}

	if gt == nil {
		gt = &glTexture{w: w, h: h}
		gl.GenTextures(1, &gt.id)
		gl.BindTexture(gl.TEXTURE_2D, gt.id)
		gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA, w, h, 0, gl.RGBA, gl.UNSIGNED_BYTE, unsafe.Pointer(&pix[0]))
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
		gt.version = tex.Version
		v.textures[tex] = gt
		return gt.id
	}

	if gt.version != tex.Version {
		gl.BindTexture(gl.TEXTURE_2D, gt.id)
		if gt.w == w && gt.h == h {
			gl.TexSubImage2D(gl.TEXTURE_2D, 0, 0, 0, w, h, gl.RGBA, gl.UNSIGNED_BYTE, unsafe.Pointer(&pix[0]))
		} else {
			gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA, w, h, 0, gl.RGBA, gl.UNSIGNED_BYTE, unsafe.Pointer(&pix[0]))
			gt.w, gt.h = w, h
		}
		gt.version = tex.Version
	}
	return gt.id
}

// texturePixels returns tightly packed RGBA bytes for an image.
// NRGBA and RGBA images with a tight stride are used in place; anything
// else gets converted.
func texturePixels(img image.Image) ([]uint8, int32, int32) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return nil, 0, 0
	}

	switch src := img.(type) {
	case *image.NRGBA:
		if src.Stride == w*4 {
			return src.Pix, int32(w), int32(h)
		}
	case *image.RGBA:
		if src.Stride == w*4 {
			return src.Pix, int32(w), int32(h)
		}
	}

	rgba := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	return rgba.Pix, int32(w), int32(h)
}

// Destroy releases all OpenGL resources.
func (v *Viewer) Destroy() {
	for _, pm := range v.parts {
		if pm.vao != 0 {
			gl.DeleteVertexArrays(1, &pm.vao)
		}
		if pm.vbo != 0 {
			gl.DeleteBuffers(1, &pm.vbo)
		}
		if pm.ebo != 0 {
			gl.DeleteBuffers(1, &pm.ebo)
		}
	}
	v.parts = nil

	for _, gt := range v.textures {
		if gt.id != 0 {
			gl.DeleteTextures(1, &gt.id)
		}
	}
	v.textures = nil

	if v.clearTexture != 0 {
		gl.DeleteTextures(1, &v.clearTexture)
	}
	if v.shaderProgram != 0 {
		gl.DeleteProgram(v.shaderProgram)
	}
	if v.target != nil {
		v.target.Destroy()
		v.target = nil
	}
}
