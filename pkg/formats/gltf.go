// Package formats provides parsers for the asset file formats used by
// the studio. glTF 2.0 (.gltf JSON + external .bin, or packed .glb) is
// the model container for sneaker assets.
package formats

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// glTF format errors.
var (
	ErrInvalidGLBMagic        = errors.New("invalid GLB magic: expected 'glTF'")
	ErrUnsupportedGLTFVersion = errors.New("unsupported glTF version")
	ErrTruncatedGLTFData      = errors.New("truncated glTF data")
	ErrMissingBuffer          = errors.New("referenced buffer data is missing")
	ErrInvalidAccessor        = errors.New("invalid accessor")
)

// GLTFAsset is the glTF asset header.
type GLTFAsset struct {
	Version   string `json:"version"`
	Generator string `json:"generator"`
}

// GLTFScene lists root node indices.
type GLTFScene struct {
	Name  string `json:"name"`
	Nodes []int  `json:"nodes"`
}

// GLTFNode is one node in the scene hierarchy. A node either carries an
// explicit matrix or a TRS triple, never both.
type GLTFNode struct {
	Name        string      `json:"name"`
	Mesh        *int        `json:"mesh"`
	Children    []int       `json:"children"`
	Matrix      *[16]float32 `json:"matrix"`
	Translation *[3]float32 `json:"translation"`
	Rotation    *[4]float32 `json:"rotation"` // Quaternion (x, y, z, w)
	Scale       *[3]float32 `json:"scale"`
}

// GLTFPrimitive is one draw batch of a mesh.
type GLTFPrimitive struct {
	Attributes map[string]int `json:"attributes"`
	Indices    *int           `json:"indices"`
	Material   *int           `json:"material"`
	Mode       *int           `json:"mode"`
}

// GLTFMesh groups primitives under a name.
type GLTFMesh struct {
	Name       string          `json:"name"`
	Primitives []GLTFPrimitive `json:"primitives"`
}

// GLTFTextureRef points a material at a texture.
type GLTFTextureRef struct {
	Index int `json:"index"`
}

// GLTFPBR holds the metallic-roughness material parameters.
type GLTFPBR struct {
	BaseColorFactor  *[4]float32     `json:"baseColorFactor"`
	BaseColorTexture *GLTFTextureRef `json:"baseColorTexture"`
	MetallicFactor   *float32        `json:"metallicFactor"`
	RoughnessFactor  *float32        `json:"roughnessFactor"`
}

// GLTFMaterial describes surface appearance.
type GLTFMaterial struct {
	Name           string      `json:"name"`
	PBR            *GLTFPBR    `json:"pbrMetallicRoughness"`
	EmissiveFactor *[3]float32 `json:"emissiveFactor"`
	DoubleSided    bool        `json:"doubleSided"`
}

// GLTFTexture binds an image to a sampler slot.
type GLTFTexture struct {
	Source *int `json:"source"`
}

// GLTFImage is an embedded or externally referenced image.
type GLTFImage struct {
	Name       string `json:"name"`
	URI        string `json:"uri"`
	MimeType   string `json:"mimeType"`
	BufferView *int   `json:"bufferView"`
}

// GLTFAccessor describes typed access into a buffer view.
type GLTFAccessor struct {
	BufferView    *int   `json:"bufferView"`
	ByteOffset    int    `json:"byteOffset"`
	ComponentType int    `json:"componentType"`
	Count         int    `json:"count"`
	Type          string `json:"type"`
}

// GLTFBufferView is a byte range of a buffer.
type GLTFBufferView struct {
	Buffer     int `json:"buffer"`
	ByteOffset int `json:"byteOffset"`
	ByteLength int `json:"byteLength"`
	ByteStride int `json:"byteStride"`
}

// GLTFBuffer references raw binary data.
type GLTFBuffer struct {
	URI        string `json:"uri"`
	ByteLength int    `json:"byteLength"`
}

// Document is a parsed glTF asset with its binary buffers resolved.
type Document struct {
	Asset       GLTFAsset        `json:"asset"`
	Scene       *int             `json:"scene"`
	Scenes      []GLTFScene      `json:"scenes"`
	Nodes       []GLTFNode       `json:"nodes"`
	Meshes      []GLTFMesh       `json:"meshes"`
	Materials   []GLTFMaterial   `json:"materials"`
	Textures    []GLTFTexture    `json:"textures"`
	Images      []GLTFImage      `json:"images"`
	Accessors   []GLTFAccessor   `json:"accessors"`
	BufferViews []GLTFBufferView `json:"bufferViews"`
	Buffers     []GLTFBuffer     `json:"buffers"`

	// Resolved binary payload per buffer, filled during parsing.
	bufferData [][]byte
}

// ResourceLoader resolves a relative URI to its raw bytes. Used for
// external .bin payloads and texture files referenced by .gltf assets.
type ResourceLoader func(uri string) ([]byte, error)

// Accessor component types (glTF 2.0 spec, 5120-5126).
const (
	ComponentByte          = 5120
	ComponentUnsignedByte  = 5121
	ComponentShort         = 5122
	ComponentUnsignedShort = 5123
	ComponentUnsignedInt   = 5125
	ComponentFloat         = 5126
)

// Attribute names used by the mesh builder.
const (
	AttrPosition = "POSITION"
	AttrNormal   = "NORMAL"
	AttrTexCoord = "TEXCOORD_0"
)

// ParseGLTF parses a .gltf JSON document and resolves its buffers.
// External buffer URIs are fetched through the loader; data URIs are
// decoded inline. The loader may be nil when all buffers are embedded.
func ParseGLTF(data []byte, loader ResourceLoader) (*Document, error) {
	doc, err := decodeDocument(data)
	if err != nil {
		return nil, err
	}
	if err := doc.resolveBuffers(nil, loader); err != nil {
		return nil, err
	}
	return doc, nil
}

func decodeDocument(data []byte) (*Document, error) {
	if len(data) == 0 {
		return nil, ErrTruncatedGLTFData
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decoding glTF JSON: %w", err)
	}

	// Only major version 2 is supported.
	if !strings.HasPrefix(doc.Asset.Version, "2.") {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedGLTFVersion, doc.Asset.Version)
	}

	return &doc, nil
}

// resolveBuffers fills bufferData for every buffer. binChunk is the GLB
// binary chunk for the buffer with no URI (nil for .gltf files).
func (d *Document) resolveBuffers(binChunk []byte, loader ResourceLoader) error {
	d.bufferData = make([][]byte, len(d.Buffers))
	for i, buf := range d.Buffers {
		switch {
		case buf.URI == "":
			// GLB-style buffer: data comes from the binary chunk.
			if binChunk == nil {
				return fmt.Errorf("%w: buffer %d has no URI and no GLB chunk", ErrMissingBuffer, i)
			}
			if len(binChunk) < buf.ByteLength {
				return fmt.Errorf("%w: buffer %d wants %d bytes, chunk has %d",
					ErrTruncatedGLTFData, i, buf.ByteLength, len(binChunk))
			}
			d.bufferData[i] = binChunk[:buf.ByteLength]

		case strings.HasPrefix(buf.URI, "data:"):
			raw, err := decodeDataURI(buf.URI)
			if err != nil {
				return fmt.Errorf("buffer %d: %w", i, err)
			}
			d.bufferData[i] = raw

		default:
			if loader == nil {
				return fmt.Errorf("%w: buffer %d needs loader for %q", ErrMissingBuffer, i, buf.URI)
			}
			raw, err := loader(buf.URI)
			if err != nil {
				return fmt.Errorf("loading buffer %d (%s): %w", i, buf.URI, err)
			}
			d.bufferData[i] = raw
		}

		if len(d.bufferData[i]) < buf.ByteLength {
			return fmt.Errorf("%w: buffer %d has %d bytes, declared %d",
				ErrTruncatedGLTFData, i, len(d.bufferData[i]), buf.ByteLength)
		}
	}
	return nil
}

func decodeDataURI(uri string) ([]byte, error) {
	idx := strings.Index(uri, ",")
	if idx < 0 {
		return nil, fmt.Errorf("malformed data URI")
	}
	meta, payload := uri[:idx], uri[idx+1:]
	if !strings.HasSuffix(meta, ";base64") {
		return nil, fmt.Errorf("unsupported data URI encoding")
	}
	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("decoding data URI: %w", err)
	}
	return raw, nil
}

// ImageData returns the raw bytes of image i, whether it is embedded in
// a buffer view, a data URI, or an external file fetched via loader.
func (d *Document) ImageData(i int, loader ResourceLoader) ([]byte, error) {
	if i < 0 || i >= len(d.Images) {
		return nil, fmt.Errorf("image index %d out of range", i)
	}
	img := d.Images[i]

	if img.BufferView != nil {
		return d.viewData(*img.BufferView)
	}
	if strings.HasPrefix(img.URI, "data:") {
		return decodeDataURI(img.URI)
	}
	if img.URI != "" {
		if loader == nil {
			return nil, fmt.Errorf("%w: image %d needs loader for %q", ErrMissingBuffer, i, img.URI)
		}
		return loader(img.URI)
	}
	return nil, fmt.Errorf("image %d has no source", i)
}

func (d *Document) viewData(view int) ([]byte, error) {
	if view < 0 || view >= len(d.BufferViews) {
		return nil, fmt.Errorf("%w: buffer view %d out of range", ErrInvalidAccessor, view)
	}
	bv := d.BufferViews[view]
	if bv.Buffer < 0 || bv.Buffer >= len(d.bufferData) {
		return nil, fmt.Errorf("%w: buffer %d out of range", ErrInvalidAccessor, bv.Buffer)
	}
	data := d.bufferData[bv.Buffer]
	end := bv.ByteOffset + bv.ByteLength
	if bv.ByteOffset < 0 || end > len(data) {
		return nil, fmt.Errorf("%w: view %d range [%d:%d] exceeds buffer size %d",
			ErrTruncatedGLTFData, view, bv.ByteOffset, end, len(data))
	}
	return data[bv.ByteOffset:end], nil
}
