// Typed accessor reads over glTF buffer views.
package formats

import (
	"encoding/binary"
	"fmt"
	"math"
)

// componentSize returns the byte width of one component.
func componentSize(componentType int) int {
	switch componentType {
	case ComponentByte, ComponentUnsignedByte:
		return 1
	case ComponentShort, ComponentUnsignedShort:
		return 2
	case ComponentUnsignedInt, ComponentFloat:
		return 4
	default:
		return 0
	}
}

// typeComponents returns how many components an accessor type carries.
func typeComponents(accessorType string) int {
	switch accessorType {
	case "SCALAR":
		return 1
	case "VEC2":
		return 2
	case "VEC3":
		return 3
	case "VEC4":
		return 4
	case "MAT4":
		return 16
	default:
		return 0
	}
}

// accessorBytes returns the backing bytes, element stride, and element
// size for an accessor.
func (d *Document) accessorBytes(i int) (data []byte, stride, elemSize int, acc GLTFAccessor, err error) {
	if i < 0 || i >= len(d.Accessors) {
		return nil, 0, 0, acc, fmt.Errorf("%w: accessor %d out of range", ErrInvalidAccessor, i)
	}
	acc = d.Accessors[i]

	comps := typeComponents(acc.Type)
	csize := componentSize(acc.ComponentType)
	if comps == 0 || csize == 0 {
		return nil, 0, 0, acc, fmt.Errorf("%w: accessor %d type %s/%d", ErrInvalidAccessor, i, acc.Type, acc.ComponentType)
	}
	elemSize = comps * csize

	if acc.BufferView == nil {
		// Sparse-only accessors are not used by sneaker assets.
		return nil, 0, 0, acc, fmt.Errorf("%w: accessor %d has no buffer view", ErrInvalidAccessor, i)
	}
	view, err := d.viewData(*acc.BufferView)
	if err != nil {
		return nil, 0, 0, acc, err
	}

	stride = d.BufferViews[*acc.BufferView].ByteStride
	if stride == 0 {
		stride = elemSize
	}

	need := acc.ByteOffset + (acc.Count-1)*stride + elemSize
	if acc.Count > 0 && need > len(view) {
		return nil, 0, 0, acc, fmt.Errorf("%w: accessor %d needs %d bytes, view has %d",
			ErrTruncatedGLTFData, i, need, len(view))
	}

	return view[acc.ByteOffset:], stride, elemSize, acc, nil
}

// ReadVec3 reads a VEC3 float accessor as [3]float32 triples.
func (d *Document) ReadVec3(i int) ([][3]float32, error) {
	data, stride, _, acc, err := d.accessorBytes(i)
	if err != nil {
		return nil, err
	}
	if acc.Type != "VEC3" || acc.ComponentType != ComponentFloat {
		return nil, fmt.Errorf("%w: accessor %d is %s/%d, want VEC3/float", ErrInvalidAccessor, i, acc.Type, acc.ComponentType)
	}

	out := make([][3]float32, acc.Count)
	for n := 0; n < acc.Count; n++ {
		base := n * stride
		for c := 0; c < 3; c++ {
			bits := binary.LittleEndian.Uint32(data[base+c*4 : base+c*4+4])
			out[n][c] = math.Float32frombits(bits)
		}
	}
	return out, nil
}

// ReadVec2 reads a VEC2 float accessor as [2]float32 pairs.
func (d *Document) ReadVec2(i int) ([][2]float32, error) {
	data, stride, _, acc, err := d.accessorBytes(i)
	if err != nil {
		return nil, err
	}
	if acc.Type != "VEC2" || acc.ComponentType != ComponentFloat {
		return nil, fmt.Errorf("%w: accessor %d is %s/%d, want VEC2/float", ErrInvalidAccessor, i, acc.Type, acc.ComponentType)
	}

	out := make([][2]float32, acc.Count)
	for n := 0; n < acc.Count; n++ {
		base := n * stride
		for c := 0; c < 2; c++ {
			bits := binary.LittleEndian.Uint32(data[base+c*4 : base+c*4+4])
			out[n][c] = math.Float32frombits(bits)
		}
	}
	return out, nil
}

// ReadIndices reads a SCALAR accessor of any integer width as uint32.
func (d *Document) ReadIndices(i int) ([]uint32, error) {
	data, stride, _, acc, err := d.accessorBytes(i)
	if err != nil {
		return nil, err
	}
	if acc.Type != "SCALAR" {
		return nil, fmt.Errorf("%w: accessor %d is %s, want SCALAR", ErrInvalidAccessor, i, acc.Type)
	}

	out := make([]uint32, acc.Count)
	for n := 0; n < acc.Count; n++ {
		base := n * stride
		switch acc.ComponentType {
		case ComponentUnsignedByte:
			out[n] = uint32(data[base])
		case ComponentUnsignedShort:
			out[n] = uint32(binary.LittleEndian.Uint16(data[base : base+2]))
		case ComponentUnsignedInt:
			out[n] = binary.LittleEndian.Uint32(data[base : base+4])
		default:
			return nil, fmt.Errorf("%w: accessor %d component type %d not valid for indices",
				ErrInvalidAccessor, i, acc.ComponentType)
		}
	}
	return out, nil
}
