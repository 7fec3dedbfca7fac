package model

import (
	"fmt"
	"image"
	"strings"
)

// Texture is a CPU-side texture bound into a material's color slot.
// Version increments on every content change so the renderer knows when
// to re-upload.
type Texture struct {
	Name    string
	Image   image.Image
	Version uint64
}

// Touch marks the texture content as changed.
func (t *Texture) Touch() {
	t.Version++
}

// Material holds the mutable surface appearance of one part. Every
// mutation bumps the write counter; the synchronizer's minimality
// guarantees are asserted against it in tests.
type Material struct {
	Base              [3]float32 // Base (diffuse) color, linear 0..1
	Emissive          [3]float32
	EmissiveIntensity float32
	Texture           *Texture

	writes uint64
}

// NewMaterial returns a material with the given base color and no
// emissive emphasis.
func NewMaterial(base [3]float32) *Material {
	return &Material{Base: base}
}

// Writes reports how many times this material has been mutated.
func (m *Material) Writes() uint64 {
	return m.writes
}

// SetBase sets the base color.
func (m *Material) SetBase(c [3]float32) {
	m.Base = c
	m.writes++
}

// SetEmissive sets the emissive color and intensity.
func (m *Material) SetEmissive(c [3]float32, intensity float32) {
	m.Emissive = c
	m.EmissiveIntensity = intensity
	m.writes++
}

// SetTexture replaces the texture slot content and returns the previous
// occupant so callers can restore it later.
func (m *Material) SetTexture(t *Texture) *Texture {
	prev := m.Texture
	m.Texture = t
	m.writes++
	return prev
}

// Clone returns an independent copy of the material with a fresh write
// counter. The texture reference is shared; live instances that paint
// swap in their own buffers.
func (m *Material) Clone() *Material {
	return &Material{
		Base:              m.Base,
		Emissive:          m.Emissive,
		EmissiveIntensity: m.EmissiveIntensity,
		Texture:           m.Texture,
	}
}

// ParseHexColor converts "#rrggbb" (case-insensitive, leading '#'
// optional) into a linear color triple.
func ParseHexColor(s string) ([3]float32, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 6 {
		return [3]float32{}, fmt.Errorf("invalid hex color %q", s)
	}

	var rgb [3]float32
	for i := 0; i < 3; i++ {
		hi, ok1 := hexNibble(s[i*2])
		lo, ok2 := hexNibble(s[i*2+1])
		if !ok1 || !ok2 {
			return [3]float32{}, fmt.Errorf("invalid hex color %q", s)
		}
		rgb[i] = float32(hi<<4|lo) / 255.0
	}
	return rgb, nil
}

// FormatHexColor converts a color triple back to "#rrggbb".
func FormatHexColor(c [3]float32) string {
	clamp := func(v float32) int {
		n := int(v*255 + 0.5)
		if n < 0 {
			return 0
		}
		if n > 255 {
			return 255
		}
		return n
	}
	return fmt.Sprintf("#%02x%02x%02x", clamp(c[0]), clamp(c[1]), clamp(c[2]))
}

func hexNibble(b byte) (int, bool) {
	switch {
	case b >= '0' && b <= '9':
		return int(b - '0'), true
	case b >= 'a' && b <= 'f':
		return int(b-'a') + 10, true
	case b >= 'A' && b <= 'F':
		return int(b-'A') + 10, true
	}
	return 0, false
}
