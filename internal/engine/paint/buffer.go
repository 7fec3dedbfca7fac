// Package paint implements the freehand drawing subsystem: per-part
// pixel buffers that pointer drags rasterize brush strokes into, and
// that are presented live as material textures.
package paint

import (
	"bytes"
	"image"
	"image/png"
)

// Buffer is one part's offscreen paint surface: straight-alpha RGBA
// pixels at a fixed logical resolution. Row 0 is the top of the UV map.
type Buffer struct {
	W, H int
	Pix  []uint8 // RGBA, 4 bytes per pixel, row-major from the top
}

// NewBuffer creates a fully transparent buffer.
func NewBuffer(w, h int) *Buffer {
	return &Buffer{
		W:   w,
		H:   h,
		Pix: make([]uint8, w*h*4),
	}
}

// Clear resets every pixel to transparent.
func (b *Buffer) Clear() {
	for i := range b.Pix {
		b.Pix[i] = 0
	}
}

// AlphaAt returns the alpha value at a pixel, 0 outside the buffer.
func (b *Buffer) AlphaAt(x, y int) uint8 {
	if x < 0 || x >= b.W || y < 0 || y >= b.H {
		return 0
	}
	return b.Pix[(y*b.W+x)*4+3]
}

// StampDisc draws (or erases) a filled disc centered at (cx, cy) in
// buffer pixel coordinates. Painting blends source-over with the given
// opacity; erasing clears pixels to transparent.
func (b *Buffer) StampDisc(cx, cy, radius float32, color [3]float32, opacity float32, erase bool) {
	if radius <= 0 {
		return
	}
	if opacity < 0 {
		opacity = 0
	}
	if opacity > 1 {
		opacity = 1
	}

	minX := int(cx - radius)
	maxX := int(cx + radius + 1)
	minY := int(cy - radius)
	maxY := int(cy + radius + 1)
	if minX < 0 {
		minX = 0
	}
	if minY < 0 {
		minY = 0
	}
	if maxX > b.W {
		maxX = b.W
	}
	if maxY > b.H {
		maxY = b.H
	}

	r2 := radius * radius
	srcR := color[0] * 255
	srcG := color[1] * 255
	srcB := color[2] * 255

	for y := minY; y < maxY; y++ {
		dy := float32(y) + 0.5 - cy
		for x := minX; x < maxX; x++ {
			dx := float32(x) + 0.5 - cx
			if dx*dx+dy*dy > r2 {
				continue
			}
			i := (y*b.W + x) * 4

			if erase {
				b.Pix[i] = 0
				b.Pix[i+1] = 0
				b.Pix[i+2] = 0
				b.Pix[i+3] = 0
				continue
			}

			dstA := float32(b.Pix[i+3]) / 255
			outA := opacity + dstA*(1-opacity)
			if outA <= 0 {
				continue
			}
			// Straight-alpha source-over.
			blend := func(src float32, dst uint8) uint8 {
				out := (src*opacity + float32(dst)*dstA*(1-opacity)) / outA
				if out > 255 {
					out = 255
				}
				return uint8(out + 0.5)
			}
			b.Pix[i] = blend(srcR, b.Pix[i])
			b.Pix[i+1] = blend(srcG, b.Pix[i+1])
			b.Pix[i+2] = blend(srcB, b.Pix[i+2])
			b.Pix[i+3] = uint8(outA*255 + 0.5)
		}
	}
}

// Image wraps the buffer as a straight-alpha image sharing the same
// pixel memory.
func (b *Buffer) Image() *image.NRGBA {
	return &image.NRGBA{
		Pix:    b.Pix,
		Stride: b.W * 4,
		Rect:   image.Rect(0, 0, b.W, b.H),
	}
}

// EncodePNG serializes the buffer to PNG.
func (b *Buffer) EncodePNG() ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, b.Image()); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
