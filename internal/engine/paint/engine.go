package paint

import (
	"fmt"

	"github.com/candiikay/sneakerlab/internal/engine/model"
	"github.com/candiikay/sneakerlab/pkg/math"
)

// Mode selects between depositing paint and erasing it.
type Mode int

const (
	ModePaint Mode = iota
	ModeErase
)

// Brush describes the active drawing tool.
type Brush struct {
	Radius  float32 // in buffer pixels
	Opacity float32 // 0..1
	Color   [3]float32
	Mode    Mode
}

// DefaultBrush is the tool selected when a session starts.
var DefaultBrush = Brush{
	Radius:  6,
	Opacity: 1,
	Color:   [3]float32{0.1, 0.1, 0.1},
	Mode:    ModePaint,
}

// Engine owns one paint buffer per part, lazily allocated on first
// stroke and retained for the scene's lifetime. While drawing mode is
// active on a part, the part's material texture slot holds the live
// buffer; the displaced texture is kept aside so cancelling restores
// the material exactly.
type Engine struct {
	scene *model.SceneModel
	size  int
	brush Brush

	buffers map[string]*Buffer
	live    map[string]*model.Texture // part id -> texture wrapping its buffer
	saved   map[string]*model.Texture // part id -> displaced texture (may be nil)
	swapped map[string]bool

	activePart string
	last       math.Vec2
	drawing    bool
}

// NewEngine creates a paint engine over a scene with square buffers of
// the given resolution.
func NewEngine(scene *model.SceneModel, size int) *Engine {
	return &Engine{
		scene:   scene,
		size:    size,
		brush:   DefaultBrush,
		buffers: make(map[string]*Buffer),
		live:    make(map[string]*model.Texture),
		saved:   make(map[string]*model.Texture),
		swapped: make(map[string]bool),
	}
}

// SetBrush replaces the active tool. Taking effect on the next stamp,
// mid-stroke changes included.
func (e *Engine) SetBrush(b Brush) {
	e.brush = b
}

// Brush returns the active tool.
func (e *Engine) Brush() Brush {
	return e.brush
}

// BufferFor returns the part's paint buffer, or nil if no stroke has
// ever touched it.
func (e *Engine) BufferFor(partID string) *Buffer {
	return e.buffers[partID]
}

// Drawing reports whether a stroke is in progress and on which part.
func (e *Engine) Drawing() (string, bool) {
	return e.activePart, e.drawing
}

// BeginStroke starts a stroke on a part at a buffer-pixel position and
// stamps the brush there. The part's buffer is allocated on first use
// and mounted into the material texture slot.
func (e *Engine) BeginStroke(partID string, uv math.Vec2) error {
	part := e.scene.Part(partID)
	if part == nil || !part.Interactive() {
		return fmt.Errorf("paint: no paintable part %q", partID)
	}

	e.mount(partID, part)
	e.activePart = partID
	e.last = uv
	e.drawing = true
	e.stamp(partID, uv)
	return nil
}

// ContinueStroke extends the active stroke to a new position. The
// segment from the previous position is filled with intermediate
// stamps, one per pixel of the larger axis delta, so fast drags leave
// no gaps.
func (e *Engine) ContinueStroke(uv math.Vec2) {
	if !e.drawing {
		return
	}

	delta := uv.Sub(e.last)
	steps := int(delta.MaxAbsComponent())
	if steps < 1 {
		steps = 1
	}
	for i := 1; i <= steps; i++ {
		p := e.last.Lerp(uv, float32(i)/float32(steps))
		e.stamp(e.activePart, p)
	}
	e.last = uv
}

// EndStroke finishes the active stroke. The buffer stays mounted so
// the result remains visible; drawing mode for the part is still on.
func (e *Engine) EndStroke() {
	e.drawing = false
}

// Clear wipes a part's buffer back to transparent.
func (e *Engine) Clear(partID string) {
	if buf := e.buffers[partID]; buf != nil {
		buf.Clear()
		if tex := e.live[partID]; tex != nil {
			tex.Touch()
		}
	}
}

// Commit serializes a part's buffer to PNG and makes the painted
// texture permanent: the displaced original is forgotten, so leaving
// drawing mode afterwards keeps the artwork on the part.
func (e *Engine) Commit(partID string) ([]byte, error) {
	buf := e.buffers[partID]
	if buf == nil {
		return nil, fmt.Errorf("paint: nothing drawn on %q", partID)
	}
	data, err := buf.EncodePNG()
	if err != nil {
		return nil, err
	}
	delete(e.saved, partID)
	e.swapped[partID] = false
	return data, nil
}

// Cancel ends drawing mode for a part without committing: the material
// texture slot gets back exactly what it held before the first stroke.
// The buffer itself is retained in case drawing resumes.
func (e *Engine) Cancel(partID string) {
	if e.activePart == partID {
		e.drawing = false
	}
	if !e.swapped[partID] {
		return
	}
	if part := e.scene.Part(partID); part != nil {
		part.Material().SetTexture(e.saved[partID])
	}
	delete(e.saved, partID)
	e.swapped[partID] = false
}

func (e *Engine) mount(partID string, part *model.Part) {
	buf := e.buffers[partID]
	if buf == nil {
		buf = NewBuffer(e.size, e.size)
		e.buffers[partID] = buf
		e.live[partID] = &model.Texture{
			Name:  "paint:" + partID,
			Image: buf.Image(),
		}
	}
	if !e.swapped[partID] {
		e.saved[partID] = part.Material().SetTexture(e.live[partID])
		e.swapped[partID] = true
	}
}

func (e *Engine) stamp(partID string, p math.Vec2) {
	buf := e.buffers[partID]
	if buf == nil {
		return
	}
	b := e.brush
	buf.StampDisc(p.X, p.Y, b.Radius, b.Color, b.Opacity, b.Mode == ModeErase)
	if tex := e.live[partID]; tex != nil {
		tex.Touch()
	}
}
