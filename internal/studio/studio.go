// Package studio ties the engine subsystems into the customization
// workspace: one object that owns the scene, camera, picking, hover and
// selection state, the color map and the paint engine, and translates
// raw pointer events into them.
package studio

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/candiikay/sneakerlab/internal/engine/camera"
	"github.com/candiikay/sneakerlab/internal/engine/interact"
	"github.com/candiikay/sneakerlab/internal/engine/model"
	"github.com/candiikay/sneakerlab/internal/engine/paint"
	"github.com/candiikay/sneakerlab/internal/engine/picking"
)

// Mode is the active interaction mode.
type Mode int

const (
	// ModeColor: clicks select parts, the color map recolors them.
	ModeColor Mode = iota
	// ModeDraw: drags paint onto the draw target part.
	ModeDraw
)

// Studio is the customization workspace over one model instance.
type Studio struct {
	log    *zap.Logger
	scene  *model.SceneModel
	picker *picking.Picker
	track  *interact.Tracker
	sync   *interact.Synchronizer
	paint  *paint.Engine
	cam    *camera.OrbitCamera

	mode       Mode
	drawTarget string
	colors     map[string]string

	viewportW, viewportH float32
	lastX, lastY         float32
	pointerDown          bool
	orbiting             bool

	// Callbacks fired on state changes. All optional.
	OnPartHovered      func(id string)
	OnPartSelected     func(id string)
	OnDrawingCommitted func(partID string, png []byte)
}

// New creates a studio over a scene. The camera is fitted to the
// scene's bounds so the model fills the viewport.
func New(scene *model.SceneModel, bufferSize int, log *zap.Logger) *Studio {
	if log == nil {
		log = zap.NewNop()
	}
	cam := camera.NewOrbitCamera()
	cam.FitToBounds(scene.Bounds())

	return &Studio{
		log:    log,
		scene:  scene,
		picker: picking.NewPicker(scene, bufferSize),
		track:  &interact.Tracker{},
		sync:   interact.NewSynchronizer(scene, interact.DefaultEmphasis()),
		paint:  paint.NewEngine(scene, bufferSize),
		cam:    cam,
		colors: make(map[string]string),
	}
}

// SetStrictOcclusion controls whether draw strokes respect occluding
// parts; off by default, so drawing reaches a targeted part even when
// another part sits in front of it.
func (s *Studio) SetStrictOcclusion(strict bool) {
	s.picker.StrictOcclusion = strict
}

// Scene returns the live model instance.
func (s *Studio) Scene() *model.SceneModel { return s.scene }

// Camera returns the viewport camera.
func (s *Studio) Camera() *camera.OrbitCamera { return s.cam }

// Paint returns the paint engine, for rendering and brush control.
func (s *Studio) Paint() *paint.Engine { return s.paint }

// Mode returns the active interaction mode.
func (s *Studio) Mode() Mode { return s.mode }

// Hovered returns the hovered part id ("" for none).
func (s *Studio) Hovered() string { return s.track.Hovered() }

// Selected returns the selected part id ("" for none).
func (s *Studio) Selected() string { return s.track.Selected() }

// DrawTarget returns the part receiving strokes in draw mode.
func (s *Studio) DrawTarget() string { return s.drawTarget }

// SetViewport tells the studio the pixel size of the 3D view, needed
// to unproject pointer positions.
func (s *Studio) SetViewport(w, h float32) {
	s.viewportW, s.viewportH = w, h
}

// SetPartColor assigns a palette color to a part. The change reaches
// the material on the next Update.
func (s *Studio) SetPartColor(partID, hex string) error {
	part := s.scene.Part(partID)
	if part == nil {
		return fmt.Errorf("studio: no part %q", partID)
	}
	if _, err := model.ParseHexColor(hex); err != nil {
		return err
	}
	s.colors[partID] = hex
	s.log.Debug("part color set", zap.String("part", partID), zap.String("color", hex))
	return nil
}

// RemovePartColor drops a part's palette assignment; the next Update
// restores its original base color.
func (s *Studio) RemovePartColor(partID string) {
	delete(s.colors, partID)
}

// Colors returns a copy of the current palette assignments.
func (s *Studio) Colors() map[string]string {
	out := make(map[string]string, len(s.colors))
	for k, v := range s.colors {
		out[k] = v
	}
	return out
}

// EnterDrawMode switches to draw mode targeting one part.
func (s *Studio) EnterDrawMode(partID string) error {
	part := s.scene.Part(partID)
	if part == nil || !part.Interactive() {
		return fmt.Errorf("studio: no drawable part %q", partID)
	}
	s.mode = ModeDraw
	s.drawTarget = partID
	s.track.ClearHover()
	s.log.Info("draw mode on", zap.String("part", partID))
	return nil
}

// ExitDrawMode leaves draw mode. With commit the artwork becomes the
// part's texture and OnDrawingCommitted receives the PNG; without it
// the part's pre-draw texture comes back.
func (s *Studio) ExitDrawMode(commit bool) error {
	if s.mode != ModeDraw {
		return nil
	}
	target := s.drawTarget
	s.mode = ModeColor
	s.drawTarget = ""

	if !commit {
		s.paint.Cancel(target)
		s.log.Info("draw mode cancelled", zap.String("part", target))
		return nil
	}

	png, err := s.paint.Commit(target)
	if err != nil {
		// Nothing was drawn; treat an empty commit as a cancel.
		s.paint.Cancel(target)
		return nil
	}
	s.log.Info("drawing committed",
		zap.String("part", target),
		zap.Int("bytes", len(png)))
	if s.OnDrawingCommitted != nil {
		s.OnDrawingCommitted(target, png)
	}
	return nil
}

// HandlePointerMove processes pointer motion at viewport pixel
// coordinates.
func (s *Studio) HandlePointerMove(x, y float32) {
	dx, dy := x-s.lastX, y-s.lastY
	s.lastX, s.lastY = x, y

	if s.orbiting {
		s.cam.HandleDrag(dx, dy)
		return
	}

	if s.mode == ModeDraw {
		if _, drawing := s.paint.Drawing(); drawing {
			if hit := s.picker.PickPart(s.ray(x, y), s.drawTarget); hit != nil {
				s.paint.ContinueStroke(hit.UV)
			}
		}
		return
	}

	hit := s.picker.Pick(s.ray(x, y))
	id := ""
	if hit != nil {
		id = hit.Part.ID()
	}
	if s.track.SetHover(id) && s.OnPartHovered != nil {
		s.OnPartHovered(id)
	}
}

// HandlePointerDown processes a primary-button press.
func (s *Studio) HandlePointerDown(x, y float32) {
	s.pointerDown = true
	s.lastX, s.lastY = x, y

	if s.mode == ModeDraw {
		if hit := s.picker.PickPart(s.ray(x, y), s.drawTarget); hit != nil {
			if err := s.paint.BeginStroke(s.drawTarget, hit.UV); err != nil {
				s.log.Warn("stroke rejected", zap.Error(err))
			}
			return
		}
		s.orbiting = true
		return
	}

	hit := s.picker.Pick(s.ray(x, y))
	if hit == nil {
		s.orbiting = true
		return
	}
	if selected, changed := s.track.Click(hit.Part.ID()); changed {
		s.log.Debug("selection changed", zap.String("part", selected))
		if s.OnPartSelected != nil {
			s.OnPartSelected(selected)
		}
	}
}

// SelectPart sets the selection directly, for list-driven UIs that
// bypass ray picking. Unlike a viewport click it does not toggle.
func (s *Studio) SelectPart(partID string) error {
	part := s.scene.Part(partID)
	if part == nil || !part.Interactive() {
		return fmt.Errorf("studio: no part %q", partID)
	}
	if s.track.Selected() == partID {
		return nil
	}
	if selected, changed := s.track.Click(partID); changed {
		if s.OnPartSelected != nil {
			s.OnPartSelected(selected)
		}
	}
	return nil
}

// HandlePointerLeave clears hover when the pointer moves off the
// viewport without a release event reaching us.
func (s *Studio) HandlePointerLeave() {
	if s.track.ClearHover() && s.OnPartHovered != nil {
		s.OnPartHovered("")
	}
}

// HandlePointerUp processes a primary-button release.
func (s *Studio) HandlePointerUp() {
	s.pointerDown = false
	s.orbiting = false
	s.paint.EndStroke()
}

// HandleScroll zooms the camera.
func (s *Studio) HandleScroll(delta float32) {
	s.cam.HandleZoom(delta)
}

// Update flushes pending hover, selection and color state into the
// materials, touching only parts whose state changed. It returns the
// ids of the touched parts.
func (s *Studio) Update() []string {
	return s.sync.Apply(s.track.Hovered(), s.track.Selected(), s.colors)
}

// Affordance reports the pointer shape for the current state.
func (s *Studio) Affordance() Affordance {
	switch {
	case s.orbiting:
		return AffordanceGrabbing
	case s.mode == ModeDraw:
		return AffordanceCrosshair
	case s.track.Hovered() != "":
		return AffordanceGrab
	default:
		return AffordanceNone
	}
}

func (s *Studio) ray(x, y float32) picking.Ray {
	w, h := s.viewportW, s.viewportH
	if w <= 0 || h <= 0 {
		w, h = 1, 1
	}
	invVP := s.cam.ProjectionMatrix(w / h).Mul(s.cam.ViewMatrix()).Inverse()
	return picking.ScreenToRay(x, y, w, h, invVP)
}
