package studio

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/candiikay/sneakerlab/internal/engine/model"
)

// quadPart builds a square part in the z=plane plane spanning
// [-half, half] on x and y, with UVs covering the full texture.
func quadPart(id string, half, plane float32) *model.Part {
	mesh := &model.Mesh{
		Positions: [][3]float32{
			{-half, -half, plane},
			{half, -half, plane},
			{half, half, plane},
			{-half, half, plane},
		},
		Normals: [][3]float32{
			{0, 0, 1}, {0, 0, 1}, {0, 0, 1}, {0, 0, 1},
		},
		UVs:     [][2]float32{{0, 1}, {1, 1}, {1, 0}, {0, 0}},
		Indices: []uint32{0, 1, 2, 0, 2, 3},
		Bounds: model.Bounds{
			Min: [3]float32{-half, -half, plane},
			Max: [3]float32{half, half, plane},
		},
	}
	return model.NewPart(id, mesh, model.NewMaterial([3]float32{0.8, 0.8, 0.8}))
}

// newTestStudio returns a studio over a sole quad at z=0 with a vamp
// quad behind it, viewport set. A pointer at the viewport center hits
// the sole.
func newTestStudio() *Studio {
	scene := model.NewSceneModel(
		quadPart("sole", 10, 0),
		quadPart("vamp", 10, -1),
	)
	s := New(scene, 512, nil)
	s.SetViewport(800, 800)
	return s
}

func TestPointerMoveHoversNearestPart(t *testing.T) {
	s := newTestStudio()

	var hovered []string
	s.OnPartHovered = func(id string) { hovered = append(hovered, id) }

	s.HandlePointerMove(400, 400)
	if got := s.Hovered(); got != "sole" {
		t.Fatalf("hovered = %q, want %q", got, "sole")
	}
	if len(hovered) != 1 || hovered[0] != "sole" {
		t.Errorf("hover callbacks = %v, want [sole]", hovered)
	}

	// Same position again: no state change, no callback.
	s.HandlePointerMove(400, 400)
	if len(hovered) != 1 {
		t.Errorf("repeat move fired callback, got %v", hovered)
	}
}

func TestPointerMoveMissClearsHover(t *testing.T) {
	s := newTestStudio()
	// Back off so the model covers only the middle of the viewport.
	s.Camera().Distance *= 4
	s.HandlePointerMove(400, 400)
	s.HandlePointerMove(1, 1)
	if got := s.Hovered(); got != "" {
		t.Errorf("hovered after miss = %q, want empty", got)
	}
}

func TestPointerLeaveClearsHover(t *testing.T) {
	s := newTestStudio()

	var hovered []string
	s.OnPartHovered = func(id string) { hovered = append(hovered, id) }

	s.HandlePointerMove(400, 400)
	s.HandlePointerLeave()
	if got := s.Hovered(); got != "" {
		t.Errorf("hovered after leave = %q, want empty", got)
	}
	if len(hovered) != 2 || hovered[1] != "" {
		t.Errorf("hover callbacks = %v, want [sole ]", hovered)
	}

	// Leaving with nothing hovered is silent.
	s.HandlePointerLeave()
	if len(hovered) != 2 {
		t.Errorf("redundant leave fired a callback: %v", hovered)
	}
}

func TestClickSelectionToggle(t *testing.T) {
	s := newTestStudio()

	var selections []string
	s.OnPartSelected = func(id string) { selections = append(selections, id) }

	s.HandlePointerDown(400, 400)
	s.HandlePointerUp()
	if got := s.Selected(); got != "sole" {
		t.Fatalf("selected = %q, want %q", got, "sole")
	}

	s.HandlePointerDown(400, 400)
	s.HandlePointerUp()
	if got := s.Selected(); got != "" {
		t.Errorf("selected after toggle = %q, want empty", got)
	}
	want := []string{"sole", ""}
	if len(selections) != 2 || selections[0] != want[0] || selections[1] != want[1] {
		t.Errorf("selection callbacks = %v, want %v", selections, want)
	}
}

func TestMissedClickStartsOrbit(t *testing.T) {
	s := newTestStudio()
	s.Camera().Distance *= 4
	before := s.Camera().RotationY

	s.HandlePointerDown(1, 1)
	if got := s.Affordance(); got != AffordanceGrabbing {
		t.Fatalf("affordance during miss-drag = %v, want grabbing", got)
	}
	s.HandlePointerMove(101, 1)
	if s.Camera().RotationY == before {
		t.Error("orbit drag did not rotate the camera")
	}
	if got := s.Selected(); got != "" {
		t.Errorf("missed click selected %q", got)
	}
	s.HandlePointerUp()
}

func TestUpdateTouchesOnlyChangedParts(t *testing.T) {
	s := newTestStudio()

	if err := s.SetPartColor("vamp", "#ff0000"); err != nil {
		t.Fatalf("SetPartColor: %v", err)
	}
	touched := s.Update()
	if len(touched) != 1 || touched[0] != "vamp" {
		t.Fatalf("initial update touched %v, want [vamp]", touched)
	}

	// Hover moving onto the sole must leave the recolored vamp alone.
	s.HandlePointerMove(400, 400)
	vampWrites := s.Scene().Part("vamp").Material().Writes()
	touched = s.Update()
	if len(touched) != 1 || touched[0] != "sole" {
		t.Errorf("hover update touched %v, want [sole]", touched)
	}
	if got := s.Scene().Part("vamp").Material().Writes(); got != vampWrites {
		t.Errorf("vamp material written during sole hover: %d -> %d", vampWrites, got)
	}

	// Steady state: nothing changed, nothing touched.
	if touched = s.Update(); len(touched) != 0 {
		t.Errorf("steady-state update touched %v", touched)
	}
}

func TestSetPartColorValidation(t *testing.T) {
	s := newTestStudio()
	if err := s.SetPartColor("laces", "#ff0000"); err == nil {
		t.Error("coloring unknown part succeeded")
	}
	if err := s.SetPartColor("sole", "red"); err == nil {
		t.Error("invalid hex color accepted")
	}
}

func TestRemovePartColorRestores(t *testing.T) {
	s := newTestStudio()
	part := s.Scene().Part("sole")
	original := part.Material().Base

	if err := s.SetPartColor("sole", "#123456"); err != nil {
		t.Fatalf("SetPartColor: %v", err)
	}
	s.Update()
	if part.Material().Base == original {
		t.Fatal("color assignment did not change the base color")
	}

	s.RemovePartColor("sole")
	s.Update()
	if got := part.Material().Base; got != original {
		t.Errorf("base after removal = %v, want %v", got, original)
	}
}

func TestDrawModeStrokeAndCommit(t *testing.T) {
	s := newTestStudio()
	if err := s.EnterDrawMode("sole"); err != nil {
		t.Fatalf("EnterDrawMode: %v", err)
	}
	if got := s.Affordance(); got != AffordanceCrosshair {
		t.Errorf("affordance in draw mode = %v, want crosshair", got)
	}

	var committedPart string
	var committedPNG []byte
	s.OnDrawingCommitted = func(partID string, data []byte) {
		committedPart = partID
		committedPNG = data
	}

	s.HandlePointerDown(400, 400)
	if _, drawing := s.Paint().Drawing(); !drawing {
		t.Fatal("pointer down on target did not begin a stroke")
	}
	s.HandlePointerMove(420, 410)
	s.HandlePointerUp()

	if err := s.ExitDrawMode(true); err != nil {
		t.Fatalf("ExitDrawMode: %v", err)
	}
	if committedPart != "sole" {
		t.Fatalf("committed part = %q, want %q", committedPart, "sole")
	}
	if _, err := png.Decode(bytes.NewReader(committedPNG)); err != nil {
		t.Errorf("committed data is not PNG: %v", err)
	}
	if got := s.Mode(); got != ModeColor {
		t.Errorf("mode after exit = %v, want color", got)
	}
}

func TestDrawModeCancelRestoresTexture(t *testing.T) {
	s := newTestStudio()
	part := s.Scene().Part("sole")
	orig := &model.Texture{Name: "rubber"}
	part.Material().SetTexture(orig)

	if err := s.EnterDrawMode("sole"); err != nil {
		t.Fatalf("EnterDrawMode: %v", err)
	}
	s.HandlePointerDown(400, 400)
	s.HandlePointerUp()

	var committed bool
	s.OnDrawingCommitted = func(string, []byte) { committed = true }
	if err := s.ExitDrawMode(false); err != nil {
		t.Fatalf("ExitDrawMode: %v", err)
	}

	if part.Material().Texture != orig {
		t.Error("cancel did not restore the pre-draw texture")
	}
	if committed {
		t.Error("cancel fired the commit callback")
	}
}

func TestDrawModeStrokePastOccluder(t *testing.T) {
	// The vamp sits behind the sole on the center ray; targeting it in
	// draw mode must still land strokes on it.
	s := newTestStudio()
	if err := s.EnterDrawMode("vamp"); err != nil {
		t.Fatalf("EnterDrawMode: %v", err)
	}

	s.HandlePointerDown(400, 400)
	if id, drawing := s.Paint().Drawing(); !drawing || id != "vamp" {
		t.Fatalf("drawing = (%q, %v), want (vamp, true)", id, drawing)
	}
	s.HandlePointerUp()
	if s.Paint().BufferFor("vamp") == nil {
		t.Error("no paint buffer for occluded target")
	}
}

func TestEnterDrawModeUnknownPart(t *testing.T) {
	s := newTestStudio()
	if err := s.EnterDrawMode("laces"); err == nil {
		t.Error("EnterDrawMode on unknown part succeeded")
	}
	if got := s.Mode(); got != ModeColor {
		t.Errorf("mode after failed enter = %v, want color", got)
	}
}

func TestAffordanceStates(t *testing.T) {
	s := newTestStudio()
	if got := s.Affordance(); got != AffordanceNone {
		t.Errorf("idle affordance = %v, want none", got)
	}
	s.HandlePointerMove(400, 400)
	if got := s.Affordance(); got != AffordanceGrab {
		t.Errorf("hover affordance = %v, want grab", got)
	}
}

func TestSelectPartDirect(t *testing.T) {
	s := newTestStudio()

	var fired []string
	s.OnPartSelected = func(id string) { fired = append(fired, id) }

	if err := s.SelectPart("vamp"); err != nil {
		t.Fatalf("SelectPart: %v", err)
	}
	if got := s.Selected(); got != "vamp" {
		t.Errorf("selected = %q, want vamp", got)
	}

	// Selecting the same part again is not a toggle.
	if err := s.SelectPart("vamp"); err != nil {
		t.Fatalf("SelectPart repeat: %v", err)
	}
	if got := s.Selected(); got != "vamp" {
		t.Errorf("selected after repeat = %q, want vamp", got)
	}
	if len(fired) != 1 {
		t.Errorf("callback fired %d times, want 1", len(fired))
	}

	if err := s.SelectPart("laces"); err == nil {
		t.Error("SelectPart on unknown part succeeded")
	}
}
