package paint

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/candiikay/sneakerlab/internal/engine/model"
	"github.com/candiikay/sneakerlab/pkg/math"
)

func testScene() *model.SceneModel {
	mesh := &model.Mesh{
		Positions: [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}},
		UVs:       [][2]float32{{0, 0}, {1, 0}, {0, 1}},
		Indices:   []uint32{0, 1, 2},
	}
	return model.NewSceneModel(
		model.NewPart("vamp", mesh, model.NewMaterial([3]float32{1, 1, 1})),
		model.NewPart("sole", mesh, model.NewMaterial([3]float32{1, 1, 1})),
	)
}

func TestStrokeContinuity(t *testing.T) {
	scene := testScene()
	e := NewEngine(scene, 512)
	e.SetBrush(Brush{Radius: 5, Opacity: 1, Color: [3]float32{1, 0, 0}})

	if err := e.BeginStroke("vamp", math.Vec2{X: 0.1 * 512, Y: 0.1 * 512}); err != nil {
		t.Fatalf("BeginStroke: %v", err)
	}
	e.ContinueStroke(math.Vec2{X: 0.9 * 512, Y: 0.9 * 512})
	e.EndStroke()

	// The stroke runs along the diagonal; every sample on it must be
	// covered, with no gap wider than the brush.
	buf := e.BufferFor("vamp")
	if buf == nil {
		t.Fatal("no buffer allocated for vamp")
	}
	for p := 52; p <= 460; p++ {
		if buf.AlphaAt(p, p) == 0 {
			t.Fatalf("gap in stroke at (%d, %d)", p, p)
		}
	}
}

func TestFastDragInterpolates(t *testing.T) {
	e := NewEngine(testScene(), 512)
	e.SetBrush(Brush{Radius: 3, Opacity: 1, Color: [3]float32{0, 0, 1}})

	if err := e.BeginStroke("vamp", math.Vec2{X: 10, Y: 256}); err != nil {
		t.Fatalf("BeginStroke: %v", err)
	}
	// One event spanning most of the buffer.
	e.ContinueStroke(math.Vec2{X: 500, Y: 256})
	e.EndStroke()

	buf := e.BufferFor("vamp")
	for x := 10; x <= 500; x++ {
		if buf.AlphaAt(x, 256) == 0 {
			t.Fatalf("gap at x=%d after fast drag", x)
		}
	}
}

func TestBeginStrokeMountsBuffer(t *testing.T) {
	scene := testScene()
	part := scene.Part("vamp")
	orig := &model.Texture{Name: "leather"}
	part.Material().SetTexture(orig)
	before := part.Material().Writes()

	e := NewEngine(scene, 64)
	if err := e.BeginStroke("vamp", math.Vec2{X: 32, Y: 32}); err != nil {
		t.Fatalf("BeginStroke: %v", err)
	}

	tex := part.Material().Texture
	if tex == orig || tex == nil {
		t.Fatal("material texture slot not swapped to paint buffer")
	}
	if tex.Name != "paint:vamp" {
		t.Errorf("texture name = %q, want %q", tex.Name, "paint:vamp")
	}
	if part.Material().Writes() == before {
		t.Error("texture swap did not register as a material write")
	}

	// Second stroke on the same part must not swap again.
	e.EndStroke()
	after := part.Material().Writes()
	if err := e.BeginStroke("vamp", math.Vec2{X: 10, Y: 10}); err != nil {
		t.Fatalf("BeginStroke: %v", err)
	}
	if part.Material().Writes() != after {
		t.Error("re-entering a mounted part swapped the texture again")
	}
}

func TestCancelRestoresOriginalTexture(t *testing.T) {
	scene := testScene()
	part := scene.Part("vamp")
	orig := &model.Texture{Name: "leather"}
	part.Material().SetTexture(orig)

	e := NewEngine(scene, 64)
	if err := e.BeginStroke("vamp", math.Vec2{X: 32, Y: 32}); err != nil {
		t.Fatalf("BeginStroke: %v", err)
	}
	e.ContinueStroke(math.Vec2{X: 40, Y: 40})
	e.EndStroke()
	e.Cancel("vamp")

	if part.Material().Texture != orig {
		t.Errorf("texture after cancel = %v, want original %v", part.Material().Texture, orig)
	}
	// The buffer survives a cancel so drawing can resume.
	if e.BufferFor("vamp") == nil {
		t.Error("buffer discarded on cancel")
	}
}

func TestCancelRestoresNilTexture(t *testing.T) {
	scene := testScene()
	part := scene.Part("sole")
	if part.Material().Texture != nil {
		t.Fatal("expected untextured part")
	}

	e := NewEngine(scene, 64)
	if err := e.BeginStroke("sole", math.Vec2{X: 8, Y: 8}); err != nil {
		t.Fatalf("BeginStroke: %v", err)
	}
	e.EndStroke()
	e.Cancel("sole")

	if part.Material().Texture != nil {
		t.Errorf("texture after cancel = %v, want nil", part.Material().Texture)
	}
}

func TestEraseClearsPixels(t *testing.T) {
	e := NewEngine(testScene(), 128)
	e.SetBrush(Brush{Radius: 10, Opacity: 1, Color: [3]float32{0, 1, 0}})

	if err := e.BeginStroke("vamp", math.Vec2{X: 64, Y: 64}); err != nil {
		t.Fatalf("BeginStroke: %v", err)
	}
	e.EndStroke()

	buf := e.BufferFor("vamp")
	if buf.AlphaAt(64, 64) == 0 {
		t.Fatal("paint stamp left no coverage")
	}

	e.SetBrush(Brush{Radius: 10, Opacity: 1, Mode: ModeErase})
	if err := e.BeginStroke("vamp", math.Vec2{X: 64, Y: 64}); err != nil {
		t.Fatalf("BeginStroke: %v", err)
	}
	e.EndStroke()

	if a := buf.AlphaAt(64, 64); a != 0 {
		t.Errorf("alpha after erase = %d, want 0", a)
	}
}

func TestOpacityBlends(t *testing.T) {
	b := NewBuffer(32, 32)
	b.StampDisc(16, 16, 4, [3]float32{1, 0, 0}, 0.5, false)
	if a := b.AlphaAt(16, 16); a < 120 || a > 135 {
		t.Errorf("single half-opacity stamp alpha = %d, want ~128", a)
	}
	b.StampDisc(16, 16, 4, [3]float32{1, 0, 0}, 0.5, false)
	if a := b.AlphaAt(16, 16); a < 185 || a > 198 {
		t.Errorf("stacked half-opacity stamps alpha = %d, want ~191", a)
	}
}

func TestClearWipesBuffer(t *testing.T) {
	e := NewEngine(testScene(), 64)
	if err := e.BeginStroke("vamp", math.Vec2{X: 32, Y: 32}); err != nil {
		t.Fatalf("BeginStroke: %v", err)
	}
	e.EndStroke()

	e.Clear("vamp")
	buf := e.BufferFor("vamp")
	for i, v := range buf.Pix {
		if v != 0 {
			t.Fatalf("pixel byte %d = %d after clear, want 0", i, v)
		}
	}
}

func TestCommitProducesPNG(t *testing.T) {
	scene := testScene()
	part := scene.Part("vamp")
	orig := &model.Texture{Name: "leather"}
	part.Material().SetTexture(orig)

	e := NewEngine(scene, 64)
	e.SetBrush(Brush{Radius: 5, Opacity: 1, Color: [3]float32{1, 0, 1}})
	if err := e.BeginStroke("vamp", math.Vec2{X: 20, Y: 44}); err != nil {
		t.Fatalf("BeginStroke: %v", err)
	}
	e.EndStroke()

	data, err := e.Commit("vamp")
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("commit output is not PNG: %v", err)
	}
	if w := img.Bounds().Dx(); w != 64 {
		t.Errorf("committed width = %d, want 64", w)
	}

	// After commit the artwork is permanent: cancel must not bring the
	// pre-draw texture back.
	e.Cancel("vamp")
	if part.Material().Texture == orig {
		t.Error("cancel after commit restored the pre-draw texture")
	}
}

func TestCommitWithoutStrokesFails(t *testing.T) {
	e := NewEngine(testScene(), 64)
	if _, err := e.Commit("vamp"); err == nil {
		t.Error("Commit on untouched part succeeded, want error")
	}
}

func TestBeginStrokeUnknownPart(t *testing.T) {
	e := NewEngine(testScene(), 64)
	if err := e.BeginStroke("laces", math.Vec2{X: 1, Y: 1}); err == nil {
		t.Error("BeginStroke on unknown part succeeded, want error")
	}
}

func TestStrokeMatchesHitOrientation(t *testing.T) {
	// Buffer row 0 is the top of the UV map, so a stamp near the top
	// edge must land in low rows, not be mirrored to the bottom.
	e := NewEngine(testScene(), 512)
	e.SetBrush(Brush{Radius: 4, Opacity: 1, Color: [3]float32{1, 1, 0}})
	if err := e.BeginStroke("vamp", math.Vec2{X: 256, Y: 20}); err != nil {
		t.Fatalf("BeginStroke: %v", err)
	}
	e.EndStroke()

	buf := e.BufferFor("vamp")
	if buf.AlphaAt(256, 20) == 0 {
		t.Error("stamp missing at its target row near the top")
	}
	if buf.AlphaAt(256, 511-20) != 0 {
		t.Error("stamp mirrored to the bottom row")
	}
}

func TestBufferImageSharesPixels(t *testing.T) {
	b := NewBuffer(8, 8)
	img := b.Image()
	b.StampDisc(4, 4, 2, [3]float32{1, 1, 1}, 1, false)
	if img.Pix[(4*8+4)*4+3] == 0 {
		t.Error("image view does not share buffer memory")
	}
}
