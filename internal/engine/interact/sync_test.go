package interact

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/candiikay/sneakerlab/internal/engine/model"
)

func testScene(ids ...string) *model.SceneModel {
	parts := make([]*model.Part, 0, len(ids))
	for _, id := range ids {
		mesh := &model.Mesh{
			Positions: [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}},
			Indices:   []uint32{0, 1, 2},
		}
		parts = append(parts, model.NewPart(id, mesh, model.NewMaterial([3]float32{0.5, 0.5, 0.5})))
	}
	return model.NewSceneModel(parts...)
}

// writeCounts snapshots every part's material write counter.
func writeCounts(scene *model.SceneModel) map[string]uint64 {
	counts := make(map[string]uint64)
	for _, p := range scene.Parts() {
		counts[p.ID()] = p.Material().Writes()
	}
	return counts
}

// touchedSince diffs two snapshots and returns the ids whose materials
// were written in between.
func touchedSince(scene *model.SceneModel, before map[string]uint64) []string {
	var touched []string
	for _, p := range scene.Parts() {
		if p.Material().Writes() != before[p.ID()] {
			touched = append(touched, p.ID())
		}
	}
	sort.Strings(touched)
	return touched
}

func TestApply_IdempotentHover(t *testing.T) {
	scene := testScene("vamp", "sole")
	sync := NewSynchronizer(scene, DefaultEmphasis())

	sync.Apply("vamp", "", nil)

	before := writeCounts(scene)
	touched := sync.Apply("vamp", "", nil)
	if len(touched) != 0 {
		t.Errorf("repeated Apply touched %v, want nothing", touched)
	}
	if diff := touchedSince(scene, before); len(diff) != 0 {
		t.Errorf("materials written on no-op pass: %v", diff)
	}
}

func TestApply_SteadyStateNoWrites(t *testing.T) {
	scene := testScene("vamp", "sole", "heel")
	sync := NewSynchronizer(scene, DefaultEmphasis())
	colors := map[string]string{"heel": "#0000ff"}

	sync.Apply("vamp", "sole", colors)

	// Hover, selection and color map all unchanged: every further pass
	// must leave every material alone.
	before := writeCounts(scene)
	for i := 0; i < 3; i++ {
		if touched := sync.Apply("vamp", "sole", colors); len(touched) != 0 {
			t.Errorf("pass %d touched %v, want nothing", i, touched)
		}
	}
	if diff := touchedSince(scene, before); len(diff) != 0 {
		t.Errorf("steady-state passes wrote materials: %v", diff)
	}
}

func TestApply_HoverTransitionDirtySet(t *testing.T) {
	scene := testScene("vamp", "sole", "heel")
	sync := NewSynchronizer(scene, DefaultEmphasis())

	sync.Apply("vamp", "", nil)

	before := writeCounts(scene)
	sync.Apply("sole", "", nil)

	got := touchedSince(scene, before)
	want := []string{"sole", "vamp"} // old hover loses emphasis, new gains it
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("touched = %v, want %v", got, want)
	}
}

func TestApply_EmphasisPrecedence(t *testing.T) {
	scene := testScene("vamp", "sole")
	cfg := DefaultEmphasis()
	sync := NewSynchronizer(scene, cfg)

	// Part both selected and hovered: selected emphasis wins.
	sync.Apply("vamp", "vamp", nil)
	mat := scene.Part("vamp").Material()
	if mat.Emissive != cfg.SelectedColor || mat.EmissiveIntensity != cfg.SelectedIntensity {
		t.Errorf("emphasis = (%v, %v), want selected tier", mat.Emissive, mat.EmissiveIntensity)
	}

	sync.Apply("sole", "", nil)
	mat = scene.Part("sole").Material()
	if mat.Emissive != cfg.HoveredColor || mat.EmissiveIntensity != cfg.HoveredIntensity {
		t.Errorf("emphasis = (%v, %v), want hovered tier", mat.Emissive, mat.EmissiveIntensity)
	}
	if prev := scene.Part("vamp").Material(); prev.EmissiveIntensity != 0 {
		t.Errorf("deselected part kept emphasis intensity %v", prev.EmissiveIntensity)
	}
}

func TestApply_ColorMap(t *testing.T) {
	scene := testScene("vamp", "sole")
	sync := NewSynchronizer(scene, DefaultEmphasis())

	sync.Apply("", "", map[string]string{"vamp": "#ff0000"})
	if got := scene.Part("vamp").Material().Base; got != ([3]float32{1, 0, 0}) {
		t.Errorf("vamp base = %v, want red", got)
	}

	// Unchanged map entry is not reapplied.
	before := writeCounts(scene)
	sync.Apply("", "", map[string]string{"vamp": "#ff0000"})
	if diff := touchedSince(scene, before); len(diff) != 0 {
		t.Errorf("unchanged color map touched %v", diff)
	}

	// Removing the key restores the load-time base color.
	sync.Apply("", "", nil)
	if got := scene.Part("vamp").Material().Base; got != ([3]float32{0.5, 0.5, 0.5}) {
		t.Errorf("vamp base after removal = %v, want original", got)
	}
}

func TestApply_StaleColorKeyIgnored(t *testing.T) {
	scene := testScene("vamp")
	sync := NewSynchronizer(scene, DefaultEmphasis())

	before := writeCounts(scene)
	touched := sync.Apply("", "", map[string]string{"laces": "#00ff00"})
	if len(touched) != 0 {
		t.Errorf("stale key touched %v, want nothing", touched)
	}
	if diff := touchedSince(scene, before); len(diff) != 0 {
		t.Errorf("stale key wrote materials: %v", diff)
	}
}

// TestApply_DirtySetMinimality drives the synchronizer with random
// hover/select/color sequences and asserts after every pass that the
// touched set is exactly the expected dirty set.
func TestApply_DirtySetMinimality(t *testing.T) {
	ids := []string{"vamp", "sole", "heel", "tongue", "laces"}
	scene := testScene(ids...)
	sync := NewSynchronizer(scene, DefaultEmphasis())

	rng := rand.New(rand.NewSource(42))
	pick := func() string {
		if rng.Intn(4) == 0 {
			return ""
		}
		return ids[rng.Intn(len(ids))]
	}

	var hovered, selected string
	colors := make(map[string]string)
	palette := []string{"#ff0000", "#00ff00", "#0000ff", "#ffff00"}

	prevHovered, prevSelected := "", ""
	prevColors := make(map[string]string)

	for step := 0; step < 200; step++ {
		switch rng.Intn(3) {
		case 0:
			hovered = pick()
		case 1:
			selected = pick()
		case 2:
			id := ids[rng.Intn(len(ids))]
			if rng.Intn(5) == 0 {
				delete(colors, id)
			} else {
				colors[id] = palette[rng.Intn(len(palette))]
			}
		}

		expected := make(map[string]bool)
		if hovered != prevHovered {
			for _, id := range []string{prevHovered, hovered} {
				if id != "" {
					expected[id] = true
				}
			}
		}
		if selected != prevSelected {
			for _, id := range []string{prevSelected, selected} {
				if id != "" {
					expected[id] = true
				}
			}
		}
		for id, hex := range colors {
			if prevColors[id] != hex {
				expected[id] = true
			}
		}
		for id := range prevColors {
			if _, still := colors[id]; !still {
				expected[id] = true
			}
		}

		before := writeCounts(scene)
		sync.Apply(hovered, selected, colors)
		got := touchedSince(scene, before)

		if len(got) != len(expected) {
			t.Fatalf("step %d: touched %v, want exactly %v", step, got, expected)
		}
		for _, id := range got {
			if !expected[id] {
				t.Fatalf("step %d: touched unexpected part %q", step, id)
			}
		}

		prevHovered, prevSelected = hovered, selected
		prevColors = make(map[string]string, len(colors))
		for id, hex := range colors {
			prevColors[id] = hex
		}
	}
}
