package interact

import (
	"github.com/candiikay/sneakerlab/internal/engine/model"
)

// EmphasisConfig sets the emissive highlight applied per interaction
// tier. Selected always wins over hovered.
type EmphasisConfig struct {
	SelectedColor     [3]float32
	SelectedIntensity float32
	HoveredColor      [3]float32
	HoveredIntensity  float32
}

// DefaultEmphasis returns the studio's standard highlight tiers.
func DefaultEmphasis() EmphasisConfig {
	return EmphasisConfig{
		SelectedColor:     [3]float32{1.0, 0.85, 0.3},
		SelectedIntensity: 0.6,
		HoveredColor:      [3]float32{1.0, 1.0, 1.0},
		HoveredIntensity:  0.15,
	}
}

// Synchronizer applies interaction state and the UI's part-color map to
// part materials, touching only the parts whose visual state actually
// changed since the previous pass. The color map is a read-only
// snapshot owned by the caller; the synchronizer keeps its own copy of
// the previously applied values for diffing.
type Synchronizer struct {
	scene *model.SceneModel
	cfg   EmphasisConfig

	prevHovered  string
	prevSelected string
	prevColors   map[string]string

	// Base colors at instantiation time, restored when a color-map key
	// disappears.
	originalBase map[string][3]float32
}

// NewSynchronizer creates a synchronizer for the given live model,
// caching every interactive part's load-time base color.
func NewSynchronizer(scene *model.SceneModel, cfg EmphasisConfig) *Synchronizer {
	s := &Synchronizer{
		scene:        scene,
		cfg:          cfg,
		prevColors:   make(map[string]string),
		originalBase: make(map[string][3]float32),
	}
	for _, part := range scene.Parts() {
		if part.Interactive() {
			s.originalBase[part.ID()] = part.Material().Base
		}
	}
	return s
}

// Apply synchronizes materials with the given interaction state and
// color map, and returns the ids of the parts it touched. Hover and
// selection contribute to the touched set only when they changed since
// the last pass (then both the old and new part are refreshed), plus
// every color-map key whose value changed; a steady-state pass touches
// nothing. Color-map keys with no matching part are ignored.
func (s *Synchronizer) Apply(hovered, selected string, colors map[string]string) []string {
	dirty := make(map[string]bool)
	mark := func(id string) {
		if id != "" {
			dirty[id] = true
		}
	}
	if hovered != s.prevHovered {
		mark(s.prevHovered)
		mark(hovered)
	}
	if selected != s.prevSelected {
		mark(s.prevSelected)
		mark(selected)
	}

	for id, hex := range colors {
		if s.prevColors[id] != hex {
			mark(id)
		}
	}
	for id := range s.prevColors {
		if _, still := colors[id]; !still {
			mark(id)
		}
	}

	var touched []string
	if len(dirty) > 0 {
		// One pass over the scene; parts outside the dirty set cost a
		// map lookup and nothing else.
		for _, part := range s.scene.Parts() {
			id := part.ID()
			if !dirty[id] {
				continue
			}
			s.applyPart(part, id, hovered, selected, colors)
			touched = append(touched, id)
		}
	}

	s.prevHovered = hovered
	s.prevSelected = selected
	s.prevColors = make(map[string]string, len(colors))
	for id, hex := range colors {
		s.prevColors[id] = hex
	}

	return touched
}

func (s *Synchronizer) applyPart(part *model.Part, id, hovered, selected string, colors map[string]string) {
	mat := part.Material()

	base := s.originalBase[id]
	if hex, ok := colors[id]; ok {
		if c, err := model.ParseHexColor(hex); err == nil {
			base = c
		}
	}
	mat.SetBase(base)

	switch id {
	case selected:
		mat.SetEmissive(s.cfg.SelectedColor, s.cfg.SelectedIntensity)
	case hovered:
		mat.SetEmissive(s.cfg.HoveredColor, s.cfg.HoveredIntensity)
	default:
		mat.SetEmissive([3]float32{}, 0)
	}
}
