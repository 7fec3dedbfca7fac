// Package interact owns the hover/selection state of the studio and
// keeps part materials in sync with it.
package interact

// Tracker maintains the currently hovered and currently selected part
// as exclusive, single-valued state. Hover is transient and follows the
// pointer; selection persists until explicitly changed. Writing a value
// equal to the current one reports no change, which is what keeps
// redundant pointer-move events from triggering material work
// downstream.
type Tracker struct {
	hovered  string
	selected string
}

// Hovered returns the hovered part id ("" when nothing is hovered).
func (t *Tracker) Hovered() string {
	return t.hovered
}

// Selected returns the selected part id ("" when nothing is selected).
func (t *Tracker) Selected() string {
	return t.selected
}

// SetHover moves hover to the given part, replacing any prior hover.
// Returns false when the hover target did not change.
func (t *Tracker) SetHover(partID string) bool {
	if t.hovered == partID {
		return false
	}
	t.hovered = partID
	return true
}

// ClearHover clears the hover state. Returns false if nothing was
// hovered.
func (t *Tracker) ClearHover() bool {
	return t.SetHover("")
}

// Click applies selection semantics for a click on the given part:
// clicking the selected part deselects it, clicking any other part
// selects it and clears hover. Clicking with an empty id is a no-op
// (pointer misses are not selection changes). Returns the resulting
// selection and whether anything changed.
func (t *Tracker) Click(partID string) (selected string, changed bool) {
	if partID == "" {
		return t.selected, false
	}
	if t.selected == partID {
		t.selected = ""
		return "", true
	}
	t.selected = partID
	t.hovered = ""
	return partID, true
}

// Reset clears both hover and selection.
func (t *Tracker) Reset() {
	t.hovered = ""
	t.selected = ""
}
