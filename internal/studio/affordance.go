package studio

// Affordance is the pointer shape the host should present, derived
// from what a click or drag at the current position would do.
type Affordance int

const (
	// AffordanceNone: pointer over empty space, nothing to interact with.
	AffordanceNone Affordance = iota
	// AffordanceGrab: over an interactive part, or free space that a
	// drag would orbit.
	AffordanceGrab
	// AffordanceGrabbing: an orbit drag is in progress.
	AffordanceGrabbing
	// AffordanceCrosshair: draw mode is active; drags paint.
	AffordanceCrosshair
)

func (a Affordance) String() string {
	switch a {
	case AffordanceGrab:
		return "grab"
	case AffordanceGrabbing:
		return "grabbing"
	case AffordanceCrosshair:
		return "crosshair"
	default:
		return "none"
	}
}
