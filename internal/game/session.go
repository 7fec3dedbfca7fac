package game

import (
	"fmt"

	"go.uber.org/zap"
)

// Phase is where a session stands in its lifecycle.
type Phase int

const (
	// PhaseBriefing: the customer has arrived and is stating the brief.
	PhaseBriefing Phase = iota
	// PhaseWorking: the clock runs and edits count.
	PhaseWorking
	// PhaseReview: the design is handed over and scored.
	PhaseReview
)

func (p Phase) String() string {
	switch p {
	case PhaseBriefing:
		return "briefing"
	case PhaseWorking:
		return "working"
	case PhaseReview:
		return "review"
	default:
		return "unknown"
	}
}

// Session runs one commission from briefing to review. Update drives
// the clock frame by frame; a timed session that runs out moves to
// review on its own with whatever design snapshot the deadline catches.
type Session struct {
	log      *zap.Logger
	customer Customer

	phase    Phase
	elapsed  float64
	changes  int
	timedOut bool
	halftime bool
	result   *Result

	// SnapshotDesign supplies the current design when a deadline forces
	// review. Required for timed sessions.
	SnapshotDesign func() Design

	// OnPhaseChange fires after every transition.
	OnPhaseChange func(Phase)

	// OnHalftime fires once when half the time limit is spent.
	OnHalftime func()
}

// NewSession creates a session in the briefing phase.
func NewSession(c Customer, log *zap.Logger) *Session {
	if log == nil {
		log = zap.NewNop()
	}
	return &Session{log: log, customer: c}
}

// Customer returns the commission being worked.
func (s *Session) Customer() Customer { return s.customer }

// Phase returns the current lifecycle phase.
func (s *Session) Phase() Phase { return s.phase }

// Changes returns how many design edits the session has counted.
func (s *Session) Changes() int { return s.changes }

// TimedOut reports whether review was forced by the clock.
func (s *Session) TimedOut() bool { return s.timedOut }

// Elapsed returns seconds spent in the working phase.
func (s *Session) Elapsed() float64 { return s.elapsed }

// Remaining returns seconds left on the clock, or -1 when untimed.
func (s *Session) Remaining() float64 {
	if s.customer.TimeLimit <= 0 {
		return -1
	}
	left := s.customer.TimeLimit - s.elapsed
	if left < 0 {
		left = 0
	}
	return left
}

// Result returns the score once the session reached review, else nil.
func (s *Session) Result() *Result { return s.result }

// Begin moves the session from briefing to working and starts the
// clock.
func (s *Session) Begin() error {
	if s.phase != PhaseBriefing {
		return fmt.Errorf("session: begin from %s", s.phase)
	}
	s.transition(PhaseWorking)
	s.log.Info("commission started",
		zap.String("customer", s.customer.Name),
		zap.Float64("time_limit", s.customer.TimeLimit))
	return nil
}

// Update advances the working clock. When a time limit exists and runs
// out, the session finishes itself with the snapshot design.
func (s *Session) Update(dt float64) {
	if s.phase != PhaseWorking {
		return
	}
	s.elapsed += dt
	if !s.halftime && s.customer.TimeLimit > 0 && s.elapsed >= s.customer.TimeLimit/2 {
		s.halftime = true
		if s.OnHalftime != nil {
			s.OnHalftime()
		}
	}
	if s.customer.TimeLimit > 0 && s.elapsed >= s.customer.TimeLimit {
		s.timedOut = true
		var design Design
		if s.SnapshotDesign != nil {
			design = s.SnapshotDesign()
		}
		s.log.Info("commission timed out", zap.String("customer", s.customer.Name))
		s.finish(design)
	}
}

// RecordChange counts one design edit. Edits outside the working phase
// are ignored.
func (s *Session) RecordChange() {
	if s.phase != PhaseWorking {
		return
	}
	s.changes++
}

// Finish hands the design over for review and returns the score.
func (s *Session) Finish(design Design) (Result, error) {
	if s.phase != PhaseWorking {
		return Result{}, fmt.Errorf("session: finish from %s", s.phase)
	}
	s.finish(design)
	return *s.result, nil
}

func (s *Session) finish(design Design) {
	res := Evaluate(s.customer, design, s.changes)
	s.result = &res
	s.transition(PhaseReview)
	s.log.Info("commission reviewed",
		zap.String("customer", s.customer.Name),
		zap.Int("score", res.Score),
		zap.Int("changes", res.Changes),
		zap.Bool("over_budget", res.OverBudget))
}

func (s *Session) transition(next Phase) {
	s.phase = next
	if s.OnPhaseChange != nil {
		s.OnPhaseChange(next)
	}
}
