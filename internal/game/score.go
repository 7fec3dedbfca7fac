package game

import "strings"

// Design is a snapshot of the customer-visible outcome: which parts
// wear which palette colors and which carry committed artwork.
type Design struct {
	Colors  map[string]string
	Painted map[string]bool
}

// Result is a scored session outcome.
type Result struct {
	Score   int // 0..100
	Met     []string
	Missed  []string
	Changes int
	// OverBudget is set when a change budget existed and was exceeded.
	OverBudget bool
}

// overBudgetPenalty is the score cost per change beyond the budget.
const overBudgetPenalty = 5

// Evaluate scores a finished design against a customer's brief. Each
// requirement weighs equally; going over a change budget costs a fixed
// penalty per extra change. The score is clamped to 0..100.
func Evaluate(c Customer, d Design, changes int) Result {
	res := Result{Changes: changes}

	for _, req := range c.Requirements {
		if requirementMet(req, d) {
			res.Met = append(res.Met, req.Describe())
		} else {
			res.Missed = append(res.Missed, req.Describe())
		}
	}

	score := 0
	if n := len(c.Requirements); n > 0 {
		score = len(res.Met) * 100 / n
	}

	if c.MaxChanges > 0 && changes > c.MaxChanges {
		res.OverBudget = true
		score -= (changes - c.MaxChanges) * overBudgetPenalty
	}

	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	res.Score = score
	return res
}

func requirementMet(req Requirement, d Design) bool {
	if req.Painted {
		return d.Painted[req.Part]
	}
	got, ok := d.Colors[req.Part]
	return ok && hexEqual(got, req.Color)
}

func hexEqual(a, b string) bool {
	a = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(a)), "#")
	b = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(b)), "#")
	return a == b
}
