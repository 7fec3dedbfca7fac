// Package game implements the commission layer: scripted customers who
// walk in with a design brief, a session that times the work, and the
// scoring of the finished sneaker against the brief.
package game

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/candiikay/sneakerlab/internal/engine/model"
)

// Requirement is one item of a customer's brief: a part they want
// recolored to a specific swatch, or painted with custom artwork.
type Requirement struct {
	Part    string `yaml:"part"`
	Color   string `yaml:"color,omitempty"`
	Painted bool   `yaml:"painted,omitempty"`
}

// Describe renders the requirement for briefs and review screens.
func (r Requirement) Describe() string {
	if r.Painted {
		return fmt.Sprintf("%s: custom artwork", r.Part)
	}
	return fmt.Sprintf("%s: %s", r.Part, r.Color)
}

// Reaction triggers. A customer speaks up when the matching event
// happens during the working phase.
const (
	// TriggerColor fires when a part gets a color assigned.
	TriggerColor = "color"
	// TriggerPaint fires when artwork is committed on a part.
	TriggerPaint = "paint"
	// TriggerHalftime fires once when half the time limit is spent.
	TriggerHalftime = "halftime"
)

// Reaction is a scripted line the customer says when an event matches.
// An empty Part matches any part.
type Reaction struct {
	On   string `yaml:"on"`
	Part string `yaml:"part,omitempty"`
	Line string `yaml:"line"`
}

// Matches reports whether the reaction fires for the given event.
func (r Reaction) Matches(trigger, part string) bool {
	if r.On != trigger {
		return false
	}
	return r.Part == "" || r.Part == part
}

// Customer is one scripted commission.
type Customer struct {
	Name         string        `yaml:"name"`
	Greeting     string        `yaml:"greeting"`
	Brief        string        `yaml:"brief"`
	Requirements []Requirement `yaml:"requirements"`
	Reactions    []Reaction    `yaml:"reactions,omitempty"`

	// TimeLimit in seconds; 0 means untimed.
	TimeLimit float64 `yaml:"time_limit"`
	// MaxChanges before the score takes a penalty; 0 means unlimited.
	MaxChanges int `yaml:"max_changes"`
}

// React returns the lines triggered by an event during the session.
func (c Customer) React(trigger, part string) []string {
	var lines []string
	for _, r := range c.Reactions {
		if r.Matches(trigger, part) {
			lines = append(lines, r.Line)
		}
	}
	return lines
}

type customerFile struct {
	Customers []Customer `yaml:"customers"`
}

// LoadCustomers parses a customer script from YAML.
func LoadCustomers(data []byte) ([]Customer, error) {
	var file customerFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing customer script: %w", err)
	}
	if len(file.Customers) == 0 {
		return nil, fmt.Errorf("customer script has no customers")
	}
	for i, c := range file.Customers {
		if err := validateCustomer(c); err != nil {
			return nil, fmt.Errorf("customer %d (%q): %w", i, c.Name, err)
		}
	}
	return file.Customers, nil
}

// LoadCustomersFile reads and parses a customer script file.
func LoadCustomersFile(path string) ([]Customer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading customer script: %w", err)
	}
	return LoadCustomers(data)
}

func validateCustomer(c Customer) error {
	if c.Name == "" {
		return fmt.Errorf("missing name")
	}
	if len(c.Requirements) == 0 {
		return fmt.Errorf("no requirements")
	}
	for _, r := range c.Requirements {
		if r.Part == "" {
			return fmt.Errorf("requirement with empty part")
		}
		if !r.Painted && r.Color == "" {
			return fmt.Errorf("requirement for %q asks neither color nor artwork", r.Part)
		}
		if r.Color != "" {
			if _, err := model.ParseHexColor(r.Color); err != nil {
				return err
			}
		}
	}
	for _, r := range c.Reactions {
		switch r.On {
		case TriggerColor, TriggerPaint, TriggerHalftime:
		default:
			return fmt.Errorf("unknown reaction trigger %q", r.On)
		}
		if r.Line == "" {
			return fmt.Errorf("reaction on %q has no line", r.On)
		}
	}
	if c.TimeLimit < 0 {
		return fmt.Errorf("negative time limit")
	}
	if c.MaxChanges < 0 {
		return fmt.Errorf("negative change budget")
	}
	return nil
}
