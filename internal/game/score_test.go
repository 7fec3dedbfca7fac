package game

import "testing"

func testCustomer() Customer {
	return Customer{
		Name:       "Maya",
		MaxChanges: 4,
		Requirements: []Requirement{
			{Part: "vamp", Color: "#ff0000"},
			{Part: "sole", Painted: true},
		},
	}
}

func TestEvaluate(t *testing.T) {
	cases := []struct {
		name    string
		design  Design
		changes int
		score   int
		over    bool
	}{
		{
			name: "all met",
			design: Design{
				Colors:  map[string]string{"vamp": "#ff0000"},
				Painted: map[string]bool{"sole": true},
			},
			changes: 3,
			score:   100,
		},
		{
			name: "case and prefix insensitive color match",
			design: Design{
				Colors:  map[string]string{"vamp": "FF0000"},
				Painted: map[string]bool{"sole": true},
			},
			score: 100,
		},
		{
			name: "half met",
			design: Design{
				Colors: map[string]string{"vamp": "#ff0000"},
			},
			score: 50,
		},
		{
			name:   "nothing met",
			design: Design{},
			score:  0,
		},
		{
			name: "wrong color",
			design: Design{
				Colors:  map[string]string{"vamp": "#00ff00"},
				Painted: map[string]bool{"sole": true},
			},
			score: 50,
		},
		{
			name: "over budget penalty",
			design: Design{
				Colors:  map[string]string{"vamp": "#ff0000"},
				Painted: map[string]bool{"sole": true},
			},
			changes: 6,
			score:   90,
			over:    true,
		},
		{
			name:    "penalty clamps at zero",
			design:  Design{},
			changes: 100,
			score:   0,
			over:    true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := Evaluate(testCustomer(), tc.design, tc.changes)
			if res.Score != tc.score {
				t.Errorf("score = %d, want %d", res.Score, tc.score)
			}
			if res.OverBudget != tc.over {
				t.Errorf("over budget = %v, want %v", res.OverBudget, tc.over)
			}
		})
	}
}

func TestEvaluateUnlimitedChanges(t *testing.T) {
	c := testCustomer()
	c.MaxChanges = 0

	res := Evaluate(c, Design{
		Colors:  map[string]string{"vamp": "#ff0000"},
		Painted: map[string]bool{"sole": true},
	}, 1000)
	if res.Score != 100 || res.OverBudget {
		t.Errorf("unlimited budget gave score %d, over=%v", res.Score, res.OverBudget)
	}
}

func TestEvaluateReportsMetAndMissed(t *testing.T) {
	res := Evaluate(testCustomer(), Design{
		Colors: map[string]string{"vamp": "#ff0000"},
	}, 0)
	if len(res.Met) != 1 || res.Met[0] != "vamp: #ff0000" {
		t.Errorf("met = %v", res.Met)
	}
	if len(res.Missed) != 1 || res.Missed[0] != "sole: custom artwork" {
		t.Errorf("missed = %v", res.Missed)
	}
}
