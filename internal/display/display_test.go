package display

import (
	"strings"
	"testing"

	"aegis/internal/catalog"
	"aegis/internal/store"
)

func TestNames(t *testing.T) {
	cases := []struct{ got, want string }{
		{Stage("assessing"), "Assessing"},
		{Stage("unknown"), "unknown"},
		{Status("in_progress"), "In Progress"},
		{Outcome(""), "Active"},
		{Outcome("cancelled"), "Cancelled"},
		{Coverage("not_applicable"), "Not Applicable"},
		{Tier(2), "Infrastructure as Code"},
		{Tier(0), "-"},
		{TierWithRank(7), "Narrative (T7)"},
		{Role("assessor"), "Assessor"},
	}
	for _, c := range cases {
		if c.got != c.want {
			t.Errorf("got %q, want %q", c.got, c.want)
		}
	}
}

func TestStageVectorOrder(t *testing.T) {
	got := StageVector(map[string]string{
		"reporting": "pending",
		"mapping":   "succeeded",
		"assessing": "running",
		"analyzing": "pending",
	})
	want := "Mapping:Succeeded Assessing:Running Analyzing:Pending Reporting:Pending"
	if got != want {
		t.Errorf("vector = %q, want %q", got, want)
	}
}

func TestControlsTableListsEvidence(t *testing.T) {
	out := ControlsTable([]catalog.Control{{
		ID: "SC-28", Name: "Protection of Information at Rest", Family: "SC",
		Profile: 2, Evidence: []string{"iac", "log"},
	}})
	if !strings.Contains(out, "SC-28") || !strings.Contains(out, "iac, log") {
		t.Errorf("table missing content:\n%s", out)
	}
}

func TestRunsTableContainsOutcome(t *testing.T) {
	out := RunsTable([]*store.Run{{
		ID: 1, Seq: 1, Outcome: "completed",
		Stages:    map[string]string{"mapping": "succeeded"},
		StartedAt: "2026-08-01T10:00:00Z",
	}})
	if !strings.Contains(out, "Completed") || !strings.Contains(out, "Mapping:Succeeded") {
		t.Errorf("table missing content:\n%s", out)
	}
}
