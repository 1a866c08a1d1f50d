package gap

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"aegis/internal/assess"
	"aegis/internal/catalog"
)

func mustCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	c, err := catalog.Load()
	if err != nil {
		t.Fatalf("catalog.Load: %v", err)
	}
	return c
}

func TestAnalyzeExcludesFullAndNA(t *testing.T) {
	cat := mustCatalog(t)
	controls := []catalog.Control{
		{ID: "AC-2", Name: "Account Management", Family: "AC", Profile: 1},
		{ID: "AU-2", Name: "Audit Events", Family: "AU", Profile: 1},
		{ID: "PE-3", Name: "Physical Access Control", Family: "PE", Profile: 1},
		{ID: "PL-2", Name: "System Security Plan", Family: "PL", Profile: 1},
	}
	judgments := []assess.Judgment{
		{ControlID: "AC-2", Coverage: assess.CoverageFull, Tier: assess.TierLogExport},
		{ControlID: "AU-2", Coverage: assess.CoveragePartial, Tier: assess.TierScreenshot},
		{ControlID: "PE-3", Coverage: assess.CoverageNotApplicable},
		// PL-2 has no judgment: counts as missing.
	}

	records := Analyze(cat, controls, judgments, 2)
	var ids []string
	for _, r := range records {
		ids = append(ids, r.ControlID)
	}
	want := []string{"AU-2", "PL-2"}
	if diff := cmp.Diff(want, ids); diff != "" {
		t.Errorf("gap ids (-want +got):\n%s", diff)
	}
}

func TestAnalyzeOrderingIsStable(t *testing.T) {
	cat := mustCatalog(t)
	controls := cat.ForProfile(2)

	// All missing: ordering should be reproducible across repeated runs.
	first := Analyze(cat, controls, nil, 2)
	if len(first) == 0 {
		t.Fatal("expected gaps for empty judgment set")
	}
	for i := 0; i < 10; i++ {
		again := Analyze(cat, controls, nil, 2)
		if diff := cmp.Diff(first, again); diff != "" {
			t.Fatalf("gap ordering not reproducible (-first +again):\n%s", diff)
		}
	}

	// Priority never increases down the list; ties ordered by control id.
	for i := 1; i < len(first); i++ {
		if first[i].Priority > first[i-1].Priority {
			t.Fatalf("priority out of order at %d: %v > %v", i, first[i], first[i-1])
		}
		if first[i].Priority == first[i-1].Priority && first[i].ControlID <= first[i-1].ControlID {
			t.Fatalf("tie not broken by control id at %d: %s after %s", i, first[i].ControlID, first[i-1].ControlID)
		}
	}
}

func TestPriorityRanking(t *testing.T) {
	// Missing outranks partial within a family and profile.
	if Priority("AC", 2, assess.CoverageMissing) <= Priority("AC", 2, assess.CoveragePartial) {
		t.Error("missing should outrank partial")
	}
	// Higher profiles raise priority.
	if Priority("SC", 3, assess.CoverageMissing) <= Priority("SC", 1, assess.CoverageMissing) {
		t.Error("profile 3 should outrank profile 1")
	}
	// Critical families outrank administrative ones.
	if Priority("AC", 2, assess.CoverageMissing) <= Priority("AT", 2, assess.CoverageMissing) {
		t.Error("AC should outrank AT")
	}
}

func TestRecommendNextStrongerEvidence(t *testing.T) {
	cat := mustCatalog(t)

	// Missing control: strongest preferred type.
	got := Recommend(cat, "SC-28", assess.Judgment{ControlID: "SC-28", Coverage: assess.CoverageMissing})
	if got != "iac" {
		t.Errorf("missing SC-28 recommendation = %q, want iac", got)
	}

	// Partial at narrative tier: recommend something stronger.
	got = Recommend(cat, "SC-28", assess.Judgment{
		ControlID: "SC-28", Coverage: assess.CoveragePartial, Tier: assess.TierNarrative,
	})
	if got != "iac" {
		t.Errorf("partial-narrative SC-28 recommendation = %q, want iac", got)
	}

	// Already at the strongest preferred tier: fall back to the head of the table.
	got = Recommend(cat, "AC-2", assess.Judgment{
		ControlID: "AC-2", Coverage: assess.CoveragePartial, Tier: assess.TierLogExport,
	})
	if got != "log" {
		t.Errorf("strong-partial AC-2 recommendation = %q, want log", got)
	}
}

func TestCompliance(t *testing.T) {
	judgments := []assess.Judgment{
		{ControlID: "AC-1", Coverage: assess.CoverageFull},
		{ControlID: "AC-2", Coverage: assess.CoverageFull},
		{ControlID: "AU-2", Coverage: assess.CoveragePartial},
		{ControlID: "SC-7", Coverage: assess.CoverageMissing},
		{ControlID: "PE-3", Coverage: assess.CoverageNotApplicable},
	}
	s := Compliance(judgments)
	if s.Total != 4 || s.Full != 2 || s.Partial != 1 || s.Missing != 1 || s.NotApplicable != 1 {
		t.Errorf("unexpected counts: %+v", s)
	}
	if s.Percentage != 62.5 {
		t.Errorf("percentage = %v, want 62.5", s.Percentage)
	}
	if s.Posture != "Acceptable" {
		t.Errorf("posture = %q, want Acceptable", s.Posture)
	}

	empty := Compliance(nil)
	if empty.Percentage != 0 || empty.Posture != "Critical" {
		t.Errorf("empty set: %+v", empty)
	}
}
