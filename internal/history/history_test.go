package history

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"aegis/internal/assess"
)

func TestDiffSelfIsEmpty(t *testing.T) {
	js := []assess.Judgment{
		{ControlID: "AC-2", Coverage: assess.CoverageFull, Tier: assess.TierLogExport},
		{ControlID: "AU-2", Coverage: assess.CoveragePartial, Tier: assess.TierScreenshot},
		{ControlID: "SC-28", Coverage: assess.CoverageMissing},
	}
	d := Diff(js, js)
	if !d.Empty() {
		t.Errorf("self-diff not empty: %+v", d)
	}
	if len(d.Unchanged) != 3 {
		t.Errorf("unchanged = %v, want all three controls", d.Unchanged)
	}
}

func TestDiffImprovementAndRegression(t *testing.T) {
	earlier := []assess.Judgment{
		{ControlID: "SC-28", Coverage: assess.CoverageMissing},
		{ControlID: "AC-2", Coverage: assess.CoverageFull, Tier: assess.TierLogExport},
		{ControlID: "AU-2", Coverage: assess.CoveragePartial, Tier: assess.TierScreenshot},
	}
	later := []assess.Judgment{
		{ControlID: "SC-28", Coverage: assess.CoverageFull, Tier: assess.TierIaC},
		{ControlID: "AC-2", Coverage: assess.CoveragePartial, Tier: assess.TierNarrative},
		{ControlID: "AU-2", Coverage: assess.CoveragePartial, Tier: assess.TierScreenshot},
	}

	d := Diff(earlier, later)

	wantImproved := []Change{{
		ControlID: "SC-28",
		From:      assess.CoverageMissing, To: assess.CoverageFull,
		ToTier: assess.TierIaC,
	}}
	if diff := cmp.Diff(wantImproved, d.Improved); diff != "" {
		t.Errorf("improved (-want +got):\n%s", diff)
	}

	wantRegressed := []Change{{
		ControlID: "AC-2",
		From:      assess.CoverageFull, To: assess.CoveragePartial,
		FromTier: assess.TierLogExport, ToTier: assess.TierNarrative,
	}}
	if diff := cmp.Diff(wantRegressed, d.Regressed); diff != "" {
		t.Errorf("regressed (-want +got):\n%s", diff)
	}

	if diff := cmp.Diff([]string{"AC-2"}, d.NewGaps); diff != "" {
		t.Errorf("new gaps (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"SC-28"}, d.ResolvedGaps); diff != "" {
		t.Errorf("resolved gaps (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"AU-2"}, d.Unchanged); diff != "" {
		t.Errorf("unchanged (-want +got):\n%s", diff)
	}
}

func TestDiffHandlesControlSetChanges(t *testing.T) {
	earlier := []assess.Judgment{
		{ControlID: "AC-2", Coverage: assess.CoverageMissing},
	}
	later := []assess.Judgment{
		{ControlID: "SC-7", Coverage: assess.CoverageMissing},
	}

	d := Diff(earlier, later)
	if diff := cmp.Diff([]string{"SC-7"}, d.NewGaps); diff != "" {
		t.Errorf("new gaps (-want +got):\n%s", diff)
	}
	// AC-2 left the applicable set; its gap no longer exists.
	if diff := cmp.Diff([]string{"AC-2"}, d.ResolvedGaps); diff != "" {
		t.Errorf("resolved gaps (-want +got):\n%s", diff)
	}
}

func TestDiffDoesNotMutateInputs(t *testing.T) {
	earlier := []assess.Judgment{
		{ControlID: "B-1", Coverage: assess.CoverageMissing},
		{ControlID: "A-1", Coverage: assess.CoverageFull},
	}
	later := []assess.Judgment{
		{ControlID: "B-1", Coverage: assess.CoverageFull},
		{ControlID: "A-1", Coverage: assess.CoverageMissing},
	}
	beforeE := make([]assess.Judgment, len(earlier))
	copy(beforeE, earlier)
	beforeL := make([]assess.Judgment, len(later))
	copy(beforeL, later)

	_ = Diff(earlier, later)

	if diff := cmp.Diff(beforeE, earlier); diff != "" {
		t.Errorf("earlier mutated:\n%s", diff)
	}
	if diff := cmp.Diff(beforeL, later); diff != "" {
		t.Errorf("later mutated:\n%s", diff)
	}
}

func TestNotApplicableIsNotAGap(t *testing.T) {
	earlier := []assess.Judgment{{ControlID: "PE-3", Coverage: assess.CoverageMissing}}
	later := []assess.Judgment{{ControlID: "PE-3", Coverage: assess.CoverageNotApplicable}}

	d := Diff(earlier, later)
	if len(d.Improved) != 1 {
		t.Errorf("NA override should register as improvement: %+v", d)
	}
	if diff := cmp.Diff([]string{"PE-3"}, d.ResolvedGaps); diff != "" {
		t.Errorf("resolved gaps (-want +got):\n%s", diff)
	}
}
