package report

import (
	"context"
	"strings"
	"testing"

	"aegis/internal/catalog"
	"aegis/internal/faults"
	"aegis/internal/store"
)

func seedRun(t *testing.T) (*store.MemStore, *catalog.Catalog, int64) {
	t.Helper()
	st := store.NewMemStore()
	cat, err := catalog.Load()
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}

	id, err := st.CreateAssessment(&store.Assessment{ClientID: "acme", ProjectName: "payroll", Profile: 2})
	if err != nil {
		t.Fatalf("create assessment: %v", err)
	}
	run, err := st.CreateRunIfIdle(id, "")
	if err != nil {
		t.Fatalf("create run: %v", err)
	}
	if err := st.SaveJudgments(run.ID, []*store.ControlJudgment{
		{ControlID: "SC-28", Tier: 2, Coverage: "full", Rationale: "encryption at rest in IaC"},
		{ControlID: "AC-2", Coverage: "missing"},
		{ControlID: "AU-2", Tier: 7, Coverage: "partial"},
	}); err != nil {
		t.Fatalf("save judgments: %v", err)
	}
	if err := st.SaveGaps(run.ID, []*store.GapRecord{
		{Rank: 1, ControlID: "AC-2", Coverage: "missing", Priority: 25, RecommendedEvidence: "log"},
		{Rank: 2, ControlID: "AU-2", Coverage: "partial", Priority: 18, RecommendedEvidence: "log"},
	}); err != nil {
		t.Fatalf("save gaps: %v", err)
	}
	if err := st.FinishRun(run.ID, store.OutcomeCompleted, "", "", 0, ""); err != nil {
		t.Fatalf("finish run: %v", err)
	}
	return st, cat, run.ID
}

func TestGenerateSummary(t *testing.T) {
	st, cat, runID := seedRun(t)
	g := NewGenerator(st, cat)

	a, err := g.Generate(context.Background(), runID, FormatSummary, LangEN)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	content := string(a.Content)

	for _, want := range []string{"Compliance Summary", "payroll", "AC-2", "Posture"} {
		if !strings.Contains(content, want) {
			t.Errorf("summary missing %q:\n%s", want, content)
		}
	}
	// full=1 partial=1 missing=1 -> (1 + 0.5) / 3 = 50.0%
	if !strings.Contains(content, "50.0%") {
		t.Errorf("summary missing compliance percentage:\n%s", content)
	}
}

func TestGenerateFrench(t *testing.T) {
	st, cat, runID := seedRun(t)
	g := NewGenerator(st, cat)

	a, err := g.Generate(context.Background(), runID, FormatRemediation, LangFR)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	content := string(a.Content)
	for _, want := range []string{"Plan de remédiation", "Priorité", "Manquante"} {
		if !strings.Contains(content, want) {
			t.Errorf("french remediation missing %q:\n%s", want, content)
		}
	}
}

func TestSummaryShowsProgressSinceLastRun(t *testing.T) {
	st, cat, firstID := seedRun(t)
	g := NewGenerator(st, cat)

	first, err := st.GetRun(firstID)
	if err != nil {
		t.Fatalf("get first run: %v", err)
	}
	second, err := st.CreateRunIfIdle(first.AssessmentID, "")
	if err != nil {
		t.Fatalf("create second run: %v", err)
	}
	if err := st.SaveJudgments(second.ID, []*store.ControlJudgment{
		{ControlID: "SC-28", Tier: 2, Coverage: "full", Rationale: "encryption at rest in IaC"},
		{ControlID: "AC-2", Tier: 1, Coverage: "full", Rationale: "account audit log export"},
		{ControlID: "AU-2", Tier: 7, Coverage: "partial"},
	}); err != nil {
		t.Fatalf("save judgments: %v", err)
	}
	if err := st.SaveGaps(second.ID, []*store.GapRecord{
		{Rank: 1, ControlID: "AU-2", Coverage: "partial", Priority: 18, RecommendedEvidence: "log"},
	}); err != nil {
		t.Fatalf("save gaps: %v", err)
	}
	if err := st.FinishRun(second.ID, store.OutcomeCompleted, "", "", 0, ""); err != nil {
		t.Fatalf("finish second run: %v", err)
	}

	a, err := g.Generate(context.Background(), second.ID, FormatSummary, LangEN)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	content := string(a.Content)
	for _, want := range []string{"Progress Since Last Run", "Improved", "AC-2"} {
		if !strings.Contains(content, want) {
			t.Errorf("second-run summary missing %q:\n%s", want, content)
		}
	}

	// The first run has no baseline, so its summary carries no progress section.
	baseline, err := g.Generate(context.Background(), firstID, FormatSummary, LangEN)
	if err != nil {
		t.Fatalf("generate baseline: %v", err)
	}
	if strings.Contains(string(baseline.Content), "Progress Since Last Run") {
		t.Errorf("first-run summary should not compare against an earlier run:\n%s", baseline.Content)
	}

	fr, err := g.Generate(context.Background(), second.ID, FormatSummary, LangFR)
	if err != nil {
		t.Fatalf("generate fr: %v", err)
	}
	if !strings.Contains(string(fr.Content), "Progression depuis la dernière exécution") {
		t.Errorf("french summary missing progress section:\n%s", fr.Content)
	}
}

func TestGenerateCachesArtifact(t *testing.T) {
	st, cat, runID := seedRun(t)
	g := NewGenerator(st, cat)

	first, err := g.Generate(context.Background(), runID, FormatMatrix, LangEN)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	again, err := g.Generate(context.Background(), runID, FormatMatrix, LangEN)
	if err != nil {
		t.Fatalf("regenerate: %v", err)
	}
	if first.ID != again.ID || string(first.Content) != string(again.Content) {
		t.Errorf("second request did not return cached artifact")
	}

	// Different language renders its own artifact.
	fr, err := g.Generate(context.Background(), runID, FormatMatrix, LangFR)
	if err != nil {
		t.Fatalf("generate fr: %v", err)
	}
	if string(fr.Content) == string(first.Content) {
		t.Errorf("fr artifact identical to en")
	}
}

func TestGenerateEvidenceRequestListsGaps(t *testing.T) {
	st, cat, runID := seedRun(t)
	g := NewGenerator(st, cat)

	a, err := g.Generate(context.Background(), runID, FormatEvidenceRequest, LangEN)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	content := string(a.Content)
	if !strings.Contains(content, "AC-2") || !strings.Contains(content, "log") {
		t.Errorf("evidence request missing gap entries:\n%s", content)
	}
	if strings.Contains(content, "SC-28") {
		t.Errorf("fully covered control should not be requested:\n%s", content)
	}
}

func TestGenerateRejectsBadInputs(t *testing.T) {
	st, cat, runID := seedRun(t)
	g := NewGenerator(st, cat)

	if _, err := g.Generate(context.Background(), runID, "pdf", LangEN); !faults.IsValidation(err) {
		t.Errorf("bad format: err = %v, want validation", err)
	}
	if _, err := g.Generate(context.Background(), runID, FormatSummary, "de"); !faults.IsValidation(err) {
		t.Errorf("bad language: err = %v, want validation", err)
	}
	if _, err := g.Generate(context.Background(), 999, FormatSummary, LangEN); !faults.IsNotFound(err) {
		t.Errorf("missing run: err = %v, want not found", err)
	}
}
