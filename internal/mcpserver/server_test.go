package mcpserver

import (
	"context"
	"testing"

	"aegis/internal/catalog"
	"aegis/internal/coordinate"
	"aegis/internal/faults"
	"aegis/internal/judge"
	"aegis/internal/report"
	"aegis/internal/store"
)

func newTestServer(t *testing.T) (*Server, store.Store) {
	t.Helper()
	st := store.NewMemStore()
	cat, err := catalog.Load()
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}
	gen := report.NewGenerator(st, cat)
	coord := coordinate.New(st, cat, judge.NewHeuristic(), gen, coordinate.Config{Workers: 2})
	t.Cleanup(coord.Close)
	life := coordinate.NewLifecycle(st, 0)
	return NewServer(st, cat, coord, life, gen), st
}

func TestCreateClassifyAndRun(t *testing.T) {
	s, st := newTestServer(t)
	ctx := context.Background()

	_, created, err := s.handleCreateAssessment(ctx, nil, createAssessmentInput{
		ClientID: "acme", ProjectName: "payroll", CONOPS: "cloud-hosted payroll system",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	_, classified, err := s.handleClassify(ctx, nil, classifyInput{
		AssessmentID: created.AssessmentID, Confidentiality: 2, Integrity: 1, Availability: 1,
	})
	if err != nil {
		t.Fatalf("classify: %v", err)
	}
	if classified.Profile != 2 {
		t.Errorf("profile = %d, want max(C,I,A) = 2", classified.Profile)
	}

	_, ev, err := s.handleAddEvidence(ctx, nil, addEvidenceInput{
		AssessmentID: created.AssessmentID, Name: "storage.tf", Note: "bucket encryption at rest",
	})
	if err != nil {
		t.Fatalf("add evidence: %v", err)
	}
	if ev.Type != "iac" || ev.Tier != 2 {
		t.Errorf("derived type/tier = %s/%d, want iac/2", ev.Type, ev.Tier)
	}

	_, started, err := s.handleStartRun(ctx, nil, startRunInput{AssessmentID: created.AssessmentID})
	if err != nil {
		t.Fatalf("start run: %v", err)
	}
	s.coord.Wait(started.RunID)

	_, status, err := s.handleRunStatus(ctx, nil, runInput{RunID: started.RunID})
	if err != nil {
		t.Fatalf("run status: %v", err)
	}
	if status.Outcome != store.OutcomeCompleted {
		t.Fatalf("outcome = %q (%s: %s)", status.Outcome, status.FailedStage, status.FailureCause)
	}

	_, results, err := s.handleRunResults(ctx, nil, runInput{RunID: started.RunID})
	if err != nil {
		t.Fatalf("run results: %v", err)
	}
	if len(results.Judgments) == 0 || results.Posture == "" {
		t.Errorf("results empty: %+v", results)
	}

	_, rep, err := s.handleGenerateReport(ctx, nil, generateReportInput{RunID: started.RunID, Format: "summary"})
	if err != nil {
		t.Fatalf("generate report: %v", err)
	}
	if rep.Language != "en" || rep.Content == "" {
		t.Errorf("report = %+v", rep)
	}
	_ = st
}

func TestClassifyRejectsBadLevels(t *testing.T) {
	s, _ := newTestServer(t)
	_, created, _ := s.handleCreateAssessment(context.Background(), nil, createAssessmentInput{ClientID: "a", ProjectName: "p"})
	_, _, err := s.handleClassify(context.Background(), nil, classifyInput{
		AssessmentID: created.AssessmentID, Confidentiality: 4, Integrity: 1, Availability: 1,
	})
	if !faults.IsValidation(err) {
		t.Errorf("err = %v, want validation", err)
	}
}

func TestOverrideRequiresKnownControl(t *testing.T) {
	s, _ := newTestServer(t)
	_, created, _ := s.handleCreateAssessment(context.Background(), nil, createAssessmentInput{ClientID: "a", ProjectName: "p"})
	_, _, err := s.handleSetOverride(context.Background(), nil, overrideInput{
		AssessmentID: created.AssessmentID, ControlID: "ZZ-99", Note: "n/a",
	})
	if !faults.IsValidation(err) {
		t.Errorf("err = %v, want validation", err)
	}
}

func TestRoleGating(t *testing.T) {
	s, st := newTestServer(t)
	ctx := context.Background()
	_, created, _ := s.handleCreateAssessment(ctx, nil, createAssessmentInput{ClientID: "a", ProjectName: "p"})
	id := created.AssessmentID

	if err := st.UpsertShare(&store.Share{AssessmentID: id, UserID: "viewer@acme", Role: store.RoleViewer}); err != nil {
		t.Fatalf("share: %v", err)
	}

	// A viewer may read but not classify.
	_, _, err := s.handleClassify(ctx, nil, classifyInput{
		AssessmentID: id, Confidentiality: 1, Integrity: 1, Availability: 1, UserID: "viewer@acme",
	})
	if !faults.IsValidation(err) {
		t.Errorf("viewer classify: err = %v, want validation", err)
	}

	// Unknown users have no access at all.
	_, _, err = s.handleAddEvidence(ctx, nil, addEvidenceInput{
		AssessmentID: id, Name: "x.log", UserID: "stranger@other",
	})
	if !faults.IsNotFound(err) {
		t.Errorf("stranger evidence: err = %v, want not found", err)
	}

	// The local operator (no user id) is never gated.
	if _, _, err := s.handleClassify(ctx, nil, classifyInput{
		AssessmentID: id, Confidentiality: 1, Integrity: 1, Availability: 1,
	}); err != nil {
		t.Errorf("operator classify: %v", err)
	}
}

func TestSearchControls(t *testing.T) {
	s, _ := newTestServer(t)
	ctx := context.Background()

	_, found, err := s.handleSearchControls(ctx, nil, searchControlsInput{Query: "protection of information at rest"})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	hit := false
	for _, c := range found.Controls {
		if c.ID == "SC-28" {
			hit = true
			if c.FamilyName != "System and Communications Protection" {
				t.Errorf("SC-28 family name = %q", c.FamilyName)
			}
		}
	}
	if !hit {
		t.Errorf("SC-28 not found for at-rest query: %+v", found.Controls)
	}

	_, fam, err := s.handleSearchControls(ctx, nil, searchControlsInput{Family: "AC"})
	if err != nil {
		t.Fatalf("family listing: %v", err)
	}
	if len(fam.Controls) == 0 {
		t.Fatalf("AC family listing empty")
	}
	for _, c := range fam.Controls {
		if c.Family != "AC" {
			t.Errorf("family listing included %s", c.ID)
		}
	}

	if _, _, err := s.handleSearchControls(ctx, nil, searchControlsInput{}); !faults.IsValidation(err) {
		t.Errorf("empty input: err = %v, want validation", err)
	}
}

func TestDiffRunsRejectsCrossAssessment(t *testing.T) {
	s, st := newTestServer(t)
	ctx := context.Background()

	a1, _ := st.CreateAssessment(&store.Assessment{ClientID: "a", ProjectName: "one"})
	a2, _ := st.CreateAssessment(&store.Assessment{ClientID: "a", ProjectName: "two"})
	r1, _ := st.CreateRunIfIdle(a1, "")
	r2, _ := st.CreateRunIfIdle(a2, "")

	_, _, err := s.handleDiffRuns(ctx, nil, diffRunsInput{EarlierRunID: r1.ID, LaterRunID: r2.ID})
	if !faults.IsValidation(err) {
		t.Errorf("err = %v, want validation", err)
	}
}

func TestLifecycleTools(t *testing.T) {
	s, st := newTestServer(t)
	ctx := context.Background()
	_, created, _ := s.handleCreateAssessment(ctx, nil, createAssessmentInput{ClientID: "a", ProjectName: "p"})
	id := created.AssessmentID

	if _, _, err := s.handleDelete(ctx, nil, lifecycleInput{AssessmentID: id}); err != nil {
		t.Fatalf("delete: %v", err)
	}
	_, listed, err := s.handleListAssessments(ctx, nil, listAssessmentsInput{Deleted: true})
	if err != nil || len(listed.Assessments) != 1 {
		t.Fatalf("deleted listing = %+v, %v", listed, err)
	}

	if _, _, err := s.handleRestore(ctx, nil, lifecycleInput{AssessmentID: id}); err != nil {
		t.Fatalf("restore: %v", err)
	}
	if _, _, err := s.handlePurge(ctx, nil, lifecycleInput{AssessmentID: id}); err != nil {
		t.Fatalf("purge: %v", err)
	}
	if _, err := st.GetAssessmentAny(id); !faults.IsNotFound(err) {
		t.Errorf("purged assessment still present: %v", err)
	}
}
