package store

import (
	"sort"
	"sync"

	"aegis/internal/faults"
)

// MemStore is an in-memory Store for tests and ephemeral runs. Mirrors the
// SQLite semantics, including the one-active-run invariant.
type MemStore struct {
	mu sync.Mutex

	assessments map[int64]*Assessment
	shares      map[int64][]*Share
	evidence    map[int64]*EvidenceItem
	runs        map[int64]*Run
	judgments   map[int64][]*ControlJudgment
	gaps        map[int64][]*GapRecord
	artifacts   map[int64][]*ReportArtifact

	nextAssessment int64
	nextShare      int64
	nextEvidence   int64
	nextRun        int64
	nextJudgment   int64
	nextGap        int64
	nextArtifact   int64
}

// NewMemStore returns an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{
		assessments: make(map[int64]*Assessment),
		shares:      make(map[int64][]*Share),
		evidence:    make(map[int64]*EvidenceItem),
		runs:        make(map[int64]*Run),
		judgments:   make(map[int64][]*ControlJudgment),
		gaps:        make(map[int64][]*GapRecord),
		artifacts:   make(map[int64][]*ReportArtifact),
	}
}

func (m *MemStore) Close() error { return nil }

// --- Assessments ---

func (m *MemStore) CreateAssessment(a *Assessment) (int64, error) {
	if a == nil || a.ClientID == "" || a.ProjectName == "" {
		return 0, faults.Newf(faults.Validation, "create_assessment", "client id and project name are required")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextAssessment++
	now := nowUTC()
	cp := *a
	cp.ID = m.nextAssessment
	if cp.Status == "" {
		cp.Status = StatusCreated
	}
	cp.CreatedAt = now
	cp.UpdatedAt = now
	cp.DeletedAt = ""
	cp.Overrides = copyOverrides(a.Overrides)
	m.assessments[cp.ID] = &cp
	return cp.ID, nil
}

func (m *MemStore) GetAssessment(id int64) (*Assessment, error) {
	a, err := m.GetAssessmentAny(id)
	if err != nil {
		return nil, err
	}
	if a.DeletedAt != "" {
		return nil, faults.Newf(faults.NotFound, "get_assessment", "assessment %d", id)
	}
	return a, nil
}

func (m *MemStore) GetAssessmentAny(id int64) (*Assessment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.assessments[id]
	if !ok {
		return nil, faults.Newf(faults.NotFound, "get_assessment", "assessment %d", id)
	}
	cp := *a
	cp.Overrides = copyOverrides(a.Overrides)
	return &cp, nil
}

func (m *MemStore) listAssessments(deleted bool) ([]*Assessment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*Assessment
	for _, a := range m.assessments {
		if (a.DeletedAt != "") != deleted {
			continue
		}
		cp := *a
		cp.Overrides = copyOverrides(a.Overrides)
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, k int) bool { return out[i].ID < out[k].ID })
	return out, nil
}

func (m *MemStore) ListAssessments() ([]*Assessment, error) {
	return m.listAssessments(false)
}

func (m *MemStore) ListDeletedAssessments() ([]*Assessment, error) {
	return m.listAssessments(true)
}

func (m *MemStore) mutate(id int64, op string, fn func(a *Assessment) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.assessments[id]
	if !ok {
		return faults.Newf(faults.NotFound, op, "assessment %d", id)
	}
	if err := fn(a); err != nil {
		return err
	}
	a.UpdatedAt = nowUTC()
	return nil
}

func (m *MemStore) UpdateAssessmentStatus(id int64, status string) error {
	return m.mutate(id, "update_assessment", func(a *Assessment) error {
		a.Status = status
		return nil
	})
}

func (m *MemStore) SetClassification(id int64, profile int, note string) error {
	if profile < 1 || profile > 3 {
		return faults.Newf(faults.Validation, "set_classification", "profile %d out of range", profile)
	}
	return m.mutate(id, "set_classification", func(a *Assessment) error {
		a.Profile = profile
		a.ProfileNote = note
		return nil
	})
}

func (m *MemStore) SetOverride(id int64, controlID, note string) error {
	return m.mutate(id, "set_override", func(a *Assessment) error {
		if a.Overrides == nil {
			a.Overrides = make(map[string]string)
		}
		a.Overrides[controlID] = note
		return nil
	})
}

func (m *MemStore) ClearOverride(id int64, controlID string) error {
	return m.mutate(id, "clear_override", func(a *Assessment) error {
		delete(a.Overrides, controlID)
		return nil
	})
}

func (m *MemStore) SetDeletedAt(id int64, ts string) error {
	return m.mutate(id, "set_deleted_at", func(a *Assessment) error {
		a.DeletedAt = ts
		return nil
	})
}

func copyOverrides(src map[string]string) map[string]string {
	if src == nil {
		return nil
	}
	dst := make(map[string]string, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

// --- Shares ---

func (m *MemStore) UpsertShare(sh *Share) error {
	if sh == nil || sh.UserID == "" || sh.Role == "" {
		return faults.Newf(faults.Validation, "share", "user id and role are required")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.shares[sh.AssessmentID] {
		if existing.UserID == sh.UserID {
			existing.Role = sh.Role
			return nil
		}
	}
	m.nextShare++
	cp := *sh
	cp.ID = m.nextShare
	m.shares[sh.AssessmentID] = append(m.shares[sh.AssessmentID], &cp)
	return nil
}

func (m *MemStore) ListShares(assessmentID int64) ([]*Share, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*Share
	for _, sh := range m.shares[assessmentID] {
		cp := *sh
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, k int) bool { return out[i].UserID < out[k].UserID })
	return out, nil
}

// --- Evidence ---

func (m *MemStore) AddEvidence(e *EvidenceItem) (int64, error) {
	if e == nil || e.AssessmentID == 0 || e.Name == "" {
		return 0, faults.Newf(faults.Validation, "add_evidence", "assessment id and name are required")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextEvidence++
	cp := *e
	cp.ID = m.nextEvidence
	if cp.UploadedAt == "" {
		cp.UploadedAt = nowUTC()
	}
	m.evidence[cp.ID] = &cp
	return cp.ID, nil
}

func (m *MemStore) GetEvidence(id int64) (*EvidenceItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.evidence[id]
	if !ok {
		return nil, faults.Newf(faults.NotFound, "get_evidence", "evidence %d", id)
	}
	cp := *e
	return &cp, nil
}

func (m *MemStore) ListEvidence(assessmentID int64) ([]*EvidenceItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*EvidenceItem
	for _, e := range m.evidence {
		if e.AssessmentID == assessmentID {
			cp := *e
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, k int) bool { return out[i].ID < out[k].ID })
	return out, nil
}

func (m *MemStore) UpdateEvidenceNote(id int64, note string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.evidence[id]
	if !ok {
		return faults.Newf(faults.NotFound, "update_evidence", "evidence %d", id)
	}
	e.Note = note
	return nil
}

// --- Runs ---

func (m *MemStore) CreateRunIfIdle(assessmentID int64, startedAt string) (*Run, error) {
	if startedAt == "" {
		startedAt = nowUTC()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	seq := 0
	for _, r := range m.runs {
		if r.AssessmentID != assessmentID {
			continue
		}
		if !r.Terminal() {
			return nil, faults.Newf(faults.Conflict, "start_run", "assessment %d already has an active run", assessmentID)
		}
		if r.Seq > seq {
			seq = r.Seq
		}
	}
	m.nextRun++
	r := &Run{
		ID:           m.nextRun,
		AssessmentID: assessmentID,
		Seq:          seq + 1,
		Stages:       map[string]string{},
		StartedAt:    startedAt,
	}
	m.runs[r.ID] = r
	return copyRun(r), nil
}

func (m *MemStore) GetRun(id int64) (*Run, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.runs[id]
	if !ok {
		return nil, faults.Newf(faults.NotFound, "get_run", "run %d", id)
	}
	return copyRun(r), nil
}

func (m *MemStore) ActiveRun(assessmentID int64) (*Run, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.runs {
		if r.AssessmentID == assessmentID && !r.Terminal() {
			return copyRun(r), nil
		}
	}
	return nil, nil
}

func (m *MemStore) ListRuns(assessmentID int64) ([]*Run, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*Run
	for _, r := range m.runs {
		if r.AssessmentID == assessmentID {
			out = append(out, copyRun(r))
		}
	}
	sort.Slice(out, func(i, k int) bool { return out[i].Seq < out[k].Seq })
	return out, nil
}

func (m *MemStore) UpdateRunStages(runID int64, stages map[string]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.runs[runID]
	if !ok || r.Terminal() {
		return faults.Newf(faults.Conflict, "update_run", "run %d is terminal or missing", runID)
	}
	cp := make(map[string]string, len(stages))
	for k, v := range stages {
		cp[k] = v
	}
	r.Stages = cp
	return nil
}

func (m *MemStore) FinishRun(runID int64, outcome, failedStage, cause string, retries int, endedAt string) error {
	if outcome != OutcomeCompleted && outcome != OutcomeFailed && outcome != OutcomeCancelled {
		return faults.Newf(faults.Validation, "finish_run", "bad outcome %q", outcome)
	}
	if endedAt == "" {
		endedAt = nowUTC()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.runs[runID]
	if !ok || r.Terminal() {
		return faults.Newf(faults.Conflict, "finish_run", "run %d is terminal or missing", runID)
	}
	r.Outcome = outcome
	r.FailedStage = failedStage
	r.FailureCause = cause
	r.RetryCount = retries
	r.EndedAt = endedAt
	return nil
}

func copyRun(r *Run) *Run {
	cp := *r
	cp.Stages = make(map[string]string, len(r.Stages))
	for k, v := range r.Stages {
		cp.Stages[k] = v
	}
	return &cp
}

// --- Per-run derived entities ---

func (m *MemStore) SaveJudgments(runID int64, js []*ControlJudgment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.judgments[runID] = nil
	now := nowUTC()
	for _, j := range js {
		m.nextJudgment++
		cp := *j
		cp.ID = m.nextJudgment
		cp.RunID = runID
		cp.CreatedAt = now
		cp.CitedItems = append([]int64(nil), j.CitedItems...)
		m.judgments[runID] = append(m.judgments[runID], &cp)
	}
	return nil
}

func (m *MemStore) ListJudgments(runID int64) ([]*ControlJudgment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*ControlJudgment
	for _, j := range m.judgments[runID] {
		cp := *j
		cp.CitedItems = append([]int64(nil), j.CitedItems...)
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, k int) bool { return out[i].ControlID < out[k].ControlID })
	return out, nil
}

func (m *MemStore) SaveGaps(runID int64, gs []*GapRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gaps[runID] = nil
	for _, g := range gs {
		m.nextGap++
		cp := *g
		cp.ID = m.nextGap
		cp.RunID = runID
		m.gaps[runID] = append(m.gaps[runID], &cp)
	}
	return nil
}

func (m *MemStore) ListGaps(runID int64) ([]*GapRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*GapRecord
	for _, g := range m.gaps[runID] {
		cp := *g
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, k int) bool { return out[i].Rank < out[k].Rank })
	return out, nil
}

func (m *MemStore) SaveArtifact(a *ReportArtifact) (int64, error) {
	if a == nil || a.RunID == 0 || a.Format == "" || a.Language == "" {
		return 0, faults.Newf(faults.Validation, "save_artifact", "run id, format and language are required")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.artifacts[a.RunID] {
		if existing.Format == a.Format && existing.Language == a.Language {
			existing.Content = append([]byte(nil), a.Content...)
			existing.CreatedAt = nowUTC()
			return existing.ID, nil
		}
	}
	m.nextArtifact++
	cp := *a
	cp.ID = m.nextArtifact
	cp.Content = append([]byte(nil), a.Content...)
	if cp.CreatedAt == "" {
		cp.CreatedAt = nowUTC()
	}
	m.artifacts[a.RunID] = append(m.artifacts[a.RunID], &cp)
	return cp.ID, nil
}

func (m *MemStore) GetArtifact(runID int64, format, language string) (*ReportArtifact, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.artifacts[runID] {
		if a.Format == format && a.Language == language {
			cp := *a
			cp.Content = append([]byte(nil), a.Content...)
			return &cp, nil
		}
	}
	return nil, faults.Newf(faults.NotFound, "get_artifact", "run %d %s/%s", runID, format, language)
}

// --- Purge ---

func (m *MemStore) PurgeAssessment(id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.assessments[id]; !ok {
		return faults.Newf(faults.NotFound, "purge_assessment", "assessment %d", id)
	}
	for _, r := range m.runs {
		if r.AssessmentID == id && !r.Terminal() {
			return faults.Newf(faults.Conflict, "purge_assessment", "assessment %d has active run %d", id, r.ID)
		}
	}
	for rid, r := range m.runs {
		if r.AssessmentID == id {
			delete(m.judgments, rid)
			delete(m.gaps, rid)
			delete(m.artifacts, rid)
			delete(m.runs, rid)
		}
	}
	for eid, e := range m.evidence {
		if e.AssessmentID == id {
			delete(m.evidence, eid)
		}
	}
	delete(m.shares, id)
	delete(m.assessments, id)
	return nil
}

var _ Store = (*MemStore)(nil)
var _ Store = (*SqlStore)(nil)
