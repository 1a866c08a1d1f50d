package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"aegis/internal/faults"

	_ "modernc.org/sqlite"
)

// nowUTC returns the current UTC time as an ISO 8601 string.
func nowUTC() string { return time.Now().UTC().Format(time.RFC3339) }

// nullStr converts a sql.NullString to a plain string (empty if null).
func nullStr(ns sql.NullString) string {
	if ns.Valid {
		return ns.String
	}
	return ""
}

// SqlStore implements Store with SQLite.
type SqlStore struct {
	db *sql.DB
}

// Open opens (or creates) the SQLite DB at path and ensures the schema.
func Open(path string) (*SqlStore, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// The run-lock index assumes a single writer at a time.
	db.SetMaxOpenConns(1)

	s := &SqlStore{db: db}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SqlStore) ensureSchema() error {
	if _, err := s.db.Exec(schemaV1); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	var version int
	err := s.db.QueryRow(`SELECT version FROM schema_version LIMIT 1`).Scan(&version)
	if errors.Is(err, sql.ErrNoRows) {
		_, err = s.db.Exec(`INSERT INTO schema_version (version) VALUES (?)`, schemaVersion)
		return err
	}
	if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if version != schemaVersion {
		return fmt.Errorf("unsupported schema version %d (want %d)", version, schemaVersion)
	}
	return nil
}

// Close closes the underlying DB.
func (s *SqlStore) Close() error { return s.db.Close() }

// --- Assessments ---

func (s *SqlStore) CreateAssessment(a *Assessment) (int64, error) {
	if a == nil || a.ClientID == "" || a.ProjectName == "" {
		return 0, faults.Newf(faults.Validation, "create_assessment", "client id and project name are required")
	}
	now := nowUTC()
	status := a.Status
	if status == "" {
		status = StatusCreated
	}
	overrides, err := marshalOverrides(a.Overrides)
	if err != nil {
		return 0, err
	}
	res, err := s.db.Exec(`
		INSERT INTO assessments (client_id, project_name, conops, status, profile, profile_note, overrides, created_at, updated_at, deleted_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, '')`,
		a.ClientID, a.ProjectName, a.CONOPS, status, a.Profile, a.ProfileNote, overrides, now, now)
	if err != nil {
		return 0, fmt.Errorf("insert assessment: %w", err)
	}
	return res.LastInsertId()
}

const assessmentCols = `id, client_id, project_name, conops, status, profile, profile_note, overrides, created_at, updated_at, deleted_at`

func (s *SqlStore) scanAssessment(row interface{ Scan(...any) error }) (*Assessment, error) {
	var a Assessment
	var conops, note, overrides sql.NullString
	err := row.Scan(&a.ID, &a.ClientID, &a.ProjectName, &conops, &a.Status,
		&a.Profile, &note, &overrides, &a.CreatedAt, &a.UpdatedAt, &a.DeletedAt)
	if err != nil {
		return nil, err
	}
	a.CONOPS = nullStr(conops)
	a.ProfileNote = nullStr(note)
	if ov := nullStr(overrides); ov != "" {
		if err := json.Unmarshal([]byte(ov), &a.Overrides); err != nil {
			return nil, fmt.Errorf("decode overrides for assessment %d: %w", a.ID, err)
		}
	}
	return &a, nil
}

// GetAssessment returns a live assessment; soft-deleted rows behave as absent.
func (s *SqlStore) GetAssessment(id int64) (*Assessment, error) {
	a, err := s.GetAssessmentAny(id)
	if err != nil {
		return nil, err
	}
	if a.DeletedAt != "" {
		return nil, faults.Newf(faults.NotFound, "get_assessment", "assessment %d", id)
	}
	return a, nil
}

// GetAssessmentAny returns an assessment regardless of soft-deletion.
func (s *SqlStore) GetAssessmentAny(id int64) (*Assessment, error) {
	row := s.db.QueryRow(`SELECT `+assessmentCols+` FROM assessments WHERE id = ?`, id)
	a, err := s.scanAssessment(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, faults.Newf(faults.NotFound, "get_assessment", "assessment %d", id)
	}
	if err != nil {
		return nil, fmt.Errorf("get assessment %d: %w", id, err)
	}
	return a, nil
}

func (s *SqlStore) listAssessments(where string) ([]*Assessment, error) {
	rows, err := s.db.Query(`SELECT ` + assessmentCols + ` FROM assessments WHERE ` + where + ` ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list assessments: %w", err)
	}
	defer rows.Close()
	var out []*Assessment
	for rows.Next() {
		a, err := s.scanAssessment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *SqlStore) ListAssessments() ([]*Assessment, error) {
	return s.listAssessments(`deleted_at = ''`)
}

func (s *SqlStore) ListDeletedAssessments() ([]*Assessment, error) {
	return s.listAssessments(`deleted_at != ''`)
}

func (s *SqlStore) touch(id int64, set string, args ...any) error {
	args = append(args, nowUTC(), id)
	res, err := s.db.Exec(`UPDATE assessments SET `+set+`, updated_at = ? WHERE id = ?`, args...)
	if err != nil {
		return fmt.Errorf("update assessment %d: %w", id, err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return faults.Newf(faults.NotFound, "update_assessment", "assessment %d", id)
	}
	return nil
}

func (s *SqlStore) UpdateAssessmentStatus(id int64, status string) error {
	return s.touch(id, `status = ?`, status)
}

func (s *SqlStore) SetClassification(id int64, profile int, note string) error {
	if profile < 1 || profile > 3 {
		return faults.Newf(faults.Validation, "set_classification", "profile %d out of range", profile)
	}
	return s.touch(id, `profile = ?, profile_note = ?`, profile, note)
}

func (s *SqlStore) SetOverride(id int64, controlID, note string) error {
	return s.mutateOverrides(id, func(m map[string]string) {
		m[controlID] = note
	})
}

func (s *SqlStore) ClearOverride(id int64, controlID string) error {
	return s.mutateOverrides(id, func(m map[string]string) {
		delete(m, controlID)
	})
}

func (s *SqlStore) mutateOverrides(id int64, fn func(map[string]string)) error {
	a, err := s.GetAssessmentAny(id)
	if err != nil {
		return err
	}
	if a.Overrides == nil {
		a.Overrides = make(map[string]string)
	}
	fn(a.Overrides)
	data, err := marshalOverrides(a.Overrides)
	if err != nil {
		return err
	}
	return s.touch(id, `overrides = ?`, data)
}

func (s *SqlStore) SetDeletedAt(id int64, ts string) error {
	return s.touch(id, `deleted_at = ?`, ts)
}

func marshalOverrides(m map[string]string) (string, error) {
	if len(m) == 0 {
		return "", nil
	}
	data, err := json.Marshal(m)
	if err != nil {
		return "", fmt.Errorf("encode overrides: %w", err)
	}
	return string(data), nil
}

// --- Shares ---

func (s *SqlStore) UpsertShare(sh *Share) error {
	if sh == nil || sh.UserID == "" || sh.Role == "" {
		return faults.Newf(faults.Validation, "share", "user id and role are required")
	}
	_, err := s.db.Exec(`
		INSERT INTO shares (assessment_id, user_id, role) VALUES (?, ?, ?)
		ON CONFLICT(assessment_id, user_id) DO UPDATE SET role = excluded.role`,
		sh.AssessmentID, sh.UserID, sh.Role)
	if err != nil {
		return fmt.Errorf("upsert share: %w", err)
	}
	return nil
}

func (s *SqlStore) ListShares(assessmentID int64) ([]*Share, error) {
	rows, err := s.db.Query(`SELECT id, assessment_id, user_id, role FROM shares WHERE assessment_id = ? ORDER BY user_id`, assessmentID)
	if err != nil {
		return nil, fmt.Errorf("list shares: %w", err)
	}
	defer rows.Close()
	var out []*Share
	for rows.Next() {
		var sh Share
		if err := rows.Scan(&sh.ID, &sh.AssessmentID, &sh.UserID, &sh.Role); err != nil {
			return nil, err
		}
		out = append(out, &sh)
	}
	return out, rows.Err()
}

// --- Evidence ---

func (s *SqlStore) AddEvidence(e *EvidenceItem) (int64, error) {
	if e == nil || e.AssessmentID == 0 || e.Name == "" {
		return 0, faults.Newf(faults.Validation, "add_evidence", "assessment id and name are required")
	}
	if e.UploadedAt == "" {
		e.UploadedAt = nowUTC()
	}
	res, err := s.db.Exec(`
		INSERT INTO evidence_items (assessment_id, name, content_ref, note, type, size, uploaded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.AssessmentID, e.Name, e.ContentRef, e.Note, e.Type, e.Size, e.UploadedAt)
	if err != nil {
		return 0, fmt.Errorf("insert evidence: %w", err)
	}
	return res.LastInsertId()
}

func (s *SqlStore) GetEvidence(id int64) (*EvidenceItem, error) {
	row := s.db.QueryRow(`SELECT id, assessment_id, name, content_ref, note, type, size, uploaded_at FROM evidence_items WHERE id = ?`, id)
	var e EvidenceItem
	var ref, note sql.NullString
	err := row.Scan(&e.ID, &e.AssessmentID, &e.Name, &ref, &note, &e.Type, &e.Size, &e.UploadedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, faults.Newf(faults.NotFound, "get_evidence", "evidence %d", id)
	}
	if err != nil {
		return nil, fmt.Errorf("get evidence %d: %w", id, err)
	}
	e.ContentRef = nullStr(ref)
	e.Note = nullStr(note)
	return &e, nil
}

func (s *SqlStore) ListEvidence(assessmentID int64) ([]*EvidenceItem, error) {
	rows, err := s.db.Query(`SELECT id, assessment_id, name, content_ref, note, type, size, uploaded_at FROM evidence_items WHERE assessment_id = ? ORDER BY id`, assessmentID)
	if err != nil {
		return nil, fmt.Errorf("list evidence: %w", err)
	}
	defer rows.Close()
	var out []*EvidenceItem
	for rows.Next() {
		var e EvidenceItem
		var ref, note sql.NullString
		if err := rows.Scan(&e.ID, &e.AssessmentID, &e.Name, &ref, &note, &e.Type, &e.Size, &e.UploadedAt); err != nil {
			return nil, err
		}
		e.ContentRef = nullStr(ref)
		e.Note = nullStr(note)
		out = append(out, &e)
	}
	return out, rows.Err()
}

func (s *SqlStore) UpdateEvidenceNote(id int64, note string) error {
	res, err := s.db.Exec(`UPDATE evidence_items SET note = ? WHERE id = ?`, note, id)
	if err != nil {
		return fmt.Errorf("update evidence note: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return faults.Newf(faults.NotFound, "update_evidence", "evidence %d", id)
	}
	return nil
}

// --- Runs ---

// CreateRunIfIdle atomically creates the next run for an assessment unless a
// non-terminal run exists. The partial unique index on active runs makes the
// check-and-set atomic even across processes sharing the DB file.
func (s *SqlStore) CreateRunIfIdle(assessmentID int64, startedAt string) (*Run, error) {
	if startedAt == "" {
		startedAt = nowUTC()
	}
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin run tx: %w", err)
	}
	defer tx.Rollback()

	var seq int
	if err := tx.QueryRow(`SELECT COALESCE(MAX(seq), 0) + 1 FROM runs WHERE assessment_id = ?`, assessmentID).Scan(&seq); err != nil {
		return nil, fmt.Errorf("next run seq: %w", err)
	}

	stages, _ := json.Marshal(map[string]string{})
	res, err := tx.Exec(`
		INSERT INTO runs (assessment_id, seq, stages, outcome, retry_count, started_at)
		VALUES (?, ?, ?, '', 0, ?)`,
		assessmentID, seq, string(stages), startedAt)
	if err != nil {
		if isConstraintErr(err) {
			return nil, faults.Newf(faults.Conflict, "start_run", "assessment %d already has an active run", assessmentID)
		}
		return nil, fmt.Errorf("insert run: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		if isConstraintErr(err) {
			return nil, faults.Newf(faults.Conflict, "start_run", "assessment %d already has an active run", assessmentID)
		}
		return nil, fmt.Errorf("commit run tx: %w", err)
	}
	return &Run{ID: id, AssessmentID: assessmentID, Seq: seq, Stages: map[string]string{}, StartedAt: startedAt}, nil
}

func isConstraintErr(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "constraint")
}

const runCols = `id, assessment_id, seq, stages, outcome, failed_stage, failure_cause, retry_count, started_at, ended_at`

func scanRun(row interface{ Scan(...any) error }) (*Run, error) {
	var r Run
	var stages string
	var failedStage, cause, endedAt sql.NullString
	err := row.Scan(&r.ID, &r.AssessmentID, &r.Seq, &stages, &r.Outcome,
		&failedStage, &cause, &r.RetryCount, &r.StartedAt, &endedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(stages), &r.Stages); err != nil {
		return nil, fmt.Errorf("decode stages for run %d: %w", r.ID, err)
	}
	r.FailedStage = nullStr(failedStage)
	r.FailureCause = nullStr(cause)
	r.EndedAt = nullStr(endedAt)
	return &r, nil
}

func (s *SqlStore) GetRun(id int64) (*Run, error) {
	row := s.db.QueryRow(`SELECT `+runCols+` FROM runs WHERE id = ?`, id)
	r, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, faults.Newf(faults.NotFound, "get_run", "run %d", id)
	}
	if err != nil {
		return nil, fmt.Errorf("get run %d: %w", id, err)
	}
	return r, nil
}

// ActiveRun returns the non-terminal run for an assessment, or nil.
func (s *SqlStore) ActiveRun(assessmentID int64) (*Run, error) {
	row := s.db.QueryRow(`SELECT `+runCols+` FROM runs WHERE assessment_id = ? AND outcome = ''`, assessmentID)
	r, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("active run for assessment %d: %w", assessmentID, err)
	}
	return r, nil
}

func (s *SqlStore) ListRuns(assessmentID int64) ([]*Run, error) {
	rows, err := s.db.Query(`SELECT `+runCols+` FROM runs WHERE assessment_id = ? ORDER BY seq`, assessmentID)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()
	var out []*Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *SqlStore) UpdateRunStages(runID int64, stages map[string]string) error {
	data, err := json.Marshal(stages)
	if err != nil {
		return fmt.Errorf("encode stages: %w", err)
	}
	res, err := s.db.Exec(`UPDATE runs SET stages = ? WHERE id = ? AND outcome = ''`, string(data), runID)
	if err != nil {
		return fmt.Errorf("update run stages: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return faults.Newf(faults.Conflict, "update_run", "run %d is terminal or missing", runID)
	}
	return nil
}

// FinishRun moves a run to a terminal outcome. Terminal runs are immutable:
// finishing an already-terminal run is a conflict.
func (s *SqlStore) FinishRun(runID int64, outcome, failedStage, cause string, retries int, endedAt string) error {
	if outcome != OutcomeCompleted && outcome != OutcomeFailed && outcome != OutcomeCancelled {
		return faults.Newf(faults.Validation, "finish_run", "bad outcome %q", outcome)
	}
	if endedAt == "" {
		endedAt = nowUTC()
	}
	res, err := s.db.Exec(`
		UPDATE runs SET outcome = ?, failed_stage = ?, failure_cause = ?, retry_count = ?, ended_at = ?
		WHERE id = ? AND outcome = ''`,
		outcome, failedStage, cause, retries, endedAt, runID)
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return faults.Newf(faults.Conflict, "finish_run", "run %d is terminal or missing", runID)
	}
	return nil
}

// --- Judgments ---

// SaveJudgments replaces the run's judgment set. Replacement keeps the write
// idempotent when a stage retry re-persists its output.
func (s *SqlStore) SaveJudgments(runID int64, js []*ControlJudgment) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin judgments tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM control_judgments WHERE run_id = ?`, runID); err != nil {
		return fmt.Errorf("clear judgments: %w", err)
	}
	now := nowUTC()
	for _, j := range js {
		cited := ""
		if len(j.CitedItems) > 0 {
			data, err := json.Marshal(j.CitedItems)
			if err != nil {
				return fmt.Errorf("encode cited items: %w", err)
			}
			cited = string(data)
		}
		if _, err := tx.Exec(`
			INSERT INTO control_judgments (run_id, control_id, tier, coverage, rationale, cited_items, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			runID, j.ControlID, j.Tier, j.Coverage, j.Rationale, cited, now); err != nil {
			return fmt.Errorf("insert judgment %s: %w", j.ControlID, err)
		}
	}
	return tx.Commit()
}

func (s *SqlStore) ListJudgments(runID int64) ([]*ControlJudgment, error) {
	rows, err := s.db.Query(`
		SELECT id, run_id, control_id, tier, coverage, rationale, cited_items, created_at
		FROM control_judgments WHERE run_id = ? ORDER BY control_id`, runID)
	if err != nil {
		return nil, fmt.Errorf("list judgments: %w", err)
	}
	defer rows.Close()
	var out []*ControlJudgment
	for rows.Next() {
		var j ControlJudgment
		var rationale, cited sql.NullString
		if err := rows.Scan(&j.ID, &j.RunID, &j.ControlID, &j.Tier, &j.Coverage, &rationale, &cited, &j.CreatedAt); err != nil {
			return nil, err
		}
		j.Rationale = nullStr(rationale)
		if c := nullStr(cited); c != "" {
			if err := json.Unmarshal([]byte(c), &j.CitedItems); err != nil {
				return nil, fmt.Errorf("decode cited items for %s: %w", j.ControlID, err)
			}
		}
		out = append(out, &j)
	}
	return out, rows.Err()
}

// --- Gaps ---

// SaveGaps replaces the run's gap list, mirroring SaveJudgments.
func (s *SqlStore) SaveGaps(runID int64, gs []*GapRecord) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin gaps tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM gap_records WHERE run_id = ?`, runID); err != nil {
		return fmt.Errorf("clear gaps: %w", err)
	}
	for _, g := range gs {
		if _, err := tx.Exec(`
			INSERT INTO gap_records (run_id, rank, control_id, coverage, priority, recommended_evidence)
			VALUES (?, ?, ?, ?, ?, ?)`,
			runID, g.Rank, g.ControlID, g.Coverage, g.Priority, g.RecommendedEvidence); err != nil {
			return fmt.Errorf("insert gap %s: %w", g.ControlID, err)
		}
	}
	return tx.Commit()
}

func (s *SqlStore) ListGaps(runID int64) ([]*GapRecord, error) {
	rows, err := s.db.Query(`
		SELECT id, run_id, rank, control_id, coverage, priority, recommended_evidence
		FROM gap_records WHERE run_id = ? ORDER BY rank`, runID)
	if err != nil {
		return nil, fmt.Errorf("list gaps: %w", err)
	}
	defer rows.Close()
	var out []*GapRecord
	for rows.Next() {
		var g GapRecord
		var rec sql.NullString
		if err := rows.Scan(&g.ID, &g.RunID, &g.Rank, &g.ControlID, &g.Coverage, &g.Priority, &rec); err != nil {
			return nil, err
		}
		g.RecommendedEvidence = nullStr(rec)
		out = append(out, &g)
	}
	return out, rows.Err()
}

// --- Report artifacts ---

func (s *SqlStore) SaveArtifact(a *ReportArtifact) (int64, error) {
	if a == nil || a.RunID == 0 || a.Format == "" || a.Language == "" {
		return 0, faults.Newf(faults.Validation, "save_artifact", "run id, format and language are required")
	}
	if a.CreatedAt == "" {
		a.CreatedAt = nowUTC()
	}
	res, err := s.db.Exec(`
		INSERT INTO report_artifacts (run_id, format, language, content, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(run_id, format, language) DO UPDATE SET content = excluded.content, created_at = excluded.created_at`,
		a.RunID, a.Format, a.Language, a.Content, a.CreatedAt)
	if err != nil {
		return 0, fmt.Errorf("save artifact: %w", err)
	}
	return res.LastInsertId()
}

func (s *SqlStore) GetArtifact(runID int64, format, language string) (*ReportArtifact, error) {
	row := s.db.QueryRow(`
		SELECT id, run_id, format, language, content, created_at
		FROM report_artifacts WHERE run_id = ? AND format = ? AND language = ?`,
		runID, format, language)
	var a ReportArtifact
	err := row.Scan(&a.ID, &a.RunID, &a.Format, &a.Language, &a.Content, &a.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, faults.Newf(faults.NotFound, "get_artifact", "run %d %s/%s", runID, format, language)
	}
	if err != nil {
		return nil, fmt.Errorf("get artifact: %w", err)
	}
	return &a, nil
}

// --- Purge ---

// PurgeAssessment removes the assessment and every dependent entity in one
// transaction: either everything goes or nothing does.
func (s *SqlStore) PurgeAssessment(id int64) error {
	if _, err := s.GetAssessmentAny(id); err != nil {
		return err
	}
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin purge tx: %w", err)
	}
	defer tx.Rollback()

	// Re-check inside the transaction so a run started after the caller's
	// check cannot be deleted out from under its coordinator.
	var activeID int64
	err = tx.QueryRow(`SELECT id FROM runs WHERE assessment_id = ? AND outcome = ''`, id).Scan(&activeID)
	if err == nil {
		return faults.Newf(faults.Conflict, "purge_assessment", "assessment %d has active run %d", id, activeID)
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("purge assessment %d: %w", id, err)
	}

	stmts := []string{
		`DELETE FROM report_artifacts WHERE run_id IN (SELECT id FROM runs WHERE assessment_id = ?)`,
		`DELETE FROM gap_records WHERE run_id IN (SELECT id FROM runs WHERE assessment_id = ?)`,
		`DELETE FROM control_judgments WHERE run_id IN (SELECT id FROM runs WHERE assessment_id = ?)`,
		`DELETE FROM runs WHERE assessment_id = ?`,
		`DELETE FROM evidence_items WHERE assessment_id = ?`,
		`DELETE FROM shares WHERE assessment_id = ?`,
		`DELETE FROM assessments WHERE id = ?`,
	}
	for _, q := range stmts {
		if _, err := tx.Exec(q, id); err != nil {
			return fmt.Errorf("purge assessment %d: %w", id, err)
		}
	}
	return tx.Commit()
}
