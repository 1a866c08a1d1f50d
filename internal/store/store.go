package store

// DefaultDBPath is the default relative path for the SQLite DB.
// Resolve against cwd; Open() creates the parent dir (e.g. .aegis).
const DefaultDBPath = ".aegis/aegis.db"

// Assessment lifecycle statuses.
const (
	StatusCreated    = "created"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
)

// Run outcomes. An empty outcome means the run is still active.
const (
	OutcomeCompleted = "completed"
	OutcomeFailed    = "failed"
	OutcomeCancelled = "cancelled"
)

// Stage statuses within a run's stage vector.
const (
	StagePending   = "pending"
	StageRunning   = "running"
	StageSucceeded = "succeeded"
	StageFailed    = "failed"
	StageSkipped   = "skipped"
)

// Share roles, from widest to narrowest scope.
const (
	RoleAdmin    = "admin"
	RoleAssessor = "assessor"
	RoleClient   = "client"
	RoleViewer   = "viewer"
)

// Assessment is one system-under-assessment. Soft deletion is a timestamp;
// deleted assessments are excluded from default listings and behave as
// absent everywhere except restore and purge.
type Assessment struct {
	ID          int64
	ClientID    string
	ProjectName string
	CONOPS      string
	Status      string
	Profile     int    // impact profile 1-3; 0 = not yet classified
	ProfileNote string // classification rationale
	// Overrides maps control id -> operator note for not-applicable controls.
	Overrides map[string]string
	CreatedAt string
	UpdatedAt string
	DeletedAt string // empty = live
}

// Share grants a user a role scope on an assessment.
type Share struct {
	ID           int64
	AssessmentID int64
	UserID       string
	Role         string
}

// EvidenceItem is one submitted artifact. Only its significance note is
// mutable after upload.
type EvidenceItem struct {
	ID           int64
	AssessmentID int64
	Name         string
	ContentRef   string
	Note         string // declared significance
	Type         string // ingestion-derived: document/log/iac/scan/code/image/video
	Size         int64
	UploadedAt   string
}

// Run is one pipeline execution for an assessment. Seq is monotonic per
// assessment. Stages maps stage name -> stage status. Immutable once the
// outcome is terminal.
type Run struct {
	ID           int64
	AssessmentID int64
	Seq          int
	Stages       map[string]string
	Outcome      string // empty while active
	FailedStage  string
	FailureCause string
	RetryCount   int
	StartedAt    string
	EndedAt      string
}

// Terminal reports whether the run has reached a terminal outcome.
func (r *Run) Terminal() bool { return r.Outcome != "" }

// ControlJudgment is the per-control result of one run. Immutable.
type ControlJudgment struct {
	ID         int64
	RunID      int64
	ControlID  string
	Tier       int // 0 when coverage is missing or not applicable
	Coverage   string
	Rationale  string
	CitedItems []int64
	CreatedAt  string
}

// GapRecord is one prioritized gap derived from a run's judgments.
// Recomputed each run, never mutated in place.
type GapRecord struct {
	ID                  int64
	RunID               int64
	Rank                int
	ControlID           string
	Coverage            string
	Priority            float64
	RecommendedEvidence string
}

// ReportArtifact is a rendered report, cached per run+format+language.
type ReportArtifact struct {
	ID        int64
	RunID     int64
	Format    string
	Language  string
	Content   []byte
	CreatedAt string
}

// Store is the persistence facade. Domain and CLI use only this interface;
// implementation is SQLite or in-memory.
type Store interface {
	// Assessments. Get and List exclude soft-deleted rows; GetAny includes
	// them for restore/purge paths.
	CreateAssessment(a *Assessment) (int64, error)
	GetAssessment(id int64) (*Assessment, error)
	GetAssessmentAny(id int64) (*Assessment, error)
	ListAssessments() ([]*Assessment, error)
	ListDeletedAssessments() ([]*Assessment, error)
	UpdateAssessmentStatus(id int64, status string) error
	SetClassification(id int64, profile int, note string) error
	SetOverride(id int64, controlID, note string) error
	ClearOverride(id int64, controlID string) error
	SetDeletedAt(id int64, ts string) error

	// Shares
	UpsertShare(s *Share) error
	ListShares(assessmentID int64) ([]*Share, error)

	// Evidence
	AddEvidence(e *EvidenceItem) (int64, error)
	GetEvidence(id int64) (*EvidenceItem, error)
	ListEvidence(assessmentID int64) ([]*EvidenceItem, error)
	UpdateEvidenceNote(id int64, note string) error

	// Runs. CreateRunIfIdle is the run-lock: it atomically creates a new
	// run unless a non-terminal run exists (conflict error), assigning the
	// next sequence number.
	CreateRunIfIdle(assessmentID int64, startedAt string) (*Run, error)
	GetRun(id int64) (*Run, error)
	ActiveRun(assessmentID int64) (*Run, error)
	ListRuns(assessmentID int64) ([]*Run, error)
	UpdateRunStages(runID int64, stages map[string]string) error
	FinishRun(runID int64, outcome, failedStage, cause string, retries int, endedAt string) error

	// Per-run derived entities. Save methods replace the run's existing
	// set, so a retried stage can re-persist safely.
	SaveJudgments(runID int64, js []*ControlJudgment) error
	ListJudgments(runID int64) ([]*ControlJudgment, error)
	SaveGaps(runID int64, gs []*GapRecord) error
	ListGaps(runID int64) ([]*GapRecord, error)
	SaveArtifact(a *ReportArtifact) (int64, error)
	GetArtifact(runID int64, format, language string) (*ReportArtifact, error)

	// PurgeAssessment permanently removes the assessment and every
	// dependent entity in one transaction. Refused with a conflict while
	// the assessment has an active run.
	PurgeAssessment(id int64) error

	Close() error
}
