// Package mcpserver exposes the assessment engine as MCP tools over stdio,
// so agent clients can drive assessments the same way the CLI does.
package mcpserver

import (
	"context"
	"fmt"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"aegis/internal/assess"
	"aegis/internal/catalog"
	"aegis/internal/coordinate"
	"aegis/internal/faults"
	"aegis/internal/gap"
	"aegis/internal/history"
	"aegis/internal/logging"
	"aegis/internal/report"
	"aegis/internal/store"
)

// Permission levels required by tools, from weakest to strongest. A share
// role maps to the strongest permission it grants.
const (
	permView = iota + 1
	permContribute
	permOperate
	permAdmin
)

var rolePerm = map[string]int{
	store.RoleViewer:   permView,
	store.RoleClient:   permContribute,
	store.RoleAssessor: permOperate,
	store.RoleAdmin:    permAdmin,
}

// Server wraps the MCP SDK server around the engine.
type Server struct {
	MCPServer *sdkmcp.Server

	st    store.Store
	cat   *catalog.Catalog
	coord *coordinate.Coordinator
	life  *coordinate.Lifecycle
	gen   *report.Generator
}

// NewServer creates the MCP server and registers all tools.
func NewServer(st store.Store, cat *catalog.Catalog, coord *coordinate.Coordinator, life *coordinate.Lifecycle, gen *report.Generator) *Server {
	s := &Server{st: st, cat: cat, coord: coord, life: life, gen: gen}
	s.MCPServer = sdkmcp.NewServer(
		&sdkmcp.Implementation{Name: "aegis", Version: "dev"},
		nil,
	)
	s.registerTools()
	return s
}

// Run serves MCP over the given transport until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	logging.New("mcpserver").Info("serving MCP over stdio")
	return s.MCPServer.Run(ctx, &sdkmcp.StdioTransport{})
}

// authorize checks that userID holds the needed permission on an assessment.
// An empty userID is the local operator and is never gated.
func (s *Server) authorize(assessmentID int64, userID string, need int) error {
	if userID == "" {
		return nil
	}
	shares, err := s.st.ListShares(assessmentID)
	if err != nil {
		return err
	}
	for _, sh := range shares {
		if sh.UserID == userID {
			if rolePerm[sh.Role] >= need {
				return nil
			}
			return faults.Newf(faults.Validation, "authorize",
				"user %s has role %s, which does not permit this operation", userID, sh.Role)
		}
	}
	return faults.Newf(faults.NotFound, "authorize", "user %s has no access to assessment %d", userID, assessmentID)
}

func (s *Server) registerTools() {
	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "create_assessment",
		Description: "Create a new assessment for a client project.",
	}, s.handleCreateAssessment)

	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "list_assessments",
		Description: "List assessments. Set deleted=true to list soft-deleted ones awaiting purge.",
	}, s.handleListAssessments)

	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "classify_assessment",
		Description: "Set the impact profile from confidentiality/integrity/availability levels (1-3 each). The profile is the maximum of the three.",
	}, s.handleClassify)

	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "add_evidence",
		Description: "Register an evidence item. The evidence type is derived from the filename and note when not declared.",
	}, s.handleAddEvidence)

	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "set_override",
		Description: "Mark a control not applicable for this assessment, with a justification note. Overrides are the only path to not-applicable.",
	}, s.handleSetOverride)

	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "clear_override",
		Description: "Remove a not-applicable override so the control is assessed again.",
	}, s.handleClearOverride)

	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "start_run",
		Description: "Start an assessment pipeline run. Fails with a conflict if a run is already active.",
	}, s.handleStartRun)

	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "cancel_run",
		Description: "Request cooperative cancellation of an active run. Completed stage outputs are kept.",
	}, s.handleCancelRun)

	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "run_status",
		Description: "Get a run's stage vector, outcome and failure details.",
	}, s.handleRunStatus)

	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "run_results",
		Description: "Get a run's per-control judgments, prioritized gaps and compliance score.",
	}, s.handleRunResults)

	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "diff_runs",
		Description: "Compare two runs of the same assessment: improved, regressed, new and resolved gaps.",
	}, s.handleDiffRuns)

	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "generate_report",
		Description: "Render a report artifact (summary, remediation, matrix, evidence_request) in en or fr. Artifacts are cached per run.",
	}, s.handleGenerateReport)

	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "share_assessment",
		Description: "Grant or update a user's role (admin, assessor, client, viewer) on an assessment.",
	}, s.handleShare)

	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "delete_assessment",
		Description: "Soft-delete an assessment. Restorable for 30 days, then swept permanently.",
	}, s.handleDelete)

	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "restore_assessment",
		Description: "Restore a soft-deleted assessment within the restore window.",
	}, s.handleRestore)

	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "purge_assessment",
		Description: "Permanently remove an assessment and all dependent data. Irreversible.",
	}, s.handlePurge)

	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "search_controls",
		Description: "Search the control catalog by keyword, or list a family's controls. The catalog is shared, not per-assessment.",
	}, s.handleSearchControls)
}

// --- Tool input/output types ---

type createAssessmentInput struct {
	ClientID    string `json:"client_id" jsonschema:"client identifier"`
	ProjectName string `json:"project_name" jsonschema:"project name"`
	CONOPS      string `json:"conops,omitempty" jsonschema:"concept of operations text"`
}

type createAssessmentOutput struct {
	AssessmentID int64  `json:"assessment_id"`
	Status       string `json:"status"`
}

type listAssessmentsInput struct {
	Deleted bool `json:"deleted,omitempty" jsonschema:"list soft-deleted assessments instead of live ones"`
}

type assessmentSummary struct {
	ID          int64  `json:"id"`
	ClientID    string `json:"client_id"`
	ProjectName string `json:"project_name"`
	Profile     int    `json:"profile"`
	Status      string `json:"status"`
	DeletedAt   string `json:"deleted_at,omitempty"`
}

type listAssessmentsOutput struct {
	Assessments []assessmentSummary `json:"assessments"`
}

type classifyInput struct {
	AssessmentID    int64  `json:"assessment_id"`
	Confidentiality int    `json:"confidentiality" jsonschema:"confidentiality impact level 1-3"`
	Integrity       int    `json:"integrity" jsonschema:"integrity impact level 1-3"`
	Availability    int    `json:"availability" jsonschema:"availability impact level 1-3"`
	Note            string `json:"note,omitempty" jsonschema:"classification rationale"`
	UserID          string `json:"user_id,omitempty" jsonschema:"acting user for role checks"`
}

type classifyOutput struct {
	Profile int `json:"profile"`
}

type addEvidenceInput struct {
	AssessmentID int64  `json:"assessment_id"`
	Name         string `json:"name" jsonschema:"file name of the evidence"`
	ContentRef   string `json:"content_ref,omitempty" jsonschema:"path or URL where the content lives"`
	Note         string `json:"note,omitempty" jsonschema:"declared significance"`
	Type         string `json:"type,omitempty" jsonschema:"evidence type; derived from the name and note when empty"`
	Size         int64  `json:"size,omitempty" jsonschema:"content size in bytes"`
	UserID       string `json:"user_id,omitempty" jsonschema:"acting user for role checks"`
}

type addEvidenceOutput struct {
	EvidenceID int64  `json:"evidence_id"`
	Type       string `json:"type"`
	Tier       int    `json:"tier"`
}

type overrideInput struct {
	AssessmentID int64  `json:"assessment_id"`
	ControlID    string `json:"control_id"`
	Note         string `json:"note,omitempty" jsonschema:"justification for not-applicable"`
	UserID       string `json:"user_id,omitempty" jsonschema:"acting user for role checks"`
}

type okOutput struct {
	OK bool `json:"ok"`
}

type startRunInput struct {
	AssessmentID int64  `json:"assessment_id"`
	UserID       string `json:"user_id,omitempty" jsonschema:"acting user for role checks"`
}

type startRunOutput struct {
	RunID int64 `json:"run_id"`
	Seq   int   `json:"seq"`
}

type runInput struct {
	RunID  int64  `json:"run_id"`
	UserID string `json:"user_id,omitempty" jsonschema:"acting user for role checks"`
}

type runStatusOutput struct {
	RunID        int64             `json:"run_id"`
	AssessmentID int64             `json:"assessment_id"`
	Seq          int               `json:"seq"`
	Outcome      string            `json:"outcome"`
	Stages       map[string]string `json:"stages"`
	FailedStage  string            `json:"failed_stage,omitempty"`
	FailureCause string            `json:"failure_cause,omitempty"`
	RetryCount   int               `json:"retry_count"`
	StartedAt    string            `json:"started_at"`
	EndedAt      string            `json:"ended_at,omitempty"`
}

type judgmentOut struct {
	ControlID string  `json:"control_id"`
	Coverage  string  `json:"coverage"`
	Tier      int     `json:"tier,omitempty"`
	Rationale string  `json:"rationale,omitempty"`
	Cited     []int64 `json:"cited_item_ids,omitempty"`
}

type gapOut struct {
	Rank                int     `json:"rank"`
	ControlID           string  `json:"control_id"`
	Coverage            string  `json:"coverage"`
	Priority            float64 `json:"priority"`
	RecommendedEvidence string  `json:"recommended_evidence"`
}

type runResultsOutput struct {
	Judgments  []judgmentOut `json:"judgments"`
	Gaps       []gapOut      `json:"gaps"`
	Compliance float64       `json:"compliance_pct"`
	Posture    string        `json:"posture"`
}

type diffRunsInput struct {
	EarlierRunID int64  `json:"earlier_run_id"`
	LaterRunID   int64  `json:"later_run_id"`
	UserID       string `json:"user_id,omitempty" jsonschema:"acting user for role checks"`
}

type diffRunsOutput struct {
	Delta history.Delta `json:"delta"`
	Empty bool          `json:"empty"`
}

type generateReportInput struct {
	RunID    int64  `json:"run_id"`
	Format   string `json:"format" jsonschema:"summary, remediation, matrix or evidence_request"`
	Language string `json:"language,omitempty" jsonschema:"en (default) or fr"`
	UserID   string `json:"user_id,omitempty" jsonschema:"acting user for role checks"`
}

type generateReportOutput struct {
	Format   string `json:"format"`
	Language string `json:"language"`
	Content  string `json:"content"`
}

type shareInput struct {
	AssessmentID int64  `json:"assessment_id"`
	UserID       string `json:"user_id" jsonschema:"user receiving access"`
	Role         string `json:"role" jsonschema:"admin, assessor, client or viewer"`
	ActorID      string `json:"actor_id,omitempty" jsonschema:"acting user for role checks"`
}

type lifecycleInput struct {
	AssessmentID int64  `json:"assessment_id"`
	UserID       string `json:"user_id,omitempty" jsonschema:"acting user for role checks"`
}

type searchControlsInput struct {
	Query  string `json:"query,omitempty" jsonschema:"keywords matched against control names and requirement text"`
	Family string `json:"family,omitempty" jsonschema:"family code, e.g. AC; ignored when a query is given"`
	Limit  int    `json:"limit,omitempty" jsonschema:"maximum search results, default 10"`
}

type controlOut struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Family     string   `json:"family"`
	FamilyName string   `json:"family_name"`
	Profile    int      `json:"profile"`
	Evidence   []string `json:"preferred_evidence,omitempty"`
	Text       string   `json:"text"`
}

type searchControlsOutput struct {
	Controls []controlOut `json:"controls"`
}

// --- Tool handlers ---

func (s *Server) handleCreateAssessment(ctx context.Context, _ *sdkmcp.CallToolRequest, in createAssessmentInput) (*sdkmcp.CallToolResult, createAssessmentOutput, error) {
	id, err := s.st.CreateAssessment(&store.Assessment{
		ClientID:    in.ClientID,
		ProjectName: in.ProjectName,
		CONOPS:      in.CONOPS,
	})
	if err != nil {
		return nil, createAssessmentOutput{}, err
	}
	return nil, createAssessmentOutput{AssessmentID: id, Status: store.StatusCreated}, nil
}

func (s *Server) handleListAssessments(ctx context.Context, _ *sdkmcp.CallToolRequest, in listAssessmentsInput) (*sdkmcp.CallToolResult, listAssessmentsOutput, error) {
	var (
		as  []*store.Assessment
		err error
	)
	if in.Deleted {
		as, err = s.st.ListDeletedAssessments()
	} else {
		as, err = s.st.ListAssessments()
	}
	if err != nil {
		return nil, listAssessmentsOutput{}, err
	}
	out := listAssessmentsOutput{Assessments: make([]assessmentSummary, 0, len(as))}
	for _, a := range as {
		out.Assessments = append(out.Assessments, assessmentSummary{
			ID:          a.ID,
			ClientID:    a.ClientID,
			ProjectName: a.ProjectName,
			Profile:     a.Profile,
			Status:      a.Status,
			DeletedAt:   a.DeletedAt,
		})
	}
	return nil, out, nil
}

func (s *Server) handleClassify(ctx context.Context, _ *sdkmcp.CallToolRequest, in classifyInput) (*sdkmcp.CallToolResult, classifyOutput, error) {
	if err := s.authorize(in.AssessmentID, in.UserID, permOperate); err != nil {
		return nil, classifyOutput{}, err
	}
	profile, err := inferProfile(in.Confidentiality, in.Integrity, in.Availability)
	if err != nil {
		return nil, classifyOutput{}, err
	}
	note := in.Note
	if note == "" {
		note = fmt.Sprintf("max of C=%d I=%d A=%d", in.Confidentiality, in.Integrity, in.Availability)
	}
	if err := s.st.SetClassification(in.AssessmentID, profile, note); err != nil {
		return nil, classifyOutput{}, err
	}
	return nil, classifyOutput{Profile: profile}, nil
}

// inferProfile derives the impact profile as the maximum of the three impact
// levels.
func inferProfile(c, i, a int) (int, error) {
	max := c
	if i > max {
		max = i
	}
	if a > max {
		max = a
	}
	for _, v := range []int{c, i, a} {
		if v < 1 || v > 3 {
			return 0, faults.Newf(faults.Validation, "classify", "impact levels must be 1-3, got C=%d I=%d A=%d", c, i, a)
		}
	}
	return max, nil
}

func (s *Server) handleAddEvidence(ctx context.Context, _ *sdkmcp.CallToolRequest, in addEvidenceInput) (*sdkmcp.CallToolResult, addEvidenceOutput, error) {
	if err := s.authorize(in.AssessmentID, in.UserID, permContribute); err != nil {
		return nil, addEvidenceOutput{}, err
	}
	if _, err := s.st.GetAssessment(in.AssessmentID); err != nil {
		return nil, addEvidenceOutput{}, err
	}
	evType := in.Type
	if evType == "" {
		evType = assess.ClassifyType(in.Name, in.Note)
	}
	id, err := s.st.AddEvidence(&store.EvidenceItem{
		AssessmentID: in.AssessmentID,
		Name:         in.Name,
		ContentRef:   in.ContentRef,
		Note:         in.Note,
		Type:         evType,
		Size:         in.Size,
	})
	if err != nil {
		return nil, addEvidenceOutput{}, err
	}
	return nil, addEvidenceOutput{EvidenceID: id, Type: evType, Tier: int(assess.TierForType(evType))}, nil
}

func (s *Server) handleSetOverride(ctx context.Context, _ *sdkmcp.CallToolRequest, in overrideInput) (*sdkmcp.CallToolResult, okOutput, error) {
	if err := s.authorize(in.AssessmentID, in.UserID, permOperate); err != nil {
		return nil, okOutput{}, err
	}
	if _, ok := s.cat.Get(in.ControlID); !ok {
		return nil, okOutput{}, faults.Newf(faults.Validation, "set_override", "unknown control %q", in.ControlID)
	}
	if err := s.st.SetOverride(in.AssessmentID, in.ControlID, in.Note); err != nil {
		return nil, okOutput{}, err
	}
	return nil, okOutput{OK: true}, nil
}

func (s *Server) handleClearOverride(ctx context.Context, _ *sdkmcp.CallToolRequest, in overrideInput) (*sdkmcp.CallToolResult, okOutput, error) {
	if err := s.authorize(in.AssessmentID, in.UserID, permOperate); err != nil {
		return nil, okOutput{}, err
	}
	if err := s.st.ClearOverride(in.AssessmentID, in.ControlID); err != nil {
		return nil, okOutput{}, err
	}
	return nil, okOutput{OK: true}, nil
}

func (s *Server) handleStartRun(ctx context.Context, _ *sdkmcp.CallToolRequest, in startRunInput) (*sdkmcp.CallToolResult, startRunOutput, error) {
	if err := s.authorize(in.AssessmentID, in.UserID, permOperate); err != nil {
		return nil, startRunOutput{}, err
	}
	run, err := s.coord.StartRun(ctx, in.AssessmentID)
	if err != nil {
		return nil, startRunOutput{}, err
	}
	return nil, startRunOutput{RunID: run.ID, Seq: run.Seq}, nil
}

func (s *Server) handleCancelRun(ctx context.Context, _ *sdkmcp.CallToolRequest, in runInput) (*sdkmcp.CallToolResult, okOutput, error) {
	run, err := s.st.GetRun(in.RunID)
	if err != nil {
		return nil, okOutput{}, err
	}
	if err := s.authorize(run.AssessmentID, in.UserID, permOperate); err != nil {
		return nil, okOutput{}, err
	}
	if err := s.coord.CancelRun(ctx, in.RunID); err != nil {
		return nil, okOutput{}, err
	}
	return nil, okOutput{OK: true}, nil
}

func (s *Server) handleRunStatus(ctx context.Context, _ *sdkmcp.CallToolRequest, in runInput) (*sdkmcp.CallToolResult, runStatusOutput, error) {
	run, err := s.st.GetRun(in.RunID)
	if err != nil {
		return nil, runStatusOutput{}, err
	}
	if err := s.authorize(run.AssessmentID, in.UserID, permView); err != nil {
		return nil, runStatusOutput{}, err
	}
	return nil, runStatusOutput{
		RunID:        run.ID,
		AssessmentID: run.AssessmentID,
		Seq:          run.Seq,
		Outcome:      run.Outcome,
		Stages:       run.Stages,
		FailedStage:  run.FailedStage,
		FailureCause: run.FailureCause,
		RetryCount:   run.RetryCount,
		StartedAt:    run.StartedAt,
		EndedAt:      run.EndedAt,
	}, nil
}

func (s *Server) handleRunResults(ctx context.Context, _ *sdkmcp.CallToolRequest, in runInput) (*sdkmcp.CallToolResult, runResultsOutput, error) {
	run, err := s.st.GetRun(in.RunID)
	if err != nil {
		return nil, runResultsOutput{}, err
	}
	if err := s.authorize(run.AssessmentID, in.UserID, permView); err != nil {
		return nil, runResultsOutput{}, err
	}

	js, err := s.st.ListJudgments(in.RunID)
	if err != nil {
		return nil, runResultsOutput{}, err
	}
	gs, err := s.st.ListGaps(in.RunID)
	if err != nil {
		return nil, runResultsOutput{}, err
	}

	out := runResultsOutput{}
	judgments := make([]assess.Judgment, 0, len(js))
	for _, j := range js {
		out.Judgments = append(out.Judgments, judgmentOut{
			ControlID: j.ControlID,
			Coverage:  j.Coverage,
			Tier:      j.Tier,
			Rationale: j.Rationale,
			Cited:     j.CitedItems,
		})
		judgments = append(judgments, assess.Judgment{
			ControlID: j.ControlID,
			Coverage:  assess.Coverage(j.Coverage),
			Tier:      assess.Tier(j.Tier),
		})
	}
	for _, g := range gs {
		out.Gaps = append(out.Gaps, gapOut{
			Rank:                g.Rank,
			ControlID:           g.ControlID,
			Coverage:            g.Coverage,
			Priority:            g.Priority,
			RecommendedEvidence: g.RecommendedEvidence,
		})
	}
	score := gap.Compliance(judgments)
	out.Compliance = score.Percentage
	out.Posture = score.Posture
	return nil, out, nil
}

func (s *Server) handleDiffRuns(ctx context.Context, _ *sdkmcp.CallToolRequest, in diffRunsInput) (*sdkmcp.CallToolResult, diffRunsOutput, error) {
	earlier, err := s.st.GetRun(in.EarlierRunID)
	if err != nil {
		return nil, diffRunsOutput{}, err
	}
	later, err := s.st.GetRun(in.LaterRunID)
	if err != nil {
		return nil, diffRunsOutput{}, err
	}
	if earlier.AssessmentID != later.AssessmentID {
		return nil, diffRunsOutput{}, faults.Newf(faults.Validation, "diff_runs",
			"runs %d and %d belong to different assessments", in.EarlierRunID, in.LaterRunID)
	}
	if err := s.authorize(earlier.AssessmentID, in.UserID, permView); err != nil {
		return nil, diffRunsOutput{}, err
	}

	ej, err := s.loadJudgments(in.EarlierRunID)
	if err != nil {
		return nil, diffRunsOutput{}, err
	}
	lj, err := s.loadJudgments(in.LaterRunID)
	if err != nil {
		return nil, diffRunsOutput{}, err
	}
	d := history.Diff(ej, lj)
	return nil, diffRunsOutput{Delta: d, Empty: d.Empty()}, nil
}

func (s *Server) handleGenerateReport(ctx context.Context, _ *sdkmcp.CallToolRequest, in generateReportInput) (*sdkmcp.CallToolResult, generateReportOutput, error) {
	run, err := s.st.GetRun(in.RunID)
	if err != nil {
		return nil, generateReportOutput{}, err
	}
	if err := s.authorize(run.AssessmentID, in.UserID, permView); err != nil {
		return nil, generateReportOutput{}, err
	}
	lang := in.Language
	if lang == "" {
		lang = report.LangEN
	}
	artifact, err := s.gen.Generate(ctx, in.RunID, in.Format, lang)
	if err != nil {
		return nil, generateReportOutput{}, err
	}
	return nil, generateReportOutput{
		Format:   artifact.Format,
		Language: artifact.Language,
		Content:  string(artifact.Content),
	}, nil
}

func (s *Server) handleShare(ctx context.Context, _ *sdkmcp.CallToolRequest, in shareInput) (*sdkmcp.CallToolResult, okOutput, error) {
	if err := s.authorize(in.AssessmentID, in.ActorID, permAdmin); err != nil {
		return nil, okOutput{}, err
	}
	if _, ok := rolePerm[in.Role]; !ok {
		return nil, okOutput{}, faults.Newf(faults.Validation, "share", "unknown role %q", in.Role)
	}
	if _, err := s.st.GetAssessment(in.AssessmentID); err != nil {
		return nil, okOutput{}, err
	}
	if err := s.st.UpsertShare(&store.Share{AssessmentID: in.AssessmentID, UserID: in.UserID, Role: in.Role}); err != nil {
		return nil, okOutput{}, err
	}
	return nil, okOutput{OK: true}, nil
}

func (s *Server) handleDelete(ctx context.Context, _ *sdkmcp.CallToolRequest, in lifecycleInput) (*sdkmcp.CallToolResult, okOutput, error) {
	if err := s.authorize(in.AssessmentID, in.UserID, permAdmin); err != nil {
		return nil, okOutput{}, err
	}
	if err := s.life.SoftDelete(ctx, in.AssessmentID); err != nil {
		return nil, okOutput{}, err
	}
	return nil, okOutput{OK: true}, nil
}

func (s *Server) handleRestore(ctx context.Context, _ *sdkmcp.CallToolRequest, in lifecycleInput) (*sdkmcp.CallToolResult, okOutput, error) {
	if err := s.authorize(in.AssessmentID, in.UserID, permAdmin); err != nil {
		return nil, okOutput{}, err
	}
	if err := s.life.Restore(ctx, in.AssessmentID); err != nil {
		return nil, okOutput{}, err
	}
	return nil, okOutput{OK: true}, nil
}

func (s *Server) handlePurge(ctx context.Context, _ *sdkmcp.CallToolRequest, in lifecycleInput) (*sdkmcp.CallToolResult, okOutput, error) {
	if err := s.authorize(in.AssessmentID, in.UserID, permAdmin); err != nil {
		return nil, okOutput{}, err
	}
	if err := s.life.Purge(ctx, in.AssessmentID); err != nil {
		return nil, okOutput{}, err
	}
	return nil, okOutput{OK: true}, nil
}

func (s *Server) handleSearchControls(ctx context.Context, _ *sdkmcp.CallToolRequest, in searchControlsInput) (*sdkmcp.CallToolResult, searchControlsOutput, error) {
	var cs []catalog.Control
	switch {
	case in.Query != "":
		limit := in.Limit
		if limit <= 0 {
			limit = 10
		}
		cs = s.cat.Search(in.Query, limit)
	case in.Family != "":
		cs = s.cat.ByFamily(in.Family)
	default:
		return nil, searchControlsOutput{}, faults.Newf(faults.Validation, "search_controls", "a query or a family is required")
	}

	out := searchControlsOutput{Controls: make([]controlOut, 0, len(cs))}
	for _, c := range cs {
		out.Controls = append(out.Controls, controlOut{
			ID:         c.ID,
			Name:       c.Name,
			Family:     c.Family,
			FamilyName: catalog.FamilyName(c.Family),
			Profile:    c.Profile,
			Evidence:   c.Evidence,
			Text:       c.Text,
		})
	}
	return nil, out, nil
}

func (s *Server) loadJudgments(runID int64) ([]assess.Judgment, error) {
	rows, err := s.st.ListJudgments(runID)
	if err != nil {
		return nil, err
	}
	out := make([]assess.Judgment, len(rows))
	for i, r := range rows {
		out[i] = assess.Judgment{
			ControlID: r.ControlID,
			Tier:      assess.Tier(r.Tier),
			Coverage:  assess.Coverage(r.Coverage),
			Rationale: r.Rationale,
		}
	}
	return out, nil
}
