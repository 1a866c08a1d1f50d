// Package coordinate drives the assessment pipeline: one run walks the
// mapping, assessing, analyzing and reporting stages in order, persisting
// each stage's output before advancing. The store's run-lock guarantees at
// most one active run per assessment.
package coordinate

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"aegis/internal/assess"
	"aegis/internal/catalog"
	"aegis/internal/faults"
	"aegis/internal/gap"
	"aegis/internal/judge"
	"aegis/internal/logging"
	"aegis/internal/store"
)

// Pipeline stage names, in execution order.
const (
	StageMapping   = "mapping"
	StageAssessing = "assessing"
	StageAnalyzing = "analyzing"
	StageReporting = "reporting"
)

// StageOrder lists the stages in the order a run executes them.
func StageOrder() []string {
	return []string{StageMapping, StageAssessing, StageAnalyzing, StageReporting}
}

// Reporter renders and caches the reporting stage's artifact.
type Reporter interface {
	Generate(ctx context.Context, runID int64, format, language string) (*store.ReportArtifact, error)
}

// Coordinator owns run execution. Runs execute on background goroutines;
// Wait blocks until a given run reaches a terminal outcome.
type Coordinator struct {
	st  store.Store
	cat *catalog.Catalog
	jd  judge.Judge
	rep Reporter
	cfg Config

	mu      sync.Mutex
	handles map[int64]*runHandle
}

type runHandle struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// New builds a coordinator.
func New(st store.Store, cat *catalog.Catalog, jd judge.Judge, rep Reporter, cfg Config) *Coordinator {
	cfg = cfg.withDefaults()
	return &Coordinator{
		st:      st,
		cat:     cat,
		jd:      jd,
		rep:     rep,
		cfg:     cfg,
		handles: make(map[int64]*runHandle),
	}
}

// StartRun validates the assessment, takes the run-lock, and launches the
// pipeline on a background goroutine. The returned run is already persisted;
// callers poll run status or Wait on the run id.
func (c *Coordinator) StartRun(ctx context.Context, assessmentID int64) (*store.Run, error) {
	a, err := c.st.GetAssessment(assessmentID)
	if err != nil {
		return nil, err
	}
	if a.Profile == 0 {
		return nil, faults.Newf(faults.Validation, "start_run",
			"assessment %d has no impact profile; classify it before running", assessmentID)
	}

	run, err := c.st.CreateRunIfIdle(assessmentID, "")
	if err != nil {
		return nil, err
	}
	if err := c.st.UpdateAssessmentStatus(assessmentID, store.StatusInProgress); err != nil {
		// A failed start must not leave the run-lock held.
		_ = c.st.FinishRun(run.ID, store.OutcomeFailed, "", "start aborted: "+err.Error(), 0, "")
		return nil, err
	}

	// The run outlives the caller's request context. Cancellation goes
	// through CancelRun, not through ctx.
	runCtx, cancel := context.WithCancel(context.Background())
	h := &runHandle{cancel: cancel, done: make(chan struct{})}
	c.mu.Lock()
	c.handles[run.ID] = h
	c.mu.Unlock()

	go func() {
		defer close(h.done)
		defer cancel()
		c.execute(runCtx, a, run)
		c.mu.Lock()
		delete(c.handles, run.ID)
		c.mu.Unlock()
	}()

	return run, nil
}

// Wait blocks until the run's pipeline goroutine finishes. Returns
// immediately for runs this coordinator is not executing.
func (c *Coordinator) Wait(runID int64) {
	c.mu.Lock()
	h := c.handles[runID]
	c.mu.Unlock()
	if h != nil {
		<-h.done
	}
}

// CancelRun requests cooperative cancellation of an active run. The pipeline
// observes the request at its next stage or worker boundary; completed stage
// outputs are kept. Cancelling a terminal run is a conflict.
func (c *Coordinator) CancelRun(ctx context.Context, runID int64) error {
	run, err := c.st.GetRun(runID)
	if err != nil {
		return err
	}
	if run.Terminal() {
		return faults.Newf(faults.Conflict, "cancel_run", "run %d already ended as %s", runID, run.Outcome)
	}

	c.mu.Lock()
	h := c.handles[runID]
	c.mu.Unlock()
	if h == nil {
		// Not executing here (e.g. orphaned by a crash); finish it directly.
		return c.st.FinishRun(runID, store.OutcomeCancelled, "", "cancelled by operator", 0, "")
	}
	h.cancel()
	return nil
}

// Close cancels all active runs and waits for their goroutines to exit.
func (c *Coordinator) Close() {
	c.mu.Lock()
	hs := make([]*runHandle, 0, len(c.handles))
	for _, h := range c.handles {
		h.cancel()
		hs = append(hs, h)
	}
	c.mu.Unlock()
	for _, h := range hs {
		<-h.done
	}
}

// pipeState carries intermediate results between stages of one run.
type pipeState struct {
	assessment *store.Assessment
	evidence   []judge.Evidence
	applicable []catalog.Control
	judgments  []assess.Judgment
}

// execute walks the stage sequence. Each stage persists its output and the
// updated stage vector before the next stage starts, so an interrupted run
// never leaves partial state ahead of its vector.
func (c *Coordinator) execute(ctx context.Context, a *store.Assessment, run *store.Run) {
	log := logging.New("coordinate").With("run_id", run.ID, "assessment_id", a.ID)
	log.Info("run started", "seq", run.Seq, "profile", a.Profile)

	stages := make(map[string]string, 4)
	for _, s := range StageOrder() {
		stages[s] = store.StagePending
	}

	ps := &pipeState{assessment: a}
	totalRetries := 0

	for _, stage := range StageOrder() {
		if ctx.Err() != nil {
			c.finish(run.ID, store.OutcomeCancelled, stage, "cancelled by operator", totalRetries, log)
			return
		}

		stages[stage] = store.StageRunning
		if err := c.st.UpdateRunStages(run.ID, stages); err != nil {
			log.Error("persist stage vector failed", "stage", stage, "error", err)
			c.finish(run.ID, store.OutcomeFailed, stage, err.Error(), totalRetries, log)
			return
		}

		attempts, err := withRetry(ctx, c.cfg.Retry, func(ctx context.Context) error {
			return c.runStage(ctx, stage, run, ps)
		})
		totalRetries += attempts - 1

		if err != nil {
			if ctx.Err() != nil {
				c.finish(run.ID, store.OutcomeCancelled, stage, "cancelled by operator", totalRetries, log)
				return
			}
			log.Error("stage failed", "stage", stage, "attempts", attempts, "error", err)
			stages[stage] = store.StageFailed
			_ = c.st.UpdateRunStages(run.ID, stages)
			c.finish(run.ID, store.OutcomeFailed, stage, err.Error(), totalRetries, log)
			return
		}

		stages[stage] = store.StageSucceeded
		if err := c.st.UpdateRunStages(run.ID, stages); err != nil {
			log.Error("persist stage vector failed", "stage", stage, "error", err)
			c.finish(run.ID, store.OutcomeFailed, stage, err.Error(), totalRetries, log)
			return
		}
		log.Info("stage succeeded", "stage", stage, "attempts", attempts)
	}

	if err := c.st.FinishRun(run.ID, store.OutcomeCompleted, "", "", totalRetries, ""); err != nil {
		log.Error("finish run failed", "error", err)
		return
	}
	_ = c.st.UpdateAssessmentStatus(a.ID, store.StatusCompleted)
	log.Info("run completed", "retries", totalRetries)
}

func (c *Coordinator) finish(runID int64, outcome, stage, cause string, retries int, log *slog.Logger) {
	if err := c.st.FinishRun(runID, outcome, stage, cause, retries, ""); err != nil {
		log.Warn("finish run failed", "outcome", outcome, "error", err)
	}
}

func (c *Coordinator) runStage(ctx context.Context, stage string, run *store.Run, ps *pipeState) error {
	switch stage {
	case StageMapping:
		return c.stageMapping(ctx, ps)
	case StageAssessing:
		return c.stageAssessing(ctx, run, ps)
	case StageAnalyzing:
		return c.stageAnalyzing(ctx, run, ps)
	case StageReporting:
		return c.stageReporting(ctx, run)
	}
	return fmt.Errorf("unknown stage %q", stage)
}

// stageMapping selects the applicable control set from the profile and loads
// the evidence snapshot the rest of the run works from.
func (c *Coordinator) stageMapping(_ context.Context, ps *pipeState) error {
	items, err := c.st.ListEvidence(ps.assessment.ID)
	if err != nil {
		return err
	}
	ps.evidence = make([]judge.Evidence, 0, len(items))
	for _, it := range items {
		ps.evidence = append(ps.evidence, judge.Evidence{
			ID:   it.ID,
			Name: it.Name,
			Type: it.Type,
			Note: it.Note,
		})
	}
	ps.applicable = c.cat.ForProfile(ps.assessment.Profile)
	if len(ps.applicable) == 0 {
		return fmt.Errorf("no controls applicable at profile %d", ps.assessment.Profile)
	}
	return nil
}

// stageAssessing judges every applicable control against the evidence set,
// fanning out across a bounded worker pool. Results are collected by index
// and persisted in control-id order, so the stored set is deterministic
// regardless of worker scheduling.
func (c *Coordinator) stageAssessing(ctx context.Context, run *store.Run, ps *pipeState) error {
	judgments := make([]assess.Judgment, len(ps.applicable))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.cfg.Workers)
	for i, ctl := range ps.applicable {
		i, ctl := i, ctl
		g.Go(func() error {
			if note, ok := ps.assessment.Overrides[ctl.ID]; ok {
				judgments[i] = assess.NotApplicable(ctl.ID, note)
				return nil
			}
			cctx, cancel := context.WithTimeout(gctx, c.cfg.CallTimeout)
			j, err := c.jd.Judge(cctx, judge.Request{Control: ctl, Evidence: ps.evidence})
			cancel()
			if err != nil {
				if cctx.Err() == context.DeadlineExceeded && gctx.Err() == nil {
					return faults.Newf(faults.Transient, "assessing",
						"judging %s timed out after %s", ctl.ID, c.cfg.CallTimeout)
				}
				return fmt.Errorf("judge %s: %w", ctl.ID, err)
			}
			judgments[i] = j
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	sort.Slice(judgments, func(i, k int) bool { return judgments[i].ControlID < judgments[k].ControlID })
	ps.judgments = judgments

	rows := make([]*store.ControlJudgment, len(judgments))
	for i, j := range judgments {
		rows[i] = &store.ControlJudgment{
			ControlID:  j.ControlID,
			Tier:       int(j.Tier),
			Coverage:   string(j.Coverage),
			Rationale:  j.Rationale,
			CitedItems: j.CitedItems,
		}
	}
	return c.st.SaveJudgments(run.ID, rows)
}

// stageAnalyzing derives the prioritized gap list from the run's judgments.
func (c *Coordinator) stageAnalyzing(_ context.Context, run *store.Run, ps *pipeState) error {
	records := gap.Analyze(c.cat, ps.applicable, ps.judgments, ps.assessment.Profile)
	rows := make([]*store.GapRecord, len(records))
	for i, r := range records {
		rows[i] = &store.GapRecord{
			Rank:                i + 1,
			ControlID:           r.ControlID,
			Coverage:            string(r.Coverage),
			Priority:            r.Priority,
			RecommendedEvidence: r.RecommendedEvidence,
		}
	}
	return c.st.SaveGaps(run.ID, rows)
}

// stageReporting renders the default summary artifact. Other formats and
// languages are generated on demand and cached against the same run.
func (c *Coordinator) stageReporting(ctx context.Context, run *store.Run) error {
	cctx, cancel := context.WithTimeout(ctx, c.cfg.CallTimeout)
	defer cancel()
	_, err := c.rep.Generate(cctx, run.ID, "summary", "en")
	if err != nil && cctx.Err() == context.DeadlineExceeded && ctx.Err() == nil {
		return faults.Newf(faults.Transient, "reporting",
			"report generation timed out after %s", c.cfg.CallTimeout)
	}
	return err
}
