// Package report renders run results into client-facing artifacts. Artifacts
// are cached in the store per run, format and language; a repeated request
// returns the cached copy.
package report

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"

	"aegis/internal/assess"
	"aegis/internal/catalog"
	"aegis/internal/faults"
	"aegis/internal/gap"
	"aegis/internal/history"
	"aegis/internal/store"
)

// Report formats.
const (
	FormatSummary         = "summary"
	FormatRemediation     = "remediation"
	FormatMatrix          = "matrix"
	FormatEvidenceRequest = "evidence_request"
)

// Formats lists the supported report formats.
func Formats() []string {
	return []string{FormatSummary, FormatRemediation, FormatMatrix, FormatEvidenceRequest}
}

// Languages lists the supported report languages.
func Languages() []string { return []string{LangEN, LangFR} }

// Generator renders and caches report artifacts.
type Generator struct {
	st  store.Store
	cat *catalog.Catalog
}

// NewGenerator builds a report generator.
func NewGenerator(st store.Store, cat *catalog.Catalog) *Generator {
	return &Generator{st: st, cat: cat}
}

// Generate returns the artifact for a run, format and language, rendering
// and caching it on first request. Judgments and gaps are immutable once a
// run ends, so the cache never goes stale.
func (g *Generator) Generate(ctx context.Context, runID int64, format, language string) (*store.ReportArtifact, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !contains(Formats(), format) {
		return nil, faults.Newf(faults.Validation, "generate_report", "unknown format %q", format)
	}
	if !contains(Languages(), language) {
		return nil, faults.Newf(faults.Validation, "generate_report", "unknown language %q", language)
	}

	cached, err := g.st.GetArtifact(runID, format, language)
	if err == nil {
		return cached, nil
	}
	if !faults.IsNotFound(err) {
		return nil, err
	}

	run, err := g.st.GetRun(runID)
	if err != nil {
		return nil, err
	}
	a, err := g.st.GetAssessmentAny(run.AssessmentID)
	if err != nil {
		return nil, err
	}
	rows, err := g.st.ListJudgments(runID)
	if err != nil {
		return nil, err
	}
	judgments := judgmentsFromRows(rows)
	gaps, err := g.st.ListGaps(runID)
	if err != nil {
		return nil, err
	}
	delta, prevSeq, err := g.progressSince(run, judgments)
	if err != nil {
		return nil, err
	}

	var content string
	switch format {
	case FormatSummary:
		content = g.renderSummary(language, a, run, judgments, gaps, delta, prevSeq)
	case FormatRemediation:
		content = g.renderRemediation(language, a, run, gaps, delta, prevSeq)
	case FormatMatrix:
		content = g.renderMatrix(language, a, run, judgments)
	case FormatEvidenceRequest:
		content = g.renderEvidenceRequest(language, a, run, gaps)
	}

	artifact := &store.ReportArtifact{
		RunID:    runID,
		Format:   format,
		Language: language,
		Content:  []byte(content),
	}
	if _, err := g.st.SaveArtifact(artifact); err != nil {
		return nil, err
	}
	return g.st.GetArtifact(runID, format, language)
}

func (g *Generator) header(lang, titleKey string, a *store.Assessment, run *store.Run) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", tr(lang, titleKey))
	fmt.Fprintf(&b, "%s: %s  \n", tr(lang, "field.project"), a.ProjectName)
	fmt.Fprintf(&b, "%s: %s  \n", tr(lang, "field.client"), a.ClientID)
	fmt.Fprintf(&b, "%s: %d  \n", tr(lang, "field.profile"), a.Profile)
	fmt.Fprintf(&b, "%s: #%d  \n", tr(lang, "field.run"), run.Seq)
	fmt.Fprintf(&b, "%s: %s\n\n", tr(lang, "field.generated"), time.Now().UTC().Format(time.RFC3339))
	return b.String()
}

// judgmentsFromRows converts stored judgment rows to the domain type.
func judgmentsFromRows(rows []*store.ControlJudgment) []assess.Judgment {
	out := make([]assess.Judgment, len(rows))
	for i, r := range rows {
		out[i] = assess.Judgment{
			ControlID:  r.ControlID,
			Tier:       assess.Tier(r.Tier),
			Coverage:   assess.Coverage(r.Coverage),
			Rationale:  r.Rationale,
			CitedItems: r.CitedItems,
		}
	}
	return out
}

// progressSince diffs the run's judgments against the latest earlier
// completed run of the same assessment. The first run has no baseline and
// returns a nil delta.
func (g *Generator) progressSince(run *store.Run, judgments []assess.Judgment) (*history.Delta, int, error) {
	runs, err := g.st.ListRuns(run.AssessmentID)
	if err != nil {
		return nil, 0, err
	}
	var prev *store.Run
	for _, r := range runs {
		if r.Seq < run.Seq && r.Outcome == store.OutcomeCompleted && (prev == nil || r.Seq > prev.Seq) {
			prev = r
		}
	}
	if prev == nil {
		return nil, 0, nil
	}
	rows, err := g.st.ListJudgments(prev.ID)
	if err != nil {
		return nil, 0, err
	}
	d := history.Diff(judgmentsFromRows(rows), judgments)
	return &d, prev.Seq, nil
}

// progressSection renders the run-over-run movement. Empty string when there
// is no earlier run to compare against.
func (g *Generator) progressSection(lang string, prevSeq int, d *history.Delta) string {
	if d == nil {
		return ""
	}
	var b strings.Builder
	fmt.Fprintf(&b, "## %s\n\n", tr(lang, "section.progress"))
	fmt.Fprintf(&b, "%s #%d.\n\n", tr(lang, "progress.baseline"), prevSeq)
	if d.Empty() {
		b.WriteString(tr(lang, "progress.none"))
		b.WriteString("\n\n")
		return b.String()
	}
	for _, ch := range d.Improved {
		fmt.Fprintf(&b, "- %s %s: %s -> %s\n", tr(lang, "progress.improved"), ch.ControlID,
			trCoverage(lang, string(ch.From)), trCoverage(lang, string(ch.To)))
	}
	for _, ch := range d.Regressed {
		fmt.Fprintf(&b, "- %s %s: %s -> %s\n", tr(lang, "progress.regressed"), ch.ControlID,
			trCoverage(lang, string(ch.From)), trCoverage(lang, string(ch.To)))
	}
	if len(d.ResolvedGaps) > 0 {
		fmt.Fprintf(&b, "- %s: %s\n", tr(lang, "progress.resolved"), strings.Join(d.ResolvedGaps, ", "))
	}
	if len(d.NewGaps) > 0 {
		fmt.Fprintf(&b, "- %s: %s\n", tr(lang, "progress.new"), strings.Join(d.NewGaps, ", "))
	}
	b.WriteString("\n")
	return b.String()
}

func (g *Generator) renderSummary(lang string, a *store.Assessment, run *store.Run, judgments []assess.Judgment, gaps []*store.GapRecord, delta *history.Delta, prevSeq int) string {
	var b strings.Builder
	b.WriteString(g.header(lang, "report.summary", a, run))

	score := gap.Compliance(judgments)
	fmt.Fprintf(&b, "%s: %.1f%%  \n", tr(lang, "field.compliance"), score.Percentage)
	fmt.Fprintf(&b, "%s: %s\n\n", tr(lang, "field.posture"), trPosture(lang, score.Posture))

	counts := table.NewWriter()
	counts.AppendRow(table.Row{tr(lang, "count.full"), score.Full})
	counts.AppendRow(table.Row{tr(lang, "count.partial"), score.Partial})
	counts.AppendRow(table.Row{tr(lang, "count.missing"), score.Missing})
	counts.AppendRow(table.Row{tr(lang, "count.na"), score.NotApplicable})
	b.WriteString(counts.RenderMarkdown())
	b.WriteString("\n\n")

	b.WriteString(g.progressSection(lang, prevSeq, delta))

	if len(gaps) > 0 {
		fmt.Fprintf(&b, "## %s\n\n", tr(lang, "section.top_gaps"))
		top := gaps
		if len(top) > 5 {
			top = top[:5]
		}
		b.WriteString(g.gapTable(lang, top))
		b.WriteString("\n")
	}
	return b.String()
}

func (g *Generator) renderRemediation(lang string, a *store.Assessment, run *store.Run, gaps []*store.GapRecord, delta *history.Delta, prevSeq int) string {
	var b strings.Builder
	b.WriteString(g.header(lang, "report.remediation", a, run))
	b.WriteString(g.progressSection(lang, prevSeq, delta))
	b.WriteString(g.gapTable(lang, gaps))
	b.WriteString("\n")
	return b.String()
}

func (g *Generator) gapTable(lang string, gaps []*store.GapRecord) string {
	t := table.NewWriter()
	t.AppendHeader(table.Row{
		"#", tr(lang, "col.control"), tr(lang, "col.name"), tr(lang, "col.family"),
		tr(lang, "col.coverage"), tr(lang, "col.priority"), tr(lang, "col.recommended"),
	})
	for _, gr := range gaps {
		t.AppendRow(table.Row{
			gr.Rank, gr.ControlID, g.controlName(gr.ControlID), g.familyOf(gr.ControlID),
			trCoverage(lang, gr.Coverage), fmt.Sprintf("%.1f", gr.Priority), gr.RecommendedEvidence,
		})
	}
	return t.RenderMarkdown()
}

func (g *Generator) renderMatrix(lang string, a *store.Assessment, run *store.Run, judgments []assess.Judgment) string {
	var b strings.Builder
	b.WriteString(g.header(lang, "report.matrix", a, run))

	t := table.NewWriter()
	t.AppendHeader(table.Row{
		tr(lang, "col.control"), tr(lang, "col.name"), tr(lang, "col.family"),
		tr(lang, "col.coverage"), tr(lang, "col.tier"), tr(lang, "col.rationale"),
	})
	for _, j := range judgments {
		tier := "-"
		if j.Tier != 0 {
			tier = fmt.Sprintf("%d", j.Tier)
		}
		t.AppendRow(table.Row{
			j.ControlID, g.controlName(j.ControlID), g.familyOf(j.ControlID),
			trCoverage(lang, string(j.Coverage)), tier, j.Rationale,
		})
	}
	b.WriteString(t.RenderMarkdown())
	b.WriteString("\n")
	return b.String()
}

func (g *Generator) renderEvidenceRequest(lang string, a *store.Assessment, run *store.Run, gaps []*store.GapRecord) string {
	var b strings.Builder
	b.WriteString(g.header(lang, "report.evidence_request", a, run))
	b.WriteString(tr(lang, "section.request_intro"))
	b.WriteString("\n\n")
	for _, gr := range gaps {
		fmt.Fprintf(&b, "- **%s** %s: %s\n", gr.ControlID, g.controlName(gr.ControlID), gr.RecommendedEvidence)
	}
	return b.String()
}

func (g *Generator) controlName(id string) string {
	if c, ok := g.cat.Get(id); ok {
		return c.Name
	}
	return ""
}

func (g *Generator) familyOf(id string) string {
	if c, ok := g.cat.Get(id); ok {
		return c.Family
	}
	return ""
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
