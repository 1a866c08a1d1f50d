package display

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"aegis/internal/catalog"
	"aegis/internal/store"
)

func newTable() table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	return t
}

// AssessmentsTable renders assessments for `aegis list`.
func AssessmentsTable(as []*store.Assessment) string {
	t := newTable()
	t.AppendHeader(table.Row{"ID", "Client", "Project", "Profile", "Status", "Updated"})
	for _, a := range as {
		profile := "-"
		if a.Profile != 0 {
			profile = fmt.Sprintf("%d", a.Profile)
		}
		t.AppendRow(table.Row{a.ID, a.ClientID, a.ProjectName, profile, Status(a.Status), a.UpdatedAt})
	}
	return t.Render()
}

// RunsTable renders a run history for `aegis status`.
func RunsTable(rs []*store.Run) string {
	t := newTable()
	t.AppendHeader(table.Row{"Run", "Seq", "Outcome", "Stages", "Retries", "Started"})
	for _, r := range rs {
		t.AppendRow(table.Row{r.ID, r.Seq, Outcome(r.Outcome), StageVector(r.Stages), r.RetryCount, r.StartedAt})
	}
	return t.Render()
}

// JudgmentsTable renders the per-control results for `aegis results`.
func JudgmentsTable(js []*store.ControlJudgment) string {
	t := newTable()
	t.AppendHeader(table.Row{"Control", "Coverage", "Evidence Tier", "Rationale"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 4, WidthMax: 60, Align: text.AlignLeft},
	})
	for _, j := range js {
		t.AppendRow(table.Row{j.ControlID, Coverage(j.Coverage), TierWithRank(j.Tier), j.Rationale})
	}
	return t.Render()
}

// GapsTable renders the prioritized gap list.
func GapsTable(gs []*store.GapRecord) string {
	t := newTable()
	t.AppendHeader(table.Row{"#", "Control", "Coverage", "Priority", "Recommended Evidence"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 4, Align: text.AlignRight},
	})
	for _, g := range gs {
		t.AppendRow(table.Row{g.Rank, g.ControlID, Coverage(g.Coverage), fmt.Sprintf("%.1f", g.Priority), g.RecommendedEvidence})
	}
	return t.Render()
}

// EvidenceTable renders submitted evidence for `aegis evidence list`.
func EvidenceTable(es []*store.EvidenceItem) string {
	t := newTable()
	t.AppendHeader(table.Row{"ID", "Name", "Type", "Size", "Note", "Uploaded"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 5, WidthMax: 40},
	})
	for _, e := range es {
		t.AppendRow(table.Row{e.ID, e.Name, e.Type, e.Size, e.Note, e.UploadedAt})
	}
	return t.Render()
}

// ControlsTable renders catalog entries for `aegis controls`.
func ControlsTable(cs []catalog.Control) string {
	t := newTable()
	t.AppendHeader(table.Row{"Control", "Name", "Family", "Profile", "Preferred Evidence"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, WidthMax: 50, Align: text.AlignLeft},
	})
	for _, c := range cs {
		t.AppendRow(table.Row{c.ID, c.Name, c.Family, c.Profile, strings.Join(c.Evidence, ", ")})
	}
	return t.Render()
}

// SharesTable renders access grants.
func SharesTable(ss []*store.Share) string {
	t := newTable()
	t.AppendHeader(table.Row{"User", "Role"})
	for _, s := range ss {
		t.AppendRow(table.Row{s.UserID, Role(s.Role)})
	}
	return t.Render()
}
