package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"aegis/internal/assess"
	"aegis/internal/display"
	"aegis/internal/faults"
	"aegis/internal/history"
	"aegis/internal/store"
)

var diffFlags struct {
	earlier int64
	later   int64
}

var diffCmd = &cobra.Command{
	Use:   "diff",
	Short: "Compare two runs of the same assessment",
	RunE:  runDiff,
}

func init() {
	f := diffCmd.Flags()
	f.Int64Var(&diffFlags.earlier, "earlier", 0, "Earlier run id (required)")
	f.Int64Var(&diffFlags.later, "later", 0, "Later run id (required)")
	_ = diffCmd.MarkFlagRequired("earlier")
	_ = diffCmd.MarkFlagRequired("later")
}

func runDiff(cmd *cobra.Command, _ []string) error {
	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	e, err := a.st.GetRun(diffFlags.earlier)
	if err != nil {
		return err
	}
	l, err := a.st.GetRun(diffFlags.later)
	if err != nil {
		return err
	}
	if e.AssessmentID != l.AssessmentID {
		return faults.Newf(faults.Validation, "diff", "runs belong to different assessments")
	}

	prev, err := judgmentsOf(a.st, e.ID)
	if err != nil {
		return err
	}
	curr, err := judgmentsOf(a.st, l.ID)
	if err != nil {
		return err
	}

	d := history.Diff(prev, curr)
	out := cmd.OutOrStdout()
	if d.Empty() {
		fmt.Fprintln(out, "No movement between the two runs.")
		return nil
	}
	for _, c := range d.Improved {
		fmt.Fprintf(out, "improved   %-8s %s -> %s\n", c.ControlID, display.Coverage(string(c.From)), display.Coverage(string(c.To)))
	}
	for _, c := range d.Regressed {
		fmt.Fprintf(out, "regressed  %-8s %s -> %s\n", c.ControlID, display.Coverage(string(c.From)), display.Coverage(string(c.To)))
	}
	for _, id := range d.NewGaps {
		fmt.Fprintf(out, "new gap    %s\n", id)
	}
	for _, id := range d.ResolvedGaps {
		fmt.Fprintf(out, "resolved   %s\n", id)
	}
	fmt.Fprintf(out, "unchanged: %d controls\n", len(d.Unchanged))
	return nil
}

func judgmentsOf(st store.Store, runID int64) ([]assess.Judgment, error) {
	rows, err := st.ListJudgments(runID)
	if err != nil {
		return nil, err
	}
	js := make([]assess.Judgment, len(rows))
	for i, r := range rows {
		js[i] = assess.Judgment{
			ControlID: r.ControlID,
			Tier:      assess.Tier(r.Tier),
			Coverage:  assess.Coverage(r.Coverage),
			Rationale: r.Rationale,
		}
	}
	return js, nil
}
