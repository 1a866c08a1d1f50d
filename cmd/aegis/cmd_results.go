package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"aegis/internal/assess"
	"aegis/internal/display"
	"aegis/internal/gap"
)

var resultsFlags struct {
	run int64
}

var resultsCmd = &cobra.Command{
	Use:   "results",
	Short: "Show a run's per-control judgments and prioritized gaps",
	RunE:  runResults,
}

func init() {
	resultsCmd.Flags().Int64Var(&resultsFlags.run, "run", 0, "Run id (required)")
	_ = resultsCmd.MarkFlagRequired("run")
}

func runResults(cmd *cobra.Command, _ []string) error {
	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	if _, err := a.st.GetRun(resultsFlags.run); err != nil {
		return err
	}
	js, err := a.st.ListJudgments(resultsFlags.run)
	if err != nil {
		return err
	}
	gs, err := a.st.ListGaps(resultsFlags.run)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(js) == 0 {
		fmt.Fprintln(out, "No judgments recorded for this run.")
		return nil
	}
	fmt.Fprintln(out, display.JudgmentsTable(js))

	flat := make([]assess.Judgment, len(js))
	for i, j := range js {
		flat[i] = assess.Judgment{ControlID: j.ControlID, Coverage: assess.Coverage(j.Coverage), Tier: assess.Tier(j.Tier)}
	}
	score := gap.Compliance(flat)
	fmt.Fprintf(out, "\nCompliance: %.1f%% (%s)  full %d / partial %d / missing %d / n.a. %d\n",
		score.Percentage, score.Posture, score.Full, score.Partial, score.Missing, score.NotApplicable)

	if len(gs) > 0 {
		fmt.Fprintln(out)
		fmt.Fprintln(out, display.GapsTable(gs))
	}
	return nil
}
