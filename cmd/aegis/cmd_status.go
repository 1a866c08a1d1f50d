package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"aegis/internal/coordinate"
	"aegis/internal/display"
	"aegis/internal/faults"
)

var statusFlags struct {
	id  int64
	run int64
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show run history for an assessment, or stage detail for one run",
	RunE:  runStatus,
}

func init() {
	f := statusCmd.Flags()
	f.Int64Var(&statusFlags.id, "id", 0, "Assessment id")
	f.Int64Var(&statusFlags.run, "run", 0, "Run id for per-stage detail")
}

func runStatus(cmd *cobra.Command, _ []string) error {
	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	out := cmd.OutOrStdout()
	switch {
	case statusFlags.run != 0:
		run, err := a.st.GetRun(statusFlags.run)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Run #%d (assessment #%d, seq %d): %s\n", run.ID, run.AssessmentID, run.Seq, display.Outcome(run.Outcome))
		for _, stage := range coordinate.StageOrder() {
			fmt.Fprintf(out, "  %-10s %s\n", display.Stage(stage), display.Status(run.Stages[stage]))
		}
		if run.FailedStage != "" {
			fmt.Fprintf(out, "Failed at %s: %s\n", display.Stage(run.FailedStage), run.FailureCause)
		}
		if run.RetryCount > 0 {
			fmt.Fprintf(out, "Retries: %d\n", run.RetryCount)
		}
		return nil
	case statusFlags.id != 0:
		if _, err := a.st.GetAssessment(statusFlags.id); err != nil {
			return err
		}
		rs, err := a.st.ListRuns(statusFlags.id)
		if err != nil {
			return err
		}
		if len(rs) == 0 {
			fmt.Fprintln(out, "No runs yet.")
			return nil
		}
		fmt.Fprintln(out, display.RunsTable(rs))
		return nil
	default:
		return faults.Newf(faults.Validation, "status", "pass --id or --run")
	}
}
