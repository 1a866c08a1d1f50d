package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"aegis/internal/display"
	"aegis/internal/store"
)

var runFlags struct {
	id     int64
	detach bool
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start an assessment pipeline run",
	Long: "Run executes the four-stage pipeline (mapping, assessing, analyzing,\n" +
		"reporting) for an assessment. Only one run per assessment may be active.",
	RunE: runRun,
}

func init() {
	f := runCmd.Flags()
	f.Int64Var(&runFlags.id, "id", 0, "Assessment id (required)")
	f.BoolVar(&runFlags.detach, "detach", false, "Return immediately instead of waiting for the outcome")
	_ = runCmd.MarkFlagRequired("id")
}

func runRun(cmd *cobra.Command, _ []string) error {
	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	run, err := a.coord.StartRun(cmd.Context(), runFlags.id)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Run #%d (seq %d) started for assessment #%d\n", run.ID, run.Seq, runFlags.id)
	if runFlags.detach {
		return nil
	}

	a.coord.Wait(run.ID)
	done, err := a.st.GetRun(run.ID)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Outcome: %s  [%s]\n", display.Outcome(done.Outcome), display.StageVector(done.Stages))
	if done.Outcome == store.OutcomeFailed {
		return fmt.Errorf("run #%d failed at %s: %s", done.ID, display.Stage(done.FailedStage), done.FailureCause)
	}
	return nil
}
