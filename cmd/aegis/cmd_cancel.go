package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var cancelFlags struct {
	run int64
}

var cancelCmd = &cobra.Command{
	Use:   "cancel",
	Short: "Cancel an active run",
	RunE:  runCancel,
}

func init() {
	cancelCmd.Flags().Int64Var(&cancelFlags.run, "run", 0, "Run id (required)")
	_ = cancelCmd.MarkFlagRequired("run")
}

func runCancel(cmd *cobra.Command, _ []string) error {
	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.coord.CancelRun(cmd.Context(), cancelFlags.run); err != nil {
		return err
	}
	a.coord.Wait(cancelFlags.run)
	fmt.Fprintf(cmd.OutOrStdout(), "Run #%d cancelled. Completed stages are retained.\n", cancelFlags.run)
	return nil
}
