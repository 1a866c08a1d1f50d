package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var deleteFlags struct {
	id int64
}

var deleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Soft-delete an assessment",
	Long: "Delete hides an assessment from listings and blocks new runs. It can be\n" +
		"restored with 'aegis restore' within the restore window.",
	RunE: runDelete,
}

var restoreFlags struct {
	id int64
}

var restoreCmd = &cobra.Command{
	Use:   "restore",
	Short: "Restore a soft-deleted assessment",
	RunE:  runRestore,
}

var purgeFlags struct {
	id  int64
	yes bool
}

var purgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Permanently remove an assessment and all its data",
	RunE:  runPurge,
}

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Purge soft-deleted assessments past the restore window",
	RunE:  runSweep,
}

func init() {
	deleteCmd.Flags().Int64Var(&deleteFlags.id, "id", 0, "Assessment id (required)")
	_ = deleteCmd.MarkFlagRequired("id")

	restoreCmd.Flags().Int64Var(&restoreFlags.id, "id", 0, "Assessment id (required)")
	_ = restoreCmd.MarkFlagRequired("id")

	pf := purgeCmd.Flags()
	pf.Int64Var(&purgeFlags.id, "id", 0, "Assessment id (required)")
	pf.BoolVar(&purgeFlags.yes, "yes", false, "Skip the confirmation prompt")
	_ = purgeCmd.MarkFlagRequired("id")
}

func runDelete(cmd *cobra.Command, _ []string) error {
	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.life.SoftDelete(cmd.Context(), deleteFlags.id); err != nil {
		return err
	}
	days := int(a.cfg.Lifecycle.RestoreWindow().Hours() / 24)
	fmt.Fprintf(cmd.OutOrStdout(), "Assessment #%d deleted. Restorable for %d days with 'aegis restore --id %d'.\n",
		deleteFlags.id, days, deleteFlags.id)
	return nil
}

func runRestore(cmd *cobra.Command, _ []string) error {
	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.life.Restore(cmd.Context(), restoreFlags.id); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Assessment #%d restored.\n", restoreFlags.id)
	return nil
}

func runPurge(cmd *cobra.Command, _ []string) error {
	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	if !purgeFlags.yes {
		fmt.Fprintf(cmd.OutOrStdout(), "Purge permanently removes assessment #%d and all evidence, runs and reports.\nType the assessment id to confirm: ", purgeFlags.id)
		var confirm int64
		if _, err := fmt.Fscan(cmd.InOrStdin(), &confirm); err != nil || confirm != purgeFlags.id {
			fmt.Fprintln(cmd.OutOrStdout(), "Aborted.")
			return nil
		}
	}
	if err := a.life.Purge(cmd.Context(), purgeFlags.id); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Assessment #%d purged.\n", purgeFlags.id)
	return nil
}

func runSweep(cmd *cobra.Command, _ []string) error {
	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	n, err := a.life.Sweep(cmd.Context())
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Purged %d expired assessment(s).\n", n)
	return nil
}
