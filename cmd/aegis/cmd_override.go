package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"aegis/internal/faults"
)

var overrideCmd = &cobra.Command{
	Use:   "override",
	Short: "Manage not-applicable control overrides",
}

var overrideSetFlags struct {
	id      int64
	control string
	note    string
}

var overrideSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Mark a control not applicable for an assessment",
	RunE:  runOverrideSet,
}

var overrideClearFlags struct {
	id      int64
	control string
}

var overrideClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove a not-applicable override",
	RunE:  runOverrideClear,
}

func init() {
	f := overrideSetCmd.Flags()
	f.Int64Var(&overrideSetFlags.id, "id", 0, "Assessment id (required)")
	f.StringVar(&overrideSetFlags.control, "control", "", "Control id, e.g. PE-3 (required)")
	f.StringVar(&overrideSetFlags.note, "note", "", "Justification (required)")
	_ = overrideSetCmd.MarkFlagRequired("id")
	_ = overrideSetCmd.MarkFlagRequired("control")
	_ = overrideSetCmd.MarkFlagRequired("note")

	cf := overrideClearCmd.Flags()
	cf.Int64Var(&overrideClearFlags.id, "id", 0, "Assessment id (required)")
	cf.StringVar(&overrideClearFlags.control, "control", "", "Control id (required)")
	_ = overrideClearCmd.MarkFlagRequired("id")
	_ = overrideClearCmd.MarkFlagRequired("control")

	overrideCmd.AddCommand(overrideSetCmd)
	overrideCmd.AddCommand(overrideClearCmd)
}

func runOverrideSet(cmd *cobra.Command, _ []string) error {
	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	if _, ok := a.cat.Get(overrideSetFlags.control); !ok {
		return faults.Newf(faults.Validation, "override", "unknown control %q", overrideSetFlags.control)
	}
	if err := a.st.SetOverride(overrideSetFlags.id, overrideSetFlags.control, overrideSetFlags.note); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s marked not applicable for assessment #%d\n",
		overrideSetFlags.control, overrideSetFlags.id)
	return nil
}

func runOverrideClear(cmd *cobra.Command, _ []string) error {
	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.st.ClearOverride(overrideClearFlags.id, overrideClearFlags.control); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Override on %s cleared for assessment #%d\n",
		overrideClearFlags.control, overrideClearFlags.id)
	return nil
}
