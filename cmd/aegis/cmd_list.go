package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"aegis/internal/display"
)

var listFlags struct {
	deleted bool
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List assessments",
	RunE:  runList,
}

func init() {
	listCmd.Flags().BoolVar(&listFlags.deleted, "deleted", false, "Show soft-deleted assessments instead")
}

func runList(cmd *cobra.Command, _ []string) error {
	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	list := a.st.ListAssessments
	if listFlags.deleted {
		list = a.st.ListDeletedAssessments
	}
	as, err := list()
	if err != nil {
		return err
	}
	if len(as) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No assessments.")
		return nil
	}
	fmt.Fprintln(cmd.OutOrStdout(), display.AssessmentsTable(as))
	return nil
}
