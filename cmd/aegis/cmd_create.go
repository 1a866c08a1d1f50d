package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"aegis/internal/store"
)

var createFlags struct {
	client  string
	project string
	conops  string
}

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a new assessment",
	RunE:  runCreate,
}

func init() {
	f := createCmd.Flags()
	f.StringVar(&createFlags.client, "client", "", "Client identifier (required)")
	f.StringVar(&createFlags.project, "project", "", "Project name (required)")
	f.StringVar(&createFlags.conops, "conops", "", "Concept of operations text")

	_ = createCmd.MarkFlagRequired("client")
	_ = createCmd.MarkFlagRequired("project")
}

func runCreate(cmd *cobra.Command, _ []string) error {
	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	id, err := a.st.CreateAssessment(&store.Assessment{
		ClientID:    createFlags.client,
		ProjectName: createFlags.project,
		CONOPS:      createFlags.conops,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created assessment #%d for %s/%s\n", id, createFlags.client, createFlags.project)
	fmt.Fprintf(cmd.OutOrStdout(), "Next: 'aegis classify --id %d' to set the impact profile.\n", id)
	return nil
}
