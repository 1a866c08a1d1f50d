package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"aegis/internal/assess"
	"aegis/internal/display"
	"aegis/internal/store"
)

var evidenceCmd = &cobra.Command{
	Use:   "evidence",
	Short: "Manage submitted evidence",
}

var evidenceAddFlags struct {
	id     int64
	name   string
	note   string
	evType string
	ref    string
	size   int64
}

var evidenceAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Record an evidence item for an assessment",
	RunE:  runEvidenceAdd,
}

var evidenceListFlags struct {
	id int64
}

var evidenceListCmd = &cobra.Command{
	Use:   "list",
	Short: "List an assessment's evidence",
	RunE:  runEvidenceList,
}

var evidenceNoteFlags struct {
	item int64
	note string
}

var evidenceNoteCmd = &cobra.Command{
	Use:   "note",
	Short: "Update an evidence item's significance note",
	RunE:  runEvidenceNote,
}

func init() {
	f := evidenceAddCmd.Flags()
	f.Int64Var(&evidenceAddFlags.id, "id", 0, "Assessment id (required)")
	f.StringVar(&evidenceAddFlags.name, "name", "", "File name, e.g. storage.tf (required)")
	f.StringVar(&evidenceAddFlags.note, "note", "", "What this evidence demonstrates")
	f.StringVar(&evidenceAddFlags.evType, "type", "", "Ingestion type (derived from name and note when omitted)")
	f.StringVar(&evidenceAddFlags.ref, "ref", "", "Content location reference")
	f.Int64Var(&evidenceAddFlags.size, "size", 0, "Content size in bytes")
	_ = evidenceAddCmd.MarkFlagRequired("id")
	_ = evidenceAddCmd.MarkFlagRequired("name")

	evidenceListCmd.Flags().Int64Var(&evidenceListFlags.id, "id", 0, "Assessment id (required)")
	_ = evidenceListCmd.MarkFlagRequired("id")

	nf := evidenceNoteCmd.Flags()
	nf.Int64Var(&evidenceNoteFlags.item, "item", 0, "Evidence item id (required)")
	nf.StringVar(&evidenceNoteFlags.note, "note", "", "New significance note (required)")
	_ = evidenceNoteCmd.MarkFlagRequired("item")
	_ = evidenceNoteCmd.MarkFlagRequired("note")

	evidenceCmd.AddCommand(evidenceAddCmd)
	evidenceCmd.AddCommand(evidenceListCmd)
	evidenceCmd.AddCommand(evidenceNoteCmd)
}

func runEvidenceAdd(cmd *cobra.Command, _ []string) error {
	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	if _, err := a.st.GetAssessment(evidenceAddFlags.id); err != nil {
		return err
	}
	evType := evidenceAddFlags.evType
	if evType == "" {
		evType = assess.ClassifyType(evidenceAddFlags.name, evidenceAddFlags.note)
	}
	id, err := a.st.AddEvidence(&store.EvidenceItem{
		AssessmentID: evidenceAddFlags.id,
		Name:         evidenceAddFlags.name,
		ContentRef:   evidenceAddFlags.ref,
		Note:         evidenceAddFlags.note,
		Type:         evType,
		Size:         evidenceAddFlags.size,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Added evidence #%d (%s, %s)\n",
		id, evType, display.TierWithRank(int(assess.TierForType(evType))))
	return nil
}

func runEvidenceList(cmd *cobra.Command, _ []string) error {
	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	if _, err := a.st.GetAssessment(evidenceListFlags.id); err != nil {
		return err
	}
	es, err := a.st.ListEvidence(evidenceListFlags.id)
	if err != nil {
		return err
	}
	if len(es) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No evidence submitted.")
		return nil
	}
	fmt.Fprintln(cmd.OutOrStdout(), display.EvidenceTable(es))
	return nil
}

func runEvidenceNote(cmd *cobra.Command, _ []string) error {
	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.st.UpdateEvidenceNote(evidenceNoteFlags.item, evidenceNoteFlags.note); err != nil {
		return err
	}
	item, err := a.st.GetEvidence(evidenceNoteFlags.item)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Updated note on evidence #%d (%s): %s\n", item.ID, item.Name, item.Note)
	return nil
}
