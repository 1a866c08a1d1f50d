package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"aegis/internal/faults"
)

var classifyFlags struct {
	id              int64
	confidentiality int
	integrity       int
	availability    int
	note            string
}

var classifyCmd = &cobra.Command{
	Use:   "classify",
	Short: "Set an assessment's impact profile from C/I/A levels",
	Long: "Classify sets the impact levels for confidentiality, integrity and\n" +
		"availability (1 = low, 2 = moderate, 3 = high). The assessment profile is\n" +
		"the highest of the three and selects which controls apply.",
	RunE: runClassify,
}

func init() {
	f := classifyCmd.Flags()
	f.Int64Var(&classifyFlags.id, "id", 0, "Assessment id (required)")
	f.IntVarP(&classifyFlags.confidentiality, "confidentiality", "c", 0, "Confidentiality impact 1-3 (required)")
	f.IntVarP(&classifyFlags.integrity, "integrity", "i", 0, "Integrity impact 1-3 (required)")
	f.IntVarP(&classifyFlags.availability, "availability", "a", 0, "Availability impact 1-3 (required)")
	f.StringVar(&classifyFlags.note, "note", "", "Classification rationale")

	_ = classifyCmd.MarkFlagRequired("id")
	_ = classifyCmd.MarkFlagRequired("confidentiality")
	_ = classifyCmd.MarkFlagRequired("integrity")
	_ = classifyCmd.MarkFlagRequired("availability")
}

func runClassify(cmd *cobra.Command, _ []string) error {
	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	profile := 0
	for _, lvl := range []int{classifyFlags.confidentiality, classifyFlags.integrity, classifyFlags.availability} {
		if lvl < 1 || lvl > 3 {
			return faults.Newf(faults.Validation, "classify", "impact levels must be 1-3, got %d", lvl)
		}
		if lvl > profile {
			profile = lvl
		}
	}
	if _, err := a.st.GetAssessment(classifyFlags.id); err != nil {
		return err
	}
	if err := a.st.SetClassification(classifyFlags.id, profile, classifyFlags.note); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Assessment #%d classified at profile %d (%d applicable controls)\n",
		classifyFlags.id, profile, len(a.cat.ForProfile(profile)))
	return nil
}
