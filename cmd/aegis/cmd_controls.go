package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"aegis/internal/catalog"
	"aegis/internal/display"
	"aegis/internal/faults"
)

var controlsFlags struct {
	family  string
	search  string
	profile int
	limit   int
}

var controlsCmd = &cobra.Command{
	Use:   "controls",
	Short: "Browse the control catalog",
	Long: "Lists catalog controls, optionally filtered by family, impact profile,\n" +
		"or a keyword search over control names and requirement text.",
	RunE: runControls,
}

func init() {
	f := controlsCmd.Flags()
	f.StringVar(&controlsFlags.family, "family", "", "Filter by family code, e.g. AC")
	f.StringVar(&controlsFlags.search, "search", "", "Keyword search over names and requirement text")
	f.IntVar(&controlsFlags.profile, "profile", 0, "Only controls applicable at this impact profile (1-3)")
	f.IntVar(&controlsFlags.limit, "limit", 10, "Maximum search results")
}

func runControls(cmd *cobra.Command, _ []string) error {
	cat, err := catalog.Load()
	if err != nil {
		return err
	}

	var cs []catalog.Control
	switch {
	case controlsFlags.search != "":
		cs = cat.Search(controlsFlags.search, controlsFlags.limit)
	case controlsFlags.family != "":
		cs = cat.ByFamily(controlsFlags.family)
	case controlsFlags.profile != 0:
		if controlsFlags.profile < 1 || controlsFlags.profile > 3 {
			return faults.Newf(faults.Validation, "controls", "profile %d out of range 1-3", controlsFlags.profile)
		}
		cs = cat.ForProfile(controlsFlags.profile)
	default:
		cs = cat.All()
	}

	out := cmd.OutOrStdout()
	if len(cs) == 0 {
		fmt.Fprintln(out, "No matching controls.")
		return nil
	}
	if controlsFlags.family != "" && controlsFlags.search == "" {
		fmt.Fprintf(out, "%s (%d controls)\n", catalog.FamilyName(controlsFlags.family), len(cs))
	}
	fmt.Fprintln(out, display.ControlsTable(cs))
	return nil
}
