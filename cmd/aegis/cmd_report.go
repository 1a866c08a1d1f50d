package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"aegis/internal/report"
)

var reportFlags struct {
	run    int64
	format string
	lang   string
	out    string
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Render a report for a completed run",
	Long: "Report renders one of the run's report formats (" + strings.Join(report.Formats(), ", ") + ")\n" +
		"in English or French. Rendered reports are cached per run, format and language.",
	RunE: runReport,
}

func init() {
	f := reportCmd.Flags()
	f.Int64Var(&reportFlags.run, "run", 0, "Run id (required)")
	f.StringVar(&reportFlags.format, "format", report.FormatSummary, "Report format: "+strings.Join(report.Formats(), "|"))
	f.StringVar(&reportFlags.lang, "lang", report.LangEN, "Report language: "+strings.Join(report.Languages(), "|"))
	f.StringVarP(&reportFlags.out, "out", "o", "", "Write to file instead of stdout")
	_ = reportCmd.MarkFlagRequired("run")
}

func runReport(cmd *cobra.Command, _ []string) error {
	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	art, err := a.gen.Generate(cmd.Context(), reportFlags.run, reportFlags.format, reportFlags.lang)
	if err != nil {
		return err
	}
	if reportFlags.out != "" {
		if err := os.WriteFile(reportFlags.out, art.Content, 0o644); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s report (%s) to %s\n", art.Format, art.Language, reportFlags.out)
		return nil
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(art.Content))
	return nil
}
