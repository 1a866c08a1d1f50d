// Package display provides human-readable names for machine codes and the
// terminal tables the CLI prints.
//
// Rule: code is for machines, words are for humans. Keep raw codes for JSON
// fields, map keys, and equality comparisons.
package display

import (
	"strconv"
	"strings"
)

// --- Pipeline stages ---

var stages = map[string]string{
	"mapping":   "Mapping",
	"assessing": "Assessing",
	"analyzing": "Analyzing",
	"reporting": "Reporting",
}

// Stage returns the human-readable name for a pipeline stage code.
// Unknown codes are returned as-is.
func Stage(code string) string {
	if name, ok := stages[code]; ok {
		return name
	}
	return code
}

// --- Stage and run statuses ---

var statuses = map[string]string{
	"pending":     "Pending",
	"running":     "Running",
	"succeeded":   "Succeeded",
	"failed":      "Failed",
	"skipped":     "Skipped",
	"created":     "Created",
	"in_progress": "In Progress",
	"completed":   "Completed",
	"cancelled":   "Cancelled",
}

// Status returns the human-readable name for a run, stage or assessment
// status code.
func Status(code string) string {
	if name, ok := statuses[code]; ok {
		return name
	}
	return code
}

// Outcome names a run outcome; an empty outcome means the run is active.
func Outcome(code string) string {
	if code == "" {
		return "Active"
	}
	return Status(code)
}

// --- Coverage classes ---

var coverages = map[string]string{
	"full":           "Full",
	"partial":        "Partial",
	"missing":        "Missing",
	"not_applicable": "Not Applicable",
}

// Coverage returns the human-readable name for a coverage class code.
func Coverage(code string) string {
	if name, ok := coverages[code]; ok {
		return name
	}
	return code
}

// --- Evidence tiers ---

var tiers = map[int]string{
	1: "Log/Config Export",
	2: "Infrastructure as Code",
	3: "Scan Result",
	4: "Code",
	5: "Screenshot",
	6: "Video",
	7: "Narrative",
}

// Tier returns the human-readable name for an evidence tier. Tier 0 (no
// evidence) renders as a dash.
func Tier(t int) string {
	if t == 0 {
		return "-"
	}
	if name, ok := tiers[t]; ok {
		return name
	}
	return strconv.Itoa(t)
}

// TierWithRank returns "Infrastructure as Code (T2)" format.
func TierWithRank(t int) string {
	if t == 0 {
		return "-"
	}
	return Tier(t) + " (T" + strconv.Itoa(t) + ")"
}

// --- Share roles ---

var roles = map[string]string{
	"admin":    "Admin",
	"assessor": "Assessor",
	"client":   "Client",
	"viewer":   "Viewer",
}

// Role returns the human-readable name for a share role code.
func Role(code string) string {
	if name, ok := roles[code]; ok {
		return name
	}
	return code
}

// StageVector renders a run's stage map as a compact ordered line, e.g.
// "Mapping:Succeeded Assessing:Running Analyzing:Pending Reporting:Pending".
func StageVector(vector map[string]string) string {
	order := []string{"mapping", "assessing", "analyzing", "reporting"}
	parts := make([]string, 0, len(order))
	for _, s := range order {
		if st, ok := vector[s]; ok {
			parts = append(parts, Stage(s)+":"+Status(st))
		}
	}
	return strings.Join(parts, " ")
}
