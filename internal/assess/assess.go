// Package assess holds the evidence tiering model: tier ranks, coverage
// classes, and the deterministic merge of per-evidence findings into one
// judgment per control.
package assess

import (
	"sort"
	"strings"
)

// Tier ranks evidence strength: 1 is strongest (system-generated), 7 is
// weakest (narrative text).
type Tier int

const (
	TierLogExport  Tier = 1 // system-generated logs / config export
	TierIaC        Tier = 2 // infrastructure-as-code
	TierScan       Tier = 3 // automated test / scan result
	TierCode       Tier = 4 // code-level enforcement
	TierScreenshot Tier = 5
	TierVideo      Tier = 6
	TierNarrative  Tier = 7
)

// tierByType maps an ingestion-derived evidence type to its base tier.
var tierByType = map[string]Tier{
	"log":      TierLogExport,
	"iac":      TierIaC,
	"scan":     TierScan,
	"code":     TierCode,
	"image":    TierScreenshot,
	"video":    TierVideo,
	"document": TierNarrative,
}

// TierForType returns the base tier for an evidence type. Unknown types rank
// as narrative.
func TierForType(evType string) Tier {
	if t, ok := tierByType[strings.ToLower(evType)]; ok {
		return t
	}
	return TierNarrative
}

// EvidenceTypes lists the known ingestion-derived types, strongest first.
func EvidenceTypes() []string {
	return []string{"log", "iac", "scan", "code", "image", "video", "document"}
}

// Coverage classifies how well a control is covered.
type Coverage string

const (
	CoverageFull          Coverage = "full"
	CoveragePartial       Coverage = "partial"
	CoverageMissing       Coverage = "missing"
	CoverageNotApplicable Coverage = "not_applicable"
)

// Judgment is the per-control result of one assessing pass.
type Judgment struct {
	ControlID  string   `json:"control_id"`
	Tier       Tier     `json:"tier"` // 0 when coverage is missing or not applicable
	Coverage   Coverage `json:"coverage"`
	Rationale  string   `json:"rationale"`
	CitedItems []int64  `json:"cited_item_ids,omitempty"`
}

// Finding is one evidence item's contribution to a control, as returned by
// the judge.
type Finding struct {
	ItemID    int64  `json:"item_id"`
	Tier      Tier   `json:"tier"`
	Matches   bool   `json:"matches"`  // evidence addresses this control at all
	Complete  bool   `json:"complete"` // evidence addresses the full requirement text
	Rationale string `json:"rationale"`
}

// Merge combines per-evidence findings into a single judgment for a control.
// The strongest applicable tier (lowest number) wins; coverage is Full only
// when that evidence is tier <= 4 and some matching finding confirms the full
// requirement is addressed. The result is independent of finding order.
func Merge(controlID string, findings []Finding) Judgment {
	j := Judgment{ControlID: controlID, Coverage: CoverageMissing}

	minTier := TierNarrative + 1
	complete := false
	var cited []int64
	var reasons []string

	sorted := make([]Finding, len(findings))
	copy(sorted, findings)
	sort.Slice(sorted, func(i, k int) bool { return sorted[i].ItemID < sorted[k].ItemID })

	for _, f := range sorted {
		if !f.Matches {
			continue
		}
		cited = append(cited, f.ItemID)
		if f.Rationale != "" {
			reasons = append(reasons, f.Rationale)
		}
		if f.Tier < minTier {
			minTier = f.Tier
		}
		if f.Complete && f.Tier <= TierCode {
			complete = true
		}
	}

	if len(cited) == 0 {
		j.Rationale = "no submitted evidence maps to this control"
		return j
	}

	j.Tier = minTier
	j.CitedItems = cited
	j.Rationale = strings.Join(reasons, "; ")
	if minTier <= TierCode && complete {
		j.Coverage = CoverageFull
	} else {
		j.Coverage = CoveragePartial
	}
	return j
}

// NotApplicable builds the judgment for an operator override. Overrides are
// never inferred.
func NotApplicable(controlID, note string) Judgment {
	if note == "" {
		note = "marked not applicable by operator"
	}
	return Judgment{ControlID: controlID, Coverage: CoverageNotApplicable, Rationale: note}
}

// ClassifyType derives an evidence type from a filename and a free-text note.
// Used at upload when the caller does not declare a type.
func ClassifyType(filename, note string) string {
	name := strings.ToLower(filename)
	hint := strings.ToLower(note)

	switch {
	case hasAnySuffix(name, ".tf", ".tfvars", ".bicep") ||
		containsAny(name, "terraform", "ansible", "helm", "k8s", "kustomize"):
		return "iac"
	case hasAnySuffix(name, ".yaml", ".yml") && containsAny(name, "deploy", "chart", "manifest"):
		return "iac"
	case hasAnySuffix(name, ".log") || containsAny(name, "syslog", "audit-log", "export"):
		return "log"
	case containsAny(name, "scan", "sarif", "junit", "test-report", "pentest"):
		return "scan"
	case hasAnySuffix(name, ".go", ".py", ".java", ".ts", ".rb", ".c", ".rs"):
		return "code"
	case hasAnySuffix(name, ".png", ".jpg", ".jpeg", ".gif", ".bmp") || containsAny(name, "screenshot"):
		return "image"
	case hasAnySuffix(name, ".mp4", ".mov", ".webm", ".avi") || containsAny(name, "walkthrough", "recording"):
		return "video"
	case containsAny(hint, "terraform", "infrastructure as code"):
		return "iac"
	case containsAny(hint, "log export", "config export"):
		return "log"
	default:
		return "document"
	}
}

func hasAnySuffix(s string, suffixes ...string) bool {
	for _, suf := range suffixes {
		if strings.HasSuffix(s, suf) {
			return true
		}
	}
	return false
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
