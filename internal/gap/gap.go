// Package gap classifies per-control coverage into a prioritized gap list.
// The analysis is a pure function of the applicable control set and one run's
// judgments; the weight tables are configuration data, not runtime state.
package gap

import (
	"sort"

	"aegis/internal/assess"
	"aegis/internal/catalog"
)

// Record is one remediation gap: a control not in Full/NotApplicable.
type Record struct {
	ControlID           string          `json:"control_id"`
	ControlName         string          `json:"control_name"`
	Family              string          `json:"family"`
	Coverage            assess.Coverage `json:"coverage"`
	Priority            float64         `json:"priority"`
	RecommendedEvidence string          `json:"recommended_evidence"`
}

// familyWeight is the control-family criticality table. Access control and
// system/communications protection carry the highest weight; identification
// and audit follow.
var familyWeight = map[string]float64{
	"AC": 10, "SC": 10,
	"IA": 9, "AU": 9,
	"SI": 8,
	"CM": 7, "IR": 7,
	"RA": 6, "CP": 6,
	"CA": 5, "PE": 5,
	"SA": 4, "MA": 4, "MP": 4,
	"PL": 3, "PS": 3, "AT": 3,
}

// profileMultiplier scales priority by impact profile.
var profileMultiplier = map[int]float64{1: 1.0, 2: 1.5, 3: 2.0}

// Coefficients of the priority sum. Gap size dominates within a family;
// family weight separates equally-covered controls.
const (
	weightFamily  = 1.0
	weightProfile = 2.0
	weightGapSize = 12.0
)

func gapSize(c assess.Coverage) float64 {
	switch c {
	case assess.CoverageMissing:
		return 1.0
	case assess.CoveragePartial:
		return 0.5
	}
	return 0
}

// Priority computes the gap priority score for one control.
func Priority(family string, profile int, coverage assess.Coverage) float64 {
	fw, ok := familyWeight[family]
	if !ok {
		fw = 3
	}
	pm, ok := profileMultiplier[profile]
	if !ok {
		pm = 1.0
	}
	return weightFamily*fw + weightProfile*pm + weightGapSize*gapSize(coverage)
}

// Analyze derives the gap list for one run: one record per applicable control
// whose judgment is not Full or NotApplicable. Controls with no judgment at
// all count as Missing. Ordering is by priority descending, ties broken by
// control id ascending, so identical inputs always yield identical lists.
func Analyze(cat *catalog.Catalog, controls []catalog.Control, judgments []assess.Judgment, profile int) []Record {
	byControl := make(map[string]assess.Judgment, len(judgments))
	for _, j := range judgments {
		byControl[j.ControlID] = j
	}

	var out []Record
	for _, ctrl := range controls {
		j, ok := byControl[ctrl.ID]
		if !ok {
			j = assess.Judgment{ControlID: ctrl.ID, Coverage: assess.CoverageMissing}
		}
		switch j.Coverage {
		case assess.CoverageFull, assess.CoverageNotApplicable:
			continue
		}
		out = append(out, Record{
			ControlID:           ctrl.ID,
			ControlName:         ctrl.Name,
			Family:              ctrl.Family,
			Coverage:            j.Coverage,
			Priority:            Priority(ctrl.Family, profile, j.Coverage),
			RecommendedEvidence: Recommend(cat, ctrl.ID, j),
		})
	}

	sort.Slice(out, func(i, k int) bool {
		if out[i].Priority != out[k].Priority {
			return out[i].Priority > out[k].Priority
		}
		return out[i].ControlID < out[k].ControlID
	})
	return out
}

// Recommend picks the next evidence type to request for a control: the
// strongest preferred type whose tier is not yet satisfied by the current
// judgment. Missing controls get the strongest preferred type outright.
func Recommend(cat *catalog.Catalog, controlID string, j assess.Judgment) string {
	preferred := cat.PreferredEvidence(controlID)
	if len(preferred) == 0 {
		return "document"
	}
	if j.Coverage == assess.CoverageMissing || j.Tier == 0 {
		return preferred[0]
	}
	for _, evType := range preferred {
		if assess.TierForType(evType) < j.Tier {
			return evType
		}
	}
	return preferred[0]
}

// Score summarizes compliance over one run's judgments: full counts 1.0,
// partial 0.5, over all applicable (non-NA) controls.
type Score struct {
	Total         int     `json:"total"`
	Full          int     `json:"full"`
	Partial       int     `json:"partial"`
	Missing       int     `json:"missing"`
	NotApplicable int     `json:"not_applicable"`
	Percentage    float64 `json:"percentage"`
	Posture       string  `json:"posture"`
}

// Compliance computes the posture summary for a judgment set.
func Compliance(judgments []assess.Judgment) Score {
	var s Score
	for _, j := range judgments {
		switch j.Coverage {
		case assess.CoverageFull:
			s.Full++
		case assess.CoveragePartial:
			s.Partial++
		case assess.CoverageNotApplicable:
			s.NotApplicable++
		default:
			s.Missing++
		}
	}
	s.Total = s.Full + s.Partial + s.Missing
	if s.Total > 0 {
		s.Percentage = (float64(s.Full) + 0.5*float64(s.Partial)) / float64(s.Total) * 100
	}
	s.Posture = posture(s.Percentage)
	return s
}

func posture(pct float64) string {
	switch {
	case pct >= 90:
		return "Excellent"
	case pct >= 75:
		return "Good"
	case pct >= 60:
		return "Acceptable"
	case pct >= 40:
		return "Needs Improvement"
	default:
		return "Critical"
	}
}
