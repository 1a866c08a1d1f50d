// Package history computes the delta between two runs' judgment sets, used
// to render "progress since last run" without re-deriving full state.
package history

import (
	"sort"

	"aegis/internal/assess"
)

// Change records one control whose coverage class moved between runs.
type Change struct {
	ControlID string          `json:"control_id"`
	From      assess.Coverage `json:"from"`
	To        assess.Coverage `json:"to"`
	FromTier  assess.Tier     `json:"from_tier,omitempty"`
	ToTier    assess.Tier     `json:"to_tier,omitempty"`
}

// Delta is the judgment-set difference between an earlier and a later run.
type Delta struct {
	Improved  []Change `json:"improved,omitempty"`
	Regressed []Change `json:"regressed,omitempty"`
	Unchanged []string `json:"unchanged,omitempty"`
	// NewGaps are controls that are a gap in the later run but were not in
	// the earlier one (including controls new to the applicable set).
	NewGaps []string `json:"new_gaps,omitempty"`
	// ResolvedGaps are controls that were a gap in the earlier run and are
	// not in the later one (closed or no longer applicable).
	ResolvedGaps []string `json:"resolved_gaps,omitempty"`
}

// Empty reports whether the delta records no movement. Unchanged controls do
// not count as movement, so diffing a run against itself is empty.
func (d Delta) Empty() bool {
	return len(d.Improved) == 0 && len(d.Regressed) == 0 &&
		len(d.NewGaps) == 0 && len(d.ResolvedGaps) == 0
}

// coverageRank orders coverage classes for improvement comparison. Not
// applicable ranks with full: neither is a gap.
func coverageRank(c assess.Coverage) int {
	switch c {
	case assess.CoverageFull, assess.CoverageNotApplicable:
		return 2
	case assess.CoveragePartial:
		return 1
	default:
		return 0
	}
}

func isGap(c assess.Coverage) bool { return coverageRank(c) < 2 }

// Diff compares an earlier run's judgments against a later run's. It is a
// pure function of the two sets: neither input is mutated, and all output
// slices are ordered by control id.
func Diff(earlier, later []assess.Judgment) Delta {
	prev := byControl(earlier)
	curr := byControl(later)

	var d Delta

	for id, cj := range curr {
		pj, seen := prev[id]
		if !seen {
			if isGap(cj.Coverage) {
				d.NewGaps = append(d.NewGaps, id)
			}
			continue
		}

		pr, cr := coverageRank(pj.Coverage), coverageRank(cj.Coverage)
		switch {
		case cr > pr:
			d.Improved = append(d.Improved, change(id, pj, cj))
		case cr < pr:
			d.Regressed = append(d.Regressed, change(id, pj, cj))
			if isGap(cj.Coverage) && !isGap(pj.Coverage) {
				d.NewGaps = append(d.NewGaps, id)
			}
		default:
			d.Unchanged = append(d.Unchanged, id)
		}
		if isGap(pj.Coverage) && !isGap(cj.Coverage) {
			d.ResolvedGaps = append(d.ResolvedGaps, id)
		}
	}

	for id, pj := range prev {
		if _, seen := curr[id]; !seen && isGap(pj.Coverage) {
			d.ResolvedGaps = append(d.ResolvedGaps, id)
		}
	}

	sort.Slice(d.Improved, func(i, k int) bool { return d.Improved[i].ControlID < d.Improved[k].ControlID })
	sort.Slice(d.Regressed, func(i, k int) bool { return d.Regressed[i].ControlID < d.Regressed[k].ControlID })
	sort.Strings(d.Unchanged)
	sort.Strings(d.NewGaps)
	sort.Strings(d.ResolvedGaps)
	return d
}

func byControl(js []assess.Judgment) map[string]assess.Judgment {
	m := make(map[string]assess.Judgment, len(js))
	for _, j := range js {
		m[j.ControlID] = j
	}
	return m
}

func change(id string, from, to assess.Judgment) Change {
	return Change{
		ControlID: id,
		From:      from.Coverage,
		To:        to.Coverage,
		FromTier:  from.Tier,
		ToTier:    to.Tier,
	}
}
