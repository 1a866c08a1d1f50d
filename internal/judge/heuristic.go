package judge

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"aegis/internal/assess"
)

// Heuristic is the offline judge: deterministic keyword and evidence-type
// matching, no external calls. It is the default so the pipeline works with
// no API key configured.
type Heuristic struct{}

// NewHeuristic returns the offline keyword judge.
func NewHeuristic() *Heuristic { return &Heuristic{} }

// Judge scores each evidence item against the control's requirement text and
// merges the findings. Same inputs always produce the same judgment.
func (h *Heuristic) Judge(ctx context.Context, req Request) (assess.Judgment, error) {
	if err := ctx.Err(); err != nil {
		return assess.Judgment{}, err
	}

	want := keywords(req.Control.Name + " " + req.Control.Text)
	preferred := make(map[string]bool, len(req.Control.Evidence))
	for _, t := range req.Control.Evidence {
		preferred[strings.ToLower(t)] = true
	}

	findings := make([]assess.Finding, 0, len(req.Evidence))
	for _, item := range req.Evidence {
		have := keywords(item.Name + " " + item.Note)
		shared := intersect(want, have)
		if len(shared) == 0 {
			continue
		}
		typeFits := preferred[strings.ToLower(item.Type)]
		findings = append(findings, assess.Finding{
			ItemID:    item.ID,
			Tier:      assess.TierForType(item.Type),
			Matches:   true,
			Complete:  typeFits && len(shared) >= 2,
			Rationale: fmt.Sprintf("%s matches on %s", item.Name, strings.Join(shared, ", ")),
		})
	}

	return assess.Merge(req.Control.ID, findings), nil
}

// stopwords are common English words with no matching value. Domain terms
// stay in so that requirement text can anchor on them.
var stopwords = map[string]bool{
	"the": true, "and": true, "for": true, "with": true, "are": true,
	"that": true, "this": true, "from": true, "shall": true, "must": true,
	"will": true, "been": true, "being": true, "each": true, "such": true,
	"into": true, "upon": true, "only": true, "its": true, "all": true,
	"other": true, "when": true, "where": true, "which": true,
}

// keywords lowercases and tokenizes text, dropping short tokens and
// stopwords. Returned as a set.
func keywords(text string) map[string]bool {
	out := make(map[string]bool)
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !('a' <= r && r <= 'z' || '0' <= r && r <= '9')
	})
	for _, f := range fields {
		if len(f) < 3 || stopwords[f] {
			continue
		}
		out[f] = true
	}
	return out
}

func intersect(a, b map[string]bool) []string {
	var out []string
	for k := range a {
		if b[k] {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}
