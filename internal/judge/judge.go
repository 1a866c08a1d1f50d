// Package judge evaluates evidence against individual controls. The
// coordinator fans assessment out per control; each call judges one control
// against the full evidence set and returns a merged judgment.
package judge

import (
	"context"

	"aegis/internal/assess"
	"aegis/internal/catalog"
)

// Evidence is the judge's view of one submitted item. Content stays in the
// store; the judge sees name, ingestion type and the declared significance.
type Evidence struct {
	ID   int64
	Name string
	Type string
	Note string
}

// Request asks for a judgment of one control against the evidence set.
type Request struct {
	Control  catalog.Control
	Evidence []Evidence
}

// Judge produces a coverage judgment for a single control. Implementations
// must be safe for concurrent use; the coordinator calls Judge from multiple
// workers at once.
type Judge interface {
	Judge(ctx context.Context, req Request) (assess.Judgment, error)
}
