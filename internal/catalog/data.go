package catalog

import _ "embed"

// controlsYAML is the embedded control catalog. Derived from the ITSG-33
// family baselines; one entry per control with the minimum profile that
// requires it and its preferred evidence types, strongest first.
//
//go:embed controls.yaml
var controlsYAML []byte

// familyEvidence is the per-family default preferred-evidence table, used
// when a control entry does not carry its own list. Types are ordered
// strongest first using the evidence tier ranking.
var familyEvidence = map[string][]string{
	"AC": {"log", "iac", "code", "document"},
	"AT": {"log", "document"},
	"AU": {"log", "iac", "scan", "document"},
	"CA": {"scan", "document"},
	"CM": {"iac", "scan", "code", "document"},
	"CP": {"scan", "document"},
	"IA": {"log", "iac", "code", "document"},
	"IR": {"log", "document"},
	"MA": {"log", "document"},
	"MP": {"document", "image"},
	"PE": {"image", "document"},
	"PL": {"document"},
	"PS": {"document"},
	"RA": {"scan", "document"},
	"SA": {"document"},
	"SC": {"log", "iac", "scan", "document"},
	"SI": {"scan", "log", "document"},
}

// PreferredEvidence returns the preferred evidence types for a control,
// strongest first: the control's own list when present, else the family
// default, else narrative documentation.
func (c *Catalog) PreferredEvidence(id string) []string {
	ctrl, ok := c.Get(id)
	if !ok {
		return []string{"document"}
	}
	if len(ctrl.Evidence) > 0 {
		return ctrl.Evidence
	}
	if types, ok := familyEvidence[ctrl.Family]; ok {
		return types
	}
	return []string{"document"}
}
