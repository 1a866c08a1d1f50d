// Package catalog is the knowledge store: an indexed catalog of security
// controls grouped into families, with per-control minimum profiles and
// preferred evidence types. The catalog ships embedded; Load never touches
// the filesystem.
package catalog

import (
	"fmt"
	"sort"
	"strings"

	yaml "gopkg.in/yaml.v3"
)

// Control is one catalog entry.
type Control struct {
	ID      string `yaml:"id"`      // e.g. "SC-28"
	Name    string `yaml:"name"`    // e.g. "Protection of Information at Rest"
	Family  string `yaml:"family"`  // two-letter family code
	Text    string `yaml:"text"`    // full requirement text
	Profile int    `yaml:"profile"` // minimum profile (1-3) requiring this control
	// Preferred evidence types for this control, strongest first.
	// Empty falls back to the family default.
	Evidence []string `yaml:"evidence,omitempty"`
}

// Catalog holds the loaded control set with lookup indexes.
type Catalog struct {
	controls []Control
	byID     map[string]int
	byFamily map[string][]int
}

var familyNames = map[string]string{
	"AC": "Access Control",
	"AT": "Awareness and Training",
	"AU": "Audit and Accountability",
	"CA": "Assessment, Authorization, and Monitoring",
	"CM": "Configuration Management",
	"CP": "Contingency Planning",
	"IA": "Identification and Authentication",
	"IR": "Incident Response",
	"MA": "Maintenance",
	"MP": "Media Protection",
	"PE": "Physical and Environmental Protection",
	"PL": "Planning",
	"PS": "Personnel Security",
	"RA": "Risk Assessment",
	"SA": "System and Services Acquisition",
	"SC": "System and Communications Protection",
	"SI": "System and Information Integrity",
}

// FamilyName returns the full name for a family code. Unknown codes are
// returned as-is.
func FamilyName(code string) string {
	if name, ok := familyNames[strings.ToUpper(code)]; ok {
		return name
	}
	return code
}

// Families returns all known family codes, sorted.
func Families() []string {
	out := make([]string, 0, len(familyNames))
	for code := range familyNames {
		out = append(out, code)
	}
	sort.Strings(out)
	return out
}

// Load parses the embedded catalog.
func Load() (*Catalog, error) {
	return Parse(controlsYAML)
}

// Parse builds a Catalog from YAML bytes. Controls are sorted by family then
// numeric suffix so listings are stable.
func Parse(data []byte) (*Catalog, error) {
	var doc struct {
		Controls []Control `yaml:"controls"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse catalog yaml: %w", err)
	}
	if len(doc.Controls) == 0 {
		return nil, fmt.Errorf("catalog is empty")
	}

	sort.Slice(doc.Controls, func(i, j int) bool {
		return lessControlID(doc.Controls[i].ID, doc.Controls[j].ID)
	})

	c := &Catalog{
		controls: doc.Controls,
		byID:     make(map[string]int, len(doc.Controls)),
		byFamily: make(map[string][]int),
	}
	for i, ctrl := range doc.Controls {
		if ctrl.ID == "" || ctrl.Family == "" {
			return nil, fmt.Errorf("catalog entry %d missing id or family", i)
		}
		if _, dup := c.byID[ctrl.ID]; dup {
			return nil, fmt.Errorf("duplicate control id %s", ctrl.ID)
		}
		if ctrl.Profile < 1 || ctrl.Profile > 3 {
			return nil, fmt.Errorf("control %s: profile %d out of range", ctrl.ID, ctrl.Profile)
		}
		c.byID[ctrl.ID] = i
		c.byFamily[ctrl.Family] = append(c.byFamily[ctrl.Family], i)
	}
	return c, nil
}

// Get returns the control with the given id, or false.
func (c *Catalog) Get(id string) (Control, bool) {
	i, ok := c.byID[strings.ToUpper(strings.TrimSpace(id))]
	if !ok {
		return Control{}, false
	}
	return c.controls[i], true
}

// Len returns the number of catalog entries.
func (c *Catalog) Len() int { return len(c.controls) }

// All returns every control, ordered by id.
func (c *Catalog) All() []Control {
	out := make([]Control, len(c.controls))
	copy(out, c.controls)
	return out
}

// ByFamily returns the controls in one family, ordered by id.
func (c *Catalog) ByFamily(family string) []Control {
	idxs := c.byFamily[strings.ToUpper(family)]
	out := make([]Control, 0, len(idxs))
	for _, i := range idxs {
		out = append(out, c.controls[i])
	}
	return out
}

// ForProfile returns the controls applicable at the given impact profile:
// every control whose minimum profile is <= p, ordered by id.
func (c *Catalog) ForProfile(p int) []Control {
	var out []Control
	for _, ctrl := range c.controls {
		if ctrl.Profile <= p {
			out = append(out, ctrl)
		}
	}
	return out
}

// Search scores controls by keyword overlap with the query over name and
// requirement text, returning up to limit matches ordered by score then id.
// It is the deterministic stand-in for semantic retrieval of control text.
func (c *Catalog) Search(query string, limit int) []Control {
	terms := tokenize(query)
	if len(terms) == 0 {
		return nil
	}

	type scored struct {
		idx   int
		score int
	}
	var hits []scored
	for i, ctrl := range c.controls {
		hay := tokenSet(ctrl.ID + " " + ctrl.Name + " " + ctrl.Text)
		score := 0
		for _, t := range terms {
			if hay[t] {
				score++
			}
		}
		if score > 0 {
			hits = append(hits, scored{idx: i, score: score})
		}
	}

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].score != hits[j].score {
			return hits[i].score > hits[j].score
		}
		return lessControlID(c.controls[hits[i].idx].ID, c.controls[hits[j].idx].ID)
	})

	if limit > 0 && len(hits) > limit {
		hits = hits[:limit]
	}
	out := make([]Control, 0, len(hits))
	for _, h := range hits {
		out = append(out, c.controls[h.idx])
	}
	return out
}

func tokenize(s string) []string {
	fields := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !('a' <= r && r <= 'z' || '0' <= r && r <= '9' || r == '-')
	})
	var out []string
	for _, f := range fields {
		if len(f) > 2 {
			out = append(out, f)
		}
	}
	return out
}

func tokenSet(s string) map[string]bool {
	set := make(map[string]bool)
	for _, t := range tokenize(s) {
		set[t] = true
	}
	return set
}

// lessControlID orders "AC-2" before "AC-10" (family lexical, suffix numeric).
func lessControlID(a, b string) bool {
	fa, na := splitControlID(a)
	fb, nb := splitControlID(b)
	if fa != fb {
		return fa < fb
	}
	if na != nb {
		return na < nb
	}
	return a < b
}

func splitControlID(id string) (string, int) {
	parts := strings.SplitN(id, "-", 2)
	if len(parts) != 2 {
		return id, 0
	}
	n := 0
	for _, r := range parts[1] {
		if r < '0' || r > '9' {
			break
		}
		n = n*10 + int(r-'0')
	}
	return parts[0], n
}
