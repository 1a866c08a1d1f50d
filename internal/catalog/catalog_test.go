package catalog

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestLoadEmbeddedCatalog(t *testing.T) {
	c, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Len() < 30 {
		t.Fatalf("catalog too small: %d entries", c.Len())
	}

	sc28, ok := c.Get("SC-28")
	if !ok {
		t.Fatal("SC-28 missing from catalog")
	}
	if sc28.Family != "SC" || sc28.Profile != 2 {
		t.Errorf("SC-28: got family=%s profile=%d", sc28.Family, sc28.Profile)
	}

	// Lookup is case- and whitespace-insensitive.
	if _, ok := c.Get(" sc-28 "); !ok {
		t.Error("case-insensitive Get failed")
	}
}

func TestForProfileIsMonotonic(t *testing.T) {
	c, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	p1 := c.ForProfile(1)
	p2 := c.ForProfile(2)
	p3 := c.ForProfile(3)
	if len(p1) >= len(p2) || len(p2) >= len(p3) {
		t.Errorf("profile baselines not strictly growing: %d/%d/%d", len(p1), len(p2), len(p3))
	}
	if len(p3) != c.Len() {
		t.Errorf("profile 3 should include every control: %d != %d", len(p3), c.Len())
	}

	// Profile 1 baseline must not contain moderate-only controls.
	for _, ctrl := range p1 {
		if ctrl.Profile > 1 {
			t.Errorf("profile 1 baseline contains %s (profile %d)", ctrl.ID, ctrl.Profile)
		}
	}
}

func TestOrderingNumericSuffix(t *testing.T) {
	c, err := Parse([]byte(`
controls:
  - {id: AC-17, name: a, family: AC, profile: 1, text: t}
  - {id: AC-2, name: b, family: AC, profile: 1, text: t}
  - {id: AC-3, name: c, family: AC, profile: 1, text: t}
`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	var ids []string
	for _, ctrl := range c.All() {
		ids = append(ids, ctrl.ID)
	}
	want := []string{"AC-2", "AC-3", "AC-17"}
	if diff := cmp.Diff(want, ids); diff != "" {
		t.Errorf("ordering mismatch (-want +got):\n%s", diff)
	}
}

func TestSearchFindsEncryptionAtRest(t *testing.T) {
	c, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	hits := c.Search("encryption at rest storage", 5)
	if len(hits) == 0 {
		t.Fatal("no hits for encryption-at-rest query")
	}
	if hits[0].ID != "SC-28" {
		t.Errorf("top hit = %s, want SC-28", hits[0].ID)
	}
}

func TestPreferredEvidenceFallsBackToFamily(t *testing.T) {
	c, err := Parse([]byte(`
controls:
  - {id: AU-99, name: synthetic, family: AU, profile: 1, text: t}
`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	got := c.PreferredEvidence("AU-99")
	if diff := cmp.Diff(familyEvidence["AU"], got); diff != "" {
		t.Errorf("family fallback mismatch (-want +got):\n%s", diff)
	}
	if got := c.PreferredEvidence("ZZ-1"); len(got) != 1 || got[0] != "document" {
		t.Errorf("unknown control fallback = %v", got)
	}
}

func TestParseRejectsBadEntries(t *testing.T) {
	cases := []string{
		`controls: []`,
		`controls: [{id: AC-1, family: AC, profile: 9, text: t}]`,
		"controls: [{id: AC-1, family: AC, profile: 1, text: t}, {id: AC-1, family: AC, profile: 1, text: t}]",
	}
	for i, in := range cases {
		if _, err := Parse([]byte(in)); err == nil {
			t.Errorf("case %d: expected error", i)
		}
	}
}
