package faults

import (
	"errors"
	"fmt"
	"testing"
)

func TestKindPredicates(t *testing.T) {
	cases := []struct {
		err  error
		want Kind
	}{
		{New(Validation, "start_run", errors.New("no evidence")), Validation},
		{New(Conflict, "start_run", errors.New("active run exists")), Conflict},
		{New(Transient, "map_controls", errors.New("timeout")), Transient},
		{New(Expired, "restore", errors.New("window elapsed")), Expired},
		{New(NotFound, "get", errors.New("missing")), NotFound},
	}
	for _, c := range cases {
		if got := KindOf(c.err); got != c.want {
			t.Errorf("KindOf(%v) = %v, want %v", c.err, got, c.want)
		}
	}

	if !IsConflict(New(Conflict, "op", nil)) {
		t.Error("IsConflict false for conflict error")
	}
	if IsTransient(New(Conflict, "op", nil)) {
		t.Error("IsTransient true for conflict error")
	}
	if IsTransient(errors.New("plain")) {
		t.Error("IsTransient true for unclassified error")
	}
}

func TestWrappedClassificationSurvives(t *testing.T) {
	inner := Newf(Transient, "assess", "judge unavailable")
	outer := fmt.Errorf("stage assessing: %w", inner)

	if !IsTransient(outer) {
		t.Errorf("classification lost through wrapping: %v", outer)
	}
	if KindOf(outer) != Transient {
		t.Errorf("KindOf(outer) = %v, want Transient", KindOf(outer))
	}
}

func TestErrorString(t *testing.T) {
	e := New(NotFound, "get_assessment", errors.New("assessment 7"))
	got := e.Error()
	want := "get_assessment: not_found: assessment 7"
	if got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}
