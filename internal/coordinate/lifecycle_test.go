package coordinate

import (
	"context"
	"testing"
	"time"

	"aegis/internal/faults"
	"aegis/internal/store"
)

func TestSoftDeleteAndRestore(t *testing.T) {
	st := store.NewMemStore()
	l := NewLifecycle(st, 0)

	id, err := st.CreateAssessment(&store.Assessment{ClientID: "acme", ProjectName: "payroll"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := l.SoftDelete(context.Background(), id); err != nil {
		t.Fatalf("soft delete: %v", err)
	}
	if _, err := st.GetAssessment(id); !faults.IsNotFound(err) {
		t.Errorf("deleted assessment visible: %v", err)
	}

	if err := l.Restore(context.Background(), id); err != nil {
		t.Fatalf("restore: %v", err)
	}
	if _, err := st.GetAssessment(id); err != nil {
		t.Errorf("restored assessment not visible: %v", err)
	}

	if err := l.Restore(context.Background(), id); !faults.IsValidation(err) {
		t.Errorf("restore of live assessment: err = %v, want validation", err)
	}
}

func TestRestoreWindowExpires(t *testing.T) {
	st := store.NewMemStore()
	l := NewLifecycle(st, 0)

	id, _ := st.CreateAssessment(&store.Assessment{ClientID: "acme", ProjectName: "payroll"})
	if err := l.SoftDelete(context.Background(), id); err != nil {
		t.Fatalf("soft delete: %v", err)
	}

	// 29 days later: still restorable.
	l.now = func() time.Time { return time.Now().Add(29 * 24 * time.Hour) }
	if err := l.Restore(context.Background(), id); err != nil {
		t.Fatalf("restore inside window: %v", err)
	}

	if err := l.SoftDelete(context.Background(), id); err != nil {
		t.Fatalf("re-delete: %v", err)
	}
	// 31 days past the second deletion: expired.
	l.now = func() time.Time { return time.Now().Add(60 * 24 * time.Hour) }
	if err := l.Restore(context.Background(), id); !faults.IsExpired(err) {
		t.Errorf("restore after window: err = %v, want expired", err)
	}
	// Expired does not mean gone until the sweeper runs.
	if _, err := st.GetAssessmentAny(id); err != nil {
		t.Errorf("expired assessment purged prematurely: %v", err)
	}
}

func TestDeleteRefusedWhileRunActive(t *testing.T) {
	st := store.NewMemStore()
	l := NewLifecycle(st, 0)

	id, _ := st.CreateAssessment(&store.Assessment{ClientID: "acme", ProjectName: "payroll"})
	if _, err := st.CreateRunIfIdle(id, ""); err != nil {
		t.Fatalf("create run: %v", err)
	}

	if err := l.SoftDelete(context.Background(), id); !faults.IsConflict(err) {
		t.Errorf("delete with active run: err = %v, want conflict", err)
	}
	if err := l.Purge(context.Background(), id); !faults.IsConflict(err) {
		t.Errorf("purge with active run: err = %v, want conflict", err)
	}
}

func TestSweepPurgesOnlyExpired(t *testing.T) {
	st := store.NewMemStore()
	l := NewLifecycle(st, 0)

	old := time.Now().Add(-40 * 24 * time.Hour).UTC().Format(time.RFC3339)
	recent := time.Now().Add(-2 * 24 * time.Hour).UTC().Format(time.RFC3339)

	expired, _ := st.CreateAssessment(&store.Assessment{ClientID: "a", ProjectName: "expired"})
	_ = st.SetDeletedAt(expired, old)

	fresh, _ := st.CreateAssessment(&store.Assessment{ClientID: "a", ProjectName: "fresh"})
	_ = st.SetDeletedAt(fresh, recent)

	busy, _ := st.CreateAssessment(&store.Assessment{ClientID: "a", ProjectName: "busy"})
	if _, err := st.CreateRunIfIdle(busy, ""); err != nil {
		t.Fatalf("create run: %v", err)
	}
	_ = st.SetDeletedAt(busy, old)

	live, _ := st.CreateAssessment(&store.Assessment{ClientID: "a", ProjectName: "live"})

	purged, err := l.Sweep(context.Background())
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if purged != 1 {
		t.Errorf("purged = %d, want 1", purged)
	}

	if _, err := st.GetAssessmentAny(expired); !faults.IsNotFound(err) {
		t.Errorf("expired assessment survived sweep: %v", err)
	}
	if _, err := st.GetAssessmentAny(fresh); err != nil {
		t.Errorf("fresh deletion purged: %v", err)
	}
	if _, err := st.GetAssessmentAny(busy); err != nil {
		t.Errorf("busy assessment purged despite active run: %v", err)
	}
	if _, err := st.GetAssessment(live); err != nil {
		t.Errorf("live assessment affected: %v", err)
	}
}
