package coordinate

import (
	"context"
	"time"

	"aegis/internal/faults"
	"aegis/internal/logging"
	"aegis/internal/store"
)

// DefaultRestoreWindow is how long a soft-deleted assessment stays
// restorable before the sweeper may purge it.
const DefaultRestoreWindow = 30 * 24 * time.Hour

// Lifecycle handles soft deletion, restore and permanent purge.
type Lifecycle struct {
	st     store.Store
	window time.Duration
	now    func() time.Time
}

// NewLifecycle builds a lifecycle manager. A zero window means the default
// 30 days.
func NewLifecycle(st store.Store, window time.Duration) *Lifecycle {
	if window <= 0 {
		window = DefaultRestoreWindow
	}
	return &Lifecycle{st: st, window: window, now: time.Now}
}

// SoftDelete marks an assessment deleted. It disappears from default
// listings but remains restorable within the window. An assessment with an
// active run cannot be deleted; cancel the run first.
func (l *Lifecycle) SoftDelete(ctx context.Context, id int64) error {
	if _, err := l.st.GetAssessment(id); err != nil {
		return err
	}
	active, err := l.st.ActiveRun(id)
	if err != nil {
		return err
	}
	if active != nil {
		return faults.Newf(faults.Conflict, "delete_assessment",
			"assessment %d has active run %d; cancel it first", id, active.ID)
	}
	return l.st.SetDeletedAt(id, l.now().UTC().Format(time.RFC3339))
}

// Restore brings a soft-deleted assessment back. Past the window the
// assessment is awaiting purge and restore fails with an expired error.
func (l *Lifecycle) Restore(ctx context.Context, id int64) error {
	a, err := l.st.GetAssessmentAny(id)
	if err != nil {
		return err
	}
	if a.DeletedAt == "" {
		return faults.Newf(faults.Validation, "restore_assessment", "assessment %d is not deleted", id)
	}
	deletedAt, err := time.Parse(time.RFC3339, a.DeletedAt)
	if err != nil {
		return faults.Newf(faults.Validation, "restore_assessment", "bad deletion timestamp %q", a.DeletedAt)
	}
	if l.now().Sub(deletedAt) > l.window {
		return faults.Newf(faults.Expired, "restore_assessment",
			"assessment %d was deleted %s ago; restore window is %s", id, l.now().Sub(deletedAt).Round(time.Hour), l.window)
	}
	return l.st.SetDeletedAt(id, "")
}

// Purge permanently removes an assessment and all dependent data. Refused
// while a run is active.
func (l *Lifecycle) Purge(ctx context.Context, id int64) error {
	active, err := l.st.ActiveRun(id)
	if err != nil {
		return err
	}
	if active != nil {
		return faults.Newf(faults.Conflict, "purge_assessment",
			"assessment %d has active run %d", id, active.ID)
	}
	return l.st.PurgeAssessment(id)
}

// Sweep purges every soft-deleted assessment whose restore window has
// elapsed, skipping any with an active run. Returns how many were purged.
func (l *Lifecycle) Sweep(ctx context.Context) (int, error) {
	log := logging.New("lifecycle")
	deleted, err := l.st.ListDeletedAssessments()
	if err != nil {
		return 0, err
	}

	purged := 0
	for _, a := range deleted {
		if err := ctx.Err(); err != nil {
			return purged, err
		}
		deletedAt, err := time.Parse(time.RFC3339, a.DeletedAt)
		if err != nil || l.now().Sub(deletedAt) <= l.window {
			continue
		}
		if err := l.Purge(ctx, a.ID); err != nil {
			if faults.IsConflict(err) {
				log.Warn("sweep skipped assessment with active run", "assessment_id", a.ID)
				continue
			}
			return purged, err
		}
		log.Info("swept expired assessment", "assessment_id", a.ID, "deleted_at", a.DeletedAt)
		purged++
	}
	return purged, nil
}

// RunSweeper sweeps on the given interval until ctx is cancelled.
func (l *Lifecycle) RunSweeper(ctx context.Context, interval time.Duration) {
	log := logging.New("lifecycle")
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := l.Sweep(ctx); err != nil && ctx.Err() == nil {
				log.Error("sweep failed", "error", err)
			}
		}
	}
}
