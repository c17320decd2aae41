package store

import (
	"context"
	"log"
	"time"

	"gym-occupancy-backend/internal/model"
)

// Recorder turns each freshly fetched status into a persisted snapshot.
// Storage failures are logged and never reach the caller.
type Recorder struct {
	store SnapshotStore
	loc   *time.Location
	now   func() time.Time
}

// NewRecorder creates a recorder that tags snapshots with calendar fields in loc.
func NewRecorder(store SnapshotStore, loc *time.Location) *Recorder {
	return &Recorder{store: store, loc: loc, now: time.Now}
}

// Observe stores a snapshot of status.
func (r *Recorder) Observe(ctx context.Context, status *model.OccupancyStatus) {
	if status == nil {
		return
	}
	at := status.UpdatedAt
	if at.IsZero() {
		at = r.now()
	}

	snapshot := model.NewCapacitySnapshot(status, at, r.loc)
	if err := r.store.Append(ctx, snapshot, r.now()); err != nil {
		log.Printf("Failed to store capacity snapshot: %v", err)
		return
	}
	log.Printf("Stored capacity snapshot: %d/%d at %d:%02d", snapshot.CurrentCount, snapshot.MaxCapacity, snapshot.Hour, snapshot.Minute)
}
