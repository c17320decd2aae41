package store

import (
	"context"
	"errors"
	"time"

	"gym-occupancy-backend/internal/model"
)

// ErrNotFound is returned when a looked-up record does not exist.
var ErrNotFound = errors.New("record not found")

// SnapshotStore persists the rolling window of capacity snapshots.
type SnapshotStore interface {
	// Append adds a snapshot and prunes every snapshot older than the
	// retention window measured back from now.
	Append(ctx context.Context, snapshot model.CapacitySnapshot, now time.Time) error
	// List returns every stored snapshot, oldest first.
	List(ctx context.Context) ([]model.CapacitySnapshot, error)
	// Range returns snapshots with from <= timestamp <= to, oldest first.
	Range(ctx context.Context, from, to time.Time) ([]model.CapacitySnapshot, error)
}

// SubscriptionStore persists occupancy alert subscriptions.
type SubscriptionStore interface {
	SaveSubscription(ctx context.Context, sub *model.PushSubscription) error
	GetSubscription(ctx context.Context, endpoint string) (*model.PushSubscription, error)
	DeleteSubscription(ctx context.Context, endpoint string) error
	// SubscriptionsCrossed returns the subscriptions whose threshold lies in
	// [current, previous): occupancy just dropped to or below it.
	SubscriptionsCrossed(ctx context.Context, previous, current int) ([]model.PushSubscription, error)
}

// keep drops snapshots at or before the retention cutoff.
func keep(snapshots []model.CapacitySnapshot, cutoff time.Time) []model.CapacitySnapshot {
	kept := make([]model.CapacitySnapshot, 0, len(snapshots))
	for _, s := range snapshots {
		if s.Timestamp.After(cutoff) {
			kept = append(kept, s)
		}
	}
	return kept
}

func inRange(snapshots []model.CapacitySnapshot, from, to time.Time) []model.CapacitySnapshot {
	out := make([]model.CapacitySnapshot, 0)
	for _, s := range snapshots {
		if !s.Timestamp.Before(from) && !s.Timestamp.After(to) {
			out = append(out, s)
		}
	}
	return out
}
