package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"gym-occupancy-backend/internal/model"
)

// gormSnapshotStore keeps snapshots in the capacity_snapshots table.
type gormSnapshotStore struct {
	db        *gorm.DB
	retention time.Duration
}

// NewGormSnapshotStore creates a database-backed snapshot store. Append and
// prune run in one transaction.
func NewGormSnapshotStore(db *gorm.DB, retention time.Duration) SnapshotStore {
	return &gormSnapshotStore{db: db, retention: retention}
}

func (s *gormSnapshotStore) Append(ctx context.Context, snapshot model.CapacitySnapshot, now time.Time) error {
	cutoff := now.Add(-s.retention).UTC()
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&snapshot).Error; err != nil {
			return fmt.Errorf("failed to insert snapshot: %w", err)
		}
		if err := tx.Where("timestamp <= ?", cutoff).Delete(&model.CapacitySnapshot{}).Error; err != nil {
			return fmt.Errorf("failed to prune snapshots: %w", err)
		}
		return nil
	})
}

func (s *gormSnapshotStore) List(ctx context.Context) ([]model.CapacitySnapshot, error) {
	var snapshots []model.CapacitySnapshot
	if err := s.db.WithContext(ctx).Order("timestamp ASC").Find(&snapshots).Error; err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}
	return snapshots, nil
}

func (s *gormSnapshotStore) Range(ctx context.Context, from, to time.Time) ([]model.CapacitySnapshot, error) {
	var snapshots []model.CapacitySnapshot
	if err := s.db.WithContext(ctx).
		Where("timestamp >= ? AND timestamp <= ?", from.UTC(), to.UTC()).
		Order("timestamp ASC").
		Find(&snapshots).Error; err != nil {
		return nil, fmt.Errorf("failed to query snapshots: %w", err)
	}
	return snapshots, nil
}

// gormSubscriptionStore implements SubscriptionStore using GORM.
type gormSubscriptionStore struct {
	db *gorm.DB
}

// NewGormSubscriptionStore creates a GORM-backed subscription store.
func NewGormSubscriptionStore(db *gorm.DB) SubscriptionStore {
	return &gormSubscriptionStore{db: db}
}

func (s *gormSubscriptionStore) SaveSubscription(ctx context.Context, sub *model.PushSubscription) error {
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "endpoint"}},
		DoUpdates: clause.AssignmentColumns([]string{"p256dh", "auth", "threshold_percent", "updated_at"}),
	}).Create(sub).Error
}

func (s *gormSubscriptionStore) GetSubscription(ctx context.Context, endpoint string) (*model.PushSubscription, error) {
	var sub model.PushSubscription
	if err := s.db.WithContext(ctx).First(&sub, "endpoint = ?", endpoint).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &sub, nil
}

func (s *gormSubscriptionStore) DeleteSubscription(ctx context.Context, endpoint string) error {
	return s.db.WithContext(ctx).Delete(&model.PushSubscription{Endpoint: endpoint}).Error
}

func (s *gormSubscriptionStore) SubscriptionsCrossed(ctx context.Context, previous, current int) ([]model.PushSubscription, error) {
	var subs []model.PushSubscription
	if err := s.db.WithContext(ctx).
		Where("threshold_percent >= ? AND threshold_percent < ?", current, previous).
		Find(&subs).Error; err != nil {
		return nil, err
	}
	return subs, nil
}
