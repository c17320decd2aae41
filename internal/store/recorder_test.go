package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gym-occupancy-backend/internal/model"
)

type memoryStore struct {
	appended []model.CapacitySnapshot
	err      error
}

func (m *memoryStore) Append(ctx context.Context, s model.CapacitySnapshot, now time.Time) error {
	if m.err != nil {
		return m.err
	}
	m.appended = append(m.appended, s)
	return nil
}

func (m *memoryStore) List(ctx context.Context) ([]model.CapacitySnapshot, error) {
	return m.appended, nil
}

func (m *memoryStore) Range(ctx context.Context, from, to time.Time) ([]model.CapacitySnapshot, error) {
	return inRange(m.appended, from, to), nil
}

func TestRecorder_Observe(t *testing.T) {
	loc, err := time.LoadLocation("America/Los_Angeles")
	require.NoError(t, err)
	capacity := 200

	mem := &memoryStore{}
	r := NewRecorder(mem, loc)
	// 02:00 UTC on Tuesday is 18:00 on Monday in Los Angeles.
	at := time.Date(2025, time.January, 7, 2, 0, 0, 0, time.UTC)
	r.Observe(context.Background(), &model.OccupancyStatus{Occupancy: 87, Capacity: &capacity, IsOpen: true, UpdatedAt: at})

	require.Len(t, mem.appended, 1)
	snap := mem.appended[0]
	assert.Equal(t, int(time.Monday), snap.DayOfWeek)
	assert.Equal(t, 18, snap.Hour)
	assert.Equal(t, 200, snap.MaxCapacity)
	assert.InDelta(t, 0.435, snap.Percentage, 1e-9)
	assert.True(t, snap.Timestamp.Equal(at))
}

func TestRecorder_DefaultsCapacityAndSwallowsErrors(t *testing.T) {
	mem := &memoryStore{}
	r := NewRecorder(mem, time.UTC)
	r.Observe(context.Background(), &model.OccupancyStatus{Occupancy: 25, UpdatedAt: base})
	require.Len(t, mem.appended, 1)
	assert.Equal(t, model.DefaultMaxCapacity, mem.appended[0].MaxCapacity)
	assert.InDelta(t, 0.25, mem.appended[0].Percentage, 1e-9)

	failing := &memoryStore{err: errors.New("disk full")}
	assert.NotPanics(t, func() {
		NewRecorder(failing, time.UTC).Observe(context.Background(), &model.OccupancyStatus{Occupancy: 1})
	})
	assert.NotPanics(t, func() {
		NewRecorder(mem, time.UTC).Observe(context.Background(), nil)
	})
}
