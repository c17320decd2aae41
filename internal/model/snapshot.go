package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DefaultMaxCapacity is assumed when the provider did not report a capacity.
const DefaultMaxCapacity = 100

// CapacitySnapshot is one persisted occupancy sample.
// Calendar fields are expressed in the facility timezone.
type CapacitySnapshot struct {
	ID           uuid.UUID `json:"-" gorm:"type:uuid;primaryKey"`
	Timestamp    time.Time `json:"timestamp" gorm:"not null;index"`
	DayOfWeek    int       `json:"dayOfWeek" gorm:"not null"`
	Hour         int       `json:"hour" gorm:"not null"`
	Minute       int       `json:"minute" gorm:"not null"`
	CurrentCount int       `json:"currentCount" gorm:"not null"`
	MaxCapacity  int       `json:"maxCapacity" gorm:"not null"`
	Percentage   float64   `json:"percentage" gorm:"not null"`
	IsOpen       bool      `json:"isOpen" gorm:"not null"`
}

// BeforeCreate assigns a row id when the caller left it empty.
func (s *CapacitySnapshot) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// NewCapacitySnapshot derives a snapshot from a freshly computed status.
func NewCapacitySnapshot(status *OccupancyStatus, at time.Time, loc *time.Location) CapacitySnapshot {
	maxCapacity := DefaultMaxCapacity
	if status.Capacity != nil && *status.Capacity > 0 {
		maxCapacity = *status.Capacity
	}

	local := at.In(loc)
	return CapacitySnapshot{
		Timestamp:    at.UTC(),
		DayOfWeek:    int(local.Weekday()),
		Hour:         local.Hour(),
		Minute:       local.Minute(),
		CurrentCount: status.Occupancy,
		MaxCapacity:  maxCapacity,
		Percentage:   float64(status.Occupancy) / float64(maxCapacity),
		IsOpen:       status.IsOpen,
	}
}
