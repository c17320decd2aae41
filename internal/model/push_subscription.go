package model

import "time"

// PushSubscription holds a browser push subscription and the occupancy
// percentage at or below which its owner wants to be alerted.
type PushSubscription struct {
	Endpoint         string    `gorm:"primaryKey"`
	P256DH           string    `gorm:"column:p256dh;not null"`
	Auth             string    `gorm:"not null"`
	ThresholdPercent int       `gorm:"not null;index"`
	CreatedAt        time.Time `gorm:"not null"`
	UpdatedAt        time.Time `gorm:"not null"`
}
