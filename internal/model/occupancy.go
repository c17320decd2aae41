package model

import (
	"time"
)

// Status labels used when the sensor provider cannot supply one.
const (
	StatusClosed              = "Closed"
	StatusCapacityUnavailable = "Capacity unavailable"
)

// HoursDisplay is one row of the facility's published weekly hours.
type HoursDisplay struct {
	Label string `json:"label"`
	Open  string `json:"open"`
	Close string `json:"close"`
}

// OccupancyStatus is the normalized weight room status served to clients.
type OccupancyStatus struct {
	Occupancy int            `json:"occupancy"`
	Capacity  *int           `json:"capacity"`
	Percent   *int           `json:"percent"`
	Status    string         `json:"status"`
	Message   string         `json:"message"`
	UpdatedAt time.Time      `json:"updatedAt"`
	IsOpen    bool           `json:"isOpen"`
	Hours     []HoursDisplay `json:"hours"`
}
