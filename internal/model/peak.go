package model

import "time"

// PeakHoursAnalysis summarizes when the weight room tends to be busy.
type PeakHoursAnalysis struct {
	HasData      bool         `json:"hasData"`
	Message      string       `json:"message,omitempty"`
	TotalSamples int          `json:"totalSamples"`
	Busiest      *HourSummary `json:"busiest,omitempty"`
	BestTime     *HourSummary `json:"bestTime,omitempty"`
	BusiestDay   *string      `json:"busiestDay,omitempty"`
	DataRange    *DataRange   `json:"dataRange,omitempty"`
}

// HourSummary describes one hour of the day and its average fullness.
type HourSummary struct {
	Hour           int    `json:"hour"`
	Label          string `json:"label"`
	AveragePercent int    `json:"averagePercent"`
	Summary        string `json:"summary"`
}

// DataRange is the span of snapshot timestamps an analysis was built from.
type DataRange struct {
	Oldest time.Time `json:"oldest"`
	Newest time.Time `json:"newest"`
}
