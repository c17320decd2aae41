package peak

import (
	"context"
	"fmt"
	"math"

	"gym-occupancy-backend/internal/model"
	"gym-occupancy-backend/internal/store"
)

// MinSamples is the history size below which no analysis is reported.
const MinSamples = 50

const collectingMessage = "We're collecting data! Check back in a few days to see peak hours."

var dayNames = [7]string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

// Analyzer computes peak hours over the stored snapshot history.
type Analyzer struct {
	store store.SnapshotStore
}

// NewAnalyzer creates an analyzer reading from s.
func NewAnalyzer(s store.SnapshotStore) *Analyzer {
	return &Analyzer{store: s}
}

// Analyze loads the full history and aggregates it. Nothing is cached.
func (a *Analyzer) Analyze(ctx context.Context) (model.PeakHoursAnalysis, error) {
	snapshots, err := a.store.List(ctx)
	if err != nil {
		return model.PeakHoursAnalysis{}, fmt.Errorf("failed to load snapshots: %w", err)
	}
	return Analyze(snapshots), nil
}

// mean accumulates a running average.
type mean struct {
	sum   float64
	count int
}

func (m *mean) add(v float64) {
	m.sum += v
	m.count++
}

func (m mean) value() float64 {
	if m.count == 0 {
		return 0
	}
	return m.sum / float64(m.count)
}

// Analyze groups open snapshots by hour of day and by weekday and reports
// the busiest and quietest hours and the busiest weekday.
func Analyze(snapshots []model.CapacitySnapshot) model.PeakHoursAnalysis {
	total := len(snapshots)
	if total == 0 {
		return model.PeakHoursAnalysis{Message: collectingMessage}
	}
	if total < MinSamples {
		return model.PeakHoursAnalysis{
			Message:      fmt.Sprintf("We're collecting data! (%d samples so far). Check back in a few days to see peak hours.", total),
			TotalSamples: total,
		}
	}

	var hourly [24]mean
	var daily [7]mean
	for _, s := range snapshots {
		if !s.IsOpen {
			continue
		}
		p := percentage(s)
		if s.Hour >= 0 && s.Hour < len(hourly) {
			hourly[s.Hour].add(p)
		}
		if s.DayOfWeek >= 0 && s.DayOfWeek < len(daily) {
			daily[s.DayOfWeek].add(p)
		}
	}

	analysis := model.PeakHoursAnalysis{
		HasData:      true,
		TotalSamples: total,
		DataRange:    dataRange(snapshots),
	}

	// Hours are scanned in ascending order; ties keep the earliest hour.
	busiest, best := -1, -1
	for h, m := range hourly {
		if m.count == 0 {
			continue
		}
		avg := m.value()
		if avg > 0 && (busiest < 0 || avg > hourly[busiest].value()) {
			busiest = h
		}
		// A zero-mean hour is never reported as the best time.
		if avg > 0 && (best < 0 || avg < hourly[best].value()) {
			best = h
		}
	}
	if busiest >= 0 {
		analysis.Busiest = summarize(busiest, hourly[busiest].value())
	}
	if best >= 0 {
		analysis.BestTime = summarize(best, hourly[best].value())
	}

	busiestDay := -1
	for d, m := range daily {
		if m.count == 0 {
			continue
		}
		if avg := m.value(); avg > 0 && (busiestDay < 0 || avg > daily[busiestDay].value()) {
			busiestDay = d
		}
	}
	if busiestDay >= 0 {
		name := dayNames[busiestDay]
		analysis.BusiestDay = &name
	}

	return analysis
}

// percentage falls back to the raw ratio for records written without one.
func percentage(s model.CapacitySnapshot) float64 {
	if s.Percentage == 0 && s.MaxCapacity > 0 {
		return float64(s.CurrentCount) / float64(s.MaxCapacity)
	}
	return s.Percentage
}

func summarize(hour int, avg float64) *model.HourSummary {
	label := FormatHour(hour)
	percent := int(math.Round(avg * 100))
	return &model.HourSummary{
		Hour:           hour,
		Label:          label,
		AveragePercent: percent,
		Summary:        fmt.Sprintf("%s (avg %d%% full)", label, percent),
	}
}

func dataRange(snapshots []model.CapacitySnapshot) *model.DataRange {
	r := &model.DataRange{Oldest: snapshots[0].Timestamp, Newest: snapshots[0].Timestamp}
	for _, s := range snapshots[1:] {
		if s.Timestamp.Before(r.Oldest) {
			r.Oldest = s.Timestamp
		}
		if s.Timestamp.After(r.Newest) {
			r.Newest = s.Timestamp
		}
	}
	return r
}

// FormatHour renders an hour of day as a 12-hour clock label, e.g. "6:00 PM".
func FormatHour(hour int) string {
	period := "AM"
	if hour >= 12 {
		period = "PM"
	}
	display := hour
	switch {
	case hour == 0:
		display = 12
	case hour > 12:
		display = hour - 12
	}
	return fmt.Sprintf("%d:00 %s", display, period)
}
