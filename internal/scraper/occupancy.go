package scraper

import (
	"context"
	"log"
	"math"
	"net/url"
	"time"

	"gym-occupancy-backend/internal/model"
)

const sensorsUnavailableMessage = "We can’t reach the Density sensors right now. Please try again shortly."

// densityDisplay models the parts of the display resource we rely on.
type densityDisplay struct {
	DedicatedSpace *struct {
		SafeCapacity *int `json:"safe_capacity"`
		Capacity     *int `json:"capacity"`
		CurrentCount *int `json:"current_count"`
	} `json:"dedicated_space"`
	AtOrAboveThresholdText string `json:"at_or_above_threshold_text"`
	BelowThresholdText     string `json:"below_threshold_text"`
	Message                string `json:"message"`
}

// densityCount models the live count resource.
type densityCount struct {
	Count *int `json:"count"`
}

// capacity prefers safe_capacity, then capacity; non-positive values count as absent.
func (d *densityDisplay) capacity() *int {
	if d == nil || d.DedicatedSpace == nil {
		return nil
	}
	for _, c := range []*int{d.DedicatedSpace.SafeCapacity, d.DedicatedSpace.Capacity} {
		if c != nil && *c > 0 {
			v := *c
			return &v
		}
	}
	return nil
}

func (s *Service) densityURL(path string) string {
	return s.cfg.Density.BaseURL + path
}

func (s *Service) densityHeaders() map[string]string {
	return map[string]string{"Authorization": "Bearer " + s.cfg.Density.ShareToken}
}

// fetchStatus queries the display and count resources. Missing data while the
// facility is scheduled closed degrades to a "Closed" status; a failed display
// request while open is returned as an error, a failed count request while open
// degrades to "Capacity unavailable".
func (s *Service) fetchStatus(ctx context.Context) (*model.OccupancyStatus, error) {
	now := s.now()
	openNow := s.hours.IsOpen(now)

	var display densityDisplay
	displayURL := s.densityURL("/displays/" + url.PathEscape(s.cfg.Density.DisplayID))
	if err := s.client.GetJSON(ctx, providerDensity, displayURL, s.densityHeaders(), &display); err != nil {
		if !openNow {
			log.Printf("Density display unavailable while closed: %v", err)
			return s.closedStatus(now, nil), nil
		}
		return nil, err
	}
	capacity := display.capacity()

	var count densityCount
	countURL := s.densityURL("/spaces/" + url.PathEscape(s.cfg.Density.SpaceID) + "/count")
	if err := s.client.GetJSON(ctx, providerDensity, countURL, s.densityHeaders(), &count); err != nil {
		if !openNow {
			log.Printf("Density count unavailable while closed: %v", err)
			return s.closedStatus(now, capacity), nil
		}
		log.Printf("Density count unavailable while open: %v", err)
		return &model.OccupancyStatus{
			Occupancy: 0,
			Capacity:  capacity,
			Percent:   nil,
			Status:    model.StatusCapacityUnavailable,
			Message:   sensorsUnavailableMessage,
			UpdatedAt: now,
			IsOpen:    true,
			Hours:     s.hours.Display(),
		}, nil
	}

	occupancy := 0
	switch {
	case count.Count != nil:
		occupancy = *count.Count
	case display.DedicatedSpace != nil && display.DedicatedSpace.CurrentCount != nil:
		occupancy = *display.DedicatedSpace.CurrentCount
	}
	if occupancy < 0 {
		occupancy = 0
	}

	return &model.OccupancyStatus{
		Occupancy: occupancy,
		Capacity:  capacity,
		Percent:   percentOf(occupancy, capacity),
		Status:    thresholdText(&display, occupancy, capacity),
		Message:   display.Message,
		UpdatedAt: now,
		IsOpen:    openNow,
		Hours:     s.hours.Display(),
	}, nil
}

func (s *Service) closedStatus(now time.Time, capacity *int) *model.OccupancyStatus {
	return &model.OccupancyStatus{
		Occupancy: 0,
		Capacity:  capacity,
		Percent:   nil,
		Status:    model.StatusClosed,
		Message:   s.hours.ClosedMessage(),
		UpdatedAt: now,
		IsOpen:    false,
		Hours:     s.hours.Display(),
	}
}

// percentOf is nil unless capacity is positive.
func percentOf(occupancy int, capacity *int) *int {
	if capacity == nil || *capacity <= 0 {
		return nil
	}
	p := int(math.Round(float64(occupancy) / float64(*capacity) * 100))
	return &p
}

// thresholdText picks the provider's "wait" text at or above capacity and its
// "go" text otherwise. An unknown capacity is never reached.
func thresholdText(display *densityDisplay, occupancy int, capacity *int) string {
	if capacity != nil && occupancy >= *capacity {
		if display.AtOrAboveThresholdText != "" {
			return display.AtOrAboveThresholdText
		}
		return "Wait"
	}
	if display.BelowThresholdText != "" {
		return display.BelowThresholdText
	}
	return "Go"
}
