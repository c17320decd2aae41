package api

import (
	"context"
	"time"

	"github.com/SherClockHolmes/webpush-go"

	"gym-occupancy-backend/internal/hours"
	"gym-occupancy-backend/internal/model"
	"gym-occupancy-backend/internal/store"
)

// OccupancyService loads the live status and the class schedule.
type OccupancyService interface {
	LoadStatus(ctx context.Context) (*model.OccupancyStatus, error)
	LoadSchedule(ctx context.Context, startDate string) (*model.ClassSchedule, error)
}

// PeakAnalyzer computes peak hours from the snapshot history.
type PeakAnalyzer interface {
	Analyze(ctx context.Context) (model.PeakHoursAnalysis, error)
}

// Handler holds shared dependencies for API handlers.
type Handler struct {
	service   OccupancyService
	hours     *hours.Schedule
	peak      PeakAnalyzer
	snapshots store.SnapshotStore
	subs      store.SubscriptionStore
	webpush   *webpush.Options
	now       func() time.Time
}

// Options configures a Handler. Subscriptions and Webpush stay nil when push
// alerts are disabled.
type Options struct {
	Service       OccupancyService
	Hours         *hours.Schedule
	Peak          PeakAnalyzer
	Snapshots     store.SnapshotStore
	Subscriptions store.SubscriptionStore
	Webpush       *webpush.Options
}

// NewHandler creates a new API handler.
func NewHandler(opts Options) *Handler {
	return &Handler{
		service:   opts.Service,
		hours:     opts.Hours,
		peak:      opts.Peak,
		snapshots: opts.Snapshots,
		subs:      opts.Subscriptions,
		webpush:   opts.Webpush,
		now:       time.Now,
	}
}
