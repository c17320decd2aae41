package scraper

import (
	"context"
	"fmt"
	"log"

	"github.com/robfig/cron/v3"

	"gym-occupancy-backend/config"
	"gym-occupancy-backend/internal/model"
)

// StatusLoader is the part of Service the collector drives.
type StatusLoader interface {
	LoadStatus(ctx context.Context) (*model.OccupancyStatus, error)
}

// Collector refreshes the weight room status on a cron schedule so snapshots
// keep accumulating when no client is asking.
type Collector struct {
	cfg    config.CollectorConfig
	loader StatusLoader
}

// NewCollector creates a collector. The schedule is validated by Run.
func NewCollector(cfg config.CollectorConfig, loader StatusLoader) *Collector {
	return &Collector{cfg: cfg, loader: loader}
}

// Run collects once, then on every scheduled tick until ctx is cancelled.
func (c *Collector) Run(ctx context.Context) error {
	if !c.cfg.Enabled {
		log.Println("Collector is disabled. Not starting.")
		return nil
	}

	scheduler := cron.New()
	if _, err := scheduler.AddFunc(c.cfg.Schedule, func() { c.CollectOnce(ctx) }); err != nil {
		return fmt.Errorf("invalid collector schedule %q: %w", c.cfg.Schedule, err)
	}

	log.Printf("Starting collector with schedule %q", c.cfg.Schedule)
	c.CollectOnce(ctx)
	scheduler.Start()

	<-ctx.Done()
	log.Println("Collector shutting down.")
	<-scheduler.Stop().Done()
	return nil
}

// CollectOnce asks for the current status. A cached status records nothing.
func (c *Collector) CollectOnce(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	status, err := c.loader.LoadStatus(ctx)
	if err != nil {
		log.Printf("Collector failed to load status: %v", err)
		return
	}
	log.Printf("Collected status: %d occupants, open=%t", status.Occupancy, status.IsOpen)
}
