package scraper

import (
	"context"
	"sync"
	"time"

	"gym-occupancy-backend/config"
	"gym-occupancy-backend/internal/cache"
	"gym-occupancy-backend/internal/hours"
	"gym-occupancy-backend/internal/model"
)

const (
	providerDensity  = "density"
	providerMindbody = "mindbody"

	weightroomCacheKey    = "weightroom"
	classesCacheKeyPrefix = "classes:"

	defaultObserverTimeout = 10 * time.Second
)

// StatusObserver is told about every freshly fetched status, i.e. once per
// cache miss. Observers run in the background after the status is cached, so
// they never delay or fail the request; they log their own errors.
type StatusObserver interface {
	Observe(ctx context.Context, status *model.OccupancyStatus)
}

// Service fetches and caches weight room status and class schedules.
type Service struct {
	cfg       *config.Config
	client    *Client
	hours     *hours.Schedule
	cache     cache.Store
	observers []StatusObserver
	now       func() time.Time

	observerTimeout time.Duration
	pending         sync.WaitGroup
}

// NewService creates the ingestion service. Each observer runs after a status
// is fetched from the providers.
func NewService(cfg *config.Config, schedule *hours.Schedule, store cache.Store, observers ...StatusObserver) *Service {
	return &Service{
		cfg:       cfg,
		client:    NewClient(cfg.Upstream),
		hours:     schedule,
		cache:     store,
		observers: observers,
		now:       time.Now,

		observerTimeout: defaultObserverTimeout,
	}
}

// Hours returns the facility schedule the service evaluates.
func (s *Service) Hours() *hours.Schedule {
	return s.hours
}

// LoadStatus returns the current weight room status, reusing a cached value
// younger than the configured TTL.
func (s *Service) LoadStatus(ctx context.Context) (*model.OccupancyStatus, error) {
	var fresh *model.OccupancyStatus
	status, err := cache.GetOrLoad(ctx, s.cache, weightroomCacheKey, s.cfg.Cache.WeightroomTTL, func(ctx context.Context) (*model.OccupancyStatus, error) {
		st, err := s.fetchStatus(ctx)
		fresh = st
		return st, err
	})
	if err != nil {
		return nil, err
	}
	if fresh != nil {
		s.notify(ctx, fresh)
	}
	return status, nil
}

// notify hands a freshly cached status to the observers on a background
// goroutine. They share one context bounded by observerTimeout and detached
// from the request.
func (s *Service) notify(ctx context.Context, status *model.OccupancyStatus) {
	if len(s.observers) == 0 {
		return
	}

	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		observeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.observerTimeout)
		defer cancel()
		for _, o := range s.observers {
			o.Observe(observeCtx, status)
		}
	}()
}

// Wait blocks until every observer started so far has returned.
func (s *Service) Wait() {
	s.pending.Wait()
}

// LoadSchedule returns the class schedule starting at startDate (YYYY-MM-DD),
// cached per date.
func (s *Service) LoadSchedule(ctx context.Context, startDate string) (*model.ClassSchedule, error) {
	return cache.GetOrLoad(ctx, s.cache, classesCacheKeyPrefix+startDate, s.cfg.Cache.ClassesTTL, func(ctx context.Context) (*model.ClassSchedule, error) {
		return s.fetchSchedule(ctx, startDate)
	})
}
