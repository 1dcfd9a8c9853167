package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/topcarsvalley/clubd/internal/club/store"
)

// RejectedContactRetention is how long rejected contact requests are kept
// before housekeeping removes them.
const RejectedContactRetention = 90 * 24 * time.Hour

// HousekeepingService periodically clears expired invite tokens and prunes
// old rejected contact requests so neither grows without bound.
type HousekeepingService struct {
	Store    store.Store
	Logger   *slog.Logger
	Interval time.Duration

	stopCh chan struct{}
	doneCh chan struct{}
}

// NewHousekeepingService creates a housekeeping service with the given
// interval. If interval is 0 or negative, defaults to 1 hour.
func NewHousekeepingService(st store.Store, logger *slog.Logger, interval time.Duration) *HousekeepingService {
	if interval <= 0 {
		interval = 1 * time.Hour
	}

	return &HousekeepingService{
		Store:    st,
		Logger:   logger,
		Interval: interval,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start begins the background worker. Non-blocking; call Stop to shut down.
func (s *HousekeepingService) Start() {
	go s.run()
	s.Logger.Info("housekeeping service started", "interval", s.Interval)
}

// Stop shuts down the worker and blocks until any in-progress cleanup ends.
func (s *HousekeepingService) Stop() {
	close(s.stopCh)
	<-s.doneCh
	s.Logger.Info("housekeeping service stopped")
}

func (s *HousekeepingService) run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	s.cleanup()

	for {
		select {
		case <-ticker.C:
			s.cleanup()
		case <-s.stopCh:
			return
		}
	}
}

// cleanup runs each task independently; one failure doesn't stop the rest.
func (s *HousekeepingService) cleanup() {
	ctx := context.Background()
	now := time.Now().UTC()

	if err := s.Store.Identities().PurgeExpiredInviteTokens(ctx, now); err != nil {
		s.Logger.Error("failed to purge expired invite tokens", "error", err)
	} else {
		s.Logger.Debug("purged expired invite tokens")
	}

	cutoff := now.Add(-RejectedContactRetention)
	if err := s.Store.Contacts().DeleteRejectedBefore(ctx, cutoff); err != nil {
		s.Logger.Error("failed to prune rejected contact requests", "error", err)
	} else {
		s.Logger.Debug("pruned rejected contact requests")
	}
}
