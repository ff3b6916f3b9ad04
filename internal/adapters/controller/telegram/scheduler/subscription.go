package scheduler

import (
	"context"
	"errors"
	"time"

	"github.com/membify/membify-bot/internal/domain/common/errorz"
	"github.com/membify/membify-bot/internal/domain/service"
	"github.com/membify/membify-bot/pkg/logger/types"
)

const scanLockName = "subscription_scan"

type scanService interface {
	Run(ctx context.Context) (service.ScanSummary, error)
}

type lockStorage interface {
	Acquire(ctx context.Context, name string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, name string) error
}

// SubscriptionScheduler runs the lifecycle scan on a fixed interval. A redis
// lease keeps scheduled ticks and manual triggers from overlapping.
type SubscriptionScheduler struct {
	scan     scanService
	locks    lockStorage
	interval time.Duration
	logger   *types.Logger
}

func New(scan scanService, locks lockStorage, interval time.Duration, logger *types.Logger) *SubscriptionScheduler {
	if interval <= 0 {
		interval = time.Hour
	}
	return &SubscriptionScheduler{
		scan:     scan,
		locks:    locks,
		interval: interval,
		logger:   logger,
	}
}

// Start launches the periodic scan loop.
func (s *SubscriptionScheduler) Start(ctx context.Context) {
	s.logger.Info("Starting subscription scan scheduler")
	go func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if _, err := s.RunOnce(ctx); err != nil && !errors.Is(err, errorz.ErrScanLocked) {
					s.logger.Errorf("scheduled scan failed: %v", err)
				}
			case <-ctx.Done():
				return
			}
		}
	}()
}

// RunOnce executes a single scan pass under the run lease. Returns
// errorz.ErrScanLocked when another scan is already in flight.
func (s *SubscriptionScheduler) RunOnce(ctx context.Context) (service.ScanSummary, error) {
	acquired, err := s.locks.Acquire(ctx, scanLockName, s.interval)
	if err != nil {
		// A redis outage must not stop the lifecycle scan.
		s.logger.Warnf("failed to acquire scan lease, proceeding unlocked: %v", err)
	} else if !acquired {
		s.logger.Info("scan lease is held, skipping run")
		return service.ScanSummary{}, errorz.ErrScanLocked
	} else {
		defer func() {
			if errRelease := s.locks.Release(context.Background(), scanLockName); errRelease != nil {
				s.logger.Warnf("failed to release scan lease: %v", errRelease)
			}
		}()
	}

	return s.scan.Run(ctx)
}
