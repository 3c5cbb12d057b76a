package scheduler

import (
	"context"
	"fmt"
	"time"

	drepo "HodlCalc/internal/domain/repository"
	"HodlCalc/pkg/cache"
	xlogger "HodlCalc/pkg/logger"

	"github.com/robfig/cron/v3"
)

const (
	// DefaultRefreshSpec runs every 15 minutes. Six fields, seconds first.
	DefaultRefreshSpec = "0 */15 * * * *"

	refreshLockKey = "lock:refresh_current_price"
	refreshJob     = "refresh_current_price"
)

// Config controls the background jobs.
type Config struct {
	Enabled     bool
	RefreshSpec string
	// JobTimeout bounds a single run.
	JobTimeout time.Duration
	// RunOnStart triggers one refresh before the first tick.
	RunOnStart bool
}

// Scheduler keeps the cached current price warm.
type Scheduler struct {
	cron    *cron.Cron
	prices  drepo.PriceRepository
	locker  cache.Service
	metrics drepo.Metrics
	logger  *xlogger.Logger
	cfg     Config
	ctx     context.Context
	cancel  context.CancelFunc
}

// New builds a scheduler. locker may be nil, in which case runs are not
// coordinated across instances.
func New(cfg Config, prices drepo.PriceRepository, locker cache.Service, metrics drepo.Metrics, logger *xlogger.Logger) *Scheduler {
	if cfg.RefreshSpec == "" {
		cfg.RefreshSpec = DefaultRefreshSpec
	}
	if cfg.JobTimeout <= 0 {
		cfg.JobTimeout = 30 * time.Second
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		cron:    cron.New(cron.WithSeconds()),
		prices:  prices,
		locker:  locker,
		metrics: metrics,
		logger:  logger,
		cfg:     cfg,
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Register adds the jobs to the cron table.
func (s *Scheduler) Register() error {
	if _, err := s.cron.AddFunc(s.cfg.RefreshSpec, s.RefreshNow); err != nil {
		return fmt.Errorf("register %s: %w", refreshJob, err)
	}
	return nil
}

// Start registers the jobs and starts the cron loop. It is a no-op when the
// scheduler is disabled.
func (s *Scheduler) Start() error {
	if !s.cfg.Enabled {
		s.logger.Info("scheduler disabled")
		return nil
	}
	if err := s.Register(); err != nil {
		return err
	}
	s.cron.Start()
	s.logger.Info("scheduler started", xlogger.String("refresh_spec", s.cfg.RefreshSpec))

	if s.cfg.RunOnStart {
		go s.RefreshNow()
	}
	return nil
}

// Stop halts the cron loop and waits for running jobs.
func (s *Scheduler) Stop() {
	s.cancel()
	<-s.cron.Stop().Done()
	s.logger.Info("scheduler stopped")
}

// RefreshNow fetches a fresh current price into the cache. Errors are
// logged and counted.
func (s *Scheduler) RefreshNow() {
	ctx, cancel := context.WithTimeout(s.ctx, s.cfg.JobTimeout)
	defer cancel()

	if s.locker != nil {
		ok, err := s.locker.TryLock(ctx, refreshLockKey, s.cfg.JobTimeout)
		if err != nil {
			s.logger.Warn("refresh lock failed", xlogger.Error(err))
		} else if !ok {
			s.logger.Debug("refresh already running elsewhere")
			return
		} else {
			defer func() {
				if err := s.locker.Unlock(context.Background(), refreshLockKey); err != nil {
					s.logger.Warn("refresh unlock failed", xlogger.Error(err))
				}
			}()
		}
	}

	start := time.Now()
	q, err := s.prices.RefreshCurrent(ctx)
	s.metrics.RecordLatency(refreshJob, time.Since(start).Seconds())
	if err != nil {
		s.metrics.RecordError(refreshJob)
		s.logger.Error("refresh current price failed", xlogger.Error(err))
		return
	}
	s.logger.Info("current price refreshed",
		xlogger.Float64("price", q.Price),
		xlogger.String("source", q.Source),
		xlogger.Duration("took", time.Since(start)),
	)
}
