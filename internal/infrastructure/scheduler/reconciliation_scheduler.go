// Package scheduler runs the background payment reconciliation sweep.
package scheduler

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/luxemart/storefront/internal/infrastructure/config"
)

// sweepTimeout bounds a single reconciliation pass
const sweepTimeout = 2 * time.Minute

// Reconciler sweeps payments stuck in the initialized state and returns
// how many were touched
type Reconciler interface {
	ReconcileStalePayments(ctx context.Context, batchSize int) (int, error)
}

// ReconciliationScheduler periodically invokes the reconciler so that
// payments whose webhook or confirmation poll never arrived still reach
// a terminal state
type ReconciliationScheduler struct {
	config     config.ReconcilerConfig
	reconciler Reconciler
	logger     *zap.Logger

	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool

	lastRunAt *time.Time
}

// NewReconciliationScheduler creates a scheduler instance
func NewReconciliationScheduler(cfg config.ReconcilerConfig, reconciler Reconciler, logger *zap.Logger) *ReconciliationScheduler {
	return &ReconciliationScheduler{
		config:     cfg,
		reconciler: reconciler,
		logger:     logger,
	}
}

// Start begins the sweep loop. It is a no-op when the scheduler is
// disabled or already running.
func (s *ReconciliationScheduler) Start(ctx context.Context) error {
	if !s.config.Enabled {
		s.logger.Info("Payment reconciliation scheduler disabled")
		return nil
	}

	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = true
	s.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.wg.Add(1)
	go s.loop(ctx)

	s.logger.Info("Payment reconciliation scheduler started",
		zap.Duration("interval", s.config.Interval),
		zap.Int("batch_size", s.config.BatchSize),
	)
	return nil
}

// Stop gracefully stops the scheduler, waiting for an in-flight sweep
// to finish or the context to expire
func (s *ReconciliationScheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("Payment reconciliation scheduler stopped")
		return nil
	case <-ctx.Done():
		s.logger.Warn("Payment reconciliation scheduler stop timed out")
		return ctx.Err()
	}
}

// TriggerSweep runs one reconciliation pass immediately
func (s *ReconciliationScheduler) TriggerSweep(ctx context.Context) (int, error) {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return 0, ErrSchedulerNotRunning
	}
	s.mu.Unlock()

	return s.sweep(ctx)
}

// LastRunAt returns when the last sweep started
func (s *ReconciliationScheduler) LastRunAt() *time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastRunAt
}

func (s *ReconciliationScheduler) loop(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.sweep(ctx); err != nil {
				s.logger.Error("Payment reconciliation sweep failed", zap.Error(err))
			}
		}
	}
}

func (s *ReconciliationScheduler) sweep(ctx context.Context) (int, error) {
	now := time.Now()
	s.mu.Lock()
	s.lastRunAt = &now
	s.mu.Unlock()

	sweepCtx, cancel := context.WithTimeout(ctx, sweepTimeout)
	defer cancel()

	touched, err := s.reconciler.ReconcileStalePayments(sweepCtx, s.config.BatchSize)
	if err != nil {
		return touched, err
	}
	if touched > 0 {
		s.logger.Info("Payment reconciliation sweep finished",
			zap.Int("payments_touched", touched),
		)
	} else {
		s.logger.Debug("Payment reconciliation sweep found nothing to do")
	}
	return touched, nil
}
