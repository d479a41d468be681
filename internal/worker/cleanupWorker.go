// Package worker runs background jobs of the service.
package worker

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// DefaultInterval is how often expired uploads are removed.
const DefaultInterval = 4 * time.Hour

// Cleaner removes expired uploads and reports how many were removed.
type Cleaner interface {
	Cleanup(ctx context.Context) (int, error)
}

// CleanupWorker calls a Cleaner once at start and then periodically.
type CleanupWorker struct {
	cleaner  Cleaner
	interval time.Duration
	timeout  time.Duration
	logger   *zap.Logger
}

func NewCleanupWorker(logger *zap.Logger, cleaner Cleaner, interval time.Duration) *CleanupWorker {
	if interval <= 0 {
		interval = DefaultInterval
	}

	return &CleanupWorker{
		cleaner:  cleaner,
		interval: interval,
		timeout:  interval,
		logger:   logger,
	}
}

// Run blocks until ctx is cancelled.
func (w *CleanupWorker) Run(ctx context.Context) {
	w.logger.Info("cleanup worker started", zap.Duration("interval", w.interval))

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.runOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("cleanup worker stopped")
			return
		case <-ticker.C:
			w.runOnce(ctx)
		}
	}
}

func (w *CleanupWorker) runOnce(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()

	removed, err := w.cleaner.Cleanup(ctx)
	if err != nil {
		w.logger.Error("cleanup failed", zap.Int("removed", removed), zap.Error(err))
		return
	}

	w.logger.Debug("cleanup run", zap.Int("removed", removed))
}

// Start runs the worker in a goroutine. The returned stop cancels it and
// waits until a cleanup in progress has returned.
func (w *CleanupWorker) Start(ctx context.Context) (stop func()) {
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})

	go func() {
		defer close(done)
		w.Run(ctx)
	}()

	return func() {
		cancel()
		<-done
	}
}
