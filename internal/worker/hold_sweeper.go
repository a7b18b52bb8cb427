package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/canchago/go-court-reservation/internal/pkg/logger"
)

// HoldExpirer moves overdue holds to expired.
type HoldExpirer interface {
	ExpireOverdueHolds(ctx context.Context) (int, error)
}

// HoldSweeper periodically expires holds whose window has lapsed. The
// expiry query itself is state-guarded, so overlapping runs and races with
// confirms are harmless; the sweeper only bounds how long a dead hold stays
// visible in listings.
type HoldSweeper struct {
	expirer  HoldExpirer
	interval time.Duration
	timeout  time.Duration
	stopCh   chan struct{}
	doneCh   chan struct{}
}

func NewHoldSweeper(expirer HoldExpirer, interval time.Duration) *HoldSweeper {
	return &HoldSweeper{
		expirer:  expirer,
		interval: interval,
		timeout:  30 * time.Second,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start launches the sweep loop. One sweep runs immediately.
func (s *HoldSweeper) Start() {
	go s.run()
	logger.Info("hold sweeper started", zap.Duration("interval", s.interval))
}

// Stop signals the loop to exit and waits for the current sweep to finish.
func (s *HoldSweeper) Stop() {
	close(s.stopCh)
	<-s.doneCh
	logger.Info("hold sweeper stopped")
}

func (s *HoldSweeper) run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.sweep()
	for {
		select {
		case <-s.stopCh:
			return
		case <-ticker.C:
			s.sweep()
		}
	}
}

func (s *HoldSweeper) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	if _, err := s.expirer.ExpireOverdueHolds(ctx); err != nil {
		logger.Error("hold sweep failed", zap.Error(err))
	}
}
