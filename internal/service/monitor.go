package service

import (
	"context"
	"sync"
	"time"

	"github.com/flrdepot/crm-backend/internal/logger"
	"go.uber.org/zap"
)

// ThresholdMonitor runs the notification checks on a fixed interval.
type ThresholdMonitor struct {
	svc      NotificationService
	interval time.Duration
}

func NewThresholdMonitor(svc NotificationService, interval time.Duration) *ThresholdMonitor {
	return &ThresholdMonitor{svc: svc, interval: interval}
}

// Start launches the loop and returns a stop function that waits for the
// in-flight run to finish or ctx to expire.
func (m *ThresholdMonitor) Start() func(context.Context) error {
	if m.interval <= 0 {
		return func(context.Context) error { return nil }
	}
	stopCh := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		ticker := time.NewTicker(m.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				m.runOnce()
			case <-stopCh:
				return
			}
		}
	}()

	var once sync.Once
	return func(ctx context.Context) error {
		once.Do(func() { close(stopCh) })
		done := make(chan struct{})
		go func() {
			wg.Wait()
			close(done)
		}()
		select {
		case <-done:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (m *ThresholdMonitor) runOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), m.interval)
	defer cancel()
	n, err := m.svc.RunChecks(ctx)
	if err != nil {
		logger.Error("threshold check failed", zap.Error(err))
		return
	}
	logger.Debug("threshold check done", zap.Int("alerts", n))
}
