package navigation

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// TrafficMonitor is a cancellable periodic task that refreshes the route
// while driving navigation is active. Ticks never overlap: if a refresh is
// still pending when the next tick is due, that tick is skipped rather
// than queued.
type TrafficMonitor struct {
	interval time.Duration
	tick     func(ctx context.Context)
	log      *zap.Logger

	mu       sync.Mutex
	stop     chan struct{}
	cancel   context.CancelFunc
	inFlight atomic.Bool
}

func NewTrafficMonitor(interval time.Duration, tick func(ctx context.Context), log *zap.Logger) *TrafficMonitor {
	if interval <= 0 {
		interval = 180 * time.Second
	}
	return &TrafficMonitor{interval: interval, tick: tick, log: log}
}

// Start begins periodic refreshing. Starting a running monitor is a no-op.
func (m *TrafficMonitor) Start() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.stop != nil {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	stop := make(chan struct{})
	m.stop = stop
	m.cancel = cancel
	m.log.Info("traffic monitor started", zap.Duration("interval", m.interval))

	go m.loop(ctx, stop)
}

// Stop cancels the periodic task and any in-flight refresh's context.
// Stopping a stopped monitor is a no-op. After Stop returns no further tick
// fires.
func (m *TrafficMonitor) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.stop == nil {
		return
	}
	close(m.stop)
	m.cancel()
	m.stop = nil
	m.cancel = nil
	m.log.Info("traffic monitor stopped")
}

// Running reports whether the monitor is active.
func (m *TrafficMonitor) Running() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stop != nil
}

func (m *TrafficMonitor) loop(ctx context.Context, stop chan struct{}) {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if !m.inFlight.CompareAndSwap(false, true) {
				m.log.Debug("traffic refresh still pending, tick skipped")
				continue
			}
			go func() {
				defer m.inFlight.Store(false)
				m.tick(ctx)
			}()
		}
	}
}
