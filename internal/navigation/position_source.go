package navigation

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"travel-nav-service/internal/domain"
	"travel-nav-service/internal/ports"
)

// PositionSource wraps the device location API for one session. It owns the
// watch id (never package-level state) and labels every fix by best-effort
// reverse geocoding before publishing it.
type PositionSource struct {
	locator        ports.DeviceLocator
	geocoder       *Geocoder
	log            *zap.Logger
	manualTimeout  time.Duration
	watchTimeout   time.Duration
	reverseTimeout time.Duration

	mu      sync.Mutex
	watchID ports.WatchID
	active  bool
}

func NewPositionSource(locator ports.DeviceLocator, geocoder *Geocoder, cfg WatchConfig, log *zap.Logger) *PositionSource {
	return &PositionSource{
		locator:        locator,
		geocoder:       geocoder,
		log:            log,
		manualTimeout:  cfg.ManualTimeout,
		watchTimeout:   cfg.WatchTimeout,
		reverseTimeout: cfg.ReverseTimeout,
	}
}

// WatchConfig bounds device queries so they surface timeouts instead of
// hanging indefinitely.
type WatchConfig struct {
	ManualTimeout  time.Duration
	WatchTimeout   time.Duration
	ReverseTimeout time.Duration
}

// DefaultWatchConfig matches the engine's documented bounds.
func DefaultWatchConfig() WatchConfig {
	return WatchConfig{
		ManualTimeout:  10 * time.Second,
		WatchTimeout:   15 * time.Second,
		ReverseTimeout: 3 * time.Second,
	}
}

// Current performs a one-shot device query bounded by the manual timeout.
func (p *PositionSource) Current(ctx context.Context) (domain.Location, error) {
	ctx, cancel := context.WithTimeout(ctx, p.manualTimeout)
	defer cancel()

	fix, err := p.locator.CurrentPosition(ctx, ports.FixOptions{
		HighAccuracy: true,
		Timeout:      p.manualTimeout,
	})
	if err != nil {
		return domain.Location{}, classifyPositionErr(err)
	}
	return p.locationFromFix(fix), nil
}

// Start opens the continuous watch. Starting an already active source is a
// no-op; the session guarantees the mutual exclusion between tracking modes
// by stopping the previous source before starting a new one.
func (p *PositionSource) Start(onUpdate func(domain.Location), onErr func(error)) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.active {
		return nil
	}

	id, err := p.locator.WatchPosition(
		ports.FixOptions{HighAccuracy: true, Timeout: p.watchTimeout, MaximumAge: 5 * time.Second},
		func(fix ports.Fix) { onUpdate(p.locationFromFix(fix)) },
		func(err error) { onErr(classifyPositionErr(err)) },
	)
	if err != nil {
		return classifyPositionErr(err)
	}

	p.watchID = id
	p.active = true
	p.log.Info("position watch started", zap.Int64("watch_id", int64(id)))
	return nil
}

// Stop releases the underlying watch. Idempotent.
func (p *PositionSource) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.active {
		return
	}
	p.locator.ClearWatch(p.watchID)
	p.log.Info("position watch stopped", zap.Int64("watch_id", int64(p.watchID)))
	p.active = false
	p.watchID = 0
}

func (p *PositionSource) Active() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.active
}

// locationFromFix labels the coordinate by reverse geocoding; a labelling
// failure never blocks publishing the coordinate.
func (p *PositionSource) locationFromFix(fix ports.Fix) domain.Location {
	ctx, cancel := context.WithTimeout(context.Background(), p.reverseTimeout)
	defer cancel()

	return domain.Location{
		Coordinate: fix.Coordinate,
		Label:      p.geocoder.ReverseLabel(ctx, fix.Coordinate),
		Timestamp:  fix.At,
		Source:     domain.SourceGPS,
	}
}

func classifyPositionErr(err error) *domain.PositionError {
	kind := domain.PositionUnavailable
	switch {
	case errors.Is(err, ports.ErrPermissionDenied):
		kind = domain.PositionPermissionDenied
	case errors.Is(err, ports.ErrPositionTimeout), errors.Is(err, context.DeadlineExceeded):
		kind = domain.PositionTimeout
	}
	return &domain.PositionError{Kind: kind, Err: err}
}
