package device

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"travel-nav-service/internal/domain"
	"travel-nav-service/internal/ports"
)

// ScriptFix is one entry of a replay script file.
type ScriptFix struct {
	Lat            float64 `json:"lat"`
	Lng            float64 `json:"lng"`
	AccuracyMeters float64 `json:"accuracy_m"`
}

// ReplayLocator implements ports.DeviceLocator by replaying a scripted
// sequence of fixes at a fixed interval. It stands in for a real device
// location API in a headless deployment and in demos.
type ReplayLocator struct {
	mu       sync.Mutex
	fixes    []ScriptFix
	interval time.Duration
	nextID   ports.WatchID
	watches  map[ports.WatchID]chan struct{}
}

func NewReplayLocator(fixes []ScriptFix, interval time.Duration) *ReplayLocator {
	if interval <= 0 {
		interval = 2 * time.Second
	}
	return &ReplayLocator{
		fixes:    fixes,
		interval: interval,
		watches:  make(map[ports.WatchID]chan struct{}),
	}
}

// LoadScript reads a replay script: a JSON array of fixes.
func LoadScript(path string) ([]ScriptFix, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read replay script %q: %w", path, err)
	}
	var fixes []ScriptFix
	if err := json.Unmarshal(raw, &fixes); err != nil {
		return nil, fmt.Errorf("parse replay script %q: %w", path, err)
	}
	return fixes, nil
}

func (r *ReplayLocator) fix(i int) (ports.Fix, error) {
	sf := r.fixes[i%len(r.fixes)]
	coord, err := domain.NewCoordinate(sf.Lat, sf.Lng)
	if err != nil {
		return ports.Fix{}, fmt.Errorf("%w: %v", ports.ErrPositionUnavailable, err)
	}
	return ports.Fix{Coordinate: coord, AccuracyMeters: sf.AccuracyMeters, At: time.Now()}, nil
}

func (r *ReplayLocator) CurrentPosition(ctx context.Context, _ ports.FixOptions) (ports.Fix, error) {
	if err := ctx.Err(); err != nil {
		return ports.Fix{}, fmt.Errorf("%w: %v", ports.ErrPositionTimeout, err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.fixes) == 0 {
		return ports.Fix{}, ports.ErrPositionUnavailable
	}
	return r.fix(0)
}

func (r *ReplayLocator) WatchPosition(_ ports.FixOptions, onFix func(ports.Fix), onErr func(error)) (ports.WatchID, error) {
	r.mu.Lock()
	if len(r.fixes) == 0 {
		r.mu.Unlock()
		return 0, ports.ErrPositionUnavailable
	}
	r.nextID++
	id := r.nextID
	stop := make(chan struct{})
	r.watches[id] = stop
	r.mu.Unlock()

	go func() {
		ticker := time.NewTicker(r.interval)
		defer ticker.Stop()
		i := 0
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				fix, err := r.fix(i)
				i++
				if err != nil {
					onErr(err)
					continue
				}
				onFix(fix)
			}
		}
	}()

	return id, nil
}

// ClearWatch stops the watch goroutine. Safe for unknown or already
// cleared ids.
func (r *ReplayLocator) ClearWatch(id ports.WatchID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if stop, ok := r.watches[id]; ok {
		close(stop)
		delete(r.watches, id)
	}
}

var _ ports.DeviceLocator = (*ReplayLocator)(nil)
