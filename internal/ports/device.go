package ports

import (
	"context"
	"errors"
	"time"

	"travel-nav-service/internal/domain"
)

// Sentinel errors locators use to signal the device API's failure kinds.
// The position source maps these onto the domain error taxonomy.
var (
	ErrPermissionDenied    = errors.New("device location permission denied")
	ErrPositionTimeout     = errors.New("device location timed out")
	ErrPositionUnavailable = errors.New("device location unavailable")
)

// Fix is one raw position report from the device location API.
type Fix struct {
	Coordinate     domain.Coordinate
	AccuracyMeters float64
	At             time.Time
}

// FixOptions mirrors the device API's position options.
type FixOptions struct {
	HighAccuracy bool
	Timeout      time.Duration
	MaximumAge   time.Duration
}

// WatchID identifies an open continuous watch.
type WatchID int64

// DeviceLocator abstracts the device location API. Watches deliver fixes in
// the order the device emits them; ClearWatch must be safe to call for an
// already cleared id.
type DeviceLocator interface {
	CurrentPosition(ctx context.Context, opts FixOptions) (Fix, error)
	WatchPosition(opts FixOptions, onFix func(Fix), onErr func(error)) (WatchID, error)
	ClearWatch(id WatchID)
}
