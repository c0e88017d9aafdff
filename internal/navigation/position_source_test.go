package navigation

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"travel-nav-service/internal/domain"
	"travel-nav-service/internal/ports"
)

func newPositionSource(locator ports.DeviceLocator) *PositionSource {
	log := zap.NewNop()
	geocoder := NewGeocoder(&fakePrimary{}, &fakeSearcher{}, log)
	cfg := WatchConfig{
		ManualTimeout:  time.Second,
		WatchTimeout:   time.Second,
		ReverseTimeout: 50 * time.Millisecond,
	}
	return NewPositionSource(locator, geocoder, cfg, log)
}

func TestPositionSourceCurrent(t *testing.T) {
	locator := &fakeLocator{current: ports.Fix{
		Coordinate:     domain.Coordinate{Lat: 48.8584, Lng: 2.2945},
		AccuracyMeters: 8,
		At:             time.Now(),
	}}
	p := newPositionSource(locator)

	loc, err := p.Current(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.SourceGPS, loc.Source)
	// Reverse geocoding is unavailable in this setup, so the label falls
	// back to the formatted coordinate.
	assert.Equal(t, "48.8584, 2.2945", loc.Label)
}

func TestPositionSourceCurrentClassifiesErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want domain.PositionErrorKind
	}{
		{"permission denied", ports.ErrPermissionDenied, domain.PositionPermissionDenied},
		{"timeout", ports.ErrPositionTimeout, domain.PositionTimeout},
		{"unavailable", ports.ErrPositionUnavailable, domain.PositionUnavailable},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := newPositionSource(&fakeLocator{curErr: tc.err})
			_, err := p.Current(context.Background())
			var perr *domain.PositionError
			require.ErrorAs(t, err, &perr)
			assert.Equal(t, tc.want, perr.Kind)
		})
	}
}

func TestPositionSourceStartStop(t *testing.T) {
	locator := &fakeLocator{}
	p := newPositionSource(locator)

	var fixes int
	onFix := func(domain.Location) { fixes++ }
	onErr := func(error) {}

	require.NoError(t, p.Start(onFix, onErr))
	assert.True(t, p.Active())
	assert.True(t, locator.watchActive())

	// Starting an active source is a no-op and opens no second watch.
	require.NoError(t, p.Start(onFix, onErr))
	assert.Equal(t, ports.WatchID(1), locator.active)

	locator.emit(ports.Fix{Coordinate: domain.Coordinate{Lat: 1, Lng: 1}, At: time.Now()})
	assert.Equal(t, 1, fixes)

	p.Stop()
	assert.False(t, p.Active())
	assert.False(t, locator.watchActive())

	p.Stop() // idempotent
	assert.Len(t, locator.cleared, 1)
}
