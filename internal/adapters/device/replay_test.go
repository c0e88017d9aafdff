package device

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"travel-nav-service/internal/ports"
)

var testScript = []ScriptFix{
	{Lat: 48.8584, Lng: 2.2945, AccuracyMeters: 5},
	{Lat: 48.8590, Lng: 2.3000, AccuracyMeters: 8},
	{Lat: 48.8600, Lng: 2.3100, AccuracyMeters: 5},
}

func TestReplayCurrentPosition(t *testing.T) {
	r := NewReplayLocator(testScript, 10*time.Millisecond)

	fix, err := r.CurrentPosition(context.Background(), ports.FixOptions{})
	require.NoError(t, err)
	assert.InDelta(t, 48.8584, fix.Coordinate.Lat, 0.0001)
	assert.Equal(t, 5.0, fix.AccuracyMeters)
	assert.False(t, fix.At.IsZero())
}

func TestReplayCurrentPositionEmptyScript(t *testing.T) {
	r := NewReplayLocator(nil, 10*time.Millisecond)

	_, err := r.CurrentPosition(context.Background(), ports.FixOptions{})
	assert.ErrorIs(t, err, ports.ErrPositionUnavailable)
}

func TestReplayCurrentPositionExpiredContext(t *testing.T) {
	r := NewReplayLocator(testScript, 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := r.CurrentPosition(ctx, ports.FixOptions{})
	assert.ErrorIs(t, err, ports.ErrPositionTimeout)
}

func TestReplayWatchEmitsScriptInOrder(t *testing.T) {
	r := NewReplayLocator(testScript, 5*time.Millisecond)

	var mu sync.Mutex
	var fixes []ports.Fix
	id, err := r.WatchPosition(ports.FixOptions{}, func(f ports.Fix) {
		mu.Lock()
		fixes = append(fixes, f)
		mu.Unlock()
	}, func(error) {})
	require.NoError(t, err)
	defer r.ClearWatch(id)

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(fixes) >= 4
	}, time.Second, time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.InDelta(t, 48.8584, fixes[0].Coordinate.Lat, 0.0001)
	assert.InDelta(t, 48.8590, fixes[1].Coordinate.Lat, 0.0001)
	assert.InDelta(t, 48.8600, fixes[2].Coordinate.Lat, 0.0001)
	// The script wraps around when exhausted.
	assert.InDelta(t, 48.8584, fixes[3].Coordinate.Lat, 0.0001)
}

func TestReplayClearWatchStopsEmission(t *testing.T) {
	r := NewReplayLocator(testScript, 5*time.Millisecond)

	var n int
	var mu sync.Mutex
	id, err := r.WatchPosition(ports.FixOptions{}, func(ports.Fix) {
		mu.Lock()
		n++
		mu.Unlock()
	}, func(error) {})
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return n >= 1
	}, time.Second, time.Millisecond)

	r.ClearWatch(id)
	mu.Lock()
	seen := n
	mu.Unlock()

	time.Sleep(30 * time.Millisecond)
	mu.Lock()
	defer mu.Unlock()
	assert.LessOrEqual(t, n, seen+1, "at most one in-flight fix after ClearWatch")

	// Clearing twice, or clearing an unknown id, is safe.
	r.ClearWatch(id)
	r.ClearWatch(999)
}

func TestReplayWatchEmptyScript(t *testing.T) {
	r := NewReplayLocator(nil, 5*time.Millisecond)

	_, err := r.WatchPosition(ports.FixOptions{}, func(ports.Fix) {}, func(error) {})
	assert.ErrorIs(t, err, ports.ErrPositionUnavailable)
}

func TestLoadScript(t *testing.T) {
	path := filepath.Join(t.TempDir(), "route.json")
	require.NoError(t, os.WriteFile(path, []byte(`[
		{"lat": 48.8584, "lng": 2.2945, "accuracy_m": 5},
		{"lat": 48.8590, "lng": 2.3000, "accuracy_m": 8}
	]`), 0o600))

	fixes, err := LoadScript(path)
	require.NoError(t, err)
	require.Len(t, fixes, 2)
	assert.Equal(t, 48.859, fixes[1].Lat)

	_, err = LoadScript(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
