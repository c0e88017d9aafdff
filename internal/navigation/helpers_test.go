package navigation

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"travel-nav-service/internal/domain"
	"travel-nav-service/internal/ports"
)

// fakePrimary is a scripted primary geocoding provider counting calls.
type fakePrimary struct {
	mu           sync.Mutex
	result       ports.GeocodeResult
	err          error
	calls        int
	reverse      ports.GeocodeResult
	reverseErr   error
	reverseCalls int
}

func (f *fakePrimary) Geocode(_ context.Context, _ string) (ports.GeocodeResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.result, f.err
}

func (f *fakePrimary) ReverseGeocode(_ context.Context, _ domain.Coordinate) (ports.GeocodeResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reverseCalls++
	return f.reverse, f.reverseErr
}

func (f *fakePrimary) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// fakeSearcher is a scripted secondary provider counting calls.
type fakeSearcher struct {
	mu      sync.Mutex
	results []ports.PlaceResult
	err     error
	calls   int
}

func (f *fakeSearcher) Search(_ context.Context, _ string) ([]ports.PlaceResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.results, f.err
}

func (f *fakeSearcher) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// fakeRouting is a scripted routing provider. When gate is non-nil every
// call blocks until a value is received, so tests can overlap computations
// deterministically.
type fakeRouting struct {
	mu      sync.Mutex
	status  string
	legs    []ports.RouteLeg
	routes  int
	err     error
	calls   int
	started chan struct{}
	gate    chan struct{}
	// byOrigin, when set, encodes the request origin latitude into the
	// leg distance so tests can tell which request produced a result.
	byOrigin bool
}

func (f *fakeRouting) Route(_ context.Context, req ports.RouteRequest) (ports.RouteResponse, error) {
	f.mu.Lock()
	f.calls++
	status := f.status
	legs := append([]ports.RouteLeg(nil), f.legs...)
	routes := f.routes
	err := f.err
	started := f.started
	gate := f.gate
	if f.byOrigin {
		legs = []ports.RouteLeg{{
			DistanceMeters: int(req.Origin.Lat * 1000),
			Duration:       10 * time.Minute,
		}}
	}
	f.mu.Unlock()

	if started != nil {
		started <- struct{}{}
	}
	if gate != nil {
		<-gate
	}

	if err != nil {
		return ports.RouteResponse{}, err
	}
	if routes == 0 {
		routes = 1
	}
	res := ports.RouteResponse{Status: status}
	for i := 0; i < routes; i++ {
		res.Routes = append(res.Routes, ports.ProviderRoute{Legs: legs})
	}
	return res, nil
}

func (f *fakeRouting) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// fakeLocator records watches and lets tests push fixes through callbacks.
// When watchStarted/watchGate are set, WatchPosition signals and then parks
// until the gate closes, so tests can interleave other calls with an open
// in flight.
type fakeLocator struct {
	mu           sync.Mutex
	nextID       ports.WatchID
	onFix        func(ports.Fix)
	onErr        func(error)
	active       ports.WatchID
	cleared      []ports.WatchID
	current      ports.Fix
	curErr       error
	watchStarted chan struct{}
	watchGate    chan struct{}
}

func (f *fakeLocator) CurrentPosition(_ context.Context, _ ports.FixOptions) (ports.Fix, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.current, f.curErr
}

func (f *fakeLocator) WatchPosition(_ ports.FixOptions, onFix func(ports.Fix), onErr func(error)) (ports.WatchID, error) {
	f.mu.Lock()
	started := f.watchStarted
	gate := f.watchGate
	f.mu.Unlock()
	if started != nil {
		started <- struct{}{}
	}
	if gate != nil {
		<-gate
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	f.active = f.nextID
	f.onFix = onFix
	f.onErr = onErr
	return f.nextID, nil
}

func (f *fakeLocator) ClearWatch(id ports.WatchID) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cleared = append(f.cleared, id)
	if f.active == id {
		f.active = 0
		f.onFix = nil
		f.onErr = nil
	}
}

func (f *fakeLocator) emit(fix ports.Fix) {
	f.mu.Lock()
	cb := f.onFix
	f.mu.Unlock()
	if cb != nil {
		cb(fix)
	}
}

func (f *fakeLocator) emitErr(err error) {
	f.mu.Lock()
	cb := f.onErr
	f.mu.Unlock()
	if cb != nil {
		cb(err)
	}
}

func (f *fakeLocator) fixCallback() func(ports.Fix) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.onFix
}

func (f *fakeLocator) watchActive() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.active != 0
}

type sessionFixture struct {
	session *Session
	primary *fakePrimary
	search  *fakeSearcher
	routing *fakeRouting
	locator *fakeLocator
}

func newSessionFixture(trafficInterval time.Duration) *sessionFixture {
	log := zap.NewNop()
	primary := &fakePrimary{}
	search := &fakeSearcher{}
	routing := &fakeRouting{status: ports.StatusOK, legs: []ports.RouteLeg{{
		DistanceMeters: 5000,
		Duration:       10 * time.Minute,
	}}}
	locator := &fakeLocator{}

	geocoder := NewGeocoder(primary, search, log)
	calc := NewRouteCalculator(routing, log)
	cfg := SessionConfig{
		TrafficInterval: trafficInterval,
		Watch: WatchConfig{
			ManualTimeout:  time.Second,
			WatchTimeout:   time.Second,
			ReverseTimeout: 50 * time.Millisecond,
		},
	}

	return &sessionFixture{
		session: NewSession(uuid.New(), geocoder, locator, calc, nil, cfg, log),
		primary: primary,
		search:  search,
		routing: routing,
		locator: locator,
	}
}

func parisDestination() domain.Location {
	return domain.Location{
		Coordinate: domain.Coordinate{Lat: 48.8566, Lng: 2.3522},
		Label:      "Paris",
		Timestamp:  time.Now(),
		Source:     domain.SourcePatternMatch,
	}
}
