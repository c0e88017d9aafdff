package navigation

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"travel-nav-service/internal/domain"
	"travel-nav-service/internal/ports"
)

// State is the navigation session's mode. Modelled as a closed variant so
// the two tracking modes cannot both be active.
type State int

const (
	StateIdle State = iota
	StateLocationSet
	StateNavigatingGPS
	StateNavigatingManual
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLocationSet:
		return "location_set"
	case StateNavigatingGPS:
		return "navigating_gps"
	case StateNavigatingManual:
		return "navigating_manual"
	default:
		return "unknown"
	}
}

func (s State) navigating() bool {
	return s == StateNavigatingGPS || s == StateNavigatingManual
}

// ErrNoLocation is returned when navigation is requested before a current
// position exists.
var ErrNoLocation = errors.New("no current location set")

// ErrNoDestination is returned when navigation is requested before a
// destination exists.
var ErrNoDestination = errors.New("no destination set")

// Session is the aggregate root of one navigation feature instance. It owns
// the position source, the traffic monitor, and all state transitions; no
// other component writes its fields.
//
// Route results are tagged with the origin coordinate and an epoch counter
// captured when the computation started; a result whose tag no longer
// matches the latest state is discarded (last write wins by recency, not by
// response-arrival order).
type Session struct {
	id        uuid.UUID
	geocoder  *Geocoder
	positions *PositionSource
	routes    *RouteCalculator
	monitor   *TrafficMonitor
	events    *Broadcaster
	notifier  ports.Notifier
	log       *zap.Logger

	mu               sync.Mutex
	state            State
	current          *domain.Location
	destination      *domain.Location
	mode             domain.TravelMode
	route            *domain.Route
	routeChangeCount int
	epoch            uint64
	closed           bool
}

// SessionConfig carries the engine timing knobs.
type SessionConfig struct {
	TrafficInterval time.Duration
	Watch           WatchConfig
}

// DefaultSessionConfig returns the documented defaults (180s refresh).
func DefaultSessionConfig() SessionConfig {
	return SessionConfig{
		TrafficInterval: 180 * time.Second,
		Watch:           DefaultWatchConfig(),
	}
}

func NewSession(
	id uuid.UUID,
	geocoder *Geocoder,
	locator ports.DeviceLocator,
	routes *RouteCalculator,
	notifier ports.Notifier,
	cfg SessionConfig,
	log *zap.Logger,
) *Session {
	s := &Session{
		id:       id,
		geocoder: geocoder,
		routes:   routes,
		events:   NewBroadcaster(),
		notifier: notifier,
		log:      log.With(zap.String("session_id", id.String())),
		state:    StateIdle,
		mode:     domain.ModeDriving,
	}
	s.positions = NewPositionSource(locator, geocoder, cfg.Watch, s.log)
	s.monitor = NewTrafficMonitor(cfg.TrafficInterval, s.trafficTick, s.log)
	return s
}

func (s *Session) ID() uuid.UUID { return s.id }

// Events returns the session's event broadcaster for subscribers.
func (s *Session) Events() *Broadcaster { return s.events }

// SessionView is a read-only snapshot for the renderer.
type SessionView struct {
	ID               uuid.UUID        `json:"id"`
	State            string           `json:"state"`
	Mode             string           `json:"mode"`
	Current          *domain.Location `json:"current,omitempty"`
	Destination      *domain.Location `json:"destination,omitempty"`
	Route            *domain.Route    `json:"route,omitempty"`
	RouteChangeCount int              `json:"route_change_count"`
}

// Snapshot copies the observable state.
func (s *Session) Snapshot() SessionView {
	s.mu.Lock()
	defer s.mu.Unlock()
	v := SessionView{
		ID:               s.id,
		State:            s.state.String(),
		Mode:             s.mode.String(),
		RouteChangeCount: s.routeChangeCount,
	}
	if s.current != nil {
		c := *s.current
		v.Current = &c
	}
	if s.destination != nil {
		d := *s.destination
		v.Destination = &d
	}
	if s.route != nil {
		r := *s.route
		v.Route = &r
	}
	return v
}

// ResolveCurrent geocodes free text into the current position (the manual
// position query). On failure the previous position is kept and the error
// surfaced; the state does not change.
func (s *Session) ResolveCurrent(ctx context.Context, text string) (domain.Location, error) {
	loc, err := s.geocoder.Resolve(ctx, text)
	if err != nil {
		s.notify(fmt.Sprintf("location not found: %s", text))
		return domain.Location{}, err
	}
	s.applyCurrent(loc)
	s.computeAndApply(ctx)
	return loc, nil
}

// LocateFromDevice takes a single bounded device fix as the current
// position without starting continuous tracking.
func (s *Session) LocateFromDevice(ctx context.Context) (domain.Location, error) {
	loc, err := s.positions.Current(ctx)
	if err != nil {
		s.notify("could not determine device location")
		return domain.Location{}, err
	}
	s.applyCurrent(loc)
	s.computeAndApply(ctx)
	return loc, nil
}

// applyCurrent replaces the current position wholesale and promotes Idle to
// LocationSet.
func (s *Session) applyCurrent(loc domain.Location) {
	s.mu.Lock()
	s.current = &loc
	if s.state == StateIdle {
		s.setStateLocked(StateLocationSet)
	}
	s.mu.Unlock()
	s.emitLocation(loc)
}

// SetDestination replaces the trip destination. The state is unchanged; the
// route recomputes when a current position exists. In-flight route results
// against the old destination are discarded.
func (s *Session) SetDestination(ctx context.Context, loc domain.Location) {
	s.mu.Lock()
	s.destination = &loc
	s.epoch++
	s.mu.Unlock()
	s.notify(fmt.Sprintf("destination set to %s", loc.Label))
	s.computeAndApply(ctx)
}

// ResolveDestination geocodes free text and installs it as the destination.
func (s *Session) ResolveDestination(ctx context.Context, text string) (domain.Location, error) {
	loc, err := s.geocoder.Resolve(ctx, text)
	if err != nil {
		s.notify(fmt.Sprintf("location not found: %s", text))
		return domain.Location{}, err
	}
	s.SetDestination(ctx, loc)
	return loc, nil
}

// StartManual enters manual navigation. An active GPS watch is stopped
// first; the two tracking modes are never active together.
func (s *Session) StartManual(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return errors.New("session closed")
	}
	if s.current == nil {
		s.mu.Unlock()
		return ErrNoLocation
	}
	if s.destination == nil {
		s.mu.Unlock()
		return ErrNoDestination
	}
	s.positions.Stop()
	s.setStateLocked(StateNavigatingManual)
	s.syncMonitorLocked()
	s.mu.Unlock()

	s.computeAndApply(ctx)
	return nil
}

// StartGPS enters GPS navigation: it stops any previous tracking, opens the
// continuous watch, and recomputes the route on every position update.
func (s *Session) StartGPS(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return errors.New("session closed")
	}
	if s.destination == nil {
		s.mu.Unlock()
		return ErrNoDestination
	}
	s.positions.Stop()
	s.mu.Unlock()

	if err := s.positions.Start(s.handleFix, s.handleWatchError); err != nil {
		s.notify("could not start location tracking")
		return err
	}

	s.mu.Lock()
	if s.closed {
		// A concurrent Close finished while the watch was opening; undo
		// the watch instead of transitioning on a dead session.
		s.positions.Stop()
		s.mu.Unlock()
		return errors.New("session closed")
	}
	s.setStateLocked(StateNavigatingGPS)
	s.syncMonitorLocked()
	hasCurrent := s.current != nil
	s.mu.Unlock()

	if hasCurrent {
		s.computeAndApply(ctx)
	}
	return nil
}

// Stop leaves either navigating state, releasing the watch and the traffic
// monitor synchronously. Calling Stop outside navigation is a no-op.
func (s *Session) Stop() {
	s.mu.Lock()
	if !s.state.navigating() {
		s.mu.Unlock()
		return
	}
	s.positions.Stop()
	s.monitor.Stop()
	s.epoch++
	s.setStateLocked(StateLocationSet)
	s.mu.Unlock()
}

// ChangeMode switches the travel mode. During active navigation this
// recomputes the route, restarts the traffic monitor per the driving-only
// rule, and increments the diagnostic route-change counter.
func (s *Session) ChangeMode(ctx context.Context, mode domain.TravelMode) {
	s.mu.Lock()
	if s.mode == mode {
		s.mu.Unlock()
		return
	}
	s.mode = mode
	s.epoch++
	if s.state.navigating() {
		s.routeChangeCount++
	}
	s.syncMonitorLocked()
	s.mu.Unlock()

	s.notify(fmt.Sprintf("travel mode changed to %s", mode))
	s.computeAndApply(ctx)
}

// Close tears the session down: equivalent to Stop from whichever state is
// current, then releasing subscribers. No timers or watches survive it.
func (s *Session) Close() {
	s.Stop()
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.positions.Stop()
	s.monitor.Stop()
	s.epoch++
	s.mu.Unlock()
	s.events.Close()
	s.log.Info("session closed")
}

// handleFix is the GPS watch callback: replace the current position
// wholesale and recompute the route against it.
func (s *Session) handleFix(loc domain.Location) {
	s.mu.Lock()
	if s.closed || s.state != StateNavigatingGPS {
		// A fix already in flight when the watch stopped; drop it.
		s.mu.Unlock()
		return
	}
	s.current = &loc
	s.mu.Unlock()

	s.emitLocation(loc)
	s.computeAndApply(context.Background())
}

// handleWatchError surfaces device failures. The machine stays in GPS mode:
// falling back to manual tracking is the user's decision, never automatic.
func (s *Session) handleWatchError(err error) {
	var perr *domain.PositionError
	if errors.As(err, &perr) {
		s.notify(fmt.Sprintf("location error: %s", perr.Kind))
	} else {
		s.notify("location error")
	}
	s.log.Warn("gps watch error", zap.Error(err))
}

// trafficTick is the monitor callback: refresh the route from the latest
// known endpoints. Severity beyond what the calculator reports is not
// decided here.
func (s *Session) trafficTick(ctx context.Context) {
	s.computeAndApply(ctx)
}

// computeAndApply recomputes the route from the latest state and applies
// the result only if that state is still the latest; superseded results are
// discarded. On failure the previous route is retained.
func (s *Session) computeAndApply(ctx context.Context) {
	s.mu.Lock()
	if s.closed || s.current == nil || s.destination == nil {
		s.mu.Unlock()
		return
	}
	origin := s.current.Coordinate
	dest := s.destination.Coordinate
	mode := s.mode
	epoch := s.epoch
	s.mu.Unlock()

	route, err := s.routes.Compute(ctx, origin, dest, mode)
	if err != nil {
		var rerr *domain.RouteError
		if errors.As(err, &rerr) && rerr.Kind == domain.RouteNoPath {
			s.notify("no route found")
		} else {
			s.notify("route update failed")
		}
		s.log.Warn("route computation failed", zap.Error(err))
		return
	}

	s.mu.Lock()
	stale := s.closed || s.epoch != epoch || s.current == nil || s.current.Coordinate != origin
	if stale {
		s.mu.Unlock()
		s.log.Debug("route result superseded, discarded")
		return
	}
	prev := s.route
	s.route = &route
	s.mu.Unlock()

	s.emitRoute(route)
	if route.Mode == domain.ModeDriving && route.Traffic == domain.TrafficHeavy &&
		(prev == nil || prev.Traffic != domain.TrafficHeavy) {
		s.notify("traffic alert: heavy congestion on your route")
	}
}

// setStateLocked records a transition and emits the state event. Callers
// hold the lock.
func (s *Session) setStateLocked(next State) {
	if s.state == next {
		return
	}
	prev := s.state
	s.state = next
	s.log.Info("state changed",
		zap.String("from", prev.String()),
		zap.String("to", next.String()),
	)
	s.events.Publish(Event{
		Type:      EventStateChanged,
		SessionID: s.id,
		State:     next.String(),
		At:        time.Now(),
	})
}

// syncMonitorLocked enforces the invariant: the traffic monitor runs iff a
// navigating state is active and the mode is driving.
func (s *Session) syncMonitorLocked() {
	if s.state.navigating() && s.mode == domain.ModeDriving {
		s.monitor.Start()
	} else {
		s.monitor.Stop()
	}
}

func (s *Session) emitLocation(loc domain.Location) {
	l := loc
	s.events.Publish(Event{
		Type:      EventLocationChanged,
		SessionID: s.id,
		Location:  &l,
		At:        time.Now(),
	})
}

func (s *Session) emitRoute(route domain.Route) {
	r := route
	s.events.Publish(Event{
		Type:      EventRouteUpdated,
		SessionID: s.id,
		Route:     &r,
		At:        time.Now(),
	})
}

func (s *Session) notify(msg string) {
	if s.notifier != nil {
		s.notifier.Notify(msg)
	}
	s.events.Publish(Event{
		Type:      EventNotice,
		SessionID: s.id,
		Message:   msg,
		At:        time.Now(),
	})
}
