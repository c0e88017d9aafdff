package navigation

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"travel-nav-service/internal/domain"
	"travel-nav-service/internal/platform/obs"
	"travel-nav-service/internal/ports"
)

// RouteCalculator asks the routing collaborator for a primary route plus one
// alternate and derives the traffic classification. It is stateless; repeated
// calls with identical inputs may legitimately return different Routes as
// traffic shifts.
type RouteCalculator struct {
	provider ports.RoutingProvider
	log      *zap.Logger
	now      func() time.Time
}

func NewRouteCalculator(provider ports.RoutingProvider, log *zap.Logger) *RouteCalculator {
	return &RouteCalculator{provider: provider, log: log, now: time.Now}
}

func requestForMode(origin, destination domain.Coordinate, mode domain.TravelMode) ports.RouteRequest {
	req := ports.RouteRequest{
		Origin:       origin,
		Destination:  destination,
		Mode:         mode,
		Alternatives: 2,
	}
	switch mode {
	case domain.ModeDriving:
		req.DepartNow = true
	case domain.ModeTransit:
		req.TransitModes = []string{"bus", "rail", "subway"}
		req.TransitPreference = "less_walking"
	}
	return req
}

// Compute issues a single routing request. On failure it returns a typed
// RouteError and the caller keeps whatever Route it already had.
func (c *RouteCalculator) Compute(ctx context.Context, origin, destination domain.Coordinate, mode domain.TravelMode) (_ domain.Route, err error) {
	defer obs.Time(ctx, c.log, "route.compute")(&err)

	res, err := c.provider.Route(ctx, requestForMode(origin, destination, mode))
	if err != nil {
		return domain.Route{}, &domain.RouteError{Kind: domain.RouteProviderError, Err: err}
	}

	switch res.Status {
	case ports.StatusOK:
	case ports.StatusZeroResults, ports.StatusNotFound:
		return domain.Route{}, &domain.RouteError{
			Kind: domain.RouteNoPath,
			Err:  fmt.Errorf("provider status %s", res.Status),
		}
	default:
		return domain.Route{}, &domain.RouteError{
			Kind: domain.RouteProviderError,
			Err:  fmt.Errorf("provider status %s", res.Status),
		}
	}

	if len(res.Routes) == 0 || len(res.Routes[0].Legs) == 0 {
		return domain.Route{}, &domain.RouteError{
			Kind: domain.RouteNoPath,
			Err:  fmt.Errorf("provider returned no usable route"),
		}
	}

	leg := res.Routes[0].Legs[0]
	normal := leg.Duration
	withTraffic := leg.DurationInTraffic
	if withTraffic <= 0 {
		withTraffic = normal
	}

	// Traffic classification only carries meaning for driving; other modes
	// report light by convention since no traffic data exists for them.
	traffic := domain.TrafficLight
	if mode == domain.ModeDriving {
		traffic = domain.ClassifyTraffic(normal, withTraffic)
	}

	route := domain.Route{
		DistanceText:          domain.FormatDistance(leg.DistanceMeters),
		DurationText:          domain.FormatDuration(normal),
		DurationInTrafficText: domain.FormatDuration(withTraffic),
		Traffic:               traffic,
		Mode:                  mode,
		ComputedAt:            c.now(),
		AlternateExists:       len(res.Routes) > 1,
	}

	c.log.Debug("route computed",
		zap.String("mode", mode.String()),
		zap.String("distance", route.DistanceText),
		zap.String("duration", route.DurationText),
		zap.String("traffic", route.Traffic.String()),
		zap.Bool("alternate", route.AlternateExists),
	)

	return route, nil
}
