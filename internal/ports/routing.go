package ports

import (
	"context"
	"time"

	"travel-nav-service/internal/domain"
)

// RouteLeg carries the metrics of one leg of a provider route.
// DurationInTraffic is zero when the provider has no traffic data.
type RouteLeg struct {
	DistanceMeters    int
	Duration          time.Duration
	DurationInTraffic time.Duration
}

// ProviderRoute is one alternative returned by the routing collaborator.
type ProviderRoute struct {
	Legs []RouteLeg
}

// RouteRequest describes a single point-to-point routing call.
type RouteRequest struct {
	Origin       domain.Coordinate
	Destination  domain.Coordinate
	Mode         domain.TravelMode
	Alternatives int
	// DepartNow requests a current-time traffic-aware duration (driving).
	DepartNow bool
	// TransitModes and TransitPreference apply to transit requests only.
	TransitModes      []string
	TransitPreference string
}

// RouteResponse is the routing collaborator's envelope.
type RouteResponse struct {
	Status string
	Routes []ProviderRoute
}

// RoutingProvider is the external routing collaborator.
type RoutingProvider interface {
	Route(ctx context.Context, req RouteRequest) (RouteResponse, error)
}
