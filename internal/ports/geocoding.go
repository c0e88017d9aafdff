package ports

import (
	"context"

	"travel-nav-service/internal/domain"
)

// Provider status values shared by geocoding and routing responses.
const (
	StatusOK             = "OK"
	StatusZeroResults    = "ZERO_RESULTS"
	StatusNotFound       = "NOT_FOUND"
	StatusOverQueryLimit = "OVER_QUERY_LIMIT"
	StatusRequestDenied  = "REQUEST_DENIED"
)

// GeocodeMatch is one candidate returned by the primary geocoding provider.
type GeocodeMatch struct {
	Coordinate       domain.Coordinate
	FormattedAddress string
}

// GeocodeResult is the primary provider's response envelope.
type GeocodeResult struct {
	Status  string
	Matches []GeocodeMatch
}

// GeocodingProvider is the primary geocoding collaborator. Success requires
// Status == StatusOK and at least one match.
type GeocodingProvider interface {
	Geocode(ctx context.Context, address string) (GeocodeResult, error)
	ReverseGeocode(ctx context.Context, c domain.Coordinate) (GeocodeResult, error)
}

// PlaceResult is one hit from the secondary (free-tier) geocoding provider,
// which uses a different schema normalized internally.
type PlaceResult struct {
	Lat         float64
	Lon         float64
	DisplayName string
}

// PlaceSearcher is the secondary geocoding collaborator, consulted only when
// the primary provider fails or returns no results.
type PlaceSearcher interface {
	Search(ctx context.Context, query string) ([]PlaceResult, error)
}

// GeocodeCache is a read-through cache in front of the network steps of the
// resolution chain. Misses are not errors.
type GeocodeCache interface {
	Get(ctx context.Context, query string) (domain.Location, bool, error)
	Put(ctx context.Context, query string, loc domain.Location) error
}
