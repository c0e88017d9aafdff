package navigation

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"travel-nav-service/internal/domain"
	"travel-nav-service/internal/platform/httpx"
	"travel-nav-service/internal/platform/obs"
	"travel-nav-service/internal/ports"
)

// Geocoder resolves a free-text place name to a Location through an ordered
// fallback chain: curated suggestions, primary provider, secondary provider,
// hard-coded city patterns. The first success wins; the chain is read-only
// and never retries on its own.
type Geocoder struct {
	primary     ports.GeocodingProvider
	fallback    ports.PlaceSearcher
	cache       ports.GeocodeCache
	suggestions []Suggestion
	cities      []Suggestion
	log         *zap.Logger
	now         func() time.Time
}

// GeocoderOption mutates construction defaults.
type GeocoderOption func(*Geocoder)

// WithGeocodeCache installs a read-through cache in front of the network
// steps. Suggestion matching stays cache-free.
func WithGeocodeCache(c ports.GeocodeCache) GeocoderOption {
	return func(g *Geocoder) { g.cache = c }
}

// WithPlaceTables overrides the curated suggestion and city pattern tables.
func WithPlaceTables(suggestions, cities []Suggestion) GeocoderOption {
	return func(g *Geocoder) {
		g.suggestions = suggestions
		g.cities = cities
	}
}

func NewGeocoder(primary ports.GeocodingProvider, fallback ports.PlaceSearcher, log *zap.Logger, opts ...GeocoderOption) *Geocoder {
	g := &Geocoder{
		primary:     primary,
		fallback:    fallback,
		suggestions: DefaultSuggestions(),
		cities:      DefaultCityPatterns(),
		log:         log,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// chainFailure accumulates what happened across the network steps so the
// final error kind can be selected.
type chainFailure struct {
	rateLimited bool
	denied      bool
	failed      bool
}

func (f *chainFailure) note(err error) {
	f.failed = true
	var se *httpx.StatusError
	if errors.As(err, &se) && se.Code == http.StatusTooManyRequests {
		f.rateLimited = true
	}
}

// Resolve runs the fallback chain for the given text.
func (g *Geocoder) Resolve(ctx context.Context, text string) (_ domain.Location, err error) {
	defer obs.Time(ctx, g.log, "geocoder.resolve")(&err)

	trimmed := strings.TrimSpace(text)
	if utf8.RuneCountInString(trimmed) < 2 {
		return domain.Location{}, &domain.GeocodeError{Kind: domain.GeocodeInvalidInput, Query: text}
	}

	// Step 1: curated suggestions. Synchronous, no network cost.
	if s, ok := matchPlace(g.suggestions, trimmed); ok {
		return domain.Location{
			Coordinate: s.Coordinate,
			Label:      s.Name,
			Timestamp:  g.now(),
			Source:     domain.SourceSuggestion,
		}, nil
	}

	// Cached result of an earlier network resolution, if any.
	if g.cache != nil {
		if loc, ok, err := g.cache.Get(ctx, trimmed); err == nil && ok {
			loc.Timestamp = g.now()
			return loc, nil
		} else if err != nil {
			g.log.Warn("geocode cache unavailable", zap.Error(err))
		}
	}

	var fail chainFailure

	// Step 2: primary geocoding API.
	if loc, ok := g.tryPrimary(ctx, trimmed, &fail); ok {
		g.cachePut(ctx, trimmed, loc)
		return loc, nil
	}

	// Step 3: secondary (free) geocoding API.
	if loc, ok := g.tryFallback(ctx, trimmed, &fail); ok {
		g.cachePut(ctx, trimmed, loc)
		return loc, nil
	}

	// Step 4: hard-coded city table, last resort.
	if s, ok := matchPlace(g.cities, trimmed); ok {
		return domain.Location{
			Coordinate: s.Coordinate,
			Label:      s.Name,
			Timestamp:  g.now(),
			Source:     domain.SourcePatternMatch,
		}, nil
	}

	kind := domain.GeocodeNotFound
	switch {
	case fail.rateLimited:
		kind = domain.GeocodeRateLimited
	case fail.denied, fail.failed:
		kind = domain.GeocodeServiceUnavailable
	}
	return domain.Location{}, &domain.GeocodeError{Kind: kind, Query: trimmed}
}

func (g *Geocoder) tryPrimary(ctx context.Context, text string, fail *chainFailure) (domain.Location, bool) {
	res, err := g.primary.Geocode(ctx, text)
	if err != nil {
		g.log.Debug("primary geocode failed", zap.String("query", text), zap.Error(err))
		fail.note(err)
		return domain.Location{}, false
	}

	switch res.Status {
	case ports.StatusOK:
		if len(res.Matches) == 0 {
			return domain.Location{}, false
		}
		m := res.Matches[0]
		return domain.Location{
			Coordinate: m.Coordinate,
			Label:      m.FormattedAddress,
			Timestamp:  g.now(),
			Source:     domain.SourceGeocodeAPI,
		}, true
	case ports.StatusOverQueryLimit:
		fail.failed = true
		fail.rateLimited = true
	case ports.StatusRequestDenied:
		fail.failed = true
		fail.denied = true
	case ports.StatusZeroResults:
		// no results is not a provider failure
	default:
		fail.failed = true
	}
	return domain.Location{}, false
}

func (g *Geocoder) tryFallback(ctx context.Context, text string, fail *chainFailure) (domain.Location, bool) {
	results, err := g.fallback.Search(ctx, text)
	if err != nil {
		g.log.Debug("fallback geocode failed", zap.String("query", text), zap.Error(err))
		fail.note(err)
		return domain.Location{}, false
	}
	if len(results) == 0 {
		return domain.Location{}, false
	}

	r := results[0]
	coord, err := domain.NewCoordinate(r.Lat, r.Lon)
	if err != nil {
		g.log.Debug("fallback returned invalid coordinate", zap.Error(err))
		fail.failed = true
		return domain.Location{}, false
	}
	return domain.Location{
		Coordinate: coord,
		Label:      r.DisplayName,
		Timestamp:  g.now(),
		Source:     domain.SourceFallbackAPI,
	}, true
}

func (g *Geocoder) cachePut(ctx context.Context, text string, loc domain.Location) {
	if g.cache == nil {
		return
	}
	if err := g.cache.Put(ctx, text, loc); err != nil {
		g.log.Warn("geocode cache write failed", zap.Error(err))
	}
}

// ReverseLabel resolves a coordinate to a human-readable label on a
// best-effort basis. Failures fall back to the formatted coordinate.
func (g *Geocoder) ReverseLabel(ctx context.Context, c domain.Coordinate) string {
	res, err := g.primary.ReverseGeocode(ctx, c)
	if err != nil || res.Status != ports.StatusOK || len(res.Matches) == 0 {
		return c.String()
	}
	if res.Matches[0].FormattedAddress == "" {
		return c.String()
	}
	return res.Matches[0].FormattedAddress
}
