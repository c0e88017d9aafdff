package navigation

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"travel-nav-service/internal/domain"
	"travel-nav-service/internal/platform/httpx"
	"travel-nav-service/internal/ports"
)

type fakeCache struct {
	mu      sync.Mutex
	entries map[string]domain.Location
	getErr  error
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: map[string]domain.Location{}}
}

func (c *fakeCache) Get(_ context.Context, query string) (domain.Location, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.getErr != nil {
		return domain.Location{}, false, c.getErr
	}
	loc, ok := c.entries[query]
	return loc, ok, nil
}

func (c *fakeCache) Put(_ context.Context, query string, loc domain.Location) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[query] = loc
	return nil
}

func TestGeocoderSuggestionHitSkipsNetwork(t *testing.T) {
	primary := &fakePrimary{}
	search := &fakeSearcher{}
	g := NewGeocoder(primary, search, zap.NewNop())

	loc, err := g.Resolve(context.Background(), "eiffel tower")
	require.NoError(t, err)

	assert.Equal(t, domain.SourceSuggestion, loc.Source)
	assert.Equal(t, "Eiffel Tower, Paris", loc.Label)
	assert.InDelta(t, 48.8584, loc.Coordinate.Lat, 0.001)
	assert.Zero(t, primary.callCount())
	assert.Zero(t, search.callCount())
}

func TestGeocoderRejectsShortInput(t *testing.T) {
	g := NewGeocoder(&fakePrimary{}, &fakeSearcher{}, zap.NewNop())

	_, err := g.Resolve(context.Background(), "  a  ")
	var gerr *domain.GeocodeError
	require.ErrorAs(t, err, &gerr)
	assert.Equal(t, domain.GeocodeInvalidInput, gerr.Kind)
}

func TestGeocoderPrimarySuccess(t *testing.T) {
	primary := &fakePrimary{result: ports.GeocodeResult{
		Status: ports.StatusOK,
		Matches: []ports.GeocodeMatch{{
			Coordinate:       domain.Coordinate{Lat: 40.7128, Lng: -74.006},
			FormattedAddress: "New York, NY, USA",
		}},
	}}
	search := &fakeSearcher{}
	g := NewGeocoder(primary, search, zap.NewNop())

	loc, err := g.Resolve(context.Background(), "some address in new york")
	require.NoError(t, err)

	assert.Equal(t, domain.SourceGeocodeAPI, loc.Source)
	assert.Equal(t, "New York, NY, USA", loc.Label)
	assert.Zero(t, search.callCount())
}

func TestGeocoderFallsBackToSecondaryProvider(t *testing.T) {
	// Primary finds nothing for a misspelled query; secondary does.
	primary := &fakePrimary{result: ports.GeocodeResult{Status: ports.StatusZeroResults}}
	search := &fakeSearcher{results: []ports.PlaceResult{{
		Lat:         48.859,
		Lon:         2.347,
		DisplayName: "Pariss, Île-de-France, France",
	}}}
	g := NewGeocoder(primary, search, zap.NewNop())

	loc, err := g.Resolve(context.Background(), "Pariss")
	require.NoError(t, err)

	assert.Equal(t, domain.SourceFallbackAPI, loc.Source)
	assert.InDelta(t, 48.859, loc.Coordinate.Lat, 0.001)
	assert.Equal(t, 1, primary.callCount())
	assert.Equal(t, 1, search.callCount())
}

func TestGeocoderCityPatternLastResort(t *testing.T) {
	primary := &fakePrimary{err: errors.New("dial tcp: connection refused")}
	search := &fakeSearcher{err: errors.New("dial tcp: connection refused")}
	g := NewGeocoder(primary, search, zap.NewNop())

	loc, err := g.Resolve(context.Background(), "somewhere in tokyo please")
	require.NoError(t, err)

	assert.Equal(t, domain.SourcePatternMatch, loc.Source)
	assert.Equal(t, "Tokyo", loc.Label)
}

func TestGeocoderErrorKinds(t *testing.T) {
	tests := []struct {
		name    string
		primary *fakePrimary
		search  *fakeSearcher
		want    domain.GeocodeErrorKind
	}{
		{
			name:    "not found when both providers answer empty",
			primary: &fakePrimary{result: ports.GeocodeResult{Status: ports.StatusZeroResults}},
			search:  &fakeSearcher{},
			want:    domain.GeocodeNotFound,
		},
		{
			name:    "rate limited when the primary is throttled",
			primary: &fakePrimary{result: ports.GeocodeResult{Status: ports.StatusOverQueryLimit}},
			search:  &fakeSearcher{},
			want:    domain.GeocodeRateLimited,
		},
		{
			name:    "rate limited on http 429",
			primary: &fakePrimary{err: &httpx.StatusError{Code: http.StatusTooManyRequests}},
			search:  &fakeSearcher{},
			want:    domain.GeocodeRateLimited,
		},
		{
			name:    "unavailable when the primary is denied",
			primary: &fakePrimary{result: ports.GeocodeResult{Status: ports.StatusRequestDenied}},
			search:  &fakeSearcher{},
			want:    domain.GeocodeServiceUnavailable,
		},
		{
			name:    "unavailable when both providers fail",
			primary: &fakePrimary{err: errors.New("timeout")},
			search:  &fakeSearcher{err: errors.New("timeout")},
			want:    domain.GeocodeServiceUnavailable,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			g := NewGeocoder(tc.primary, tc.search, zap.NewNop())
			_, err := g.Resolve(context.Background(), "zzyzx nowhere")
			var gerr *domain.GeocodeError
			require.ErrorAs(t, err, &gerr)
			assert.Equal(t, tc.want, gerr.Kind)
		})
	}
}

func TestGeocoderCacheReadThrough(t *testing.T) {
	primary := &fakePrimary{result: ports.GeocodeResult{
		Status: ports.StatusOK,
		Matches: []ports.GeocodeMatch{{
			Coordinate:       domain.Coordinate{Lat: 51.5074, Lng: -0.1278},
			FormattedAddress: "London, UK",
		}},
	}}
	cache := newFakeCache()
	g := NewGeocoder(primary, &fakeSearcher{}, zap.NewNop(), WithGeocodeCache(cache))

	first, err := g.Resolve(context.Background(), "10 downing street")
	require.NoError(t, err)
	require.Equal(t, 1, primary.callCount())

	second, err := g.Resolve(context.Background(), "10 downing street")
	require.NoError(t, err)
	assert.Equal(t, 1, primary.callCount(), "second resolve must be served from cache")
	assert.Equal(t, first.Coordinate, second.Coordinate)
	assert.Equal(t, first.Label, second.Label)
}

func TestGeocoderCacheFailureDegradesToProviders(t *testing.T) {
	primary := &fakePrimary{result: ports.GeocodeResult{
		Status: ports.StatusOK,
		Matches: []ports.GeocodeMatch{{
			Coordinate:       domain.Coordinate{Lat: 52.52, Lng: 13.405},
			FormattedAddress: "Berlin, Germany",
		}},
	}}
	cache := newFakeCache()
	cache.getErr = errors.New("connection refused")
	g := NewGeocoder(primary, &fakeSearcher{}, zap.NewNop(), WithGeocodeCache(cache))

	loc, err := g.Resolve(context.Background(), "alexanderplatz")
	require.NoError(t, err)
	assert.Equal(t, domain.SourceGeocodeAPI, loc.Source)
}

func TestReverseLabelFallsBackToCoordinate(t *testing.T) {
	primary := &fakePrimary{reverseErr: errors.New("unreachable")}
	g := NewGeocoder(primary, &fakeSearcher{}, zap.NewNop())

	c := domain.Coordinate{Lat: 48.8584, Lng: 2.2945}
	assert.Equal(t, "48.8584, 2.2945", g.ReverseLabel(context.Background(), c))

	primary = &fakePrimary{reverse: ports.GeocodeResult{
		Status:  ports.StatusOK,
		Matches: []ports.GeocodeMatch{{FormattedAddress: "Champ de Mars, Paris"}},
	}}
	g = NewGeocoder(primary, &fakeSearcher{}, zap.NewNop())
	assert.Equal(t, "Champ de Mars, Paris", g.ReverseLabel(context.Background(), c))
}
