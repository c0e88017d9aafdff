package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"travel-nav-service/internal/domain"
	"travel-nav-service/internal/platform/httpx"
	"travel-nav-service/internal/ports"
)

type primaryResponse struct {
	Status  string `json:"status"`
	Results []struct {
		FormattedAddress string `json:"formatted_address"`
		Geometry         struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
}

// PrimaryProvider implements ports.GeocodingProvider against the primary
// geocoding API (forward and reverse /geocode/json endpoints).
type PrimaryProvider struct {
	session *http.Client
	baseURL string
	apiKey  string
}

func NewPrimaryProvider(baseURL, apiKey string) *PrimaryProvider {
	return &PrimaryProvider{
		session: &http.Client{Timeout: 10 * time.Second},
		baseURL: baseURL,
		apiKey:  apiKey,
	}
}

func (p *PrimaryProvider) Geocode(ctx context.Context, address string) (ports.GeocodeResult, error) {
	return p.query(ctx, map[string]string{"address": address})
}

func (p *PrimaryProvider) ReverseGeocode(ctx context.Context, c domain.Coordinate) (ports.GeocodeResult, error) {
	latlng := fmt.Sprintf("%f,%f", c.Lat, c.Lng)
	return p.query(ctx, map[string]string{"latlng": latlng})
}

func (p *PrimaryProvider) query(ctx context.Context, params map[string]string) (ports.GeocodeResult, error) {
	req, err := httpx.NewRequest(ctx, http.MethodGet, p.baseURL+"/geocode/json")
	if err != nil {
		return ports.GeocodeResult{}, fmt.Errorf("primary geocode request: %w", err)
	}

	q := req.URL.Query()
	for k, v := range params {
		q.Set(k, v)
	}
	if p.apiKey != "" {
		q.Set("key", p.apiKey)
	}
	req.URL.RawQuery = q.Encode()

	resp, err := httpx.Do(p.session, req)
	if err != nil {
		// Map throttling and denial statuses onto the provider's status
		// vocabulary so the chain can classify without HTTP knowledge.
		var se *httpx.StatusError
		if errors.As(err, &se) {
			switch se.Code {
			case http.StatusTooManyRequests:
				return ports.GeocodeResult{Status: ports.StatusOverQueryLimit}, nil
			case http.StatusForbidden:
				return ports.GeocodeResult{Status: ports.StatusRequestDenied}, nil
			}
		}
		return ports.GeocodeResult{}, fmt.Errorf("primary geocode: %w", err)
	}
	defer resp.Body.Close()

	var decoded primaryResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return ports.GeocodeResult{}, fmt.Errorf("decode primary geocode response: %w", err)
	}

	out := ports.GeocodeResult{Status: decoded.Status}
	for _, r := range decoded.Results {
		coord, err := domain.NewCoordinate(r.Geometry.Location.Lat, r.Geometry.Location.Lng)
		if err != nil {
			return ports.GeocodeResult{}, fmt.Errorf("primary geocode result: %w", err)
		}
		out.Matches = append(out.Matches, ports.GeocodeMatch{
			Coordinate:       coord,
			FormattedAddress: r.FormattedAddress,
		})
	}

	return out, nil
}
