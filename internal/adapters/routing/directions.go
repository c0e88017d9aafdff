package routing

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"travel-nav-service/internal/platform/httpx"
	"travel-nav-service/internal/ports"
)

type directionsResponse struct {
	Status string `json:"status"`
	Routes []struct {
		Legs []struct {
			Distance struct {
				Value int `json:"value"`
			} `json:"distance"`
			Duration struct {
				Value int `json:"value"`
			} `json:"duration"`
			DurationInTraffic *struct {
				Value int `json:"value"`
			} `json:"duration_in_traffic"`
		} `json:"legs"`
	} `json:"routes"`
}

// DirectionsProvider implements ports.RoutingProvider against a directions
// endpoint returning per-leg distance, duration and traffic-aware duration.
type DirectionsProvider struct {
	session *http.Client
	baseURL string
	apiKey  string
}

func NewDirectionsProvider(baseURL, apiKey string, timeout time.Duration) *DirectionsProvider {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &DirectionsProvider{
		session: &http.Client{Timeout: timeout},
		baseURL: baseURL,
		apiKey:  apiKey,
	}
}

func (d *DirectionsProvider) Route(ctx context.Context, r ports.RouteRequest) (ports.RouteResponse, error) {
	req, err := httpx.NewRequest(ctx, http.MethodGet, d.baseURL+"/directions/json")
	if err != nil {
		return ports.RouteResponse{}, fmt.Errorf("directions request: %w", err)
	}

	q := req.URL.Query()
	q.Set("origin", fmt.Sprintf("%f,%f", r.Origin.Lat, r.Origin.Lng))
	q.Set("destination", fmt.Sprintf("%f,%f", r.Destination.Lat, r.Destination.Lng))
	q.Set("mode", r.Mode.String())
	q.Set("units", "metric")
	if r.Alternatives > 1 {
		q.Set("alternatives", "true")
	}
	if r.DepartNow {
		q.Set("departure_time", "now")
	}
	if len(r.TransitModes) > 0 {
		q.Set("transit_mode", strings.Join(r.TransitModes, "|"))
	}
	if r.TransitPreference != "" {
		q.Set("transit_routing_preference", r.TransitPreference)
	}
	if d.apiKey != "" {
		q.Set("key", d.apiKey)
	}
	req.URL.RawQuery = q.Encode()

	resp, err := httpx.Do(d.session, req)
	if err != nil {
		return ports.RouteResponse{}, fmt.Errorf("directions call: %w", err)
	}
	defer resp.Body.Close()

	var decoded directionsResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return ports.RouteResponse{}, fmt.Errorf("decode directions response: %w", err)
	}

	out := ports.RouteResponse{Status: decoded.Status}
	for _, route := range decoded.Routes {
		var pr ports.ProviderRoute
		for _, leg := range route.Legs {
			l := ports.RouteLeg{
				DistanceMeters: leg.Distance.Value,
				Duration:       time.Duration(leg.Duration.Value) * time.Second,
			}
			if leg.DurationInTraffic != nil {
				l.DurationInTraffic = time.Duration(leg.DurationInTraffic.Value) * time.Second
			}
			pr.Legs = append(pr.Legs, l)
		}
		out.Routes = append(out.Routes, pr)
	}

	return out, nil
}

var _ ports.RoutingProvider = (*DirectionsProvider)(nil)
