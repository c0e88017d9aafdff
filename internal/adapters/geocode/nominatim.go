package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"travel-nav-service/internal/platform/httpx"
	"travel-nav-service/internal/ports"
)

type nominatimResult struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

// NominatimSearcher implements ports.PlaceSearcher against a Nominatim-style
// free-tier search endpoint. Coordinates arrive as strings and are parsed.
type NominatimSearcher struct {
	session   *http.Client
	baseURL   string
	userAgent string
}

func NewNominatimSearcher(baseURL, userAgent string) *NominatimSearcher {
	return &NominatimSearcher{
		session:   &http.Client{Timeout: 10 * time.Second},
		baseURL:   baseURL,
		userAgent: userAgent,
	}
}

func (n *NominatimSearcher) Search(ctx context.Context, query string) ([]ports.PlaceResult, error) {
	req, err := httpx.NewRequest(ctx, http.MethodGet, n.baseURL+"/search")
	if err != nil {
		return nil, fmt.Errorf("fallback search request: %w", err)
	}

	q := req.URL.Query()
	q.Set("q", query)
	q.Set("format", "json")
	q.Set("limit", "3")
	req.URL.RawQuery = q.Encode()

	// Nominatim's usage policy requires an identifying User-Agent.
	if n.userAgent != "" {
		req.Header.Set("User-Agent", n.userAgent)
	}

	resp, err := httpx.Do(n.session, req)
	if err != nil {
		return nil, fmt.Errorf("fallback search: %w", err)
	}
	defer resp.Body.Close()

	var decoded []nominatimResult
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode fallback search response: %w", err)
	}

	out := make([]ports.PlaceResult, 0, len(decoded))
	for _, r := range decoded {
		lat, err := strconv.ParseFloat(r.Lat, 64)
		if err != nil {
			return nil, fmt.Errorf("parse fallback lat %q: %w", r.Lat, err)
		}
		lon, err := strconv.ParseFloat(r.Lon, 64)
		if err != nil {
			return nil, fmt.Errorf("parse fallback lon %q: %w", r.Lon, err)
		}
		out = append(out, ports.PlaceResult{Lat: lat, Lon: lon, DisplayName: r.DisplayName})
	}

	return out, nil
}
