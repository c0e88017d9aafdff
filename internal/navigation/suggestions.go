package navigation

import (
	"strings"

	"travel-nav-service/internal/domain"
)

// Suggestion is a curated place with precomputed coordinates, matched
// before any network call is made.
type Suggestion struct {
	Name       string
	Coordinate domain.Coordinate
}

// DefaultSuggestions is the curated list of well-known destinations offered
// by the assistant. Order matters: the first match wins.
func DefaultSuggestions() []Suggestion {
	return []Suggestion{
		{Name: "Eiffel Tower, Paris", Coordinate: domain.Coordinate{Lat: 48.8584, Lng: 2.2945}},
		{Name: "Colosseum, Rome", Coordinate: domain.Coordinate{Lat: 41.8902, Lng: 12.4922}},
		{Name: "Taj Mahal, Agra", Coordinate: domain.Coordinate{Lat: 27.1751, Lng: 78.0421}},
		{Name: "India Gate, Delhi", Coordinate: domain.Coordinate{Lat: 28.6129, Lng: 77.2295}},
		{Name: "Gateway of India, Mumbai", Coordinate: domain.Coordinate{Lat: 18.9220, Lng: 72.8347}},
		{Name: "Statue of Liberty, New York", Coordinate: domain.Coordinate{Lat: 40.6892, Lng: -74.0445}},
		{Name: "Big Ben, London", Coordinate: domain.Coordinate{Lat: 51.5007, Lng: -0.1246}},
		{Name: "Sagrada Familia, Barcelona", Coordinate: domain.Coordinate{Lat: 41.4036, Lng: 2.1744}},
		{Name: "Shibuya Crossing, Tokyo", Coordinate: domain.Coordinate{Lat: 35.6595, Lng: 139.7005}},
		{Name: "Marina Bay Sands, Singapore", Coordinate: domain.Coordinate{Lat: 1.2834, Lng: 103.8607}},
		{Name: "Burj Khalifa, Dubai", Coordinate: domain.Coordinate{Lat: 25.1972, Lng: 55.2744}},
		{Name: "Sydney Opera House, Sydney", Coordinate: domain.Coordinate{Lat: -33.8568, Lng: 151.2153}},
	}
}

// DefaultCityPatterns is the hard-coded last-resort city table consulted
// after both geocoding providers have failed.
func DefaultCityPatterns() []Suggestion {
	return []Suggestion{
		{Name: "Paris", Coordinate: domain.Coordinate{Lat: 48.8566, Lng: 2.3522}},
		{Name: "London", Coordinate: domain.Coordinate{Lat: 51.5074, Lng: -0.1278}},
		{Name: "New York", Coordinate: domain.Coordinate{Lat: 40.7128, Lng: -74.0060}},
		{Name: "Tokyo", Coordinate: domain.Coordinate{Lat: 35.6762, Lng: 139.6503}},
		{Name: "Delhi", Coordinate: domain.Coordinate{Lat: 28.7041, Lng: 77.1025}},
		{Name: "Mumbai", Coordinate: domain.Coordinate{Lat: 19.0760, Lng: 72.8777}},
		{Name: "Rome", Coordinate: domain.Coordinate{Lat: 41.9028, Lng: 12.4964}},
		{Name: "Barcelona", Coordinate: domain.Coordinate{Lat: 41.3874, Lng: 2.1686}},
		{Name: "Singapore", Coordinate: domain.Coordinate{Lat: 1.3521, Lng: 103.8198}},
		{Name: "Dubai", Coordinate: domain.Coordinate{Lat: 25.2048, Lng: 55.2708}},
		{Name: "Sydney", Coordinate: domain.Coordinate{Lat: -33.8688, Lng: 151.2093}},
	}
}

// matchPlace finds the first entry whose name contains the query or whose
// name is contained in the query, case-insensitively. No ranking: order in
// the table decides ties.
func matchPlace(table []Suggestion, query string) (Suggestion, bool) {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return Suggestion{}, false
	}
	for _, s := range table {
		name := strings.ToLower(s.Name)
		if strings.Contains(name, q) || strings.Contains(q, name) {
			return s, true
		}
	}
	return Suggestion{}, false
}
