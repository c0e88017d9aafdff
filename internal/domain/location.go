package domain

import "time"

// LocationSource records which step of the resolution chain produced a Location.
type LocationSource int

const (
	SourceSuggestion LocationSource = iota
	SourceGeocodeAPI
	SourceFallbackAPI
	SourcePatternMatch
	SourceGPS
)

func (s LocationSource) String() string {
	switch s {
	case SourceSuggestion:
		return "suggestion"
	case SourceGeocodeAPI:
		return "geocode_api"
	case SourceFallbackAPI:
		return "fallback_api"
	case SourcePatternMatch:
		return "pattern_match"
	case SourceGPS:
		return "gps"
	default:
		return "unknown"
	}
}

// Location is a resolved place: either the user's current position or the
// fixed destination of a trip. Values are replaced wholesale, never mutated.
type Location struct {
	Coordinate Coordinate
	Label      string
	Timestamp  time.Time
	Source     LocationSource
}
