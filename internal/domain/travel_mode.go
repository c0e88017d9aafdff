package domain

import "fmt"

// TravelMode selects routing-provider parameters and whether traffic
// monitoring applies (driving only).
type TravelMode int

const (
	ModeDriving TravelMode = iota
	ModeTransit
	ModeBicycling
	ModeWalking
)

func (m TravelMode) String() string {
	switch m {
	case ModeDriving:
		return "driving"
	case ModeTransit:
		return "transit"
	case ModeBicycling:
		return "bicycling"
	case ModeWalking:
		return "walking"
	default:
		return "unknown"
	}
}

// ParseTravelMode maps the wire representation back to a TravelMode.
func ParseTravelMode(s string) (TravelMode, error) {
	switch s {
	case "driving":
		return ModeDriving, nil
	case "transit":
		return ModeTransit, nil
	case "bicycling":
		return ModeBicycling, nil
	case "walking":
		return ModeWalking, nil
	default:
		return ModeDriving, fmt.Errorf("unknown travel mode %q", s)
	}
}
