package domain

import (
	"fmt"
	"time"
)

// TrafficCondition classifies congestion-induced delay on a driving route.
type TrafficCondition int

const (
	TrafficLight TrafficCondition = iota
	TrafficModerate
	TrafficHeavy
)

func (t TrafficCondition) String() string {
	switch t {
	case TrafficLight:
		return "light"
	case TrafficModerate:
		return "moderate"
	case TrafficHeavy:
		return "heavy"
	default:
		return "unknown"
	}
}

// ClassifyTraffic derives a condition from free-flow and traffic-aware
// durations. Delay below 15% is light, below 40% moderate, else heavy.
// A zero or missing traffic-aware duration counts as no delay.
func ClassifyTraffic(normal, withTraffic time.Duration) TrafficCondition {
	if normal <= 0 {
		return TrafficLight
	}
	if withTraffic <= 0 {
		withTraffic = normal
	}
	delayPct := float64(withTraffic-normal) / float64(normal) * 100
	switch {
	case delayPct < 15:
		return TrafficLight
	case delayPct < 40:
		return TrafficModerate
	default:
		return TrafficHeavy
	}
}

// Route is the derived result of one route computation. It is produced whole
// or not at all; a failed computation leaves the previous Route in place.
type Route struct {
	DistanceText          string
	DurationText          string
	DurationInTrafficText string
	Traffic               TrafficCondition
	Mode                  TravelMode
	ComputedAt            time.Time
	AlternateExists       bool
}

// FormatDistance renders meters the way the routing UI expects.
func FormatDistance(meters int) string {
	if meters < 1000 {
		return fmt.Sprintf("%d m", meters)
	}
	return fmt.Sprintf("%.1f km", float64(meters)/1000)
}

// FormatDuration renders a duration as whole minutes, with an hour part
// once it exceeds an hour. Sub-minute durations round up to one minute.
func FormatDuration(d time.Duration) string {
	mins := int((d + time.Minute - 1) / time.Minute)
	if mins < 1 {
		mins = 1
	}
	if mins < 60 {
		return fmt.Sprintf("%d min", mins)
	}
	return fmt.Sprintf("%d h %d min", mins/60, mins%60)
}
