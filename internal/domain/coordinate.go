package domain

import "fmt"

// Immutable geographic point (latitude, longitude) on WGS-84.
type Coordinate struct {
	Lat float64
	Lng float64
}

// NewCoordinate validates that the point lies within [-90,90] / [-180,180].
func NewCoordinate(lat, lng float64) (Coordinate, error) {
	if lat < -90 || lat > 90 {
		return Coordinate{}, fmt.Errorf("latitude %f out of range [-90, 90]", lat)
	}
	if lng < -180 || lng > 180 {
		return Coordinate{}, fmt.Errorf("longitude %f out of range [-180, 180]", lng)
	}
	return Coordinate{Lat: lat, Lng: lng}, nil
}

// String renders the point as a label of last resort, used when
// reverse geocoding is unavailable.
func (c Coordinate) String() string {
	return fmt.Sprintf("%.4f, %.4f", c.Lat, c.Lng)
}
