package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestClassifyTrafficBoundaries(t *testing.T) {
	// normal is 1000s so the traffic-aware duration maps directly to a
	// delay percentage.
	normal := 1000 * time.Second

	tests := []struct {
		name        string
		withTraffic time.Duration
		want        TrafficCondition
	}{
		{"no delay", 1000 * time.Second, TrafficLight},
		{"14.9 percent", 1149 * time.Second, TrafficLight},
		{"15.0 percent", 1150 * time.Second, TrafficModerate},
		{"39.9 percent", 1399 * time.Second, TrafficModerate},
		{"40.0 percent", 1400 * time.Second, TrafficHeavy},
		{"severe", 2500 * time.Second, TrafficHeavy},
		{"faster than free flow", 900 * time.Second, TrafficLight},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ClassifyTraffic(normal, tc.withTraffic))
		})
	}
}

func TestClassifyTrafficMissingData(t *testing.T) {
	assert.Equal(t, TrafficLight, ClassifyTraffic(0, 500*time.Second))
	assert.Equal(t, TrafficLight, ClassifyTraffic(1000*time.Second, 0))
}

func TestFormatDistance(t *testing.T) {
	assert.Equal(t, "850 m", FormatDistance(850))
	assert.Equal(t, "999 m", FormatDistance(999))
	assert.Equal(t, "1.0 km", FormatDistance(1000))
	assert.Equal(t, "1.2 km", FormatDistance(1234))
	assert.Equal(t, "10.5 km", FormatDistance(10500))
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "1 min", FormatDuration(20*time.Second))
	assert.Equal(t, "1 min", FormatDuration(time.Minute))
	assert.Equal(t, "2 min", FormatDuration(61*time.Second))
	assert.Equal(t, "30 min", FormatDuration(30*time.Minute))
	assert.Equal(t, "1 h 0 min", FormatDuration(time.Hour))
	assert.Equal(t, "1 h 25 min", FormatDuration(85*time.Minute))
}
