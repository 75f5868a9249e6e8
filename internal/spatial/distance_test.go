package spatial

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHaversineDistance(t *testing.T) {
	// San Francisco to Los Angeles, roughly 559 km.
	d := HaversineDistance(37.7749, -122.4194, 34.0522, -118.2437)
	assert.InDelta(t, 559000, d, 5000)

	assert.Zero(t, HaversineDistance(37.7749, -122.4194, 37.7749, -122.4194))

	// 0.001 degrees of latitude is about 111 meters anywhere on the globe.
	d = HaversineDistance(37.7749, -122.4194, 37.7759, -122.4194)
	assert.InDelta(t, 111, d, 2)
}

func TestBearing(t *testing.T) {
	assert.InDelta(t, 0, Bearing(0, 0, 1, 0), 0.5)    // due north
	assert.InDelta(t, 90, Bearing(0, 0, 0, 1), 0.5)   // due east
	assert.InDelta(t, 180, Bearing(1, 0, 0, 0), 0.5)  // due south
	assert.InDelta(t, 270, Bearing(0, 1, 0, 0), 0.5)  // due west
}

func TestDestinationPoint_RoundTrip(t *testing.T) {
	lat, lon := DestinationPoint(37.7749, -122.4194, 45, 1000)
	assert.InDelta(t, 1000, HaversineDistance(37.7749, -122.4194, lat, lon), 1)
	assert.InDelta(t, 45, Bearing(37.7749, -122.4194, lat, lon), 0.5)
}

func TestCentroid(t *testing.T) {
	lat, lon := Centroid([]float64{37.0, 38.0}, []float64{-122.0, -123.0})
	assert.InDelta(t, 37.5, lat, 1e-9)
	assert.InDelta(t, -122.5, lon, 1e-9)

	lat, lon = Centroid(nil, nil)
	assert.Zero(t, lat)
	assert.Zero(t, lon)
}

func TestValidCoordinate(t *testing.T) {
	assert.True(t, ValidCoordinate(0, 0))
	assert.True(t, ValidCoordinate(90, 180))
	assert.True(t, ValidCoordinate(-90, -180))
	assert.False(t, ValidCoordinate(90.0001, 0))
	assert.False(t, ValidCoordinate(0, -180.0001))
	assert.False(t, ValidCoordinate(math.NaN(), 0))
	assert.False(t, ValidCoordinate(0, math.NaN()))
}

func TestBoundingBox_ContainsCircle(t *testing.T) {
	lat, lon, radius := 37.7749, -122.4194, 500.0
	minLat, maxLat, minLon, maxLon := BoundingBox(lat, lon, radius)

	for bearing := 0.0; bearing < 360; bearing += 30 {
		pLat, pLon := DestinationPoint(lat, lon, bearing, radius)
		assert.GreaterOrEqual(t, pLat, minLat)
		assert.LessOrEqual(t, pLat, maxLat)
		assert.GreaterOrEqual(t, pLon, minLon)
		assert.LessOrEqual(t, pLon, maxLon)
	}
}
