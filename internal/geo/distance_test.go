package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistance(t *testing.T) {
	// Portland to Seattle is roughly 145 miles great-circle.
	portlandLat, portlandLng := 45.5152, -122.6784
	seattleLat, seattleLng := 47.6062, -122.3321

	d := Distance(portlandLat, portlandLng, seattleLat, seattleLng)
	assert.InDelta(t, 145, d, 5)

	// Symmetric.
	assert.InDelta(t, d, Distance(seattleLat, seattleLng, portlandLat, portlandLng), 1e-9)

	// Zero for identical points.
	assert.InDelta(t, 0, Distance(portlandLat, portlandLng, portlandLat, portlandLng), 1e-9)
}

func TestWithinRadius(t *testing.T) {
	lat1, lng1 := 45.5152, -122.6784
	lat2, lng2 := 45.5349, -122.7214

	d := Distance(lat1, lng1, lat2, lng2)

	assert.True(t, WithinRadius(lat1, lng1, lat2, lng2, d+0.1))
	// The boundary itself is inside.
	assert.True(t, WithinRadius(lat1, lng1, lat2, lng2, d))
	assert.False(t, WithinRadius(lat1, lng1, lat2, lng2, d-0.1))

	// A point is always within any non-negative radius of itself.
	assert.True(t, WithinRadius(lat1, lng1, lat1, lng1, 0))
}
