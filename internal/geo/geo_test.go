package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRouteSwapsToLatLng(t *testing.T) {
	points, err := ParseRoute("LINESTRING(13.405 52.52, 13.41 52.53)")
	require.NoError(t, err)
	require.Len(t, points, 2)

	assert.Equal(t, Point{Lat: 52.52, Lng: 13.405}, points[0])
	assert.Equal(t, Point{Lat: 52.53, Lng: 13.41}, points[1])
}

func TestParseRouteEmpty(t *testing.T) {
	points, err := ParseRoute("")
	assert.NoError(t, err)
	assert.Empty(t, points)
}

func TestParseRouteSRIDPrefix(t *testing.T) {
	points, err := ParseRoute("SRID=4326;LINESTRING(1 2,3 4)")
	require.NoError(t, err)
	assert.Equal(t, []Point{{Lat: 2, Lng: 1}, {Lat: 4, Lng: 3}}, points)
}

func TestParseRouteRejectsOtherGeometry(t *testing.T) {
	_, err := ParseRoute("POINT(1 2)")
	assert.ErrorIs(t, err, ErrInvalidRoute)

	_, err = ParseRoute("not a route")
	assert.ErrorIs(t, err, ErrInvalidRoute)
}

func TestFormatRouteRoundTrip(t *testing.T) {
	in := []Point{{Lat: 52.52, Lng: 13.405}, {Lat: 52.53, Lng: 13.41}, {Lat: 52.54, Lng: 13.42}}

	out, err := ParseRoute(FormatRoute(in))
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestDistance(t *testing.T) {
	assert.Zero(t, Distance(nil))
	assert.Zero(t, Distance([]Point{{Lat: 1, Lng: 1}}))

	// one degree of latitude is roughly 111 km
	d := Distance([]Point{{Lat: 0, Lng: 0}, {Lat: 1, Lng: 0}})
	assert.InDelta(t, 111.2, d, 0.5)
}
