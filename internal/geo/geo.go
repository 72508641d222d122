// Package geo converts run routes between the backend's WKT LINESTRING text
// and ordered latitude/longitude points.
package geo

import (
	"errors"
	"fmt"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/wkt"
	orbgeo "github.com/paulmach/orb/geo"
)

// ErrInvalidRoute is returned for text that is not a LINESTRING
var ErrInvalidRoute = errors.New("invalid route")

// Point is a WGS 84 coordinate in latitude/longitude order
type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

func (p Point) String() string {
	return fmt.Sprintf("%g,%g", p.Lat, p.Lng)
}

// ParseRoute parses a LINESTRING (longitude first, as PostGIS writes it)
// into points in latitude/longitude order. Empty text yields no points.
func ParseRoute(route string) ([]Point, error) {
	route = strings.TrimSpace(route)
	if route == "" {
		return nil, nil
	}
	// PostGIS EWKT carries an SRID prefix; the coordinates are always 4326.
	if i := strings.Index(route, ";"); i >= 0 && strings.HasPrefix(strings.ToUpper(route), "SRID=") {
		route = route[i+1:]
	}

	ls, err := wkt.UnmarshalLineString(route)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRoute, err)
	}

	points := make([]Point, len(ls))
	for i, p := range ls {
		points[i] = Point{Lat: p.Lat(), Lng: p.Lon()}
	}
	return points, nil
}

// FormatRoute renders points as a LINESTRING for upload
func FormatRoute(points []Point) string {
	return wkt.MarshalString(toLineString(points))
}

// Distance returns the geodesic length of the route in kilometres
func Distance(points []Point) float64 {
	if len(points) < 2 {
		return 0
	}
	return orbgeo.Length(toLineString(points)) / 1000
}

func toLineString(points []Point) orb.LineString {
	ls := make(orb.LineString, len(points))
	for i, p := range points {
		ls[i] = orb.Point{p.Lng, p.Lat}
	}
	return ls
}
