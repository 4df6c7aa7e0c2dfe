package models

import (
	"math"
	"strconv"
	"strings"
)

// Field aliases accepted for coordinates, in priority order
var (
	LatitudeKeys  = []string{"latitude", "lat"}
	LongitudeKeys = []string{"longitude", "lng", "lon"}
)

// GeoPoint is a plottable location with the record it came from
type GeoPoint struct {
	Latitude  float64
	Longitude float64
	Record    Record
}

// Label returns a short description of the point for map legends
func (p GeoPoint) Label() string {
	var parts []string
	if v, ok := p.Record.Lookup("profile_id"); ok {
		parts = append(parts, "profile_id: "+FormatValue(v))
	}
	if v, ok := p.Record.Lookup("float_wmo_id"); ok {
		parts = append(parts, "wmo: "+FormatValue(v))
	}
	parts = append(parts, "lat: "+strconv.FormatFloat(p.Latitude, 'f', -1, 64)+
		", lon: "+strconv.FormatFloat(p.Longitude, 'f', -1, 64))
	return strings.Join(parts, "  ")
}

// GeoPoints extracts the plottable points from geo records. Records missing a
// finite latitude or longitude under any accepted alias are skipped.
func GeoPoints(records []Record) []GeoPoint {
	points := make([]GeoPoint, 0, len(records))
	for _, r := range records {
		latRaw, _ := r.Lookup(LatitudeKeys...)
		lonRaw, _ := r.Lookup(LongitudeKeys...)
		lat, lon := toNumber(latRaw), toNumber(lonRaw)
		if !isFinite(lat) || !isFinite(lon) {
			continue
		}
		points = append(points, GeoPoint{Latitude: lat, Longitude: lon, Record: r})
	}
	return points
}

// toNumber converts a loosely typed coordinate to a float. Anything that is
// not a number, a numeric string or a bool yields NaN.
func toNumber(v any) float64 {
	switch val := v.(type) {
	case nil:
		return math.NaN()
	case float64:
		return val
	case int:
		return float64(val)
	case bool:
		if val {
			return 1
		}
		return 0
	case string:
		if val == "" {
			return math.NaN()
		}
		s := strings.TrimSpace(val)
		if s == "" {
			return 0
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return math.NaN()
		}
		return f
	default:
		return math.NaN()
	}
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
