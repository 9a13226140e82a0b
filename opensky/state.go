package opensky

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/kurakura967/flightsync"
)

// Positions of the fields used from a /states/all state vector.
const (
	posICAO24        = 0
	posCallsign      = 1
	posOriginCountry = 2
	posLongitude     = 5
	posLatitude      = 6
	posBaroAltitude  = 7
	posOnGround      = 8
	posVelocity      = 9
	posTrueTrack     = 10
	posVerticalRate  = 11
	posGeoAltitude   = 13

	minStateLen = posGeoAltitude + 1
)

// RawStateVector is one state vector as sent by the API: a positional array
// of mixed values. Numbers are json.Number.
type RawStateVector []any

func (v RawStateVector) at(pos int) any {
	return v[pos]
}

// Normalize maps the vector to a Flight. Values that are null or falsy (0,
// "", false) become nil; OnGround is the truthiness of its raw value.
// A null vector, or one too short to hold the geo altitude, is an error.
func (v RawStateVector) Normalize() (flightsync.Flight, error) {
	if v == nil {
		return flightsync.Flight{}, errors.New("state vector is null")
	}
	if len(v) < minStateLen {
		return flightsync.Flight{}, fmt.Errorf("state vector has %d positions, want at least %d", len(v), minStateLen)
	}

	f := flightsync.Flight{
		ICAO24:        stringField(v.at(posICAO24), false),
		Callsign:      stringField(v.at(posCallsign), true),
		OriginCountry: stringField(v.at(posOriginCountry), false),
		OnGround:      truthy(v.at(posOnGround)),
	}

	floats := []struct {
		pos  int
		dst  **float64
		name string
	}{
		{posLongitude, &f.Longitude, "longitude"},
		{posLatitude, &f.Latitude, "latitude"},
		{posBaroAltitude, &f.BaroAltitude, "baro_altitude"},
		{posVelocity, &f.Velocity, "velocity"},
		{posTrueTrack, &f.TrueTrack, "true_track"},
		{posVerticalRate, &f.VerticalRate, "vertical_rate"},
		{posGeoAltitude, &f.GeoAltitude, "geo_altitude"},
	}
	for _, fl := range floats {
		val, err := floatField(v.at(fl.pos))
		if err != nil {
			return flightsync.Flight{}, fmt.Errorf("position %d (%s): %w", fl.pos, fl.name, err)
		}
		*fl.dst = val
	}

	return f, nil
}

func stringField(raw any, trim bool) *string {
	if !truthy(raw) {
		return nil
	}

	var s string
	if str, ok := raw.(string); ok {
		s = str
	} else {
		s = fmt.Sprint(raw)
	}
	if trim {
		s = strings.TrimSpace(s)
	}
	return &s
}

func floatField(raw any) (*float64, error) {
	if !truthy(raw) {
		return nil, nil
	}

	var (
		f   float64
		err error
	)
	switch val := raw.(type) {
	case json.Number:
		f, err = val.Float64()
	case float64:
		f = val
	case string:
		f, err = strconv.ParseFloat(strings.TrimSpace(val), 64)
	case bool:
		f = 1
	default:
		err = fmt.Errorf("cannot convert %T to a number", raw)
	}
	if err != nil {
		return nil, err
	}

	return &f, nil
}

// truthy follows JSON truthiness: null, false, 0, "" and empty containers are
// false.
func truthy(raw any) bool {
	switch val := raw.(type) {
	case nil:
		return false
	case bool:
		return val
	case json.Number:
		f, err := val.Float64()
		return err != nil || f != 0
	case float64:
		return val != 0
	case string:
		return val != ""
	case []any:
		return len(val) > 0
	case map[string]any:
		return len(val) > 0
	default:
		return true
	}
}
