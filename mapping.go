package flightsync

import "encoding/json"

const (
	// DefaultIndex is the index flights are written to.
	DefaultIndex = "flights"

	// DefaultDataViewID is the Kibana data view that points at DefaultIndex.
	DefaultDataViewID = "flights"
)

// flightMapping is the "mappings" section of the create index request.
var flightMapping = json.RawMessage(`{
	"properties": {
		"icao24":            {"type": "keyword"},
		"callsign":          {"type": "keyword"},
		"origin_country":    {"type": "keyword"},
		"on_ground":         {"type": "boolean"},
		"velocity_mps":      {"type": "float"},
		"true_track_deg":    {"type": "float"},
		"vertical_rate_mps": {"type": "float"},
		"baro_altitude_m":   {"type": "float"},
		"geo_altitude_m":    {"type": "float"},
		"location":          {"type": "geo_point"}
	}
}`)
