package flightsync

// Flight is one normalized aircraft state vector. A nil pointer means the
// source did not report the value; zero is never used as a stand-in.
type Flight struct {
	ICAO24        *string  `json:"icao24" yaml:"icao24"`
	Callsign      *string  `json:"callsign" yaml:"callsign"`
	OriginCountry *string  `json:"origin_country" yaml:"origin_country"`
	Longitude     *float64 `json:"longitude" yaml:"longitude"`
	Latitude      *float64 `json:"latitude" yaml:"latitude"`
	BaroAltitude  *float64 `json:"baro_altitude_m" yaml:"baro_altitude_m"`
	OnGround      bool     `json:"on_ground" yaml:"on_ground"`
	Velocity      *float64 `json:"velocity_mps" yaml:"velocity_mps"`
	TrueTrack     *float64 `json:"true_track_deg" yaml:"true_track_deg"`
	VerticalRate  *float64 `json:"vertical_rate_mps" yaml:"vertical_rate_mps"`
	GeoAltitude   *float64 `json:"geo_altitude_m" yaml:"geo_altitude_m"`
}

// ID returns the transponder address used as the document ID, or "" when
// the flight has none.
func (f Flight) ID() string {
	if f.ICAO24 == nil {
		return ""
	}
	return *f.ICAO24
}

// GeoPoint is an Elasticsearch geo_point in object form.
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// document is the stored form of a Flight. Latitude and longitude are folded
// into Location and never stored on their own.
type document struct {
	ICAO24        *string   `json:"icao24"`
	Callsign      *string   `json:"callsign"`
	OriginCountry *string   `json:"origin_country"`
	BaroAltitude  *float64  `json:"baro_altitude_m"`
	OnGround      bool      `json:"on_ground"`
	Velocity      *float64  `json:"velocity_mps"`
	TrueTrack     *float64  `json:"true_track_deg"`
	VerticalRate  *float64  `json:"vertical_rate_mps"`
	GeoAltitude   *float64  `json:"geo_altitude_m"`
	Location      *GeoPoint `json:"location,omitempty"`
}

func newDocument(f Flight) document {
	doc := document{
		ICAO24:        f.ICAO24,
		Callsign:      f.Callsign,
		OriginCountry: f.OriginCountry,
		BaroAltitude:  f.BaroAltitude,
		OnGround:      f.OnGround,
		Velocity:      f.Velocity,
		TrueTrack:     f.TrueTrack,
		VerticalRate:  f.VerticalRate,
		GeoAltitude:   f.GeoAltitude,
	}
	if f.Latitude != nil && f.Longitude != nil {
		doc.Location = &GeoPoint{Lat: *f.Latitude, Lon: *f.Longitude}
	}
	return doc
}

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T {
	return &v
}
