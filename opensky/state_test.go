package opensky

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// decodeVector decodes s and pads it with nulls to the 17 positions the API
// sends.
func decodeVector(t *testing.T, s string) RawStateVector {
	t.Helper()

	var v RawStateVector
	dec := json.NewDecoder(strings.NewReader(s))
	dec.UseNumber()
	require.NoError(t, dec.Decode(&v))
	for len(v) < 17 {
		v = append(v, nil)
	}
	return v
}

func TestNormalize_NullNumericFieldsStayNil(t *testing.T) {
	v := decodeVector(t, `["abc", "CS", "NL", 0, 0, null, null, null, false, null, null, null, null, null]`)

	f, err := v.Normalize()
	require.NoError(t, err)
	assert.Nil(t, f.Longitude)
	assert.Nil(t, f.Latitude)
	assert.Nil(t, f.BaroAltitude)
	assert.Nil(t, f.Velocity)
	assert.Nil(t, f.TrueTrack)
	assert.Nil(t, f.VerticalRate)
	assert.Nil(t, f.GeoAltitude)
}

func TestNormalize_ZeroIsUnknown(t *testing.T) {
	v := decodeVector(t, `["abc", "CS", "NL", 0, 0, 4.5, 52.1, 0, true, 0.0, 0, 0, null, 0]`)

	f, err := v.Normalize()
	require.NoError(t, err)
	require.NotNil(t, f.Longitude)
	assert.Equal(t, 4.5, *f.Longitude)
	assert.Nil(t, f.BaroAltitude)
	assert.Nil(t, f.Velocity)
	assert.Nil(t, f.TrueTrack)
	assert.Nil(t, f.VerticalRate)
	assert.Nil(t, f.GeoAltitude)
}

func TestNormalize_OnGround(t *testing.T) {
	tests := []struct {
		raw  string
		want bool
	}{
		{`true`, true},
		{`false`, false},
		{`null`, false},
		{`1`, true},
		{`0`, false},
		{`"yes"`, true},
		{`""`, false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			v := decodeVector(t, `["abc", null, null, null, null, null, null, null, `+tt.raw+`]`)
			f, err := v.Normalize()
			require.NoError(t, err)
			assert.Equal(t, tt.want, f.OnGround)
		})
	}
}

func TestNormalize_Callsign(t *testing.T) {
	f, err := decodeVector(t, `["abc", "  KLM1023 "]`).Normalize()
	require.NoError(t, err)
	require.NotNil(t, f.Callsign)
	assert.Equal(t, "KLM1023", *f.Callsign)

	f, err = decodeVector(t, `["abc", ""]`).Normalize()
	require.NoError(t, err)
	assert.Nil(t, f.Callsign)
}

func TestNormalize_ShortVector(t *testing.T) {
	tests := map[string]RawStateVector{
		"null":         nil,
		"empty":        {},
		"one field":    {"abc"},
		"13 positions": {"abc", "CS", "NL", nil, nil, nil, nil, nil, false, nil, nil, nil, nil},
	}

	for name, v := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := v.Normalize()
			assert.ErrorContains(t, err, "state vector")
		})
	}
}

func TestNormalize_MinimalVector(t *testing.T) {
	v := RawStateVector{"abc", "CS", "NL", nil, nil, nil, nil, nil, false, nil, nil, nil, nil, nil}

	f, err := v.Normalize()
	require.NoError(t, err)
	require.NotNil(t, f.ICAO24)
	assert.Equal(t, "abc", *f.ICAO24)
	assert.Nil(t, f.GeoAltitude)
}

func TestNormalize_NumericStrings(t *testing.T) {
	f, err := decodeVector(t, `["abc", null, null, null, null, "8.5", " 47.25 "]`).Normalize()
	require.NoError(t, err)
	require.NotNil(t, f.Longitude)
	require.NotNil(t, f.Latitude)
	assert.Equal(t, 8.5, *f.Longitude)
	assert.Equal(t, 47.25, *f.Latitude)

	_, err = decodeVector(t, `["abc", null, null, null, null, [1, 2]]`).Normalize()
	assert.Error(t, err)
}
