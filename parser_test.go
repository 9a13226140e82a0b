package flightsync

import (
	"errors"
	"io/fs"
	"path/filepath"
	"strings"
	"testing"
)

func TestReadFlightsFile_YAMLList(t *testing.T) {
	flights, err := ReadFlightsFile("testdata/flights.yml")
	if err != nil {
		t.Fatalf("ReadFlightsFile() error: %v", err)
	}

	if len(flights) != 2 {
		t.Fatalf("expected 2 flights, got %d", len(flights))
	}

	t.Run("complete record", func(t *testing.T) {
		f := flights[0]
		if f.ID() != "a8b72b" {
			t.Errorf("expected icao24 'a8b72b', got %q", f.ID())
		}
		if f.Latitude == nil || *f.Latitude != 47.4583 {
			t.Errorf("expected latitude 47.4583, got %v", f.Latitude)
		}
		// Integers decode into float fields.
		if f.GeoAltitude == nil || *f.GeoAltitude != 1300 {
			t.Errorf("expected geo altitude 1300, got %v", f.GeoAltitude)
		}
		if f.VerticalRate != nil {
			t.Errorf("expected vertical rate to be nil, got %v", *f.VerticalRate)
		}
	})

	t.Run("partial record", func(t *testing.T) {
		f := flights[1]
		if !f.OnGround {
			t.Error("expected on_ground to be true")
		}
		if f.Longitude != nil || f.Latitude != nil {
			t.Error("expected coordinates to be nil")
		}
	})
}

func TestReadFlightsFile_JSONRecord(t *testing.T) {
	flights, err := ReadFlightsFile("testdata/flight.json")
	if err != nil {
		t.Fatalf("ReadFlightsFile() error: %v", err)
	}

	if len(flights) != 1 {
		t.Fatalf("expected 1 flight, got %d", len(flights))
	}
	if flights[0].ID() != "3c6444" {
		t.Errorf("expected icao24 '3c6444', got %q", flights[0].ID())
	}
	if flights[0].BaroAltitude != nil {
		t.Error("expected baro altitude to be nil")
	}
}

func TestReadFlights_MultipleDocuments(t *testing.T) {
	input := "icao24: aaa111\n---\n- icao24: bbb222\n- icao24: ccc333\n"

	flights, err := ReadFlights(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ReadFlights() error: %v", err)
	}

	var ids []string
	for _, f := range flights {
		ids = append(ids, f.ID())
	}
	if got := strings.Join(ids, ","); got != "aaa111,bbb222,ccc333" {
		t.Errorf("expected ids in input order, got %s", got)
	}
}

func TestReadFlights_Empty(t *testing.T) {
	flights, err := ReadFlights(strings.NewReader(""))
	if err != nil {
		t.Fatalf("ReadFlights() error: %v", err)
	}
	if len(flights) != 0 {
		t.Errorf("expected no flights, got %d", len(flights))
	}
}

func TestReadFlights_NullOnGround(t *testing.T) {
	flights, err := ReadFlights(strings.NewReader(`{"icao24": "abc", "on_ground": null}`))
	if err != nil {
		t.Fatalf("ReadFlights() error: %v", err)
	}
	if flights[0].OnGround {
		t.Error("expected on_ground to be false")
	}
}

func TestReadFlights_InvalidYAML(t *testing.T) {
	_, err := ReadFlights(strings.NewReader("not: [valid: yaml"))
	if err == nil {
		t.Fatal("expected error for invalid YAML")
	}
}

func TestReadFlights_ScalarDocument(t *testing.T) {
	_, err := ReadFlights(strings.NewReader("just a string\n"))
	if err == nil {
		t.Fatal("expected error for a scalar document")
	}
}

func TestReadFlights_WrongFieldType(t *testing.T) {
	_, err := ReadFlights(strings.NewReader("icao24: abc\nlatitude: north\n"))
	if err == nil {
		t.Fatal("expected error for a non-numeric latitude")
	}
}

func TestReadFlightsFile_NonExistent(t *testing.T) {
	_, err := ReadFlightsFile(filepath.Join(t.TempDir(), "missing.yml"))
	if err == nil {
		t.Fatal("expected error for non-existent file")
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("expected a not-exist error, got %v", err)
	}
}
