package flightsync

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// ReadFlightsFile reads flight records from a YAML or JSON file. See ReadFlights.
func ReadFlightsFile(path string) ([]Flight, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %q: %w", path, err)
	}
	defer f.Close()

	flights, err := ReadFlights(f)
	if err != nil {
		return nil, fmt.Errorf("parsing %q: %w", path, err)
	}

	return flights, nil
}

// ReadFlights parses flight records from r. The input is YAML or JSON and may
// hold several documents; each document is either a single record or a list
// of records.
func ReadFlights(r io.Reader) ([]Flight, error) {
	dec := yaml.NewDecoder(r)

	var flights []Flight
	for {
		var node yaml.Node
		err := dec.Decode(&node)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("unmarshaling YAML: %w", err)
		}

		docFlights, err := decodeFlights(&node)
		if err != nil {
			return nil, err
		}
		flights = append(flights, docFlights...)
	}

	return flights, nil
}

// decodeFlights decodes one YAML document holding a record or a list of records.
func decodeFlights(node *yaml.Node) ([]Flight, error) {
	if node.Kind == yaml.DocumentNode {
		if len(node.Content) == 0 {
			return nil, nil
		}
		node = node.Content[0]
	}

	switch node.Kind {
	case yaml.SequenceNode:
		var flights []Flight
		if err := node.Decode(&flights); err != nil {
			return nil, fmt.Errorf("decoding flight list (line %d): %w", node.Line, err)
		}
		return flights, nil
	case yaml.MappingNode:
		var f Flight
		if err := node.Decode(&f); err != nil {
			return nil, fmt.Errorf("decoding flight (line %d): %w", node.Line, err)
		}
		return []Flight{f}, nil
	case yaml.ScalarNode:
		if node.Tag == "!!null" {
			return nil, nil
		}
	}

	return nil, fmt.Errorf("line %d: expected a flight record or a list of records", node.Line)
}
