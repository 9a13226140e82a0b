package flightsync

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/go-logr/logr"
)

// Option configures the Indexer.
type Option func(*Indexer) error

// IndexName sets the index flights are written to. Defaults to DefaultIndex.
func IndexName(name string) Option {
	return func(ix *Indexer) error {
		ix.index = name
		return nil
	}
}

// DataViews enables Kibana data view provisioning through client, using id
// as both the data view ID and name.
func DataViews(client *DataViewClient, id string) Option {
	return func(ix *Indexer) error {
		if client == nil {
			return errors.New("data view client must not be nil")
		}
		if id == "" {
			return errors.New("data view id must not be empty")
		}
		ix.views = client
		ix.dataViewID = id
		return nil
	}
}

// IndexSettings sets the "settings" section sent when the index is created.
func IndexSettings(settings json.RawMessage) Option {
	return func(ix *Indexer) error {
		if settings != nil && !json.Valid(settings) {
			return errors.New("index settings are not valid JSON")
		}
		ix.settings = settings
		return nil
	}
}

// RequestTimeout bounds each request to Elasticsearch and Kibana.
// Defaults to DefaultRequestTimeout.
func RequestTimeout(d time.Duration) Option {
	return func(ix *Indexer) error {
		if d <= 0 {
			return errors.New("request timeout must be positive")
		}
		ix.timeout = d
		return nil
	}
}

// WithLogger sets the logger. If not set, nothing is logged.
func WithLogger(log logr.Logger) Option {
	return func(ix *Indexer) error {
		ix.log = log
		return nil
	}
}
