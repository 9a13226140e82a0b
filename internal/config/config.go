// Package config holds the flightsync configuration.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/kurakura967/flightsync"
	"github.com/kurakura967/flightsync/opensky"
)

// Config is the complete configuration of the flightsync binary.
type Config struct {
	OpenSky       OpenSky       `yaml:"opensky"`
	Elasticsearch Elasticsearch `yaml:"elasticsearch"`
	Kibana        Kibana        `yaml:"kibana"`
	Log           Log           `yaml:"log"`
}

// OpenSky configures the state vector source.
type OpenSky struct {
	URL     string        `yaml:"url"`
	Timeout time.Duration `yaml:"timeout"`
}

// Elasticsearch configures the index backend.
type Elasticsearch struct {
	URL                string        `yaml:"url"`
	Username           string        `yaml:"username"`
	Password           string        `yaml:"password"`
	Index              string        `yaml:"index"`
	Timeout            time.Duration `yaml:"timeout"`
	InsecureSkipVerify bool          `yaml:"insecure_skip_verify"`
	Tracing            bool          `yaml:"tracing"`
	LogRequests        bool          `yaml:"log_requests"`
}

// Kibana configures data view provisioning.
type Kibana struct {
	Enabled    bool   `yaml:"enabled"`
	URL        string `yaml:"url"`
	Username   string `yaml:"username"`
	Password   string `yaml:"password"`
	DataViewID string `yaml:"data_view_id"`
}

// Log configures logging.
type Log struct {
	// Verbosity enables V(n) logs up to n. 0 logs lifecycle events only.
	Verbosity int `yaml:"verbosity"`
}

// Default returns the configuration used when nothing is overridden.
func Default() Config {
	return Config{
		OpenSky: OpenSky{
			URL:     opensky.DefaultBaseURL,
			Timeout: opensky.DefaultTimeout,
		},
		Elasticsearch: Elasticsearch{
			URL:                "http://elasticsearch:9200",
			Username:           "elastic",
			Password:           "changeme",
			Index:              flightsync.DefaultIndex,
			Timeout:            flightsync.DefaultRequestTimeout,
			InsecureSkipVerify: true,
		},
		Kibana: Kibana{
			Enabled:    true,
			URL:        "http://kibana:5601",
			Username:   "elastic",
			Password:   "changeme",
			DataViewID: flightsync.DefaultDataViewID,
		},
	}
}

// Load reads a YAML configuration file. Keys missing from the file keep their
// default values; unknown keys are an error.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading configuration file %q: %w", path, err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("parsing configuration file %q: %w", path, err)
	}

	return cfg, nil
}

// Parse decodes YAML configuration over the defaults.
func Parse(data []byte) (Config, error) {
	cfg := Default()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, err
	}

	return cfg, nil
}

// Validate reports every invalid setting.
func (c Config) Validate() error {
	var errs []error

	if err := validURL("opensky.url", c.OpenSky.URL); err != nil {
		errs = append(errs, err)
	}
	if c.OpenSky.Timeout <= 0 {
		errs = append(errs, errors.New("opensky.timeout must be positive"))
	}
	if err := validURL("elasticsearch.url", c.Elasticsearch.URL); err != nil {
		errs = append(errs, err)
	}
	if c.Elasticsearch.Index == "" {
		errs = append(errs, errors.New("elasticsearch.index must not be empty"))
	}
	if c.Elasticsearch.Timeout <= 0 {
		errs = append(errs, errors.New("elasticsearch.timeout must be positive"))
	}
	if c.Kibana.Enabled {
		if err := validURL("kibana.url", c.Kibana.URL); err != nil {
			errs = append(errs, err)
		}
		if c.Kibana.DataViewID == "" {
			errs = append(errs, errors.New("kibana.data_view_id must not be empty"))
		}
	}

	return errors.Join(errs...)
}

func validURL(key, raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%s: %q is not an http(s) URL", key, raw)
	}
	if u.Host == "" {
		return fmt.Errorf("%s: %q has no host", key, raw)
	}
	return nil
}

// Redacted returns a copy of c with passwords masked.
func (c Config) Redacted() Config {
	if c.Elasticsearch.Password != "" {
		c.Elasticsearch.Password = "********"
	}
	if c.Kibana.Password != "" {
		c.Kibana.Password = "********"
	}
	return c
}
