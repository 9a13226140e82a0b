// Package cli implements the flightsync command tree.
package cli

import (
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/elastic/elastic-transport-go/v8/elastictransport"
	"github.com/go-logr/logr"
	"github.com/go-logr/stdr"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/kurakura967/flightsync"
	"github.com/kurakura967/flightsync/internal/config"
	"github.com/kurakura967/flightsync/opensky"
)

const envPrefix = "FLIGHTSYNC"

// app carries what every command needs once flags are parsed.
type app struct {
	cfg    config.Config
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	log    logr.Logger
}

// NewRootCommand returns the flightsync command with all subcommands.
func NewRootCommand(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	a := &app{
		cfg:    config.Default(),
		stdin:  stdin,
		stdout: stdout,
		stderr: stderr,
		log:    logr.Discard(),
	}

	rc := &cobra.Command{
		Use:   "flightsync",
		Short: "Copy live aircraft state vectors from OpenSky into Elasticsearch.",
		Long: `flightsync fetches the current state vector of every aircraft tracked
by the OpenSky Network and writes one document per aircraft into an
Elasticsearch index, keyed by its ICAO 24-bit transponder address.

The index is created with a geo_point mapping on first use, along with a
Kibana data view over it.

Every flag can also be set through the environment, prefixed with
FLIGHTSYNC_ (--es-url is FLIGHTSYNC_ES_URL), or in a YAML file given
with --config. Flags win over the environment, which wins over the file.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := setAllConfig(viper.New(), cmd.Flags(), &a.cfg); err != nil {
				return err
			}
			if err := a.cfg.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}

			stdr.SetVerbosity(a.cfg.Log.Verbosity)
			a.log = stdr.New(log.New(a.stderr, "", log.LstdFlags))
			return nil
		},
	}

	flags := rc.PersistentFlags()
	flags.StringP("config", "c", "", "YAML configuration file to read from.")
	flags.StringVar(&a.cfg.OpenSky.URL, "opensky-url", a.cfg.OpenSky.URL, "OpenSky API base URL.")
	flags.DurationVar(&a.cfg.OpenSky.Timeout, "opensky-timeout", a.cfg.OpenSky.Timeout, "Timeout of the state vector request.")
	flags.StringVar(&a.cfg.Elasticsearch.URL, "es-url", a.cfg.Elasticsearch.URL, "Elasticsearch URL.")
	flags.StringVar(&a.cfg.Elasticsearch.Username, "es-username", a.cfg.Elasticsearch.Username, "Elasticsearch user.")
	flags.StringVar(&a.cfg.Elasticsearch.Password, "es-password", a.cfg.Elasticsearch.Password, "Elasticsearch password.")
	flags.StringVar(&a.cfg.Elasticsearch.Index, "es-index", a.cfg.Elasticsearch.Index, "Index flights are written to.")
	flags.DurationVar(&a.cfg.Elasticsearch.Timeout, "es-timeout", a.cfg.Elasticsearch.Timeout, "Timeout of each Elasticsearch and Kibana request.")
	flags.BoolVar(&a.cfg.Elasticsearch.InsecureSkipVerify, "es-insecure", a.cfg.Elasticsearch.InsecureSkipVerify, "Skip TLS certificate verification for Elasticsearch and Kibana.")
	flags.BoolVar(&a.cfg.Elasticsearch.Tracing, "es-tracing", a.cfg.Elasticsearch.Tracing, "Emit OpenTelemetry spans for Elasticsearch requests.")
	flags.BoolVar(&a.cfg.Elasticsearch.LogRequests, "es-log-requests", a.cfg.Elasticsearch.LogRequests, "Log every Elasticsearch and Kibana request and response.")
	flags.BoolVar(&a.cfg.Kibana.Enabled, "kibana-enabled", a.cfg.Kibana.Enabled, "Provision a Kibana data view for the index.")
	flags.StringVar(&a.cfg.Kibana.URL, "kibana-url", a.cfg.Kibana.URL, "Kibana URL.")
	flags.StringVar(&a.cfg.Kibana.Username, "kibana-username", a.cfg.Kibana.Username, "Kibana user.")
	flags.StringVar(&a.cfg.Kibana.Password, "kibana-password", a.cfg.Kibana.Password, "Kibana password.")
	flags.StringVar(&a.cfg.Kibana.DataViewID, "kibana-data-view", a.cfg.Kibana.DataViewID, "ID and name of the Kibana data view.")
	flags.IntVarP(&a.cfg.Log.Verbosity, "verbosity", "v", a.cfg.Log.Verbosity, "Log verbosity.")

	rc.AddCommand(newFetchCommand(a))
	rc.AddCommand(newIndexCommand(a))
	rc.AddCommand(newRunCommand(a))
	rc.AddCommand(newResetCommand(a))
	rc.AddCommand(newConfigCommand(a))

	rc.SetOut(stdout)
	rc.SetErr(stderr)
	return rc
}

// setAllConfig applies configuration in priority order: flags, then the
// environment, then the file named by --config, then the defaults already in
// cfg. Every flag stores into cfg through its pointer, so the file is loaded
// first and the flag and environment values are set on top of it.
//
// Environment variables are the flag names upper-cased, with dashes replaced
// by underscores and prefixed with envPrefix plus an underscore.
func setAllConfig(v *viper.Viper, flags *pflag.FlagSet, cfg *config.Config) error {
	if err := v.BindPFlags(flags); err != nil {
		return err
	}
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	// Capture explicit values before the file overwrites the flag targets.
	overrides := make(map[string]string)
	flags.VisitAll(func(f *pflag.Flag) {
		if v.IsSet(f.Name) {
			overrides[f.Name] = v.GetString(f.Name)
		}
	})

	if path := v.GetString("config"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return err
		}
		*cfg = loaded
	}

	var flagErr error
	flags.VisitAll(func(f *pflag.Flag) {
		value, ok := overrides[f.Name]
		if !ok || flagErr != nil {
			return
		}
		if err := f.Value.Set(value); err != nil {
			flagErr = fmt.Errorf("invalid value %q for %s: %w", value, f.Name, err)
		}
	})

	return flagErr
}

func (a *app) fetcher() *opensky.Client {
	return opensky.NewClient(
		opensky.WithBaseURL(a.cfg.OpenSky.URL),
		opensky.WithTimeout(a.cfg.OpenSky.Timeout),
		opensky.WithLogger(a.log.WithName("opensky")),
	)
}

func (a *app) indexer() (*flightsync.Indexer, error) {
	es := a.cfg.Elasticsearch

	var reqLog elastictransport.Logger
	if es.LogRequests {
		reqLog = &elastictransport.TextLogger{
			Output:             a.stderr,
			EnableRequestBody:  true,
			EnableResponseBody: true,
		}
	}

	client, err := flightsync.NewElasticsearchClient(flightsync.ClientConfig{
		URL:                es.URL,
		Username:           es.Username,
		Password:           es.Password,
		InsecureSkipVerify: es.InsecureSkipVerify,
		Tracing:            es.Tracing,
		Logger:             reqLog,
	})
	if err != nil {
		return nil, err
	}

	opts := []flightsync.Option{
		flightsync.IndexName(es.Index),
		flightsync.RequestTimeout(es.Timeout),
		flightsync.WithLogger(a.log.WithName("indexer")),
	}

	if kb := a.cfg.Kibana; kb.Enabled {
		views, err := flightsync.NewDataViewClient(flightsync.ClientConfig{
			URL:                kb.URL,
			Username:           kb.Username,
			Password:           kb.Password,
			InsecureSkipVerify: es.InsecureSkipVerify,
			Logger:             reqLog,
		})
		if err != nil {
			return nil, err
		}
		opts = append(opts, flightsync.DataViews(views, kb.DataViewID))
	}

	return flightsync.New(client, opts...)
}
