package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/kurakura967/flightsync"
)

func newFetchCommand(a *app) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Print the current state of every tracked aircraft.",
		Long: `Fetch the current state vectors from OpenSky, normalize them and print
the result. Nothing is written to Elasticsearch.`,
		Args: cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if output != "json" && output != "yaml" {
				return fmt.Errorf("unknown output format %q, want json or yaml", output)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			flights, err := a.fetcher().FetchStates(cmd.Context())
			if err != nil {
				return err
			}
			a.log.V(1).Info("fetched flights", "count", len(flights))
			return writeFlights(cmd, output, flights)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "json", "Output format: json or yaml.")
	return cmd
}

func writeFlights(cmd *cobra.Command, format string, flights []flightsync.Flight) error {
	out := cmd.OutOrStdout()

	if format == "yaml" {
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(flights); err != nil {
			return err
		}
		return enc.Close()
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(flights)
}
