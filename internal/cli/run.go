package cli

import (
	"github.com/spf13/cobra"

	"github.com/kurakura967/flightsync/internal/metrics"
)

func newRunCommand(a *app) *cobra.Command {
	var metricsFile string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Fetch every tracked aircraft and index it.",
		Long: `Run one sync: fetch the current state vectors from OpenSky and index
each flight into Elasticsearch. With --metrics-file, run counters are
written in the Prometheus text format when the run ends, whether it
succeeded or not.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m := metrics.New()
			if metricsFile != "" {
				defer func() {
					if werr := m.WriteTextfile(metricsFile); werr != nil {
						a.log.Error(werr, "writing metrics", "path", metricsFile)
					}
				}()
			}

			ix, err := a.indexer()
			if err != nil {
				return err
			}

			flights, err := a.fetcher().FetchStates(cmd.Context())
			if err != nil {
				return err
			}
			m.ObserveFetch(len(flights))
			a.log.Info("fetched flights", "count", len(flights))

			return a.indexAll(cmd.Context(), cmd.OutOrStdout(), ix, flights, m)
		},
	}

	cmd.Flags().StringVar(&metricsFile, "metrics-file", "", "Write run metrics to this file.")
	return cmd
}
