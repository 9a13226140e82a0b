package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/kurakura967/flightsync"
	"github.com/kurakura967/flightsync/internal/metrics"
)

func newIndexCommand(a *app) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "index",
		Short: "Index flight records read from a file.",
		Long: `Read normalized flight records from a YAML or JSON file, or standard
input when --file is "-" or empty, and index each of them. One response
line is printed per record.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			flights, err := a.readFlights(file)
			if err != nil {
				return err
			}

			ix, err := a.indexer()
			if err != nil {
				return err
			}

			return a.indexAll(cmd.Context(), cmd.OutOrStdout(), ix, flights, metrics.New())
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "-", `Flight records file, "-" for standard input.`)
	return cmd
}

func (a *app) readFlights(file string) ([]flightsync.Flight, error) {
	if file == "" || file == "-" {
		return flightsync.ReadFlights(a.stdin)
	}
	return flightsync.ReadFlightsFile(file)
}

// indexAll indexes flights one at a time and prints a response line for each.
// A connection failure stops the run since every later flight would fail the
// same way. Other failures are logged by the indexer and reported once all
// flights are done.
func (a *app) indexAll(ctx context.Context, out io.Writer, ix *flightsync.Indexer, flights []flightsync.Flight, m *metrics.Metrics) error {
	enc := json.NewEncoder(out)

	var failed int
	for _, f := range flights {
		res, err := ix.Index(ctx, f)
		m.ObserveIndex(res, err)
		if err != nil {
			if flightsync.KindOf(err) == flightsync.KindConnectionRefused {
				return err
			}
			failed++
			continue
		}

		if err := enc.Encode(res.Response()); err != nil {
			return err
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d flights could not be indexed", failed, len(flights))
	}
	return nil
}
