package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newResetCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Delete the flight index.",
		Long: `Delete the flight index. A missing index is not an error. The Kibana
data view is left in place and picks the index up again once it is
recreated.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ix, err := a.indexer()
			if err != nil {
				return err
			}
			if err := ix.DeleteIndex(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted index %s\n", a.cfg.Elasticsearch.Index)
			return nil
		},
	}
}
