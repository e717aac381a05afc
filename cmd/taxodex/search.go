package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/taxodex/internal/domain/record"
)

func searchCmd(flags *globalFlags) *cobra.Command {
	var compact bool

	cmd := &cobra.Command{
		Use:   "search <collection> [query...]",
		Short: "Search a collection and print matching records as JSON",
		Long: "Search literature, taxonomy or samples. Every searchable field is matched\n" +
			"case-insensitively against the query; an empty query prints the whole collection.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := record.ParseKind(args[0])
			if err != nil {
				return err //nolint:wrapcheck // ParseKind names the bad input
			}
			query := strings.Join(args[1:], " ")

			a, err := newApp(cmd.Context(), flags)
			if err != nil {
				return err
			}
			defer a.close()

			s, err := a.searcher(cmd.Context())
			if err != nil {
				return err
			}
			recs, err := s.Search(cmd.Context(), kind, query)
			if err != nil {
				return fmt.Errorf("search %s: %w", kind, err)
			}
			if recs == nil {
				recs = []record.Record{}
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			if !compact {
				enc.SetIndent("", "  ")
			}
			return enc.Encode(recs) //nolint:wrapcheck // stdout write
		},
	}
	cmd.Flags().BoolVar(&compact, "compact", false, "print compact JSON")
	return cmd
}
