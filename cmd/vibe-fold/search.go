package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/inodb/vibe-fold/internal/looptree"
)

func newSearchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search <compact-structure>",
		Short: "Find cached structures with a given compacted topology",
		Long: `Search the prediction cache for structures whose compacted dot-bracket
equals the argument. Any dot-bracket is accepted and compacted first.`,
		Example: `  vibe-fold search --cache ~/.vibe-fold/cache.duckdb "(.).(.)"
  vibe-fold search "((((...))))"`,
		Args: exactArgs(1),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return bindFlags(cmd, map[string]string{keyCachePath: "cache"})
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := looptree.Parse(args[0])
			if err != nil {
				return usageErrorf("invalid structure %q: %v", args[0], err)
			}
			compact := t.Compact().DotBracket()

			store, err := openCache()
			if err != nil {
				return err
			}
			defer store.Close()

			rows, err := store.SearchByTopology(compact)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tRank\tScore\tSequence\tDot_bracket")
			for _, r := range rows {
				fmt.Fprintf(w, "%s\t%d\t%d\t%s\t%s\n", r.SeqID, r.Rank, r.Score, r.Sequence, r.DotBracket)
			}
			if err := w.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "%d structure(s) with topology %s\n", len(rows), compact)
			return nil
		},
	}

	cmd.Flags().String("cache", "", "DuckDB prediction cache path")
	return cmd
}
