package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/inodb/vibe-fold/internal/fold"
	"github.com/inodb/vibe-fold/internal/rna"
	"github.com/inodb/vibe-fold/internal/structure"
)

func newTreeCmd() *cobra.Command {
	var (
		seq, db, id string
		tuples      bool
	)

	cmd := &cobra.Command{
		Use:   "tree",
		Short: "Print the loop tree of a structure",
		Example: `  vibe-fold tree --seq GGGAAACCCAGGGAAACCC --structure "(((...))).(((...)))"
  vibe-fold tree --tuples --seq GGGAAACCC --structure "(((...)))"`,
		Args: noArgs,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return bindFlags(cmd, map[string]string{keyMinLoop: "min-loop"})
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if seq == "" || db == "" {
				return usageErrorf("--seq and --structure are required")
			}
			minLoop, err := configMinLoop()
			if err != nil {
				return err
			}
			rs, err := rna.NewSequence(id, seq)
			if err != nil {
				return err
			}
			s, err := structure.FromDotBracket(rs, db, pairScores())
			if err != nil {
				return err
			}
			if err := s.Validate(); err != nil {
				return err
			}
			if err := s.ValidateHairpin(minLoop); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s\n%s\n", rs.Residues(), s.DotBracket())
			fmt.Fprintln(out, "loop tree:")
			if err := s.Tree().Fprint(out, tuples); err != nil {
				return err
			}
			fmt.Fprintf(out, "compacted: %s\n", s.CompactDotBracket())
			return s.Tree().Compact().Fprint(out, tuples)
		},
	}

	f := cmd.Flags()
	f.StringVar(&seq, "seq", "", "Sequence")
	f.StringVar(&db, "structure", "", "Dot-bracket structure")
	f.StringVar(&id, "id", "seq", "Identifier")
	f.BoolVar(&tuples, "tuples", false, "Label nodes with their intervals")
	f.Int("min-loop", fold.DefaultMinLoop, "Minimum hairpin loop length")

	return cmd
}
