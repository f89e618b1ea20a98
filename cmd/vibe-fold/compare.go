package main

import (
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/inodb/vibe-fold/internal/dotbracket"
	"github.com/inodb/vibe-fold/internal/fold"
	"github.com/inodb/vibe-fold/internal/output"
	"github.com/inodb/vibe-fold/internal/structure"
)

func newCompareCmd() *cobra.Command {
	var (
		ids     []string
		showAll bool
	)

	cmd := &cobra.Command{
		Use:   "compare <file.db>",
		Short: "Compare structures by compacted loop-tree topology",
		Long: `Compare every pair of valid structures in a dot-bracket batch file by
their compacted loop trees. Invalid records are skipped with a warning.`,
		Example: `  vibe-fold compare structures.db
  vibe-fold compare --ids tRNA1,tRNA2 --all structures.db`,
		Args: exactArgs(1),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return bindFlags(cmd, map[string]string{keyMinLoop: "min-loop"})
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			minLoop, err := configMinLoop()
			if err != nil {
				return err
			}
			logger, err := loggerFor(cmd)
			if err != nil {
				return err
			}
			defer logger.Sync()

			structs, err := dotbracket.ReadStructures(args[0], pairScores(), minLoop)
			for _, e := range multierr.Errors(err) {
				logger.Warn("skipping invalid record", zap.String("file", args[0]), zap.Error(e))
			}

			if len(ids) > 0 {
				structs, err = selectIDs(structs, ids)
				if err != nil {
					return err
				}
			}

			w := output.NewCompareWriter(cmd.OutOrStdout(), showAll)
			if err := w.WriteHeader(); err != nil {
				return err
			}
			for i := range structs {
				for j := i + 1; j < len(structs); j++ {
					if err := w.WriteComparison(structs[i], structs[j]); err != nil {
						return err
					}
				}
			}
			if err := w.Flush(); err != nil {
				return err
			}
			w.WriteSummary(cmd.ErrOrStderr())
			return nil
		},
	}

	f := cmd.Flags()
	f.StringSliceVar(&ids, "ids", nil, "Only compare these record identifiers")
	f.BoolVar(&showAll, "all", false, "Show every pair (default: matching pairs only)")
	f.Int("min-loop", fold.DefaultMinLoop, "Minimum hairpin loop length")

	return cmd
}

// selectIDs returns the structures named by ids in the order given.
func selectIDs(structs []*structure.Structure, ids []string) ([]*structure.Structure, error) {
	byID := dotbracket.ByID(structs)
	out := make([]*structure.Structure, 0, len(ids))
	var missing []string
	for _, id := range ids {
		s, ok := byID[id]
		if !ok {
			missing = append(missing, id)
			continue
		}
		out = append(out, s)
	}
	if len(missing) > 0 {
		return nil, usageErrorf("unknown or invalid record id(s): %s", strings.Join(missing, ", "))
	}
	return out, nil
}
