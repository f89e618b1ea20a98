package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/inodb/vibe-fold/internal/connect"
	"github.com/inodb/vibe-fold/internal/dotbracket"
	"github.com/inodb/vibe-fold/internal/fold"
	"github.com/inodb/vibe-fold/internal/rna"
	"github.com/inodb/vibe-fold/internal/structure"
)

func newValidateCmd() *cobra.Command {
	var quiet bool

	cmd := &cobra.Command{
		Use:   "validate <file>",
		Short: "Validate structures in a dot-bracket or connect table file",
		Long: `Validate every structure of a dot-bracket batch file (.db, records of
'>id', sequence, structure) or a connect table (.ct). Valid structures are
echoed in dot-bracket form; each rejected record is reported on stderr.`,
		Example: `  vibe-fold validate structures.db
  vibe-fold validate --min-loop 0 hairpin.ct`,
		Args: exactArgs(1),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return bindFlags(cmd, map[string]string{
				keyMinLoop: "min-loop",
				keyGC:      "gc",
				keyAU:      "au",
				keyGU:      "gu",
			})
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

			valid, err := readStructures(args[0], pairScores(), minLoop)
			errs := multierr.Errors(err)
			for _, e := range errs {
				logger.Warn("invalid record", zap.String("file", args[0]), zap.Error(e))
			}

			if !quiet {
				w := dotbracket.NewWriter(cmd.OutOrStdout())
				for _, s := range valid {
					if err := w.WriteStructure(s); err != nil {
						return err
					}
				}
				if err := w.Flush(); err != nil {
					return err
				}
			}

			fmt.Fprintf(cmd.ErrOrStderr(), "%d valid, %d invalid\n", len(valid), len(errs))
			if len(errs) > 0 {
				return fmt.Errorf("%d invalid record(s) in %s", len(errs), args[0])
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.BoolVarP(&quiet, "quiet", "q", false, "Only report errors and the summary")
	f.Int("min-loop", fold.DefaultMinLoop, "Minimum hairpin loop length")
	f.Int("gc", rna.DefaultGC, "Score of a GC pair")
	f.Int("au", rna.DefaultAU, "Score of an AU pair")
	f.Int("gu", rna.DefaultGU, "Score of a GU pair")

	return cmd
}

// readStructures reads a .ct file as one structure and anything else as a
// dot-bracket batch.
func readStructures(path string, scores *rna.PairScore, minLoop int) ([]*structure.Structure, error) {
	if strings.EqualFold(filepath.Ext(path), ".ct") {
		s, err := connect.Read(path, scores, minLoop)
		if err != nil {
			return nil, err
		}
		return []*structure.Structure{s}, nil
	}
	return dotbracket.ReadStructures(path, scores, minLoop)
}
