package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/inodb/vibe-fold/internal/dotbracket"
	"github.com/inodb/vibe-fold/internal/duckdb"
	"github.com/inodb/vibe-fold/internal/fasta"
	"github.com/inodb/vibe-fold/internal/fold"
	"github.com/inodb/vibe-fold/internal/output"
	"github.com/inodb/vibe-fold/internal/rna"
)

type foldOptions struct {
	seq          string
	id           string
	all          bool
	skipAll      bool
	recursive    bool
	positions    bool
	spacing      int
	outputFormat string
	outputFile   string
	matrixCSV    string
	heatmap      string
}

func newFoldCmd() *cobra.Command {
	var opts foldOptions

	cmd := &cobra.Command{
		Use:   "fold [input.fa]",
		Short: "Predict secondary structures",
		Long: `Predict an optimal secondary structure for each sequence of a FASTA file
(use '-' for stdin, gzip is detected) or for a single --seq.`,
		Example: `  vibe-fold fold --seq GGGAAACCC
  vibe-fold fold --seq GGGAAAUCC --all --min-loop 2
  vibe-fold fold -f tab --workers 8 sequences.fa.gz
  vibe-fold fold --seq GGGAAACCC --matrix-csv m.csv --heatmap m.png
  vibe-fold fold --cache ~/.vibe-fold/cache.duckdb sequences.fa`,
		Args: maxArgs(1),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return bindFlags(cmd, map[string]string{
				keyMinLoop:       "min-loop",
				keyWorkers:       "workers",
				keyMaxStructures: "max-structures",
				keyGC:            "gc",
				keyAU:            "au",
				keyGU:            "gu",
				keyCachePath:     "cache",
			})
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFold(cmd, args, &opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.seq, "seq", "", "Fold a single sequence")
	f.StringVar(&opts.id, "id", "seq", "Identifier for --seq")
	f.Int("min-loop", fold.DefaultMinLoop, "Minimum hairpin loop length")
	f.Int("gc", rna.DefaultGC, "Score of a GC pair")
	f.Int("au", rna.DefaultAU, "Score of an AU pair")
	f.Int("gu", rna.DefaultGU, "Score of a GU pair")
	f.BoolVar(&opts.all, "all", false, "List every co-optimal structure in the report")
	f.BoolVar(&opts.skipAll, "skip-all", false, "Do not enumerate co-optimal structures")
	f.BoolVar(&opts.recursive, "recursive", false, "Use the recursive traceback")
	f.Int("max-structures", 10000, "Cap on enumerated co-optimal structures (0 for none)")
	f.Int("workers", 0, "Number of parallel workers (0 = all CPUs)")
	f.BoolVar(&opts.positions, "positions", false, "Print a position ruler in the report")
	f.IntVar(&opts.spacing, "spacing", 1, "Spaces between report columns")
	f.StringVarP(&opts.outputFormat, "output-format", "f", "report", "Output format: report, db, tab, ct")
	f.StringVarP(&opts.outputFile, "output", "o", "", "Output file (default: stdout)")
	f.StringVar(&opts.matrixCSV, "matrix-csv", "", "Write the score matrix as CSV (requires --seq)")
	f.StringVar(&opts.heatmap, "heatmap", "", "Render the score matrix to an image, format by extension (requires --seq)")
	f.String("cache", "", "DuckDB prediction cache path")

	return cmd
}

func runFold(cmd *cobra.Command, args []string, opts *foldOptions) error {
	if opts.seq == "" && len(args) == 0 {
		return usageErrorf("an input file or --seq is required")
	}
	if opts.seq != "" && len(args) > 0 {
		return usageErrorf("--seq and an input file are mutually exclusive")
	}
	if opts.seq == "" && (opts.matrixCSV != "" || opts.heatmap != "") {
		return usageErrorf("--matrix-csv and --heatmap require --seq")
	}

	minLoop, err := configMinLoop()
	if err != nil {
		return err
	}

	logger, err := loggerFor(cmd)
	if err != nil {
		return err
	}
	defer logger.Sync()

	scores := pairScores()

	var reader fasta.SequenceReader
	var single *rna.Sequence
	if opts.seq != "" {
		single, err = rna.NewSequence(opts.id, opts.seq)
		if err != nil {
			return err
		}
		reader = fasta.NewSliceReader(single)
	} else {
		p, err := fasta.NewParser(args[0])
		if err != nil {
			if os.IsNotExist(err) {
				return fmt.Errorf("%w (check that the file path is correct)", err)
			}
			return err
		}
		reader = p
	}
	defer reader.Close()

	out := cmd.OutOrStdout()
	if opts.outputFile != "" {
		f, err := os.Create(opts.outputFile)
		if err != nil {
			return fmt.Errorf("create output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	writer, err := newPredictionWriter(out, opts)
	if err != nil {
		return err
	}

	predictor := fold.NewPredictor(scores, minLoop, fold.PredictOptions{
		SkipAll:       opts.skipAll,
		Recursive:     opts.recursive,
		MaxStructures: viper.GetInt(keyMaxStructures),
	})
	predictor.SetLogger(logger)
	predictor.SetWorkers(viper.GetInt(keyWorkers))

	if path := viper.GetString(keyCachePath); path != "" {
		store, err := duckdb.Open(path)
		if err != nil {
			return fmt.Errorf("open prediction cache: %w", err)
		}
		defer store.Close()
		predictor.SetCache(duckdb.NewPredictionCache(store))
		logger.Debug("using prediction cache", zap.String("path", path))
	}

	if err := writer.WriteHeader(); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	if err := predictor.PredictAll(reader, writer); err != nil {
		return err
	}

	if single != nil {
		return writeMatrices(single, scores, minLoop, opts)
	}
	return nil
}

func newPredictionWriter(w io.Writer, opts *foldOptions) (fold.PredictionWriter, error) {
	switch opts.outputFormat {
	case "report":
		return output.NewReportWriter(w, output.ReportOptions{
			ShowAll:   opts.all,
			Positions: opts.positions,
			Spacing:   opts.spacing,
		}), nil
	case "db":
		return dotbracket.NewWriter(w), nil
	case "tab":
		return output.NewTabWriter(w), nil
	case "ct":
		return output.NewCTWriter(w), nil
	default:
		return nil, usageErrorf("unknown output format %q", opts.outputFormat)
	}
}

// writeMatrices writes the optional score matrix outputs for one sequence.
func writeMatrices(seq *rna.Sequence, scores *rna.PairScore, minLoop int, opts *foldOptions) error {
	if opts.matrixCSV == "" && opts.heatmap == "" {
		return nil
	}

	e, err := fold.NewEngine(seq, scores, minLoop)
	if err != nil {
		return err
	}
	m := e.Matrix()

	if opts.matrixCSV != "" {
		if err := writeFile(opts.matrixCSV, func(w io.Writer) error {
			return output.NewMatrixWriter(w, ",").Write(seq, m)
		}); err != nil {
			return fmt.Errorf("write matrix: %w", err)
		}
	}
	if opts.heatmap != "" {
		format := strings.TrimPrefix(filepath.Ext(opts.heatmap), ".")
		if err := writeFile(opts.heatmap, func(w io.Writer) error {
			return output.NewHeatmapWriter(w, format).Write(seq, m)
		}); err != nil {
			return fmt.Errorf("write heatmap: %w", err)
		}
	}
	return nil
}

func writeFile(path string, fn func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := fn(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
