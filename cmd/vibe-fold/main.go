// Package main provides the vibe-fold command-line tool.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/inodb/vibe-fold/internal/fold"
	"github.com/inodb/vibe-fold/internal/rna"
)

// Exit codes
const (
	ExitSuccess = 0
	ExitError   = 1
	ExitUsage   = 2
)

// Version information (set at build time)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// Config keys
const (
	keyMinLoop       = "fold.min_loop"
	keyWorkers       = "fold.workers"
	keyMaxStructures = "fold.max_structures"
	keyGC            = "scores.gc"
	keyAU            = "scores.au"
	keyGU            = "scores.gu"
	keyCachePath     = "cache.path"
	keyLogLevel      = "log.level"
)

// usageError marks errors that should exit with ExitUsage.
type usageError struct {
	err error
}

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }

func usageErrorf(format string, args ...any) error {
	return &usageError{err: fmt.Errorf(format, args...)}
}

func main() {
	os.Exit(run())
}

func run() int {
	return execute(os.Args[1:], os.Stdout, os.Stderr)
}

// execute runs the command tree and maps errors to exit codes.
func execute(args []string, stdout, stderr io.Writer) int {
	root := newRootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	if err := root.Execute(); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		var ue *usageError
		if errors.As(err, &ue) {
			return ExitUsage
		}
		return ExitError
	}
	return ExitSuccess
}

func newRootCmd() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "vibe-fold",
		Short: "RNA secondary structure prediction",
		Long: `vibe-fold predicts RNA secondary structures by maximizing weighted base
pairs (Nussinov), enumerates co-optimal structures and compares structures
by their compacted loop-tree topology.`,
		Version:       fmt.Sprintf("%s (%s) built %s", version, commit, date),
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig()
		},
	}
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &usageError{err: err}
	})
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	cmd.AddCommand(
		newFoldCmd(),
		newValidateCmd(),
		newCompareCmd(),
		newTreeCmd(),
		newSearchCmd(),
		newCacheCmd(),
		newConfigCmd(),
		newVersionCmd(),
	)
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "vibe-fold version %s (%s) built %s\n", version, commit, date)
			return nil
		},
	}
}

// initConfig reads ~/.vibe-fold.yaml and VIBE_FOLD_* environment variables.
func initConfig() error {
	viper.SetDefault(keyMinLoop, fold.DefaultMinLoop)
	viper.SetDefault(keyWorkers, 0)
	viper.SetDefault(keyMaxStructures, 10000)
	viper.SetDefault(keyGC, rna.DefaultGC)
	viper.SetDefault(keyAU, rna.DefaultAU)
	viper.SetDefault(keyGU, rna.DefaultGU)
	viper.SetDefault(keyCachePath, "")
	viper.SetDefault(keyLogLevel, "info")

	viper.SetEnvPrefix("VIBE_FOLD")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if viper.ConfigFileUsed() == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil
		}
		viper.AddConfigPath(home)
		viper.SetConfigName(".vibe-fold")
		viper.SetConfigType("yaml")
	}
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("read config: %w", err)
		}
	}
	return nil
}

// bindFlags binds command flags to config keys. Binding happens when the
// command runs so commands sharing a flag name do not override each other.
func bindFlags(cmd *cobra.Command, bindings map[string]string) error {
	for key, name := range bindings {
		if err := viper.BindPFlag(key, cmd.Flags().Lookup(name)); err != nil {
			return fmt.Errorf("bind flag %s: %w", name, err)
		}
	}
	return nil
}

// newLogger builds a console logger on w. verbose forces debug level.
func newLogger(w io.Writer, verbose bool) (*zap.Logger, error) {
	level := zapcore.DebugLevel
	if !verbose {
		var err error
		level, err = zapcore.ParseLevel(viper.GetString(keyLogLevel))
		if err != nil {
			return nil, usageErrorf("invalid log level %q", viper.GetString(keyLogLevel))
		}
	}
	enc := zap.NewDevelopmentEncoderConfig()
	enc.EncodeLevel = zapcore.CapitalLevelEncoder
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(enc), zapcore.AddSync(w), level)
	return zap.New(core), nil
}

// loggerFor builds the logger for a running command.
func loggerFor(cmd *cobra.Command) (*zap.Logger, error) {
	verbose, _ := cmd.Flags().GetBool("verbose")
	return newLogger(cmd.ErrOrStderr(), verbose)
}

// configMinLoop reads the minimum hairpin loop length from config.
func configMinLoop() (int, error) {
	n := viper.GetInt(keyMinLoop)
	if n < 0 {
		return 0, usageErrorf("--min-loop must be non-negative, got %d", n)
	}
	return n, nil
}

// pairScores reads the pair-score table from config.
func pairScores() *rna.PairScore {
	return rna.NewPairScore(viper.GetInt(keyGC), viper.GetInt(keyAU), viper.GetInt(keyGU))
}

func noArgs(cmd *cobra.Command, args []string) error {
	if len(args) > 0 {
		return usageErrorf("%s takes no arguments", cmd.CommandPath())
	}
	return nil
}

func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) != n {
			return usageErrorf("%s requires %d argument(s), got %d", cmd.CommandPath(), n, len(args))
		}
		return nil
	}
}

func maxArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) > n {
			return usageErrorf("%s takes at most %d argument(s), got %d", cmd.CommandPath(), n, len(args))
		}
		return nil
	}
}
