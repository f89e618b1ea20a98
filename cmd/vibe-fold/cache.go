package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/inodb/vibe-fold/internal/duckdb"
)

func newCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the prediction cache",
		Args:  noArgs,
	}
	cmd.AddCommand(newCacheClearCmd())
	return cmd
}

func newCacheClearCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "clear",
		Short:   "Remove every cached prediction",
		Example: `  vibe-fold cache clear --cache ~/.vibe-fold/cache.duckdb`,
		Args:    noArgs,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return bindFlags(cmd, map[string]string{keyCachePath: "cache"})
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openCache()
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.ClearPredictions(); err != nil {
				return fmt.Errorf("clear predictions: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Cleared cached predictions in %s\n", store.Path())
			return nil
		},
	}
	cmd.Flags().String("cache", "", "DuckDB prediction cache path")
	return cmd
}

// openCache opens the store named by cache.path, which must be set.
func openCache() (*duckdb.Store, error) {
	path := viper.GetString(keyCachePath)
	if path == "" {
		return nil, usageErrorf("a prediction cache is required (--cache or %s)", keyCachePath)
	}
	store, err := duckdb.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open prediction cache: %w", err)
	}
	return store, nil
}
