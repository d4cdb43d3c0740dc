package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"pydoxy/internal/cache"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect and manage the result cache",
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show cache entry count and size",
	Args:  cobra.NoArgs,
	RunE:  runCacheStats,
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all cached results",
	Args:  cobra.NoArgs,
	RunE:  runCacheClear,
}

func init() {
	cacheCmd.AddCommand(cacheStatsCmd)
	cacheCmd.AddCommand(cacheClearCmd)
	rootCmd.AddCommand(cacheCmd)
}

// effectiveCacheDir falls back to the user cache directory when the
// --cache-dir flag is not set.
func effectiveCacheDir() (string, error) {
	if cacheDirFlag != "" {
		return cacheDirFlag, nil
	}
	base, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "pydoxy"), nil
}

func runCacheStats(cmd *cobra.Command, args []string) error {
	dir, err := effectiveCacheDir()
	if err != nil {
		return err
	}
	store, err := cache.Open(dir, newLogger())
	if err != nil {
		return err
	}
	defer store.Close()

	stats, err := store.Stats()
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "path:    %s\nentries: %d\nsize:    %d bytes\n",
		stats.Path, stats.Entries, stats.TotalSize)
	return nil
}

func runCacheClear(cmd *cobra.Command, args []string) error {
	dir, err := effectiveCacheDir()
	if err != nil {
		return err
	}
	store, err := cache.Open(dir, newLogger())
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.Clear(); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "cache cleared")
	return nil
}
