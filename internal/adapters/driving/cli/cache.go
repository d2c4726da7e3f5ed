package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the filing cache",
	Long:  `Inspect or clear the local document cache.`,
	RunE:  runCacheStats,
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show cache statistics",
	RunE:  runCacheStats,
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove expired cache entries",
	Long: `Removes entries older than the cache TTL. With --all, every entry is
removed regardless of age.`,
	RunE: runCacheClear,
}

var cacheClearAll bool

func init() {
	cacheClearCmd.Flags().BoolVar(&cacheClearAll, "all", false, "Remove all entries, not just expired ones")

	cacheCmd.AddCommand(cacheStatsCmd)
	cacheCmd.AddCommand(cacheClearCmd)
	rootCmd.AddCommand(cacheCmd)
}

func runCacheStats(cmd *cobra.Command, _ []string) error {
	if filingCache == nil {
		return errors.New("cache not configured")
	}

	stats, err := filingCache.Stats(context.Background())
	if err != nil {
		return fmt.Errorf("reading cache stats: %w", err)
	}

	cmd.Printf("Documents:  %d\n", stats.Count)
	cmd.Printf("Total size: %.2f MB\n", stats.TotalSizeMB)
	if stats.OldestAgeDays != nil {
		cmd.Printf("Oldest:     %.1f days\n", *stats.OldestAgeDays)
	} else {
		cmd.Println("Oldest:     (empty)")
	}
	return nil
}

func runCacheClear(cmd *cobra.Command, _ []string) error {
	if filingCache == nil {
		return errors.New("cache not configured")
	}

	ctx := context.Background()

	var (
		removed int64
		err     error
	)
	if cacheClearAll {
		removed, err = filingCache.ClearAll(ctx)
	} else {
		removed, err = filingCache.ClearExpired(ctx)
	}
	if err != nil {
		return fmt.Errorf("clearing cache: %w", err)
	}

	cmd.Printf("Removed %d entries\n", removed)
	return nil
}
