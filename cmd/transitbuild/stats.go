package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "cache-stats",
	Short: "Print cache contents summary",
	RunE:  runStats,
}

func runStats(cmd *cobra.Command, args []string) error {
	cacheStore, err := openCacheStore()
	if err != nil {
		return fmt.Errorf("opening cache: %w", err)
	}
	defer cacheStore.Close()

	stats, err := cacheStore.Stats()
	if err != nil {
		return fmt.Errorf("reading cache stats: %w", err)
	}

	fmt.Fprintf(os.Stdout, "cities: %d\ngood: %d\nbad elements: %d\n", stats.Cities, stats.GoodCities, stats.BadElements)
	return nil
}
