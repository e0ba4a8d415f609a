package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/transitmap/topology/cache"
	"github.com/transitmap/topology/catalogue"
	"github.com/transitmap/topology/config"
	"github.com/transitmap/topology/pipeline"
	"github.com/transitmap/topology/recovery"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build topology for every city in the catalogue and write the export",
	RunE:  runBuild,
}

func runBuild(cmd *cobra.Command, args []string) error {
	if catalogueFlag == "" {
		return fmt.Errorf("--catalogue is required")
	}

	tunables, err := config.Load(configFlag)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	f, err := os.Open(catalogueFlag)
	if err != nil {
		return fmt.Errorf("opening catalogue: %w", err)
	}
	defer f.Close()

	cities, err := catalogue.Load(f, snapshotDirFlag)
	if err != nil {
		return fmt.Errorf("loading catalogue: %w", err)
	}

	cacheStore, err := openCacheStore()
	if err != nil {
		return fmt.Errorf("opening cache: %w", err)
	}
	defer cacheStore.Close()

	var recoveryStore recovery.Store
	if recoveryFlag != "" {
		recoveryStore = recovery.NewJSONFileStore(recoveryFlag)
		defer recoveryStore.Close()
	}

	result, err := pipeline.Run(cities, tunables, cacheStore, recoveryStore)
	if err != nil {
		return fmt.Errorf("running pipeline: %w", err)
	}

	for _, city := range result.Cities {
		if city == nil {
			continue
		}
		fmt.Printf("%s: %d errors, %d warnings\n", city.Meta.Name, len(city.Errors), len(city.Warnings))
	}

	out, err := json.MarshalIndent(result.Export, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding export: %w", err)
	}
	if err := os.WriteFile(outFlag, out, 0o644); err != nil {
		return fmt.Errorf("writing export: %w", err)
	}

	return nil
}

func openCacheStore() (cache.Store, error) {
	switch config.CacheBackend(cacheBackendFlag) {
	case config.CacheBackendSQLite:
		return cache.NewSQLiteStore(cacheDirFlag)
	default:
		return cache.NewJSONFileStore(cacheDirFlag)
	}
}
