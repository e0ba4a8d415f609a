package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:          "transitbuild",
	Short:        "Transit topology builder",
	Long:         "Reconstructs transit network topology from OSM element snapshots and exports the result",
	SilenceUsage: true,
}

var (
	catalogueFlag    string
	snapshotDirFlag  string
	configFlag       string
	outFlag          string
	cacheDirFlag     string
	cacheBackendFlag string
	recoveryFlag     string
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&catalogueFlag, "catalogue", "", "", "City catalogue CSV")
	rootCmd.PersistentFlags().StringVarP(&snapshotDirFlag, "snapshot-dir", "", "./snapshots", "Directory of fetched per-city element snapshots")
	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "", "", "Tunables YAML file")
	rootCmd.PersistentFlags().StringVarP(&outFlag, "out", "o", "export.json", "Export output path")
	rootCmd.PersistentFlags().StringVarP(&cacheDirFlag, "cache-dir", "", "./cache", "Cache directory/file")
	rootCmd.PersistentFlags().StringVarP(&cacheBackendFlag, "cache-backend", "", "jsonfile", "Cache backend: jsonfile or sqlite")
	rootCmd.PersistentFlags().StringVarP(&recoveryFlag, "recovery", "", "", "Recovery store path (optional)")

	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(statsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
