package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"tablica.dev/tablica/config"
	"tablica.dev/tablica/registry"
)

var feedsCmd = &cobra.Command{
	Use:   "feeds",
	Short: "Lists feed load history from the registry",
	Args:  cobra.NoArgs,
	RunE:  feeds,
}

var feedsLimit int

func init() {
	feedsCmd.Flags().IntVarP(&feedsLimit, "limit", "l", 0, "Limit the number of records returned")
	rootCmd.AddCommand(feedsCmd)
}

func feeds(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if registryDriver != "" {
		cfg.Registry.Driver = registryDriver
	}
	if registryDSN != "" {
		cfg.Registry.DSN = registryDSN
	}
	if registryDir != "" {
		cfg.Registry.Directory = registryDir
	}

	reg, err := openRegistry(cfg)
	if err != nil {
		return err
	}
	if reg == nil {
		return fmt.Errorf("no registry configured")
	}
	defer reg.Close()

	recs, err := reg.ListLoads(feedsLimit)
	if err != nil {
		return err
	}

	for _, rec := range recs {
		fmt.Println(formatLoadRecord(rec))
	}

	return nil
}

// The hash is abbreviated with %.12s rather than sliced, so rows with
// shorter hashes (hand-inserted or migrated) print as-is.
func formatLoadRecord(rec *registry.LoadRecord) string {
	return fmt.Sprintf("%s %.12s %s stops=%d trips=%d stop_times=%d warnings=%d",
		rec.LoadedAt.Format(time.RFC3339),
		rec.Hash,
		rec.Path,
		rec.Stops,
		rec.Trips,
		rec.StopTimes,
		rec.Warnings,
	)
}
