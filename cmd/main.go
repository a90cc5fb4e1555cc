package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"tablica.dev/tablica"
	"tablica.dev/tablica/config"
	"tablica.dev/tablica/registry"
)

var rootCmd = &cobra.Command{
	Use:          "tablica",
	Short:        "Transit departure board tool",
	Long:         "Answers departure queries over a GTFS-style feed archive",
	SilenceUsage: true,
}

var (
	configPath     string
	feedPath       string
	timezone       string
	registryDriver string
	registryDSN    string
	registryDir    string
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to YAML config file")
	rootCmd.PersistentFlags().StringVarP(&feedPath, "feed", "f", "", "Path to feed archive (zip)")
	rootCmd.PersistentFlags().StringVarP(&timezone, "timezone", "t", "", "Feed time zone, e.g. Europe/Warsaw")
	rootCmd.PersistentFlags().StringVarP(&registryDriver, "registry-driver", "", "", "Load registry driver (sqlite or postgres)")
	rootCmd.PersistentFlags().StringVarP(&registryDSN, "registry-dsn", "", "", "Postgres connection string for the load registry")
	rootCmd.PersistentFlags().StringVarP(&registryDir, "registry-dir", "", "", "Directory for the sqlite load registry")
}

func main() {
	// .env is optional; flags and real env still apply without it.
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

// Resolves config from file, environment and flags (flags win), then
// builds the board and loads the feed archive.
func loadBoard() (*tablica.Board, registry.Registry, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}

	if feedPath != "" {
		cfg.FeedPath = feedPath
	}
	if timezone != "" {
		cfg.Timezone = timezone
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

	if cfg.FeedPath == "" {
		return nil, nil, fmt.Errorf("feed archive path is required (--feed, TABLICA_FEED or feed_path)")
	}

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))

	reg, err := openRegistry(cfg)
	if err != nil {
		return nil, nil, err
	}

	board, err := tablica.NewBoard(cfg.Timezone, logger, reg)
	if err != nil {
		return nil, nil, err
	}

	if _, err := board.Load(cfg.FeedPath); err != nil {
		return nil, nil, fmt.Errorf("loading feed: %w", err)
	}

	return board, reg, nil
}

func openRegistry(cfg *config.Config) (registry.Registry, error) {
	switch cfg.Registry.Driver {
	case "":
		return nil, nil
	case "sqlite":
		dir := cfg.Registry.Directory
		if dir == "" {
			dir = "."
		}
		return registry.NewSQLiteRegistry(registry.SQLiteConfig{OnDisk: true, Directory: dir})
	case "postgres":
		if cfg.Registry.DSN == "" {
			return nil, fmt.Errorf("postgres registry requires a DSN")
		}
		return registry.NewPSQLRegistry(cfg.Registry.DSN, false)
	default:
		return nil, fmt.Errorf("unknown registry driver '%s'", cfg.Registry.Driver)
	}
}
