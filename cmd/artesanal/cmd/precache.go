package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"artesanal/internal/cache"
)

var precacheCmd = &cobra.Command{
	Use:   "precache [urls...]",
	Short: "Warm the offline caches",
	Long:  "Fetch the precache manifest (or the given URLs) from the upstream origin into the static partition, then retire stale partitions.",
	RunE:  runPrecache,
}

func init() {
	rootCmd.AddCommand(precacheCmd)
}

func runPrecache(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := newLogger()

	manifest := cfg.PrecacheManifest
	if len(args) > 0 {
		manifest = args
	}

	store, err := openCacheStore(cfg)
	if err != nil {
		return err
	}
	fetcher, err := cache.NewUpstreamFetcher(cfg.UpstreamOrigin)
	if err != nil {
		return fmt.Errorf("upstream origin: %w", err)
	}

	if err := cache.Install(cmd.Context(), store, fetcher, manifest, log); err != nil {
		return err
	}
	if err := cache.Activate(cmd.Context(), store, log); err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "Precached %d resources.\n", len(manifest))
	return nil
}
