package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/fulmenhq/gofulmen/foundry"
	"github.com/spf13/cobra"

	"github.com/odcplane/odcplane/internal/observability"
	"github.com/odcplane/odcplane/pkg/catalog"
	"github.com/odcplane/odcplane/pkg/discovery"
	"github.com/odcplane/odcplane/pkg/resolver"
)

var collectionsCmd = &cobra.Command{
	Use:   "collections",
	Short: "Inspect and refresh collection metadata",
	Long: `Resolve, inspect, and refresh cached collection metadata.

Entries are cached on disk after first resolution. Use refresh to
discard a cached entry and re-resolve it from the upstream explorer.`,
}

var collectionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all collections",
	RunE:  runCollectionsList,
}

var collectionsDescribeCmd = &cobra.Command{
	Use:   "describe <name>",
	Short: "Show the full description for a collection",
	Args:  cobra.ExactArgs(1),
	RunE:  runCollectionsDescribe,
}

var collectionsRefreshCmd = &cobra.Command{
	Use:   "refresh <pattern>",
	Short: "Invalidate cached entries matching a glob pattern",
	Args:  cobra.ExactArgs(1),
	RunE:  runCollectionsRefresh,
}

func init() {
	rootCmd.AddCommand(collectionsCmd)
	collectionsCmd.AddCommand(collectionsListCmd)
	collectionsCmd.AddCommand(collectionsDescribeCmd)
	collectionsCmd.AddCommand(collectionsRefreshCmd)
}

func openCatalog() (*catalog.Cache, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, exitError(foundry.ExitInvalidArgument, "Invalid configuration", err)
	}

	client, err := discovery.NewClient(discovery.Config{
		Endpoint:  cfg.Discovery.Endpoint,
		Timeout:   cfg.Discovery.Timeout,
		RateLimit: cfg.Discovery.RateLimit,
	})
	if err != nil {
		return nil, exitError(foundry.ExitInvalidArgument, "Invalid discovery configuration", err)
	}

	res, err := resolver.New(client, resolver.Config{
		SupplementaryDir: cfg.Catalog.SupplementaryDir,
	}, observability.CLILogger)
	if err != nil {
		return nil, exitError(foundry.ExitInvalidArgument, "Failed to build resolver", err)
	}

	cache, err := catalog.New(catalog.NewFileStore(cfg.Catalog.CacheDir), res, client, observability.CLILogger)
	if err != nil {
		return nil, exitError(foundry.ExitInvalidArgument, "Failed to build catalog cache", err)
	}
	return cache, nil
}

func runCollectionsList(cmd *cobra.Command, args []string) error {
	cache, err := openCatalog()
	if err != nil {
		return err
	}

	listing, err := cache.List(cmd.Context())
	if err != nil {
		return exitError(foundry.ExitExternalServiceUnavailable, "Failed to list collections", err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(listing)
}

func runCollectionsDescribe(cmd *cobra.Command, args []string) error {
	cache, err := openCatalog()
	if err != nil {
		return err
	}

	col, err := cache.Get(cmd.Context(), args[0])
	if err != nil {
		if discovery.IsNotFound(err) {
			return exitError(foundry.ExitInvalidArgument, "Unknown collection", err)
		}
		return exitError(foundry.ExitExternalServiceUnavailable, "Failed to describe collection", err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(col)
}

func runCollectionsRefresh(cmd *cobra.Command, args []string) error {
	cache, err := openCatalog()
	if err != nil {
		return err
	}

	n, err := cache.Invalidate(args[0])
	if err != nil {
		return exitError(foundry.ExitInvalidArgument, "Invalid pattern", err)
	}

	fmt.Printf("invalidated %d cached entries\n", n)
	return nil
}
