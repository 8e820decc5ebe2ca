package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/fulmenhq/gofulmen/foundry"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/odcplane/odcplane/internal/config"
	"github.com/odcplane/odcplane/internal/observability"
	"github.com/odcplane/odcplane/internal/server"
	"github.com/odcplane/odcplane/internal/server/handlers"
	"github.com/odcplane/odcplane/pkg/artifact"
	"github.com/odcplane/odcplane/pkg/catalog"
	"github.com/odcplane/odcplane/pkg/controller"
	"github.com/odcplane/odcplane/pkg/discovery"
	"github.com/odcplane/odcplane/pkg/engine"
	"github.com/odcplane/odcplane/pkg/jobregistry"
	"github.com/odcplane/odcplane/pkg/resolver"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the control-plane HTTP server",
	Long: `Run the HTTP API for job submission, cancellation, collection
metadata, and result retrieval.

The server persists job records and collection metadata under the
configured data directories and shuts down gracefully on SIGINT or
SIGTERM.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := loadConfig()
	if err != nil {
		return exitError(foundry.ExitInvalidArgument, "Invalid configuration", err)
	}

	if err := observability.InitServerLogger(cfg.Logging.Level); err != nil {
		return exitError(foundry.ExitInvalidArgument, "Invalid log level", err)
	}
	logger := observability.ServerLogger

	deps, cleanup, err := buildServerDeps(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	handlers.InitHealthManager(versionInfo.Version)
	manager := handlers.GetHealthManager()
	manager.RegisterChecker("signals", signalHealthChecker{})
	manager.RegisterChecker("registry", dirHealthChecker{dir: cfg.Registry.Dir})
	manager.RegisterChecker("results", dirHealthChecker{dir: cfg.Engine.ResultsDir})

	srv := server.New(cfg.Server.Host, cfg.Server.Port, *deps)

	logger.Info("starting server",
		zap.String("addr", srv.Addr()),
		zap.String("version", versionInfo.Version))

	if err := srv.Run(ctx); err != nil {
		return exitError(foundry.ExitExternalServiceUnavailable, "Server failed", err)
	}

	logger.Info("server stopped")
	return nil
}

// buildServerDeps wires storage, engine, discovery, and cache into the
// HTTP handler set.
func buildServerDeps(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*server.Deps, func(), error) {
	noop := func() {}

	store := jobregistry.NewFileStore(cfg.Registry.Dir)
	registry, err := jobregistry.New(store)
	if err != nil {
		return nil, noop, exitError(foundry.ExitFileReadError, "Failed to open job registry", err)
	}

	eng, err := engine.NewLocal(engine.LocalConfig{
		WorkerCommand: cfg.Engine.WorkerCommand,
		WorkerArgs:    cfg.Engine.WorkerArgs,
		ResultsDir:    cfg.Engine.ResultsDir,
	}, logger)
	if err != nil {
		return nil, noop, exitError(foundry.ExitInvalidArgument, "Invalid engine configuration", err)
	}

	ctrl, err := controller.New(eng, registry, logger)
	if err != nil {
		return nil, noop, exitError(foundry.ExitInvalidArgument, "Failed to build controller", err)
	}

	client, err := discovery.NewClient(discovery.Config{
		Endpoint:  cfg.Discovery.Endpoint,
		Timeout:   cfg.Discovery.Timeout,
		RateLimit: cfg.Discovery.RateLimit,
	})
	if err != nil {
		return nil, noop, exitError(foundry.ExitInvalidArgument, "Invalid discovery configuration", err)
	}

	res, err := resolver.New(client, resolver.Config{
		SupplementaryDir: cfg.Catalog.SupplementaryDir,
	}, logger)
	if err != nil {
		return nil, noop, exitError(foundry.ExitInvalidArgument, "Failed to build resolver", err)
	}

	cache, err := catalog.New(catalog.NewFileStore(cfg.Catalog.CacheDir), res, client, logger)
	if err != nil {
		return nil, noop, exitError(foundry.ExitInvalidArgument, "Failed to build catalog cache", err)
	}

	artifacts, err := buildArtifactStore(ctx, cfg)
	if err != nil {
		return nil, noop, err
	}
	cleanup := func() { _ = artifacts.Close() }

	deps := &server.Deps{
		Jobs:        handlers.NewJobsHandler(ctrl),
		Collections: handlers.NewCollectionsHandler(cache),
		Results:     handlers.NewResultsHandler(artifacts),
		Version: handlers.VersionInfo{
			Version:   versionInfo.Version,
			Commit:    versionInfo.Commit,
			BuildDate: versionInfo.BuildDate,
		},
		Timeouts: server.Timeouts{
			Read:     cfg.Server.ReadTimeout,
			Write:    cfg.Server.WriteTimeout,
			Idle:     cfg.Server.IdleTimeout,
			Shutdown: cfg.Server.ShutdownTimeout,
		},
	}
	return deps, cleanup, nil
}

func buildArtifactStore(ctx context.Context, cfg *config.Config) (artifact.Store, error) {
	switch cfg.Artifacts.Backend {
	case "", "fs":
		dir := cfg.Artifacts.Dir
		if dir == "" {
			dir = cfg.Engine.ResultsDir
		}
		store, err := artifact.NewFSStore(dir)
		if err != nil {
			return nil, exitError(foundry.ExitFileWriteError, "Failed to open artifact store", err)
		}
		return store, nil
	case "s3":
		store, err := artifact.NewS3Store(ctx, artifact.S3Config{
			Bucket:         cfg.Artifacts.S3.Bucket,
			Prefix:         cfg.Artifacts.S3.Prefix,
			Region:         cfg.Artifacts.S3.Region,
			Endpoint:       cfg.Artifacts.S3.Endpoint,
			Profile:        cfg.Artifacts.S3.Profile,
			ForcePathStyle: cfg.Artifacts.S3.ForcePathStyle,
		})
		if err != nil {
			return nil, exitError(foundry.ExitExternalServiceUnavailable, "Failed to connect to artifact store", err)
		}
		return store, nil
	default:
		return nil, exitError(foundry.ExitInvalidArgument, "Invalid artifacts backend",
			fmt.Errorf("unsupported backend: %s", cfg.Artifacts.Backend))
	}
}

// signalHealthChecker reports signal handling readiness. Signal wiring
// happens in Execute, so this always passes once the process is up.
type signalHealthChecker struct{}

func (signalHealthChecker) CheckHealth(ctx context.Context) error {
	return nil
}

// dirHealthChecker verifies a data directory exists and is writable.
type dirHealthChecker struct {
	dir string
}

func (c dirHealthChecker) CheckHealth(ctx context.Context) error {
	if c.dir == "" {
		return fmt.Errorf("data directory not configured")
	}
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return fmt.Errorf("data directory unavailable: %w", err)
	}
	probe, err := os.CreateTemp(c.dir, ".health-*")
	if err != nil {
		return fmt.Errorf("data directory not writable: %w", err)
	}
	name := probe.Name()
	_ = probe.Close()
	_ = os.Remove(name)
	return nil
}
