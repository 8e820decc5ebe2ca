// Package config loads service configuration from defaults, an optional
// YAML file, and ODCPLANE_-prefixed environment variables.
package config

import "time"

// Config is the root configuration for the service and CLI.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Registry  RegistryConfig  `mapstructure:"registry"`
	Catalog   CatalogConfig   `mapstructure:"catalog"`
	Discovery DiscoveryConfig `mapstructure:"discovery"`
	Engine    EngineConfig    `mapstructure:"engine"`
	Artifacts ArtifactsConfig `mapstructure:"artifacts"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// LoggingConfig configures the zap loggers.
type LoggingConfig struct {
	Level string `mapstructure:"level"`
	// Profile selects output shape: "structured" for JSON, "console"
	// for human-readable.
	Profile string `mapstructure:"profile"`
}

// RegistryConfig configures the persisted job registry.
type RegistryConfig struct {
	// Dir holds the registry snapshot file.
	Dir string `mapstructure:"dir"`
}

// CatalogConfig configures the collection metadata cache.
type CatalogConfig struct {
	// CacheDir holds per-collection entries and the listing file.
	CacheDir string `mapstructure:"cache_dir"`
	// SupplementaryDir holds operator-maintained overlay files.
	SupplementaryDir string `mapstructure:"supplementary_dir"`
}

// DiscoveryConfig configures the upstream datacube explorer client.
type DiscoveryConfig struct {
	Endpoint string        `mapstructure:"endpoint"`
	Timeout  time.Duration `mapstructure:"timeout"`
	// RateLimit caps upstream requests per second. Zero disables
	// limiting.
	RateLimit float64 `mapstructure:"rate_limit"`
}

// EngineConfig configures the local processing engine.
type EngineConfig struct {
	WorkerCommand string   `mapstructure:"worker_command"`
	WorkerArgs    []string `mapstructure:"worker_args"`
	ResultsDir    string   `mapstructure:"results_dir"`
}

// ArtifactsConfig selects and configures the result artifact store.
type ArtifactsConfig struct {
	// Backend is "fs" or "s3".
	Backend string            `mapstructure:"backend"`
	Dir     string            `mapstructure:"dir"`
	S3      ArtifactsS3Config `mapstructure:"s3"`
}

// ArtifactsS3Config configures the S3 artifact backend.
type ArtifactsS3Config struct {
	Bucket         string `mapstructure:"bucket"`
	Prefix         string `mapstructure:"prefix"`
	Region         string `mapstructure:"region"`
	Endpoint       string `mapstructure:"endpoint"`
	Profile        string `mapstructure:"profile"`
	ForcePathStyle bool   `mapstructure:"force_path_style"`
}
