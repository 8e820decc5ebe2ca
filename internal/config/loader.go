package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix for environment overrides, e.g.
// ODCPLANE_SERVER_PORT.
const EnvPrefix = "ODCPLANE"

// Load builds the configuration from defaults, the optional config file
// at path, and environment overrides. An empty path searches the working
// directory and $HOME/.odcplane for an odcplane.yaml file; a missing
// search-path file is not an error, a missing explicit path is.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		v.SetConfigName("odcplane")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.odcplane")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	var cfg Config
	hook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	))
	if err := v.Unmarshal(&cfg, hook); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.idle_timeout", "120s")
	v.SetDefault("server.shutdown_timeout", "10s")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.profile", "structured")

	v.SetDefault("registry.dir", "data/registry")

	v.SetDefault("catalog.cache_dir", "data/catalog")
	v.SetDefault("catalog.supplementary_dir", "data/supplementary")

	v.SetDefault("discovery.endpoint", "http://localhost:9000")
	v.SetDefault("discovery.timeout", "30s")
	v.SetDefault("discovery.rate_limit", 0.0)

	v.SetDefault("engine.worker_command", "openeo-worker")
	v.SetDefault("engine.worker_args", []string{})
	v.SetDefault("engine.results_dir", "data/results")

	v.SetDefault("artifacts.backend", "fs")
	v.SetDefault("artifacts.dir", "data/results")
	v.SetDefault("artifacts.s3.force_path_style", false)
}
