// Package core wires process-level infrastructure shared by every component:
// the layered YAML configuration provider and the zap logger built from it.
package core

import (
	"fmt"
	"os"
	"path/filepath"

	uber_config "go.uber.org/config"
	"go.uber.org/fx"
)

const (
	_configDirEnv     = "PAIRD_CONFIG_DIR"
	_defaultConfigDir = "src/paird/config"
	_metaFile         = "meta.yaml"
)

// ConfigModule provides the configuration provider.
var ConfigModule = fx.Options(
	fx.Provide(NewConfig),
)

// Config wraps the merged YAML provider.
type Config struct {
	provider uber_config.Provider
}

// Get returns the value at the given dotted path.
func (c Config) Get(path string) uber_config.Value {
	return c.provider.Get(path)
}

// Name implements config.Provider.
func (c Config) Name() string {
	return "config"
}

// NewConfig loads the layered configuration. meta.yaml in the config
// directory names the layer files; later layers override earlier ones, and
// layers that do not exist on disk (local overrides, secrets) are skipped.
func NewConfig() (uber_config.Provider, error) {
	configDir := getConfigDir()

	metaProvider, err := uber_config.NewYAML(
		uber_config.File(filepath.Join(configDir, _metaFile)),
		uber_config.Expand(os.LookupEnv),
	)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", _metaFile, err)
	}

	var layers []string
	if err := metaProvider.Get("files").Populate(&layers); err != nil {
		return nil, fmt.Errorf("reading files list from %s: %w", _metaFile, err)
	}

	var options []uber_config.YAMLOption
	for _, layer := range layers {
		fullPath := filepath.Join(configDir, layer)
		if _, err := os.Stat(fullPath); err == nil {
			options = append(options, uber_config.File(fullPath))
		}
	}
	if len(options) == 0 {
		return nil, fmt.Errorf("no configuration files found in %s", configDir)
	}

	// Environment variable references expand across all layers.
	options = append(options, uber_config.Expand(os.LookupEnv))

	provider, err := uber_config.NewYAML(options...)
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}

	return Config{provider: provider}, nil
}

// getConfigDir returns the configuration directory, preferring the
// environment override. The default assumes the daemon runs from the
// workspace root.
func getConfigDir() string {
	if configDir := os.Getenv(_configDirEnv); configDir != "" {
		return configDir
	}
	return _defaultConfigDir
}
